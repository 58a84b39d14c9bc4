// services/openai_provider.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rankscope/rankscope-backend/internal/config"
)

// providerRequestTimeout bounds every outbound LLM call.
const providerRequestTimeout = 60 * time.Second

type openAIProvider struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
	costService CostService
}

func NewOpenAIProvider(cfg config.LLMConfig, costService CostService) AIProvider {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	return &openAIProvider{
		client:      &client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		costService: costService,
	}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Model() string {
	return p.model
}

func (p *openAIProvider) Temperature() float64 {
	return p.temperature
}

func (p *openAIProvider) Fetch(ctx context.Context, prompt string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, providerRequestTimeout)
	defer cancel()

	response, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(int64(p.maxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: p.Name(), StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, &ProviderError{Provider: p.Name(), Message: err.Error()}
	}

	if len(response.Choices) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Message: "no response choices returned"}
	}

	return &FetchResult{
		Text:         response.Choices[0].Message.Content,
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		Cost:         p.costService.CalculateCost(p.Name(), p.model, int(response.Usage.PromptTokens), int(response.Usage.CompletionTokens)),
	}, nil
}
