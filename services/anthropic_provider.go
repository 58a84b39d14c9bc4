// services/anthropic_provider.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rankscope/rankscope-backend/internal/config"
)

type anthropicProvider struct {
	client      *anthropic.Client
	model       string
	temperature float64
	maxTokens   int
	costService CostService
}

func NewAnthropicProvider(cfg config.LLMConfig, costService CostService) AIProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	return &anthropicProvider{
		client:      &client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		costService: costService,
	}
}

func (p *anthropicProvider) Name() string {
	return "anthropic"
}

func (p *anthropicProvider) Model() string {
	return p.model
}

func (p *anthropicProvider) Temperature() float64 {
	return p.temperature
}

func (p *anthropicProvider) Fetch(ctx context.Context, prompt string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, providerRequestTimeout)
	defer cancel()

	messages := []anthropic.MessageParam{{
		Content: []anthropic.ContentBlockParamUnion{{
			OfText: &anthropic.TextBlockParam{Text: prompt},
		}},
		Role: anthropic.MessageParamRoleUser,
	}}

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(p.maxTokens),
		Messages:    messages,
		Temperature: anthropic.Float(p.temperature),
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: p.Name(), StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return nil, &ProviderError{Provider: p.Name(), Message: err.Error()}
	}

	text := p.extractResponseText(*response)
	if text == "" {
		return nil, &ProviderError{Provider: p.Name(), Message: "no text content in response"}
	}

	return &FetchResult{
		Text:         text,
		InputTokens:  int(response.Usage.InputTokens),
		OutputTokens: int(response.Usage.OutputTokens),
		Cost:         p.costService.CalculateCost(p.Name(), p.model, int(response.Usage.InputTokens), int(response.Usage.OutputTokens)),
	}, nil
}

func (p *anthropicProvider) extractResponseText(response anthropic.Message) string {
	var textParts []string

	for _, block := range response.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			textParts = append(textParts, variant.Text)
		}
	}

	return strings.Join(textParts, "")
}
