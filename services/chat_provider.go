// services/chat_provider.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rankscope/rankscope-backend/internal/config"
)

// chatProvider talks to any OpenAI-compatible chat-completions endpoint.
// Grok, Mistral and Perplexity all share this wire format, as do most
// self-hosted gateways, so a provider row with a custom api_url works too.
type chatProvider struct {
	name        string
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	maxTokens   int
	costService CostService
	httpClient  *http.Client
}

func NewChatProvider(name string, cfg config.LLMConfig, costService CostService) AIProvider {
	return &chatProvider{
		name:        name,
		apiKey:      cfg.APIKey,
		apiURL:      cfg.APIURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		costService: costService,
		httpClient: &http.Client{
			Timeout: providerRequestTimeout,
		},
	}
}

func (p *chatProvider) Name() string {
	return p.name
}

func (p *chatProvider) Model() string {
	return p.model
}

func (p *chatProvider) Temperature() float64 {
	return p.temperature
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (p *chatProvider) Fetch(ctx context.Context, prompt string) (*FetchResult, error) {
	payload := chatCompletionRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: p.name, Message: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &ProviderError{Provider: p.name, Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.name, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: p.name, StatusCode: resp.StatusCode, Message: "failed to read response body"}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.name, StatusCode: resp.StatusCode, Message: string(body)}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ProviderError{Provider: p.name, StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if len(parsed.Choices) == 0 {
		return nil, &ProviderError{Provider: p.name, StatusCode: resp.StatusCode, Message: "no choices in response"}
	}

	return &FetchResult{
		Text:         parsed.Choices[0].Message.Content,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
		Cost:         p.costService.CalculateCost(p.name, p.model, parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens),
	}, nil
}
