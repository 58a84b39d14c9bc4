// services/gemini_provider.go
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

type geminiProvider struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	maxTokens   int
	costService CostService
	httpClient  *http.Client
}

func NewGeminiProvider(cfg config.LLMConfig, costService CostService) AIProvider {
	return &geminiProvider{
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

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Model() string {
	return p.model
}

func (p *geminiProvider) Temperature() float64 {
	return p.temperature
}

// Gemini API request structures
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Gemini API response structures
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func (p *geminiProvider) Fetch(ctx context.Context, prompt string) (*FetchResult, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     p.temperature,
			MaxOutputTokens: p.maxTokens,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	// Gemini authenticates with the key as a query parameter.
	url := fmt.Sprintf("%s?key=%s", p.apiURL, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: "failed to read response body"}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: string(body)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: "no candidates in response"}
	}

	return &FetchResult{
		Text:         parsed.Candidates[0].Content.Parts[0].Text,
		InputTokens:  parsed.UsageMetadata.PromptTokenCount,
		OutputTokens: parsed.UsageMetadata.CandidatesTokenCount,
		Cost:         p.costService.CalculateCost(p.Name(), p.model, parsed.UsageMetadata.PromptTokenCount, parsed.UsageMetadata.CandidatesTokenCount),
	}, nil
}
