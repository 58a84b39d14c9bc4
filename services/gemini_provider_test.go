// services/gemini_provider_test.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rankscope/rankscope-backend/internal/config"
)

func TestGeminiProviderFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected key query parameter, got %q", r.URL.RawQuery)
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Errorf("unexpected request shape: %+v", req)
		}
		if req.GenerationConfig.MaxOutputTokens != 100 {
			t.Errorf("unexpected maxOutputTokens: %d", req.GenerationConfig.MaxOutputTokens)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "gemini answer"}},
				}},
			},
			"usageMetadata": map[string]int{"promptTokenCount": 5, "candidatesTokenCount": 9},
		})
	}))
	defer server.Close()

	provider := NewGeminiProvider(config.LLMConfig{
		APIKey:      "test-key",
		APIURL:      server.URL,
		Model:       "gemini-pro",
		MaxTokens:   100,
		Temperature: 0.7,
	}, NewCostService())

	result, err := provider.Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if result.Text != "gemini answer" {
		t.Errorf("unexpected text: %q", result.Text)
	}
	if result.InputTokens != 5 || result.OutputTokens != 9 {
		t.Errorf("unexpected usage: %d/%d", result.InputTokens, result.OutputTokens)
	}
}

func TestGeminiProviderUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusForbidden)
	}))
	defer server.Close()

	provider := NewGeminiProvider(config.LLMConfig{
		APIKey: "bad-key",
		APIURL: server.URL,
		Model:  "gemini-pro",
	}, NewCostService())

	_, err := provider.Fetch(context.Background(), "hello")
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if providerErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", providerErr.StatusCode)
	}
}

func TestGeminiProviderNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	provider := NewGeminiProvider(config.LLMConfig{
		APIKey: "test-key",
		APIURL: server.URL,
		Model:  "gemini-pro",
	}, NewCostService())

	_, err := provider.Fetch(context.Background(), "hello")
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}
