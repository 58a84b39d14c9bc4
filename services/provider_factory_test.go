// services/provider_factory_test.go
package services

import (
	"errors"
	"testing"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/models"
)

func factoryConfig() *config.Config {
	return &config.Config{
		OpenAI: config.LLMConfig{
			APIKey: "env-openai-key",
			APIURL: "https://api.openai.com/v1/chat/completions",
			Model:  "gpt-4o-mini",
		},
		Grok: config.LLMConfig{
			APIURL: "https://api.x.ai/v1/chat/completions",
			Model:  "grok-beta",
		},
	}
}

func TestForRecordMissingKey(t *testing.T) {
	factory := NewProviderFactory(factoryConfig(), NewCostService())

	_, err := factory.ForRecord(&models.LLMProvider{Name: "grok"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestForRecordEnvDefaults(t *testing.T) {
	factory := NewProviderFactory(factoryConfig(), NewCostService())

	provider, err := factory.ForRecord(&models.LLMProvider{Name: "OpenAI"})
	if err != nil {
		t.Fatal(err)
	}
	if provider.Name() != "openai" {
		t.Errorf("unexpected provider name: %q", provider.Name())
	}
	if provider.Model() != "gpt-4o-mini" {
		t.Errorf("expected environment default model, got %q", provider.Model())
	}
}

func TestForRecordRowOverridesEnv(t *testing.T) {
	factory := NewProviderFactory(factoryConfig(), NewCostService())

	provider, err := factory.ForRecord(&models.LLMProvider{
		Name:  "openai",
		Model: "gpt-4o",
	})
	if err != nil {
		t.Fatal(err)
	}
	if provider.Model() != "gpt-4o" {
		t.Errorf("expected the row model to win, got %q", provider.Model())
	}
}

func TestForRecordCustomProvider(t *testing.T) {
	factory := NewProviderFactory(factoryConfig(), NewCostService())

	provider, err := factory.ForRecord(&models.LLMProvider{
		Name:   "my-gateway",
		APIKey: "row-key",
		APIURL: "https://llm.internal/v1/chat/completions",
		Model:  "llama-3",
	})
	if err != nil {
		t.Fatal(err)
	}
	if provider.Name() != "my-gateway" {
		t.Errorf("unexpected provider name: %q", provider.Name())
	}
}

func TestForRecordCustomProviderNeedsURL(t *testing.T) {
	factory := NewProviderFactory(factoryConfig(), NewCostService())

	_, err := factory.ForRecord(&models.LLMProvider{
		Name:   "my-gateway",
		APIKey: "row-key",
	})
	if err == nil {
		t.Fatal("expected an error for a custom provider without api_url")
	}
}
