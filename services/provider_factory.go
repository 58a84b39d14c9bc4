// services/provider_factory.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/models"
)

// ErrMissingAPIKey marks a provider that is active but has no credential.
// The batch driver skips these with a warning instead of failing the run.
var ErrMissingAPIKey = errors.New("provider api key not configured")

// ProviderFactory builds an AIProvider for a stored provider row, merging
// the row's settings over the environment defaults for that provider.
type ProviderFactory struct {
	cfg         *config.Config
	costService CostService
}

func NewProviderFactory(cfg *config.Config, costService CostService) *ProviderFactory {
	return &ProviderFactory{cfg: cfg, costService: costService}
}

func (f *ProviderFactory) ForRecord(record *models.LLMProvider) (AIProvider, error) {
	name := strings.ToLower(strings.TrimSpace(record.Name))

	llmCfg, known := f.cfg.LLMConfigByName(name)
	if !known {
		llmCfg = config.LLMConfig{MaxTokens: 2000, Temperature: 0.7}
	}

	// Row settings win over environment defaults.
	if record.APIURL != "" {
		llmCfg.APIURL = record.APIURL
	}
	if record.APIKey != "" {
		llmCfg.APIKey = record.APIKey
	}
	if record.Model != "" {
		llmCfg.Model = record.Model
	}

	if llmCfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, record.Name)
	}

	switch name {
	case "openai":
		return NewOpenAIProvider(llmCfg, f.costService), nil
	case "anthropic":
		return NewAnthropicProvider(llmCfg, f.costService), nil
	case "gemini":
		return NewGeminiProvider(llmCfg, f.costService), nil
	default:
		// Everything else speaks the OpenAI-compatible chat format.
		if llmCfg.APIURL == "" {
			return nil, fmt.Errorf("provider %q has no api_url configured", record.Name)
		}
		return NewChatProvider(name, llmCfg, f.costService), nil
	}
}
