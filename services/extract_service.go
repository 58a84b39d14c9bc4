// services/extract_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/logger"
)

const maxExtractedCompanies = 10

// Line markers used by the heuristic extractor when no LLM is available.
var extractionMarkers = []string{"company", "brand", "service", "store", "manufacturer", "platform"}

// CompanyExtractionResponse is the structured output for company extraction.
type CompanyExtractionResponse struct {
	Companies []string `json:"companies" jsonschema_description:"Names of companies, brands and products mentioned in the text"`
}

var companyExtractionSchema = GenerateSchema[CompanyExtractionResponse]()

type extractService struct {
	hasKey     bool
	structured AIProvider
	plain      AIProvider
	gateway    *LLMGateway
	log        *logger.Logger
}

func NewExtractService(cfg *config.Config, costService CostService, gateway *LLMGateway, log *logger.Logger) ExtractService {
	extractionCfg := config.LLMConfig{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.ExtractionModel,
		Temperature: cfg.ExtractionTemperature,
		MaxTokens:   cfg.ExtractionMaxTokens,
	}
	generationCfg := config.LLMConfig{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.ExtractionModel,
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	return &extractService{
		hasKey:     cfg.OpenAI.APIKey != "",
		structured: newExtractionProvider(extractionCfg, costService),
		plain:      NewOpenAIProvider(generationCfg, costService),
		gateway:    gateway,
		log:        log.With("service", "ExtractService"),
	}
}

// ExtractCompanies finds company and brand names in answer text. It asks
// the extraction model first and falls back to a line-marker heuristic
// when no key is configured or the call fails.
func (s *extractService) ExtractCompanies(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	if !s.hasKey {
		return heuristicCompanies(text), nil
	}

	prompt := fmt.Sprintf(`Find all mentions of companies, products, brands and commercial names in this text.
Return only the list of names, with no extra text or explanations.

Text:
%s`, text)

	result, err := s.gateway.Fetch(ctx, s.structured, prompt)
	if err != nil {
		s.log.Warn("extraction call failed, using heuristic fallback", "error", err)
		return heuristicCompanies(text), nil
	}

	return normalizeCompanies(parseExtractedCompanies(result.Text)), nil
}

// GenerateKeywords asks the LLM for search queries a user might type when
// looking for the given brand's products or services.
func (s *extractService) GenerateKeywords(ctx context.Context, brandName, brandDescription string, count int) ([]string, error) {
	if !s.hasKey {
		return nil, errors.New("keyword generation requires an OpenAI API key")
	}
	if count <= 0 {
		count = 50
	}

	prompt := fmt.Sprintf(`You are an SEO expert. Based on the company name and description below, create a list of %d search queries users might type when looking for information in this space.

Company name: %s
Description: %s

Requirements:
1. Queries must be relevant to the company's field
2. Include both commercial and informational queries
3. Use varied phrasing and synonyms
4. One query per line, without numbering

Search queries:`, count, brandName, brandDescription)

	result, err := s.gateway.Fetch(ctx, s.plain, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keywords: %w", err)
	}

	keywords := []string{}
	for _, line := range strings.Split(result.Text, "\n") {
		keyword := strings.TrimSpace(line)
		if keyword == "" || isNumeric(keyword) || len(keyword) <= 3 {
			continue
		}
		keywords = append(keywords, keyword)
		if len(keywords) >= count {
			break
		}
	}
	return keywords, nil
}

// parseExtractedCompanies prefers the structured JSON shape and falls
// back to comma splitting when the model ignored the schema.
func parseExtractedCompanies(text string) []string {
	var structured CompanyExtractionResponse
	if err := json.Unmarshal([]byte(text), &structured); err == nil && len(structured.Companies) > 0 {
		return structured.Companies
	}
	return strings.Split(text, ",")
}

func normalizeCompanies(raw []string) []string {
	companies := []string{}
	seen := map[string]bool{}
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if len(name) <= 2 || seen[name] {
			continue
		}
		seen[name] = true
		companies = append(companies, name)
		if len(companies) >= maxExtractedCompanies {
			break
		}
	}
	return companies
}

// heuristicCompanies scans for commerce markers and takes the text before
// the first " - " separator as the candidate name, stripping any leading
// list ordinal.
func heuristicCompanies(text string) []string {
	companies := []string{}
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		matched := false
		for _, marker := range extractionMarkers {
			if strings.Contains(lower, marker) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		candidate := strings.TrimSpace(strings.SplitN(line, " - ", 2)[0])
		if idx := strings.LastIndex(candidate, ". "); idx != -1 {
			candidate = candidate[idx+2:]
		}
		candidate = strings.TrimSpace(candidate)
		if len(candidate) <= 2 || seen[candidate] {
			continue
		}
		seen[candidate] = true
		companies = append(companies, candidate)
		if len(companies) >= maxExtractedCompanies {
			break
		}
	}
	return companies
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// extractionProvider is an OpenAI adapter that requests the company list
// as structured output so the response parses reliably.
type extractionProvider struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
	costService CostService
}

func newExtractionProvider(cfg config.LLMConfig, costService CostService) AIProvider {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	return &extractionProvider{
		client:      &client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		costService: costService,
	}
}

func (p *extractionProvider) Name() string {
	return "openai-extraction"
}

func (p *extractionProvider) Model() string {
	return p.model
}

func (p *extractionProvider) Temperature() float64 {
	return p.temperature
}

func (p *extractionProvider) Fetch(ctx context.Context, prompt string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, providerRequestTimeout)
	defer cancel()

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "company_extraction",
		Description: openai.String("Companies and brands mentioned in the text"),
		Schema:      companyExtractionSchema,
		Strict:      openai.Bool(true),
	}

	response, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(p.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
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
		Cost:         p.costService.CalculateCost("openai", p.model, int(response.Usage.PromptTokens), int(response.Usage.CompletionTokens)),
	}, nil
}
