// services/interfaces.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"

	"github.com/rankscope/rankscope-backend/internal/database"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
	"github.com/rankscope/rankscope-backend/internal/repos/postgres"
)

// RepositoryManager manages all database repositories
type RepositoryManager struct {
	db             *database.Client
	beginTx        func(ctx context.Context) (repos.Tx, error)
	UserRepo       repos.UserRepo
	GroupRepo      repos.KeywordGroupRepo
	KeywordRepo    repos.KeywordRepo
	ProviderRepo   repos.ProviderRepo
	SerpRepo       repos.SerpRepo
	CompanyRepo    repos.CompanyRepo
	ProjectRepo    repos.BrandProjectRepo
	CompetitorRepo repos.CompetitorRepo
	MentionRepo    repos.MentionRepo
}

// NewRepositoryManager creates a new repository manager with all repositories
func NewRepositoryManager(db *database.Client) *RepositoryManager {
	return &RepositoryManager{
		db:             db,
		UserRepo:       postgres.NewUserRepo(),
		GroupRepo:      postgres.NewKeywordGroupRepo(),
		KeywordRepo:    postgres.NewKeywordRepo(),
		ProviderRepo:   postgres.NewProviderRepo(),
		SerpRepo:       postgres.NewSerpRepo(),
		CompanyRepo:    postgres.NewCompanyRepo(),
		ProjectRepo:    postgres.NewBrandProjectRepo(),
		CompetitorRepo: postgres.NewCompetitorRepo(),
		MentionRepo:    postgres.NewMentionRepo(),
	}
}

// DB returns the connection pool as a Querier for non-transactional calls.
func (rm *RepositoryManager) DB() repos.Querier {
	return rm.db.DB
}

// BeginTx starts a database transaction
func (rm *RepositoryManager) BeginTx(ctx context.Context) (repos.Tx, error) {
	if rm.beginTx != nil {
		return rm.beginTx(ctx)
	}
	return rm.db.BeginTxx(ctx, nil)
}

// ProviderError is returned when an LLM provider call fails. StatusCode
// is the upstream HTTP status, or 0 when the request never completed.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

// AIProvider is the normalized contract over heterogeneous LLM APIs.
type AIProvider interface {
	Name() string
	Model() string
	Temperature() float64
	Fetch(ctx context.Context, prompt string) (*FetchResult, error)
}

// FetchResult contains the normalized response from an AI provider.
type FetchResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// UpdateSummary reports one batch run of the SERP updater.
type UpdateSummary struct {
	TotalPairs int      `json:"total_pairs"`
	Processed  int      `json:"processed"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// SerpUpdateService drives the keyword x provider refresh batch.
type SerpUpdateService interface {
	UpdateSerpData(ctx context.Context, groupID *uuid.UUID) (*UpdateSummary, error)
	RunContinuous(ctx context.Context)
}

// ExtractService pulls company names out of answer text and generates
// keyword suggestions for brand projects.
type ExtractService interface {
	ExtractCompanies(ctx context.Context, text string) ([]string, error)
	GenerateKeywords(ctx context.Context, brandName, brandDescription string, count int) ([]string, error)
}

// CompetitorMention is the per-competitor outcome of a mention analysis.
type CompetitorMention struct {
	Name      string
	Mentioned bool
	Position  *int
}

// MentionAnalysis is the outcome of scanning one answer for one project.
type MentionAnalysis struct {
	BrandMentioned bool
	BrandPosition  *int
	Competitors    []CompetitorMention
	Confidence     int
}

// MentionAnalyzer detects brand and competitor mentions in answer text.
type MentionAnalyzer interface {
	Analyze(content, brandName string, competitors []string) *MentionAnalysis
}

// SerpWithCompanies pairs a stored answer with its extracted companies.
type SerpWithCompanies struct {
	Serp      *models.SerpResult    `json:"serp"`
	Companies []*models.SerpCompany `json:"companies"`
}

// KeywordAnalytics is the per-keyword drilldown.
type KeywordAnalytics struct {
	Keyword *models.Keyword      `json:"keyword"`
	Results []*SerpWithCompanies `json:"results"`
}

// GroupAnalytics is the per-group rollup of keyword drilldowns.
type GroupAnalytics struct {
	Group    *models.KeywordGroup `json:"group"`
	Keywords []*KeywordAnalytics  `json:"keywords"`
}

// ProjectAnalytics is the brand visibility report for one project.
type ProjectAnalytics struct {
	ProjectID            uuid.UUID                `json:"project_id"`
	BrandName            string                   `json:"brand_name"`
	TotalQueries         int                      `json:"total_queries"`
	BrandMentions        int                      `json:"brand_mentions"`
	CompetitorMentions   int                      `json:"competitor_mentions"`
	BrandVisibility      float64                  `json:"brand_visibility"`
	CompetitorVisibility float64                  `json:"competitor_visibility"`
	TopCompetitors       []*repos.CompetitorCount `json:"top_competitors"`
	RecentMentions       []*models.BrandMention   `json:"recent_mentions"`
}

// GroupAnalysisSummary is returned by the group-scoped analysis trigger.
type GroupAnalysisSummary struct {
	GroupID   uuid.UUID           `json:"group_id"`
	Update    *UpdateSummary      `json:"update"`
	Projects  []*ProjectAnalytics `json:"projects"`
	Companies []string            `json:"companies"`
}

// Stats is the global counters snapshot.
type Stats struct {
	Keywords    int `json:"keywords"`
	Groups      int `json:"groups"`
	SerpResults int `json:"serp_results"`
	Companies   int `json:"companies"`
}

// AnalyticsService computes visibility reports and counters.
type AnalyticsService interface {
	ProjectAnalytics(ctx context.Context, projectID uuid.UUID) (*ProjectAnalytics, error)
	KeywordAnalytics(ctx context.Context, keywordID uuid.UUID) (*KeywordAnalytics, error)
	GroupAnalytics(ctx context.Context, groupID uuid.UUID) (*GroupAnalytics, error)
	Stats(ctx context.Context) (*Stats, error)
}

// AuthService issues and validates bearer tokens.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// CostService estimates the dollar cost of one provider call.
type CostService interface {
	CalculateCost(provider, model string, inputTokens, outputTokens int) float64
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var zero T
	return reflector.Reflect(zero)
}
