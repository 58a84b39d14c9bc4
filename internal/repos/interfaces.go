// internal/repos/interfaces.go
package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rankscope/rankscope-backend/internal/models"
)

// ErrNotFound is returned when a row does not exist. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx, so the same repo
// methods run inside or outside a transaction.
type Querier = sqlx.ExtContext

// Tx is the transactional subset of *sqlx.Tx the write paths need.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

type UserRepo interface {
	Create(ctx context.Context, q Querier, user *models.User) error
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, q Querier, email string) (*models.User, error)
}

type KeywordGroupRepo interface {
	Create(ctx context.Context, q Querier, group *models.KeywordGroup) error
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*models.KeywordGroup, error)
	ListByUser(ctx context.Context, q Querier, userID uuid.UUID) ([]*models.KeywordGroup, error)
	Update(ctx context.Context, q Querier, group *models.KeywordGroup) error
	Delete(ctx context.Context, q Querier, id uuid.UUID) error
	Count(ctx context.Context, q Querier) (int, error)
}

type KeywordRepo interface {
	Create(ctx context.Context, q Querier, keyword *models.Keyword) error
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*models.Keyword, error)
	ListActive(ctx context.Context, q Querier, groupID *uuid.UUID) ([]*models.Keyword, error)
	Update(ctx context.Context, q Querier, keyword *models.Keyword) error
	SoftDelete(ctx context.Context, q Querier, id uuid.UUID) error
	CountActive(ctx context.Context, q Querier) (int, error)
}

type ProviderRepo interface {
	Create(ctx context.Context, q Querier, provider *models.LLMProvider) error
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*models.LLMProvider, error)
	List(ctx context.Context, q Querier) ([]*models.LLMProvider, error)
	ListActive(ctx context.Context, q Querier) ([]*models.LLMProvider, error)
	Update(ctx context.Context, q Querier, provider *models.LLMProvider) error
	Delete(ctx context.Context, q Querier, id uuid.UUID) error
}

type SerpRepo interface {
	Create(ctx context.Context, q Querier, serp *models.SerpResult) error
	// GetRecent returns the newest result for the pair created after the
	// given time, or ErrNotFound when the pair is stale.
	GetRecent(ctx context.Context, q Querier, keywordID, providerID uuid.UUID, after time.Time) (*models.SerpResult, error)
	ListByKeyword(ctx context.Context, q Querier, keywordID uuid.UUID) ([]*models.SerpResult, error)
	Count(ctx context.Context, q Querier) (int, error)
}

type CompanyRepo interface {
	Create(ctx context.Context, q Querier, company *models.SerpCompany) error
	ListBySerp(ctx context.Context, q Querier, serpID uuid.UUID) ([]*models.SerpCompany, error)
	ListByGroup(ctx context.Context, q Querier, groupID uuid.UUID) ([]*models.SerpCompany, error)
	Count(ctx context.Context, q Querier) (int, error)
}

type BrandProjectRepo interface {
	Create(ctx context.Context, q Querier, project *models.BrandProject) error
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*models.BrandProject, error)
	ListByUser(ctx context.Context, q Querier, userID uuid.UUID) ([]*models.BrandProject, error)
	ListByGroup(ctx context.Context, q Querier, groupID uuid.UUID) ([]*models.BrandProject, error)
	Update(ctx context.Context, q Querier, project *models.BrandProject) error
	SoftDelete(ctx context.Context, q Querier, id uuid.UUID) error
}

type CompetitorRepo interface {
	Create(ctx context.Context, q Querier, competitor *models.Competitor) error
	ListByProject(ctx context.Context, q Querier, projectID uuid.UUID) ([]*models.Competitor, error)
	DeleteByProject(ctx context.Context, q Querier, projectID uuid.UUID) error
}

// MentionStats is the aggregate mention rollup for a brand project.
type MentionStats struct {
	Total               int `db:"total"`
	BrandMentioned      int `db:"brand_mentioned"`
	CompetitorMentioned int `db:"competitor_mentioned"`
}

// CompetitorCount is one entry of a top-competitors ranking.
type CompetitorCount struct {
	Name     string `db:"name" json:"name"`
	Mentions int    `db:"mentions" json:"mentions"`
}

type MentionRepo interface {
	Create(ctx context.Context, q Querier, mention *models.BrandMention) error
	Stats(ctx context.Context, q Querier, projectID uuid.UUID) (*MentionStats, error)
	TopCompetitors(ctx context.Context, q Querier, projectID uuid.UUID, limit int) ([]*CompetitorCount, error)
	Recent(ctx context.Context, q Querier, projectID uuid.UUID, limit int) ([]*models.BrandMention, error)
}
