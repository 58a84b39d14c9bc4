// internal/repos/postgres/serps.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
)

type serpRepo struct{}

func NewSerpRepo() repos.SerpRepo {
	return &serpRepo{}
}

func (r *serpRepo) Create(ctx context.Context, q repos.Querier, serp *models.SerpResult) error {
	if serp.ID == uuid.Nil {
		serp.ID = uuid.New()
	}
	if serp.CreatedAt.IsZero() {
		serp.CreatedAt = time.Now().UTC()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO serp_results (id, content, provider_id, keyword_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		serp.ID, serp.Content, serp.ProviderID, serp.KeywordID, serp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create serp result: %w", err)
	}
	return nil
}

func (r *serpRepo) GetRecent(ctx context.Context, q repos.Querier, keywordID, providerID uuid.UUID, after time.Time) (*models.SerpResult, error) {
	var serp models.SerpResult
	err := sqlx.GetContext(ctx, q, &serp,
		`SELECT * FROM serp_results
		 WHERE keyword_id = $1 AND provider_id = $2 AND created_at > $3
		 ORDER BY created_at DESC LIMIT 1`,
		keywordID, providerID, after)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recent serp result: %w", err)
	}
	return &serp, nil
}

func (r *serpRepo) ListByKeyword(ctx context.Context, q repos.Querier, keywordID uuid.UUID) ([]*models.SerpResult, error) {
	serps := []*models.SerpResult{}
	err := sqlx.SelectContext(ctx, q, &serps,
		`SELECT * FROM serp_results WHERE keyword_id = $1 ORDER BY created_at DESC`, keywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list serp results: %w", err)
	}
	return serps, nil
}

func (r *serpRepo) Count(ctx context.Context, q repos.Querier) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM serp_results`); err != nil {
		return 0, fmt.Errorf("failed to count serp results: %w", err)
	}
	return count, nil
}
