// internal/repos/postgres/competitors.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
)

type competitorRepo struct{}

func NewCompetitorRepo() repos.CompetitorRepo {
	return &competitorRepo{}
}

func (r *competitorRepo) Create(ctx context.Context, q repos.Querier, competitor *models.Competitor) error {
	if competitor.ID == uuid.Nil {
		competitor.ID = uuid.New()
	}
	if competitor.CreatedAt.IsZero() {
		competitor.CreatedAt = time.Now().UTC()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO competitors (id, name, project_id, created_at) VALUES ($1, $2, $3, $4)`,
		competitor.ID, competitor.Name, competitor.ProjectID, competitor.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create competitor: %w", err)
	}
	return nil
}

func (r *competitorRepo) ListByProject(ctx context.Context, q repos.Querier, projectID uuid.UUID) ([]*models.Competitor, error) {
	competitors := []*models.Competitor{}
	err := sqlx.SelectContext(ctx, q, &competitors,
		`SELECT * FROM competitors WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	return competitors, nil
}

func (r *competitorRepo) DeleteByProject(ctx context.Context, q repos.Querier, projectID uuid.UUID) error {
	_, err := q.ExecContext(ctx, `DELETE FROM competitors WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete competitors: %w", err)
	}
	return nil
}
