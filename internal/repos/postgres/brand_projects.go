// internal/repos/postgres/brand_projects.go
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

type brandProjectRepo struct{}

func NewBrandProjectRepo() repos.BrandProjectRepo {
	return &brandProjectRepo{}
}

func (r *brandProjectRepo) Create(ctx context.Context, q repos.Querier, project *models.BrandProject) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	if project.Status == 0 {
		project.Status = models.StatusActive
	}
	if project.KeywordsCount == 0 {
		project.KeywordsCount = 50
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO brand_projects (id, name, brand_name, brand_description, keywords_count, group_id, user_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		project.ID, project.Name, project.BrandName, project.BrandDescription,
		project.KeywordsCount, project.GroupID, project.UserID, project.Status, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create brand project: %w", err)
	}
	return nil
}

func (r *brandProjectRepo) GetByID(ctx context.Context, q repos.Querier, id uuid.UUID) (*models.BrandProject, error) {
	var project models.BrandProject
	err := sqlx.GetContext(ctx, q, &project,
		`SELECT * FROM brand_projects WHERE id = $1 AND status = $2`, id, models.StatusActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand project: %w", err)
	}
	return &project, nil
}

func (r *brandProjectRepo) ListByUser(ctx context.Context, q repos.Querier, userID uuid.UUID) ([]*models.BrandProject, error) {
	projects := []*models.BrandProject{}
	err := sqlx.SelectContext(ctx, q, &projects,
		`SELECT * FROM brand_projects WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`,
		userID, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list brand projects: %w", err)
	}
	return projects, nil
}

func (r *brandProjectRepo) ListByGroup(ctx context.Context, q repos.Querier, groupID uuid.UUID) ([]*models.BrandProject, error) {
	projects := []*models.BrandProject{}
	err := sqlx.SelectContext(ctx, q, &projects,
		`SELECT * FROM brand_projects WHERE group_id = $1 AND status = $2`,
		groupID, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list brand projects by group: %w", err)
	}
	return projects, nil
}

func (r *brandProjectRepo) Update(ctx context.Context, q repos.Querier, project *models.BrandProject) error {
	result, err := q.ExecContext(ctx,
		`UPDATE brand_projects
		 SET name = $2, brand_name = $3, brand_description = $4, keywords_count = $5, group_id = $6
		 WHERE id = $1 AND status = $7`,
		project.ID, project.Name, project.BrandName, project.BrandDescription,
		project.KeywordsCount, project.GroupID, models.StatusActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update brand project: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *brandProjectRepo) SoftDelete(ctx context.Context, q repos.Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx,
		`UPDATE brand_projects SET status = $2 WHERE id = $1`, id, models.StatusDeleted)
	if err != nil {
		return fmt.Errorf("failed to delete brand project: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}
