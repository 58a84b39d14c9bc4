// internal/repos/postgres/keywords.go
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

type keywordRepo struct{}

func NewKeywordRepo() repos.KeywordRepo {
	return &keywordRepo{}
}

func (r *keywordRepo) Create(ctx context.Context, q repos.Querier, keyword *models.Keyword) error {
	if keyword.ID == uuid.Nil {
		keyword.ID = uuid.New()
	}
	now := time.Now().UTC()
	if keyword.CreatedAt.IsZero() {
		keyword.CreatedAt = now
	}
	if keyword.UpdatedAt.IsZero() {
		keyword.UpdatedAt = now
	}
	if keyword.Status == 0 {
		keyword.Status = models.StatusActive
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO keywords (id, name, group_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		keyword.ID, keyword.Name, keyword.GroupID, keyword.Status, keyword.CreatedAt, keyword.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create keyword: %w", err)
	}
	return nil
}

func (r *keywordRepo) GetByID(ctx context.Context, q repos.Querier, id uuid.UUID) (*models.Keyword, error) {
	var keyword models.Keyword
	err := sqlx.GetContext(ctx, q, &keyword, `SELECT * FROM keywords WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword: %w", err)
	}
	return &keyword, nil
}

func (r *keywordRepo) ListActive(ctx context.Context, q repos.Querier, groupID *uuid.UUID) ([]*models.Keyword, error) {
	keywords := []*models.Keyword{}
	var err error
	if groupID != nil {
		err = sqlx.SelectContext(ctx, q, &keywords,
			`SELECT * FROM keywords WHERE status = $1 AND group_id = $2 ORDER BY created_at DESC`,
			models.StatusActive, *groupID)
	} else {
		err = sqlx.SelectContext(ctx, q, &keywords,
			`SELECT * FROM keywords WHERE status = $1 ORDER BY created_at DESC`,
			models.StatusActive)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	return keywords, nil
}

func (r *keywordRepo) Update(ctx context.Context, q repos.Querier, keyword *models.Keyword) error {
	keyword.UpdatedAt = time.Now().UTC()
	result, err := q.ExecContext(ctx,
		`UPDATE keywords SET name = $2, group_id = $3, status = $4, updated_at = $5 WHERE id = $1`,
		keyword.ID, keyword.Name, keyword.GroupID, keyword.Status, keyword.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update keyword: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *keywordRepo) SoftDelete(ctx context.Context, q repos.Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx,
		`UPDATE keywords SET status = $2, updated_at = $3 WHERE id = $1`,
		id, models.StatusDeleted, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *keywordRepo) CountActive(ctx context.Context, q repos.Querier) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count,
		`SELECT COUNT(*) FROM keywords WHERE status = $1`, models.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to count keywords: %w", err)
	}
	return count, nil
}
