// internal/repos/postgres/keyword_groups.go
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

type keywordGroupRepo struct{}

func NewKeywordGroupRepo() repos.KeywordGroupRepo {
	return &keywordGroupRepo{}
}

func (r *keywordGroupRepo) Create(ctx context.Context, q repos.Querier, group *models.KeywordGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO keyword_groups (id, name, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		group.ID, group.Name, group.UserID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create keyword group: %w", err)
	}
	return nil
}

func (r *keywordGroupRepo) GetByID(ctx context.Context, q repos.Querier, id uuid.UUID) (*models.KeywordGroup, error) {
	var group models.KeywordGroup
	err := sqlx.GetContext(ctx, q, &group, `SELECT * FROM keyword_groups WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword group: %w", err)
	}
	return &group, nil
}

func (r *keywordGroupRepo) ListByUser(ctx context.Context, q repos.Querier, userID uuid.UUID) ([]*models.KeywordGroup, error) {
	groups := []*models.KeywordGroup{}
	err := sqlx.SelectContext(ctx, q, &groups,
		`SELECT * FROM keyword_groups WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyword groups: %w", err)
	}
	return groups, nil
}

func (r *keywordGroupRepo) Update(ctx context.Context, q repos.Querier, group *models.KeywordGroup) error {
	result, err := q.ExecContext(ctx,
		`UPDATE keyword_groups SET name = $2 WHERE id = $1`,
		group.ID, group.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update keyword group: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *keywordGroupRepo) Delete(ctx context.Context, q repos.Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, `DELETE FROM keyword_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword group: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *keywordGroupRepo) Count(ctx context.Context, q repos.Querier) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM keyword_groups`); err != nil {
		return 0, fmt.Errorf("failed to count keyword groups: %w", err)
	}
	return count, nil
}
