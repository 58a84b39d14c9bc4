// internal/repos/postgres/providers.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
)

type providerRepo struct{}

func NewProviderRepo() repos.ProviderRepo {
	return &providerRepo{}
}

func (r *providerRepo) Create(ctx context.Context, q repos.Querier, provider *models.LLMProvider) error {
	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO llm_providers (id, name, api_url, api_key, model, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		provider.ID, provider.Name, provider.APIURL, provider.APIKey, provider.Model, provider.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *providerRepo) GetByID(ctx context.Context, q repos.Querier, id uuid.UUID) (*models.LLMProvider, error) {
	var provider models.LLMProvider
	err := sqlx.GetContext(ctx, q, &provider, `SELECT * FROM llm_providers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (r *providerRepo) List(ctx context.Context, q repos.Querier) ([]*models.LLMProvider, error) {
	providers := []*models.LLMProvider{}
	err := sqlx.SelectContext(ctx, q, &providers, `SELECT * FROM llm_providers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

func (r *providerRepo) ListActive(ctx context.Context, q repos.Querier) ([]*models.LLMProvider, error) {
	providers := []*models.LLMProvider{}
	err := sqlx.SelectContext(ctx, q, &providers,
		`SELECT * FROM llm_providers WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active providers: %w", err)
	}
	return providers, nil
}

func (r *providerRepo) Update(ctx context.Context, q repos.Querier, provider *models.LLMProvider) error {
	result, err := q.ExecContext(ctx,
		`UPDATE llm_providers SET name = $2, api_url = $3, api_key = $4, model = $5, is_active = $6 WHERE id = $1`,
		provider.ID, provider.Name, provider.APIURL, provider.APIKey, provider.Model, provider.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *providerRepo) Delete(ctx context.Context, q repos.Querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, `DELETE FROM llm_providers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repos.ErrNotFound
	}
	return nil
}
