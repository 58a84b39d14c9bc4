// internal/repos/postgres/companies.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
)

type companyRepo struct{}

func NewCompanyRepo() repos.CompanyRepo {
	return &companyRepo{}
}

func (r *companyRepo) Create(ctx context.Context, q repos.Querier, company *models.SerpCompany) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO serp_companies (id, name, serp_id) VALUES ($1, $2, $3)`,
		company.ID, company.Name, company.SerpID,
	)
	if err != nil {
		return fmt.Errorf("failed to create serp company: %w", err)
	}
	return nil
}

func (r *companyRepo) ListBySerp(ctx context.Context, q repos.Querier, serpID uuid.UUID) ([]*models.SerpCompany, error) {
	companies := []*models.SerpCompany{}
	err := sqlx.SelectContext(ctx, q, &companies,
		`SELECT * FROM serp_companies WHERE serp_id = $1 ORDER BY name`, serpID)
	if err != nil {
		return nil, fmt.Errorf("failed to list serp companies: %w", err)
	}
	return companies, nil
}

func (r *companyRepo) ListByGroup(ctx context.Context, q repos.Querier, groupID uuid.UUID) ([]*models.SerpCompany, error) {
	companies := []*models.SerpCompany{}
	err := sqlx.SelectContext(ctx, q, &companies,
		`SELECT sc.* FROM serp_companies sc
		 JOIN serp_results sr ON sr.id = sc.serp_id
		 JOIN keywords k ON k.id = sr.keyword_id
		 WHERE k.group_id = $1
		 ORDER BY sc.name`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group companies: %w", err)
	}
	return companies, nil
}

func (r *companyRepo) Count(ctx context.Context, q repos.Querier) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM serp_companies`); err != nil {
		return 0, fmt.Errorf("failed to count serp companies: %w", err)
	}
	return count, nil
}
