// internal/repos/postgres/mentions.go
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

type mentionRepo struct{}

func NewMentionRepo() repos.MentionRepo {
	return &mentionRepo{}
}

func (r *mentionRepo) Create(ctx context.Context, q repos.Querier, mention *models.BrandMention) error {
	if mention.ID == uuid.Nil {
		mention.ID = uuid.New()
	}
	if mention.CreatedAt.IsZero() {
		mention.CreatedAt = time.Now().UTC()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO brand_mentions
		 (id, serp_id, project_id, brand_mentioned, competitor_mentioned, mentioned_competitor,
		  brand_position, competitor_position, confidence, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		mention.ID, mention.SerpID, mention.ProjectID, mention.BrandMentioned,
		mention.CompetitorMentioned, mention.MentionedCompetitor,
		mention.BrandPosition, mention.CompetitorPosition, mention.Confidence, mention.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create brand mention: %w", err)
	}
	return nil
}

func (r *mentionRepo) Stats(ctx context.Context, q repos.Querier, projectID uuid.UUID) (*repos.MentionStats, error) {
	var stats repos.MentionStats
	err := sqlx.GetContext(ctx, q, &stats,
		`SELECT
		    COUNT(*) AS total,
		    COUNT(*) FILTER (WHERE brand_mentioned) AS brand_mentioned,
		    COUNT(*) FILTER (WHERE competitor_mentioned) AS competitor_mentioned
		 FROM brand_mentions WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mention stats: %w", err)
	}
	return &stats, nil
}

func (r *mentionRepo) TopCompetitors(ctx context.Context, q repos.Querier, projectID uuid.UUID, limit int) ([]*repos.CompetitorCount, error) {
	counts := []*repos.CompetitorCount{}
	err := sqlx.SelectContext(ctx, q, &counts,
		`SELECT mentioned_competitor AS name, COUNT(*) AS mentions
		 FROM brand_mentions
		 WHERE project_id = $1 AND competitor_mentioned AND mentioned_competitor IS NOT NULL
		 GROUP BY mentioned_competitor
		 ORDER BY mentions DESC
		 LIMIT $2`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top competitors: %w", err)
	}
	return counts, nil
}

func (r *mentionRepo) Recent(ctx context.Context, q repos.Querier, projectID uuid.UUID, limit int) ([]*models.BrandMention, error) {
	mentions := []*models.BrandMention{}
	err := sqlx.SelectContext(ctx, q, &mentions,
		`SELECT * FROM brand_mentions WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2`,
		projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent mentions: %w", err)
	}
	return mentions, nil
}
