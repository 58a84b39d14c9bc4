// services/serp_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/logger"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
)

type serpService struct {
	cfg       *config.Config
	repos     *RepositoryManager
	factory   *ProviderFactory
	extractor ExtractService
	analyzer  MentionAnalyzer
	log       *logger.Logger
}

func NewSerpService(cfg *config.Config, repoManager *RepositoryManager, factory *ProviderFactory, extractor ExtractService, analyzer MentionAnalyzer, log *logger.Logger) SerpUpdateService {
	return &serpService{
		cfg:       cfg,
		repos:     repoManager,
		factory:   factory,
		extractor: extractor,
		analyzer:  analyzer,
		log:       log.With("service", "SerpService"),
	}
}

// UpdateSerpData walks the cross product of active keywords and active
// providers, fetching a fresh answer for every stale pair. A nil groupID
// covers all keywords. Pair failures are logged and the batch continues.
func (s *serpService) UpdateSerpData(ctx context.Context, groupID *uuid.UUID) (*UpdateSummary, error) {
	freshness := time.Duration(s.cfg.Worker.FreshnessDays) * 24 * time.Hour
	cutoff := time.Now().UTC().Add(-freshness)

	keywords, err := s.repos.KeywordRepo.ListActive(ctx, s.repos.DB(), groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load keywords: %w", err)
	}

	providerRows, err := s.repos.ProviderRepo.ListActive(ctx, s.repos.DB())
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}

	// Build adapters up front so providers without credentials are skipped
	// once, with a warning, instead of failing every pair.
	type boundProvider struct {
		row     *models.LLMProvider
		adapter AIProvider
	}
	usable := []boundProvider{}
	for _, row := range providerRows {
		adapter, err := s.factory.ForRecord(row)
		if err != nil {
			if errors.Is(err, ErrMissingAPIKey) {
				s.log.Warn("skipping provider without credentials", "provider", row.Name)
			} else {
				s.log.Warn("skipping provider", "provider", row.Name, "error", err)
			}
			continue
		}
		usable = append(usable, boundProvider{row: row, adapter: adapter})
	}

	summary := &UpdateSummary{TotalPairs: len(keywords) * len(usable)}
	s.log.Info("starting serp update batch",
		"keywords", len(keywords), "providers", len(usable), "total_pairs", summary.TotalPairs)

	for _, keyword := range keywords {
		for _, provider := range usable {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}

			recent, err := s.repos.SerpRepo.GetRecent(ctx, s.repos.DB(), keyword.ID, provider.row.ID, cutoff)
			if err != nil && !errors.Is(err, repos.ErrNotFound) {
				summary.Failed++
				summary.Errors = append(summary.Errors, err.Error())
				s.log.Error("freshness check failed", "keyword", keyword.Name, "provider", provider.row.Name, "error", err)
				continue
			}
			if recent != nil {
				summary.Skipped++
				s.log.Debug("pair is fresh, skipping", "keyword", keyword.Name, "provider", provider.row.Name)
				continue
			}

			if err := s.processPair(ctx, keyword, provider.row, provider.adapter); err != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, err.Error())
				s.log.Error("pair failed", "keyword", keyword.Name, "provider", provider.row.Name, "error", err)
				continue
			}
			summary.Processed++

			if every := s.cfg.Worker.ProgressLogEvery; every > 0 && summary.Processed%every == 0 {
				s.log.Info("batch progress",
					"processed", summary.Processed, "skipped", summary.Skipped,
					"failed", summary.Failed, "total_pairs", summary.TotalPairs)
			}
		}
	}

	s.log.Info("serp update batch finished",
		"processed", summary.Processed, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// processPair fetches one answer, extracts companies, analyzes brand
// mentions and writes everything in a single transaction so a failure
// leaves no partial rows behind.
func (s *serpService) processPair(ctx context.Context, keyword *models.Keyword, providerRow *models.LLMProvider, adapter AIProvider) error {
	prompt := buildSerpPrompt(keyword.Name)

	result, err := adapter.Fetch(ctx, prompt)
	if err != nil {
		return fmt.Errorf("fetch failed for %q via %s: %w", keyword.Name, providerRow.Name, err)
	}
	s.log.Debug("fetched answer",
		"keyword", keyword.Name, "provider", providerRow.Name,
		"length", len(result.Text), "cost", result.Cost)

	companies, err := s.extractor.ExtractCompanies(ctx, result.Text)
	if err != nil {
		// Extraction is best effort; the answer itself is still worth keeping.
		s.log.Warn("company extraction failed", "keyword", keyword.Name, "error", err)
		companies = nil
	}

	var projects []*models.BrandProject
	if keyword.GroupID != nil {
		projects, err = s.repos.ProjectRepo.ListByGroup(ctx, s.repos.DB(), *keyword.GroupID)
		if err != nil {
			return fmt.Errorf("failed to load brand projects: %w", err)
		}
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	serp := &models.SerpResult{
		Content:    result.Text,
		ProviderID: providerRow.ID,
		KeywordID:  keyword.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repos.SerpRepo.Create(ctx, tx, serp); err != nil {
		return err
	}

	for _, name := range companies {
		company := &models.SerpCompany{Name: name, SerpID: &serp.ID}
		if err := s.repos.CompanyRepo.Create(ctx, tx, company); err != nil {
			return err
		}
	}

	for _, project := range projects {
		competitors, err := s.repos.CompetitorRepo.ListByProject(ctx, tx, project.ID)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(competitors))
		for _, competitor := range competitors {
			names = append(names, competitor.Name)
		}

		analysis := s.analyzer.Analyze(result.Text, project.BrandName, names)
		for _, mention := range buildMentionRows(serp.ID, project.ID, analysis) {
			if err := s.repos.MentionRepo.Create(ctx, tx, mention); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pair: %w", err)
	}

	s.log.Info("pair stored",
		"keyword", keyword.Name, "provider", providerRow.Name,
		"companies", len(companies), "projects", len(projects))
	return nil
}

// buildMentionRows turns one analysis into mention rows: one per tracked
// competitor, or a single brand-only row for projects without competitors.
func buildMentionRows(serpID, projectID uuid.UUID, analysis *MentionAnalysis) []*models.BrandMention {
	base := models.BrandMention{
		SerpID:         serpID,
		ProjectID:      projectID,
		BrandMentioned: analysis.BrandMentioned,
		BrandPosition:  analysis.BrandPosition,
		Confidence:     analysis.Confidence,
	}

	if len(analysis.Competitors) == 0 {
		row := base
		return []*models.BrandMention{&row}
	}

	rows := make([]*models.BrandMention, 0, len(analysis.Competitors))
	for _, competitor := range analysis.Competitors {
		row := base
		name := competitor.Name
		row.MentionedCompetitor = &name
		row.CompetitorMentioned = competitor.Mentioned
		row.CompetitorPosition = competitor.Position
		rows = append(rows, &row)
	}
	return rows
}

// RunContinuous refreshes all pairs on the configured interval until the
// context is cancelled. Fresh pairs are skipped inside the batch, so a
// short interval only costs freshness checks.
func (s *serpService) RunContinuous(ctx context.Context) {
	interval := time.Duration(s.cfg.Worker.IntervalHours) * time.Hour
	s.log.Info("starting refresh worker", "interval_hours", s.cfg.Worker.IntervalHours)

	for {
		if _, err := s.UpdateSerpData(ctx, nil); err != nil {
			s.log.Error("worker cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.log.Info("refresh worker stopped")
			return
		case <-time.After(interval):
		}
	}
}

func buildSerpPrompt(keyword string) string {
	return fmt.Sprintf(`Imagine you are a search engine. For the query %q return the top 10 search results in the format:
1. Title - short description
2. Title - short description
...

Include real companies, brands and commercial offerings related to this query.`, keyword)
}
