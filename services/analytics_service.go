// services/analytics_service.go
package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/rankscope/rankscope-backend/internal/logger"
)

type analyticsService struct {
	repos *RepositoryManager
	log   *logger.Logger
}

func NewAnalyticsService(repoManager *RepositoryManager, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		repos: repoManager,
		log:   log.With("service", "AnalyticsService"),
	}
}

func (s *analyticsService) ProjectAnalytics(ctx context.Context, projectID uuid.UUID) (*ProjectAnalytics, error) {
	project, err := s.repos.ProjectRepo.GetByID(ctx, s.repos.DB(), projectID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repos.MentionRepo.Stats(ctx, s.repos.DB(), projectID)
	if err != nil {
		return nil, err
	}

	topCompetitors, err := s.repos.MentionRepo.TopCompetitors(ctx, s.repos.DB(), projectID, 5)
	if err != nil {
		return nil, err
	}

	recent, err := s.repos.MentionRepo.Recent(ctx, s.repos.DB(), projectID, 10)
	if err != nil {
		return nil, err
	}

	return &ProjectAnalytics{
		ProjectID:            project.ID,
		BrandName:            project.BrandName,
		TotalQueries:         stats.Total,
		BrandMentions:        stats.BrandMentioned,
		CompetitorMentions:   stats.CompetitorMentioned,
		BrandVisibility:      calculateVisibility(stats.BrandMentioned, stats.Total),
		CompetitorVisibility: calculateVisibility(stats.CompetitorMentioned, stats.Total),
		TopCompetitors:       topCompetitors,
		RecentMentions:       recent,
	}, nil
}

func (s *analyticsService) KeywordAnalytics(ctx context.Context, keywordID uuid.UUID) (*KeywordAnalytics, error) {
	keyword, err := s.repos.KeywordRepo.GetByID(ctx, s.repos.DB(), keywordID)
	if err != nil {
		return nil, err
	}

	serps, err := s.repos.SerpRepo.ListByKeyword(ctx, s.repos.DB(), keywordID)
	if err != nil {
		return nil, err
	}

	analytics := &KeywordAnalytics{Keyword: keyword, Results: []*SerpWithCompanies{}}
	for _, serp := range serps {
		companies, err := s.repos.CompanyRepo.ListBySerp(ctx, s.repos.DB(), serp.ID)
		if err != nil {
			return nil, err
		}
		analytics.Results = append(analytics.Results, &SerpWithCompanies{Serp: serp, Companies: companies})
	}
	return analytics, nil
}

func (s *analyticsService) GroupAnalytics(ctx context.Context, groupID uuid.UUID) (*GroupAnalytics, error) {
	group, err := s.repos.GroupRepo.GetByID(ctx, s.repos.DB(), groupID)
	if err != nil {
		return nil, err
	}

	keywords, err := s.repos.KeywordRepo.ListActive(ctx, s.repos.DB(), &groupID)
	if err != nil {
		return nil, err
	}

	analytics := &GroupAnalytics{Group: group, Keywords: []*KeywordAnalytics{}}
	for _, keyword := range keywords {
		keywordAnalytics, err := s.KeywordAnalytics(ctx, keyword.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to build analytics for keyword %q: %w", keyword.Name, err)
		}
		analytics.Keywords = append(analytics.Keywords, keywordAnalytics)
	}
	return analytics, nil
}

func (s *analyticsService) Stats(ctx context.Context) (*Stats, error) {
	keywords, err := s.repos.KeywordRepo.CountActive(ctx, s.repos.DB())
	if err != nil {
		return nil, err
	}
	groups, err := s.repos.GroupRepo.Count(ctx, s.repos.DB())
	if err != nil {
		return nil, err
	}
	serps, err := s.repos.SerpRepo.Count(ctx, s.repos.DB())
	if err != nil {
		return nil, err
	}
	companies, err := s.repos.CompanyRepo.Count(ctx, s.repos.DB())
	if err != nil {
		return nil, err
	}

	return &Stats{
		Keywords:    keywords,
		Groups:      groups,
		SerpResults: serps,
		Companies:   companies,
	}, nil
}

// calculateVisibility is the share of analyzed queries that mention the
// subject, as a percentage rounded to two decimals.
func calculateVisibility(mentions, total int) float64 {
	if total == 0 {
		return 0
	}
	visibility := float64(mentions) / float64(total) * 100
	return math.Round(visibility*100) / 100
}
