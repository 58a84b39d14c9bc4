// internal/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankscope/rankscope-backend/internal/logger"
	"github.com/rankscope/rankscope-backend/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	repos     *services.RepositoryManager
	analytics services.AnalyticsService
	serp      services.SerpUpdateService
}

func NewAnalyticsHandler(log *logger.Logger, repoManager *services.RepositoryManager, analytics services.AnalyticsService, serp services.SerpUpdateService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:       log.With("handler", "AnalyticsHandler"),
		repos:     repoManager,
		analytics: analytics,
		serp:      serp,
	}
}

// Keyword returns the stored search results for one keyword, with the
// companies extracted from each result.
func (h *AnalyticsHandler) Keyword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	analytics, err := h.analytics.KeywordAnalytics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// Group returns keyword analytics for every active keyword in a group.
func (h *AnalyticsHandler) Group(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	analytics, err := h.analytics.GroupAnalytics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// Start runs a full update pass over every active keyword and provider.
func (h *AnalyticsHandler) Start(c *gin.Context) {
	summary, err := h.serp.UpdateSerpData(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// StartGroup refreshes one group's keywords and reports the resulting
// brand analytics alongside the update summary.
func (h *AnalyticsHandler) StartGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	summary, err := h.serp.UpdateSerpData(ctx, &id)
	if err != nil {
		respondError(c, err)
		return
	}

	result := services.GroupAnalysisSummary{
		GroupID:  id,
		Update:   summary,
		Projects: []*services.ProjectAnalytics{},
	}

	projects, err := h.repos.ProjectRepo.ListByGroup(ctx, h.repos.DB(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, project := range projects {
		analytics, err := h.analytics.ProjectAnalytics(ctx, project.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		result.Projects = append(result.Projects, analytics)
	}

	companies, err := h.repos.CompanyRepo.ListByGroup(ctx, h.repos.DB(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	names := []string{}
	seen := map[string]bool{}
	for _, company := range companies {
		if seen[company.Name] {
			continue
		}
		seen[company.Name] = true
		names = append(names, company.Name)
	}
	result.Companies = names

	c.JSON(http.StatusOK, result)
}

// Update triggers a refresh pass, same as Start. Kept as a separate
// route so the worker trigger and the analytics trigger can diverge.
func (h *AnalyticsHandler) Update(c *gin.Context) {
	summary, err := h.serp.UpdateSerpData(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Stats reports row counts across the main tables.
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.analytics.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
