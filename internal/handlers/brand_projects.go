// internal/handlers/brand_projects.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rankscope/rankscope-backend/internal/logger"
	"github.com/rankscope/rankscope-backend/internal/middleware"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
	"github.com/rankscope/rankscope-backend/services"
)

const maxCompetitorsPerProject = 10

type BrandProjectHandler struct {
	log       *logger.Logger
	repos     *services.RepositoryManager
	extractor services.ExtractService
	analytics services.AnalyticsService
}

func NewBrandProjectHandler(log *logger.Logger, repoManager *services.RepositoryManager, extractor services.ExtractService, analytics services.AnalyticsService) *BrandProjectHandler {
	return &BrandProjectHandler{
		log:       log.With("handler", "BrandProjectHandler"),
		repos:     repoManager,
		extractor: extractor,
		analytics: analytics,
	}
}

func (h *BrandProjectHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	projects, err := h.repos.ProjectRepo.ListByUser(ctx, h.repos.DB(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := []models.BrandProjectResponse{}
	for _, project := range projects {
		response, err := h.withCompetitors(ctx, project)
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, *response)
	}
	c.JSON(http.StatusOK, responses)
}

func (h *BrandProjectHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	project, err := h.loadOwnedProject(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := h.withCompetitors(ctx, project)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *BrandProjectHandler) Create(c *gin.Context) {
	var req models.CreateBrandProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if req.GroupID != nil {
		if !h.groupBelongsToUser(c, *req.GroupID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "keyword group not found"})
			return
		}
	}

	project := &models.BrandProject{
		Name:             req.Name,
		BrandName:        req.BrandName,
		BrandDescription: req.BrandDescription,
		GroupID:          req.GroupID,
		UserID:           middleware.UserID(c),
	}
	if req.KeywordsCount != nil {
		project.KeywordsCount = *req.KeywordsCount
	}

	tx, err := h.repos.BeginTx(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	defer tx.Rollback()

	if err := h.repos.ProjectRepo.Create(ctx, tx, project); err != nil {
		respondError(c, err)
		return
	}
	if err := h.createCompetitors(ctx, tx, project.ID, req.Competitors); err != nil {
		respondError(c, err)
		return
	}
	if err := tx.Commit(); err != nil {
		respondError(c, err)
		return
	}

	// Keyword generation is best effort; the project exists either way.
	if project.GroupID != nil {
		h.generateKeywords(ctx, project)
	}

	response, err := h.withCompetitors(ctx, project)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *BrandProjectHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBrandProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	project, err := h.loadOwnedProject(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.GroupID != nil && !h.groupBelongsToUser(c, *req.GroupID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword group not found"})
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.BrandName != nil {
		project.BrandName = *req.BrandName
	}
	if req.BrandDescription != nil {
		project.BrandDescription = *req.BrandDescription
	}
	if req.KeywordsCount != nil {
		project.KeywordsCount = *req.KeywordsCount
	}
	if req.GroupID != nil {
		project.GroupID = req.GroupID
	}

	tx, err := h.repos.BeginTx(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	defer tx.Rollback()

	if err := h.repos.ProjectRepo.Update(ctx, tx, project); err != nil {
		respondError(c, err)
		return
	}

	// A competitors list in the request replaces the stored set.
	if req.Competitors != nil {
		if err := h.repos.CompetitorRepo.DeleteByProject(ctx, tx, project.ID); err != nil {
			respondError(c, err)
			return
		}
		if err := h.createCompetitors(ctx, tx, project.ID, req.Competitors); err != nil {
			respondError(c, err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		respondError(c, err)
		return
	}

	response, err := h.withCompetitors(ctx, project)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *BrandProjectHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.loadOwnedProject(c, id); err != nil {
		respondError(c, err)
		return
	}

	if err := h.repos.ProjectRepo.SoftDelete(c.Request.Context(), h.repos.DB(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *BrandProjectHandler) Analytics(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.loadOwnedProject(c, id); err != nil {
		respondError(c, err)
		return
	}

	analytics, err := h.analytics.ProjectAnalytics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// loadOwnedProject fetches a project and hides other users' projects
// behind ErrNotFound.
func (h *BrandProjectHandler) loadOwnedProject(c *gin.Context, id uuid.UUID) (*models.BrandProject, error) {
	project, err := h.repos.ProjectRepo.GetByID(c.Request.Context(), h.repos.DB(), id)
	if err != nil {
		return nil, err
	}
	if project.UserID != middleware.UserID(c) {
		return nil, repos.ErrNotFound
	}
	return project, nil
}

// groupBelongsToUser reports whether the keyword group exists and is
// owned by the authenticated user.
func (h *BrandProjectHandler) groupBelongsToUser(c *gin.Context, groupID uuid.UUID) bool {
	group, err := h.repos.GroupRepo.GetByID(c.Request.Context(), h.repos.DB(), groupID)
	if errors.Is(err, repos.ErrNotFound) {
		return false
	}
	if err != nil {
		return false
	}
	return group.UserID == middleware.UserID(c)
}

func (h *BrandProjectHandler) createCompetitors(ctx context.Context, q repos.Querier, projectID uuid.UUID, names []string) error {
	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		competitor := &models.Competitor{Name: name, ProjectID: projectID}
		if err := h.repos.CompetitorRepo.Create(ctx, q, competitor); err != nil {
			return err
		}
		created++
		if created >= maxCompetitorsPerProject {
			break
		}
	}
	return nil
}

func (h *BrandProjectHandler) generateKeywords(ctx context.Context, project *models.BrandProject) {
	keywords, err := h.extractor.GenerateKeywords(ctx, project.BrandName, project.BrandDescription, project.KeywordsCount)
	if err != nil {
		h.log.Warn("keyword generation failed", "project_id", project.ID, "error", err)
		return
	}

	for _, name := range keywords {
		keyword := &models.Keyword{Name: name, GroupID: project.GroupID}
		if err := h.repos.KeywordRepo.Create(ctx, h.repos.DB(), keyword); err != nil {
			h.log.Warn("failed to store generated keyword", "keyword", name, "error", err)
		}
	}
	h.log.Info("generated keywords for project", "project_id", project.ID, "count", len(keywords))
}

func (h *BrandProjectHandler) withCompetitors(ctx context.Context, project *models.BrandProject) (*models.BrandProjectResponse, error) {
	competitors, err := h.repos.CompetitorRepo.ListByProject(ctx, h.repos.DB(), project.ID)
	if err != nil {
		return nil, err
	}
	response := &models.BrandProjectResponse{BrandProject: *project, Competitors: []models.Competitor{}}
	for _, competitor := range competitors {
		response.Competitors = append(response.Competitors, *competitor)
	}
	return response, nil
}
