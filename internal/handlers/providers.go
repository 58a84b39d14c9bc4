// internal/handlers/providers.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankscope/rankscope-backend/internal/logger"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/services"
)

type ProviderHandler struct {
	log   *logger.Logger
	repos *services.RepositoryManager
}

func NewProviderHandler(log *logger.Logger, repoManager *services.RepositoryManager) *ProviderHandler {
	return &ProviderHandler{
		log:   log.With("handler", "ProviderHandler"),
		repos: repoManager,
	}
}

func (h *ProviderHandler) List(c *gin.Context) {
	providers, err := h.repos.ProviderRepo.List(c.Request.Context(), h.repos.DB())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *ProviderHandler) Create(c *gin.Context) {
	var req models.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := &models.LLMProvider{
		Name:     req.Name,
		APIURL:   req.APIURL,
		APIKey:   req.APIKey,
		Model:    req.Model,
		IsActive: true,
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}

	if err := h.repos.ProviderRepo.Create(c.Request.Context(), h.repos.DB(), provider); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, provider)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider, err := h.repos.ProviderRepo.GetByID(c.Request.Context(), h.repos.DB(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		provider.Name = *req.Name
	}
	if req.APIURL != nil {
		provider.APIURL = *req.APIURL
	}
	if req.APIKey != nil {
		provider.APIKey = *req.APIKey
	}
	if req.Model != nil {
		provider.Model = *req.Model
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}

	if err := h.repos.ProviderRepo.Update(c.Request.Context(), h.repos.DB(), provider); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *ProviderHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repos.ProviderRepo.Delete(c.Request.Context(), h.repos.DB(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
