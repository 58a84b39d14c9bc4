// internal/handlers/keyword_groups.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankscope/rankscope-backend/internal/logger"
	"github.com/rankscope/rankscope-backend/internal/middleware"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
	"github.com/rankscope/rankscope-backend/services"
)

type KeywordGroupHandler struct {
	log   *logger.Logger
	repos *services.RepositoryManager
}

func NewKeywordGroupHandler(log *logger.Logger, repoManager *services.RepositoryManager) *KeywordGroupHandler {
	return &KeywordGroupHandler{
		log:   log.With("handler", "KeywordGroupHandler"),
		repos: repoManager,
	}
}

func (h *KeywordGroupHandler) List(c *gin.Context) {
	groups, err := h.repos.GroupRepo.ListByUser(c.Request.Context(), h.repos.DB(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *KeywordGroupHandler) Create(c *gin.Context) {
	var req models.CreateKeywordGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group := &models.KeywordGroup{
		Name:   req.Name,
		UserID: middleware.UserID(c),
	}
	if err := h.repos.GroupRepo.Create(c.Request.Context(), h.repos.DB(), group); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *KeywordGroupHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateKeywordGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.repos.GroupRepo.GetByID(c.Request.Context(), h.repos.DB(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	// Groups of other users are indistinguishable from absent ones.
	if group.UserID != middleware.UserID(c) {
		respondError(c, repos.ErrNotFound)
		return
	}

	group.Name = req.Name
	if err := h.repos.GroupRepo.Update(c.Request.Context(), h.repos.DB(), group); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *KeywordGroupHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.repos.GroupRepo.GetByID(c.Request.Context(), h.repos.DB(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if group.UserID != middleware.UserID(c) {
		respondError(c, repos.ErrNotFound)
		return
	}

	if err := h.repos.GroupRepo.Delete(c.Request.Context(), h.repos.DB(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
