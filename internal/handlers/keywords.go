// internal/handlers/keywords.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rankscope/rankscope-backend/internal/logger"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/services"
)

type KeywordHandler struct {
	log   *logger.Logger
	repos *services.RepositoryManager
}

func NewKeywordHandler(log *logger.Logger, repoManager *services.RepositoryManager) *KeywordHandler {
	return &KeywordHandler{
		log:   log.With("handler", "KeywordHandler"),
		repos: repoManager,
	}
}

func (h *KeywordHandler) List(c *gin.Context) {
	var groupID *uuid.UUID
	if raw := c.Query("group_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group_id"})
			return
		}
		groupID = &id
	}

	keywords, err := h.repos.KeywordRepo.ListActive(c.Request.Context(), h.repos.DB(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, keywords)
}

func (h *KeywordHandler) Create(c *gin.Context) {
	var req models.CreateKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keyword := &models.Keyword{
		Name:    req.Name,
		GroupID: req.GroupID,
	}
	if err := h.repos.KeywordRepo.Create(c.Request.Context(), h.repos.DB(), keyword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, keyword)
}

func (h *KeywordHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keyword, err := h.repos.KeywordRepo.GetByID(c.Request.Context(), h.repos.DB(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		keyword.Name = *req.Name
	}
	if req.GroupID != nil {
		keyword.GroupID = req.GroupID
	}
	if req.Status != nil {
		keyword.Status = *req.Status
	}

	if err := h.repos.KeywordRepo.Update(c.Request.Context(), h.repos.DB(), keyword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, keyword)
}

func (h *KeywordHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repos.KeywordRepo.SoftDelete(c.Request.Context(), h.repos.DB(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
