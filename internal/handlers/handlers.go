// internal/handlers/handlers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rankscope/rankscope-backend/internal/repos"
)

// respondError maps service and repo errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, repos.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// parseIDParam reads a uuid path parameter; a false return means the
// handler already wrote a 400 response.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
