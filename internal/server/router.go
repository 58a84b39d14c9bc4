// internal/server/router.go
package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/handlers"
	"github.com/rankscope/rankscope-backend/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Groups    *handlers.KeywordGroupHandler
	Keywords  *handlers.KeywordHandler
	Providers *handlers.ProviderHandler
	Projects  *handlers.BrandProjectHandler
	Analytics *handlers.AnalyticsHandler
}

func NewRouter(cfg *config.Config, auth *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(auth.RequireAuth())

	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/keyword-groups", h.Groups.List)
	protected.POST("/keyword-groups", h.Groups.Create)
	protected.PUT("/keyword-groups/:id", h.Groups.Update)
	protected.DELETE("/keyword-groups/:id", h.Groups.Delete)

	protected.GET("/keywords", h.Keywords.List)
	protected.POST("/keywords", h.Keywords.Create)
	protected.PUT("/keywords/:id", h.Keywords.Update)
	protected.DELETE("/keywords/:id", h.Keywords.Delete)

	protected.GET("/providers", h.Providers.List)
	protected.POST("/providers", h.Providers.Create)
	protected.PUT("/providers/:id", h.Providers.Update)
	protected.DELETE("/providers/:id", h.Providers.Delete)

	protected.GET("/brand-projects", h.Projects.List)
	protected.POST("/brand-projects", h.Projects.Create)
	protected.GET("/brand-projects/:id", h.Projects.Get)
	protected.PUT("/brand-projects/:id", h.Projects.Update)
	protected.DELETE("/brand-projects/:id", h.Projects.Delete)
	protected.GET("/brand-projects/:id/analytics", h.Projects.Analytics)

	protected.GET("/analytics/word/:id", h.Analytics.Keyword)
	protected.GET("/analytics/group/:id", h.Analytics.Group)
	protected.POST("/analytics/start", h.Analytics.Start)
	protected.POST("/analytics/group/:id/start", h.Analytics.StartGroup)

	protected.POST("/serp/update", h.Analytics.Update)
	protected.GET("/stats", h.Analytics.Stats)

	return r
}

func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}

	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	return cfg
}
