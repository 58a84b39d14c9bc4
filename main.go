// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/database"
	"github.com/rankscope/rankscope-backend/internal/handlers"
	"github.com/rankscope/rankscope-backend/internal/logger"
	"github.com/rankscope/rankscope-backend/internal/middleware"
	"github.com/rankscope/rankscope-backend/internal/server"
	"github.com/rankscope/rankscope-backend/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err == nil {
			log.Printf("Loaded dev.env file for local development")
		}
	} else {
		log.Printf("Loaded .env file")
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting RankScope backend",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"worker_enabled", cfg.Worker.Enabled,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbClient, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}
	defer dbClient.Close()
	zlog.Info("connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)

	if err := dbClient.Migrate(); err != nil {
		zlog.Fatal("failed to run migrations", "error", err)
	}
	zlog.Info("migrations applied")

	repoManager := services.NewRepositoryManager(dbClient)

	costService := services.NewCostService()
	factory := services.NewProviderFactory(cfg, costService)
	gateway := services.NewLLMGateway(time.Hour, zlog)
	extractService := services.NewExtractService(cfg, costService, gateway, zlog)
	mentionService := services.NewMentionService()
	serpService := services.NewSerpService(cfg, repoManager, factory, extractService, mentionService, zlog)
	analyticsService := services.NewAnalyticsService(repoManager, zlog)
	authService := services.NewAuthService(cfg.Auth, repoManager, zlog)

	authMiddleware := middleware.NewAuthMiddleware(zlog, authService)

	router := server.NewRouter(cfg, authMiddleware, server.Handlers{
		Auth:      handlers.NewAuthHandler(zlog, authService),
		Groups:    handlers.NewKeywordGroupHandler(zlog, repoManager),
		Keywords:  handlers.NewKeywordHandler(zlog, repoManager),
		Providers: handlers.NewProviderHandler(zlog, repoManager),
		Projects:  handlers.NewBrandProjectHandler(zlog, repoManager, extractService, analyticsService),
		Analytics: handlers.NewAnalyticsHandler(zlog, repoManager, analyticsService, serpService),
	})

	if cfg.Worker.Enabled {
		zlog.Info("starting background refresh worker", "interval_hours", cfg.Worker.IntervalHours)
		go serpService.RunContinuous(ctx)
	}

	zlog.Info("listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		zlog.Fatal("server stopped", "error", err)
	}
}
