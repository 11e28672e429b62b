package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/coursescope/internal/collector"
	"github.com/alimgiray/coursescope/internal/handlers"
	"github.com/alimgiray/coursescope/internal/middleware"
	"github.com/alimgiray/coursescope/internal/repositories"
	"github.com/alimgiray/coursescope/internal/services"
	"github.com/alimgiray/coursescope/internal/stats"
	"github.com/alimgiray/coursescope/internal/workers"
	"github.com/alimgiray/coursescope/pkg/config"
	"github.com/alimgiray/coursescope/pkg/database"
	"github.com/alimgiray/coursescope/pkg/logger"
)

func main() {
	logger.Init()

	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig
	gin.SetMode(cfg.Server.Mode)

	groups, err := stats.NewGroups(cfg.Statistics.Groups...)
	if err != nil {
		logger.Fatalf("Invalid statistics groups: %v", err)
	}

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Repositories
	projectRepo := repositories.NewProjectRepository(database.DB)
	repositoryRepo := repositories.NewRepositoryRepository(database.DB)
	commitRepo := repositories.NewCommitRepository(database.DB)
	activityRepo := repositories.NewActivityRepository(database.DB)
	aliasRepo := repositories.NewAuthorAliasRepository(database.DB)
	extensionRepo := repositories.NewExcludedExtensionRepository(database.DB)
	folderRepo := repositories.NewExcludedFolderRepository(database.DB)

	// Services
	projectService := services.NewProjectService(projectRepo, repositoryRepo)
	aliasService := services.NewAuthorAliasService(aliasRepo)
	extensionService := services.NewExcludedExtensionService(extensionRepo)
	folderService := services.NewExcludedFolderService(folderRepo)
	statisticsService := services.NewStatisticsService(
		projectRepo, repositoryRepo, commitRepo, activityRepo, aliasRepo, extensionRepo, folderRepo,
		groups, cfg.Statistics.IgnoredExtensions,
	)
	suggestionService := services.NewAliasSuggestionService(statisticsService, aliasRepo)
	exportService := services.NewExportService(statisticsService)

	githubCollector := collector.New(cfg.GitHub.Token, cfg.GitHub.RequestsPerSecond)
	cloneService := services.NewCloneService(cfg.GitHub.ClonePath, cfg.GitHub.Token)
	collectionService := services.NewCollectionService(repositoryRepo, commitRepo, activityRepo, githubCollector, cloneService, nil)

	// Initialize worker manager
	interval := time.Duration(cfg.Collection.IntervalMinutes) * time.Minute
	workerManager := workers.NewWorkerManager(collectionService, cfg.Collection.Workers, interval)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	handlers.RegisterRoutes(router, &handlers.Handlers{
		Health:     handlers.NewHealthHandler(database.DB),
		Project:    handlers.NewProjectHandler(projectService, collectionService),
		Settings:   handlers.NewSettingsHandler(aliasService, suggestionService, extensionService, folderService),
		Statistics: handlers.NewStatisticsHandler(statisticsService, exportService),
		NotFound:   handlers.NewNotFoundHandler(),
	}, middleware.TokenAuth(cfg.Server.APIToken))

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}

	// Setup server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	workerManager.StopAll()
	logger.Info("Server stopped")
}
