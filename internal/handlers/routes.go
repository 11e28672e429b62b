package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router serves
type Handlers struct {
	Health     *HealthHandler
	Project    *ProjectHandler
	Settings   *SettingsHandler
	Statistics *StatisticsHandler
	NotFound   *NotFoundHandler
}

// RegisterRoutes mounts the JSON API on router. Extra middleware guards every
// route except the health check.
func RegisterRoutes(router *gin.Engine, h *Handlers, middleware ...gin.HandlerFunc) {
	router.GET("/health", h.Health.Health)
	router.NoRoute(h.NotFound.NotFound)

	api := router.Group("/", middleware...)

	projects := api.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:id", h.Project.GetProject)
		projects.DELETE("/:id", h.Project.DeleteProject)

		projects.GET("/:id/repositories", h.Project.ListRepositories)
		projects.POST("/:id/repositories", h.Project.AddRepository)
		projects.PUT("/:id/repositories/:repository_id/tracking", h.Project.SetRepositoryTracking)
		projects.POST("/:id/repositories/:repository_id/collect", h.Project.CollectRepository)

		projects.GET("/:id/aliases", h.Settings.ListAliases)
		projects.PUT("/:id/aliases", h.Settings.SetAlias)
		projects.DELETE("/:id/aliases", h.Settings.DeleteAlias)
		projects.GET("/:id/aliases/suggestions", h.Settings.SuggestAliases)

		projects.GET("/:id/extensions", h.Settings.ListExtensions)
		projects.POST("/:id/extensions", h.Settings.CreateExtension)
		projects.DELETE("/:id/extensions/:extension_id", h.Settings.DeleteExtension)

		projects.GET("/:id/folders", h.Settings.ListFolders)
		projects.POST("/:id/folders", h.Settings.CreateFolder)
		projects.DELETE("/:id/folders/:folder_id", h.Settings.DeleteFolder)

		projects.GET("/:id/statistics", h.Statistics.GetStatistics)
		projects.GET("/:id/statistics/export", h.Statistics.ExportStatistics)
	}
}
