package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/coursescope/internal/services"
)

type ProjectHandler struct {
	projectService    *services.ProjectService
	collectionService *services.CollectionService
}

func NewProjectHandler(projectService *services.ProjectService, collectionService *services.CollectionService) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		collectionService: collectionService,
	}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type addRepositoryRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	LocalPath *string `json:"local_path"`
}

type trackingRequest struct {
	Tracked *bool `json:"tracked" binding:"required"`
}

// ListProjects returns every project
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", projects)
}

// CreateProject handles project creation
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var request createProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request data: %v", errBadRequest, err))
		return
	}

	project, err := h.projectService.CreateProject(request.Name, request.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Project created successfully", project)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProjectByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", project)
}

// DeleteProject removes a project with everything collected for it
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Project deleted successfully", nil)
}

func (h *ProjectHandler) ListRepositories(c *gin.Context) {
	repos, err := h.projectService.GetRepositories(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", repos)
}

// AddRepository starts tracking a GitHub repository, optionally with a local clone
// for commit history
func (h *ProjectHandler) AddRepository(c *gin.Context) {
	var request addRepositoryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request data: %v", errBadRequest, err))
		return
	}

	repo, err := h.projectService.AddRepository(c.Param("id"), request.FullName, request.LocalPath)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Repository added successfully", repo)
}

// SetRepositoryTracking turns background collection on or off
func (h *ProjectHandler) SetRepositoryTracking(c *gin.Context) {
	var request trackingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request data: %v", errBadRequest, err))
		return
	}

	if err := h.projectService.SetRepositoryTracking(c.Param("id"), c.Param("repository_id"), *request.Tracked); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Tracking updated successfully", nil)
}

// CollectRepository refreshes one repository right away
func (h *ProjectHandler) CollectRepository(c *gin.Context) {
	result, err := h.collectionService.CollectByID(c.Request.Context(), c.Param("id"), c.Param("repository_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Repository collected successfully", result)
}
