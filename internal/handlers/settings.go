package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/coursescope/internal/services"
)

// SettingsHandler serves the per-project author aliases and exclusions
type SettingsHandler struct {
	aliasService      *services.AuthorAliasService
	suggestionService *services.AliasSuggestionService
	extensionService  *services.ExcludedExtensionService
	folderService     *services.ExcludedFolderService
}

func NewSettingsHandler(aliasService *services.AuthorAliasService, suggestionService *services.AliasSuggestionService,
	extensionService *services.ExcludedExtensionService, folderService *services.ExcludedFolderService) *SettingsHandler {
	return &SettingsHandler{
		aliasService:      aliasService,
		suggestionService: suggestionService,
		extensionService:  extensionService,
		folderService:     folderService,
	}
}

type aliasRequest struct {
	SourceAuthor string `json:"source_author" binding:"required"`
	TargetAuthor string `json:"target_author" binding:"required"`
}

type extensionRequest struct {
	Extension string `json:"extension" binding:"required"`
}

type folderRequest struct {
	FolderPath string `json:"folder_path" binding:"required"`
}

func (h *SettingsHandler) ListAliases(c *gin.Context) {
	aliases, err := h.aliasService.GetAliases(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", aliases)
}

// SetAlias merges one author identity into another
func (h *SettingsHandler) SetAlias(c *gin.Context) {
	var request aliasRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request data: %v", errBadRequest, err))
		return
	}

	alias, err := h.aliasService.SetAlias(c.Param("id"), request.SourceAuthor, request.TargetAuthor)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Alias saved successfully", alias)
}

// DeleteAlias takes the source author from the query so names with slashes work
func (h *SettingsHandler) DeleteAlias(c *gin.Context) {
	source := c.Query("source_author")
	if source == "" {
		respondError(c, fmt.Errorf("%w: source_author is required", errBadRequest))
		return
	}

	if err := h.aliasService.DeleteAlias(c.Param("id"), source); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Alias deleted successfully", nil)
}

// SuggestAliases proposes aliases between commit identities and GitHub logins
func (h *SettingsHandler) SuggestAliases(c *gin.Context) {
	threshold := services.DefaultSuggestionThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			respondError(c, fmt.Errorf("%w: threshold must be between 0 and 1", errBadRequest))
			return
		}
		threshold = parsed
	}

	suggestions, err := h.suggestionService.SuggestForProject(c.Request.Context(), c.Param("id"), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []services.AliasSuggestion{}
	}
	respond(c, http.StatusOK, "", suggestions)
}

func (h *SettingsHandler) ListExtensions(c *gin.Context) {
	extensions, err := h.extensionService.GetExcludedExtensionsByProjectID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", extensions)
}

// CreateExtension excludes an extension from the project's line counts
func (h *SettingsHandler) CreateExtension(c *gin.Context) {
	var request extensionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request data: %v", errBadRequest, err))
		return
	}

	extension, err := h.extensionService.CreateExcludedExtension(c.Param("id"), request.Extension)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Extension excluded successfully", extension)
}

func (h *SettingsHandler) DeleteExtension(c *gin.Context) {
	if err := h.extensionService.DeleteExcludedExtension(c.Param("id"), c.Param("extension_id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Extension deleted successfully", nil)
}

func (h *SettingsHandler) ListFolders(c *gin.Context) {
	folders, err := h.folderService.GetExcludedFoldersByProjectID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", folders)
}

// CreateFolder excludes a folder, e.g. generated code, from the project's line counts
func (h *SettingsHandler) CreateFolder(c *gin.Context) {
	var request folderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request data: %v", errBadRequest, err))
		return
	}

	folder, err := h.folderService.CreateExcludedFolder(c.Param("id"), request.FolderPath)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Folder excluded successfully", folder)
}

func (h *SettingsHandler) DeleteFolder(c *gin.Context) {
	if err := h.folderService.DeleteExcludedFolder(c.Param("id"), c.Param("folder_id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Folder deleted successfully", nil)
}
