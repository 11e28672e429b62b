package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExcludedFolder is a folder whose files a project never counts, e.g. generated code
type ExcludedFolder struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	FolderPath string    `json:"folder_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewExcludedFolder creates a new ExcludedFolder with a generated ID
func NewExcludedFolder(projectID, folderPath string) *ExcludedFolder {
	return &ExcludedFolder{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		FolderPath: NormalizeFolder(folderPath),
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate validates the ExcludedFolder fields
func (ef *ExcludedFolder) Validate() error {
	if ef.FolderPath == "" {
		return ErrFolderRequired
	}
	return nil
}

// NormalizeFolder turns " /build/ " and "build\" into "build"
func NormalizeFolder(folderPath string) string {
	folderPath = strings.ReplaceAll(strings.TrimSpace(folderPath), "\\", "/")
	return strings.Trim(folderPath, "/")
}
