package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is a course project: a set of repositories graded together
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject creates a new Project with a generated UUID
func NewProject(name, description string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return ErrProjectNameRequired
	}
	return nil
}

// Common errors
var (
	ErrProjectNameRequired  = &ValidationError{Field: "name", Message: "Project name is required"}
	ErrRepositoryNameFormat = &ValidationError{Field: "full_name", Message: "Repository name must look like owner/name"}
	ErrAliasSelfReference   = &ValidationError{Field: "target_author", Message: "An author cannot be an alias of itself"}
	ErrAliasAuthorRequired  = &ValidationError{Field: "source_author", Message: "Both authors are required"}
	ErrExtensionRequired    = &ValidationError{Field: "extension", Message: "Extension is required"}
	ErrFolderRequired       = &ValidationError{Field: "folder_path", Message: "Folder path is required"}
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
