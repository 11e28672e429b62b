package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository is a GitHub repository tracked by a project
type Repository struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	FullName      string     `json:"full_name"`
	LocalPath     *string    `json:"local_path"`
	IsTracked     bool       `json:"is_tracked"`
	LastCollected *time.Time `json:"last_collected"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewRepository creates a new tracked Repository with a generated UUID
func NewRepository(projectID, fullName string) *Repository {
	return &Repository{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		FullName:  strings.TrimSpace(fullName),
		IsTracked: true,
		CreatedAt: time.Now().UTC(),
	}
}

// OwnerAndName splits FullName into its GitHub owner and repository name
func (r *Repository) OwnerAndName() (owner, name string, err error) {
	parts := strings.Split(r.FullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrRepositoryNameFormat
	}
	return parts[0], parts[1], nil
}

func (r *Repository) Validate() error {
	_, _, err := r.OwnerAndName()
	return err
}
