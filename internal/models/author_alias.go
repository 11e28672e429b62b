package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthorAlias maps one author identity onto another within a project, e.g. a git
// author name onto a GitHub login
type AuthorAlias struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	SourceAuthor string    `json:"source_author"` // identity being merged away
	TargetAuthor string    `json:"target_author"` // identity shown in statistics
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAuthorAlias creates a new alias with a generated UUID
func NewAuthorAlias(projectID, sourceAuthor, targetAuthor string) *AuthorAlias {
	now := time.Now().UTC()
	return &AuthorAlias{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		SourceAuthor: strings.TrimSpace(sourceAuthor),
		TargetAuthor: strings.TrimSpace(targetAuthor),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (a *AuthorAlias) Validate() error {
	if a.SourceAuthor == "" || a.TargetAuthor == "" {
		return ErrAliasAuthorRequired
	}
	if a.SourceAuthor == a.TargetAuthor {
		return ErrAliasSelfReference
	}
	return nil
}
