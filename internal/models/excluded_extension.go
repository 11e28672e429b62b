package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ExcludedExtension struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Extension string    `json:"extension"`
	CreatedAt time.Time `json:"created_at"`
}

// NewExcludedExtension normalizes the extension to a lowercase, dot-prefixed form
func NewExcludedExtension(projectID, extension string) *ExcludedExtension {
	return &ExcludedExtension{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Extension: NormalizeExtension(extension),
		CreatedAt: time.Now().UTC(),
	}
}

func (e *ExcludedExtension) Validate() error {
	if e.Extension == "" || e.Extension == "." {
		return ErrExtensionRequired
	}
	return nil
}

// NormalizeExtension turns "JSON", ".Json" and " .json " into ".json"
func NormalizeExtension(extension string) string {
	extension = strings.ToLower(strings.TrimSpace(extension))
	if extension == "" {
		return ""
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return extension
}
