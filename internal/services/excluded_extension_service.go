package services

import (
	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
)

type ExcludedExtensionService struct {
	excludedExtensionRepo *repositories.ExcludedExtensionRepository
}

func NewExcludedExtensionService(excludedExtensionRepo *repositories.ExcludedExtensionRepository) *ExcludedExtensionService {
	return &ExcludedExtensionService{
		excludedExtensionRepo: excludedExtensionRepo,
	}
}

// CreateExcludedExtension excludes an extension from a project's line counts
func (s *ExcludedExtensionService) CreateExcludedExtension(projectID, extension string) (*models.ExcludedExtension, error) {
	if err := validateID(projectID); err != nil {
		return nil, err
	}

	excluded := models.NewExcludedExtension(projectID, extension)
	if err := excluded.Validate(); err != nil {
		return nil, err
	}

	return excluded, s.excludedExtensionRepo.Create(excluded)
}

// GetExcludedExtensionsByProjectID retrieves all excluded extensions for a project
func (s *ExcludedExtensionService) GetExcludedExtensionsByProjectID(projectID string) ([]*models.ExcludedExtension, error) {
	if err := validateID(projectID); err != nil {
		return nil, err
	}
	return s.excludedExtensionRepo.GetByProjectID(projectID)
}

// DeleteExcludedExtension deletes an excluded extension of a project by ID
func (s *ExcludedExtensionService) DeleteExcludedExtension(projectID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.excludedExtensionRepo.Delete(projectID, id)
}
