package services

import (
	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
)

type ExcludedFolderService struct {
	excludedFolderRepo *repositories.ExcludedFolderRepository
}

func NewExcludedFolderService(excludedFolderRepo *repositories.ExcludedFolderRepository) *ExcludedFolderService {
	return &ExcludedFolderService{
		excludedFolderRepo: excludedFolderRepo,
	}
}

// CreateExcludedFolder excludes a folder from a project's line counts
func (s *ExcludedFolderService) CreateExcludedFolder(projectID, folderPath string) (*models.ExcludedFolder, error) {
	if err := validateID(projectID); err != nil {
		return nil, err
	}

	folder := models.NewExcludedFolder(projectID, folderPath)
	if err := folder.Validate(); err != nil {
		return nil, err
	}

	// Check if folder path already exists for this project
	exists, err := s.excludedFolderRepo.ExistsByProjectIDAndFolderPath(projectID, folder.FolderPath)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &models.ValidationError{Field: "folder_path", Message: "Folder path already exists for this project"}
	}

	if err := s.excludedFolderRepo.Create(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// GetExcludedFoldersByProjectID retrieves all excluded folders for a project
func (s *ExcludedFolderService) GetExcludedFoldersByProjectID(projectID string) ([]*models.ExcludedFolder, error) {
	if err := validateID(projectID); err != nil {
		return nil, err
	}
	return s.excludedFolderRepo.GetByProjectID(projectID)
}

// DeleteExcludedFolder deletes an excluded folder of a project
func (s *ExcludedFolderService) DeleteExcludedFolder(projectID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.excludedFolderRepo.Delete(projectID, id)
}
