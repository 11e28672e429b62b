package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
)

type ProjectService struct {
	projectRepo    *repositories.ProjectRepository
	repositoryRepo *repositories.RepositoryRepository
}

func NewProjectService(projectRepo *repositories.ProjectRepository, repositoryRepo *repositories.RepositoryRepository) *ProjectService {
	return &ProjectService{
		projectRepo:    projectRepo,
		repositoryRepo: repositoryRepo,
	}
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(name, description string) (*models.Project, error) {
	project := models.NewProject(name, description)
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProjectByID retrieves a project by ID
func (s *ProjectService) GetProjectByID(id string) (*models.Project, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(id)
}

func (s *ProjectService) ListProjects() ([]*models.Project, error) {
	return s.projectRepo.List()
}

// DeleteProject deletes a project with all collected data
func (s *ProjectService) DeleteProject(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.projectRepo.Delete(id)
}

// AddRepository starts tracking owner/name for a project
func (s *ProjectService) AddRepository(projectID, fullName string, localPath *string) (*models.Repository, error) {
	if _, err := s.GetProjectByID(projectID); err != nil {
		return nil, err
	}

	repo := models.NewRepository(projectID, fullName)
	repo.LocalPath = localPath
	if err := repo.Validate(); err != nil {
		return nil, err
	}

	if err := s.repositoryRepo.Create(repo); err != nil {
		return nil, fmt.Errorf("failed to add repository %s: %w", fullName, err)
	}
	return repo, nil
}

// GetRepositories lists the repositories of a project
func (s *ProjectService) GetRepositories(projectID string) ([]*models.Repository, error) {
	if err := validateID(projectID); err != nil {
		return nil, err
	}
	return s.repositoryRepo.GetByProjectID(projectID)
}

// SetRepositoryTracking turns background collection for a repository on or off
func (s *ProjectService) SetRepositoryTracking(projectID, repositoryID string, tracked bool) error {
	repo, err := s.getProjectRepository(projectID, repositoryID)
	if err != nil {
		return err
	}
	return s.repositoryRepo.UpdateTrackingStatus(repo.ID, tracked)
}

func (s *ProjectService) getProjectRepository(projectID, repositoryID string) (*models.Repository, error) {
	if err := validateID(repositoryID); err != nil {
		return nil, err
	}
	repo, err := s.repositoryRepo.GetByID(repositoryID)
	if err != nil {
		return nil, err
	}
	if repo.ProjectID != projectID {
		return nil, ErrRepositoryNotInProject
	}
	return repo, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); id == "" || err != nil {
		return ErrInvalidID
	}
	return nil
}
