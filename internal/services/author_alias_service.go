package services

import (
	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
)

// AuthorAliasService manages which author identities are merged in statistics
type AuthorAliasService struct {
	aliasRepo *repositories.AuthorAliasRepository
}

func NewAuthorAliasService(aliasRepo *repositories.AuthorAliasRepository) *AuthorAliasService {
	return &AuthorAliasService{
		aliasRepo: aliasRepo,
	}
}

// SetAlias merges sourceAuthor into targetAuthor. Setting a new target for the same
// source replaces the previous one.
func (s *AuthorAliasService) SetAlias(projectID, sourceAuthor, targetAuthor string) (*models.AuthorAlias, error) {
	if err := validateID(projectID); err != nil {
		return nil, err
	}

	alias := models.NewAuthorAlias(projectID, sourceAuthor, targetAuthor)
	if err := alias.Validate(); err != nil {
		return nil, err
	}

	return alias, s.aliasRepo.Save(alias)
}

// GetAliases retrieves all aliases for a project
func (s *AuthorAliasService) GetAliases(projectID string) ([]*models.AuthorAlias, error) {
	if err := validateID(projectID); err != nil {
		return nil, err
	}
	return s.aliasRepo.GetByProjectID(projectID)
}

// GetAliasMap returns source author -> target author for a project
func (s *AuthorAliasService) GetAliasMap(projectID string) (map[string]string, error) {
	return s.aliasRepo.GetAliasMap(projectID)
}

// DeleteAlias detaches sourceAuthor again
func (s *AuthorAliasService) DeleteAlias(projectID, sourceAuthor string) error {
	if err := validateID(projectID); err != nil {
		return err
	}
	return s.aliasRepo.Delete(projectID, sourceAuthor)
}
