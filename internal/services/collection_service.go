package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/coursescope/internal/gitlog"
	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
	"github.com/alimgiray/coursescope/internal/stats"
	"github.com/alimgiray/coursescope/pkg/logger"
)

// ActivityCollector fetches the issues and pull requests of a GitHub repository
type ActivityCollector interface {
	Collect(ctx context.Context, owner, repo string, since time.Time) ([]stats.Item, error)
}

// Cloner keeps a local clone of a repository up to date and returns its path
type Cloner interface {
	Sync(ctx context.Context, repo *models.Repository) (string, error)
}

// CommitReader reads the commit history of a local clone
type CommitReader func(ctx context.Context, path string, opts gitlog.Options) ([]stats.LoggedCommit, error)

// CollectionResult counts what one refresh stored
type CollectionResult struct {
	NewCommits int `json:"new_commits"`
	Items      int `json:"items"`
}

// CollectionService refreshes the stored commits and activity of repositories
type CollectionService struct {
	repositoryRepo *repositories.RepositoryRepository
	commitRepo     *repositories.CommitRepository
	activityRepo   *repositories.ActivityRepository
	collector      ActivityCollector
	cloner         Cloner
	readCommits    CommitReader
}

func NewCollectionService(
	repositoryRepo *repositories.RepositoryRepository,
	commitRepo *repositories.CommitRepository,
	activityRepo *repositories.ActivityRepository,
	collector ActivityCollector,
	cloner Cloner,
	readCommits CommitReader,
) *CollectionService {
	if readCommits == nil {
		readCommits = gitlog.Read
	}
	return &CollectionService{
		repositoryRepo: repositoryRepo,
		commitRepo:     commitRepo,
		activityRepo:   activityRepo,
		collector:      collector,
		cloner:         cloner,
		readCommits:    readCommits,
	}
}

// CollectRepository stores commits of the local clone that are not stored yet and
// replaces the repository's issue and pull request activity with a fresh copy.
// Repositories without a configured local path are cloned when a cloner is set.
// Activity is skipped when no collector is configured.
func (s *CollectionService) CollectRepository(ctx context.Context, repo *models.Repository) (*CollectionResult, error) {
	log := logger.ForRepository(repo.ID).WithField("full_name", repo.FullName)
	result := &CollectionResult{}

	path, err := s.clonePath(ctx, repo)
	if err != nil {
		return nil, err
	}

	if path != "" {
		commits, err := s.readCommits(ctx, path, gitlog.Options{})
		if err != nil {
			return nil, err
		}

		for _, logged := range commits {
			exists, err := s.commitRepo.ExistsByCommitSHA(repo.ID, logged.Hash)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}
			if err := s.commitRepo.Create(models.NewCommit(repo.ID, logged)); err != nil {
				return nil, err
			}
			result.NewCommits++
		}
	}

	if s.collector != nil {
		owner, name, err := repo.OwnerAndName()
		if err != nil {
			return nil, err
		}

		// comments are replaced per item, so a partial (since) fetch would drop old ones
		items, err := s.collector.Collect(ctx, owner, name, time.Time{})
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if err := s.activityRepo.Upsert(models.NewActivityItem(repo.ID, item)); err != nil {
				return nil, err
			}
		}
		result.Items = len(items)
	}

	if err := s.repositoryRepo.UpdateLastCollected(repo.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark %s as collected: %w", repo.FullName, err)
	}

	log.WithFields(logrus.Fields{
		"new_commits": result.NewCommits,
		"items":       result.Items,
	}).Info("Repository collected")

	return result, nil
}

func (s *CollectionService) clonePath(ctx context.Context, repo *models.Repository) (string, error) {
	if repo.LocalPath != nil && *repo.LocalPath != "" {
		return *repo.LocalPath, nil
	}
	if s.cloner == nil {
		return "", nil
	}
	return s.cloner.Sync(ctx, repo)
}

// CollectByID looks up a repository of a project and collects it
func (s *CollectionService) CollectByID(ctx context.Context, projectID, repositoryID string) (*CollectionResult, error) {
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
	return s.CollectRepository(ctx, repo)
}

// TrackedRepositories lists the repositories due for a refresh, least recent first
func (s *CollectionService) TrackedRepositories() ([]*models.Repository, error) {
	return s.repositoryRepo.ListTracked()
}
