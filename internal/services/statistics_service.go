package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
	"github.com/alimgiray/coursescope/internal/stats"
	"github.com/alimgiray/coursescope/pkg/logger"
)

// loadWorkers bounds how many repositories are read from the database at once
const loadWorkers = 4

// StatisticsQuery selects what a statistics request aggregates. Empty RepositoryIDs
// means every repository of the project, empty Authors means every author. Zero
// Start/End default to the range of the loaded data.
type StatisticsQuery struct {
	ProjectID     string
	RepositoryIDs []string
	Authors       []string
	Start         time.Time
	End           time.Time
}

func (q StatisticsQuery) validate() error {
	if err := validateID(q.ProjectID); err != nil {
		return err
	}
	for _, id := range q.RepositoryIDs {
		if err := validateID(id); err != nil {
			return err
		}
	}
	if !q.Start.IsZero() && !q.End.IsZero() && !q.End.After(q.Start) {
		return ErrInvalidDateRange
	}
	return nil
}

// Sources keeps commit and activity statistics apart, before aliases are applied
type Sources struct {
	Commits  stats.Statistics
	Activity stats.Statistics
}

// Combined merges both sources into one statistics value
func (s *Sources) Combined() stats.Statistics {
	return stats.NewCombinedStats(s.Commits, s.Activity)
}

type StatisticsService struct {
	projectRepo       *repositories.ProjectRepository
	repositoryRepo    *repositories.RepositoryRepository
	commitRepo        *repositories.CommitRepository
	activityRepo      *repositories.ActivityRepository
	aliasRepo         *repositories.AuthorAliasRepository
	extensionRepo     *repositories.ExcludedExtensionRepository
	folderRepo        *repositories.ExcludedFolderRepository
	groups            *stats.Groups
	ignoredExtensions []string
}

func NewStatisticsService(
	projectRepo *repositories.ProjectRepository,
	repositoryRepo *repositories.RepositoryRepository,
	commitRepo *repositories.CommitRepository,
	activityRepo *repositories.ActivityRepository,
	aliasRepo *repositories.AuthorAliasRepository,
	extensionRepo *repositories.ExcludedExtensionRepository,
	folderRepo *repositories.ExcludedFolderRepository,
	groups *stats.Groups,
	ignoredExtensions []string,
) *StatisticsService {
	if groups == nil {
		groups = stats.DefaultGroups()
	}
	return &StatisticsService{
		projectRepo:       projectRepo,
		repositoryRepo:    repositoryRepo,
		commitRepo:        commitRepo,
		activityRepo:      activityRepo,
		aliasRepo:         aliasRepo,
		extensionRepo:     extensionRepo,
		folderRepo:        folderRepo,
		groups:            groups,
		ignoredExtensions: ignoredExtensions,
	}
}

// Groups returns the categories lines are grouped into
func (s *StatisticsService) Groups() *stats.Groups {
	return s.groups
}

// LoadSources reads the commits and activity of the selected repositories
func (s *StatisticsService) LoadSources(ctx context.Context, q StatisticsQuery) (*Sources, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.GetByID(q.ProjectID); err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", q.ProjectID, err)
	}

	repos, err := s.selectRepositories(q)
	if err != nil {
		return nil, err
	}

	excluded, err := s.extensionRepo.GetExtensions(q.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load excluded extensions: %w", err)
	}
	ignored := append(slices.Clone(s.ignoredExtensions), excluded...)

	folders, err := s.folderRepo.GetFolderPaths(q.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load excluded folders: %w", err)
	}
	options := []stats.RepositoryOption{
		stats.WithIgnoredExtensions(ignored...),
		stats.WithIgnoredFolders(folders...),
	}

	commits := make([]*stats.RepositoryStatistics, len(repos))
	activity := make([]*stats.ProjectStatistics, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)
	for i, repo := range repos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			logged, err := s.commitRepo.GetLoggedCommits(repo.ID)
			if err != nil {
				return fmt.Errorf("failed to load commits of %s: %w", repo.FullName, err)
			}
			items, err := s.activityRepo.GetItems(repo.ID)
			if err != nil {
				return fmt.Errorf("failed to load activity of %s: %w", repo.FullName, err)
			}

			commits[i] = stats.NewRepositoryStatistics(logged, options...)
			activity[i] = stats.NewProjectStatistics(items)

			logger.ForRepository(repo.ID).WithFields(logrus.Fields{
				"commits": len(logged),
				"items":   len(items),
			}).Debug("Repository statistics loaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mergedCommits := stats.NewRepositoryStatistics(nil, options...)
	mergedActivity := stats.NewProjectStatistics(nil)
	for i := range repos {
		mergedCommits = mergedCommits.Concat(commits[i])
		mergedActivity = mergedActivity.Concat(activity[i])
	}

	sources := &Sources{Commits: mergedCommits, Activity: mergedActivity}
	return sources, nil
}

// Load returns the combined statistics of a query with aliases applied
func (s *StatisticsService) Load(ctx context.Context, q StatisticsQuery) (stats.Statistics, error) {
	sources, err := s.LoadSources(ctx, q)
	if err != nil {
		return nil, err
	}

	aliases, err := s.aliasRepo.GetAliasMap(q.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	var combined stats.Statistics = sources.Combined()
	if len(aliases) > 0 {
		combined = combined.MapAuthors(aliases)
	}
	if len(q.Authors) > 0 {
		combined = combined.FilterAuthors(q.Authors)
	}

	logger.ForProject(q.ProjectID, q.RepositoryIDs).WithFields(logrus.Fields{
		"authors": len(combined.DistinctAuthors()),
		"aliases": len(aliases),
	}).Info("Statistics loaded")

	return combined, nil
}

// Totals sums every line of the query
func (s *StatisticsService) Totals(ctx context.Context, q StatisticsQuery) (stats.LinesStatistics, error) {
	loaded, err := s.Load(ctx, q)
	if err != nil {
		return stats.LinesStatistics{}, err
	}
	return loaded.LinesTotal(), nil
}

// ByAuthor returns author -> lines
func (s *StatisticsService) ByAuthor(ctx context.Context, q StatisticsQuery) (any, error) {
	loaded, err := s.Load(ctx, q)
	if err != nil {
		return nil, err
	}
	return stats.NewBuilder(loaded).GroupByAuthor(s.authors(q, loaded)).Build()
}

// ByCategory returns category -> lines
func (s *StatisticsService) ByCategory(ctx context.Context, q StatisticsQuery) (any, error) {
	loaded, err := s.Load(ctx, q)
	if err != nil {
		return nil, err
	}
	return stats.NewBuilder(loaded).GroupBy(s.groups).Build()
}

// ByAuthorByCategory returns author -> category -> lines
func (s *StatisticsService) ByAuthorByCategory(ctx context.Context, q StatisticsQuery) (any, error) {
	loaded, err := s.Load(ctx, q)
	if err != nil {
		return nil, err
	}
	return stats.NewBuilder(loaded).GroupByAuthor(s.authors(q, loaded)).ThenBy(s.groups).Build()
}

// WeeklyByAuthorByCategory returns week -> author -> category -> lines. Every week
// lists the same authors, so weeks without activity still show zero rows.
func (s *StatisticsService) WeeklyByAuthorByCategory(ctx context.Context, q StatisticsQuery) (any, error) {
	loaded, err := s.Load(ctx, q)
	if err != nil {
		return nil, err
	}
	return stats.NewBuilder(loaded).
		GroupByWeek(q.Start, q.End).
		ThenByAuthor(s.authors(q, loaded)).
		ThenBy(s.groups).
		Build()
}

// authors pins the author list so nested groupings share their keys
func (s *StatisticsService) authors(q StatisticsQuery, loaded stats.Statistics) []string {
	if len(q.Authors) > 0 {
		return q.Authors
	}
	return loaded.DistinctAuthors()
}

func (s *StatisticsService) selectRepositories(q StatisticsQuery) ([]*models.Repository, error) {
	all, err := s.repositoryRepo.GetByProjectID(q.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load repositories: %w", err)
	}
	if len(q.RepositoryIDs) == 0 {
		return all, nil
	}

	byID := make(map[string]*models.Repository, len(all))
	for _, repo := range all {
		byID[repo.ID] = repo
	}

	selected := make([]*models.Repository, 0, len(q.RepositoryIDs))
	for _, id := range q.RepositoryIDs {
		repo, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRepositoryNotInProject, id)
		}
		selected = append(selected, repo)
	}
	return selected, nil
}
