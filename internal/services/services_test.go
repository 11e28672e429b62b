package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alimgiray/coursescope/internal/gitlog"
	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
	"github.com/alimgiray/coursescope/internal/stats"
	"github.com/alimgiray/coursescope/pkg/database"
)

var monday = time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return monday.AddDate(0, 0, n)
}

type testEnv struct {
	db             *sql.DB
	projects       *ProjectService
	aliases        *AuthorAliasService
	extensions     *ExcludedExtensionService
	folders        *ExcludedFolderService
	statistics     *StatisticsService
	suggestions    *AliasSuggestionService
	repositoryRepo *repositories.RepositoryRepository
	commitRepo     *repositories.CommitRepository
	activityRepo   *repositories.ActivityRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	projectRepo := repositories.NewProjectRepository(db)
	repositoryRepo := repositories.NewRepositoryRepository(db)
	commitRepo := repositories.NewCommitRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	aliasRepo := repositories.NewAuthorAliasRepository(db)
	extensionRepo := repositories.NewExcludedExtensionRepository(db)
	folderRepo := repositories.NewExcludedFolderRepository(db)

	statistics := NewStatisticsService(
		projectRepo, repositoryRepo, commitRepo, activityRepo, aliasRepo, extensionRepo, folderRepo,
		stats.DefaultGroups(), stats.DefaultIgnoredExtensions,
	)

	return &testEnv{
		db:             db,
		projects:       NewProjectService(projectRepo, repositoryRepo),
		aliases:        NewAuthorAliasService(aliasRepo),
		extensions:     NewExcludedExtensionService(extensionRepo),
		folders:        NewExcludedFolderService(folderRepo),
		statistics:     statistics,
		suggestions:    NewAliasSuggestionService(statistics, aliasRepo),
		repositoryRepo: repositoryRepo,
		commitRepo:     commitRepo,
		activityRepo:   activityRepo,
	}
}

func (e *testEnv) addCommits(t *testing.T, repo *models.Repository, commits ...stats.LoggedCommit) {
	t.Helper()
	for _, c := range commits {
		require.NoError(t, e.commitRepo.Create(models.NewCommit(repo.ID, c)))
	}
}

func (e *testEnv) addItems(t *testing.T, repo *models.Repository, items ...stats.Item) {
	t.Helper()
	for _, item := range items {
		require.NoError(t, e.activityRepo.Upsert(models.NewActivityItem(repo.ID, item)))
	}
}

func change(path string, added, removed int) stats.LoggedChange {
	return stats.LoggedChange{Path: path, Added: stats.Count(added), Removed: stats.Count(removed)}
}

func logged(hash, author string, date time.Time, changes ...stats.LoggedChange) stats.LoggedCommit {
	return stats.LoggedCommit{Hash: hash, Author: author, Date: date, Subject: "commit " + hash, Changes: changes}
}

// seedCourse creates a project with two repositories:
//
//	web: alice 10/2 in .js on day 1, "Alice Smith" 5/0 in .java on day 8, issue by bob
//	api: bob 4/1 in .java on day 2, a .json file
func (e *testEnv) seedCourse(t *testing.T) (*models.Project, *models.Repository, *models.Repository) {
	t.Helper()
	project, err := e.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	web, err := e.projects.AddRepository(project.ID, "acme/web", nil)
	require.NoError(t, err)
	api, err := e.projects.AddRepository(project.ID, "acme/api", nil)
	require.NoError(t, err)

	e.addCommits(t, web,
		logged("w1", "alice", day(1), change("web/app.js", 10, 2)),
		logged("w2", "Alice Smith", day(8), change("src/App.java", 5, 0)),
		logged("w3", "dependabot[bot]", day(3), change("package.json", 100, 100)),
	)
	e.addItems(t, web, stats.Item{
		Kind: stats.KindIssue, Number: 1, Author: "bob", Title: "Login fails", Body: "Steps:\nclick login", CreatedAt: day(2),
		Comments: []stats.Comment{{Author: "asmith", Body: "On it", CreatedAt: day(3)}},
	})
	e.addCommits(t, api,
		logged("a1", "bob", day(2), change("src/Api.java", 4, 1), change("fixtures/data.json", 50, 0)),
	)
	return project, web, api
}

type fakeCollector struct {
	items []stats.Item
	err   error
	calls int
}

func (f *fakeCollector) Collect(ctx context.Context, owner, repo string, since time.Time) ([]stats.Item, error) {
	f.calls++
	return f.items, f.err
}

func fakeReader(commits []stats.LoggedCommit, err error) CommitReader {
	return func(ctx context.Context, path string, opts gitlog.Options) ([]stats.LoggedCommit, error) {
		return commits, err
	}
}
