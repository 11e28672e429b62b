package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/coursescope/internal/gitlog"
	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/stats"
)

func newCollectionService(env *testEnv, collector ActivityCollector, reader CommitReader) *CollectionService {
	return NewCollectionService(env.repositoryRepo, env.commitRepo, env.activityRepo, collector, nil, reader)
}

func TestCollectRepository(t *testing.T) {
	env := setupEnv(t)
	project, err := env.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	path := "/srv/clones/acme-web"
	repo, err := env.projects.AddRepository(project.ID, "acme/web", &path)
	require.NoError(t, err)

	commits := []stats.LoggedCommit{
		logged("c1", "alice", day(1), change("app.js", 3, 1)),
		logged("c2", "bob", day(2), change("Main.java", 7, 0)),
	}
	collector := &fakeCollector{items: []stats.Item{
		{Kind: stats.KindIssue, Number: 4, Author: "bob", Title: "Crash", CreatedAt: day(1),
			Comments: []stats.Comment{{Author: "alice", Body: "fixed", CreatedAt: day(2)}}},
	}}
	service := newCollectionService(env, collector, fakeReader(commits, nil))

	result, err := service.CollectRepository(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, &CollectionResult{NewCommits: 2, Items: 1}, result)

	t.Run("recollecting skips stored commits", func(t *testing.T) {
		collector.items[0].Comments = append(collector.items[0].Comments,
			stats.Comment{Author: "bob", Body: "thanks", CreatedAt: day(3)})

		result, err := service.CollectRepository(context.Background(), repo)
		require.NoError(t, err)
		assert.Equal(t, &CollectionResult{NewCommits: 0, Items: 1}, result)

		count, err := env.commitRepo.CountByRepositoryID(repo.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		items, err := env.activityRepo.GetItems(repo.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Len(t, items[0].Comments, 2)
	})

	t.Run("marks the repository collected", func(t *testing.T) {
		stored, err := env.repositoryRepo.GetByID(repo.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastCollected)
	})
}

func TestCollectRepositoryWithoutClone(t *testing.T) {
	env := setupEnv(t)
	project, err := env.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	repo, err := env.projects.AddRepository(project.ID, "acme/web", nil)
	require.NoError(t, err)

	service := newCollectionService(env, &fakeCollector{}, fakeReader(nil, errors.New("reader must not be called")))

	result, err := service.CollectRepository(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, &CollectionResult{}, result)
}

func TestCollectRepositoryErrors(t *testing.T) {
	env := setupEnv(t)
	project, err := env.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	path := "/srv/clones/acme-web"
	repo, err := env.projects.AddRepository(project.ID, "acme/web", &path)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		collector *fakeCollector
		reader    CommitReader
	}{
		{
			name:      "git log fails",
			collector: &fakeCollector{},
			reader:    fakeReader(nil, errors.New("not a git repository")),
		},
		{
			name:      "github fails",
			collector: &fakeCollector{err: errors.New("rate limited")},
			reader:    fakeReader(nil, nil),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := newCollectionService(env, tc.collector, tc.reader)
			_, err := service.CollectRepository(context.Background(), repo)
			assert.Error(t, err)

			stored, err := env.repositoryRepo.GetByID(repo.ID)
			require.NoError(t, err)
			assert.Nil(t, stored.LastCollected)
		})
	}
}

func TestCollectByID(t *testing.T) {
	env := setupEnv(t)
	project, err := env.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	other, err := env.projects.CreateProject("SE 102", "")
	require.NoError(t, err)
	repo, err := env.projects.AddRepository(project.ID, "acme/web", nil)
	require.NoError(t, err)

	collector := &fakeCollector{}
	service := newCollectionService(env, collector, fakeReader(nil, nil))

	_, err = service.CollectByID(context.Background(), other.ID, repo.ID)
	assert.ErrorIs(t, err, ErrRepositoryNotInProject)

	_, err = service.CollectByID(context.Background(), project.ID, "nope")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = service.CollectByID(context.Background(), project.ID, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, collector.calls)
}

func TestTrackedRepositories(t *testing.T) {
	env := setupEnv(t)
	project, err := env.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	web, err := env.projects.AddRepository(project.ID, "acme/web", nil)
	require.NoError(t, err)
	api, err := env.projects.AddRepository(project.ID, "acme/api", nil)
	require.NoError(t, err)
	require.NoError(t, env.projects.SetRepositoryTracking(project.ID, api.ID, false))

	service := newCollectionService(env, nil, nil)
	tracked, err := service.TrackedRepositories()
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	assert.Equal(t, web.ID, tracked[0].ID)
}

type fakeCloner struct {
	path  string
	calls int
}

func (f *fakeCloner) Sync(ctx context.Context, repo *models.Repository) (string, error) {
	f.calls++
	return f.path, nil
}

func TestCollectRepositoryClonesWithoutLocalPath(t *testing.T) {
	env := setupEnv(t)
	project, err := env.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	repo, err := env.projects.AddRepository(project.ID, "acme/web", nil)
	require.NoError(t, err)

	cloner := &fakeCloner{path: "/srv/clones/acme__web"}
	var readPath string
	reader := func(ctx context.Context, path string, opts gitlog.Options) ([]stats.LoggedCommit, error) {
		readPath = path
		return []stats.LoggedCommit{logged("c1", "alice", day(1), change("app.js", 1, 0))}, nil
	}

	service := NewCollectionService(env.repositoryRepo, env.commitRepo, env.activityRepo, nil, cloner, reader)
	result, err := service.CollectRepository(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewCommits)
	assert.Equal(t, 1, cloner.calls)
	assert.Equal(t, cloner.path, readPath)
}
