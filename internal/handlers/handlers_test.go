package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/coursescope/internal/gitlog"
	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/repositories"
	"github.com/alimgiray/coursescope/internal/services"
	"github.com/alimgiray/coursescope/internal/stats"
	"github.com/alimgiray/coursescope/pkg/database"
)

var monday = time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)

type testServer struct {
	router     *gin.Engine
	projects   *services.ProjectService
	commitRepo *repositories.CommitRepository
}

type noActivity struct{}

func (noActivity) Collect(ctx context.Context, owner, repo string, since time.Time) ([]stats.Item, error) {
	return nil, nil
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	projectService := services.NewProjectService(projectRepo, repositoryRepo)
	statisticsService := services.NewStatisticsService(projectRepo, repositoryRepo, commitRepo, activityRepo,
		aliasRepo, extensionRepo, folderRepo, stats.DefaultGroups(), stats.DefaultIgnoredExtensions)
	reader := func(ctx context.Context, path string, opts gitlog.Options) ([]stats.LoggedCommit, error) {
		return nil, nil
	}
	collectionService := services.NewCollectionService(repositoryRepo, commitRepo, activityRepo, noActivity{}, nil, reader)

	settingsHandler := NewSettingsHandler(
		services.NewAuthorAliasService(aliasRepo),
		services.NewAliasSuggestionService(statisticsService, aliasRepo),
		services.NewExcludedExtensionService(extensionRepo),
		services.NewExcludedFolderService(folderRepo),
	)

	router := gin.New()
	RegisterRoutes(router, &Handlers{
		Health:     NewHealthHandler(db),
		Project:    NewProjectHandler(projectService, collectionService),
		Settings:   settingsHandler,
		Statistics: NewStatisticsHandler(statisticsService, services.NewExportService(statisticsService)),
		NotFound:   NewNotFoundHandler(),
	})

	return &testServer{router: router, projects: projectService, commitRepo: commitRepo}
}

// seed creates a project with one repository and two commits in consecutive weeks
func (s *testServer) seed(t *testing.T) (*models.Project, *models.Repository) {
	t.Helper()
	project, err := s.projects.CreateProject("SE 101", "")
	require.NoError(t, err)
	repo, err := s.projects.AddRepository(project.ID, "acme/web", nil)
	require.NoError(t, err)

	for _, c := range []stats.LoggedCommit{
		{Hash: "a1", Author: "alice", Date: monday.AddDate(0, 0, 1), Changes: []stats.LoggedChange{{Path: "app.js", Added: 10, Removed: 2}}},
		{Hash: "b1", Author: "bob", Date: monday.AddDate(0, 0, 8), Changes: []stats.LoggedChange{{Path: "Main.java", Added: 4, Removed: 1}}},
	} {
		require.NoError(t, s.commitRepo.Create(models.NewCommit(repo.ID, c)))
	}
	return project, repo
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	w, body := s.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestNotFoundRoute(t *testing.T) {
	s := setupServer(t)
	w, body := s.do(t, "GET", "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/nope", body["requested_path"])
}

func TestProjectEndpoints(t *testing.T) {
	s := setupServer(t)

	w, body := s.do(t, "POST", "/projects", gin.H{"name": "SE 101"})
	require.Equal(t, http.StatusCreated, w.Code)
	projectID := body["data"].(map[string]interface{})["id"].(string)

	testCases := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		expected int
	}{
		{name: "missing name", method: "POST", path: "/projects", body: gin.H{}, expected: http.StatusBadRequest},
		{name: "list", method: "GET", path: "/projects", expected: http.StatusOK},
		{name: "get", method: "GET", path: "/projects/" + projectID, expected: http.StatusOK},
		{name: "invalid id", method: "GET", path: "/projects/xyz", expected: http.StatusBadRequest},
		{name: "unknown id", method: "GET", path: "/projects/" + uuid.New().String(), expected: http.StatusNotFound},
		{name: "bad repository name", method: "POST", path: "/projects/" + projectID + "/repositories", body: gin.H{"full_name": "web"}, expected: http.StatusBadRequest},
		{name: "add repository", method: "POST", path: "/projects/" + projectID + "/repositories", body: gin.H{"full_name": "acme/web"}, expected: http.StatusCreated},
		{name: "list repositories", method: "GET", path: "/projects/" + projectID + "/repositories", expected: http.StatusOK},
		{name: "tracking without body", method: "PUT", path: "/projects/" + projectID + "/repositories/" + uuid.New().String() + "/tracking", body: gin.H{}, expected: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := s.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.expected, w.Code)
		})
	}

	t.Run("collect and untrack a repository", func(t *testing.T) {
		_, body := s.do(t, "GET", "/projects/"+projectID+"/repositories", nil)
		repos := body["data"].([]interface{})
		require.Len(t, repos, 1)
		repoID := repos[0].(map[string]interface{})["id"].(string)

		w, body := s.do(t, "POST", "/projects/"+projectID+"/repositories/"+repoID+"/collect", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]interface{}{"new_commits": float64(0), "items": float64(0)}, body["data"])

		w, _ = s.do(t, "PUT", "/projects/"+projectID+"/repositories/"+repoID+"/tracking", gin.H{"tracked": false})
		assert.Equal(t, http.StatusOK, w.Code)

		other, err := s.projects.CreateProject("SE 102", "")
		require.NoError(t, err)
		w, _ = s.do(t, "POST", "/projects/"+other.ID+"/repositories/"+repoID+"/collect", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w, _ := s.do(t, "DELETE", "/projects/"+projectID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		w, _ = s.do(t, "DELETE", "/projects/"+projectID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatisticsEndpoint(t *testing.T) {
	s := setupServer(t)
	project, _ := s.seed(t)
	base := "/projects/" + project.ID + "/statistics"

	t.Run("totals by default", func(t *testing.T) {
		w, body := s.do(t, "GET", base, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "totals", body["view"])
		assert.Equal(t, map[string]interface{}{"added": float64(14), "removed": float64(3)}, body["data"])
		assert.Len(t, body["groups"], 6)
	})

	t.Run("authors filtered by query", func(t *testing.T) {
		w, body := s.do(t, "GET", base+"?view=authors&authors=alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]interface{}{
			"alice": map[string]interface{}{"added": float64(10), "removed": float64(2)},
		}, body["data"])
	})

	t.Run("weekly with an inclusive end date", func(t *testing.T) {
		w, body := s.do(t, "GET", base+"?view=weekly&start=2024-09-02&end=2024-09-08", nil)
		require.Equal(t, http.StatusOK, w.Code)
		weeks := body["data"].([]interface{})
		require.Len(t, weeks, 1)
		alice := weeks[0].(map[string]interface{})["alice"].(map[string]interface{})
		assert.Equal(t, map[string]interface{}{"added": float64(10), "removed": float64(2)}, alice["Frontend"])
	})

	errorCases := []struct {
		name     string
		path     string
		expected int
	}{
		{name: "unknown view", path: base + "?view=monthly", expected: http.StatusBadRequest},
		{name: "bad date", path: base + "?start=02/09/2024", expected: http.StatusBadRequest},
		{name: "end before start", path: base + "?start=2024-09-10&end=2024-09-01", expected: http.StatusBadRequest},
		{name: "foreign repository", path: base + "?repos=" + uuid.New().String(), expected: http.StatusNotFound},
		{name: "unknown project", path: "/projects/" + uuid.New().String() + "/statistics", expected: http.StatusNotFound},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := s.do(t, "GET", tc.path, nil)
			assert.Equal(t, tc.expected, w.Code)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestExportEndpoint(t *testing.T) {
	s := setupServer(t)
	project, _ := s.seed(t)

	w, _ := s.do(t, "GET", "/projects/"+project.ID+"/statistics/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxMimeType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	// xlsx files are zip archives
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
}

func TestSettingsEndpoints(t *testing.T) {
	s := setupServer(t)
	project, _ := s.seed(t)
	base := "/projects/" + project.ID

	w, _ := s.do(t, "PUT", base+"/aliases", gin.H{"source_author": "bob", "target_author": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, "PUT", base+"/aliases", gin.H{"source_author": "bob", "target_author": "alice"})
	require.Equal(t, http.StatusOK, w.Code)

	_, body := s.do(t, "GET", base+"/statistics?view=authors", nil)
	assert.Equal(t, map[string]interface{}{
		"alice": map[string]interface{}{"added": float64(14), "removed": float64(3)},
	}, body["data"])

	w, _ = s.do(t, "DELETE", base+"/aliases?source_author=bob", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, "DELETE", base+"/aliases", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, "GET", base+"/aliases/suggestions?threshold=0.5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, body["data"])

	w, _ = s.do(t, "GET", base+"/aliases/suggestions?threshold=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, "POST", base+"/extensions", gin.H{"extension": "java"})
	require.Equal(t, http.StatusCreated, w.Code)
	extensionID := body["data"].(map[string]interface{})["id"].(string)

	_, body = s.do(t, "GET", base+"/statistics", nil)
	assert.Equal(t, map[string]interface{}{"added": float64(10), "removed": float64(2)}, body["data"])

	w, _ = s.do(t, "DELETE", base+"/extensions/"+extensionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, "DELETE", base+"/extensions/"+extensionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFolderEndpoints(t *testing.T) {
	s := setupServer(t)
	project, repo := s.seed(t)
	base := "/projects/" + project.ID

	generated := stats.LoggedCommit{Hash: "g1", Author: "alice", Date: monday, Changes: []stats.LoggedChange{{Path: "src/generated/Api.java", Added: 500}}}
	require.NoError(t, s.commitRepo.Create(models.NewCommit(repo.ID, generated)))

	_, body := s.do(t, "GET", base+"/statistics", nil)
	assert.Equal(t, map[string]interface{}{"added": float64(514), "removed": float64(3)}, body["data"])

	w, body := s.do(t, "POST", base+"/folders", gin.H{"folder_path": "/generated/"})
	require.Equal(t, http.StatusCreated, w.Code)
	folder := body["data"].(map[string]interface{})
	assert.Equal(t, "generated", folder["folder_path"])

	w, _ = s.do(t, "POST", base+"/folders", gin.H{"folder_path": "generated"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, body = s.do(t, "GET", base+"/statistics", nil)
	assert.Equal(t, map[string]interface{}{"added": float64(14), "removed": float64(3)}, body["data"])

	_, body = s.do(t, "GET", base+"/folders", nil)
	assert.Len(t, body["data"], 1)

	w, _ = s.do(t, "DELETE", base+"/folders/"+folder["id"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
