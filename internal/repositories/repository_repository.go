package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/coursescope/internal/models"
)

// RepositoryRepository stores the GitHub repositories tracked by projects
type RepositoryRepository struct {
	db *sql.DB
}

func NewRepositoryRepository(db *sql.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

const repositoryColumns = `id, project_id, full_name, local_path, is_tracked, last_collected, created_at`

// Create creates a new repository
func (r *RepositoryRepository) Create(repo *models.Repository) error {
	query := `
		INSERT INTO repositories (` + repositoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		repo.ID, repo.ProjectID, repo.FullName, repo.LocalPath,
		repo.IsTracked, repo.LastCollected, repo.CreatedAt,
	)

	return err
}

// GetByID retrieves a repository by ID
func (r *RepositoryRepository) GetByID(id string) (*models.Repository, error) {
	query := `SELECT ` + repositoryColumns + ` FROM repositories WHERE id = ?`

	repo, err := scanRepository(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	return repo, nil
}

// GetByProjectID retrieves all repositories of a project ordered by name
func (r *RepositoryRepository) GetByProjectID(projectID string) ([]*models.Repository, error) {
	query := `
		SELECT ` + repositoryColumns + `
		FROM repositories WHERE project_id = ?
		ORDER BY full_name
	`

	return r.list(query, projectID)
}

// ListTracked retrieves the repositories whose data should be refreshed
func (r *RepositoryRepository) ListTracked() ([]*models.Repository, error) {
	query := `
		SELECT ` + repositoryColumns + `
		FROM repositories WHERE is_tracked = 1
		ORDER BY last_collected IS NOT NULL, last_collected
	`

	return r.list(query)
}

// UpdateLastCollected records when the repository's data was last refreshed
func (r *RepositoryRepository) UpdateLastCollected(id string, collectedAt time.Time) error {
	_, err := r.db.Exec(`UPDATE repositories SET last_collected = ? WHERE id = ?`, collectedAt.UTC(), id)
	return err
}

// UpdateTrackingStatus turns refreshing on or off
func (r *RepositoryRepository) UpdateTrackingStatus(id string, isTracked bool) error {
	_, err := r.db.Exec(`UPDATE repositories SET is_tracked = ? WHERE id = ?`, isTracked, id)
	return err
}

func (r *RepositoryRepository) list(query string, args ...interface{}) ([]*models.Repository, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []*models.Repository
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}

	return repos, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRepository(row rowScanner) (*models.Repository, error) {
	repo := &models.Repository{}
	err := row.Scan(
		&repo.ID, &repo.ProjectID, &repo.FullName, &repo.LocalPath,
		&repo.IsTracked, &repo.LastCollected, &repo.CreatedAt,
	)
	return repo, err
}
