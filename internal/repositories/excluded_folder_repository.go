package repositories

import (
	"database/sql"

	"github.com/alimgiray/coursescope/internal/models"
)

type ExcludedFolderRepository struct {
	db *sql.DB
}

func NewExcludedFolderRepository(db *sql.DB) *ExcludedFolderRepository {
	return &ExcludedFolderRepository{
		db: db,
	}
}

// Create creates a new excluded folder
func (r *ExcludedFolderRepository) Create(folder *models.ExcludedFolder) error {
	query := `
		INSERT INTO excluded_folders (id, project_id, folder_path, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		folder.ID,
		folder.ProjectID,
		folder.FolderPath,
		folder.CreatedAt,
	)

	return err
}

// ExistsByProjectIDAndFolderPath checks if a folder is already excluded for a project
func (r *ExcludedFolderRepository) ExistsByProjectIDAndFolderPath(projectID, folderPath string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM excluded_folders WHERE project_id = ? AND folder_path = ?`,
		projectID, folderPath,
	).Scan(&count)
	return count > 0, err
}

// GetByProjectID retrieves all excluded folders for a project
func (r *ExcludedFolderRepository) GetByProjectID(projectID string) ([]*models.ExcludedFolder, error) {
	query := `
		SELECT id, project_id, folder_path, created_at
		FROM excluded_folders
		WHERE project_id = ?
		ORDER BY folder_path
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*models.ExcludedFolder
	for rows.Next() {
		folder := &models.ExcludedFolder{}
		if err := rows.Scan(&folder.ID, &folder.ProjectID, &folder.FolderPath, &folder.CreatedAt); err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}

	return folders, rows.Err()
}

// GetFolderPaths returns just the folder paths of a project
func (r *ExcludedFolderRepository) GetFolderPaths(projectID string) ([]string, error) {
	folders, err := r.GetByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(folders))
	for i, folder := range folders {
		paths[i] = folder.FolderPath
	}
	return paths, nil
}

// Delete deletes an excluded folder of a project
func (r *ExcludedFolderRepository) Delete(projectID, id string) error {
	result, err := r.db.Exec(`DELETE FROM excluded_folders WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
