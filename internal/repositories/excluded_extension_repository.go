package repositories

import (
	"database/sql"

	"github.com/alimgiray/coursescope/internal/models"
)

type ExcludedExtensionRepository struct {
	db *sql.DB
}

func NewExcludedExtensionRepository(db *sql.DB) *ExcludedExtensionRepository {
	return &ExcludedExtensionRepository{
		db: db,
	}
}

// Create creates a new excluded extension; adding an existing one is a no-op
func (r *ExcludedExtensionRepository) Create(extension *models.ExcludedExtension) error {
	query := `
		INSERT INTO excluded_extensions (id, project_id, extension, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, extension) DO NOTHING
	`

	_, err := r.db.Exec(query,
		extension.ID,
		extension.ProjectID,
		extension.Extension,
		extension.CreatedAt,
	)

	return err
}

// GetByProjectID retrieves all excluded extensions for a project
func (r *ExcludedExtensionRepository) GetByProjectID(projectID string) ([]*models.ExcludedExtension, error) {
	query := `
		SELECT id, project_id, extension, created_at
		FROM excluded_extensions
		WHERE project_id = ?
		ORDER BY extension
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extensions []*models.ExcludedExtension
	for rows.Next() {
		extension := &models.ExcludedExtension{}
		err := rows.Scan(
			&extension.ID,
			&extension.ProjectID,
			&extension.Extension,
			&extension.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		extensions = append(extensions, extension)
	}

	return extensions, rows.Err()
}

// GetExtensions returns just the extension strings of a project
func (r *ExcludedExtensionRepository) GetExtensions(projectID string) ([]string, error) {
	extensions, err := r.GetByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(extensions))
	for i, extension := range extensions {
		out[i] = extension.Extension
	}
	return out, nil
}

// Delete deletes an excluded extension of a project
func (r *ExcludedExtensionRepository) Delete(projectID, id string) error {
	result, err := r.db.Exec(`DELETE FROM excluded_extensions WHERE project_id = ? AND id = ?`, projectID, id)
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
