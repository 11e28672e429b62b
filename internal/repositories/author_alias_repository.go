package repositories

import (
	"database/sql"

	"github.com/alimgiray/coursescope/internal/models"
)

type AuthorAliasRepository struct {
	db *sql.DB
}

func NewAuthorAliasRepository(db *sql.DB) *AuthorAliasRepository {
	return &AuthorAliasRepository{db: db}
}

// Save creates an alias or retargets the existing alias of the same source author
func (r *AuthorAliasRepository) Save(alias *models.AuthorAlias) error {
	query := `
		INSERT INTO author_aliases (id, project_id, source_author, target_author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, source_author)
		DO UPDATE SET target_author = excluded.target_author, updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		alias.ID, alias.ProjectID, alias.SourceAuthor, alias.TargetAuthor,
		alias.CreatedAt, alias.UpdatedAt,
	)

	return err
}

// GetByProjectID retrieves all aliases for a project
func (r *AuthorAliasRepository) GetByProjectID(projectID string) ([]*models.AuthorAlias, error) {
	query := `
		SELECT id, project_id, source_author, target_author, created_at, updated_at
		FROM author_aliases WHERE project_id = ?
		ORDER BY source_author
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []*models.AuthorAlias
	for rows.Next() {
		alias := &models.AuthorAlias{}
		err := rows.Scan(
			&alias.ID, &alias.ProjectID, &alias.SourceAuthor, &alias.TargetAuthor,
			&alias.CreatedAt, &alias.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, alias)
	}

	return aliases, rows.Err()
}

// GetAliasMap returns source author -> target author for a project
func (r *AuthorAliasRepository) GetAliasMap(projectID string) (map[string]string, error) {
	aliases, err := r.GetByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(aliases))
	for _, alias := range aliases {
		mapping[alias.SourceAuthor] = alias.TargetAuthor
	}
	return mapping, nil
}

// Delete removes the alias of a source author, restoring it as its own identity
func (r *AuthorAliasRepository) Delete(projectID, sourceAuthor string) error {
	result, err := r.db.Exec(
		`DELETE FROM author_aliases WHERE project_id = ? AND source_author = ?`,
		projectID, sourceAuthor,
	)
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
