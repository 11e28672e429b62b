package repositories

import (
	"database/sql"
	"fmt"

	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/stats"
)

// ActivityRepository stores issues, pull requests and their comments
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Upsert stores an item and replaces its comments. An item is identified by its
// repository, kind and number, so collecting twice does not duplicate it.
func (r *ActivityRepository) Upsert(item *models.ActivityItem) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRow(
		`SELECT id FROM activity_items WHERE repository_id = ? AND kind = ? AND number = ?`,
		item.RepositoryID, item.Kind, item.Number,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`
			INSERT INTO activity_items (id, repository_id, kind, number, author, title, body, github_created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			item.ID, item.RepositoryID, item.Kind, item.Number, item.Author,
			item.Title, item.Body, item.GithubCreatedAt,
		)
	case err == nil:
		item.ID = existingID
		_, err = tx.Exec(`
			UPDATE activity_items SET author = ?, title = ?, body = ?, github_created_at = ?
			WHERE id = ?
		`, item.Author, item.Title, item.Body, item.GithubCreatedAt, item.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to store %s #%d: %w", item.Kind, item.Number, err)
	}

	if _, err = tx.Exec(`DELETE FROM activity_comments WHERE item_id = ?`, item.ID); err != nil {
		return err
	}
	for _, comment := range item.Comments {
		comment.ItemID = item.ID
		_, err = tx.Exec(`
			INSERT INTO activity_comments (id, item_id, author, body, github_created_at)
			VALUES (?, ?, ?, ?, ?)
		`, comment.ID, comment.ItemID, comment.Author, comment.Body, comment.GithubCreatedAt)
		if err != nil {
			return fmt.Errorf("failed to store comment on %s #%d: %w", item.Kind, item.Number, err)
		}
	}

	return tx.Commit()
}

// GetItems loads every item of a repository with its comments, oldest first
func (r *ActivityRepository) GetItems(repositoryID string) ([]stats.Item, error) {
	rows, err := r.db.Query(`
		SELECT id, repository_id, kind, number, author, title, body, github_created_at, created_at
		FROM activity_items
		WHERE repository_id = ?
		ORDER BY github_created_at, number
	`, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ActivityItem
	byID := make(map[string]*models.ActivityItem)
	for rows.Next() {
		item := &models.ActivityItem{}
		err := rows.Scan(
			&item.ID, &item.RepositoryID, &item.Kind, &item.Number, &item.Author,
			&item.Title, &item.Body, &item.GithubCreatedAt, &item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachComments(repositoryID, byID); err != nil {
		return nil, err
	}

	out := make([]stats.Item, len(items))
	for i, item := range items {
		out[i] = item.Item()
	}
	return out, nil
}

func (r *ActivityRepository) attachComments(repositoryID string, byID map[string]*models.ActivityItem) error {
	rows, err := r.db.Query(`
		SELECT c.id, c.item_id, c.author, c.body, c.github_created_at, c.created_at
		FROM activity_comments c
		JOIN activity_items i ON i.id = c.item_id
		WHERE i.repository_id = ?
		ORDER BY c.github_created_at, c.id
	`, repositoryID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		comment := &models.ActivityComment{}
		err := rows.Scan(
			&comment.ID, &comment.ItemID, &comment.Author, &comment.Body,
			&comment.GithubCreatedAt, &comment.CreatedAt,
		)
		if err != nil {
			return err
		}
		if item, ok := byID[comment.ItemID]; ok {
			item.Comments = append(item.Comments, comment)
		}
	}

	return rows.Err()
}

// CountByRepositoryID returns how many items are stored for a repository
func (r *ActivityRepository) CountByRepositoryID(repositoryID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM activity_items WHERE repository_id = ?`, repositoryID).Scan(&count)
	return count, err
}

// DeleteByRepositoryID deletes all items and comments for a repository
func (r *ActivityRepository) DeleteByRepositoryID(repositoryID string) error {
	_, err := r.db.Exec(`DELETE FROM activity_items WHERE repository_id = ?`, repositoryID)
	return err
}
