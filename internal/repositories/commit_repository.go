package repositories

import (
	"database/sql"
	"fmt"

	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/stats"
)

type CommitRepository struct {
	db *sql.DB
}

func NewCommitRepository(db *sql.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// Create stores a commit and its files in one transaction
func (r *CommitRepository) Create(commit *models.Commit) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO commits (id, repository_id, commit_sha, message, author_name, commit_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		commit.ID, commit.RepositoryID, commit.CommitSHA, commit.Message,
		commit.AuthorName, commit.CommitDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert commit %s: %w", commit.CommitSHA, err)
	}

	for position, file := range commit.Files {
		_, err = tx.Exec(`
			INSERT INTO commit_files (id, commit_id, position, filename, additions, deletions)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			file.ID, commit.ID, position, file.Filename, file.Additions, file.Deletions,
		)
		if err != nil {
			return fmt.Errorf("failed to insert file %s of commit %s: %w", file.Filename, commit.CommitSHA, err)
		}
	}

	return tx.Commit()
}

// GetLoggedCommits loads every commit of a repository with its files, oldest first
func (r *CommitRepository) GetLoggedCommits(repositoryID string) ([]stats.LoggedCommit, error) {
	query := `
		SELECT c.id, c.commit_sha, c.message, c.author_name, c.commit_date,
			   f.filename, f.additions, f.deletions
		FROM commits c
		LEFT JOIN commit_files f ON f.commit_id = c.id
		WHERE c.repository_id = ?
		ORDER BY c.commit_date, c.id, f.position
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commits []*models.Commit
	var current *models.Commit
	for rows.Next() {
		commit := &models.Commit{RepositoryID: repositoryID}
		var (
			filename            sql.NullString
			additions, deletions sql.NullInt64
		)
		err := rows.Scan(
			&commit.ID, &commit.CommitSHA, &commit.Message, &commit.AuthorName, &commit.CommitDate,
			&filename, &additions, &deletions,
		)
		if err != nil {
			return nil, err
		}

		if current == nil || current.ID != commit.ID {
			current = commit
			commits = append(commits, current)
		}
		if filename.Valid {
			current.Files = append(current.Files, &models.CommitFile{
				CommitID:  current.ID,
				Filename:  filename.String,
				Additions: nullableInt(additions),
				Deletions: nullableInt(deletions),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logged := make([]stats.LoggedCommit, len(commits))
	for i, commit := range commits {
		logged[i] = commit.Logged()
	}
	return logged, nil
}

// ExistsByCommitSHA checks if a commit of the repository is already stored
func (r *CommitRepository) ExistsByCommitSHA(repositoryID, commitSHA string) (bool, error) {
	query := `SELECT COUNT(*) FROM commits WHERE repository_id = ? AND commit_sha = ?`
	var count int
	err := r.db.QueryRow(query, repositoryID, commitSHA).Scan(&count)
	return count > 0, err
}

// CountByRepositoryID returns how many commits are stored for a repository
func (r *CommitRepository) CountByRepositoryID(repositoryID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM commits WHERE repository_id = ?`, repositoryID).Scan(&count)
	return count, err
}

// DeleteByRepositoryID deletes all commits for a repository
func (r *CommitRepository) DeleteByRepositoryID(repositoryID string) error {
	query := `DELETE FROM commits WHERE repository_id = ?`
	_, err := r.db.Exec(query, repositoryID)
	return err
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
