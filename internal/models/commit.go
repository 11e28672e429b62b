package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/alimgiray/coursescope/internal/stats"
)

// Commit is a stored git commit together with its per-file line counts
type Commit struct {
	ID           string        `json:"id"`
	RepositoryID string        `json:"repository_id"`
	CommitSHA    string        `json:"commit_sha"`
	Message      string        `json:"message"`
	AuthorName   string        `json:"author_name"`
	CommitDate   time.Time     `json:"commit_date"`
	CreatedAt    time.Time     `json:"created_at"`
	Files        []*CommitFile `json:"files"`
}

// NewCommit creates a Commit from a parsed log entry
func NewCommit(repositoryID string, logged stats.LoggedCommit) *Commit {
	commit := &Commit{
		ID:           uuid.New().String(),
		RepositoryID: repositoryID,
		CommitSHA:    logged.Hash,
		Message:      logged.Subject,
		AuthorName:   logged.Author,
		CommitDate:   logged.Date.UTC(),
	}
	for _, change := range logged.Changes {
		commit.Files = append(commit.Files, NewCommitFile(commit.ID, change))
	}
	return commit
}

// Logged converts the commit back into the statistics model
func (c *Commit) Logged() stats.LoggedCommit {
	logged := stats.LoggedCommit{
		Hash:    c.CommitSHA,
		Author:  c.AuthorName,
		Date:    c.CommitDate,
		Subject: c.Message,
	}
	for _, file := range c.Files {
		logged.Changes = append(logged.Changes, file.Change())
	}
	return logged
}
