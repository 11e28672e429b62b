package models

import (
	"github.com/google/uuid"

	"github.com/alimgiray/coursescope/internal/stats"
)

// CommitFile is one file touched by a commit. Nil counts mark a binary change.
type CommitFile struct {
	ID        string `json:"id"`
	CommitID  string `json:"commit_id"`
	Filename  string `json:"filename"`
	Additions *int   `json:"additions"`
	Deletions *int   `json:"deletions"`
}

// NewCommitFile creates a CommitFile with a generated UUID
func NewCommitFile(commitID string, change stats.LoggedChange) *CommitFile {
	return &CommitFile{
		ID:        uuid.New().String(),
		CommitID:  commitID,
		Filename:  change.Path,
		Additions: countPointer(change.Added),
		Deletions: countPointer(change.Removed),
	}
}

// Change converts the file back into the statistics model
func (cf *CommitFile) Change() stats.LoggedChange {
	return stats.LoggedChange{
		Path:    cf.Filename,
		Added:   countValue(cf.Additions),
		Removed: countValue(cf.Deletions),
	}
}

func countPointer(c stats.Count) *int {
	if !c.IsNumeric() {
		return nil
	}
	v := c.Value()
	return &v
}

func countValue(v *int) stats.Count {
	if v == nil {
		return stats.NonNumeric
	}
	return stats.Count(*v)
}
