package stats

import "time"

// LoggedChange is one contributor's change to one file within one commit.
type LoggedChange struct {
	Path    string `json:"path"`
	Added   Count  `json:"added"`
	Removed Count  `json:"removed"`
}

// IsNumeric reports whether both counts are known
func (c LoggedChange) IsNumeric() bool {
	return c.Added.IsNumeric() && c.Removed.IsNumeric()
}

// Lines returns the change as line statistics. Non-numeric changes count as zero.
func (c LoggedChange) Lines() LinesStatistics {
	if !c.IsNumeric() {
		return LinesStatistics{}
	}
	return LinesStatistics{Added: c.Added.Value(), Removed: c.Removed.Value()}
}

func (c LoggedChange) asNonNumeric() LoggedChange {
	c.Added = NonNumeric
	c.Removed = NonNumeric
	return c
}

// LoggedCommit is a parsed commit with its per-file changes. Author is the raw identity
// before alias resolution.
type LoggedCommit struct {
	Hash    string         `json:"hash"`
	Author  string         `json:"author"`
	Date    time.Time      `json:"date"`
	Subject string         `json:"subject"`
	Changes []LoggedChange `json:"changes"`
}

// withChanges returns a copy of the commit carrying only the given changes
func (c LoggedCommit) withChanges(changes []LoggedChange) LoggedCommit {
	c.Changes = changes
	return c
}

func (c LoggedCommit) withAuthor(author string) LoggedCommit {
	c.Author = author
	return c
}
