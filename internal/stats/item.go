package stats

import (
	"strings"
	"time"
)

// ContentKind is the structural kind of a piece of project activity.
type ContentKind string

const (
	KindIssue       ContentKind = "issue"
	KindPullRequest ContentKind = "pull_request"
	KindComment     ContentKind = "comment"
)

// Comment is a comment on an issue or a pull request, including review comments.
type Comment struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Lines counts the lines of the comment body as added lines
func (c Comment) Lines() LinesStatistics {
	return LinesStatistics{Added: countLines(c.Body)}
}

// Item is an issue or a pull request.
type Item struct {
	Kind      ContentKind `json:"kind"`
	Number    int         `json:"number"`
	Author    string      `json:"author"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"created_at"`
	Comments  []Comment   `json:"comments,omitempty"`
}

// Lines counts one line for a title plus the lines of the body. Prose has no removed
// lines.
func (i Item) Lines() LinesStatistics {
	lines := countLines(i.Body)
	if i.Title != "" {
		lines++
	}
	return LinesStatistics{Added: lines}
}

// shell returns the item without its comments
func (i Item) shell() Item {
	i.Comments = nil
	return i
}

// countLines counts newline separated lines; an empty text has none.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
