package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/alimgiray/coursescope/internal/stats"
)

// ActivityItem is a stored issue or pull request
type ActivityItem struct {
	ID              string             `json:"id" db:"id"`
	RepositoryID    string             `json:"repository_id" db:"repository_id"`
	Kind            stats.ContentKind  `json:"kind" db:"kind"`
	Number          int                `json:"number" db:"number"`
	Author          string             `json:"author" db:"author"`
	Title           string             `json:"title" db:"title"`
	Body            *string            `json:"body" db:"body"`
	GithubCreatedAt time.Time          `json:"github_created_at" db:"github_created_at"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	Comments        []*ActivityComment `json:"comments"`
}

// NewActivityItem creates an ActivityItem and its comments from a collected item
func NewActivityItem(repositoryID string, item stats.Item) *ActivityItem {
	stored := &ActivityItem{
		ID:              uuid.New().String(),
		RepositoryID:    repositoryID,
		Kind:            item.Kind,
		Number:          item.Number,
		Author:          item.Author,
		Title:           item.Title,
		Body:            optionalText(item.Body),
		GithubCreatedAt: item.CreatedAt.UTC(),
	}
	for _, comment := range item.Comments {
		stored.Comments = append(stored.Comments, NewActivityComment(stored.ID, comment))
	}
	return stored
}

// Item converts the stored row back into the statistics model
func (a *ActivityItem) Item() stats.Item {
	item := stats.Item{
		Kind:      a.Kind,
		Number:    a.Number,
		Author:    a.Author,
		Title:     a.Title,
		Body:      textValue(a.Body),
		CreatedAt: a.GithubCreatedAt,
	}
	for _, comment := range a.Comments {
		item.Comments = append(item.Comments, comment.Comment())
	}
	return item
}

// ActivityComment is a stored issue comment or pull request review comment
type ActivityComment struct {
	ID              string    `json:"id" db:"id"`
	ItemID          string    `json:"item_id" db:"item_id"`
	Author          string    `json:"author" db:"author"`
	Body            *string   `json:"body" db:"body"`
	GithubCreatedAt time.Time `json:"github_created_at" db:"github_created_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// NewActivityComment creates an ActivityComment with a generated UUID
func NewActivityComment(itemID string, comment stats.Comment) *ActivityComment {
	return &ActivityComment{
		ID:              uuid.New().String(),
		ItemID:          itemID,
		Author:          comment.Author,
		Body:            optionalText(comment.Body),
		GithubCreatedAt: comment.CreatedAt.UTC(),
	}
}

func (c *ActivityComment) Comment() stats.Comment {
	return stats.Comment{
		Author:    c.Author,
		Body:      textValue(c.Body),
		CreatedAt: c.GithubCreatedAt,
	}
}

// GitHub reports a missing body as null; it is stored that way
func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func textValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
