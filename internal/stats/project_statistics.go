package stats

import (
	"slices"
	"time"
)

type projectOptions struct {
	comments    []Comment
	commentsSet bool
}

// ProjectOption configures a ProjectStatistics.
type ProjectOption func(*projectOptions)

// WithComments supplies the comment set explicitly instead of flattening the comments
// nested in the items.
func WithComments(comments []Comment) ProjectOption {
	return func(o *projectOptions) {
		o.comments = comments
		o.commentsSet = true
	}
}

// ProjectStatistics measures written communication on issues and pull requests as
// added lines. Comments are tracked apart from the items they were written on, so
// comment authorship is independent of item authorship.
type ProjectStatistics struct {
	items    []Item
	comments []Comment
}

// NewProjectStatistics wraps the items. Unless WithComments is given, the comments of
// every item are collected. Records by ignored authors are dropped.
func NewProjectStatistics(items []Item, opts ...ProjectOption) *ProjectStatistics {
	var o projectOptions
	for _, opt := range opts {
		opt(&o)
	}

	comments := o.comments
	if !o.commentsSet {
		for _, item := range items {
			comments = append(comments, item.Comments...)
		}
	}

	s := &ProjectStatistics{}
	for _, item := range items {
		if !isIgnoredAuthor(item.Author) {
			s.items = append(s.items, item.shell())
		}
	}
	for _, comment := range comments {
		if !isIgnoredAuthor(comment.Author) {
			s.comments = append(s.comments, comment)
		}
	}
	return s
}

// Items returns the issues and pull requests, without their comments
func (s *ProjectStatistics) Items() []Item {
	return slices.Clone(s.items)
}

// Comments returns every comment
func (s *ProjectStatistics) Comments() []Comment {
	return slices.Clone(s.comments)
}

// LinesTotal sums title and body lines of the items and body lines of the comments
func (s *ProjectStatistics) LinesTotal() LinesStatistics {
	var total LinesStatistics
	for _, item := range s.items {
		total = total.Add(item.Lines())
	}
	for _, comment := range s.comments {
		total = total.Add(comment.Lines())
	}
	return total
}

// DistinctAuthors returns item and comment authors
func (s *ProjectStatistics) DistinctAuthors() []string {
	authors := make([]string, 0, len(s.items)+len(s.comments))
	for _, item := range s.items {
		authors = append(authors, item.Author)
	}
	for _, comment := range s.comments {
		authors = append(authors, comment.Author)
	}
	return sortedSet(authors)
}

// DateRange spans items and comments together
func (s *ProjectStatistics) DateRange() (DateRange, error) {
	times := make([]time.Time, 0, len(s.items)+len(s.comments))
	for _, item := range s.items {
		times = append(times, item.CreatedAt)
	}
	for _, comment := range s.comments {
		times = append(times, comment.CreatedAt)
	}
	return rangeOf(times)
}

// GroupByAuthor puts each item into its author's bucket and each comment into its own
// author's bucket, whoever wrote the item it belongs to.
func (s *ProjectStatistics) GroupByAuthor(authors []string) *Grouped[Statistics] {
	items := make(map[string][]Item)
	for _, item := range s.items {
		items[item.Author] = append(items[item.Author], item)
	}
	comments := make(map[string][]Comment)
	for _, comment := range s.comments {
		comments[comment.Author] = append(comments[comment.Author], comment)
	}

	out := NewGrouped[Statistics]()
	for _, author := range authorKeys(authors, s.DistinctAuthors()) {
		out.Set(author, &ProjectStatistics{items: items[author], comments: comments[author]})
	}
	return out
}

// GroupBy assigns items by their kind and comments as KindComment. Groups that claim
// no project content get an empty entry.
func (s *ProjectStatistics) GroupBy(groups *Groups) *Grouped[Statistics] {
	if groups == nil {
		groups = DefaultGroups()
	}

	items := make(map[string][]Item)
	for _, item := range s.items {
		if name, ok := groups.MatchKind(item.Kind); ok {
			items[name] = append(items[name], item)
		}
	}
	comments := make(map[string][]Comment)
	if name, ok := groups.MatchKind(KindComment); ok {
		comments[name] = slices.Clone(s.comments)
	}

	out := NewGrouped[Statistics]()
	for _, name := range groups.Names() {
		out.Set(name, &ProjectStatistics{items: items[name], comments: comments[name]})
	}
	return out
}

// GroupByWeek buckets items and comments by creation time. Zero bounds default to the
// earliest record (now, when there are none) and just past the latest record.
func (s *ProjectStatistics) GroupByWeek(start, end time.Time) *Sequence[Statistics] {
	records, err := s.DateRange()
	start, end = resolveWeekBounds(start, end, records, err)
	grid := newWeekGrid(start, end)

	buckets := make([]*ProjectStatistics, grid.count)
	for i := range buckets {
		buckets[i] = &ProjectStatistics{}
	}
	for _, item := range s.items {
		if i, ok := grid.index(item.CreatedAt); ok {
			buckets[i].items = append(buckets[i].items, item)
		}
	}
	for _, comment := range s.comments {
		if i, ok := grid.index(comment.CreatedAt); ok {
			buckets[i].comments = append(buckets[i].comments, comment)
		}
	}

	out := NewSequence[Statistics]()
	for _, bucket := range buckets {
		out.Append(bucket)
	}
	return out
}

// MapAuthors returns a copy with item and comment authors resolved independently.
// Items and comments that resolve to an ignored author are dropped.
func (s *ProjectStatistics) MapAuthors(mapping map[string]string) Statistics {
	out := &ProjectStatistics{
		items:    make([]Item, 0, len(s.items)),
		comments: make([]Comment, 0, len(s.comments)),
	}
	for _, item := range s.items {
		if item.Author = resolveAuthor(mapping, item.Author); !isIgnoredAuthor(item.Author) {
			out.items = append(out.items, item)
		}
	}
	for _, comment := range s.comments {
		if comment.Author = resolveAuthor(mapping, comment.Author); !isIgnoredAuthor(comment.Author) {
			out.comments = append(out.comments, comment)
		}
	}
	return out
}

// FilterAuthors returns a copy holding only items and comments by the given authors
func (s *ProjectStatistics) FilterAuthors(authors []string) Statistics {
	allowed := allowList(authors)
	out := &ProjectStatistics{}
	for _, item := range s.items {
		if allowed[item.Author] {
			out.items = append(out.items, item)
		}
	}
	for _, comment := range s.comments {
		if allowed[comment.Author] {
			out.comments = append(out.comments, comment)
		}
	}
	return out
}

// Concat returns statistics over the activity of both values
func (s *ProjectStatistics) Concat(other *ProjectStatistics) *ProjectStatistics {
	out := &ProjectStatistics{
		items:    slices.Clone(s.items),
		comments: slices.Clone(s.comments),
	}
	if other != nil {
		out.items = append(out.items, other.items...)
		out.comments = append(out.comments, other.comments...)
	}
	return out
}
