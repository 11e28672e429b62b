// Package stats aggregates commits and project activity into line statistics that can
// be grouped by week, author and content category in any nesting order.
package stats

import (
	"slices"
	"sort"
	"time"
)

// Statistics is the capability shared by repository, project and combined statistics.
// Grouping never modifies the receiver; every grouping returns new values.
type Statistics interface {
	// DistinctAuthors returns every author once, sorted
	DistinctAuthors() []string
	// LinesTotal sums the added and removed lines of all records
	LinesTotal() LinesStatistics
	// DateRange returns the earliest and latest record, or ErrEmptyRange
	DateRange() (DateRange, error)
	// GroupByWeek buckets records into consecutive weeks of [start, end)
	GroupByWeek(start, end time.Time) *Sequence[Statistics]
	// GroupByAuthor partitions records by author, with an entry for every requested author
	GroupByAuthor(authors []string) *Grouped[Statistics]
	// GroupBy partitions content into the given categories, with an entry for every group
	GroupBy(groups *Groups) *Grouped[Statistics]
	// MapAuthors returns a copy with authors rewritten through the alias mapping
	MapAuthors(mapping map[string]string) Statistics
	// FilterAuthors returns a copy holding only the records of the given authors
	FilterAuthors(authors []string) Statistics
}

// IgnoredAuthors are automation accounts whose activity is never counted.
var IgnoredAuthors = []string{"github-classroom[bot]", "dependabot[bot]"}

func isIgnoredAuthor(author string) bool {
	return slices.Contains(IgnoredAuthors, author)
}

// LinesOf returns the lines total of a statistics value. Handy with MapGrouped and
// MapSequence.
func LinesOf(s Statistics) LinesStatistics {
	return s.LinesTotal()
}

// resolveAuthor applies an alias mapping to a single identity
func resolveAuthor(mapping map[string]string, author string) string {
	if alias, ok := mapping[author]; ok {
		return alias
	}
	return author
}

// authorKeys returns the keys of an author grouping: the requested authors in request
// order, then any other actual author in sorted order. A nil request means every
// actual author.
func authorKeys(requested, actual []string) []string {
	seen := make(map[string]bool, len(requested)+len(actual))
	keys := make([]string, 0, len(requested)+len(actual))
	for _, author := range requested {
		if seen[author] || isIgnoredAuthor(author) {
			continue
		}
		seen[author] = true
		keys = append(keys, author)
	}

	var rest []string
	for _, author := range actual {
		if !seen[author] {
			seen[author] = true
			rest = append(rest, author)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// sortedSet returns the distinct values, sorted
func sortedSet(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func allowList(authors []string) map[string]bool {
	allowed := make(map[string]bool, len(authors))
	for _, author := range authors {
		allowed[author] = true
	}
	return allowed
}
