package stats

import (
	"errors"
	"time"
)

// CombinedStats makes several statistics values, e.g. a repository and its project
// activity, behave as one. Every operation is forwarded to the members and the member
// results are merged key by key.
type CombinedStats struct {
	members []Statistics
}

// NewCombinedStats combines the given members. Nil members, including nil pointers of
// the statistics types in this package, are skipped.
func NewCombinedStats(members ...Statistics) *CombinedStats {
	c := &CombinedStats{}
	for _, m := range members {
		if !isNilMember(m) {
			c.members = append(c.members, m)
		}
	}
	return c
}

func isNilMember(m Statistics) bool {
	switch v := m.(type) {
	case nil:
		return true
	case *RepositoryStatistics:
		return v == nil
	case *ProjectStatistics:
		return v == nil
	case *CombinedStats:
		return v == nil
	}
	return false
}

// Members returns the combined statistics values
func (c *CombinedStats) Members() []Statistics {
	out := make([]Statistics, len(c.members))
	copy(out, c.members)
	return out
}

// DistinctAuthors returns the union of the members' authors
func (c *CombinedStats) DistinctAuthors() []string {
	var authors []string
	for _, m := range c.members {
		authors = append(authors, m.DistinctAuthors()...)
	}
	return sortedSet(authors)
}

// LinesTotal sums the members' totals
func (c *CombinedStats) LinesTotal() LinesStatistics {
	var total LinesStatistics
	for _, m := range c.members {
		total = total.Add(m.LinesTotal())
	}
	return total
}

// DateRange covers every non-empty member. It fails with ErrEmptyRange only when all
// members are empty.
func (c *CombinedStats) DateRange() (DateRange, error) {
	var (
		out   DateRange
		found bool
	)
	for _, m := range c.members {
		r, err := m.DateRange()
		if errors.Is(err, ErrEmptyRange) {
			continue
		}
		if err != nil {
			return DateRange{}, err
		}
		if !found {
			out, found = r, true
			continue
		}
		out = out.Union(r)
	}
	if !found {
		return DateRange{}, ErrEmptyRange
	}
	return out, nil
}

// GroupByAuthor groups every member by the same author list and merges the member
// results per author. A nil list means every author of any member.
func (c *CombinedStats) GroupByAuthor(authors []string) *Grouped[Statistics] {
	if authors == nil {
		authors = c.DistinctAuthors()
	}
	collected := seeded(authorKeys(authors, nil))
	for _, m := range c.members {
		collect(collected, m.GroupByAuthor(authors))
	}
	return MapGrouped(collected, combine)
}

// GroupBy groups every member and merges the member results per group
func (c *CombinedStats) GroupBy(groups *Groups) *Grouped[Statistics] {
	if groups == nil {
		groups = DefaultGroups()
	}
	collected := seeded(groups.Names())
	for _, m := range c.members {
		collect(collected, m.GroupBy(groups))
	}
	return MapGrouped(collected, combine)
}

// GroupByWeek buckets every member into the same week grid and zips the buckets by
// week index. Zero bounds default to the combined date range.
func (c *CombinedStats) GroupByWeek(start, end time.Time) *Sequence[Statistics] {
	records, err := c.DateRange()
	start, end = resolveWeekBounds(start, end, records, err)

	weeks := make([][]Statistics, WeekCount(start, end))
	for _, m := range c.members {
		seq := m.GroupByWeek(start, end)
		for i := 0; i < seq.Len(); i++ {
			if i >= len(weeks) {
				weeks = append(weeks, nil)
			}
			weeks[i] = append(weeks[i], seq.At(i))
		}
	}

	out := NewSequence[Statistics]()
	for _, week := range weeks {
		out.Append(combine(week))
	}
	return out
}

// MapAuthors applies the alias mapping to every member
func (c *CombinedStats) MapAuthors(mapping map[string]string) Statistics {
	out := &CombinedStats{members: make([]Statistics, len(c.members))}
	for i, m := range c.members {
		out.members[i] = m.MapAuthors(mapping)
	}
	return out
}

// FilterAuthors filters every member
func (c *CombinedStats) FilterAuthors(authors []string) Statistics {
	out := &CombinedStats{members: make([]Statistics, len(c.members))}
	for i, m := range c.members {
		out.members[i] = m.FilterAuthors(authors)
	}
	return out
}

func seeded(keys []string) *Grouped[[]Statistics] {
	out := NewGrouped[[]Statistics]()
	for _, key := range keys {
		out.Set(key, nil)
	}
	return out
}

func collect(into *Grouped[[]Statistics], results *Grouped[Statistics]) {
	results.Each(func(key string, value Statistics) {
		existing, _ := into.Get(key)
		into.Set(key, append(existing, value))
	})
}

func combine(members []Statistics) Statistics {
	return NewCombinedStats(members...)
}
