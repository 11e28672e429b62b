package stats

import (
	"errors"
	"time"
)

// Week is the width of a week bucket.
const Week = 7 * 24 * time.Hour

// ErrEmptyRange is returned when a date range is requested from a statistics value
// that holds no records.
var ErrEmptyRange = errors.New("stats: date range of an empty record set")

// DateRange spans the earliest and the latest record timestamps, both inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Union returns the smallest range covering both ranges
func (r DateRange) Union(other DateRange) DateRange {
	out := r
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if other.End.After(out.End) {
		out.End = other.End
	}
	return out
}

// include widens the range to cover t
func (r DateRange) include(t time.Time) DateRange {
	return r.Union(DateRange{Start: t, End: t})
}

// rangeOf folds timestamps into a range
func rangeOf(times []time.Time) (DateRange, error) {
	if len(times) == 0 {
		return DateRange{}, ErrEmptyRange
	}
	r := DateRange{Start: times[0], End: times[0]}
	for _, t := range times[1:] {
		r = r.include(t)
	}
	return r, nil
}

// WeekCount returns the number of week buckets covering [start, end): the ceiling of
// the span in weeks, never less than one.
func WeekCount(start, end time.Time) int {
	span := end.Sub(start)
	if span <= 0 {
		return 1
	}
	n := int(span / Week)
	if span%Week != 0 {
		n++
	}
	return n
}

// WeekStart returns the start of the i-th week bucket
func WeekStart(start time.Time, i int) time.Time {
	return start.Add(time.Duration(i) * Week)
}

// weekGrid assigns timestamps to week buckets of [start, end).
type weekGrid struct {
	start time.Time
	count int
}

func newWeekGrid(start, end time.Time) weekGrid {
	return weekGrid{start: start, count: WeekCount(start, end)}
}

// index returns the bucket of t, or false when t lies outside the grid
func (g weekGrid) index(t time.Time) (int, bool) {
	if t.Before(g.start) {
		return 0, false
	}
	i := int(t.Sub(g.start) / Week)
	if i >= g.count {
		return 0, false
	}
	return i, true
}

// resolveWeekBounds fills in defaults for a week bucketing request. A zero start
// becomes the first record (or now when there are none); a zero end becomes just past
// the last record so that record is still bucketed.
func resolveWeekBounds(start, end time.Time, records DateRange, recordsErr error) (time.Time, time.Time) {
	if start.IsZero() {
		if recordsErr == nil {
			start = records.Start
		} else {
			start = time.Now()
		}
	}
	if end.IsZero() {
		if recordsErr == nil {
			end = records.End.Add(time.Nanosecond)
		} else {
			end = start
		}
	}
	if end.Before(start) {
		end = start
	}
	return start, end
}
