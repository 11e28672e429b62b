package stats

import "strconv"

// LinesStatistics is the added/removed pair every aggregation ends in.
type LinesStatistics struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Add returns the element-wise sum of two line statistics
func (l LinesStatistics) Add(other LinesStatistics) LinesStatistics {
	return LinesStatistics{
		Added:   l.Added + other.Added,
		Removed: l.Removed + other.Removed,
	}
}

// IsZero reports whether nothing was added or removed
func (l LinesStatistics) IsZero() bool {
	return l.Added == 0 && l.Removed == 0
}

// Count is a per-file line count as reported by git numstat.
type Count int

// NonNumeric marks a count git could not determine, e.g. for binary files.
const NonNumeric Count = -1

// IsNumeric reports whether the count holds a real value
func (c Count) IsNumeric() bool {
	return c >= 0
}

// Value returns the count, or 0 for NonNumeric
func (c Count) Value() int {
	if !c.IsNumeric() {
		return 0
	}
	return int(c)
}

// String renders NonNumeric the way git does
func (c Count) String() string {
	if !c.IsNumeric() {
		return "-"
	}
	return strconv.Itoa(int(c))
}

// ParseCount converts a numstat column into a Count. "-" and anything that is not a
// non-negative integer become NonNumeric.
func ParseCount(s string) Count {
	if s == "-" {
		return NonNumeric
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return NonNumeric
	}
	return Count(n)
}
