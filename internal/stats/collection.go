package stats

import "slices"

// Exporter is implemented by values that know how to flatten themselves into plain,
// serializable data.
type Exporter interface {
	Export() any
}

func exportValue(v any) any {
	if e, ok := v.(Exporter); ok {
		return e.Export()
	}
	return v
}

// Grouped is an insertion-ordered map from group key to value.
type Grouped[T any] struct {
	keys   []string
	values map[string]T
}

// NewGrouped creates an empty grouped collection
func NewGrouped[T any]() *Grouped[T] {
	return &Grouped[T]{values: make(map[string]T)}
}

// Set stores a value under key, keeping the key's original position on overwrite
func (g *Grouped[T]) Set(key string, value T) {
	if _, ok := g.values[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.values[key] = value
}

// Get returns the value stored under key
func (g *Grouped[T]) Get(key string) (T, bool) {
	v, ok := g.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (g *Grouped[T]) Keys() []string {
	return slices.Clone(g.keys)
}

// Len returns the number of keys
func (g *Grouped[T]) Len() int {
	return len(g.keys)
}

// Each calls fn for every entry in key order
func (g *Grouped[T]) Each(fn func(key string, value T)) {
	for _, key := range g.keys {
		fn(key, g.values[key])
	}
}

// Filter returns the entries for which keep returns true
func (g *Grouped[T]) Filter(keep func(key string, value T) bool) *Grouped[T] {
	out := NewGrouped[T]()
	g.Each(func(key string, value T) {
		if keep(key, value) {
			out.Set(key, value)
		}
	})
	return out
}

// Combine returns the union of both collections. Keys present on both sides are merged,
// keys present on one side pass through unchanged.
func (g *Grouped[T]) Combine(other *Grouped[T], merge func(a, b T) T) *Grouped[T] {
	out := NewGrouped[T]()
	g.Each(out.Set)
	if other == nil {
		return out
	}
	other.Each(func(key string, value T) {
		if existing, ok := out.Get(key); ok {
			out.Set(key, merge(existing, value))
			return
		}
		out.Set(key, value)
	})
	return out
}

// Export flattens the collection into a map[string]any, exporting every value that is
// itself an Exporter.
func (g *Grouped[T]) Export() any {
	out := make(map[string]any, len(g.keys))
	g.Each(func(key string, value T) {
		out[key] = exportValue(value)
	})
	return out
}

// MapGrouped transforms every value, keeping keys and their order
func MapGrouped[T, U any](g *Grouped[T], fn func(T) U) *Grouped[U] {
	out := NewGrouped[U]()
	g.Each(func(key string, value T) {
		out.Set(key, fn(value))
	})
	return out
}

// Sequence is an ordered list whose positions carry meaning, e.g. week indexes.
type Sequence[T any] struct {
	items []T
}

// NewSequence creates a sequence holding the given items
func NewSequence[T any](items ...T) *Sequence[T] {
	return &Sequence[T]{items: slices.Clone(items)}
}

// Append adds an item at the end
func (s *Sequence[T]) Append(item T) {
	s.items = append(s.items, item)
}

// At returns the item at position i
func (s *Sequence[T]) At(i int) T {
	return s.items[i]
}

// Len returns the number of items
func (s *Sequence[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the items
func (s *Sequence[T]) Items() []T {
	return slices.Clone(s.items)
}

// Filter returns the items for which keep returns true
func (s *Sequence[T]) Filter(keep func(i int, item T) bool) *Sequence[T] {
	out := NewSequence[T]()
	for i, item := range s.items {
		if keep(i, item) {
			out.Append(item)
		}
	}
	return out
}

// Combine merges both sequences position by position. The longer side's tail passes
// through unchanged.
func (s *Sequence[T]) Combine(other *Sequence[T], merge func(a, b T) T) *Sequence[T] {
	out := NewSequence(s.items...)
	if other == nil {
		return out
	}
	for i, item := range other.items {
		if i < len(out.items) {
			out.items[i] = merge(out.items[i], item)
			continue
		}
		out.Append(item)
	}
	return out
}

// Export flattens the sequence into a []any, exporting every item that is itself an
// Exporter.
func (s *Sequence[T]) Export() any {
	out := make([]any, len(s.items))
	for i, item := range s.items {
		out[i] = exportValue(item)
	}
	return out
}

// MapSequence transforms every item, keeping positions
func MapSequence[T, U any](s *Sequence[T], fn func(T) U) *Sequence[U] {
	out := &Sequence[U]{items: make([]U, len(s.items))}
	for i, item := range s.items {
		out.items[i] = fn(item)
	}
	return out
}
