package stats

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnexpectedShape is returned by a Builder whose work in progress is neither a
// statistics leaf nor a grouped or sequence wrapper of them.
var ErrUnexpectedShape = errors.New("stats: unexpected work-in-progress shape")

type nodeKind int

const (
	leafNode nodeKind = iota + 1
	groupedNode
	sequenceNode
)

func (k nodeKind) String() string {
	switch k {
	case leafNode:
		return "leaf"
	case groupedNode:
		return "grouped"
	case sequenceNode:
		return "sequence"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// node is the builder's tree: a statistics leaf, or a wrapper of further nodes.
type node struct {
	kind     nodeKind
	leaf     Statistics
	grouped  *Grouped[*node]
	sequence *Sequence[*node]
}

func leaf(s Statistics) *node {
	return &node{kind: leafNode, leaf: s}
}

func groupedOf(g *Grouped[Statistics]) *node {
	if g == nil {
		return &node{kind: groupedNode}
	}
	return &node{kind: groupedNode, grouped: MapGrouped(g, leaf)}
}

func sequenceOf(s *Sequence[Statistics]) *node {
	if s == nil {
		return &node{kind: sequenceNode}
	}
	return &node{kind: sequenceNode, sequence: MapSequence(s, leaf)}
}

func (n *node) shape() string {
	if n == nil {
		return "nil"
	}
	switch {
	case n.kind == leafNode && n.leaf == nil,
		n.kind == groupedNode && n.grouped == nil,
		n.kind == sequenceNode && n.sequence == nil:
		return "empty " + n.kind.String()
	}
	return n.kind.String()
}

// Builder chains groupings without tracking how deep the result is already nested.
// Each step applies to every statistics leaf of the current tree. Builders are
// immutable; every step returns a new one, so a partial chain can be reused.
//
//	out, err := stats.NewBuilder(s).
//		GroupByWeek(start, time.Time{}).
//		ThenByAuthor(nil).
//		ThenBy(stats.DefaultGroups()).
//		Build()
type Builder struct {
	root *node
	err  error
}

// NewBuilder starts a chain at a single statistics value
func NewBuilder(s Statistics) *Builder {
	return &Builder{root: leaf(s)}
}

// NewGroupedBuilder starts a chain at an existing grouping
func NewGroupedBuilder(g *Grouped[Statistics]) *Builder {
	return &Builder{root: groupedOf(g)}
}

// NewSequenceBuilder starts a chain at an existing week sequence
func NewSequenceBuilder(s *Sequence[Statistics]) *Builder {
	return &Builder{root: sequenceOf(s)}
}

// GroupByWeek buckets every leaf by week
func (b *Builder) GroupByWeek(start, end time.Time) *Builder {
	return b.apply("GroupByWeek", byWeek(start, end))
}

// GroupByAuthor groups every leaf by author
func (b *Builder) GroupByAuthor(authors []string) *Builder {
	return b.apply("GroupByAuthor", byAuthor(authors))
}

// GroupBy groups every leaf by content category
func (b *Builder) GroupBy(groups *Groups) *Builder {
	return b.apply("GroupBy", byGroups(groups))
}

// ThenByWeek is GroupByWeek, named for chain readability
func (b *Builder) ThenByWeek(start, end time.Time) *Builder {
	return b.apply("ThenByWeek", byWeek(start, end))
}

// ThenByAuthor is GroupByAuthor, named for chain readability
func (b *Builder) ThenByAuthor(authors []string) *Builder {
	return b.apply("ThenByAuthor", byAuthor(authors))
}

// ThenBy is GroupBy, named for chain readability
func (b *Builder) ThenBy(groups *Groups) *Builder {
	return b.apply("ThenBy", byGroups(groups))
}

// Err returns the first error of the chain
func (b *Builder) Err() error {
	return b.err
}

// Build flattens the tree into plain data: each leaf becomes its LinesStatistics, each
// grouping a map[string]any and each week sequence a []any.
func (b *Builder) Build() (any, error) {
	if b.err != nil {
		return nil, b.err
	}
	return flatten("Build", b.root)
}

func byWeek(start, end time.Time) func(Statistics) *node {
	return func(s Statistics) *node { return sequenceOf(s.GroupByWeek(start, end)) }
}

func byAuthor(authors []string) func(Statistics) *node {
	return func(s Statistics) *node { return groupedOf(s.GroupByAuthor(authors)) }
}

func byGroups(groups *Groups) func(Statistics) *node {
	return func(s Statistics) *node { return groupedOf(s.GroupBy(groups)) }
}

func (b *Builder) apply(op string, fn func(Statistics) *node) *Builder {
	if b.err != nil {
		return b
	}
	root, err := applyOp(op, b.root, fn)
	return &Builder{root: root, err: err}
}

// applyOp replaces every leaf below n with fn(leaf), at any depth
func applyOp(op string, n *node, fn func(Statistics) *node) (*node, error) {
	switch {
	case n == nil:
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnexpectedShape, n.shape())
	case n.kind == leafNode && n.leaf != nil:
		return fn(n.leaf), nil
	case n.kind == groupedNode && n.grouped != nil:
		out := NewGrouped[*node]()
		for _, key := range n.grouped.Keys() {
			child, _ := n.grouped.Get(key)
			mapped, err := applyOp(op, child, fn)
			if err != nil {
				return nil, err
			}
			out.Set(key, mapped)
		}
		return &node{kind: groupedNode, grouped: out}, nil
	case n.kind == sequenceNode && n.sequence != nil:
		out := NewSequence[*node]()
		for _, child := range n.sequence.items {
			mapped, err := applyOp(op, child, fn)
			if err != nil {
				return nil, err
			}
			out.Append(mapped)
		}
		return &node{kind: sequenceNode, sequence: out}, nil
	}
	return nil, fmt.Errorf("%s: %w: %s", op, ErrUnexpectedShape, n.shape())
}

// flatten turns the tree into plain nested data
func flatten(op string, n *node) (any, error) {
	switch {
	case n == nil:
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnexpectedShape, n.shape())
	case n.kind == leafNode && n.leaf != nil:
		return n.leaf.LinesTotal(), nil
	case n.kind == groupedNode && n.grouped != nil:
		out := NewGrouped[any]()
		for _, key := range n.grouped.Keys() {
			child, _ := n.grouped.Get(key)
			value, err := flatten(op, child)
			if err != nil {
				return nil, err
			}
			out.Set(key, value)
		}
		return out.Export(), nil
	case n.kind == sequenceNode && n.sequence != nil:
		out := NewSequence[any]()
		for _, child := range n.sequence.items {
			value, err := flatten(op, child)
			if err != nil {
				return nil, err
			}
			out.Append(value)
		}
		return out.Export(), nil
	}
	return nil, fmt.Errorf("%s: %w: %s", op, ErrUnexpectedShape, n.shape())
}
