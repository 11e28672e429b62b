package stats

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyGroupName    = errors.New("stats: group name is required")
	ErrDuplicateGroup    = errors.New("stats: duplicate group")
	ErrMultipleCatchAll  = errors.New("stats: more than one catch-all group")
	errNoGroupsSpecified = errors.New("stats: at least one group is required")
)

// GroupDefinition is a named content category. Repository changes match it by file
// extension (case-insensitive suffix). Project activity matches a group that has no
// extensions: either every kind, or only the listed Kinds. Other marks the catch-all
// bucket for content no other group claims.
type GroupDefinition struct {
	Name       string        `json:"name" yaml:"name"`
	Extensions []string      `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Kinds      []ContentKind `json:"kinds,omitempty" yaml:"kinds,omitempty"`
	Other      bool          `json:"other,omitempty" yaml:"other,omitempty"`
}

// Groups is a validated, ordered set of group definitions. The first matching group
// in definition order wins, so every change or item lands in at most one group.
type Groups struct {
	defs  []GroupDefinition
	names []string
	other int
}

// NewGroups validates the definitions: names must be non-empty and unique and at most
// one group may be the catch-all.
func NewGroups(defs ...GroupDefinition) (*Groups, error) {
	if len(defs) == 0 {
		return nil, errNoGroupsSpecified
	}

	g := &Groups{other: -1}
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("group %d: %w", i, ErrEmptyGroupName)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, def.Name)
		}
		seen[def.Name] = true

		if def.Other {
			if g.other >= 0 {
				return nil, fmt.Errorf("%w: %q and %q", ErrMultipleCatchAll, g.defs[g.other].Name, def.Name)
			}
			g.other = i
		}

		normalized := GroupDefinition{
			Name:  def.Name,
			Kinds: slices.Clone(def.Kinds),
			Other: def.Other,
		}
		for _, ext := range def.Extensions {
			if ext = normalizeExtension(ext); ext != "" {
				normalized.Extensions = append(normalized.Extensions, ext)
			}
		}
		g.defs = append(g.defs, normalized)
		g.names = append(g.names, def.Name)
	}

	return g, nil
}

// normalizeExtension lowercases an extension and gives it a leading dot, so "js"
// matches "app.js" but not "app.cjs". Blank extensions normalize to "".
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// MustGroups is like NewGroups but panics on invalid definitions. Meant for hardcoded
// group sets.
func MustGroups(defs ...GroupDefinition) *Groups {
	g, err := NewGroups(defs...)
	if err != nil {
		panic(err)
	}
	return g
}

// DefaultGroupDefinitions returns the built-in course categories
func DefaultGroupDefinitions() []GroupDefinition {
	return []GroupDefinition{
		{Name: "Backend", Extensions: []string{".java", ".py", ".go", ".rb", ".php", ".cs", ".kt", ".rs", ".c", ".cpp", ".h", ".sql"}},
		{Name: "Frontend", Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".vue", ".svelte", ".css", ".scss", ".less"}},
		{Name: "Markup", Extensions: []string{".html", ".xml", ".yml", ".yaml"}},
		{Name: "Docs", Extensions: []string{".md", ".txt", ".rst", ".adoc"}},
		{Name: "Communication"},
		{Name: "Other", Other: true},
	}
}

// DefaultGroups returns the built-in course categories as a validated set
func DefaultGroups() *Groups {
	return MustGroups(DefaultGroupDefinitions()...)
}

// Names returns the group names in definition order
func (g *Groups) Names() []string {
	return slices.Clone(g.names)
}

// Definitions returns a copy of the normalized definitions
func (g *Groups) Definitions() []GroupDefinition {
	return slices.Clone(g.defs)
}

// CatchAll returns the name of the catch-all group, if any
func (g *Groups) CatchAll() (string, bool) {
	if g.other < 0 {
		return "", false
	}
	return g.defs[g.other].Name, true
}

// MatchPath returns the group a file path belongs to. Paths no extension group claims
// fall to the catch-all; without one they belong to no group.
func (g *Groups) MatchPath(path string) (string, bool) {
	lower := strings.ToLower(path)
	for _, def := range g.defs {
		if def.Other {
			continue
		}
		for _, ext := range def.Extensions {
			if strings.HasSuffix(lower, ext) {
				return def.Name, true
			}
		}
	}
	return g.CatchAll()
}

// MatchKind returns the group a piece of project activity belongs to
func (g *Groups) MatchKind(kind ContentKind) (string, bool) {
	for _, def := range g.defs {
		if def.Other || len(def.Extensions) > 0 {
			continue
		}
		if len(def.Kinds) == 0 || slices.Contains(def.Kinds, kind) {
			return def.Name, true
		}
	}
	return g.CatchAll()
}
