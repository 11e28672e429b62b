package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builderRepository() *RepositoryStatistics {
	return NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "alice", day(1), change("web/app.js", 5, 1)),
		commit("c2", "bob", day(9), change("src/App.java", 7, 2), change("web/app.js", 1, 0)),
	})
}

func TestBuilderLeaf(t *testing.T) {
	out, err := NewBuilder(builderRepository()).Build()
	require.NoError(t, err)
	assert.Equal(t, LinesStatistics{Added: 13, Removed: 3}, out)
}

func TestBuilderThreeLevels(t *testing.T) {
	out, err := NewBuilder(builderRepository()).
		GroupByWeek(weekOne, day(14)).
		ThenByAuthor([]string{"alice", "bob"}).
		ThenBy(frontendBackend()).
		Build()
	require.NoError(t, err)

	zero := LinesStatistics{}
	assert.Equal(t, []any{
		map[string]any{
			"alice": map[string]any{"Frontend": LinesStatistics{Added: 5, Removed: 1}, "Backend": zero},
			"bob":   map[string]any{"Frontend": zero, "Backend": zero},
		},
		map[string]any{
			"alice": map[string]any{"Frontend": zero, "Backend": zero},
			"bob":   map[string]any{"Frontend": LinesStatistics{Added: 1}, "Backend": LinesStatistics{Added: 7, Removed: 2}},
		},
	}, out)
}

func TestBuilderGroupThenWeek(t *testing.T) {
	out, err := NewBuilder(builderRepository()).
		GroupBy(frontendBackend()).
		ThenByWeek(weekOne, day(14)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"Frontend": []any{LinesStatistics{Added: 5, Removed: 1}, LinesStatistics{Added: 1}},
		"Backend":  []any{LinesStatistics{}, LinesStatistics{Added: 7, Removed: 2}},
	}, out)
}

func TestBuilderIsReusable(t *testing.T) {
	byAuthor := NewBuilder(builderRepository()).GroupByAuthor(nil)

	flat, err := byAuthor.Build()
	require.NoError(t, err)
	nested, err := byAuthor.ThenBy(frontendBackend()).Build()
	require.NoError(t, err)

	assert.Equal(t, LinesStatistics{Added: 5, Removed: 1}, flat.(map[string]any)["alice"])
	assert.IsType(t, map[string]any{}, nested.(map[string]any)["alice"])
}

func TestBuilderOverCombined(t *testing.T) {
	combined := NewCombinedStats(builderRepository(), NewProjectStatistics([]Item{issueWithComment()}))

	out, err := NewBuilder(combined).GroupByAuthor(nil).ThenBy(DefaultGroups()).Build()
	require.NoError(t, err)

	alice := out.(map[string]any)["alice"].(map[string]any)
	assert.Equal(t, LinesStatistics{Added: 5, Removed: 1}, alice["Frontend"])
	assert.Equal(t, LinesStatistics{Added: 3}, alice["Communication"])
}

func TestBuilderFromExistingWrappers(t *testing.T) {
	repo := builderRepository()

	out, err := NewGroupedBuilder(repo.GroupByAuthor(nil)).ThenByWeek(weekOne, day(14)).Build()
	require.NoError(t, err)
	assert.Equal(t, []any{LinesStatistics{}, LinesStatistics{Added: 8, Removed: 2}}, out.(map[string]any)["bob"])

	out, err = NewSequenceBuilder(repo.GroupByWeek(weekOne, day(7))).Build()
	require.NoError(t, err)
	assert.Equal(t, []any{LinesStatistics{Added: 5, Removed: 1}}, out)
}

func TestBuilderUnexpectedShape(t *testing.T) {
	_, err := NewBuilder(nil).GroupBy(frontendBackend()).ThenByWeek(time.Time{}, time.Time{}).Build()
	require.ErrorIs(t, err, ErrUnexpectedShape)
	assert.Contains(t, err.Error(), "GroupBy")
	assert.Contains(t, err.Error(), "empty leaf")

	b := NewGroupedBuilder(nil)
	_, err = b.Build()
	require.ErrorIs(t, err, ErrUnexpectedShape)
	assert.Contains(t, err.Error(), "Build")

	bogus := &Builder{root: &node{kind: nodeKind(42)}}
	_, err = bogus.GroupByAuthor(nil).Build()
	require.ErrorIs(t, err, ErrUnexpectedShape)
	assert.Contains(t, err.Error(), "unknown(42)")
	assert.Equal(t, err, bogus.GroupByAuthor(nil).Err())
}
