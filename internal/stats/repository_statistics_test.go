package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryLinesTotal(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "Bob", day(0), binary("a.png"), change("a.txt", 1, 2), change("b.txt", 3, 4)),
	})

	assert.Equal(t, LinesStatistics{Added: 4, Removed: 6}, repo.LinesTotal())
}

func TestRepositoryLinesTotalEmpty(t *testing.T) {
	repo := NewRepositoryStatistics(nil)
	assert.Equal(t, LinesStatistics{}, repo.LinesTotal())
	assert.Empty(t, repo.DistinctAuthors())
}

func TestRepositoryIgnoreRules(t *testing.T) {
	testCases := []struct {
		name     string
		change   LoggedChange
		opts     []RepositoryOption
		expected LinesStatistics
	}{
		{name: "Lockfile", change: change("web/package-lock.json", 900, 10)},
		{name: "Go checksums", change: change("go.sum", 40, 2)},
		{name: "Dependency folder at root", change: change("node_modules/react/index.js", 50, 0)},
		{name: "Nested dependency folder", change: change("app/vendor/lib/x.php", 50, 0)},
		{name: "Default ignored extension", change: change("data/seed.JSON", 12, 0)},
		{name: "PDF", change: change("docs/report.pdf", 1, 1)},
		{
			name:     "Custom extensions replace defaults",
			change:   change("data/seed.json", 12, 0),
			opts:     []RepositoryOption{WithIgnoredExtensions(".csv")},
			expected: LinesStatistics{Added: 12},
		},
		{
			name:   "Custom extension applies",
			change: change("data/seed.csv", 12, 0),
			opts:   []RepositoryOption{WithIgnoredExtensions(".CSV")},
		},
		{
			name:   "Custom extension without a dot",
			change: change("data/seed.csv", 12, 0),
			opts:   []RepositoryOption{WithIgnoredExtensions("csv")},
		},
		{
			name:     "Custom extension without a dot is not a bare suffix",
			change:   change("maps/city.geojson", 7, 0),
			opts:     []RepositoryOption{WithIgnoredExtensions("json")},
			expected: LinesStatistics{Added: 7},
		},
		{name: "Folder name as file prefix is not a folder", change: change("vendors.go", 5, 1), expected: LinesStatistics{Added: 5, Removed: 1}},
		{
			name:   "Project folder",
			change: change("src/generated/api/Client.java", 300, 0),
			opts:   []RepositoryOption{WithIgnoredFolders("/generated/")},
		},
		{
			name:   "Project folder with several segments",
			change: change("docs/site/build/index.html", 80, 0),
			opts:   []RepositoryOption{WithIgnoredFolders("site/build")},
		},
		{
			name:     "Project folder keeps other paths",
			change:   change("src/generator/Main.java", 3, 0),
			opts:     []RepositoryOption{WithIgnoredFolders("generated")},
			expected: LinesStatistics{Added: 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewRepositoryStatistics([]LoggedCommit{commit("c1", "alice", day(0), tc.change)}, tc.opts...)
			assert.Equal(t, tc.expected, repo.LinesTotal())
		})
	}
}

func TestRepositoryDistinctAuthorsAndRange(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "bob", day(3)),
		commit("c2", "alice", day(1)),
		commit("c3", "bob", day(9)),
	})

	assert.Equal(t, []string{"alice", "bob"}, repo.DistinctAuthors())

	r, err := repo.DateRange()
	require.NoError(t, err)
	assert.Equal(t, day(1), r.Start)
	assert.Equal(t, day(9), r.End)
}

func TestRepositoryDateRangeEmpty(t *testing.T) {
	_, err := NewRepositoryStatistics(nil).DateRange()
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestRepositoryGroupByAuthor(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "alice", day(0), change("a.go", 1, 0)),
		commit("c2", "bob", day(1), change("b.go", 2, 1)),
		commit("c3", "alice", day(2), change("c.go", 3, 0)),
	})

	grouped := repo.GroupByAuthor([]string{"carol", "alice"})
	assert.Equal(t, []string{"carol", "alice", "bob"}, grouped.Keys())
	assert.Equal(t, map[string]any{
		"carol": LinesStatistics{},
		"alice": LinesStatistics{Added: 4},
		"bob":   LinesStatistics{Added: 2, Removed: 1},
	}, totals(grouped))
}

func TestRepositoryGroupByAuthorSkipsIgnoredAuthors(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "github-classroom[bot]", day(0), change("README.md", 40, 0)),
		commit("c2", "alice", day(1), change("a.go", 1, 0)),
	})

	out := totals(repo.GroupByAuthor(nil))
	assert.NotContains(t, out, "github-classroom[bot]")
	assert.Equal(t, map[string]any{"alice": LinesStatistics{Added: 1}}, out)
	assert.Equal(t, LinesStatistics{Added: 1}, repo.LinesTotal())
}

func TestRepositoryGroupByPartition(t *testing.T) {
	commits := []LoggedCommit{
		commit("c1", "alice", day(0),
			change("src/App.java", 10, 1),
			change("web/app.js", 5, 2),
			change("README.md", 3, 0),
			change("logo.svg", 7, 7),
		),
		commit("c2", "bob", day(1), change("web/other.js", 1, 1)),
	}
	repo := NewRepositoryStatistics(commits)

	withOther := MustGroups(
		GroupDefinition{Name: "Backend", Extensions: []string{".java"}},
		GroupDefinition{Name: "Frontend", Extensions: []string{".js"}},
		GroupDefinition{Name: "Other", Other: true},
	)
	grouped := repo.GroupBy(withOther)
	assert.Equal(t, map[string]any{
		"Backend":  LinesStatistics{Added: 10, Removed: 1},
		"Frontend": LinesStatistics{Added: 6, Removed: 3},
		"Other":    LinesStatistics{Added: 10, Removed: 7},
	}, totals(grouped))

	var sum LinesStatistics
	grouped.Each(func(_ string, s Statistics) { sum = sum.Add(s.LinesTotal()) })
	assert.Equal(t, repo.LinesTotal(), sum, "a catch-all group makes the partition lossless")

	backend, _ := grouped.Get("Backend")
	backendCommits := backend.(*RepositoryStatistics).Commits()
	require.Len(t, backendCommits, 1)
	assert.Equal(t, []LoggedChange{change("src/App.java", 10, 1)}, backendCommits[0].Changes)

	assert.Len(t, repo.Commits()[0].Changes, 4, "grouping must not modify the original commits")
}

func TestRepositoryGroupByWithoutCatchAllDropsUnmatched(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "alice", day(0), change("a.java", 4, 0), change("notes.md", 100, 0)),
	})

	grouped := repo.GroupBy(frontendBackend())
	assert.Equal(t, map[string]any{
		"Frontend": LinesStatistics{},
		"Backend":  LinesStatistics{Added: 4},
	}, totals(grouped))
}

func TestRepositoryGroupByEmptyKeepsEveryGroup(t *testing.T) {
	grouped := NewRepositoryStatistics(nil).GroupBy(DefaultGroups())

	out := totals(grouped)
	assert.Len(t, out, 6)
	for _, name := range DefaultGroups().Names() {
		assert.Equal(t, LinesStatistics{}, out[name], name)
	}
}

func TestRepositoryGroupByWeek(t *testing.T) {
	commits := []LoggedCommit{
		commit("c1", "alice", day(1), change("a.go", 1, 0)),
		commit("c2", "alice", day(8), change("a.go", 2, 0)),
		commit("c3", "bob", day(14).Add(23*time.Hour), change("a.go", 4, 0)),
	}
	repo := NewRepositoryStatistics(commits)

	weeks := repo.GroupByWeek(weekOne, day(15))
	require.Equal(t, 3, weeks.Len())

	var all []LoggedCommit
	for _, week := range weeks.Items() {
		all = append(all, week.(*RepositoryStatistics).Commits()...)
	}
	assert.Equal(t, commits, all, "every commit lands in exactly one week")

	assert.Equal(t, []any{
		LinesStatistics{Added: 1},
		LinesStatistics{Added: 2},
		LinesStatistics{Added: 4},
	}, MapSequence(weeks, LinesOf).Export())
}

func TestRepositoryGroupByWeekCounts(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{commit("c1", "alice", day(0))})

	testCases := []struct {
		name     string
		end      time.Time
		expected int
	}{
		{name: "Same instant", end: weekOne, expected: 1},
		{name: "Exactly one week", end: day(7), expected: 1},
		{name: "Partial second week", end: day(8), expected: 2},
		{name: "Ten weeks", end: day(70), expected: 10},
		{name: "End before start", end: day(-3), expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, repo.GroupByWeek(weekOne, tc.end).Len())
		})
	}
}

func TestRepositoryGroupByWeekDefaults(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "alice", day(0), change("a.go", 1, 0)),
		commit("c2", "alice", day(14), change("a.go", 2, 0)),
	})

	weeks := repo.GroupByWeek(time.Time{}, time.Time{})
	require.Equal(t, 3, weeks.Len(), "the last commit gets a bucket of its own")
	assert.Equal(t, LinesStatistics{Added: 2}, weeks.At(2).LinesTotal())

	empty := NewRepositoryStatistics(nil).GroupByWeek(time.Time{}, time.Time{})
	assert.Equal(t, 1, empty.Len())
}

func TestRepositoryGroupByWeekTrailingEmptyWeeks(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{commit("c1", "alice", day(0), change("a.go", 1, 0))})

	weeks := repo.GroupByWeek(weekOne, day(28))
	require.Equal(t, 4, weeks.Len())
	for i := 1; i < 4; i++ {
		assert.Equal(t, LinesStatistics{}, weeks.At(i).LinesTotal())
	}
}

func TestRepositoryMapAuthors(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "alice@laptop", day(0), change("a.go", 3, 1)),
		commit("c2", "alice", day(1), change("b.go", 2, 0)),
		commit("c3", "bob", day(1), change("c.go", 1, 0)),
	})

	before := totals(repo.GroupByAuthor(nil))
	mapped := repo.MapAuthors(map[string]string{"alice@laptop": "alice"})

	assert.Equal(t, []string{"alice", "bob"}, mapped.DistinctAuthors())
	assert.Equal(t, repo.LinesTotal(), mapped.LinesTotal())
	after := totals(mapped.GroupByAuthor(nil))
	assert.Equal(t, LinesStatistics{Added: 5, Removed: 1}, after["alice"])
	assert.Equal(t, before["bob"], after["bob"])

	assert.Equal(t, []string{"alice", "alice@laptop", "bob"}, repo.DistinctAuthors(), "the receiver is left untouched")
}

func TestRepositoryMapAuthorsOntoIgnoredAuthor(t *testing.T) {
	repo := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "bot-alias", day(0), change("a.go", 5, 0)),
		commit("c2", "alice", day(1), change("b.go", 2, 1)),
	})

	mapped := repo.MapAuthors(map[string]string{"bot-alias": "github-classroom[bot]"})

	assert.Equal(t, []string{"alice"}, mapped.GroupByAuthor(nil).Keys())
	assert.NotContains(t, totals(mapped.GroupByAuthor(nil)), "github-classroom[bot]")
	assert.Equal(t, LinesStatistics{Added: 2, Removed: 1}, mapped.LinesTotal())
	assert.Equal(t, LinesStatistics{Added: 7, Removed: 1}, repo.LinesTotal(), "the receiver is left untouched")
}

func TestRepositoryFilterAuthorsAndConcat(t *testing.T) {
	first := NewRepositoryStatistics([]LoggedCommit{
		commit("c1", "alice", day(0), change("a.go", 3, 1)),
		commit("c2", "bob", day(1), change("b.go", 2, 0)),
	})
	second := NewRepositoryStatistics([]LoggedCommit{commit("c3", "carol", day(2), change("c.go", 1, 0))})

	filtered := first.FilterAuthors([]string{"bob"})
	assert.Equal(t, []string{"bob"}, filtered.DistinctAuthors())
	assert.Equal(t, LinesStatistics{Added: 2}, filtered.LinesTotal())

	joined := first.Concat(second)
	assert.Equal(t, []string{"alice", "bob", "carol"}, joined.DistinctAuthors())
	assert.Equal(t, LinesStatistics{Added: 6, Removed: 1}, joined.LinesTotal())
	assert.Len(t, first.Commits(), 2)
}
