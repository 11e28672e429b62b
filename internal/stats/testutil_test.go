package stats

import "time"

// weekOne is a Monday; the fixtures are laid out relative to it.
var weekOne = time.Date(2024, time.September, 2, 10, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return weekOne.Add(time.Duration(n) * 24 * time.Hour)
}

func change(path string, added, removed int) LoggedChange {
	return LoggedChange{Path: path, Added: Count(added), Removed: Count(removed)}
}

func binary(path string) LoggedChange {
	return LoggedChange{Path: path, Added: NonNumeric, Removed: NonNumeric}
}

func commit(hash, author string, date time.Time, changes ...LoggedChange) LoggedCommit {
	return LoggedCommit{Hash: hash, Author: author, Date: date, Subject: "commit " + hash, Changes: changes}
}

func frontendBackend() *Groups {
	return MustGroups(
		GroupDefinition{Name: "Frontend", Extensions: []string{".js"}},
		GroupDefinition{Name: "Backend", Extensions: []string{".java"}},
	)
}

func totals(g *Grouped[Statistics]) map[string]any {
	return MapGrouped(g, LinesOf).Export().(map[string]any)
}
