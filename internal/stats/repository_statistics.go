package stats

import (
	"path"
	"slices"
	"strings"
	"time"
)

// IgnoredFiles are generated files whose line changes are never counted.
var IgnoredFiles = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"composer.lock",
	"Gemfile.lock",
	"Pipfile.lock",
	"poetry.lock",
	"Cargo.lock",
	"go.sum",
}

// IgnoredFolders are dependency folders whose contents are never counted.
var IgnoredFolders = []string{
	"node_modules",
	"vendor",
	"bower_components",
	"site-packages",
	".venv",
	"venv",
	".yarn",
}

// DefaultIgnoredExtensions are zeroed out unless overridden with WithIgnoredExtensions.
var DefaultIgnoredExtensions = []string{".json", ".pdf"}

type repositoryOptions struct {
	ignoredExtensions []string
	ignoredFolders    []string
}

// RepositoryOption configures a RepositoryStatistics.
type RepositoryOption func(*repositoryOptions)

// WithIgnoredExtensions replaces the default ignored extensions. Matching is a
// case-insensitive suffix match on the path; a missing leading dot is added.
func WithIgnoredExtensions(extensions ...string) RepositoryOption {
	return func(o *repositoryOptions) {
		o.ignoredExtensions = nil
		for _, ext := range extensions {
			if ext = normalizeExtension(ext); ext != "" {
				o.ignoredExtensions = append(o.ignoredExtensions, ext)
			}
		}
	}
}

// WithIgnoredFolders ignores the given folders on top of IgnoredFolders. A folder is
// a slash separated path matched at any depth, e.g. "docs/generated".
func WithIgnoredFolders(folders ...string) RepositoryOption {
	return func(o *repositoryOptions) {
		for _, folder := range folders {
			if folder = strings.Trim(strings.TrimSpace(folder), "/"); folder != "" {
				o.ignoredFolders = append(o.ignoredFolders, folder)
			}
		}
	}
}

// RepositoryStatistics aggregates the line changes of a set of commits.
type RepositoryStatistics struct {
	commits []LoggedCommit
	opts    repositoryOptions
}

// NewRepositoryStatistics wraps the commits. Commits by ignored authors are dropped;
// the given slice is never modified.
func NewRepositoryStatistics(commits []LoggedCommit, opts ...RepositoryOption) *RepositoryStatistics {
	o := repositoryOptions{ignoredExtensions: slices.Clone(DefaultIgnoredExtensions)}
	for _, opt := range opts {
		opt(&o)
	}

	kept := make([]LoggedCommit, 0, len(commits))
	for _, commit := range commits {
		if !isIgnoredAuthor(commit.Author) {
			kept = append(kept, commit)
		}
	}
	return &RepositoryStatistics{commits: kept, opts: o}
}

// derive wraps a new commit set with the same options
func (s *RepositoryStatistics) derive(commits []LoggedCommit) *RepositoryStatistics {
	return &RepositoryStatistics{commits: commits, opts: s.opts}
}

// Commits returns a copy of the wrapped commits
func (s *RepositoryStatistics) Commits() []LoggedCommit {
	return slices.Clone(s.commits)
}

// IgnoredExtensions returns the extensions this instance zeroes out
func (s *RepositoryStatistics) IgnoredExtensions() []string {
	return slices.Clone(s.opts.ignoredExtensions)
}

// effectiveChange turns changes to ignored files, ignored folders and ignored
// extensions into non-numeric changes, in that order of precedence.
func (s *RepositoryStatistics) effectiveChange(c LoggedChange) LoggedChange {
	switch {
	case isIgnoredFile(c.Path):
		return c.asNonNumeric()
	case isInFolder(c.Path, IgnoredFolders), isInFolder(c.Path, s.opts.ignoredFolders):
		return c.asNonNumeric()
	case hasExtension(c.Path, s.opts.ignoredExtensions):
		return c.asNonNumeric()
	}
	return c
}

func isIgnoredFile(p string) bool {
	return slices.Contains(IgnoredFiles, path.Base(p))
}

func isInFolder(p string, folders []string) bool {
	for _, folder := range folders {
		if strings.HasPrefix(p, folder+"/") || strings.Contains(p, "/"+folder+"/") {
			return true
		}
	}
	return false
}

func hasExtension(p string, extensions []string) bool {
	lower := strings.ToLower(p)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// LinesTotal sums every counted change of every commit
func (s *RepositoryStatistics) LinesTotal() LinesStatistics {
	var total LinesStatistics
	for _, commit := range s.commits {
		for _, change := range commit.Changes {
			total = total.Add(s.effectiveChange(change).Lines())
		}
	}
	return total
}

// DistinctAuthors returns the commit authors
func (s *RepositoryStatistics) DistinctAuthors() []string {
	authors := make([]string, 0, len(s.commits))
	for _, commit := range s.commits {
		authors = append(authors, commit.Author)
	}
	return sortedSet(authors)
}

// DateRange returns the first and last commit dates
func (s *RepositoryStatistics) DateRange() (DateRange, error) {
	dates := make([]time.Time, 0, len(s.commits))
	for _, commit := range s.commits {
		dates = append(dates, commit.Date)
	}
	return rangeOf(dates)
}

// GroupByAuthor partitions the commits by author. Requested authors without commits
// still get an empty entry; nil requests every actual author.
func (s *RepositoryStatistics) GroupByAuthor(authors []string) *Grouped[Statistics] {
	byAuthor := make(map[string][]LoggedCommit)
	for _, commit := range s.commits {
		byAuthor[commit.Author] = append(byAuthor[commit.Author], commit)
	}

	out := NewGrouped[Statistics]()
	for _, author := range authorKeys(authors, s.DistinctAuthors()) {
		out.Set(author, s.derive(byAuthor[author]))
	}
	return out
}

// GroupBy partitions every commit's changes across the groups. A commit is cloned into
// each group that claims at least one of its changes, carrying only those changes.
func (s *RepositoryStatistics) GroupBy(groups *Groups) *Grouped[Statistics] {
	if groups == nil {
		groups = DefaultGroups()
	}
	names := groups.Names()

	byGroup := make(map[string][]LoggedCommit, len(names))
	for _, commit := range s.commits {
		changes := make(map[string][]LoggedChange)
		for _, change := range commit.Changes {
			if name, ok := groups.MatchPath(change.Path); ok {
				changes[name] = append(changes[name], change)
			}
		}
		for _, name := range names {
			if matched := changes[name]; len(matched) > 0 {
				byGroup[name] = append(byGroup[name], commit.withChanges(matched))
			}
		}
	}

	out := NewGrouped[Statistics]()
	for _, name := range names {
		out.Set(name, s.derive(byGroup[name]))
	}
	return out
}

// GroupByWeek buckets the commits into weeks starting at start. Zero bounds default to
// the first commit and just past the last commit.
func (s *RepositoryStatistics) GroupByWeek(start, end time.Time) *Sequence[Statistics] {
	records, err := s.DateRange()
	start, end = resolveWeekBounds(start, end, records, err)
	grid := newWeekGrid(start, end)

	buckets := make([][]LoggedCommit, grid.count)
	for _, commit := range s.commits {
		if i, ok := grid.index(commit.Date); ok {
			buckets[i] = append(buckets[i], commit)
		}
	}

	out := NewSequence[Statistics]()
	for _, bucket := range buckets {
		out.Append(s.derive(bucket))
	}
	return out
}

// MapAuthors returns a copy with every commit author resolved through mapping.
// Commits that resolve to an ignored author are dropped.
func (s *RepositoryStatistics) MapAuthors(mapping map[string]string) Statistics {
	commits := make([]LoggedCommit, 0, len(s.commits))
	for _, commit := range s.commits {
		author := resolveAuthor(mapping, commit.Author)
		if isIgnoredAuthor(author) {
			continue
		}
		commits = append(commits, commit.withAuthor(author))
	}
	return s.derive(commits)
}

// FilterAuthors returns a copy holding only commits by the given authors
func (s *RepositoryStatistics) FilterAuthors(authors []string) Statistics {
	allowed := allowList(authors)
	var commits []LoggedCommit
	for _, commit := range s.commits {
		if allowed[commit.Author] {
			commits = append(commits, commit)
		}
	}
	return s.derive(commits)
}

// Concat returns statistics over the commits of both values. The receiver's options
// apply to the result.
func (s *RepositoryStatistics) Concat(other *RepositoryStatistics) *RepositoryStatistics {
	commits := slices.Clone(s.commits)
	if other != nil {
		commits = append(commits, other.commits...)
	}
	return s.derive(commits)
}
