// Package gitlog reads per-file line counts out of git history.
package gitlog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/alimgiray/coursescope/internal/stats"
)

// Format is the --format argument the parser expects. Every commit starts with a
// header line of unit separated fields, followed by one numstat line per file.
const Format = "--%H%x1f%an%x1f%aI%x1f%s"

const (
	headerPrefix = "--"
	fieldSep     = "\x1f"
)

// Options narrows the history that Read loads
type Options struct {
	Since time.Time
	Until time.Time
	// Branch defaults to HEAD
	Branch string
}

// Read runs git log in the repository at path and parses its output
func Read(ctx context.Context, path string, opts Options) ([]stats.LoggedCommit, error) {
	args := []string{"-C", path, "log", "--numstat", "--no-color", "--format=" + Format}
	if !opts.Since.IsZero() {
		args = append(args, "--since="+opts.Since.Format(time.RFC3339))
	}
	if !opts.Until.IsZero() {
		args = append(args, "--until="+opts.Until.Format(time.RFC3339))
	}
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log failed in %s: %w (%s)", path, err, strings.TrimSpace(stderr.String()))
	}

	return Parse(bytes.NewReader(out))
}

// Parse reads git log --numstat output produced with Format. Lines that are neither a
// header nor a numstat line are skipped, as are numstat lines before the first header.
func Parse(r io.Reader) ([]stats.LoggedCommit, error) {
	var (
		commits []stats.LoggedCommit
		current *stats.LoggedCommit
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, headerPrefix) {
			commit, ok := parseHeader(line)
			if !ok {
				current = nil
				continue
			}
			commits = append(commits, commit)
			current = &commits[len(commits)-1]
			continue
		}

		if current == nil {
			continue
		}
		if change, ok := parseNumstat(line); ok {
			current.Changes = append(current.Changes, change)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read git log: %w", err)
	}

	return commits, nil
}

// parseHeader reads "--hash author date subject" separated by fieldSep
func parseHeader(line string) (stats.LoggedCommit, bool) {
	parts := strings.SplitN(strings.TrimPrefix(line, headerPrefix), fieldSep, 4)
	if len(parts) < 3 || parts[0] == "" {
		return stats.LoggedCommit{}, false
	}

	date, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return stats.LoggedCommit{}, false
	}

	commit := stats.LoggedCommit{
		Hash:   parts[0],
		Author: strings.TrimSpace(parts[1]),
		Date:   date,
	}
	if len(parts) == 4 {
		commit.Subject = parts[3]
	}
	return commit, true
}

// parseNumstat reads "added\tremoved\tpath". Binary files report "-" for both counts.
func parseNumstat(line string) (stats.LoggedChange, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 || parts[2] == "" {
		return stats.LoggedChange{}, false
	}

	added, removed := stats.ParseCount(parts[0]), stats.ParseCount(parts[1])
	if !added.IsNumeric() && parts[0] != "-" {
		return stats.LoggedChange{}, false
	}
	if !removed.IsNumeric() && parts[1] != "-" {
		return stats.LoggedChange{}, false
	}

	return stats.LoggedChange{
		Path:    ResolveRename(parts[2]),
		Added:   added,
		Removed: removed,
	}, true
}

// ResolveRename returns the destination of a numstat rename path:
//
//	old.go => new.go          -> new.go
//	src/{a => b}/main.go      -> src/b/main.go
//	src/{ => util}/main.go    -> src/util/main.go
func ResolveRename(path string) string {
	if !strings.Contains(path, " => ") {
		return path
	}

	open := strings.Index(path, "{")
	closing := strings.LastIndex(path, "}")
	if open >= 0 && closing > open {
		inner := path[open+1 : closing]
		arrow := strings.Index(inner, " => ")
		if arrow >= 0 {
			target := inner[arrow+len(" => "):]
			joined := path[:open] + target + path[closing+1:]
			return strings.ReplaceAll(joined, "//", "/")
		}
	}

	arrow := strings.Index(path, " => ")
	return path[arrow+len(" => "):]
}
