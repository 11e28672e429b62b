package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemoryCreatesSchema(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	tables := []string{
		"projects", "repositories", "commits", "commit_files",
		"activity_items", "activity_comments", "author_aliases", "excluded_extensions", "excluded_folders",
	}
	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			var name string
			err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			require.NoError(t, err)
			assert.Equal(t, table, name)
		})
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursescope.db")

	require.NoError(t, Init(path))
	require.NoError(t, RunMigrations(DB))
	require.NoError(t, Close())

	db, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}
