package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alimgiray/coursescope/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

var DB *sql.DB

// pragmas applied to every connection through the DSN
const dsnOptions = "_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_foreign_keys=ON&_busy_timeout=30000&_loc=UTC"

// Init opens the database at path, stores it in DB and runs the migrations
func Init(path string) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to the SQLite file at path and brings its schema up to date.
// ":memory:" gives a private in-memory database, used by tests.
func Open(path string) (*sql.DB, error) {
	inMemory := path == ":memory:"
	dsn := "file:" + path + "?" + dsnOptions
	if inMemory {
		dsn = "file::memory:?_foreign_keys=ON&_loc=UTC"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if inMemory {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.WithField("path", path).Info("Database connected")
	return db, nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunMigrations executes the embedded SQL scripts in file name order. Scripts are
// idempotent, so running them on every start is safe.
func RunMigrations(db *sql.DB) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrations.ReadFile(file)
		if err != nil {
			return err
		}
		if _, err = db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", path.Base(file), err)
		}
		logger.Debugf("Executed SQL script: %s", path.Base(file))
	}
	return nil
}
