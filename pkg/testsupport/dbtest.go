package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens an in-memory SQLite database with foreign keys
// enabled. The pool is pinned to a single connection so the shared-cache
// database survives for the life of the handle.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewBunSQLiteDB wraps an in-memory SQLite database with the bun dialect.
func NewBunSQLiteDB() (*bun.DB, error) {
	sqldb, err := NewSQLiteMemoryDB()
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// ApplyMigrations executes every .sql file in the filesystem in lexical
// order. Statement files are executed whole, so each file must be valid as a
// single script.
func ApplyMigrations(ctx context.Context, db *bun.DB, fsys fs.FS) error {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && len(path) > 4 && path[len(path)-4:] == ".sql" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(paths)

	for _, path := range paths {
		script, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("testsupport: read migration %s: %w", path, err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("testsupport: apply migration %s: %w", path, err)
		}
	}
	return nil
}
