// Package db stores user maps in SQLite.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// uriEscaper escapes the characters SQLite URIs give a meaning to.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// Open opens or creates the store at path with WAL journaling, foreign keys
// and a busy timeout.
func Open(path string) (*sql.DB, error) {
	return open(path,
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	)
}

// OpenReadOnly opens an existing store without creating or modifying any
// file.
func OpenReadOnly(path string) (*sql.DB, error) {
	return open("file:"+uriEscaper.Replace(path)+"?mode=ro", "PRAGMA busy_timeout=5000")
}

func open(dsn string, pragmas ...string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	return db, nil
}
