package db

import (
	"database/sql"
	"fmt"

	"github.com/ALT-F4-LLC/bbredmine/internal/model"
)

// ReplaceUserMap deletes every stored mapping and inserts mappings in order.
// A source that appears more than once keeps its last destination. Returns
// the number of distinct sources stored.
func ReplaceUserMap(db *sql.DB, mappings []model.UserMapping) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_map`); err != nil {
		return 0, fmt.Errorf("clearing user map: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO user_map (source, destination, position) VALUES (?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET destination = excluded.destination`,
	)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range mappings {
		if _, err := stmt.Exec(m.Source, m.Destination, i); err != nil {
			return 0, fmt.Errorf("inserting mapping for %q: %w", m.Source, err)
		}
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM user_map`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting mappings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return count, nil
}

// ListUserMap returns all stored mappings in the order they were first
// inserted.
func ListUserMap(db *sql.DB) ([]model.UserMapping, error) {
	rows, err := db.Query(`SELECT source, destination FROM user_map ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying user map: %w", err)
	}
	defer rows.Close()

	mappings := make([]model.UserMapping, 0)
	for rows.Next() {
		var m model.UserMapping
		if err := rows.Scan(&m.Source, &m.Destination); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}

	return mappings, nil
}
