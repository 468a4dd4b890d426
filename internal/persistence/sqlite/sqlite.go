// Package sqlite provides SQLite-backed implementations of the entity store
// contract, plus the credential directory backing the auth service.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle shared by the stores.
type DB struct {
	conn *sql.DB
}

// Open connects to the database at dsn and ensures the schema exists. The
// pool is capped at a single connection: SQLite has one writer anyway, and
// the cap makes the stores' mutations apply strictly in acceptance order.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.ensureSchema(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			level TEXT NOT NULL,
			first TEXT NOT NULL,
			last TEXT NOT NULL,
			phone_number TEXT,
			default_color TEXT NOT NULL,
			active_config INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS shifts (
			id INTEGER PRIMARY KEY,
			supervisor_id INTEGER NOT NULL,
			employee_id INTEGER,
			start TEXT NOT NULL,
			"end" TEXT NOT NULL,
			repeat TEXT NOT NULL,
			every_x INTEGER,
			note TEXT,
			on_call INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS view_configs (
			id INTEGER PRIMARY KEY,
			employee_id INTEGER NOT NULL,
			config_name TEXT NOT NULL,
			hour_format TEXT NOT NULL,
			last_name_style TEXT NOT NULL,
			show_minutes INTEGER NOT NULL DEFAULT 0,
			show_shifts INTEGER NOT NULL DEFAULT 1,
			show_vacations INTEGER NOT NULL DEFAULT 0,
			show_call_shifts INTEGER NOT NULL DEFAULT 0,
			show_disabled INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS view_config_employees (
			config_id INTEGER NOT NULL REFERENCES view_configs(id) ON DELETE CASCADE,
			employee_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (config_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS credentials (
			employee_id INTEGER PRIMARY KEY REFERENCES employees(id) ON DELETE CASCADE,
			password_hash TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// nextID computes the identity for a freshly added row inside tx: one past
// the current maximum, or zero for an empty table.
func nextID(ctx context.Context, tx *sql.Tx, table string) (int, error) {
	var id int
	query := fmt.Sprintf("SELECT COALESCE(MAX(id) + 1, 0) FROM %s", table)
	if err := tx.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocating id for %s: %w", table, err)
	}
	return id, nil
}
