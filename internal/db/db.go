package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath selects the ephemeral in-memory database.
const MemoryPath = ":memory:"

// Open opens the database at path and brings its schema up to date.
//
// A file database runs in WAL mode with foreign keys enforced on every
// pooled connection, a busy timeout, and BEGIN IMMEDIATE for transactions
// so concurrent writers queue on the SQLite write lock instead of failing
// on lock upgrade. An in-memory database exists per connection, so the
// pool is pinned to a single connection.
func Open(path string) (*sql.DB, error) {
	dsn, err := dataSourceName(path)
	if err != nil {
		return nil, err
	}

	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if IsMemory(path) {
		database.SetMaxOpenConns(1)
		database.SetConnMaxLifetime(0)
		database.SetConnMaxIdleTime(0)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// IsMemory reports whether path selects the in-memory database.
func IsMemory(path string) bool {
	return path == MemoryPath || path == ""
}

func dataSourceName(path string) (string, error) {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")

	if IsMemory(path) {
		return "file::memory:?" + params.Encode(), nil
	}

	// Ensure the parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}

	params.Set("_busy_timeout", "5000")
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	return "file:" + path + "?" + params.Encode(), nil
}
