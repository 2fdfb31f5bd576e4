package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_election_tables",
		SQL: `
-- Master ballots (question templates, one per election)
CREATE TABLE IF NOT EXISTS master_ballots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	questions TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Elections (titled voting events, 1:1 with a master ballot)
CREATE TABLE IF NOT EXISTS elections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	start_date INTEGER NOT NULL,
	end_date INTEGER NOT NULL,
	creator_id TEXT NOT NULL,
	master_ballot_title TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	CHECK (end_date > start_date),
	FOREIGN KEY (master_ballot_title) REFERENCES master_ballots(title) ON DELETE RESTRICT
);

-- Ballots (cast votes, immutable once stored)
CREATE TABLE IF NOT EXISTS ballots (
	ballot_id TEXT PRIMARY KEY,
	master_ballot_title TEXT NOT NULL,
	voter_key TEXT NOT NULL,
	answers TEXT NOT NULL,
	signature TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (master_ballot_title) REFERENCES master_ballots(title) ON DELETE RESTRICT,
	UNIQUE (master_ballot_title, voter_key)
);

CREATE INDEX IF NOT EXISTS idx_ballots_voter ON ballots(voter_key);
`,
	},
	{
		Version: 2,
		Name:    "create_voters_and_audit_log",
		SQL: `
-- Voters (registration provider: approved usernames and passwords)
CREATE TABLE IF NOT EXISTS voters (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	account_type TEXT NOT NULL CHECK(account_type IN ('voter', 'creator')) DEFAULT 'voter',
	public_key TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Audit log (who created what)
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	actor_id TEXT,
	entity_type TEXT NOT NULL CHECK(entity_type IN ('election', 'ballot', 'voter')),
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);
`,
	},
}

// LatestVersion returns the highest migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// RunMigrations executes all pending migrations
func RunMigrations(database *sql.DB) error {
	// Create schema_version table if it doesn't exist
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	for _, migration := range migrations {
		if err := applyMigration(database, migration); err != nil {
			return err
		}
	}

	return nil
}

// applyMigration runs one migration and records it in the same transaction.
// The version is re-read inside the transaction so two processes opening a
// fresh database cannot both apply it.
func applyMigration(database *sql.DB, migration Migration) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
	}
	defer tx.Rollback()

	var currentVersion int
	err = tx.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if migration.Version <= currentVersion {
		return nil
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
	}

	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(database *sql.DB) (int, error) {
	var v int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}
