package db

import (
	"database/sql"
	"strings"
)

// SchemaSQL is the complete schema after all migrations. Every table and
// constraint the repositories rely on is enforced here by SQLite itself:
//
//   - elections.title and master_ballots.title are UNIQUE
//   - elections.master_ballot_title references master_ballots(title), 1:1
//   - ballots.ballot_id is the PRIMARY KEY
//   - ballots.master_ballot_title references master_ballots(title); deletes are restricted
//   - UNIQUE(master_ballot_title, voter_key): one ballot per voter per election
//
// Tests load it through GetSchemaSQL so they run against the same constraints
// as production.
func SchemaSQL() string {
	var b strings.Builder
	for _, m := range migrations {
		b.WriteString(m.SQL)
		b.WriteString("\n")
	}
	return b.String()
}

// InitSchema applies any pending migrations. Fresh databases receive every
// migration; existing ones only those above their recorded version.
func InitSchema(database *sql.DB) error {
	return RunMigrations(database)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL()
}
