// Package sqlite_test contains integration tests for SQLite repositories.
//
// All test setup goes through db.Open so tests run against the same
// migrations, DSN and foreign key enforcement as production.
package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/example/ballotblock/internal/adapters/sqlite"
	"github.com/example/ballotblock/internal/db"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// setupFileDB creates a file-backed database in a temp directory.
func setupFileDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "ballotblock.db"))
	if err != nil {
		t.Fatalf("failed to open file db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

const testQuestions = `[["Do you like Fishsticks?",["Yes","No"]],["Red or Blue Pill?",["Red","Blue"]]]`

// seedElection creates an election and its master ballot under title.
func seedElection(t *testing.T, testDB *sql.DB, title string) *secondary.ElectionRecord {
	t.Helper()

	election := &secondary.ElectionRecord{
		Title:             title,
		Description:       "This is an example election",
		StartDate:         1000,
		EndDate:           2000,
		CreatorID:         "creator-1",
		MasterBallotTitle: title,
	}
	master := &secondary.MasterBallotRecord{Title: title, Questions: testQuestions}

	repo := sqlite.NewElectionRepository(testDB)
	if err := repo.CreateWithMasterBallot(context.Background(), master, election); err != nil {
		t.Fatalf("failed to seed election: %v", err)
	}
	return election
}

// seedBallot casts a ballot for voterKey in the election titled title.
func seedBallot(t *testing.T, testDB *sql.DB, ballotID, title, voterKey string) *secondary.BallotRecord {
	t.Helper()

	ballot := &secondary.BallotRecord{
		BallotID:          ballotID,
		MasterBallotTitle: title,
		VoterKey:          voterKey,
		Answers:           `["Yes","Red"]`,
		Signature:         "c2ln",
	}
	if err := sqlite.NewBallotRepository(testDB).Create(context.Background(), ballot); err != nil {
		t.Fatalf("failed to seed ballot: %v", err)
	}
	return ballot
}

func countRows(t *testing.T, testDB *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
