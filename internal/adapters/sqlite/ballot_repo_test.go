package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/ballotblock/internal/adapters/sqlite"
	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/ports/secondary"
)

func TestBallotRepository_CreateAndGet(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewBallotRepository(testDB)
	ctx := context.Background()

	seedElection(t, testDB, "Example Election")
	seedBallot(t, testDB, "ballot-1", "Example Election", "voter-a")

	got, err := repo.GetByID(ctx, "ballot-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected ballot, got nil")
	}
	if got.MasterBallotTitle != "Example Election" || got.VoterKey != "voter-a" {
		t.Errorf("unexpected ballot: %+v", got)
	}
	if got.Answers != `["Yes","Red"]` {
		t.Errorf("expected answers preserved, got %s", got.Answers)
	}
}

func TestBallotRepository_GetByID_NotFound(t *testing.T) {
	repo := sqlite.NewBallotRepository(setupTestDB(t))

	got, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestBallotRepository_Create_Failures(t *testing.T) {
	tests := []struct {
		name   string
		ballot secondary.BallotRecord
		want   error
	}{
		{
			name:   "unknown master ballot",
			ballot: secondary.BallotRecord{BallotID: "ballot-2", MasterBallotTitle: "No Such Election", VoterKey: "voter-b"},
			want:   outcome.ErrUnknownMasterBallot,
		},
		{
			name:   "duplicate ballot id",
			ballot: secondary.BallotRecord{BallotID: "ballot-1", MasterBallotTitle: "Example Election", VoterKey: "voter-b"},
			want:   outcome.ErrDuplicateBallotID,
		},
		{
			name:   "second ballot from same voter",
			ballot: secondary.BallotRecord{BallotID: "ballot-2", MasterBallotTitle: "Example Election", VoterKey: "voter-a"},
			want:   outcome.ErrDuplicateVote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB := setupTestDB(t)
			repo := sqlite.NewBallotRepository(testDB)

			seedElection(t, testDB, "Example Election")
			seedBallot(t, testDB, "ballot-1", "Example Election", "voter-a")

			b := tt.ballot
			b.Answers = `["No","Blue"]`
			b.Signature = "c2ln"

			err := repo.Create(context.Background(), &b)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if n := countRows(t, testDB, "ballots"); n != 1 {
				t.Errorf("expected ballots table unchanged, got %d rows", n)
			}
		})
	}
}

func TestBallotRepository_Create_IdenticalResubmission(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewBallotRepository(testDB)

	seedElection(t, testDB, "Example Election")
	seedBallot(t, testDB, "ballot-1", "Example Election", "voter-a")

	err := repo.Create(context.Background(), &secondary.BallotRecord{
		BallotID:          "ballot-1",
		MasterBallotTitle: "Example Election",
		VoterKey:          "voter-a",
		Answers:           `["Yes","Red"]`,
		Signature:         "c2ln",
	})
	if !errors.Is(err, outcome.ErrDuplicateBallotID) {
		t.Fatalf("expected ErrDuplicateBallotID, got %v", err)
	}
	if errors.Is(err, outcome.ErrDuplicateVote) {
		t.Errorf("expected resubmission not to report a duplicate vote: %v", err)
	}
	if n := countRows(t, testDB, "ballots"); n != 1 {
		t.Errorf("expected ballots table unchanged, got %d rows", n)
	}
}

func TestBallotRepository_SameVoterDifferentElections(t *testing.T) {
	testDB := setupTestDB(t)

	seedElection(t, testDB, "Alpha")
	seedElection(t, testDB, "Beta")

	seedBallot(t, testDB, "b-1", "Alpha", "voter-a")
	seedBallot(t, testDB, "b-2", "Beta", "voter-a")

	if n := countRows(t, testDB, "ballots"); n != 2 {
		t.Errorf("expected 2 ballots, got %d", n)
	}
}
