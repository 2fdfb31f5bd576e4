package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// BallotRepository implements secondary.BallotRepository with SQLite.
type BallotRepository struct {
	db *sql.DB
}

// NewBallotRepository creates a new SQLite ballot repository.
func NewBallotRepository(db *sql.DB) *BallotRepository {
	return &BallotRepository{db: db}
}

// The composite rule is listed first: its column list also contains
// "ballots.master_ballot_title" and must not be mistaken for anything else.
var ballotCreateRules = []constraintRule{
	unique("ballots.master_ballot_title, ballots.voter_key", outcome.ErrDuplicateVote),
	primaryKey("ballots.ballot_id", outcome.ErrDuplicateBallotID),
	unique("ballots.ballot_id", outcome.ErrDuplicateBallotID),
	foreignKey(outcome.ErrUnknownMasterBallot),
}

// Create persists a new ballot. A resubmitted ballot_id reports
// outcome.ErrDuplicateBallotID even when the same voter also collides on
// the per-election index, which SQLite checks first.
func (r *BallotRepository) Create(ctx context.Context, ballot *secondary.BallotRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ballots (ballot_id, master_ballot_title, voter_key, answers, signature)
		 VALUES (?, ?, ?, ?, ?)`,
		ballot.BallotID,
		ballot.MasterBallotTitle,
		ballot.VoterKey,
		ballot.Answers,
		ballot.Signature,
	)
	if err != nil {
		err = classify(err, ballotCreateRules...)
		if errors.Is(err, outcome.ErrDuplicateVote) {
			err = r.preferDuplicateID(ctx, ballot.BallotID, err)
		}
		return fmt.Errorf("failed to create ballot: %w", err)
	}
	return nil
}

// preferDuplicateID reclassifies a duplicate vote as a duplicate ballot ID
// when a stored ballot already holds the ID. Ballots are never deleted, so
// the row that won the constraint is still visible.
func (r *BallotRepository) preferDuplicateID(ctx context.Context, ballotID string, voteErr error) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM ballots WHERE ballot_id = ?)",
		ballotID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check ballot id: %w", err)
	}
	if exists {
		return outcome.Wrap(outcome.ErrDuplicateBallotID, errors.Unwrap(voteErr))
	}
	return voteErr
}

// GetByID retrieves a ballot by its ID.
func (r *BallotRepository) GetByID(ctx context.Context, ballotID string) (*secondary.BallotRecord, error) {
	var createdAt time.Time

	record := &secondary.BallotRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT ballot_id, master_ballot_title, voter_key, answers, signature, created_at
		 FROM ballots WHERE ballot_id = ?`,
		ballotID,
	).Scan(
		&record.BallotID,
		&record.MasterBallotTitle,
		&record.VoterKey,
		&record.Answers,
		&record.Signature,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ballot: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure BallotRepository implements the interface.
var _ secondary.BallotRepository = (*BallotRepository)(nil)
