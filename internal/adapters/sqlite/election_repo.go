package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// ElectionRepository implements secondary.ElectionRepository with SQLite.
type ElectionRepository struct {
	db *sql.DB
}

// NewElectionRepository creates a new SQLite election repository.
func NewElectionRepository(db *sql.DB) *ElectionRepository {
	return &ElectionRepository{db: db}
}

const electionColumns = "id, title, description, start_date, end_date, creator_id, master_ballot_title, created_at"

var electionCreateRules = []constraintRule{
	unique("master_ballots.title", outcome.ErrDuplicateTitle),
	unique("elections.title", outcome.ErrDuplicateTitle),
	unique("elections.master_ballot_title", outcome.ErrDuplicateTitle),
	foreignKey(outcome.ErrUnknownMasterBallot),
}

// CreateWithMasterBallot persists a master ballot and its election in one transaction.
func (r *ElectionRepository) CreateWithMasterBallot(ctx context.Context, masterBallot *secondary.MasterBallotRecord, election *secondary.ElectionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO master_ballots (title, questions) VALUES (?, ?)",
		masterBallot.Title, masterBallot.Questions,
	)
	if err != nil {
		return fmt.Errorf("failed to create master ballot: %w", classify(err, electionCreateRules...))
	}
	masterID, _ := res.LastInsertId()

	res, err = tx.ExecContext(ctx,
		`INSERT INTO elections (title, description, start_date, end_date, creator_id, master_ballot_title)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		election.Title,
		election.Description,
		election.StartDate,
		election.EndDate,
		election.CreatorID,
		election.MasterBallotTitle,
	)
	if err != nil {
		return fmt.Errorf("failed to create election: %w", classify(err, electionCreateRules...))
	}
	electionID, _ := res.LastInsertId()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit election: %w", err)
	}

	masterBallot.ID = masterID
	election.ID = electionID
	return nil
}

// GetByTitle retrieves an election by its title.
func (r *ElectionRepository) GetByTitle(ctx context.Context, title string) (*secondary.ElectionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+electionColumns+" FROM elections WHERE title = ?",
		title,
	)

	record, err := scanElection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	return record, nil
}

// GetMasterBallotByTitle retrieves a master ballot by its title.
func (r *ElectionRepository) GetMasterBallotByTitle(ctx context.Context, title string) (*secondary.MasterBallotRecord, error) {
	var createdAt time.Time

	record := &secondary.MasterBallotRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, questions, created_at FROM master_ballots WHERE title = ?",
		title,
	).Scan(&record.ID, &record.Title, &record.Questions, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get master ballot: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// TitleExists reports whether an election or master ballot uses the title.
func (r *ElectionRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM elections WHERE title = ?)
		     OR EXISTS(SELECT 1 FROM master_ballots WHERE title = ?)`,
		title, title,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check election title: %w", err)
	}
	return exists, nil
}

// List retrieves all elections ordered by start date.
func (r *ElectionRepository) List(ctx context.Context) ([]*secondary.ElectionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+electionColumns+" FROM elections ORDER BY start_date ASC, title ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	return scanElections(rows)
}

// ListByVoter retrieves the elections in which the voter holds a ballot.
func (r *ElectionRepository) ListByVoter(ctx context.Context, voterKey string) ([]*secondary.ElectionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.creator_id, e.master_ballot_title, e.created_at
		 FROM elections e
		 JOIN ballots b ON b.master_ballot_title = e.master_ballot_title
		 WHERE b.voter_key = ?
		 ORDER BY e.start_date ASC, e.title ASC`,
		voterKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections for voter: %w", err)
	}
	defer rows.Close()

	return scanElections(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElection(row rowScanner) (*secondary.ElectionRecord, error) {
	var createdAt time.Time

	record := &secondary.ElectionRecord{}
	err := row.Scan(
		&record.ID,
		&record.Title,
		&record.Description,
		&record.StartDate,
		&record.EndDate,
		&record.CreatorID,
		&record.MasterBallotTitle,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

func scanElections(rows *sql.Rows) ([]*secondary.ElectionRecord, error) {
	var elections []*secondary.ElectionRecord
	for rows.Next() {
		record, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate elections: %w", err)
	}
	return elections, nil
}

// Ensure ElectionRepository implements the interface.
var _ secondary.ElectionRepository = (*ElectionRepository)(nil)
