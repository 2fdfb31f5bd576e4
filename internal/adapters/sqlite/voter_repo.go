package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// VoterRepository implements secondary.VoterRepository with SQLite.
type VoterRepository struct {
	db *sql.DB
}

// NewVoterRepository creates a new SQLite voter repository.
func NewVoterRepository(db *sql.DB) *VoterRepository {
	return &VoterRepository{db: db}
}

// Create persists a new voter.
func (r *VoterRepository) Create(ctx context.Context, voter *secondary.VoterRecord) error {
	accountType := voter.AccountType
	if accountType == "" {
		accountType = "voter"
	}

	var publicKey sql.NullString
	if voter.PublicKey != "" {
		publicKey = sql.NullString{String: voter.PublicKey, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO voters (username, password_hash, account_type, public_key) VALUES (?, ?, ?, ?)",
		voter.Username,
		voter.PasswordHash,
		accountType,
		publicKey,
	)
	if err != nil {
		return fmt.Errorf("failed to create voter: %w", classify(err,
			primaryKey("voters.username", outcome.ErrUsernameTaken),
			unique("voters.username", outcome.ErrUsernameTaken),
		))
	}

	voter.AccountType = accountType
	return nil
}

// GetByUsername retrieves a voter by username.
func (r *VoterRepository) GetByUsername(ctx context.Context, username string) (*secondary.VoterRecord, error) {
	var (
		publicKey sql.NullString
		createdAt time.Time
	)

	record := &secondary.VoterRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT username, password_hash, account_type, public_key, created_at FROM voters WHERE username = ?",
		username,
	).Scan(&record.Username, &record.PasswordHash, &record.AccountType, &publicKey, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}

	record.PublicKey = publicKey.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure VoterRepository implements the interface.
var _ secondary.VoterRepository = (*VoterRepository)(nil)
