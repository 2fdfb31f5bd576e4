// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
//
// Repository read methods return (nil, nil) when nothing matches. Write
// methods report constraint violations as errors wrapping the sentinels in
// internal/core/outcome; any other error is an unexpected storage failure.
package secondary

import "context"

// ElectionRepository defines the secondary port for election and master ballot persistence.
type ElectionRepository interface {
	// CreateWithMasterBallot atomically persists a master ballot and its election.
	// Either both rows are written or neither is. Fails with outcome.ErrDuplicateTitle
	// when either title is taken.
	CreateWithMasterBallot(ctx context.Context, masterBallot *MasterBallotRecord, election *ElectionRecord) error

	// GetByTitle retrieves an election by its title.
	GetByTitle(ctx context.Context, title string) (*ElectionRecord, error)

	// GetMasterBallotByTitle retrieves a master ballot by its title.
	GetMasterBallotByTitle(ctx context.Context, title string) (*MasterBallotRecord, error)

	// TitleExists reports whether an election or master ballot uses the title.
	TitleExists(ctx context.Context, title string) (bool, error)

	// List retrieves all elections ordered by start date.
	List(ctx context.Context) ([]*ElectionRecord, error)

	// ListByVoter retrieves the elections in which the voter holds a ballot.
	ListByVoter(ctx context.Context, voterKey string) ([]*ElectionRecord, error)
}

// ElectionRecord represents an election as stored in persistence.
type ElectionRecord struct {
	ID                int64
	Title             string
	Description       string
	StartDate         int64
	EndDate           int64
	CreatorID         string
	MasterBallotTitle string
	CreatedAt         string
}

// MasterBallotRecord represents a master ballot as stored in persistence.
// Questions holds the JSON list of [prompt, [choice, ...]] pairs.
type MasterBallotRecord struct {
	ID        int64
	Title     string
	Questions string
	CreatedAt string
}

// BallotRepository defines the secondary port for cast ballot persistence.
type BallotRepository interface {
	// Create persists a new ballot. Fails with outcome.ErrUnknownMasterBallot,
	// outcome.ErrDuplicateBallotID or outcome.ErrDuplicateVote.
	Create(ctx context.Context, ballot *BallotRecord) error

	// GetByID retrieves a ballot by its ID.
	GetByID(ctx context.Context, ballotID string) (*BallotRecord, error)
}

// BallotRecord represents a ballot as stored in persistence.
// Answers holds the JSON list of selected choices.
type BallotRecord struct {
	BallotID          string
	MasterBallotTitle string
	VoterKey          string
	Answers           string
	Signature         string
	CreatedAt         string
}

// VoterRepository defines the secondary port for registered users.
type VoterRepository interface {
	// Create persists a new voter. Fails with outcome.ErrUsernameTaken.
	Create(ctx context.Context, voter *VoterRecord) error

	// GetByUsername retrieves a voter by username.
	GetByUsername(ctx context.Context, username string) (*VoterRecord, error)
}

// VoterRecord represents a registered user as stored in persistence.
type VoterRecord struct {
	Username     string
	PasswordHash string
	AccountType  string // "voter" or "creator"
	PublicKey    string
	CreatedAt    string
}

// AuditLogRepository defines the secondary port for the audit log.
type AuditLogRepository interface {
	// Create persists a new audit entry.
	Create(ctx context.Context, entry *AuditLogRecord) error

	// ListByEntity retrieves entries for an entity, oldest first.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*AuditLogRecord, error)
}

// AuditLogRecord represents an audit entry as stored in persistence.
type AuditLogRecord struct {
	ID         int64
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	CreatedAt  string
}
