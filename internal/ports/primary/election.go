// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI and HTTP layers drive the services.
package primary

import "context"

// ElectionService defines the primary port for election operations.
type ElectionService interface {
	// CreateElection validates the payload and atomically stores the election
	// together with its master ballot.
	CreateElection(ctx context.Context, req CreateElectionRequest) (*CreateElectionResponse, error)

	// GetElection retrieves an election by title, or nil if absent.
	GetElection(ctx context.Context, title string) (*Election, error)

	// GetMasterBallot retrieves a master ballot by title, or nil if absent.
	GetMasterBallot(ctx context.Context, title string) (*MasterBallot, error)

	// ListElections retrieves every election.
	ListElections(ctx context.Context) ([]*Election, error)

	// ListElectionsForVoter retrieves the elections in which the holder of
	// the base64 public key has cast a ballot.
	ListElectionsForVoter(ctx context.Context, publicKeyB64 string) ([]*Election, error)
}

// CreateElectionRequest carries the raw election-creation payload as JSON.
type CreateElectionRequest struct {
	Payload []byte

	// CreatedBy is the authenticated user submitting the payload. When set,
	// the payload's creator_id must name that user.
	CreatedBy string
}

// CreateElectionResponse contains the result of creating an election.
type CreateElectionResponse struct {
	Election     *Election
	MasterBallot *MasterBallot
}

// Election represents an election at the port boundary.
type Election struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	StartDate         int64  `json:"start_date"`
	EndDate           int64  `json:"end_date"`
	CreatorID         string `json:"creator_id"`
	MasterBallotTitle string `json:"master_ballot_title"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// MasterBallot represents a master ballot at the port boundary.
type MasterBallot struct {
	ID        int64      `json:"id"`
	Title     string     `json:"master_ballot_title"`
	Questions []Question `json:"questions"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// Question is one prompt of a master ballot with its allowed choices.
type Question struct {
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}
