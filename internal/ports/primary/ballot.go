package primary

import "context"

// BallotService defines the primary port for ballot operations.
type BallotService interface {
	// CastBallot verifies the voter's signature and stores the ballot.
	CastBallot(ctx context.Context, req CastBallotRequest) (*CastBallotResponse, error)

	// GetBallot retrieves a ballot by ID, or nil if absent.
	GetBallot(ctx context.Context, ballotID string) (*Ballot, error)
}

// CastBallotRequest contains the signed ballot. Signature and PublicKey are
// base64; the signature covers the bytes returned by ballot.SigningPayload.
type CastBallotRequest struct {
	BallotID          string   `json:"ballot_id"`
	MasterBallotTitle string   `json:"master_ballot_title"`
	Answers           []string `json:"answers"`
	Signature         string   `json:"signature"`
	PublicKey         string   `json:"public_key"`
}

// CastBallotResponse contains the result of casting a ballot.
type CastBallotResponse struct {
	Ballot *Ballot
}

// Ballot represents a stored ballot at the port boundary. VoterKey is the
// normalized (compressed, base64) public key of the voter.
type Ballot struct {
	BallotID          string   `json:"ballot_id"`
	MasterBallotTitle string   `json:"master_ballot_title"`
	VoterKey          string   `json:"voter_key"`
	Answers           []string `json:"answers"`
	Signature         string   `json:"signature"`
	CreatedAt         string   `json:"created_at,omitempty"`
}
