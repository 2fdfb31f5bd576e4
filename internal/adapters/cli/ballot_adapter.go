package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	coreballot "github.com/example/ballotblock/internal/core/ballot"
	"github.com/example/ballotblock/internal/core/signature"
	"github.com/example/ballotblock/internal/ports/primary"
)

// BallotAdapter is a thin adapter that translates CLI operations to BallotService calls.
type BallotAdapter struct {
	service primary.BallotService
	out     io.Writer
}

// NewBallotAdapter creates a new BallotAdapter with the given service.
func NewBallotAdapter(service primary.BallotService, out io.Writer) *BallotAdapter {
	return &BallotAdapter{
		service: service,
		out:     out,
	}
}

// Cast submits a signed ballot read as JSON.
func (a *BallotAdapter) Cast(ctx context.Context, data []byte) (*primary.Ballot, error) {
	var req primary.CastBallotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("ballot file is not valid JSON: %w", err)
	}

	resp, err := a.service.CastBallot(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Cast ballot %s in %q\n",
		color.New(color.FgGreen).Sprint("✓"),
		resp.Ballot.BallotID,
		resp.Ballot.MasterBallotTitle,
	)
	return resp.Ballot, nil
}

// Show displays a stored ballot.
func (a *BallotAdapter) Show(ctx context.Context, ballotID string) (*primary.Ballot, error) {
	b, err := a.service.GetBallot(ctx, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ballot: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("ballot %q not found", ballotID)
	}

	fmt.Fprintf(a.out, "\nBallot: %s\n", b.BallotID)
	fmt.Fprintf(a.out, "Election: %s\n", b.MasterBallotTitle)
	fmt.Fprintf(a.out, "Voter:    %s\n", b.VoterKey)
	fmt.Fprintf(a.out, "Answers:  %s\n", strings.Join(b.Answers, ", "))
	fmt.Fprintf(a.out, "Cast:     %s\n", b.CreatedAt)
	fmt.Fprintln(a.out)

	return b, nil
}

// SignRequest contains parameters for signing a ballot offline.
type SignRequest struct {
	PrivateKey        string
	BallotID          string
	MasterBallotTitle string
	Answers           []string
}

// Sign signs a ballot with a base64 private key and writes the castable
// JSON request. A missing ballot ID is generated.
func (a *BallotAdapter) Sign(req SignRequest) (*primary.CastBallotRequest, error) {
	key, err := signature.ParsePrivateKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}

	ballotID := req.BallotID
	if ballotID == "" {
		ballotID = uuid.NewString()
	}

	cast := &primary.CastBallotRequest{
		BallotID:          ballotID,
		MasterBallotTitle: req.MasterBallotTitle,
		Answers:           req.Answers,
		Signature:         key.Sign(coreballot.SigningPayload(ballotID, req.MasterBallotTitle, req.Answers)),
		PublicKey:         key.PublicKeyBase64(),
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cast); err != nil {
		return nil, fmt.Errorf("failed to write ballot: %w", err)
	}
	return cast, nil
}
