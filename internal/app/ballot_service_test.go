package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	coreballot "github.com/example/ballotblock/internal/core/ballot"
	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/core/signature"
	"github.com/example/ballotblock/internal/ports/primary"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// ============================================================================
// Test Helper
// ============================================================================

type ballotFixture struct {
	service   *BallotServiceImpl
	elections *mockElectionRepository
	ballots   *mockBallotRepository
	logWriter *mockLogWriter
	key       *signature.KeyPair
	now       int64
}

// newBallotFixture seeds "Example Election" open over [1000, 2000) with the
// clock at 1500 and a real secp256k1 verifier.
func newBallotFixture(t *testing.T) *ballotFixture {
	t.Helper()

	f := &ballotFixture{
		elections: newMockElectionRepository(),
		ballots:   newMockBallotRepository(),
		logWriter: &mockLogWriter{},
		now:       1500,
	}

	err := f.elections.CreateWithMasterBallot(context.Background(),
		&secondary.MasterBallotRecord{
			Title:     "Example Election",
			Questions: `[["Do you like Fishsticks?",["Yes","No"]],["Red or Blue Pill?",["Red","Blue"]]]`,
		},
		&secondary.ElectionRecord{
			Title:             "Example Election",
			Description:       "This is an example election",
			StartDate:         1000,
			EndDate:           2000,
			CreatorID:         "creator-1",
			MasterBallotTitle: "Example Election",
		},
	)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	key, err := signature.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	f.key = key

	clock := func() time.Time { return time.Unix(f.now, 0) }
	f.service = NewBallotService(f.elections, f.ballots, signature.NewVerifier(), f.logWriter, clock, zerolog.Nop())
	return f
}

// signed builds a cast request signed by key.
func signed(key *signature.KeyPair, ballotID, title string, answers ...string) primary.CastBallotRequest {
	return primary.CastBallotRequest{
		BallotID:          ballotID,
		MasterBallotTitle: title,
		Answers:           answers,
		Signature:         key.Sign(coreballot.SigningPayload(ballotID, title, answers)),
		PublicKey:         key.PublicKeyBase64(),
	}
}

// ============================================================================
// CastBallot Tests
// ============================================================================

func TestCastBallot_Success(t *testing.T) {
	f := newBallotFixture(t)
	ctx := context.Background()

	resp, err := f.service.CastBallot(ctx, signed(f.key, "ballot-1", "Example Election", "Yes", "Red"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Ballot.VoterKey != f.key.PublicKeyBase64() {
		t.Errorf("expected voter key %q, got %q", f.key.PublicKeyBase64(), resp.Ballot.VoterKey)
	}

	got, err := f.service.GetBallot(ctx, "ballot-1")
	if err != nil {
		t.Fatalf("GetBallot failed: %v", err)
	}
	if got == nil || len(got.Answers) != 2 || got.Answers[0] != "Yes" || got.Answers[1] != "Red" {
		t.Errorf("unexpected ballot: %+v", got)
	}

	if len(f.logWriter.entries) != 1 || f.logWriter.entries[0] != "ballot:ballot-1" {
		t.Errorf("expected one audit entry, got %v", f.logWriter.entries)
	}
}

func TestCastBallot_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(f *ballotFixture, req *primary.CastBallotRequest)
		wantKind   error
		wantReason string
	}{
		{
			name:       "missing ballot id",
			mutate:     func(f *ballotFixture, req *primary.CastBallotRequest) { req.BallotID = "" },
			wantKind:   outcome.ErrMalformedInput,
			wantReason: coreballot.ReasonMissingBallotID,
		},
		{
			name:       "missing signature",
			mutate:     func(f *ballotFixture, req *primary.CastBallotRequest) { req.Signature = "" },
			wantKind:   outcome.ErrMalformedInput,
			wantReason: coreballot.ReasonMissingSignature,
		},
		{
			name: "signed by someone else",
			mutate: func(f *ballotFixture, req *primary.CastBallotRequest) {
				other, _ := signature.GenerateKey()
				req.PublicKey = other.PublicKeyBase64()
			},
			wantKind:   outcome.ErrSignatureInvalid,
			wantReason: ReasonSignatureInvalid,
		},
		{
			name:       "answers altered after signing",
			mutate:     func(f *ballotFixture, req *primary.CastBallotRequest) { req.Answers = []string{"No", "Red"} },
			wantKind:   outcome.ErrSignatureInvalid,
			wantReason: ReasonSignatureInvalid,
		},
		{
			name:       "public key not base64",
			mutate:     func(f *ballotFixture, req *primary.CastBallotRequest) { req.PublicKey = "%%%" },
			wantKind:   outcome.ErrMalformedKeyOrSignature,
			wantReason: ReasonMalformedKey,
		},
		{
			name: "unknown master ballot",
			mutate: func(f *ballotFixture, req *primary.CastBallotRequest) {
				*req = signed(f.key, "ballot-1", "No Such Election", "Yes", "Red")
			},
			wantKind:   outcome.ErrUnknownMasterBallot,
			wantReason: coreballot.ReasonUnknownMasterBallot,
		},
		{
			name: "too few answers",
			mutate: func(f *ballotFixture, req *primary.CastBallotRequest) {
				*req = signed(f.key, "ballot-1", "Example Election", "Yes")
			},
			wantKind:   outcome.ErrBallotRejected,
			wantReason: coreballot.ReasonAnswerCountMismatch,
		},
		{
			name: "answer not a choice",
			mutate: func(f *ballotFixture, req *primary.CastBallotRequest) {
				*req = signed(f.key, "ballot-1", "Example Election", "Yes", "Green")
			},
			wantKind:   outcome.ErrBallotRejected,
			wantReason: coreballot.ReasonInvalidAnswer,
		},
		{
			name:       "before start",
			mutate:     func(f *ballotFixture, req *primary.CastBallotRequest) { f.now = 999 },
			wantKind:   outcome.ErrElectionNotOpen,
			wantReason: coreballot.ReasonElectionNotOpen,
		},
		{
			name:       "at end",
			mutate:     func(f *ballotFixture, req *primary.CastBallotRequest) { f.now = 2000 },
			wantKind:   outcome.ErrElectionNotOpen,
			wantReason: coreballot.ReasonElectionNotOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBallotFixture(t)
			req := signed(f.key, "ballot-1", "Example Election", "Yes", "Red")
			tt.mutate(f, &req)

			_, err := f.service.CastBallot(context.Background(), req)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}
			if got := outcome.ReasonOf(err); got != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, got)
			}
			if len(f.ballots.ballots) != 0 {
				t.Error("expected nothing stored")
			}
		})
	}
}

func TestCastBallot_DuplicateBallotID(t *testing.T) {
	f := newBallotFixture(t)
	ctx := context.Background()

	if _, err := f.service.CastBallot(ctx, signed(f.key, "ballot-1", "Example Election", "Yes", "Red")); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}

	other, _ := signature.GenerateKey()
	_, err := f.service.CastBallot(ctx, signed(other, "ballot-1", "Example Election", "No", "Blue"))
	if !errors.Is(err, outcome.ErrDuplicateBallotID) {
		t.Fatalf("expected ErrDuplicateBallotID, got %v", err)
	}
	if outcome.ReasonOf(err) != ReasonDuplicateBallot {
		t.Errorf("expected reason %q, got %q", ReasonDuplicateBallot, outcome.ReasonOf(err))
	}
}

func TestCastBallot_IdenticalResubmission(t *testing.T) {
	f := newBallotFixture(t)
	ctx := context.Background()

	req := signed(f.key, "ballot-1", "Example Election", "Yes", "Red")
	if _, err := f.service.CastBallot(ctx, req); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}

	_, err := f.service.CastBallot(ctx, req)
	if !errors.Is(err, outcome.ErrDuplicateBallotID) {
		t.Fatalf("expected ErrDuplicateBallotID, got %v", err)
	}
	if outcome.ReasonOf(err) != ReasonDuplicateBallot {
		t.Errorf("expected reason %q, got %q", ReasonDuplicateBallot, outcome.ReasonOf(err))
	}
	if len(f.ballots.ballots) != 1 {
		t.Errorf("expected 1 stored ballot, got %d", len(f.ballots.ballots))
	}
}

func TestCastBallot_SecondVoteWithFreshIDRejected(t *testing.T) {
	f := newBallotFixture(t)
	ctx := context.Background()

	if _, err := f.service.CastBallot(ctx, signed(f.key, "ballot-1", "Example Election", "Yes", "Red")); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}

	_, err := f.service.CastBallot(ctx, signed(f.key, "ballot-2", "Example Election", "No", "Blue"))
	if !errors.Is(err, outcome.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
}

func TestCastBallot_VerifierErrorIsMalformed(t *testing.T) {
	f := newBallotFixture(t)
	f.service.verifier = &mockVerifier{err: outcome.Wrap(outcome.ErrMalformedKeyOrSignature, errors.New("bad point"))}

	_, err := f.service.CastBallot(context.Background(), signed(f.key, "ballot-1", "Example Election", "Yes", "Red"))
	if !errors.Is(err, outcome.ErrMalformedKeyOrSignature) {
		t.Errorf("expected ErrMalformedKeyOrSignature, got %v", err)
	}
}

func TestCastBallot_StorageFailureSurfaces(t *testing.T) {
	f := newBallotFixture(t)
	f.ballots.createErr = errors.New("database is locked")

	_, err := f.service.CastBallot(context.Background(), signed(f.key, "ballot-1", "Example Election", "Yes", "Red"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if outcome.KindOf(err) != nil {
		t.Errorf("expected an unexpected failure, got kind %v", outcome.KindOf(err))
	}
}

func TestGetBallot_NotFound(t *testing.T) {
	f := newBallotFixture(t)

	got, err := f.service.GetBallot(context.Background(), "missing")
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", got, err)
	}
}
