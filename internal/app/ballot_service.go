package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	coreballot "github.com/example/ballotblock/internal/core/ballot"
	coreelection "github.com/example/ballotblock/internal/core/election"
	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/core/signature"
	"github.com/example/ballotblock/internal/ports/primary"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// Clock returns the current time.
type Clock func() time.Time

// Reason codes for failures detected outside the ballot guards.
const (
	ReasonSignatureInvalid = "SIGNATURE_INVALID"
	ReasonMalformedKey     = "MALFORMED_KEY_OR_SIGNATURE"
	ReasonDuplicateBallot  = "BALLOT_ID_ALREADY_EXISTS"
	ReasonAlreadyVoted     = "VOTER_ALREADY_VOTED"
)

// BallotServiceImpl implements the BallotService interface.
type BallotServiceImpl struct {
	electionRepo secondary.ElectionRepository
	ballotRepo   secondary.BallotRepository
	verifier     secondary.SignatureVerifier
	logWriter    secondary.LogWriter
	clock        Clock
	logger       zerolog.Logger
}

// NewBallotService creates a new BallotService with injected dependencies.
// A nil clock uses time.Now.
func NewBallotService(
	electionRepo secondary.ElectionRepository,
	ballotRepo secondary.BallotRepository,
	verifier secondary.SignatureVerifier,
	logWriter secondary.LogWriter,
	clock Clock,
	logger zerolog.Logger,
) *BallotServiceImpl {
	if clock == nil {
		clock = time.Now
	}
	return &BallotServiceImpl{
		electionRepo: electionRepo,
		ballotRepo:   ballotRepo,
		verifier:     verifier,
		logWriter:    logWriter,
		clock:        clock,
		logger:       logger.With().Str("service", "ballot").Logger(),
	}
}

// CastBallot verifies the signature, checks the answers against the master
// ballot and the voting window, then stores the ballot.
func (s *BallotServiceImpl) CastBallot(ctx context.Context, req primary.CastBallotRequest) (*primary.CastBallotResponse, error) {
	shape := coreballot.CheckShape(coreballot.ShapeContext{
		BallotID:          req.BallotID,
		MasterBallotTitle: req.MasterBallotTitle,
		Answers:           req.Answers,
		Signature:         req.Signature,
		PublicKey:         req.PublicKey,
	})
	if !shape.Allowed {
		return nil, s.rejected(reject(outcome.ErrMalformedInput, shape.Reason, shape.Detail), req)
	}

	message := coreballot.SigningPayload(req.BallotID, req.MasterBallotTitle, req.Answers)
	ok, err := s.verifier.Verify(message, req.Signature, req.PublicKey)
	if err != nil {
		return nil, s.rejected(&outcome.Error{Kind: outcome.ErrMalformedKeyOrSignature, Reason: ReasonMalformedKey, Err: err}, req)
	}
	if !ok {
		return nil, s.rejected(outcome.New(outcome.ErrSignatureInvalid, ReasonSignatureInvalid), req)
	}

	voterKey, err := signature.NormalizePublicKey(req.PublicKey)
	if err != nil {
		return nil, err
	}

	guardCtx, err := s.buildCastContext(ctx, req)
	if err != nil {
		return nil, err
	}
	if result := coreballot.CanCastBallot(guardCtx); !result.Allowed {
		return nil, s.rejected(reject(castRejectionKind(result.Reason), result.Reason, result.Detail), req)
	}

	answers, err := coreballot.EncodeAnswers(req.Answers)
	if err != nil {
		return nil, err
	}

	record := &secondary.BallotRecord{
		BallotID:          req.BallotID,
		MasterBallotTitle: req.MasterBallotTitle,
		VoterKey:          voterKey,
		Answers:           answers,
		Signature:         req.Signature,
	}
	if err := s.ballotRepo.Create(ctx, record); err != nil {
		if kind := outcome.KindOf(err); kind != nil {
			return nil, s.rejected(&outcome.Error{Kind: kind, Reason: storageReason(kind), Err: err}, req)
		}
		return nil, fmt.Errorf("failed to cast ballot: %w", err)
	}

	if err := s.logWriter.LogCreate(ctx, secondary.EntityBallot, record.BallotID); err != nil {
		s.logger.Warn().Err(err).Str("ballot_id", record.BallotID).Msg("audit log write failed")
	}

	s.logger.Info().
		Str("ballot_id", record.BallotID).
		Str("master_ballot_title", record.MasterBallotTitle).
		Msg("ballot cast")

	return &primary.CastBallotResponse{
		Ballot: &primary.Ballot{
			BallotID:          record.BallotID,
			MasterBallotTitle: record.MasterBallotTitle,
			VoterKey:          record.VoterKey,
			Answers:           req.Answers,
			Signature:         record.Signature,
		},
	}, nil
}

// GetBallot retrieves a ballot by ID.
func (s *BallotServiceImpl) GetBallot(ctx context.Context, ballotID string) (*primary.Ballot, error) {
	record, err := s.ballotRepo.GetByID(ctx, ballotID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	answers, err := coreballot.DecodeAnswers(record.Answers)
	if err != nil {
		return nil, fmt.Errorf("ballot %q: %w", ballotID, err)
	}

	return &primary.Ballot{
		BallotID:          record.BallotID,
		MasterBallotTitle: record.MasterBallotTitle,
		VoterKey:          record.VoterKey,
		Answers:           answers,
		Signature:         record.Signature,
		CreatedAt:         record.CreatedAt,
	}, nil
}

// buildCastContext loads the master ballot and its election for the cast guard.
func (s *BallotServiceImpl) buildCastContext(ctx context.Context, req primary.CastBallotRequest) (coreballot.CastBallotContext, error) {
	guardCtx := coreballot.CastBallotContext{
		MasterBallotTitle: req.MasterBallotTitle,
		Answers:           req.Answers,
		Now:               s.clock().Unix(),
	}

	master, err := s.electionRepo.GetMasterBallotByTitle(ctx, req.MasterBallotTitle)
	if err != nil {
		return guardCtx, fmt.Errorf("failed to get master ballot: %w", err)
	}
	election, err := s.electionRepo.GetByTitle(ctx, req.MasterBallotTitle)
	if err != nil {
		return guardCtx, fmt.Errorf("failed to get election: %w", err)
	}
	if master == nil || election == nil {
		return guardCtx, nil
	}

	questions, err := coreelection.DecodeQuestions(master.Questions)
	if err != nil {
		return guardCtx, fmt.Errorf("master ballot %q: %w", master.Title, err)
	}

	guardCtx.MasterBallotExists = true
	guardCtx.StartDate = election.StartDate
	guardCtx.EndDate = election.EndDate
	guardCtx.Questions = make([]coreballot.Question, len(questions))
	for i, q := range questions {
		guardCtx.Questions[i] = coreballot.Question{Prompt: q.Prompt, Choices: q.Choices}
	}
	return guardCtx, nil
}

func (s *BallotServiceImpl) rejected(err error, req primary.CastBallotRequest) error {
	s.logger.Info().
		Str("ballot_id", req.BallotID).
		Str("master_ballot_title", req.MasterBallotTitle).
		Str("reason", outcome.ReasonOf(err)).
		Msg("ballot rejected")
	return err
}

func castRejectionKind(reason string) error {
	switch reason {
	case coreballot.ReasonUnknownMasterBallot:
		return outcome.ErrUnknownMasterBallot
	case coreballot.ReasonElectionNotOpen:
		return outcome.ErrElectionNotOpen
	default:
		return outcome.ErrBallotRejected
	}
}

func storageReason(kind error) string {
	switch kind {
	case outcome.ErrDuplicateBallotID:
		return ReasonDuplicateBallot
	case outcome.ErrDuplicateVote:
		return ReasonAlreadyVoted
	case outcome.ErrUnknownMasterBallot:
		return coreballot.ReasonUnknownMasterBallot
	}
	return ""
}

// Ensure BallotServiceImpl implements the interface.
var _ primary.BallotService = (*BallotServiceImpl)(nil)
