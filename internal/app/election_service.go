package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	coreelection "github.com/example/ballotblock/internal/core/election"
	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/core/signature"
	"github.com/example/ballotblock/internal/ports/primary"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// PayloadValidator checks an election payload without performing I/O.
type PayloadValidator interface {
	Validate(p *coreelection.Payload) coreelection.GuardResult
}

// ElectionServiceImpl implements the ElectionService interface.
type ElectionServiceImpl struct {
	electionRepo secondary.ElectionRepository
	validator    PayloadValidator
	logWriter    secondary.LogWriter
	logger       zerolog.Logger
}

// NewElectionService creates a new ElectionService with injected dependencies.
func NewElectionService(
	electionRepo secondary.ElectionRepository,
	validator PayloadValidator,
	logWriter secondary.LogWriter,
	logger zerolog.Logger,
) *ElectionServiceImpl {
	return &ElectionServiceImpl{
		electionRepo: electionRepo,
		validator:    validator,
		logWriter:    logWriter,
		logger:       logger.With().Str("service", "election").Logger(),
	}
}

// CreateElection validates the payload and stores the election with its master ballot.
func (s *ElectionServiceImpl) CreateElection(ctx context.Context, req primary.CreateElectionRequest) (*primary.CreateElectionResponse, error) {
	payload, parsed := coreelection.ParsePayload(req.Payload)
	if !parsed.Allowed {
		return nil, s.rejected(reject(outcome.ErrMalformedInput, parsed.Reason, parsed.Detail), "")
	}

	if result := s.validator.Validate(payload); !result.Allowed {
		return nil, s.rejected(reject(outcome.ErrMalformedInput, result.Reason, result.Detail), "")
	}
	f := payload.Fields()

	if result := coreelection.CanCreateAs(coreelection.CreatorContext{CreatorID: f.CreatorID, CreatedBy: req.CreatedBy}); !result.Allowed {
		return nil, s.rejected(reject(outcome.ErrForbidden, result.Reason, result.Detail), f.Title)
	}

	// Pre-check gives a clean rejection in the common case; the UNIQUE
	// constraint decides under concurrent creates.
	exists, err := s.electionRepo.TitleExists(ctx, f.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to check election title: %w", err)
	}
	if result := coreelection.CanCreateElection(coreelection.CreateElectionContext{Title: f.Title, TitleExists: exists}); !result.Allowed {
		return nil, s.rejected(reject(outcome.ErrDuplicateTitle, result.Reason, result.Detail), f.Title)
	}

	questions, err := coreelection.EncodeQuestions(f.Questions)
	if err != nil {
		return nil, err
	}

	master := &secondary.MasterBallotRecord{
		Title:     f.Title,
		Questions: questions,
	}
	record := &secondary.ElectionRecord{
		Title:             f.Title,
		Description:       f.Description,
		StartDate:         f.StartDate,
		EndDate:           f.EndDate,
		CreatorID:         f.CreatorID,
		MasterBallotTitle: f.Title,
	}

	if err := s.electionRepo.CreateWithMasterBallot(ctx, master, record); err != nil {
		if errors.Is(err, outcome.ErrDuplicateTitle) {
			return nil, s.rejected(&outcome.Error{Kind: outcome.ErrDuplicateTitle, Reason: coreelection.ReasonTitleExists, Err: err}, f.Title)
		}
		return nil, fmt.Errorf("failed to create election: %w", err)
	}

	if err := s.logWriter.LogCreate(ctx, secondary.EntityElection, f.Title); err != nil {
		s.logger.Warn().Err(err).Str("title", f.Title).Msg("audit log write failed")
	}

	s.logger.Info().Str("title", f.Title).Str("creator_id", f.CreatorID).Msg("election created")

	return &primary.CreateElectionResponse{
		Election:     recordToElection(record),
		MasterBallot: &primary.MasterBallot{ID: master.ID, Title: master.Title, Questions: toPrimaryQuestions(f.Questions)},
	}, nil
}

// GetElection retrieves an election by title.
func (s *ElectionServiceImpl) GetElection(ctx context.Context, title string) (*primary.Election, error) {
	record, err := s.electionRepo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return recordToElection(record), nil
}

// GetMasterBallot retrieves a master ballot by title.
func (s *ElectionServiceImpl) GetMasterBallot(ctx context.Context, title string) (*primary.MasterBallot, error) {
	record, err := s.electionRepo.GetMasterBallotByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	questions, err := coreelection.DecodeQuestions(record.Questions)
	if err != nil {
		return nil, fmt.Errorf("master ballot %q: %w", title, err)
	}

	return &primary.MasterBallot{
		ID:        record.ID,
		Title:     record.Title,
		Questions: toPrimaryQuestions(questions),
		CreatedAt: record.CreatedAt,
	}, nil
}

// ListElections retrieves every election.
func (s *ElectionServiceImpl) ListElections(ctx context.Context) ([]*primary.Election, error) {
	records, err := s.electionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	return recordsToElections(records), nil
}

// ListElectionsForVoter retrieves the elections in which the voter has cast a ballot.
func (s *ElectionServiceImpl) ListElectionsForVoter(ctx context.Context, publicKeyB64 string) ([]*primary.Election, error) {
	voterKey, err := signature.NormalizePublicKey(publicKeyB64)
	if err != nil {
		return nil, err
	}

	records, err := s.electionRepo.ListByVoter(ctx, voterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections for voter: %w", err)
	}
	return recordsToElections(records), nil
}

func (s *ElectionServiceImpl) rejected(err error, title string) error {
	s.logger.Info().Str("title", title).Str("reason", outcome.ReasonOf(err)).Msg("election rejected")
	return err
}

func recordToElection(r *secondary.ElectionRecord) *primary.Election {
	return &primary.Election{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		CreatorID:         r.CreatorID,
		MasterBallotTitle: r.MasterBallotTitle,
		CreatedAt:         r.CreatedAt,
	}
}

func recordsToElections(records []*secondary.ElectionRecord) []*primary.Election {
	elections := make([]*primary.Election, len(records))
	for i, r := range records {
		elections[i] = recordToElection(r)
	}
	return elections
}

func toPrimaryQuestions(questions []coreelection.Question) []primary.Question {
	out := make([]primary.Question, len(questions))
	for i, q := range questions {
		out[i] = primary.Question{Prompt: q.Prompt, Choices: q.Choices}
	}
	return out
}

// Ensure ElectionServiceImpl implements the interface.
var _ primary.ElectionService = (*ElectionServiceImpl)(nil)
