package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/core/signature"
	corevoter "github.com/example/ballotblock/internal/core/voter"
	"github.com/example/ballotblock/internal/ports/primary"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// RegistrationServiceImpl implements the RegistrationService interface.
type RegistrationServiceImpl struct {
	voterRepo secondary.VoterRepository
	sessions  secondary.SessionStore
	logWriter secondary.LogWriter
	logger    zerolog.Logger
	cost      int
}

// NewRegistrationService creates a new RegistrationService with injected dependencies.
func NewRegistrationService(
	voterRepo secondary.VoterRepository,
	sessions secondary.SessionStore,
	logWriter secondary.LogWriter,
	logger zerolog.Logger,
) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{
		voterRepo: voterRepo,
		sessions:  sessions,
		logWriter: logWriter,
		logger:    logger.With().Str("service", "registration").Logger(),
		cost:      bcrypt.DefaultCost,
	}
}

// Register records a new user with a bcrypt password hash.
func (s *RegistrationServiceImpl) Register(ctx context.Context, req primary.RegisterRequest) error {
	if result := corevoter.CanRegister(corevoter.RegisterContext{
		Username:    req.Username,
		Password:    req.Password,
		AccountType: req.AccountType,
	}); !result.Allowed {
		return reject(outcome.ErrMalformedInput, result.Reason, result.Detail)
	}

	var publicKey string
	if req.PublicKey != "" {
		normalized, err := signature.NormalizePublicKey(req.PublicKey)
		if err != nil {
			return err
		}
		publicKey = normalized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	record := &secondary.VoterRecord{
		Username:     req.Username,
		PasswordHash: string(hash),
		AccountType:  corevoter.NormalizeAccountType(req.AccountType),
		PublicKey:    publicKey,
	}
	if err := s.voterRepo.Create(ctx, record); err != nil {
		if errors.Is(err, outcome.ErrUsernameTaken) {
			return &outcome.Error{Kind: outcome.ErrUsernameTaken, Reason: corevoter.ReasonUsernameTaken, Err: err}
		}
		return fmt.Errorf("failed to register: %w", err)
	}

	if err := s.logWriter.LogCreate(ctx, secondary.EntityVoter, record.Username); err != nil {
		s.logger.Warn().Err(err).Str("username", record.Username).Msg("audit log write failed")
	}

	s.logger.Info().Str("username", record.Username).Str("account_type", record.AccountType).Msg("user registered")
	return nil
}

// Login checks credentials and starts a session.
func (s *RegistrationServiceImpl) Login(ctx context.Context, req primary.LoginRequest) (*primary.LoginResponse, error) {
	record, err := s.voterRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	guardCtx := corevoter.LoginContext{
		Username:    req.Username,
		Registered:  record != nil,
		ClaimedType: req.AccountType,
	}
	if record != nil {
		guardCtx.StoredAccountType = record.AccountType
		guardCtx.PasswordMatches = bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.Password)) == nil
		guardCtx.Authenticated = s.sessions.IsAuthenticated(ctx, record.Username)
	}
	if result := corevoter.CanLogin(guardCtx); !result.Allowed {
		s.logger.Info().Str("username", req.Username).Str("reason", result.Reason).Msg("login rejected")
		kind := outcome.ErrNotRegistered
		if result.Reason == corevoter.ReasonAuthenticated {
			kind = outcome.ErrAlreadyAuthenticated
		}
		return nil, reject(kind, result.Reason, result.Detail)
	}

	token, err := s.sessions.Create(ctx, record.Username, record.AccountType)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	resp := &primary.LoginResponse{Token: token}
	if session != nil {
		resp.ExpiresAt = session.ExpiresAt
	}
	return resp, nil
}

// Authenticated resolves a session token to its user.
func (s *RegistrationServiceImpl) Authenticated(ctx context.Context, token string) (*primary.Principal, error) {
	if token == "" {
		return nil, outcome.New(outcome.ErrUnauthenticated, corevoter.ReasonNoSession)
	}

	session, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session == nil {
		return nil, outcome.New(outcome.ErrUnauthenticated, corevoter.ReasonNoSession)
	}

	return &primary.Principal{Username: session.Username, AccountType: session.AccountType}, nil
}

// Ensure RegistrationServiceImpl implements the interface.
var _ primary.RegistrationService = (*RegistrationServiceImpl)(nil)
