package app

import (
	"context"
	"sort"
	"sync"

	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockElectionRepository implements secondary.ElectionRepository for testing.
// Titles and ballot voters are tracked so duplicates fail the way storage does.
type mockElectionRepository struct {
	elections     map[string]*secondary.ElectionRecord
	masterBallots map[string]*secondary.MasterBallotRecord
	voters        map[string][]string // voterKey -> master ballot titles
	createErr     error
	getErr        error
	titleExists   *bool
	nextID        int64
}

func newMockElectionRepository() *mockElectionRepository {
	return &mockElectionRepository{
		elections:     make(map[string]*secondary.ElectionRecord),
		masterBallots: make(map[string]*secondary.MasterBallotRecord),
		voters:        make(map[string][]string),
	}
}

func (m *mockElectionRepository) CreateWithMasterBallot(ctx context.Context, masterBallot *secondary.MasterBallotRecord, election *secondary.ElectionRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.masterBallots[masterBallot.Title]; ok {
		return outcome.Wrap(outcome.ErrDuplicateTitle, nil)
	}
	if _, ok := m.elections[election.Title]; ok {
		return outcome.Wrap(outcome.ErrDuplicateTitle, nil)
	}
	m.nextID++
	masterBallot.ID = m.nextID
	election.ID = m.nextID
	m.masterBallots[masterBallot.Title] = masterBallot
	m.elections[election.Title] = election
	return nil
}

func (m *mockElectionRepository) GetByTitle(ctx context.Context, title string) (*secondary.ElectionRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.elections[title], nil
}

func (m *mockElectionRepository) GetMasterBallotByTitle(ctx context.Context, title string) (*secondary.MasterBallotRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.masterBallots[title], nil
}

func (m *mockElectionRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	if m.titleExists != nil {
		return *m.titleExists, nil
	}
	_, e := m.elections[title]
	_, mb := m.masterBallots[title]
	return e || mb, nil
}

func (m *mockElectionRepository) List(ctx context.Context) ([]*secondary.ElectionRecord, error) {
	var result []*secondary.ElectionRecord
	for _, e := range m.elections {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (m *mockElectionRepository) ListByVoter(ctx context.Context, voterKey string) ([]*secondary.ElectionRecord, error) {
	var result []*secondary.ElectionRecord
	for _, title := range m.voters[voterKey] {
		if e, ok := m.elections[title]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

// mockBallotRepository implements secondary.BallotRepository for testing.
type mockBallotRepository struct {
	ballots   map[string]*secondary.BallotRecord
	createErr error
}

func newMockBallotRepository() *mockBallotRepository {
	return &mockBallotRepository{ballots: make(map[string]*secondary.BallotRecord)}
}

func (m *mockBallotRepository) Create(ctx context.Context, ballot *secondary.BallotRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.ballots[ballot.BallotID]; ok {
		return outcome.Wrap(outcome.ErrDuplicateBallotID, nil)
	}
	for _, b := range m.ballots {
		if b.MasterBallotTitle == ballot.MasterBallotTitle && b.VoterKey == ballot.VoterKey {
			return outcome.Wrap(outcome.ErrDuplicateVote, nil)
		}
	}
	m.ballots[ballot.BallotID] = ballot
	return nil
}

func (m *mockBallotRepository) GetByID(ctx context.Context, ballotID string) (*secondary.BallotRecord, error) {
	return m.ballots[ballotID], nil
}

// mockVoterRepository implements secondary.VoterRepository for testing.
type mockVoterRepository struct {
	voters map[string]*secondary.VoterRecord
}

func newMockVoterRepository() *mockVoterRepository {
	return &mockVoterRepository{voters: make(map[string]*secondary.VoterRecord)}
}

func (m *mockVoterRepository) Create(ctx context.Context, voter *secondary.VoterRecord) error {
	if _, ok := m.voters[voter.Username]; ok {
		return outcome.Wrap(outcome.ErrUsernameTaken, nil)
	}
	m.voters[voter.Username] = voter
	return nil
}

func (m *mockVoterRepository) GetByUsername(ctx context.Context, username string) (*secondary.VoterRecord, error) {
	return m.voters[username], nil
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	mu      sync.Mutex
	entries []string
	err     error
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entityType+":"+entityID)
	return m.err
}

// mockVerifier implements secondary.SignatureVerifier with a fixed answer.
type mockVerifier struct {
	ok  bool
	err error
}

func (m *mockVerifier) Verify(message []byte, signatureB64, publicKeyB64 string) (bool, error) {
	return m.ok, m.err
}

// mockSessionStore implements secondary.SessionStore for testing.
type mockSessionStore struct {
	sessions map[string]*secondary.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*secondary.Session)}
}

func (m *mockSessionStore) Create(ctx context.Context, username, accountType string) (string, error) {
	token := "token-" + username
	m.sessions[token] = &secondary.Session{Token: token, Username: username, AccountType: accountType, ExpiresAt: 42}
	return token, nil
}

func (m *mockSessionStore) Lookup(ctx context.Context, token string) (*secondary.Session, error) {
	return m.sessions[token], nil
}

func (m *mockSessionStore) IsAuthenticated(ctx context.Context, username string) bool {
	for _, s := range m.sessions {
		if s.Username == username {
			return true
		}
	}
	return false
}

var (
	_ secondary.ElectionRepository = (*mockElectionRepository)(nil)
	_ secondary.BallotRepository   = (*mockBallotRepository)(nil)
	_ secondary.VoterRepository    = (*mockVoterRepository)(nil)
	_ secondary.LogWriter          = (*mockLogWriter)(nil)
	_ secondary.SignatureVerifier  = (*mockVerifier)(nil)
	_ secondary.SessionStore       = (*mockSessionStore)(nil)
)
