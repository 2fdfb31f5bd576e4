package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ballotblock/internal/adapters/httpapi"
	"github.com/example/ballotblock/internal/adapters/session"
	"github.com/example/ballotblock/internal/adapters/sqlite"
	"github.com/example/ballotblock/internal/app"
	coreballot "github.com/example/ballotblock/internal/core/ballot"
	coreelection "github.com/example/ballotblock/internal/core/election"
	"github.com/example/ballotblock/internal/core/signature"
	corevoter "github.com/example/ballotblock/internal/core/voter"
	"github.com/example/ballotblock/internal/db"
	"github.com/example/ballotblock/internal/ports/primary"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	electionRepo := sqlite.NewElectionRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(sqlite.NewAuditLogRepository(database))
	logger := zerolog.Nop()

	now := time.Now()
	clock := func() time.Time { return now }

	srv := httpapi.NewServer(
		app.NewElectionService(electionRepo, coreelection.NewValidator(), logWriter, logger),
		app.NewBallotService(electionRepo, sqlite.NewBallotRepository(database), signature.NewVerifier(), logWriter, clock, logger),
		app.NewRegistrationService(sqlite.NewVoterRepository(database), session.NewMemoryStore(time.Hour), logWriter, logger),
		logger,
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, target, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorCode(t *testing.T, data []byte) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	return body.Code
}

func loginCreator(t *testing.T, base string) string {
	t.Helper()

	resp, _ := do(t, http.MethodPost, base+"/api/register", "", primary.RegisterRequest{
		Username: "carol", Password: "pw", AccountType: "creator",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data := do(t, http.MethodPost, base+"/api/login", "", primary.LoginRequest{
		Username: "carol", Password: "pw", AccountType: "creator",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login primary.LoginResponse
	require.NoError(t, json.Unmarshal(data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func electionPayload(title string) map[string]any {
	now := time.Now().Unix()
	return map[string]any{
		"title":       title,
		"description": "This is an example election",
		"start_date":  now - 60,
		"end_date":    now + 3600,
		"creator_id":  "carol",
		"questions": []any{
			[]any{"Do you like Fishsticks?", []string{"Yes", "No"}},
			[]any{"Red or Blue Pill?", []string{"Red", "Blue"}},
		},
	}
}

func TestBanner(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodGet, ts.URL+"/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, httpapi.Banner, string(data))
}

func TestCreateElection_RequiresSession(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/election/create", "", electionPayload("Example Election"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "LOG_IN_FIRST", errorCode(t, data))

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/election/create", "bogus", electionPayload("Example Election"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestElectionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := loginCreator(t, ts.URL)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/election/create", token, electionPayload("Example Election"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = do(t, http.MethodPost, ts.URL+"/api/election/create", token, electionPayload("Example Election"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, coreelection.ReasonTitleExists, errorCode(t, data))

	resp, data = do(t, http.MethodGet, ts.URL+"/api/election/"+url.PathEscape("Example Election"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		Election     primary.Election     `json:"election"`
		MasterBallot primary.MasterBallot `json:"master_ballot"`
	}
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, "carol", view.Election.CreatorID)
	assert.Len(t, view.MasterBallot.Questions, 2)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/election/Nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = do(t, http.MethodGet, ts.URL+"/api/election/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []primary.Election
	require.NoError(t, json.Unmarshal(data, &all))
	assert.Len(t, all, 1)
}

func TestCreateElection_ValidationReason(t *testing.T) {
	ts := newTestServer(t)
	token := loginCreator(t, ts.URL)

	payload := electionPayload("Bad Dates")
	payload["end_date"] = payload["start_date"]

	resp, data := do(t, http.MethodPost, ts.URL+"/api/election/create", token, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, coreelection.ReasonInvalidDateRange, errorCode(t, data))

	resp, data = do(t, http.MethodPost, ts.URL+"/api/election/create", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, coreelection.ReasonMalformedJSON, errorCode(t, data))
}

func TestVote(t *testing.T) {
	ts := newTestServer(t)
	token := loginCreator(t, ts.URL)

	resp, _ := do(t, http.MethodPost, ts.URL+"/api/election/create", token, electionPayload("Example Election"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	key, err := signature.GenerateKey()
	require.NoError(t, err)

	sign := func(id string, answers ...string) primary.CastBallotRequest {
		return primary.CastBallotRequest{
			BallotID:          id,
			MasterBallotTitle: "Example Election",
			Answers:           answers,
			Signature:         key.Sign(coreballot.SigningPayload(id, "Example Election", answers)),
			PublicKey:         key.PublicKeyBase64(),
		}
	}

	resp, data := do(t, http.MethodPost, ts.URL+"/api/vote", "", sign("ballot-1", "Yes", "Red"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = do(t, http.MethodGet, ts.URL+"/api/ballot/ballot-1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stored primary.Ballot
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, []string{"Yes", "Red"}, stored.Answers)

	resp, data = do(t, http.MethodPost, ts.URL+"/api/vote", "", sign("ballot-2", "No", "Blue"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, app.ReasonAlreadyVoted, errorCode(t, data))

	tampered := sign("ballot-3", "Yes", "Red")
	tampered.Answers = []string{"No", "Red"}
	resp, data = do(t, http.MethodPost, ts.URL+"/api/vote", "", tampered)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, app.ReasonSignatureInvalid, errorCode(t, data))

	unknown := sign("ballot-4", "Yes", "Red")
	unknown.MasterBallotTitle = "Nope"
	unknown.Signature = key.Sign(coreballot.SigningPayload("ballot-4", "Nope", unknown.Answers))
	resp, _ = do(t, http.MethodPost, ts.URL+"/api/vote", "", unknown)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/ballot/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = do(t, http.MethodGet, ts.URL+"/api/election/?voter="+url.QueryEscape(key.PublicKeyBase64()), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []primary.Election
	require.NoError(t, json.Unmarshal(data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Example Election", mine[0].Title)
}

func TestCreateElection_OnBehalfOfAnotherUser(t *testing.T) {
	ts := newTestServer(t)
	token := loginCreator(t, ts.URL)

	payload := electionPayload("Forged")
	payload["creator_id"] = "dave"

	resp, data := do(t, http.MethodPost, ts.URL+"/api/election/create", token, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, coreelection.ReasonCreatorMismatch, errorCode(t, data))

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/election/Forged", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogin_AlreadyAuthenticated(t *testing.T) {
	ts := newTestServer(t)
	loginCreator(t, ts.URL)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/login", "", primary.LoginRequest{Username: "carol", Password: "pw"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, corevoter.ReasonAuthenticated, errorCode(t, data))
}

func TestRegister_PasswordTooLong(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/register", "", primary.RegisterRequest{
		Username: "erin",
		Password: strings.Repeat("p", corevoter.MaxPasswordBytes+1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, corevoter.ReasonPasswordTooLong, errorCode(t, data))
}

func TestLogin_UnknownUser(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/login", "", primary.LoginRequest{Username: "ghost", Password: "pw"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "USER_NOT_REGISTERED", errorCode(t, data))
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)

	do(t, http.MethodGet, ts.URL+"/", "", nil)

	resp, data := do(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `ballotblock_http_requests_total{code="200",method="GET",route="/"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/vote", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
