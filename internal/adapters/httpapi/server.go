// Package httpapi is the HTTP route layer. Handlers decode requests, call
// the services and map outcomes to status codes; they hold no business rules.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/ctxutil"
	"github.com/example/ballotblock/internal/ports/primary"
)

// Banner is the body of GET /.
const Banner = "BallotBlock API"

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Server serves the BallotBlock HTTP API.
type Server struct {
	elections    primary.ElectionService
	ballots      primary.BallotService
	registration primary.RegistrationService
	logger       zerolog.Logger
	metrics      *metrics
	router       *mux.Router
}

// NewServer creates a Server with its routes registered.
func NewServer(
	elections primary.ElectionService,
	ballots primary.BallotService,
	registration primary.RegistrationService,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		elections:    elections,
		ballots:      ballots,
		registration: registration,
		logger:       logger.With().Str("component", "http").Logger(),
		metrics:      newMetrics(),
		router:       mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.metrics.instrument)

	r.HandleFunc("/", s.handleBanner).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/election/create", s.requireSession(s.handleCreateElection)).Methods(http.MethodPost)
	api.HandleFunc("/election", s.handleListElections).Methods(http.MethodGet)
	api.HandleFunc("/election/", s.handleListElections).Methods(http.MethodGet)
	api.HandleFunc("/election/{title}", s.handleGetElection).Methods(http.MethodGet)
	api.HandleFunc("/vote", s.handleVote).Methods(http.MethodPost)
	api.HandleFunc("/ballot/{id}", s.handleGetBallot).Methods(http.MethodGet)
}

// Handler returns the router wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(s.router)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, Banner)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req primary.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.registration.Login(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req primary.RegisterRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.registration.Register(r.Context(), req); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_OR_MALFORMED_JSON", err.Error())
		return
	}

	resp, err := s.elections.CreateElection(r.Context(), primary.CreateElectionRequest{
		Payload:   body,
		CreatedBy: ctxutil.ActorFromContext(r.Context()),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.elections.Inc()
	writeJSON(w, http.StatusCreated, electionView{Election: resp.Election, MasterBallot: resp.MasterBallot})
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	var (
		elections []*primary.Election
		err       error
	)
	if voter := r.URL.Query().Get("voter"); voter != "" {
		elections, err = s.elections.ListElectionsForVoter(r.Context(), voter)
	} else {
		elections, err = s.elections.ListElections(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if elections == nil {
		elections = []*primary.Election{}
	}
	writeJSON(w, http.StatusOK, elections)
}

// electionView is an election together with its master ballot.
type electionView struct {
	Election     *primary.Election     `json:"election"`
	MasterBallot *primary.MasterBallot `json:"master_ballot"`
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	title := mux.Vars(r)["title"]

	election, err := s.elections.GetElection(r.Context(), title)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if election == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "election "+title+" not found")
		return
	}

	master, err := s.elections.GetMasterBallot(r.Context(), election.MasterBallotTitle)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, electionView{Election: election, MasterBallot: master})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req primary.CastBallotRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.ballots.CastBallot(r.Context(), req)
	if err != nil {
		_, code := statusFor(err)
		s.metrics.ballots.WithLabelValues(code).Inc()
		s.fail(w, r, err)
		return
	}
	s.metrics.ballots.WithLabelValues("CAST").Inc()
	writeJSON(w, http.StatusCreated, resp.Ballot)
}

func (s *Server) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b, err := s.ballots.GetBallot(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "ballot "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// requireSession rejects requests without a live bearer session and records
// the session's user as the actor.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.registration.Authenticated(r.Context(), bearerToken(r))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ctx := ctxutil.WithActorID(r.Context(), principal.Username)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_OR_MALFORMED_JSON", err.Error())
		return false
	}
	return true
}

// fail writes the error response for a service error. Unexpected errors are
// logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if outcome.KindOf(err) == nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, code, "internal error")
		return
	}
	writeError(w, status, code, err.Error())
}
