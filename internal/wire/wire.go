// Package wire assembles BallotBlock from its adapters and services.
package wire

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	cliadapter "github.com/example/ballotblock/internal/adapters/cli"
	"github.com/example/ballotblock/internal/adapters/httpapi"
	"github.com/example/ballotblock/internal/adapters/session"
	"github.com/example/ballotblock/internal/adapters/sqlite"
	"github.com/example/ballotblock/internal/app"
	"github.com/example/ballotblock/internal/config"
	coreelection "github.com/example/ballotblock/internal/core/election"
	"github.com/example/ballotblock/internal/core/signature"
	"github.com/example/ballotblock/internal/db"
	"github.com/example/ballotblock/internal/ports/primary"
)

// App holds one database connection and the services built on it.
type App struct {
	db     *sql.DB
	logger zerolog.Logger

	elections    primary.ElectionService
	ballots      primary.BallotService
	registration primary.RegistrationService
}

// New opens the configured database and builds every service.
// A nil clock uses time.Now.
func New(cfg *config.Config, logger zerolog.Logger, clock app.Clock) (*App, error) {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ttl := cfg.Session.TTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	// Create repository adapters (secondary ports) with injected DB
	electionRepo := sqlite.NewElectionRepository(database)
	ballotRepo := sqlite.NewBallotRepository(database)
	voterRepo := sqlite.NewVoterRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(sqlite.NewAuditLogRepository(database))

	return &App{
		db:     database,
		logger: logger,
		elections: app.NewElectionService(
			electionRepo, coreelection.NewValidator(), logWriter, logger,
		),
		ballots: app.NewBallotService(
			electionRepo, ballotRepo, signature.NewVerifier(), logWriter, clock, logger,
		),
		registration: app.NewRegistrationService(
			voterRepo, session.NewMemoryStore(ttl), logWriter, logger,
		),
	}, nil
}

// DB returns the underlying connection.
func (a *App) DB() *sql.DB { return a.db }

// ElectionService returns the election service.
func (a *App) ElectionService() primary.ElectionService { return a.elections }

// BallotService returns the ballot service.
func (a *App) BallotService() primary.BallotService { return a.ballots }

// RegistrationService returns the registration service.
func (a *App) RegistrationService() primary.RegistrationService { return a.registration }

// ElectionAdapter returns a new ElectionAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func (a *App) ElectionAdapter(out io.Writer) *cliadapter.ElectionAdapter {
	return cliadapter.NewElectionAdapter(a.elections, out)
}

// BallotAdapter returns a new BallotAdapter writing to out.
func (a *App) BallotAdapter(out io.Writer) *cliadapter.BallotAdapter {
	return cliadapter.NewBallotAdapter(a.ballots, out)
}

// VoterAdapter returns a new VoterAdapter writing to out.
func (a *App) VoterAdapter(out io.Writer) *cliadapter.VoterAdapter {
	return cliadapter.NewVoterAdapter(a.registration, out)
}

// HTTPServer returns the HTTP API over the same services.
func (a *App) HTTPServer() *httpapi.Server {
	return httpapi.NewServer(a.elections, a.ballots, a.registration, a.logger)
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.db.Close()
}
