// Package cli implements the ballotblock command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/ballotblock/internal/app"
	"github.com/example/ballotblock/internal/config"
	"github.com/example/ballotblock/internal/ctxutil"
	"github.com/example/ballotblock/internal/logging"
	"github.com/example/ballotblock/internal/version"
	"github.com/example/ballotblock/internal/wire"
)

// CLIActor is recorded in the audit log for commands run from the terminal.
const CLIActor = "cli"

// env carries settings shared by every command.
type env struct {
	v         *viper.Viper
	configDir string
	clock     app.Clock
}

// Option configures the root command.
type Option func(*env)

// WithClock overrides the clock used when casting ballots.
func WithClock(clock app.Clock) Option {
	return func(e *env) { e.clock = clock }
}

// NewRootCmd builds the ballotblock command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	e := &env{v: config.New()}
	for _, opt := range opts {
		opt(e)
	}

	root := &cobra.Command{
		Use:     "ballotblock",
		Short:   "BallotBlock - signed ballots with tamper-evident storage",
		Version: version.String(),
		Long: `BallotBlock stores elections and cryptographically signed ballots.
Each voter key may cast at most one ballot per election.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.configDir, "config", "", "config directory (default ~/.ballotblock)")
	flags.String("db", "", `database path, or ":memory:"`)
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (plain, json)")

	e.bind(flags, map[string]string{
		"db":         config.KeyDatabasePath,
		"log-level":  config.KeyLogLevel,
		"log-format": config.KeyLogFormat,
	})

	root.AddCommand(
		e.initCmd(),
		e.electionCmd(),
		e.ballotCmd(),
		e.keyCmd(),
		e.voterCmd(),
		e.serveCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// bind makes each named flag override its setting key when set.
func (e *env) bind(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		// BindPFlag only fails for a nil flag.
		_ = e.v.BindPFlag(key, flags.Lookup(name))
	}
}

func (e *env) load(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(e.v, e.configDir)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

// open resolves configuration and assembles the application.
func (e *env) open(cmd *cobra.Command) (*wire.App, error) {
	cfg, logger, err := e.load(cmd)
	if err != nil {
		return nil, err
	}
	return wire.New(cfg, logger, e.clock)
}

// actorContext tags the command context as a terminal operation.
func actorContext(cmd *cobra.Command) context.Context {
	return ctxutil.WithActorID(cmd.Context(), CLIActor)
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
