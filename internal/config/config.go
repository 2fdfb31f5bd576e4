// Package config loads BallotBlock settings. Sources, lowest precedence
// first: built-in defaults, ballotblock.yaml, BALLOTBLOCK_* environment
// variables, then command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyDatabasePath = "database.path"
	KeyServerListen = "server.listen"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
	KeySessionTTL   = "session.ttl"
)

const (
	// EnvPrefix prefixes every environment override, e.g. BALLOTBLOCK_DATABASE_PATH.
	EnvPrefix = "BALLOTBLOCK"

	fileName = "ballotblock"
	fileType = "yaml"
)

// Config is the resolved configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Session  SessionConfig  `mapstructure:"session"`
}

// DatabaseConfig selects the store. Path ":memory:" runs without a file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// LogConfig configures logging. Format is "json" or "plain".
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SessionConfig configures login sessions.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// DefaultDir returns the default configuration directory (~/.ballotblock).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ballotblock"), nil
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()

	dbPath := "ballotblock.db"
	if dir, err := DefaultDir(); err == nil {
		dbPath = filepath.Join(dir, "ballotblock.db")
	}

	v.SetDefault(KeyDatabasePath, dbPath)
	v.SetDefault(KeyServerListen, "0.0.0.0:8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "plain")
	v.SetDefault(KeySessionTTL, 24*time.Hour)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads ballotblock.yaml from dir, or from the default directory when
// dir is empty, and resolves the configuration. A missing file is not an error.
func Load(v *viper.Viper, dir string) (*Config, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}

	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the current settings to ballotblock.yaml in dir and returns its path.
func Save(v *viper.Viper, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	path := filepath.Join(dir, fileName+"."+fileType)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
