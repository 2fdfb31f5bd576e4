// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Formats accepted by New.
const (
	FormatJSON  = "json"
	FormatPlain = "plain"
)

// New returns a logger writing to out at the given level. The plain format
// is a human-readable console writer; json emits one object per line.
func New(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if level == "" {
		lvl = zerolog.InfoLevel
	}

	switch format {
	case FormatJSON:
	case FormatPlain, "":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q, must be json or plain", format)
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
