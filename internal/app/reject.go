package app

import (
	"errors"

	"github.com/example/ballotblock/internal/core/outcome"
)

// reject converts a denied guard into an outcome error of the given kind.
func reject(kind error, reason, detail string) error {
	e := outcome.New(kind, reason)
	if detail != "" {
		e.Err = errors.New(detail)
	}
	return e
}
