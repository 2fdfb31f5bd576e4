// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/example/ballotblock/internal/core/outcome"
)

// constraintRule maps a violated constraint to a failure kind. Column is
// matched against the "<table>.<column>" list SQLite reports.
type constraintRule struct {
	code   sqlite3.ErrNoExtended
	column string
	kind   error
}

// classify returns err translated to an outcome error when it is a
// constraint violation matched by one of rules, and err unchanged otherwise.
func classify(err error, rules ...constraintRule) error {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return err
	}

	msg := se.Error()
	for _, r := range rules {
		if se.ExtendedCode != r.code {
			continue
		}
		if r.column == "" || strings.Contains(msg, r.column) {
			return outcome.Wrap(r.kind, err)
		}
	}

	if se.ExtendedCode == sqlite3.ErrConstraintCheck {
		return outcome.Wrap(outcome.ErrMalformedInput, err)
	}
	return err
}

func unique(column string, kind error) constraintRule {
	return constraintRule{code: sqlite3.ErrConstraintUnique, column: column, kind: kind}
}

func primaryKey(column string, kind error) constraintRule {
	return constraintRule{code: sqlite3.ErrConstraintPrimaryKey, column: column, kind: kind}
}

func foreignKey(kind error) constraintRule {
	return constraintRule{code: sqlite3.ErrConstraintForeignKey, kind: kind}
}
