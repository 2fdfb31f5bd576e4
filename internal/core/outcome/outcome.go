// Package outcome defines the named failure kinds shared by the core,
// the services and the storage adapters. Every failure crossing a port
// boundary wraps exactly one of these sentinels so callers can map it to
// a stable response with errors.Is.
package outcome

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput means a payload is missing required fields or has the wrong shape.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDuplicateTitle means an election or master ballot with the title already exists.
	ErrDuplicateTitle = errors.New("election title already exists")

	// ErrDuplicateBallotID means a ballot with the identifier was already stored.
	ErrDuplicateBallotID = errors.New("ballot id already exists")

	// ErrDuplicateVote means the voter already holds a ballot for the election.
	ErrDuplicateVote = errors.New("voter already cast a ballot for this election")

	// ErrUnknownMasterBallot means a ballot references a master ballot that does not exist.
	ErrUnknownMasterBallot = errors.New("unknown master ballot")

	// ErrSignatureInvalid means the signature does not verify under the claimed key.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrMalformedKeyOrSignature means key or signature material could not be decoded.
	ErrMalformedKeyOrSignature = errors.New("malformed key or signature")

	// ErrBallotRejected means the answers do not fit the master ballot.
	ErrBallotRejected = errors.New("ballot rejected")

	// ErrElectionNotOpen means the ballot was cast outside the election window.
	ErrElectionNotOpen = errors.New("election not open")

	// ErrNotRegistered means the registration provider does not know the credentials.
	ErrNotRegistered = errors.New("user not registered")

	// ErrUnauthenticated means the caller has no valid session.
	ErrUnauthenticated = errors.New("log in first")

	// ErrForbidden means the caller may not act on behalf of the named user.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyAuthenticated means the user already holds a live session.
	ErrAlreadyAuthenticated = errors.New("user already authenticated")

	// ErrUsernameTaken means a registration reused an existing username.
	ErrUsernameTaken = errors.New("username already registered")
)

// Error is a failure of a known kind with the reason code that produced it.
type Error struct {
	Kind   error
	Reason string
	Err    error
}

// New returns an Error of the given kind carrying a reason code.
func New(kind error, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap returns an Error of the given kind wrapping a lower-level cause.
func Wrap(kind error, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s (%s)", e.Kind, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ReasonOf returns the reason code carried by err, or "" when there is none.
func ReasonOf(err error) string {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Reason
	}
	return ""
}

// Kinds lists every failure kind, in the order callers should test them.
var Kinds = []error{
	ErrMalformedInput,
	ErrDuplicateTitle,
	ErrDuplicateBallotID,
	ErrDuplicateVote,
	ErrUnknownMasterBallot,
	ErrSignatureInvalid,
	ErrMalformedKeyOrSignature,
	ErrBallotRejected,
	ErrElectionNotOpen,
	ErrNotRegistered,
	ErrUnauthenticated,
	ErrForbidden,
	ErrAlreadyAuthenticated,
	ErrUsernameTaken,
}

// KindOf returns the failure kind of err, or nil for an unexpected error.
func KindOf(err error) error {
	for _, k := range Kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
