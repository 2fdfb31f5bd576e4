package secondary

import "context"

// SignatureVerifier authenticates the origin of a signed message.
// A signature that fails verification is (false, nil); undecodable key or
// signature material is an error wrapping outcome.ErrMalformedKeyOrSignature.
type SignatureVerifier interface {
	Verify(message []byte, signatureB64, publicKeyB64 string) (bool, error)
}

// SessionStore tracks logged-in users.
type SessionStore interface {
	// Create starts a session for username and returns its token.
	Create(ctx context.Context, username, accountType string) (string, error)

	// Lookup returns the session for a token, or nil if it is unknown or expired.
	Lookup(ctx context.Context, token string) (*Session, error)

	// IsAuthenticated reports whether username holds a live session.
	IsAuthenticated(ctx context.Context, username string) bool
}

// Session is a logged-in user.
type Session struct {
	Token       string
	Username    string
	AccountType string
	ExpiresAt   int64
}
