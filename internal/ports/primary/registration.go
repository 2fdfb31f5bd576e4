package primary

import "context"

// RegistrationService defines the primary port for registration and login.
type RegistrationService interface {
	// Register records a new user with a hashed password.
	Register(ctx context.Context, req RegisterRequest) error

	// Login checks credentials and starts a session.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// Authenticated resolves a session token to its user.
	Authenticated(ctx context.Context, token string) (*Principal, error)
}

// RegisterRequest contains parameters for registering a user.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	AccountType string `json:"account_type"`
	PublicKey   string `json:"public_key,omitempty"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	AccountType string `json:"account_type"`
}

// LoginResponse contains the session issued on login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Principal is an authenticated user.
type Principal struct {
	Username    string
	AccountType string
}
