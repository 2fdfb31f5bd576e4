// Package voter contains the pure business logic for registering and
// logging in users.
package voter

import "fmt"

// Account types.
const (
	AccountVoter   = "voter"
	AccountCreator = "creator"
)

// Reason codes reported when a registration or login is rejected.
const (
	ReasonMissingUsername    = "MISSING_USERNAME"
	ReasonMissingPassword    = "MISSING_PASSWORD"
	ReasonPasswordTooLong    = "PASSWORD_TOO_LONG"
	ReasonInvalidAccountType = "INVALID_ACCOUNT_TYPE"
	ReasonUsernameTaken      = "USERNAME_TAKEN"
	ReasonNotRegistered      = "USER_NOT_REGISTERED"
	ReasonAccountTypeDiffers = "ACCOUNT_TYPE_MISMATCH"
	ReasonAuthenticated      = "USER_ALREADY_AUTHENTICATED"
	ReasonNoSession          = "LOG_IN_FIRST"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Detail  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Detail != "" {
		return fmt.Errorf("%s: %s", r.Reason, r.Detail)
	}
	return fmt.Errorf("%s", r.Reason)
}

// NormalizeAccountType maps an empty account type to AccountVoter.
func NormalizeAccountType(accountType string) string {
	if accountType == "" {
		return AccountVoter
	}
	return accountType
}

// RegisterContext provides context for registration guards.
type RegisterContext struct {
	Username    string
	Password    string
	AccountType string
}

// CanRegister evaluates whether a user may be registered.
// Rules:
// - username and password are non-empty
// - account type is voter or creator (empty means voter)
func CanRegister(ctx RegisterContext) GuardResult {
	if ctx.Username == "" {
		return GuardResult{Reason: ReasonMissingUsername}
	}
	if ctx.Password == "" {
		return GuardResult{Reason: ReasonMissingPassword}
	}
	if len(ctx.Password) > MaxPasswordBytes {
		return GuardResult{
			Reason: ReasonPasswordTooLong,
			Detail: fmt.Sprintf("password is %d bytes, at most %d allowed", len(ctx.Password), MaxPasswordBytes),
		}
	}
	switch NormalizeAccountType(ctx.AccountType) {
	case AccountVoter, AccountCreator:
	default:
		return GuardResult{
			Reason: ReasonInvalidAccountType,
			Detail: fmt.Sprintf("account type %q is not voter or creator", ctx.AccountType),
		}
	}
	return GuardResult{Allowed: true}
}

// LoginContext provides context for the login guard.
type LoginContext struct {
	Username          string
	Registered        bool
	PasswordMatches   bool
	StoredAccountType string
	ClaimedType       string
	Authenticated     bool
}

// CanLogin evaluates whether a login attempt succeeds.
// Rules:
// - the user is registered and the password matches
// - a claimed account type, when given, equals the stored one
// - the user does not already hold a live session
func CanLogin(ctx LoginContext) GuardResult {
	if !ctx.Registered || !ctx.PasswordMatches {
		return GuardResult{Reason: ReasonNotRegistered}
	}
	if ctx.ClaimedType != "" && ctx.ClaimedType != ctx.StoredAccountType {
		return GuardResult{
			Reason: ReasonAccountTypeDiffers,
			Detail: fmt.Sprintf("%s is not registered as %s", ctx.Username, ctx.ClaimedType),
		}
	}
	if ctx.Authenticated {
		return GuardResult{Reason: ReasonAuthenticated}
	}
	return GuardResult{Allowed: true}
}
