package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/example/ballotblock/internal/core/outcome"
)

// errorBody is the JSON body of every failed request.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type kindMapping struct {
	kind   error
	status int
	code   string
}

var kindMappings = []kindMapping{
	{outcome.ErrMalformedInput, http.StatusBadRequest, "MALFORMED_INPUT"},
	{outcome.ErrBallotRejected, http.StatusBadRequest, "BALLOT_REJECTED"},
	{outcome.ErrSignatureInvalid, http.StatusUnauthorized, "SIGNATURE_INVALID"},
	{outcome.ErrMalformedKeyOrSignature, http.StatusUnauthorized, "MALFORMED_KEY_OR_SIGNATURE"},
	{outcome.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{outcome.ErrNotRegistered, http.StatusUnauthorized, "NOT_REGISTERED"},
	{outcome.ErrElectionNotOpen, http.StatusForbidden, "ELECTION_NOT_OPEN"},
	{outcome.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{outcome.ErrUnknownMasterBallot, http.StatusNotFound, "UNKNOWN_MASTER_BALLOT"},
	{outcome.ErrDuplicateTitle, http.StatusConflict, "DUPLICATE_TITLE"},
	{outcome.ErrDuplicateBallotID, http.StatusConflict, "DUPLICATE_BALLOT_ID"},
	{outcome.ErrDuplicateVote, http.StatusConflict, "DUPLICATE_VOTE"},
	{outcome.ErrUsernameTaken, http.StatusConflict, "USERNAME_TAKEN"},
	{outcome.ErrAlreadyAuthenticated, http.StatusConflict, "ALREADY_AUTHENTICATED"},
}

// statusFor maps a service error to its HTTP status and response code. The
// reason code wins over the kind code when the error carries one.
func statusFor(err error) (int, string) {
	kind := outcome.KindOf(err)
	for _, m := range kindMappings {
		if m.kind != kind {
			continue
		}
		if reason := outcome.ReasonOf(err); reason != "" {
			return m.status, reason
		}
		return m.status, m.code
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}
