// Package ballot contains the pure business logic for casting ballots: the
// exact bytes a voter signs and the guards a cast must pass before storage.
package ballot

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Reason codes reported when a cast is rejected.
const (
	ReasonMissingBallotID          = "MISSING_BALLOT_ID"
	ReasonMissingMasterBallotTitle = "MISSING_MASTER_BALLOT_TITLE"
	ReasonMissingAnswers           = "MISSING_ANSWERS"
	ReasonMissingSignature         = "MISSING_SIGNATURE"
	ReasonMissingPublicKey         = "MISSING_PUBLIC_KEY"
	ReasonUnknownMasterBallot      = "UNKNOWN_MASTER_BALLOT"
	ReasonAnswerCountMismatch      = "ANSWER_COUNT_MISMATCH"
	ReasonInvalidAnswer            = "INVALID_ANSWER"
	ReasonElectionNotOpen          = "ELECTION_NOT_OPEN"
)

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

// signingPayload fixes the field order of the signed document.
type signingPayload struct {
	BallotID          string   `json:"ballot_id"`
	MasterBallotTitle string   `json:"master_ballot_title"`
	Answers           []string `json:"answers"`
}

// SigningPayload returns the bytes a voter signs for a ballot: compact JSON
// with the keys ballot_id, master_ballot_title and answers, in that order.
func SigningPayload(ballotID, masterBallotTitle string, answers []string) []byte {
	if answers == nil {
		answers = []string{}
	}
	// Marshal cannot fail for strings and string slices.
	b, _ := json.Marshal(signingPayload{
		BallotID:          ballotID,
		MasterBallotTitle: masterBallotTitle,
		Answers:           answers,
	})
	return b
}

// ShapeContext carries the raw fields of a cast request.
type ShapeContext struct {
	BallotID          string
	MasterBallotTitle string
	Answers           []string
	Signature         string
	PublicKey         string
}

// CheckShape evaluates whether a cast request carries every required field.
func CheckShape(ctx ShapeContext) GuardResult {
	switch {
	case strings.TrimSpace(ctx.BallotID) == "":
		return GuardResult{Reason: ReasonMissingBallotID}
	case ctx.MasterBallotTitle == "":
		return GuardResult{Reason: ReasonMissingMasterBallotTitle}
	case len(ctx.Answers) == 0:
		return GuardResult{Reason: ReasonMissingAnswers}
	case ctx.Signature == "":
		return GuardResult{Reason: ReasonMissingSignature}
	case ctx.PublicKey == "":
		return GuardResult{Reason: ReasonMissingPublicKey}
	}
	return GuardResult{Allowed: true}
}

// Question mirrors a master ballot question: a prompt and its allowed choices.
type Question struct {
	Prompt  string
	Choices []string
}

// CastBallotContext provides context for the cast guard.
type CastBallotContext struct {
	MasterBallotTitle  string
	MasterBallotExists bool
	Questions          []Question
	Answers            []string
	Now                int64
	StartDate          int64
	EndDate            int64
}

// CanCastBallot evaluates whether a ballot may be stored.
// Rules:
// - the master ballot must exist
// - there is exactly one answer per question
// - each answer is one of its question's choices
// - the election window [start, end) contains now
func CanCastBallot(ctx CastBallotContext) GuardResult {
	if !ctx.MasterBallotExists {
		return GuardResult{
			Reason: ReasonUnknownMasterBallot,
			Detail: fmt.Sprintf("master ballot %q not found", ctx.MasterBallotTitle),
		}
	}

	if len(ctx.Answers) != len(ctx.Questions) {
		return GuardResult{
			Reason: ReasonAnswerCountMismatch,
			Detail: fmt.Sprintf("expected %d answer(s), got %d", len(ctx.Questions), len(ctx.Answers)),
		}
	}

	for i, q := range ctx.Questions {
		if !slices.Contains(q.Choices, ctx.Answers[i]) {
			return GuardResult{
				Reason: ReasonInvalidAnswer,
				Detail: fmt.Sprintf("%q is not a choice for %q", ctx.Answers[i], q.Prompt),
			}
		}
	}

	if ctx.Now < ctx.StartDate || ctx.Now >= ctx.EndDate {
		return GuardResult{
			Reason: ReasonElectionNotOpen,
			Detail: fmt.Sprintf("voting is open from %d until %d", ctx.StartDate, ctx.EndDate),
		}
	}

	return GuardResult{Allowed: true}
}

// EncodeAnswers returns the stored JSON form of an answer list.
func EncodeAnswers(answers []string) (string, error) {
	if answers == nil {
		answers = []string{}
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}
	return string(b), nil
}

// DecodeAnswers parses the stored JSON form of an answer list.
func DecodeAnswers(s string) ([]string, error) {
	var answers []string
	if err := json.Unmarshal([]byte(s), &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	return answers, nil
}
