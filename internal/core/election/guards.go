package election

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Reason codes reported when an election payload is rejected. Callers use
// them verbatim as their error response.
const (
	ReasonMalformedJSON         = "MISSING_OR_MALFORMED_JSON"
	ReasonMissingTitle          = "MISSING_TITLE"
	ReasonMissingDescription    = "MISSING_DESCRIPTION"
	ReasonMissingStartDate      = "MISSING_START_DATE"
	ReasonMissingEndDate        = "MISSING_END_DATE"
	ReasonMissingCreatorID      = "MISSING_CREATOR_ID"
	ReasonMissingQuestions      = "MISSING_QUESTIONS"
	ReasonInvalidTitle          = "INVALID_TITLE"
	ReasonInvalidDescription    = "INVALID_DESCRIPTION"
	ReasonInvalidCreatorID      = "INVALID_CREATOR_ID"
	ReasonInvalidStartDate      = "INVALID_START_DATE"
	ReasonInvalidDateRange      = "INVALID_DATE_RANGE"
	ReasonInvalidQuestions      = "INVALID_QUESTIONS"
	ReasonInvalidQuestionPrompt = "INVALID_QUESTION_PROMPT"
	ReasonTooFewChoices         = "TOO_FEW_CHOICES"
	ReasonDuplicateChoices      = "DUPLICATE_CHOICES"
	ReasonInvalidChoice         = "INVALID_CHOICE"
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

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(reason string) GuardResult {
	return GuardResult{Allowed: false, Reason: reason}
}

func denyf(reason, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Validator checks election payloads. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator with the election rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Validate evaluates whether an election may be created from the payload.
// Rules, checked in order (first failure wins):
// - every field is present
// - title and creator_id are non-blank, title at most 256 characters
// - start_date is a positive epoch timestamp and end_date is after it
// - questions is non-empty; every prompt is non-blank
// - every question has at least two distinct non-blank choices
func (val *Validator) Validate(p *Payload) GuardResult {
	if p == nil {
		return deny(ReasonMalformedJSON)
	}

	switch {
	case p.Title == nil:
		return deny(ReasonMissingTitle)
	case p.Description == nil:
		return deny(ReasonMissingDescription)
	case p.StartDate == nil:
		return deny(ReasonMissingStartDate)
	case p.EndDate == nil:
		return deny(ReasonMissingEndDate)
	case p.CreatorID == nil:
		return deny(ReasonMissingCreatorID)
	case p.Questions == nil:
		return deny(ReasonMissingQuestions)
	}

	f := p.Fields()

	if val.v.Var(f.Title, "notblank,max=256") != nil {
		return deny(ReasonInvalidTitle)
	}
	if val.v.Var(f.Description, "max=4096") != nil {
		return deny(ReasonInvalidDescription)
	}
	if val.v.Var(f.CreatorID, "notblank") != nil {
		return deny(ReasonInvalidCreatorID)
	}
	if val.v.Var(f.StartDate, "gt=0") != nil {
		return deny(ReasonInvalidStartDate)
	}
	if val.v.VarWithValue(f.EndDate, f.StartDate, "gtfield") != nil {
		return denyf(ReasonInvalidDateRange, "end_date %d must be after start_date %d", f.EndDate, f.StartDate)
	}
	if val.v.Var(f.Questions, "min=1") != nil {
		return deny(ReasonInvalidQuestions)
	}

	for i, q := range f.Questions {
		if val.v.Var(q.Prompt, "notblank") != nil {
			return denyf(ReasonInvalidQuestionPrompt, "question %d", i)
		}
		if val.v.Var(q.Choices, "min=2") != nil {
			return denyf(ReasonTooFewChoices, "question %d has %d choice(s)", i, len(q.Choices))
		}
		if val.v.Var(q.Choices, "dive,notblank") != nil {
			return denyf(ReasonInvalidChoice, "question %d", i)
		}
		if val.v.Var(q.Choices, "unique") != nil {
			return denyf(ReasonDuplicateChoices, "question %d", i)
		}
	}

	return allow()
}

// CreateElectionContext provides context for the duplicate-title guard.
type CreateElectionContext struct {
	Title       string
	TitleExists bool
}

// CanCreateElection evaluates whether an election with a valid payload may
// be stored. Rules:
// - no election or master ballot already uses the title
func CanCreateElection(ctx CreateElectionContext) GuardResult {
	if ctx.TitleExists {
		return denyf(ReasonTitleExists, "election %q already exists", ctx.Title)
	}
	return allow()
}

// Reasons reported by CanCreateElection and CanCreateAs.
const (
	ReasonTitleExists     = "ELECTION_WITH_TITLE_ALREADY_EXISTS"
	ReasonCreatorMismatch = "CREATOR_MISMATCH"
)

// CreatorContext provides context for the creator guard.
type CreatorContext struct {
	CreatorID string
	CreatedBy string
}

// CanCreateAs evaluates whether the submitting user may create an election
// naming CreatorID. Rules:
// - an anonymous submission (CreatedBy empty) is trusted
// - otherwise creator_id equals the submitting user
func CanCreateAs(ctx CreatorContext) GuardResult {
	if ctx.CreatedBy == "" || ctx.CreatedBy == ctx.CreatorID {
		return allow()
	}
	return denyf(ReasonCreatorMismatch, "%s may not create elections as %s", ctx.CreatedBy, ctx.CreatorID)
}
