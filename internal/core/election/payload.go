// Package election contains the pure business logic for election creation:
// the inbound payload model, its wire codec and the guards that validate it.
package election

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Question is one prompt of a master ballot together with its allowed choices.
// On the wire it is the pair [prompt, [choice, ...]].
type Question struct {
	Prompt  string
	Choices []string
}

// MarshalJSON encodes the question as a [prompt, choices] pair.
func (q Question) MarshalJSON() ([]byte, error) {
	choices := q.Choices
	if choices == nil {
		choices = []string{}
	}
	return json.Marshal([]any{q.Prompt, choices})
}

// UnmarshalJSON decodes a [prompt, choices] pair.
func (q *Question) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("question must be a [prompt, choices] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("question must be a [prompt, choices] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &q.Prompt); err != nil {
		return fmt.Errorf("question prompt must be a string: %w", err)
	}
	if err := json.Unmarshal(pair[1], &q.Choices); err != nil {
		return fmt.Errorf("question choices must be a list of strings: %w", err)
	}
	return nil
}

// Payload is the inbound election-creation payload. Pointer fields record
// presence so a missing field is distinguishable from an empty one.
type Payload struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	StartDate   *int64      `json:"start_date"`
	EndDate     *int64      `json:"end_date"`
	CreatorID   *string     `json:"creator_id"`
	Questions   *[]Question `json:"questions"`
}

// Fields is the validated form of a Payload.
type Fields struct {
	Title       string
	Description string
	StartDate   int64
	EndDate     int64
	CreatorID   string
	Questions   []Question
}

// Fields returns the dereferenced payload. Call only after Validate allowed it.
func (p *Payload) Fields() Fields {
	f := Fields{}
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.StartDate != nil {
		f.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		f.EndDate = *p.EndDate
	}
	if p.CreatorID != nil {
		f.CreatorID = *p.CreatorID
	}
	if p.Questions != nil {
		f.Questions = *p.Questions
	}
	return f
}

// NewPayload builds a payload with every field present.
func NewPayload(title, description string, startDate, endDate int64, creatorID string, questions []Question) *Payload {
	return &Payload{
		Title:       &title,
		Description: &description,
		StartDate:   &startDate,
		EndDate:     &endDate,
		CreatorID:   &creatorID,
		Questions:   &questions,
	}
}

// ParsePayload decodes an inbound JSON election payload. Unknown fields are
// tolerated; a body that is not JSON or has wrongly typed fields is rejected.
func ParsePayload(data []byte) (*Payload, GuardResult) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, deny(ReasonMalformedJSON)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, deny(ReasonMalformedJSON)
	}
	return &p, allow()
}

// EncodeQuestions returns the stored JSON form of a question list.
func EncodeQuestions(questions []Question) (string, error) {
	if questions == nil {
		questions = []Question{}
	}
	b, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}
	return string(b), nil
}

// DecodeQuestions parses the stored JSON form of a question list.
func DecodeQuestions(s string) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal([]byte(s), &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}
