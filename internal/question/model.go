// Package question provides the quiz question domain model and repository.
package question

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Type discriminates how a question is asked and graded.
type Type string

const (
	TypeSingleChoice Type = "single_choice"
	TypeMultiSelect  Type = "multi_select"
	TypeFreeText     Type = "free_text"
	TypeMapClick     Type = "map_click"
	TypeMapToText    Type = "map_to_text"
)

// Question is a quiz question. The scheduler only ever references its ID;
// grading goes through the answer package.
type Question struct {
	ID        int64     `db:"id" yaml:"id,omitempty"`
	Prompt    string    `db:"prompt" yaml:"prompt"`
	Type      Type      `db:"type" yaml:"type"`
	Payload   Payload   `db:"payload" yaml:"payload"`
	Revision  int       `db:"revision" yaml:"-"`
	CreatedAt time.Time `db:"created_at" yaml:"-"`
	UpdatedAt time.Time `db:"updated_at" yaml:"-"`
}

// Payload holds the type-specific answer data. Only the fields relevant
// to the question's type are populated.
type Payload struct {
	// Choice questions.
	Options        []string `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectIndex   int      `json:"correct_index,omitempty" yaml:"correct_index,omitempty"`
	CorrectIndices []int    `json:"correct_indices,omitempty" yaml:"correct_indices,omitempty"`

	// Free text.
	AnswerText string `json:"answer_text,omitempty" yaml:"answer_text,omitempty"`

	// Map questions. Region is a polygon ring of [longitude, latitude]
	// pairs; AcceptedNames are the region names a learner may type.
	Region        [][2]float64 `json:"region,omitempty" yaml:"region,omitempty"`
	AcceptedNames []string     `json:"accepted_names,omitempty" yaml:"accepted_names,omitempty"`
}

// Value serializes the payload as JSON for storage.
func (p Payload) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(payload) > %w", err)
	}
	return data, nil
}

// Scan deserializes the payload from its JSON column.
func (p *Payload) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = Payload{}
		return nil
	default:
		return fmt.Errorf("unsupported payload column type %T", src)
	}
}

// Validate checks that the payload carries the data its type needs.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("question %d: prompt is required", q.ID)
	}

	switch q.Type {
	case TypeSingleChoice:
		if len(q.Payload.Options) < 2 {
			return fmt.Errorf("question %d: single choice needs at least 2 options", q.ID)
		}
		if q.Payload.CorrectIndex < 0 || q.Payload.CorrectIndex >= len(q.Payload.Options) {
			return fmt.Errorf("question %d: correct index %d out of range", q.ID, q.Payload.CorrectIndex)
		}
	case TypeMultiSelect:
		if len(q.Payload.Options) < 2 {
			return fmt.Errorf("question %d: multi select needs at least 2 options", q.ID)
		}
		if len(q.Payload.CorrectIndices) == 0 {
			return fmt.Errorf("question %d: multi select needs at least one correct index", q.ID)
		}
		for _, idx := range q.Payload.CorrectIndices {
			if idx < 0 || idx >= len(q.Payload.Options) {
				return fmt.Errorf("question %d: correct index %d out of range", q.ID, idx)
			}
		}
	case TypeFreeText:
		if q.Payload.AnswerText == "" {
			return fmt.Errorf("question %d: free text needs an answer text", q.ID)
		}
	case TypeMapClick:
		if len(q.Payload.Region) < 3 {
			return fmt.Errorf("question %d: map click needs a polygon with at least 3 points", q.ID)
		}
	case TypeMapToText:
		if len(q.Payload.AcceptedNames) == 0 {
			return fmt.Errorf("question %d: map to text needs accepted names", q.ID)
		}
	default:
		return fmt.Errorf("question %d: unknown type %q", q.ID, q.Type)
	}
	return nil
}

// ContentChanged reports whether an edit substantively changed the
// question. Prompt or payload changes invalidate learner progress;
// metadata-only updates do not.
func ContentChanged(old, updated Question) bool {
	if old.Prompt != updated.Prompt || old.Type != updated.Type {
		return true
	}
	oldPayload, err := json.Marshal(old.Payload)
	if err != nil {
		return true
	}
	newPayload, err := json.Marshal(updated.Payload)
	if err != nil {
		return true
	}
	return string(oldPayload) != string(newPayload)
}
