package activity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minTitleLen   = 3
	minMessageLen = 10
)

// CreateInput carries the caller-supplied fields for a new activity.
type CreateInput struct {
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Category  Category   `json:"category"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports all invalid fields of a CreateInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// ValidateInput checks in against the data-model constraints at the
// input boundary, before the creation pipeline runs. It returns a
// *ValidationError listing every failing field, or nil.
func ValidateInput(in CreateInput, now time.Time) error {
	var fields []FieldError

	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < minTitleLen {
		fields = append(fields, FieldError{
			Field:   "title",
			Message: fmt.Sprintf("must be at least %d characters long", minTitleLen),
		})
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Message)) < minMessageLen {
		fields = append(fields, FieldError{
			Field:   "message",
			Message: fmt.Sprintf("must be at least %d characters long", minMessageLen),
		})
	}
	if !in.Category.Valid() {
		fields = append(fields, FieldError{
			Field:   "category",
			Message: "must be Maintenance, Feature, or Update",
		})
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		fields = append(fields, FieldError{
			Field:   "expires_at",
			Message: "must be in the future",
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
