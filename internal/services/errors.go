package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrInvalidToken covers malformed, expired and revoked auth tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrAlreadyFavorited  = errors.New("recipe is already in favorites")
	ErrNotFavorited      = errors.New("recipe is not in favorites")
	ErrAlreadyInCart     = errors.New("recipe is already in the shopping cart")
	ErrNotInCart         = errors.New("recipe is not in the shopping cart")
	ErrAlreadySubscribed = errors.New("already subscribed to this author")
	ErrNotSubscribed     = errors.New("not subscribed to this author")
	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrRecipeExists      = errors.New("you already have a recipe with this name")
)

// NonFieldErrors is the ValidationError key for errors not tied to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError collects messages per request field.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError with a single message.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add appends msg to field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns e when it holds messages and nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
