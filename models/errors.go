package models

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyTags        = errors.New("maximum 5 tags allowed")
	ErrUnknownQuestion    = errors.New("answer references a question outside this template")
	ErrInvalidPermutation = errors.New("question ids must be a permutation of the template's questions")
	ErrIndexOutOfRange    = errors.New("question index out of range")
)

// ValidationError is returned for user input that breaks a template, form
// or comment rule. Handlers report it as 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a user input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrTooManyTags) ||
		errors.Is(err, ErrUnknownQuestion) ||
		errors.Is(err, ErrInvalidPermutation) ||
		errors.Is(err, ErrIndexOutOfRange)
}
