// Package form validates submitted form fields before anything is stored.
package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error rejects one field of a submission.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// IsError reports whether err is a field validation error.
func IsError(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}

// Required fails when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Field: field, Message: "is required"}
	}
	return nil
}

// Email fails when value does not look like an email address.
func Email(field, value string) error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return &Error{Field: field, Message: "must be a valid email address"}
	}
	return nil
}

// MaxLen fails when value has more than n characters.
func MaxLen(field, value string, n int) error {
	if utf8.RuneCountInString(value) > n {
		return &Error{Field: field, Message: fmt.Sprintf("must be at most %d characters", n)}
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
