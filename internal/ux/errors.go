package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/markup/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions.
// Errors that already carry suggestions are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var me *errors.MarkupError
	if stderrors.As(err, &me) && len(me.Suggestions) > 0 {
		return err
	}
	var ws *ErrorWithSuggestion
	if stderrors.As(err, &ws) {
		return err
	}

	switch errors.KindOf(err) {
	case errors.KindAuth:
		return NewErrorWithSuggestion(err, "Sign in again with 'markup auth login'")
	case errors.KindServer:
		if me != nil && me.StatusCode >= 500 {
			return NewErrorWithSuggestion(err, "The MarkUp backend is having trouble, try again in a moment")
		}
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") ||
		strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check that the backend is running and 'markup config get api.base_url' points at it")
	}

	if strings.Contains(errMsg, "x509") || strings.Contains(errMsg, "certificate") {
		return NewErrorWithSuggestion(err,
			"The backend certificate could not be verified, check api.base_url uses the right scheme")
	}

	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check permissions on the MarkUp home directory (see --home or MARKUP_HOME)")
	}

	if strings.Contains(errMsg, "auth.json") {
		return NewErrorWithSuggestion(err,
			"Remove the stored session with 'markup auth logout' and sign in again")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
