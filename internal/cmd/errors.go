package cmd

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/guard"
	"github.com/felixgeelhaar/markup/internal/tier"
)

// ErrorWithSuggestion wraps an error with actionable recovery suggestions
type ErrorWithSuggestion struct {
	Message     string
	Suggestions []string
	err         error
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if e.err != nil && errors.Message(e.err) != e.Message {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.err
}

// NewErrorWithSuggestions creates an error with recovery suggestions
func NewErrorWithSuggestions(msg string, err error, suggestions ...string) error {
	return &ErrorWithSuggestion{
		Message:     msg,
		Suggestions: suggestions,
		err:         err,
	}
}

// ValidationError creates a helpful error for an invalid flag or argument value
func ValidationError(field string, value interface{}, validValues string) error {
	msg := fmt.Sprintf("Invalid value for %s: %v", field, value)
	return NewErrorWithSuggestions(
		msg,
		errors.New(errors.ErrCodeValidationInvalid, msg),
		fmt.Sprintf("Valid values: %s", validValues),
		"Run with --help to see all available options",
	)
}

// UnknownTierError is returned when a plan name cannot be parsed
func UnknownTierError(value string) error {
	names := make([]string, len(tier.Plans))
	for i, p := range tier.Plans {
		names[i] = string(p.Tier)
	}
	return ValidationError("tier", value, strings.Join(names, ", "))
}

// UnknownRouteError is returned when --route names no screen
func UnknownRouteError(value string) error {
	routes := []guard.Route{
		guard.Landing, guard.SignIn, guard.Upgrade, guard.Settings,
		guard.ExamAnswer, guard.StudyTools, guard.TheMarker,
	}
	names := make([]string, len(routes))
	for i, r := range routes {
		names[i] = string(r)
	}
	return ValidationError("--route", value, strings.Join(names, ", "))
}

// NotInteractiveError is returned when a command needs a terminal
func NotInteractiveError(what string, alternatives ...string) error {
	msg := what + " needs an interactive terminal"
	return NewErrorWithSuggestions(
		msg,
		errors.New(errors.ErrCodeValidationInvalid, msg),
		alternatives...,
	)
}
