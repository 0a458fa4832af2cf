package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Network errors (NET-001 to NET-099): the request could not complete
	ErrCodeNetworkUnreachable ErrorCode = "NET-001"
	ErrCodeNetworkTimeout     ErrorCode = "NET-002"
	ErrCodeNetworkCanceled    ErrorCode = "NET-003"

	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeAuthInvalidCredentials ErrorCode = "AUTH-001"
	ErrCodeAuthUnauthorized       ErrorCode = "AUTH-002"
	ErrCodeAuthNotSignedIn        ErrorCode = "AUTH-003"
	ErrCodeAuthForbidden          ErrorCode = "AUTH-004"

	// Validation errors (VALIDATION-001 to VALIDATION-099): caught before dispatch
	ErrCodeValidationRequired ErrorCode = "VALIDATION-001"
	ErrCodeValidationInvalid  ErrorCode = "VALIDATION-002"

	// Server errors (SERVER-001 to SERVER-099): non-2xx with a message payload
	ErrCodeServerRejected ErrorCode = "SERVER-001"
	ErrCodeServerInternal ErrorCode = "SERVER-002"
	ErrCodeServerDecode   ErrorCode = "SERVER-003"

	// Access errors (ACCESS-001 to ACCESS-099): tier or onboarding gates
	ErrCodeAccessTierRequired   ErrorCode = "ACCESS-001"
	ErrCodeAccessEducationSetup ErrorCode = "ACCESS-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
	ErrCodeCryptoFailed    ErrorCode = "IO-007"
)

// Kind is the coarse error taxonomy used by callers to decide how to react.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
	KindAccess     Kind = "access"
	KindIO         Kind = "io"
)

// Kind returns the family an error code belongs to.
func (c ErrorCode) Kind() Kind {
	prefix, _, _ := strings.Cut(string(c), "-")
	switch prefix {
	case "NET":
		return KindNetwork
	case "AUTH":
		return KindAuth
	case "VALIDATION":
		return KindValidation
	case "SERVER":
		return KindServer
	case "ACCESS":
		return KindAccess
	case "IO":
		return KindIO
	default:
		return KindUnknown
	}
}

// MarkupError represents an enhanced error with code, suggestions, and documentation
type MarkupError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error

	// StatusCode is the HTTP status for errors produced from a backend response.
	StatusCode int
}

// Error implements the error interface
func (e *MarkupError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *MarkupError) Unwrap() error {
	return e.Cause
}

// Kind returns the taxonomy family of the error.
func (e *MarkupError) Kind() Kind {
	return e.Code.Kind()
}

// New creates a new MarkupError
func New(code ErrorCode, message string) *MarkupError {
	return &MarkupError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new MarkupError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *MarkupError {
	return &MarkupError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *MarkupError) WithSuggestion(suggestion string) *MarkupError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *MarkupError) WithSuggestions(suggestions ...string) *MarkupError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *MarkupError) WithDocs(url string) *MarkupError {
	e.DocsURL = url
	return e
}

// WithStatus records the HTTP status the error was derived from.
func (e *MarkupError) WithStatus(status int) *MarkupError {
	e.StatusCode = status
	return e
}

// KindOf classifies any error. Errors outside the taxonomy are KindUnknown.
func KindOf(err error) Kind {
	var me *MarkupError
	if stderrors.As(err, &me) {
		return me.Kind()
	}
	return KindUnknown
}

// Is reports whether err belongs to the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message of err without suggestions or codes.
// Server messages are surfaced verbatim.
func Message(err error) string {
	var me *MarkupError
	if stderrors.As(err, &me) {
		return me.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Common error constructors for frequently used errors

// NewNotSignedInError is returned when an operation needs a session and none exists.
func NewNotSignedInError() *MarkupError {
	return New(ErrCodeAuthNotSignedIn, "not signed in").
		WithSuggestion("Run 'markup auth login' to sign in").
		WithSuggestion("Create an account with 'markup auth register'")
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(op string, cause error) *MarkupError {
	return Wrap(ErrCodeNetworkUnreachable, fmt.Sprintf("%s: request could not complete", op), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify the backend URL with 'markup config get api.base_url'")
}

// NewValidationError creates a client-side validation error for one or more fields.
func NewValidationError(details string) *MarkupError {
	return New(ErrCodeValidationRequired, details)
}

// NewServerError creates an error carrying the backend's message verbatim.
func NewServerError(status int, message string) *MarkupError {
	code := ErrCodeServerRejected
	if status >= 500 {
		code = ErrCodeServerInternal
	}
	return New(code, message).WithStatus(status)
}

// NewTierRequiredError creates a subscription gate error.
func NewTierRequiredError(feature, required, current string) *MarkupError {
	return New(ErrCodeAccessTierRequired,
		fmt.Sprintf("%s requires the %s plan (current: %s)", feature, required, current)).
		WithSuggestion("See available plans with 'markup upgrade'")
}

// NewEducationSetupError creates an onboarding gate error naming the missing fields.
func NewEducationSetupError(missing []string) *MarkupError {
	return New(ErrCodeAccessEducationSetup,
		fmt.Sprintf("education setup incomplete (missing: %s)", strings.Join(missing, ", "))).
		WithSuggestion("Configure your country, education level and exam board with 'markup settings set'")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *MarkupError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
