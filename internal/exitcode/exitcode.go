package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/markup/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage or input rejected before dispatch
	UsageError = 2

	// AuthError indicates missing, invalid or rejected credentials
	AuthError = 5

	// NetworkError indicates the backend could not be reached
	NetworkError = 6

	// AccessDenied indicates a subscription tier or education setup gate
	AccessDenied = 7

	// Interrupted indicates the user cancelled with Ctrl+C
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code.
// Typed errors are classified by kind; anything else falls back to message matching.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.KindOf(err) {
	case errors.KindAuth:
		return AuthError
	case errors.KindNetwork:
		return NetworkError
	case errors.KindValidation:
		return UsageError
	case errors.KindAccess:
		return AccessDenied
	case errors.KindServer, errors.KindIO:
		return GeneralError
	}

	return fromMessage(strings.ToLower(err.Error()))
}

func fromMessage(msg string) int {
	switch {
	case strings.Contains(msg, "unknown command"),
		strings.Contains(msg, "unknown flag"),
		strings.Contains(msg, "invalid argument"),
		strings.Contains(msg, "required flag"),
		strings.Contains(msg, "accepts ") && strings.Contains(msg, "arg(s)"):
		return UsageError
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "timeout"):
		return NetworkError
	case strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "not signed in"):
		return AuthError
	default:
		return GeneralError
	}
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or input)"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case AccessDenied:
		return "Plan or education setup required"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
