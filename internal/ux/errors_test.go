package ux

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/markup/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
		wantNil    bool
	}{
		{
			name:       "nil error returns nil",
			err:        nil,
			suggestion: "some suggestion",
			wantNil:    true,
		},
		{
			name:       "error with suggestion",
			err:        stderrors.New("something failed"),
			suggestion: "try this fix",
			wantNil:    false,
		},
		{
			name:       "error without suggestion",
			err:        stderrors.New("something failed"),
			suggestion: "",
			wantNil:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewErrorWithSuggestion(tt.err, tt.suggestion)
			if tt.wantNil {
				if result != nil {
					t.Errorf("NewErrorWithSuggestion() = %v, want nil", result)
				}
				return
			}

			if result == nil {
				t.Fatal("NewErrorWithSuggestion() returned nil, want error")
			}

			errMsg := result.Error()
			if !strings.Contains(errMsg, tt.err.Error()) {
				t.Errorf("Error message %q does not contain original error %q", errMsg, tt.err.Error())
			}

			if tt.suggestion != "" && !strings.Contains(errMsg, tt.suggestion) {
				t.Errorf("Error message %q does not contain suggestion %q", errMsg, tt.suggestion)
			}
		})
	}
}

func TestErrorWithSuggestionUnwrap(t *testing.T) {
	base := errors.NewServerError(400, "Email already registered")
	wrapped := NewErrorWithSuggestion(base, "Sign in instead")

	if !stderrors.Is(wrapped, base) {
		t.Error("ErrorWithSuggestion should unwrap to the original error")
	}
	if errors.KindOf(wrapped) != errors.KindServer {
		t.Errorf("kind should survive wrapping, got %s", errors.KindOf(wrapped))
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
		wantUnchanged  bool
	}{
		{
			name:          "nil",
			err:           nil,
			wantUnchanged: true,
		},
		{
			name:          "markup error with suggestions is unchanged",
			err:           errors.NewNotSignedInError(),
			wantUnchanged: true,
		},
		{
			name:           "auth error without suggestions",
			err:            errors.New(errors.ErrCodeAuthForbidden, "forbidden"),
			wantSuggestion: "markup auth login",
		},
		{
			name:           "server 5xx",
			err:            errors.NewServerError(502, "bad gateway"),
			wantSuggestion: "try again",
		},
		{
			name:          "server 4xx is surfaced verbatim",
			err:           errors.NewServerError(400, "Email already registered"),
			wantUnchanged: true,
		},
		{
			name:           "connection refused",
			err:            fmt.Errorf("dial tcp 127.0.0.1:8000: connect: connection refused"),
			wantSuggestion: "api.base_url",
		},
		{
			name:           "unknown host",
			err:            fmt.Errorf("dial tcp: lookup markup.invalid: no such host"),
			wantSuggestion: "api.base_url",
		},
		{
			name:           "certificate",
			err:            fmt.Errorf("x509: certificate signed by unknown authority"),
			wantSuggestion: "scheme",
		},
		{
			name:           "permission denied",
			err:            fmt.Errorf("open /root/.markup/auth.json: permission denied"),
			wantSuggestion: "MARKUP_HOME",
		},
		{
			name:           "token file",
			err:            fmt.Errorf("read /home/u/.markup/auth.json: unexpected EOF"),
			wantSuggestion: "markup auth logout",
		},
		{
			name:          "unrelated",
			err:           fmt.Errorf("something odd"),
			wantUnchanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceError(tt.err)
			if tt.wantUnchanged {
				if got != tt.err {
					t.Errorf("EnhanceError() = %v, want unchanged %v", got, tt.err)
				}
				return
			}

			var ws *ErrorWithSuggestion
			if !stderrors.As(got, &ws) {
				t.Fatalf("EnhanceError() = %T, want *ErrorWithSuggestion", got)
			}
			if !strings.Contains(ws.Suggestion, tt.wantSuggestion) {
				t.Errorf("suggestion %q should contain %q", ws.Suggestion, tt.wantSuggestion)
			}
		})
	}
}

func TestEnhanceErrorDoesNotDoubleWrap(t *testing.T) {
	once := EnhanceError(fmt.Errorf("connection refused"))
	twice := EnhanceError(once)
	if once != twice {
		t.Error("an already enhanced error should be returned as is")
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil, "login") != nil {
		t.Error("FormatError(nil) should be nil")
	}

	err := FormatError(fmt.Errorf("connection refused"), "login")
	if !strings.HasPrefix(err.Error(), "login: ") {
		t.Errorf("context prefix missing: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "Suggestion") {
		t.Errorf("suggestion missing: %s", err.Error())
	}

	plain := FormatError(fmt.Errorf("boom"), "")
	if plain.Error() != "boom" {
		t.Errorf("FormatError without context = %q, want boom", plain.Error())
	}
}
