package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/markup/internal/errors"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{Level: level, Format: FormatJSON, Output: NewOutput(&buf)}), &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Errorf("expected no output for debug/info at warn level, got: %s", buf.String())
	}

	logger.Warn("warn message")
	if buf.Len() == 0 {
		t.Error("expected output for warn message")
	}
}

func TestServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:          LevelInfo,
		Format:         FormatJSON,
		Output:         NewOutput(&buf),
		ServiceName:    "markup",
		ServiceVersion: "1.2.3",
	})

	logger.Info("hello")
	entry := decode(t, &buf)
	if entry["service"] != "markup" || entry["version"] != "1.2.3" {
		t.Errorf("missing service attributes: %v", entry)
	}
}

func TestTextFormatOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: NewOutput(&buf)})

	logger.Info("profile refreshed", "tier", "pro")
	out := buf.String()
	if !strings.Contains(out, "msg=\"profile refreshed\"") || !strings.Contains(out, "tier=pro") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestWithAndGroup(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.With("route", "settings").WithGroup("request").Info("enter", "id", "123")
	entry := decode(t, buf)

	if entry["route"] != "settings" {
		t.Errorf("expected route attribute, got %v", entry)
	}
	group, ok := entry["request"].(map[string]interface{})
	if !ok || group["id"] != "123" {
		t.Errorf("expected request.id group, got %v", entry["request"])
	}
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  string
		wantKind  string
		wantSuggs bool
	}{
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			wantCode: "",
		},
		{
			name:     "markup error",
			err:      errors.NewServerError(422, "marks must be positive"),
			wantCode: "SERVER-001",
			wantKind: "server",
		},
		{
			name:      "markup error with suggestions",
			err:       errors.NewNotSignedInError(),
			wantCode:  "AUTH-003",
			wantKind:  "auth",
			wantSuggs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelInfo)
			logger.WithError(tt.err).Info("test")
			entry := decode(t, buf)

			if _, ok := entry["error"]; !ok {
				t.Error("expected error field")
			}
			if tt.wantCode == "" {
				if _, ok := entry["error_code"]; ok {
					t.Error("plain errors should not carry error_code")
				}
				return
			}
			if entry["error_code"] != tt.wantCode || entry["error_kind"] != tt.wantKind {
				t.Errorf("unexpected code/kind: %v", entry)
			}
			if _, ok := entry["suggestions"]; ok != tt.wantSuggs {
				t.Errorf("suggestions present = %v, want %v", ok, tt.wantSuggs)
			}
		})
	}
}

func TestWithErrorNil(t *testing.T) {
	logger, _ := newBufferLogger(LevelInfo)
	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestLogError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.LogError("login", errors.Wrap(errors.ErrCodeNetworkUnreachable, "login", fmt.Errorf("dial tcp: refused")))
	entry := decode(t, buf)

	if entry["msg"] != "login failed" {
		t.Errorf("msg = %v, want 'login failed'", entry["msg"])
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if entry["cause"] != "dial tcp: refused" {
		t.Errorf("cause = %v", entry["cause"])
	}

	buf.Reset()
	logger.LogError("noop", nil)
	if buf.Len() != 0 {
		t.Error("LogError(nil) should not write")
	}
}

func TestEnabled(t *testing.T) {
	logger, _ := newBufferLogger(LevelInfo)
	ctx := context.Background()

	if logger.Enabled(ctx, LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at info level")
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("discarded")
	if logger.Config().Output.Writer() == nil {
		t.Error("Nop logger should have a writer")
	}
}
