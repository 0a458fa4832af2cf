package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/markup/internal/errors"
)

// ErrorMessage extracts the human readable message from an error payload.
// It understands FastAPI bodies ({"detail": "..."} or {"detail": [{"msg": "..."}]})
// and {"error"|"message": "..."}. It returns "" when none is present.
func ErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		var msgs []string
		for _, item := range detail.Array() {
			msg := item.Get("msg").String()
			if msg == "" {
				continue
			}
			if loc := locationOf(item); loc != "" {
				msg = loc + ": " + msg
			}
			msgs = append(msgs, msg)
		}
		return strings.Join(msgs, "; ")
	}

	for _, key := range []string{"error", "message"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// locationOf returns the field name of a FastAPI validation item, skipping "body".
func locationOf(item gjson.Result) string {
	loc := item.Get("loc").Array()
	if len(loc) == 0 {
		return ""
	}
	last := loc[len(loc)-1].String()
	if last == "body" {
		return ""
	}
	return last
}

// responseError maps a non-2xx response onto the error taxonomy.
func responseError(status int, body []byte) error {
	msg := ErrorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 && !gjson.ValidBytes(body) {
			msg += ": " + text
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return errors.New(errors.ErrCodeAuthUnauthorized, msg).WithStatus(status).
			WithSuggestion("Sign in again with 'markup auth login'")
	case http.StatusForbidden:
		return errors.New(errors.ErrCodeAuthForbidden, msg).WithStatus(status)
	default:
		return errors.NewServerError(status, msg)
	}
}
