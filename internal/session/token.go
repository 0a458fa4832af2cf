package session

import (
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zeebo/blake3"
)

// Fingerprint returns a short, stable digest of token that is safe to log.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake3.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}

// TokenInfo describes what can be read from a token without verifying it.
type TokenInfo struct {
	Format      string     `json:"format" yaml:"format"`
	Fingerprint string     `json:"fingerprint" yaml:"fingerprint"`
	Subject     string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	IssuedAt    *time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry that lies before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// Inspect decodes JWT claims without checking the signature. The backend
// remains the authority; this only feeds `auth status`. Opaque tokens yield
// Format "opaque".
func Inspect(token string) TokenInfo {
	info := TokenInfo{Format: "opaque", Fingerprint: Fingerprint(token)}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info
	}
	info.Format = "jwt"

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if uid, ok := claims["user_id"].(string); ok {
		info.Subject = uid
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info
}
