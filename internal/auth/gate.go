// Package auth implements the shared-password gate in front of the notice
// editor. There is one secret for all admins and no user identity.
package auth

import (
	"crypto/subtle"
	"log/slog"

	"github.com/afours/eshipping-launcher/internal/session"
)

// DefaultSecret is used when no admin password is configured. It is
// published in the docs and only fit for low-stakes internal deployments.
const DefaultSecret = "afours1234"

// Gate checks submitted passwords against the configured secret.
type Gate struct {
	secret    []byte
	isDefault bool
}

// NewGate creates a gate for secret, falling back to DefaultSecret when it
// is empty.
func NewGate(secret string) *Gate {
	g := &Gate{secret: []byte(secret)}
	if secret == "" {
		slog.Warn("auth: no admin password configured, using the built-in default; set LAUNCHER_ADMIN_PASSWORD")
		g.secret = []byte(DefaultSecret)
		g.isDefault = true
	}
	return g
}

// UsesDefault reports whether the gate fell back to DefaultSecret.
func (g *Gate) UsesDefault() bool { return g.isDefault }

// Authenticate compares submitted with the secret (exact, case-sensitive)
// and marks sess authenticated on a match. A mismatch leaves sess untouched.
func (g *Gate) Authenticate(sess *session.Session, submitted string) bool {
	if subtle.ConstantTimeCompare([]byte(submitted), g.secret) != 1 {
		return false
	}
	sess.MarkAuthenticated()
	return true
}
