// Package sessioninfo handles session information.
package sessioninfo

import (
	"time"

	"github.com/cccteam/ccc"
)

// IdentityClaims are the identity fields bound to a session at creation.
// They are immutable for the life of the session.
type IdentityClaims struct {
	UserID string
	Email  string
}

// SessionInfo struct contains information about a session
type SessionInfo struct {
	ID          ccc.UUID
	UserID      string
	Email       string
	TenantID    string // empty until onboarding completes; immutable once set
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Expired     bool
}

// Remaining returns the session lifetime left at the given instant.
// It is used to bound the session cookie's Max-Age.
func (s *SessionInfo) Remaining(now time.Time) time.Duration {
	if s.Expired || !s.ExpiresAt.After(now) {
		return 0
	}

	return s.ExpiresAt.Sub(now)
}

// Valid reports whether the session is usable at the given instant.
func (s *SessionInfo) Valid(now time.Time) bool {
	return !s.Expired && s.ExpiresAt.After(now)
}
