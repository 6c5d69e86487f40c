package sessionstorage

import (
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
)

// Definitive storage outcomes. Callers branch on these with errors.Is.
var (
	// ErrNotFound means the session, token, or onboarding state does not
	// exist (or a single-use token was already consumed).
	ErrNotFound = dbtype.ErrNotFound

	// ErrExpired means the session or token is past its validity.
	ErrExpired = dbtype.ErrExpired

	// ErrConflict means the compare-and-swap advance lost to a concurrent
	// writer; the caller must re-read before retrying.
	ErrConflict = dbtype.ErrConflict

	// ErrFingerprintMismatch means the session cookie was presented by a
	// client whose fingerprint does not match the one bound at creation.
	ErrFingerprintMismatch = errors.New("session fingerprint mismatch")

	// ErrInvalidTransition means the requested onboarding advance is not in
	// the transition table.
	ErrInvalidTransition = errors.New("illegal onboarding transition")

	// ErrStoreUnavailable means the backend store could not be reached.
	// This is distinct from an authentication failure: callers fail closed
	// and retry rather than treating the user as unauthenticated.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// Validation failure reason codes, logged for audit.
const (
	ReasonExpired             = "EXPIRED"
	ReasonFingerprintMismatch = "FINGERPRINT_MISMATCH"
	ReasonNotFound            = "NOT_FOUND"
)

// isOutcome reports whether err is a definitive storage outcome rather
// than a transient failure.
func isOutcome(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrConflict)
}
