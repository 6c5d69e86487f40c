package coordinator

import (
	"context"
	"time"

	"github.com/cccteam/ccc"
	"github.com/tenantflow/coordinator/onboarding"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage"
)

// Storage is the persistence surface the coordinator requires. It is
// implemented by sessionstorage.Client for PostgreSQL and Cloud Spanner.
type Storage interface {
	// ValidateSession checks that the session exists, has not expired, and
	// was presented by the client it was bound to.
	ValidateSession(ctx context.Context, sessionID ccc.UUID, clientFingerprint string) (*sessioninfo.SessionInfo, error)

	// CreateSession stores a new session bound to the client fingerprint.
	CreateSession(ctx context.Context, claims sessioninfo.IdentityClaims, clientFingerprint string, lifetime time.Duration) (*sessioninfo.SessionInfo, error)

	// RefreshSession slides the session expiry forward by lifetime.
	RefreshSession(ctx context.Context, sessionID ccc.UUID, lifetime time.Duration) (*sessioninfo.SessionInfo, error)

	// UpdateSessionActivity records activity on the session.
	UpdateSessionActivity(ctx context.Context, sessionID ccc.UUID) error

	// RevokeSession marks the session as expired.
	RevokeSession(ctx context.Context, sessionID ccc.UUID) error

	// MintBridgeToken issues a single-use token bound to the session.
	MintBridgeToken(ctx context.Context, sessionID ccc.UUID, ttl time.Duration) (string, error)

	// ExchangeBridgeToken atomically consumes the single-use token and
	// returns the session it was bound to.
	ExchangeBridgeToken(ctx context.Context, token string) (*sessioninfo.SessionInfo, error)

	// OnboardingState returns the user's onboarding state, creating the
	// initial NOT_STARTED row if none exists.
	OnboardingState(ctx context.Context, userID string) (*onboarding.State, error)

	// AdvanceOnboarding moves the user's onboarding from one status to the
	// next via a compare-and-swap in the store.
	AdvanceOnboarding(ctx context.Context, userID string, from, to onboarding.Status, payload onboarding.Payload) (*onboarding.State, error)

	// ForceCompleteOnboarding moves the user's onboarding to COMPLETE
	// regardless of its current status and writes an audit entry.
	ForceCompleteOnboarding(ctx context.Context, userID, tenantID, actor, reason string) (*onboarding.State, ccc.UUID, error)
}

var _ Storage = (*sessionstorage.Client)(nil)
