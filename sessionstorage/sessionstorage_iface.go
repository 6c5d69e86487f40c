package sessionstorage

import (
	"context"
	"time"

	"github.com/cccteam/ccc"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
	"github.com/tenantflow/coordinator/sessionstorage/internal/postgres"
	"github.com/tenantflow/coordinator/sessionstorage/internal/spanner"
)

// db is the set of operations a storage driver must implement.
type db interface {
	// Session returns the session row for id.
	Session(ctx context.Context, id ccc.UUID) (*dbtype.Session, error)

	// InsertSession stores a new session and returns its generated id.
	InsertSession(ctx context.Context, session *dbtype.InsertSession) (ccc.UUID, error)

	// RefreshSession slides the session expiry forward. Returns
	// dbtype.ErrExpired if the session is already expired or revoked.
	RefreshSession(ctx context.Context, id ccc.UUID, expiresAt time.Time) error

	// UpdateSessionActivity updates the session activity timestamp.
	UpdateSessionActivity(ctx context.Context, id ccc.UUID) error

	// DestroySession marks the session as expired.
	DestroySession(ctx context.Context, id ccc.UUID) error

	// InsertBridgeToken stores a single-use bridge token.
	InsertBridgeToken(ctx context.Context, token *dbtype.InsertBridgeToken) error

	// ConsumeBridgeToken atomically marks token used and returns the bound
	// session id. A token that is unknown, already used, or expired yields
	// dbtype.ErrNotFound.
	ConsumeBridgeToken(ctx context.Context, token string) (ccc.UUID, error)

	// OnboardingState returns the onboarding row for userID.
	OnboardingState(ctx context.Context, userID string) (*dbtype.OnboardingState, error)

	// InsertOnboardingState creates the initial onboarding row. Inserting a
	// row that already exists is a no-op.
	InsertOnboardingState(ctx context.Context, state *dbtype.OnboardingState) error

	// AdvanceOnboarding performs the compare-and-swap status advance.
	// Returns dbtype.ErrConflict if the stored status no longer matches.
	AdvanceOnboarding(ctx context.Context, adv *dbtype.AdvanceOnboarding) (*dbtype.OnboardingState, error)

	// ForceCompleteOnboarding moves the row to COMPLETE regardless of its
	// current status and writes an audit entry.
	ForceCompleteOnboarding(ctx context.Context, userID, tenantID string, audit *dbtype.InsertAuditEntry) (*dbtype.OnboardingState, ccc.UUID, error)
}

var (
	_ db = (*postgres.StorageDriver)(nil)
	_ db = (*spanner.StorageDriver)(nil)
)
