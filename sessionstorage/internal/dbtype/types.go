// Package dbtype defines the database row types and storage outcome errors
// shared by the storage drivers.
package dbtype

import (
	"time"

	"github.com/cccteam/ccc"
	"github.com/go-playground/errors/v5"
)

// Storage outcome errors. Drivers return these for domain outcomes so the
// facade can tell a definitive answer from a transient store failure.
var (
	// ErrNotFound means the row does not exist (or a single-use token was
	// already consumed).
	ErrNotFound = errors.New("not found")

	// ErrExpired means the session or token is past its validity.
	ErrExpired = errors.New("expired")

	// ErrConflict means a conditional update found different stored state.
	ErrConflict = errors.New("conflict")
)

// Session is a session row.
type Session struct {
	ID          ccc.UUID  `db:"Id" spanner:"Id"`
	UserID      string    `db:"UserId" spanner:"UserId"`
	Email       string    `db:"Email" spanner:"Email"`
	TenantID    string    `db:"TenantId" spanner:"TenantId"`
	Fingerprint string    `db:"Fingerprint" spanner:"Fingerprint"`
	ExpiresAt   time.Time `db:"ExpiresAt" spanner:"ExpiresAt"`
	CreatedAt   time.Time `db:"CreatedAt" spanner:"CreatedAt"`
	UpdatedAt   time.Time `db:"UpdatedAt" spanner:"UpdatedAt"`
	Expired     bool      `db:"Expired" spanner:"Expired"`
}

// InsertSession is the set of fields written when creating a session.
type InsertSession struct {
	UserID      string    `db:"UserId" spanner:"UserId"`
	Email       string    `db:"Email" spanner:"Email"`
	Fingerprint string    `db:"Fingerprint" spanner:"Fingerprint"`
	ExpiresAt   time.Time `db:"ExpiresAt" spanner:"ExpiresAt"`
	CreatedAt   time.Time `db:"CreatedAt" spanner:"CreatedAt"`
	UpdatedAt   time.Time `db:"UpdatedAt" spanner:"UpdatedAt"`
}

// InsertBridgeToken is a single-use session handoff token row.
type InsertBridgeToken struct {
	Token     string    `db:"Token" spanner:"Token"`
	SessionID ccc.UUID  `db:"SessionId" spanner:"SessionId"`
	ExpiresAt time.Time `db:"ExpiresAt" spanner:"ExpiresAt"`
	CreatedAt time.Time `db:"CreatedAt" spanner:"CreatedAt"`
}

// OnboardingState is an onboarding row, one per user/tenant pair.
type OnboardingState struct {
	UserID       string    `db:"UserId" spanner:"UserId"`
	Status       string    `db:"Status" spanner:"Status"`
	TenantID     string    `db:"TenantId" spanner:"TenantId"`
	SelectedPlan string    `db:"SelectedPlan" spanner:"SelectedPlan"`
	BillingCycle string    `db:"BillingCycle" spanner:"BillingCycle"`
	CreatedAt    time.Time `db:"CreatedAt" spanner:"CreatedAt"`
	UpdatedAt    time.Time `db:"UpdatedAt" spanner:"UpdatedAt"`
}

// AdvanceOnboarding is the payload for the compare-and-swap advance.
type AdvanceOnboarding struct {
	UserID       string
	FromStatus   string
	ToStatus     string
	TenantID     string
	SelectedPlan string
	BillingCycle string
}

// InsertAuditEntry records an administrative override.
type InsertAuditEntry struct {
	UserID      string    `db:"UserId" spanner:"UserId"`
	Actor       string    `db:"Actor" spanner:"Actor"`
	Reason      string    `db:"Reason" spanner:"Reason"`
	PriorStatus string    `db:"PriorStatus" spanner:"PriorStatus"`
	CreatedAt   time.Time `db:"CreatedAt" spanner:"CreatedAt"`
}
