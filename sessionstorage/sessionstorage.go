// Package sessionstorage manages persistence for sessions, single-use
// bridge tokens, and onboarding state. It supports PostgreSQL and Cloud
// Spanner backends behind a single client, classifies transient store
// failures separately from definitive outcomes, and retries transient
// failures with bounded backoff.
package sessionstorage

import (
	"context"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/internal/fingerprint"
	"github.com/tenantflow/coordinator/onboarding"
	"github.com/tenantflow/coordinator/sessioninfo"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
)

const (
	retryAttempts        = 3
	retryInitialInterval = 50 * time.Millisecond
	retryMaxInterval     = 500 * time.Millisecond
)

// Client coordinates session, bridge token, and onboarding persistence
// against a storage driver.
type Client struct {
	db db
}

// ValidateSession checks that the session exists, has not expired, and was
// presented by the client it was bound to. A fingerprint mismatch revokes
// the session. All failures are logged with a reason code.
func (c *Client) ValidateSession(ctx context.Context, sessionID ccc.UUID, clientFingerprint string) (*sessioninfo.SessionInfo, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	var sess *dbtype.Session
	if err := c.retry(ctx, func() error {
		var err error
		sess, err = c.db.Session(ctx, sessionID)

		return err
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Ctx(ctx).Infof("session validation failed: reason=%s sessionID=%s", ReasonNotFound, sessionID)
		}

		return nil, err
	}

	now := time.Now()
	if sess.Expired || !sess.ExpiresAt.After(now) {
		logger.Ctx(ctx).Infof("session validation failed: reason=%s sessionID=%s", ReasonExpired, sessionID)

		return nil, errors.Wrap(ErrExpired, "session expired")
	}

	if !fingerprint.Match(sess.Fingerprint, clientFingerprint) {
		logger.Ctx(ctx).Error("session validation failed: reason=" + ReasonFingerprintMismatch + " sessionID=" + sessionID.String())
		// Possible cookie replay from a different client. Revoke so the
		// stolen cookie cannot be retried elsewhere.
		if err := c.db.DestroySession(ctx, sessionID); err != nil {
			logger.Ctx(ctx).Errorf("failed to revoke session after fingerprint mismatch: %v", err)
		}

		return nil, errors.Wrap(ErrFingerprintMismatch, "session fingerprint mismatch")
	}

	return toSessionInfo(sess), nil
}

// CreateSession stores a new session bound to the client fingerprint and
// seeds the user's onboarding state if it does not exist yet.
func (c *Client) CreateSession(ctx context.Context, claims sessioninfo.IdentityClaims, clientFingerprint string, lifetime time.Duration) (*sessioninfo.SessionInfo, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	now := time.Now()
	insert := &dbtype.InsertSession{
		UserID:      claims.UserID,
		Email:       claims.Email,
		Fingerprint: clientFingerprint,
		ExpiresAt:   now.Add(lifetime),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var id ccc.UUID
	if err := c.retry(ctx, func() error {
		var err error
		id, err = c.db.InsertSession(ctx, insert)

		return err
	}); err != nil {
		return nil, err
	}

	if err := c.retry(ctx, func() error {
		return c.db.InsertOnboardingState(ctx, &dbtype.OnboardingState{
			UserID:    claims.UserID,
			Status:    string(onboarding.StatusNotStarted),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}); err != nil {
		return nil, err
	}

	return &sessioninfo.SessionInfo{
		ID:          id,
		UserID:      claims.UserID,
		Email:       claims.Email,
		Fingerprint: clientFingerprint,
		ExpiresAt:   insert.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RefreshSession slides the session expiry forward by lifetime and returns
// the refreshed session. An expired or revoked session is not refreshed.
func (c *Client) RefreshSession(ctx context.Context, sessionID ccc.UUID, lifetime time.Duration) (*sessioninfo.SessionInfo, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	expiresAt := time.Now().Add(lifetime)
	if err := c.retry(ctx, func() error {
		return c.db.RefreshSession(ctx, sessionID, expiresAt)
	}); err != nil {
		return nil, err
	}

	var sess *dbtype.Session
	if err := c.retry(ctx, func() error {
		var err error
		sess, err = c.db.Session(ctx, sessionID)

		return err
	}); err != nil {
		return nil, err
	}

	return toSessionInfo(sess), nil
}

// UpdateSessionActivity records activity on the session.
func (c *Client) UpdateSessionActivity(ctx context.Context, sessionID ccc.UUID) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	return c.retry(ctx, func() error {
		return c.db.UpdateSessionActivity(ctx, sessionID)
	})
}

// RevokeSession marks the session as expired. Revoking an unknown session
// is not an error.
func (c *Client) RevokeSession(ctx context.Context, sessionID ccc.UUID) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	return c.retry(ctx, func() error {
		return c.db.DestroySession(ctx, sessionID)
	})
}

// MintBridgeToken issues a single-use token bound to the session, valid for
// ttl. The token is opaque; the session id never leaves the store.
func (c *Client) MintBridgeToken(ctx context.Context, sessionID ccc.UUID, ttl time.Duration) (string, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	token, err := ccc.NewUUID()
	if err != nil {
		return "", errors.Wrap(err, "ccc.NewUUID()")
	}

	now := time.Now()
	if err := c.retry(ctx, func() error {
		return c.db.InsertBridgeToken(ctx, &dbtype.InsertBridgeToken{
			Token:     token.String(),
			SessionID: sessionID,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
	}); err != nil {
		return "", err
	}

	return token.String(), nil
}

// ExchangeBridgeToken atomically consumes the single-use token and returns
// the session it was bound to. A second exchange of the same token fails
// with ErrNotFound regardless of how closely the requests race.
//
// The consume is never retried: after a transient failure the token's state
// is unknown, and retrying could double-spend it.
func (c *Client) ExchangeBridgeToken(ctx context.Context, token string) (*sessioninfo.SessionInfo, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	sessionID, err := c.db.ConsumeBridgeToken(ctx, token)
	if err != nil {
		return nil, c.classify(err)
	}

	var sess *dbtype.Session
	if err := c.retry(ctx, func() error {
		var err error
		sess, err = c.db.Session(ctx, sessionID)

		return err
	}); err != nil {
		return nil, err
	}
	if sess.Expired || !sess.ExpiresAt.After(time.Now()) {
		return nil, errors.Wrap(ErrExpired, "session expired")
	}

	return toSessionInfo(sess), nil
}

// OnboardingState returns the user's onboarding state, creating the initial
// NOT_STARTED row if none exists.
func (c *Client) OnboardingState(ctx context.Context, userID string) (*onboarding.State, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	state, err := c.onboardingState(ctx, userID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	if err := c.retry(ctx, func() error {
		return c.db.InsertOnboardingState(ctx, &dbtype.OnboardingState{
			UserID:    userID,
			Status:    string(onboarding.StatusNotStarted),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}); err != nil {
		return nil, err
	}

	return c.onboardingState(ctx, userID)
}

// AdvanceOnboarding moves the user's onboarding from one status to the
// next via a compare-and-swap in the store. The transition table is
// checked first; a CAS that finds different stored state fails with
// ErrConflict and the caller must re-read before retrying.
func (c *Client) AdvanceOnboarding(ctx context.Context, userID string, from, to onboarding.Status, payload onboarding.Payload) (*onboarding.State, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	cur, err := c.OnboardingState(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := payload.SelectedPlan
	if plan == "" {
		plan = cur.SelectedPlan
	}
	if !onboarding.CanTransition(from, to, plan) {
		return nil, errors.Wrapf(ErrInvalidTransition, "%s -> %s (plan %q)", from, to, plan)
	}
	if payload.TenantID != "" && to != onboarding.StatusProvisioning && to != onboarding.StatusComplete {
		return nil, errors.Wrapf(ErrInvalidTransition, "tenant id may only be set when provisioning begins, not on %s -> %s", from, to)
	}
	if to == onboarding.StatusComplete && payload.TenantID == "" && cur.TenantID == "" {
		return nil, errors.Wrap(ErrInvalidTransition, "completing onboarding requires a tenant id")
	}

	var row *dbtype.OnboardingState
	if err := c.retry(ctx, func() error {
		var err error
		row, err = c.db.AdvanceOnboarding(ctx, &dbtype.AdvanceOnboarding{
			UserID:       userID,
			FromStatus:   string(from),
			ToStatus:     string(to),
			TenantID:     payload.TenantID,
			SelectedPlan: payload.SelectedPlan,
			BillingCycle: payload.BillingCycle,
		})

		return err
	}); err != nil {
		return nil, err
	}

	return toOnboardingState(row), nil
}

// ForceCompleteOnboarding moves the user's onboarding to COMPLETE regardless
// of its current status, for administrative repair of stuck flows. Every
// call writes an audit entry; the returned id identifies it.
func (c *Client) ForceCompleteOnboarding(ctx context.Context, userID, tenantID, actor, reason string) (*onboarding.State, ccc.UUID, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	var (
		row     *dbtype.OnboardingState
		auditID ccc.UUID
	)
	if err := c.retry(ctx, func() error {
		var err error
		row, auditID, err = c.db.ForceCompleteOnboarding(ctx, userID, tenantID, &dbtype.InsertAuditEntry{
			UserID:    userID,
			Actor:     actor,
			Reason:    reason,
			CreatedAt: time.Now(),
		})

		return err
	}); err != nil {
		return nil, ccc.UUID{}, err
	}

	logger.Ctx(ctx).Infof("onboarding force-completed: userID=%s actor=%s auditID=%s", userID, actor, auditID)

	return toOnboardingState(row), auditID, nil
}

func (c *Client) onboardingState(ctx context.Context, userID string) (*onboarding.State, error) {
	var row *dbtype.OnboardingState
	if err := c.retry(ctx, func() error {
		var err error
		row, err = c.db.OnboardingState(ctx, userID)

		return err
	}); err != nil {
		return nil, err
	}

	return toOnboardingState(row), nil
}

// retry runs op, retrying transient failures with exponential backoff.
// Definitive outcomes are returned immediately; a store that stays
// unreachable is reported as ErrStoreUnavailable.
func (c *Client) retry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.MaxInterval = retryMaxInterval

	err := backoff.Retry(func() error {
		if err := op(); err != nil {
			if isOutcome(err) {
				return backoff.Permanent(err)
			}

			return err
		}

		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, retryAttempts-1), ctx))

	return c.classify(err)
}

// classify wraps transient failures as ErrStoreUnavailable and passes
// definitive outcomes through unchanged.
func (c *Client) classify(err error) error {
	if err == nil || isOutcome(err) {
		return err
	}

	return errors.Wrapf(ErrStoreUnavailable, "session store unavailable: %v", err)
}

func toSessionInfo(sess *dbtype.Session) *sessioninfo.SessionInfo {
	return &sessioninfo.SessionInfo{
		ID:          sess.ID,
		UserID:      sess.UserID,
		Email:       sess.Email,
		TenantID:    sess.TenantID,
		Fingerprint: sess.Fingerprint,
		ExpiresAt:   sess.ExpiresAt,
		CreatedAt:   sess.CreatedAt,
		UpdatedAt:   sess.UpdatedAt,
		Expired:     sess.Expired,
	}
}

func toOnboardingState(row *dbtype.OnboardingState) *onboarding.State {
	return &onboarding.State{
		UserID:       row.UserID,
		Status:       onboarding.Status(row.Status),
		TenantID:     row.TenantID,
		SelectedPlan: row.SelectedPlan,
		BillingCycle: row.BillingCycle,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
