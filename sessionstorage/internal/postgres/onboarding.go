package postgres

import (
	"context"
	"time"

	"github.com/cccteam/ccc"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/go-playground/errors/v5"
	"github.com/jackc/pgx/v5"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
)

// OnboardingState returns the onboarding row for the given userID.
func (d *StorageDriver) OnboardingState(ctx context.Context, userID string) (*dbtype.OnboardingState, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		SELECT
			"UserId", "Status", "TenantId", "SelectedPlan", "BillingCycle", "CreatedAt", "UpdatedAt"
		FROM "OnboardingStates"
		WHERE "UserId" = $1
	`

	s := &dbtype.OnboardingState{}
	if err := pgxscan.Get(ctx, d.conn, s, query, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(dbtype.ErrNotFound, "onboarding state for user %s not found", userID)
		}

		return nil, errors.Wrapf(err, "failed to scan onboarding state for user %s", userID)
	}

	return s, nil
}

// InsertOnboardingState creates the NOT_STARTED row for a new user. A
// concurrent insert for the same user is a no-op; callers re-read after.
func (d *StorageDriver) InsertOnboardingState(ctx context.Context, state *dbtype.OnboardingState) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		INSERT INTO "OnboardingStates"
			("UserId", "Status", "TenantId", "SelectedPlan", "BillingCycle", "CreatedAt", "UpdatedAt")
		VALUES
			($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ("UserId") DO NOTHING
		`

	if _, err := d.conn.Exec(ctx, query, state.UserID, state.Status, state.TenantID,
		state.SelectedPlan, state.BillingCycle, state.CreatedAt, state.UpdatedAt); err != nil {
		return errors.Wrap(err, "failed to insert into table OnboardingStates")
	}

	return nil
}

// AdvanceOnboarding performs the compare-and-swap advance as one
// conditional UPDATE. The WHERE clause carries both the expected fromStatus
// and the tenant-immutability rule, so a concurrent writer or a conflicting
// tenantId leaves zero rows updated and surfaces as ErrConflict. Reaching
// COMPLETE stamps the tenantId onto the user's live sessions in the same
// transaction.
func (d *StorageDriver) AdvanceOnboarding(ctx context.Context, adv *dbtype.AdvanceOnboarding) (*dbtype.OnboardingState, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "pgx.Queryer.Begin()")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE "OnboardingStates" SET
			"Status" = $3,
			"TenantId" = COALESCE(NULLIF($4, ''), "TenantId"),
			"SelectedPlan" = COALESCE(NULLIF($5, ''), "SelectedPlan"),
			"BillingCycle" = COALESCE(NULLIF($6, ''), "BillingCycle"),
			"UpdatedAt" = now()
		WHERE "UserId" = $1
			AND "Status" = $2
			AND ("TenantId" = '' OR $4 = '' OR "TenantId" = $4)
		RETURNING "UserId", "Status", "TenantId", "SelectedPlan", "BillingCycle", "CreatedAt", "UpdatedAt"`

	s := &dbtype.OnboardingState{}
	if err := pgxscan.Get(ctx, tx, s, query, adv.UserID, adv.FromStatus, adv.ToStatus,
		adv.TenantID, adv.SelectedPlan, adv.BillingCycle); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(dbtype.ErrConflict, "onboarding advance for user %s from %s rejected", adv.UserID, adv.FromStatus)
		}

		return nil, errors.Wrapf(err, "failed to advance onboarding for user %s", adv.UserID)
	}

	if err := stampSessionTenant(ctx, tx, s); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "pgx.Tx.Commit()")
	}

	return s, nil
}

// stampSessionTenant copies the tenantId onto the user's live sessions once
// onboarding reaches COMPLETE, so session validation reports the tenant
// without a second store read.
func stampSessionTenant(ctx context.Context, tx pgx.Tx, s *dbtype.OnboardingState) error {
	if s.Status != "COMPLETE" || s.TenantID == "" {
		return nil
	}

	query := `
		UPDATE "Sessions" SET
			"TenantId" = $2
		WHERE "UserId" = $1
			AND "Expired" = FALSE`

	if _, err := tx.Exec(ctx, query, s.UserID, s.TenantID); err != nil {
		return errors.Wrapf(err, "failed to stamp tenant onto sessions for user %s", s.UserID)
	}

	return nil
}

// ForceCompleteOnboarding sets the status to COMPLETE regardless of current
// state and records the override in the audit table, atomically.
func (d *StorageDriver) ForceCompleteOnboarding(ctx context.Context, userID, tenantID string, audit *dbtype.InsertAuditEntry) (*dbtype.OnboardingState, ccc.UUID, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, ccc.NilUUID, errors.Wrap(err, "pgx.Queryer.Begin()")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var priorStatus string
	if err := tx.QueryRow(ctx, `SELECT "Status" FROM "OnboardingStates" WHERE "UserId" = $1 FOR UPDATE`, userID).
		Scan(&priorStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ccc.NilUUID, errors.Wrapf(dbtype.ErrNotFound, "onboarding state for user %s not found", userID)
		}

		return nil, ccc.NilUUID, errors.Wrapf(err, "failed to lock onboarding state for user %s", userID)
	}

	updateQuery := `
		UPDATE "OnboardingStates" SET
			"Status" = 'COMPLETE',
			"TenantId" = COALESCE(NULLIF($2, ''), "TenantId"),
			"UpdatedAt" = now()
		WHERE "UserId" = $1
		RETURNING "UserId", "Status", "TenantId", "SelectedPlan", "BillingCycle", "CreatedAt", "UpdatedAt"`

	s := &dbtype.OnboardingState{}
	rows, err := tx.Query(ctx, updateQuery, userID, tenantID)
	if err != nil {
		return nil, ccc.NilUUID, errors.Wrapf(err, "failed to force-complete onboarding for user %s", userID)
	}
	if err := pgxscan.ScanOne(s, rows); err != nil {
		return nil, ccc.NilUUID, errors.Wrapf(err, "failed to scan forced onboarding state for user %s", userID)
	}

	auditID, err := ccc.NewUUID()
	if err != nil {
		return nil, ccc.NilUUID, errors.Wrap(err, "failed to generate UUID for audit entry")
	}

	auditQuery := `
		INSERT INTO "OnboardingAudit"
			("Id", "UserId", "Actor", "Reason", "PriorStatus", "CreatedAt")
		VALUES
			($1, $2, $3, $4, $5, $6)
		`

	if _, err := tx.Exec(ctx, auditQuery, auditID, userID, audit.Actor, audit.Reason, priorStatus, time.Now()); err != nil {
		return nil, ccc.NilUUID, errors.Wrap(err, "failed to insert into table OnboardingAudit")
	}

	if err := stampSessionTenant(ctx, tx, s); err != nil {
		return nil, ccc.NilUUID, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, ccc.NilUUID, errors.Wrap(err, "pgx.Tx.Commit()")
	}

	return s, auditID, nil
}
