package spanner

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/cccteam/ccc"
	"github.com/cccteam/spxscan"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
	"google.golang.org/grpc/codes"
)

// OnboardingState returns the onboarding row for the given userID.
func (d *StorageDriver) OnboardingState(ctx context.Context, userID string) (*dbtype.OnboardingState, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	stmt := spanner.NewStatement(`
		SELECT
			UserId, Status, TenantId, SelectedPlan, BillingCycle, CreatedAt, UpdatedAt
		FROM OnboardingStates
		WHERE UserId = @userId
	`)
	stmt.Params["userId"] = userID

	state := &dbtype.OnboardingState{}
	if err := spxscan.Get(ctx, d.spanner.Single(), state, stmt); err != nil {
		if errors.Is(err, spxscan.ErrNotFound) {
			return nil, errors.Wrapf(dbtype.ErrNotFound, "onboarding state for user %q not found", userID)
		}

		return nil, errors.Wrapf(err, "failed to scan onboarding state for user %q", userID)
	}

	return state, nil
}

// InsertOnboardingState creates the NOT_STARTED row for a new user. A
// concurrent insert for the same user is a no-op; callers re-read after.
func (d *StorageDriver) InsertOnboardingState(ctx context.Context, state *dbtype.OnboardingState) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	mutation, err := spanner.InsertStruct("OnboardingStates", state)
	if err != nil {
		return errors.Wrap(err, "spanner.InsertStruct()")
	}

	if _, err := d.spanner.Apply(ctx, []*spanner.Mutation{mutation}); err != nil {
		if spanner.ErrCode(err) == codes.AlreadyExists {
			return nil
		}

		return errors.Wrap(err, "spanner.Client.Apply()")
	}

	return nil
}

// AdvanceOnboarding performs the compare-and-swap advance inside one
// read-write transaction. The stored status must match the expected
// fromStatus and an already-set tenantId can not be changed; either
// mismatch aborts with ErrConflict.
func (d *StorageDriver) AdvanceOnboarding(ctx context.Context, adv *dbtype.AdvanceOnboarding) (*dbtype.OnboardingState, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	state := &dbtype.OnboardingState{}
	_, err := d.spanner.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, "OnboardingStates", spanner.Key{adv.UserID},
			[]string{"UserId", "Status", "TenantId", "SelectedPlan", "BillingCycle", "CreatedAt", "UpdatedAt"})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return errors.Wrapf(dbtype.ErrConflict, "onboarding state for user %q not found", adv.UserID)
			}

			return errors.Wrap(err, "spanner.ReadWriteTransaction.ReadRow()")
		}
		if err := row.ToStruct(state); err != nil {
			return errors.Wrap(err, "spanner.Row.ToStruct()")
		}

		if state.Status != adv.FromStatus {
			return errors.Wrapf(dbtype.ErrConflict, "onboarding advance for user %q from %s rejected", adv.UserID, adv.FromStatus)
		}
		if state.TenantID != "" && adv.TenantID != "" && state.TenantID != adv.TenantID {
			return errors.Wrapf(dbtype.ErrConflict, "tenant %q is immutable for user %q", state.TenantID, adv.UserID)
		}

		state.Status = adv.ToStatus
		if adv.TenantID != "" {
			state.TenantID = adv.TenantID
		}
		if adv.SelectedPlan != "" {
			state.SelectedPlan = adv.SelectedPlan
		}
		if adv.BillingCycle != "" {
			state.BillingCycle = adv.BillingCycle
		}
		state.UpdatedAt = time.Now()

		mutation, err := spanner.UpdateStruct("OnboardingStates", state)
		if err != nil {
			return errors.Wrap(err, "spanner.UpdateStruct()")
		}

		if err := stampSessionTenant(ctx, txn, state); err != nil {
			return err
		}

		return txn.BufferWrite([]*spanner.Mutation{mutation})
	})
	if err != nil {
		return nil, errors.Wrap(err, "spanner.Client.ReadWriteTransaction()")
	}

	return state, nil
}

// stampSessionTenant copies the tenantId onto the user's live sessions once
// onboarding reaches COMPLETE, so session validation reports the tenant
// without a second store read.
func stampSessionTenant(ctx context.Context, txn *spanner.ReadWriteTransaction, state *dbtype.OnboardingState) error {
	if state.Status != "COMPLETE" || state.TenantID == "" {
		return nil
	}

	stmt := spanner.NewStatement(`
		UPDATE Sessions SET TenantId = @tenantId
		WHERE UserId = @userId AND Expired = FALSE`)
	stmt.Params["tenantId"] = state.TenantID
	stmt.Params["userId"] = state.UserID

	if _, err := txn.Update(ctx, stmt); err != nil {
		return errors.Wrap(err, "spanner.ReadWriteTransaction.Update()")
	}

	return nil
}

// ForceCompleteOnboarding sets the status to COMPLETE regardless of current
// state and records the override in the audit table, atomically.
func (d *StorageDriver) ForceCompleteOnboarding(ctx context.Context, userID, tenantID string, audit *dbtype.InsertAuditEntry) (*dbtype.OnboardingState, ccc.UUID, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	auditID, err := ccc.NewUUID()
	if err != nil {
		return nil, ccc.NilUUID, errors.Wrap(err, "failed to generate UUID for audit entry")
	}

	state := &dbtype.OnboardingState{}
	_, err = d.spanner.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, "OnboardingStates", spanner.Key{userID},
			[]string{"UserId", "Status", "TenantId", "SelectedPlan", "BillingCycle", "CreatedAt", "UpdatedAt"})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return errors.Wrapf(dbtype.ErrNotFound, "onboarding state for user %q not found", userID)
			}

			return errors.Wrap(err, "spanner.ReadWriteTransaction.ReadRow()")
		}
		if err := row.ToStruct(state); err != nil {
			return errors.Wrap(err, "spanner.Row.ToStruct()")
		}

		priorStatus := state.Status
		state.Status = "COMPLETE"
		if tenantID != "" {
			state.TenantID = tenantID
		}
		state.UpdatedAt = time.Now()

		stateMutation, err := spanner.UpdateStruct("OnboardingStates", state)
		if err != nil {
			return errors.Wrap(err, "spanner.UpdateStruct()")
		}

		auditRow := struct {
			ID ccc.UUID `spanner:"Id"`
			dbtype.InsertAuditEntry
		}{
			ID: auditID,
			InsertAuditEntry: dbtype.InsertAuditEntry{
				UserID:      userID,
				Actor:       audit.Actor,
				Reason:      audit.Reason,
				PriorStatus: priorStatus,
				CreatedAt:   time.Now(),
			},
		}

		auditMutation, err := spanner.InsertStruct("OnboardingAudit", auditRow)
		if err != nil {
			return errors.Wrap(err, "spanner.InsertStruct()")
		}

		if err := stampSessionTenant(ctx, txn, state); err != nil {
			return err
		}

		return txn.BufferWrite([]*spanner.Mutation{stateMutation, auditMutation})
	})
	if err != nil {
		return nil, ccc.NilUUID, errors.Wrap(err, "spanner.Client.ReadWriteTransaction()")
	}

	return state, auditID, nil
}
