// Package spanner implements the storage driver for Cloud Spanner.
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

// StorageDriver represents the storage implementation for Spanner.
type StorageDriver struct {
	spanner *spanner.Client
}

// NewStorageDriver creates a new StorageDriver
func NewStorageDriver(client *spanner.Client) *StorageDriver {
	return &StorageDriver{
		spanner: client,
	}
}

// Session returns the session information from the database for given sessionID
func (d *StorageDriver) Session(ctx context.Context, sessionID ccc.UUID) (*dbtype.Session, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	stmt := spanner.NewStatement(`
		SELECT
			Id, UserId, Email, TenantId, Fingerprint, ExpiresAt, CreatedAt, UpdatedAt, Expired
		FROM Sessions
		WHERE Id = @id
	`)
	stmt.Params["id"] = sessionID

	session := &dbtype.Session{}
	if err := spxscan.Get(ctx, d.spanner.Single(), session, stmt); err != nil {
		if errors.Is(err, spxscan.ErrNotFound) {
			return nil, errors.Wrapf(dbtype.ErrNotFound, "session %q not found", sessionID)
		}

		return nil, errors.Wrapf(err, "failed to scan row for session %q", sessionID)
	}

	return session, nil
}

// InsertSession inserts Session into database
func (d *StorageDriver) InsertSession(ctx context.Context, session *dbtype.InsertSession) (ccc.UUID, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	id, err := ccc.NewUUID()
	if err != nil {
		return ccc.NilUUID, errors.Wrap(err, "failed to generate UUID for session")
	}

	row := struct {
		ID ccc.UUID `spanner:"Id"`
		dbtype.InsertSession
		TenantID string `spanner:"TenantId"`
		Expired  bool   `spanner:"Expired"`
	}{
		ID:            id,
		InsertSession: *session,
	}

	mutation, err := spanner.InsertStruct("Sessions", row)
	if err != nil {
		return ccc.NilUUID, errors.Wrap(err, "spanner.InsertStruct()")
	}

	if _, err := d.spanner.Apply(ctx, []*spanner.Mutation{mutation}); err != nil {
		return ccc.NilUUID, errors.Wrap(err, "spanner.Client.Apply()")
	}

	return id, nil
}

// RefreshSession slides the session expiration forward. The check and the
// write share one read-write transaction, so an expired session can not be
// revived by a concurrent refresh.
func (d *StorageDriver) RefreshSession(ctx context.Context, sessionID ccc.UUID, expiresAt time.Time) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	_, err := d.spanner.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, "Sessions", spanner.Key{sessionID}, []string{"ExpiresAt", "Expired"})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return errors.Wrapf(dbtype.ErrNotFound, "session %q not found", sessionID)
			}

			return errors.Wrap(err, "spanner.ReadWriteTransaction.ReadRow()")
		}

		var current struct {
			ExpiresAt time.Time `spanner:"ExpiresAt"`
			Expired   bool      `spanner:"Expired"`
		}
		if err := row.ToStruct(&current); err != nil {
			return errors.Wrap(err, "spanner.Row.ToStruct()")
		}
		if current.Expired || !current.ExpiresAt.After(time.Now()) {
			return errors.Wrapf(dbtype.ErrExpired, "session %q is expired", sessionID)
		}

		update := struct {
			ID        ccc.UUID  `spanner:"Id"`
			ExpiresAt time.Time `spanner:"ExpiresAt"`
			UpdatedAt time.Time `spanner:"UpdatedAt"`
		}{
			ID:        sessionID,
			ExpiresAt: expiresAt,
			UpdatedAt: time.Now(),
		}

		mutation, err := spanner.UpdateStruct("Sessions", update)
		if err != nil {
			return errors.Wrap(err, "spanner.UpdateStruct()")
		}

		return txn.BufferWrite([]*spanner.Mutation{mutation})
	})
	if err != nil {
		return errors.Wrap(err, "spanner.Client.ReadWriteTransaction()")
	}

	return nil
}

// UpdateSessionActivity updates the session activity column with the current time
func (d *StorageDriver) UpdateSessionActivity(ctx context.Context, sessionID ccc.UUID) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	sessionUpdate := struct {
		ID        ccc.UUID  `spanner:"Id"`
		UpdatedAt time.Time `spanner:"UpdatedAt"`
	}{
		ID:        sessionID,
		UpdatedAt: time.Now(),
	}

	mutation, err := spanner.UpdateStruct("Sessions", sessionUpdate)
	if err != nil {
		return errors.Wrap(err, "spanner.UpdateStruct()")
	}

	if _, err := d.spanner.Apply(ctx, []*spanner.Mutation{mutation}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return errors.Wrapf(dbtype.ErrNotFound, "session %q not found", sessionID)
		}

		return errors.Wrap(err, "spanner.Client.Apply()")
	}

	return nil
}

// DestroySession marks the session as expired
func (d *StorageDriver) DestroySession(ctx context.Context, sessionID ccc.UUID) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	sessionUpdate := struct {
		ID      ccc.UUID `spanner:"Id"`
		Expired bool     `spanner:"Expired"`
	}{
		ID:      sessionID,
		Expired: true,
	}

	mutation, err := spanner.UpdateStruct("Sessions", sessionUpdate)
	if err != nil {
		return errors.Wrap(err, "spanner.UpdateStruct()")
	}

	if _, err := d.spanner.Apply(ctx, []*spanner.Mutation{mutation}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			// Destroying a session that is already gone is not an error.
			return nil
		}

		return errors.Wrap(err, "spanner.Client.Apply()")
	}

	return nil
}
