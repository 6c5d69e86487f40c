// Package postgres implements the storage driver for PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/cccteam/ccc"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/go-playground/errors/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
)

// Queryer is the subset of a pgx pool the driver needs.
type Queryer interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

// StorageDriver represents the storage implementation for PostgreSQL.
type StorageDriver struct {
	conn Queryer
}

// NewStorageDriver creates a new StorageDriver
func NewStorageDriver(conn Queryer) *StorageDriver {
	return &StorageDriver{
		conn: conn,
	}
}

// Session returns the session information from the database for given sessionID
func (d *StorageDriver) Session(ctx context.Context, sessionID ccc.UUID) (*dbtype.Session, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		SELECT
			"Id", "UserId", "Email", "TenantId", "Fingerprint", "ExpiresAt", "CreatedAt", "UpdatedAt", "Expired"
		FROM "Sessions"
		WHERE "Id" = $1
	`

	s := &dbtype.Session{}
	if err := pgxscan.Get(ctx, d.conn, s, query, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(dbtype.ErrNotFound, "session %s not found", sessionID)
		}

		return nil, errors.Wrapf(err, "failed to scan row for session %s", sessionID)
	}

	return s, nil
}

// InsertSession inserts Session into database
func (d *StorageDriver) InsertSession(ctx context.Context, session *dbtype.InsertSession) (ccc.UUID, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	id, err := ccc.NewUUID()
	if err != nil {
		return ccc.NilUUID, errors.Wrap(err, "failed to generate UUID for session")
	}

	query := `
		INSERT INTO "Sessions"
			("Id", "UserId", "Email", "TenantId", "Fingerprint", "ExpiresAt", "CreatedAt", "UpdatedAt", "Expired")
		VALUES
			($1, $2, $3, '', $4, $5, $6, $7, FALSE)
		`

	if _, err := d.conn.Exec(ctx, query, id, session.UserID, session.Email, session.Fingerprint,
		session.ExpiresAt, session.CreatedAt, session.UpdatedAt); err != nil {
		return ccc.NilUUID, errors.Wrap(err, "failed to insert into table Sessions")
	}

	return id, nil
}

// RefreshSession slides the session expiration forward. The update is
// conditional so an already-expired session can not be revived.
func (d *StorageDriver) RefreshSession(ctx context.Context, sessionID ccc.UUID, expiresAt time.Time) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		UPDATE "Sessions" SET "ExpiresAt" = $2, "UpdatedAt" = now()
		WHERE "Id" = $1 AND "Expired" = FALSE AND "ExpiresAt" > now()`

	res, err := d.conn.Exec(ctx, query, sessionID, expiresAt)
	if err != nil {
		return errors.Wrapf(err, "failed to refresh session %s", sessionID)
	}

	if res.RowsAffected() != 1 {
		return errors.Wrapf(dbtype.ErrExpired, "session %s is expired or missing", sessionID)
	}

	return nil
}

// UpdateSessionActivity updates the session activity column with the current time
func (d *StorageDriver) UpdateSessionActivity(ctx context.Context, sessionID ccc.UUID) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		UPDATE "Sessions" SET "UpdatedAt" = $1
		WHERE "Id" = $2`

	res, err := d.conn.Exec(ctx, query, time.Now(), sessionID)
	if err != nil {
		return errors.Wrapf(err, "failed to update Sessions table for ID: %s", sessionID)
	}

	if res.RowsAffected() != 1 {
		return errors.Wrapf(dbtype.ErrNotFound, "failed to find Session %s", sessionID)
	}

	return nil
}

// DestroySession marks the session as expired
func (d *StorageDriver) DestroySession(ctx context.Context, sessionID ccc.UUID) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		UPDATE "Sessions" SET "Expired" = TRUE
		WHERE "Id" = $1`

	if _, err := d.conn.Exec(ctx, query, sessionID); err != nil {
		return errors.Wrapf(err, "failed to update Sessions table for %s", sessionID)
	}

	return nil
}
