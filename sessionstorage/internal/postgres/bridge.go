package postgres

import (
	"context"

	"github.com/cccteam/ccc"
	"github.com/go-playground/errors/v5"
	"github.com/jackc/pgx/v5"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
)

// InsertBridgeToken stores a single-use handoff token.
func (d *StorageDriver) InsertBridgeToken(ctx context.Context, token *dbtype.InsertBridgeToken) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		INSERT INTO "BridgeTokens"
			("Token", "SessionId", "ExpiresAt", "CreatedAt", "Used")
		VALUES
			($1, $2, $3, $4, FALSE)
		`

	if _, err := d.conn.Exec(ctx, query, token.Token, token.SessionID, token.ExpiresAt, token.CreatedAt); err != nil {
		return errors.Wrap(err, "failed to insert into table BridgeTokens")
	}

	return nil
}

// ConsumeBridgeToken marks the token used and returns the session it is
// bound to. The update is a single conditional statement so a token can be
// consumed at most once; a second exchange finds no unconsumed row.
func (d *StorageDriver) ConsumeBridgeToken(ctx context.Context, token string) (ccc.UUID, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	query := `
		UPDATE "BridgeTokens" SET "Used" = TRUE
		WHERE "Token" = $1 AND "Used" = FALSE AND "ExpiresAt" > now()
		RETURNING "SessionId"`

	var sessionID ccc.UUID
	if err := d.conn.QueryRow(ctx, query, token).Scan(&sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ccc.NilUUID, errors.Wrap(dbtype.ErrNotFound, "bridge token missing, expired, or already used")
		}

		return ccc.NilUUID, errors.Wrap(err, "failed to consume bridge token")
	}

	return sessionID, nil
}
