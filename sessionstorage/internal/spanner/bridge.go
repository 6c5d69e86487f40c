package spanner

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/cccteam/ccc"
	"github.com/go-playground/errors/v5"
	"github.com/tenantflow/coordinator/sessionstorage/internal/dbtype"
	"google.golang.org/grpc/codes"
)

// InsertBridgeToken stores a single-use handoff token.
func (d *StorageDriver) InsertBridgeToken(ctx context.Context, token *dbtype.InsertBridgeToken) error {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	row := struct {
		dbtype.InsertBridgeToken
		Used bool `spanner:"Used"`
	}{
		InsertBridgeToken: *token,
	}

	mutation, err := spanner.InsertStruct("BridgeTokens", row)
	if err != nil {
		return errors.Wrap(err, "spanner.InsertStruct()")
	}

	if _, err := d.spanner.Apply(ctx, []*spanner.Mutation{mutation}); err != nil {
		return errors.Wrap(err, "spanner.Client.Apply()")
	}

	return nil
}

// ConsumeBridgeToken marks the token used and returns the session it is
// bound to. The check and the write share one read-write transaction so a
// token can be consumed at most once.
func (d *StorageDriver) ConsumeBridgeToken(ctx context.Context, token string) (ccc.UUID, error) {
	ctx, span := ccc.StartTrace(ctx)
	defer span.End()

	var sessionID ccc.UUID
	_, err := d.spanner.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, "BridgeTokens", spanner.Key{token}, []string{"SessionId", "ExpiresAt", "Used"})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return errors.Wrap(dbtype.ErrNotFound, "bridge token not found")
			}

			return errors.Wrap(err, "spanner.ReadWriteTransaction.ReadRow()")
		}

		var current struct {
			SessionID ccc.UUID  `spanner:"SessionId"`
			ExpiresAt time.Time `spanner:"ExpiresAt"`
			Used      bool      `spanner:"Used"`
		}
		if err := row.ToStruct(&current); err != nil {
			return errors.Wrap(err, "spanner.Row.ToStruct()")
		}
		if current.Used || !current.ExpiresAt.After(time.Now()) {
			return errors.Wrap(dbtype.ErrNotFound, "bridge token expired or already used")
		}

		update := struct {
			Token string `spanner:"Token"`
			Used  bool   `spanner:"Used"`
		}{
			Token: token,
			Used:  true,
		}

		mutation, err := spanner.UpdateStruct("BridgeTokens", update)
		if err != nil {
			return errors.Wrap(err, "spanner.UpdateStruct()")
		}
		sessionID = current.SessionID

		return txn.BufferWrite([]*spanner.Mutation{mutation})
	})
	if err != nil {
		return ccc.NilUUID, errors.Wrap(err, "spanner.Client.ReadWriteTransaction()")
	}

	return sessionID, nil
}
