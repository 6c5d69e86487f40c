package sessionstorage

import (
	"github.com/tenantflow/coordinator/sessionstorage/internal/postgres"
)

// NewPostgres returns a Client backed by a PostgreSQL database.
func NewPostgres(queryer postgres.Queryer) *Client {
	return &Client{
		db: postgres.NewStorageDriver(queryer),
	}
}
