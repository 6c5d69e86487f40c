package sessionstorage

import (
	cloudspanner "cloud.google.com/go/spanner"
	"github.com/tenantflow/coordinator/sessionstorage/internal/spanner"
)

// NewSpanner returns a Client backed by a Cloud Spanner database.
func NewSpanner(client *cloudspanner.Client) *Client {
	return &Client{
		db: spanner.NewStorageDriver(client),
	}
}
