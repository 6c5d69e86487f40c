// Package mock is used to generate mock files for testing.
package mock

//go:generate mockgen -source ../iface.go -destination mock_coordinator/mock_iface.go
//go:generate mockgen -source ../oidc/oidc_iface.go -destination mock_oidc/mock_oidc_iface.go
//go:generate mockgen -package sessionstorage -source ../sessionstorage/sessionstorage_iface.go -destination ../sessionstorage/mock_db_test.go
