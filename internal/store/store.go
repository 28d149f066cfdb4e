// Package store provides key-value persistence adapters for widget state.
//
// Every widget persists its whole aggregate as a single blob under a fixed
// key. Adapters only need get/set semantics; there is no incremental or
// delta persistence.
package store

import (
	"context"
	"fmt"
	"strings"
)

// Well-known aggregate keys.
const (
	KeyFlightData = "flights:data"
	KeyAlerts     = "flights:alerts"
	KeyProjects   = "mission-control:projects"
	KeyCaptures   = "mission-control:captures"
)

// Adapter is the persistence contract shared by all widgets.
// Get returns errors.ErrDataNotFound for keys that were never written.
// Set is a whole-value overwrite.
type Adapter interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Open creates the adapter selected by driver. Path is the database file
// for sqlite or the data directory for file.
func Open(driver, path string) (Adapter, error) {
	switch strings.ToLower(driver) {
	case "sqlite":
		return NewSQLiteAdapter(path)
	case "file":
		return NewFileAdapter(path)
	case "memory":
		return NewMemoryAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
