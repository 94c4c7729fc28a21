// Package storage persists filed flight-plan batches.
//
// Only the filed plans are stored; analytical products (trajectories,
// conflicts, hotspots, proposals) are always recomputed from the plans and
// never persisted. Records are kept as raw JSON so the stored batch
// round-trips byte-for-byte through the analysis API, bad records included.
package storage

import (
	"context"
	"encoding/json"
)

// DefaultBatch is the batch name used when the caller does not name one.
const DefaultBatch = "default"

// FlightStore is the persistence interface the API server depends on.
// SaveBatch replaces the named batch's contents and returns the number of
// records written; LoadBatch returns an empty slice for an unknown batch.
type FlightStore interface {
	SaveBatch(ctx context.Context, batch string, records []json.RawMessage) (int, error)
	LoadBatch(ctx context.Context, batch string) ([]json.RawMessage, error)
	Close() error
}
