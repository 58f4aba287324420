// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/artpar/themekit/domain/resource"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Resource Ports
// -----------------------------------------------------------------------------

// ResourceLoader parses a resource file into a store.
// It returns the number of malformed lines that were skipped.
type ResourceLoader interface {
	Load(path string) (*resource.Store, int, error)
}

// SnapshotRecorder persists the store produced by a successful load cycle.
type SnapshotRecorder interface {
	SaveSnapshot(ctx context.Context, snap resource.Snapshot) error
}

// SnapshotStore reads back recorded snapshots.
type SnapshotStore interface {
	SnapshotRecorder

	// Latest returns the most recently loaded snapshot.
	Latest(ctx context.Context) (resource.Snapshot, error)

	// Get returns a snapshot by id.
	Get(ctx context.Context, id string) (resource.Snapshot, error)

	// List returns up to limit snapshots, newest first.
	List(ctx context.Context, limit int) ([]resource.Snapshot, error)

	// ListHeaders is List without the entries.
	ListHeaders(ctx context.Context, limit int) ([]resource.SnapshotHeader, error)

	// Prune keeps the newest keep snapshots and returns how many were deleted.
	Prune(ctx context.Context, keep int) (int64, error)
}
