package core

import "context"

// RemoteStore defines the contract for the remote content endpoint of one
// content type. Adhering to this interface keeps the core independent of
// the transport (HTTP, in-memory for tests, ...).
//
// Remote writes are best-effort replication, not a durability layer:
// callers are expected to swallow push failures.
type RemoteStore interface {
	// Fetch retrieves the remote snapshot.
	Fetch(ctx context.Context) (*Snapshot, error)

	// Push replaces the remote snapshot.
	Push(ctx context.Context, snap Snapshot) error

	// SyncSource sends the full reconstructed record list to the
	// companion durable-storage endpoint.
	SyncSource(ctx context.Context, records []Record) error
}

// CacheStore is the local last-known-good slot for one content type.
// Read returns (nil, nil) when the slot is absent; implementations treat
// corrupted contents the same as absent.
type CacheStore interface {
	Read() (*Snapshot, error)
	Write(snap Snapshot) error
}
