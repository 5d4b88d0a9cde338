// internal/storage/storage.go
package storage

import "github.com/havenplan/layout/pkg/core"

// Backend is the interface all storage implementations must satisfy.
// Saves are full-collection replaces: the caller always writes the complete
// collection and the last write wins.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Collection persistence
	SaveZones(zones []core.Zone) error
	SavePiers(piers []core.Pier) error
	SaveSlots(slots []core.Slot) error
	SaveBoats(boats []core.Boat) error

	// LoadLayout returns the full persisted layout.
	LoadLayout() (core.Layout, error)
}

// Watcher is an optional interface for backends that receive layout
// updates pushed from a remote peer.
type Watcher interface {
	Watch() <-chan core.Layout
}

// Snapshotter is an optional interface for backends that write layout
// snapshot files suitable for backup or import elsewhere.
type Snapshotter interface {
	SnapshotPath() string
}
