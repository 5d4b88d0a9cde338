// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/havenplan/layout/internal/config"
	"github.com/havenplan/layout/pkg/core"
)

// Backend keeps the layout in memory and mirrors every save to a JSON
// snapshot on disk. It is the default backend: a single-user editor only
// needs a file that survives restarts.
type Backend struct {
	cfg config.MemoryConfig

	zones []core.Zone
	piers []core.Pier
	slots []core.Slot
	boats []core.Boat

	lastSnapshotPath string
	mu               sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init loads an existing snapshot if one is present. When no snapshot
// exists and demo data is enabled, the backend starts with the demo layout.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	layout, found, err := b.readSnapshot()
	if err != nil {
		return err
	}
	if !found {
		if b.cfg.DemoData {
			layout = DemoLayout()
		}
	}

	b.zones = layout.Zones
	b.piers = layout.Piers
	b.slots = layout.Slots
	b.boats = layout.Boats
	return nil
}

// Close writes a final snapshot.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeSnapshot()
}

// SaveZones replaces the zone collection.
func (b *Backend) SaveZones(zones []core.Zone) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.zones = append([]core.Zone(nil), zones...)
	return b.writeSnapshot()
}

// SavePiers replaces the pier collection.
func (b *Backend) SavePiers(piers []core.Pier) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.piers = append([]core.Pier(nil), piers...)
	return b.writeSnapshot()
}

// SaveSlots replaces the slot collection.
func (b *Backend) SaveSlots(slots []core.Slot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots = append([]core.Slot(nil), slots...)
	return b.writeSnapshot()
}

// SaveBoats replaces the boat collection.
func (b *Backend) SaveBoats(boats []core.Boat) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boats = append([]core.Boat(nil), boats...)
	return b.writeSnapshot()
}

// LoadLayout returns a copy of all collections.
func (b *Backend) LoadLayout() (core.Layout, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return core.Layout{
		Zones: append([]core.Zone{}, b.zones...),
		Piers: append([]core.Pier{}, b.piers...),
		Slots: append([]core.Slot{}, b.slots...),
		Boats: append([]core.Boat{}, b.boats...),
	}, nil
}

// SnapshotPath returns the path of the most recently written snapshot.
func (b *Backend) SnapshotPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastSnapshotPath
}
