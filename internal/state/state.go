// Package state holds the authoritative in-memory application state: the
// four entity collections, the id counters, and the single selection.
// Mutations go through Commit, which normalizes boats, re-derives zone
// membership and hands the changed collections to the persistence
// dispatcher without waiting for the write to land.
package state

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/havenplan/layout/internal/authz"
	"github.com/havenplan/layout/internal/berth"
	"github.com/havenplan/layout/internal/dispatcher"
	"github.com/havenplan/layout/internal/queue"
	"github.com/havenplan/layout/internal/storage"
	"github.com/havenplan/layout/pkg/core"
)

// Persistence commands routed through the dispatcher.
const (
	CmdSaveZones = "save:zones"
	CmdSavePiers = "save:piers"
	CmdSaveSlots = "save:slots"
	CmdSaveBoats = "save:boats"
)

const saveQueueSize = 64

// PersistError records a failed background save.
type PersistError struct {
	Collection string
	Err        error
	Timestamp  time.Time
}

// Store is the authoritative application state.
type Store struct {
	mu sync.RWMutex

	zones []core.Zone
	piers []core.Pier
	slots []core.Slot
	boats []core.Boat

	nextZoneID uint
	nextPierID uint
	nextSlotID uint
	nextBoatID uint

	selection core.Selection

	berth   *berth.Engine
	backend storage.Backend
	disp    *dispatcher.Dispatcher
	errs    *queue.Queue[PersistError]
	logger  *slog.Logger
}

// New creates a Store and registers its persistence handlers on the
// dispatcher. Saves run on buffered handlers so a slow backend never
// stalls an interaction.
func New(backend storage.Backend, engine *berth.Engine, disp *dispatcher.Dispatcher, logger *slog.Logger) *Store {
	s := &Store{
		nextZoneID: 1,
		nextPierID: 1,
		nextSlotID: 1,
		nextBoatID: 1,
		berth:      engine,
		backend:    backend,
		disp:       disp,
		errs:       queue.New[PersistError](),
		logger:     logger,
	}

	disp.Register(CmdSaveZones, s.saveHandler(CmdSaveZones, func(p any) error {
		return backend.SaveZones(p.([]core.Zone))
	}), dispatcher.Buffered(saveQueueSize), dispatcher.Logged())
	disp.Register(CmdSavePiers, s.saveHandler(CmdSavePiers, func(p any) error {
		return backend.SavePiers(p.([]core.Pier))
	}), dispatcher.Buffered(saveQueueSize), dispatcher.Logged())
	disp.Register(CmdSaveSlots, s.saveHandler(CmdSaveSlots, func(p any) error {
		return backend.SaveSlots(p.([]core.Slot))
	}), dispatcher.Buffered(saveQueueSize), dispatcher.Logged())
	disp.Register(CmdSaveBoats, s.saveHandler(CmdSaveBoats, func(p any) error {
		return backend.SaveBoats(p.([]core.Boat))
	}), dispatcher.Buffered(saveQueueSize), dispatcher.Logged())

	return s
}

func (s *Store) saveHandler(collection string, save func(any) error) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		if err := save(e.Payload); err != nil {
			s.errs.Push(PersistError{Collection: collection, Err: err, Timestamp: time.Now()})
			s.logger.Error("Background save failed", "collection", collection, "error", err)
			return nil, err
		}
		return nil, nil
	}
}

// Load reads the persisted layout from the backend and ingests it.
func (s *Store) Load() error {
	layout, err := s.backend.LoadLayout()
	if err != nil {
		return fmt.Errorf("loading layout: %w", err)
	}
	s.Ingest(layout)
	return nil
}

// Ingest replaces all collections with the given layout, migrating legacy
// boat records, repairing dangling slot references, re-deriving zone
// membership and recomputing the id counters. It does not persist: the
// layout came from storage or a remote peer and is already the truth.
func (s *Store) Ingest(layout core.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := append([]core.Zone(nil), layout.Zones...)
	piers := append([]core.Pier(nil), layout.Piers...)
	slots := append([]core.Slot(nil), layout.Slots...)
	boats := make([]core.Boat, 0, len(layout.Boats))
	for _, b := range layout.Boats {
		boats = append(boats, s.berth.Migrate(b))
	}

	boats = berth.RepairDangling(boats, slots)

	for i := range boats {
		boats[i] = authz.DeriveBoatZone(boats[i], zones)
	}
	for i := range piers {
		piers[i] = authz.DerivePierZone(piers[i], zones)
	}
	for i := range slots {
		slots[i] = authz.DeriveSlotZone(slots[i], zones)
	}

	s.zones = zones
	s.piers = piers
	s.slots = slots
	s.boats = boats

	s.nextZoneID = nextID(len(zones), func(i int) uint { return zones[i].ID })
	s.nextPierID = nextID(len(piers), func(i int) uint { return piers[i].ID })
	s.nextSlotID = nextID(len(slots), func(i int) uint { return slots[i].ID })
	s.nextBoatID = nextID(len(boats), func(i int) uint { return boats[i].ID })

	// Drop the selection if its entity no longer exists.
	if !s.selection.None() && !s.selectionExistsLocked() {
		s.selection = core.Selection{}
	}
}

func nextID(n int, id func(int) uint) uint {
	var max uint
	for i := 0; i < n; i++ {
		if id(i) > max {
			max = id(i)
		}
	}
	return max + 1
}

// Commit merges a partial layout update into the store. Nil slices leave
// their collection untouched; non-nil slices replace it. Boats are
// normalized and every replaced collection gets its zone membership
// re-derived before the background save is queued.
func (s *Store) Commit(update core.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(update)
}

func (s *Store) commitLocked(update core.Layout) {
	zones := s.zones
	if update.Zones != nil {
		zones = append([]core.Zone(nil), update.Zones...)
	}

	if update.Zones != nil {
		s.zones = zones
		// Zone geometry changed: all membership is stale.
		piers := append([]core.Pier(nil), s.piers...)
		for i := range piers {
			piers[i] = authz.DerivePierZone(piers[i], zones)
		}
		s.piers = piers

		slots := append([]core.Slot(nil), s.slots...)
		for i := range slots {
			slots[i] = authz.DeriveSlotZone(slots[i], zones)
		}
		s.slots = slots

		boats := append([]core.Boat(nil), s.boats...)
		for i := range boats {
			boats[i] = authz.DeriveBoatZone(boats[i], zones)
		}
		s.boats = boats

		s.persist(CmdSaveZones, append([]core.Zone(nil), s.zones...))
		if update.Piers == nil {
			s.persist(CmdSavePiers, append([]core.Pier(nil), s.piers...))
		}
		if update.Slots == nil {
			s.persist(CmdSaveSlots, append([]core.Slot(nil), s.slots...))
		}
		if update.Boats == nil {
			s.persist(CmdSaveBoats, append([]core.Boat(nil), s.boats...))
		}
	}

	if update.Piers != nil {
		piers := append([]core.Pier(nil), update.Piers...)
		for i := range piers {
			piers[i] = authz.DerivePierZone(piers[i], zones)
		}
		s.piers = piers
		s.persist(CmdSavePiers, append([]core.Pier(nil), piers...))
	}

	if update.Slots != nil {
		slots := append([]core.Slot(nil), update.Slots...)
		for i := range slots {
			slots[i] = authz.DeriveSlotZone(slots[i], zones)
		}
		s.slots = slots
		s.persist(CmdSaveSlots, append([]core.Slot(nil), slots...))
	}

	if update.Boats != nil {
		boats := make([]core.Boat, 0, len(update.Boats))
		for _, b := range update.Boats {
			b = s.berth.Normalize(b)
			b = authz.DeriveBoatZone(b, zones)
			boats = append(boats, b)
		}
		s.boats = boats
		s.persist(CmdSaveBoats, append([]core.Boat(nil), boats...))
	}
}

// persist queues a background save. Failures surface via Errors, never
// block the caller.
func (s *Store) persist(command string, payload any) {
	_, err := s.disp.Dispatch(dispatcher.Event{
		Command:   command,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.errs.Push(PersistError{Collection: command, Err: err, Timestamp: time.Now()})
		s.logger.Error("Failed to queue save", "command", command, "error", err)
	}
}

// Errors drains and returns all background persistence failures recorded
// since the previous call.
func (s *Store) Errors() []PersistError {
	return s.errs.Drain()
}

// Zones returns a copy of the zone collection.
func (s *Store) Zones() []core.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Zone{}, s.zones...)
}

// Piers returns a copy of the pier collection.
func (s *Store) Piers() []core.Pier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Pier{}, s.piers...)
}

// Slots returns a copy of the slot collection.
func (s *Store) Slots() []core.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Slot{}, s.slots...)
}

// Boats returns a copy of the boat collection.
func (s *Store) Boats() []core.Boat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Boat{}, s.boats...)
}

// Layout returns a copy of all four collections.
func (s *Store) Layout() core.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Layout{
		Zones: append([]core.Zone{}, s.zones...),
		Piers: append([]core.Pier{}, s.piers...),
		Slots: append([]core.Slot{}, s.slots...),
		Boats: append([]core.Boat{}, s.boats...),
	}
}

// AllocZoneID hands out the next zone id.
func (s *Store) AllocZoneID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextZoneID
	s.nextZoneID++
	return id
}

// AllocPierID hands out the next pier id.
func (s *Store) AllocPierID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextPierID
	s.nextPierID++
	return id
}

// AllocSlotID hands out the next slot id.
func (s *Store) AllocSlotID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSlotID
	s.nextSlotID++
	return id
}

// AllocBoatID hands out the next boat id.
func (s *Store) AllocBoatID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextBoatID
	s.nextBoatID++
	return id
}

// Select replaces the current selection.
func (s *Store) Select(sel core.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = core.Selection{}
}

// Selection returns the current selection.
func (s *Store) Selection() core.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

func (s *Store) selectionExistsLocked() bool {
	switch s.selection.Kind {
	case core.KindZone:
		for _, z := range s.zones {
			if z.ID == s.selection.ID {
				return true
			}
		}
	case core.KindPier:
		for _, p := range s.piers {
			if p.ID == s.selection.ID {
				return true
			}
		}
	case core.KindSlot:
		for _, sl := range s.slots {
			if sl.ID == s.selection.ID {
				return true
			}
		}
	case core.KindBoat:
		for _, b := range s.boats {
			if b.ID == s.selection.ID {
				return true
			}
		}
	}
	return false
}
