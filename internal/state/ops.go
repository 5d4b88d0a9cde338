package state

import (
	"fmt"

	"github.com/havenplan/layout/pkg/core"
)

// AddZone inserts a new zone, assigning its id and the next palette color
// when none is set, and returns the stored zone.
func (s *Store) AddZone(z core.Zone) core.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()

	if z.ID == 0 {
		z.ID = s.nextZoneID
		s.nextZoneID++
	} else if z.ID >= s.nextZoneID {
		s.nextZoneID = z.ID + 1
	}
	if z.Color == "" {
		z.Color = core.ZoneColors[len(s.zones)%len(core.ZoneColors)]
	}
	if z.Havenmeesters == nil {
		z.Havenmeesters = []string{}
	}

	s.commitLocked(core.Layout{Zones: append(append([]core.Zone(nil), s.zones...), z)})
	return z
}

// AddPier inserts a new pier, assigning its id when unset.
func (s *Store) AddPier(p core.Pier) core.Pier {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.nextPierID
		s.nextPierID++
	} else if p.ID >= s.nextPierID {
		s.nextPierID = p.ID + 1
	}
	if p.Type == "" {
		p.Type = core.OrientationFromSize(p.Width, p.Height)
	}

	s.commitLocked(core.Layout{Piers: append(append([]core.Pier(nil), s.piers...), p)})
	return p
}

// AddSlot inserts a new slot, assigning its id when unset. New slots start
// free regardless of what the caller set.
func (s *Store) AddSlot(sl core.Slot) core.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sl.ID == 0 {
		sl.ID = s.nextSlotID
		s.nextSlotID++
	} else if sl.ID >= s.nextSlotID {
		s.nextSlotID = sl.ID + 1
	}
	if sl.Orientation == "" {
		sl.Orientation = core.OrientationFromSize(sl.Width, sl.Height)
	}
	sl.Occupied = false
	sl.BoatID = nil

	s.commitLocked(core.Layout{Slots: append(append([]core.Slot(nil), s.slots...), sl)})
	return sl
}

// AddBoat inserts a new boat from the catalog. Name and color fall back to
// the catalog entry for the type; the visual box is computed from the meter
// dimensions during commit.
func (s *Store) AddBoat(b core.Boat) core.Boat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == 0 {
		b.ID = s.nextBoatID
		s.nextBoatID++
	} else if b.ID >= s.nextBoatID {
		s.nextBoatID = b.ID + 1
	}
	if bt, ok := core.BoatTypes[b.Type]; ok {
		if b.TypeName == "" {
			b.TypeName = bt.Name
		}
		if b.Color == "" {
			b.Color = bt.Color
		}
	}
	b.SlotID = nil

	s.commitLocked(core.Layout{Boats: append(append([]core.Boat(nil), s.boats...), b)})
	return b
}

// UpdateZone replaces the zone with the same id.
func (s *Store) UpdateZone(z core.Zone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := append([]core.Zone(nil), s.zones...)
	for i := range zones {
		if zones[i].ID == z.ID {
			zones[i] = z
			s.commitLocked(core.Layout{Zones: zones})
			return nil
		}
	}
	return fmt.Errorf("zone %d not found", z.ID)
}

// UpdatePier replaces the pier with the same id.
func (s *Store) UpdatePier(p core.Pier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	piers := append([]core.Pier(nil), s.piers...)
	for i := range piers {
		if piers[i].ID == p.ID {
			piers[i] = p
			s.commitLocked(core.Layout{Piers: piers})
			return nil
		}
	}
	return fmt.Errorf("pier %d not found", p.ID)
}

// UpdateSlot replaces the slot with the same id, preserving its occupancy
// pairing. Occupancy only changes through drop reconciliation or deletion.
func (s *Store) UpdateSlot(sl core.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := append([]core.Slot(nil), s.slots...)
	for i := range slots {
		if slots[i].ID == sl.ID {
			sl.Occupied = slots[i].Occupied
			sl.BoatID = slots[i].BoatID
			slots[i] = sl
			s.commitLocked(core.Layout{Slots: slots})
			return nil
		}
	}
	return fmt.Errorf("slot %d not found", sl.ID)
}

// UpdateBoat replaces the boat with the same id.
func (s *Store) UpdateBoat(b core.Boat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	boats := append([]core.Boat(nil), s.boats...)
	for i := range boats {
		if boats[i].ID == b.ID {
			boats[i] = b
			s.commitLocked(core.Layout{Boats: boats})
			return nil
		}
	}
	return fmt.Errorf("boat %d not found", b.ID)
}

// DeleteZone removes a zone. Membership of every other entity is re-derived
// against the remaining zones during commit, so entities inside the deleted
// zone either fall to an overlapping zone or to none.
func (s *Store) DeleteZone(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := make([]core.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		if z.ID != id {
			zones = append(zones, z)
		}
	}
	s.dropSelectionLocked(core.KindZone, id)
	s.commitLocked(core.Layout{Zones: zones})
}

// DeletePier removes a pier.
func (s *Store) DeletePier(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	piers := make([]core.Pier, 0, len(s.piers))
	for _, p := range s.piers {
		if p.ID != id {
			piers = append(piers, p)
		}
	}
	s.dropSelectionLocked(core.KindPier, id)
	s.commitLocked(core.Layout{Piers: piers})
}

// DeleteSlot removes a slot and clears the slot reference of any boat
// berthed in it. The boat stays where it is, just no longer berthed.
func (s *Store) DeleteSlot(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]core.Slot, 0, len(s.slots))
	for _, sl := range s.slots {
		if sl.ID != id {
			slots = append(slots, sl)
		}
	}

	boats := append([]core.Boat(nil), s.boats...)
	boatsChanged := false
	for i := range boats {
		if boats[i].SlotID != nil && *boats[i].SlotID == id {
			boats[i].SlotID = nil
			boatsChanged = true
		}
	}

	update := core.Layout{Slots: slots}
	if boatsChanged {
		update.Boats = boats
	}
	s.dropSelectionLocked(core.KindSlot, id)
	s.commitLocked(update)
}

// DeleteBoat removes a boat and frees the slot it occupied.
func (s *Store) DeleteBoat(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boats := make([]core.Boat, 0, len(s.boats))
	for _, b := range s.boats {
		if b.ID != id {
			boats = append(boats, b)
		}
	}

	slots := append([]core.Slot(nil), s.slots...)
	slotsChanged := false
	for i := range slots {
		if slots[i].BoatID != nil && *slots[i].BoatID == id {
			slots[i].Occupied = false
			slots[i].BoatID = nil
			slotsChanged = true
		}
	}

	update := core.Layout{Boats: boats}
	if slotsChanged {
		update.Slots = slots
	}
	s.dropSelectionLocked(core.KindBoat, id)
	s.commitLocked(update)
}

// MoveBoat sets the boat's position and settles slot occupancy at the new
// location. Returns the slot id the boat landed in, or ok=false for open
// water.
func (s *Store) MoveBoat(id uint, x, y float64) (slotID uint, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boats := append([]core.Boat(nil), s.boats...)
	found := false
	for i := range boats {
		if boats[i].ID == id {
			boats[i].X = x
			boats[i].Y = y
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}

	boats, slots, slotID, ok := s.berth.Reconcile(id, boats, s.slots)
	s.commitLocked(core.Layout{Boats: boats, Slots: slots})
	return slotID, ok
}

// ResolveDrop settles slot occupancy for the boat at its current position.
// Used when the position was already written by an in-progress drag.
func (s *Store) ResolveDrop(id uint) (slotID uint, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boats, slots, slotID, ok := s.berth.Reconcile(id, s.boats, s.slots)
	s.commitLocked(core.Layout{Boats: boats, Slots: slots})
	return slotID, ok
}

// AddOperator grants a user operator rights on a zone. Adding a user twice
// is a no-op.
func (s *Store) AddOperator(zoneID uint, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := append([]core.Zone(nil), s.zones...)
	for i := range zones {
		if zones[i].ID != zoneID {
			continue
		}
		for _, uid := range zones[i].Havenmeesters {
			if uid == userID {
				return nil
			}
		}
		zones[i].Havenmeesters = append(append([]string(nil), zones[i].Havenmeesters...), userID)
		s.commitLocked(core.Layout{Zones: zones})
		return nil
	}
	return fmt.Errorf("zone %d not found", zoneID)
}

// RemoveOperator revokes a user's operator rights on a zone.
func (s *Store) RemoveOperator(zoneID uint, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := append([]core.Zone(nil), s.zones...)
	for i := range zones {
		if zones[i].ID != zoneID {
			continue
		}
		kept := make([]string, 0, len(zones[i].Havenmeesters))
		for _, uid := range zones[i].Havenmeesters {
			if uid != userID {
				kept = append(kept, uid)
			}
		}
		zones[i].Havenmeesters = kept
		s.commitLocked(core.Layout{Zones: zones})
		return nil
	}
	return fmt.Errorf("zone %d not found", zoneID)
}

func (s *Store) dropSelectionLocked(kind core.EntityKind, id uint) {
	if s.selection.Kind == kind && s.selection.ID == id {
		s.selection = core.Selection{}
	}
}
