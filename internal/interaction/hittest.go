package interaction

import (
	"github.com/havenplan/layout/internal/geo"
	"github.com/havenplan/layout/pkg/core"
)

// hit identifies the entity under a point.
type hit struct {
	kind core.EntityKind
	id   uint
	rect core.Rect
}

// hitTest finds the topmost entity under the world point. Boats draw above
// slots, slots above piers, piers above zones; within a collection later
// entities draw on top, so each collection is scanned back to front.
func (m *Machine) hitTest(wx, wy float64) (hit, bool) {
	boats := m.store.Boats()
	for i := len(boats) - 1; i >= 0; i-- {
		if geo.PointInRect(wx, wy, boats[i].Bounds()) {
			return hit{kind: core.KindBoat, id: boats[i].ID, rect: boats[i].Bounds()}, true
		}
	}
	slots := m.store.Slots()
	for i := len(slots) - 1; i >= 0; i-- {
		if geo.PointInRect(wx, wy, slots[i].Bounds()) {
			return hit{kind: core.KindSlot, id: slots[i].ID, rect: slots[i].Bounds()}, true
		}
	}
	piers := m.store.Piers()
	for i := len(piers) - 1; i >= 0; i-- {
		if geo.PointInRect(wx, wy, piers[i].Bounds()) {
			return hit{kind: core.KindPier, id: piers[i].ID, rect: piers[i].Bounds()}, true
		}
	}
	zones := m.store.Zones()
	for i := len(zones) - 1; i >= 0; i-- {
		if geo.PointInRect(wx, wy, zones[i].Bounds()) {
			return hit{kind: core.KindZone, id: zones[i].ID, rect: zones[i].Bounds()}, true
		}
	}
	return hit{}, false
}
