// Package authz derives zone membership from geometry and answers the single
// authorization question the canvas needs: may this user edit this boat,
// right now, where it currently sits.
//
// Membership is never cached on an entity record. A boat's effective zone
// changes the moment it is dragged across a boundary, so every caller
// re-evaluates on each drag tick and tap.
package authz

import (
	"github.com/havenplan/layout/internal/geo"
	"github.com/havenplan/layout/pkg/core"
)

// ContainingZone returns the first zone (in collection order) whose rectangle
// contains the entity's center, or nil. With overlapping zones the first
// match wins, an arbitrary but stable tie-break that depends on the order
// collections arrived from the store.
func ContainingZone(s core.Spatial, zones []core.Zone) *core.Zone {
	for i := range zones {
		if geo.RectContainsCenter(zones[i].Bounds(), s) {
			return &zones[i]
		}
	}
	return nil
}

// DeriveBoatZone returns the boat with ZoneID set to its containing zone, or
// with the field cleared entirely when no zone contains it. The field must be
// absent (not null) in persisted records, hence the nil pointer.
func DeriveBoatZone(b core.Boat, zones []core.Zone) core.Boat {
	if z := ContainingZone(b, zones); z != nil {
		id := z.ID
		b.ZoneID = &id
	} else {
		b.ZoneID = nil
	}
	return b
}

// DerivePierZone recomputes a pier's optional zone reference from geometry.
func DerivePierZone(p core.Pier, zones []core.Zone) core.Pier {
	if z := ContainingZone(p, zones); z != nil {
		id := z.ID
		p.ZoneID = &id
	} else {
		p.ZoneID = nil
	}
	return p
}

// DeriveSlotZone recomputes a slot's optional zone reference from geometry.
func DeriveSlotZone(s core.Slot, zones []core.Zone) core.Slot {
	if z := ContainingZone(s, zones); z != nil {
		id := z.ID
		s.ZoneID = &id
	} else {
		s.ZoneID = nil
	}
	return s
}

// HasZoneAccess reports whether the user is one of the zone's operators.
func HasZoneAccess(userID string, zone core.Zone) bool {
	for _, uid := range zone.Havenmeesters {
		if uid == userID {
			return true
		}
	}
	return false
}

// CanEditBoat decides edit permission for a boat at its current position.
// Admins may edit everything. Viewers (and any future role) may edit nothing.
// Operators may edit boats outside every zone, and boats inside zones they
// are assigned to.
func CanEditBoat(userID string, boat core.Boat, zones []core.Zone, role core.Role) bool {
	switch role {
	case core.RoleAdmin:
		return true
	case core.RoleHavenmeester:
		z := ContainingZone(boat, zones)
		if z == nil {
			return true
		}
		return HasZoneAccess(userID, *z)
	case core.RoleViewer:
		return false
	default:
		return false
	}
}

// EditableBoats filters boats down to those the user may edit.
func EditableBoats(userID string, boats []core.Boat, zones []core.Zone, role core.Role) []core.Boat {
	if role == core.RoleAdmin {
		return boats
	}
	if role != core.RoleHavenmeester {
		return nil
	}
	out := make([]core.Boat, 0, len(boats))
	for _, b := range boats {
		if CanEditBoat(userID, b, zones, role) {
			out = append(out, b)
		}
	}
	return out
}

// ZonesForUser returns the zones the user operates.
func ZonesForUser(userID string, zones []core.Zone) []core.Zone {
	out := make([]core.Zone, 0, len(zones))
	for _, z := range zones {
		if HasZoneAccess(userID, z) {
			out = append(out, z)
		}
	}
	return out
}
