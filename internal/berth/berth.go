// Package berth decides whether boats fit slots, computes the oriented visual
// box of a berthed boat, and reconciles slot occupancy when a drag ends. It is
// the single authority for the occupied/boatId pairing on slots.
package berth

import (
	"github.com/havenplan/layout/internal/geo"
	"github.com/havenplan/layout/pkg/core"
)

// Engine holds the canvas scale (pixels per meter) all conversions use.
type Engine struct {
	Scale float64
}

// NewEngine returns an engine for the given scale, falling back to the
// default when scale is unset.
func NewEngine(scale float64) *Engine {
	if scale <= 0 {
		scale = core.DefaultScale
	}
	return &Engine{Scale: scale}
}

// Beam returns the boat's real-world beam in meters, inferring it from the
// current visual box for records written before the beam was stored.
func (e *Engine) Beam(b core.Boat) float64 {
	if b.WidthInMeters > 0 {
		return b.WidthInMeters
	}
	return b.Width / e.Scale
}

// beamOrDefault is used by placement and normalization, which repair records
// rather than describe them: an unknown beam becomes the default 3.5 m.
func (e *Engine) beamOrDefault(b core.Boat) float64 {
	if b.WidthInMeters > 0 {
		return b.WidthInMeters
	}
	return core.DefaultBeamMeters
}

// Fits reports whether the boat's real-world dimensions fit the slot's pixel
// rectangle in either rotation. Both rotations are tried: the slot's declared
// orientation is advisory for fit-checking. Placement (Assign) honors the
// declared orientation regardless of which rotation fit.
func (e *Engine) Fits(b core.Boat, s core.Slot) bool {
	lengthPx := b.Size * e.Scale
	beamPx := e.Beam(b) * e.Scale

	fitsVertical := beamPx <= s.Width && lengthPx <= s.Height
	fitsHorizontal := lengthPx <= s.Width && beamPx <= s.Height
	return fitsVertical || fitsHorizontal
}

// Assign orients the boat per the slot's declared orientation, centers it in
// the slot rectangle and records the slot reference. Vertical slot: visual
// width is the beam and visual height the length; horizontal slot is the
// transpose.
func (e *Engine) Assign(b core.Boat, s core.Slot) core.Boat {
	length := b.Size
	beam := e.beamOrDefault(b)

	if s.Orientation == core.Vertical {
		b.Width = beam * e.Scale
		b.Height = length * e.Scale
	} else {
		b.Width = length * e.Scale
		b.Height = beam * e.Scale
	}

	b.X = s.X + (s.Width-b.Width)/2
	b.Y = s.Y + (s.Height-b.Height)/2
	id := s.ID
	b.SlotID = &id
	b.WidthInMeters = beam
	return b
}

// Release clears the boat's slot reference. Visual dimensions are left
// untouched until the next explicit orientation reset or normalization.
func (e *Engine) Release(b core.Boat) core.Boat {
	b.SlotID = nil
	return b
}

// VisualOrientation derives the boat's current orientation from its visual
// box: taller than wide means vertical.
func VisualOrientation(b core.Boat) core.Orientation {
	if b.Height > b.Width {
		return core.Vertical
	}
	return core.Horizontal
}

// Normalize recomputes the visual box from the invariant meter dimensions,
// keeping the current orientation. Repeated resizes and externally written
// records can drift; normalization is applied whenever a boat collection is
// bulk-replaced so the store never holds an inconsistent box.
func (e *Engine) Normalize(b core.Boat) core.Boat {
	beam := e.beamOrDefault(b)

	if VisualOrientation(b) == core.Vertical {
		b.Width = beam * e.Scale
		b.Height = b.Size * e.Scale
	} else {
		b.Width = b.Size * e.Scale
		b.Height = beam * e.Scale
	}
	b.WidthInMeters = beam
	return b
}

// ResetDefaultOrientation lays the boat flat (horizontal) with dimensions
// recomputed from meters.
func (e *Engine) ResetDefaultOrientation(b core.Boat) core.Boat {
	beam := e.beamOrDefault(b)
	b.Width = b.Size * e.Scale
	b.Height = beam * e.Scale
	b.WidthInMeters = beam
	return b
}

// Migrate backfills the stored beam on records written by the old format
// (no widthInMeters) and normalizes the visual box. Applied to every boat
// arriving from the store.
func (e *Engine) Migrate(b core.Boat) core.Boat {
	if b.WidthInMeters <= 0 {
		b.WidthInMeters = b.Width / e.Scale
	}
	return e.Normalize(b)
}

// Reconcile settles slot occupancy after a boat drag ends. It finds the slot
// whose rectangle contains the boat's current center and that is not held by
// another boat; if found the boat is assigned and centered there, the slot is
// marked occupied, and any other slot still pointing at this boat is freed.
// With no such slot, a previously held slot is freed and the boat's reference
// cleared. This is the only place occupancy state changes, which keeps the
// occupied/boatId invariant bidirectional.
//
// The returned slices are updated copies; the matched slot id is returned
// with ok=true when the boat landed in a slot.
func (e *Engine) Reconcile(boatID uint, boats []core.Boat, slots []core.Slot) (outBoats []core.Boat, outSlots []core.Slot, slotID uint, ok bool) {
	outBoats = append([]core.Boat(nil), boats...)
	outSlots = append([]core.Slot(nil), slots...)

	var boat *core.Boat
	for i := range outBoats {
		if outBoats[i].ID == boatID {
			boat = &outBoats[i]
			break
		}
	}
	if boat == nil {
		return outBoats, outSlots, 0, false
	}

	var target *core.Slot
	for i := range outSlots {
		s := &outSlots[i]
		if s.Occupied && (s.BoatID == nil || *s.BoatID != boatID) {
			continue // held by another boat
		}
		if geo.RectContainsCenter(s.Bounds(), *boat) {
			target = s
			break
		}
	}

	if target == nil {
		// Dropped outside every (free) slot: release whatever it held.
		if boat.SlotID != nil {
			*boat = e.Release(*boat)
		}
		for i := range outSlots {
			if outSlots[i].BoatID != nil && *outSlots[i].BoatID == boatID {
				outSlots[i].Occupied = false
				outSlots[i].BoatID = nil
			}
		}
		return outBoats, outSlots, 0, false
	}

	*boat = e.Assign(*boat, *target)

	bid := boatID
	target.Occupied = true
	target.BoatID = &bid

	// Free any other slot still pointing at this boat, and detach other
	// boats that claim the target slot.
	for i := range outSlots {
		s := &outSlots[i]
		if s.ID != target.ID && s.BoatID != nil && *s.BoatID == boatID {
			s.Occupied = false
			s.BoatID = nil
		}
	}
	for i := range outBoats {
		b := &outBoats[i]
		if b.ID != boatID && b.SlotID != nil && *b.SlotID == target.ID {
			b.SlotID = nil
		}
	}

	return outBoats, outSlots, target.ID, true
}

// RepairDangling clears boat slot references that point at slots which no
// longer exist. A dangling reference behaves identically to no slot at all.
func RepairDangling(boats []core.Boat, slots []core.Slot) []core.Boat {
	known := make(map[uint]bool, len(slots))
	for _, s := range slots {
		known[s.ID] = true
	}
	out := append([]core.Boat(nil), boats...)
	for i := range out {
		if out[i].SlotID != nil && !known[*out[i].SlotID] {
			out[i].SlotID = nil
		}
	}
	return out
}
