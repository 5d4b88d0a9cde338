// pkg/core/entities.go
package core

// Zone is an administrator-drawn rectangular region. Operators listed in
// Havenmeesters gain edit rights over boats whose center lies inside the
// rectangle. Zones may overlap; containment of other entities is always
// computed from geometry.
type Zone struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	Color         string   `json:"color"`
	Havenmeesters []string `json:"havenmeesters"`
	Description   string   `json:"description,omitempty"`
}

func (z Zone) Bounds() Rect {
	return Rect{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height}
}

// Pier is a decorative/organizational structure with no authorization
// semantics. Type is fixed at creation from the draw aspect ratio.
type Pier struct {
	ID     uint        `json:"id"`
	Name   string      `json:"name"`
	Type   Orientation `json:"type"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	ZoneID *uint       `json:"zoneId,omitempty"`
}

func (p Pier) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Slot is a berth: a parking space for exactly one boat.
//
// Invariant: Occupied == true exactly when BoatID != nil. Both fields are
// always written together by the berth engine's drop reconciliation, which is
// the only place occupancy changes.
type Slot struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Occupied    bool        `json:"occupied"`
	BoatID      *uint       `json:"boatId"`
	Orientation Orientation `json:"orientation"`
	ZoneID      *uint       `json:"zoneId,omitempty"`
}

func (s Slot) Bounds() Rect {
	return Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Boat is the movable entity. Size (length) and WidthInMeters (beam) are
// invariant real-world dimensions; Width and Height are the visual pixel box,
// whose meaning swaps with orientation: Width/SCALE and Height/SCALE always
// equal {Size, beam} in some order.
//
// ZoneID is derived from position on every commit and omitted entirely from
// persisted records when the boat is in no zone; the store never writes an
// explicit null for it.
type Boat struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Size          float64 `json:"size"` // length in meters
	Owner         string  `json:"owner,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Email         string  `json:"email,omitempty"`
	SlotID        *uint   `json:"slotId"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Color         string  `json:"color"`
	TypeName      string  `json:"typeName"`
	ZoneID        *uint   `json:"zoneId,omitempty"`
	WidthInMeters float64 `json:"widthInMeters,omitempty"` // beam in meters
}

func (b Boat) Bounds() Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// BoatType describes a catalog entry for the add-boat action.
type BoatType struct {
	Name  string
	Color string
}

// BoatTypes is the built-in boat catalog, keyed by type tag.
var BoatTypes = map[string]BoatType{
	"sailboat":  {Name: "Zeilboot", Color: "#1E90FF"},
	"motorboat": {Name: "Motorboot", Color: "#FF6347"},
}

// ZoneColors is the fill palette cycled through as zones are drawn.
var ZoneColors = []string{
	"rgba(255, 0, 0, 0.2)",
	"rgba(0, 255, 0, 0.2)",
	"rgba(0, 0, 255, 0.2)",
	"rgba(255, 255, 0, 0.2)",
	"rgba(255, 0, 255, 0.2)",
	"rgba(0, 255, 255, 0.2)",
	"rgba(255, 165, 0, 0.2)",
	"rgba(128, 0, 128, 0.2)",
}
