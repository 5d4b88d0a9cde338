// pkg/core/types.go
package core

import "fmt"

// Canvas constants. SCALE is pixels per meter; GRID_SIZE is the snap grid in
// canvas units. Both can be overridden via config but every stored layout in
// the wild was produced with these values.
const (
	DefaultGridSize float64 = 5
	DefaultScale    float64 = 10

	// DefaultBeamMeters is assumed for boats whose real-world beam was never
	// recorded (records written by the pre-widthInMeters format).
	DefaultBeamMeters float64 = 3.5
)

// Orientation tags piers and slots as laid out horizontally or vertically.
// It is derived from the aspect ratio of the draw gesture at creation time
// and never re-derived afterwards.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// OrientationFromSize derives an orientation from drawn dimensions.
// Ties resolve to vertical.
func OrientationFromSize(width, height float64) Orientation {
	if width > height {
		return Horizontal
	}
	return Vertical
}

// Role is the closed set of user roles. Using a dedicated type (rather than
// raw strings) means a typo can never silently fall through to the wrong
// permission branch.
type Role int

const (
	// RoleViewer can look at the layout but edit nothing.
	RoleViewer Role = iota
	// RoleHavenmeester (harbor master) may edit boats inside zones they are
	// assigned to, and boats outside any zone.
	RoleHavenmeester
	// RoleAdmin may edit everything.
	RoleAdmin
)

// ParseRole converts the persisted role string into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "viewer":
		return RoleViewer, nil
	case "havenmeester":
		return RoleHavenmeester, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleViewer, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleHavenmeester:
		return "havenmeester"
	case RoleAdmin:
		return "admin"
	default:
		return "viewer"
	}
}

// Tool is the currently selected drawing-mode tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolZone
	ToolPier
	ToolSlot
)

func (t Tool) String() string {
	switch t {
	case ToolZone:
		return "zone"
	case ToolPier:
		return "pier"
	case ToolSlot:
		return "slot"
	default:
		return "select"
	}
}

// EntityKind identifies one of the four entity collections.
type EntityKind string

const (
	KindZone EntityKind = "zone"
	KindPier EntityKind = "pier"
	KindSlot EntityKind = "slot"
	KindBoat EntityKind = "boat"
)

// Rect is an axis-aligned rectangle in world (canvas) units, top-left origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Spatial is implemented by every entity that occupies a rectangle on the
// canvas. Zone membership is computed from these bounds, never stored.
type Spatial interface {
	Bounds() Rect
}

// Selection points at the single selected entity, if any. A single value
// (rather than one nullable reference per collection) makes the
// one-selection-at-a-time rule structural.
type Selection struct {
	Kind EntityKind `json:"kind"`
	ID   uint       `json:"id"`
}

// None reports whether nothing is selected.
func (s Selection) None() bool {
	return s.Kind == ""
}

// Layout bundles the four entity collections as read from or written to a
// store. A nil slice means "collection untouched" when used as a partial
// update; an empty non-nil slice is an explicit empty collection.
type Layout struct {
	Zones []Zone `json:"zones"`
	Piers []Pier `json:"piers"`
	Slots []Slot `json:"slots"`
	Boats []Boat `json:"boats"`
}
