// Package interaction turns pointer, touch and wheel input into edits on the
// layout. One gesture is active at a time, held as a sum type rather than a
// cluster of flags, so a drag can never be half-armed. Authorization is
// checked against the boat's current position on every move tick, never
// cached: dragging a boat into a zone the user does not control freezes it
// at the last authorized position.
package interaction

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/havenplan/layout/internal/authz"
	"github.com/havenplan/layout/internal/geo"
	"github.com/havenplan/layout/internal/viewport"
	"github.com/havenplan/layout/pkg/core"
)

// Tap thresholds: a press shorter than tapMaxDuration that moved less than
// tapMaxDistance screen pixels counts as a select, not a drag.
const (
	tapMaxDuration = 300 * time.Millisecond
	tapMaxDistance = 10.0
)

// ErrToolRequiresAdmin is returned when a non-admin selects a drawing tool.
var ErrToolRequiresAdmin = errors.New("drawing tools require the admin role")

// Button identifies the pointer button that started a gesture.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Touch is one active touch point in screen coordinates.
type Touch struct {
	X float64
	Y float64
}

// Store is the slice of the application state the machine reads and edits.
type Store interface {
	Zones() []core.Zone
	Piers() []core.Pier
	Slots() []core.Slot
	Boats() []core.Boat

	AddZone(core.Zone) core.Zone
	AddPier(core.Pier) core.Pier
	AddSlot(core.Slot) core.Slot

	UpdateZone(core.Zone) error
	UpdatePier(core.Pier) error
	UpdateSlot(core.Slot) error
	UpdateBoat(core.Boat) error

	ResolveDrop(boatID uint) (slotID uint, ok bool)

	Select(core.Selection)
	ClearSelection()
	Selection() core.Selection
}

// Namer prompts for the name of a newly drawn zone or berth. Returning
// ok=false cancels the creation.
type Namer interface {
	Name(kind core.EntityKind) (name string, ok bool)
}

// Notifier surfaces authorization rejections to the user.
type Notifier interface {
	EditDenied(boat core.Boat)
}

// Gesture states.
type gesture interface{ gestureState() string }

type idle struct{}

// panning moves the viewport. The last sampled screen position is updated on
// every move so no delta is lost when a gesture is interrupted.
type panning struct {
	lastX, lastY float64
}

// drawing is an in-progress draw of a new zone, pier or berth. Anchor and
// cursor are snapped world coordinates; the pending rectangle is their span.
type drawing struct {
	kind    core.EntityKind
	anchorX float64
	anchorY float64
	curX    float64
	curY    float64
}

type dragMode int

const (
	dragMove dragMode = iota
	dragResize
)

// dragging moves or resizes one entity. movable is false when the press
// selected an entity the role may not move; the press can still end in a
// tap-select.
type dragging struct {
	kind    core.EntityKind
	id      uint
	mode    dragMode
	handle  Handle
	orig    core.Rect
	offsetX float64
	offsetY float64
	startX  float64
	startY  float64
	started time.Time
	movable bool
	moved   bool
}

// pinching is a two-finger zoom. baseScale and baseDist are recorded at
// gesture start; each move applies the distance ratio to the base scale.
type pinching struct {
	baseScale float64
	baseDist  float64
}

func (idle) gestureState() string     { return "idle" }
func (panning) gestureState() string  { return "panning" }
func (drawing) gestureState() string  { return "drawing" }
func (dragging) gestureState() string { return "dragging" }
func (pinching) gestureState() string { return "pinching" }

// Machine is the interaction state machine. All event methods are called
// from a single goroutine; the machine holds no lock.
type Machine struct {
	store    Store
	view     *viewport.Transform
	namer    Namer
	notifier Notifier

	gridSize float64
	userID   string
	role     core.Role
	tool     core.Tool

	gesture gesture

	lastX, lastY float64

	now func() time.Time
}

// New creates a machine in the idle state with the select tool active.
func New(store Store, view *viewport.Transform, namer Namer, notifier Notifier, gridSize float64) *Machine {
	if gridSize <= 0 {
		gridSize = core.DefaultGridSize
	}
	return &Machine{
		store:    store,
		view:     view,
		namer:    namer,
		notifier: notifier,
		gridSize: gridSize,
		gesture:  idle{},
		now:      time.Now,
	}
}

// SetUser sets the acting user for authorization checks.
func (m *Machine) SetUser(userID string, role core.Role) {
	m.userID = userID
	m.role = role
}

// SetTool switches the active tool. Drawing tools are admin-only.
func (m *Machine) SetTool(tool core.Tool) error {
	if tool != core.ToolSelect && m.role != core.RoleAdmin {
		return ErrToolRequiresAdmin
	}
	m.tool = tool
	return nil
}

// Tool returns the active tool.
func (m *Machine) Tool() core.Tool { return m.tool }

// State names the current gesture, for observation.
func (m *Machine) State() string { return m.gesture.gestureState() }

// PointerDown starts a gesture at a screen position.
func (m *Machine) PointerDown(sx, sy float64, button Button) {
	if _, ok := m.gesture.(idle); !ok {
		return
	}
	m.lastX, m.lastY = sx, sy

	if button == ButtonSecondary {
		m.gesture = panning{lastX: sx, lastY: sy}
		return
	}

	if kind, ok := drawKind(m.tool); ok && m.role == core.RoleAdmin {
		wx, wy := m.view.ToWorld(sx, sy)
		ax := geo.Snap(wx, m.gridSize)
		ay := geo.Snap(wy, m.gridSize)
		m.gesture = drawing{kind: kind, anchorX: ax, anchorY: ay, curX: ax, curY: ay}
		return
	}

	wx, wy := m.view.ToWorld(sx, sy)
	target, ok := m.hitTest(wx, wy)
	if !ok {
		m.store.ClearSelection()
		m.gesture = panning{lastX: sx, lastY: sy}
		return
	}

	if target.kind == core.KindBoat {
		m.pressBoat(target, wx, wy, sx, sy)
		return
	}

	// Resize grips only appear on the already selected entity, and boats are
	// never resized by dragging.
	if m.role == core.RoleAdmin && m.store.Selection() == (core.Selection{Kind: target.kind, ID: target.id}) {
		if h, ok := handleAt(target.rect, wx, wy, m.view.Scale); ok {
			m.gesture = dragging{
				kind: target.kind, id: target.id,
				mode: dragResize, handle: h, orig: target.rect,
				startX: sx, startY: sy, started: m.now(), movable: true,
			}
			return
		}
	}

	m.store.Select(core.Selection{Kind: target.kind, ID: target.id})
	m.gesture = dragging{
		kind: target.kind, id: target.id,
		mode:    dragMove,
		offsetX: wx - target.rect.X, offsetY: wy - target.rect.Y,
		startX: sx, startY: sy, started: m.now(),
		movable: m.role == core.RoleAdmin,
	}
}

func (m *Machine) pressBoat(target hit, wx, wy, sx, sy float64) {
	var boat core.Boat
	for _, b := range m.store.Boats() {
		if b.ID == target.id {
			boat = b
			break
		}
	}
	if !authz.CanEditBoat(m.userID, boat, m.store.Zones(), m.role) {
		m.notifier.EditDenied(boat)
		return
	}

	m.store.Select(core.Selection{Kind: core.KindBoat, ID: boat.ID})
	m.gesture = dragging{
		kind: core.KindBoat, id: boat.ID,
		mode:    dragMove,
		offsetX: wx - boat.X, offsetY: wy - boat.Y,
		startX: sx, startY: sy, started: m.now(),
		movable: true,
	}
}

// PointerMove advances the active gesture.
func (m *Machine) PointerMove(sx, sy float64) {
	switch g := m.gesture.(type) {
	case panning:
		m.view.Pan(sx-g.lastX, sy-g.lastY)
		g.lastX, g.lastY = sx, sy
		m.gesture = g
	case drawing:
		wx, wy := m.view.ToWorld(sx, sy)
		g.curX = geo.Snap(wx, m.gridSize)
		g.curY = geo.Snap(wy, m.gridSize)
		m.gesture = g
	case dragging:
		switch g.mode {
		case dragMove:
			m.dragMoveTick(&g, sx, sy)
		case dragResize:
			m.dragResizeTick(&g, sx, sy)
		}
		m.gesture = g
	}
	m.lastX, m.lastY = sx, sy
}

func (m *Machine) dragMoveTick(g *dragging, sx, sy float64) {
	if !g.movable {
		return
	}
	wx, wy := m.view.ToWorld(sx, sy)
	nx := geo.Snap(wx-g.offsetX, m.gridSize)
	ny := geo.Snap(wy-g.offsetY, m.gridSize)

	switch g.kind {
	case core.KindBoat:
		for _, b := range m.store.Boats() {
			if b.ID != g.id {
				continue
			}
			candidate := b
			candidate.X = nx
			candidate.Y = ny
			// The permission the boat would have at the new position, not
			// the one it had at drag start.
			if !authz.CanEditBoat(m.userID, candidate, m.store.Zones(), m.role) {
				return
			}
			if err := m.store.UpdateBoat(candidate); err == nil {
				g.moved = true
			}
			return
		}
	case core.KindZone:
		for _, z := range m.store.Zones() {
			if z.ID == g.id {
				z.X, z.Y = nx, ny
				if err := m.store.UpdateZone(z); err == nil {
					g.moved = true
				}
				return
			}
		}
	case core.KindPier:
		for _, p := range m.store.Piers() {
			if p.ID == g.id {
				p.X, p.Y = nx, ny
				if err := m.store.UpdatePier(p); err == nil {
					g.moved = true
				}
				return
			}
		}
	case core.KindSlot:
		for _, s := range m.store.Slots() {
			if s.ID == g.id {
				s.X, s.Y = nx, ny
				if err := m.store.UpdateSlot(s); err == nil {
					g.moved = true
				}
				return
			}
		}
	}
}

func (m *Machine) dragResizeTick(g *dragging, sx, sy float64) {
	wx, wy := m.view.ToWorld(sx, sy)
	swx, swy := m.view.ToWorld(g.startX, g.startY)
	r := resizeRect(g.orig, g.handle, wx-swx, wy-swy)

	r.X = geo.Snap(r.X, m.gridSize)
	r.Y = geo.Snap(r.Y, m.gridSize)
	r.Width = geo.Snap(r.Width, m.gridSize)
	r.Height = geo.Snap(r.Height, m.gridSize)
	if r.Width < MinEntitySize {
		r.Width = MinEntitySize
	}
	if r.Height < MinEntitySize {
		r.Height = MinEntitySize
	}

	switch g.kind {
	case core.KindZone:
		for _, z := range m.store.Zones() {
			if z.ID == g.id {
				z.X, z.Y, z.Width, z.Height = r.X, r.Y, r.Width, r.Height
				if err := m.store.UpdateZone(z); err == nil {
					g.moved = true
				}
				return
			}
		}
	case core.KindPier:
		for _, p := range m.store.Piers() {
			if p.ID == g.id {
				p.X, p.Y, p.Width, p.Height = r.X, r.Y, r.Width, r.Height
				if err := m.store.UpdatePier(p); err == nil {
					g.moved = true
				}
				return
			}
		}
	case core.KindSlot:
		for _, s := range m.store.Slots() {
			if s.ID == g.id {
				s.X, s.Y, s.Width, s.Height = r.X, r.Y, r.Width, r.Height
				if err := m.store.UpdateSlot(s); err == nil {
					g.moved = true
				}
				return
			}
		}
	}
}

// PointerUp ends the active gesture.
func (m *Machine) PointerUp(sx, sy float64) {
	switch g := m.gesture.(type) {
	case drawing:
		wx, wy := m.view.ToWorld(sx, sy)
		g.curX = geo.Snap(wx, m.gridSize)
		g.curY = geo.Snap(wy, m.gridSize)
		m.finishDraw(g)
	case dragging:
		m.finishDrag(g)
	}
	m.gesture = idle{}
}

func (m *Machine) finishDraw(g drawing) {
	x := math.Min(g.anchorX, g.curX)
	y := math.Min(g.anchorY, g.curY)
	w := math.Abs(g.curX - g.anchorX)
	h := math.Abs(g.curY - g.anchorY)
	if w == 0 || h == 0 {
		return
	}

	switch g.kind {
	case core.KindZone:
		name, ok := m.namer.Name(core.KindZone)
		if !ok {
			return
		}
		z := m.store.AddZone(core.Zone{Name: name, X: x, Y: y, Width: w, Height: h, Havenmeesters: []string{}})
		m.store.Select(core.Selection{Kind: core.KindZone, ID: z.ID})
	case core.KindPier:
		p := m.store.AddPier(core.Pier{
			Name: fmt.Sprintf("Steiger %d", len(m.store.Piers())+1),
			Type: core.OrientationFromSize(w, h),
			X:    x, Y: y, Width: w, Height: h,
		})
		m.store.Select(core.Selection{Kind: core.KindPier, ID: p.ID})
	case core.KindSlot:
		name, ok := m.namer.Name(core.KindSlot)
		if !ok {
			return
		}
		s := m.store.AddSlot(core.Slot{
			Name: name,
			X:    x, Y: y, Width: w, Height: h,
			Orientation: core.OrientationFromSize(w, h),
		})
		m.store.Select(core.Selection{Kind: core.KindSlot, ID: s.ID})
	}
}

func (m *Machine) finishDrag(g dragging) {
	if g.kind == core.KindBoat && g.moved {
		m.store.ResolveDrop(g.id)
	}
}

// Wheel applies one zoom step anchored at the cursor.
func (m *Machine) Wheel(deltaY, sx, sy float64) {
	m.view.WheelZoom(deltaY, sx, sy)
}

// TouchStart begins a touch gesture. A second finger arriving during any
// single-finger gesture ends that gesture and starts a pinch.
func (m *Machine) TouchStart(touches []Touch) {
	switch len(touches) {
	case 0:
		return
	case 1:
		m.PointerDown(touches[0].X, touches[0].Y, ButtonPrimary)
	default:
		if g, ok := m.gesture.(dragging); ok {
			m.finishDrag(g)
		}
		m.gesture = pinching{
			baseScale: m.view.Scale,
			baseDist:  touchDistance(touches[0], touches[1]),
		}
	}
}

// TouchMove advances a touch gesture.
func (m *Machine) TouchMove(touches []Touch) {
	if g, ok := m.gesture.(pinching); ok {
		if len(touches) < 2 || g.baseDist == 0 {
			return
		}
		midX := (touches[0].X + touches[1].X) / 2
		midY := (touches[0].Y + touches[1].Y) / 2
		m.view.PinchZoom(g.baseScale, touchDistance(touches[0], touches[1])/g.baseDist, midX, midY)
		return
	}
	if len(touches) > 0 {
		m.PointerMove(touches[0].X, touches[0].Y)
	}
}

// TouchEnd handles fingers lifting. Dropping from a pinch to one finger
// resumes panning from that finger; lifting the last finger ends the
// gesture like a pointer-up.
func (m *Machine) TouchEnd(remaining []Touch) {
	if _, ok := m.gesture.(pinching); ok {
		if len(remaining) == 1 {
			m.gesture = panning{lastX: remaining[0].X, lastY: remaining[0].Y}
		} else if len(remaining) == 0 {
			m.gesture = idle{}
		}
		return
	}
	if len(remaining) == 0 {
		m.PointerUp(m.lastX, m.lastY)
	}
}

func touchDistance(a, b Touch) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func drawKind(t core.Tool) (core.EntityKind, bool) {
	switch t {
	case core.ToolZone:
		return core.KindZone, true
	case core.ToolPier:
		return core.KindPier, true
	case core.ToolSlot:
		return core.KindSlot, true
	default:
		return "", false
	}
}
