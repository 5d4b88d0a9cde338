package interaction

import (
	"testing"
	"time"

	"github.com/havenplan/layout/internal/viewport"
	"github.com/havenplan/layout/pkg/core"
)

// fakeStore is a synchronous in-memory Store.
type fakeStore struct {
	zones []core.Zone
	piers []core.Pier
	slots []core.Slot
	boats []core.Boat

	sel    core.Selection
	drops  []uint
	nextID uint
}

func newFakeStore() *fakeStore { return &fakeStore{nextID: 1} }

func (f *fakeStore) Zones() []core.Zone { return f.zones }
func (f *fakeStore) Piers() []core.Pier { return f.piers }
func (f *fakeStore) Slots() []core.Slot { return f.slots }
func (f *fakeStore) Boats() []core.Boat { return f.boats }

func (f *fakeStore) AddZone(z core.Zone) core.Zone {
	z.ID = f.nextID
	f.nextID++
	f.zones = append(f.zones, z)
	return z
}

func (f *fakeStore) AddPier(p core.Pier) core.Pier {
	p.ID = f.nextID
	f.nextID++
	f.piers = append(f.piers, p)
	return p
}

func (f *fakeStore) AddSlot(s core.Slot) core.Slot {
	s.ID = f.nextID
	f.nextID++
	f.slots = append(f.slots, s)
	return s
}

func (f *fakeStore) UpdateZone(z core.Zone) error {
	for i := range f.zones {
		if f.zones[i].ID == z.ID {
			f.zones[i] = z
		}
	}
	return nil
}

func (f *fakeStore) UpdatePier(p core.Pier) error {
	for i := range f.piers {
		if f.piers[i].ID == p.ID {
			f.piers[i] = p
		}
	}
	return nil
}

func (f *fakeStore) UpdateSlot(s core.Slot) error {
	for i := range f.slots {
		if f.slots[i].ID == s.ID {
			f.slots[i] = s
		}
	}
	return nil
}

func (f *fakeStore) UpdateBoat(b core.Boat) error {
	for i := range f.boats {
		if f.boats[i].ID == b.ID {
			f.boats[i] = b
		}
	}
	return nil
}

func (f *fakeStore) ResolveDrop(boatID uint) (uint, bool) {
	f.drops = append(f.drops, boatID)
	return 0, false
}

func (f *fakeStore) Select(sel core.Selection) { f.sel = sel }
func (f *fakeStore) ClearSelection()           { f.sel = core.Selection{} }
func (f *fakeStore) Selection() core.Selection { return f.sel }

type stubNamer struct {
	name string
	ok   bool
}

func (n stubNamer) Name(core.EntityKind) (string, bool) { return n.name, n.ok }

type recordingNotifier struct {
	denied []core.Boat
}

func (r *recordingNotifier) EditDenied(b core.Boat) { r.denied = append(r.denied, b) }

func newTestMachine(store *fakeStore) (*Machine, *viewport.Transform, *recordingNotifier) {
	view := viewport.New()
	notifier := &recordingNotifier{}
	m := New(store, view, stubNamer{name: "Nieuw", ok: true}, notifier, core.DefaultGridSize)
	return m, view, notifier
}

func TestPanOnEmptyCanvas(t *testing.T) {
	store := newFakeStore()
	m, view, _ := newTestMachine(store)

	m.PointerDown(100, 100, ButtonPrimary)
	if m.State() != "panning" {
		t.Fatalf("expected panning, got %s", m.State())
	}
	m.PointerMove(130, 90)
	m.PointerMove(150, 80)
	if view.TranslateX != 50 || view.TranslateY != -20 {
		t.Errorf("expected translate (50,-20), got (%v,%v)", view.TranslateX, view.TranslateY)
	}
	m.PointerUp(150, 80)
	if m.State() != "idle" {
		t.Errorf("expected idle after up, got %s", m.State())
	}
}

func TestEmptyCanvasPressClearsSelection(t *testing.T) {
	store := newFakeStore()
	store.sel = core.Selection{Kind: core.KindBoat, ID: 1}
	m, _, _ := newTestMachine(store)

	m.PointerDown(300, 300, ButtonPrimary)
	if !store.sel.None() {
		t.Error("pressing empty canvas should clear the selection")
	}
}

func TestDrawZone(t *testing.T) {
	store := newFakeStore()
	m, _, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)
	if err := m.SetTool(core.ToolZone); err != nil {
		t.Fatalf("set tool failed: %v", err)
	}

	m.PointerDown(12, 13, ButtonPrimary)
	if m.State() != "drawing" {
		t.Fatalf("expected drawing, got %s", m.State())
	}
	m.PointerMove(112, 83)
	m.PointerUp(112, 83)

	if len(store.zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(store.zones))
	}
	z := store.zones[0]
	if z.X != 10 || z.Y != 15 || z.Width != 100 || z.Height != 70 {
		t.Errorf("expected snapped rect (10,15,100,70), got (%v,%v,%v,%v)", z.X, z.Y, z.Width, z.Height)
	}
	if z.Name != "Nieuw" {
		t.Errorf("expected prompted name, got %q", z.Name)
	}
	if store.sel != (core.Selection{Kind: core.KindZone, ID: z.ID}) {
		t.Error("new zone should be selected")
	}
}

func TestDrawCancelledByNamer(t *testing.T) {
	store := newFakeStore()
	view := viewport.New()
	m := New(store, view, stubNamer{ok: false}, &recordingNotifier{}, core.DefaultGridSize)
	m.SetUser("admin-1", core.RoleAdmin)
	m.SetTool(core.ToolSlot)

	m.PointerDown(0, 0, ButtonPrimary)
	m.PointerMove(50, 100)
	m.PointerUp(50, 100)

	if len(store.slots) != 0 {
		t.Error("cancelled name prompt should abort the slot")
	}
}

func TestDrawZeroAreaDiscarded(t *testing.T) {
	store := newFakeStore()
	m, _, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)
	m.SetTool(core.ToolZone)

	m.PointerDown(20, 20, ButtonPrimary)
	m.PointerUp(21, 20) // snaps back to the anchor

	if len(store.zones) != 0 {
		t.Error("zero-area draw should be discarded")
	}
}

func TestDrawSlotOrientation(t *testing.T) {
	cases := []struct {
		name   string
		endX   float64
		endY   float64
		expect core.Orientation
	}{
		{"wide is horizontal", 120, 40, core.Horizontal},
		{"tall is vertical", 40, 120, core.Vertical},
		{"tie is vertical", 40, 40, core.Vertical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			m, _, _ := newTestMachine(store)
			m.SetUser("admin-1", core.RoleAdmin)
			m.SetTool(core.ToolSlot)

			m.PointerDown(0, 0, ButtonPrimary)
			m.PointerMove(tc.endX, tc.endY)
			m.PointerUp(tc.endX, tc.endY)

			if len(store.slots) != 1 {
				t.Fatalf("expected 1 slot, got %d", len(store.slots))
			}
			if store.slots[0].Orientation != tc.expect {
				t.Errorf("expected %s, got %s", tc.expect, store.slots[0].Orientation)
			}
		})
	}
}

func TestDrawPierAutoName(t *testing.T) {
	store := newFakeStore()
	m, _, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)
	m.SetTool(core.ToolPier)

	m.PointerDown(0, 0, ButtonPrimary)
	m.PointerMove(200, 40)
	m.PointerUp(200, 40)

	if len(store.piers) != 1 {
		t.Fatalf("expected 1 pier, got %d", len(store.piers))
	}
	if store.piers[0].Name != "Steiger 1" {
		t.Errorf("expected auto name, got %q", store.piers[0].Name)
	}
	if store.piers[0].Type != core.Horizontal {
		t.Errorf("expected horizontal pier, got %s", store.piers[0].Type)
	}
}

func TestSetToolRequiresAdmin(t *testing.T) {
	m, _, _ := newTestMachine(newFakeStore())
	m.SetUser("uid-1", core.RoleHavenmeester)

	if err := m.SetTool(core.ToolZone); err == nil {
		t.Error("expected error for non-admin drawing tool")
	}
	if err := m.SetTool(core.ToolSelect); err != nil {
		t.Errorf("select tool should be open to all roles, got %v", err)
	}
}

func TestBoatDragAndDrop(t *testing.T) {
	store := newFakeStore()
	store.boats = []core.Boat{{ID: 1, Size: 10, WidthInMeters: 3.5, X: 0, Y: 0, Width: 100, Height: 35}}
	m, _, _ := newTestMachine(store)
	m.SetUser("uid-1", core.RoleHavenmeester)

	m.PointerDown(10, 10, ButtonPrimary)
	if m.State() != "dragging" {
		t.Fatalf("expected dragging, got %s", m.State())
	}
	if store.sel != (core.Selection{Kind: core.KindBoat, ID: 1}) {
		t.Error("drag start should select the boat")
	}

	m.PointerMove(63, 48)
	b := store.boats[0]
	// Origin follows the pointer minus the press offset, snapped.
	if b.X != 55 || b.Y != 40 {
		t.Errorf("expected boat at (55,40), got (%v,%v)", b.X, b.Y)
	}

	m.PointerUp(63, 48)
	if len(store.drops) != 1 || store.drops[0] != 1 {
		t.Errorf("expected drop reconciliation for boat 1, got %v", store.drops)
	}
}

func TestBoatTapDoesNotReconcile(t *testing.T) {
	store := newFakeStore()
	store.boats = []core.Boat{{ID: 1, Size: 10, WidthInMeters: 3.5, X: 0, Y: 0, Width: 100, Height: 35}}
	m, _, _ := newTestMachine(store)
	m.SetUser("uid-1", core.RoleHavenmeester)

	m.PointerDown(10, 10, ButtonPrimary)
	m.PointerUp(10, 10)

	if len(store.drops) != 0 {
		t.Error("a tap with no movement should not touch occupancy")
	}
	if store.sel != (core.Selection{Kind: core.KindBoat, ID: 1}) {
		t.Error("tap should select the boat")
	}
}

func TestBoatPressDeniedForViewer(t *testing.T) {
	store := newFakeStore()
	store.boats = []core.Boat{{ID: 1, Size: 10, X: 0, Y: 0, Width: 100, Height: 35}}
	m, _, notifier := newTestMachine(store)
	m.SetUser("uid-1", core.RoleViewer)

	m.PointerDown(10, 10, ButtonPrimary)

	if m.State() != "idle" {
		t.Errorf("denied press should not start a gesture, got %s", m.State())
	}
	if !store.sel.None() {
		t.Error("denied press should not select the boat")
	}
	if len(notifier.denied) != 1 {
		t.Errorf("expected 1 rejection notification, got %d", len(notifier.denied))
	}
}

func TestBoatDragFreezesAtZoneBoundary(t *testing.T) {
	store := newFakeStore()
	store.zones = []core.Zone{{ID: 1, X: 200, Y: 0, Width: 200, Height: 200, Havenmeesters: []string{"other-uid"}}}
	store.boats = []core.Boat{{ID: 1, Size: 10, WidthInMeters: 3.5, X: 0, Y: 0, Width: 100, Height: 35}}
	m, _, _ := newTestMachine(store)
	m.SetUser("uid-1", core.RoleHavenmeester)

	m.PointerDown(10, 10, ButtonPrimary)

	// Still outside the zone: center at (110,17.5).
	m.PointerMove(70, 10)
	if store.boats[0].X != 60 {
		t.Fatalf("authorized move should apply, got x=%v", store.boats[0].X)
	}

	// Center would land inside the foreign zone: suppressed.
	m.PointerMove(210, 10)
	if store.boats[0].X != 60 {
		t.Errorf("unauthorized move should freeze the boat at x=60, got x=%v", store.boats[0].X)
	}

	// Back out of the zone: follows again.
	m.PointerMove(50, 10)
	if store.boats[0].X != 40 {
		t.Errorf("expected boat to resume following at x=40, got x=%v", store.boats[0].X)
	}
}

func TestNonAdminCannotMoveSlot(t *testing.T) {
	store := newFakeStore()
	store.slots = []core.Slot{{ID: 1, X: 0, Y: 0, Width: 40, Height: 120}}
	m, _, _ := newTestMachine(store)
	m.SetUser("uid-1", core.RoleHavenmeester)

	m.PointerDown(10, 10, ButtonPrimary)
	if store.sel != (core.Selection{Kind: core.KindSlot, ID: 1}) {
		t.Error("press should still select the slot")
	}
	m.PointerMove(100, 100)

	if store.slots[0].X != 0 || store.slots[0].Y != 0 {
		t.Error("non-admin move of a slot should be a no-op")
	}
}

func TestAdminMovesZone(t *testing.T) {
	store := newFakeStore()
	store.zones = []core.Zone{{ID: 1, X: 0, Y: 0, Width: 100, Height: 100}}
	m, _, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)

	m.PointerDown(10, 10, ButtonPrimary)
	m.PointerMove(60, 35)

	if store.zones[0].X != 50 || store.zones[0].Y != 25 {
		t.Errorf("expected zone at (50,25), got (%v,%v)", store.zones[0].X, store.zones[0].Y)
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	store := newFakeStore()
	store.zones = []core.Zone{{ID: 1, X: 0, Y: 0, Width: 100, Height: 80}}
	store.sel = core.Selection{Kind: core.KindZone, ID: 1}
	m, _, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)

	// Press on the se grip and drag far past the nw corner.
	m.PointerDown(100, 80, ButtonPrimary)
	if m.State() != "dragging" {
		t.Fatalf("expected dragging, got %s", m.State())
	}
	m.PointerMove(-200, -200)

	z := store.zones[0]
	if z.Width != MinEntitySize || z.Height != MinEntitySize {
		t.Errorf("expected clamped %vx%v, got %vx%v", MinEntitySize, MinEntitySize, z.Width, z.Height)
	}
	if z.X != 0 || z.Y != 0 {
		t.Errorf("se resize should keep the origin fixed, got (%v,%v)", z.X, z.Y)
	}
}

func TestResizeWestMovesOriginWithEdge(t *testing.T) {
	store := newFakeStore()
	store.zones = []core.Zone{{ID: 1, X: 100, Y: 100, Width: 200, Height: 100}}
	store.sel = core.Selection{Kind: core.KindZone, ID: 1}
	m, _, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)

	// Press on the w grip (at x=100, y=150) and drag it 50 right.
	m.PointerDown(100, 150, ButtonPrimary)
	m.PointerMove(150, 150)

	z := store.zones[0]
	if z.X != 150 || z.Width != 150 {
		t.Errorf("expected x=150 width=150, got x=%v width=%v", z.X, z.Width)
	}
	if z.Y != 100 || z.Height != 100 {
		t.Errorf("w resize should not touch the vertical axis, got y=%v height=%v", z.Y, z.Height)
	}
}

func TestPinchReplacesPanAndResumes(t *testing.T) {
	store := newFakeStore()
	m, view, _ := newTestMachine(store)

	m.TouchStart([]Touch{{X: 100, Y: 100}})
	if m.State() != "panning" {
		t.Fatalf("expected panning, got %s", m.State())
	}

	m.TouchStart([]Touch{{X: 100, Y: 100}, {X: 200, Y: 100}})
	if m.State() != "pinching" {
		t.Fatalf("second finger should start pinching, got %s", m.State())
	}

	// Fingers spread to double the distance: scale doubles.
	m.TouchMove([]Touch{{X: 50, Y: 100}, {X: 250, Y: 100}})
	if view.Scale != 2 {
		t.Errorf("expected scale 2, got %v", view.Scale)
	}

	m.TouchEnd([]Touch{{X: 50, Y: 100}})
	if m.State() != "panning" {
		t.Errorf("dropping to one finger should resume panning, got %s", m.State())
	}

	m.TouchEnd(nil)
	if m.State() != "idle" {
		t.Errorf("expected idle after last finger lifts, got %s", m.State())
	}
}

func TestPinchAnchorsAtMidpoint(t *testing.T) {
	store := newFakeStore()
	m, view, _ := newTestMachine(store)

	m.TouchStart([]Touch{{X: 100, Y: 100}, {X: 300, Y: 100}})
	wxBefore, wyBefore := view.ToWorld(200, 100)

	m.TouchMove([]Touch{{X: 50, Y: 100}, {X: 350, Y: 100}})

	wxAfter, wyAfter := view.ToWorld(200, 100)
	if diff := wxAfter - wxBefore; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("midpoint world x drifted by %v", diff)
	}
	if diff := wyAfter - wyBefore; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("midpoint world y drifted by %v", diff)
	}
}

func TestWheelZoomsViewport(t *testing.T) {
	store := newFakeStore()
	m, view, _ := newTestMachine(store)

	m.Wheel(-1, 400, 300)
	if view.Scale <= 1 {
		t.Errorf("wheel up should zoom in, scale=%v", view.Scale)
	}
}

func TestSecondaryButtonPans(t *testing.T) {
	store := newFakeStore()
	store.boats = []core.Boat{{ID: 1, X: 0, Y: 0, Width: 100, Height: 35}}
	m, view, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)

	// Secondary button pans even over an entity.
	m.PointerDown(10, 10, ButtonSecondary)
	if m.State() != "panning" {
		t.Fatalf("expected panning, got %s", m.State())
	}
	m.PointerMove(20, 30)
	if view.TranslateX != 10 || view.TranslateY != 20 {
		t.Errorf("expected translate (10,20), got (%v,%v)", view.TranslateX, view.TranslateY)
	}
}

func TestTapTimingUsesClock(t *testing.T) {
	store := newFakeStore()
	store.boats = []core.Boat{{ID: 1, Size: 10, WidthInMeters: 3.5, X: 0, Y: 0, Width: 100, Height: 35}}
	m, _, _ := newTestMachine(store)
	m.SetUser("admin-1", core.RoleAdmin)

	current := time.Unix(1000, 0)
	m.now = func() time.Time { return current }

	m.PointerDown(10, 10, ButtonPrimary)
	current = current.Add(5 * time.Second)
	m.PointerUp(10, 10)

	// Long press without movement still never reconciles: nothing moved.
	if len(store.drops) != 0 {
		t.Errorf("expected no reconciliation, got %v", store.drops)
	}
}
