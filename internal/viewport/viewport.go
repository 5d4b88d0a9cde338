// Package viewport maintains the pan/zoom transform between screen and world
// coordinates. Zoom steps solve for the translation that keeps the anchor
// point (cursor or pinch midpoint) over the same world coordinate, so the
// content never slides under the pointer while zooming.
package viewport

const (
	// MinScale and MaxScale clamp the zoom range.
	MinScale = 0.1
	MaxScale = 5.0

	// WheelStep is the multiplicative zoom step per wheel event (5%).
	WheelStep = 0.05
)

// Transform is the current viewport state. Screen = world*Scale + Translate.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// New returns the identity transform.
func New() *Transform {
	return &Transform{Scale: 1}
}

// ToWorld converts a screen position to world coordinates.
func (t *Transform) ToWorld(sx, sy float64) (wx, wy float64) {
	return (sx - t.TranslateX) / t.Scale, (sy - t.TranslateY) / t.Scale
}

// ToScreen converts a world position to screen coordinates.
func (t *Transform) ToScreen(wx, wy float64) (sx, sy float64) {
	return wx*t.Scale + t.TranslateX, wy*t.Scale + t.TranslateY
}

// Pan shifts the viewport by a pointer delta. Callers sample continuously
// (every move event), not just at gesture end, so no drift accumulates.
func (t *Transform) Pan(dx, dy float64) {
	t.TranslateX += dx
	t.TranslateY += dy
}

// ZoomAt sets the scale (clamped) and solves for the translation that keeps
// the world point currently under the anchor screen position fixed:
// translate' = anchor - world*scale'.
func (t *Transform) ZoomAt(newScale, anchorX, anchorY float64) {
	newScale = clampScale(newScale)
	wx, wy := t.ToWorld(anchorX, anchorY)
	t.Scale = newScale
	t.TranslateX = anchorX - wx*newScale
	t.TranslateY = anchorY - wy*newScale
}

// WheelZoom applies one wheel step anchored at the cursor. A negative delta
// (wheel up) zooms in.
func (t *Transform) WheelZoom(deltaY, cursorX, cursorY float64) {
	factor := 1 + WheelStep
	if deltaY > 0 {
		factor = 1 - WheelStep
	}
	t.ZoomAt(t.Scale*factor, cursorX, cursorY)
}

// PinchZoom applies a pinch step anchored at the touch midpoint. baseScale is
// the scale recorded at gesture start; ratio is current over initial
// inter-touch distance.
func (t *Transform) PinchZoom(baseScale, ratio, midX, midY float64) {
	t.ZoomAt(baseScale*ratio, midX, midY)
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
