package interaction

import "github.com/havenplan/layout/pkg/core"

// Handle names a resize grip at one of the eight compass points of a
// selected rectangle.
type Handle string

const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

// MinEntitySize is the smallest width/height a resize may produce.
const MinEntitySize = 10

// handleSize returns the grip's world-unit hit box for the current zoom.
// Grips keep a usable screen size when zoomed out but shrink on small
// entities so opposite grips cannot overlap.
func handleSize(r core.Rect, scale float64) float64 {
	size := 12 / scale
	if size < 8 {
		size = 8
	}
	limit := r.Width
	if r.Height < limit {
		limit = r.Height
	}
	if size > limit/4 {
		size = limit / 4
	}
	return size
}

// handlePositions returns the center of each grip.
func handlePositions(r core.Rect) map[Handle][2]float64 {
	midX := r.X + r.Width/2
	midY := r.Y + r.Height/2
	right := r.X + r.Width
	bottom := r.Y + r.Height
	return map[Handle][2]float64{
		HandleNW: {r.X, r.Y},
		HandleN:  {midX, r.Y},
		HandleNE: {right, r.Y},
		HandleE:  {right, midY},
		HandleSE: {right, bottom},
		HandleS:  {midX, bottom},
		HandleSW: {r.X, bottom},
		HandleW:  {r.X, midY},
	}
}

// handleAt returns the grip under the world point, if any.
func handleAt(r core.Rect, wx, wy, scale float64) (Handle, bool) {
	half := handleSize(r, scale) / 2
	for h, pos := range handlePositions(r) {
		if wx >= pos[0]-half && wx <= pos[0]+half && wy >= pos[1]-half && wy <= pos[1]+half {
			return h, true
		}
	}
	return "", false
}

// resizeRect recomputes a rectangle from the drag's original rectangle and
// the pointer delta for the given grip. Edges opposite the grip stay fixed;
// west/north grips move the origin and shrink the size together. Dimensions
// clamp at MinEntitySize, with the origin adjusted so the fixed edge does
// not move when the clamp engages.
func resizeRect(orig core.Rect, h Handle, dx, dy float64) core.Rect {
	r := orig

	switch h {
	case HandleE, HandleNE, HandleSE:
		r.Width = orig.Width + dx
	case HandleW, HandleNW, HandleSW:
		r.X = orig.X + dx
		r.Width = orig.Width - dx
	}

	switch h {
	case HandleS, HandleSE, HandleSW:
		r.Height = orig.Height + dy
	case HandleN, HandleNE, HandleNW:
		r.Y = orig.Y + dy
		r.Height = orig.Height - dy
	}

	if r.Width < MinEntitySize {
		if r.X != orig.X {
			r.X = orig.X + orig.Width - MinEntitySize
		}
		r.Width = MinEntitySize
	}
	if r.Height < MinEntitySize {
		if r.Y != orig.Y {
			r.Y = orig.Y + orig.Height - MinEntitySize
		}
		r.Height = MinEntitySize
	}

	return r
}
