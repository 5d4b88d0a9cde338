package geo

import (
	"math"

	"github.com/havenplan/layout/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Snap rounds v to the nearest multiple of grid. Snapping is applied to every
// coordinate and dimension produced by a draw, drag or resize gesture, never
// to raw pointer input before the viewport transform.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// PointInRect reports whether (x, y) lies within r. Bounds are inclusive on
// all four edges, which matters for entities snapped exactly onto a zone
// border.
func PointInRect(x, y float64, r core.Rect) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Center returns the center point of an entity's bounding rectangle.
func Center(s core.Spatial) (x, y float64) {
	r := s.Bounds()
	return r.X + r.Width/2, r.Y + r.Height/2
}

// CONTAINMENT is always evaluated against entity centers, so a boat hanging
// halfway over a zone border belongs to whichever zone holds its midpoint.

// RectContainsCenter reports whether the center of s lies inside r.
func RectContainsCenter(r core.Rect, s core.Spatial) bool {
	cx, cy := Center(s)
	return PointInRect(cx, cy, r)
}

// GEOREFERENCING
// The canvas is a planar pixel grid; for GIS export it is anchored to a
// real-world origin (the marina's top-left corner) and projected into
// EPSG:3857 web-mercator meters. 3857 is used so exported geometry can be
// consumed without spatial-reference awareness downstream.

// Origin3857 converts a WGS84 (EPSG:4326) lon/lat origin into 3857 meters.
func Origin3857(longitude, latitude float64) geom.XY {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	return geom.XY{X: x, Y: y}
}

// Point3857 projects a canvas point into 3857 meters relative to origin.
// Canvas y grows downward while 3857 northing grows upward, hence the flip.
// scale is the canvas SCALE factor in pixels per meter.
func Point3857(origin geom.XY, px, py, scale float64) geom.Point {
	if scale <= 0 {
		scale = core.DefaultScale
	}
	return geom.NewPoint(geom.Coordinates{
		XY: geom.XY{
			X: origin.X + px/scale,
			Y: origin.Y - py/scale,
		},
	})
}
