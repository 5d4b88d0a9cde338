// Package export serializes a layout as georeferenced GeoJSON. The planar
// canvas is anchored to a configured real-world origin and projected into
// EPSG:3857 meters: zones and piers become polygons, berths and boats become
// center points, so the marina can be loaded into any GIS tool.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/havenplan/layout/internal/geo"
	"github.com/havenplan/layout/pkg/core"
)

// Feature is one GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   geom.Geometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Exporter projects layouts against a fixed origin and scale.
type Exporter struct {
	origin geom.XY
	scale  float64
}

// New creates an exporter anchored at the given WGS84 origin.
func New(originLon, originLat, scale float64) *Exporter {
	if scale <= 0 {
		scale = core.DefaultScale
	}
	return &Exporter{
		origin: geo.Origin3857(originLon, originLat),
		scale:  scale,
	}
}

// Collection converts a layout into a feature collection.
func (e *Exporter) Collection(layout core.Layout) FeatureCollection {
	features := make([]Feature, 0, len(layout.Zones)+len(layout.Piers)+len(layout.Slots)+len(layout.Boats))

	for _, z := range layout.Zones {
		features = append(features, Feature{
			Type:     "Feature",
			Geometry: e.rectPolygon(z.Bounds()),
			Properties: map[string]any{
				"kind":  "zone",
				"id":    z.ID,
				"name":  z.Name,
				"color": z.Color,
			},
		})
	}

	for _, p := range layout.Piers {
		features = append(features, Feature{
			Type:     "Feature",
			Geometry: e.rectPolygon(p.Bounds()),
			Properties: map[string]any{
				"kind":        "pier",
				"id":          p.ID,
				"name":        p.Name,
				"orientation": string(p.Type),
			},
		})
	}

	for _, s := range layout.Slots {
		props := map[string]any{
			"kind":        "berth",
			"id":          s.ID,
			"name":        s.Name,
			"orientation": string(s.Orientation),
			"occupied":    s.Occupied,
		}
		if s.BoatID != nil {
			props["boatId"] = *s.BoatID
		}
		features = append(features, Feature{
			Type:       "Feature",
			Geometry:   e.centerPoint(s),
			Properties: props,
		})
	}

	for _, b := range layout.Boats {
		props := map[string]any{
			"kind":          "boat",
			"id":            b.ID,
			"name":          b.Name,
			"type":          b.Type,
			"lengthMeters":  b.Size,
			"widthInMeters": b.WidthInMeters,
		}
		if b.SlotID != nil {
			props["slotId"] = *b.SlotID
		}
		features = append(features, Feature{
			Type:       "Feature",
			Geometry:   e.centerPoint(b),
			Properties: props,
		})
	}

	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// Write serializes the layout as indented GeoJSON.
func (e *Exporter) Write(w io.Writer, layout core.Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.Collection(layout)); err != nil {
		return fmt.Errorf("encoding feature collection: %w", err)
	}
	return nil
}

// WriteFile writes the layout to a GeoJSON file.
func (e *Exporter) WriteFile(path string, layout core.Layout) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()
	return e.Write(f, layout)
}

func (e *Exporter) centerPoint(s core.Spatial) geom.Geometry {
	cx, cy := geo.Center(s)
	return geo.Point3857(e.origin, cx, cy, e.scale).AsGeometry()
}

// rectPolygon projects the rectangle's corners and closes the ring
// counterclockwise, matching the y flip of the projection.
func (e *Exporter) rectPolygon(r core.Rect) geom.Geometry {
	corners := [][2]float64{
		{r.X, r.Y},
		{r.X, r.Y + r.Height},
		{r.X + r.Width, r.Y + r.Height},
		{r.X + r.Width, r.Y},
		{r.X, r.Y},
	}
	coords := make([]float64, 0, len(corners)*2)
	for _, c := range corners {
		p := geo.Point3857(e.origin, c[0], c[1], e.scale)
		xy, _ := p.XY()
		coords = append(coords, xy.X, xy.Y)
	}
	ring := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	return geom.NewPolygon([]geom.LineString{ring}).AsGeometry()
}
