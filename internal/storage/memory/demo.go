// internal/storage/memory/demo.go
package memory

import "github.com/havenplan/layout/pkg/core"

func uintPtr(v uint) *uint { return &v }

// DemoLayout returns the seed layout used when no snapshot exists yet:
// two zones, two piers, three slots and two berthed boats.
func DemoLayout() core.Layout {
	zones := []core.Zone{
		{
			ID:            1,
			Name:          "Noord Haven",
			X:             50,
			Y:             50,
			Width:         400,
			Height:        300,
			Color:         core.ZoneColors[0],
			Havenmeesters: []string{},
			Description:   "Noordelijk deel van de haven",
		},
		{
			ID:            2,
			Name:          "Zuid Haven",
			X:             500,
			Y:             200,
			Width:         350,
			Height:        250,
			Color:         core.ZoneColors[1],
			Havenmeesters: []string{},
			Description:   "Zuidelijk deel van de haven",
		},
	}

	piers := []core.Pier{
		{ID: 1, Name: "Steiger A", Type: core.Horizontal, X: 100, Y: 200, Width: 300, Height: 40, ZoneID: uintPtr(1)},
		{ID: 2, Name: "Steiger B", Type: core.Vertical, X: 600, Y: 250, Width: 40, Height: 200, ZoneID: uintPtr(2)},
	}

	slots := []core.Slot{
		{ID: 1, Name: "A1", X: 120, Y: 250, Width: 80, Height: 120, Occupied: true, BoatID: uintPtr(1), Orientation: core.Vertical, ZoneID: uintPtr(1)},
		{ID: 2, Name: "A2", X: 220, Y: 250, Width: 80, Height: 120, Occupied: false, BoatID: nil, Orientation: core.Vertical, ZoneID: uintPtr(1)},
		{ID: 3, Name: "B1", X: 650, Y: 270, Width: 120, Height: 80, Occupied: true, BoatID: uintPtr(2), Orientation: core.Horizontal, ZoneID: uintPtr(2)},
	}

	boats := []core.Boat{
		{
			ID:            1,
			Name:          "Demo Zeilboot",
			Type:          "sailboat",
			Size:          12,
			Owner:         "Jan Janssen",
			Phone:         "06-12345678",
			Email:         "jan@demo.nl",
			SlotID:        uintPtr(1),
			X:             120,
			Y:             250,
			Width:         3.5 * core.DefaultScale,
			Height:        12 * core.DefaultScale,
			Color:         core.BoatTypes["sailboat"].Color,
			TypeName:      core.BoatTypes["sailboat"].Name,
			ZoneID:        uintPtr(1),
			WidthInMeters: 3.5,
		},
		{
			ID:            2,
			Name:          "Demo Motorboot",
			Type:          "motorboat",
			Size:          8,
			Owner:         "Piet Pietersen",
			Phone:         "06-87654321",
			Email:         "piet@demo.nl",
			SlotID:        uintPtr(3),
			X:             650,
			Y:             270,
			Width:         8 * core.DefaultScale,
			Height:        2.0 * core.DefaultScale,
			Color:         core.BoatTypes["motorboat"].Color,
			TypeName:      core.BoatTypes["motorboat"].Name,
			ZoneID:        uintPtr(2),
			WidthInMeters: 2.0,
		},
	}

	return core.Layout{Zones: zones, Piers: piers, Slots: slots, Boats: boats}
}
