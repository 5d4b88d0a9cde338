package gormstore

import (
	"testing"

	"github.com/havenplan/layout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestZoneRoundTrip(t *testing.T) {
	z := core.Zone{
		ID:            3,
		Name:          "Noord Haven",
		X:             50,
		Y:             50,
		Width:         400,
		Height:        300,
		Color:         core.ZoneColors[0],
		Havenmeesters: []string{"uid-1", "uid-2"},
		Description:   "Noordelijk deel van de haven",
	}

	row, err := zoneToRow(z)
	require.NoError(t, err)
	assert.JSONEq(t, `["uid-1","uid-2"]`, string(row.Havenmeesters))

	back, err := rowToZone(row)
	require.NoError(t, err)
	assert.Equal(t, z, back)
}

func TestZoneToRow_NilOperators(t *testing.T) {
	row, err := zoneToRow(core.Zone{ID: 1, Name: "Leeg"})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(row.Havenmeesters), "nil operator list should persist as empty array")

	back, err := rowToZone(row)
	require.NoError(t, err)
	assert.NotNil(t, back.Havenmeesters)
	assert.Empty(t, back.Havenmeesters)
}

func TestPierRoundTrip(t *testing.T) {
	p := core.Pier{
		ID:     2,
		Name:   "Steiger B",
		Type:   core.Vertical,
		X:      600,
		Y:      250,
		Width:  40,
		Height: 200,
		ZoneID: uintPtr(2),
	}

	back := rowToPier(pierToRow(p))
	assert.Equal(t, p, back)
}

func TestPierRoundTrip_NoZone(t *testing.T) {
	p := core.Pier{ID: 5, Name: "Los", Type: core.Horizontal, Width: 100, Height: 40}

	row := pierToRow(p)
	assert.Nil(t, row.ZoneID)
	assert.Equal(t, p, rowToPier(row))
}

func TestSlotRoundTrip(t *testing.T) {
	occupied := core.Slot{
		ID:          1,
		Name:        "A1",
		X:           120,
		Y:           250,
		Width:       80,
		Height:      120,
		Occupied:    true,
		BoatID:      uintPtr(1),
		Orientation: core.Vertical,
		ZoneID:      uintPtr(1),
	}
	free := core.Slot{
		ID:          2,
		Name:        "A2",
		Orientation: core.Vertical,
	}

	assert.Equal(t, occupied, rowToSlot(slotToRow(occupied)))

	freeRow := slotToRow(free)
	assert.False(t, freeRow.Occupied)
	assert.Nil(t, freeRow.BoatID)
	assert.Equal(t, free, rowToSlot(freeRow))
}

func TestBoatRoundTrip(t *testing.T) {
	b := core.Boat{
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
		Width:         35,
		Height:        120,
		Color:         "#1E90FF",
		TypeName:      "Zeilboot",
		ZoneID:        uintPtr(1),
		WidthInMeters: 3.5,
	}

	row, err := boatToRow(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"Jan Janssen","phone":"06-12345678","email":"jan@demo.nl"}`, string(row.Contact))

	back, err := rowToBoat(row)
	require.NoError(t, err)
	assert.Equal(t, b, back)
}

func TestBoatRoundTrip_EmptyContact(t *testing.T) {
	b := core.Boat{ID: 7, Name: "Naamloos", Type: "motorboat", Size: 6}

	row, err := boatToRow(b)
	require.NoError(t, err)

	back, err := rowToBoat(row)
	require.NoError(t, err)
	assert.Empty(t, back.Owner)
	assert.Empty(t, back.Phone)
	assert.Empty(t, back.Email)
	assert.Equal(t, b, back)
}

func TestRowToBoat_InvalidContact(t *testing.T) {
	row := BoatRow{ID: 1, Contact: []byte(`{not json`)}
	_, err := rowToBoat(row)
	require.Error(t, err)
}
