package gormstore

import (
	"encoding/json"

	"github.com/havenplan/layout/pkg/core"
	"gorm.io/datatypes"
)

// ZoneRow is the persisted form of core.Zone. Operator UIDs are stored as
// a JSON array so the row shape is identical on sqlite and postgres.
type ZoneRow struct {
	ID            uint `gorm:"primarykey"`
	Name          string
	X             float64
	Y             float64
	Width         float64
	Height        float64
	Color         string
	Havenmeesters datatypes.JSON
	Description   string
}

func (ZoneRow) TableName() string { return "zones" }

type PierRow struct {
	ID     uint `gorm:"primarykey"`
	Name   string
	Type   string
	X      float64
	Y      float64
	Width  float64
	Height float64
	ZoneID *uint
}

func (PierRow) TableName() string { return "piers" }

type SlotRow struct {
	ID          uint `gorm:"primarykey"`
	Name        string
	X           float64
	Y           float64
	Width       float64
	Height      float64
	Occupied    bool
	BoatID      *uint
	Orientation string
	ZoneID      *uint
}

func (SlotRow) TableName() string { return "slots" }

// BoatRow folds the owner contact details into one JSON column.
type BoatRow struct {
	ID            uint `gorm:"primarykey"`
	Name          string
	Type          string
	Size          float64
	Contact       datatypes.JSON
	SlotID        *uint
	X             float64
	Y             float64
	Width         float64
	Height        float64
	Color         string
	TypeName      string
	ZoneID        *uint
	WidthInMeters float64
}

func (BoatRow) TableName() string { return "boats" }

type contact struct {
	Owner string `json:"owner,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

func zoneToRow(z core.Zone) (ZoneRow, error) {
	operators := z.Havenmeesters
	if operators == nil {
		operators = []string{}
	}
	raw, err := json.Marshal(operators)
	if err != nil {
		return ZoneRow{}, err
	}
	return ZoneRow{
		ID:            z.ID,
		Name:          z.Name,
		X:             z.X,
		Y:             z.Y,
		Width:         z.Width,
		Height:        z.Height,
		Color:         z.Color,
		Havenmeesters: raw,
		Description:   z.Description,
	}, nil
}

func rowToZone(r ZoneRow) (core.Zone, error) {
	operators := []string{}
	if len(r.Havenmeesters) > 0 {
		if err := json.Unmarshal(r.Havenmeesters, &operators); err != nil {
			return core.Zone{}, err
		}
	}
	return core.Zone{
		ID:            r.ID,
		Name:          r.Name,
		X:             r.X,
		Y:             r.Y,
		Width:         r.Width,
		Height:        r.Height,
		Color:         r.Color,
		Havenmeesters: operators,
		Description:   r.Description,
	}, nil
}

func pierToRow(p core.Pier) PierRow {
	return PierRow{
		ID:     p.ID,
		Name:   p.Name,
		Type:   string(p.Type),
		X:      p.X,
		Y:      p.Y,
		Width:  p.Width,
		Height: p.Height,
		ZoneID: p.ZoneID,
	}
}

func rowToPier(r PierRow) core.Pier {
	return core.Pier{
		ID:     r.ID,
		Name:   r.Name,
		Type:   core.Orientation(r.Type),
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
		ZoneID: r.ZoneID,
	}
}

func slotToRow(s core.Slot) SlotRow {
	return SlotRow{
		ID:          s.ID,
		Name:        s.Name,
		X:           s.X,
		Y:           s.Y,
		Width:       s.Width,
		Height:      s.Height,
		Occupied:    s.Occupied,
		BoatID:      s.BoatID,
		Orientation: string(s.Orientation),
		ZoneID:      s.ZoneID,
	}
}

func rowToSlot(r SlotRow) core.Slot {
	return core.Slot{
		ID:          r.ID,
		Name:        r.Name,
		X:           r.X,
		Y:           r.Y,
		Width:       r.Width,
		Height:      r.Height,
		Occupied:    r.Occupied,
		BoatID:      r.BoatID,
		Orientation: core.Orientation(r.Orientation),
		ZoneID:      r.ZoneID,
	}
}

func boatToRow(b core.Boat) (BoatRow, error) {
	raw, err := json.Marshal(contact{Owner: b.Owner, Phone: b.Phone, Email: b.Email})
	if err != nil {
		return BoatRow{}, err
	}
	return BoatRow{
		ID:            b.ID,
		Name:          b.Name,
		Type:          b.Type,
		Size:          b.Size,
		Contact:       raw,
		SlotID:        b.SlotID,
		X:             b.X,
		Y:             b.Y,
		Width:         b.Width,
		Height:        b.Height,
		Color:         b.Color,
		TypeName:      b.TypeName,
		ZoneID:        b.ZoneID,
		WidthInMeters: b.WidthInMeters,
	}, nil
}

func rowToBoat(r BoatRow) (core.Boat, error) {
	var c contact
	if len(r.Contact) > 0 {
		if err := json.Unmarshal(r.Contact, &c); err != nil {
			return core.Boat{}, err
		}
	}
	return core.Boat{
		ID:            r.ID,
		Name:          r.Name,
		Type:          r.Type,
		Size:          r.Size,
		Owner:         c.Owner,
		Phone:         c.Phone,
		Email:         c.Email,
		SlotID:        r.SlotID,
		X:             r.X,
		Y:             r.Y,
		Width:         r.Width,
		Height:        r.Height,
		Color:         r.Color,
		TypeName:      r.TypeName,
		ZoneID:        r.ZoneID,
		WidthInMeters: r.WidthInMeters,
	}, nil
}
