// Package gormstore persists layouts through GORM. It works against both
// the sqlite and postgres connectors from internal/database: every save
// replaces the whole collection inside one transaction, matching the
// last-write-wins contract of the store.
package gormstore

import (
	"fmt"

	"github.com/havenplan/layout/pkg/core"
	"gorm.io/gorm"
)

// Backend stores layout collections in a relational database via GORM.
type Backend struct {
	db *gorm.DB
}

// New creates a GORM-backed storage backend.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Init migrates the layout schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(&ZoneRow{}, &PierRow{}, &SlotRow{}, &BoatRow{}); err != nil {
		return fmt.Errorf("migrating layout schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// replaceAll swaps a full table's contents for the given rows atomically.
func replaceAll[T any](db *gorm.DB, rows []T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var zero T
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&zero).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (b *Backend) SaveZones(zones []core.Zone) error {
	rows := make([]ZoneRow, 0, len(zones))
	for _, z := range zones {
		row, err := zoneToRow(z)
		if err != nil {
			return fmt.Errorf("encoding zone %d: %w", z.ID, err)
		}
		rows = append(rows, row)
	}
	return replaceAll(b.db, rows)
}

func (b *Backend) SavePiers(piers []core.Pier) error {
	rows := make([]PierRow, 0, len(piers))
	for _, p := range piers {
		rows = append(rows, pierToRow(p))
	}
	return replaceAll(b.db, rows)
}

func (b *Backend) SaveSlots(slots []core.Slot) error {
	rows := make([]SlotRow, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, slotToRow(s))
	}
	return replaceAll(b.db, rows)
}

func (b *Backend) SaveBoats(boats []core.Boat) error {
	rows := make([]BoatRow, 0, len(boats))
	for _, bt := range boats {
		row, err := boatToRow(bt)
		if err != nil {
			return fmt.Errorf("encoding boat %d: %w", bt.ID, err)
		}
		rows = append(rows, row)
	}
	return replaceAll(b.db, rows)
}

// LoadLayout reads every collection back into a core.Layout.
func (b *Backend) LoadLayout() (core.Layout, error) {
	var layout core.Layout

	var zoneRows []ZoneRow
	if err := b.db.Order("id").Find(&zoneRows).Error; err != nil {
		return layout, fmt.Errorf("loading zones: %w", err)
	}
	layout.Zones = make([]core.Zone, 0, len(zoneRows))
	for _, r := range zoneRows {
		z, err := rowToZone(r)
		if err != nil {
			return layout, fmt.Errorf("decoding zone %d: %w", r.ID, err)
		}
		layout.Zones = append(layout.Zones, z)
	}

	var pierRows []PierRow
	if err := b.db.Order("id").Find(&pierRows).Error; err != nil {
		return layout, fmt.Errorf("loading piers: %w", err)
	}
	layout.Piers = make([]core.Pier, 0, len(pierRows))
	for _, r := range pierRows {
		layout.Piers = append(layout.Piers, rowToPier(r))
	}

	var slotRows []SlotRow
	if err := b.db.Order("id").Find(&slotRows).Error; err != nil {
		return layout, fmt.Errorf("loading slots: %w", err)
	}
	layout.Slots = make([]core.Slot, 0, len(slotRows))
	for _, r := range slotRows {
		layout.Slots = append(layout.Slots, rowToSlot(r))
	}

	var boatRows []BoatRow
	if err := b.db.Order("id").Find(&boatRows).Error; err != nil {
		return layout, fmt.Errorf("loading boats: %w", err)
	}
	layout.Boats = make([]core.Boat, 0, len(boatRows))
	for _, r := range boatRows {
		bt, err := rowToBoat(r)
		if err != nil {
			return layout, fmt.Errorf("decoding boat %d: %w", r.ID, err)
		}
		layout.Boats = append(layout.Boats, bt)
	}

	return layout, nil
}
