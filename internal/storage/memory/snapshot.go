// internal/storage/memory/snapshot.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/havenplan/layout/pkg/core"
)

const (
	snapshotName     = "layout.json"
	snapshotNameGzip = "layout.json.gz"
)

// snapshotPath returns the on-disk location for the current settings.
func (b *Backend) snapshotPath() string {
	name := snapshotName
	if b.cfg.CompressOutput {
		name = snapshotNameGzip
	}
	return filepath.Join(b.cfg.OutputDir, name)
}

// writeSnapshot persists the current collections. Caller holds the lock.
func (b *Backend) writeSnapshot() error {
	layout := core.Layout{
		Zones: b.zones,
		Piers: b.piers,
		Slots: b.slots,
		Boats: b.boats,
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := b.snapshotPath()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gzWriter := gzip.NewWriter(f)
		defer gzWriter.Close()
		if err := json.NewEncoder(gzWriter).Encode(layout); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
	} else {
		encoder := json.NewEncoder(f)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(layout); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
	}

	b.lastSnapshotPath = path
	return nil
}

// readSnapshot loads a previously written snapshot. found is false when no
// snapshot file exists yet.
func (b *Backend) readSnapshot() (layout core.Layout, found bool, err error) {
	path := b.snapshotPath()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout, false, nil
		}
		return layout, false, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return layout, false, fmt.Errorf("failed to read snapshot gzip header: %w", err)
		}
		defer gzReader.Close()
		if err := json.NewDecoder(gzReader).Decode(&layout); err != nil {
			return layout, false, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	} else {
		if err := json.NewDecoder(f).Decode(&layout); err != nil {
			return layout, false, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	}

	b.lastSnapshotPath = path
	return layout, true, nil
}
