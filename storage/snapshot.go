package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"price-monitor/models"
)

// SnapshotStore persists the last-known (name, source, price) table between
// runs. A run reads it once at the start and fully overwrites it at the end.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store backed by the CSV file at path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the backing file location.
func (s *SnapshotStore) Path() string { return s.path }

// Load reads the persisted snapshot. A missing file is the first-run case
// and yields an empty snapshot, not an error.
func (s *SnapshotStore) Load() ([]models.SnapshotEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: open %q: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %q: %w", s.path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]models.SnapshotEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		e := models.SnapshotEntry{}
		if len(rec) > 0 {
			e.Name = rec[0]
		}
		if len(rec) > 1 {
			e.Source = rec[1]
		}
		if len(rec) > 2 {
			if v, err := strconv.ParseFloat(rec[2], 64); err == nil {
				price := v
				e.Price = &price
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Replace overwrites the snapshot with the given entries. The new content is
// written to a temporary file in the same directory and renamed into place,
// so a failed run never leaves a half-written snapshot behind.
func (s *SnapshotStore) Replace(entries []models.SnapshotEntry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.csv")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{models.ColName, models.ColSource, models.ColPrice}); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	for _, e := range entries {
		rec := []string{e.Name, e.Source, models.FormatPrice(e.Price)}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return fmt.Errorf("snapshot: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("snapshot: rename into place: %w", err)
	}
	return nil
}
