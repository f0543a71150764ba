package services

import (
	"sort"
	"strconv"

	"price-monitor/models"
	"price-monitor/storage"
	"price-monitor/utils"
)

// productKey identifies a product observation across runs.
type productKey struct {
	Name   string
	Source string
}

// Differ compares the current cleaned datasets against the persisted
// snapshot, emits alerts for every changed or first-seen price, and replaces
// the snapshot with the current state.
type Differ struct {
	logger    *utils.Logger
	snapshots storage.SnapshotReaderWriter
}

// NewDiffer creates a Differ backed by the given snapshot store.
func NewDiffer(logger *utils.Logger, snapshots storage.SnapshotReaderWriter) *Differ {
	return &Differ{logger: logger, snapshots: snapshots}
}

// Run performs one linear diff pass: load snapshot, union the cleaned tables
// into the current state, compare, persist. The snapshot is replaced
// unconditionally, even when no alert fired. Alerts keep the encounter order
// of the current rows.
func (d *Differ) Run(cleaned map[string]*models.Table) ([]*models.Alert, []models.SnapshotEntry, error) {
	previous, err := d.snapshots.Load()
	if err != nil {
		return nil, nil, err
	}
	if len(previous) == 0 {
		d.logger.Info("[differ] No previous snapshot — treating every product as first seen")
	}

	// First entry wins when the old snapshot carries duplicate keys.
	known := make(map[productKey]*float64, len(previous))
	for i := range previous {
		key := productKey{Name: previous[i].Name, Source: previous[i].Source}
		if _, dup := known[key]; !dup {
			known[key] = previous[i].Price
		}
	}

	// Union the per-product tables in sorted key order so row encounter
	// order is stable across runs.
	names := make([]string, 0, len(cleaned))
	for name := range cleaned {
		names = append(names, name)
	}
	sort.Strings(names)

	var alerts []*models.Alert
	var next []models.SnapshotEntry
	unkeyed := 0

	for _, tableName := range names {
		table := cleaned[tableName]
		for _, row := range table.Rows {
			name := row[models.ColName]
			source := row[models.ColSource]
			price := coercePrice(row[models.ColPrice])

			// Every current row feeds the next snapshot, keyed or not.
			next = append(next, models.SnapshotEntry{Name: name, Source: source, Price: price})

			if name == "" || source == "" {
				unkeyed++
				continue
			}

			old, seen := known[productKey{Name: name, Source: source}]
			switch {
			case !seen:
				alerts = append(alerts, &models.Alert{
					Product:  name,
					Source:   source,
					OldPrice: nil,
					NewPrice: price,
					URL:      row[models.ColURL],
				})
			case priceChanged(old, price):
				alerts = append(alerts, &models.Alert{
					Product:  name,
					Source:   source,
					OldPrice: old,
					NewPrice: price,
					URL:      row[models.ColURL],
				})
			}
		}
	}

	if unkeyed > 0 {
		d.logger.Warn("[differ] %d row(s) without name/source skipped from diffing", unkeyed)
	}

	if err := d.snapshots.Replace(next); err != nil {
		return nil, nil, err
	}
	d.logger.Info("[differ] Snapshot replaced: %d entries, %d alert(s)", len(next), len(alerts))

	return alerts, next, nil
}

// coercePrice converts a cleaned price cell to a nullable float; anything
// non-numeric becomes nil.
func coercePrice(cell string) *float64 {
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}

// priceChanged is the null-safe inequality over nullable prices: one side
// nil and the other not is a change, both nil is not.
func priceChanged(prev, curr *float64) bool {
	if prev == nil && curr == nil {
		return false
	}
	if prev == nil || curr == nil {
		return true
	}
	return *prev != *curr
}
