package storage

import "price-monitor/models"

// AlertWriter is the interface any alert report sink must satisfy.
type AlertWriter interface {
	Write(alerts []*models.Alert) error
	Close() error
}

// AlertArchiver persists alerts durably across runs, keyed by run ID.
type AlertArchiver interface {
	Archive(runID string, alerts []*models.Alert) error
	Close() error
}

// SnapshotReaderWriter is the persisted last-known-price state boundary.
type SnapshotReaderWriter interface {
	Load() ([]models.SnapshotEntry, error)
	Replace(entries []models.SnapshotEntry) error
}
