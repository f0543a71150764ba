package models

import "time"

// RunSummary holds the computed statistics for one pipeline run.
type RunSummary struct {
	RunID          string
	FilesSkipped   int
	Products       int
	CombinedRows   int
	FirstSeen      int
	PriceChanges   int
	SnapshotSize   int
	AlertsBySource map[string]int
	Duration       time.Duration
}

// TotalAlerts is the number of alerts the run emitted.
func (r *RunSummary) TotalAlerts() int {
	return r.FirstSeen + r.PriceChanges
}
