package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"price-monitor/models"
	"price-monitor/utils"
)

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(
	runID string,
	combined map[string]*models.Table,
	alerts []*models.Alert,
	snapshot []models.SnapshotEntry,
	filesSkipped int,
	duration time.Duration,
) *models.RunSummary {
	summary := &models.RunSummary{
		RunID:          runID,
		FilesSkipped:   filesSkipped,
		Products:       len(combined),
		SnapshotSize:   len(snapshot),
		AlertsBySource: make(map[string]int),
		Duration:       duration,
	}

	for _, table := range combined {
		summary.CombinedRows += table.Len()
	}

	for _, a := range alerts {
		if a.FirstSeen() {
			summary.FirstSeen++
		} else {
			summary.PriceChanges++
		}
		if a.Source != "" {
			summary.AlertsBySource[a.Source]++
		}
	}

	return summary
}

func (s *SummaryService) Print(r *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🔔 PRICE MONITOR RUN SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Run\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Run ID   : \033[1m%s\033[0m\n", r.RunID)
	fmt.Printf("  Duration : \033[1m%v\033[0m\n", r.Duration.Round(time.Millisecond))
	fmt.Println()

	fmt.Printf("\033[1;33m  Datasets\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Products combined  : \033[1m%d\033[0m\n", r.Products)
	fmt.Printf("  Rows combined      : \033[1m%d\033[0m\n", r.CombinedRows)
	fmt.Printf("  Files skipped      : \033[1m%d\033[0m\n", r.FilesSkipped)
	fmt.Printf("  Snapshot entries   : \033[1m%d\033[0m\n", r.SnapshotSize)
	fmt.Println()

	fmt.Printf("\033[1;33m  Alerts\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalAlerts() == 0 {
		fmt.Printf("  No price changes found\n")
	} else {
		fmt.Printf("  Price changes : \033[1;31m%d\033[0m\n", r.PriceChanges)
		fmt.Printf("  First seen    : \033[1;32m%d\033[0m\n", r.FirstSeen)

		sources := make([]string, 0, len(r.AlertsBySource))
		for src := range r.AlertsBySource {
			sources = append(sources, src)
		}
		sort.Slice(sources, func(i, j int) bool {
			return r.AlertsBySource[sources[i]] > r.AlertsBySource[sources[j]]
		})
		for _, src := range sources {
			count := r.AlertsBySource[src]
			bar := strings.Repeat("█", count)
			fmt.Printf("  %-20s %s (%d)\n", src, bar, count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
