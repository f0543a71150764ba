package pipeline

import (
	"time"

	"github.com/google/uuid"

	"price-monitor/combiner"
	"price-monitor/config"
	"price-monitor/models"
	"price-monitor/notifier"
	"price-monitor/services"
	"price-monitor/storage"
	"price-monitor/utils"
)

// Result is what one pipeline run produced: the emitted alerts and the
// snapshot state that was persisted, plus the run statistics.
type Result struct {
	RunID    string
	Alerts   []*models.Alert
	Snapshot []models.SnapshotEntry
	Summary  *models.RunSummary
}

// Run executes one batch pass: combine the latest raw file per
// (product, source), normalize the combined datasets, diff against the
// persisted snapshot, persist the new snapshot, and deliver the alert
// report.
//
// Dataset and snapshot I/O failures are fatal and leave the previous
// snapshot intact. Report delivery and archiving are best-effort: their
// failures are logged and the run still completes.
func Run(
	cfg *config.Config,
	logger *utils.Logger,
	note notifier.Notifier,
	archive storage.AlertArchiver,
) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger.Info("[pipeline] Run %s starting — raw dir: %s", runID, cfg.RawDir)

	comb := combiner.New(logger)
	combined, skipped, err := comb.Combine(cfg.RawDir)
	if err != nil {
		return nil, err
	}
	if err := comb.WriteCombined(combined, cfg.CombinedDir); err != nil {
		return nil, err
	}

	cleaner := services.NewCleaner(logger, cfg.CurrencyToken)
	cleaned, err := cleaner.CleanFiles(cfg.CombinedDir, cfg.CleanedDir)
	if err != nil {
		return nil, err
	}

	snapshots := storage.NewSnapshotStore(cfg.SnapshotPath)
	differ := services.NewDiffer(logger, snapshots)
	alerts, snapshot, err := differ.Run(cleaned)
	if err != nil {
		return nil, err
	}

	if len(alerts) > 0 {
		deliver(cfg, logger, note, archive, runID, alerts)
	} else {
		logger.Info("[pipeline] No price changes found")
	}

	summarySvc := services.NewSummaryService(logger)
	summary := summarySvc.Generate(runID, combined, alerts, snapshot, skipped, time.Since(start))

	logger.Info("[pipeline] Run %s done in %v", runID, summary.Duration.Round(time.Millisecond))
	return &Result{
		RunID:    runID,
		Alerts:   alerts,
		Snapshot: snapshot,
		Summary:  summary,
	}, nil
}

// deliver writes the alert report artifact, archives the alerts, and hands
// the rendered report to the notifier. The snapshot is already persisted by
// the time this runs; nothing here can roll it back.
func deliver(
	cfg *config.Config,
	logger *utils.Logger,
	note notifier.Notifier,
	archive storage.AlertArchiver,
	runID string,
	alerts []*models.Alert,
) {
	writer, err := storage.NewCSVAlertWriter(cfg.AlertCSVPath)
	if err != nil {
		logger.Error("[pipeline] Alert report create failed: %v", err)
	} else {
		if err := writer.Write(alerts); err != nil {
			logger.Error("[pipeline] Alert report write failed: %v", err)
		} else {
			logger.Info("[pipeline] Alert report saved to %s", cfg.AlertCSVPath)
		}
		_ = writer.Close()
	}

	if archive != nil {
		if err := archive.Archive(runID, alerts); err != nil {
			logger.Error("[pipeline] Alert archive failed: %v", err)
		}
	}

	if note == nil {
		logger.Warn("[pipeline] No notifier configured — skipping delivery of %d alert(s)", len(alerts))
		return
	}

	html, err := services.RenderHTML(alerts)
	if err != nil {
		logger.Error("[pipeline] Report render failed: %v", err)
		return
	}
	if err := note.Notify(cfg.AlertSubject, html); err != nil {
		logger.Error("[pipeline] Alert delivery failed: %v", err)
		return
	}
	logger.Info("[pipeline] Alert report delivered (%d alert(s))", len(alerts))
}
