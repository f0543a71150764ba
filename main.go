package main

import (
	"os"

	"price-monitor/config"
	"price-monitor/notifier"
	"price-monitor/pipeline"
	"price-monitor/services"
	"price-monitor/storage"
	"price-monitor/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Price Monitor starting ===")
	logger.Info("Config — raw: %s | snapshot: %s | alerts: %s | currency: %s",
		cfg.RawDir, cfg.SnapshotPath, cfg.AlertCSVPath, cfg.CurrencyToken)

	var note notifier.Notifier
	if cfg.SMTPFrom != "" && cfg.SMTPTo != "" {
		note = notifier.NewSMTPNotifier(cfg, logger)
	} else {
		logger.Warn("SMTP sender/recipient not configured — alerts will not be emailed")
	}

	var archive storage.AlertArchiver
	var pgWriter *storage.PostgresWriter
	if cfg.PostgresArchive {
		pw, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pw.Close()
		pgWriter = pw
		archive = pw
	}

	result, err := pipeline.Run(cfg, logger, note, archive)
	if err != nil {
		logger.Error("Pipeline run failed: %v", err)
		os.Exit(1)
	}

	summarySvc := services.NewSummaryService(logger)
	summarySvc.Print(result.Summary)

	if pgWriter != nil {
		for i, a := range result.Alerts {
			if i >= 3 {
				break
			}
			history, err := pgWriter.HistoryFor(a.Product, a.Source, 10)
			if err != nil {
				logger.Warn("Archive lookup failed for %s/%s: %v", a.Product, a.Source, err)
				continue
			}
			logger.Info("Archive: %d recorded change(s) for %s on %s", len(history), a.Product, a.Source)
		}
	}
}
