package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"price-monitor/models"
)

// PostgresWriter archives alerts to PostgreSQL, one row per alert per run.
// Unlike the CSV report, which is overwritten each run, the archive only
// ever appends — it is the durable alert history.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_alerts (
			id         SERIAL PRIMARY KEY,
			run_id     VARCHAR(36)   NOT NULL,
			product    TEXT          NOT NULL,
			source     VARCHAR(50)   NOT NULL,
			old_price  NUMERIC(12,2),
			new_price  NUMERIC(12,2),
			url        TEXT          NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_price_alerts_run     ON price_alerts(run_id);
		CREATE INDEX IF NOT EXISTS idx_price_alerts_product ON price_alerts(product, source);
	`)
	return err
}

// Archive batch-inserts all alerts for one run.
func (pw *PostgresWriter) Archive(runID string, alerts []*models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(alerts); i += batchSize {
		end := i + batchSize
		if end > len(alerts) {
			end = len(alerts)
		}
		if err := pw.insertBatch(runID, alerts[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(runID string, batch []*models.Alert) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*6)

	for idx, a := range batch {
		base := idx * 6
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
		valueArgs = append(valueArgs,
			runID, a.Product, a.Source, nullableFloat(a.OldPrice), nullableFloat(a.NewPrice), a.URL)
	}

	query := fmt.Sprintf(`
		INSERT INTO price_alerts (run_id, product, source, old_price, new_price, url)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func nullableFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// HistoryFor retrieves the archived alerts for one (product, source) pair,
// newest first — used by the run summary when the archive is enabled.
func (pw *PostgresWriter) HistoryFor(product, source string, limit int) ([]*models.Alert, error) {
	rows, err := pw.db.Query(`
		SELECT product, source, old_price, new_price, url
		FROM price_alerts
		WHERE product = $1 AND source = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, product, source, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: history: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		a := &models.Alert{}
		var oldPrice, newPrice sql.NullFloat64
		if err := rows.Scan(&a.Product, &a.Source, &oldPrice, &newPrice, &a.URL); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if oldPrice.Valid {
			v := oldPrice.Float64
			a.OldPrice = &v
		}
		if newPrice.Valid {
			v := newPrice.Float64
			a.NewPrice = &v
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
