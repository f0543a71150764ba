package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"price-monitor/models"
)

// CSVAlertWriter writes the alert report artifact to a CSV file.
// It is safe for concurrent use.
type CSVAlertWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVAlertWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVAlertWriter(path string) (*CSVAlertWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{"Product", "Source", "Old Price", "New Price", "URL"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVAlertWriter{file: f, writer: w}, nil
}

// Write appends the given alerts in order.
func (c *CSVAlertWriter) Write(alerts []*models.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range alerts {
		row := []string{
			a.Product,
			a.Source,
			a.OldPriceLabel(),
			a.NewPriceLabel(),
			a.URL,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVAlertWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
