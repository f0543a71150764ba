package combiner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"price-monitor/models"
	"price-monitor/storage"
	"price-monitor/utils"
)

// timestampLayout is the capture-time format embedded in raw filenames.
const timestampLayout = "2006-01-02_15-04"

// FileKey identifies one raw scrape file: which source harvested which
// product, and when.
type FileKey struct {
	Source     string
	Product    string
	CapturedAt time.Time
}

// ParseFilename splits a raw filename of the form
// <source>_<product-tokens>_<YYYY-MM-DD>_<HH-MM>.csv into its key.
// The product may itself contain underscores; the last two tokens are
// always the capture date and time.
func ParseFilename(name string) (FileKey, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 4 {
		return FileKey{}, fmt.Errorf("combiner: filename %q: want <source>_<product>_<date>_<time>", name)
	}

	ts, err := time.Parse(timestampLayout, parts[len(parts)-2]+"_"+parts[len(parts)-1])
	if err != nil {
		return FileKey{}, fmt.Errorf("combiner: filename %q: bad capture timestamp: %w", name, err)
	}

	return FileKey{
		Source:     strings.ToLower(parts[0]),
		Product:    strings.Join(parts[1:len(parts)-2], "_"),
		CapturedAt: ts,
	}, nil
}

// Combiner groups raw scrape files by (product, source), keeps the latest
// capture per group, and row-unions each product's sources into one table.
type Combiner struct {
	logger *utils.Logger
}

// New creates a Combiner with the given logger.
func New(logger *utils.Logger) *Combiner {
	return &Combiner{logger: logger}
}

// selected is one winning file per (product, source) group.
type selected struct {
	path string
	key  FileKey
}

// Select scans dir and returns, per product, the path of the most recent
// file for each source. Files whose names do not parse are skipped with a
// warning. Directory entries are walked in sorted name order and a newer
// file replaces the incumbent only on a strictly later capture timestamp,
// so the winner of a timestamp tie is deterministic.
func (c *Combiner) Select(dir string) (map[string]map[string]string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("combiner: read dir %q: %w", dir, err)
	}

	skipped := 0
	byProduct := make(map[string]map[string]selected)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		key, err := ParseFilename(entry.Name())
		if err != nil {
			c.logger.Warn("[combiner] Skipping unrecognized file: %v", err)
			skipped++
			continue
		}

		sources, ok := byProduct[key.Product]
		if !ok {
			sources = make(map[string]selected)
			byProduct[key.Product] = sources
		}

		path := filepath.Join(dir, entry.Name())
		incumbent, ok := sources[key.Source]
		if !ok || key.CapturedAt.After(incumbent.key.CapturedAt) {
			sources[key.Source] = selected{path: path, key: key}
		}
	}

	result := make(map[string]map[string]string, len(byProduct))
	for product, sources := range byProduct {
		paths := make(map[string]string, len(sources))
		for source, sel := range sources {
			paths[source] = sel.path
		}
		result[product] = paths
	}
	return result, skipped, nil
}

// Combine selects the latest file per (product, source) and concatenates
// each product's sources into one combined table (row union, schema union).
// A selected file that fails to load is fatal to the run.
func (c *Combiner) Combine(dir string) (map[string]*models.Table, int, error) {
	byProduct, skipped, err := c.Select(dir)
	if err != nil {
		return nil, skipped, err
	}

	combined := make(map[string]*models.Table, len(byProduct))
	for product, sources := range byProduct {
		names := make([]string, 0, len(sources))
		for source := range sources {
			names = append(names, source)
		}
		sort.Strings(names)

		table := models.NewTable()
		for _, source := range names {
			t, err := storage.ReadTable(sources[source])
			if err != nil {
				return nil, skipped, fmt.Errorf("combiner: product %q source %q: %w", product, source, err)
			}
			table.Append(t)
		}

		combined[product] = table
		c.logger.Info("[combiner] Combined %d source file(s) for %q: %d rows", len(names), product, table.Len())
	}
	return combined, skipped, nil
}

// WriteCombined materializes each combined table as combined_<product>.csv
// under dir, mirroring the layout downstream tools expect.
func (c *Combiner) WriteCombined(combined map[string]*models.Table, dir string) error {
	for product, table := range combined {
		path := filepath.Join(dir, "combined_"+product+".csv")
		if err := storage.WriteTable(path, table); err != nil {
			return err
		}
	}
	return nil
}
