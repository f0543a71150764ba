package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"price-monitor/models"
	"price-monitor/storage"
	"price-monitor/utils"
)

var (
	// nameStripRegexp removes everything outside lowercase alphanumerics and spaces
	nameStripRegexp = regexp.MustCompile(`[^a-z0-9 ]`)
	// spaceRunRegexp collapses runs of whitespace
	spaceRunRegexp = regexp.MustCompile(`\s+`)
	// nonDigitRegexp removes everything that is not a digit
	nonDigitRegexp = regexp.MustCompile(`[^0-9]`)
	// discountStripRegexp removes letters and the percent sign, keeping sign and digits
	discountStripRegexp = regexp.MustCompile(`[A-Za-z%]`)
)

// Cleaner normalizes the noisy text fields of combined product tables.
// Every cleaning function is total: unparseable input yields nil, never an
// error.
type Cleaner struct {
	logger        *utils.Logger
	currencyToken string
}

// NewCleaner creates a Cleaner that strips the given currency token from
// price strings.
func NewCleaner(logger *utils.Logger, currencyToken string) *Cleaner {
	return &Cleaner{logger: logger, currencyToken: currencyToken}
}

// CleanName lowercases, strips everything outside [a-z0-9 ], collapses
// whitespace and trims. A missing value yields nil.
func (c *Cleaner) CleanName(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	name := strings.ToLower(raw)
	name = nameStripRegexp.ReplaceAllString(name, "")
	name = spaceRunRegexp.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	return &name
}

// CleanPrice strips thousands separators and the currency token, then parses
// the remainder as a float. Already-clean numerals pass through unchanged.
func (c *Cleaner) CleanPrice(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := strings.ReplaceAll(raw, ",", "")
	if c.currencyToken != "" {
		s = strings.ReplaceAll(s, c.currencyToken, "")
	}
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// CleanTotalReviews strips every non-digit character and parses the rest as
// a non-negative integer.
func (c *Cleaner) CleanTotalReviews(raw string) *int {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := nonDigitRegexp.ReplaceAllString(raw, "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// CleanDiscount strips letters and the percent sign and parses the rest as
// an integer. Only letters and "%" are removed, so a leading minus survives:
// "-15%" cleans to -15.
func (c *Cleaner) CleanDiscount(raw string) *int {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := discountStripRegexp.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// columnCleaners maps each normalizable column to its cleaner. Adding a
// field is an entry here, not new control flow.
func (c *Cleaner) columnCleaners() map[string]func(string) string {
	cleanString := func(f func(string) *string) func(string) string {
		return func(raw string) string {
			if v := f(raw); v != nil {
				return *v
			}
			return ""
		}
	}
	cleanFloat := func(f func(string) *float64) func(string) string {
		return func(raw string) string { return models.FormatPrice(f(raw)) }
	}
	cleanInt := func(f func(string) *int) func(string) string {
		return func(raw string) string {
			if v := f(raw); v != nil {
				return strconv.Itoa(*v)
			}
			return ""
		}
	}

	return map[string]func(string) string{
		models.ColName:         cleanString(c.CleanName),
		models.ColPrice:        cleanFloat(c.CleanPrice),
		models.ColOldPrice:     cleanFloat(c.CleanPrice),
		models.ColTotalReviews: cleanInt(c.CleanTotalReviews),
		models.ColDiscount:     cleanInt(c.CleanDiscount),
	}
}

// CleanTable normalizes the known columns of a table in place. Columns the
// table does not carry are left alone; no column is synthesized.
func (c *Cleaner) CleanTable(t *models.Table) {
	for col, clean := range c.columnCleaners() {
		if !t.HasColumn(col) {
			continue
		}
		for _, row := range t.Rows {
			row[col] = clean(row[col])
		}
	}
}

// CleanFiles reads every combined CSV under combinedDir, normalizes it, and
// writes the result under cleanedDir with the same filename. The cleaned
// tables are returned keyed by filename stem.
func (c *Cleaner) CleanFiles(combinedDir, cleanedDir string) (map[string]*models.Table, error) {
	matches, err := filepath.Glob(filepath.Join(combinedDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("cleaner: glob %q: %w", combinedDir, err)
	}
	sort.Strings(matches)

	cleaned := make(map[string]*models.Table, len(matches))
	for _, path := range matches {
		table, err := storage.ReadTable(path)
		if err != nil {
			return nil, err
		}
		c.CleanTable(table)

		name := filepath.Base(path)
		if err := storage.WriteTable(filepath.Join(cleanedDir, name), table); err != nil {
			return nil, err
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		cleaned[stem] = table
		c.logger.Info("[cleaner] Cleaned %s: %d rows", name, table.Len())
	}
	return cleaned, nil
}
