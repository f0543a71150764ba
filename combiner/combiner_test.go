package combiner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"price-monitor/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name        string
		wantSource  string
		wantProduct string
		wantTime    string
		wantErr     bool
	}{
		{"jumia_phone_2024-01-01_10-00.csv", "jumia", "phone", "2024-01-01T10:00:00Z", false},
		{"noon_samsung_s21_2024-01-02_09-30.csv", "noon", "samsung_s21", "2024-01-02T09:30:00Z", false},
		{"JUMIA_laptop_2024-02-29_23-59.csv", "jumia", "laptop", "2024-02-29T23:59:00Z", false},
		{"notes.csv", "", "", "", true},
		{"jumia_2024-01-01_10-00.csv", "", "", "", true},
		{"jumia_phone_2024-13-01_10-00.csv", "", "", "", true},
		{"jumia_phone_yesterday_10-00.csv", "", "", "", true},
	}

	for _, tt := range tests {
		key, err := ParseFilename(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFilename(%q): want error, got %+v", tt.name, key)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFilename(%q): %v", tt.name, err)
			continue
		}
		if key.Source != tt.wantSource {
			t.Errorf("ParseFilename(%q) source = %q; want %q", tt.name, key.Source, tt.wantSource)
		}
		if key.Product != tt.wantProduct {
			t.Errorf("ParseFilename(%q) product = %q; want %q", tt.name, key.Product, tt.wantProduct)
		}
		want, _ := time.Parse(time.RFC3339, tt.wantTime)
		if !key.CapturedAt.Equal(want) {
			t.Errorf("ParseFilename(%q) captured = %v; want %v", tt.name, key.CapturedAt, want)
		}
	}
}

func TestSelectKeepsLatestPerProductSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "jumia_phone_2024-01-01_10-00.csv", "name,price\na,1\n")
	writeFile(t, dir, "jumia_phone_2024-01-02_10-00.csv", "name,price\na,2\n")
	writeFile(t, dir, "noon_phone_2024-01-01_08-00.csv", "name,price\nb,3\n")
	writeFile(t, dir, "jumia_laptop_2024-01-01_09-00.csv", "name,price\nc,4\n")

	byProduct, skipped, err := New(newTestLogger()).Select(dir)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped: got %d, want 0", skipped)
	}
	if len(byProduct) != 2 {
		t.Fatalf("products: got %d, want 2", len(byProduct))
	}

	phone := byProduct["phone"]
	if got, want := phone["jumia"], filepath.Join(dir, "jumia_phone_2024-01-02_10-00.csv"); got != want {
		t.Errorf("phone/jumia: got %q, want %q", got, want)
	}
	if got, want := phone["noon"], filepath.Join(dir, "noon_phone_2024-01-01_08-00.csv"); got != want {
		t.Errorf("phone/noon: got %q, want %q", got, want)
	}
	if got, want := byProduct["laptop"]["jumia"], filepath.Join(dir, "jumia_laptop_2024-01-01_09-00.csv"); got != want {
		t.Errorf("laptop/jumia: got %q, want %q", got, want)
	}
}

func TestSelectTieBreakIsDeterministic(t *testing.T) {
	// Same (product, source, timestamp): only the source's spelling differs,
	// and sources are lowercased during parsing. Directory entries are walked
	// in sorted name order and a tie never replaces the incumbent, so the
	// lexicographically first filename must win.
	dir := t.TempDir()
	writeFile(t, dir, "JUMIA_phone_2024-01-01_10-00.csv", "name,price\nupper,1\n")
	writeFile(t, dir, "jumia_phone_2024-01-01_10-00.csv", "name,price\nlower,1\n")

	for i := 0; i < 5; i++ {
		byProduct, _, err := New(newTestLogger()).Select(dir)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		got := byProduct["phone"]["jumia"]
		want := filepath.Join(dir, "JUMIA_phone_2024-01-01_10-00.csv")
		if got != want {
			t.Fatalf("tie winner: got %q, want %q", got, want)
		}
	}
}

func TestSelectSkipsMalformedNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "jumia_phone_2024-01-01_10-00.csv", "name,price\na,1\n")
	writeFile(t, dir, "README.csv", "not,a,raw,file\n")
	writeFile(t, dir, "notes.txt", "ignored entirely")

	byProduct, skipped, err := New(newTestLogger()).Select(dir)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped: got %d, want 1", skipped)
	}
	if len(byProduct) != 1 {
		t.Errorf("products: got %d, want 1", len(byProduct))
	}
}

func TestCombineUnionsRowsAndSchema(t *testing.T) {
	dir := t.TempDir()
	// Latest jumia file wins; noon contributes a column jumia lacks.
	writeFile(t, dir, "jumia_phone_2024-01-01_10-00.csv",
		"name,price,source\niPhone 13,\"1,000 EGP\",jumia\n")
	writeFile(t, dir, "jumia_phone_2024-01-02_10-00.csv",
		"name,price,source\niPhone 13,\"1,200 EGP\",jumia\n")
	writeFile(t, dir, "noon_phone_2024-01-02_11-00.csv",
		"name,price,source,rating\nSamsung S21,900,noon,4.5\n")

	combined, _, err := New(newTestLogger()).Combine(dir)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	table, ok := combined["phone"]
	if !ok {
		t.Fatal("no combined table for phone")
	}
	if table.Len() != 2 {
		t.Fatalf("rows: got %d, want 2 (one per source, latest only)", table.Len())
	}
	if !table.HasColumn("rating") {
		t.Error("schema union must keep noon's rating column")
	}

	// The superseded 01-01 price must be gone.
	for i := 0; i < table.Len(); i++ {
		if table.Cell(i, "price") == "1,000 EGP" {
			t.Error("combined table contains the superseded file's row")
		}
	}
}

func TestWriteCombined(t *testing.T) {
	raw := t.TempDir()
	out := t.TempDir()
	writeFile(t, raw, "jumia_phone_2024-01-01_10-00.csv", "name,price\na,1\n")

	c := New(newTestLogger())
	combined, _, err := c.Combine(raw)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if err := c.WriteCombined(combined, out); err != nil {
		t.Fatalf("WriteCombined: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "combined_phone.csv")); err != nil {
		t.Errorf("expected combined_phone.csv: %v", err)
	}
}
