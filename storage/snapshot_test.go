package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"price-monitor/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestSnapshotMissingFileIsEmpty(t *testing.T) {
	s := NewSnapshotStore(filepath.Join(t.TempDir(), "latest_prices.csv"))

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("missing snapshot must load empty, got %d entries", len(entries))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewSnapshotStore(filepath.Join(t.TempDir(), "latest_prices.csv"))

	in := []models.SnapshotEntry{
		{Name: "iphone 13", Source: "jumia", Price: floatPtr(15000)},
		{Name: "samsung s21", Source: "noon", Price: floatPtr(12000.5)},
		{Name: "no price", Source: "jumia", Price: nil},
	}
	if err := s.Replace(in); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("entries: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Name != in[i].Name || out[i].Source != in[i].Source {
			t.Errorf("entry %d: got %+v, want %+v", i, out[i], in[i])
		}
		switch {
		case in[i].Price == nil && out[i].Price != nil:
			t.Errorf("entry %d: price should be null, got %v", i, *out[i].Price)
		case in[i].Price != nil && (out[i].Price == nil || *out[i].Price != *in[i].Price):
			t.Errorf("entry %d: price got %v, want %v", i, out[i].Price, *in[i].Price)
		}
	}
}

func TestSnapshotReplaceOverwrites(t *testing.T) {
	s := NewSnapshotStore(filepath.Join(t.TempDir(), "latest_prices.csv"))

	if err := s.Replace([]models.SnapshotEntry{
		{Name: "old product", Source: "jumia", Price: floatPtr(1)},
		{Name: "kept product", Source: "noon", Price: floatPtr(2)},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace([]models.SnapshotEntry{
		{Name: "kept product", Source: "noon", Price: floatPtr(3)},
	}); err != nil {
		t.Fatal(err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("replace must drop absent products; got %d entries", len(out))
	}
	if out[0].Name != "kept product" || *out[0].Price != 3 {
		t.Errorf("got %+v", out[0])
	}
}

func TestSnapshotReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshotStore(filepath.Join(dir, "latest_prices.csv"))

	if err := s.Replace([]models.SnapshotEntry{{Name: "a", Source: "b", Price: floatPtr(1)}}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".snapshot-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("dir entries: got %d, want only the snapshot", len(entries))
	}
}

func TestTableCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")

	in := models.NewTable("name", "price")
	in.AddRow(map[string]string{"name": "iPhone 13", "price": "1,000 EGP"})
	in.AddRow(map[string]string{"name": "Samsung S21", "price": "", "rating": "4.5"})

	if err := WriteTable(path, in); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	out, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("rows: got %d, want 2", out.Len())
	}
	if !out.HasColumn("rating") {
		t.Error("schema-union column lost in round trip")
	}
	if out.Cell(0, "price") != "1,000 EGP" {
		t.Errorf("quoted cell: got %q", out.Cell(0, "price"))
	}
	if out.Cell(1, "price") != "" {
		t.Errorf("null cell: got %q", out.Cell(1, "price"))
	}
}
