package models

import "testing"

func TestTableAddRowExtendsSchema(t *testing.T) {
	table := NewTable("name", "price")
	table.AddRow(map[string]string{"name": "a", "price": "1"})
	table.AddRow(map[string]string{"name": "b", "rating": "4.5"})

	if len(table.Headers) != 3 {
		t.Fatalf("headers: got %v, want name,price,rating", table.Headers)
	}
	if table.Headers[2] != "rating" {
		t.Errorf("new columns must append after existing ones, got %v", table.Headers)
	}
	if table.Cell(1, "price") != "" {
		t.Errorf("absent cell must read empty, got %q", table.Cell(1, "price"))
	}
}

func TestTableAppendUnions(t *testing.T) {
	a := NewTable("name", "price")
	a.AddRow(map[string]string{"name": "x", "price": "1"})

	b := NewTable("name", "rating")
	b.AddRow(map[string]string{"name": "y", "rating": "5"})

	a.Append(b)

	if a.Len() != 2 {
		t.Fatalf("rows: got %d, want 2", a.Len())
	}
	if !a.HasColumn("rating") || !a.HasColumn("price") {
		t.Errorf("schema union lost a column: %v", a.Headers)
	}
	if a.Cell(1, "name") != "y" {
		t.Errorf("appended row order broken: %q", a.Cell(1, "name"))
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(nil); got != "" {
		t.Errorf("nil price: got %q, want empty", got)
	}
	v := 15000.0
	if got := FormatPrice(&v); got != "15000" {
		t.Errorf("whole price: got %q, want 15000", got)
	}
	v = 14500.5
	if got := FormatPrice(&v); got != "14500.5" {
		t.Errorf("fractional price: got %q, want 14500.5", got)
	}
}

func TestAlertLabels(t *testing.T) {
	oldPrice, newPrice := 100.0, 90.0
	a := &Alert{Product: "p", Source: "s", OldPrice: &oldPrice, NewPrice: &newPrice}
	if a.FirstSeen() {
		t.Error("alert with old price is not first-seen")
	}
	if a.OldPriceLabel() != "100" || a.NewPriceLabel() != "90" {
		t.Errorf("labels: %q / %q", a.OldPriceLabel(), a.NewPriceLabel())
	}

	first := &Alert{Product: "p", Source: "s", NewPrice: &newPrice}
	if !first.FirstSeen() {
		t.Error("alert without old price must be first-seen")
	}
	if first.OldPriceLabel() != FirstSeenMarker {
		t.Errorf("first-seen label: got %q, want %q", first.OldPriceLabel(), FirstSeenMarker)
	}
}
