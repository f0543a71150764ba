package models

// Table is an ordered, schema-flexible tabular dataset. Headers keeps the
// column order; each row maps column name to its cell value. A missing key
// and an empty string both read as a null cell.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// NewTable creates an empty table with the given column order.
func NewTable(headers ...string) *Table {
	return &Table{Headers: append([]string{}, headers...)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddRow appends a row, extending Headers with any columns not seen before
// so the table schema is always the union of its rows.
func (t *Table) AddRow(row map[string]string) {
	for col := range row {
		if !t.HasColumn(col) {
			t.Headers = append(t.Headers, col)
		}
	}
	t.Rows = append(t.Rows, row)
}

// Append row-unions another table into this one. Columns present in only
// one of the two survive; rows keep their encounter order.
func (t *Table) Append(other *Table) {
	for _, h := range other.Headers {
		if !t.HasColumn(h) {
			t.Headers = append(t.Headers, h)
		}
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// Cell returns the value at (row, column); empty string for a null cell.
func (t *Table) Cell(row int, col string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][col]
}
