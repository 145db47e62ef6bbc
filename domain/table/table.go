package table

import (
	"fmt"
	"strings"
)

// Kind is the inferred primitive kind of a column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindText        Kind = "text"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
)

// Column is a named sequence of cells of one kind
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// IsTextual reports whether the column holds labels (text or categorical)
func (c Column) IsTextual() bool {
	return c.Kind == KindText || c.Kind == KindCategorical
}

// NullCount returns the number of missing cells
func (c Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// NonNull returns the non-missing cells in row order
func (c Column) NonNull() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsNull() {
			out = append(out, v)
		}
	}
	return out
}

// Floats returns the non-missing numeric payloads in row order
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Distinct returns the number of distinct non-missing cells
func (c Column) Distinct() int {
	seen := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		seen[v.Key()] = struct{}{}
	}
	return len(seen)
}

// Record is one row keyed by column name
type Record map[string]interface{}

// Table is an immutable rectangular dataset. Build it with New; nothing in
// this module writes to a Table after construction.
type Table struct {
	columns []Column
	rows    int
}

// New builds a table from columns of equal length with unique names. Cell
// slices are copied so later changes by the caller do not reach the table.
func New(columns ...Column) (*Table, error) {
	t := &Table{columns: make([]Column, 0, len(columns))}
	seen := make(map[string]struct{}, len(columns))

	for i, col := range columns {
		if _, dup := seen[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = struct{}{}

		if i == 0 {
			t.rows = len(col.Values)
		} else if len(col.Values) != t.rows {
			return nil, fmt.Errorf("column %q has %d values, expected %d", col.Name, len(col.Values), t.rows)
		}

		switch col.Kind {
		case KindNumeric, KindText, KindDatetime, KindCategorical:
		default:
			return nil, fmt.Errorf("column %q has unknown kind %q", col.Name, col.Kind)
		}

		values := make([]Value, len(col.Values))
		copy(values, col.Values)
		t.columns = append(t.columns, Column{Name: col.Name, Kind: col.Kind, Values: values})
	}

	return t, nil
}

// MustNew is New for fixtures; it panics on invalid input
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count
func (t *Table) NumRows() int {
	return t.rows
}

// NumCols returns the column count
func (t *Table) NumCols() int {
	return len(t.columns)
}

// Columns returns the columns in order. Callers must treat the cells as read-only.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the i-th column
func (t *Table) Column(i int) Column {
	return t.columns[i]
}

// Row returns the i-th row as a record of plain values
func (t *Table) Row(i int) Record {
	rec := make(Record, len(t.columns))
	for _, col := range t.columns {
		rec[col.Name] = col.Values[i].Interface()
	}
	return rec
}

// String summarises the shape, mostly for logs
func (t *Table) String() string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return fmt.Sprintf("table[%d rows x %d cols: %s]", t.rows, len(t.columns), strings.Join(names, ","))
}

// Convenience constructors used by loaders and fixtures.

// NumericColumn builds a numeric column; nil entries are nulls
func NumericColumn(name string, values ...*float64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		if v != nil {
			cells[i] = Number(*v)
		}
	}
	return Column{Name: name, Kind: KindNumeric, Values: cells}
}

// Floats64 builds a fully populated numeric column
func Floats64(name string, values ...float64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = Number(v)
	}
	return Column{Name: name, Kind: KindNumeric, Values: cells}
}

// TextColumn builds a text column; nil entries are nulls
func TextColumn(name string, values ...*string) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		if v != nil {
			cells[i] = String(*v)
		}
	}
	return Column{Name: name, Kind: KindText, Values: cells}
}

// Strings builds a fully populated text column
func Strings(name string, values ...string) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = String(v)
	}
	return Column{Name: name, Kind: KindText, Values: cells}
}

// F and S return pointers for the nullable constructors
func F(f float64) *float64 { return &f }
func S(s string) *string    { return &s }
