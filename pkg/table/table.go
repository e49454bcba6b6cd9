package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the column type inferred from cell content.
type Kind string

const (
	KindEmpty  Kind = "empty"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "string"
)

var ErrMissingColumn = errors.New("missing required column")

// Table is an in-memory delimited table. Cells are kept as the text that was
// read; empty cells are treated as missing values.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"-"`

	// Encoding is the name of the text encoding used to decode the source.
	Encoding string `json:"encoding,omitempty"`

	index map[string]int
}

// New creates a table from a header and rows. Rows shorter than the header
// are padded with empty cells. A repeated column name gets a ".N" suffix.
func New(columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		Columns: make([]string, 0, len(columns)),
		Rows:    make([][]string, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}

	seen := make(map[string]int, len(columns))
	for _, name := range columns {
		c := name
		for t.Has(c) {
			seen[name]++
			c = fmt.Sprintf("%s.%d", name, seen[name])
		}
		t.index[c] = len(t.Columns)
		t.Columns = append(t.Columns, c)
	}

	for i, r := range rows {
		if len(r) > len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(r), len(columns))
		}
		row := make([]string, len(columns))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// HasAll reports whether the table has every one of the named columns.
func (t *Table) HasAll(cols ...string) bool {
	for _, c := range cols {
		if !t.Has(c) {
			return false
		}
	}
	return true
}

// Require returns an error wrapping ErrMissingColumn for the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// Value returns the cell of the named column in row i, or an empty string
// when the column does not exist.
func (t *Table) Value(i int, col string) string {
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.Rows[i][idx]
}

// Values returns a copy of the named column.
func (t *Table) Values(col string) []string {
	out := make([]string, t.Len())
	idx, ok := t.index[col]
	if !ok {
		return out
	}
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// SetColumn writes values into the named column, appending the column when
// it does not exist yet.
func (t *Table) SetColumn(col string, values []string) error {
	if len(values) != t.Len() {
		return fmt.Errorf("column %s has %d values, table has %d rows", col, len(values), t.Len())
	}

	idx, ok := t.index[col]
	if !ok {
		idx = len(t.Columns)
		t.index[col] = idx
		t.Columns = append(t.Columns, col)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], "")
		}
	}

	for i, v := range values {
		t.Rows[i][idx] = v
	}
	return nil
}

// missingTokens are cell values read as missing, in addition to blanks.
var missingTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsMissing reports whether a cell holds no value.
func IsMissing(v string) bool {
	return strings.TrimSpace(v) == "" || missingTokens[v]
}

// Kind infers the column type from its non-empty cells.
func (t *Table) Kind(col string) Kind {
	idx, ok := t.index[col]
	if !ok {
		return KindEmpty
	}

	kind := KindEmpty
	for _, r := range t.Rows {
		v := strings.TrimSpace(r[idx])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			if kind == KindEmpty {
				kind = KindInt
			}
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			kind = KindFloat
			continue
		}
		return KindString
	}
	return kind
}

// Kinds returns the inferred kind of every column keyed by column name.
func (t *Table) Kinds() map[string]Kind {
	m := make(map[string]Kind, len(t.Columns))
	for _, c := range t.Columns {
		m[c] = t.Kind(c)
	}
	return m
}
