package sheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Table is a tabular input with a header row. Header names and cells are
// trimmed; rows shorter than the header read as empty cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table from raw records, the first of which is the header.
// Trailing blank rows are dropped.
func NewTable(name string, records [][]string) *Table {
	t := &Table{Name: name, index: make(map[string]int)}
	if len(records) == 0 {
		return t
	}

	t.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		t.Header[i] = strings.TrimSpace(h)
		key := normalizeHeader(h)
		if _, dup := t.index[key]; !dup && key != "" {
			t.index[key] = i
		}
	}

	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(rec))
		for i, c := range rec {
			row[i] = strings.TrimSpace(c)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Column returns the index of the first header matching any of names.
// Matching ignores case, accents and repeated whitespace.
func (t *Table) Column(names ...string) (int, bool) {
	for _, n := range names {
		if idx, ok := t.index[normalizeHeader(n)]; ok {
			return idx, true
		}
	}
	return -1, false
}

// Cell returns the trimmed cell of a data row, empty when out of range
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

func normalizeHeader(s string) string {
	// Transformers carry state, so each call builds its own chain
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
