// Package csvtable provides loading and cell parsing for the flat CSV
// tables the picker consumes: the candidate lineup pool and the player
// projections file.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// idPattern matches a trailing "(id)" group, e.g. "Connor McDavid (123-456)".
var idPattern = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// nonRosterLabels are pool columns that never hold a roster slot.
// Matching is done on the normalized (suffix-stripped, lowercased) label.
var nonRosterLabels = map[string]struct{}{
	"budget":       {},
	"salary":       {},
	"total":        {},
	"total salary": {},
	"fppg":         {},
	"projection":   {},
	"proj":         {},
	"points":       {},
	"score":        {},
	"rank":         {},
	"notes":        {},
	"id":           {},
	"entry id":     {},
	"contest id":   {},
}

// Table is an immutable in-memory CSV table.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Load reads a CSV file into a Table. Short rows are padded so every row
// has one cell per header; long rows are an error.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV data from r into a Table.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) > len(headers) {
			return nil, fmt.Errorf("row has %d cells, header has %d", len(rec), len(headers))
		}
		row := make([]string, len(headers))
		copy(row, rec)
		rows = append(rows, row)
	}
	return &Table{Headers: headers, Rows: rows}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell returns the trimmed cell value at (row, col).
func (t *Table) Cell(row, col int) string {
	return strings.TrimSpace(t.Rows[row][col])
}

// ColumnIndex returns the index of the first header matching name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// FirstColumn returns the index of the first header matching any of the
// given aliases, in alias order, or -1 when none match.
func (t *Table) FirstColumn(aliases ...string) int {
	for _, alias := range aliases {
		if idx := t.ColumnIndex(alias); idx >= 0 {
			return idx
		}
	}
	return -1
}

// Subset returns a new Table containing only the given rows, in order.
// Row slices are shared with the receiver.
func (t *Table) Subset(rows []int) *Table {
	out := &Table{Headers: t.Headers, Rows: make([][]string, 0, len(rows))}
	for _, idx := range rows {
		out.Rows = append(out.Rows, t.Rows[idx])
	}
	return out
}

// ExtractPlayerID pulls the player ID out of a roster cell. Cells are
// either a bare ID or "Name(id)"; without a trailing parenthesized group
// the whole trimmed cell is the ID.
func ExtractPlayerID(cell string) string {
	cell = strings.TrimSpace(cell)
	if m := idPattern.FindStringSubmatch(cell); m != nil {
		return m[1]
	}
	return cell
}

// ExtractPlayerName pulls the display name out of a "Name(id)" roster
// cell, falling back to the whole trimmed cell.
func ExtractPlayerName(cell string) string {
	cell = strings.TrimSpace(cell)
	if idx := strings.LastIndex(cell, "("); idx > 0 {
		return strings.TrimSpace(cell[:idx])
	}
	return cell
}

// NormalizeSlotLabel collapses duplicate-column suffixes like "WR.1" to "WR".
func NormalizeSlotLabel(label string) string {
	if label == "" {
		return label
	}
	if idx := strings.Index(label, "."); idx >= 0 {
		return label[:idx]
	}
	return label
}

// RosterColumns infers which columns of a lineup pool table are roster
// slots: every column whose normalized label is not a known non-roster
// label. Duplicate slot labels are expected and preserved in order.
func (t *Table) RosterColumns() []int {
	cols := make([]int, 0, len(t.Headers))
	for i, h := range t.Headers {
		label := strings.ToLower(NormalizeSlotLabel(h))
		if _, skip := nonRosterLabels[label]; skip {
			continue
		}
		if label == "" {
			continue
		}
		cols = append(cols, i)
	}
	return cols
}

// SlotLabels returns the normalized slot labels for the given columns.
func (t *Table) SlotLabels(cols []int) []string {
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = NormalizeSlotLabel(t.Headers[c])
	}
	return labels
}
