package sheet

import "sort"

// DefaultRowHeight is the height, in points, given to materialized rows
// whose neighbour carries no explicit height.
const DefaultRowHeight = 15.0

// RowMetadata is the formatting record of one row. A zero Height means the
// row has no explicit height.
type RowMetadata struct {
	Height   float64
	Style    Style
	HasStyle bool
}

// RowTable holds row metadata keyed by 1-based row number.
type RowTable struct {
	Rows map[int]RowMetadata
}

// NewRowTable creates an empty table.
func NewRowTable() RowTable {
	return RowTable{Rows: make(map[int]RowMetadata)}
}

// MaxRow returns the highest row with metadata, or 0.
func (t *RowTable) MaxRow() int {
	n := 0
	for row := range t.Rows {
		if row > n {
			n = row
		}
	}
	return n
}

// ShiftRowsBelow renumbers every record below pivot by amount. Rows are
// moved from the bottom up so no record lands on a slot that still holds
// an unmoved one.
func (t *RowTable) ShiftRowsBelow(pivot, amount int) {
	rows := make([]int, 0, len(t.Rows))
	for row := range t.Rows {
		if row > pivot {
			rows = append(rows, row)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rows)))

	for _, row := range rows {
		t.Rows[row+amount] = t.Rows[row]
		delete(t.Rows, row)
	}
}

// MaterializeRows creates count records after afterRow. Each copies the
// record right above it in the new numbering, falling back to
// DefaultRowHeight when that record has no height.
func (t *RowTable) MaterializeRows(afterRow, count int) {
	for row := afterRow + 1; row <= afterRow+count; row++ {
		md := RowMetadata{Height: DefaultRowHeight}
		if prev, ok := t.Rows[row-1]; ok {
			md = prev
			if md.Height == 0 {
				md.Height = DefaultRowHeight
			}
		}
		t.Rows[row] = md
	}
}
