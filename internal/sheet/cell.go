package sheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FormulaMarker starts the text of every formula cell.
const FormulaMarker = "="

// Coord is a 1-based (row, column) cell coordinate.
type Coord struct {
	Row int
	Col int
}

// String returns the A1-style name of the coordinate.
func (c Coord) String() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", c.Row, c.Col)
	}
	return name
}

// ParseCoord converts an A1-style cell name ("$B$7" is accepted) to a Coord.
func ParseCoord(name string) (Coord, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(name, "$", ""))
	if err != nil {
		return Coord{}, err
	}
	return Coord{Row: row, Col: col}, nil
}

// Style is an opaque handle to a cell's number format, font, alignment,
// border and fill. It is the excelize style index of the owning workbook.
type Style struct {
	ID int
}

// Cell is the content of one coordinate. A formula cell keeps its text,
// marker included, in Formula; Value then holds the last cached result, if any.
type Cell struct {
	Value   any
	Formula string
	Style   Style
}

// IsFormula reports whether the cell holds a formula.
func (c *Cell) IsFormula() bool {
	return strings.HasPrefix(c.Formula, FormulaMarker)
}

// FormulaAttributes describes shared or array formula grouping of a cell.
// Ref, when set, is the range the group covers.
type FormulaAttributes struct {
	Type string
	Ref  string
}

// CellStore is the sparse mapping from coordinate to cell, together with
// the formula attributes keyed by the same coordinates.
type CellStore struct {
	Cells      map[Coord]*Cell
	Attributes map[Coord]FormulaAttributes
}

// NewCellStore creates an empty store.
func NewCellStore() CellStore {
	return CellStore{
		Cells:      make(map[Coord]*Cell),
		Attributes: make(map[Coord]FormulaAttributes),
	}
}

// MaxRow returns the highest occupied row, or 0 when the store is empty.
func (s *CellStore) MaxRow() int {
	n := 0
	for c := range s.Cells {
		if c.Row > n {
			n = c.Row
		}
	}
	return n
}

// MaxColumn returns the highest occupied column, or 0 when the store is empty.
func (s *CellStore) MaxColumn() int {
	n := 0
	for c := range s.Cells {
		if c.Col > n {
			n = c.Col
		}
	}
	return n
}

// Coords returns the occupied coordinates in row-major order.
func (s *CellStore) Coords() []Coord {
	coords := make([]Coord, 0, len(s.Cells))
	for c := range s.Cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// ShiftRowsBelow moves every cell below pivot down by amount and rewrites
// all formula text and attribute ranges accordingly. The new mapping is
// built completely before it replaces the old one, so the store is left
// unchanged when an error is returned.
func (s *CellStore) ShiftRowsBelow(pivot, amount int) error {
	shift := func(c Coord) Coord {
		if c.Row > pivot {
			c.Row += amount
		}
		return c
	}

	cells := make(map[Coord]*Cell, len(s.Cells))
	for coord, cell := range s.Cells {
		moved := *cell
		if moved.IsFormula() {
			moved.Formula = ShiftRowReferences(moved.Formula, pivot, amount)
		}
		dst := shift(coord)
		if _, taken := cells[dst]; taken {
			return fmt.Errorf("%w: two cells shifted onto %s", ErrInconsistentMetadata, dst)
		}
		cells[dst] = &moved
	}

	attrs := make(map[Coord]FormulaAttributes, len(s.Attributes))
	for coord, fa := range s.Attributes {
		dst := shift(coord)
		if _, ok := cells[dst]; !ok {
			return fmt.Errorf("%w: formula attributes of %s have no cell at %s", ErrInconsistentMetadata, coord, dst)
		}
		if fa.Ref != "" {
			fa.Ref = ShiftRowReferences(fa.Ref, pivot, amount)
		}
		attrs[dst] = fa
	}

	s.Cells = cells
	s.Attributes = attrs
	return nil
}

// MaterializeBlankRows creates count empty cells in every column directly
// below afterRow. The style source of a column is the cell right under the
// new block. With propagateFormula, a formula in the style source is copied
// into the new cells with its relative rows moved to the new position.
func (s *CellStore) MaterializeBlankRows(afterRow, count int, copyStyle, propagateFormula bool) {
	cols := s.MaxColumn()
	if cols < 1 {
		cols = 1
	}

	for col := 1; col <= cols; col++ {
		src := Coord{Row: afterRow + count + 1, Col: col}
		source := s.Cells[src]

		for i := 1; i <= count; i++ {
			at := Coord{Row: afterRow + i, Col: col}
			cell := &Cell{}
			if source != nil {
				if copyStyle {
					cell.Style = source.Style
				}
				if propagateFormula && source.IsFormula() {
					cell.Formula = OffsetRelativeRows(source.Formula, at.Row-src.Row)
					// Shared-formula masters (those with a Ref) stay unique.
					if fa, ok := s.Attributes[src]; ok && fa.Ref == "" {
						s.Attributes[at] = fa
					}
				}
			}
			s.Cells[at] = cell
		}
	}
}
