package sheet

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// Worksheet is the in-memory document model of one sheet: sparse cells,
// row metadata and merged regions.
type Worksheet struct {
	Name   string
	Cells  CellStore
	Rows   RowTable
	Merges MergeSet
}

// NewWorksheet creates an empty worksheet.
func NewWorksheet(name string) *Worksheet {
	return &Worksheet{
		Name:  name,
		Cells: NewCellStore(),
		Rows:  NewRowTable(),
	}
}

// Cell returns the cell at c, or nil when the coordinate is empty.
func (ws *Worksheet) Cell(c Coord) *Cell {
	return ws.Cells.Cells[c]
}

// SetCell stores cell at c, replacing whatever was there.
func (ws *Worksheet) SetCell(c Coord, cell *Cell) {
	if ws.Cells.Cells == nil {
		ws.Cells = NewCellStore()
	}
	ws.Cells.Cells[c] = cell
}

// SetValue stores a literal at c, keeping the style of an existing cell.
// Formula attributes of a replaced formula are dropped.
func (ws *Worksheet) SetValue(c Coord, v any) {
	cell := &Cell{Value: v}
	if old := ws.Cell(c); old != nil {
		cell.Style = old.Style
	}
	ws.SetCell(c, cell)
	delete(ws.Cells.Attributes, c)
}

// SetFormula stores a formula at c. The formula marker is added when missing.
func (ws *Worksheet) SetFormula(c Coord, formula string) {
	if len(formula) < len(FormulaMarker) || formula[:len(FormulaMarker)] != FormulaMarker {
		formula = FormulaMarker + formula
	}
	cell := &Cell{Formula: formula}
	if old := ws.Cell(c); old != nil {
		cell.Style = old.Style
	}
	ws.SetCell(c, cell)
}

// SetRow records metadata for row.
func (ws *Worksheet) SetRow(row int, md RowMetadata) {
	if ws.Rows.Rows == nil {
		ws.Rows = NewRowTable()
	}
	ws.Rows.Rows[row] = md
}

// Merge adds a merged region given as a range string.
func (ws *Worksheet) Merge(ref string) {
	ws.Merges.Regions = append(ws.Merges.Regions, MergeRegion{Ref: ref})
}

// MaxRow returns the highest occupied row. Like the dimension of an empty
// sheet ("A1"), it is never below 1.
func (ws *Worksheet) MaxRow() int {
	if n := ws.Cells.MaxRow(); n > 1 {
		return n
	}
	return 1
}

// MaxColumn returns the highest occupied column, never below 1.
func (ws *Worksheet) MaxColumn() int {
	if n := ws.Cells.MaxColumn(); n > 1 {
		return n
	}
	return 1
}

// Clone returns a deep copy of the worksheet.
func (ws *Worksheet) Clone() (*Worksheet, error) {
	var out Worksheet
	if err := deepcopy.Copy(&out, ws); err != nil {
		return nil, fmt.Errorf("copy worksheet %q: %w", ws.Name, err)
	}
	if out.Cells.Cells == nil {
		out.Cells.Cells = make(map[Coord]*Cell)
	}
	if out.Cells.Attributes == nil {
		out.Cells.Attributes = make(map[Coord]FormulaAttributes)
	}
	if out.Rows.Rows == nil {
		out.Rows.Rows = make(map[int]RowMetadata)
	}
	return &out, nil
}

// Validate checks the invariants the insertion engine relies on: every
// formula attribute belongs to an existing cell, and merge regions are
// well-formed and disjoint.
func (ws *Worksheet) Validate() error {
	for c := range ws.Cells.Attributes {
		if _, ok := ws.Cells.Cells[c]; !ok {
			return fmt.Errorf("%w: formula attributes at %s without a cell", ErrInconsistentMetadata, c)
		}
	}
	return ws.Merges.Validate()
}
