// Package workbook moves worksheets between an excelize file and the
// in-memory sheet model, so structural edits can be made on the model and
// written back.
package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"qt-verify/internal/logger"
	"qt-verify/internal/sheet"

	"github.com/xuri/excelize/v2"
)

// Load reads the named sheet of f into a worksheet model. Empty cells that
// carry a style are kept so the template formatting survives a round trip.
func Load(f *excelize.File, name string) (*sheet.Worksheet, error) {
	if idx, err := f.GetSheetIndex(name); err != nil || idx == -1 {
		return nil, fmt.Errorf("sheet %q not found", name)
	}

	maxRow, maxCol, err := Dimensions(f, name)
	if err != nil {
		return nil, err
	}

	ws := sheet.NewWorksheet(name)
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			cell, err := readCell(f, name, col, row)
			if err != nil {
				return nil, err
			}
			if cell != nil {
				ws.SetCell(sheet.Coord{Row: row, Col: col}, cell)
			}
		}

		height, err := f.GetRowHeight(name, row)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d height: %w", name, row, err)
		}
		if height != sheet.DefaultRowHeight {
			ws.SetRow(row, sheet.RowMetadata{Height: height})
		}
	}

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return nil, fmt.Errorf("sheet %q merged cells: %w", name, err)
	}
	for _, mc := range merges {
		ws.Merge(mc.GetStartAxis() + ":" + mc.GetEndAxis())
	}

	logger.Debug("Loaded sheet '%s': %d cells, %d rows with metadata, %d merges",
		name, len(ws.Cells.Cells), len(ws.Rows.Rows), len(ws.Merges.Regions))
	return ws, nil
}

// Save writes ws into the sheet of the same name in f, replacing its
// cells, row heights and merged regions.
func Save(f *excelize.File, ws *sheet.Worksheet) error {
	name := ws.Name
	if err := resetStale(f, ws); err != nil {
		return err
	}

	for _, at := range ws.Cells.Coords() {
		cell := ws.Cells.Cells[at]
		axis := at.String()

		if cell.IsFormula() {
			var opts []excelize.FormulaOpts
			if fa, ok := ws.Cells.Attributes[at]; ok && fa.Type != "" {
				fo := excelize.FormulaOpts{Type: &fa.Type}
				if fa.Ref != "" {
					fo.Ref = &fa.Ref
				}
				opts = append(opts, fo)
			}
			formula := strings.TrimPrefix(cell.Formula, sheet.FormulaMarker)
			if err := f.SetCellFormula(name, axis, formula, opts...); err != nil {
				return fmt.Errorf("write formula %s!%s: %w", name, axis, err)
			}
		} else if err := f.SetCellValue(name, axis, cell.Value); err != nil {
			return fmt.Errorf("write value %s!%s: %w", name, axis, err)
		}

		if err := f.SetCellStyle(name, axis, axis, cell.Style.ID); err != nil {
			return fmt.Errorf("write style %s!%s: %w", name, axis, err)
		}
	}

	for row, md := range ws.Rows.Rows {
		if md.Height > 0 {
			if err := f.SetRowHeight(name, row, md.Height); err != nil {
				return fmt.Errorf("sheet %q row %d height: %w", name, row, err)
			}
		}
		if md.HasStyle {
			if err := f.SetRowStyle(name, row, row, md.Style.ID); err != nil {
				return fmt.Errorf("sheet %q row %d style: %w", name, row, err)
			}
		}
	}

	for _, m := range ws.Merges.Regions {
		parts := strings.SplitN(m.Ref, ":", 2)
		if len(parts) == 1 {
			continue
		}
		if err := f.MergeCell(name, parts[0], parts[1]); err != nil {
			return fmt.Errorf("merge %s!%s: %w", name, m.Ref, err)
		}
	}

	logger.Debug("Saved sheet '%s': %d cells, %d merges", name, len(ws.Cells.Cells), len(ws.Merges.Regions))
	return nil
}

// Edit loads a sheet, applies fn to the model and writes it back. Nothing
// is written when fn fails.
func Edit(f *excelize.File, name string, fn func(ws *sheet.Worksheet) error) error {
	ws, err := Load(f, name)
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	return Save(f, ws)
}

// resetStale removes merges, stale cells and stale row heights that the model
// no longer has.
func resetStale(f *excelize.File, ws *sheet.Worksheet) error {
	name := ws.Name

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return fmt.Errorf("sheet %q merged cells: %w", name, err)
	}
	for _, mc := range merges {
		if err := f.UnmergeCell(name, mc.GetStartAxis(), mc.GetEndAxis()); err != nil {
			return fmt.Errorf("unmerge %s!%s: %w", name, mc.GetStartAxis(), err)
		}
	}

	maxRow, maxCol, err := Dimensions(f, name)
	if err != nil {
		return err
	}
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			at := sheet.Coord{Row: row, Col: col}
			if ws.Cell(at) != nil {
				continue
			}
			axis := at.String()
			if err := f.SetCellFormula(name, axis, ""); err != nil {
				return err
			}
			if err := f.SetCellValue(name, axis, nil); err != nil {
				return err
			}
			if err := f.SetCellStyle(name, axis, axis, 0); err != nil {
				return err
			}
		}

		if _, ok := ws.Rows.Rows[row]; ok {
			continue
		}
		height, err := f.GetRowHeight(name, row)
		if err != nil {
			return err
		}
		if height != sheet.DefaultRowHeight {
			if err := f.SetRowHeight(name, row, sheet.DefaultRowHeight); err != nil {
				return err
			}
		}
	}
	return nil
}

// Dimensions returns the last row and column worth visiting: the recorded
// sheet dimension, widened by the cell values and merged regions actually
// present.
func Dimensions(f *excelize.File, name string) (maxRow, maxCol int, err error) {
	if dim, err := f.GetSheetDimension(name); err == nil && dim != "" {
		parts := strings.Split(dim, ":")
		if col, row, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil {
			maxRow, maxCol = row, col
		}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return 0, 0, fmt.Errorf("sheet %q rows: %w", name, err)
	}
	maxRow = max(maxRow, len(rows))
	for _, r := range rows {
		maxCol = max(maxCol, len(r))
	}

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return 0, 0, fmt.Errorf("sheet %q merged cells: %w", name, err)
	}
	for _, mc := range merges {
		if col, row, err := excelize.CellNameToCoordinates(mc.GetEndAxis()); err == nil {
			maxRow = max(maxRow, row)
			maxCol = max(maxCol, col)
		}
	}
	return maxRow, maxCol, nil
}

// readCell returns the model cell at (col, row), or nil when the cell has
// no value, formula or style.
func readCell(f *excelize.File, name string, col, row int) (*sheet.Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	formula, err := f.GetCellFormula(name, axis)
	if err != nil {
		return nil, fmt.Errorf("read formula %s!%s: %w", name, axis, err)
	}
	styleID, err := f.GetCellStyle(name, axis)
	if err != nil {
		return nil, fmt.Errorf("read style %s!%s: %w", name, axis, err)
	}
	value, err := Value(f, name, axis)
	if err != nil {
		return nil, err
	}
	if formula == "" && value == nil && styleID == 0 {
		return nil, nil
	}

	cell := &sheet.Cell{Value: value, Style: sheet.Style{ID: styleID}}
	if formula != "" {
		cell.Formula = sheet.FormulaMarker + formula
	}
	return cell, nil
}

// Value returns the typed value of a cell: bool, int, float64 or string,
// or nil when the cell is empty.
func Value(f *excelize.File, name, axis string) (any, error) {
	raw, err := f.GetCellValue(name, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read value %s!%s: %w", name, axis, err)
	}
	if raw == "" {
		return nil, nil
	}

	typ, err := f.GetCellType(name, axis)
	if err != nil {
		return nil, fmt.Errorf("read type %s!%s: %w", name, axis, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1", nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw, nil
	default:
		return ParseNumber(raw), nil
	}
}

// ParseNumber converts s to an int or float64 when it is numeric and
// returns it unchanged otherwise.
func ParseNumber(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
