package report

import (
	"qt-verify/internal/logs"
	"qt-verify/internal/workbook"

	"github.com/xuri/excelize/v2"
)

// Column layout of the CSV log comparison sheet: the new log goes to D:I,
// the previous one is kept in K:P, A:Q is the gray background from row 16.
const (
	csvNewFirstCol  = 4  // D
	csvNewLastCol   = 9  // I
	csvPrevFirstCol = 11 // K
	csvPrevLastCol  = 16 // P
	csvBackLastCol  = 17 // Q
	csvBackFirstRow = 16
	csvDataFirstRow = 4
)

// --- Step 3: CSV log comparison ---

// writeCSVLog moves the previous log to the right-hand section and writes
// the new CSV log into the left-hand one. Each log ends with its "total
// test time" row.
func (b *Builder) writeCSVLog() error {
	name := b.cfg.Sheets.CSVLogComparison
	s := b.styler

	maxRow, _, err := workbook.Dimensions(b.file, name)
	if err != nil {
		return err
	}

	// Empty the right-hand section; without a previous total row it ends at row 5
	last := 5
	row, found, err := b.lastRowWhere(name, Area{csvPrevFirstCol, 1, csvPrevLastCol, maxRow}, isTotalTestTime)
	if err != nil {
		return err
	}
	if found {
		last = row
		prev := Area{csvPrevFirstCol, csvDataFirstRow, csvPrevLastCol, last}
		if err := b.clearValues(name, prev); err != nil {
			return err
		}
		if err := s.ClearBorder(name, prev); err != nil {
			return err
		}
	}

	rowCount := len(b.inputs.CSVLog)
	backLastRow := max(last, rowCount+3) + b.cfg.Layout.MarginBottomRows
	if err := s.Fill(name, Area{1, csvBackFirstRow, csvBackLastCol, backLastRow}, ColorGray); err != nil {
		return err
	}
	maxRow = max(maxRow, backLastRow)

	// Move the current left-hand log to the right
	row, found, err = b.lastRowWhere(name, Area{csvNewFirstCol, 1, csvNewLastCol, maxRow}, isTotalTestTime)
	if err != nil {
		return err
	}
	if found {
		last = row
	}
	current := Area{csvNewFirstCol, csvDataFirstRow, csvNewLastCol, last}
	block, err := b.take(name, current)
	if err != nil {
		return err
	}
	if err := s.ClearBorder(name, current); err != nil {
		return err
	}
	if err := s.Fill(name, current, ColorGray); err != nil {
		return err
	}

	moved := Area{csvPrevFirstCol, csvDataFirstRow, csvPrevLastCol, last}
	if err := b.put(name, csvPrevFirstCol, csvDataFirstRow, block); err != nil {
		return err
	}
	if err := s.Fill(name, moved, ColorWhite); err != nil {
		return err
	}

	header, err := workbook.Value(b.file, name, "D2")
	if err != nil {
		return err
	}
	if err := b.file.SetCellValue(name, "K2", header); err != nil {
		return err
	}

	movedTotal := Area{csvPrevFirstCol, last, csvPrevLastCol, last}
	borders := []struct {
		area  Area
		inner bool
		color string
	}{
		{Area{csvPrevFirstCol, 2, csvPrevLastCol, 2}, true, ColorBlack},
		{Area{csvPrevFirstCol, 3, csvPrevLastCol, 3}, true, ColorBlack},
		{Area{csvPrevFirstCol, csvDataFirstRow, csvPrevLastCol, last - 1}, true, ColorLightGray},
		{movedTotal, false, ColorLightGray},
	}
	for _, bd := range borders {
		if err := s.Border(name, bd.area, bd.inner, bd.color); err != nil {
			return err
		}
	}
	if err := s.Fill(name, movedTotal, ColorCyan); err != nil {
		return err
	}

	// Write the new log
	dataFont := excelize.Font{Family: b.cfg.Layout.FontName, Color: ColorBlack}
	for r, record := range b.inputs.CSVLog {
		for c, field := range record {
			if err := b.set(name, csvNewFirstCol+c, csvDataFirstRow+r, logs.CellValue(field)); err != nil {
				return err
			}
		}
		written := Area{csvNewFirstCol, csvDataFirstRow + r, csvNewFirstCol + len(record) - 1, csvDataFirstRow + r}
		if err := s.Font(name, written, dataFont); err != nil {
			return err
		}
	}

	totalRow := 3 + rowCount
	data := Area{csvNewFirstCol, csvDataFirstRow, csvNewLastCol, totalRow - 1}
	total := Area{csvNewFirstCol, totalRow, csvNewLastCol, totalRow}
	if err := s.Fill(name, data, ColorWhite); err != nil {
		return err
	}
	if err := s.Border(name, data, true, ColorLightGray); err != nil {
		return err
	}
	if err := s.Border(name, total, false, ColorLightGray); err != nil {
		return err
	}
	if err := s.Fill(name, total, ColorCyan); err != nil {
		return err
	}
	if err := s.Font(name, total, excelize.Font{Family: b.cfg.Layout.FontName, Bold: true, Color: ColorBlack}); err != nil {
		return err
	}

	// Headers of the new log
	if err := b.file.SetCellValue(name, "D2", b.StationVersion()); err != nil {
		return err
	}
	if err := b.file.SetCellValue(name, "D3", "CSV LOG"); err != nil {
		return err
	}
	for _, r := range []int{2, 3} {
		if err := s.Border(name, Area{csvNewFirstCol, r, csvNewLastCol, r}, true, ColorBlack); err != nil {
			return err
		}
	}

	// Drop gray rows left over from a longer previous log
	keep := max(last, rowCount+3)
	_, maxCol, err := workbook.Dimensions(b.file, name)
	if err != nil {
		return err
	}
	if maxRow > keep+1 {
		extra := Area{1, keep + 2, max(maxCol, csvBackLastCol), maxRow}
		if err := s.ClearFormat(name, extra); err != nil {
			return err
		}
	}
	return nil
}
