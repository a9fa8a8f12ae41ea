package report

import (
	"fmt"
	"strings"

	"qt-verify/internal/logs"
	"qt-verify/internal/workbook"

	"github.com/xuri/excelize/v2"
)

const (
	uartFirstCol     = 4 // D
	uartHeaderRow    = 3
	uartDataFirstRow = 4
	uartHeaderLabel  = "uart log"
)

// --- Step 4: UART Log Check ---

// writeUARTLog moves the previous modem log to the right-hand section,
// which starts at the "UART log" header of row 3, and writes the new modem
// log into the left-hand section starting at D4. Both sections and the
// gray background grow to fit the wider of the two logs.
func (b *Builder) writeUARTLog() error {
	name := b.cfg.Sheets.UARTLogCheck
	s := b.styler

	maxRow, maxCol, err := workbook.Dimensions(b.file, name)
	if err != nil {
		return err
	}

	rightStart := 0
	for col := 1; col < maxCol; col++ {
		v, err := b.text(name, col, uartHeaderRow)
		if err != nil {
			return err
		}
		if strings.ToLower(strings.TrimSpace(v)) == uartHeaderLabel {
			rightStart = col
		}
	}
	if rightStart < uartFirstCol+2 {
		return fmt.Errorf("%w: no %q header right of column D in row %d", ErrTemplateLayout, uartHeaderLabel, uartHeaderRow)
	}

	origRightStart := rightStart
	rightEnd := maxCol - 1
	leftEnd := rightStart - 2
	rightWidth := maxCol - rightStart
	leftWidth := rightStart - 5

	// Empty the right-hand section
	last := 5
	row, found, err := b.lastRowWhere(name, Area{rightStart, uartDataFirstRow, rightEnd, maxRow}, notEmpty)
	if err != nil {
		return err
	}
	if found {
		last = row + 1
	}
	right := Area{rightStart, 2, rightEnd, maxRow}
	if err := b.clearValues(name, right); err != nil {
		return err
	}
	if err := s.ClearFormat(name, right); err != nil {
		return err
	}

	rightAdd := max(0, leftWidth-rightWidth)
	leftAdd := max(0, logs.MaxWidth(b.inputs.Modem)-leftWidth)
	if extra := rightAdd + leftAdd; extra > 0 {
		if err := s.Fill(name, Area{maxCol + 1, 1, maxCol + extra, maxRow}, ColorGray); err != nil {
			return err
		}
		maxCol += extra
	}
	if err := s.Fill(name, right, ColorGray); err != nil {
		return err
	}

	// Take the current left-hand log
	row, found, err = b.lastRowWhere(name, Area{uartFirstCol, uartDataFirstRow, leftEnd, maxRow}, notEmpty)
	if err != nil {
		return err
	}
	if found {
		last = row + 1
	}
	current := Area{uartFirstCol, uartDataFirstRow, leftEnd, last}
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

	// Fit the gray background to the taller of the two logs
	keep := max(last, len(b.inputs.Modem)+uartDataFirstRow)
	if maxRow > keep+1 {
		if err := s.ClearFormat(name, Area{1, keep + 1, maxCol, maxRow}); err != nil {
			return err
		}
		if err := s.Fill(name, Area{1, keep + 1, maxCol, keep + 1}, ColorGray); err != nil {
			return err
		}
	} else {
		if err := s.Fill(name, Area{1, maxRow, maxCol, keep + 1}, ColorGray); err != nil {
			return err
		}
	}

	rightEnd = maxCol - 1
	rightStart += leftAdd
	leftEnd += leftAdd

	// Paste the previous log on the right
	if err := b.put(name, rightStart, uartDataFirstRow, block); err != nil {
		return err
	}
	moved := Area{rightStart, uartDataFirstRow, rightEnd, last}
	if err := s.Fill(name, moved, ColorWhite); err != nil {
		return err
	}

	for _, r := range []int{2, 3} {
		v, err := workbook.Value(b.file, name, fmt.Sprintf("D%d", r))
		if err != nil {
			return err
		}
		if err := b.set(name, rightStart, r, v); err != nil {
			return err
		}
	}
	if err := b.styleUARTHeaders(name, rightStart, rightEnd); err != nil {
		return err
	}
	if err := s.Border(name, moved, false, ColorBlack); err != nil {
		return err
	}

	// Write the new log
	for i, fields := range b.inputs.Modem {
		for j, field := range fields {
			if err := b.set(name, uartFirstCol+j, uartDataFirstRow+i, field); err != nil {
				return err
			}
		}
	}
	data := Area{uartFirstCol, uartDataFirstRow, leftEnd, len(b.inputs.Modem) + uartDataFirstRow}
	if err := s.Fill(name, data, ColorWhite); err != nil {
		return err
	}
	if err := s.Border(name, data, false, ColorBlack); err != nil {
		return err
	}

	if err := b.file.SetCellValue(name, "D2", b.StationVersion()); err != nil {
		return err
	}
	if err := b.styleUARTHeaders(name, uartFirstCol, leftEnd); err != nil {
		return err
	}

	// Same width for every column of both sections
	span := max(maxCol-origRightStart, origRightStart-5)
	width := float64(b.cfg.Layout.ColumnWidth)
	if err := s.ColumnWidths(name, uartFirstCol, leftEnd, width, span); err != nil {
		return err
	}
	return s.ColumnWidths(name, rightStart, rightEnd, width, span)
}

// styleUARTHeaders paints the two header rows of a section: row 2 white
// on navy, row 3 black on cyan
func (b *Builder) styleUARTHeaders(name string, firstCol, lastCol int) error {
	s := b.styler
	rows := []struct {
		row  int
		fill string
		font excelize.Font
	}{
		{2, ColorNavy, excelize.Font{Family: b.cfg.Layout.FontName, Bold: true, Color: ColorWhite}},
		{3, ColorCyan, excelize.Font{Family: b.cfg.Layout.FontName, Bold: true, Color: ColorBlack, Size: 14}},
	}
	for _, r := range rows {
		a := Area{firstCol, r.row, lastCol, r.row}
		if err := s.Border(name, a, false, ColorBlack); err != nil {
			return err
		}
		if err := s.Fill(name, a, r.fill); err != nil {
			return err
		}
		if err := s.Font(name, Area{firstCol, r.row, firstCol, r.row}, r.font); err != nil {
			return err
		}
	}
	return nil
}

func notEmpty(v string) bool {
	return v != ""
}
