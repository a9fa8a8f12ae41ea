package report

import (
	"fmt"

	"qt-verify/internal/sheet"

	"github.com/xuri/excelize/v2"
)

// Colors of the verification template
const (
	ColorBlack     = "000000"
	ColorGray      = "BEBEBE"
	ColorLightGray = "D3D3D3"
	ColorWhite     = "FFFFFF"
	ColorCyan      = "B0C4DE"
	ColorNavy      = "191970"
)

// Area is a rectangular block of cells, 1-based and inclusive
type Area struct {
	MinCol, MinRow, MaxCol, MaxRow int
}

// ParseArea converts a reference such as "B2:E3" to an Area
func ParseArea(ref string) (Area, error) {
	minCol, minRow, maxCol, maxRow, err := sheet.MergeRegion{Ref: ref}.Bounds()
	if err != nil {
		return Area{}, err
	}
	return Area{MinCol: minCol, MinRow: minRow, MaxCol: maxCol, MaxRow: maxRow}, nil
}

// Empty reports whether the area holds no cell at all
func (a Area) Empty() bool {
	return a.MaxCol < a.MinCol || a.MaxRow < a.MinRow || a.MinCol < 1 || a.MinRow < 1
}

func (a Area) String() string {
	first, err1 := excelize.CoordinatesToCellName(a.MinCol, a.MinRow)
	last, err2 := excelize.CoordinatesToCellName(a.MaxCol, a.MaxRow)
	if err1 != nil || err2 != nil {
		return fmt.Sprintf("R%dC%d:R%dC%d", a.MinRow, a.MinCol, a.MaxRow, a.MaxCol)
	}
	return first + ":" + last
}

// each visits every cell of the area in row-major order
func (a Area) each(fn func(col, row int, axis string) error) error {
	if a.Empty() {
		return nil
	}
	for row := a.MinRow; row <= a.MaxRow; row++ {
		for col := a.MinCol; col <= a.MaxCol; col++ {
			axis, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			if err := fn(col, row, axis); err != nil {
				return err
			}
		}
	}
	return nil
}

// Styler handles Excel styling of template cells. Every helper changes one
// aspect of a cell's existing style and keeps the rest, so template fonts
// and number formats survive.
type Styler struct {
	File *excelize.File

	// derived style per (existing style, change)
	cache map[styleKey]int
}

type styleKey struct {
	base   int
	change string
}

// NewStyler creates a new Styler for f
func NewStyler(f *excelize.File) *Styler {
	return &Styler{File: f, cache: make(map[styleKey]int)}
}

// Border draws a medium black outline around the area. With inner set,
// every cell edge inside it gets a thin border in color; otherwise inner
// edges are removed.
func (s *Styler) Border(sheetName string, a Area, inner bool, color string) error {
	return a.each(func(col, row int, axis string) error {
		left, right := col == a.MinCol, col == a.MaxCol
		top, bottom := row == a.MinRow, row == a.MaxRow
		change := fmt.Sprintf("border:%t:%s:%t:%t:%t:%t", inner, color, left, right, top, bottom)

		return s.apply(sheetName, axis, change, func(st *excelize.Style) {
			st.Border = outline(inner, color, left, right, top, bottom)
		})
	})
}

// Fill gives every cell of the area a solid background
func (s *Styler) Fill(sheetName string, a Area, color string) error {
	return a.each(func(_, _ int, axis string) error {
		return s.apply(sheetName, axis, "fill:"+color, func(st *excelize.Style) {
			st.Fill = excelize.Fill{Type: "pattern", Color: []string{"#" + color}, Pattern: 1}
		})
	})
}

// Font replaces the font of every cell of the area
func (s *Styler) Font(sheetName string, a Area, font excelize.Font) error {
	change := fmt.Sprintf("font:%+v", font)
	return a.each(func(_, _ int, axis string) error {
		return s.apply(sheetName, axis, change, func(st *excelize.Style) {
			f := font
			st.Font = &f
		})
	})
}

// ClearBorder removes every border of the area
func (s *Styler) ClearBorder(sheetName string, a Area) error {
	return a.each(func(_, _ int, axis string) error {
		return s.apply(sheetName, axis, "noborder", func(st *excelize.Style) {
			st.Border = nil
		})
	})
}

// ClearFormat removes borders and background of the area
func (s *Styler) ClearFormat(sheetName string, a Area) error {
	return a.each(func(_, _ int, axis string) error {
		return s.apply(sheetName, axis, "noformat", func(st *excelize.Style) {
			st.Border = nil
			st.Fill = excelize.Fill{}
		})
	})
}

// ColumnWidths gives columns minCol..maxCol the same width, widened so the
// block is as wide as a block of span columns, and narrows the column right
// after it to a spacer.
func (s *Styler) ColumnWidths(sheetName string, minCol, maxCol int, width float64, span int) error {
	if minCol < 1 || maxCol < minCol {
		return nil
	}
	n := maxCol - minCol + 1
	if n < span {
		width = float64(int(width * float64(span) / float64(n)))
	}

	first, err := excelize.ColumnNumberToName(minCol)
	if err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(maxCol)
	if err != nil {
		return err
	}
	spacer, err := excelize.ColumnNumberToName(maxCol + 1)
	if err != nil {
		return err
	}

	if err := s.File.SetColWidth(sheetName, first, last, width); err != nil {
		return err
	}
	return s.File.SetColWidth(sheetName, spacer, spacer, 5)
}

// apply derives a style from the cell's current one and assigns it
func (s *Styler) apply(sheetName, axis, change string, mutate func(st *excelize.Style)) error {
	base, err := s.File.GetCellStyle(sheetName, axis)
	if err != nil {
		return fmt.Errorf("read style %s!%s: %w", sheetName, axis, err)
	}

	key := styleKey{base: base, change: change}
	id, ok := s.cache[key]
	if !ok {
		st, err := s.File.GetStyle(base)
		if err != nil {
			return fmt.Errorf("style %d: %w", base, err)
		}
		mutate(st)
		if id, err = s.File.NewStyle(st); err != nil {
			return fmt.Errorf("derive style for %s!%s: %w", sheetName, axis, err)
		}
		s.cache[key] = id
	}
	return s.File.SetCellStyle(sheetName, axis, axis, id)
}

func outline(inner bool, color string, left, right, top, bottom bool) []excelize.Border {
	sides := []struct {
		name string
		edge bool
	}{
		{"left", left},
		{"right", right},
		{"top", top},
		{"bottom", bottom},
	}

	var borders []excelize.Border
	for _, side := range sides {
		switch {
		case side.edge:
			borders = append(borders, excelize.Border{Type: side.name, Color: ColorBlack, Style: 2})
		case inner:
			borders = append(borders, excelize.Border{Type: side.name, Color: color, Style: 1})
		}
	}
	return borders
}
