package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MergeRegion is a rectangular span of cells addressed as one, stored as
// its range string ("B3:C3").
type MergeRegion struct {
	Ref string
}

// Bounds parses the region into its corner coordinates.
func (m MergeRegion) Bounds() (minCol, minRow, maxCol, maxRow int, err error) {
	parts := strings.Split(m.Ref, ":")
	if len(parts) > 2 {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedRegion, m.Ref)
	}
	first, err := ParseCoord(parts[0])
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedRegion, m.Ref, err)
	}
	last := first
	if len(parts) == 2 {
		if last, err = ParseCoord(parts[1]); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedRegion, m.Ref, err)
		}
	}
	if first.Col > last.Col || first.Row > last.Row {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q is not ordered", ErrMalformedRegion, m.Ref)
	}
	return first.Col, first.Row, last.Col, last.Row, nil
}

// NewMergeRegion builds the range string for the given corners.
func NewMergeRegion(minCol, minRow, maxCol, maxRow int) (MergeRegion, error) {
	first, err := excelize.CoordinatesToCellName(minCol, minRow)
	if err != nil {
		return MergeRegion{}, err
	}
	last, err := excelize.CoordinatesToCellName(maxCol, maxRow)
	if err != nil {
		return MergeRegion{}, err
	}
	return MergeRegion{Ref: first + ":" + last}, nil
}

// MergeSet is the list of merged regions of a worksheet.
type MergeSet struct {
	Regions []MergeRegion
}

// ShiftRowsBelow rewrites both corners of every region.
func (s *MergeSet) ShiftRowsBelow(pivot, amount int) {
	for i := range s.Regions {
		s.Regions[i].Ref = ShiftRowReferences(s.Regions[i].Ref, pivot, amount)
	}
}

// MaxRow returns the lowest row covered by a region, or 0. Regions that
// cannot be parsed are ignored.
func (s *MergeSet) MaxRow() int {
	n := 0
	for _, m := range s.Regions {
		if _, _, _, maxRow, err := m.Bounds(); err == nil && maxRow > n {
			n = maxRow
		}
	}
	return n
}

// ExpandAtPivot replicates every single-row region lying exactly on
// afterRow into each of the count rows below it, keeping its column span.
// Regions that cannot be parsed are skipped; Validate reports them.
func (s *MergeSet) ExpandAtPivot(afterRow, count int) {
	existing := len(s.Regions)
	for i := 0; i < existing; i++ {
		minCol, minRow, maxCol, maxRow, err := s.Regions[i].Bounds()
		if err != nil || minRow != afterRow || maxRow != afterRow {
			continue
		}
		for row := afterRow + 1; row <= afterRow+count; row++ {
			region, err := NewMergeRegion(minCol, row, maxCol, row)
			if err != nil {
				continue
			}
			s.Regions = append(s.Regions, region)
		}
	}
}

// Validate checks that every region parses and that no two regions overlap.
func (s *MergeSet) Validate() error {
	type rect struct{ c1, r1, c2, r2 int }
	rects := make([]rect, len(s.Regions))
	for i, m := range s.Regions {
		c1, r1, c2, r2, err := m.Bounds()
		if err != nil {
			return err
		}
		rects[i] = rect{c1, r1, c2, r2}
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			if a.c1 <= b.c2 && b.c1 <= a.c2 && a.r1 <= b.r2 && b.r1 <= a.r2 {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingMerge, s.Regions[i].Ref, s.Regions[j].Ref)
			}
		}
	}
	return nil
}
