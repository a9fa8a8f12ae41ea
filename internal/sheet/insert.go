package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// InsertOptions controls how InsertRows fills the new rows.
type InsertOptions struct {
	// AnchorAbove inserts above the target row instead of below it.
	AnchorAbove bool
	// CopyStyle gives new cells the style of the cell under the new block.
	CopyStyle bool
	// CopyMergedColumns replicates single-row merges on the pivot row.
	CopyMergedColumns bool
	// FillFormulae extends formula columns into the new rows.
	FillFormulae bool
}

// DefaultInsertOptions inserts below the target row and copies style,
// merges and formulae.
func DefaultInsertOptions() InsertOptions {
	return InsertOptions{
		CopyStyle:         true,
		CopyMergedColumns: true,
		FillFormulae:      true,
	}
}

// Pivot returns the row right above the first inserted row.
func (o InsertOptions) Pivot(targetRow int) int {
	if o.AnchorAbove {
		return targetRow - 1
	}
	return targetRow
}

// InsertRows inserts count blank rows next to targetRow. Cells, formula
// text, formula attributes, row metadata and merged regions below the
// pivot move down by count. The edit is made on a copy of ws and
// committed only after every step has succeeded, so on error ws is
// unchanged.
//
// The caller must hold exclusive access to ws for the duration of the call.
func InsertRows(ws *Worksheet, targetRow, count int, opts InsertOptions) error {
	if ws == nil {
		return fmt.Errorf("%w: nil worksheet", ErrInvalidArgument)
	}
	if targetRow < 1 {
		return fmt.Errorf("%w: target row %d, must be at least 1", ErrInvalidArgument, targetRow)
	}
	if count < 1 {
		return fmt.Errorf("%w: row count %d, must be at least 1", ErrInvalidArgument, count)
	}
	pivot := opts.Pivot(targetRow)
	last := max(ws.MaxRow(), ws.Rows.MaxRow(), ws.Merges.MaxRow(), pivot)
	if count > excelize.TotalRows || last > excelize.TotalRows-count {
		return fmt.Errorf("%w: inserting %d rows below row %d would pass row %d",
			ErrInvalidArgument, count, last, excelize.TotalRows)
	}

	work, err := ws.Clone()
	if err != nil {
		return err
	}

	if err := work.Cells.ShiftRowsBelow(pivot, count); err != nil {
		return fmt.Errorf("sheet %q: shift cells below row %d: %w", ws.Name, pivot, err)
	}
	work.Rows.ShiftRowsBelow(pivot, count)
	work.Cells.MaterializeBlankRows(pivot, count, opts.CopyStyle, opts.FillFormulae)
	work.Rows.MaterializeRows(pivot, count)
	work.Merges.ShiftRowsBelow(pivot, count)
	if opts.CopyMergedColumns {
		work.Merges.ExpandAtPivot(pivot, count)
	}

	if err := work.Validate(); err != nil {
		return fmt.Errorf("sheet %q: insert %d rows after row %d: %w", ws.Name, count, pivot, err)
	}

	*ws = *work
	return nil
}
