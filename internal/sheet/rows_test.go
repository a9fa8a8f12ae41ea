package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowTableShiftRowsBelow(t *testing.T) {
	rt := NewRowTable()
	for row := 1; row <= 4; row++ {
		rt.Rows[row] = RowMetadata{Height: float64(row * 10)}
	}

	rt.ShiftRowsBelow(2, 1)

	assert.Equal(t, map[int]RowMetadata{
		1: {Height: 10},
		2: {Height: 20},
		4: {Height: 30},
		5: {Height: 40},
	}, rt.Rows)
}

func TestRowTableShiftLargerThanGaps(t *testing.T) {
	rt := NewRowTable()
	rt.Rows[3] = RowMetadata{Height: 30}
	rt.Rows[4] = RowMetadata{Height: 40}
	rt.Rows[9] = RowMetadata{Height: 90}

	rt.ShiftRowsBelow(0, 5)

	assert.Equal(t, map[int]RowMetadata{
		8:  {Height: 30},
		9:  {Height: 40},
		14: {Height: 90},
	}, rt.Rows)
}

func TestRowTableMaterializeRows(t *testing.T) {
	t.Run("copies the row above", func(t *testing.T) {
		rt := NewRowTable()
		rt.Rows[2] = RowMetadata{Height: 22, Style: Style{ID: 4}, HasStyle: true}

		rt.MaterializeRows(2, 2)

		want := RowMetadata{Height: 22, Style: Style{ID: 4}, HasStyle: true}
		assert.Equal(t, want, rt.Rows[3])
		assert.Equal(t, want, rt.Rows[4])
	})

	t.Run("default height without record", func(t *testing.T) {
		rt := NewRowTable()
		rt.MaterializeRows(0, 1)
		assert.Equal(t, RowMetadata{Height: DefaultRowHeight}, rt.Rows[1])
	})

	t.Run("default height when above has none", func(t *testing.T) {
		rt := NewRowTable()
		rt.Rows[5] = RowMetadata{Style: Style{ID: 2}, HasStyle: true}
		rt.MaterializeRows(5, 1)
		assert.Equal(t, RowMetadata{Height: DefaultRowHeight, Style: Style{ID: 2}, HasStyle: true}, rt.Rows[6])
	})
}
