package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// grid is the cell set
//
//	idx  a  b
//	x    1  2
//	y    3
func grid() Cells {
	return Cells{
		{1, 1}: "idx", {1, 2}: "a", {1, 3}: "b",
		{2, 1}: "x", {2, 2}: "1", {2, 3}: "2",
		{3, 1}: "y", {3, 2}: "3",
	}
}

func TestNewTableFromCells(t *testing.T) {
	tests := []struct {
		name       string
		setIndex   bool
		setColumns bool
		want       *Table
	}{
		{
			name:       "index and columns",
			setIndex:   true,
			setColumns: true,
			want: &Table{
				Columns:   []string{"a", "b"},
				Index:     []string{"x", "y"},
				IndexName: "idx",
				Rows:      [][]string{{"1", "2"}, {"3", ""}},
			},
		},
		{
			name:       "columns only",
			setColumns: true,
			want: &Table{
				Columns: []string{"idx", "a", "b"},
				Rows:    [][]string{{"x", "1", "2"}, {"y", "3", ""}},
			},
		},
		{
			name:     "index only leaves the index unnamed",
			setIndex: true,
			want: &Table{
				Index: []string{"idx", "x", "y"},
				Rows:  [][]string{{"a", "b"}, {"1", "2"}, {"3", ""}},
			},
		},
		{
			name: "no labels",
			want: &Table{
				Rows: [][]string{{"idx", "a", "b"}, {"x", "1", "2"}, {"y", "3", ""}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTableFromCells(grid(), tt.setIndex, tt.setColumns))
		})
	}
}

func TestNewTableFromCellsFillsHoles(t *testing.T) {
	got := NewTableFromCells(Cells{{3, 2}: "z"}, false, false)

	assert.Equal(t, [][]string{{"", ""}, {"", ""}, {"", "z"}}, got.Rows)
}

func TestNewTableFromEmptyCells(t *testing.T) {
	for _, flags := range [][2]bool{{true, true}, {true, false}, {false, true}, {false, false}} {
		got := NewTableFromCells(Cells{}, flags[0], flags[1])
		assert.Equal(t, &Table{}, got)

		rows, cols := got.Shape()
		assert.Zero(t, rows)
		assert.Zero(t, cols)
	}
}

func TestTableLabels(t *testing.T) {
	tbl := &Table{Rows: [][]string{{"1", "2", "3"}, {"4"}}}

	rows, cols := tbl.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"0", "1", "2"}, tbl.ColumnLabels())
	assert.Equal(t, []string{"0", "1"}, tbl.IndexLabels())
	assert.Equal(t, "", tbl.Cell(1, 2), "short rows read as empty")
	assert.Equal(t, "", tbl.Cell(5, 0))

	tbl.Columns = []string{"a", "b", "c"}
	tbl.Index = []string{"first"}
	assert.Equal(t, []string{"a", "b", "c"}, tbl.ColumnLabels())
	assert.Equal(t, []string{"first", ""}, tbl.IndexLabels(), "missing labels are empty")
}

func TestNilTableShape(t *testing.T) {
	var tbl *Table
	rows, cols := tbl.Shape()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}
