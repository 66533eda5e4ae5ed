package sheets

import "strconv"

// Table is a dense, string-valued table with optional labels.
//
// Columns holds the column labels and Index the row labels; either may be
// nil, in which case positional labels "0", "1", ... are implied. IndexName
// names the row-label axis. Rows are stored row-major; a row shorter than
// the table width is padded with empty strings when read.
type Table struct {
	Columns   []string
	Index     []string
	IndexName string
	Rows      [][]string
}

// Shape returns the number of data rows and columns.
func (t *Table) Shape() (rows, cols int) {
	if t == nil {
		return 0, 0
	}
	cols = len(t.Columns)
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return len(t.Rows), cols
}

// Cell returns the value at zero-based data position (r, c), or "" when the
// position holds no value.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// ColumnLabels returns the column labels, synthesizing positional ones
// when the table has none.
func (t *Table) ColumnLabels() []string {
	_, cols := t.Shape()
	return labelsOrPositions(t.Columns, cols)
}

// IndexLabels returns the row labels, synthesizing positional ones when the
// table has none.
func (t *Table) IndexLabels() []string {
	rows, _ := t.Shape()
	return labelsOrPositions(t.Index, rows)
}

func labelsOrPositions(labels []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		if labels == nil {
			out[i] = strconv.Itoa(i)
		} else if i < len(labels) {
			out[i] = labels[i]
		}
	}
	return out
}

// NewTableFromCells densifies a sparse cell set into a table spanning
// rows 1..max and columns 1..max, filling holes with "". With setColumns
// the first row becomes the column labels; with setIndex the first
// remaining column becomes the row labels. When both are set the index
// name is the label of the column that was promoted; with setIndex alone
// the index name is left empty.
//
// An empty cell set yields an empty table and no labels are promoted.
func NewTableFromCells(cells Cells, setIndex, setColumns bool) *Table {
	t := &Table{}
	if len(cells) == 0 {
		return t
	}

	maxRow, maxCol := 0, 0
	for c := range cells {
		maxRow = max(maxRow, c.Row)
		maxCol = max(maxCol, c.Col)
	}

	rows := make([][]string, maxRow)
	for r := range rows {
		rows[r] = make([]string, maxCol)
	}
	for c, v := range cells {
		rows[c.Row-1][c.Col-1] = v
	}

	var columns []string
	if setColumns {
		columns = rows[0]
		rows = rows[1:]
	}

	if setIndex {
		t.Index = make([]string, len(rows))
		for i, r := range rows {
			t.Index[i] = r[0]
			rows[i] = r[1:]
		}
		if setColumns {
			t.IndexName = columns[0]
			columns = columns[1:]
		}
	}

	t.Columns = columns
	t.Rows = rows
	return t
}
