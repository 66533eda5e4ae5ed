// Package tableio reads and writes sheets.Table values as local files:
// tab separated text or Excel workbooks.
//
// Files hold the same layout a worksheet does: with column labels the
// first row is the header, with row labels the first column is the index
// and the top-left cell names it.
package tableio

import (
	"fmt"
	"strings"

	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// Format is a file format.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "tsv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q, expected tsv or xlsx", s)
}

// FormatFromPath picks the format from a file extension, defaulting to TSV.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatTSV
}

// Layout says which labels are part of the grid.
type Layout struct {
	Index   bool
	Columns bool
}

// Grid lays t out as rows of cells, labels included.
func Grid(t *sheets.Table, l Layout) [][]string {
	nRows, nCols := t.Shape()
	offset := 0
	if l.Index {
		offset = 1
	}

	var grid [][]string
	if l.Columns {
		header := make([]string, 0, nCols+offset)
		if l.Index {
			header = append(header, t.IndexName)
		}
		grid = append(grid, append(header, t.ColumnLabels()...))
	}

	index := t.IndexLabels()
	for i := 0; i < nRows; i++ {
		row := make([]string, 0, nCols+offset)
		if l.Index {
			row = append(row, index[i])
		}
		for j := 0; j < nCols; j++ {
			row = append(row, t.Cell(i, j))
		}
		grid = append(grid, row)
	}
	return grid
}

// FromGrid builds a table from rows of cells the way a worksheet is read:
// empty cells are holes and the labels given by l are promoted.
func FromGrid(grid [][]string, l Layout) *sheets.Table {
	cells := sheets.Cells{}
	for r, row := range grid {
		for c, v := range row {
			if v != "" {
				cells[sheets.Coord{Row: r + 1, Col: c + 1}] = v
			}
		}
	}
	return sheets.NewTableFromCells(cells, l.Index, l.Columns)
}
