package tableio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// WriteTSV writes t as tab separated values.
func WriteTSV(w io.Writer, t *sheets.Table, l Layout) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.WriteAll(Grid(t, l)); err != nil {
		return fmt.Errorf("writing TSV: %w", err)
	}
	return nil
}

// ReadTSV reads tab separated values into a table. Rows may have
// different lengths.
func ReadTSV(r io.Reader, l Layout) (*sheets.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading TSV: %w", err)
	}
	return FromGrid(records, l), nil
}
