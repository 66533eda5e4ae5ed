package sheets

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Worksheet is one sheet of a spreadsheet.
//
// A Worksheet holds the feed entry it was created from. Operations that
// need the current server state (Title, Resize, ResizeToAtLeast) fetch the
// entry again through its self link and replace the held copy; everything
// else reads the held copy, which may be stale.
type Worksheet struct {
	feedEntity
}

func newWorksheet(c *Client, e Entry) *Worksheet {
	return &Worksheet{feedEntity{client: c, entry: e}}
}

// TableOptions controls how AsTable shapes the cell feed.
type TableOptions struct {
	SetIndex   bool // promote the first column to row labels
	SetColumns bool // promote the first row to column labels
	Values     bool // read computed values instead of input formulas
}

// DefaultTableOptions promotes both labels and reads input formulas.
func DefaultTableOptions() TableOptions {
	return TableOptions{SetIndex: true, SetColumns: true}
}

// WriteOptions controls how SetTable places a table.
type WriteOptions struct {
	// X and Y are the 1-based column and row of the top-left cell written,
	// including any labels.
	X, Y int
	// CopyIndex writes the row labels in the column left of the data.
	CopyIndex bool
	// CopyColumns writes the column labels in the row above the data.
	CopyColumns bool
	// Resize makes the sheet exactly as large as needed, deleting data
	// outside the table. Otherwise the sheet only ever grows.
	Resize bool
	// EscapeFormulae prefixes values starting with "=" with a quote so that
	// they are stored as text.
	EscapeFormulae bool
}

// DefaultWriteOptions writes at A1 with both kinds of labels and grows the
// sheet only if needed.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{X: 1, Y: 1, CopyIndex: true, CopyColumns: true}
}

// refresh fetches the latest entry through the self link.
func (w *Worksheet) refresh(ctx context.Context) (Entry, error) {
	self, err := w.link(RelSelf)
	if err != nil {
		return Entry{}, err
	}
	e, err := w.client.fetchEntry(ctx, self)
	if err != nil {
		return Entry{}, fmt.Errorf("refreshing worksheet: %w", err)
	}
	w.entry = e
	return e, nil
}

// Title fetches the worksheet and returns its current title.
func (w *Worksheet) Title(ctx context.Context) (string, error) {
	e, err := w.refresh(ctx)
	if err != nil {
		return "", err
	}
	return e.Title, nil
}

// CachedTitle returns the title as of the last fetch.
func (w *Worksheet) CachedTitle() string {
	return w.entry.Title
}

// SheetKey returns the key of the spreadsheet this worksheet belongs to.
func (w *Worksheet) SheetKey() (string, error) {
	return w.entry.idSegment(4)
}

// ID returns the worksheet's own id within its spreadsheet.
func (w *Worksheet) ID() (string, error) {
	return w.entry.idSegment(1)
}

// Dimensions returns the row and column counts as of the last fetch.
func (w *Worksheet) Dimensions() (rows, cols int, err error) {
	return w.entry.Dimensions()
}

func (w *Worksheet) String() string {
	id, _ := w.ID()
	return fmt.Sprintf("<Worksheet title=%q id=%q>", w.entry.Title, id)
}

// Resize sets the worksheet size. A nil axis is left unchanged; data
// outside the new size is deleted by the service.
func (w *Worksheet) Resize(ctx context.Context, rows, cols *int) error {
	if rows == nil && cols == nil {
		return nil
	}
	if err := precheckSize(rows, cols); err != nil {
		return err
	}
	e, err := w.refresh(ctx)
	if err != nil {
		return err
	}
	return w.resize(ctx, e, rows, cols)
}

// ResizeToAtLeast grows the worksheet so it has at least the given number
// of rows and columns. It never shrinks either axis.
func (w *Worksheet) ResizeToAtLeast(ctx context.Context, rows, cols *int) error {
	if rows == nil && cols == nil {
		return nil
	}
	if err := precheckSize(rows, cols); err != nil {
		return err
	}
	e, err := w.refresh(ctx)
	if err != nil {
		return err
	}
	curRows, curCols, err := e.Dimensions()
	if err != nil {
		return err
	}

	if rows != nil && *rows <= curRows {
		rows = nil
	}
	if cols != nil && *cols <= curCols {
		cols = nil
	}
	return w.resize(ctx, e, rows, cols)
}

func (w *Worksheet) resize(ctx context.Context, e Entry, rows, cols *int) error {
	if rows == nil && cols == nil {
		return nil
	}
	edit, err := e.Link(RelEdit)
	if err != nil {
		return err
	}
	body, err := EncodeResize(e, rows, cols)
	if err != nil {
		return err
	}

	w.client.logger.Debug("resizing worksheet", "title", e.Title, "rows", derefOr(rows, e.RowCount), "cols", derefOr(cols, e.ColCount))
	if _, err := w.client.apiCall(ctx, http.MethodPut, edit, atomHeader(), body); err != nil {
		return fmt.Errorf("resizing worksheet %q: %w", e.Title, err)
	}
	return nil
}

// AsTable reads every cell of the worksheet into a Table.
func (w *Worksheet) AsTable(ctx context.Context, opts TableOptions) (*Table, error) {
	cellsURL, err := w.link(RelCellsFeed)
	if err != nil {
		return nil, err
	}
	body, err := w.client.apiCall(ctx, http.MethodGet, cellsURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching cells: %w", err)
	}
	cells, err := DecodeCells(body, opts.Values)
	if err != nil {
		return nil, err
	}
	return NewTableFromCells(cells, opts.SetIndex, opts.SetColumns), nil
}

// SetTable writes t into the worksheet in a single batch request, growing
// or resizing the sheet first as opts requires.
func (w *Worksheet) SetTable(ctx context.Context, t *Table, opts WriteOptions) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrValueOutOfRange)
	}
	if opts.X < 1 || opts.Y < 1 {
		return fmt.Errorf("%w: table origin (%d, %d) must be 1-based", ErrValueOutOfRange, opts.X, opts.Y)
	}

	// xPos, yPos is the position of the data, excluding any labels.
	xPos, yPos := opts.X, opts.Y
	if opts.CopyIndex {
		xPos++
	}
	if opts.CopyColumns {
		yPos++
	}

	nRows, nCols := t.Shape()
	needRows, needCols := positive(nRows+yPos-1), positive(nCols+xPos-1)
	if opts.Resize {
		err := w.Resize(ctx, needRows, needCols)
		if err != nil {
			return err
		}
	} else if err := w.ResizeToAtLeast(ctx, needRows, needCols); err != nil {
		return err
	}

	return w.UpdateCells(ctx, tableUpdates(t, xPos, yPos, opts))
}

// tableUpdates lists the cell writes for t with its data at (xPos, yPos):
// column labels, row labels, the index name, then the data row by row.
func tableUpdates(t *Table, xPos, yPos int, opts WriteOptions) []CellUpdate {
	repr := func(v string) string {
		if opts.EscapeFormulae && strings.HasPrefix(v, "=") {
			return "'" + v
		}
		return v
	}

	nRows, nCols := t.Shape()
	var updates []CellUpdate
	if opts.CopyColumns {
		for i, label := range t.ColumnLabels() {
			updates = append(updates, CellUpdate{Row: yPos - 1, Col: xPos + i, Content: repr(label)})
		}
	}
	if opts.CopyIndex {
		for i, label := range t.IndexLabels() {
			updates = append(updates, CellUpdate{Row: yPos + i, Col: xPos - 1, Content: repr(label)})
		}
	}
	if opts.CopyColumns && opts.CopyIndex {
		updates = append(updates, CellUpdate{Row: yPos - 1, Col: xPos - 1, Content: repr(t.IndexName)})
	}
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			updates = append(updates, CellUpdate{Row: yPos + i, Col: xPos + j, Content: repr(t.Cell(i, j))})
		}
	}
	return updates
}

// UpdateCells writes updates in one batch request. An empty batch sends
// nothing. The batch either succeeds or fails as a whole from the caller's
// point of view.
func (w *Worksheet) UpdateCells(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	cellsURL, err := w.link(RelCellsFeed)
	if err != nil {
		return err
	}
	body, err := EncodeBatch(cellsURL, updates)
	if err != nil {
		return err
	}

	w.client.logger.Debug("sending cell batch", "cells", len(updates))
	if _, err := w.client.apiCall(ctx, http.MethodPost, cellsURL+"/batch", atomHeader(), body); err != nil {
		return fmt.Errorf("updating %d cells: %w", len(updates), err)
	}
	return nil
}

// precheckSize rejects a size that cannot be valid whatever the current
// size is, so that no request is made at all.
func precheckSize(rows, cols *int) error {
	if (rows != nil && *rows < 1) || (cols != nil && *cols < 1) {
		return fmt.Errorf("%w: sheet must have at least one row and column", ErrValueOutOfRange)
	}
	if rows != nil && cols != nil {
		return checkCellCount(*rows, *cols)
	}
	return nil
}

func positive(n int) *int {
	if n < 1 {
		return nil
	}
	return &n
}

func derefOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
