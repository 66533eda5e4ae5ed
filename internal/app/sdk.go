package app

import (
	"context"
	"fmt"

	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// SpreadsheetInfo describes a spreadsheet.
type SpreadsheetInfo struct {
	Key   string
	Title string
	URL   string
}

// WorksheetInfo describes a worksheet.
type WorksheetInfo struct {
	Title string
	Rows  int
	Cols  int
}

// SDK is the set of spreadsheet operations commands use. Spreadsheets are
// named by key or URL and worksheets by title. It exists so commands can
// be tested against a mock.
type SDK interface {
	GetSpreadsheet(ctx context.Context, keyOrURL string) (SpreadsheetInfo, error)
	ListWorksheets(ctx context.Context, keyOrURL string) ([]WorksheetInfo, error)
	GetTable(ctx context.Context, keyOrURL, title string, opts sheets.TableOptions) (*sheets.Table, error)
	PutTable(ctx context.Context, keyOrURL, title string, t *sheets.Table, opts sheets.WriteOptions) error
	ResizeWorksheet(ctx context.Context, keyOrURL, title string, rows, cols *int, atLeast bool) error
	AddWorksheet(ctx context.Context, keyOrURL, title string, rows, cols int) (WorksheetInfo, error)
	RemoveWorksheet(ctx context.Context, keyOrURL, title string) error
}

// LiveSDK implements SDK against the feed service.
type LiveSDK struct {
	client *sheets.Client
}

// NewLiveSDK returns an SDK using client.
func NewLiveSDK(client *sheets.Client) *LiveSDK {
	return &LiveSDK{client: client}
}

func (s *LiveSDK) worksheet(ctx context.Context, keyOrURL, title string) (*sheets.Spreadsheet, *sheets.Worksheet, error) {
	ss, err := sheets.OpenSpreadsheet(ctx, s.client, keyOrURL)
	if err != nil {
		return nil, nil, err
	}
	ws, err := ss.Worksheet(ctx, title)
	if err != nil {
		return nil, nil, err
	}
	return ss, ws, nil
}

func worksheetInfo(ws *sheets.Worksheet) (WorksheetInfo, error) {
	rows, cols, err := ws.Dimensions()
	if err != nil {
		return WorksheetInfo{}, fmt.Errorf("worksheet %q: %w", ws.CachedTitle(), err)
	}
	return WorksheetInfo{Title: ws.CachedTitle(), Rows: rows, Cols: cols}, nil
}

// GetSpreadsheet opens the spreadsheet.
func (s *LiveSDK) GetSpreadsheet(ctx context.Context, keyOrURL string) (SpreadsheetInfo, error) {
	ss, err := sheets.OpenSpreadsheet(ctx, s.client, keyOrURL)
	if err != nil {
		return SpreadsheetInfo{}, err
	}
	key, err := ss.Key()
	if err != nil {
		return SpreadsheetInfo{}, err
	}
	browserURL, err := ss.URL()
	if err != nil {
		return SpreadsheetInfo{}, err
	}
	return SpreadsheetInfo{Key: key, Title: ss.Title(), URL: browserURL}, nil
}

// ListWorksheets lists worksheets in service order.
func (s *LiveSDK) ListWorksheets(ctx context.Context, keyOrURL string) ([]WorksheetInfo, error) {
	ss, err := sheets.OpenSpreadsheet(ctx, s.client, keyOrURL)
	if err != nil {
		return nil, err
	}
	worksheets, err := ss.Worksheets(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]WorksheetInfo, 0, len(worksheets))
	for _, ws := range worksheets {
		info, err := worksheetInfo(ws)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetTable reads a worksheet as a table.
func (s *LiveSDK) GetTable(ctx context.Context, keyOrURL, title string, opts sheets.TableOptions) (*sheets.Table, error) {
	_, ws, err := s.worksheet(ctx, keyOrURL, title)
	if err != nil {
		return nil, err
	}
	return ws.AsTable(ctx, opts)
}

// PutTable writes a table into a worksheet.
func (s *LiveSDK) PutTable(ctx context.Context, keyOrURL, title string, t *sheets.Table, opts sheets.WriteOptions) error {
	_, ws, err := s.worksheet(ctx, keyOrURL, title)
	if err != nil {
		return err
	}
	return ws.SetTable(ctx, t, opts)
}

// ResizeWorksheet sets the worksheet size, or only grows it with atLeast.
// A nil dimension is left unchanged.
func (s *LiveSDK) ResizeWorksheet(ctx context.Context, keyOrURL, title string, rows, cols *int, atLeast bool) error {
	_, ws, err := s.worksheet(ctx, keyOrURL, title)
	if err != nil {
		return err
	}
	if atLeast {
		return ws.ResizeToAtLeast(ctx, rows, cols)
	}
	return ws.Resize(ctx, rows, cols)
}

// AddWorksheet creates a worksheet.
func (s *LiveSDK) AddWorksheet(ctx context.Context, keyOrURL, title string, rows, cols int) (WorksheetInfo, error) {
	ss, err := sheets.OpenSpreadsheet(ctx, s.client, keyOrURL)
	if err != nil {
		return WorksheetInfo{}, err
	}
	ws, err := ss.AddWorksheet(ctx, title, rows, cols)
	if err != nil {
		return WorksheetInfo{}, err
	}
	return worksheetInfo(ws)
}

// RemoveWorksheet deletes a worksheet.
func (s *LiveSDK) RemoveWorksheet(ctx context.Context, keyOrURL, title string) error {
	ss, ws, err := s.worksheet(ctx, keyOrURL, title)
	if err != nil {
		return err
	}
	return ss.RemoveWorksheet(ctx, ws)
}
