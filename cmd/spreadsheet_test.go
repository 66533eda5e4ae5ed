package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

func TestSpreadsheetInfoLogic(t *testing.T) {
	mockSDK := &MockSDK{
		GetSpreadsheetFunc: func(keyOrURL string) (app.SpreadsheetInfo, error) {
			assert.Equal(t, "key", keyOrURL)
			return app.SpreadsheetInfo{Key: "key", Title: "Budget", URL: "https://docs.google.com/spreadsheets/d/key/edit"}, nil
		},
	}
	cmd, out := newTestCommand(t, nil)

	require.NoError(t, spreadsheetInfoLogic(newTestApp(mockSDK), cmd, []string{"key"}))
	assert.Contains(t, out.String(), "Title: Budget")
	assert.Contains(t, out.String(), "https://docs.google.com/spreadsheets/d/key/edit")
}

func TestSpreadsheetInfoLogicError(t *testing.T) {
	mockSDK := &MockSDK{
		GetSpreadsheetFunc: func(string) (app.SpreadsheetInfo, error) {
			return app.SpreadsheetInfo{}, &sheets.HTTPError{StatusCode: 404}
		},
	}
	cmd, _ := newTestCommand(t, nil)

	err := spreadsheetInfoLogic(newTestApp(mockSDK), cmd, []string{"key"})
	assert.ErrorIs(t, err, sheets.ErrTransport)
}

func TestSpreadsheetWorksheetsLogic(t *testing.T) {
	mockSDK := &MockSDK{
		ListWorksheetsFunc: func(string) ([]app.WorksheetInfo, error) {
			return []app.WorksheetInfo{{Title: "Sheet1", Rows: 100, Cols: 20}, {Title: "Totals", Rows: 5, Cols: 2}}, nil
		},
	}
	cmd, out := newTestCommand(t, nil)

	require.NoError(t, spreadsheetWorksheetsLogic(newTestApp(mockSDK), cmd, []string{"key"}))
	assert.Contains(t, out.String(), "Sheet1")
	assert.Contains(t, out.String(), "Totals")

	mockSDK.ListWorksheetsFunc = func(string) ([]app.WorksheetInfo, error) { return nil, errors.New("boom") }
	assert.Error(t, spreadsheetWorksheetsLogic(newTestApp(mockSDK), cmd, []string{"key"}))
}
