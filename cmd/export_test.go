package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/internal/tableio"
	"github.com/tonimelisma/sheets-client/internal/ui"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

func exportFlags(cmd *cobra.Command) {
	ui.AddReadFlags(cmd)
	cmd.Flags().String("format", "tsv", "")
	cmd.Flags().Bool("force", false, "")
	cmd.Flags().BoolP("quiet", "q", true, "")
}

func exportSDK() *MockSDK {
	return &MockSDK{
		GetSpreadsheetFunc: func(string) (app.SpreadsheetInfo, error) {
			return app.SpreadsheetInfo{Key: "key", Title: "Budget 2024"}, nil
		},
		ListWorksheetsFunc: func(string) ([]app.WorksheetInfo, error) {
			return []app.WorksheetInfo{{Title: "Q1/Q2"}, {Title: "Totals"}}, nil
		},
		GetTableFunc: func(_, title string, _ sheets.TableOptions) (*sheets.Table, error) {
			t := sampleTable()
			t.IndexName = title
			return t, nil
		},
	}
}

func TestExportLogicTSV(t *testing.T) {
	dir := t.TempDir()
	cmd, out := newTestCommand(t, exportFlags)

	require.NoError(t, exportLogic(newTestApp(exportSDK()), cmd, []string{"key", dir}))
	assert.Contains(t, out.String(), "Exported 2 worksheets.")

	data, err := os.ReadFile(filepath.Join(dir, "Q1_Q2.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "Q1/Q2\tcity\tpop\na\tOslo\t700000\nb\tBergen\t285000\n", string(data))
	assert.FileExists(t, filepath.Join(dir, "Totals.tsv"))

	err = exportLogic(newTestApp(exportSDK()), cmd, []string{"key", dir})
	assert.ErrorIs(t, err, tableio.ErrFileExists)

	require.NoError(t, cmd.Flags().Set("force", "true"))
	assert.NoError(t, exportLogic(newTestApp(exportSDK()), cmd, []string{"key", dir}))
}

func TestExportLogicXLSX(t *testing.T) {
	dir := t.TempDir()
	cmd, _ := newTestCommand(t, exportFlags)
	require.NoError(t, cmd.Flags().Set("format", "xlsx"))

	require.NoError(t, exportLogic(newTestApp(exportSDK()), cmd, []string{"key", dir}))

	f, err := os.Open(filepath.Join(dir, "Budget 2024.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	got, err := tableio.ReadXLSX(f, "Totals", tableio.Layout{Index: true, Columns: true})
	require.NoError(t, err)
	assert.Equal(t, "Totals", got.IndexName)
	assert.Equal(t, sampleTable().Rows, got.Rows)
}

func TestExportLogicBadFormat(t *testing.T) {
	cmd, _ := newTestCommand(t, exportFlags)
	require.NoError(t, cmd.Flags().Set("format", "csv"))
	assert.Error(t, exportLogic(newTestApp(exportSDK()), cmd, []string{"key", t.TempDir()}))
}
