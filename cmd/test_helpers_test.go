package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/internal/logger"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// MockSDK is a mock implementation of the SDK interface for testing.
type MockSDK struct {
	GetSpreadsheetFunc  func(keyOrURL string) (app.SpreadsheetInfo, error)
	ListWorksheetsFunc  func(keyOrURL string) ([]app.WorksheetInfo, error)
	GetTableFunc        func(keyOrURL, title string, opts sheets.TableOptions) (*sheets.Table, error)
	PutTableFunc        func(keyOrURL, title string, t *sheets.Table, opts sheets.WriteOptions) error
	ResizeWorksheetFunc func(keyOrURL, title string, rows, cols *int, atLeast bool) error
	AddWorksheetFunc    func(keyOrURL, title string, rows, cols int) (app.WorksheetInfo, error)
	RemoveWorksheetFunc func(keyOrURL, title string) error
}

func (m *MockSDK) GetSpreadsheet(_ context.Context, keyOrURL string) (app.SpreadsheetInfo, error) {
	if m.GetSpreadsheetFunc != nil {
		return m.GetSpreadsheetFunc(keyOrURL)
	}
	return app.SpreadsheetInfo{}, nil
}

func (m *MockSDK) ListWorksheets(_ context.Context, keyOrURL string) ([]app.WorksheetInfo, error) {
	if m.ListWorksheetsFunc != nil {
		return m.ListWorksheetsFunc(keyOrURL)
	}
	return nil, nil
}

func (m *MockSDK) GetTable(_ context.Context, keyOrURL, title string, opts sheets.TableOptions) (*sheets.Table, error) {
	if m.GetTableFunc != nil {
		return m.GetTableFunc(keyOrURL, title, opts)
	}
	return &sheets.Table{}, nil
}

func (m *MockSDK) PutTable(_ context.Context, keyOrURL, title string, t *sheets.Table, opts sheets.WriteOptions) error {
	if m.PutTableFunc != nil {
		return m.PutTableFunc(keyOrURL, title, t, opts)
	}
	return nil
}

func (m *MockSDK) ResizeWorksheet(_ context.Context, keyOrURL, title string, rows, cols *int, atLeast bool) error {
	if m.ResizeWorksheetFunc != nil {
		return m.ResizeWorksheetFunc(keyOrURL, title, rows, cols, atLeast)
	}
	return nil
}

func (m *MockSDK) AddWorksheet(_ context.Context, keyOrURL, title string, rows, cols int) (app.WorksheetInfo, error) {
	if m.AddWorksheetFunc != nil {
		return m.AddWorksheetFunc(keyOrURL, title, rows, cols)
	}
	return app.WorksheetInfo{Title: title, Rows: rows, Cols: cols}, nil
}

func (m *MockSDK) RemoveWorksheet(_ context.Context, keyOrURL, title string) error {
	if m.RemoveWorksheetFunc != nil {
		return m.RemoveWorksheetFunc(keyOrURL, title)
	}
	return nil
}

// newTestApp creates a new app instance with a mock SDK for testing.
func newTestApp(sdk app.SDK) *app.App {
	return &app.App{
		SDK: sdk,
		Log: logger.NoopLogger{},
	}
}

// newTestCommand returns a command carrying the flags that setup adds,
// with its output captured in the returned buffer.
func newTestCommand(t *testing.T, setup func(cmd *cobra.Command)) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	if setup != nil {
		setup(cmd)
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

// runRoot executes the root command with args and returns its output.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default; cobra keeps flag values
// between executions of the same command tree.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func sampleTable() *sheets.Table {
	return &sheets.Table{
		Columns:   []string{"city", "pop"},
		Index:     []string{"a", "b"},
		IndexName: "id",
		Rows:      [][]string{{"Oslo", "700000"}, {"Bergen", "285000"}},
	}
}
