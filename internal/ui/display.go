// Package ui (display.go) formats spreadsheets, worksheets, tables and
// authentication state for the console, and provides the progress bar
// used by long running commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/internal/tableio"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// maxCellWidth bounds a displayed cell; longer values are cut.
const maxCellWidth = 40

// Success prints a success message.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// DisplaySpreadsheet prints a spreadsheet's title, key and browser URL.
func DisplaySpreadsheet(w io.Writer, s app.SpreadsheetInfo) {
	fmt.Fprintf(w, "Title: %s\n", s.Title)
	fmt.Fprintf(w, "Key:   %s\n", s.Key)
	fmt.Fprintf(w, "URL:   %s\n", s.URL)
}

// DisplayWorksheets prints one line per worksheet with its size.
func DisplayWorksheets(w io.Writer, worksheets []app.WorksheetInfo) {
	if len(worksheets) == 0 {
		fmt.Fprintln(w, "No worksheets found in this spreadsheet.")
		return
	}

	fmt.Fprintf(w, "%-40s %8s %8s\n", "Title", "Rows", "Columns")
	fmt.Fprintln(w, strings.Repeat("-", 58))
	for _, ws := range worksheets {
		fmt.Fprintf(w, "%-40.40s %8d %8d\n", ws.Title, ws.Rows, ws.Cols)
	}
}

// DisplayTable prints t as aligned columns. The layout decides whether the
// labels are shown.
func DisplayTable(w io.Writer, t *sheets.Table, l tableio.Layout) error {
	grid := tableio.Grid(t, l)
	if len(grid) == 0 {
		fmt.Fprintln(w, "The worksheet is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, row := range grid {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = truncate(v, maxCellWidth)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		if i == 0 && l.Columns {
			rule := make([]string, len(row))
			for j, v := range cells {
				rule[j] = strings.Repeat("-", max(len([]rune(v)), 1))
			}
			fmt.Fprintln(tw, strings.Join(rule, "\t"))
		}
	}
	return tw.Flush()
}

// DisplayAuthStatus prints what is known about the stored credentials.
func DisplayAuthStatus(w io.Writer, st app.AuthStatus, now time.Time) {
	if !st.ClientConfigured {
		fmt.Fprintln(w, "OAuth client: not configured (set SHEETS_CLIENT_ID and SHEETS_CLIENT_SECRET)")
	} else {
		fmt.Fprintln(w, "OAuth client: configured")
	}

	switch {
	case st.LoggedIn:
		fmt.Fprintln(w, "You are logged in.")
		if st.CachedToken != nil {
			fmt.Fprintf(w, "Cached access token valid for %s.\n", st.CachedToken.ExpiresAt.Sub(now).Round(time.Second))
		}
	case st.PendingLoginURL != "":
		fmt.Fprintln(w, "A login is pending. Open this URL and run 'sheets-client auth login --code <code>':")
		fmt.Fprintln(w, st.PendingLoginURL)
	default:
		fmt.Fprintln(w, "You are not logged in. Please run 'sheets-client auth login'.")
	}
}

// NewProgressBar creates a progress bar counting total steps, written to
// stderr so that stdout stays usable for data.
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return newProgressBar(os.Stderr, total, description)
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if description == "" {
		description = "Processing..."
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
