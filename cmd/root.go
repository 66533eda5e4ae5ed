// Package cmd (root.go) defines the root command for the sheets-client CLI
// and its global flags.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sheets-client/internal/app"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sheets-client",
	Short: "A CLI client for Google Spreadsheets",
	Long: `sheets-client reads and writes Google Spreadsheets as tables.

Worksheets are read and written through the spreadsheet cell feeds, with
the first row and column optionally used as column and row labels.

Current capabilities include:
  - Authentication management (url, exchange, login, status, logout)
  - Spreadsheet information and worksheet listing
  - Reading and writing worksheets as TSV or xlsx
  - Adding, removing and resizing worksheets
  - Exporting every worksheet of a spreadsheet at once`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// The pending-login message already tells the user what to do.
		if errors.Is(err, app.ErrLoginPending) {
			fmt.Fprintln(os.Stderr, err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging for SDK and internal operations")
	rootCmd.PersistentFlags().String("env-file", ".env", "Read SHEETS_* settings from this dotenv file when it exists")
}
