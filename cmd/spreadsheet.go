package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/internal/ui"
)

var spreadsheetCmd = &cobra.Command{
	Use:     "spreadsheet",
	Aliases: []string{"ss"},
	Short:   "Inspect spreadsheets",
	Long:    "Spreadsheets are named by their key or by their browser URL.",
}

var spreadsheetInfoCmd = &cobra.Command{
	Use:   "info <key-or-url>",
	Short: "Show a spreadsheet's title, key and URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return spreadsheetInfoLogic(a, cmd, args)
	},
}

func spreadsheetInfoLogic(a *app.App, cmd *cobra.Command, args []string) error {
	info, err := a.SDK.GetSpreadsheet(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting spreadsheet: %w", err)
	}
	ui.DisplaySpreadsheet(cmd.OutOrStdout(), info)
	return nil
}

var spreadsheetWorksheetsCmd = &cobra.Command{
	Use:     "worksheets <key-or-url>",
	Aliases: []string{"ls"},
	Short:   "List a spreadsheet's worksheets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return spreadsheetWorksheetsLogic(a, cmd, args)
	},
}

func spreadsheetWorksheetsLogic(a *app.App, cmd *cobra.Command, args []string) error {
	worksheets, err := a.SDK.ListWorksheets(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing worksheets: %w", err)
	}
	ui.DisplayWorksheets(cmd.OutOrStdout(), worksheets)
	return nil
}

func init() {
	rootCmd.AddCommand(spreadsheetCmd)
	spreadsheetCmd.AddCommand(spreadsheetInfoCmd, spreadsheetWorksheetsCmd)
}
