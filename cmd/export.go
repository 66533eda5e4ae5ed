package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/internal/tableio"
	"github.com/tonimelisma/sheets-client/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export <key-or-url> <directory>",
	Short: "Export every worksheet of a spreadsheet",
	Long: `Reads every worksheet and writes it into directory: one TSV file per
worksheet, or with --format xlsx a single workbook named after the
spreadsheet holding one sheet per worksheet.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return exportLogic(a, cmd, args)
	},
}

func exportLogic(a *app.App, cmd *cobra.Command, args []string) error {
	opts, layout, err := ui.ParseReadFlags(cmd)
	if err != nil {
		return err
	}
	f, _ := cmd.Flags().GetString("format")
	format, err := tableio.ParseFormat(f)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	quiet, _ := cmd.Flags().GetBool("quiet")

	ctx := cmd.Context()
	key, dir := args[0], args[1]
	info, err := a.SDK.GetSpreadsheet(ctx, key)
	if err != nil {
		return fmt.Errorf("getting spreadsheet: %w", err)
	}
	worksheets, err := a.SDK.ListWorksheets(ctx, key)
	if err != nil {
		return fmt.Errorf("listing worksheets: %w", err)
	}

	var bar interface{ Add(int) error }
	if !quiet {
		bar = ui.NewProgressBar(len(worksheets), "Exporting "+info.Title)
	}

	var workbook *tableio.Workbook
	if format == tableio.FormatXLSX {
		workbook = tableio.NewWorkbook()
		defer workbook.Close()
	}

	var written []string
	for _, ws := range worksheets {
		t, err := a.SDK.GetTable(ctx, key, ws.Title, opts)
		if err != nil {
			return fmt.Errorf("reading worksheet %q: %w", ws.Title, err)
		}

		if workbook != nil {
			if _, err := workbook.AddTable(ws.Title, t, layout); err != nil {
				return err
			}
		} else {
			path := filepath.Join(dir, tableio.FileName(ws.Title, string(tableio.FormatTSV)))
			if err := writeTableFile(path, tableio.FormatTSV, ws.Title, t, layout, force); err != nil {
				return err
			}
			written = append(written, path)
		}
		a.Log.Debug("worksheet exported", "title", ws.Title)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if workbook != nil && len(worksheets) > 0 {
		path := filepath.Join(dir, tableio.FileName(info.Title, string(tableio.FormatXLSX)))
		out, err := tableio.SecureCreateFile(path, force)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := workbook.Write(out); err != nil {
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		written = append(written, path)
	}

	for _, p := range written {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	ui.Success(cmd.OutOrStdout(), "Exported %d worksheets.", len(worksheets))
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	ui.AddReadFlags(exportCmd)
	exportCmd.Flags().String("format", "tsv", "File format, tsv or xlsx")
	exportCmd.Flags().Bool("force", false, "Overwrite existing files")
	exportCmd.Flags().BoolP("quiet", "q", false, "Do not show a progress bar")
}
