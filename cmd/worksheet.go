package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sheets-client/internal/app"
	"github.com/tonimelisma/sheets-client/internal/tableio"
	"github.com/tonimelisma/sheets-client/internal/ui"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

var worksheetCmd = &cobra.Command{
	Use:     "worksheet",
	Aliases: []string{"ws"},
	Short:   "Read, write and manage worksheets",
	Long:    "Worksheets are named by the spreadsheet key or URL and the worksheet title.",
}

var worksheetGetCmd = &cobra.Command{
	Use:   "get <key-or-url> <title>",
	Short: "Read a worksheet as a table",
	Long: `Reads a worksheet and writes it as TSV to stdout, as an aligned table
with --pretty, or to a TSV or xlsx file with --output.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return worksheetGetLogic(a, cmd, args)
	},
}

func worksheetGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	opts, layout, err := ui.ParseReadFlags(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	pretty, _ := cmd.Flags().GetBool("pretty")
	force, _ := cmd.Flags().GetBool("force")
	format, err := formatFlag(cmd, output)
	if err != nil {
		return err
	}

	t, err := a.SDK.GetTable(cmd.Context(), args[0], args[1], opts)
	if err != nil {
		return fmt.Errorf("reading worksheet %q: %w", args[1], err)
	}

	if output == "" {
		if pretty {
			return ui.DisplayTable(cmd.OutOrStdout(), t, layout)
		}
		if format == tableio.FormatXLSX {
			return errors.New("xlsx output needs --output")
		}
		return tableio.WriteTSV(cmd.OutOrStdout(), t, layout)
	}

	if err := writeTableFile(output, format, args[1], t, layout, force); err != nil {
		return err
	}
	a.Log.Info("worksheet written", "title", args[1], "path", output)
	return nil
}

var worksheetPutCmd = &cobra.Command{
	Use:   "put <key-or-url> <title> [file]",
	Short: "Write a table into a worksheet",
	Long: `Reads a table from a TSV or xlsx file, or TSV from stdin when no file
or "-" is given, and writes it into the worksheet.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return worksheetPutLogic(a, cmd, args)
	},
}

func worksheetPutLogic(a *app.App, cmd *cobra.Command, args []string) error {
	opts, layout, err := ui.ParseWriteFlags(cmd)
	if err != nil {
		return err
	}
	input := "-"
	if len(args) == 3 {
		input = args[2]
	}
	format, err := formatFlag(cmd, input)
	if err != nil {
		return err
	}
	sheetName, _ := cmd.Flags().GetString("sheet")
	create, _ := cmd.Flags().GetBool("create")

	t, err := readTable(cmd, input, format, sheetName, layout)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	key, title := args[0], args[1]
	err = a.SDK.PutTable(ctx, key, title, t, opts)
	if errors.Is(err, sheets.ErrNotFound) && create {
		rows, cols := extent(t, layout, opts)
		if _, err := a.SDK.AddWorksheet(ctx, key, title, rows, cols); err != nil {
			return fmt.Errorf("creating worksheet %q: %w", title, err)
		}
		err = a.SDK.PutTable(ctx, key, title, t, opts)
	}
	if err != nil {
		return fmt.Errorf("writing worksheet %q: %w", title, err)
	}

	rows, cols := t.Shape()
	ui.Success(cmd.OutOrStdout(), "Wrote %d rows and %d columns to %q.", rows, cols, title)
	return nil
}

// extent is the sheet size needed to hold t written with opts.
func extent(t *sheets.Table, l tableio.Layout, opts sheets.WriteOptions) (rows, cols int) {
	grid := tableio.Grid(t, l)
	for _, row := range grid {
		cols = max(cols, len(row))
	}
	return max(opts.Y-1+len(grid), 1), max(opts.X-1+cols, 1)
}

var worksheetResizeCmd = &cobra.Command{
	Use:   "resize <key-or-url> <title>",
	Short: "Change a worksheet's size",
	Long: `Sets the number of rows and/or columns. Dimensions not given are kept.
With --at-least the worksheet only grows.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return worksheetResizeLogic(a, cmd, args)
	},
}

func worksheetResizeLogic(a *app.App, cmd *cobra.Command, args []string) error {
	rows, err := optionalIntFlag(cmd, "rows")
	if err != nil {
		return err
	}
	cols, err := optionalIntFlag(cmd, "cols")
	if err != nil {
		return err
	}
	if rows == nil && cols == nil {
		return errors.New("nothing to do, give --rows and/or --cols")
	}
	atLeast, _ := cmd.Flags().GetBool("at-least")

	if err := a.SDK.ResizeWorksheet(cmd.Context(), args[0], args[1], rows, cols, atLeast); err != nil {
		return fmt.Errorf("resizing worksheet %q: %w", args[1], err)
	}
	ui.Success(cmd.OutOrStdout(), "Worksheet %q resized.", args[1])
	return nil
}

var worksheetAddCmd = &cobra.Command{
	Use:   "add <key-or-url> <title>",
	Short: "Add a worksheet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return worksheetAddLogic(a, cmd, args)
	},
}

func worksheetAddLogic(a *app.App, cmd *cobra.Command, args []string) error {
	rows, _ := cmd.Flags().GetInt("rows")
	cols, _ := cmd.Flags().GetInt("cols")
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: rows and cols must be at least 1", sheets.ErrValueOutOfRange)
	}

	info, err := a.SDK.AddWorksheet(cmd.Context(), args[0], args[1], rows, cols)
	if err != nil {
		return fmt.Errorf("adding worksheet %q: %w", args[1], err)
	}
	ui.Success(cmd.OutOrStdout(), "Worksheet %q added with %d rows and %d columns.", info.Title, info.Rows, info.Cols)
	return nil
}

var worksheetRemoveCmd = &cobra.Command{
	Use:     "rm <key-or-url> <title>",
	Aliases: []string{"remove"},
	Short:   "Remove a worksheet",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return err
		}
		return worksheetRemoveLogic(a, cmd, args)
	},
}

func worksheetRemoveLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.SDK.RemoveWorksheet(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("removing worksheet %q: %w", args[1], err)
	}
	ui.Success(cmd.OutOrStdout(), "Worksheet %q removed.", args[1])
	return nil
}

// formatFlag returns --format when given, otherwise the format implied by
// path.
func formatFlag(cmd *cobra.Command, path string) (tableio.Format, error) {
	f, _ := cmd.Flags().GetString("format")
	if f != "" {
		return tableio.ParseFormat(f)
	}
	return tableio.FormatFromPath(path), nil
}

func optionalIntFlag(cmd *cobra.Command, name string) (*int, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s flag: %w", name, err)
	}
	return &v, nil
}

func readTable(cmd *cobra.Command, path string, format tableio.Format, sheetName string, l tableio.Layout) (*sheets.Table, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		clean, err := tableio.SanitizeLocalPath(path)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(clean)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if format == tableio.FormatXLSX {
		return tableio.ReadXLSX(r, sheetName, l)
	}
	return tableio.ReadTSV(r, l)
}

func writeTableFile(path string, format tableio.Format, title string, t *sheets.Table, l tableio.Layout, force bool) error {
	f, err := tableio.SecureCreateFile(path, force)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == tableio.FormatXLSX {
		err = tableio.WriteXLSX(f, title, t, l)
	} else {
		err = tableio.WriteTSV(f, t, l)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(worksheetCmd)
	worksheetCmd.AddCommand(worksheetGetCmd, worksheetPutCmd, worksheetResizeCmd, worksheetAddCmd, worksheetRemoveCmd)

	ui.AddReadFlags(worksheetGetCmd)
	worksheetGetCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	worksheetGetCmd.Flags().String("format", "", "Output format, tsv or xlsx (default from the file extension)")
	worksheetGetCmd.Flags().Bool("pretty", false, "Print an aligned table instead of TSV")
	worksheetGetCmd.Flags().Bool("force", false, "Overwrite an existing output file")

	ui.AddWriteFlags(worksheetPutCmd)
	worksheetPutCmd.Flags().String("format", "", "Input format, tsv or xlsx (default from the file extension)")
	worksheetPutCmd.Flags().String("sheet", "", "Sheet to read from an xlsx input (default the first)")
	worksheetPutCmd.Flags().Bool("create", false, "Create the worksheet when it does not exist")

	worksheetResizeCmd.Flags().Int("rows", 0, "New number of rows")
	worksheetResizeCmd.Flags().Int("cols", 0, "New number of columns")
	worksheetResizeCmd.Flags().Bool("at-least", false, "Only grow, never shrink")

	worksheetAddCmd.Flags().Int("rows", 1000, "Number of rows")
	worksheetAddCmd.Flags().Int("cols", 26, "Number of columns")
}
