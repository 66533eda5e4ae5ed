package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sheets-client/internal/tableio"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// AddLayoutFlags adds the flags choosing which labels a table carries.
func AddLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("index", true, "Treat the first column as row labels")
	cmd.Flags().Bool("columns", true, "Treat the first row as column labels")
}

// ParseLayoutFlags reads the flags added by AddLayoutFlags.
func ParseLayoutFlags(cmd *cobra.Command) (tableio.Layout, error) {
	index, err := cmd.Flags().GetBool("index")
	if err != nil {
		return tableio.Layout{}, fmt.Errorf("error parsing index flag: %w", err)
	}
	columns, err := cmd.Flags().GetBool("columns")
	if err != nil {
		return tableio.Layout{}, fmt.Errorf("error parsing columns flag: %w", err)
	}
	return tableio.Layout{Index: index, Columns: columns}, nil
}

// AddReadFlags adds the layout flags plus --values.
func AddReadFlags(cmd *cobra.Command) {
	AddLayoutFlags(cmd)
	cmd.Flags().Bool("values", false, "Read computed values instead of formulas")
}

// ParseReadFlags returns the table options and layout for reading.
func ParseReadFlags(cmd *cobra.Command) (sheets.TableOptions, tableio.Layout, error) {
	l, err := ParseLayoutFlags(cmd)
	if err != nil {
		return sheets.TableOptions{}, l, err
	}
	values, err := cmd.Flags().GetBool("values")
	if err != nil {
		return sheets.TableOptions{}, l, fmt.Errorf("error parsing values flag: %w", err)
	}
	return sheets.TableOptions{SetIndex: l.Index, SetColumns: l.Columns, Values: values}, l, nil
}

// AddWriteFlags adds the layout flags plus the placement flags of SetTable.
func AddWriteFlags(cmd *cobra.Command) {
	AddLayoutFlags(cmd)
	cmd.Flags().Int("x", 1, "Column of the top-left cell written")
	cmd.Flags().Int("y", 1, "Row of the top-left cell written")
	cmd.Flags().Bool("resize", false, "Shrink or grow the worksheet to exactly fit the table")
	cmd.Flags().Bool("escape-formulae", false, "Store values starting with '=' as text")
}

// ParseWriteFlags returns the write options and the layout the input is
// read with. The labels read from the input are the labels written.
func ParseWriteFlags(cmd *cobra.Command) (sheets.WriteOptions, tableio.Layout, error) {
	l, err := ParseLayoutFlags(cmd)
	if err != nil {
		return sheets.WriteOptions{}, l, err
	}
	opts := sheets.DefaultWriteOptions()
	opts.CopyIndex = l.Index
	opts.CopyColumns = l.Columns

	if opts.X, err = cmd.Flags().GetInt("x"); err != nil {
		return opts, l, fmt.Errorf("error parsing x flag: %w", err)
	}
	if opts.Y, err = cmd.Flags().GetInt("y"); err != nil {
		return opts, l, fmt.Errorf("error parsing y flag: %w", err)
	}
	if opts.Resize, err = cmd.Flags().GetBool("resize"); err != nil {
		return opts, l, fmt.Errorf("error parsing resize flag: %w", err)
	}
	if opts.EscapeFormulae, err = cmd.Flags().GetBool("escape-formulae"); err != nil {
		return opts, l, fmt.Errorf("error parsing escape-formulae flag: %w", err)
	}
	return opts, l, nil
}
