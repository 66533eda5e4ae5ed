package tableio

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

const maxSheetNameLen = 31

// Workbook collects tables into an Excel workbook, one sheet each.
type Workbook struct {
	file   *excelize.File
	sheets int
	names  map[string]bool
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile(), names: map[string]bool{}}
}

// SheetName turns a worksheet title into a valid, unique Excel sheet name.
func (b *Workbook) SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, title)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > maxSheetNameLen {
		name = string(r[:maxSheetNameLen])
	}

	base := name
	for i := 2; b.names[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		r := []rune(base)
		if len(r)+len(suffix) > maxSheetNameLen {
			r = r[:maxSheetNameLen-len(suffix)]
		}
		name = string(r) + suffix
	}
	return name
}

// AddTable adds t as a new sheet named after title and returns the name
// used.
func (b *Workbook) AddTable(title string, t *sheets.Table, l Layout) (string, error) {
	name := b.SheetName(title)
	if b.sheets == 0 {
		if err := b.file.SetSheetName(b.file.GetSheetName(0), name); err != nil {
			return "", fmt.Errorf("naming sheet %q: %w", name, err)
		}
	} else if _, err := b.file.NewSheet(name); err != nil {
		return "", fmt.Errorf("adding sheet %q: %w", name, err)
	}
	b.sheets++
	b.names[strings.ToLower(name)] = true

	for r, row := range Grid(t, l) {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return "", err
			}
			if err := b.file.SetCellValue(name, cell, v); err != nil {
				return "", fmt.Errorf("setting %s!%s: %w", name, cell, err)
			}
		}
	}
	return name, nil
}

// Write writes the workbook in xlsx format.
func (b *Workbook) Write(w io.Writer) error {
	if err := b.file.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Close releases the workbook's resources.
func (b *Workbook) Close() error {
	return b.file.Close()
}

// WriteXLSX writes t as a single-sheet workbook.
func WriteXLSX(w io.Writer, title string, t *sheets.Table, l Layout) error {
	b := NewWorkbook()
	defer b.Close()

	if _, err := b.AddTable(title, t, l); err != nil {
		return err
	}
	return b.Write(w)
}

// ReadXLSX reads one sheet of a workbook into a table. An empty sheet name
// selects the first sheet.
func ReadXLSX(r io.Reader, sheet string, l Layout) (*sheets.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return FromGrid(rows, l), nil
}
