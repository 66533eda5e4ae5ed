package sheets

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// CellUpdate is one cell write. Row and Col are 1-based.
type CellUpdate struct {
	Row     int
	Col     int
	Content string
}

// code returns the synthetic per-cell id used in batch requests, R<row>C<col>.
func (u CellUpdate) code() string {
	return "R" + strconv.Itoa(u.Row) + "C" + strconv.Itoa(u.Col)
}

// The out* types are only ever marshalled. Prefixed names are written
// literally; the namespace declarations live on the root element.

type outLink struct {
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr,omitempty"`
	Href string `xml:"href,attr"`
}

type outCategory struct {
	Scheme string `xml:"scheme,attr"`
	Term   string `xml:"term,attr"`
}

type outText struct {
	Type string `xml:"type,attr,omitempty"`
	Text string `xml:",chardata"`
}

type outOperation struct {
	Type string `xml:"type,attr"`
}

type outCell struct {
	Row        int    `xml:"row,attr"`
	Col        int    `xml:"col,attr"`
	InputValue string `xml:"inputValue,attr"`
}

type outEntry struct {
	XMLName    xml.Name      `xml:"entry"`
	Xmlns      string        `xml:"xmlns,attr,omitempty"`
	XmlnsGS    string        `xml:"xmlns:gs,attr,omitempty"`
	BatchID    string        `xml:"batch:id,omitempty"`
	BatchOp    *outOperation `xml:"batch:operation"`
	ID         string        `xml:"id,omitempty"`
	Categories []outCategory `xml:"category"`
	Title      *outText      `xml:"title"`
	Links      []outLink     `xml:"link"`
	Cell       *outCell      `xml:"gs:cell"`
	RowCount   *int          `xml:"gs:rowCount"`
	ColCount   *int          `xml:"gs:colCount"`
}

type outBatchFeed struct {
	XMLName    xml.Name   `xml:"feed"`
	Xmlns      string     `xml:"xmlns,attr"`
	XmlnsBatch string     `xml:"xmlns:batch,attr"`
	XmlnsGS    string     `xml:"xmlns:gs,attr"`
	ID         string     `xml:"id"`
	Entries    []outEntry `xml:"entry"`
}

func marshalDocument(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding feed document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// checkCellCount rejects sheet sizes above the service ceiling.
func checkCellCount(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: sheet must have at least one row and column, got %dx%d", ErrValueOutOfRange, rows, cols)
	}
	if int64(rows)*int64(cols) > MaxCells {
		return fmt.Errorf("%w: no sheet may be more than %d cells large, got %dx%d", ErrValueOutOfRange, MaxCells, rows, cols)
	}
	return nil
}

// EncodeResize builds the PUT body resizing the worksheet described by
// entry. A nil axis keeps its current value. entry is not modified.
func EncodeResize(entry Entry, rows, cols *int) ([]byte, error) {
	newRows, newCols := entry.RowCount, entry.ColCount
	if rows != nil {
		newRows = *rows
	}
	if cols != nil {
		newCols = *cols
	}
	if err := checkCellCount(newRows, newCols); err != nil {
		return nil, err
	}

	out := outEntry{
		Xmlns:    NamespaceAtom,
		XmlnsGS:  NamespaceSheet,
		ID:       entry.ID,
		Title:    &outText{Type: "text", Text: entry.Title},
		RowCount: &newRows,
		ColCount: &newCols,
	}
	for _, c := range entry.Categories {
		out.Categories = append(out.Categories, outCategory(c))
	}
	for _, l := range entry.Links {
		out.Links = append(out.Links, outLink(l))
	}
	return marshalDocument(out)
}

// EncodeNewWorksheet builds the POST body creating a worksheet.
func EncodeNewWorksheet(title string, rows, cols int) ([]byte, error) {
	if err := checkCellCount(rows, cols); err != nil {
		return nil, err
	}
	return marshalDocument(outEntry{
		Xmlns:    NamespaceAtom,
		XmlnsGS:  NamespaceSheet,
		Title:    &outText{Text: title},
		RowCount: &rows,
		ColCount: &cols,
	})
}

// EncodeBatch builds one batch document updating every cell in updates.
// Entries appear in the same order as updates; the service applies them
// in document order.
func EncodeBatch(cellsFeedURL string, updates []CellUpdate) ([]byte, error) {
	feed := outBatchFeed{
		Xmlns:      NamespaceAtom,
		XmlnsBatch: NamespaceBatch,
		XmlnsGS:    NamespaceSheet,
		ID:         cellsFeedURL,
		Entries:    make([]outEntry, 0, len(updates)),
	}

	for _, u := range updates {
		if u.Row < 1 || u.Col < 1 {
			return nil, fmt.Errorf("%w: cell R%dC%d is outside the sheet", ErrValueOutOfRange, u.Row, u.Col)
		}
		href := cellsFeedURL + "/" + u.code()
		feed.Entries = append(feed.Entries, outEntry{
			BatchID: u.code(),
			BatchOp: &outOperation{Type: "update"},
			ID:      href,
			Links:   []outLink{{Rel: RelEdit, Type: ContentTypeAtom, Href: href}},
			Cell:    &outCell{Row: u.Row, Col: u.Col, InputValue: u.Content},
		})
	}
	return marshalDocument(feed)
}
