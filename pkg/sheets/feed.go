// Package sheets (feed.go) decodes the service's namespaced Atom feed
// documents into plain records. Decoding never keeps a reference to the
// parsed XML; encoders in feed_encode.go build fresh documents from records.
package sheets

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Link is a feed link, identified by its relation.
type Link struct {
	Rel  string
	Type string
	Href string
}

// Category is an Atom category element.
type Category struct {
	Scheme string
	Term   string
}

// Entry is a decoded single resource: a spreadsheet, or one worksheet.
// RowCount and ColCount are zero when the entry carries no dimensions.
type Entry struct {
	ID         string
	Title      string
	Categories []Category
	Links      []Link
	RowCount   int
	ColCount   int
}

// Feed is a decoded list feed: its own metadata plus the ordered entries.
type Feed struct {
	Entry
	Entries []Entry
}

// Coord addresses one cell. Rows and columns are 1-based.
type Coord struct {
	Row int
	Col int
}

// Cells is a sparse set of cell values keyed by coordinate.
type Cells map[Coord]string

// Link returns the href of the first link with relation rel.
func (e Entry) Link(rel string) (string, error) {
	for _, l := range e.Links {
		if l.Rel == rel {
			return l.Href, nil
		}
	}
	return "", fmt.Errorf("%w: no link with rel %q in %s", ErrMissingLink, rel, e.ID)
}

// Dimensions returns the entry's row and column counts.
func (e Entry) Dimensions() (rows, cols int, err error) {
	if e.RowCount <= 0 || e.ColCount <= 0 {
		return 0, 0, fmt.Errorf("%w: entry %s has no rowCount/colCount", ErrMalformedResponse, e.ID)
	}
	return e.RowCount, e.ColCount, nil
}

// idSegment returns the n-th path segment of the entry id counted from the
// end, 1 being the last.
func (e Entry) idSegment(n int) (string, error) {
	parts := strings.Split(e.ID, "/")
	if n < 1 || len(parts) < n {
		return "", fmt.Errorf("%w: id %q has fewer than %d segments", ErrMalformedResponse, e.ID, n)
	}
	return parts[len(parts)-n], nil
}

type xmlLink struct {
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
	Href string `xml:"href,attr"`
}

type xmlCategory struct {
	Scheme string `xml:"scheme,attr"`
	Term   string `xml:"term,attr"`
}

type xmlCell struct {
	Row        string `xml:"row,attr"`
	Col        string `xml:"col,attr"`
	InputValue string `xml:"inputValue,attr"`
	Value      string `xml:",chardata"`
}

type xmlEntry struct {
	ID         string        `xml:"http://www.w3.org/2005/Atom id"`
	Title      string        `xml:"http://www.w3.org/2005/Atom title"`
	Categories []xmlCategory `xml:"http://www.w3.org/2005/Atom category"`
	Links      []xmlLink     `xml:"http://www.w3.org/2005/Atom link"`
	RowCount   string        `xml:"http://schemas.google.com/spreadsheets/2006 rowCount"`
	ColCount   string        `xml:"http://schemas.google.com/spreadsheets/2006 colCount"`
	Cell       *xmlCell      `xml:"http://schemas.google.com/spreadsheets/2006 cell"`
}

type xmlFeed struct {
	xmlEntry
	Entries []xmlEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

func (x xmlEntry) record() (Entry, error) {
	e := Entry{
		ID:    strings.TrimSpace(x.ID),
		Title: x.Title,
	}
	for _, c := range x.Categories {
		e.Categories = append(e.Categories, Category(c))
	}
	for _, l := range x.Links {
		e.Links = append(e.Links, Link(l))
	}

	var err error
	if e.RowCount, err = optionalInt("rowCount", x.RowCount); err != nil {
		return Entry{}, err
	}
	if e.ColCount, err = optionalInt("colCount", x.ColCount); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func optionalInt(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrMalformedResponse, name, s)
	}
	return n, nil
}

// DecodeEntry decodes a container feed: a document whose root is a single
// entry (or a feed used as one).
func DecodeEntry(data []byte) (Entry, error) {
	var x xmlEntry
	if err := xml.Unmarshal(data, &x); err != nil {
		return Entry{}, fmt.Errorf("%w: decoding entry: %w", ErrMalformedResponse, err)
	}
	return x.record()
}

// DecodeFeed decodes a list feed and its entries, preserving document order.
func DecodeFeed(data []byte) (Feed, error) {
	var x xmlFeed
	if err := xml.Unmarshal(data, &x); err != nil {
		return Feed{}, fmt.Errorf("%w: decoding feed: %w", ErrMalformedResponse, err)
	}

	meta, err := x.xmlEntry.record()
	if err != nil {
		return Feed{}, err
	}
	feed := Feed{Entry: meta}
	for i, xe := range x.Entries {
		e, err := xe.record()
		if err != nil {
			return Feed{}, fmt.Errorf("entry %d: %w", i, err)
		}
		feed.Entries = append(feed.Entries, e)
	}
	return feed, nil
}

// DecodeCells decodes a cell feed. With values set, each cell's computed
// value is used; otherwise its input value (the formula, if any).
func DecodeCells(data []byte, values bool) (Cells, error) {
	var x xmlFeed
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("%w: decoding cell feed: %w", ErrMalformedResponse, err)
	}

	cells := Cells{}
	for _, e := range x.Entries {
		if e.Cell == nil {
			return nil, fmt.Errorf("%w: cell feed entry %s has no cell", ErrMalformedResponse, e.ID)
		}
		row, err := strconv.Atoi(e.Cell.Row)
		if err != nil || row < 1 {
			return nil, fmt.Errorf("%w: invalid cell row %q", ErrMalformedResponse, e.Cell.Row)
		}
		col, err := strconv.Atoi(e.Cell.Col)
		if err != nil || col < 1 {
			return nil, fmt.Errorf("%w: invalid cell col %q", ErrMalformedResponse, e.Cell.Col)
		}

		content := e.Cell.InputValue
		if values {
			content = e.Cell.Value
		}
		cells[Coord{Row: row, Col: col}] = content
	}
	return cells, nil
}
