package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// spreadsheetURLPattern matches the browser URL of a spreadsheet, with or
// without scheme, "www." or anything after the key.
var spreadsheetURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.)?docs\.google\.com/spreadsheets/d/([^/?#]+)`)

// ExtractKey returns the spreadsheet key from either a bare key or a
// spreadsheet URL such as https://docs.google.com/spreadsheets/d/<key>/edit.
func ExtractKey(keyOrURL string) (string, error) {
	s := strings.TrimSpace(keyOrURL)
	if m := spreadsheetURLPattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if s == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, keyOrURL)
	}
	return s, nil
}

// SpreadsheetURL returns the feed URL the spreadsheet with key is fetched
// from.
func SpreadsheetURL(key string) string {
	return customFeedsRoot + "spreadsheets/private/full/" + url.PathEscape(key)
}

// Spreadsheet is a spreadsheet and the entry point to its worksheets.
//
// The spreadsheet's own entry is fetched once, by OpenSpreadsheet, and
// never refreshed: Title, Key and URL report the state at that time.
// Worksheets fetches the worksheet list anew on every call.
type Spreadsheet struct {
	feedEntity
}

// OpenSpreadsheet fetches the spreadsheet identified by keyOrURL.
func OpenSpreadsheet(ctx context.Context, c *Client, keyOrURL string) (*Spreadsheet, error) {
	key, err := ExtractKey(keyOrURL)
	if err != nil {
		return nil, err
	}

	e, err := c.fetchEntry(ctx, SpreadsheetURL(key))
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet %s: %w", key, err)
	}
	return &Spreadsheet{feedEntity{client: c, entry: e}}, nil
}

// Key returns the spreadsheet key.
func (s *Spreadsheet) Key() (string, error) {
	return s.entry.idSegment(1)
}

// Title returns the spreadsheet title.
func (s *Spreadsheet) Title() string {
	return s.entry.Title
}

// URL returns the address of the spreadsheet in a browser.
func (s *Spreadsheet) URL() (string, error) {
	return s.link(RelAlternate)
}

func (s *Spreadsheet) String() string {
	key, _ := s.Key()
	return fmt.Sprintf("<Spreadsheet title=%q key=%q>", s.entry.Title, key)
}

// Worksheets lists the spreadsheet's worksheets in service order.
func (s *Spreadsheet) Worksheets(ctx context.Context) ([]*Worksheet, error) {
	feedURL, err := s.link(RelWorksheetsFeed)
	if err != nil {
		return nil, err
	}
	body, err := s.client.apiCall(ctx, http.MethodGet, feedURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}
	feed, err := DecodeFeed(body)
	if err != nil {
		return nil, err
	}

	worksheets := make([]*Worksheet, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		worksheets = append(worksheets, newWorksheet(s.client, e))
	}
	return worksheets, nil
}

// Worksheet returns the first worksheet whose title is exactly title.
func (s *Spreadsheet) Worksheet(ctx context.Context, title string) (*Worksheet, error) {
	worksheets, err := s.Worksheets(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range worksheets {
		if w.CachedTitle() == title {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: unavailable sheet %q", ErrNotFound, title)
}

// AddWorksheet creates a worksheet with the given title and size.
func (s *Spreadsheet) AddWorksheet(ctx context.Context, title string, rows, cols int) (*Worksheet, error) {
	body, err := EncodeNewWorksheet(title, rows, cols)
	if err != nil {
		return nil, err
	}
	feedURL, err := s.link(RelWorksheetsFeed)
	if err != nil {
		return nil, err
	}

	s.client.logger.Debug("adding worksheet", "title", title, "rows", rows, "cols", cols)
	resBody, err := s.client.apiCall(ctx, http.MethodPost, feedURL, atomHeader(), body)
	if err != nil {
		return nil, fmt.Errorf("adding worksheet %q: %w", title, err)
	}
	e, err := DecodeEntry(resBody)
	if err != nil {
		return nil, err
	}
	return newWorksheet(s.client, e), nil
}

// RemoveWorksheet deletes w, which must belong to this spreadsheet.
func (s *Spreadsheet) RemoveWorksheet(ctx context.Context, w *Worksheet) error {
	edit, err := w.link(RelEdit)
	if err != nil {
		return err
	}

	s.client.logger.Debug("removing worksheet", "title", w.CachedTitle())
	if _, err := s.client.apiCall(ctx, http.MethodDelete, edit, atomHeader(), nil); err != nil {
		return fmt.Errorf("removing worksheet %q: %w", w.CachedTitle(), err)
	}
	return nil
}
