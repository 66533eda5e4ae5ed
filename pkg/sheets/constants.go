// Package sheets provides constants used throughout the Sheets SDK.
package sheets

import "time"

// Feed namespaces
const (
	NamespaceAtom  = "http://www.w3.org/2005/Atom"
	NamespaceSheet = "http://schemas.google.com/spreadsheets/2006"
	NamespaceBatch = "http://schemas.google.com/gdata/batch"
)

// Link relations used to navigate between feeds.
const (
	RelSelf           = "self"
	RelEdit           = "edit"
	RelAlternate      = "alternate"
	RelCellsFeed      = NamespaceSheet + "#cellsfeed"
	RelWorksheetsFeed = NamespaceSheet + "#worksheetsfeed"
)

// Content types
const (
	ContentTypeAtom = "application/atom+xml"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// MaxCells is the largest number of cells the service allows in one worksheet.
const MaxCells = 2000000

// Authentication Constants
const (
	// RefreshSafetyMargin is subtracted from the server-declared token
	// lifetime so that tokens are refreshed slightly before they expire.
	RefreshSafetyMargin = 100 * time.Second

	// RedirectURI is the out-of-band redirect used by installed applications.
	RedirectURI = "urn:ietf:wg:oauth:2.0:oob"

	// FeedsScope is the OAuth scope granting access to the spreadsheet feeds.
	FeedsScope = "https://spreadsheets.google.com/feeds"
)

// Default HTTP Configuration Constants
const (
	DefaultTimeout = 30 * time.Second
)
