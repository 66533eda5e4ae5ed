package sheets

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrTransport         = errors.New("bad HTTP response")
	ErrMalformedResponse = errors.New("malformed response")
	ErrMissingLink       = fmt.Errorf("%w: missing link", ErrMalformedResponse)
	ErrValueOutOfRange   = errors.New("value out of range")
	ErrNotFound          = errors.New("not found")
	ErrInvalidKey        = errors.New("invalid spreadsheet key")
)

// HTTPError is returned whenever the service answers with a status code
// outside the 2xx range. The raw body is kept for diagnostics.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("bad HTTP response %d from %s %s:\n%s", e.StatusCode, e.Method, e.URL, string(e.Body))
}

// Unwrap lets callers match any HTTPError with errors.Is(err, ErrTransport).
func (e *HTTPError) Unwrap() error {
	return ErrTransport
}

// checkStatus returns an *HTTPError unless status is 2xx.
func checkStatus(method, url string, status int, body []byte) error {
	if status/100 != 2 {
		return &HTTPError{Method: method, URL: url, StatusCode: status, Body: body}
	}
	return nil
}
