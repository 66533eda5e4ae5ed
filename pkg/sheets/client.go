package sheets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tonimelisma/sheets-client/internal/logger"
)

const (
	oAuthAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	oAuthTokenURL = "https://www.googleapis.com/oauth2/v3/token"
	feedsRootURL  = "https://spreadsheets.google.com/feeds/"
)

var (
	customAuthURL   = oAuthAuthURL
	customTokenURL  = oAuthTokenURL
	customFeedsRoot = feedsRootURL
)

// SetCustomEndpoints allows overriding the default OAuth and feed endpoints.
// This is primarily used for testing purposes, enabling tests to target
// mock servers instead of the live service. An empty argument restores the
// corresponding default.
func SetCustomEndpoints(authURL, tokenURL, feedsRoot string) {
	customAuthURL = orDefault(authURL, oAuthAuthURL)
	customTokenURL = orDefault(tokenURL, oAuthTokenURL)
	customFeedsRoot = orDefault(feedsRoot, feedsRootURL)
	if !strings.HasSuffix(customFeedsRoot, "/") {
		customFeedsRoot += "/"
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// HTTPDoer is the HTTP capability the SDK sends requests through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthorizationSource produces request headers carrying a valid bearer
// credential. *TokenManager is the production implementation.
type AuthorizationSource interface {
	AuthorizationHeader(ctx context.Context, extra http.Header) (http.Header, error)
}

// HTTPConfig holds settings for the HTTP client used against the service.
type HTTPConfig struct {
	Timeout time.Duration
}

// DefaultHTTPConfig returns the HTTP settings used when none are configured.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{Timeout: DefaultTimeout}
}

// NewConfiguredHTTPClient creates an *http.Client honouring config.
func NewConfiguredHTTPClient(config HTTPConfig) *http.Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &http.Client{Timeout: config.Timeout}
}

// Client sends authorized requests to the feed service. It is the shared
// transport of every Spreadsheet and Worksheet created from it.
//
// A Client is not safe for concurrent use when its AuthorizationSource is a
// *TokenManager; callers must serialize access externally.
type Client struct {
	httpClient HTTPDoer
	auth       AuthorizationSource
	logger     logger.Logger
}

// NewClient creates a new feed client. A nil httpClient selects
// NewConfiguredHTTPClient(DefaultHTTPConfig()); a nil log discards output.
func NewClient(httpClient HTTPDoer, auth AuthorizationSource, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = NewConfiguredHTTPClient(DefaultHTTPConfig())
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Client{
		httpClient: httpClient,
		auth:       auth,
		logger:     log,
	}
}

// apiCall performs one authorized request and returns the response body.
// Any status outside 2xx is returned as *HTTPError. No retries are made.
func (c *Client) apiCall(ctx context.Context, method, url string, header http.Header, body []byte) ([]byte, error) {
	if c.httpClient == nil {
		return nil, errors.New("HTTP client is nil, please provide a valid HTTP client")
	}
	if c.auth == nil {
		return nil, errors.New("authorization source is nil")
	}

	header, err := c.auth.AuthorizationHeader(ctx, header)
	if err != nil {
		return nil, fmt.Errorf("authorizing %s %s: %w", method, url, err)
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}
	req.Header = header

	c.logger.Debug("apiCall", "method", method, "url", url, "bytes", len(body))
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer closeBodySafely(res.Body, c.logger, method+" "+url)

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	c.logger.Debug("apiCall response", "status", res.StatusCode, "bytes", len(resBody))

	if err := checkStatus(method, url, res.StatusCode, resBody); err != nil {
		return nil, err
	}
	return resBody, nil
}

// fetchEntry GETs url and decodes it as a single-entry feed.
func (c *Client) fetchEntry(ctx context.Context, url string) (Entry, error) {
	body, err := c.apiCall(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return Entry{}, err
	}
	return DecodeEntry(body)
}

// atomHeader returns the headers used for mutating requests. Mutations use
// "match any version" semantics.
func atomHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", ContentTypeAtom)
	h.Set("If-Match", "*")
	return h
}

// feedEntity is the state shared by Spreadsheet and Worksheet: the client
// used to talk to the service and the most recently fetched feed entry.
type feedEntity struct {
	client *Client
	entry  Entry
}

func (f *feedEntity) link(rel string) (string, error) {
	return f.entry.Link(rel)
}

// closeBodySafely closes an HTTP response body and logs any error.
func closeBodySafely(body io.Closer, log logger.Logger, operation string) {
	if err := body.Close(); err != nil {
		log.Warnf("Failed to close %s body: %v", operation, err)
	}
}
