package sheets

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStatusHandling(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"200 OK", http.StatusOK, false},
		{"201 Created", http.StatusCreated, false},
		{"204 No Content", http.StatusNoContent, false},
		{"304 Not Modified", http.StatusNotModified, true},
		{"401 Unauthorized", http.StatusUnauthorized, true},
		{"404 Not Found", http.StatusNotFound, true},
		{"409 Conflict", http.StatusConflict, true},
		{"500 Internal Server Error", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeService(t)
			f.respond(http.MethodGet, "/feeds/x", tt.status, "")

			_, err := f.client().apiCall(context.Background(), http.MethodGet, f.base+"/feeds/x", nil, nil)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, http.MethodGet, httpErr.Method)
			assert.ErrorIs(t, err, ErrTransport)
			assert.Len(t, f.recorded(), 1, "requests are never retried")
		})
	}
}

func TestClientSendsHeadersAndBody(t *testing.T) {
	f := newFakeService(t)
	f.respond(http.MethodPost, "/feeds/x", http.StatusOK, "ok")

	res, err := f.client().apiCall(context.Background(), http.MethodPost, f.base+"/feeds/x", atomHeader(), []byte("<entry/>"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(res))

	calls := f.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "<entry/>", calls[0].Body)
	assert.Equal(t, "Bearer "+testAccessToken, calls[0].Header.Get("Authorization"))
	assert.Equal(t, ContentTypeAtom, calls[0].Header.Get("Content-Type"))
	assert.Equal(t, "*", calls[0].Header.Get("If-Match"))
}

type failingAuth struct{}

func (failingAuth) AuthorizationHeader(context.Context, http.Header) (http.Header, error) {
	return nil, ErrTransport
}

func TestClientAuthorizationFailure(t *testing.T) {
	f := newFakeService(t)
	c := NewClient(f.server.Client(), failingAuth{}, nil)

	_, err := c.apiCall(context.Background(), http.MethodGet, f.base+"/feeds/x", nil, nil)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Empty(t, f.recorded(), "nothing is sent without a credential")
}

func TestClientWithoutAuthorizationSource(t *testing.T) {
	c := NewClient(nil, nil, nil)
	_, err := c.apiCall(context.Background(), http.MethodGet, "http://127.0.0.1:1/", nil, nil)
	assert.Error(t, err)
}

func TestSetCustomEndpoints(t *testing.T) {
	t.Cleanup(func() { SetCustomEndpoints("", "", "") })

	SetCustomEndpoints("http://auth", "http://token", "http://feeds")
	assert.Equal(t, "http://auth", customAuthURL)
	assert.Equal(t, "http://token", customTokenURL)
	assert.Equal(t, "http://feeds/", customFeedsRoot)

	SetCustomEndpoints("", "", "")
	assert.Equal(t, oAuthAuthURL, customAuthURL)
	assert.Equal(t, oAuthTokenURL, customTokenURL)
	assert.Equal(t, feedsRootURL, customFeedsRoot)
}

func TestNewConfiguredHTTPClient(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewConfiguredHTTPClient(HTTPConfig{Timeout: 5 * time.Second}).Timeout)
	assert.Equal(t, DefaultTimeout, NewConfiguredHTTPClient(HTTPConfig{}).Timeout)
}

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{Method: "GET", URL: "http://x", StatusCode: 500, Body: []byte("boom")}
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}
