// Package sheets (auth.go) provides the OAuth2 pieces needed to obtain a
// long-lived refresh token for the spreadsheet feeds: building the consent
// URL and exchanging the resulting authorization code. This happens once,
// during setup; day-to-day requests go through TokenManager.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cv "github.com/nirasan/go-oauth-pkce-code-verifier"
	"golang.org/x/oauth2"

	"github.com/tonimelisma/sheets-client/internal/logger"
)

// Credentials identify the application to the OAuth server.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig returns the oauth2.Config describing these credentials
// against the current endpoints.
func (c Credentials) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  RedirectURI,
		Scopes:       []string{FeedsScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   customAuthURL,
			TokenURL:  customTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Option configures a CredentialIssuer or TokenManager.
type Option func(*options)

type options struct {
	httpClient HTTPDoer
	now        func() time.Time
	logger     logger.Logger
}

// WithHTTPClient sets the HTTP capability used for token exchanges.
func WithHTTPClient(c HTTPDoer) Option {
	return func(o *options) { o.httpClient = c }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		logger: logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = NewConfiguredHTTPClient(DefaultHTTPConfig())
	}
	return o
}

// tokenResponse is the JSON body returned by the token endpoint.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	ExpiresIn    json.Number `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
}

// postTokenForm POSTs form to the token endpoint and decodes the reply.
func postTokenForm(ctx context.Context, client HTTPDoer, tokenURL string, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeForm)

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during token exchange: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}
	if err := checkStatus(http.MethodPost, tokenURL, res.StatusCode, body); err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%w: decoding token response: %w", ErrMalformedResponse, err)
	}
	return &tr, nil
}

// CredentialIssuer obtains refresh tokens through the authorization code
// flow.
type CredentialIssuer struct {
	creds Credentials
	opts  options
}

// NewCredentialIssuer creates an issuer. No network calls are made.
func NewCredentialIssuer(creds Credentials, opts ...Option) *CredentialIssuer {
	return &CredentialIssuer{creds: creds, opts: newOptions(opts)}
}

// AuthorizationURL returns the URL a user visits to grant access. The page
// shows an authorization code to pass to ExchangeAuthorizationCode.
//
// The scope is escaped with "/" kept literal, e.g. https%3A//spreadsheets...
func (i *CredentialIssuer) AuthorizationURL() string {
	return customAuthURL + "?" +
		"scope=" + escapeScope(FeedsScope) + "&" +
		"redirect_uri=" + RedirectURI + "&" +
		"response_type=code&" +
		"client_id=" + i.creds.ClientID
}

func escapeScope(scope string) string {
	return strings.ReplaceAll(url.QueryEscape(scope), "%2F", "/")
}

// ExchangeAuthorizationCode trades the code shown to the user for a
// refresh token, which the caller should persist.
func (i *CredentialIssuer) ExchangeAuthorizationCode(ctx context.Context, code string) (string, error) {
	return i.exchange(ctx, code, nil)
}

// StartAuthentication is AuthorizationURL with a PKCE challenge attached.
// The returned verifier must be handed to CompleteAuthentication.
func (i *CredentialIssuer) StartAuthentication() (authURL string, verifier string, err error) {
	codeVerifier, err := cv.CreateCodeVerifier()
	if err != nil {
		return "", "", fmt.Errorf("could not create PKCE code verifier: %w", err)
	}

	authURL = i.creds.OAuthConfig().AuthCodeURL("state-does-not-matter",
		oauth2.SetAuthURLParam("code_challenge", codeVerifier.CodeChallengeS256()),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	return authURL, codeVerifier.String(), nil
}

// CompleteAuthentication exchanges a code obtained from StartAuthentication
// for a refresh token.
func (i *CredentialIssuer) CompleteAuthentication(ctx context.Context, code, verifier string) (string, error) {
	return i.exchange(ctx, code, url.Values{"code_verifier": {verifier}})
}

func (i *CredentialIssuer) exchange(ctx context.Context, code string, extra url.Values) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {i.creds.ClientID},
		"client_secret": {i.creds.ClientSecret},
		"redirect_uri":  {RedirectURI},
		"grant_type":    {"authorization_code"},
	}
	for k, v := range extra {
		form[k] = v
	}

	i.opts.logger.Debug("exchanging authorization code", "token_url", customTokenURL)
	tr, err := postTokenForm(ctx, i.opts.httpClient, customTokenURL, form)
	if err != nil {
		return "", fmt.Errorf("exchanging authorization code: %w", err)
	}
	if tr.RefreshToken == "" {
		return "", fmt.Errorf("%w: token response has no refresh_token", ErrMalformedResponse)
	}
	return tr.RefreshToken, nil
}
