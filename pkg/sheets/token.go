package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// AccessCredential is a short-lived bearer token. ExpiresAt already has
// RefreshSafetyMargin taken off the server-declared lifetime.
type AccessCredential struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager turns a long-lived refresh token into bearer credentials,
// refreshing lazily when the cached one is missing or expired.
//
// The cache belongs to one TokenManager and is mutated without locking;
// a TokenManager must not be shared between goroutines.
type TokenManager struct {
	creds        Credentials
	refreshToken string
	opts         options
	access       *AccessCredential
}

var _ oauth2.TokenSource = (*TokenManager)(nil)

// NewTokenManager creates a manager. No network calls are made until a
// token is first needed.
func NewTokenManager(creds Credentials, refreshToken string, opts ...Option) *TokenManager {
	return &TokenManager{
		creds:        creds,
		refreshToken: refreshToken,
		opts:         newOptions(opts),
	}
}

// Credential returns the cached access credential, or nil before the first
// refresh.
func (t *TokenManager) Credential() *AccessCredential {
	if t.access == nil {
		return nil
	}
	c := *t.access
	return &c
}

// Seed installs a credential issued earlier, for example one cached on
// disk. It is used until its ExpiresAt passes.
func (t *TokenManager) Seed(c AccessCredential) {
	t.access = &c
}

// Expired reports whether a refresh is due.
func (t *TokenManager) Expired() bool {
	return t.access == nil || !t.opts.now().Before(t.access.ExpiresAt)
}

// Refresh unconditionally exchanges the refresh token for a new access
// credential.
func (t *TokenManager) Refresh(ctx context.Context) error {
	requestTime := t.opts.now()
	form := url.Values{
		"refresh_token": {t.refreshToken},
		"client_id":     {t.creds.ClientID},
		"client_secret": {t.creds.ClientSecret},
		"grant_type":    {"refresh_token"},
	}

	t.opts.logger.Debug("refreshing access token", "token_url", customTokenURL)
	tr, err := postTokenForm(ctx, t.opts.httpClient, customTokenURL, form)
	if err != nil {
		return fmt.Errorf("refreshing access token: %w", err)
	}
	if tr.AccessToken == "" {
		return fmt.Errorf("%w: token response has no access_token", ErrMalformedResponse)
	}

	expiresIn, err := tr.ExpiresIn.Int64()
	if err != nil {
		return fmt.Errorf("%w: expires_in %q is not an integer", ErrMalformedResponse, tr.ExpiresIn)
	}
	lifetime := time.Duration(expiresIn) * time.Second
	if lifetime <= RefreshSafetyMargin {
		return fmt.Errorf("%w: expires_in %ds must exceed the %s safety margin", ErrValueOutOfRange, expiresIn, RefreshSafetyMargin)
	}

	t.access = &AccessCredential{
		Token:     tr.AccessToken,
		IssuedAt:  requestTime,
		ExpiresAt: requestTime.Add(lifetime - RefreshSafetyMargin),
	}
	t.opts.logger.Debug("access token refreshed", "expires_at", t.access.ExpiresAt)
	return nil
}

func (t *TokenManager) validToken(ctx context.Context) (string, error) {
	if t.Expired() {
		if err := t.Refresh(ctx); err != nil {
			return "", err
		}
	}
	return t.access.Token, nil
}

// AuthorizationHeader returns a copy of extra with the Authorization header
// set to the current bearer token. Other headers are preserved; an existing
// Authorization header is always replaced.
func (t *TokenManager) AuthorizationHeader(ctx context.Context, extra http.Header) (http.Header, error) {
	token, err := t.validToken(ctx)
	if err != nil {
		return nil, err
	}

	h := extra.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Authorization", "Bearer "+token)
	return h, nil
}

// Token implements oauth2.TokenSource, so a TokenManager can back an
// oauth2.Transport.
func (t *TokenManager) Token() (*oauth2.Token, error) {
	token, err := t.validToken(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken:  token,
		TokenType:    "Bearer",
		RefreshToken: t.refreshToken,
		Expiry:       t.access.ExpiresAt,
	}, nil
}
