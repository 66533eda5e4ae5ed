package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tonimelisma/sheets-client/internal/session"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// ErrNoPendingLogin is returned by CompleteLogin without a prior StartLogin.
var ErrNoPendingLogin = errors.New("no pending login, run 'sheets-client auth login' first")

// AuthStatus summarizes the stored credentials.
type AuthStatus struct {
	ClientConfigured bool
	LoggedIn         bool
	PendingLoginURL  string
	CachedToken      *sheets.AccessCredential
}

func (a *App) issuer() *sheets.CredentialIssuer {
	return sheets.NewCredentialIssuer(a.Config.Credentials(),
		sheets.WithHTTPClient(a.HTTP),
		sheets.WithClock(a.now),
		sheets.WithLogger(a.Log),
	)
}

// AuthorizationURL returns the plain consent URL whose code is passed to
// ExchangeCode.
func (a *App) AuthorizationURL() (string, error) {
	if err := a.Config.ValidateClient(); err != nil {
		return "", err
	}
	return a.issuer().AuthorizationURL(), nil
}

// ExchangeCode trades a code from AuthorizationURL for a refresh token and
// stores it.
func (a *App) ExchangeCode(ctx context.Context, code string) error {
	if err := a.Config.ValidateClient(); err != nil {
		return err
	}
	refreshToken, err := a.issuer().ExchangeAuthorizationCode(ctx, code)
	if err != nil {
		return err
	}
	return a.storeRefreshToken(refreshToken)
}

// StartLogin begins a PKCE login and remembers its verifier. It returns
// the URL the user must open.
func (a *App) StartLogin() (string, error) {
	if err := a.Config.ValidateClient(); err != nil {
		return "", err
	}
	authURL, verifier, err := a.issuer().StartAuthentication()
	if err != nil {
		return "", err
	}
	state := &session.LoginState{
		AuthURL:   authURL,
		Verifier:  verifier,
		ExpiresAt: a.now().Add(session.LoginTTL),
	}
	if err := a.Sessions.SaveLoginState(state); err != nil {
		return "", fmt.Errorf("saving login session state: %w", err)
	}
	return authURL, nil
}

// CompleteLogin finishes the pending login with the code the user was shown.
func (a *App) CompleteLogin(ctx context.Context, code string) error {
	state, err := a.Sessions.LoadLoginState(a.now())
	if err != nil {
		return fmt.Errorf("could not load login state: %w", err)
	}
	if state == nil {
		return ErrNoPendingLogin
	}

	refreshToken, err := a.issuer().CompleteAuthentication(ctx, code, state.Verifier)
	if err != nil {
		return err
	}
	if err := a.storeRefreshToken(refreshToken); err != nil {
		return err
	}
	if err := a.Sessions.DeleteLoginState(); err != nil {
		a.Log.Warn("could not delete login session file", "error", err)
	}
	return nil
}

func (a *App) storeRefreshToken(refreshToken string) error {
	a.Config.SetRefreshToken(refreshToken)
	if err := a.Config.Save(); err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}
	if err := a.Sessions.DeleteAccessCredential(); err != nil {
		a.Log.Warn("could not clear token cache", "error", err)
	}
	return nil
}

// Status reports what is stored locally. No network calls are made.
func (a *App) Status() (AuthStatus, error) {
	st := AuthStatus{
		ClientConfigured: a.Config.ValidateClient() == nil,
		LoggedIn:         a.Config.RefreshToken != "",
	}
	pending, err := a.Sessions.LoadLoginState(a.now())
	if err != nil {
		return st, fmt.Errorf("could not load login state: %w", err)
	}
	if pending != nil {
		st.PendingLoginURL = pending.AuthURL
	}
	if st.LoggedIn {
		cached, err := a.Sessions.LoadAccessCredential(a.Config.RefreshToken, a.now())
		if err != nil {
			a.Log.Warn("ignoring unreadable token cache", "error", err)
		}
		st.CachedToken = cached
	}
	return st, nil
}

// Logout forgets the refresh token, any cached access token and any
// pending login.
func (a *App) Logout() error {
	a.Config.SetRefreshToken("")
	if err := a.Config.Save(); err != nil {
		return fmt.Errorf("could not clear token: %w", err)
	}
	if err := a.Sessions.DeleteAccessCredential(); err != nil {
		a.Log.Warn("could not delete token cache during logout", "error", err)
	}
	if err := a.Sessions.DeleteLoginState(); err != nil {
		a.Log.Warn("could not delete login session file during logout", "error", err)
	}
	return nil
}
