// Package app wires configuration, logging, session state and the sheets
// client together for the command layer.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/sheets-client/internal/config"
	"github.com/tonimelisma/sheets-client/internal/logger"
	"github.com/tonimelisma/sheets-client/internal/session"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// ErrLoginPending is returned by NewApp when a login was started but not
// completed yet.
var ErrLoginPending = errors.New("login pending")

// App is everything a command needs.
type App struct {
	Config   *config.Configuration
	Log      logger.Logger
	Sessions *session.Manager
	HTTP     *http.Client
	SDK      SDK

	now func() time.Time
}

// Bootstrap loads configuration, environment overrides and logging. It does
// not require the user to be logged in, so auth commands build on it.
func Bootstrap(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	envFile, _ := cmd.Flags().GetString("env-file")
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}

	sessions, err := newSessionManager()
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Log:      logger.NewDefaultLogger(cfg.Debug),
		Sessions: sessions,
		HTTP:     sheets.NewConfiguredHTTPClient(cfg.HTTP.SDK()),
		now:      time.Now,
	}, nil
}

// NewApp is Bootstrap plus an authorized sheets client.
func NewApp(cmd *cobra.Command) (*App, error) {
	a, err := Bootstrap(cmd)
	if err != nil {
		return nil, err
	}

	if err := a.Config.Validate(); err != nil {
		if errors.Is(err, config.ErrNotLoggedIn) {
			if pending, _ := a.Sessions.LoadLoginState(a.now()); pending != nil {
				return nil, fmt.Errorf("%w: open %s and run 'sheets-client auth login --code <code>'", ErrLoginPending, pending.AuthURL)
			}
		}
		return nil, err
	}

	client, err := a.initializeSheetsClient()
	if err != nil {
		return nil, fmt.Errorf("initializing sheets client: %w", err)
	}
	a.SDK = NewLiveSDK(client)
	return a, nil
}

// newSessionManager keeps session files next to the configuration file.
func newSessionManager() (*session.Manager, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return nil, err
	}
	return session.NewManagerWithConfigDir(filepath.Dir(path)), nil
}

func (a *App) initializeSheetsClient() (*sheets.Client, error) {
	if a.Config == nil {
		return nil, errors.New("configuration is nil")
	}
	refreshToken := a.Config.RefreshToken

	tm := sheets.NewTokenManager(a.Config.Credentials(), refreshToken,
		sheets.WithHTTPClient(a.HTTP),
		sheets.WithClock(a.now),
		sheets.WithLogger(a.Log),
	)

	initial := ""
	cached, err := a.Sessions.LoadAccessCredential(refreshToken, a.now())
	if err != nil {
		a.Log.Warn("ignoring unreadable token cache", "error", err)
	} else if cached != nil {
		a.Log.Debug("using cached access token", "expires_at", cached.ExpiresAt)
		tm.Seed(*cached)
		initial = cached.Token
	}

	onNew := func(c sheets.AccessCredential) error {
		return a.Sessions.SaveAccessCredential(refreshToken, c)
	}
	auth := newPersistingAuthSource(tm, initial, onNew, a.Log)

	return sheets.NewClient(a.HTTP, auth, a.Log), nil
}
