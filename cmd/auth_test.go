package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/sheets-client/internal/config"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// setupAuthTest points the configuration at a temporary directory and
// configures an OAuth client through the environment.
func setupAuthTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.json"))
	t.Setenv(config.EnvClientID, "client-id")
	t.Setenv(config.EnvClientSecret, "client-secret")
	t.Setenv(config.EnvRefreshToken, "")
	t.Setenv(config.EnvDebug, "")
	return dir
}

// newTokenServer answers authorization code exchanges and records the
// forms it receives.
func newTokenServer(t *testing.T) *[]url.Values {
	t.Helper()
	var forms []url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		forms = append(forms, form)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"access","refresh_token":"refresh-token","expires_in":3600}`)
	}))
	sheets.SetCustomEndpoints(server.URL+"/auth", server.URL+"/token", server.URL+"/feeds/")
	t.Cleanup(func() {
		server.Close()
		sheets.SetCustomEndpoints("", "", "")
	})
	return &forms
}

func TestAuthLogin(t *testing.T) {
	t.Run("should start login and complete it with a code", func(t *testing.T) {
		setupAuthTest(t)
		forms := newTokenServer(t)

		output, err := runRoot(t, "auth", "login")
		require.NoError(t, err)
		assert.Contains(t, output, "code_challenge=")
		assert.Contains(t, output, "auth login --code")

		output, err = runRoot(t, "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, output, "A login is pending")

		output, err = runRoot(t, "auth", "login", "--code", "the-code")
		require.NoError(t, err)
		assert.Contains(t, output, "Login successful!")
		require.Len(t, *forms, 1)
		assert.Equal(t, "the-code", (*forms)[0].Get("code"))
		assert.NotEmpty(t, (*forms)[0].Get("code_verifier"))

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "refresh-token", cfg.RefreshToken)

		output, err = runRoot(t, "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, output, "You are logged in.")
	})

	t.Run("should show message when already logged in", func(t *testing.T) {
		setupAuthTest(t)
		cfg, err := config.LoadOrCreate()
		require.NoError(t, err)
		cfg.SetRefreshToken("existing")
		require.NoError(t, cfg.Save())

		output, err := runRoot(t, "auth", "login")
		require.NoError(t, err)
		assert.Contains(t, output, "You are already logged in")
	})

	t.Run("should fail without a pending login", func(t *testing.T) {
		setupAuthTest(t)
		_, err := runRoot(t, "auth", "login", "--code", "stray")
		assert.ErrorContains(t, err, "no pending login")
	})

	t.Run("should require an OAuth client", func(t *testing.T) {
		setupAuthTest(t)
		t.Setenv(config.EnvClientSecret, "")
		_, err := runRoot(t, "auth", "login")
		assert.ErrorIs(t, err, config.ErrNoClientCredentials)
	})
}

func TestAuthURLAndExchange(t *testing.T) {
	setupAuthTest(t)
	forms := newTokenServer(t)

	output, err := runRoot(t, "auth", "url")
	require.NoError(t, err)
	assert.Contains(t, output, "scope=https%3A//spreadsheets.google.com/feeds")
	assert.Contains(t, output, "client_id=client-id")

	output, err = runRoot(t, "auth", "exchange", "plain-code")
	require.NoError(t, err)
	assert.Contains(t, output, "Login successful!")
	require.Len(t, *forms, 1)
	assert.Equal(t, "plain-code", (*forms)[0].Get("code"))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "refresh-token", cfg.RefreshToken)
}

func TestAuthStatus(t *testing.T) {
	setupAuthTest(t)
	output, err := runRoot(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "OAuth client: configured")
	assert.Contains(t, output, "You are not logged in")
}

func TestAuthLogout(t *testing.T) {
	setupAuthTest(t)
	newTokenServer(t)

	_, err := runRoot(t, "auth", "login")
	require.NoError(t, err)
	cfg, err := config.LoadOrCreate()
	require.NoError(t, err)
	cfg.SetRefreshToken("refresh")
	require.NoError(t, cfg.Save())

	output, err := runRoot(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, output, "You have been logged out")

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.RefreshToken)

	output, err = runRoot(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "You are not logged in")
}

func TestCommandsRequireLogin(t *testing.T) {
	setupAuthTest(t)
	_, err := runRoot(t, "spreadsheet", "info", "key")
	assert.ErrorIs(t, err, config.ErrNotLoggedIn)
}
