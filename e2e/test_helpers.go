//go:build e2e

package e2e

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"testing"

	"github.com/tonimelisma/sheets-client/internal/config"
	"github.com/tonimelisma/sheets-client/internal/logger"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// E2ETestHelper gives a test a live spreadsheet and a scratch worksheet
// that is removed afterwards.
type E2ETestHelper struct {
	Config      *Config
	Tokens      *sheets.TokenManager
	Client      *sheets.Client
	Spreadsheet *sheets.Spreadsheet
	Worksheet   *sheets.Worksheet
	TestID      string
}

// NewE2ETestHelper connects to the spreadsheet named by SHEETS_E2E_KEY with
// the credentials of an authenticated CLI config file.
func NewE2ETestHelper(t *testing.T) *E2ETestHelper {
	t.Helper()
	cfg := LoadConfig()
	if cfg.SpreadsheetKey == "" {
		t.Skip("SHEETS_E2E_KEY is not set")
	}
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		t.Fatalf(`
E2E Testing Setup Required:

1. Log in with the CLI:
   ./sheets-client auth login

2. Copy the authenticated config.json to the project root:
   cp ~/.config/sheets-client/config.json ./config.json

3. Run the tests against a spreadsheet you own:
   SHEETS_E2E_KEY=<key> go test -tags=e2e -v ./e2e/...

(%v)`, err)
	}

	t.Setenv(config.EnvConfigPath, cfg.ConfigPath)
	appCfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if err := appCfg.ApplyEnv(""); err != nil {
		t.Fatalf("Failed to apply environment: %v", err)
	}
	if err := appCfg.Validate(); err != nil {
		t.Fatalf("Config is not usable: %v", err)
	}

	log := logger.NewDefaultLogger(appCfg.Debug)
	httpClient := sheets.NewConfiguredHTTPClient(appCfg.HTTP.SDK())
	tokens := sheets.NewTokenManager(appCfg.Credentials(), appCfg.RefreshToken,
		sheets.WithHTTPClient(httpClient), sheets.WithLogger(log))

	h := &E2ETestHelper{
		Config: cfg,
		Tokens: tokens,
		Client: sheets.NewClient(httpClient, tokens, log),
		TestID: generateTestID(),
	}

	ctx, cancel := h.Context()
	defer cancel()
	h.Spreadsheet, err = sheets.OpenSpreadsheet(ctx, h.Client, cfg.SpreadsheetKey)
	if err != nil {
		t.Fatalf("Failed to open spreadsheet: %v", err)
	}
	h.Worksheet, err = h.Spreadsheet.AddWorksheet(ctx, "e2e-"+h.TestID, 10, 5)
	if err != nil {
		t.Fatalf("Failed to add scratch worksheet: %v", err)
	}

	t.Cleanup(func() {
		h.Cleanup(t)
	})
	return h
}

// Context returns a context bounded by the configured timeout.
func (h *E2ETestHelper) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.Config.Timeout)
}

// Cleanup removes the scratch worksheet unless SHEETS_E2E_CLEANUP=false.
func (h *E2ETestHelper) Cleanup(t *testing.T) {
	if !h.Config.Cleanup || h.Worksheet == nil {
		t.Logf("Leaving worksheet %s in place", h.Worksheet)
		return
	}
	ctx, cancel := h.Context()
	defer cancel()
	if err := h.Spreadsheet.RemoveWorksheet(ctx, h.Worksheet); err != nil {
		t.Logf("Warning: failed to remove worksheet %s: %v", h.Worksheet, err)
	}
}

func generateTestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// LogTestInfo logs where the test runs.
func (h *E2ETestHelper) LogTestInfo(t *testing.T) {
	t.Logf("Test ID: %s", h.TestID)
	t.Logf("Spreadsheet: %s", h.Spreadsheet)
	t.Logf("Worksheet: %s", h.Worksheet)
}
