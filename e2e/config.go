package e2e

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by the live tests. They may also be placed in
// a .env.e2e file next to the tests.
const (
	envSpreadsheetKey = "SHEETS_E2E_KEY"
	envConfigPath     = "SHEETS_E2E_CONFIG"
	envTimeout        = "SHEETS_E2E_TIMEOUT"
	envCleanup        = "SHEETS_E2E_CLEANUP"

	dotenvFile = ".env.e2e"
)

// Config says which spreadsheet the live tests run against and how.
type Config struct {
	// SpreadsheetKey is a spreadsheet the account may edit. Every run adds
	// a scratch worksheet to it.
	SpreadsheetKey string
	// ConfigPath is a config.json holding client credentials and a
	// refresh token, as written by "sheets-client auth login".
	ConfigPath string
	Timeout    time.Duration
	// Cleanup removes the scratch worksheet when a test ends.
	Cleanup bool
}

// LoadConfig reads the live test settings. Variables already in the
// environment win over the .env.e2e file.
func LoadConfig() *Config {
	_ = godotenv.Load(dotenvFile)

	cfg := &Config{
		SpreadsheetKey: os.Getenv(envSpreadsheetKey),
		ConfigPath:     "../config.json",
		Timeout:        120 * time.Second,
		Cleanup:        true,
	}
	if v := os.Getenv(envConfigPath); v != "" {
		cfg.ConfigPath = v
	}
	if d, err := time.ParseDuration(os.Getenv(envTimeout)); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if b, err := strconv.ParseBool(os.Getenv(envCleanup)); err == nil {
		cfg.Cleanup = b
	}
	return cfg
}
