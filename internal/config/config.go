// Package config persists the sheets-client settings: the OAuth client
// credentials, the refresh token obtained at login and a few tunables.
//
// Settings live in a JSON file. Environment variables, optionally read
// from a .env file, override what the file holds.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

const (
	appDir     = "sheets-client"
	configFile = "config.json"

	// PermSecureFile is used for every file holding credentials.
	PermSecureFile = 0600
	permSecureDir  = 0700
)

// Environment variables read by ApplyEnv and ConfigPath.
const (
	EnvConfigPath   = "SHEETS_CONFIG_PATH"
	EnvClientID     = "SHEETS_CLIENT_ID"
	EnvClientSecret = "SHEETS_CLIENT_SECRET"
	EnvRefreshToken = "SHEETS_REFRESH_TOKEN"
	EnvDebug        = "SHEETS_DEBUG"
	EnvHTTPTimeout  = "SHEETS_HTTP_TIMEOUT"
)

// ErrNotLoggedIn is returned by Validate when no refresh token is known.
var ErrNotLoggedIn = errors.New("not logged in, run 'sheets-client auth login' first")

// ErrNoClientCredentials is returned by Validate when the OAuth client is
// not configured.
var ErrNoClientCredentials = errors.New("OAuth client id and secret are not configured")

// HTTPConfig holds HTTP client settings.
type HTTPConfig struct {
	Timeout time.Duration `json:"timeout"`
}

// DefaultHTTPConfig returns the HTTP settings used when the file has none.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{Timeout: sheets.DefaultTimeout}
}

// SDK converts the settings to the library's HTTP configuration.
func (h HTTPConfig) SDK() sheets.HTTPConfig {
	return sheets.HTTPConfig{Timeout: h.Timeout}
}

// Configuration holds all persisted settings.
type Configuration struct {
	ClientID     string     `json:"client_id"`
	ClientSecret string     `json:"client_secret"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	Debug        bool       `json:"debug"`
	HTTP         HTTPConfig `json:"http"`

	mu sync.RWMutex
}

// ConfigPath returns the configuration file location: $SHEETS_CONFIG_PATH
// when set, otherwise config.json in the user config directory.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(dir, appDir, configFile), nil
}

// Load reads the configuration file. Missing tunables get their defaults.
func Load() (*Configuration, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Configuration{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrCreate is Load, returning a default configuration when the file
// does not exist yet.
func LoadOrCreate() (*Configuration, error) {
	cfg, err := Load()
	if errors.Is(err, os.ErrNotExist) {
		cfg = &Configuration{}
		cfg.applyDefaults()
		return cfg, nil
	}
	return cfg, err
}

func (c *Configuration) applyDefaults() {
	if c.HTTP.Timeout <= 0 {
		c.HTTP = DefaultHTTPConfig()
	}
}

// ApplyEnv overrides settings from the environment. When dotenvPath names
// an existing file its variables are used too, with the real environment
// taking precedence. The process environment is not modified.
func (c *Configuration) ApplyEnv(dotenvPath string) error {
	dotenv := map[string]string{}
	if dotenvPath != "" {
		vars, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			dotenv = vars
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("reading %s: %w", dotenvPath, err)
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, field := range map[string]*string{
		EnvClientID:     &c.ClientID,
		EnvClientSecret: &c.ClientSecret,
		EnvRefreshToken: &c.RefreshToken,
	} {
		if v := lookup(key); v != "" {
			*field = v
		}
	}

	if v := lookup(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", EnvDebug, v, err)
		}
		c.Debug = b
	}
	if v := lookup(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid value for %s=%q: must be a positive duration", EnvHTTPTimeout, v)
		}
		c.HTTP.Timeout = d
	}
	return nil
}

// Credentials returns the OAuth client credentials.
func (c *Configuration) Credentials() sheets.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sheets.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// ValidateClient checks that the OAuth client is configured.
func (c *Configuration) ValidateClient() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: set %s and %s or add them to the config file", ErrNoClientCredentials, EnvClientID, EnvClientSecret)
	}
	return nil
}

// Validate checks that everything needed to call the service is present.
func (c *Configuration) Validate() error {
	if err := c.ValidateClient(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.RefreshToken == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// SetRefreshToken records a new refresh token; an empty token logs out.
func (c *Configuration) SetRefreshToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RefreshToken = token
}

// Save writes the configuration file with owner-only permissions while
// holding a lock file next to it.
func (c *Configuration) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshalling config to JSON: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), permSecureDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring config file lock: %w", err)
	}
	if !locked {
		return errors.New("could not acquire config file lock, another instance may be running")
	}
	defer lock.Unlock()

	if err := os.WriteFile(path, data, PermSecureFile); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}
	return nil
}
