package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

const tokenCacheFile = "token_cache.json"

// cachedCredential is an access credential on disk. Owner is a digest of
// the refresh token it was issued for, so a credential never outlives a
// logout or a change of account.
type cachedCredential struct {
	Owner     string    `json:"owner"`
	Token     string    `json:"access_token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func owner(refreshToken string) string {
	sum := sha256.Sum256([]byte(refreshToken))
	return hex.EncodeToString(sum[:8])
}

func (m *Manager) getTokenCacheFilePath() string {
	return filepath.Join(m.getSessionDir(), tokenCacheFile)
}

// SaveAccessCredential caches c as issued for refreshToken.
func (m *Manager) SaveAccessCredential(refreshToken string, c sheets.AccessCredential) error {
	path := m.getTokenCacheFilePath()
	data, err := json.MarshalIndent(cachedCredential{
		Owner:     owner(refreshToken),
		Token:     c.Token,
		IssuedAt:  c.IssuedAt,
		ExpiresAt: c.ExpiresAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token cache: %w", err)
	}
	return m.withLock(path, func() error {
		return os.WriteFile(path, data, 0600)
	})
}

// LoadAccessCredential returns the cached credential for refreshToken, or
// nil when there is none, it belongs to another refresh token or it has
// expired at now.
func (m *Manager) LoadAccessCredential(refreshToken string, now time.Time) (*sheets.AccessCredential, error) {
	path := m.getTokenCacheFilePath()

	var cred *sheets.AccessCredential
	err := m.withLock(path, func() error {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading token cache '%s': %w", path, err)
		}

		var c cachedCredential
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("unmarshalling token cache from '%s': %w", path, err)
		}
		if c.Owner != owner(refreshToken) || c.Token == "" || !now.Before(c.ExpiresAt) {
			return nil
		}
		cred = &sheets.AccessCredential{Token: c.Token, IssuedAt: c.IssuedAt, ExpiresAt: c.ExpiresAt}
		return nil
	})
	return cred, err
}

// DeleteAccessCredential clears the token cache.
func (m *Manager) DeleteAccessCredential() error {
	path := m.getTokenCacheFilePath()
	return m.withLock(path, func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting token cache '%s': %w", path, err)
		}
		return nil
	})
}
