// Package session (auth.go) keeps the pending state of a PKCE login
// between "auth login", which prints the consent URL, and "auth login
// --code", which completes it. The state holds the code verifier and is
// only valid for a limited time.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const loginSessionFile = "login_session.json"

// LoginTTL is how long a pending login stays usable.
const LoginTTL = 15 * time.Minute

// LoginState is a login waiting for its authorization code.
type LoginState struct {
	AuthURL   string    `json:"auth_url"`
	Verifier  string    `json:"code_verifier"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (m *Manager) getLoginSessionFilePath() string {
	return filepath.Join(m.getSessionDir(), loginSessionFile)
}

// SaveLoginState stores a pending login, replacing any previous one.
func (m *Manager) SaveLoginState(state *LoginState) error {
	path := m.getLoginSessionFilePath()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling login session state: %w", err)
	}
	return m.withLock(path, func() error {
		return os.WriteFile(path, data, 0600)
	})
}

// LoadLoginState returns the pending login, or nil when there is none or
// it expired. An expired state is removed.
func (m *Manager) LoadLoginState(now time.Time) (*LoginState, error) {
	path := m.getLoginSessionFilePath()

	var state *LoginState
	err := m.withLock(path, func() error {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading login session file '%s': %w", path, err)
		}

		var s LoginState
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshalling login session state from '%s': %w", path, err)
		}
		if !now.Before(s.ExpiresAt) {
			_ = os.Remove(path)
			return nil
		}
		state = &s
		return nil
	})
	return state, err
}

// DeleteLoginState removes the pending login. Deleting a missing state is
// not an error.
func (m *Manager) DeleteLoginState() error {
	path := m.getLoginSessionFilePath()
	return m.withLock(path, func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting login session file '%s': %w", path, err)
		}
		return nil
	})
}
