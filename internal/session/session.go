package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Manager stores short-lived CLI state under a sessions directory.
type Manager struct {
	configDir string
}

// NewManager creates a manager rooted in the user config directory.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("could not get user config directory: %w", err)
	}
	return &Manager{configDir: filepath.Join(configDir, "sheets-client")}, nil
}

// NewManagerWithConfigDir creates a manager rooted in configDir.
func NewManagerWithConfigDir(configDir string) *Manager {
	return &Manager{configDir: configDir}
}

func (m *Manager) getSessionDir() string {
	return filepath.Join(m.configDir, "sessions")
}

// withLock runs fn while holding the lock file for path. The sessions
// directory is created first so the lock file can be placed next to path.
func (m *Manager) withLock(path string, fn func() error) error {
	if err := os.MkdirAll(m.getSessionDir(), 0700); err != nil {
		return fmt.Errorf("creating session directory '%s': %w", m.getSessionDir(), err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring file lock for '%s': %w", path, err)
	}
	if !locked {
		return errors.New("could not acquire file lock, another instance may be running")
	}
	defer lock.Unlock()

	return fn()
}
