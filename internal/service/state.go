package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// stateFileName is the TOML file recording which backend installed the
// service and with which flags. It lives in the service data directory
// alongside the generated wrapper script and log file.
const stateFileName = "service.toml"

// State records how the service was installed so uninstall can remove it
// via the same manager.
type State struct {
	// Backend is the backend name that performed the install.
	Backend string `toml:"backend"`

	// Executable is the registered binary path.
	Executable string `toml:"executable"`

	// Args are the run flags the service was registered with.
	Args []string `toml:"args"`
}

// saveState writes the install state file under dir, creating dir first.
func saveState(dir string, st State) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create service data directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(st); err != nil {
		return fmt.Errorf("failed to encode service state: %w", err)
	}
	path := filepath.Join(dir, stateFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write service state: %w", err)
	}
	return nil
}

// loadState reads the install state file under dir.
// Returns (nil, nil) when the file does not exist; a missing state file is
// normal for a service installed by an older build or not installed at all.
func loadState(dir string) (*State, error) {
	path := filepath.Join(dir, stateFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	st := &State{}
	if _, err := toml.DecodeFile(path, st); err != nil {
		return nil, fmt.Errorf("failed to parse service state %s: %w", path, err)
	}
	return st, nil
}

// removeState deletes the state file, ignoring a missing file.
func removeState(dir string) {
	os.Remove(filepath.Join(dir, stateFileName))
}
