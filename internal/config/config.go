// Package config provides TOML configuration file loading for hellosrv.
// The configuration file lives at ~/.hellosrv/config.toml by default, but
// can be overridden with the --config flag. CLI flags always take
// precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// File represents the hellosrv configuration file structure.
// Field names map to snake_case keys in TOML via struct tags.
type File struct {
	// Port is the TCP port to listen on (1-65535).
	// Default: 64001
	Port int `toml:"port"`

	// Bind is the address to bind: an IPv4/IPv6 literal or hostname.
	// Default: 0.0.0.0 (:: when ipv6 is set)
	Bind string `toml:"bind"`

	// IPv6 switches the default bind address to the IPv6 unspecified
	// address, giving a dual-stack listener.
	// Default: false
	IPv6 bool `toml:"ipv6"`

	// Mdns enables DNS-SD advertisement of the server on the local
	// network. Default: false (must be explicitly enabled)
	Mdns bool `toml:"mdns"`

	// QR renders the primary reachable URL as a QR code on startup.
	// Default: false
	QR bool `toml:"qr"`
}

// DefaultPath returns the default config file location: ~/.hellosrv/config.toml.
// Returns an error only if the user's home directory cannot be determined.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".hellosrv", "config.toml"), nil
}

// Load reads a TOML config file from the given path.
//
// Behavior:
//   - If path is empty, attempts to load from the default location and
//     returns an empty File without error if the default file is missing.
//     The server must be able to start without any config file.
//   - If path is specified, returns an error if the file doesn't exist.
//   - Returns an error if the file exists but cannot be parsed.
func Load(path string) (*File, error) {
	cfg := &File{}

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
			return cfg, nil
		}
		path = defaultPath
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	// Any parse error is fatal since the user expects the config to be
	// applied.
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
