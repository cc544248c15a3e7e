// Package service installs and removes hellosrv as an OS system service.
//
// Only Windows has a functional path. Two backends implement the same
// contract: nssm (a third-party service manager, preferred when found on
// PATH) and the native service controller (sc.exe) driving a generated
// wrapper script. Linux and macOS are explicit stubs that report the
// feature as not implemented.
//
// A small TOML state file written next to the wrapper records which
// backend performed the installation, so uninstall removes the service via
// the same manager it was created with.
package service

import (
	"errors"
	"fmt"
	"strconv"
)

// Name is the service name registered with the OS.
const Name = "hellosrv"

// DisplayName is the human-readable service name.
const DisplayName = "hellosrv web server"

// Description is the service description shown by the OS service manager.
const Description = "Minimal HTTP server reporting its own name and version."

// Sentinel errors callers branch on for messaging and exit codes.
var (
	// ErrUnsupported is returned on platforms without service support.
	ErrUnsupported = errors.New("service installation is not implemented on this platform")

	// ErrNotElevated is returned when the caller lacks administrator rights.
	ErrNotElevated = errors.New("administrator privileges are required")

	// ErrNotInstalled is returned by uninstall when no service is registered.
	ErrNotInstalled = errors.New("service is not installed")

	// ErrAlreadyInstalled is returned by install when a registration exists.
	ErrAlreadyInstalled = errors.New("service is already installed")
)

// Config describes the service to register: the executable to re-invoke
// and the flags it should run with.
type Config struct {
	// Executable is the absolute path of the binary to register.
	Executable string

	// Port, Bind, IPv6 mirror the run flags the service should use.
	Port int
	Bind string
	IPv6 bool
}

// Args reconstructs the command-line flags the service invocation uses.
// Only non-default values are emitted so the registered command stays
// readable in the service manager UI.
func (c Config) Args() []string {
	var args []string
	if c.Port != 0 {
		args = append(args, "--port="+strconv.Itoa(c.Port))
	}
	if c.Bind != "" {
		args = append(args, "--bind="+c.Bind)
	}
	if c.IPv6 {
		args = append(args, "--ipv6")
	}
	return args
}

// Backend is one way of registering the service with the OS.
// Selected once per invocation by probing for the third-party manager.
type Backend interface {
	// Name identifies the backend ("nssm" or "sc") for state and output.
	Name() string

	// Installed reports whether the service is currently registered.
	Installed() (bool, error)

	// Install registers, configures, and starts the service.
	// Any step's failure aborts the remaining steps; partial registration
	// is not rolled back.
	Install(cfg Config) error

	// Uninstall stops (tolerating "already stopped") and removes the
	// registered service.
	Uninstall() error
}

// commandError wraps an external command failure with its output, which is
// usually the only clue sc/nssm give about what went wrong.
func commandError(name string, args []string, out string, err error) error {
	if out != "" {
		return fmt.Errorf("%s %v: %w: %s", name, args, err, out)
	}
	return fmt.Errorf("%s %v: %w", name, args, err)
}
