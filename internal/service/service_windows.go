//go:build windows

package service

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Function-variable seams for testability.
// Tests override these to simulate elevation, PATH contents, and service
// manager behavior without touching the real service controller.
var (
	runCommand = func(name string, args ...string) (string, error) {
		out, err := exec.Command(name, args...).CombinedOutput()
		return string(out), err
	}
	lookPath = exec.LookPath
	dataDir  = defaultDataDir
)

// defaultDataDir returns the platform-conventional service data directory,
// where the wrapper script, log file, and install state live.
func defaultDataDir() string {
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, Name)
}

// checkElevated verifies the process has administrator rights by running a
// privileged introspection command. `net session` fails with access denied
// for non-elevated shells.
func checkElevated() error {
	if _, err := runCommand("net", "session"); err != nil {
		return ErrNotElevated
	}
	return nil
}

// detectBackend selects the service backend: nssm when discoverable on the
// command search path, the native service controller otherwise.
func detectBackend() Backend {
	if path, err := lookPath("nssm"); err == nil {
		return &nssmBackend{exe: path}
	}
	return &scBackend{dataDir: dataDir()}
}

// backendByName maps a recorded state-file backend name to a Backend, so
// uninstall uses the same manager that installed the service.
func backendByName(name string) Backend {
	switch name {
	case "nssm":
		if path, err := lookPath("nssm"); err == nil {
			return &nssmBackend{exe: path}
		}
		// nssm disappeared from PATH since install; fall through to sc,
		// which can still stop and delete the registration.
		return &scBackend{dataDir: dataDir()}
	case "sc":
		return &scBackend{dataDir: dataDir()}
	default:
		return detectBackend()
	}
}

// Install registers the service with the OS and starts it.
//
// Steps: elevation check, duplicate-registration check, backend install,
// state file write. Any failure aborts the remaining steps; partial
// registration is not rolled back (acknowledged limitation).
func Install(cfg Config, out io.Writer) error {
	if err := checkElevated(); err != nil {
		return err
	}

	backend := detectBackend()
	fmt.Fprintf(out, "Installing service %q using %s...\n", Name, backend.Name())

	installed, err := backend.Installed()
	if err != nil {
		return fmt.Errorf("failed to query service status: %w", err)
	}
	if installed {
		return ErrAlreadyInstalled
	}

	if err := backend.Install(cfg); err != nil {
		return err
	}

	if err := saveState(dataDir(), State{
		Backend:    backend.Name(),
		Executable: cfg.Executable,
		Args:       cfg.Args(),
	}); err != nil {
		// The service is registered and running; a failed state write only
		// degrades uninstall to backend auto-detection.
		fmt.Fprintf(out, "Warning: %v\n", err)
	}

	fmt.Fprintf(out, "Service %q installed and started.\n", Name)
	return nil
}

// Uninstall stops and removes the registered service.
// Leftover files (wrapper script, log) are reported for manual cleanup
// rather than deleted automatically.
func Uninstall(out io.Writer) error {
	if err := checkElevated(); err != nil {
		return err
	}

	backend := detectBackend()
	if st, err := loadState(dataDir()); err == nil && st != nil {
		backend = backendByName(st.Backend)
	}

	installed, err := backend.Installed()
	if err != nil {
		return fmt.Errorf("failed to query service status: %w", err)
	}
	if !installed {
		return ErrNotInstalled
	}

	fmt.Fprintf(out, "Removing service %q using %s...\n", Name, backend.Name())
	if err := backend.Uninstall(); err != nil {
		return err
	}
	removeState(dataDir())

	fmt.Fprintf(out, "Service %q removed.\n", Name)
	fmt.Fprintf(out, "Leftover files under %s can be deleted manually.\n", dataDir())
	return nil
}

// serviceExists parses `sc query <name>` to decide whether a registration
// exists. Error 1060 means "the specified service does not exist".
func serviceExists() (bool, error) {
	out, err := runCommand("sc", "query", Name)
	if err == nil {
		return true, nil
	}
	if strings.Contains(out, "1060") || strings.Contains(out, "does not exist") {
		return false, nil
	}
	return false, commandError("sc", []string{"query", Name}, out, err)
}
