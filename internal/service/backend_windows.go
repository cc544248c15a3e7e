//go:build windows

package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
)

// nssmBackend registers the executable directly with nssm, the third-party
// service manager. nssm supervises the process itself, so no wrapper
// script is needed.
type nssmBackend struct {
	exe string // resolved path to nssm
}

func (b *nssmBackend) Name() string { return "nssm" }

func (b *nssmBackend) Installed() (bool, error) {
	return serviceExists()
}

func (b *nssmBackend) Install(cfg Config) error {
	steps := [][]string{
		append([]string{"install", Name, cfg.Executable}, cfg.Args()...),
		{"set", Name, "DisplayName", DisplayName},
		{"set", Name, "Description", Description},
		{"set", Name, "Start", "SERVICE_AUTO_START"},
		{"start", Name},
	}
	for _, args := range steps {
		if out, err := runCommand(b.exe, args...); err != nil {
			return commandError("nssm", args, out, err)
		}
	}
	return waitRunning()
}

func (b *nssmBackend) Uninstall() error {
	// Tolerate "already stopped": nssm stop fails when the service is not
	// running, which is not an error for removal.
	if out, err := runCommand(b.exe, "stop", Name); err != nil && !alreadyStopped(out) {
		return commandError("nssm", []string{"stop", Name}, out, err)
	}
	if out, err := runCommand(b.exe, "remove", Name, "confirm"); err != nil {
		return commandError("nssm", []string{"remove", Name, "confirm"}, out, err)
	}
	return nil
}

// scBackend registers a generated wrapper script with the native service
// controller. The wrapper re-invokes the executable with the same flags
// and appends output to a log file in the service data directory.
type scBackend struct {
	dataDir string
}

func (b *scBackend) Name() string { return "sc" }

func (b *scBackend) Installed() (bool, error) {
	return serviceExists()
}

func (b *scBackend) Install(cfg Config) error {
	wrapper, err := b.writeWrapper(cfg)
	if err != nil {
		return err
	}

	steps := [][]string{
		{"create", Name,
			"binPath=", fmt.Sprintf(`cmd /c "%s"`, wrapper),
			"start=", "auto",
			"DisplayName=", DisplayName},
		{"description", Name, Description},
		// Auto-restart on failure: three restart attempts at fixed
		// intervals, failure counter resets after 24 hours.
		{"failure", Name,
			"reset=", "86400",
			"actions=", "restart/5000/restart/5000/restart/5000"},
		{"start", Name},
	}
	for _, args := range steps {
		if out, err := runCommand("sc", args...); err != nil {
			return commandError("sc", args, out, err)
		}
	}
	return waitRunning()
}

func (b *scBackend) Uninstall() error {
	if out, err := runCommand("sc", "stop", Name); err != nil && !alreadyStopped(out) {
		return commandError("sc", []string{"stop", Name}, out, err)
	}
	if out, err := runCommand("sc", "delete", Name); err != nil {
		return commandError("sc", []string{"delete", Name}, out, err)
	}
	return nil
}

// writeWrapper generates the batch wrapper re-invoking the executable with
// the reconstructed flags, logging to a file next to it.
func (b *scBackend) writeWrapper(cfg Config) (string, error) {
	if err := os.MkdirAll(b.dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create service data directory: %w", err)
	}

	logPath := filepath.Join(b.dataDir, Name+".log")
	script := fmt.Sprintf("@echo off\r\n\"%s\" %s >> \"%s\" 2>&1\r\n",
		cfg.Executable, strings.Join(cfg.Args(), " "), logPath)

	wrapper := filepath.Join(b.dataDir, Name+".bat")
	if err := os.WriteFile(wrapper, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("failed to write wrapper script: %w", err)
	}
	return wrapper, nil
}

// alreadyStopped recognizes the "service has not been started" outcome
// (error 1062) so stop-before-remove tolerates an already stopped service.
func alreadyStopped(out string) bool {
	return strings.Contains(out, "1062") ||
		strings.Contains(strings.ToLower(out), "not been started") ||
		strings.Contains(strings.ToLower(out), "already stopped")
}

// waitRunning polls the service controller until the service reports
// RUNNING, with exponential backoff capped at 15 seconds total. A service
// that registered but never reaches RUNNING is an install failure.
func waitRunning() error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = 15 * time.Second

	return backoff.Retry(func() error {
		out, err := runCommand("sc", "query", Name)
		if err != nil {
			return commandError("sc", []string{"query", Name}, out, err)
		}
		if !strings.Contains(out, "RUNNING") {
			return fmt.Errorf("service %s is not running yet", Name)
		}
		return nil
	}, policy)
}
