//go:build windows

package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

// fakeCommands installs a runCommand seam that records invocations and
// replies from canned responses keyed by command-line prefix.
type fakeCommands struct {
	calls     []string
	responses map[string]response
}

type response struct {
	out string
	err error
}

func installFakeCommands(t *testing.T, responses map[string]response) *fakeCommands {
	t.Helper()
	f := &fakeCommands{responses: responses}

	origRun := runCommand
	origLook := lookPath
	origDir := dataDir
	t.Cleanup(func() {
		runCommand = origRun
		lookPath = origLook
		dataDir = origDir
	})

	tmp := t.TempDir()
	dataDir = func() string { return tmp }

	runCommand = func(name string, args ...string) (string, error) {
		key := name + " " + strings.Join(args, " ")
		f.calls = append(f.calls, key)
		for prefix, resp := range f.responses {
			if strings.HasPrefix(key, prefix) {
				return resp.out, resp.err
			}
		}
		return "", nil
	}
	return f
}

func noNssm(t *testing.T) {
	t.Helper()
	lookPath = func(name string) (string, error) {
		return "", errors.New("not found")
	}
}

func withNssm(t *testing.T) {
	t.Helper()
	lookPath = func(name string) (string, error) {
		if name == "nssm" {
			return `C:\tools\nssm.exe`, nil
		}
		return "", errors.New("not found")
	}
}

func TestInstallRequiresElevation(t *testing.T) {
	f := installFakeCommands(t, map[string]response{
		"net session": {out: "Access is denied.", err: errors.New("exit status 2")},
	})
	noNssm(t)

	var out bytes.Buffer
	err := Install(Config{Executable: `C:\hellosrv.exe`}, &out)
	if !errors.Is(err, ErrNotElevated) {
		t.Fatalf("Install() error = %v, want ErrNotElevated", err)
	}
	if len(f.calls) != 1 {
		t.Errorf("expected only the elevation probe, got calls %v", f.calls)
	}
}

func TestInstallRejectsDuplicateRegistration(t *testing.T) {
	// sc query succeeding means the service already exists.
	installFakeCommands(t, map[string]response{
		"sc query": {out: "STATE : 4 RUNNING"},
	})
	noNssm(t)

	var out bytes.Buffer
	err := Install(Config{Executable: `C:\hellosrv.exe`}, &out)
	if !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("Install() error = %v, want ErrAlreadyInstalled", err)
	}
}

func TestInstallPrefersNssm(t *testing.T) {
	notInstalled := response{
		out: "The specified service does not exist as an installed service.",
		err: fmt.Errorf("exit status 1060"),
	}
	f := installFakeCommands(t, map[string]response{"sc query": notInstalled})
	withNssm(t)

	// Once nssm start ran, the post-start poll must see RUNNING.
	started := false
	inner := runCommand
	runCommand = func(name string, args ...string) (string, error) {
		if started && name == "sc" && len(args) > 0 && args[0] == "query" {
			f.calls = append(f.calls, "sc query "+Name)
			return "STATE : 4 RUNNING", nil
		}
		if strings.HasSuffix(name, "nssm.exe") && len(args) > 0 && args[0] == "start" {
			started = true
		}
		return inner(name, args...)
	}

	var out bytes.Buffer
	cfg := Config{Executable: `C:\hellosrv.exe`, Port: 8080}
	if err := Install(cfg, &out); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	joined := strings.Join(f.calls, "\n")
	if !strings.Contains(joined, "nssm.exe install "+Name) {
		t.Errorf("nssm install not invoked:\n%s", joined)
	}
	if !strings.Contains(joined, "--port=8080") {
		t.Errorf("reconstructed flags missing from nssm install:\n%s", joined)
	}
	if !strings.Contains(out.String(), "using nssm") {
		t.Errorf("output %q does not mention the nssm backend", out.String())
	}

	// The state file must record the backend for uninstall.
	st, err := loadState(dataDir())
	if err != nil || st == nil {
		t.Fatalf("loadState() after install = (%+v, %v), want saved state", st, err)
	}
	if st.Backend != "nssm" {
		t.Errorf("state backend = %q, want nssm", st.Backend)
	}
}

func TestUninstallNotInstalled(t *testing.T) {
	installFakeCommands(t, map[string]response{
		"sc query": {
			out: "The specified service does not exist as an installed service.",
			err: fmt.Errorf("exit status 1060"),
		},
	})
	noNssm(t)

	var out bytes.Buffer
	err := Uninstall(&out)
	if !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("Uninstall() error = %v, want ErrNotInstalled", err)
	}
}

func TestUninstallToleratesStoppedService(t *testing.T) {
	f := installFakeCommands(t, map[string]response{
		"sc stop": {out: "The service has not been started.", err: fmt.Errorf("exit status 1062")},
	})
	noNssm(t)

	var out bytes.Buffer
	if err := Uninstall(&out); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}

	joined := strings.Join(f.calls, "\n")
	if !strings.Contains(joined, "sc delete "+Name) {
		t.Errorf("sc delete not invoked:\n%s", joined)
	}
	if !strings.Contains(out.String(), "deleted manually") {
		t.Errorf("output %q missing manual-cleanup hint", out.String())
	}
}

func TestAlreadyStopped(t *testing.T) {
	tests := []struct {
		out  string
		want bool
	}{
		{"The service has not been started.", true},
		{"[SC] ControlService FAILED 1062:", true},
		{"Service already stopped", true},
		{"Access is denied.", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := alreadyStopped(tt.out); got != tt.want {
			t.Errorf("alreadyStopped(%q) = %t, want %t", tt.out, got, tt.want)
		}
	}
}

func TestWriteWrapperScript(t *testing.T) {
	b := &scBackend{dataDir: t.TempDir()}
	cfg := Config{
		Executable: `C:\Program Files\hellosrv\hellosrv.exe`,
		Port:       64001,
		Bind:       "0.0.0.0",
	}

	wrapper, err := b.writeWrapper(cfg)
	if err != nil {
		t.Fatalf("writeWrapper() error: %v", err)
	}

	data, err := os.ReadFile(wrapper)
	if err != nil {
		t.Fatalf("failed to read wrapper: %v", err)
	}
	script := string(data)
	if !strings.Contains(script, cfg.Executable) {
		t.Errorf("wrapper script missing executable:\n%s", script)
	}
	if !strings.Contains(script, "--port=64001 --bind=0.0.0.0") {
		t.Errorf("wrapper script missing flags:\n%s", script)
	}
	if !strings.Contains(script, Name+".log") {
		t.Errorf("wrapper script missing log redirection:\n%s", script)
	}
}
