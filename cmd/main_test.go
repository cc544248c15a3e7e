package main

import (
	"bytes"
	"strings"
	"testing"
)

func runWithArgs(args []string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunHelp(t *testing.T) {
	for _, flag := range []string{"--help", "-h", "help"} {
		code, out, _ := runWithArgs([]string{"hellosrv", flag})
		if code != 0 {
			t.Errorf("%s: expected exit code 0, got %d", flag, code)
		}
		if !strings.Contains(out, "Usage:") {
			t.Errorf("%s: expected usage output, got %q", flag, out)
		}
	}
}

func TestRunVersion(t *testing.T) {
	for _, flag := range []string{"--version", "-v", "version"} {
		code, out, _ := runWithArgs([]string{"hellosrv", flag})
		if code != 0 {
			t.Errorf("%s: expected exit code 0, got %d", flag, code)
		}
		if !strings.Contains(out, AppName+" "+Version) {
			t.Errorf("%s: expected version output, got %q", flag, out)
		}
	}
}

func TestRunInvalidPort(t *testing.T) {
	tests := []string{"--port=0", "--port=65536", "--port=-1", "--port=abc"}
	for _, arg := range tests {
		code, _, errOut := runWithArgs([]string{"hellosrv", arg})
		if code != 1 {
			t.Errorf("%s: expected exit code 1, got %d", arg, code)
		}
		if errOut == "" {
			t.Errorf("%s: expected an error message on stderr", arg)
		}
	}
}

func TestRunUnknownFlag(t *testing.T) {
	code, _, errOut := runWithArgs([]string{"hellosrv", "--nope"})
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if errOut == "" {
		t.Error("expected an error message on stderr")
	}
}

func TestInstallHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runInstall([]string{"--help"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Usage: hellosrv install") {
		t.Fatalf("expected install usage, got %q", stderr.String())
	}
}

func TestInstallInvalidPort(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runInstall([]string{"--port=99999"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "invalid port") {
		t.Fatalf("expected invalid port message, got %q", stderr.String())
	}
}
