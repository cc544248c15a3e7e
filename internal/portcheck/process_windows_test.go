//go:build windows

package portcheck

import (
	"errors"
	"testing"
)

func TestProcessUsingPortParsesNetstatAndTasklist(t *testing.T) {
	orig := execOutput
	defer func() { execOutput = orig }()
	execOutput = func(name string, args ...string) ([]byte, error) {
		switch name {
		case "netstat":
			return []byte("\r\n" +
				"  TCP    0.0.0.0:135            0.0.0.0:0              LISTENING       888\r\n" +
				"  TCP    0.0.0.0:64001          0.0.0.0:0              LISTENING       4242\r\n"), nil
		case "tasklist":
			return []byte("\"node.exe\",\"4242\",\"Console\",\"1\",\"12,345 K\"\r\n"), nil
		}
		t.Fatalf("unexpected command %q", name)
		return nil, nil
	}

	proc := ProcessUsingPort(64001)
	if proc == nil {
		t.Fatal("ProcessUsingPort returned nil, want process info")
	}
	if proc.PID != 4242 || proc.Name != "node.exe" {
		t.Errorf("ProcessUsingPort = %+v, want pid 4242 name node.exe", proc)
	}
}

func TestProcessUsingPortTasklistFailureStillReturnsPID(t *testing.T) {
	orig := execOutput
	defer func() { execOutput = orig }()
	execOutput = func(name string, args ...string) ([]byte, error) {
		if name == "netstat" {
			return []byte("  TCP    0.0.0.0:64001          0.0.0.0:0              LISTENING       4242\r\n"), nil
		}
		return nil, errors.New("tasklist unavailable")
	}

	proc := ProcessUsingPort(64001)
	if proc == nil {
		t.Fatal("ProcessUsingPort returned nil, want pid-only info")
	}
	if proc.PID != 4242 || proc.Name != "" {
		t.Errorf("ProcessUsingPort = %+v, want pid 4242 with empty name", proc)
	}
}

func TestProcessUsingPortNetstatFailure(t *testing.T) {
	orig := execOutput
	defer func() { execOutput = orig }()
	execOutput = func(name string, args ...string) ([]byte, error) {
		return nil, errors.New("netstat unavailable")
	}

	if proc := ProcessUsingPort(64001); proc != nil {
		t.Errorf("ProcessUsingPort with failing netstat = %+v, want nil", proc)
	}
}
