// Package portcheck probes TCP port availability before the server binds,
// and identifies the process holding an occupied port so startup errors can
// suggest a fix instead of a bare bind failure.
package portcheck

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// DefaultPort is the port the server listens on when no --port is given.
const DefaultPort = 64001

// fallbackPort is suggested when the linear scan finds nothing free.
const fallbackPort = 8080

// scanWindow is how many consecutive ports FindAvailable probes.
const scanWindow = 10

// listen is a seam for tests.
var listen = net.Listen

// InUse reports whether a TCP port is already bound on host.
//
// It attempts to bind a throwaway listener: bind success means the port is
// free (the listener is released immediately); EADDRINUSE means it is in
// use. Any other bind failure is returned as an error so the caller can
// decide what to do with it, rather than being silently folded into
// "free" (permission and resource errors are real problems, not evidence
// of availability).
func InUse(host string, port int) (bool, error) {
	ln, err := listen("tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	if err == nil {
		ln.Close()
		return false, nil
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true, nil
	}
	return false, err
}

// FindAvailable linearly probes start, start+1, ... for up to 10 attempts
// and returns the first free port on host.
//
// If nothing in the window is free it returns a deterministic fallback:
// 8080 when the scan started at the default port, start+10 otherwise. The
// fallback is a suggestion for the user, not a guaranteed-free port.
func FindAvailable(host string, start int) int {
	for port := start; port < start+scanWindow; port++ {
		inUse, err := InUse(host, port)
		if err == nil && !inUse {
			return port
		}
	}
	if start == DefaultPort {
		return fallbackPort
	}
	return start + scanWindow
}

// ProcessInfo describes the process found listening on a port.
type ProcessInfo struct {
	PID  int
	Name string
}

// String formats the process for diagnostic output.
func (p *ProcessInfo) String() string {
	if p.Name != "" {
		return fmt.Sprintf("%s (pid %d)", p.Name, p.PID)
	}
	return fmt.Sprintf("pid %d", p.PID)
}

// ProcessUsingPort identifies the process listening on port.
// It is best-effort and platform-specific: netstat/tasklist on Windows,
// lsof elsewhere. Returns nil on any failure.
func ProcessUsingPort(port int) *ProcessInfo {
	return processUsingPort(port)
}
