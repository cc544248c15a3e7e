//go:build windows

package portcheck

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// execOutput is a seam for tests.
var execOutput = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// processUsingPort parses `netstat -ano` for a LISTENING socket on port and
// resolves the owning PID to an image name via `tasklist`. Any parse or
// exec failure yields nil.
func processUsingPort(port int) *ProcessInfo {
	out, err := execOutput("netstat", "-ano")
	if err != nil {
		return nil
	}

	pid := 0
	suffix := ":" + strconv.Itoa(port)
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		// TCP 0.0.0.0:64001 0.0.0.0:0 LISTENING 888
		if len(fields) < 5 || fields[0] != "TCP" {
			continue
		}
		if fields[3] != "LISTENING" {
			continue
		}
		if !strings.HasSuffix(fields[1], suffix) {
			continue
		}
		p, err := strconv.Atoi(fields[4])
		if err != nil {
			continue
		}
		pid = p
		break
	}
	if pid == 0 {
		return nil
	}

	info := &ProcessInfo{PID: pid}

	// tasklist /FI "PID eq <pid>" /FO CSV /NH
	// "node.exe","888","Console","1","12,345 K"
	out, err = execOutput("tasklist", "/FI", fmt.Sprintf("PID eq %d", pid), "/FO", "CSV", "/NH")
	if err != nil {
		return info
	}
	line := strings.TrimSpace(strings.Split(string(out), "\n")[0])
	if strings.HasPrefix(line, "\"") {
		parts := strings.Split(line, "\",\"")
		if len(parts) >= 2 {
			info.Name = strings.TrimPrefix(parts[0], "\"")
		}
	}
	return info
}
