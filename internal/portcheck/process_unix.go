//go:build !windows

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

// processUsingPort parses `lsof -i :<port> -sTCP:LISTEN` output. Any exec
// or parse failure yields nil; lsof exits non-zero when nothing matches,
// which falls out the same way.
func processUsingPort(port int) *ProcessInfo {
	out, err := execOutput("lsof", "-i", fmt.Sprintf(":%d", port), "-sTCP:LISTEN", "-P", "-n")
	if err != nil {
		return nil
	}

	// COMMAND  PID USER   FD TYPE DEVICE SIZE/OFF NODE NAME
	// node    4242 root   23u IPv4  ...        ...  TCP *:64001 (LISTEN)
	lines := strings.Split(string(out), "\n")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		return &ProcessInfo{PID: pid, Name: fields[0]}
	}
	return nil
}
