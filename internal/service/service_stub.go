//go:build !windows

package service

import (
	"fmt"
	"io"
	"runtime"
)

// Install is not implemented outside Windows. This is an explicit,
// intentional limitation: the command prints a notice and fails.
func Install(cfg Config, out io.Writer) error {
	fmt.Fprintf(out, "Service installation on %s is coming soon.\n", runtime.GOOS)
	return ErrUnsupported
}

// Uninstall is not implemented outside Windows.
func Uninstall(out io.Writer) error {
	fmt.Fprintf(out, "Service removal on %s is coming soon.\n", runtime.GOOS)
	return ErrUnsupported
}
