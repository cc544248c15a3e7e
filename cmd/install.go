package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"hellosrv/internal/service"
)

// runInstall implements "hellosrv install": register the current
// executable (with the reconstructed run flags) as a system service and
// start it. Terminal action: exits 0 on success, 1 on any failure.
func runInstall(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var port int
	var bind string
	var ipv6 bool
	fs.IntVar(&port, "port", 0, "Listen port the service should use (default: 64001)")
	fs.StringVar(&bind, "bind", "", "Bind address the service should use")
	fs.BoolVar(&ipv6, "ipv6", false, "Service default bind becomes the IPv6 unspecified address")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s install [--port=N] [--bind=ADDR] [--ipv6]\n\nRegister %s as a system service.\n\nOptions:\n", AppName, AppName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	portSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "port" {
			portSet = true
		}
	})
	if portSet {
		if err := validatePort(port); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to determine executable path: %v\n", err)
		return 1
	}

	err = service.Install(service.Config{
		Executable: exe,
		Port:       port,
		Bind:       bind,
		IPv6:       ipv6,
	}, stdout)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupported):
			fmt.Fprintf(stderr, "Error: %v\n", err)
		case errors.Is(err, service.ErrNotElevated):
			fmt.Fprintf(stderr, "Error: %v (run from an elevated prompt)\n", err)
		case errors.Is(err, service.ErrAlreadyInstalled):
			fmt.Fprintf(stderr, "Error: %v; run '%s uninstall' first\n", err, AppName)
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// runUninstall implements "hellosrv uninstall": stop and remove the
// registered system service. Terminal action: exits 0 on success, 1 on any
// failure, including when no service is registered.
func runUninstall(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("uninstall", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s uninstall\n\nRemove the %s system service.\n", AppName, AppName)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if err := service.Uninstall(stdout); err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupported):
			fmt.Fprintf(stderr, "Error: %v\n", err)
		case errors.Is(err, service.ErrNotElevated):
			fmt.Fprintf(stderr, "Error: %v (run from an elevated prompt)\n", err)
		case errors.Is(err, service.ErrNotInstalled):
			fmt.Fprintf(stderr, "Error: the %s service is not installed\n", AppName)
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
