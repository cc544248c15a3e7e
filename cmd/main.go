// Package main provides the hellosrv CLI: a minimal HTTP server that
// reports its own name and version, with service install/uninstall
// commands for running it in the background.
package main

import (
	"fmt"
	"io"
	"os"
)

// AppName is the package name reported on the root route.
const AppName = "hellosrv"

// Version is set at build time via -ldflags.
// Example: go build -ldflags="-X main.Version=v1.0.0" ./cmd
var Version = "dev"

const usage = `hellosrv - minimal HTTP server reporting its own name and version

Usage:
  hellosrv [options]
  hellosrv <command> [options]

Commands:
  install       Register hellosrv as a system service (Windows)
  uninstall     Remove the hellosrv system service (Windows)

Options:
  --port=N      Listen port, 1-65535 (default: 64001)
  --bind=ADDR   Bind address (default: 0.0.0.0, or :: with --ipv6)
  --ipv6        Default bind becomes the IPv6 unspecified address
  --config=PATH TOML config file (default: ~/.hellosrv/config.toml)
  --mdns        Advertise the server on the LAN via mDNS/DNS-SD
  --qr          Print the primary URL as a QR code on startup
  --help, -h    Show this help
  --version, -v Show version
`

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run dispatches commands and returns the process exit code. Recognized in
// priority order: help, version, uninstall, install; everything else is
// plain-run flag parsing.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		return runServe(nil, stdout, stderr)
	}

	switch args[1] {
	case "--help", "-h", "help":
		fmt.Fprint(stdout, usage)
		return 0
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "%s %s\n", AppName, Version)
		return 0
	case "uninstall":
		return runUninstall(args[2:], stdout, stderr)
	case "install":
		return runInstall(args[2:], stdout, stderr)
	default:
		return runServe(args[1:], stdout, stderr)
	}
}
