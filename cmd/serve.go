package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hellosrv/internal/banner"
	"hellosrv/internal/config"
	"hellosrv/internal/mdns"
	"hellosrv/internal/netinfo"
	"hellosrv/internal/portcheck"
	"hellosrv/internal/server"
)

// ServeConfig is the validated run configuration, constructed once from
// process arguments (and the optional config file) and passed by value to
// every component. No ambient globals.
type ServeConfig struct {
	Port int
	Bind string
	IPv6 bool

	ConfigPath string
	Mdns       bool
	QR         bool
}

// validatePort rejects ports outside [1, 65535].
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}

// parseServeFlags parses the plain-run flags into a ServeConfig, layering
// the optional TOML config file under explicit CLI flags. Returns a
// non-nil exit code when parsing itself decided the outcome (help or a
// flag error).
func parseServeFlags(args []string, stderr io.Writer) (*ServeConfig, *int) {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &ServeConfig{}
	fs.IntVar(&cfg.Port, "port", 0, "Listen port, 1-65535 (default: 64001)")
	fs.StringVar(&cfg.Bind, "bind", "", "Bind address (default: 0.0.0.0, or :: with --ipv6)")
	fs.BoolVar(&cfg.IPv6, "ipv6", false, "Default bind becomes the IPv6 unspecified address")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to config file (default: ~/.hellosrv/config.toml)")
	fs.BoolVar(&cfg.Mdns, "mdns", false, "Advertise the server on the LAN via mDNS/DNS-SD")
	fs.BoolVar(&cfg.QR, "qr", false, "Print the primary URL as a QR code on startup")

	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
	}

	if err := fs.Parse(args); err != nil {
		code := 1
		if errors.Is(err, flag.ErrHelp) {
			code = 0
		}
		return nil, &code
	}

	// Track which flags were explicitly set so config file booleans don't
	// override an explicit --flag=false.
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	// An explicit --port is validated as given; 0 is otherwise the "unset"
	// marker for config file layering and must not slip through to the
	// default.
	if explicit["port"] {
		if err := validatePort(cfg.Port); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			code := 1
			return nil, &code
		}
	}

	fileCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		code := 1
		return nil, &code
	}

	// CLI flags take precedence over file values.
	if cfg.Port == 0 {
		cfg.Port = fileCfg.Port
	}
	if cfg.Bind == "" {
		cfg.Bind = fileCfg.Bind
	}
	if !explicit["ipv6"] {
		cfg.IPv6 = cfg.IPv6 || fileCfg.IPv6
	}
	if !explicit["mdns"] {
		cfg.Mdns = cfg.Mdns || fileCfg.Mdns
	}
	if !explicit["qr"] {
		cfg.QR = cfg.QR || fileCfg.QR
	}

	if cfg.Port == 0 {
		cfg.Port = portcheck.DefaultPort
	}
	if err := validatePort(cfg.Port); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		code := 1
		return nil, &code
	}

	// --bind always wins; otherwise the default depends on --ipv6.
	if cfg.Bind == "" {
		if cfg.IPv6 {
			cfg.Bind = "::"
		} else {
			cfg.Bind = "0.0.0.0"
		}
	}

	return cfg, nil
}

// runServe implements the plain-run path: validate the configuration,
// pre-check the port, bind, report reachable URLs, and serve until
// signalled.
func runServe(args []string, stdout, stderr io.Writer) int {
	cfg, code := parseServeFlags(args, stderr)
	if code != nil {
		return *code
	}

	ipv6Enabled := netinfo.IPv6Enabled()

	// Fail fast when asked to listen on an IPv6 loopback or wildcard
	// address on a machine with IPv6 disabled; the bind would fail with a
	// far less useful error.
	if (cfg.Bind == "::" || cfg.Bind == "::1") && !ipv6Enabled {
		fmt.Fprintf(stderr, "Error: cannot bind %s: IPv6 is disabled on this machine\n", cfg.Bind)
		return 1
	}

	// Pre-bind probe. A probe error is not treated as "port in use"; the
	// real bind below surfaces the true failure.
	inUse, err := portcheck.InUse(cfg.Bind, cfg.Port)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: could not check port availability: %v\n", err)
	}
	if inUse {
		reportPortConflict(stderr, cfg)
		return 1
	}

	srv := server.New(AppName, Version)
	if err := srv.Listen(net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port))); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	boundPort := cfg.Port
	if tcp, ok := srv.Addr().(*net.TCPAddr); ok {
		boundPort = tcp.Port
	}

	rep := banner.New(stdout)
	rep.Report(cfg.Bind, boundPort, ipv6Enabled)

	if cfg.QR {
		banner.PrintQR(stdout, banner.PrimaryURL(cfg.Bind, boundPort))
	}

	if cfg.Mdns {
		adv := mdns.NewAdvertiser(mdns.Config{
			Port:    boundPort,
			Version: Version,
		})
		if err := adv.Start(); err != nil {
			fmt.Fprintf(stderr, "Warning: mDNS advertisement failed: %v\n", err)
		} else {
			defer adv.Stop()
		}
	}

	errCh := srv.Serve()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		// Late bind races and runtime serve errors land here.
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	case <-sigCh:
		fmt.Fprintln(stdout, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		return 0
	}
}

// reportPortConflict prints actionable diagnostics for an occupied port:
// the offending process when identifiable, the next free port within the
// scan window, and a pointer at the service install path.
func reportPortConflict(stderr io.Writer, cfg *ServeConfig) {
	fmt.Fprintf(stderr, "Error: port %d is already in use on %s\n", cfg.Port, cfg.Bind)

	if proc := portcheck.ProcessUsingPort(cfg.Port); proc != nil {
		fmt.Fprintf(stderr, "  In use by: %s\n", proc)
	}

	suggested := portcheck.FindAvailable(cfg.Bind, cfg.Port)
	fmt.Fprintf(stderr, "  Try: %s --port=%d\n", AppName, suggested)
	fmt.Fprintf(stderr, "  Or stop the conflicting process, or run '%s install' to manage %s as a service.\n", AppName, AppName)
}
