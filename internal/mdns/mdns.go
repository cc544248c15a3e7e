// Package mdns provides optional mDNS/Bonjour advertisement of the server.
//
// When enabled, the server advertises itself on the local network using
// DNS-SD, so browsers and discovery tools on the same LAN can find it
// without typing an address. This is opt-in (--mdns).
package mdns

import (
	"fmt"
	"os"
	"sync"

	"github.com/grandcat/zeroconf"
)

// ServiceType is the DNS-SD service type for hellosrv instances.
const ServiceType = "_hellosrv._tcp"

// Config holds configuration for mDNS advertisement.
type Config struct {
	// Port is the server port to advertise.
	Port int

	// Version is the server version published in TXT records.
	Version string

	// Name is a human-readable instance name.
	// Defaults to the system hostname if empty.
	Name string
}

// Advertiser manages the DNS-SD service registration lifecycle.
type Advertiser struct {
	config Config
	server *zeroconf.Server
	mu     sync.Mutex
}

// NewAdvertiser creates a new mDNS advertiser with the given configuration.
func NewAdvertiser(cfg Config) *Advertiser {
	return &Advertiser{config: cfg}
}

// Start begins advertising the service via mDNS.
// Safe to call multiple times; subsequent calls are no-ops if already
// running.
func (a *Advertiser) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		return nil
	}

	name := a.config.Name
	if name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			name = "hellosrv"
		} else {
			name = hostname
		}
	}

	txtRecords := []string{
		fmt.Sprintf("version=%s", a.config.Version),
		fmt.Sprintf("name=%s", name),
	}

	server, err := zeroconf.Register(
		name,        // instance name (e.g. the hostname)
		ServiceType, // "_hellosrv._tcp"
		"local.",    // domain
		a.config.Port,
		txtRecords,
		nil, // all network interfaces
	)
	if err != nil {
		return fmt.Errorf("mdns register: %w", err)
	}

	a.server = server
	return nil
}

// Stop stops the mDNS advertisement and unregisters the service.
// Safe to call multiple times or on an advertiser that was never started.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// IsRunning returns true if the advertiser is currently running.
func (a *Advertiser) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.server != nil
}
