// Package banner prints the set of URLs a client could use to reach the
// server once the listener is bound.
//
// The synchronous part of the report (loopback, interface addresses,
// hostname) is printed in a deterministic order. Reverse-DNS names are
// resolved by fire-and-forget goroutines that each append their own line
// under a shared lock; their ordering is not deterministic and the banner
// never waits on them. A hanging resolver delays only its own line.
package banner

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"

	"hellosrv/internal/netinfo"
)

// Reporter composes the startup report. The dedup set is local to one
// reporter and one startup call; it is guarded by mu because reverse-DNS
// goroutines append to the report concurrently.
type Reporter struct {
	out io.Writer

	mu   sync.Mutex
	seen map[string]bool
	wg   sync.WaitGroup

	// hostname is a seam for tests.
	hostname func() (string, error)
}

// lookupNames is a seam for tests; reverse DNS is best-effort and slow to
// fail against real resolvers.
var lookupNames = netinfo.LookupNames

// New creates a reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{
		out:      out,
		seen:     make(map[string]bool),
		hostname: os.Hostname,
	}
}

// Report prints every plausible URL for a server bound to bind on port.
// ipv6Enabled is the OS-level IPv6 availability; callers are expected to
// have already rejected IPv6 binds on IPv6-disabled machines.
func (r *Reporter) Report(bind string, port int, ipv6Enabled bool) {
	fmt.Fprintf(r.out, "Server running. Reachable at:\n")

	switch bind {
	case "0.0.0.0", "::":
		r.reportAllInterfaces(bind, port, ipv6Enabled)
	case "127.0.0.1":
		r.printURL("127.0.0.1", port, "")
		r.printURL("localhost", port, "")
	case "::1":
		r.printURL("::1", port, "")
		r.printURL("localhost", port, "IPv6")
	default:
		r.reportLiteral(bind, port, ipv6Enabled)
	}
}

// reportAllInterfaces handles the wildcard binds: every non-internal
// interface address is a candidate, plus loopback and the machine
// hostname. Reverse-DNS names for each address are appended as they
// resolve.
func (r *Reporter) reportAllInterfaces(bind string, port int, ipv6Enabled bool) {
	showIPv6 := netinfo.ShouldShowIPv6(bind, ipv6Enabled)

	r.printURL("localhost", port, "")
	if showIPv6 {
		r.printURL("::1", port, "IPv6 loopback")
	}

	for _, a := range netinfo.Interfaces() {
		if a.Internal {
			continue
		}
		if a.Family == netinfo.FamilyIPv6 && !showIPv6 {
			continue
		}
		note := ""
		if kind, ok := netinfo.SpecialIPv6(a.IP); ok {
			note = string(kind)
			if kind == netinfo.SpecialLinkLocal {
				note = "link-local, may need a scope id"
			}
		}
		r.printURL(a.IP, port, note)
		r.lookupAsync(a.IP, port)
	}

	if name, err := r.hostname(); err == nil && name != "" {
		r.printURL(name, port, "hostname")
	}
}

// reportLiteral handles an explicit non-loopback bind address.
func (r *Reporter) reportLiteral(bind string, port int, ipv6Enabled bool) {
	note := ""
	switch {
	case netinfo.IsIPv4Literal(bind) && !ipv6Enabled:
		note = "IPv6 is disabled"
	case netinfo.IsIPv6Literal(bind):
		if kind, ok := netinfo.SpecialIPv6(bind); ok && kind == netinfo.SpecialLinkLocal {
			note = "link-local, may need a scope id"
		}
	}
	r.printURL(bind, port, note)
	r.lookupAsync(bind, port)

	if name, err := r.hostname(); err == nil && name != "" {
		r.printURL(name, port, "hostname")
	}
}

// lookupAsync resolves reverse-DNS names for addr and appends one URL line
// per resolved name. Fully best-effort: failures produce no output. The
// goroutine is not joined before the banner returns; Wait exists so tests
// can observe the complete output.
func (r *Reporter) lookupAsync(addr string, port int) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for _, name := range lookupNames(addr) {
			r.printURL(name, port, "")
		}
	}()
}

// Wait blocks until all pending reverse-DNS goroutines have printed.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

// printURL writes one candidate URL line, deduplicated against every
// host:port already printed during this report. IPv6 hosts are bracketed.
func (r *Reporter) printURL(host string, port int, note string) {
	hostPort := net.JoinHostPort(host, strconv.Itoa(port))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[hostPort] {
		return
	}
	r.seen[hostPort] = true

	if note != "" {
		fmt.Fprintf(r.out, "  http://%s/ (%s)\n", hostPort, note)
	} else {
		fmt.Fprintf(r.out, "  http://%s/\n", hostPort)
	}
}

// PrimaryURL picks the single best URL to advertise (QR code, mDNS TXT):
// the preferred outbound LAN address when one exists, loopback otherwise.
func PrimaryURL(bind string, port int) string {
	host := "localhost"
	switch bind {
	case "0.0.0.0", "::":
		if ip := netinfo.PreferredOutboundIP(); ip != "" {
			host = ip
		}
	case "127.0.0.1", "::1":
		// loopback stays loopback
	default:
		host = bind
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, strconv.Itoa(port)))
}
