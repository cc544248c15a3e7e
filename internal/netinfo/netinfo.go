// Package netinfo queries the local machine for its network interfaces and
// classifies addresses for startup reporting.
//
// Everything here is best-effort: enumeration and reverse DNS read fresh
// state from the OS on every call and swallow failures, degrading to "no
// info" rather than surfacing errors to the caller.
package netinfo

import (
	"net"
	"strings"
)

// Family identifies the address family of a discovered interface address.
type Family string

const (
	FamilyIPv4 Family = "IPv4"
	FamilyIPv6 Family = "IPv6"
)

// Addr is one address discovered on a local network interface.
// Sourced fresh from the OS on every enumeration; never cached.
type Addr struct {
	// IP is the textual address without zone or prefix length.
	IP string

	// Family is IPv4 or IPv6.
	Family Family

	// Internal is true for loopback interfaces.
	Internal bool

	// Zone is the IPv6 scope identifier, when the OS reports one.
	Zone string
}

// Function-variable seams for testability.
// Tests override these to inject deterministic interface sets without
// touching the real network stack.
var (
	netInterfaces = net.Interfaces
	lookupAddr    = net.LookupAddr
)

// Interfaces enumerates all addresses on local network interfaces.
// Interfaces that are down or whose addresses cannot be read are skipped.
// Returns nil on enumeration failure; callers treat that as "no interfaces".
func Interfaces() []Addr {
	ifaces, err := netInterfaces()
	if err != nil {
		return nil
	}

	var out []Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		internal := iface.Flags&net.FlagLoopback != 0

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP
			family := FamilyIPv6
			if ip.To4() != nil {
				family = FamilyIPv4
			}
			out = append(out, Addr{
				IP:       ip.String(),
				Family:   family,
				Internal: internal,
			})
		}
	}
	return out
}

// IPv6Enabled reports whether the OS has IPv6 enabled: true iff at least
// one interface reports an IPv6 address, irrespective of scope. Link-local
// and loopback addresses count; a machine with IPv6 compiled out or fully
// disabled reports none at all.
func IPv6Enabled() bool {
	for _, a := range Interfaces() {
		if a.Family == FamilyIPv6 {
			return true
		}
	}
	return false
}

// SpecialKind names a special IPv6 address form for banner annotation.
type SpecialKind string

const (
	SpecialLoopback    SpecialKind = "loopback"
	SpecialUnspecified SpecialKind = "unspecified"
	SpecialLinkLocal   SpecialKind = "link-local"
	SpecialUniqueLocal SpecialKind = "unique-local"
)

// SpecialIPv6 classifies special IPv6 address forms. The classification is
// explanatory only; it never filters an address out of the report.
func SpecialIPv6(addr string) (SpecialKind, bool) {
	lower := strings.ToLower(addr)
	switch {
	case lower == "::1":
		return SpecialLoopback, true
	case lower == "::":
		return SpecialUnspecified, true
	case strings.HasPrefix(lower, "fe80:"):
		return SpecialLinkLocal, true
	case strings.HasPrefix(lower, "fc00:"), strings.HasPrefix(lower, "fd00:"):
		return SpecialUniqueLocal, true
	}
	return "", false
}

// IsIPv4Literal reports whether addr parses as a dotted-quad IPv4 address.
func IsIPv4Literal(addr string) bool {
	ip := net.ParseIP(addr)
	return ip != nil && ip.To4() != nil && strings.Contains(addr, ".")
}

// IsIPv6Literal reports whether addr parses as an IPv6 address.
func IsIPv6Literal(addr string) bool {
	ip := net.ParseIP(addr)
	return ip != nil && ip.To4() == nil && strings.Contains(addr, ":")
}

// ShouldShowIPv6 decides whether IPv6 candidate URLs appear in the startup
// report.
//
// Decision table:
//   - IPv6 disabled at the OS level -> false, unconditionally
//   - bind is 0.0.0.0 or any IPv4 literal -> false
//   - bind is ::, ::1, or any other IPv6 literal -> true
//   - anything else (hostnames) -> true
func ShouldShowIPv6(bind string, enabled bool) bool {
	if !enabled {
		return false
	}
	if bind == "0.0.0.0" || IsIPv4Literal(bind) {
		return false
	}
	return true
}

// PreferredOutboundIP returns the machine's preferred outbound IPv4
// address. It dials a UDP connection to a public IP (no packets are sent
// for UDP) and checks which local address the OS routing table selected.
// Returns empty string if detection fails.
func PreferredOutboundIP() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}

// LookupNames performs a best-effort reverse-DNS lookup for addr.
// Any resolution failure is swallowed and produces nil. Trailing dots on
// resolved names are trimmed for URL display.
func LookupNames(addr string) []string {
	names, err := lookupAddr(addr)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.TrimSuffix(n, "."))
	}
	return out
}
