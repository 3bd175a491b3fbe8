package discovery

import (
	"fmt"
	"net"
	"strings"
)

// Device represents one discovered WLED controller.
type Device struct {
	// Name is the mDNS instance name as advertised (e.g. "WLED-deck").
	Name string

	// Hostname is the advertised hostname including its domain suffix
	// (e.g. "wled-deck.local."). Two announcements with the same
	// hostname are the same device; the later one wins.
	Hostname string

	// Addrs holds every address the device advertised, IPv4 before
	// IPv6. Order beyond that is not meaningful. May be empty.
	Addrs []net.IP

	// Port is the advertised HTTP port (typically 80).
	Port int
}

// String returns a human-readable representation of the device.
func (d *Device) String() string {
	addrs := make([]string, len(d.Addrs))
	for i, a := range d.Addrs {
		addrs[i] = a.String()
	}
	return fmt.Sprintf("WLED %s [%s]:%d", d.Hostname, strings.Join(addrs, ", "), d.Port)
}

// FirstAddr returns the address used for backup, or nil if the device
// announced none.
func (d *Device) FirstAddr() net.IP {
	if len(d.Addrs) == 0 {
		return nil
	}
	return d.Addrs[0]
}
