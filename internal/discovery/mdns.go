package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/wledtools/wled-backup/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by WLED firmware.
	ServiceType = "_wled._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultIdleTimeout is the default discovery window: collection
	// stops once no resolution event arrives for this long.
	DefaultIdleTimeout = 4 * time.Second

	// DefaultPort is assumed when a device advertises port 0.
	DefaultPort = 80
)

// Collector gathers WLED service announcements from the local network
// segment and deduplicates them by hostname.
type Collector struct {
	// IdleTimeout bounds the collection: the window restarts on every
	// resolution event, so collection ends IdleTimeout after the last
	// announcement rather than at a fixed wall-clock deadline.
	IdleTimeout time.Duration

	// OnDiscovered, when set, is invoked the first time a hostname is
	// added to the result set. Later announcements for the same
	// hostname replace the record without firing it again.
	OnDiscovered func(*Device)
}

// NewCollector creates a collector with the default discovery window.
func NewCollector() *Collector {
	return &Collector{
		IdleTimeout: DefaultIdleTimeout,
	}
}

// Collect discovers all WLED devices currently announcing on the local
// network. An error here means the mDNS subsystem itself could not be
// started; there is no partial result in that case.
func (c *Collector) Collect() ([]*Device, error) {
	return c.CollectWithContext(context.Background())
}

// CollectWithContext discovers devices with a custom parent context.
func (c *Collector) CollectWithContext(ctx context.Context) ([]*Device, error) {
	// Hard cap on the browse so the zeroconf subscription is released
	// on every exit path, even if announcements never stop arriving.
	ctx, cancel := context.WithTimeout(ctx, 4*c.IdleTimeout+time.Second)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	return c.consume(ctx, entries), nil
}

// consume drains resolution events until none arrives within
// IdleTimeout of the previous one. Duplicate hostnames are collapsed
// last-wins, so a device answering on several interfaces yields one
// record.
func (c *Collector) consume(ctx context.Context, entries <-chan *zeroconf.ServiceEntry) []*Device {
	found := make(map[string]*Device)

	timer := time.NewTimer(c.IdleTimeout)
	defer timer.Stop()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return collapse(found)
			}
			if device := parseServiceEntry(entry); device != nil {
				if _, seen := found[device.Hostname]; !seen {
					logging.LogDiscovered(device.Name, device.Hostname, device.Port)
					if c.OnDiscovered != nil {
						c.OnDiscovered(device)
					}
				}
				found[device.Hostname] = device
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(c.IdleTimeout)

		case <-timer.C:
			return collapse(found)

		case <-ctx.Done():
			return collapse(found)
		}
	}
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil for entries without a hostname, since the hostname is the
// identity used for deduplication and file naming.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry.HostName == "" {
		logging.Debug("ignoring mDNS entry without hostname",
			zap.String("instance", entry.Instance))
		return nil
	}

	addrs := make([]net.IP, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	addrs = append(addrs, entry.AddrIPv4...)
	addrs = append(addrs, entry.AddrIPv6...)

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Device{
		Name:     entry.Instance,
		Hostname: entry.HostName,
		Addrs:    addrs,
		Port:     port,
	}
}

func collapse(found map[string]*Device) []*Device {
	devices := make([]*Device, 0, len(found))
	for _, d := range found {
		devices = append(devices, d)
	}
	return devices
}

// Collect is a convenience function to gather devices with a custom
// discovery window.
func Collect(idleTimeout time.Duration) ([]*Device, error) {
	collector := NewCollector()
	collector.IdleTimeout = idleTimeout
	return collector.Collect()
}
