package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name      string
		entry     *zeroconf.ServiceEntry
		wantNil   bool
		wantHost  string
		wantAddrs []string
		wantPort  int
	}{
		{
			name: "IPv4 device",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "WLED-deck"},
				HostName:      "wled-deck.local.",
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.40")},
			},
			wantHost:  "wled-deck.local.",
			wantAddrs: []string{"192.168.1.40"},
			wantPort:  80,
		},
		{
			name: "custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "wled-porch.local.",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantHost:  "wled-porch.local.",
			wantAddrs: []string{"10.0.0.5"},
			wantPort:  8080,
		},
		{
			name: "port 0 defaults to 80",
			entry: &zeroconf.ServiceEntry{
				HostName: "wled-shed.local.",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.9")},
			},
			wantHost:  "wled-shed.local.",
			wantAddrs: []string{"172.16.0.9"},
			wantPort:  80,
		},
		{
			name: "IPv4 ordered before IPv6",
			entry: &zeroconf.ServiceEntry{
				HostName: "wled-attic.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantHost:  "wled-attic.local.",
			wantAddrs: []string{"192.168.1.50", "fe80::2"},
			wantPort:  80,
		},
		{
			name: "no addresses still yields a record",
			entry: &zeroconf.ServiceEntry{
				HostName: "wled-garage.local.",
				Port:     80,
			},
			wantHost:  "wled-garage.local.",
			wantAddrs: []string{},
			wantPort:  80,
		},
		{
			name: "empty hostname is ignored",
			entry: &zeroconf.ServiceEntry{
				HostName: "",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Fatalf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}
			if device.Hostname != tt.wantHost {
				t.Errorf("Hostname = %s, want %s", device.Hostname, tt.wantHost)
			}
			if device.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", device.Port, tt.wantPort)
			}
			if len(device.Addrs) != len(tt.wantAddrs) {
				t.Fatalf("len(Addrs) = %d, want %d", len(device.Addrs), len(tt.wantAddrs))
			}
			for i, want := range tt.wantAddrs {
				if device.Addrs[i].String() != want {
					t.Errorf("Addrs[%d] = %s, want %s", i, device.Addrs[i], want)
				}
			}
		})
	}
}

func TestConsume_DeduplicatesByHostname(t *testing.T) {
	collector := NewCollector()
	collector.IdleTimeout = time.Second

	var discovered []string
	collector.OnDiscovered = func(d *Device) {
		discovered = append(discovered, d.Hostname)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		defer close(entries)
		// Same hostname announced twice with differing address/port:
		// the later announcement must win.
		entries <- &zeroconf.ServiceEntry{
			HostName: "wled-deck.local.",
			Port:     80,
			AddrIPv4: []net.IP{net.ParseIP("192.168.1.40")},
		}
		entries <- &zeroconf.ServiceEntry{
			HostName: "wled-deck.local.",
			Port:     8080,
			AddrIPv4: []net.IP{net.ParseIP("192.168.1.41")},
		}
		entries <- &zeroconf.ServiceEntry{
			HostName: "wled-porch.local.",
			Port:     80,
			AddrIPv4: []net.IP{net.ParseIP("192.168.1.42")},
		}
	}()

	devices := collector.consume(context.Background(), entries)

	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}

	byHost := make(map[string]*Device)
	for _, d := range devices {
		byHost[d.Hostname] = d
	}

	deck := byHost["wled-deck.local."]
	if deck == nil {
		t.Fatal("wled-deck.local. missing from result set")
	}
	if deck.Port != 8080 {
		t.Errorf("deck Port = %d, want 8080 (last announcement wins)", deck.Port)
	}
	if got := deck.FirstAddr().String(); got != "192.168.1.41" {
		t.Errorf("deck addr = %s, want 192.168.1.41", got)
	}

	if len(discovered) != 2 {
		t.Errorf("OnDiscovered fired %d times, want 2 (once per hostname)", len(discovered))
	}
}

func TestConsume_StopsAfterIdleTimeout(t *testing.T) {
	collector := NewCollector()
	collector.IdleTimeout = 100 * time.Millisecond

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		entries <- &zeroconf.ServiceEntry{
			HostName: "wled-deck.local.",
			Port:     80,
			AddrIPv4: []net.IP{net.ParseIP("192.168.1.40")},
		}
		// Channel intentionally left open: consume must return on
		// its own once no further event arrives.
	}()

	start := time.Now()
	devices := collector.consume(context.Background(), entries)
	elapsed := time.Since(start)

	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("consume returned after %v, before the idle window elapsed", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Errorf("consume took %v, idle timeout did not fire", elapsed)
	}
}

func TestConsume_ReturnsOnContextCancel(t *testing.T) {
	collector := NewCollector()
	collector.IdleTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	devices := collector.consume(ctx, entries)

	if len(devices) != 0 {
		t.Fatalf("got %d devices, want 0", len(devices))
	}
}
