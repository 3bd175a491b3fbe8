// Package discovery provides mDNS-based discovery of WLED controllers.
//
// WLED firmware advertises an "_wled._tcp" service on the local network.
// The collector browses for that service and gathers resolution events
// for a bounded window: the window restarts on every event, so
// collection ends a fixed idle period after the last announcement.
//
// Devices frequently announce more than once (and once per interface),
// so results are deduplicated by advertised hostname with the latest
// announcement winning. Result order is not meaningful.
//
// # Usage Example
//
//	devices, err := discovery.Collect(4 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, device := range devices {
//	    fmt.Println(device)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
