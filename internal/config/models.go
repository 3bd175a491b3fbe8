package config

import "time"

// Registry represents the entire user configuration file. It stores
// default preferences for backup runs and bookkeeping about devices
// seen on previous runs.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by advertised hostname
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device records what is known about a single WLED device from earlier
// runs. This is purely client-side bookkeeping; the device itself is
// never written to.
type Device struct {
	LastIP     string    `yaml:"last_ip,omitempty"`     // Last known IP address
	LastSeen   time.Time `yaml:"last_seen,omitempty"`   // Last discovery time
	LastBackup time.Time `yaml:"last_backup,omitempty"` // Last successful backup time
}

// Preferences represents application-wide defaults. Command-line flags
// override these when given explicitly.
type Preferences struct {
	OutDir         string `yaml:"out_dir,omitempty"`         // Default backup directory
	SearchSecs     int    `yaml:"search_secs,omitempty"`     // mDNS discovery window in seconds
	IdentityPolicy string `yaml:"identity_policy,omitempty"` // "config" or "hostname"
}

// DefaultSearchSecs is the discovery window used when neither flag nor
// config file names one.
const DefaultSearchSecs = 4

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			OutDir:         ".",
			SearchSecs:     DefaultSearchSecs,
			IdentityPolicy: "config",
		},
	}
}

// GetDevice retrieves device bookkeeping by hostname.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(hostname string) *Device {
	return r.Devices[hostname]
}

// EnsureDevice ensures a device entry exists in the registry, creating
// an empty one when needed, and returns it.
func (r *Registry) EnsureDevice(hostname string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if d, ok := r.Devices[hostname]; ok {
		return d
	}
	d := &Device{}
	r.Devices[hostname] = d
	return d
}
