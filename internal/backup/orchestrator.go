package backup

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wledtools/wled-backup/internal/discovery"
	"github.com/wledtools/wled-backup/internal/logging"
)

// Outcome is the per-device result of a backup attempt.
type Outcome struct {
	// Hostname identifies the device the outcome belongs to.
	Hostname string

	// Stem is the resolved filename stem, when identity resolution got
	// that far. Empty if the device failed before a stem was known.
	Stem string

	// Err is the first failure encountered, or nil on success.
	Err error
}

// OK reports whether the device backed up successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// BatchResult aggregates per-device outcomes for one run.
type BatchResult struct {
	Outcomes []Outcome
}

// OK reports whether every attempted device backed up successfully.
func (r *BatchResult) OK() bool {
	for _, o := range r.Outcomes {
		if !o.OK() {
			return false
		}
	}
	return true
}

// Failed returns the number of devices whose backup failed.
func (r *BatchResult) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Orchestrator backs up a set of discovered devices one at a time. A
// device's failure is recorded in its outcome and never interrupts the
// remaining devices.
type Orchestrator struct {
	// OutDir is the directory backup files are written to. It must
	// already exist.
	OutDir string

	// Policy selects how filename stems are derived and which
	// resources are saved.
	Policy IdentityPolicy

	// Progress receives the human-readable progress lines. Defaults to
	// os.Stdout when nil.
	Progress io.Writer
}

// NewOrchestrator creates an orchestrator writing to outDir under the
// given identity policy.
func NewOrchestrator(outDir string, policy IdentityPolicy) *Orchestrator {
	return &Orchestrator{
		OutDir:   outDir,
		Policy:   policy,
		Progress: os.Stdout,
	}
}

func (o *Orchestrator) progressf(format string, args ...any) {
	w := o.Progress
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format, args...)
}

// Run backs up every device and aggregates the outcomes. Devices that
// announced no address are skipped without an outcome.
func (o *Orchestrator) Run(devices []*discovery.Device) *BatchResult {
	result := &BatchResult{}

	for _, dev := range devices {
		addr := dev.FirstAddr()
		if addr == nil {
			logging.Debug("skipping device without addresses",
				zap.String("hostname", dev.Hostname))
			continue
		}

		o.progressf("Backing up %s\n", dev.Hostname)

		stem, err := o.backupDevice(dev, addr)
		if err != nil {
			o.progressf("  FAILED: %v\n", err)
			logging.LogBackupFailed(dev.Hostname, err)
		} else {
			o.progressf("  SUCCESS\n")
		}

		result.Outcomes = append(result.Outcomes, Outcome{
			Hostname: dev.Hostname,
			Stem:     stem,
			Err:      err,
		})
	}

	return result
}

// backupDevice runs the fetch/identity/persist sequence for one device.
// Under the config policy nothing is written until the identity has
// been resolved from the fetched configuration, so a device with an
// unusable cfg.json leaves no files behind. A later fetch or write
// failure does not remove files already saved for the device.
func (o *Orchestrator) backupDevice(dev *discovery.Device, addr net.IP) (string, error) {
	client := NewClient(addr, dev.Port)

	switch o.Policy {
	case IdentityHostnameDerived:
		stem := HostnameStem(dev.Hostname)
		presets, err := client.FetchPresets()
		if err != nil {
			return stem, err
		}
		if err := o.save(stem+".json", presets); err != nil {
			return stem, err
		}
		return stem, nil

	default: // IdentityConfigDerived
		cfg, err := client.FetchConfig()
		if err != nil {
			return "", err
		}

		stem, err := NameFromConfig(cfg)
		if err != nil {
			return "", err
		}
		o.progressf("  host name: %s\n", stem)

		if err := o.save(stem+"_cfg.json", cfg); err != nil {
			return stem, err
		}

		presets, err := client.FetchPresets()
		if err != nil {
			return stem, err
		}
		if err := o.save(stem+"_presets.json", presets); err != nil {
			return stem, err
		}
		return stem, nil
	}
}

// save writes one resource as a fresh file (truncate-or-create) with
// the verbatim response bytes.
func (o *Orchestrator) save(name string, body []byte) error {
	path := filepath.Join(o.OutDir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return NewFileError(fmt.Sprintf("failed to write %s", name), err)
	}
	o.progressf("  saved: %s\n", name)
	logging.LogSaved(path, len(body))
	return nil
}
