package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wledtools/wled-backup/internal/backup"
	"github.com/wledtools/wled-backup/internal/config"
	"github.com/wledtools/wled-backup/internal/discovery"
	"github.com/wledtools/wled-backup/internal/logging"
)

// Command flags
var (
	outDir       string
	searchSecs   int
	identityName string
	scanTimeout  int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out-dir", "o", ".", "Directory to save backups in")
	rootCmd.PersistentFlags().IntVarP(&searchSecs, "search-secs", "s", config.DefaultSearchSecs, "Discovery window in seconds")
	rootCmd.PersistentFlags().StringVar(&identityName, "identity", "config", "Filename identity policy (config, hostname)")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(scanCmd)
}

// backupCmd discovers devices and backs them up. It is also the default
// action when no subcommand is given.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Discover WLED devices and back them up",
	Long: `Discover WLED devices via mDNS and back each one up.

Under the default "config" identity policy, each device's /cfg.json is
fetched first; files are named after the device's own id.name field and
both <name>_cfg.json and <name>_presets.json are saved. Under the
"hostname" policy, files are named after the advertised hostname and a
single <name>.json is saved from /presets.json.

A device that fails is reported and skipped; the remaining devices are
still backed up. The exit status is non-zero if any device failed.`,
	Example: `  # Back up into the current directory (4 second discovery window)
  wled-backup

  # Longer discovery window, dedicated directory
  wled-backup backup --out-dir ~/wled-backups --search-secs 10

  # Name files after the mDNS hostname instead of the device config
  wled-backup backup --identity hostname`,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	registry, err := config.Load()
	if err != nil {
		logging.Warn("Failed to load config registry, using defaults", zap.Error(err))
		registry = config.NewRegistry()
	}

	dir, secs, policyName := resolveSettings(cmd, registry.Preferences)
	policy, err := backup.ParseIdentityPolicy(policyName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	fmt.Printf("Saving backups to %s, searching for %d seconds...\n", dir, secs)

	collector := discovery.NewCollector()
	collector.IdleTimeout = time.Duration(secs) * time.Second
	collector.OnDiscovered = func(d *discovery.Device) {
		fmt.Printf("Discovered: %s\n", d.Name)
	}

	devices, err := collector.Collect()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return nil
	}

	orchestrator := backup.NewOrchestrator(dir, policy)
	result := orchestrator.Run(devices)

	updateRegistry(registry, devices, result)

	if !result.OK() {
		return fmt.Errorf("%d of %d device backup(s) failed", result.Failed(), len(result.Outcomes))
	}

	fmt.Println("Finished")
	return nil
}

// resolveSettings merges flag values with registry preferences. An
// explicitly given flag always wins; otherwise a preference from the
// config file replaces the built-in default.
func resolveSettings(cmd *cobra.Command, prefs *config.Preferences) (dir string, secs int, policyName string) {
	dir, secs, policyName = outDir, searchSecs, identityName
	if prefs == nil {
		return dir, secs, policyName
	}

	flags := cmd.Flags()
	if !flags.Changed("out-dir") && prefs.OutDir != "" {
		dir = prefs.OutDir
	}
	if !flags.Changed("search-secs") && prefs.SearchSecs > 0 {
		secs = prefs.SearchSecs
	}
	if !flags.Changed("identity") && prefs.IdentityPolicy != "" {
		policyName = prefs.IdentityPolicy
	}
	return dir, secs, policyName
}

// updateRegistry records discovery and backup bookkeeping for this run.
// Registry persistence is best-effort; a failure here never fails the
// backup run.
func updateRegistry(registry *config.Registry, devices []*discovery.Device, result *backup.BatchResult) {
	now := time.Now()

	for _, d := range devices {
		entry := registry.EnsureDevice(d.Hostname)
		entry.LastSeen = now
		if addr := d.FirstAddr(); addr != nil {
			entry.LastIP = addr.String()
		}
	}

	for _, outcome := range result.Outcomes {
		if outcome.OK() {
			registry.EnsureDevice(outcome.Hostname).LastBackup = now
		}
	}

	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config registry", zap.Error(err))
	}
}

// scanCmd discovers devices without backing anything up.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for WLED devices on the network",
	Long: `Scan for WLED devices using mDNS/DNS-SD discovery.

This command listens for mDNS announcements from WLED devices and
displays all discovered devices with their hostnames, addresses and
ports. Nothing is fetched or written.`,
	Example: `  # Scan with the default 4-second window
  wled-backup scan

  # Longer scan for networks with many devices
  wled-backup scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", config.DefaultSearchSecs, "Scan window in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	fmt.Printf("Scanning for WLED devices (window: %ds)...\n\n", scanTimeout)

	devices, err := discovery.Collect(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure devices are powered on and connected to this network")
		fmt.Println("  - Check that mDNS (UDP 5353) is not blocked by a firewall")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))

	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Name)
		fmt.Printf("   Hostname: %s\n", device.Hostname)
		for _, addr := range device.Addrs {
			fmt.Printf("   Address:  %s:%d\n", addr, device.Port)
		}
		fmt.Println()
	}

	fmt.Println("Use 'wled-backup backup' to back these devices up")

	return nil
}
