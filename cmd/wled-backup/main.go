// Wled-backup discovers WLED lighting controllers on the local network
// and saves their configuration and preset data to disk.
//
// It listens for "_wled._tcp" mDNS announcements for a bounded window,
// then fetches each device's /cfg.json and /presets.json over HTTP and
// writes them to the output directory, one file per resource. One
// device failing never prevents the others from being backed up; the
// exit status reports whether every device succeeded.
//
// Usage:
//
//	wled-backup [command] [flags]
//
// Running without arguments performs a discovery-and-backup run.
// See 'wled-backup --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wledtools/wled-backup/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wled-backup",
	Short: "Backup WLED device configuration and presets",
	Long: `A one-shot backup tool for WLED lighting controllers.

Discovers WLED devices via mDNS, fetches each device's configuration
and presets over HTTP, and saves them as JSON files. The process exits
non-zero if any device's backup failed.

If no command is specified, a backup run starts immediately.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: back up when no subcommand provided
		return runBackup(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wled-backup %s (commit: %s)\n", version.Version, version.Commit)
	},
}
