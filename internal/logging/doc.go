// Package logging provides structured diagnostic logging for wled-backup.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the tool. The user-facing progress lines
// (Discovered/Backing up/saved) are printed to stdout by the commands
// and the orchestrator; zap carries the diagnostic layer underneath and
// writes to stderr.
//
// Logging is silent by default. Set WLED_BACKUP_LOG_LEVEL to "debug",
// "info", "warn" or "error" to enable output:
//
//	WLED_BACKUP_LOG_LEVEL=debug wled-backup
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Backup file written",
//	    zap.String("path", "backups/deck_cfg.json"),
//	    zap.Int("length", 4096),
//	)
//
// All logging functions are safe for concurrent use.
package logging
