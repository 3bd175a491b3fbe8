// Package config provides user configuration management for wled-backup.
//
// This package manages a YAML configuration file that stores default
// preferences for backup runs (output directory, discovery window,
// identity policy) and per-device bookkeeping from earlier runs (last
// known IP, last seen, last successful backup). The file lives in the
// platform-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/wled-backup/config.yaml or $HOME/.config/wled-backup/config.yaml
//   - macOS: $HOME/.config/wled-backup/config.yaml
//   - Windows: %LOCALAPPDATA%\wled-backup\config.yaml
//
// Command-line flags always override registry preferences. A missing
// file yields defaults; registry write failures are reported by callers
// as warnings, never as run failures.
package config
