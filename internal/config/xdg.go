// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "wattdash"

// DefaultSourcePath is the dataset read when nothing else is configured.
const DefaultSourcePath = "electricity_data.csv"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultDataDir holds the log file.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), appName)
}

// DefaultLogPath returns the diagnostic log location.
func DefaultLogPath() string {
	return filepath.Join(DefaultDataDir(), appName+".log")
}
