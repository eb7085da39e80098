package consts

import (
	"os"
	"path/filepath"
)

// ConfigDirName is the directory under the user config dir holding meilikit files
const ConfigDirName = "meilikit"

// ConfigFileName is the base name (without extension) of the config file
const ConfigFileName = "config"

// EnvPrefix is the prefix of environment variables read by the config layer
const EnvPrefix = "MEILIKIT"

// ConfigFileLocations returns a list of default config file locations in order of priority
func ConfigFileLocations() []string {
	locations := []string{
		"./meilikit.yaml",
		"/etc/meilikit/config.yaml",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, DefaultConfigFile(homeDir))
	}

	return locations
}

// DefaultConfigFile returns the per-user config file path under homeDir
func DefaultConfigFile(homeDir string) string {
	return filepath.Join(homeDir, ".config", ConfigDirName, ConfigFileName+".yaml")
}
