package consts

import (
	"os"
	"path/filepath"
)

// LogDirPermissions defines the permissions for the log directory
const LogDirPermissions = 0755

// LogFilePermissions defines the permissions for log files
const LogFilePermissions = 0644

// LogDirectoryName is the name of the log directory within the config directory
const LogDirectoryName = "logs"

// DefaultMockLogFileName is the log file used by meilimock when file logging is requested
const DefaultMockLogFileName = "meilimock.log"

// GetLogDirectory returns the path to the log directory
func GetLogDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", ConfigDirName, LogDirectoryName), nil
}

// EnsureLogFile creates the parent directory of path and opens it for appending.
// An empty path resolves to the default meilimock log file.
func EnsureLogFile(path string) (*os.File, error) {
	if path == "" {
		logDir, err := GetLogDirectory()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(logDir, DefaultMockLogFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), LogDirPermissions); err != nil {
		return nil, err
	}

	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
}
