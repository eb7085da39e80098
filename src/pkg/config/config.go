package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"meilikit/src/pkg/consts"
)

// ErrInvalidConfig is joined with every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Color modes of Output.Color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the meilictl and meilimock configuration
type Config struct {
	// Server connection settings
	Server struct {
		Host           string `mapstructure:"host" json:"host"`
		APIKey         string `mapstructure:"api_key" json:"api_key"`
		AuthHeader     string `mapstructure:"auth_header" json:"auth_header"` // x-meili-api-key or bearer
		TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
		Trace          bool   `mapstructure:"trace" json:"trace"`
	} `mapstructure:"server" json:"server"`

	// Log settings
	Log struct {
		Level  string `mapstructure:"level" json:"level"`
		Format string `mapstructure:"format" json:"format"` // console or json
		File   string `mapstructure:"file" json:"file"`
	} `mapstructure:"log" json:"log"`

	// CLI output settings
	Output struct {
		Color string `mapstructure:"color" json:"color"`
		JSON  bool   `mapstructure:"json" json:"json"`
	} `mapstructure:"output" json:"output"`

	// Stand-in server settings
	Mock struct {
		Addr      string `mapstructure:"addr" json:"addr"`
		MasterKey string `mapstructure:"master_key" json:"master_key"`
	} `mapstructure:"mock" json:"mock"`
}

// New returns a viper instance with defaults and environment binding set up.
// Environment variables use the MEILIKIT_ prefix, e.g. MEILIKIT_SERVER_API_KEY.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(consts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	mapConfigToViper(&defaults, v.SetDefault)
	return v
}

// LoadConfig reads the config file and environment into a Config.
func LoadConfig(configPath string) (*Config, error) {
	return Load(New(), configPath)
}

// Load reads configuration through v. An empty configPath searches the
// default locations; a missing file there is not an error.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if found := findConfigFile(); found != "" {
		v.SetConfigFile(found)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func findConfigFile() string {
	for _, location := range consts.ConfigFileLocations() {
		if info, err := os.Stat(location); err == nil && !info.IsDir() {
			return location
		}
	}
	return ""
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	config := Config{}

	config.Server.Host = consts.DefaultHost
	config.Server.APIKey = ""
	config.Server.AuthHeader = "x-meili-api-key"
	config.Server.TimeoutSeconds = consts.DefaultTimeoutSeconds
	config.Server.Trace = true

	config.Log.Level = "warn"
	config.Log.Format = "console"
	config.Log.File = ""

	config.Output.Color = ColorAuto
	config.Output.JSON = false

	config.Mock.Addr = consts.DefaultMockAddr
	config.Mock.MasterKey = ""

	return config
}

// ValidateConfig checks if the configuration is valid. All problems are
// reported together.
func ValidateConfig(config *Config) error {
	var errs []error

	if config.Server.Host == "" {
		errs = append(errs, errors.New("server host cannot be empty"))
	} else if !strings.HasPrefix(config.Server.Host, "http://") && !strings.HasPrefix(config.Server.Host, "https://") {
		errs = append(errs, fmt.Errorf("server host %q must start with http:// or https://", config.Server.Host))
	}

	switch config.Server.AuthHeader {
	case "", "x-meili-api-key", "bearer":
	default:
		errs = append(errs, fmt.Errorf("unknown auth header %q", config.Server.AuthHeader))
	}

	if config.Server.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("server timeout must be positive"))
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", config.Log.Format))
	}

	switch config.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("unknown color mode %q", config.Output.Color))
	}

	if config.Mock.Addr == "" {
		errs = append(errs, errors.New("mock address cannot be empty"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Timeout returns the per-request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// mapConfigToViper copies every field of config through set, which is
// either Set or SetDefault of a viper instance.
func mapConfigToViper(config *Config, set func(key string, value interface{})) {
	// Server settings
	set("server.host", config.Server.Host)
	set("server.api_key", config.Server.APIKey)
	set("server.auth_header", config.Server.AuthHeader)
	set("server.timeout_seconds", config.Server.TimeoutSeconds)
	set("server.trace", config.Server.Trace)

	// Log settings
	set("log.level", config.Log.Level)
	set("log.format", config.Log.Format)
	set("log.file", config.Log.File)

	// Output settings
	set("output.color", config.Output.Color)
	set("output.json", config.Output.JSON)

	// Mock settings
	set("mock.addr", config.Mock.Addr)
	set("mock.master_key", config.Mock.MasterKey)
}

// WriteConfig writes the configuration to the specified file path
func WriteConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	mapConfigToViper(config, v.Set)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a default configuration file at the specified path
// Returns the path to the created config file and any error encountered
func CreateDefaultConfig(configPath string) (string, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configPath = consts.DefaultConfigFile(homeDir)
	}

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	config := DefaultConfig()
	if err := WriteConfig(&config, configPath); err != nil {
		return "", err
	}

	return configPath, nil
}
