package integration

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("failed to parse test configuration")
	ErrInvalidConfig = errors.New("invalid test configuration")
)

// TestConfig is the suite configuration read from the environment.
type TestConfig struct {
	Host            string        `env:"MEILI_HOST"`
	MasterKey       string        `env:"MEILI_MASTER_KEY" envDefault:"masterKey"`
	PrivateKey      string        `env:"MEILI_PRIVATE_KEY"`
	PublicKey       string        `env:"MEILI_PUBLIC_KEY"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	SkipIntegration bool          `env:"SKIP_INTEGRATION" envDefault:"false"`
	DebugLogging    bool          `env:"DEBUG_LOGGING" envDefault:"false"`
}

// UsesStandIn reports whether the suite should start its own server.
func (c *TestConfig) UsesStandIn() bool {
	return c.Host == ""
}

// LoadTestConfig loads configuration from environment variables and .env files.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	var config TestConfig
	if err := env.Parse(&config); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env",    // From test/integration/suites
		"../../../.env", // Repository root
	}

	for _, path := range envPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(absPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", absPath, err)
		}
		return
	}
}

func validate(config *TestConfig) error {
	var errs []error

	if config.MasterKey == "" {
		errs = append(errs, errors.New("MEILI_MASTER_KEY must not be empty"))
	}
	if config.Host != "" {
		if u, err := url.Parse(config.Host); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("MEILI_HOST %q is not an absolute URL", config.Host))
		}
	}
	if config.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}
