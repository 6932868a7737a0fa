// Package config loads OpenSRS client settings.
//
// Settings are resolved in order: Default, an optional YAML file, then
// OPENSRS_* environment variables. Validate runs last.
//
//	username: myreseller
//	api_key: 0123abcd...
//	environment: test
//	timeout: 30s
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/supernovus/opensrs-go/pkg/endpoint"
)

// Default limits.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultMaxResponseSize = 8 << 20
)

// Config holds reseller credentials and transport settings.
type Config struct {
	// Username is the reseller username. ENV: OPENSRS_USERNAME
	Username string `yaml:"username" env:"OPENSRS_USERNAME"`

	// APIKey is the reseller private key used for signing. ENV: OPENSRS_API_KEY
	APIKey string `yaml:"api_key" env:"OPENSRS_API_KEY"`

	// Environment names an entry in the endpoint catalogue. ENV: OPENSRS_ENVIRONMENT
	Environment string `yaml:"environment" env:"OPENSRS_ENVIRONMENT"`

	// URL overrides the environment's URL. ENV: OPENSRS_URL
	URL string `yaml:"url,omitempty" env:"OPENSRS_URL"`

	// Timeout bounds a single request. ENV: OPENSRS_TIMEOUT
	Timeout time.Duration `yaml:"timeout" env:"OPENSRS_TIMEOUT"`

	// MaxResponseSize caps the response body in bytes. ENV: OPENSRS_MAX_RESPONSE_SIZE
	MaxResponseSize int64 `yaml:"max_response_size" env:"OPENSRS_MAX_RESPONSE_SIZE"`

	// Debug records request and response text in protocol log events. ENV: OPENSRS_DEBUG
	Debug bool `yaml:"debug" env:"OPENSRS_DEBUG"`

	// ProtocolLog is a file path for the CBOR protocol log. ENV: OPENSRS_PROTOCOL_LOG
	ProtocolLog string `yaml:"protocol_log,omitempty" env:"OPENSRS_PROTOCOL_LOG"`

	// CAFile is a PEM bundle trusted instead of the system roots. ENV: OPENSRS_CA_FILE
	CAFile string `yaml:"ca_file,omitempty" env:"OPENSRS_CA_FILE"`
}

// Default returns a configuration targeting the test environment.
func Default() Config {
	return Config{
		Environment:     endpoint.Test,
		Timeout:         DefaultTimeout,
		MaxResponseSize: DefaultMaxResponseSize,
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadFile merges the YAML file at path into c. Keys absent from the file
// keep their current values.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from OPENSRS_* variables. Unset variables leave
// fields untouched.
func (c *Config) ApplyEnv() error {
	err := envdecode.Decode(c)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Validate checks that c is usable by a client.
func (c *Config) Validate() error {
	if c.Username == "" {
		return errors.New("config: username is required")
	}
	if c.APIKey == "" {
		return errors.New("config: api_key is required")
	}
	if c.URL == "" {
		if _, err := endpoint.Lookup(c.Environment); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxResponseSize < 0 {
		return fmt.Errorf("config: max_response_size must not be negative, got %d", c.MaxResponseSize)
	}
	return nil
}

// ResolveURL returns URL if set, otherwise the URL of Environment.
func (c *Config) ResolveURL() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	return endpoint.URL(c.Environment)
}
