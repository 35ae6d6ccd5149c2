package cliconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/practicepicker/internal/domain"
)

// DefaultDataFile is the local snapshot file used when no remote backend is
// configured.
const DefaultDataFile = "routines.json"

// Config holds CLI configuration for practicepicker.
type Config struct {
	// DataFile is the local snapshot. A .db, .sqlite or .sqlite3 suffix
	// selects the SQLite store instead of JSON.
	DataFile string

	// RemoteURL and RemoteKey select the hosted REST table when both are set.
	RemoteURL string
	RemoteKey string

	// PostgresDSN selects a direct Postgres connection and wins over
	// RemoteURL.
	PostgresDSN string

	Listen      string
	HTTPTimeout time.Duration
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		DataFile:    DefaultDataFile,
		Listen:      "127.0.0.1:8501",
		HTTPTimeout: 15 * time.Second,
		LogLevel:    "info",
	}
}

// Validate checks the configuration for errors and normalises values.
// Missing remote settings are not an error; they select the local backend.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("%w: data-file is required", domain.ErrInvalidConfig)
	}
	if c.Listen == "" {
		return fmt.Errorf("%w: listen address is required", domain.ErrInvalidConfig)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", domain.ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}

	// Ensure no trailing slash
	c.RemoteURL = strings.TrimRight(strings.TrimSpace(c.RemoteURL), "/")
	c.RemoteKey = strings.TrimSpace(c.RemoteKey)

	return nil
}

// Masked returns a copy safe to log: credentials are replaced.
func (c Config) Masked() Config {
	if c.RemoteKey != "" {
		c.RemoteKey = "*****"
	}
	if c.PostgresDSN != "" {
		c.PostgresDSN = "*****"
	}
	return c
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
