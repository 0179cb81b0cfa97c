package types

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// KeepAliveConfig holds the adaptive ping scheduler tunables. All durations
// are plain YAML duration strings (e.g. "10m", "30s").
type KeepAliveConfig struct {
	Enabled bool `yaml:"enabled"`
	// Tiered ping intervals picked from time since the last successful ping.
	IntervalResponsive Duration `yaml:"interval_responsive"`
	IntervalModerate   Duration `yaml:"interval_moderate"`
	IntervalCold       Duration `yaml:"interval_cold"`
	// Tier thresholds (time since last success).
	ResponsiveWindow Duration `yaml:"responsive_window"`
	ModerateWindow   Duration `yaml:"moderate_window"`
	// Single recovery retry delay after a failed ping.
	RecoveryDelay Duration `yaml:"recovery_delay"`
	// Forced-stop policy.
	InactivityThreshold Duration `yaml:"inactivity_threshold"`
	SessionMax          Duration `yaml:"session_max"`
	StalenessCeiling    Duration `yaml:"staleness_ceiling"`
	// Delay between a failed wake call and the follow-up health check.
	WakeRetryDelay Duration `yaml:"wake_retry_delay"`
}

// Config is the full client configuration, loadable from YAML with flag
// overrides applied by the cmds.
type Config struct {
	BackendURL string          `yaml:"backend_url"`
	LogLevel   string          `yaml:"log_level"`
	Timeouts   Timeouts        `yaml:"timeouts"`
	KeepAlive  KeepAliveConfig `yaml:"keep_alive"`
}

// DefaultConfig returns the embedded defaults. Panics only if the embedded
// YAML is broken, which is a build defect.
func DefaultConfig() Config {
	var c Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &c); err != nil {
		panic(fmt.Sprintf("embedded default config invalid: %v", err))
	}
	return c
}

// LoadConfig reads a YAML config file on top of the embedded defaults.
// An empty path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate rejects configurations that would wedge the scheduler.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url must be set")
	}
	ka := c.KeepAlive
	if ka.IntervalResponsive <= 0 || ka.IntervalModerate <= 0 || ka.IntervalCold <= 0 {
		return fmt.Errorf("keep_alive intervals must be positive")
	}
	if ka.ResponsiveWindow <= 0 || ka.ModerateWindow <= ka.ResponsiveWindow {
		return fmt.Errorf("keep_alive windows must be positive and ordered (responsive < moderate)")
	}
	return nil
}
