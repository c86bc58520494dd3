// Package config loads the netmend configuration: defaults overridden by an
// optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "5s" parse naturally.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the underlying time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all tunables. The timing defaults (5s command/probe timeout,
// 2s settle delay) are part of the behavioral contract; change them only via
// a config file.
type Config struct {
	// CommandTimeout bounds each remediation command.
	CommandTimeout Duration `yaml:"command_timeout"`
	// ProbeTimeout bounds each reachability probe and the broker check.
	ProbeTimeout Duration `yaml:"probe_timeout"`
	// SettleDelay is the pause after a state-changing step before retesting.
	SettleDelay Duration `yaml:"settle_delay"`

	// ProbeTarget is the fixed public address probed for reachability.
	ProbeTarget string `yaml:"probe_target"`
	// PingPackets is the packet count for the DNS health check.
	PingPackets int `yaml:"ping_packets"`

	// WifiInterface and MobileInterface name the adapters under repair.
	WifiInterface   string `yaml:"wifi_interface"`
	MobileInterface string `yaml:"mobile_interface"`

	// ElevationBroker is the superuser broker binary commands are piped into.
	ElevationBroker string `yaml:"elevation_broker"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CommandTimeout:  Duration(5 * time.Second),
		ProbeTimeout:    Duration(5 * time.Second),
		SettleDelay:     Duration(2 * time.Second),
		ProbeTarget:     "8.8.8.8",
		PingPackets:     4,
		WifiInterface:   "wlan0",
		MobileInterface: "wwan0",
		ElevationBroker: "su",
	}
}

// Load reads path over the defaults. An empty path returns the defaults; a
// missing file is an error so typos in --config do not silently no-op.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
