package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault verifies the contractual timing defaults
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5*time.Second, cfg.CommandTimeout.Std())
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout.Std())
	assert.Equal(t, 2*time.Second, cfg.SettleDelay.Std())
	assert.Equal(t, "8.8.8.8", cfg.ProbeTarget)
	assert.Equal(t, 4, cfg.PingPackets)
	assert.Equal(t, "wlan0", cfg.WifiInterface)
	assert.Equal(t, "wwan0", cfg.MobileInterface)
	assert.Equal(t, "su", cfg.ElevationBroker)
}

// TestLoad_EmptyPath verifies defaults are returned without a file
func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestLoad_PartialOverride verifies file values overlay the defaults
func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netmend.yaml")
	content := "settle_delay: 500ms\nwifi_interface: wlp3s0\nping_packets: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay.Std())
	assert.Equal(t, "wlp3s0", cfg.WifiInterface)
	assert.Equal(t, 2, cfg.PingPackets)
	// Untouched fields keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout.Std())
	assert.Equal(t, "8.8.8.8", cfg.ProbeTarget)
}

// TestLoad_MissingFile verifies a bad --config path fails loudly
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

// TestLoad_InvalidDuration verifies malformed durations are rejected
func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netmend.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settle_delay: soon\n"), 0644))

	_, err := Load(path)

	assert.ErrorContains(t, err, "invalid duration")
}
