package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gnet "github.com/shirou/gopsutil/v3/net"
)

const iwConnected = `Connected to aa:bb:cc:dd:ee:ff (on wlan0)
	SSID: HomeNet
	freq: 5180
	RX: 123456 bytes (890 packets)
	TX: 65432 bytes (210 packets)
	signal: -52 dBm
	rx bitrate: 433.3 MBit/s
`

// TestParseWifiLink_Connected verifies SSID and signal extraction
func TestParseWifiLink_Connected(t *testing.T) {
	status, ok := parseWifiLink(iwConnected)

	require.True(t, ok)
	assert.True(t, status.Enabled)
	assert.True(t, status.Connected)
	assert.Equal(t, "HomeNet", status.SSID)
	assert.Equal(t, -52, status.SignalDBm)
}

// TestParseWifiLink_NotConnected verifies the enabled-but-unconnected shape
func TestParseWifiLink_NotConnected(t *testing.T) {
	status, ok := parseWifiLink("Not connected.\n")

	require.True(t, ok)
	assert.True(t, status.Enabled)
	assert.False(t, status.Connected)
}

// TestParseWifiLink_Unrecognized verifies unknown output is rejected so the
// caller falls back to transport flags
func TestParseWifiLink_Unrecognized(t *testing.T) {
	_, ok := parseWifiLink("command failed: No such device (-19)\n")

	assert.False(t, ok)
}

// TestIsVPNInterface verifies tunnel naming conventions
func TestIsVPNInterface(t *testing.T) {
	assert.True(t, isVPNInterface("tun0"))
	assert.True(t, isVPNInterface("wg0"))
	assert.True(t, isVPNInterface("ppp0"))
	assert.True(t, isVPNInterface("TAP3"))
	assert.False(t, isVPNInterface("wlan0"))
	assert.False(t, isVPNInterface("eth0"))
	assert.False(t, isVPNInterface("wwan0"))
}

// TestHasFlag verifies case-insensitive flag lookup
func TestHasFlag(t *testing.T) {
	flags := []string{"up", "broadcast", "multicast"}

	assert.True(t, hasFlag(flags, "UP"))
	assert.False(t, hasFlag(flags, "loopback"))
	assert.False(t, hasFlag(nil, "up"))
}

// TestHasRoutableAddr verifies link-local addresses do not count as
// connectivity
func TestHasRoutableAddr(t *testing.T) {
	linkLocalOnly := gnet.InterfaceStat{Addrs: []gnet.InterfaceAddr{
		{Addr: "169.254.10.2/16"},
		{Addr: "fe80::1/64"},
	}}
	assert.False(t, hasRoutableAddr(linkLocalOnly))

	routable := gnet.InterfaceStat{Addrs: []gnet.InterfaceAddr{
		{Addr: "fe80::1/64"},
		{Addr: "192.168.1.17/24"},
	}}
	assert.True(t, hasRoutableAddr(routable))

	assert.False(t, hasRoutableAddr(gnet.InterfaceStat{}))
}
