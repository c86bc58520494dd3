package infra

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	gnet "github.com/shirou/gopsutil/v3/net"

	"netmend/internal/domain"
)

// connectedSignalFloorDBm is the weakest signal still counted as a usable
// Wi-Fi connection when determining the active network kind.
const connectedSignalFloorDBm = -85

var (
	wifiSSIDRe   = regexp.MustCompile(`SSID:\s*(.+)`)
	wifiSignalRe = regexp.MustCompile(`signal:\s*(-?\d+)\s*dBm`)
)

// vpnInterfacePrefixes mark tunnel transports. Presence of an up interface
// with one of these prefixes is treated as an active VPN.
var vpnInterfacePrefixes = []string{"tun", "tap", "wg", "ppp"}

// HostInspector implements domain.StateInspector using `iw` for direct Wi-Fi
// adapter status and gopsutil interface flags as the transport fallback. All
// queries are non-privileged; read failures surface as errors for the caller
// to downgrade.
type HostInspector struct {
	wifiInterface   string
	mobileInterface string
}

// NewHostInspector inspects the named adapters.
func NewHostInspector(wifiInterface, mobileInterface string) *HostInspector {
	return &HostInspector{wifiInterface: wifiInterface, mobileInterface: mobileInterface}
}

// WifiStatus reads direct adapter status via `iw dev <iface> link`, falling
// back to interface flags when iw is unavailable.
func (h *HostInspector) WifiStatus() (domain.WifiStatus, error) {
	out, err := exec.Command("iw", "dev", h.wifiInterface, "link").CombinedOutput()
	if err == nil {
		if status, ok := parseWifiLink(string(out)); ok {
			return status, nil
		}
	}

	// Fallback: transport flags only. Degraded view - no SSID or signal.
	iface, ferr := h.findInterface(h.wifiInterface)
	if ferr != nil {
		return domain.WifiStatus{}, fmt.Errorf("wifi state unavailable: %w", ferr)
	}
	up := hasFlag(iface.Flags, "up")
	return domain.WifiStatus{
		Enabled:   up,
		Connected: up && hasRoutableAddr(iface),
	}, nil
}

// parseWifiLink interprets `iw dev <iface> link` output. The second return
// is false when the output matches neither known shape.
func parseWifiLink(out string) (domain.WifiStatus, bool) {
	if strings.Contains(out, "Not connected") {
		return domain.WifiStatus{Enabled: true}, true
	}
	if !strings.Contains(out, "Connected to") {
		return domain.WifiStatus{}, false
	}

	status := domain.WifiStatus{Enabled: true, Connected: true}
	if m := wifiSSIDRe.FindStringSubmatch(out); len(m) == 2 {
		status.SSID = strings.TrimSpace(m[1])
	}
	if m := wifiSignalRe.FindStringSubmatch(out); len(m) == 2 {
		if v, err := strconv.Atoi(m[1]); err == nil {
			status.SignalDBm = v
		}
	}
	return status, true
}

// MobileDataConnected reports whether the mobile interface is up and carries
// an address. A missing interface is "disconnected", not an error.
func (h *HostInspector) MobileDataConnected() (bool, error) {
	ifaces, err := gnet.Interfaces()
	if err != nil {
		return false, fmt.Errorf("interface list unavailable: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Name == h.mobileInterface {
			return hasFlag(iface.Flags, "up") && hasRoutableAddr(iface), nil
		}
	}
	return false, nil
}

// VPN reports tunnel transport presence as a tri-state.
func (h *HostInspector) VPN() domain.VPNStatus {
	ifaces, err := gnet.Interfaces()
	if err != nil {
		return domain.VPNUnknown
	}
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") {
			continue
		}
		if isVPNInterface(iface.Name) {
			return domain.VPNActive
		}
	}
	return domain.VPNInactive
}

// isVPNInterface matches tunnel interface naming conventions.
func isVPNInterface(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range vpnInterfacePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// ActiveNetworkKind prefers direct Wi-Fi status (connected with a usable
// signal) and falls back to transport flags when that read fails.
func (h *HostInspector) ActiveNetworkKind() domain.NetworkKind {
	status, err := h.WifiStatus()
	if err == nil && status.Connected {
		if status.SignalDBm == 0 || status.SignalDBm >= connectedSignalFloorDBm {
			return domain.NetworkWifi
		}
	}

	if iface, ferr := h.findInterface(h.mobileInterface); ferr == nil {
		if hasFlag(iface.Flags, "up") {
			return domain.NetworkMobile
		}
	}
	return domain.NetworkWifi
}

// DescribeState renders a text block of the current state. Read failures are
// downgraded to "unavailable" lines, never propagated.
func (h *HostInspector) DescribeState() string {
	var b strings.Builder

	status, err := h.WifiStatus()
	switch {
	case err != nil:
		fmt.Fprintf(&b, "Wi-Fi (%s): unavailable - permission required\n", h.wifiInterface)
	case !status.Enabled:
		fmt.Fprintf(&b, "Wi-Fi (%s): disabled\n", h.wifiInterface)
	case !status.Connected:
		fmt.Fprintf(&b, "Wi-Fi (%s): enabled, not connected\n", h.wifiInterface)
	default:
		fmt.Fprintf(&b, "Wi-Fi (%s): connected", h.wifiInterface)
		if status.SSID != "" {
			fmt.Fprintf(&b, " to %s", status.SSID)
		}
		if status.SignalDBm != 0 {
			fmt.Fprintf(&b, " (%d dBm)", status.SignalDBm)
		}
		b.WriteString("\n")
	}

	connected, err := h.MobileDataConnected()
	switch {
	case err != nil:
		fmt.Fprintf(&b, "Mobile data (%s): unavailable - permission required\n", h.mobileInterface)
	case connected:
		fmt.Fprintf(&b, "Mobile data (%s): connected\n", h.mobileInterface)
	default:
		fmt.Fprintf(&b, "Mobile data (%s): disconnected\n", h.mobileInterface)
	}

	fmt.Fprintf(&b, "VPN: %s\n", h.VPN())
	return b.String()
}

func (h *HostInspector) findInterface(name string) (gnet.InterfaceStat, error) {
	ifaces, err := gnet.Interfaces()
	if err != nil {
		return gnet.InterfaceStat{}, err
	}
	for _, iface := range ifaces {
		if iface.Name == name {
			return iface, nil
		}
	}
	return gnet.InterfaceStat{}, fmt.Errorf("interface %s not found", name)
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

// hasRoutableAddr reports whether the interface carries a non-link-local
// address.
func hasRoutableAddr(iface gnet.InterfaceStat) bool {
	for _, addr := range iface.Addrs {
		if addr.Addr == "" {
			continue
		}
		if strings.HasPrefix(addr.Addr, "169.254.") || strings.HasPrefix(addr.Addr, "fe80:") {
			continue
		}
		return true
	}
	return false
}

// Ensure HostInspector implements domain.StateInspector.
var _ domain.StateInspector = (*HostInspector)(nil)
