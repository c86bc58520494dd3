// Package usecase contains application business logic: the diagnostic engine
// and the remediation runner.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"netmend/internal/domain"
)

// vpnNameFragments identify VPN client processes worth reporting when a
// tunnel transport is active.
var vpnNameFragments = []string{"vpn", "wireguard", "tailscale", "strongswan"}

// firewallManagerFragments identify well-known firewall frontends whose
// presence belongs in the aggregated blocker label set.
var firewallManagerFragments = []string{"ufw", "firewalld", "opensnitch"}

// firewallRulesCommand is the privileged query whose output the analyzer
// interprets.
const firewallRulesCommand = "iptables -L -n -v"

// Diagnostician orchestrates prober, inspector and privileged checks into a
// list of discrete issues and a narrated log. Every collaborator failure is
// degraded to a log entry; Diagnose never fails outright.
type Diagnostician struct {
	executor       domain.CommandExecutor
	privilege      domain.PrivilegeResolver
	prober         domain.ConnectivityProber
	inspector      domain.StateInspector
	firewall       domain.FirewallAnalyzer
	processes      domain.ProcessFinder
	wifiInterface  string
	commandTimeout time.Duration
	pingPackets    int
	logger         *zap.Logger
}

// NewDiagnostician wires the diagnostic engine.
func NewDiagnostician(
	executor domain.CommandExecutor,
	privilege domain.PrivilegeResolver,
	prober domain.ConnectivityProber,
	inspector domain.StateInspector,
	firewall domain.FirewallAnalyzer,
	processes domain.ProcessFinder,
	wifiInterface string,
	commandTimeout time.Duration,
	pingPackets int,
	logger *zap.Logger,
) *Diagnostician {
	return &Diagnostician{
		executor:       executor,
		privilege:      privilege,
		prober:         prober,
		inspector:      inspector,
		firewall:       firewall,
		processes:      processes,
		wifiInterface:  wifiInterface,
		commandTimeout: commandTimeout,
		pingPackets:    pingPackets,
		logger:         logger,
	}
}

// diagnosis accumulates issues and the narrated log in detection order.
type diagnosis struct {
	issues []domain.Issue
	events []domain.LogEvent
}

func (d *diagnosis) log(e domain.LogEvent) {
	d.events = append(d.events, e)
}

// addIssue records an issue and mirrors it into the log as a warning.
func (d *diagnosis) addIssue(description string, category domain.IssueCategory) {
	d.issues = append(d.issues, domain.Issue{Description: description, Category: category})
	d.log(domain.Warning(description))
}

// Diagnose runs the fixed-order diagnostic pass for kind.
func (e *Diagnostician) Diagnose(ctx context.Context, kind domain.NetworkKind) ([]domain.Issue, []domain.LogEvent) {
	d := &diagnosis{}
	e.logger.Debug("diagnostic pass starting", zap.String("network", string(kind)))

	// 1. Privilege state, resolved once per pass.
	elevated := e.privilege.IsElevated(ctx)
	if !elevated {
		d.log(domain.Warning("root access unavailable - running limited diagnostics"))
	}

	// 2. Reachability.
	reachable := e.prober.IsReachable(ctx)
	if reachable {
		d.log(domain.Info("internet is reachable"))
	} else {
		d.addIssue("no internet connection", domain.CategoryConnectivity)
	}

	// 3. Kind-specific adapter state.
	switch kind {
	case domain.NetworkWifi:
		e.checkWifi(d)
	case domain.NetworkMobile:
		e.checkMobile(d)
	}

	// 4. VPN presence, informational only.
	e.checkVPN(d)

	// 5-7. Privileged checks, each degrading independently.
	if elevated {
		e.checkFirewall(ctx, d)
		if kind == domain.NetworkWifi {
			e.checkAdapterLink(ctx, d)
		}
		if !reachable {
			e.checkDNS(ctx, d)
		}
	}

	// 8. The issue list may be empty while the log is not.
	if len(d.issues) == 0 {
		d.log(domain.Success("no issues detected"))
	}

	e.logger.Debug("diagnostic pass finished",
		zap.Int("issues", len(d.issues)),
		zap.Bool("elevated", elevated))
	return d.issues, d.events
}

func (e *Diagnostician) checkWifi(d *diagnosis) {
	status, err := e.inspector.WifiStatus()
	if err != nil {
		e.logger.Debug("wifi status read failed", zap.Error(err))
		d.addIssue("Wi-Fi state unreadable - permission required", domain.CategoryPermission)
		return
	}
	switch {
	case !status.Enabled:
		d.addIssue("Wi-Fi disabled", domain.CategoryRadioOff)
	case !status.Connected:
		d.addIssue("Wi-Fi enabled but not connected", domain.CategoryTraffic)
	default:
		d.log(domain.Info("Wi-Fi connected" + describeSignal(status)))
	}
}

func describeSignal(status domain.WifiStatus) string {
	if status.SSID == "" {
		return ""
	}
	if status.SignalDBm != 0 {
		return fmt.Sprintf(" to %s (%d dBm)", status.SSID, status.SignalDBm)
	}
	return " to " + status.SSID
}

func (e *Diagnostician) checkMobile(d *diagnosis) {
	connected, err := e.inspector.MobileDataConnected()
	if err != nil {
		e.logger.Debug("mobile data read failed", zap.Error(err))
		d.addIssue("mobile data state unreadable - permission required", domain.CategoryPermission)
		return
	}
	if !connected {
		d.addIssue("mobile data disabled", domain.CategoryRadioOff)
	} else {
		d.log(domain.Info("mobile data connected"))
	}
}

func (e *Diagnostician) checkVPN(d *diagnosis) {
	switch e.inspector.VPN() {
	case domain.VPNActive:
		clients := e.processes.FindByNameFragments(vpnNameFragments)
		if len(clients) > 0 {
			d.log(domain.Info("VPN active; clients: " + strings.Join(clients, ", ")))
		} else {
			d.log(domain.Info("VPN transport active"))
		}
	case domain.VPNUnknown:
		d.log(domain.Info("VPN status unknown - permission required"))
	}
}

// checkFirewall aggregates every blocker into a single issue so the planner
// appends exactly one firewall step regardless of how many owners are hit.
func (e *Diagnostician) checkFirewall(ctx context.Context, d *diagnosis) {
	res := e.executor.Execute(ctx, firewallRulesCommand, true, e.commandTimeout)
	if res.Outcome != domain.OutcomeOK {
		d.log(domain.Warning("firewall rules unreadable: " + res.Err))
		return
	}
	if !e.firewall.HasBlockingRules(res.Output) {
		return
	}

	labels := e.firewall.ResolveOwners(e.firewall.BlockedUIDs(res.Output))
	labels = append(labels, e.processes.FindByNameFragments(firewallManagerFragments)...)
	if len(labels) == 0 {
		return
	}
	d.addIssue("firewall blocking traffic by: "+strings.Join(labels, ", "), domain.CategoryFirewall)
}

func (e *Diagnostician) checkAdapterLink(ctx context.Context, d *diagnosis) {
	res := e.executor.Execute(ctx, "ip link show "+e.wifiInterface, true, e.commandTimeout)
	if res.Outcome != domain.OutcomeOK {
		d.log(domain.Warning("adapter link state unreadable: " + res.Err))
		return
	}
	if strings.Contains(res.Output, "state DOWN") {
		d.addIssue("network adapter down", domain.CategoryAdapterDown)
	}
}

// checkDNS runs the explicit multi-packet ping. Partial replies imply a
// resolution-layer fault, which takes a different remediation path than the
// plain connectivity issue already recorded.
func (e *Diagnostician) checkDNS(ctx context.Context, d *diagnosis) {
	received, err := e.prober.PingCount(ctx, e.pingPackets)
	if err != nil || received < e.pingPackets {
		d.addIssue("DNS resolution failure", domain.CategoryDNS)
	}
}
