// Package remedy derives ordered remediation plans from detected issues.
// Each network kind has a fixed baseline catalog; issue categories append
// extra steps in detection order. Plans are never reordered after emission.
package remedy

import (
	"fmt"

	"netmend/internal/domain"
)

// Planner builds step plans for the configured interfaces.
type Planner struct {
	wifiInterface   string
	mobileInterface string
}

// NewPlanner creates a planner targeting the named adapters.
func NewPlanner(wifiInterface, mobileInterface string) *Planner {
	return &Planner{wifiInterface: wifiInterface, mobileInterface: mobileInterface}
}

// Plan derives the ordered step list for kind given the detected issues.
// For a non-elevated mobile target it returns nil: no privileged primitives
// exist there, and the runner performs the direct radio toggle instead.
func (p *Planner) Plan(kind domain.NetworkKind, issues []domain.Issue, elevated bool) []domain.Step {
	switch kind {
	case domain.NetworkMobile:
		if !elevated {
			return nil
		}
		return p.mobilePlan(issues)
	default:
		return p.wifiPlan(issues)
	}
}

// wifiPlan: status, coarse toggle, ARP clear, issue-specific appends, then
// the two service-level steps last. All steps need root.
func (p *Planner) wifiPlan(issues []domain.Issue) []domain.Step {
	iface := p.wifiInterface
	steps := []domain.Step{
		{Name: "Show adapter status", Command: "ip link show " + iface, Privileged: true, StatusOnly: true},
		{Name: "Disable adapter", Command: "ip link set " + iface + " down", Privileged: true},
		{Name: "Enable adapter", Command: "ip link set " + iface + " up", Privileged: true},
		{Name: "Clear ARP cache", Command: "ip neigh flush all", Privileged: true},
	}

	for _, issue := range issues {
		switch issue.Category {
		case domain.CategoryFirewall:
			steps = append(steps, domain.Step{
				Name: "Flush firewall rules", Command: "iptables -F", Privileged: true})
		case domain.CategoryDNS:
			steps = append(steps, domain.Step{
				Name: "Flush DNS resolver cache", Command: "resolvectl flush-caches", Privileged: true})
		case domain.CategoryTraffic:
			steps = append(steps, domain.Step{
				Name: "Bounce adapter",
				Command: fmt.Sprintf("ip link set %s down; ip link set %s up", iface, iface),
				Privileged: true})
		}
	}

	return append(steps,
		domain.Step{Name: "Restart network service", Command: "systemctl restart NetworkManager", Privileged: true},
		domain.Step{Name: "Force managed mode", Command: "nmcli dev set " + iface + " managed yes", Privileged: true},
	)
}

// mobilePlan: status, data toggle, issue-specific appends, trailing
// interface clear.
func (p *Planner) mobilePlan(issues []domain.Issue) []domain.Step {
	iface := p.mobileInterface
	steps := []domain.Step{
		{Name: "Show modem status", Command: "mmcli -m 0", Privileged: true, StatusOnly: true},
		{Name: "Disable mobile data", Command: "nmcli radio wwan off", Privileged: true},
		{Name: "Enable mobile data", Command: "nmcli radio wwan on", Privileged: true},
	}

	for _, issue := range issues {
		switch issue.Category {
		case domain.CategoryFirewall:
			steps = append(steps, domain.Step{
				Name: "Flush firewall rules", Command: "iptables -F", Privileged: true})
		case domain.CategoryDNS:
			steps = append(steps, domain.Step{
				Name: "Flush DNS resolver cache", Command: "resolvectl flush-caches", Privileged: true})
		case domain.CategoryTraffic:
			steps = append(steps, domain.Step{
				Name: "Clear interface addresses", Command: "ip addr flush dev " + iface, Privileged: true})
		}
	}

	return append(steps, domain.Step{
		Name: "Clear interface addresses", Command: "ip addr flush dev " + iface, Privileged: true})
}
