package domain

import (
	"context"
	"time"
)

// CommandExecutor runs a single allow-listed shell command.
// Implementation: subprocess spawn with wait-with-timeout, optionally routed
// through an elevation broker.
type CommandExecutor interface {
	// Execute runs command and returns a tagged result. It never returns a
	// raw error: every fault is converted into an error-form result. When
	// elevate is true the command is piped through the elevation broker;
	// if elevation is unavailable no process is spawned.
	Execute(ctx context.Context, command string, elevate bool, timeout time.Duration) ExecutionResult
}

// PrivilegeResolver reports whether elevated execution is currently possible.
// It is re-derived every diagnostic/remediation pass, never cached across
// passes: root can be revoked mid-session by the OS or a security tool.
type PrivilegeResolver interface {
	// IsElevated must be safe and cheap to call repeatedly; any fault or
	// timeout in the underlying broker probe yields false.
	IsElevated(ctx context.Context) bool
}

// ConnectivityProber performs reachability checks against a fixed public
// address. Failure causes are never distinguished: the remediation steps that
// follow depend only on whether reachability is currently true.
type ConnectivityProber interface {
	// IsReachable collapses every failure (timeout, DNS, permission) to false.
	IsReachable(ctx context.Context) bool

	// PingCount sends count echo requests and reports how many replies
	// arrived. Used by the DNS health check.
	PingCount(ctx context.Context, count int) (received int, err error)
}

// StateInspector reads current network state using only non-privileged OS
// queries. Failures and permission denials surface as errors to be downgraded
// by the caller, never as panics.
type StateInspector interface {
	// ActiveNetworkKind determines the active network from direct Wi-Fi
	// status first, transport flags as a fallback.
	ActiveNetworkKind() NetworkKind

	// WifiStatus returns adapter facts; a non-nil error means the state
	// could not be read (typically a permission failure).
	WifiStatus() (WifiStatus, error)

	// MobileDataConnected reports the data-connection state of the mobile
	// interface.
	MobileDataConnected() (bool, error)

	// VPN reports VPN transport presence as a tri-state.
	VPN() VPNStatus

	// DescribeState renders a human-readable block of the current state.
	DescribeState() string
}

// FirewallAnalyzer interprets firewall rule output and resolves rule owners.
type FirewallAnalyzer interface {
	// HasBlockingRules reports whether the output contains drop/reject
	// patterns at all, owner-matched or not.
	HasBlockingRules(ruleOutput string) bool

	// BlockedUIDs extracts UIDs targeted by drop/reject owner rules,
	// skipping UIDs below MinUserUID, deduplicated in first-seen order.
	BlockedUIDs(ruleOutput string) []int

	// ResolveOwners maps UIDs to account labels, falling back to a
	// "uid:<n>" label when lookup fails.
	ResolveOwners(uids []int) []string
}

// ProcessFinder enumerates running processes by name fragment. Used to list
// VPN clients and to detect well-known firewall managers.
type ProcessFinder interface {
	// FindByNameFragments returns names of running processes whose name
	// contains any fragment (case-insensitive), deduplicated.
	FindByNameFragments(fragments []string) []string
}

// MobileDataToggler flips the mobile radio without privileged primitives.
// This backs the structurally distinct non-elevated mobile remediation path.
type MobileDataToggler interface {
	Disable(ctx context.Context) error
	Enable(ctx context.Context) error
}
