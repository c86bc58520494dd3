package infra

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"netmend/internal/domain"
)

// pingReceivedRe extracts the reply count from ping's summary line
// ("4 packets transmitted, 3 received, ...").
var pingReceivedRe = regexp.MustCompile(`(\d+) (?:packets )?received`)

// PingProber implements domain.ConnectivityProber against a fixed public
// address via the system ping binary, falling back to a TCP dial when ICMP is
// unavailable (missing binary, blocked by policy, no raw-socket permission).
type PingProber struct {
	target  string
	timeout time.Duration
}

// NewPingProber probes target with the given per-probe cap.
func NewPingProber(target string, timeout time.Duration) *PingProber {
	return &PingProber{target: target, timeout: timeout}
}

// IsReachable collapses every failure cause to false: the remediation steps
// that follow do not depend on why reachability failed.
func (p *PingProber) IsReachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	secs := int(p.timeout.Seconds())
	if secs < 1 {
		secs = 1
	}
	cmd := exec.CommandContext(ctx, "ping", "-c", "1", "-W", strconv.Itoa(secs), p.target)
	if err := cmd.Run(); err == nil {
		return true
	}

	// ICMP may simply be unavailable; a TCP connect to the resolver port is
	// an equivalent reachability signal.
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(p.target, "53"), p.timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// PingCount sends count echo requests and reports how many replies arrived.
func (p *PingProber) PingCount(ctx context.Context, count int) (int, error) {
	if count < 1 {
		count = 1
	}
	deadline := time.Duration(count)*time.Second + p.timeout
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ping", "-c", strconv.Itoa(count), "-W", "1", p.target)
	out, err := cmd.CombinedOutput()

	if m := pingReceivedRe.FindStringSubmatch(string(out)); len(m) == 2 {
		received, convErr := strconv.Atoi(m[1])
		if convErr == nil {
			return received, nil
		}
	}
	if err != nil {
		return 0, fmt.Errorf("ping %s: %w", p.target, err)
	}
	return 0, fmt.Errorf("ping %s: unrecognized output", p.target)
}

// Ensure PingProber implements domain.ConnectivityProber.
var _ domain.ConnectivityProber = (*PingProber)(nil)
