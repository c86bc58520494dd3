package infra

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"netmend/internal/domain"
)

// BrokerPrivilegeResolver implements domain.PrivilegeResolver by starting the
// elevation broker, piping a harmless identity check into it and inspecting
// the output. Any fault or timeout yields false. It spawns a process on every
// call; callers must not cache the answer across passes.
type BrokerPrivilegeResolver struct {
	broker  string
	timeout time.Duration
}

// NewBrokerPrivilegeResolver probes the given broker binary with the given
// per-call cap.
func NewBrokerPrivilegeResolver(broker string, timeout time.Duration) *BrokerPrivilegeResolver {
	return &BrokerPrivilegeResolver{broker: broker, timeout: timeout}
}

// IsElevated reports whether the broker grants a root shell right now.
func (r *BrokerPrivilegeResolver) IsElevated(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.broker)
	cmd.Stdin = strings.NewReader("id\nexit\n")

	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "uid=0")
}

// Ensure BrokerPrivilegeResolver implements domain.PrivilegeResolver.
var _ domain.PrivilegeResolver = (*BrokerPrivilegeResolver)(nil)
