// Package infra implements infrastructure concerns (process execution,
// privilege resolution, probing, state inspection).
package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"netmend/internal/domain"
)

// commandPattern is the strict allow-list for remediation commands: letters,
// digits, whitespace and - _ / | & ; only. Command strings are assembled from
// partially dynamic fragments (interface names), so anything outside the
// allow-list is rejected before a process is spawned. Whitespace means space
// and tab; a newline would smuggle a second command into the broker's stdin.
var commandPattern = regexp.MustCompile(`^[a-zA-Z0-9 \t\-_/|&;]+$`)

// noOutputMarker is substituted when a command produces neither stdout nor
// stderr text.
const noOutputMarker = "no output"

// ShellExecutor implements domain.CommandExecutor. The elevated path pipes
// the command into the broker's stdin followed by "exit"; the direct path
// execs the command verbatim. The executor itself is stateless; each
// invocation may mutate real device network state.
type ShellExecutor struct {
	privilege domain.PrivilegeResolver
	broker    string
}

// NewShellExecutor creates an executor routing elevated commands through the
// given broker binary.
func NewShellExecutor(privilege domain.PrivilegeResolver, broker string) *ShellExecutor {
	return &ShellExecutor{privilege: privilege, broker: broker}
}

// Execute runs command with a hard timeout. Every fault is converted into an
// error-form result; a raw error never escapes to the planner or runner.
func (e *ShellExecutor) Execute(ctx context.Context, command string, elevate bool, timeout time.Duration) domain.ExecutionResult {
	if strings.TrimSpace(command) == "" || !commandPattern.MatchString(command) {
		return domain.FailResult(domain.OutcomeInvalidCommand,
			fmt.Sprintf("command %q contains characters outside the allow-list", command))
	}

	// Privilege is re-checked before every elevated command, not cached:
	// root can be revoked between steps.
	if elevate && !e.privilege.IsElevated(ctx) {
		return domain.FailResult(domain.OutcomePrivilegeDenied,
			fmt.Sprintf("root access required for %q but unavailable", command))
	}

	var cmd *exec.Cmd
	if elevate {
		cmd = exec.Command(e.broker)
		cmd.Stdin = strings.NewReader(command + "\nexit\n")
	} else {
		// Operator characters only mean anything to the broker's shell; the
		// direct path splits into argv, where they would be passed through as
		// literal arguments and silently change the command's meaning.
		if strings.ContainsAny(command, ";|&") {
			return domain.FailResult(domain.OutcomeInvalidCommand,
				fmt.Sprintf("command %q uses shell operators, which require elevation", command))
		}
		parts := strings.Fields(command)
		cmd = exec.Command(parts[0], parts[1:]...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return domain.FailResult(domain.OutcomeExecutionError, err.Error())
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return domain.FailResult(domain.OutcomeCancelled,
			fmt.Sprintf("command %q cancelled", command))

	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		<-done
		return domain.FailResult(domain.OutcomeTimeout,
			fmt.Sprintf("command %q exceeded %s", command, timeout))

	case err := <-done:
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return domain.FailResult(domain.OutcomeExecutionError, err.Error())
		}
		// A non-zero exit is still a normal exit: the output is the
		// diagnostic value here, not the exit code.
		return domain.OKResult(captureOutput(stdout.String(), stderr.String()))
	}
}

// captureOutput applies the stdout -> stderr -> placeholder fallback chain.
func captureOutput(stdout, stderr string) string {
	if s := strings.TrimSpace(stdout); s != "" {
		return s
	}
	if s := strings.TrimSpace(stderr); s != "" {
		return s
	}
	return noOutputMarker
}

// Ensure ShellExecutor implements domain.CommandExecutor.
var _ domain.CommandExecutor = (*ShellExecutor)(nil)
