// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "fmt"

// NetworkKind selects which inspection and remediation branch runs.
// Set once per operation, immutable for its duration.
type NetworkKind string

const (
	NetworkWifi   NetworkKind = "wifi"
	NetworkMobile NetworkKind = "mobile"
)

// IssueCategory tags a detected symptom at creation time so the planner can
// switch on it instead of matching substrings of free text.
type IssueCategory string

const (
	// CategoryConnectivity means the reachability probe failed outright.
	CategoryConnectivity IssueCategory = "connectivity"
	// CategoryFirewall means firewall rules are dropping user traffic.
	CategoryFirewall IssueCategory = "firewall"
	// CategoryDNS means packets flow but name resolution is broken.
	CategoryDNS IssueCategory = "dns"
	// CategoryTraffic means the link is up but carries no traffic.
	CategoryTraffic IssueCategory = "traffic"
	// CategoryAdapterDown means the interface link state is down.
	CategoryAdapterDown IssueCategory = "adapter-down"
	// CategoryRadioOff means the radio/data connection is switched off.
	CategoryRadioOff IssueCategory = "radio-off"
	// CategoryPermission means an OS query was blocked by a missing permission.
	CategoryPermission IssueCategory = "permission"
)

// Issue is a discrete detected symptom of network malfunction.
// Issues are immutable and accumulate in detection order.
type Issue struct {
	Description string
	Category    IssueCategory
}

// Step is one concrete remediation action in an ordered plan. Steps are never
// reordered after the planner emits them: execution order carries the
// remediation semantics (coarse, then specific, then restart-service).
type Step struct {
	Name       string
	Command    string
	Privileged bool
	// StatusOnly marks a pure status query: no settle delay and no
	// connectivity retest follows it.
	StatusOnly bool
}

// Outcome discriminates the forms of an ExecutionResult.
type Outcome int

const (
	// OutcomeOK: the command ran to completion and Output holds its text.
	OutcomeOK Outcome = iota
	// OutcomeInvalidCommand: the command string failed allow-list validation.
	OutcomeInvalidCommand
	// OutcomePrivilegeDenied: elevation was required but is unavailable.
	OutcomePrivilegeDenied
	// OutcomeTimeout: the command exceeded its allotted duration.
	OutcomeTimeout
	// OutcomeExecutionError: subprocess spawn or IO fault.
	OutcomeExecutionError
	// OutcomeCancelled: the surrounding run was cancelled mid-command.
	OutcomeCancelled
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalidCommand:
		return "invalid command"
	case OutcomePrivilegeDenied:
		return "privilege denied"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeExecutionError:
		return "execution error"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ExecutionResult is the outcome of running one command. Exactly one form
// holds: captured output (OutcomeOK), or an error form carrying a message.
type ExecutionResult struct {
	Outcome Outcome
	Output  string
	Err     string
}

// OKResult builds a successful result with captured output.
func OKResult(output string) ExecutionResult {
	return ExecutionResult{Outcome: OutcomeOK, Output: output}
}

// FailResult builds an error-form result.
func FailResult(outcome Outcome, msg string) ExecutionResult {
	return ExecutionResult{Outcome: outcome, Err: msg}
}

// Severity classifies a log event for styling and test assertions.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// LogEvent is one entry in the ordered, append-only record of a diagnostic
// or remediation run. The event stream is the sole output contract.
type LogEvent struct {
	Text     string
	Severity Severity
}

// Info builds an informational event.
func Info(text string) LogEvent { return LogEvent{Text: text, Severity: SeverityInfo} }

// Warning builds a warning event.
func Warning(text string) LogEvent { return LogEvent{Text: text, Severity: SeverityWarning} }

// Error builds an error event.
func Error(text string) LogEvent { return LogEvent{Text: text, Severity: SeverityError} }

// Success builds a success event.
func Success(text string) LogEvent { return LogEvent{Text: text, Severity: SeveritySuccess} }

// ManualResetHint is the phrase the presentation layer watches for to offer
// navigation to system settings. This is a plain string contract; the core
// only guarantees it appears verbatim in the relevant log lines.
const ManualResetHint = "manual reset suggested"

// VPNStatus is reported independently of the primary network kind.
type VPNStatus string

const (
	VPNActive   VPNStatus = "active"
	VPNInactive VPNStatus = "inactive"
	// VPNUnknown means the transport flags could not be read (permission).
	VPNUnknown VPNStatus = "unknown"
)

// WifiStatus holds the directly-readable Wi-Fi adapter facts.
type WifiStatus struct {
	Enabled   bool
	Connected bool
	SSID      string
	// SignalDBm is 0 when the driver does not report a signal level.
	SignalDBm int
}

// MinUserUID is the lowest UID treated as user-owned when resolving firewall
// rule owners. UIDs below this belong to system accounts and are never
// reported as blockers.
const MinUserUID = 1000
