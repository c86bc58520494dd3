package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"netmend/internal/domain"
	"netmend/internal/remedy"
)

// Remediator executes a remediation plan step by step, retesting
// connectivity after each state-changing step and stopping early on success.
// Steps run strictly sequentially: a later step assumes the device state
// left by the previous one.
type Remediator struct {
	diagnostician  *Diagnostician
	planner        *remedy.Planner
	executor       domain.CommandExecutor
	prober         domain.ConnectivityProber
	privilege      domain.PrivilegeResolver
	toggler        domain.MobileDataToggler
	commandTimeout time.Duration
	settleDelay    time.Duration
	logger         *zap.Logger
}

// NewRemediator wires the remediation runner.
func NewRemediator(
	diagnostician *Diagnostician,
	planner *remedy.Planner,
	executor domain.CommandExecutor,
	prober domain.ConnectivityProber,
	privilege domain.PrivilegeResolver,
	toggler domain.MobileDataToggler,
	commandTimeout time.Duration,
	settleDelay time.Duration,
	logger *zap.Logger,
) *Remediator {
	return &Remediator{
		diagnostician:  diagnostician,
		planner:        planner,
		executor:       executor,
		prober:         prober,
		privilege:      privilege,
		toggler:        toggler,
		commandTimeout: commandTimeout,
		settleDelay:    settleDelay,
		logger:         logger,
	}
}

// Run diagnoses, plans and executes remediation for kind. It always returns
// a log ending in a terminal entry: success, exhaustion, cancellation, or a
// single synthesized error for a wholly unexpected fault.
func (r *Remediator) Run(ctx context.Context, kind domain.NetworkKind) (events []domain.LogEvent) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("remediation panicked", zap.Any("panic", p))
			events = append(events, domain.Error(fmt.Sprintf("unexpected failure: %v", p)))
		}
	}()

	events = append(events, domain.Info(fmt.Sprintf("=== Starting %s repair ===", kind)))

	issues, diagEvents := r.diagnostician.Diagnose(ctx, kind)
	events = append(events, diagEvents...)

	// Re-resolved for this pass; the diagnostic resolution is not reused.
	elevated := r.privilege.IsElevated(ctx)

	if kind == domain.NetworkMobile && !elevated {
		return append(events, r.toggleMobile(ctx)...)
	}

	steps := r.planner.Plan(kind, issues, elevated)
	return append(events, r.runSteps(ctx, steps)...)
}

// runSteps drives the step state machine: execute, settle, retest. Later
// steps are never run once connectivity is confirmed.
func (r *Remediator) runSteps(ctx context.Context, steps []domain.Step) []domain.LogEvent {
	var events []domain.LogEvent

	for _, step := range steps {
		if ctx.Err() != nil {
			return append(events, domain.Warning("repair cancelled"))
		}

		events = append(events, domain.Info("Running step: "+step.Name))
		res := r.executor.Execute(ctx, step.Command, step.Privileged, r.commandTimeout)
		switch res.Outcome {
		case domain.OutcomeOK:
			events = append(events, domain.Info(res.Output))
		case domain.OutcomeCancelled:
			return append(events, domain.Warning("repair cancelled"))
		default:
			// A failed step does not abort the run: the next step may
			// still repair the connection.
			events = append(events, domain.Warning(
				fmt.Sprintf("step %q failed (%s): %s", step.Name, res.Outcome, res.Err)))
		}

		if step.StatusOnly {
			continue
		}

		if !sleepCtx(ctx, r.settleDelay) {
			return append(events, domain.Warning("repair cancelled"))
		}
		if r.prober.IsReachable(ctx) {
			r.logger.Info("connectivity restored", zap.String("step", step.Name))
			return append(events, domain.Success("Connection restored after: "+step.Name))
		}
	}

	return append(events, domain.Error(
		"Could not fix the connection automatically - "+domain.ManualResetHint+": restart the device"))
}

// toggleMobile is the non-elevated mobile path: a direct off/on toggle whose
// own success decides the outcome, with no plan and no connectivity retest.
func (r *Remediator) toggleMobile(ctx context.Context) []domain.LogEvent {
	events := []domain.LogEvent{
		domain.Info("root unavailable - toggling mobile data directly"),
	}

	if err := r.toggler.Disable(ctx); err != nil {
		r.logger.Warn("mobile data disable failed", zap.Error(err))
		return append(events, domain.Error(
			"could not disable mobile data - "+domain.ManualResetHint+": toggle mobile data in settings"))
	}
	if !sleepCtx(ctx, r.settleDelay) {
		return append(events, domain.Warning("repair cancelled"))
	}
	if err := r.toggler.Enable(ctx); err != nil {
		r.logger.Warn("mobile data enable failed", zap.Error(err))
		return append(events, domain.Error(
			"could not re-enable mobile data - "+domain.ManualResetHint+": toggle mobile data in settings"))
	}

	return append(events, domain.Success("Mobile data toggled successfully"))
}

// sleepCtx waits d or until cancellation; false means cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
