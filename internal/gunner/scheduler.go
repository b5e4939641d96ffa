package gunner

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// decisionDelay is the fixed think time before a scheduled decision is
// delivered. It is deliberately not difficulty-dependent: difficulty affects
// accuracy, not reaction speed.
const decisionDelay = 1200 * time.Millisecond

// pendingDecision tracks the cancellation token of the one outstanding
// scheduled decision. The scheduler owns the token; collaborators only see
// Cancel.
type pendingDecision struct {
	cancel context.CancelFunc
}

// GetDecision schedules one firing decision for shooter against target and
// delivers it as deliver(turretAngle, power) after the decision delay. The
// whole pipeline (liveness check, aim computation, deviation, turret
// mapping) runs when the timer fires, so the shot is aimed at where the
// target is then, not where it was when the turn started. Only one decision
// may be pending per engine; scheduling a new one replaces it. The callback
// never fires after Cancel and is dropped silently when either combatant is
// gone at expiry.
func (e *Engine) GetDecision(shooter, target Combatant, deliver func(turretAngle, power float64)) {
	if shooter == nil || target == nil || deliver == nil {
		log.Warn("ignoring decision request with missing participants", "tank", e.tag)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if e.pending != nil {
		e.pending.cancel()
	}
	e.pending = &pendingDecision{cancel: cancel}
	delay := e.delay
	e.mu.Unlock()

	go e.runDecision(ctx, delay, shooter, target, deliver)
}

func (e *Engine) runDecision(ctx context.Context, delay time.Duration, shooter, target Combatant, deliver func(float64, float64)) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	e.mu.Lock()
	if ctx.Err() != nil {
		// Cancelled between the timer firing and the lock.
		e.mu.Unlock()
		return
	}
	e.pending = nil
	if !shooter.Alive() || !target.Alive() {
		e.mu.Unlock()
		log.Debug("dropping decision, participant gone", "tank", e.tag)
		return
	}
	sx, sy := shooter.Muzzle()
	tx, ty := target.Muzzle()
	turret, power := e.decideLocked(sx, sy, tx, ty, shooter.FacingLeft())
	e.mu.Unlock()

	// Deliver outside the lock: the host may re-enter the engine from the
	// callback.
	deliver(turret, power)
}

// Cancel aborts any pending scheduled decision. Call it on engine teardown
// so a late callback cannot fire against destroyed references.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		e.pending.cancel()
		e.pending = nil
	}
}
