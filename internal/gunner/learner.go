package gunner

import (
	"fmt"
	"math"
)

// Learning-model tuning. These thresholds are tuned gameplay values, not
// quantities derived from the physics; changing them changes how the AI
// feels to play against.
const (
	historyCap       = 5     // recorded results kept per engine
	exploitMoveLimit = 30.0  // px the target may drift before a remembered hit goes stale
	missResetCount   = 3     // consecutive misses that wipe all learning state
	initAngleSpread  = 20.0  // deg either side of the base shot
	initPowerSpread  = 25.0  // power units either side of the base shot
	powerFloor       = 20.0  // fired power never leaves [powerFloor, powerCeil]
	powerCeil        = 100.0
	adaptiveScale    = 200.0 // miss distance that maps to full correction strength
	adaptiveFloor    = 0.3
	adaptiveCeil     = 1.0
	rangeDeadband    = 15.0 // px of signed range error tolerated before correcting
	verticalDeadband = 20.0 // px of vertical error tolerated before re-arcing
	powerGain        = 0.05 // power units per px of range error
	maxPowerNudge    = 10.0 // cap on a single power correction before scaling
	angleNudge       = 2.0  // deg of arc correction before scaling
	centerBias       = 0.7  // pull of the final candidate toward the window center
	neutralAngle     = -45.0 // fail-closed candidate: 45° up-arc, medium power
	neutralPower     = 60.0
)

// FiringSolution is a world-angle firing candidate.
type FiringSolution struct {
	Angle float64 // world firing degrees, 0°=right, 90°=down
	Power float64 // 0-100
}

// ShotResult is the explosion feedback for one resolved AI shot: what was
// fired, where it landed, and where the target was at impact. Distance is
// impact-to-target and is never negative.
type ShotResult struct {
	Angle    float64 // world firing degrees of the fired shot
	Power    float64
	HitX     float64
	HitY     float64
	TargetX  float64
	TargetY  float64
	Distance float64
}

// NewShotResult validates the explosion feedback before it can enter an
// engine. Collaborators must not feed NaN/Inf coordinates or a negative
// distance into the learning state.
func NewShotResult(angle, power, hitX, hitY, targetX, targetY, distance float64) (ShotResult, error) {
	r := ShotResult{
		Angle:    angle,
		Power:    power,
		HitX:     hitX,
		HitY:     hitY,
		TargetX:  targetX,
		TargetY:  targetY,
		Distance: distance,
	}
	if err := r.validate(); err != nil {
		return ShotResult{}, err
	}
	return r, nil
}

func (r ShotResult) validate() error {
	fields := [...]float64{r.Angle, r.Power, r.HitX, r.HitY, r.TargetX, r.TargetY, r.Distance}
	for _, f := range fields {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("shot result has non-finite field: %+v", r)
		}
	}
	if r.Distance < 0 {
		return fmt.Errorf("shot result distance is negative: %.2f", r.Distance)
	}
	return nil
}

// searchWindow is the active correction region around recent misses. A nil
// window means no engagement is currently being corrected.
type searchWindow struct {
	angle span
	power span
}

// newSearchWindow opens the initial correction region around a fresh search
// result. Power is clamped into its legal band from the start; angle is left
// unclamped here because the turret mapper owns angle range at fire time.
func newSearchWindow(base FiringSolution) *searchWindow {
	return &searchWindow{
		angle: span{base.Angle - initAngleSpread, base.Angle + initAngleSpread},
		power: span{math.Max(powerFloor, base.Power-initPowerSpread), math.Min(powerCeil, base.Power+initPowerSpread)},
	}
}

// narrowAround shrinks each axis width by factor and re-centers on the
// adjusted aim. The new window never escapes the old one, so repeated misses
// always tighten the region, and power can never drift outside its band.
func (w *searchWindow) narrowAround(angle, power, factor float64) {
	w.angle = narrowSpan(w.angle, angle, factor)
	w.power = narrowSpan(w.power, power, factor)
	w.power.min = math.Max(powerFloor, w.power.min)
	w.power.max = math.Min(powerCeil, w.power.max)
}

func narrowSpan(s span, target, factor float64) span {
	half := s.width() * factor / 2
	c := clamp(target, s.min+half, s.max-half)
	return span{min: c - half, max: c + half}
}

// computeShot runs the per-turn aiming pipeline: replay a remembered hit if
// the target has barely moved, otherwise search, then correct off the latest
// miss and narrow the window around the correction. The bool reports the
// exploit path; exploited shots must be fired exactly as returned, with no
// deviation on top.
func (e *Engine) computeShot(sx, sy, tx, ty float64) (FiringSolution, bool) {
	if e.memory != nil {
		if last, ok := e.lastRecorded(); ok && dist(tx, ty, last.TargetX, last.TargetY) < exploitMoveLimit {
			e.traceAim("exploit", fmt.Sprintf("replay angle=%.2f power=%.2f", e.memory.Angle, e.memory.Power), 0)
			return *e.memory, true
		}
	}

	base, _, _ := e.searchShot(sx, sy, tx, ty)

	if e.window == nil {
		e.window = newSearchWindow(base)
		e.traceAim("window", fmt.Sprintf("opened angle=[%.1f,%.1f] power=[%.1f,%.1f]",
			e.window.angle.min, e.window.angle.max, e.window.power.min, e.window.power.max), e.window.angle.width())
	}

	if last, ok := e.lastRecorded(); ok && last.Distance < hitRadius {
		// The remembered hit went stale (target moved): start the
		// engagement over from the fresh search.
		e.window = nil
		e.memory = nil
		return base, false
	}

	miss, ok := e.recentMiss()
	if !ok {
		// Fresh engagement, nothing recorded to correct from yet.
		return base, false
	}

	adj := e.correctedAim(miss, sx, tx)
	e.window.narrowAround(adj.Angle, adj.Power, e.profile.NarrowingFactor)

	cand := FiringSolution{
		Angle: e.window.angle.clip(e.window.angle.center() + centerBias*(adj.Angle-e.window.angle.center())),
		Power: e.window.power.clip(e.window.power.center() + centerBias*(adj.Power-e.window.power.center())),
	}
	e.traceAim("correct", fmt.Sprintf("miss=%.1f adj=(%.1f,%.1f) cand=(%.1f,%.1f) window=%.1f",
		miss.Distance, adj.Angle, adj.Power, cand.Angle, cand.Power, e.window.angle.width()), miss.Distance)
	return cand, false
}

// correctedAim applies the overshoot/undershoot heuristics to the most
// recent miss. Range error is signed along the firing direction (positive =
// landed past the target); corrections grow with miss distance up to
// adaptiveScale and scale with the difficulty's accuracy multiplier.
func (e *Engine) correctedAim(miss ShotResult, sx, tx float64) FiringSolution {
	side := 1.0
	if tx < sx {
		side = -1
	}
	rangeErr := (miss.HitX - miss.TargetX) * side
	vertErr := miss.HitY - miss.TargetY
	adaptive := clamp(miss.Distance/adaptiveScale, adaptiveFloor, adaptiveCeil)

	angle := miss.Angle
	power := miss.Power
	if math.Abs(rangeErr) > rangeDeadband {
		nudge := math.Min(maxPowerNudge, math.Abs(rangeErr)*powerGain) * e.profile.AccuracyMultiplier * adaptive
		if rangeErr > 0 {
			power -= nudge
		} else {
			power += nudge
		}
		if math.Abs(vertErr) > verticalDeadband {
			arc := angleNudge * e.profile.AccuracyMultiplier * adaptive
			switch {
			case rangeErr > 0 && vertErr < 0:
				// Flew long and struck high: flatten the arc.
				angle += side * arc
			case rangeErr < 0 && vertErr > 0:
				// Fell short and struck low: loft the arc.
				angle -= side * arc
			}
		}
	}
	return FiringSolution{Angle: angle, Power: clamp(power, powerFloor, powerCeil)}
}

// lastRecorded returns the most recently recorded result.
func (e *Engine) lastRecorded() (ShotResult, bool) {
	if len(e.history) == 0 {
		return ShotResult{}, false
	}
	return e.history[len(e.history)-1], true
}

// recentMiss returns the most recent miss among the last missResetCount
// results.
func (e *Engine) recentMiss() (ShotResult, bool) {
	n := len(e.history)
	for i := n - 1; i >= 0 && i > n-1-missResetCount; i-- {
		if e.history[i].Distance >= hitRadius {
			return e.history[i], true
		}
	}
	return ShotResult{}, false
}

// recordResult folds one resolved shot into the learning state: hits are
// remembered for exact replay, and a run of missResetCount misses wipes
// everything so the next turn starts from a fresh search.
func (e *Engine) recordResult(r ShotResult) {
	e.history = append(e.history, r)
	if len(e.history) > historyCap {
		e.history = e.history[1:]
	}

	if r.Distance < hitRadius {
		e.memory = &FiringSolution{Angle: r.Angle, Power: r.Power}
		e.window = nil
		e.traceAim("remember", fmt.Sprintf("hit at %.1f, keeping angle=%.2f power=%.2f", r.Distance, r.Angle, r.Power), r.Distance)
		return
	}

	if n := len(e.history); n >= missResetCount {
		allMisses := true
		for _, h := range e.history[n-missResetCount:] {
			if h.Distance < hitRadius {
				allMisses = false
				break
			}
		}
		if allMisses {
			if e.memory != nil || e.window != nil {
				e.traceAim("reset", "3 consecutive misses, learning state cleared", 0)
			}
			e.memory = nil
			e.window = nil
		}
	}
}
