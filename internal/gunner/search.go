package gunner

import (
	"fmt"
	"math"
)

// Acceptance and fallback tuning for the windowed shot search. hitRadius
// doubles as the hit criterion everywhere in the engine: an impact within it
// counts as a hit, and a windowed search that cannot get within it escalates
// to the fallback sweep.
const (
	hitRadius         = 50.0
	fallbackAngleStep = 5.0
	fallbackPowerStep = 5.0
)

// span is a closed [min, max] interval.
type span struct {
	min, max float64
}

func (s span) width() float64          { return s.max - s.min }
func (s span) center() float64         { return (s.min + s.max) / 2 }
func (s span) clip(v float64) float64  { return clamp(v, s.min, s.max) }
func (s span) contains(v float64) bool { return v >= s.min && v <= s.max }

// aimWindow is one angle/power search region with its grid resolution.
type aimWindow struct {
	angle, power         span
	angleStep, powerStep float64
}

// aimBucket pairs the left- and right-side windows for one relative-distance
// band. maxRel is the exclusive upper edge of the band; the final bucket
// catches everything at or beyond it.
type aimBucket struct {
	maxRel float64
	right  aimWindow
	left   aimWindow
}

// aimBuckets is the fixed heuristic table the search starts from: flat
// low-power windows close in, rising to near-full-power high arcs at long
// range, with finer grid steps as range grows. Left windows are the 180°
// mirror of the right ones. This tuning is load-bearing gameplay data; do
// not clean up the numbers.
var aimBuckets = []aimBucket{
	{
		maxRel: 0.25,
		right:  aimWindow{angle: span{-20, 40}, power: span{25, 60}, angleStep: 5, powerStep: 5},
		left:   aimWindow{angle: span{140, 200}, power: span{25, 60}, angleStep: 5, powerStep: 5},
	},
	{
		maxRel: 0.5,
		right:  aimWindow{angle: span{-30, 25}, power: span{45, 75}, angleStep: 4, powerStep: 4},
		left:   aimWindow{angle: span{155, 210}, power: span{45, 75}, angleStep: 4, powerStep: 4},
	},
	{
		maxRel: 0.75,
		right:  aimWindow{angle: span{-40, 20}, power: span{65, 90}, angleStep: 3, powerStep: 3},
		left:   aimWindow{angle: span{160, 220}, power: span{65, 90}, angleStep: 3, powerStep: 3},
	},
	{
		maxRel: 1,
		right:  aimWindow{angle: span{-45, 15}, power: span{80, 100}, angleStep: 2, powerStep: 2},
		left:   aimWindow{angle: span{165, 225}, power: span{80, 100}, angleStep: 2, powerStep: 2},
	},
}

// Expanded fallback sweeps for when the windowed search cannot get within
// hitRadius: the full half-plane for the firing side, coarse grid, wide
// power band.
var (
	fallbackRight = aimWindow{angle: span{-90, 90}, power: span{30, 100}, angleStep: fallbackAngleStep, powerStep: fallbackPowerStep}
	fallbackLeft  = aimWindow{angle: span{150, 270}, power: span{30, 100}, angleStep: fallbackAngleStep, powerStep: fallbackPowerStep}
)

// bucketFor returns the window pair for a clamped relative distance.
func bucketFor(relDist float64) aimBucket {
	for _, b := range aimBuckets {
		if relDist < b.maxRel {
			return b
		}
	}
	return aimBuckets[len(aimBuckets)-1]
}

// searchShot runs the heuristic windowed grid search and, when the window
// cannot land within hitRadius of the target, the expanded half-plane
// fallback. Returns the best candidate, its impact distance from the target,
// and whether the fallback ran. The result is a best-effort aim, never a
// guaranteed hit; closing the remaining error is the learner's job.
func (e *Engine) searchShot(sx, sy, tx, ty float64) (FiringSolution, float64, bool) {
	side := 1.0
	if tx < sx {
		side = -1
	}
	relDist := clamp01(math.Abs(tx-sx) / e.env.Bounds.Width())

	b := bucketFor(relDist)
	win := b.right
	if side < 0 {
		win = b.left
	}

	best, bestDist := e.gridSearch(sx, sy, tx, ty, win)
	fellBack := false
	if bestDist > hitRadius {
		fellBack = true
		fb := fallbackRight
		if side < 0 {
			fb = fallbackLeft
		}
		if cand, candDist := e.gridSearch(sx, sy, tx, ty, fb); candDist < bestDist {
			best, bestDist = cand, candDist
		}
	}

	e.traceAim("search", fmt.Sprintf("angle=%.1f power=%.1f score=%.1f rel=%.2f", best.Angle, best.Power, bestDist, relDist), bestDist)
	if fellBack {
		e.traceAim("fallback", fmt.Sprintf("windowed search missed by %.1f", bestDist), bestDist)
	}
	return best, bestDist, fellBack
}

// gridSearch scores every (angle, power) grid point of a window by simulating
// the shot and measuring the impact's distance to the target, keeping the
// minimum. Iteration is angle-ascending then power-ascending and ties keep
// the first find, so the result is deterministic.
func (e *Engine) gridSearch(sx, sy, tx, ty float64, w aimWindow) (FiringSolution, float64) {
	best := FiringSolution{Angle: w.angle.min, Power: w.power.min}
	bestDist := math.MaxFloat64
	for a := w.angle.min; a <= w.angle.max+1e-9; a += w.angleStep {
		for p := w.power.min; p <= w.power.max+1e-9; p += w.powerStep {
			ix, iy := SimulateShot(sx, sy, a, p, e.env, e.solid)
			if d := dist(ix, iy, tx, ty); d < bestDist {
				best = FiringSolution{Angle: a, Power: p}
				bestDist = d
			}
		}
	}
	return best, bestDist
}
