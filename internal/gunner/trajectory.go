package gunner

import "math"

// Integration tuning. projectileSpeed converts the 0-100 power scale into an
// initial speed; the remaining values bound the integrator so every shot
// terminates.
const (
	projectileSpeed = 100.0  // px/s at power 100
	simTimeStep     = 0.1    // s per integration step
	simMaxSteps     = 2000   // hard step cap, guarantees termination
	tunnelSamples   = 5      // interpolated solidity probes per step
	boundsMargin    = 50.0   // px past the side/bottom edges before giving up
	skyAllowance    = 2000.0 // px above the top edge a lob may climb
	defaultGravity  = 9.8
)

// SolidFunc reports whether the world point (x, y) lies inside solid terrain.
type SolidFunc func(x, y float64) bool

// Rect is an axis-aligned arena rectangle in world coordinates. Y grows
// downward, so MinY is the sky edge and MaxY the floor edge.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Env is the physical environment a match plays in. The engine's internal
// simulations and the real projectile resolution must share the same Env, or
// the AI converges on physics the real shots do not follow.
type Env struct {
	Gravity       float64
	AirResistance float64 // per-step velocity damping in [0,1)
	WindX         float64 // horizontal acceleration, positive pushes right
	Bounds        Rect
}

// DefaultEnv returns windless, drag-free physics over the given arena.
func DefaultEnv(bounds Rect) Env {
	return Env{Gravity: defaultGravity, Bounds: bounds}
}

// SimulateShot integrates a projectile fired from (startX, startY) at the
// world firing angle (degrees, 0°=right, 90°=down) with the given 0-100
// power, and returns the point where it stops: the first terrain impact, or
// wherever it was when it left the arena or exhausted the step cap. Terrain
// is probed at interpolated sub-steps so thin ridges cannot be tunneled
// through. The function is pure; identical inputs yield identical output.
func SimulateShot(startX, startY, angleDeg, power float64, env Env, solid SolidFunc) (float64, float64) {
	v := power / 100 * projectileSpeed
	rad := angleDeg * math.Pi / 180
	vx := math.Cos(rad) * v
	vy := math.Sin(rad) * v

	x := startX
	y := startY

	for i := 0; i < simMaxSteps; i++ {
		prevX := x
		prevY := y
		x += vx * simTimeStep
		y += vy * simTimeStep
		vy += env.Gravity * simTimeStep
		vx += env.WindX * simTimeStep
		vx *= 1 - env.AirResistance
		vy *= 1 - env.AirResistance

		if solid != nil {
			for s := 1; s <= tunnelSamples; s++ {
				t := float64(s) / tunnelSamples
				px := prevX + (x-prevX)*t
				py := prevY + (y-prevY)*t
				if solid(px, py) {
					return px, py
				}
			}
		}

		if outOfArena(x, y, env.Bounds) {
			return x, y
		}
	}
	return x, y
}

// outOfArena is the flight-termination test. Sides and floor use a small
// margin; the sky side is generous because high lobs legitimately arc far
// above the visible arena and come back down.
func outOfArena(x, y float64, b Rect) bool {
	if x < b.MinX-boundsMargin || x > b.MaxX+boundsMargin {
		return true
	}
	if y > b.MaxY+boundsMargin {
		return true
	}
	return y < b.MinY-skyAllowance
}

// --- Small math helpers ---

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
