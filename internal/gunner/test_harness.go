package gunner

import (
	"fmt"
	"math/rand"
)

// Tank tuning for the headless duels. A tank dies after tankHP blast hits;
// the muzzle sits a little above the hull so flat shots do not clip the
// ground the tank is parked on.
const (
	tankHP         = 3
	tankMuzzleLift = 12.0
)

// Tank is one duel participant: a hull parked on the terrain surface, hit
// points, and the AI engine that aims for it.
type Tank struct {
	Label      string
	Difficulty Difficulty
	X, Y       float64 // hull reference point on the terrain surface
	HP         int
	Left       bool // facing; tanks face each other across the arena
	Engine     *Engine

	side string
}

func (t *Tank) Muzzle() (float64, float64) { return t.X, t.Y - tankMuzzleLift }
func (t *Tank) Alive() bool                { return t.HP > 0 }
func (t *Tank) FacingLeft() bool           { return t.Left }

// Side reports which arena side the tank holds: "left" or "right".
func (t *Tank) Side() string { return t.side }

// DuelSim is a headless duel harness used by tests and the duelsim CLI. It
// plays two AI engines against each other on shared terrain, resolving the
// real projectiles with the same simulator and environment the engines plan
// with, and feeding every explosion back into the shooter's engine.
type DuelSim struct {
	Terrain *Terrain
	Env     Env
	Tanks   []*Tank
	Log     *DuelLog

	arenaW  float64
	arenaH  float64
	groundY float64
	rolling bool
	custom  *Terrain
	gravity float64
	wind    float64
	drag    float64

	rng    *rand.Rand
	turn   int
	active int
}

// duelOptionKind controls the pass in which an option is applied.
type duelOptionKind int

const (
	duelOptArena duelOptionKind = iota // arena, physics, seed, verbose; applied first
	duelOptTank                        // add tanks; applied after terrain is built
)

// DuelOption is a builder function applied to a DuelSim during construction.
type DuelOption struct {
	kind duelOptionKind
	fn   func(*DuelSim)
}

// WithArena sets the arena dimensions.
func WithArena(w, h float64) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.arenaW = w
		d.arenaH = h
	}}
}

// WithFlatGround uses a constant ground line at groundY.
func WithFlatGround(groundY float64) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.rolling = false
		d.groundY = groundY
	}}
}

// WithRollingGround uses seeded rolling terrain instead of a flat line.
func WithRollingGround() DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.rolling = true
	}}
}

// WithTerrain duels on a prebuilt terrain. The arena takes the terrain's
// dimensions; flat/rolling options are ignored.
func WithTerrain(t *Terrain) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.custom = t
	}}
}

// WithSeed sets the RNG seed for deterministic runs. The seed drives terrain
// generation and both engines' deviation streams.
func WithSeed(seed int64) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithGravity overrides the default gravity.
func WithGravity(g float64) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.gravity = g
	}}
}

// WithWind sets a constant horizontal wind acceleration.
func WithWind(w float64) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.wind = w
	}}
}

// WithAirResistance sets the per-step velocity damping factor.
func WithAirResistance(r float64) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.drag = r
	}}
}

// WithVerbose enables per-turn verbose logging.
func WithVerbose(v bool) DuelOption {
	return DuelOption{duelOptArena, func(d *DuelSim) {
		d.Log = NewDuelLog(v)
	}}
}

// WithTank parks a tank at column x with the given difficulty. A duel wants
// exactly two tanks; they are labeled L and R by arena side and face each
// other.
func WithTank(x float64, difficulty Difficulty) DuelOption {
	return DuelOption{duelOptTank, func(d *DuelSim) {
		d.Tanks = append(d.Tanks, &Tank{X: x, Difficulty: difficulty, HP: tankHP})
	}}
}

// NewDuelSim constructs a DuelSim from the given options in ordered passes:
//  1. Arena/physics/seed options
//  2. Terrain and environment construction
//  3. Tanks (parked on the surface, faced, wired to engines)
func NewDuelSim(opts ...DuelOption) *DuelSim {
	d := &DuelSim{
		arenaW:  1000,
		arenaH:  600,
		groundY: 500,
		gravity: defaultGravity,
		Log:     NewDuelLog(false),
		rng:     rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == duelOptArena {
			o.fn(d)
		}
	}

	switch {
	case d.custom != nil:
		d.Terrain = d.custom
		d.arenaW = d.custom.Width()
		d.arenaH = d.custom.Height()
	case d.rolling:
		d.Terrain = RollingTerrain(d.arenaW, d.arenaH, d.rng.Int63())
	default:
		d.Terrain = FlatTerrain(d.arenaW, d.arenaH, d.groundY)
	}
	d.Env = Env{
		Gravity:       d.gravity,
		AirResistance: d.drag,
		WindX:         d.wind,
		Bounds:        d.Terrain.Bounds(),
	}

	for _, o := range opts {
		if o.kind == duelOptTank {
			o.fn(d)
		}
	}
	d.placeTanks()
	return d
}

// placeTanks parks every tank on the terrain surface, orders them left to
// right, labels them, points them at each other, and wires up their engines.
func (d *DuelSim) placeTanks() {
	if len(d.Tanks) == 0 {
		return
	}
	if len(d.Tanks) >= 2 && d.Tanks[0].X > d.Tanks[1].X {
		d.Tanks[0], d.Tanks[1] = d.Tanks[1], d.Tanks[0]
	}
	labels := [...]string{"L", "R"}
	sides := [...]string{"left", "right"}
	for i, t := range d.Tanks {
		t.Y = d.Terrain.SurfaceAt(t.X)
		t.Left = i == 1 // the right-hand tank fires leftward
		if i < len(labels) {
			t.Label = labels[i]
			t.side = sides[i]
		} else {
			t.Label = fmt.Sprintf("T%d", i)
			t.side = "--"
		}
		t.Engine = NewEngine(t.Difficulty, d.Env, d.Terrain.Solid, d.rng.Int63())
		t.Engine.SetTrace(d.Log, t.Label, t.side, &d.turn)
	}
}

// CurrentTurn returns the number of turns played so far.
func (d *DuelSim) CurrentTurn() int {
	return d.turn
}

// bothAlive reports whether the duel can continue.
func (d *DuelSim) bothAlive() bool {
	return len(d.Tanks) >= 2 && d.Tanks[0].Alive() && d.Tanks[1].Alive()
}

// playTurn advances one turn: the active tank aims, fires, the projectile
// resolves against terrain and arena bounds, and the explosion feedback goes
// back into the shooter's engine. Returns true when the shot lands within
// the blast radius of the enemy.
func (d *DuelSim) playTurn() bool {
	if len(d.Tanks) < 2 {
		return false
	}
	sh := d.Tanks[d.active]
	tg := d.Tanks[1-d.active]
	d.active = 1 - d.active
	if !sh.Alive() || !tg.Alive() {
		return false
	}
	d.turn++

	sx, sy := sh.Muzzle()
	tx, ty := tg.Muzzle()
	turret, power := sh.Engine.decide(sx, sy, tx, ty, sh.FacingLeft())
	world := WorldFromTurret(turret, sh.FacingLeft())

	ix, iy := SimulateShot(sx, sy, world, power, d.Env, d.Terrain.Solid)
	missDist := dist(ix, iy, tx, ty)

	d.Log.AddVerbose(d.turn, sh.Label, sh.side, "shot", "aim",
		fmt.Sprintf("turret=%.1f world=%.1f power=%.1f", turret, world, power), power)
	d.Log.Add(d.turn, sh.Label, sh.side, "shot", "impact",
		fmt.Sprintf("(%.0f,%.0f) miss=%.1f", ix, iy, missDist), missDist)

	r, err := NewShotResult(world, power, ix, iy, tx, ty, missDist)
	if err != nil {
		d.Log.Add(d.turn, sh.Label, sh.side, "shot", "invalid", err.Error(), 0)
		return false
	}
	sh.Engine.RecordShotResult(r)

	if missDist < hitRadius {
		tg.HP--
		d.Log.Add(d.turn, sh.Label, sh.side, "shot", "hit",
			fmt.Sprintf("%s struck %s (hp %d)", sh.Label, tg.Label, tg.HP), missDist)
		if !tg.Alive() {
			d.Log.Add(d.turn, sh.Label, sh.side, "match", "destroyed",
				fmt.Sprintf("%s destroyed %s", sh.Label, tg.Label), 0)
		}
		return true
	}
	return false
}

// RunTurns plays up to n turns, stopping early once a tank is destroyed.
func (d *DuelSim) RunTurns(n int) {
	for i := 0; i < n && d.bothAlive(); i++ {
		d.playTurn()
	}
}

// RunUntilFirstHit plays until any shot lands, up to maxTurns. Returns the
// turn of the first hit, or -1.
func (d *DuelSim) RunUntilFirstHit(maxTurns int) int {
	for i := 0; i < maxTurns && d.bothAlive(); i++ {
		if d.playTurn() {
			return d.turn
		}
	}
	return -1
}

// RunUntilDestroyed plays until one tank is destroyed, up to maxTurns.
// Returns the final turn, or -1 if both still stand.
func (d *DuelSim) RunUntilDestroyed(maxTurns int) int {
	for i := 0; i < maxTurns && d.bothAlive(); i++ {
		d.playTurn()
	}
	if d.bothAlive() {
		return -1
	}
	return d.turn
}

// Teardown cancels any pending engine work. Call when abandoning a duel
// mid-run.
func (d *DuelSim) Teardown() {
	for _, t := range d.Tanks {
		if t.Engine != nil {
			t.Engine.Cancel()
		}
	}
}

// --- Outcome reporting ---

type DuelOutcome int

const (
	OutcomeOngoing DuelOutcome = iota
	OutcomeLeftVictory
	OutcomeRightVictory
	OutcomeDraw
)

func (o DuelOutcome) String() string {
	switch o {
	case OutcomeLeftVictory:
		return "left_victory"
	case OutcomeRightVictory:
		return "right_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// DuelOutcomeReport summarizes where a duel stands.
type DuelOutcomeReport struct {
	Outcome     DuelOutcome
	Turns       int
	LeftHP      int
	RightHP     int
	Description string
}

// Outcome reports the duel result: a destroyed tank loses outright, and at a
// turn limit the tank with more hit points left is ahead.
func (d *DuelSim) Outcome() DuelOutcomeReport {
	rep := DuelOutcomeReport{Turns: d.turn}
	if len(d.Tanks) < 2 {
		rep.Description = "no_duel"
		return rep
	}
	rep.LeftHP = d.Tanks[0].HP
	rep.RightHP = d.Tanks[1].HP

	switch {
	case rep.LeftHP <= 0 && rep.RightHP <= 0:
		rep.Outcome = OutcomeDraw
		rep.Description = "mutual_destruction"
	case rep.RightHP <= 0:
		rep.Outcome = OutcomeLeftVictory
		rep.Description = "right_tank_destroyed"
	case rep.LeftHP <= 0:
		rep.Outcome = OutcomeRightVictory
		rep.Description = "left_tank_destroyed"
	case rep.LeftHP > rep.RightHP:
		rep.Outcome = OutcomeLeftVictory
		rep.Description = "turn_limit_left_ahead"
	case rep.RightHP > rep.LeftHP:
		rep.Outcome = OutcomeRightVictory
		rep.Description = "turn_limit_right_ahead"
	default:
		rep.Outcome = OutcomeDraw
		rep.Description = "turn_limit_even"
	}
	return rep
}

// --- Snapshots ---

// TankSnapshot is a lightweight copy of a tank's state.
type TankSnapshot struct {
	Label      string
	Difficulty Difficulty
	X, Y       float64
	HP         int
}

// DuelSnapshot captures the duel state at a turn.
type DuelSnapshot struct {
	Turn  int
	Tanks []TankSnapshot
}

// Snapshot returns the current state of both tanks.
func (d *DuelSim) Snapshot() DuelSnapshot {
	snap := DuelSnapshot{Turn: d.turn}
	for _, t := range d.Tanks {
		snap.Tanks = append(snap.Tanks, TankSnapshot{
			Label:      t.Label,
			Difficulty: t.Difficulty,
			X:          t.X,
			Y:          t.Y,
			HP:         t.HP,
		})
	}
	return snap
}
