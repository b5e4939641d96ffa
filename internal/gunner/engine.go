package gunner

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Combatant is the narrow view of a tank the engine needs: where its muzzle
// is, whether it is still in the fight, and which way it faces.
type Combatant interface {
	Muzzle() (x, y float64)
	Alive() bool
	FacingLeft() bool
}

// Engine is the opponent-AI targeting engine for one AI-controlled tank. It
// owns all learning state for that shooter exclusively; never share one
// engine between shooters. The host calls GetDecision at the start of the
// AI's turn, fires with the delivered turret angle and power, and reports
// the explosion back through RecordShotResult before the next turn.
type Engine struct {
	difficulty Difficulty
	profile    DifficultyProfile
	env        Env
	solid      SolidFunc
	rng        *rand.Rand

	mu      sync.Mutex
	history []ShotResult
	window  *searchWindow
	memory  *FiringSolution
	pending *pendingDecision
	delay   time.Duration

	trace *DuelLog
	tag   string
	side  string
	turn  *int
}

// NewEngine builds an engine with the given difficulty preset over a shared
// match environment. solid is the terrain solidity query; seed fixes the
// deviation stream so a match replays deterministically.
func NewEngine(difficulty Difficulty, env Env, solid SolidFunc, seed int64) *Engine {
	e := &Engine{
		difficulty: difficulty,
		profile:    difficulty.Profile(),
		env:        env,
		solid:      solid,
		rng:        rand.New(rand.NewSource(seed)), // #nosec G404 -- deterministic gameplay RNG
		delay:      decisionDelay,
	}
	log.Debug("ai engine ready",
		"difficulty", difficulty,
		"gravity", env.Gravity,
		"wind", env.WindX,
		"seed", seed)
	return e
}

// SetTrace attaches a duel log the engine writes its aim decisions into.
// turn may point at the harness turn counter so aim entries line up with the
// shots they produced.
func (e *Engine) SetTrace(trace *DuelLog, tag, side string, turn *int) {
	e.trace = trace
	e.tag = tag
	e.side = side
	e.turn = turn
}

func (e *Engine) traceAim(key, value string, num float64) {
	if e.trace == nil {
		return
	}
	turn := 0
	if e.turn != nil {
		turn = *e.turn
	}
	e.trace.Add(turn, e.tag, e.side, "aim", key, value, num)
}

// RecordShotResult folds one resolved shot into the learning state. Must be
// called exactly once per AI shot, after the explosion, and before the next
// decision. Malformed results are dropped rather than poisoning the state.
func (e *Engine) RecordShotResult(r ShotResult) {
	if err := r.validate(); err != nil {
		log.Warn("dropping malformed shot result", "tank", e.tag, "err", err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordResult(r)
}

// decide runs the full decision pipeline synchronously and returns the
// shooter-local turret angle and the power to fire with. The harness drives
// duels through this; GetDecision runs the same pipeline when its timer
// fires.
func (e *Engine) decide(sx, sy, tx, ty float64, facingLeft bool) (float64, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decideLocked(sx, sy, tx, ty, facingLeft)
}

func (e *Engine) decideLocked(sx, sy, tx, ty float64, facingLeft bool) (float64, float64) {
	if !finite(sx, sy, tx, ty) {
		log.Warn("non-finite aim inputs, firing neutral solution",
			"tank", e.tag, "shooter", []float64{sx, sy}, "target", []float64{tx, ty})
		n := e.neutralSolution(sx, tx)
		return TurretFromWorld(n.Angle, facingLeft), n.Power
	}

	sol, exploited := e.computeShot(sx, sy, tx, ty)
	if !exploited {
		sol = e.addDeviation(sol)
	}
	return TurretFromWorld(sol.Angle, facingLeft), sol.Power
}

// neutralSolution is the fail-closed candidate for malformed inputs: a 45°
// up-arc at medium power toward the target side, or rightward when even the
// side cannot be determined.
func (e *Engine) neutralSolution(sx, tx float64) FiringSolution {
	if finite(sx, tx) && tx < sx {
		return FiringSolution{Angle: 180 - neutralAngle, Power: neutralPower}
	}
	return FiringSolution{Angle: neutralAngle, Power: neutralPower}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
