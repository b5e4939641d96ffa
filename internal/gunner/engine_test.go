package gunner

import (
	"math"
	"testing"
)

func TestDecide_NonFiniteInputsFailClosed(t *testing.T) {
	e := newTestEngine(DifficultyMedium, FlatTerrain(1000, 600, 500), 1)

	turret, power := e.decide(math.NaN(), 488, 900, 488, false)
	if turret != neutralAngle || power != neutralPower {
		t.Fatalf("NaN shooter position should fire the neutral solution, got (%v,%v)", turret, power)
	}
	if len(e.history) != 0 || e.window != nil {
		t.Fatal("malformed inputs must not touch the learning state")
	}
}

func TestDecide_NeutralAimsAtTargetSide(t *testing.T) {
	e := newTestEngine(DifficultyMedium, FlatTerrain(1000, 600, 500), 1)

	// Shooter on the right, target on the left, vertical coordinates
	// malformed: the neutral arc fires leftward.
	turret, power := e.decide(900, math.NaN(), 100, 488, true)
	if turret != neutralAngle || power != neutralPower {
		t.Fatalf("left-facing neutral should map to turret %v, got (%v,%v)", neutralAngle, turret, power)
	}
}

func TestNeutralSolution_SideSelection(t *testing.T) {
	e := newTestEngine(DifficultyMedium, FlatTerrain(1000, 600, 500), 1)

	if got := e.neutralSolution(100, 900); got != (FiringSolution{Angle: neutralAngle, Power: neutralPower}) {
		t.Fatalf("rightward neutral drifted: %+v", got)
	}
	if got := e.neutralSolution(900, 100); got != (FiringSolution{Angle: 180 - neutralAngle, Power: neutralPower}) {
		t.Fatalf("leftward neutral drifted: %+v", got)
	}
	if got := e.neutralSolution(math.NaN(), 900); got != (FiringSolution{Angle: neutralAngle, Power: neutralPower}) {
		t.Fatalf("unknowable side should default rightward: %+v", got)
	}
}

func TestDecide_ExploitSkipsDeviation(t *testing.T) {
	e := newTestEngine(DifficultyMedium, FlatTerrain(1000, 600, 500), 1)
	e.recordResult(mustResult(t, -38.123456, 82.654321, 500, 500, 500, 500, 0))

	t1, p1 := e.decide(100, 488, 502, 501, false)
	t2, p2 := e.decide(100, 488, 502, 501, false)

	if t1 != t2 || p1 != p2 {
		t.Fatalf("replayed decisions must be identical: (%v,%v) vs (%v,%v)", t1, p1, t2, p2)
	}
	if want := TurretFromWorld(-38.123456, false); t1 != want {
		t.Fatalf("replayed turret angle should map the stored shot exactly: got %v want %v", t1, want)
	}
	if p1 != 82.654321 {
		t.Fatalf("replayed power should be the stored power, got %v", p1)
	}
}

func TestDecide_SameSeedSameDecision(t *testing.T) {
	terrain := FlatTerrain(1000, 600, 500)
	a := newTestEngine(DifficultyMedium, terrain, 21)
	b := newTestEngine(DifficultyMedium, terrain, 21)

	ta, pa := a.decide(100, 488, 900, 488, false)
	tb, pb := b.decide(100, 488, 900, 488, false)
	if ta != tb || pa != pb {
		t.Fatalf("same seed should give the same decision: (%v,%v) vs (%v,%v)", ta, pa, tb, pb)
	}
	if ta < -90 || ta > 90 {
		t.Fatalf("turret angle %v outside [-90,90]", ta)
	}
	if pa < powerFloor || pa > powerCeil {
		t.Fatalf("power %v outside [%v,%v]", pa, powerFloor, powerCeil)
	}
}

func TestRecordShotResult_ValidEntersHistory(t *testing.T) {
	e := newTestEngine(DifficultyMedium, FlatTerrain(1000, 600, 500), 1)
	e.RecordShotResult(mustResult(t, -40, 80, 990, 500, 900, 488, 91))
	if len(e.history) != 1 {
		t.Fatalf("valid result should enter the history, got %d entries", len(e.history))
	}
}
