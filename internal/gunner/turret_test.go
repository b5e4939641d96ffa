package gunner

import (
	"math"
	"testing"
)

func TestTurretFromWorld_RightFacing(t *testing.T) {
	cases := []struct {
		world, want float64
	}{
		{0, 0},
		{-45, -45},
		{90, 90},
		{-90, -90},
		{135, 45},    // over the top, reflected forward
		{-135, -45},  // behind and below, reflected forward
		{225, -45},   // wraps to -135, then reflects
		{270, -90},   // wraps to -90
		{180, 0},     // straight backward folds level
	}
	for _, c := range cases {
		if got := TurretFromWorld(c.world, false); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("TurretFromWorld(%v, right) = %v, want %v", c.world, got, c.want)
		}
	}
}

func TestTurretFromWorld_LeftFacing(t *testing.T) {
	cases := []struct {
		world, want float64
	}{
		{180, 0},
		{225, -45},
		{135, 45},
		{90, 90},
		{270, -90},
		{-45, 45}, // behind a left-facing shooter, reflected forward
	}
	for _, c := range cases {
		if got := TurretFromWorld(c.world, true); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("TurretFromWorld(%v, left) = %v, want %v", c.world, got, c.want)
		}
	}
}

func TestWorldFromTurret(t *testing.T) {
	if got := WorldFromTurret(-45, false); got != -45 {
		t.Fatalf("right-facing world angle should equal the turret angle, got %v", got)
	}
	if got := WorldFromTurret(-45, true); got != 225 {
		t.Fatalf("left-facing turret -45 should fire at world 225, got %v", got)
	}
	if got := WorldFromTurret(45, true); got != 135 {
		t.Fatalf("left-facing turret 45 should fire at world 135, got %v", got)
	}
	if got := WorldFromTurret(0, true); got != 180 {
		t.Fatalf("left-facing turret 0 should fire straight left, got %v", got)
	}
}

// The engine aims in world angles and the shooter re-derives the world angle
// from the delivered turret angle. The two mappings must agree or every shot
// silently mirrors.
func TestTurretRoundTrip_BothFacings(t *testing.T) {
	for _, facingLeft := range []bool{false, true} {
		for turret := -90.0; turret <= 90; turret += 7.5 {
			world := WorldFromTurret(turret, facingLeft)
			back := TurretFromWorld(world, facingLeft)
			if math.Abs(back-turret) > 1e-9 {
				t.Fatalf("round trip drifted (facingLeft=%v): turret %v -> world %v -> %v",
					facingLeft, turret, world, back)
			}
		}
	}
}

// Sweep the world angles the engine can actually emit and require the mapped
// turret angle to stay in the shooter-local range.
func TestTurretFromWorld_AlwaysInRange(t *testing.T) {
	for world := -180.0; world <= 360; world += 2.5 {
		got := TurretFromWorld(world, false)
		if got < -90-1e-9 || got > 90+1e-9 {
			t.Fatalf("right-facing mapping left [-90,90]: world %v -> %v", world, got)
		}
	}
	for world := 0.0; world <= 360; world += 2.5 {
		got := TurretFromWorld(world, true)
		if got < -90-1e-9 || got > 90+1e-9 {
			t.Fatalf("left-facing mapping left [-90,90]: world %v -> %v", world, got)
		}
	}
}
