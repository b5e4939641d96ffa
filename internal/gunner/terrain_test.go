package gunner

import (
	"math"
	"testing"
)

func TestFlatTerrain_SurfaceAndSolid(t *testing.T) {
	terr := FlatTerrain(1000, 600, 500)

	for _, x := range []float64{0, 1, 250.5, 999, 1000} {
		if got := terr.SurfaceAt(x); got != 500 {
			t.Fatalf("flat surface at x=%v should be 500, got %v", x, got)
		}
	}
	if terr.Solid(500, 499) {
		t.Fatal("point above the ground line should be air")
	}
	if !terr.Solid(500, 500) {
		t.Fatal("point on the ground line should be solid")
	}
	if !terr.Solid(500, 550) {
		t.Fatal("point below the ground line should be solid")
	}
}

func TestTerrain_Bounds(t *testing.T) {
	terr := FlatTerrain(1000, 600, 500)
	b := terr.Bounds()
	if b.Width() != 1000 || b.Height() != 600 {
		t.Fatalf("bounds should span the arena, got %vx%v", b.Width(), b.Height())
	}
}

func TestRollingTerrain_SeedDeterminism(t *testing.T) {
	a := RollingTerrain(1200, 700, 9)
	b := RollingTerrain(1200, 700, 9)
	for x := 0.0; x <= 1200; x += 37 {
		if a.SurfaceAt(x) != b.SurfaceAt(x) {
			t.Fatalf("same seed should give identical terrain, diverges at x=%v", x)
		}
	}

	c := RollingTerrain(1200, 700, 10)
	differs := false
	for x := 0.0; x <= 1200; x += 37 {
		if math.Abs(a.SurfaceAt(x)-c.SurfaceAt(x)) > 1e-9 {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatal("different seeds should give different terrain")
	}
}

func TestRollingTerrain_PlayableBand(t *testing.T) {
	terr := RollingTerrain(1000, 600, 4)
	for x := 0.0; x <= 1000; x++ {
		y := terr.SurfaceAt(x)
		if y < 600*0.35 || y > 600-10 {
			t.Fatalf("surface at x=%v left the playable band: y=%v", x, y)
		}
	}
}

func TestSurfaceAt_Interpolates(t *testing.T) {
	terr := newTerrain(4, 100)
	terr.surface = []float64{50, 70, 60, 60, 80}

	if got := terr.SurfaceAt(0.5); math.Abs(got-60) > 1e-9 {
		t.Fatalf("midpoint of columns 0 and 1 should be 60, got %v", got)
	}
	if got := terr.SurfaceAt(1.25); math.Abs(got-67.5) > 1e-9 {
		t.Fatalf("quarter past column 1 should be 67.5, got %v", got)
	}
}

func TestSurfaceAt_ClampsOutside(t *testing.T) {
	terr := RollingTerrain(1000, 600, 4)
	if terr.SurfaceAt(-50) != terr.SurfaceAt(0) {
		t.Fatal("probing left of the arena should clamp to the first column")
	}
	if terr.SurfaceAt(1050) != terr.SurfaceAt(1000) {
		t.Fatal("probing right of the arena should clamp to the last column")
	}
}

func TestSolid_OpenAirBeyondEdges(t *testing.T) {
	terr := FlatTerrain(1000, 600, 500)
	if terr.Solid(-10, 1e6) {
		t.Fatal("left of the arena should be open air regardless of depth")
	}
	if terr.Solid(1010, 1e6) {
		t.Fatal("right of the arena should be open air regardless of depth")
	}
}
