package gunner

import (
	"math"
	"math/rand"
)

// Terrain is a static heightfield: one surface height per integer x column,
// linearly interpolated between columns. It stands in for the game's terrain
// subsystem behind the solidity query; the engine itself never sees more
// than Solid. Nothing in this package deforms a Terrain after generation.
type Terrain struct {
	width   float64
	height  float64
	surface []float64 // surface y per column, len == columns+1
}

func newTerrain(width, height float64) *Terrain {
	cols := int(width) + 1
	return &Terrain{
		width:   width,
		height:  height,
		surface: make([]float64, cols),
	}
}

// FlatTerrain builds an arena with a constant ground line at groundY.
func FlatTerrain(width, height, groundY float64) *Terrain {
	t := newTerrain(width, height)
	for i := range t.surface {
		t.surface[i] = groundY
	}
	return t
}

// RollingTerrain builds a seeded arena of overlapping sine ridges around a
// base line at 3/4 height, clamped to keep a playable band. The same seed
// always produces the same surface.
func RollingTerrain(width, height float64, seed int64) *Terrain {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic terrain gen

	type ridge struct {
		amp, wavelength, phase float64
	}
	ridges := make([]ridge, 3)
	for i := range ridges {
		ridges[i] = ridge{
			amp:        height * (0.03 + rng.Float64()*0.08),
			wavelength: width * (0.15 + rng.Float64()*0.35),
			phase:      rng.Float64() * 2 * math.Pi,
		}
	}

	t := newTerrain(width, height)
	base := height * 0.75
	for i := range t.surface {
		y := base
		for _, r := range ridges {
			y += r.amp * math.Sin(float64(i)/r.wavelength*2*math.Pi+r.phase)
		}
		t.surface[i] = clamp(y, height*0.35, height-10)
	}
	return t
}

func (t *Terrain) Width() float64  { return t.width }
func (t *Terrain) Height() float64 { return t.height }

// Bounds returns the arena rectangle this terrain fills.
func (t *Terrain) Bounds() Rect {
	return Rect{MinX: 0, MinY: 0, MaxX: t.width, MaxY: t.height}
}

// SurfaceAt returns the interpolated surface height at x. Columns are
// clamped at the edges so callers can probe slightly outside the arena.
func (t *Terrain) SurfaceAt(x float64) float64 {
	if len(t.surface) == 0 {
		return t.height
	}
	last := float64(len(t.surface) - 1)
	x = clamp(x, 0, last)
	i := int(x)
	if i >= len(t.surface)-1 {
		return t.surface[len(t.surface)-1]
	}
	frac := x - float64(i)
	return t.surface[i]*(1-frac) + t.surface[i+1]*frac
}

// Solid reports whether (x, y) is inside the ground. Points beyond the
// horizontal extent are open air, so stray shots fly off rather than
// striking an invisible wall.
func (t *Terrain) Solid(x, y float64) bool {
	if x < 0 || x > t.width {
		return false
	}
	return y >= t.SurfaceAt(x)
}
