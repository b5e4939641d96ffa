package gunner

// TurretFromWorld converts a world firing angle (degrees, 0°=right, 90°=down)
// into the shooter-local turret angle in [-90, 90]. A left-facing shooter is
// mirrored, so its turret angle runs against the world direction; the
// right-facing case folds out-of-range angles back by reflection.
func TurretFromWorld(firingAngle float64, facingLeft bool) float64 {
	if facingLeft {
		t := 180 - firingAngle
		if t > 90 {
			t -= 180
		}
		if t < -90 {
			t += 180
		}
		return t
	}
	t := firingAngle
	if t > 180 {
		t -= 360
	}
	if t > 90 {
		t = 180 - t
	}
	if t < -90 {
		t = -180 - t
	}
	return t
}

// WorldFromTurret converts a shooter-local turret angle back to the world
// firing angle. This is the same computation the shooter applies when it
// aims its barrel, and TurretFromWorld must stay its inverse over the range
// the engine emits, or aim silently mirrors.
func WorldFromTurret(turretAngle float64, facingLeft bool) float64 {
	if facingLeft {
		return 180 - turretAngle
	}
	return turretAngle
}
