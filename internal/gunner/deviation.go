package gunner

// addDeviation perturbs a computed candidate by the difficulty preset's
// uniform wobble, keeping power inside its legal band. Every searched or
// corrected candidate passes through here; exploited replays never do, since
// a remembered hit is fired back exactly.
func (e *Engine) addDeviation(s FiringSolution) FiringSolution {
	s.Angle += (e.rng.Float64()*2 - 1) * e.profile.AngleDeviation
	s.Power = clamp(s.Power+(e.rng.Float64()*2-1)*e.profile.PowerDeviation, powerFloor, powerCeil)
	return s
}
