package physics

import "math"

// MinInflationDuration keeps a deployed canopy from reaching full drag in
// zero time.
const MinInflationDuration = 0.1

// CanopyArea returns the frontal area of a canopy of the given diameter.
func CanopyArea(diameter float64) float64 {
	r := diameter / 2
	return math.Pi * r * r
}

// InflationDuration returns t = n·D/V, or 0 when there is no airspeed.
func InflationDuration(n, diameter, velocity float64) float64 {
	if velocity <= 0 {
		return 0
	}
	return math.Max(n*diameter/velocity, MinInflationDuration)
}

// DragForce returns the drag in newtons for one deployed canopy.
//
// While sinceDeploy < inflation the force is scaled linearly from
// reefing (at deployment) to 1 (at full inflation).
func DragForce(altitude, velocity, diameter, cd, reefing, sinceDeploy, inflation float64) float64 {
	if velocity <= 0 {
		return 0
	}

	base := 0.5 * AirDensity(altitude) * velocity * velocity * cd * CanopyArea(diameter)

	if sinceDeploy < inflation {
		progress := sinceDeploy / inflation
		return base * (reefing + (1-reefing)*progress)
	}
	return base
}
