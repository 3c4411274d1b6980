package physics

import "math"

// AirViscosity is the sea-level dynamic viscosity of air in kg/(m·s).
const AirViscosity = 1.81e-5

// TerminalVelocity returns sqrt(2mg / (ρ·Cd·A)) at the given altitude.
func TerminalVelocity(mass, diameter, cd, altitude float64) float64 {
	rho := AirDensity(altitude)
	area := CanopyArea(diameter)
	if mass <= 0 || cd <= 0 || area <= 0 {
		return 0
	}
	return math.Sqrt(2 * mass * Gravity / (rho * cd * area))
}

// ReynoldsNumber returns ρvD/μ using the sea-level viscosity.
func ReynoldsNumber(velocity, diameter, altitude float64) float64 {
	return AirDensity(altitude) * velocity * diameter / AirViscosity
}

// DragCoefficientCorrection scales Cd down in the low Reynolds regime.
func DragCoefficientCorrection(re float64) float64 {
	if re < 1000 {
		return 0.8
	}
	return 1.0
}

// WindComponents splits speed along a flight path inclined angleDeg from
// vertical and adds the along-track component of the wind.
func WindComponents(speed, angleDeg, windSpeed, windDirDeg float64) (vertical, horizontal float64) {
	a := angleDeg * math.Pi / 180
	w := windDirDeg * math.Pi / 180
	vertical = speed * math.Cos(a)
	horizontal = speed*math.Sin(a) + windSpeed*math.Cos(w)
	return vertical, horizontal
}
