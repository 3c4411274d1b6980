package physics

import "math"

const (
	Gravity = 9.81

	SeaLevelDensity     = 1.225  // kg/m^3
	SeaLevelTemperature = 288.15 // K
	LapseRate           = 0.0065 // K/m

	// MinDensity is returned above the point where the lapse-rate model
	// runs out of atmosphere (~44 km).
	MinDensity = 0.001

	densityExponent = 5.2561
)

func temperatureRatio(altitude float64) float64 {
	if altitude < 0 {
		altitude = 0
	}
	return 1 - LapseRate*altitude/SeaLevelTemperature
}

// AirDensity returns the air density in kg/m^3 at the given altitude.
func AirDensity(altitude float64) float64 {
	ratio := temperatureRatio(altitude)
	if ratio <= 0 {
		return MinDensity
	}
	return math.Max(SeaLevelDensity*math.Pow(ratio, densityExponent), MinDensity)
}

// Temperature returns the lapse-rate temperature in kelvin, floored at 0.
func Temperature(altitude float64) float64 {
	return math.Max(SeaLevelTemperature*temperatureRatio(altitude), 0)
}
