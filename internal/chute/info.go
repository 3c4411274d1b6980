package chute

// Info is reference data about a phase, shown next to results.
type Info struct {
	Name            string
	Description     string
	TypicalDiameter string
	TypicalCd       string
	Color           string
}

var phaseInfo = map[Phase]Info{
	ACS: {
		Name:            "Attitude Control System",
		Description:     "Small parachute for initial stabilization",
		TypicalDiameter: "1-3 m",
		TypicalCd:       "0.8-1.2",
		Color:           "#ef4444",
	},
	Drogue: {
		Name:            "Drogue Parachute",
		Description:     "Medium parachute for deceleration",
		TypicalDiameter: "3-8 m",
		TypicalCd:       "1.0-1.4",
		Color:           "#f97316",
	},
	Pilot: {
		Name:            "Pilot Parachute",
		Description:     "Parachute to deploy main chute",
		TypicalDiameter: "2-5 m",
		TypicalCd:       "0.9-1.3",
		Color:           "#eab308",
	},
	Main: {
		Name:            "Main Parachute",
		Description:     "Primary parachute for landing",
		TypicalDiameter: "10-30 m",
		TypicalCd:       "1.2-1.8",
		Color:           "#22c55e",
	},
}

// Info returns the reference entry for p, or a zero Info for an invalid phase.
func (p Phase) Info() Info {
	return phaseInfo[p]
}
