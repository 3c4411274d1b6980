package config

import "sort"

func phase(name string, d, cd, alt, n, mass, reef float64) PhaseConfig {
	return PhaseConfig{
		Phase:              name,
		Diameter:           d,
		DragCoefficient:    cd,
		DeploymentAltitude: alt,
		InflationIndex:     n,
		PayloadMass:        mass,
		ReefingFactor:      reef,
	}
}

var Presets = map[string]*Config{
	"capsule": {
		Name: "capsule", InitialAltitude: 10000, InitialVelocity: 120, TimeStep: 0.05, DescentAngle: 10,
		Phases: []PhaseConfig{
			phase("drogue", 5, 1.2, 7000, 8, 900, 0.3),
			phase("main", 25, 1.5, 3000, 10, 900, 0.2),
		},
	},
	"sounding-rocket": {
		Name: "sounding-rocket", InitialAltitude: 20000, InitialVelocity: 200, TimeStep: 0.05, DescentAngle: 5,
		Phases: []PhaseConfig{
			phase("drogue", 3, 1.1, 15000, 6, 150, 0.4),
			phase("main", 12, 1.4, 1500, 8, 150, 0.3),
		},
	},
	"cargo-drop": {
		Name: "cargo-drop", InitialAltitude: 4000, InitialVelocity: 60, TimeStep: 0.1, DescentAngle: 15,
		Phases: []PhaseConfig{
			phase("pilot", 3, 1.0, 3500, 5, 500, 0.5),
			phase("main", 22, 1.5, 2500, 8, 500, 0.25),
		},
	},
	"skydiver": {
		Name: "skydiver", InitialAltitude: 4000, InitialVelocity: 0, TimeStep: 0.1, DescentAngle: 0,
		Phases: []PhaseConfig{
			phase("main", 8, 1.3, 1000, 4, 90, 0.4),
		},
	},
	"full-stack": {
		Name: "full-stack", InitialAltitude: 12000, InitialVelocity: 150, TimeStep: 0.05, DescentAngle: 8,
		Phases: []PhaseConfig{
			phase("acs", 2, 1.0, 11000, 4, 1200, 0.5),
			phase("drogue", 6, 1.2, 8000, 8, 1200, 0.3),
			phase("pilot", 4, 1.1, 3500, 6, 1200, 0.4),
			phase("main", 28, 1.5, 3000, 10, 1200, 0.2),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
