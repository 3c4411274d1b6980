package chute

import "fmt"

// Parameter names accepted by PhaseParams.SetParam.
const (
	ParamDiameter           = "diameter"
	ParamDragCoefficient    = "drag_coefficient"
	ParamDeploymentAltitude = "deployment_altitude"
	ParamInflationIndex     = "inflation_index"
	ParamPayloadMass        = "payload_mass"
	ParamReefingFactor      = "reefing_factor"
)

// GlobalParams describe the vehicle state at the start of the descent.
type GlobalParams struct {
	InitialAltitude float64 `json:"initial_altitude"` // m, > 0
	InitialVelocity float64 `json:"initial_velocity"` // m/s, >= 0
	TimeStep        float64 `json:"time_step"`        // s, (0, 1]
	DescentAngle    float64 `json:"descent_angle"`    // deg from vertical, [0, 90]
}

// PhaseParams describe one parachute stage.
type PhaseParams struct {
	Diameter           float64 `json:"diameter"`            // m, > 0
	DragCoefficient    float64 `json:"drag_coefficient"`    // > 0
	DeploymentAltitude float64 `json:"deployment_altitude"` // m, >= 0
	InflationIndex     float64 `json:"inflation_index"`     // n in t = n·D/V, > 0
	PayloadMass        float64 `json:"payload_mass"`        // kg, > 0
	ReefingFactor      float64 `json:"reefing_factor"`      // [0, 1]
}

func (p PhaseParams) GetParams() map[string]float64 {
	return map[string]float64{
		ParamDiameter:           p.Diameter,
		ParamDragCoefficient:    p.DragCoefficient,
		ParamDeploymentAltitude: p.DeploymentAltitude,
		ParamInflationIndex:     p.InflationIndex,
		ParamPayloadMass:        p.PayloadMass,
		ParamReefingFactor:      p.ReefingFactor,
	}
}

func (p *PhaseParams) SetParam(name string, value float64) error {
	switch name {
	case ParamDiameter:
		p.Diameter = value
	case ParamDragCoefficient:
		p.DragCoefficient = value
	case ParamDeploymentAltitude:
		p.DeploymentAltitude = value
	case ParamInflationIndex:
		p.InflationIndex = value
	case ParamPayloadMass:
		p.PayloadMass = value
	case ParamReefingFactor:
		p.ReefingFactor = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Config is a complete simulation input. Order is the configured phase
// order and doubles as the deployment evaluation order.
type Config struct {
	Global GlobalParams          `json:"global"`
	Phases map[Phase]PhaseParams `json:"phases"`
	Order  []Phase               `json:"order"`
}

// Clone returns a deep copy so callers can tweak parameters safely.
func (c Config) Clone() Config {
	out := Config{
		Global: c.Global,
		Phases: make(map[Phase]PhaseParams, len(c.Phases)),
		Order:  append([]Phase(nil), c.Order...),
	}
	for k, v := range c.Phases {
		out.Phases[k] = v
	}
	return out
}

// SetPhaseParam changes one parameter of a configured phase.
func (c *Config) SetPhaseParam(phase Phase, name string, value float64) error {
	p, ok := c.Phases[phase]
	if !ok {
		return fmt.Errorf("phase %s not configured", phase)
	}
	if err := p.SetParam(name, value); err != nil {
		return err
	}
	c.Phases[phase] = p
	return nil
}
