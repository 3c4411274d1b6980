package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chutesim/internal/chute"
)

const (
	DefaultAltitude = 3000.0
	DefaultVelocity = 50.0
	DefaultDt       = 0.1
	DefaultAngle    = 0.0
)

var ErrNoPhases = errors.New("config: no phases")

// Config is a scenario file. Phases are listed in deployment evaluation
// order.
type Config struct {
	Name            string        `yaml:"name" json:"name"`
	InitialAltitude float64       `yaml:"initial_altitude" json:"initial_altitude"`
	InitialVelocity float64       `yaml:"initial_velocity" json:"initial_velocity"`
	TimeStep        float64       `yaml:"time_step" json:"time_step"`
	DescentAngle    float64       `yaml:"descent_angle" json:"descent_angle"`
	Phases          []PhaseConfig `yaml:"phases" json:"phases"`
}

type PhaseConfig struct {
	Phase              string  `yaml:"phase" json:"phase"`
	Diameter           float64 `yaml:"diameter" json:"diameter"`
	DragCoefficient    float64 `yaml:"drag_coefficient" json:"drag_coefficient"`
	DeploymentAltitude float64 `yaml:"deployment_altitude" json:"deployment_altitude"`
	InflationIndex     float64 `yaml:"inflation_index" json:"inflation_index"`
	PayloadMass        float64 `yaml:"payload_mass" json:"payload_mass"`
	ReefingFactor      float64 `yaml:"reefing_factor" json:"reefing_factor"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:            "default",
		InitialAltitude: DefaultAltitude,
		InitialVelocity: DefaultVelocity,
		TimeStep:        DefaultDt,
		DescentAngle:    DefaultAngle,
		Phases: []PhaseConfig{
			{
				Phase:              chute.Drogue.Key(),
				Diameter:           4,
				DragCoefficient:    1.2,
				DeploymentAltitude: 2000,
				InflationIndex:     6,
				PayloadMass:        100,
				ReefingFactor:      0.3,
			},
			{
				Phase:              chute.Main.Key(),
				Diameter:           20,
				DragCoefficient:    1.5,
				DeploymentAltitude: 500,
				InflationIndex:     5,
				PayloadMass:        100,
				ReefingFactor:      0.3,
			},
		},
	}
}

// Load reads a scenario. Global fields missing from the file keep their
// defaults; the phase list is taken from the file as is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Phases = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToChute converts the scenario into simulator input. Bounds are left to
// chute.Validate.
func (c *Config) ToChute() (chute.Config, error) {
	out := chute.Config{
		Global: chute.GlobalParams{
			InitialAltitude: c.InitialAltitude,
			InitialVelocity: c.InitialVelocity,
			TimeStep:        c.TimeStep,
			DescentAngle:    c.DescentAngle,
		},
		Phases: make(map[chute.Phase]chute.PhaseParams, len(c.Phases)),
		Order:  make([]chute.Phase, 0, len(c.Phases)),
	}
	if len(c.Phases) == 0 {
		return out, ErrNoPhases
	}

	var errs []string
	for i, pc := range c.Phases {
		p, err := chute.ParsePhase(pc.Phase)
		if err != nil {
			errs = append(errs, fmt.Sprintf("phases[%d]: %v", i, err))
			continue
		}
		if _, dup := out.Phases[p]; dup {
			errs = append(errs, fmt.Sprintf("phases[%d]: %s listed more than once", i, p))
			continue
		}
		out.Phases[p] = pc.params()
		out.Order = append(out.Order, p)
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return out, nil
}

func (pc PhaseConfig) params() chute.PhaseParams {
	return chute.PhaseParams{
		Diameter:           pc.Diameter,
		DragCoefficient:    pc.DragCoefficient,
		DeploymentAltitude: pc.DeploymentAltitude,
		InflationIndex:     pc.InflationIndex,
		PayloadMass:        pc.PayloadMass,
		ReefingFactor:      pc.ReefingFactor,
	}
}

// FromChute is the inverse of ToChute.
func FromChute(name string, cc chute.Config) *Config {
	cfg := &Config{
		Name:            name,
		InitialAltitude: cc.Global.InitialAltitude,
		InitialVelocity: cc.Global.InitialVelocity,
		TimeStep:        cc.Global.TimeStep,
		DescentAngle:    cc.Global.DescentAngle,
		Phases:          make([]PhaseConfig, 0, len(cc.Order)),
	}
	for _, p := range cc.Order {
		params := cc.Phases[p]
		cfg.Phases = append(cfg.Phases, PhaseConfig{
			Phase:              p.Key(),
			Diameter:           params.Diameter,
			DragCoefficient:    params.DragCoefficient,
			DeploymentAltitude: params.DeploymentAltitude,
			InflationIndex:     params.InflationIndex,
			PayloadMass:        params.PayloadMass,
			ReefingFactor:      params.ReefingFactor,
		})
	}
	return cfg
}

// Clone returns a copy whose phase list can be modified independently.
func (c *Config) Clone() *Config {
	out := *c
	out.Phases = append([]PhaseConfig(nil), c.Phases...)
	return &out
}
