package sim

import (
	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/physics"
)

// Deployment records the moment a phase opened. It never changes after
// creation.
type Deployment struct {
	Phase             chute.Phase       `json:"phase"`
	Time              float64           `json:"time"`
	Altitude          float64           `json:"altitude"`
	Velocity          float64           `json:"velocity"`
	InflationDuration float64           `json:"inflation_duration"`
	Params            chute.PhaseParams `json:"params"`
}

// Deployer tracks which configured phases have deployed. A phase moves
// from pending to deployed the first step its altitude threshold is
// reached and stays deployed for the rest of the run.
type Deployer struct {
	order    []chute.Phase
	params   map[chute.Phase]chute.PhaseParams
	deployed map[chute.Phase]int
	active   []Deployment
}

func NewDeployer(cfg chute.Config) *Deployer {
	return &Deployer{
		order:    cfg.Order,
		params:   cfg.Phases,
		deployed: make(map[chute.Phase]int, len(cfg.Order)),
		active:   make([]Deployment, 0, len(cfg.Order)),
	}
}

// Update evaluates every pending phase in configured order against st and
// returns the phases deployed by this call.
func (d *Deployer) Update(st State) []Deployment {
	start := len(d.active)
	for _, p := range d.order {
		if _, ok := d.deployed[p]; ok {
			continue
		}
		params := d.params[p]
		if st.Altitude > params.DeploymentAltitude {
			continue
		}
		d.deployed[p] = len(d.active)
		d.active = append(d.active, Deployment{
			Phase:             p,
			Time:              st.Time,
			Altitude:          st.Altitude,
			Velocity:          st.Velocity,
			InflationDuration: physics.InflationDuration(params.InflationIndex, params.Diameter, st.Velocity),
			Params:            params,
		})
	}
	return d.active[start:len(d.active):len(d.active)]
}

// Active returns deployments in the order they happened.
func (d *Deployer) Active() []Deployment {
	return d.active
}

func (d *Deployer) Deployed(p chute.Phase) bool {
	_, ok := d.deployed[p]
	return ok
}

func (d *Deployer) Deployment(p chute.Phase) (Deployment, bool) {
	i, ok := d.deployed[p]
	if !ok {
		return Deployment{}, false
	}
	return d.active[i], true
}

// Pending lists configured phases that have not deployed yet.
func (d *Deployer) Pending() []chute.Phase {
	var out []chute.Phase
	for _, p := range d.order {
		if !d.Deployed(p) {
			out = append(out, p)
		}
	}
	return out
}
