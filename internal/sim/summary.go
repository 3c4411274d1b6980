package sim

import (
	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/physics"
)

type PhaseSummary struct {
	Phase              chute.Phase `json:"phase"`
	Deployed           bool        `json:"deployed"`
	MaxDrag            float64     `json:"max_drag"`
	DeploymentTime     float64     `json:"deployment_time"`
	DeploymentAltitude float64     `json:"deployment_altitude"`
	DeploymentVelocity float64     `json:"deployment_velocity"`
	InflationDuration  float64     `json:"inflation_duration"`
	// ReynoldsNumber of the canopy at the moment it opened.
	ReynoldsNumber float64 `json:"reynolds_number"`
}

type Summary struct {
	MaxTotalDrag    float64        `json:"max_total_drag"`
	LandingVelocity float64        `json:"landing_velocity"`
	FlightTime      float64        `json:"flight_time"`
	HorizontalRange float64        `json:"horizontal_range"`
	FinalAltitude   float64        `json:"final_altitude"`
	Phases          []PhaseSummary `json:"phases"`
}

// Summarize reduces a finished series. An empty series yields zero values.
func Summarize(ts *TimeSeries, deployments []Deployment) Summary {
	var sum Summary
	if ts == nil {
		return sum
	}

	byPhase := deploymentsByPhase(deployments)

	sum.Phases = make([]PhaseSummary, len(ts.Phases))
	for i, p := range ts.Phases {
		ps := PhaseSummary{Phase: p, MaxDrag: maxOf(ts.PhaseDrag[i])}
		if d, ok := byPhase[p]; ok {
			ps.fill(d)
		}
		sum.Phases[i] = ps
	}

	n := ts.Len()
	if n == 0 {
		return sum
	}
	sum.MaxTotalDrag = maxOf(ts.TotalDrag)
	sum.LandingVelocity = ts.Velocity[n-1]
	sum.FlightTime = ts.Time[n-1]
	sum.HorizontalRange = ts.Horizontal[n-1]
	sum.FinalAltitude = ts.Altitude[n-1]
	return sum
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func deploymentsByPhase(deployments []Deployment) map[chute.Phase]Deployment {
	byPhase := make(map[chute.Phase]Deployment, len(deployments))
	for _, d := range deployments {
		byPhase[d.Phase] = d
	}
	return byPhase
}

func (ps *PhaseSummary) fill(d Deployment) {
	ps.Deployed = true
	ps.DeploymentTime = d.Time
	ps.DeploymentAltitude = d.Altitude
	ps.DeploymentVelocity = d.Velocity
	ps.InflationDuration = d.InflationDuration
	ps.ReynoldsNumber = physics.ReynoldsNumber(d.Velocity, d.Params.Diameter, d.Altitude)
}

// runningSummary reduces snapshots as they are produced. It gives the same
// Summary as Summarize over the full series without keeping the series.
type runningSummary struct {
	phases   []chute.Phase
	maxDrag  []float64
	maxTotal float64
	last     Snapshot
	n        int
}

func newRunningSummary(phases []chute.Phase) *runningSummary {
	return &runningSummary{
		phases:  phases,
		maxDrag: make([]float64, len(phases)),
	}
}

func (r *runningSummary) observe(s Snapshot) {
	for i := range r.maxDrag {
		f := 0.0
		if i < len(s.PhaseDrag) {
			f = s.PhaseDrag[i]
		}
		if r.n == 0 || f > r.maxDrag[i] {
			r.maxDrag[i] = f
		}
	}
	if r.n == 0 || s.TotalDrag > r.maxTotal {
		r.maxTotal = s.TotalDrag
	}
	r.last = s
	r.n++
}

func (r *runningSummary) summary(deployments []Deployment) Summary {
	byPhase := deploymentsByPhase(deployments)
	sum := Summary{Phases: make([]PhaseSummary, len(r.phases))}
	for i, p := range r.phases {
		ps := PhaseSummary{Phase: p, MaxDrag: r.maxDrag[i]}
		if d, ok := byPhase[p]; ok {
			ps.fill(d)
		}
		sum.Phases[i] = ps
	}
	if r.n == 0 {
		return sum
	}
	sum.MaxTotalDrag = r.maxTotal
	sum.LandingVelocity = r.last.Velocity
	sum.FlightTime = r.last.Time
	sum.HorizontalRange = r.last.Horizontal
	sum.FinalAltitude = r.last.Altitude
	return sum
}
