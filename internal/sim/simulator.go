package sim

import (
	"math"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/physics"
)

const maxPrealloc = 1 << 16

type Simulator struct {
	cfg       chute.Config
	metrics   []Metric
	observers []Observer
	history   bool
}

type Option func(*Simulator)

func WithMetrics(m ...Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, m...) }
}

func WithObservers(o ...Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o...) }
}

// WithoutHistory keeps only the running summary. Result.Series is left
// empty, so memory no longer grows with the number of steps.
func WithoutHistory() Option {
	return func(s *Simulator) { s.history = false }
}

// MaxSamples is the most snapshots a run with time step dt can record
// before the flight time ceiling.
func MaxSamples(dt float64) float64 {
	return math.Floor(MaxFlightTime/dt) + 1
}

// New builds a simulator for cfg. cfg is assumed valid; use Simulate to
// validate first.
func New(cfg chute.Config, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:       cfg.Clone(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		history:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Simulate validates cfg and runs it. Invalid input yields a Result with
// OutcomeRejected and a *chute.ValidationError.
func Simulate(cfg chute.Config, opts ...Option) (*Result, error) {
	warnings, err := chute.Validate(cfg)
	if err != nil {
		return &Result{Outcome: OutcomeRejected, Warnings: warnings}, err
	}
	res := New(cfg, opts...).Run()
	res.Warnings = warnings
	return res, nil
}

// Run integrates until the altitude reaches 0 or the time passes
// MaxFlightTime.
func (s *Simulator) Run() *Result {
	g := s.cfg.Global
	order := s.cfg.Order
	dt := g.TimeStep
	angle := g.DescentAngle * math.Pi / 180
	gravity := physics.Gravity * math.Cos(angle)
	sinAngle := math.Sin(angle)

	capacity := 0
	if s.history {
		capacity = preallocFor(dt)
	}
	series := NewTimeSeries(order, capacity)
	running := newRunningSummary(order)
	deployer := NewDeployer(s.cfg)
	idx := phaseIndex(order)
	drag := make([]float64, len(order))

	for _, m := range s.metrics {
		m.Reset()
	}

	st := State{Altitude: g.InitialAltitude, Velocity: g.InitialVelocity}
	steps := 0

	for st.Altitude > 0 {
		for _, d := range deployer.Update(st) {
			s.notifyDeploy(d)
		}

		total := 0.0
		for i := range drag {
			drag[i] = 0
		}
		for _, d := range deployer.Active() {
			p := d.Params
			f := physics.DragForce(st.Altitude, st.Velocity, p.Diameter, p.DragCoefficient,
				p.ReefingFactor, st.Time-d.Time, d.InflationDuration)
			drag[idx[d.Phase]] = f
			total += f
		}

		mass := s.mass(deployer)
		accel := gravity - total/mass

		st.Velocity = math.Max(st.Velocity+accel*dt, 0)
		st.Altitude -= st.Velocity * dt
		st.Horizontal += st.Velocity * sinAngle * dt

		snap := Snapshot{
			Time:         st.Time,
			Altitude:     math.Max(st.Altitude, 0),
			Velocity:     st.Velocity,
			TotalDrag:    total,
			PhaseDrag:    drag,
			Horizontal:   st.Horizontal,
			Acceleration: accel,
			Mass:         mass,
		}
		if s.history {
			series.Append(snap)
		}
		running.observe(snap)
		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		st.Time += dt
		steps++

		if st.Time > MaxFlightTime {
			break
		}
	}

	outcome := OutcomeLanded
	if st.Altitude > 0 {
		outcome = OutcomeCeiling
	}

	deployments := append([]Deployment(nil), deployer.Active()...)
	summary := running.summary(deployments)
	if steps == 0 {
		summary.LandingVelocity = g.InitialVelocity
		summary.FinalAltitude = math.Max(g.InitialAltitude, 0)
	}

	result := &Result{
		Outcome:     outcome,
		Summary:     summary,
		Series:      series,
		Deployments: deployments,
		Metrics:     make(map[string]float64, len(s.metrics)),
		Steps:       steps,
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

// mass uses the payload of the earliest deployed phase, falling back to
// the first configured phase before any deployment.
func (s *Simulator) mass(d *Deployer) float64 {
	if active := d.Active(); len(active) > 0 {
		return active[0].Params.PayloadMass
	}
	return s.cfg.Phases[s.cfg.Order[0]].PayloadMass
}

func (s *Simulator) notifyDeploy(d Deployment) {
	for _, obs := range s.observers {
		if do, ok := obs.(DeployObserver); ok {
			do.OnDeploy(d)
		}
	}
}

func preallocFor(dt float64) int {
	n := int(MaxFlightTime/dt) + 1
	if n > maxPrealloc || n < 0 {
		return maxPrealloc
	}
	return n
}
