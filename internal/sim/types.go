package sim

import (
	"fmt"

	"github.com/san-kum/chutesim/internal/chute"
)

// MaxFlightTime is the non-convergence guard in seconds.
const MaxFlightTime = 10000.0

// State is the mutable record advanced by the loop.
type State struct {
	Time       float64
	Altitude   float64
	Velocity   float64 // along the flight path, never negative
	Horizontal float64
}

// Snapshot is one stored step. PhaseDrag is aligned with the configured
// phase order and is only valid for the duration of an observer call.
type Snapshot struct {
	Time         float64
	Altitude     float64
	Velocity     float64
	TotalDrag    float64
	PhaseDrag    []float64
	Horizontal   float64
	Acceleration float64 // net, positive downward
	Mass         float64
}

type Outcome int

const (
	OutcomeLanded Outcome = iota
	OutcomeCeiling
	OutcomeRejected
)

var outcomeNames = [...]string{
	OutcomeLanded:   "landed",
	OutcomeCeiling:  "ceiling",
	OutcomeRejected: "rejected",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for i, name := range outcomeNames {
		if name == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome: %q", b)
}

type Observer interface {
	OnStep(s Snapshot)
}

// DeployObserver is implemented by observers that want deployment events.
type DeployObserver interface {
	OnDeploy(d Deployment)
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Result struct {
	Outcome     Outcome
	Summary     Summary
	Series      *TimeSeries
	Deployments []Deployment
	Metrics     map[string]float64
	Warnings    []string
	Steps       int
}

// Err reports a run that stopped at the ceiling as ErrDidNotLand.
func (r *Result) Err() error {
	if r.Outcome == OutcomeCeiling {
		return ErrDidNotLand
	}
	return nil
}

// Landed reports whether the run reached the ground.
func (r *Result) Landed() bool {
	return r.Outcome == OutcomeLanded
}

func phaseIndex(order []chute.Phase) map[chute.Phase]int {
	idx := make(map[chute.Phase]int, len(order))
	for i, p := range order {
		idx[p] = i
	}
	return idx
}
