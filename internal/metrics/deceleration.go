package metrics

import (
	"math"

	"github.com/san-kum/chutesim/internal/physics"
	"github.com/san-kum/chutesim/internal/sim"
)

// PeakDeceleration tracks the largest upward net acceleration, in g.
type PeakDeceleration struct {
	name string
	peak float64
}

func NewPeakDeceleration() *PeakDeceleration {
	return &PeakDeceleration{name: "peak_deceleration_g"}
}

func (p *PeakDeceleration) Name() string { return p.name }

func (p *PeakDeceleration) Observe(s sim.Snapshot) {
	// Acceleration is positive downward.
	p.peak = math.Max(p.peak, -s.Acceleration/physics.Gravity)
}

func (p *PeakDeceleration) Value() float64 {
	return p.peak
}

func (p *PeakDeceleration) Reset() {
	p.peak = 0
}
