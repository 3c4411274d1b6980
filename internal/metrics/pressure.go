package metrics

import (
	"math"

	"github.com/san-kum/chutesim/internal/physics"
	"github.com/san-kum/chutesim/internal/sim"
)

// MaxDynamicPressure tracks the peak of ½ρv² in pascals.
type MaxDynamicPressure struct {
	name string
	max  float64
}

func NewMaxDynamicPressure() *MaxDynamicPressure {
	return &MaxDynamicPressure{name: "max_dynamic_pressure"}
}

func (m *MaxDynamicPressure) Name() string { return m.name }

func (m *MaxDynamicPressure) Observe(s sim.Snapshot) {
	q := 0.5 * physics.AirDensity(s.Altitude) * s.Velocity * s.Velocity
	m.max = math.Max(m.max, q)
}

func (m *MaxDynamicPressure) Value() float64 {
	return m.max
}

func (m *MaxDynamicPressure) Reset() {
	m.max = 0
}

type MaxVelocity struct {
	name string
	max  float64
}

func NewMaxVelocity() *MaxVelocity {
	return &MaxVelocity{name: "max_velocity"}
}

func (m *MaxVelocity) Name() string { return m.name }

func (m *MaxVelocity) Observe(s sim.Snapshot) {
	m.max = math.Max(m.max, s.Velocity)
}

func (m *MaxVelocity) Value() float64 {
	return m.max
}

func (m *MaxVelocity) Reset() {
	m.max = 0
}
