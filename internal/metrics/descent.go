package metrics

import "github.com/san-kum/chutesim/internal/sim"

// MeanDescentRate is the altitude lost between the first and last
// observed snapshots divided by the time between them.
type MeanDescentRate struct {
	name      string
	startAlt  float64
	startTime float64
	lastAlt   float64
	lastTime  float64
	samples   int
}

func NewMeanDescentRate() *MeanDescentRate {
	return &MeanDescentRate{name: "mean_descent_rate"}
}

func (m *MeanDescentRate) Name() string { return m.name }

func (m *MeanDescentRate) Observe(s sim.Snapshot) {
	if m.samples == 0 {
		m.startAlt = s.Altitude
		m.startTime = s.Time
	}
	m.lastAlt = s.Altitude
	m.lastTime = s.Time
	m.samples++
}

func (m *MeanDescentRate) Value() float64 {
	elapsed := m.lastTime - m.startTime
	if m.samples < 2 || elapsed <= 0 {
		return 0
	}
	return (m.startAlt - m.lastAlt) / elapsed
}

func (m *MeanDescentRate) Reset() {
	m.startAlt = 0
	m.startTime = 0
	m.lastAlt = 0
	m.lastTime = 0
	m.samples = 0
}
