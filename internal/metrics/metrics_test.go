package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/chutesim/internal/physics"
	"github.com/san-kum/chutesim/internal/sim"
)

func TestPeakDeceleration(t *testing.T) {
	m := NewPeakDeceleration()

	m.Observe(sim.Snapshot{Acceleration: physics.Gravity})
	if m.Value() != 0 {
		t.Errorf("free fall should not count as deceleration, got %f", m.Value())
	}

	m.Observe(sim.Snapshot{Acceleration: -3 * physics.Gravity})
	m.Observe(sim.Snapshot{Acceleration: -physics.Gravity})
	if math.Abs(m.Value()-3) > 1e-9 {
		t.Errorf("expected 3 g, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMaxDynamicPressure(t *testing.T) {
	m := NewMaxDynamicPressure()
	m.Observe(sim.Snapshot{Altitude: 0, Velocity: 10})
	m.Observe(sim.Snapshot{Altitude: 0, Velocity: 5})

	want := 0.5 * physics.SeaLevelDensity * 100
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("expected %f Pa, got %f", want, m.Value())
	}
}

func TestMeanDescentRate(t *testing.T) {
	tests := []struct {
		name  string
		snaps []sim.Snapshot
		want  float64
	}{
		{"empty", nil, 0},
		{"single sample", []sim.Snapshot{{Time: 0, Altitude: 100}}, 0},
		{"steady", []sim.Snapshot{{Time: 0, Altitude: 100}, {Time: 5, Altitude: 75}, {Time: 10, Altitude: 50}}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeanDescentRate()
			for _, s := range tt.snaps {
				m.Observe(s)
			}
			if math.Abs(m.Value()-tt.want) > 1e-9 {
				t.Errorf("Value() = %v, want %v", m.Value(), tt.want)
			}
		})
	}
}

func TestWindDrift(t *testing.T) {
	tests := []struct {
		name                 string
		angle, wind, windDir float64
		want                 float64
	}{
		{"calm vertical", 0, 0, 0, 0},
		{"tail wind", 0, 10, 0, 20},
		{"head wind", 0, 10, 180, -20},
		{"cross wind", 0, 10, 90, 0},
		{"inclined path", 90, 0, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewWindDrift(tt.angle, tt.wind, tt.windDir)
			for i := range 3 {
				m.Observe(sim.Snapshot{Time: float64(i), Velocity: 5})
			}
			if math.Abs(m.Value()-tt.want) > 1e-9 {
				t.Errorf("Value() = %v, want %v", m.Value(), tt.want)
			}
			m.Reset()
			if m.Value() != 0 {
				t.Error("expected zero after reset")
			}
		})
	}
}

func TestDefaultsDistinctNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
		if m.Value() != 0 {
			t.Errorf("%s should start at zero", m.Name())
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
