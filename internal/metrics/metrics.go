// Package metrics holds scalar reducers that observe a run step by step.
package metrics

import "github.com/san-kum/chutesim/internal/sim"

// Defaults returns a fresh instance of every built-in metric.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewPeakDeceleration(),
		NewMaxDynamicPressure(),
		NewMeanDescentRate(),
		NewMaxVelocity(),
	}
}
