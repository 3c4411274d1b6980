package metrics

import (
	"github.com/san-kum/chutesim/internal/physics"
	"github.com/san-kum/chutesim/internal/sim"
)

// WindDrift integrates the horizontal speed along the flight path plus the
// along-track wind component. The wind does not feed back into the run;
// the value estimates where a steady wind would carry the vehicle.
type WindDrift struct {
	name      string
	angle     float64
	windSpeed float64
	windDir   float64

	drift    float64
	lastTime float64
	lastH    float64
	samples  int
}

// NewWindDrift takes the descent angle and wind direction in degrees and
// the wind speed in m/s.
func NewWindDrift(angleDeg, windSpeed, windDirDeg float64) *WindDrift {
	return &WindDrift{
		name:      "wind_drift_m",
		angle:     angleDeg,
		windSpeed: windSpeed,
		windDir:   windDirDeg,
	}
}

func (w *WindDrift) Name() string { return w.name }

func (w *WindDrift) Observe(s sim.Snapshot) {
	_, h := physics.WindComponents(s.Velocity, w.angle, w.windSpeed, w.windDir)
	if w.samples > 0 {
		w.drift += w.lastH * (s.Time - w.lastTime)
	}
	w.lastTime = s.Time
	w.lastH = h
	w.samples++
}

func (w *WindDrift) Value() float64 {
	return w.drift
}

func (w *WindDrift) Reset() {
	w.drift = 0
	w.lastTime = 0
	w.lastH = 0
	w.samples = 0
}
