package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/chutesim/internal/sim"
)

// ProfileAxes picks the horizontal axis of a profile: downrange distance
// for angled descents, time for vertical ones.
func ProfileAxes(ts *sim.TimeSeries) (xs []float64, label string) {
	n := ts.Len()
	if n > 0 && ts.Horizontal[n-1] > 0 {
		return ts.Horizontal, "range (m)"
	}
	return ts.Time, "time (s)"
}

// Profile draws altitude against range (or time) as braille, with a cross
// at every deployment.
func Profile(ts *sim.TimeSeries, deployments []sim.Deployment, w, h int) string {
	if ts.Len() == 0 {
		return Subtle.Render("no samples") + "\n"
	}
	xs, label := ProfileAxes(ts)
	frame := FrameOf(xs, ts.Altitude)

	c := NewCanvas(w, h)
	c.Polyline(frame, xs, ts.Altitude, ts.Len())
	for _, d := range deployments {
		if i := indexAtTime(ts, d.Time); i >= 0 {
			c.Marker(frame, xs[i], ts.Altitude[i])
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.0f m\n", Subtle.Render("altitude max"), frame.MaxY)
	b.WriteString(c.String())
	fmt.Fprintf(&b, "%s 0 .. %.0f\n", Subtle.Render(label), frame.MaxX)
	for _, d := range deployments {
		fmt.Fprintf(&b, "%s deployed at %.0f m, t=%.1fs\n", PhaseStyle(d.Phase).Render("✕ "+d.Phase.Key()), d.Altitude, d.Time)
	}
	return b.String()
}

// indexAtTime returns the first sample at or after t, or -1.
func indexAtTime(ts *sim.TimeSeries, t float64) int {
	for i, st := range ts.Time {
		if st >= t {
			return i
		}
	}
	return -1
}
