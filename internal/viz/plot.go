package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/sim"
)

var ErrEmptySeries = errors.New("viz: empty series")

const (
	plotWidth  = 80
	plotHeight = 12
)

var phaseColors = map[chute.Phase]asciigraph.AnsiColor{
	chute.ACS:    asciigraph.Red,
	chute.Drogue: asciigraph.Orange,
	chute.Pilot:  asciigraph.Yellow,
	chute.Main:   asciigraph.Green,
}

var seriesCaptions = map[string]string{
	sim.KeyAltitude:     "altitude (m) vs time",
	sim.KeyVelocity:     "velocity (m/s) vs time",
	sim.KeyTotalDrag:    "total drag (N) vs time",
	sim.KeyHorizontal:   "horizontal position (m) vs time",
	sim.KeyAcceleration: "net acceleration (m/s², down) vs time",
	sim.KeyMass:         "mass (kg) vs time",
}

// PlotSeries charts one named series of ts.
func PlotSeries(ts *sim.TimeSeries, key string) (string, error) {
	if ts.Len() == 0 {
		return "", ErrEmptySeries
	}
	data, ok := ts.Series()[key]
	if !ok {
		return "", fmt.Errorf("viz: unknown series %q", key)
	}
	caption, ok := seriesCaptions[key]
	if !ok {
		caption = key + " vs time"
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("%s, %.1fs", caption, ts.Time[ts.Len()-1])),
	), nil
}

// PlotDrag overlays every phase's drag force in its phase colour.
func PlotDrag(ts *sim.TimeSeries) (string, error) {
	if ts.Len() == 0 || len(ts.Phases) == 0 {
		return "", ErrEmptySeries
	}

	colors := make([]asciigraph.AnsiColor, len(ts.Phases))
	legend := make([]string, len(ts.Phases))
	for i, p := range ts.Phases {
		colors[i] = phaseColors[p]
		legend[i] = PhaseStyle(p).Render("━ " + p.Key())
	}

	graph := asciigraph.PlotMany(ts.PhaseDrag,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption("drag force (N) per phase vs time"),
	)
	return graph + "\n" + strings.Join(legend, "  "), nil
}
