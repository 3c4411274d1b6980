// Package export renders finished runs as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/sim"
	"github.com/san-kum/chutesim/internal/viz"
)

const (
	background = "#0a0a0a"
	axisColor  = "#444466"
	textColor  = "#888899"
	pathColor  = "#00ccff"
	margin     = 40.0
)

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// plotArea maps data space into the drawable region inside the margins.
type plotArea struct {
	frame         viz.Frame
	width, height float64
}

func newPlotArea(frame viz.Frame, width, height int) plotArea {
	return plotArea{frame: frame, width: float64(width), height: float64(height)}
}

func (a plotArea) point(x, y float64) (float64, float64) {
	f := a.frame
	w := a.width - 2*margin
	h := a.height - 2*margin
	px := margin + (x-f.MinX)/(f.MaxX-f.MinX)*w
	py := a.height - margin - (y-f.MinY)/(f.MaxY-f.MinY)*h
	return px, py
}

func (a plotArea) path(sb *strings.Builder, xs, ys []float64, stroke string) {
	if len(xs) == 0 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	for i := range xs {
		x, y := a.point(xs[i], ys[i])
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

func (a plotArea) axes(sb *strings.Builder, xLabel, yLabel string) {
	x0, y0 := margin, a.height-margin
	x1, y1 := a.width-margin, margin
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" d="M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f"/>
`, axisColor, x0, y1, x0, y0, x1, y0)
	fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="11" font-family="monospace" text-anchor="end">%s %.0f</text>
`, x1, a.height-margin/3, textColor, xLabel, a.frame.MaxX)
	fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="11" font-family="monospace">%s %.0f</text>
`, x0, margin*0.7, textColor, yLabel, a.frame.MaxY)
}

func phaseColor(p chute.Phase) string {
	if c := p.Info().Color; c != "" {
		return c
	}
	return pathColor
}

// TrajectoryToSVG draws altitude against range (or time for vertical
// descents) with a labelled dot at every deployment. Empty series give "".
func TrajectoryToSVG(ts *sim.TimeSeries, deployments []sim.Deployment, width, height int) string {
	if ts.Len() < 2 {
		return ""
	}
	xs, xLabel := viz.ProfileAxes(ts)
	area := newPlotArea(viz.FrameOf(xs, ts.Altitude), width, height)

	var sb strings.Builder
	header(&sb, width, height)
	area.axes(&sb, xLabel, "altitude (m)")
	area.path(&sb, xs, ts.Altitude, pathColor)

	for _, d := range deployments {
		i := sampleAt(ts, d.Time)
		if i < 0 {
			continue
		}
		x, y := area.point(xs[i], ts.Altitude[i])
		color := phaseColor(d.Phase)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-size="11" font-family="monospace">%s</text>
`, x, y, color, x+6, y-6, color, d.Phase.Key())
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws every phase's drag force against time, one coloured
// path per phase.
func SeriesToSVG(ts *sim.TimeSeries, width, height int) string {
	if ts.Len() < 2 || len(ts.Phases) == 0 {
		return ""
	}

	maxDrag := 0.0
	for _, col := range ts.PhaseDrag {
		for _, f := range col {
			maxDrag = math.Max(maxDrag, f)
		}
	}
	frame := viz.Frame{
		MinX: ts.Time[0],
		MaxX: math.Max(ts.Time[ts.Len()-1], ts.Time[0]+1),
		MaxY: math.Max(maxDrag, 1),
	}
	area := newPlotArea(frame, width, height)

	var sb strings.Builder
	header(&sb, width, height)
	area.axes(&sb, "time (s)", "drag (N)")
	for i, p := range ts.Phases {
		area.path(&sb, ts.Time, ts.PhaseDrag[i], phaseColor(p))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="11" font-family="monospace">%s</text>
`, float64(width)-margin-60, margin+14*float64(i+1), phaseColor(p), p.Key())
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.Width) * scale * 2)
	height := int(float64(canvas.Height) * scale * 4)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

var dotBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func sampleAt(ts *sim.TimeSeries, t float64) int {
	for i, st := range ts.Time {
		if st >= t {
			return i
		}
	}
	return -1
}
