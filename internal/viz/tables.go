package viz

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/physics"
	"github.com/san-kum/chutesim/internal/sim"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("#00ffff"))
			}
			if col == 0 {
				return s.Foreground(lipgloss.Color("#888899"))
			}
			return s
		})
}

// SummaryTable lists the headline results of a run followed by every
// metric in name order.
func SummaryTable(outcome sim.Outcome, sum sim.Summary, metrics map[string]float64) string {
	t := newTable("result", "value").
		Row("outcome", OutcomeStyle(outcome)).
		Row("landing velocity", fmt.Sprintf("%.2f m/s", sum.LandingVelocity)).
		Row("flight time", fmt.Sprintf("%.1f s", sum.FlightTime)).
		Row("max total drag", fmt.Sprintf("%.0f N", sum.MaxTotalDrag)).
		Row("horizontal range", fmt.Sprintf("%.1f m", sum.HorizontalRange)).
		Row("final altitude", fmt.Sprintf("%.1f m", sum.FinalAltitude))

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.Row(name, fmt.Sprintf("%.3f", metrics[name]))
	}
	return t.Render()
}

// PhaseTable shows per-phase deployment results in configured order,
// with the canopy Reynolds number and Cd correction at opening.
func PhaseTable(phases []sim.PhaseSummary) string {
	t := newTable("phase", "deployed", "at (s)", "alt (m)", "inflation (s)", "Re", "Cd corr", "max drag (N)")
	for _, ps := range phases {
		name := PhaseStyle(ps.Phase).Render(ps.Phase.String())
		if !ps.Deployed {
			t.Row(name, "no", "-", "-", "-", "-", "-", fmt.Sprintf("%.0f", ps.MaxDrag))
			continue
		}
		t.Row(name, "yes",
			fmt.Sprintf("%.1f", ps.DeploymentTime),
			fmt.Sprintf("%.0f", ps.DeploymentAltitude),
			fmt.Sprintf("%.2f", ps.InflationDuration),
			fmt.Sprintf("%.2e", ps.ReynoldsNumber),
			fmt.Sprintf("%.1f", physics.DragCoefficientCorrection(ps.ReynoldsNumber)),
			fmt.Sprintf("%.0f", ps.MaxDrag))
	}
	return t.Render()
}

// ReferenceTable describes every phase kind. When cfg configures the
// phase, the table adds the air temperature and terminal velocity at its
// deployment altitude.
func ReferenceTable(cfg *chute.Config) string {
	t := newTable("phase", "purpose", "typical D", "typical Cd", "temp", "terminal v")
	for _, p := range chute.Sequence {
		info := p.Info()
		temp, terminal := "-", "-"
		if cfg != nil {
			if params, ok := cfg.Phases[p]; ok {
				temp = fmt.Sprintf("%.1f °C", physics.Temperature(params.DeploymentAltitude)-273.15)
				v := physics.TerminalVelocity(params.PayloadMass, params.Diameter, params.DragCoefficient, params.DeploymentAltitude)
				terminal = fmt.Sprintf("%.1f m/s", v)
			}
		}
		t.Row(PhaseStyle(p).Render(info.Name), info.Description, info.TypicalDiameter, info.TypicalCd, temp, terminal)
	}
	return t.Render()
}
