package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/sim"
)

func descent(n int) *sim.TimeSeries {
	ts := sim.NewTimeSeries([]chute.Phase{chute.Drogue, chute.Main}, n)
	for i := 0; i < n; i++ {
		t := float64(i)
		drag := []float64{0, 0}
		if i > n/3 {
			drag[0] = 100
		}
		if i > 2*n/3 {
			drag[1] = 400
		}
		ts.Append(sim.Snapshot{
			Time:       t,
			Altitude:   float64(n - 1 - i),
			Velocity:   10,
			TotalDrag:  drag[0] + drag[1],
			PhaseDrag:  drag,
			Horizontal: t * 0.5,
		})
	}
	return ts
}

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != brailleBlank {
		t.Errorf("cell 0 = %U after unset", c.Grid[0][0])
	}

	c.Clear()
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Error("expected blank canvas after Clear")
	}
}

func TestCanvasPolylineCorners(t *testing.T) {
	c := NewCanvas(4, 2)
	f := Frame{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	c.Polyline(f, []float64{0, 1}, []float64{1, 0}, 2)

	// top-left and bottom-right dots
	if c.Grid[0][0]&0x1 == 0 {
		t.Error("expected top-left dot set")
	}
	if c.Grid[1][3]&0x80 == 0 {
		t.Error("expected bottom-right dot set")
	}
}

func TestFrameOfDegenerate(t *testing.T) {
	f := FrameOf([]float64{2, 2}, []float64{5, 5})
	if f.MaxX-f.MinX != 1 || f.MaxY-f.MinY != 1 {
		t.Errorf("degenerate frame not widened: %+v", f)
	}
}

func TestProfile(t *testing.T) {
	ts := descent(50)
	deployments := []sim.Deployment{{Phase: chute.Drogue, Time: 17, Altitude: 32}}

	out := Profile(ts, deployments, 30, 8)
	if !strings.Contains(out, "range (m)") {
		t.Errorf("expected range axis for angled descent:\n%s", out)
	}
	if !strings.Contains(out, "drogue deployed") {
		t.Errorf("expected deployment legend:\n%s", out)
	}

	empty := Profile(sim.NewTimeSeries(nil, 0), nil, 10, 4)
	if !strings.Contains(empty, "no samples") {
		t.Errorf("unexpected empty profile: %q", empty)
	}
}

func TestPlotSeries(t *testing.T) {
	ts := descent(40)
	out, err := PlotSeries(ts, sim.KeyAltitude)
	if err != nil {
		t.Fatalf("PlotSeries: %v", err)
	}
	if !strings.Contains(out, "altitude (m)") {
		t.Errorf("missing caption:\n%s", out)
	}

	if _, err := PlotSeries(ts, "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := PlotSeries(sim.NewTimeSeries(nil, 0), sim.KeyAltitude); err != ErrEmptySeries {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
}

func TestPlotDrag(t *testing.T) {
	out, err := PlotDrag(descent(40))
	if err != nil {
		t.Fatalf("PlotDrag: %v", err)
	}
	if !strings.Contains(out, "drogue") || !strings.Contains(out, "main") {
		t.Errorf("legend missing phases:\n%s", out)
	}
}

func TestTables(t *testing.T) {
	sum := sim.Summary{
		LandingVelocity: 6.5,
		Phases: []sim.PhaseSummary{
			{Phase: chute.Drogue, Deployed: true, DeploymentTime: 12, DeploymentAltitude: 1500, ReynoldsNumber: 500, MaxDrag: 900},
			{Phase: chute.Main},
		},
	}

	out := SummaryTable(sim.OutcomeLanded, sum, map[string]float64{"max_velocity": 80})
	for _, want := range []string{"landed", "6.50 m/s", "max_velocity"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary table missing %q:\n%s", want, out)
		}
	}

	out = PhaseTable(sum.Phases)
	for _, want := range []string{"Drogue", "no", "1500", "5.00e+02", "0.8"} {
		if !strings.Contains(out, want) {
			t.Errorf("phase table missing %q:\n%s", want, out)
		}
	}

	cfg := &chute.Config{Phases: map[chute.Phase]chute.PhaseParams{
		chute.Main: {Diameter: 20, DragCoefficient: 1.5, PayloadMass: 100},
	}}
	out = ReferenceTable(cfg)
	for _, want := range []string{"Main Parachute", "m/s", "15.0 °C"} {
		if !strings.Contains(out, want) {
			t.Errorf("reference table missing %q:\n%s", want, out)
		}
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m ReplayModel, msg tea.Msg) ReplayModel {
	next, _ := m.Update(msg)
	return next.(ReplayModel)
}

func TestReplayModel(t *testing.T) {
	ts := descent(30)
	m := NewReplayModel("test", ts, nil)

	m = update(m, TickMsg{})
	if m.Head() != 1 {
		t.Fatalf("head = %d after one tick, want 1", m.Head())
	}

	m = update(m, key(" "))
	m = update(m, TickMsg{})
	if m.Head() != 1 {
		t.Errorf("paused replay advanced to %d", m.Head())
	}

	m = update(m, key(" "))
	m = update(m, key("+"))
	m = update(m, TickMsg{})
	if m.Head() != 3 {
		t.Errorf("head = %d at 2x, want 3", m.Head())
	}

	for i := 0; i < 100; i++ {
		m = update(m, TickMsg{})
	}
	if m.Head() != ts.Len()-1 {
		t.Errorf("head = %d at end, want %d", m.Head(), ts.Len()-1)
	}
	if !strings.Contains(m.View(), "LANDED") {
		t.Errorf("expected landed status:\n%s", m.View())
	}

	m = update(m, key("r"))
	if m.Head() != 0 {
		t.Errorf("restart left head at %d", m.Head())
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}
