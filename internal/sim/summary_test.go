package sim

import (
	"reflect"
	"testing"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/physics"
)

func TestSummarizeEmpty(t *testing.T) {
	ts := NewTimeSeries([]chute.Phase{chute.Main}, 0)
	sum := Summarize(ts, nil)

	if sum.MaxTotalDrag != 0 || sum.LandingVelocity != 0 || sum.FlightTime != 0 ||
		sum.HorizontalRange != 0 || sum.FinalAltitude != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}
	if len(sum.Phases) != 1 || sum.Phases[0].Deployed {
		t.Errorf("unexpected phase summary: %+v", sum.Phases)
	}

	if got := Summarize(nil, nil); got.Phases != nil {
		t.Errorf("nil series should give zero summary, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	phases := []chute.Phase{chute.Drogue, chute.Main}
	ts := NewTimeSeries(phases, 4)
	ts.Append(Snapshot{Time: 0, Altitude: 30, Velocity: 20, TotalDrag: 0, PhaseDrag: []float64{0, 0}})
	ts.Append(Snapshot{Time: 1, Altitude: 15, Velocity: 15, TotalDrag: 400, PhaseDrag: []float64{400, 0}, Horizontal: 2})
	ts.Append(Snapshot{Time: 2, Altitude: 5, Velocity: 10, TotalDrag: 900, PhaseDrag: []float64{300, 600}, Horizontal: 4})
	ts.Append(Snapshot{Time: 3, Altitude: 0, Velocity: 6, TotalDrag: 700, PhaseDrag: []float64{200, 500}, Horizontal: 5})

	deployments := []Deployment{
		{Phase: chute.Drogue, Time: 1, InflationDuration: 0.4},
		{Phase: chute.Main, Time: 2, InflationDuration: 1.2},
	}
	sum := Summarize(ts, deployments)

	tests := []struct {
		name      string
		got, want float64
	}{
		{"max total drag", sum.MaxTotalDrag, 900},
		{"landing velocity", sum.LandingVelocity, 6},
		{"flight time", sum.FlightTime, 3},
		{"horizontal range", sum.HorizontalRange, 5},
		{"final altitude", sum.FinalAltitude, 0},
		{"drogue max drag", sum.Phases[0].MaxDrag, 400},
		{"main max drag", sum.Phases[1].MaxDrag, 600},
		{"main deployment time", sum.Phases[1].DeploymentTime, 2},
		{"drogue inflation", sum.Phases[0].InflationDuration, 0.4},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestSummarizeDeploymentConditions(t *testing.T) {
	ts := NewTimeSeries([]chute.Phase{chute.Main}, 1)
	ts.Append(Snapshot{Time: 0, Altitude: 990, Velocity: 29, PhaseDrag: []float64{10}})

	d := Deployment{
		Phase:    chute.Main,
		Time:     4,
		Altitude: 1000,
		Velocity: 30,
		Params:   chute.PhaseParams{Diameter: 10},
	}
	ps := Summarize(ts, []Deployment{d}).Phases[0]

	if ps.DeploymentAltitude != 1000 || ps.DeploymentVelocity != 30 {
		t.Errorf("deployment conditions = %v m, %v m/s", ps.DeploymentAltitude, ps.DeploymentVelocity)
	}
	if want := physics.ReynoldsNumber(30, 10, 1000); ps.ReynoldsNumber != want {
		t.Errorf("ReynoldsNumber = %v, want %v", ps.ReynoldsNumber, want)
	}
}

func TestRunningSummaryMatchesSummarize(t *testing.T) {
	phases := []chute.Phase{chute.Drogue, chute.Main}
	snaps := []Snapshot{
		{Time: 0, Altitude: 30, Velocity: 20, PhaseDrag: []float64{0, 0}},
		{Time: 1, Altitude: 15, Velocity: 15, TotalDrag: 400, PhaseDrag: []float64{400, 0}, Horizontal: 2},
		{Time: 2, Altitude: 5, Velocity: 10, TotalDrag: 900, PhaseDrag: []float64{300, 600}, Horizontal: 4},
		{Time: 3, Altitude: 0, Velocity: 6, TotalDrag: 700, PhaseDrag: []float64{200}, Horizontal: 5},
	}
	deployments := []Deployment{
		{Phase: chute.Drogue, Time: 1, Altitude: 15, Velocity: 15, InflationDuration: 0.4, Params: chute.PhaseParams{Diameter: 4}},
	}

	ts := NewTimeSeries(phases, len(snaps))
	r := newRunningSummary(phases)
	for _, s := range snaps {
		ts.Append(s)
		r.observe(s)
	}

	got := r.summary(deployments)
	want := Summarize(ts, deployments)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("running summary = %+v, want %+v", got, want)
	}
}

func TestTimeSeriesAt(t *testing.T) {
	ts := NewTimeSeries([]chute.Phase{chute.Main}, 1)
	drag := []float64{42}
	ts.Append(Snapshot{Time: 0.5, PhaseDrag: drag})
	drag[0] = 0

	snap := ts.At(0)
	if snap.PhaseDrag[0] != 42 {
		t.Errorf("Append did not copy phase drag: %v", snap.PhaseDrag)
	}
	if got := ts.Series()[DragKey(chute.Main)]; len(got) != 1 || got[0] != 42 {
		t.Errorf("Series()[drag_main] = %v", got)
	}
	if ts.PhaseSeries(chute.ACS) != nil {
		t.Error("expected nil series for unconfigured phase")
	}
	if keys := ts.Keys(); keys[len(keys)-1] != "drag_main" {
		t.Errorf("unexpected key order: %v", keys)
	}
}

func TestOutcomeText(t *testing.T) {
	for _, o := range []Outcome{OutcomeLanded, OutcomeCeiling, OutcomeRejected} {
		b, _ := o.MarshalText()
		var back Outcome
		if err := back.UnmarshalText(b); err != nil || back != o {
			t.Errorf("round trip of %v gave %v (%v)", o, back, err)
		}
	}
	var o Outcome
	if err := o.UnmarshalText([]byte("crashed")); err == nil {
		t.Error("expected error for unknown outcome")
	}
}
