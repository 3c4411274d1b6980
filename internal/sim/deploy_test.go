package sim

import (
	"testing"

	"github.com/san-kum/chutesim/internal/chute"
)

func deployConfig() chute.Config {
	return chute.Config{
		Phases: map[chute.Phase]chute.PhaseParams{
			chute.Drogue: {Diameter: 4, InflationIndex: 5, DeploymentAltitude: 2000},
			chute.Main:   {Diameter: 20, InflationIndex: 5, DeploymentAltitude: 500},
		},
		Order: []chute.Phase{chute.Drogue, chute.Main},
	}
}

func TestDeployerTransitions(t *testing.T) {
	d := NewDeployer(deployConfig())

	if got := d.Update(State{Altitude: 2500, Velocity: 50}); len(got) != 0 {
		t.Fatalf("expected no deployment above thresholds, got %v", got)
	}

	got := d.Update(State{Time: 3, Altitude: 2000, Velocity: 40})
	if len(got) != 1 || got[0].Phase != chute.Drogue {
		t.Fatalf("expected drogue at threshold, got %v", got)
	}
	if got[0].Time != 3 || got[0].InflationDuration != 0.5 {
		t.Errorf("unexpected deployment record: %+v", got[0])
	}

	if again := d.Update(State{Time: 4, Altitude: 1500, Velocity: 30}); len(again) != 0 {
		t.Errorf("drogue deployed twice: %v", again)
	}

	if pending := d.Pending(); len(pending) != 1 || pending[0] != chute.Main {
		t.Errorf("expected main pending, got %v", pending)
	}

	d.Update(State{Time: 9, Altitude: 400, Velocity: 0})
	main, ok := d.Deployment(chute.Main)
	if !ok {
		t.Fatal("main not deployed")
	}
	if main.InflationDuration != 0 {
		t.Errorf("deployment at rest should have zero inflation, got %v", main.InflationDuration)
	}
	if len(d.Active()) != 2 || d.Active()[0].Phase != chute.Drogue {
		t.Errorf("active list out of order: %v", d.Active())
	}
	if len(d.Pending()) != 0 {
		t.Errorf("expected nothing pending, got %v", d.Pending())
	}
}

func TestDeployerSameStep(t *testing.T) {
	d := NewDeployer(deployConfig())
	got := d.Update(State{Altitude: 100, Velocity: 20})
	if len(got) != 2 {
		t.Fatalf("expected both phases in one step, got %d", len(got))
	}
	if got[0].Phase != chute.Drogue || got[1].Phase != chute.Main {
		t.Errorf("expected configured order, got %v, %v", got[0].Phase, got[1].Phase)
	}
	if !d.Deployed(chute.Drogue) || !d.Deployed(chute.Main) {
		t.Error("Deployed() disagrees with Update")
	}
}
