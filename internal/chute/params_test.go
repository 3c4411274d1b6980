package chute

import "testing"

func TestPhaseParamsSetParam(t *testing.T) {
	var p PhaseParams
	for name := range p.GetParams() {
		if err := p.SetParam(name, 7); err != nil {
			t.Fatalf("SetParam(%q) failed: %v", name, err)
		}
	}
	for name, v := range p.GetParams() {
		if v != 7 {
			t.Errorf("%s = %v, want 7", name, v)
		}
	}

	if err := p.SetParam("porosity", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}

func TestConfigClone(t *testing.T) {
	cfg := validConfig()
	cp := cfg.Clone()

	if err := cp.SetPhaseParam(Main, ParamDiameter, 99); err != nil {
		t.Fatalf("SetPhaseParam failed: %v", err)
	}
	cp.Order[0] = Pilot

	if cfg.Phases[Main].Diameter == 99 {
		t.Error("Clone shares the phase map")
	}
	if cfg.Order[0] != Drogue {
		t.Error("Clone shares the order slice")
	}

	if err := cp.SetPhaseParam(ACS, ParamDiameter, 1); err == nil {
		t.Error("expected error for unconfigured phase")
	}
}
