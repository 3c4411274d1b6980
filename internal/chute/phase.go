package chute

import (
	"fmt"
	"strings"
)

// Phase identifies one parachute stage.
type Phase uint8

const (
	ACS Phase = iota + 1
	Drogue
	Pilot
	Main
)

var phaseNames = [...]string{
	ACS:    "ACS",
	Drogue: "Drogue",
	Pilot:  "Pilot",
	Main:   "Main",
}

// Sequence is the typical deployment order, highest altitude first.
var Sequence = []Phase{ACS, Drogue, Pilot, Main}

func (p Phase) Valid() bool {
	return p >= ACS && p <= Main
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
	return phaseNames[p]
}

// Key is the lowercase identifier used in files and series names.
func (p Phase) Key() string {
	return strings.ToLower(p.String())
}

// ParsePhase accepts a phase name in any case.
func ParsePhase(s string) (Phase, error) {
	for _, p := range Sequence {
		if strings.EqualFold(strings.TrimSpace(s), phaseNames[p]) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase: %q (want acs, drogue, pilot or main)", s)
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid phase %d", uint8(p))
	}
	return []byte(p.Key()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
