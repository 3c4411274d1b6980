package chute

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfig is wrapped by every ValidationError.
var ErrInvalidConfig = errors.New("chute: invalid configuration")

// ValidationError lists every bound a Config violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

type checker struct {
	problems []string
}

func (c *checker) failf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *checker) finite(name string, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.failf("%s must be a finite number", name)
		return false
	}
	return true
}

func (c *checker) positive(name string, v float64) {
	if c.finite(name, v) && v <= 0 {
		c.failf("%s must be > 0", name)
	}
}

func (c *checker) nonNegative(name string, v float64) {
	if c.finite(name, v) && v < 0 {
		c.failf("%s must be >= 0", name)
	}
}

func (c *checker) within(name string, v, lo, hi float64, loOpen bool) {
	if !c.finite(name, v) {
		return
	}
	if (loOpen && v <= lo) || (!loOpen && v < lo) || v > hi {
		open := "["
		if loOpen {
			open = "("
		}
		c.failf("%s must be in %s%g,%g]", name, open, lo, hi)
	}
}

// Validate checks cfg against the parameter bounds. A non-nil error is a
// *ValidationError; warnings describe legal but unusual configurations.
func Validate(cfg Config) (warnings []string, err error) {
	var c checker

	g := cfg.Global
	c.positive("initial_altitude", g.InitialAltitude)
	c.nonNegative("initial_velocity", g.InitialVelocity)
	c.within("time_step", g.TimeStep, 0, 1, true)
	c.within("descent_angle", g.DescentAngle, 0, 90, false)

	if len(cfg.Order) == 0 {
		c.failf("at least one phase is required")
	}

	seen := make(map[Phase]bool, len(cfg.Order))
	for _, p := range cfg.Order {
		if !p.Valid() {
			c.failf("unknown phase %s", p)
			continue
		}
		if seen[p] {
			c.failf("phase %s listed more than once", p)
			continue
		}
		seen[p] = true

		params, ok := cfg.Phases[p]
		if !ok {
			c.failf("%s: parameters missing", p.Key())
			continue
		}
		prefix := p.Key() + "."
		c.positive(prefix+ParamDiameter, params.Diameter)
		c.positive(prefix+ParamDragCoefficient, params.DragCoefficient)
		c.nonNegative(prefix+ParamDeploymentAltitude, params.DeploymentAltitude)
		c.positive(prefix+ParamInflationIndex, params.InflationIndex)
		c.positive(prefix+ParamPayloadMass, params.PayloadMass)
		c.within(prefix+ParamReefingFactor, params.ReefingFactor, 0, 1, false)

		if params.DeploymentAltitude >= g.InitialAltitude && g.InitialAltitude > 0 {
			warnings = append(warnings, fmt.Sprintf("%s deploys at or above the initial altitude and opens at t=0", p))
		}
	}

	if len(c.problems) > 0 {
		return warnings, &ValidationError{Problems: c.problems}
	}

	if w := sequenceWarning(cfg); w != "" {
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// sequenceWarning reports deployment altitudes that do not descend along
// the typical ACS → Drogue → Pilot → Main sequence.
func sequenceWarning(cfg Config) string {
	if len(cfg.Order) < 2 {
		return ""
	}
	prev, havePrev := 0.0, false
	for _, p := range Sequence {
		params, ok := cfg.Phases[p]
		if !ok || !contains(cfg.Order, p) {
			continue
		}
		if havePrev && params.DeploymentAltitude > prev {
			return "deployment altitudes may not follow typical sequence (ACS → Drogue → Pilot → Main)"
		}
		prev, havePrev = params.DeploymentAltitude, true
	}
	return ""
}

func contains(phases []Phase, p Phase) bool {
	for _, q := range phases {
		if q == p {
			return true
		}
	}
	return false
}
