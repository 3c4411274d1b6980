// Package sweep runs one simulation per value of a single phase parameter
// and compares the outcomes.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/sim"
)

var (
	ErrNoValues      = errors.New("sweep: no values")
	ErrNoneLanded    = errors.New("sweep: no run met the target")
	ErrTooManyValues = errors.New("sweep: too many values")
)

// DefaultMaxValues bounds Range for callers without a tighter limit.
const DefaultMaxValues = 10000

type Sweep struct {
	Phase  chute.Phase
	Param  string
	Values []float64
}

// Point is the outcome of one swept value. Err is set for values that the
// configuration rejects; the sweep itself carries on.
type Point struct {
	Value           float64     `json:"value"`
	Outcome         sim.Outcome `json:"outcome"`
	LandingVelocity float64     `json:"landing_velocity"`
	FlightTime      float64     `json:"flight_time"`
	MaxTotalDrag    float64     `json:"max_total_drag"`
	HorizontalRange float64     `json:"horizontal_range"`
	Error           string      `json:"error,omitempty"`
	Err             error       `json:"-"`
}

// RunFunc runs one configuration. Simulate without history is used when
// nil.
type RunFunc func(cfg chute.Config) (*sim.Result, error)

// Run evaluates every value on at most workers goroutines and returns the
// points in value order. ctx is checked before each run starts.
func (s Sweep) Run(ctx context.Context, base chute.Config, workers int) ([]Point, error) {
	return s.RunWith(ctx, base, workers, nil)
}

func (s Sweep) RunWith(ctx context.Context, base chute.Config, workers int, run RunFunc) ([]Point, error) {
	if len(s.Values) == 0 {
		return nil, ErrNoValues
	}
	if _, ok := base.Phases[s.Phase]; !ok {
		return nil, fmt.Errorf("sweep: phase %s not configured", s.Phase)
	}
	if err := new(chute.PhaseParams).SetParam(s.Param, 0); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if run == nil {
		run = func(cfg chute.Config) (*sim.Result, error) { return sim.Simulate(cfg, sim.WithoutHistory()) }
	}

	points := make([]Point, len(s.Values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range s.Values {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cfg := base.Clone()
			if err := cfg.SetPhaseParam(s.Phase, s.Param, v); err != nil {
				return err
			}

			p := Point{Value: v}
			res, err := run(cfg)
			if res != nil {
				p.Outcome = res.Outcome
				p.LandingVelocity = res.Summary.LandingVelocity
				p.FlightTime = res.Summary.FlightTime
				p.MaxTotalDrag = res.Summary.MaxTotalDrag
				p.HorizontalRange = res.Summary.HorizontalRange
			}
			if err != nil {
				p.Err = err
				p.Error = err.Error()
			}
			points[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Best returns the first landed point, in value order, whose landing
// velocity is at most maxLandingVelocity. A non-positive target picks the
// landed point with the lowest landing velocity.
func Best(points []Point, maxLandingVelocity float64) (Point, error) {
	bestIdx := -1
	best := math.Inf(1)
	for i, p := range points {
		if p.Err != nil || p.Outcome != sim.OutcomeLanded {
			continue
		}
		if maxLandingVelocity > 0 {
			if p.LandingVelocity <= maxLandingVelocity {
				return p, nil
			}
			continue
		}
		if p.LandingVelocity < best {
			best = p.LandingVelocity
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return Point{}, ErrNoneLanded
	}
	return points[bestIdx], nil
}

// Count returns how many values Range(from, to, step) yields without
// building them. The count is a float64 so huge spans stay representable.
func Count(from, to, step float64) (float64, error) {
	for _, v := range []float64{from, to, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("sweep: range bounds must be finite, got %g..%g step %g", from, to, step)
		}
	}
	if step <= 0 {
		return 0, fmt.Errorf("sweep: step must be > 0, got %g", step)
	}
	if to < from {
		return 0, fmt.Errorf("sweep: empty range %g..%g", from, to)
	}
	n := math.Floor((to-from)/step+1e-9) + 1
	if math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %g..%g step %g", ErrTooManyValues, from, to, step)
	}
	return n, nil
}

// Range returns from, from+step, ... up to and including to (within half
// a step of rounding). Ranges of more than limit values are rejected
// before anything is allocated.
func Range(from, to, step float64, limit int) ([]float64, error) {
	n, err := Count(from, to, step)
	if err != nil {
		return nil, err
	}
	if n > float64(limit) {
		return nil, fmt.Errorf("%w: %.0f exceeds limit of %d", ErrTooManyValues, n, limit)
	}
	values := make([]float64, int(n))
	for i := range values {
		values[i] = from + float64(i)*step
	}
	return values, nil
}
