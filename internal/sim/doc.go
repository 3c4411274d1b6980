// Package sim runs a multi-stage parachute descent.
//
// The engine is a fixed-step explicit Euler loop:
//
//   - [Deployer]: per-phase Pending → Deployed state machine
//   - [Simulator]: integrates altitude, velocity and horizontal position
//   - [TimeSeries]: append-only record of every step
//   - [Summarize]: reduces a finished series to landing metrics
//
// # Example
//
//	res, err := sim.Simulate(cfg, sim.WithMetrics(metrics.Defaults()...))
//	if err != nil {
//	    return err // invalid input, res.Outcome == sim.OutcomeRejected
//	}
//	if res.Outcome == sim.OutcomeCeiling {
//	    // did not reach the ground within MaxFlightTime
//	}
//
// # Thread Safety
//
// A run is synchronous and never polls for cancellation. Simulator
// instances are NOT thread-safe; use one per goroutine.
package sim
