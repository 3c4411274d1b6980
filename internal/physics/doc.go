// Package physics provides the aerodynamic models used by the descent
// simulation.
//
// The functions are stateless and never fail: out-of-range inputs are
// clamped to physically valid floors so the integration loop stays
// well-defined.
//
//   - [AirDensity]: barometric power-law atmosphere
//   - [DragForce]: canopy drag with a linear reefed-inflation ramp
//   - [InflationDuration]: t = n·D/V opening time
//   - [TerminalVelocity], [ReynoldsNumber], [WindComponents]: report helpers
//
// # Example
//
//	rho := physics.AirDensity(3000)
//	tInf := physics.InflationDuration(5, 20, 50)
//	f := physics.DragForce(3000, 50, 20, 1.5, 0.3, 0.5, tInf)
package physics
