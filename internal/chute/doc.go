// Package chute defines the input records of a parachute descent: the
// enumerated [Phase] identifiers, [GlobalParams], per-phase [PhaseParams]
// and the [Config] that ties them to a deployment order.
//
// [Validate] is the boundary check run before a configuration reaches the
// simulator. It reports every violated bound at once and returns
// non-fatal warnings for unusual but legal setups.
package chute
