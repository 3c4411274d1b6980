package sim

import "errors"

// ErrDidNotLand is returned by Result.Err when the run stopped at the
// flight time ceiling instead of reaching the ground.
var ErrDidNotLand = errors.New("sim: vehicle did not land before the flight time ceiling")
