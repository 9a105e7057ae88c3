package channel

import "errors"

// Sentinel errors for channel construction and validation. Space and
// index errors surface from the core with their hilbert sentinels.
var (
	// ErrNonLinear is returned by FromFunction when the sampled map
	// disagrees with the function on a random density probe.
	ErrNonLinear = errors.New("channel: function is not linear")

	// ErrNotCompletelyPositive is returned when a superoperator matrix
	// has no Kraus decomposition: its cross operator is not self-adjoint
	// or has a negative eigenvalue.
	ErrNotCompletelyPositive = errors.New("channel: not a completely positive map")

	// ErrNotTracePreserving is returned by AssertCPTP when the isometry
	// condition J.H * J = I fails.
	ErrNotTracePreserving = errors.New("channel: not trace preserving")

	// ErrProbability is returned when a mixing probability lies outside
	// [0, 1].
	ErrProbability = errors.New("channel: probability outside [0, 1]")
)
