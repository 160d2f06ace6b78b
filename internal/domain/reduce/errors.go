package reduce

import "errors"

// Sentinel errors for the reducer.
var (
	ErrCohortTooSmall = errors.New("cohort too small for reduction")
	ErrTooFewFeatures = errors.New("too few usable features for reduction")
	ErrEigen          = errors.New("eigendecomposition did not converge")
)
