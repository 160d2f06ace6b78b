package features

import "errors"

// Sentinel errors for feature derivation.
var (
	ErrShape       = errors.New("matrix shape mismatch")
	ErrNoPosition  = errors.New("no feature catalog for position")
	ErrMixedSeason = errors.New("season cohort spans more than one season")
)
