package reduce

// Option applies a configuration option to the Reducer.
type Option func(*Reducer)

// WithVarianceThreshold sets the cumulative explained-variance target in (0,1].
func WithVarianceThreshold(t float64) Option {
	return func(r *Reducer) {
		if t > 0 && t <= 1 {
			r.threshold = t
		}
	}
}

// WithMaxComponents caps the number of retained components.
func WithMaxComponents(n int) Option {
	return func(r *Reducer) {
		if n > 0 {
			r.maxComponents = n
		}
	}
}

// WithMinCohort sets the smallest cohort the reducer runs on.
func WithMinCohort(n int) Option {
	return func(r *Reducer) {
		if n > 1 {
			r.minCohort = n
		}
	}
}
