package cluster

// Option applies a configuration option to the Assigner.
type Option func(*Assigner)

// WithSeed sets the seed for centroid initialization.
func WithSeed(seed int64) Option {
	return func(a *Assigner) { a.seed = seed }
}

// WithRestarts sets how many initializations are tried.
func WithRestarts(n int) Option {
	return func(a *Assigner) {
		if n > 0 {
			a.restarts = n
		}
	}
}

// WithMaxClusters sets the cluster cap for season and career cohorts.
func WithMaxClusters(season, career int) Option {
	return func(a *Assigner) {
		if season > 0 {
			a.maxSeason = season
		}
		if career > 0 {
			a.maxCareer = career
		}
	}
}
