package features

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithWorkers bounds the number of players derived concurrently.
func WithWorkers(n int) Option {
	return func(d *Deriver) {
		if n > 0 {
			d.workers = n
		}
	}
}
