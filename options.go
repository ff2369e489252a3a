package minicube

// Option configures a Store or Machine.
type Option func(*config)

type config struct {
	seed           uint64
	seeded         bool
	animationSteps int
}

func defaultConfig() *config {
	return &config{
		animationSteps: 1,
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSeed fixes the seed used for the initial colour shuffle.
// Without it the seed is drawn from the operating system's entropy source.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithAnimationSteps sets how many ticks a quarter turn takes.
// The default of 1 completes a turn on the first tick after it starts.
// Larger values only interpolate the visual transforms; the logical
// commit still happens once, when the turn completes.
func WithAnimationSteps(steps int) Option {
	return func(c *config) {
		if steps < 1 {
			steps = 1
		}
		c.animationSteps = steps
	}
}
