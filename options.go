package gocube

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/gocube_sim/internal/tween"
)

// Option configures a Cube.
type Option func(*config)

type config struct {
	twistDuration   time.Duration
	easing          tween.Easing
	hideInteriors   bool
	shuffleAlphabet string
	shuffleLength   int
	random          *rand.Rand
	logger          *zap.Logger
	solver          Solver
	autoRotate      bool
	autoRotateSpeed float64
	history         bool
}

// Defaults used when no option overrides them.
const (
	DefaultTwistDuration   = 500 * time.Millisecond
	DefaultShuffleAlphabet = "RrLlUuDdFfBb"
	DefaultShuffleLength   = 20
	DefaultAutoRotateSpeed = 0.25 // radians per second
)

func defaultConfig() *config {
	return &config{
		twistDuration:   DefaultTwistDuration,
		easing:          tween.QuadInOut,
		hideInteriors:   true,
		shuffleAlphabet: DefaultShuffleAlphabet,
		shuffleLength:   DefaultShuffleLength,
		logger:          zap.NewNop(),
		autoRotateSpeed: DefaultAutoRotateSpeed,
		history:         true,
	}
}

// WithTwistDuration sets how long a quarter twist animates. Zero or less
// makes every twist complete within the tick that starts it.
func WithTwistDuration(d time.Duration) Option {
	return func(c *config) {
		c.twistDuration = d
	}
}

// WithEasing sets the easing curve of twist animations.
func WithEasing(e tween.Easing) Option {
	return func(c *config) {
		if e != nil {
			c.easing = e
		}
	}
}

// WithHideInteriors controls whether interior faces are hidden while every
// slice sits on the quarter grid. Enabled by default.
func WithHideInteriors(enabled bool) Option {
	return func(c *config) {
		c.hideInteriors = enabled
	}
}

// WithShuffleAlphabet sets the letters Shuffle picks from.
func WithShuffleAlphabet(alphabet string) Option {
	return func(c *config) {
		c.shuffleAlphabet = alphabet
	}
}

// WithShuffleLength sets how many twists Shuffle queues by default.
func WithShuffleLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.shuffleLength = n
		}
	}
}

// WithRandom sets the random source used by Shuffle.
func WithRandom(r *rand.Rand) Option {
	return func(c *config) {
		c.random = r
	}
}

// WithSeed seeds the Shuffle random source for reproducible sequences.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.random = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSolver installs the solver consulted by Solve.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithAutoRotate spins the cube orientation about Y while the cube is idle,
// at speed radians per second (DefaultAutoRotateSpeed when speed is 0).
func WithAutoRotate(enabled bool, speed float64) Option {
	return func(c *config) {
		c.autoRotate = enabled
		if speed != 0 {
			c.autoRotateSpeed = speed
		}
	}
}

// WithHistory enables or disables twist history. Without history Undo has
// nothing to work with.
func WithHistory(enabled bool) Option {
	return func(c *config) {
		c.history = enabled
	}
}
