// Package metrics exposes cube activity as Prometheus metrics.
//
// Metrics:
//   - cubesim_twists_total{letter,kind}: completed twists; kind is move,
//     rotation, shuffle or spring (settled back to where it started)
//   - cubesim_shuffles_total: completed shuffles
//   - cubesim_phases_total{phase}: phases newly reached
//   - cubesim_moves: current move count
//   - cubesim_solved: 1 while the cube is solved
//   - cubesim_twist_interval_seconds: cube time between completed twists
//   - cubesim_stream_clients: connected event stream clients
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

const namespace = "cubesim"

// Twist kinds.
const (
	KindMove     = "move"
	KindRotation = "rotation"
	KindShuffle  = "shuffle"
	KindSpring   = "spring"
)

// Collector owns a registry with the simulator's metrics.
type Collector struct {
	registry *prometheus.Registry

	twists    *prometheus.CounterVec
	shuffles  prometheus.Counter
	phases    *prometheus.CounterVec
	moves     prometheus.Gauge
	solved    prometheus.Gauge
	intervals prometheus.Histogram

	mu        sync.Mutex
	lastTwist map[*gocube.Cube]time.Duration
}

// NewCollector creates a collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		twists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "twists_total",
			Help:      "Completed twists.",
		}, []string{"letter", "kind"}),
		shuffles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shuffles_total",
			Help:      "Completed shuffles.",
		}),
		phases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phases_total",
			Help:      "Solve phases newly reached.",
		}, []string{"phase"}),
		moves: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "moves",
			Help:      "Current move count.",
		}),
		solved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "solved",
			Help:      "1 while the cube is solved.",
		}),
		intervals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "twist_interval_seconds",
			Help:      "Cube time between completed twists.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		lastTwist: make(map[*gocube.Cube]time.Duration),
	}

	c.registry.MustRegister(
		c.twists, c.shuffles, c.phases, c.moves, c.solved, c.intervals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.solved.Set(1)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Attach subscribes the collector to a cube's events. Phases are tracked from
// the cube's state at the time of the call.
func (c *Collector) Attach(cube *gocube.Cube) {
	c.moves.Set(float64(cube.MoveCount()))
	c.setSolved(cube.IsSolved())

	cube.OnTwistComplete(func(e gocube.TwistEvent) {
		c.ObserveTwist(cube, e)
	})
	cube.OnShuffleComplete(func(gocube.TwistEvent) {
		c.shuffles.Inc()
	})

	tracker := gocube.NewTracker(cube)
	tracker.OnPhase(func(p gocube.Phase) {
		c.phases.WithLabelValues(p.String()).Inc()
	})
}

// ObserveTwist records one completed twist of cube.
func (c *Collector) ObserveTwist(cube *gocube.Cube, e gocube.TwistEvent) {
	c.twists.WithLabelValues(string(e.Twist.Letter()), kindOf(e)).Inc()
	c.moves.Set(float64(e.MoveCount))
	c.setSolved(cube.IsSolved())

	now := cube.Elapsed()
	c.mu.Lock()
	last, seen := c.lastTwist[cube]
	c.lastTwist[cube] = now
	c.mu.Unlock()

	if seen && !e.Twist.IsShuffle {
		c.intervals.Observe((now - last).Seconds())
	}
}

// TrackClients exposes the value of count as the stream client gauge.
func (c *Collector) TrackClients(count func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_clients",
		Help:      "Connected event stream clients.",
	}, func() float64 {
		return float64(count())
	}))
}

func (c *Collector) setSolved(solved bool) {
	if solved {
		c.solved.Set(1)
	} else {
		c.solved.Set(0)
	}
}

func kindOf(e gocube.TwistEvent) string {
	switch {
	case e.Twist.IsShuffle:
		return KindShuffle
	case e.Quarters == 0:
		return KindSpring
	case e.Twist.IsRotation():
		return KindRotation
	default:
		return KindMove
	}
}
