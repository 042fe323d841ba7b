// Package tween interpolates numeric values over time. The host supplies the
// clock: nothing in here reads wall time, every Update takes "now".
//
// Each Tween drives a gween progress curve from 0 to 1 and maps it onto its
// own float64 range, so float32 rounding never leaks into the end value.
package tween

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Easing is a gween easing curve.
type Easing = ease.TweenFunc

// Common curves.
var (
	Linear    Easing = ease.Linear
	QuadInOut Easing = ease.InOutQuad
	CubicOut  Easing = ease.OutCubic
)

// Tween animates a single value from From to To.
type Tween struct {
	From     float64
	To       float64
	Duration time.Duration
	Easing   Easing

	OnUpdate   func(value float64)
	OnComplete func()

	curve   *gween.Tween
	start   time.Duration
	started bool
	done    bool
}

// Value returns the interpolated value at now.
func (t *Tween) Value(now time.Duration) float64 {
	p, _ := t.set(now)
	return t.From + (t.To-t.From)*p
}

// Done reports whether the tween reached its end value.
func (t *Tween) Done() bool {
	return t.done
}

// set moves the curve to now and returns its progress.
func (t *Tween) set(now time.Duration) (float64, bool) {
	if t.Duration <= 0 {
		return 1, true
	}
	if t.curve == nil {
		easing := t.Easing
		if easing == nil {
			easing = Linear
		}
		t.curve = gween.New(0, 1, float32(t.Duration.Seconds()), easing)
	}
	p, finished := t.curve.Set(float32((now - t.start).Seconds()))
	return float64(p), finished
}

// step advances the tween and reports whether it finished.
func (t *Tween) step(now time.Duration) bool {
	if !t.started {
		t.start = now
		t.started = true
	}

	value := t.Value(now)
	finished := t.Duration <= 0 || now-t.start >= t.Duration
	if finished {
		value = t.To
	}

	if t.OnUpdate != nil {
		t.OnUpdate(value)
	}
	if finished {
		t.done = true
		if t.OnComplete != nil {
			t.OnComplete()
		}
	}
	return finished
}

// Group holds the set of in-flight tweens.
type Group struct {
	active []*Tween
}

// Add schedules t. It starts on the next Update.
func (g *Group) Add(t *Tween) *Tween {
	g.active = append(g.active, t)
	return t
}

// Stop removes t without completing it. Whatever value it last wrote stays.
func (g *Group) Stop(t *Tween) {
	for i, a := range g.active {
		if a == t {
			g.active = append(g.active[:i], g.active[i+1:]...)
			return
		}
	}
}

// Clear drops every tween without completing any of them.
func (g *Group) Clear() {
	g.active = nil
}

// Update advances every tween to now. Completion callbacks run after the
// final update and may add new tweens; those start on the next Update.
func (g *Group) Update(now time.Duration) {
	if len(g.active) == 0 {
		return
	}

	current := g.active
	g.active = nil

	var remaining []*Tween
	for _, t := range current {
		if !t.step(now) {
			remaining = append(remaining, t)
		}
	}
	g.active = append(remaining, g.active...)
}

// Len returns the number of in-flight tweens.
func (g *Group) Len() int {
	return len(g.active)
}

// Active reports whether t is still in flight.
func (g *Group) Active(t *Tween) bool {
	for _, a := range g.active {
		if a == t {
			return true
		}
	}
	return false
}
