package morph

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Easing shapes an animation's motion. It is the Penner-style tween function
// used throughout gween: f(elapsed, begin, change, duration) -> value.
type Easing = ease.TweenFunc

// easingsByName maps morphic easing names to gween curves. Plain names ease
// both in and out; the "_in" variants accelerate, the "_out" variants
// decelerate.
var easingsByName = map[string]Easing{
	"linear":     ease.Linear,
	"sinusoidal": ease.InOutSine,
	"quadratic":  ease.InOutQuad,
	"cubic":      ease.InOutCubic,
	"elastic":    ease.InOutElastic,

	"sine_in":    ease.InSine,
	"quad_in":    ease.InQuad,
	"cubic_in":   ease.InCubic,
	"elastic_in": ease.InElastic,

	"sine_out":    ease.OutSine,
	"quad_out":    ease.OutQuad,
	"cubic_out":   ease.OutCubic,
	"elastic_out": ease.OutElastic,
}

// EasingNamed returns the easing curve registered under the given morphic
// name. An unknown (or empty) name falls back to the sinusoidal default.
func EasingNamed(name string) Easing {
	if fn, ok := easingsByName[name]; ok {
		return fn
	}
	return easingsByName["sinusoidal"]
}

// Animation gradually transitions one numeric value from its current state
// to current + delta over a period of time. The value is accessed through
// getter/setter closures, so animations are not limited to motion: color
// fades, growing, shrinking and any other numeric property work the same
// way.
//
// An animation starts the moment it is created and needs to be stepped by a
// scheduler; register it with a World (AddAnimation) to have it stepped once
// per display cycle. It deactivates after setting the exact destination
// value and firing its completion callback once, at which point the world
// drops it from the queue.
//
// Multiple animations may run against the same morph concurrently, e.g. a
// position glide and a color fade. There is no conflict detection: two
// animations writing the same property is the caller's mistake to avoid.
type Animation struct {
	setter     func(float64)
	getter     func() float64
	delta      float64
	duration   time.Duration
	easing     Easing
	onComplete func()

	destination float64
	tween       *gween.Tween
	active      bool
}

// NewAnimation creates and immediately starts an animation. easing may be
// nil for the sinusoidal default; onComplete may be nil. A non-positive
// duration completes on the first step.
func NewAnimation(setter func(float64), getter func() float64, delta float64,
	duration time.Duration, easing Easing, onComplete func()) *Animation {
	a := &Animation{
		setter:     setter,
		getter:     getter,
		delta:      delta,
		duration:   duration,
		easing:     easing,
		onComplete: onComplete,
	}
	if a.easing == nil {
		a.easing = EasingNamed("sinusoidal")
	}
	a.Start()
	return a
}

// Start (re-)activates the animation: the current value is captured through
// the getter and the destination recomputed as current + delta. A completed
// animation can be started again, but must then be re-registered with a
// scheduler.
func (a *Animation) Start() {
	begin := a.getter()
	a.destination = begin + a.delta
	a.tween = gween.New(float32(begin), float32(a.destination),
		float32(a.duration.Seconds()), a.easing)
	a.active = true
}

// IsActive reports whether the animation is still running.
func (a *Animation) IsActive() bool {
	return a.active
}

// Stop deactivates the animation without setting the destination value or
// firing the completion callback.
func (a *Animation) Stop() {
	a.active = false
}

// Step advances the animation by dt seconds. Once the accumulated time
// reaches the duration the exact destination value is set, the animation
// deactivates, and the completion callback fires (once).
func (a *Animation) Step(dt float64) {
	if !a.active {
		return
	}
	v, finished := a.tween.Update(float32(dt))
	if finished {
		a.setter(a.destination)
		a.active = false
		if a.onComplete != nil {
			protect("animation onComplete", a.onComplete)
		}
		return
	}
	a.setter(float64(v))
}
