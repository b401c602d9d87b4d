package tactile

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// defaultFlickDuration is how long release inertia decays, seconds.
	defaultFlickDuration = 0.8

	// flickMinVelocity is the release speed (value units per second)
	// below which no inertia starts.
	flickMinVelocity = 0.05

	// velocitySmoothing blends the previous velocity estimate with the
	// current frame's sample.
	velocitySmoothing = 0.7
)

// Flick adds release inertia to a Scrollbar. While a contact drags the
// thumb, Flick samples the value's velocity; on release it eases the
// value onward with a decaying tween. Wall-clock animation lives here,
// outside the router core — call Update(dt) once per tick from the same
// cooperative loop that drives Router.Update.
//
// There is no global animation manager — users call Update themselves.
type Flick struct {
	target   *Scrollbar
	tween    *gween.Tween
	velocity float64
	lastVal  float64
	dragging bool

	// Duration is the inertia decay time in seconds.
	Duration float32
}

// NewFlick attaches release inertia to the given scrollbar.
func NewFlick(target *Scrollbar) *Flick {
	return &Flick{
		target:   target,
		lastVal:  target.Value(),
		Duration: defaultFlickDuration,
	}
}

// Update advances the inertia state by dt seconds. While the scrollbar
// is being dragged it only samples velocity; after release it drives
// the scrollbar value until the tween finishes or a new drag starts.
func (f *Flick) Update(dt float32) {
	if f.target.Dragging() {
		if !f.dragging {
			// Drag just started. The jump to the press position is not
			// velocity; start sampling from here.
			f.dragging = true
			f.velocity = 0
			f.tween = nil
			f.lastVal = f.target.Value()
			return
		}
		if dt > 0 {
			sample := (f.target.Value() - f.lastVal) / float64(dt)
			f.velocity = velocitySmoothing*f.velocity + (1-velocitySmoothing)*sample
		}
		f.lastVal = f.target.Value()
		f.tween = nil
		return
	}

	if f.dragging {
		// Just released. The tween starts from the release value and
		// advances from the next frame on; consuming dt here too would
		// double-count this frame.
		f.dragging = false
		if f.velocity > flickMinVelocity || f.velocity < -flickMinVelocity {
			from := f.target.Value()
			to := clamp01(from + f.velocity*float64(f.Duration)/2)
			f.tween = gween.New(float32(from), float32(to), f.Duration, ease.OutQuad)
		}
		f.velocity = 0
		f.lastVal = f.target.Value()
		return
	}

	if f.tween != nil {
		val, finished := f.tween.Update(dt)
		f.target.SetValue(float64(val))
		if finished {
			f.tween = nil
		}
	}
	f.lastVal = f.target.Value()
}

// Coasting reports whether release inertia is currently driving the value.
func (f *Flick) Coasting() bool { return f.tween != nil }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
