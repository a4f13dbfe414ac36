// Package autospeed turns a live amplitude signal into a smoothed
// scroll-speed override.
//
// The amplitude producer runs on an audio callback with a hard latency
// budget, so its side of the boundary is a single lock-free scalar
// publish: Feed reads two atomics, compares, and stores one float. It
// never allocates, never blocks, and never touches engine state. The
// engine thread drains the scalar once per tick through Step.
package autospeed

import (
	"math"
	"sync/atomic"
)

// Gain is the low-pass blend factor applied once per tick. It trades
// responsiveness for a continuous ramp instead of a hard stutter when
// voice activity starts or stops.
const Gain = 0.10

// Smoother low-pass filters an asynchronously published target speed.
type Smoother struct {
	// Cross-thread inputs, published atomically as float bits.
	target    atomic.Uint64
	threshold atomic.Uint64
	speed     atomic.Uint64

	// smoothed is touched only by the engine thread.
	smoothed float64
}

// New creates a smoother with the given amplitude threshold and
// manual-speed ceiling.
func New(threshold, speed float64) *Smoother {
	s := &Smoother{}
	s.SetThreshold(threshold)
	s.SetSpeed(speed)
	return s
}

// Feed publishes an instantaneous amplitude sample. Safe to call from
// any goroutine, including a real-time audio callback: the target
// becomes the configured speed while the amplitude exceeds the
// threshold and zero otherwise.
func (s *Smoother) Feed(amplitude float64) {
	var target float64
	if amplitude > s.loadFloat(&s.threshold) {
		target = s.loadFloat(&s.speed)
	}
	s.storeFloat(&s.target, target)
}

// SetThreshold updates the amplitude threshold.
func (s *Smoother) SetThreshold(v float64) {
	s.storeFloat(&s.threshold, v)
}

// SetSpeed updates the speed the target snaps to while voice is
// active. Mirrors the engine's manual speed.
func (s *Smoother) SetSpeed(v float64) {
	s.storeFloat(&s.speed, v)
}

// Target returns the last published target speed.
func (s *Smoother) Target() float64 {
	return s.loadFloat(&s.target)
}

// Step blends the smoothed value one increment toward the current
// target and returns it. Engine thread only.
func (s *Smoother) Step() float64 {
	s.smoothed += Gain * (s.Target() - s.smoothed)
	return s.smoothed
}

// Value returns the current smoothed speed without stepping.
func (s *Smoother) Value() float64 {
	return s.smoothed
}

// Reset zeroes the smoothed value and the published target.
func (s *Smoother) Reset() {
	s.smoothed = 0
	s.storeFloat(&s.target, 0)
}

func (s *Smoother) loadFloat(a *atomic.Uint64) float64 {
	return math.Float64frombits(a.Load())
}

func (s *Smoother) storeFloat(a *atomic.Uint64, v float64) {
	a.Store(math.Float64bits(v))
}
