// Package clock implements the playback state machine and wall-clock
// delta measurement that make scroll speed frame-rate independent.
//
// The clock owns no timer. The host calls Tick with its own timestamps
// on whatever schedule it likes; the clock measures elapsed time
// between calls and clamps it so a stalled host resumes without a
// runaway jump. Transitions from the wrong state are ignored rather
// than reported, so none of these methods can fail.
package clock

import "time"

// State is the playback state.
type State uint8

const (
	// Idle means the scroll head is frozen and no ticking occurs.
	Idle State = iota

	// Counting means a pre-roll countdown is running.
	Counting

	// Playing means ticks advance the scroll offset.
	Playing

	// Paused means playback was interrupted and the offset is frozen
	// in place.
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Counting:
		return "counting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Tick delta bounds, in milliseconds. The minimum avoids zero-length
// steps from back-to-back timer fires; the maximum absorbs host stalls
// (minimized window, load spikes) without a visual jump on resume.
const (
	MinDeltaMs = 1.0
	MaxDeltaMs = 100.0
)

// ReferenceFrameMs is the nominal frame duration that calibrates speed
// units to "pixels per reference frame" (~60 fps).
const ReferenceFrameMs = 16.667

// TickResult reports what happened during one Tick call.
type TickResult struct {
	// DeltaMs is the clamped elapsed time since the previous playing
	// tick. Zero unless the clock is Playing.
	DeltaMs float64

	// Started is true when this tick completed the countdown and the
	// clock entered Playing.
	Started bool

	// CountdownChanged is true when the remaining countdown seconds
	// changed during this tick.
	CountdownChanged bool
}

// Clock is the playback state machine.
type Clock struct {
	state State

	// Countdown bookkeeping.
	remaining int
	nextCount time.Time

	// Delta measurement.
	lastTick time.Time
}

// New creates a clock in the Idle state.
func New() *Clock {
	return &Clock{state: Idle}
}

// State returns the current playback state.
func (c *Clock) State() State {
	return c.state
}

// CountdownRemaining returns the seconds left while Counting, else 0.
func (c *Clock) CountdownRemaining() int {
	if c.state != Counting {
		return 0
	}
	return c.remaining
}

// Play requests playback. From Idle or Paused it starts a countdown of
// countdownSecs seconds, or begins playing immediately when
// countdownSecs is zero. No effect while already Counting or Playing.
func (c *Clock) Play(now time.Time, countdownSecs int) {
	if c.state == Counting || c.state == Playing {
		return
	}
	if countdownSecs <= 0 {
		c.begin(now)
		return
	}
	c.state = Counting
	c.remaining = countdownSecs
	c.nextCount = now.Add(time.Second)
}

// Pause freezes playback in place. Only meaningful while Playing.
func (c *Clock) Pause() {
	if c.state == Playing {
		c.state = Paused
	}
}

// CancelCountdown aborts a running countdown and returns to Idle.
// Reports whether a countdown was actually canceled.
func (c *Clock) CancelCountdown() bool {
	if c.state != Counting {
		return false
	}
	c.state = Idle
	c.remaining = 0
	return true
}

// Finish marks end-of-content: Playing returns to Idle.
func (c *Clock) Finish() {
	if c.state == Playing {
		c.state = Idle
	}
}

// Reset returns to Idle from any state.
func (c *Clock) Reset() {
	c.state = Idle
	c.remaining = 0
}

// Tick advances the state machine one step at the given timestamp.
func (c *Clock) Tick(now time.Time) TickResult {
	switch c.state {
	case Counting:
		return c.tickCountdown(now)
	case Playing:
		return TickResult{DeltaMs: c.delta(now)}
	default:
		return TickResult{}
	}
}

// tickCountdown decrements once per wall-clock second.
func (c *Clock) tickCountdown(now time.Time) TickResult {
	if now.Before(c.nextCount) {
		return TickResult{}
	}
	c.remaining--
	c.nextCount = c.nextCount.Add(time.Second)
	if c.remaining <= 0 {
		c.begin(now)
		return TickResult{Started: true, CountdownChanged: true}
	}
	return TickResult{CountdownChanged: true}
}

// begin enters Playing and arms the delta measurement so the first
// playing tick measures from this instant.
func (c *Clock) begin(now time.Time) {
	c.state = Playing
	c.remaining = 0
	c.lastTick = now
}

// delta returns the clamped elapsed milliseconds since the previous
// playing tick.
func (c *Clock) delta(now time.Time) float64 {
	dt := float64(now.Sub(c.lastTick)) / float64(time.Millisecond)
	c.lastTick = now
	if dt < MinDeltaMs {
		return MinDeltaMs
	}
	if dt > MaxDeltaMs {
		return MaxDeltaMs
	}
	return dt
}
