// Package engine is the teleprompter scroll engine: it owns the script
// text, the layout and font-metrics caches, the playback clock, and the
// auto-speed smoother, and exposes the narrow boundary the host UI
// drives.
//
// Everything except FeedAudioAmplitude must be called from a single
// goroutine. The engine owns no timer; the host calls Tick on its own
// schedule with its own timestamps, which keeps the whole thing
// deterministic under test.
package engine

import (
	"sort"
	"time"

	"github.com/dshills/promptcast/internal/engine/autospeed"
	"github.com/dshills/promptcast/internal/engine/clock"
	"github.com/dshills/promptcast/internal/engine/fade"
	"github.com/dshills/promptcast/internal/engine/layout"
	"github.com/dshills/promptcast/internal/engine/metrics"
	"github.com/dshills/promptcast/internal/engine/render"
	"github.com/dshills/promptcast/internal/engine/script"
	"github.com/dshills/promptcast/internal/engine/wrap"
	"github.com/dshills/promptcast/internal/notify"
)

// Manual speed bounds, in pixels per reference frame.
const (
	MinSpeed = 0.5
	MaxSpeed = 20.0
)

// telemetryInterval throttles progress and pace events to every Nth
// playing tick so their cost is bounded regardless of tick rate.
const telemetryInterval = 8

// Defaults applied by New.
const (
	DefaultSpeed         = 2.0
	DefaultCountdown     = 3
	DefaultFocusRatio    = 0.5
	DefaultLineSpacing   = 1.2
	DefaultMicThreshold  = 0.025
	DefaultViewportWidth = 920
)

// Engine is the layout-and-scroll core.
type Engine struct {
	// Inputs.
	text        string
	width       int
	font        metrics.FontDesc
	lineSpacing float64
	align       wrap.Alignment

	// Playback settings.
	speed         float64
	countdownSecs int
	focusRatio    float64
	wordHighlight bool
	autoEnabled   bool

	// Derived caches.
	fonts   *metrics.Cache
	layouts *layout.Cache
	table   *fade.Table

	// Scroll state.
	clock     *clock.Clock
	scroll    float64
	lastFocus int
	tickCount int

	smoother *autospeed.Smoother
	notifier *notify.Notifier
}

// New creates an engine measuring text through src.
func New(src metrics.Source) *Engine {
	e := &Engine{
		width:         DefaultViewportWidth,
		font:          metrics.FontDesc{Family: "Arial", Size: 48},
		lineSpacing:   DefaultLineSpacing,
		align:         wrap.AlignLeft,
		speed:         DefaultSpeed,
		countdownSecs: DefaultCountdown,
		focusRatio:    DefaultFocusRatio,
		wordHighlight: true,
		fonts:         metrics.NewCache(src),
		layouts:       layout.NewCache(),
		table:         fade.New(),
		clock:         clock.New(),
		lastFocus:     -1,
		notifier:      notify.NewNotifier(),
	}
	e.smoother = autospeed.New(DefaultMicThreshold, e.speed)
	return e
}

// Notifier returns the engine's outbound notification registry.
func (e *Engine) Notifier() *notify.Notifier {
	return e.notifier
}

// SetScript replaces the script wholesale, resets the scroll offset,
// and invalidates the layout cache. There is no incremental path.
func (e *Engine) SetScript(text string) {
	e.text = text
	e.scroll = 0
	e.lastFocus = -1
	e.layouts.Invalidate()
	e.ensureLayout()
}

// Script returns the current script text.
func (e *Engine) Script() string {
	return e.text
}

// SetViewportWidth updates the wrap width.
func (e *Engine) SetViewportWidth(px int) {
	if px == e.width {
		return
	}
	e.width = px
	e.layouts.Invalidate()
}

// SetFont changes the font family and size. A font change implies a
// potential re-wrap, so both caches go dirty.
func (e *Engine) SetFont(family string, size int) {
	e.font = metrics.FontDesc{Family: family, Size: size}
	e.fonts.Invalidate()
	e.layouts.Invalidate()
}

// SetLineSpacing updates the line-spacing factor.
func (e *Engine) SetLineSpacing(factor float64) {
	e.lineSpacing = factor
	e.fonts.Invalidate()
	e.layouts.Invalidate()
}

// SetAlignment updates horizontal alignment.
func (e *Engine) SetAlignment(a wrap.Alignment) {
	if a == e.align {
		return
	}
	e.align = a
	e.layouts.Invalidate()
}

// SetManualSpeed sets the manual scroll speed, clamped to
// [MinSpeed, MaxSpeed].
func (e *Engine) SetManualSpeed(v float64) {
	if v < MinSpeed {
		v = MinSpeed
	}
	if v > MaxSpeed {
		v = MaxSpeed
	}
	e.speed = v
	e.smoother.SetSpeed(v)
}

// ManualSpeed returns the current manual speed.
func (e *Engine) ManualSpeed() float64 {
	return e.speed
}

// SetAutoSpeedEnabled toggles the voice-driven speed override.
func (e *Engine) SetAutoSpeedEnabled(on bool) {
	if e.autoEnabled == on {
		return
	}
	e.autoEnabled = on
	if !on {
		e.smoother.Reset()
	}
}

// AutoSpeedEnabled reports whether the voice override is active.
func (e *Engine) AutoSpeedEnabled() bool {
	return e.autoEnabled
}

// SetAutoSpeedThreshold sets the amplitude above which voice counts as
// active.
func (e *Engine) SetAutoSpeedThreshold(v float64) {
	e.smoother.SetThreshold(v)
}

// FeedAudioAmplitude publishes one amplitude sample. This is the only
// engine entry point safe to call from another goroutine; it performs
// a single lock-free scalar store.
func (e *Engine) FeedAudioAmplitude(amp float64) {
	e.smoother.Feed(amp)
}

// SmoothedAutoSpeed returns the current smoothed speed override.
func (e *Engine) SmoothedAutoSpeed() float64 {
	return e.smoother.Value()
}

// SetCountdown sets the pre-roll countdown length in seconds.
func (e *Engine) SetCountdown(secs int) {
	if secs < 0 {
		secs = 0
	}
	e.countdownSecs = secs
}

// SetFocusRatio places the focus line as a fraction of viewport
// height.
func (e *Engine) SetFocusRatio(r float64) {
	e.focusRatio = r
}

// SetWordHighlight toggles per-word highlighting on the focus line.
func (e *Engine) SetWordHighlight(on bool) {
	e.wordHighlight = on
}

// Play starts playback, going through the configured countdown first.
func (e *Engine) Play(now time.Time) {
	was := e.clock.State()
	e.clock.Play(now, e.countdownSecs)
	if e.clock.State() != was {
		e.publishPlayback()
	}
}

// Pause freezes the scroll head in place.
func (e *Engine) Pause() {
	was := e.clock.State()
	e.clock.Pause()
	if e.clock.State() != was {
		e.publishPlayback()
	}
}

// TogglePlay is the space-bar action: cancel a countdown, pause while
// playing, otherwise start playback.
func (e *Engine) TogglePlay(now time.Time) {
	switch e.clock.State() {
	case clock.Counting:
		e.CancelCountdown()
	case clock.Playing:
		e.Pause()
	default:
		e.Play(now)
	}
}

// CancelCountdown aborts a running countdown without touching the
// scroll offset.
func (e *Engine) CancelCountdown() {
	if e.clock.CancelCountdown() {
		e.publishPlayback()
	}
}

// Reset returns to (offset 0, Idle) from any state and invalidates the
// focus-line tracker.
func (e *Engine) Reset() {
	e.clock.Reset()
	e.scroll = 0
	e.lastFocus = -1
	e.tickCount = 0
	e.smoother.Reset()
	e.publishPlayback()
}

// State returns the current playback state.
func (e *Engine) State() clock.State {
	return e.clock.State()
}

// CountdownRemaining returns the seconds left in a running countdown.
func (e *Engine) CountdownRemaining() int {
	return e.clock.CountdownRemaining()
}

// Seek moves the scroll offset by delta pixels, clamped to the content
// bounds. Used for manual skipping.
func (e *Engine) Seek(delta float64) {
	snap := e.ensureLayout()
	e.scroll += delta
	if e.scroll < 0 {
		e.scroll = 0
	}
	if e.scroll > snap.TotalHeight {
		e.scroll = snap.TotalHeight
	}
}

// Tick advances one scroll step at the given timestamp. The host calls
// this on its own periodic schedule.
func (e *Engine) Tick(now time.Time) {
	res := e.clock.Tick(now)
	if res.CountdownChanged {
		e.publishPlayback()
	}
	if e.clock.State() != clock.Playing || res.DeltaMs == 0 {
		return
	}

	eff := e.speed
	if e.autoEnabled {
		eff = e.smoother.Step()
		if eff < 0 {
			eff = 0
		}
	}
	e.scroll += eff * (res.DeltaMs / clock.ReferenceFrameMs)

	snap := e.ensureLayout()
	lh := e.ensureFont().LineHeight

	// Pause and note checks run only when the focus line changes.
	if lh > 0 {
		fl := int(e.scroll / float64(lh))
		if fl != e.lastFocus {
			e.lastFocus = fl
			if snap.IsPause(fl) {
				// Snap exactly to the pause line's top edge.
				e.scroll = float64(fl * lh)
				e.clock.Pause()
				e.publishPlayback()
				return
			}
			e.publishCurrentNote(snap, fl)
		}
	}

	if e.scroll >= snap.TotalHeight {
		e.scroll = snap.TotalHeight
		e.clock.Finish()
		e.publishPlayback()
	}

	e.tickCount++
	if e.tickCount >= telemetryInterval {
		e.tickCount = 0
		e.publishTelemetry(snap)
	}
}

// Render builds the draw-command frame for the current state. It is a
// pure read apart from cache refresh; the host pushes viewport width
// changes through SetViewportWidth before rendering.
func (e *Engine) Render(width, height int) render.Frame {
	snap := e.ensureLayout()
	fm := e.ensureFont()
	return render.Build(snap, fm, e.table, render.Options{
		Width:         width,
		Height:        height,
		Scroll:        e.scroll,
		FocusRatio:    e.focusRatio,
		WordHighlight: e.wordHighlight,
	})
}

// LineHeight returns the current display line height in layout units.
// Hosts whose paint grid is coarser than layout units (terminal rows)
// use it to convert frame coordinates.
func (e *Engine) LineHeight() int {
	return e.ensureFont().LineHeight
}

// Progress returns the scroll offset and total content height.
func (e *Engine) Progress() (offset, total float64) {
	return e.scroll, e.ensureLayout().TotalHeight
}

// CurrentNote returns the note anchored to the focus line, if any.
func (e *Engine) CurrentNote() (string, bool) {
	snap := e.ensureLayout()
	lh := e.ensureFont().LineHeight
	if lh <= 0 {
		return "", false
	}
	return snap.Note(int(e.scroll / float64(lh)))
}

// AllNotes returns every note with its anchor line and a context
// preview, ordered by line index.
func (e *Engine) AllNotes() []notify.NoteEntry {
	return noteEntries(e.ensureLayout())
}

// WordsPerMinuteEstimate returns the pace implied by the manual speed
// over the current layout.
func (e *Engine) WordsPerMinuteEstimate() int {
	snap := e.ensureLayout()
	return wpmEstimate(e.text, e.speed, snap.TotalHeight)
}

// RemainingSeconds estimates the time to end of content at the manual
// speed.
func (e *Engine) RemainingSeconds() float64 {
	snap := e.ensureLayout()
	return remainingSeconds(e.scroll, snap.TotalHeight, e.speed)
}

// LayoutRebuilds exposes the layout rebuild counter for cache-behavior
// verification.
func (e *Engine) LayoutRebuilds() uint64 {
	return e.layouts.Rebuilds()
}

// ensureFont returns a current font-metrics snapshot, rebuilding if a
// setter invalidated it.
func (e *Engine) ensureFont() *metrics.Snapshot {
	return e.fonts.Ensure(e.font, e.lineSpacing)
}

// ensureLayout returns a current layout snapshot. Cheap on the hot
// path: a clean cache is a key comparison. A rebuild republishes the
// note list.
func (e *Engine) ensureLayout() *layout.Snapshot {
	fm := e.ensureFont()
	before := e.layouts.Rebuilds()
	snap := e.layouts.Ensure(e.text, e.width, fm, e.align)
	if e.layouts.Rebuilds() != before {
		e.publishNotes(snap)
	}
	return snap
}

func (e *Engine) publishPlayback() {
	e.notifier.Publish(notify.Event{Kind: notify.KindPlayback, Playback: e.clock.State()})
}

func (e *Engine) publishCurrentNote(snap *layout.Snapshot, line int) {
	text, ok := snap.Note(line)
	e.notifier.Publish(notify.Event{
		Kind: notify.KindNote,
		Note: notify.NoteRef{Line: line, Text: text, Active: ok},
	})
}

func (e *Engine) publishNotes(snap *layout.Snapshot) {
	e.notifier.Publish(notify.Event{Kind: notify.KindNotes, Notes: noteEntries(snap)})
}

func (e *Engine) publishTelemetry(snap *layout.Snapshot) {
	e.notifier.Publish(notify.Event{
		Kind: notify.KindProgress,
		Progress: notify.Progress{
			Offset:           e.scroll,
			Total:            snap.TotalHeight,
			RemainingSeconds: remainingSeconds(e.scroll, snap.TotalHeight, e.speed),
		},
	})
	e.notifier.Publish(notify.Event{
		Kind: notify.KindWPM,
		WPM:  wpmEstimate(e.text, e.speed, snap.TotalHeight),
	})
}

// noteEntries flattens a snapshot's note map into line order with a
// short context preview of each anchor line.
func noteEntries(snap *layout.Snapshot) []notify.NoteEntry {
	if len(snap.Notes) == 0 {
		return nil
	}
	idxs := make([]int, 0, len(snap.Notes))
	for i := range snap.Notes {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	out := make([]notify.NoteEntry, 0, len(idxs))
	for _, i := range idxs {
		ctx := ""
		if i < len(snap.Lines) {
			ctx = preview(snap.Lines[i].Text)
		}
		out = append(out, notify.NoteEntry{Line: i, Context: ctx, Text: snap.Notes[i]})
	}
	return out
}

// preview truncates a context line for note listings.
func preview(s string) string {
	const max = 55
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// remainingSeconds converts leftover content height to seconds at the
// given speed. Speed units are pixels per reference frame at ~60 fps.
func remainingSeconds(offset, total, speed float64) float64 {
	if total <= 0 || speed <= 0 || offset >= total {
		return 0
	}
	return (total - offset) / (speed * 60.0)
}

// wpmEstimate derives words-per-minute from pixel pace and word
// density. Directive tokens are excluded from the word count.
func wpmEstimate(text string, speed float64, totalPx float64) int {
	if totalPx <= 0 {
		return 0
	}
	words := script.CountWords(text)
	pace := speed * 60.0 / clock.ReferenceFrameMs * 60.0
	return int(pace * float64(words) / totalPx)
}
