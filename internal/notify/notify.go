// Package notify is the engine's outbound notification contract.
//
// The engine never holds references into host UI objects. Instead the
// host subscribes typed handlers here and the engine publishes playback,
// progress, pace, and note events as they happen. Delivery is
// synchronous on the engine thread in subscription order; handlers must
// not re-enter the engine while a dispatch is in flight.
package notify

import (
	"github.com/google/uuid"

	"github.com/dshills/promptcast/internal/engine/clock"
)

// Kind classifies an event. Kinds are bit flags so one subscription can
// select several.
type Kind uint8

const (
	// KindPlayback fires on every playback-state transition.
	KindPlayback Kind = 1 << iota

	// KindProgress fires at the engine's throttled telemetry cadence.
	KindProgress

	// KindWPM fires with KindProgress, carrying the pace estimate.
	KindWPM

	// KindNote fires when the focus line's note changes, including to
	// no note.
	KindNote

	// KindNotes fires after every layout rebuild with the full note
	// list.
	KindNotes

	// KindAll selects every event kind.
	KindAll = KindPlayback | KindProgress | KindWPM | KindNote | KindNotes
)

// Progress is the payload of a KindProgress event.
type Progress struct {
	// Offset is the current scroll offset in layout units.
	Offset float64

	// Total is the total content height.
	Total float64

	// RemainingSeconds is the estimated time to end of content at the
	// current manual speed. Zero when unknown.
	RemainingSeconds float64
}

// NoteRef is the payload of a KindNote event.
type NoteRef struct {
	// Line is the display-line index the note is anchored to.
	Line int

	// Text is the note text. Empty when the focus line has no note.
	Text string

	// Active reports whether a note is present.
	Active bool
}

// NoteEntry is one element of a KindNotes payload.
type NoteEntry struct {
	// Line is the display-line index the note is anchored to.
	Line int

	// Context is a preview of the display line the note belongs to.
	Context string

	// Text is the note text.
	Text string
}

// Event is a single notification.
type Event struct {
	Kind     Kind
	Playback clock.State
	Progress Progress
	WPM      int
	Note     NoteRef
	Notes    []NoteEntry
}

// Handler receives events.
type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription string

type subscriber struct {
	id    Subscription
	kinds Kind
	fn    Handler
}

// Notifier dispatches events to subscribers. It is not safe for
// concurrent use; like the rest of the engine it lives on one thread.
type Notifier struct {
	subs []subscriber
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn for the given kinds and returns its
// subscription ID.
func (n *Notifier) Subscribe(kinds Kind, fn Handler) Subscription {
	id := Subscription(uuid.New().String())
	n.subs = append(n.subs, subscriber{id: id, kinds: kinds, fn: fn})
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (n *Notifier) Unsubscribe(id Subscription) {
	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every subscriber whose kind mask matches.
func (n *Notifier) Publish(ev Event) {
	for _, s := range n.subs {
		if s.kinds&ev.Kind != 0 {
			s.fn(ev)
		}
	}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	return len(n.subs)
}
