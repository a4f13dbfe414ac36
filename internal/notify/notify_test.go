package notify

import (
	"testing"

	"github.com/dshills/promptcast/internal/engine/clock"
)

func TestSubscribeAndPublish(t *testing.T) {
	n := NewNotifier()

	var got []Event
	n.Subscribe(KindPlayback, func(ev Event) { got = append(got, ev) })

	n.Publish(Event{Kind: KindPlayback, Playback: clock.Playing})

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Playback != clock.Playing {
		t.Errorf("payload state = %v, want Playing", got[0].Playback)
	}
}

func TestKindFiltering(t *testing.T) {
	n := NewNotifier()

	var notes, progress int
	n.Subscribe(KindNote, func(Event) { notes++ })
	n.Subscribe(KindProgress|KindWPM, func(Event) { progress++ })

	n.Publish(Event{Kind: KindNote})
	n.Publish(Event{Kind: KindProgress})
	n.Publish(Event{Kind: KindWPM})
	n.Publish(Event{Kind: KindPlayback})

	if notes != 1 {
		t.Errorf("note handler fired %d times, want 1", notes)
	}
	if progress != 2 {
		t.Errorf("progress handler fired %d times, want 2", progress)
	}
}

func TestKindAll(t *testing.T) {
	n := NewNotifier()

	count := 0
	n.Subscribe(KindAll, func(Event) { count++ })

	for _, k := range []Kind{KindPlayback, KindProgress, KindWPM, KindNote, KindNotes} {
		n.Publish(Event{Kind: k})
	}

	if count != 5 {
		t.Errorf("KindAll handler fired %d times, want 5", count)
	}
}

func TestUnsubscribe(t *testing.T) {
	n := NewNotifier()

	count := 0
	id := n.Subscribe(KindPlayback, func(Event) { count++ })

	n.Publish(Event{Kind: KindPlayback})
	n.Unsubscribe(id)
	n.Publish(Event{Kind: KindPlayback})

	if count != 1 {
		t.Errorf("handler fired %d times after unsubscribe, want 1", count)
	}
	if n.Len() != 0 {
		t.Errorf("notifier should be empty, has %d", n.Len())
	}
}

func TestUnsubscribeUnknownID(t *testing.T) {
	n := NewNotifier()
	n.Subscribe(KindPlayback, func(Event) {})

	n.Unsubscribe("not-a-real-id")

	if n.Len() != 1 {
		t.Error("unknown ID must not remove subscriptions")
	}
}

func TestDeliveryOrder(t *testing.T) {
	n := NewNotifier()

	var order []int
	n.Subscribe(KindNote, func(Event) { order = append(order, 1) })
	n.Subscribe(KindNote, func(Event) { order = append(order, 2) })

	n.Publish(Event{Kind: KindNote})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("delivery order %v, want [1 2]", order)
	}
}
