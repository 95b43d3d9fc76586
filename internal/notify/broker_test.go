package notify

import (
	"fmt"
	"testing"
)

func drain(sub *Subscription) []string {
	var got []string
	for {
		select {
		case text := <-sub.C:
			got = append(got, text)
		default:
			return got
		}
	}
}

func TestAnnounce_ReachesEverySubscriberIncludingOriginator(t *testing.T) {
	b := NewBroker(nil)
	a := b.Subscribe()
	c := b.Subscribe()

	// The broker has no notion of an originator; whoever announced is a
	// subscriber like any other and hears its own announcement.
	b.Announce("task 1 (Test 1) was created")

	for name, sub := range map[string]*Subscription{"a": a, "b": c} {
		got := drain(sub)
		if len(got) != 1 || got[0] != "task 1 (Test 1) was created" {
			t.Fatalf("subscriber %s: expected one announcement, got %v", name, got)
		}
	}
}

func TestSubscribe_LateSubscriberMissesEarlierAnnouncements(t *testing.T) {
	b := NewBroker(nil)
	b.Announce("before anyone listened")

	sub := b.Subscribe()
	if got := drain(sub); len(got) != 0 {
		t.Fatalf("expected nothing for a late subscriber, got %v", got)
	}
}

func TestUnsubscribe_DoesNotAffectOtherSubscribers(t *testing.T) {
	b := NewBroker(nil)
	gone := b.Subscribe()
	stays := b.Subscribe()

	b.Unsubscribe(gone)
	if _, open := <-gone.C; open {
		t.Fatal("expected channel closed after unsubscribe")
	}

	b.Announce("still here")
	if got := drain(stays); len(got) != 1 || got[0] != "still here" {
		t.Fatalf("remaining subscriber: expected delivery, got %v", got)
	}

	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	// Unsubscribing twice is harmless.
	b.Unsubscribe(gone)
}

func TestAnnounce_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	var droppedTexts []string
	b := NewBroker(func(text string) {
		droppedTexts = append(droppedTexts, text)
	})

	laggard := b.Subscribe()
	healthy := b.Subscribe()

	// Fill the laggard's buffer, then announce once more. The extra
	// announcement must be dropped for the laggard but still reach the
	// healthy subscriber, and Announce must return rather than block.
	for i := 0; i < subscriberBuffer; i++ {
		b.Announce(fmt.Sprintf("filler %d", i))
	}
	drain(healthy)

	b.Announce("one too many")

	if len(droppedTexts) != 1 || droppedTexts[0] != "one too many" {
		t.Fatalf("expected one drop callback, got %v", droppedTexts)
	}
	if got := drain(healthy); len(got) != 1 || got[0] != "one too many" {
		t.Fatalf("healthy subscriber: expected delivery, got %v", got)
	}

	// The laggard still holds its buffered backlog in send order.
	backlog := drain(laggard)
	if len(backlog) != subscriberBuffer {
		t.Fatalf("expected %d buffered announcements, got %d", subscriberBuffer, len(backlog))
	}
	for i, text := range backlog {
		if want := fmt.Sprintf("filler %d", i); text != want {
			t.Fatalf("backlog out of order at %d: want %q, got %q", i, want, text)
		}
	}
}

func TestAnnounce_PerSubscriberOrderIsSendOrder(t *testing.T) {
	b := NewBroker(nil)
	sub := b.Subscribe()

	for i := 0; i < 5; i++ {
		b.Announce(fmt.Sprintf("change %d", i))
	}

	got := drain(sub)
	if len(got) != 5 {
		t.Fatalf("expected 5 announcements, got %d", len(got))
	}
	for i, text := range got {
		if want := fmt.Sprintf("change %d", i); text != want {
			t.Fatalf("out of order at %d: want %q, got %q", i, want, text)
		}
	}
}
