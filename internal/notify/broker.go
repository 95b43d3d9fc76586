// Package notify implements the change announcement broker: a fan-out
// channel that tells every connected client the canonical task list may have
// changed. Announcements are invalidation signals, never data; recipients
// re-query the server for the authoritative list.
package notify

import (
	"sync"
)

// subscriberBuffer is how many undelivered announcements a subscriber may
// lag behind before further announcements to it are dropped. Delivery is
// best effort; a dropped announcement is recovered by the next re-query.
const subscriberBuffer = 16

// Subscription is one client's registration with the broker. Announcements
// arrive on C in send order until Unsubscribe.
type Subscription struct {
	id int64
	// C delivers announcement texts. It is closed on Unsubscribe.
	C chan string
}

// Broker fan-outs announcements to a lifecycle-scoped registry of
// subscribers: add on connect, remove on disconnect. Any client may
// announce; all subscribers receive it, the announcer included.
type Broker struct {
	mu      sync.Mutex
	subs    map[int64]*Subscription
	nextID  int64
	dropped func(text string)
}

// NewBroker creates an empty broker. onDropped, if non-nil, is invoked each
// time an announcement could not be delivered to a lagging subscriber.
func NewBroker(onDropped func(text string)) *Broker {
	return &Broker{
		subs:    make(map[int64]*Subscription),
		dropped: onDropped,
	}
}

// Subscribe registers a new subscriber. A subscriber never receives
// announcements sent before it subscribed; catching up is the caller's
// responsibility via an initial full list fetch.
func (b *Broker) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id: b.nextID,
		C:  make(chan string, subscriberBuffer),
	}
	b.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Removing one
// subscriber does not affect delivery to the others.
func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.id]; !ok {
		return
	}
	delete(b.subs, sub.id)
	close(sub.C)
}

// Announce delivers text to every current subscriber. It never blocks: a
// subscriber whose buffer is full misses this announcement instead of
// stalling the announcer or its peers. Failures here are decoupled from the
// mutation that triggered the announcement.
func (b *Broker) Announce(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub.C <- text:
		default:
			if b.dropped != nil {
				b.dropped(text)
			}
		}
	}
}

// SubscriberCount returns the number of currently registered subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
