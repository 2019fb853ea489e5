package realtime

import (
	"log"
	"sync"
)

// Event names published to stream subscribers.
const (
	EventState = "state"
	EventReset = "reset"
)

// Broadcaster fans lightweight event names out to SSE subscribers.
// Subscribers re-read the snapshot when an event arrives, so a dropped
// event only delays an update until the next one.
type Broadcaster struct {
	mu    sync.Mutex
	subs  map[chan string]struct{}
	debug bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan string]struct{}),
	}
}

// SetDebug toggles per-publish logging.
func (b *Broadcaster) SetDebug(on bool) {
	b.mu.Lock()
	b.debug = on
	b.mu.Unlock()
}

// Subscribe registers a new subscriber and returns its event channel.
func (b *Broadcaster) Subscribe() chan string {
	ch := make(chan string, 10)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan string) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of connected subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers an event to all subscribers without blocking.
func (b *Broadcaster) Publish(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sent := 0
	for ch := range b.subs {
		select {
		case ch <- event:
			sent++
		default:
			// Lagging subscriber; the next event catches it up.
		}
	}
	if b.debug {
		log.Printf("[realtime] publish %s: %d/%d subscribers", event, sent, len(b.subs))
	}
}
