package realtime

import (
	"testing"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	if b == nil {
		t.Fatal("NewBroadcaster returned nil")
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers %d, want 0", b.Subscribers())
	}
}

func TestBroadcaster_PublishDeliversToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	if b.Subscribers() != 2 {
		t.Fatalf("Subscribers %d, want 2", b.Subscribers())
	}
	b.Publish(EventState)
	if got := <-ch1; got != EventState {
		t.Errorf("ch1 got %q, want %q", got, EventState)
	}
	if got := <-ch2; got != EventState {
		t.Errorf("ch2 got %q, want %q", got, EventState)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	_, open := <-ch
	if open {
		t.Error("channel should be closed after Unsubscribe")
	}
	// Second unsubscribe is a no-op.
	b.Unsubscribe(ch)
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers %d, want 0", b.Subscribers())
	}
}

func TestBroadcaster_PublishDoesNotBlockOnFullChannel(t *testing.T) {
	b := NewBroadcaster()
	b.SetDebug(true)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 50; i++ {
		b.Publish(EventState)
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d events, want %d", len(ch), cap(ch))
	}
}
