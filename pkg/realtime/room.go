package realtime

import (
	"context"
	"sync"
	"time"
)

// Room pairs one shared state value with its broadcaster and an optional
// timing loop that re-evaluates deadlines.
type Room[T any] struct {
	State T

	hub    *Broadcaster
	mu     sync.Mutex
	cancel context.CancelFunc
	wake   chan struct{}
}

// NewRoom wraps state with a fresh broadcaster.
func NewRoom[T any](state T) *Room[T] {
	return &Room[T]{State: state, hub: NewBroadcaster()}
}

// Broadcaster returns the room's broadcaster.
func (r *Room[T]) Broadcaster() *Broadcaster {
	return r.hub
}

// Publish notifies subscribers of the room's broadcaster.
func (r *Room[T]) Publish(event string) {
	r.hub.Publish(event)
}

// TickFunc is called by RunLoop to advance state and report the next wake
// time. A zero next means "sleep until woken". stop true exits the loop.
type TickFunc[T any] func(state T, now time.Time) (next time.Time, events []string, stop bool)

// RunLoop starts the timing loop. If a loop is already running it is not
// started again.
func (r *Room[T]) RunLoop(tick TickFunc[T]) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	wake := make(chan struct{}, 1)
	r.cancel = cancel
	r.wake = wake
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.cancel = nil
			r.wake = nil
			r.mu.Unlock()
		}()

		for {
			next, events, stop := tick(r.State, time.Now().UTC())
			if stop {
				return
			}
			for _, e := range events {
				r.Publish(e)
			}

			var timerC <-chan time.Time
			var timer *time.Timer
			if !next.IsZero() {
				wait := time.Until(next)
				if wait < 0 {
					wait = 0
				}
				timer = time.NewTimer(wait)
				timerC = timer.C
			}
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
			case <-wake:
				if timer != nil && !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
		}
	}()
}

// Wake unblocks the loop so it recomputes immediately.
func (r *Room[T]) Wake() {
	r.mu.Lock()
	wake := r.wake
	r.mu.Unlock()
	if wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

// Close stops the loop if one is running.
func (r *Room[T]) Close() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Looping reports whether the timing loop is running.
func (r *Room[T]) Looping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}
