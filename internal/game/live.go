package game

import (
	"time"

	"github.com/langaas500/Hvemistua/pkg/realtime"
)

// Live pairs the session with its broadcaster and deadline loop, using
// realtime.Room for the plumbing.
type Live struct {
	r *realtime.Room[*Session]
}

// NewLive wraps s for publishing.
func NewLive(s *Session) *Live {
	return &Live{r: realtime.NewRoom(s)}
}

// Session returns the wrapped session.
func (l *Live) Session() *Session {
	return l.r.State
}

// Broadcaster returns the SSE broadcaster.
func (l *Live) Broadcaster() *realtime.Broadcaster {
	return l.r.Broadcaster()
}

// Publish notifies subscribers with an event and nudges the deadline loop,
// since an action may have moved the next deadline.
func (l *Live) Publish(event string) {
	l.r.Publish(event)
	l.r.Wake()
}

// EnsureDeadlineLoop starts the loop that ends questions on time or once
// everyone has voted. It is a no-op if already running.
func (l *Live) EnsureDeadlineLoop() {
	tick := func(s *Session, now time.Time) (time.Time, []string, bool) {
		var events []string
		if s.Tick(now) {
			events = append(events, realtime.EventState)
		}
		next, _ := s.NextDeadline()
		return next, events, false
	}
	l.r.RunLoop(tick)
}

// Close stops the deadline loop.
func (l *Live) Close() {
	l.r.Close()
}
