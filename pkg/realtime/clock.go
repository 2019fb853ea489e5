package realtime

import "time"

// QuestionClock tracks the countdown for one question with pause support.
// It holds no game state; the session composes it and asks it for
// elapsed and remaining time at an explicit instant.
type QuestionClock struct {
	Duration         time.Duration
	StartedAt        time.Time
	Paused           bool
	PausedAt         time.Time
	PauseAccumulated time.Duration
}

// DefaultQuestionDuration is the usual voting window per question.
const DefaultQuestionDuration = 30 * time.Second

// Start stamps a fresh countdown at now and clears pause bookkeeping.
func (c *QuestionClock) Start(now time.Time) {
	c.StartedAt = now
	c.Paused = false
	c.PausedAt = time.Time{}
	c.PauseAccumulated = 0
}

// Stop clears the countdown entirely, keeping the configured duration.
func (c *QuestionClock) Stop() {
	*c = QuestionClock{Duration: c.Duration}
}

// Running reports whether a countdown has been started.
func (c *QuestionClock) Running() bool {
	return !c.StartedAt.IsZero()
}

// Pause freezes the countdown at now. It returns false if already paused.
func (c *QuestionClock) Pause(now time.Time) bool {
	if c.Paused {
		return false
	}
	c.Paused = true
	c.PausedAt = now
	return true
}

// Resume folds the time spent paused into PauseAccumulated. It returns
// false if the clock was not paused.
func (c *QuestionClock) Resume(now time.Time) bool {
	if !c.Paused {
		return false
	}
	if d := now.Sub(c.PausedAt); d > 0 {
		c.PauseAccumulated += d
	}
	c.Paused = false
	c.PausedAt = time.Time{}
	return true
}

// Elapsed returns the active (unpaused) time since StartedAt.
func (c *QuestionClock) Elapsed(now time.Time) time.Duration {
	if !c.Running() {
		return 0
	}
	elapsed := now.Sub(c.StartedAt) - c.PauseAccumulated
	if c.Paused {
		elapsed -= now.Sub(c.PausedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// RemainingSeconds is max(0, durationSec - floor(elapsedMs/1000)).
func (c *QuestionClock) RemainingSeconds(now time.Time) int {
	total := int(c.Duration / time.Second)
	if !c.Running() {
		return total
	}
	remaining := total - int(c.Elapsed(now).Milliseconds()/1000)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether a running, unpaused countdown has reached zero.
func (c *QuestionClock) Expired(now time.Time) bool {
	return c.Running() && !c.Paused && c.RemainingSeconds(now) == 0
}

// Deadline returns the wall-clock instant the countdown reaches zero. A
// paused or stopped clock has no deadline.
func (c *QuestionClock) Deadline() (time.Time, bool) {
	if !c.Running() || c.Paused {
		return time.Time{}, false
	}
	whole := time.Duration(int(c.Duration/time.Second)) * time.Second
	return c.StartedAt.Add(c.PauseAccumulated + whole), true
}
