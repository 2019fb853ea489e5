package game

import (
	"math/rand"
	"time"

	"github.com/langaas500/Hvemistua/internal/questions"
	"github.com/langaas500/Hvemistua/pkg/realtime"
)

// Default rule values.
const (
	RoundLength   = 20
	MinPlayers    = 3
	MaxPlayers    = 12
	MaxNameLength = 20

	// RecentWinnersCap bounds the ring of last winners.
	RecentWinnersCap = 3

	// Over-targeted reroll eligibility: enough votes this question, enough
	// questions left in the round, and a winner already picked this often.
	OverTargetMinVotes     = 3
	OverTargetMinRemaining = 4
	OverTargetThreshold    = 2

	UnlockWindow        = 24 * time.Hour
	DefaultRevealHold   = 8 * time.Second
	DefaultPollInterval = time.Second
)

// Rules carries the tunable thresholds of a session.
type Rules struct {
	RoundLength            int
	MinPlayers             int
	MaxPlayers             int
	MaxNameLength          int
	RecentWinnersCap       int
	OverTargetMinVotes     int
	OverTargetMinRemaining int
	OverTargetThreshold    int
	UnlockWindow           time.Duration
	QuestionDuration       time.Duration
	// RevealHold and PollInterval are advertised to clients; the core
	// never waits on them.
	RevealHold   time.Duration
	PollInterval time.Duration
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		RoundLength:            RoundLength,
		MinPlayers:             MinPlayers,
		MaxPlayers:             MaxPlayers,
		MaxNameLength:          MaxNameLength,
		RecentWinnersCap:       RecentWinnersCap,
		OverTargetMinVotes:     OverTargetMinVotes,
		OverTargetMinRemaining: OverTargetMinRemaining,
		OverTargetThreshold:    OverTargetThreshold,
		UnlockWindow:           UnlockWindow,
		QuestionDuration:       realtime.DefaultQuestionDuration,
		RevealHold:             DefaultRevealHold,
		PollInterval:           DefaultPollInterval,
	}
}

// Options configures a new Session. Zero fields fall back to defaults.
type Options struct {
	Rules   Rules
	Catalog *questions.Catalog
	// Rand drives tie-breaks, rerolls, avatar picks and question order.
	// Seed it for reproducible sessions.
	Rand *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.Rules.RoundLength <= 0 {
		o.Rules = DefaultRules()
	}
	if o.Rules.QuestionDuration <= 0 {
		o.Rules.QuestionDuration = realtime.DefaultQuestionDuration
	}
	if o.Rules.UnlockWindow <= 0 {
		o.Rules.UnlockWindow = UnlockWindow
	}
	if o.Rules.RevealHold <= 0 {
		o.Rules.RevealHold = DefaultRevealHold
	}
	if o.Rules.PollInterval <= 0 {
		o.Rules.PollInterval = DefaultPollInterval
	}
	if o.Catalog == nil {
		o.Catalog = questions.MustLoad()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
