package game

import (
	"math/rand"
	"time"

	"github.com/langaas500/Hvemistua/internal/avatar"
	"github.com/langaas500/Hvemistua/internal/questions"
)

// PlayerView is a roster entry as clients see it.
type PlayerView struct {
	Name     string `json:"name"`
	AvatarID string `json:"avatarId"`
	HasVoted bool   `json:"hasVoted"`
	Wins     int    `json:"wins"`
}

// SettingsView is the lobby configuration.
type SettingsView struct {
	Tone        questions.Tone `json:"tone"`
	CouplesSafe bool           `json:"couplesSafe"`
	GameMode    questions.Mode `json:"gameMode"`
}

// UnlockInfo describes the 18+ unlock window at snapshot time.
type UnlockInfo struct {
	Unlocked    bool  `json:"unlocked"`
	Until       int64 `json:"until,omitempty"`
	RemainingMs int64 `json:"remainingMs"`
}

// CheckoutView is a checkout with epoch-millisecond times.
type CheckoutView struct {
	ID         string         `json:"id"`
	Status     CheckoutStatus `json:"status"`
	CreatedAt  int64          `json:"createdAt"`
	ResolvedAt int64          `json:"resolvedAt,omitempty"`
}

// Limits are the roster and round bounds.
type Limits struct {
	MinPlayers  int `json:"minPlayers"`
	MaxPlayers  int `json:"maxPlayers"`
	RoundLength int `json:"roundLength"`
}

// Snapshot is the full state document clients poll. Times are epoch
// milliseconds, zero when unset.
type Snapshot struct {
	Phase           Phase               `json:"phase"`
	Players         []PlayerView        `json:"players"`
	GroupSize       questions.GroupSize `json:"groupSize"`
	QuestionIndex   int                 `json:"currentQuestionIndex"`
	TotalQuestions  int                 `json:"totalQuestions"`
	CurrentQuestion string              `json:"currentQuestion,omitempty"`
	VotedCount      int                 `json:"votedCount"`
	AllVoted        bool                `json:"allVoted"`

	QuestionStartTime   int64 `json:"questionStartTime"`
	QuestionDurationSec int   `json:"questionDurationSec"`
	RemainingSec        int   `json:"remainingSec"`
	IsPaused            bool  `json:"isPaused"`
	PausedAt            int64 `json:"pausedAt"`
	PauseAccumulatedMs  int64 `json:"pauseAccumulatedMs"`

	Settings   SettingsView  `json:"settings"`
	Reveal     *RevealResult `json:"reveal,omitempty"`
	RevealedAt int64         `json:"revealedAt"`

	Unlock     UnlockInfo    `json:"unlock"`
	Checkout   *CheckoutView `json:"checkout,omitempty"`
	ShowUpsell bool          `json:"showUpsell"`
	Finale     *Finale       `json:"finale,omitempty"`

	Avatars        []avatar.Avatar `json:"avatars"`
	Limits         Limits          `json:"limits"`
	PollIntervalMs int64           `json:"pollIntervalMs"`
	RevealHoldSec  int             `json:"revealHoldSec"`
	ServerTime     int64           `json:"serverTime"`
}

// Snapshot copies the session state as of now.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	voted := make(map[string]bool, len(s.votes))
	for token := range s.votes {
		voted[s.reg.tokens[token]] = true
	}
	players := make([]PlayerView, 0, s.reg.len())
	for _, p := range s.reg.players {
		players = append(players, PlayerView{
			Name:     p.Name,
			AvatarID: p.AvatarID,
			HasVoted: voted[p.Name],
			Wins:     s.wins[p.Name],
		})
	}

	snap := Snapshot{
		Phase:           s.phase,
		Players:         players,
		GroupSize:       questions.GroupSizeFor(s.reg.len()),
		QuestionIndex:   s.index,
		TotalQuestions:  len(s.selected),
		CurrentQuestion: s.currentQuestion(),
		VotedCount:      len(s.votes),
		AllVoted:        s.allVoted(),

		QuestionStartTime:   epochMs(s.clock.StartedAt),
		QuestionDurationSec: int(s.clock.Duration / time.Second),
		RemainingSec:        s.clock.RemainingSeconds(now),
		IsPaused:            s.clock.Paused,
		PausedAt:            epochMs(s.clock.PausedAt),
		PauseAccumulatedMs:  s.clock.PauseAccumulated.Milliseconds(),

		Settings:   SettingsView{Tone: s.tone, CouplesSafe: s.couplesSafe, GameMode: s.mode},
		RevealedAt: epochMs(s.revealedAt),
		ShowUpsell: s.showUpsell,

		Avatars: avatar.All(),
		Limits: Limits{
			MinPlayers:  s.rules.MinPlayers,
			MaxPlayers:  s.rules.MaxPlayers,
			RoundLength: s.rules.RoundLength,
		},
		PollIntervalMs: s.rules.PollInterval.Milliseconds(),
		RevealHoldSec:  int(s.rules.RevealHold / time.Second),
		ServerTime:     epochMs(now),
	}
	if s.phase == PhaseLobby {
		snap.CurrentQuestion = ""
	}
	if s.lastReveal != nil {
		r := *s.lastReveal
		snap.Reveal = &r
	}

	snap.Unlock = UnlockInfo{Unlocked: s.unlocked(now)}
	if !s.unlockUntil.IsZero() {
		snap.Unlock.Until = epochMs(s.unlockUntil)
		if snap.Unlock.Unlocked {
			snap.Unlock.RemainingMs = s.unlockUntil.Sub(now).Milliseconds()
		}
	}
	if s.checkout != nil {
		snap.Checkout = &CheckoutView{
			ID:         s.checkout.ID,
			Status:     s.checkout.Status,
			CreatedAt:  epochMs(s.checkout.CreatedAt),
			ResolvedAt: epochMs(s.checkout.ResolvedAt),
		}
	}
	if s.phase == PhaseGameOver {
		fin := summarize(s.reg.players, s.wins, s.received, rand.New(rand.NewSource(s.finaleSeed)))
		snap.Finale = &fin
	}
	return snap
}

// Finale returns the end-of-game summary. It is only available in the
// game-over phase.
func (s *Session) Finale() (Finale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGameOver {
		return Finale{}, ErrWrongPhase
	}
	return summarize(s.reg.players, s.wins, s.received, rand.New(rand.NewSource(s.finaleSeed))), nil
}

func epochMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
