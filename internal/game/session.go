package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/langaas500/Hvemistua/internal/avatar"
	"github.com/langaas500/Hvemistua/internal/questions"
	"github.com/langaas500/Hvemistua/pkg/realtime"
)

// Phase is the session state.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseQuestion Phase = "question"
	PhaseReveal   Phase = "reveal"
	PhaseGameOver Phase = "gameover"
)

// Session is the single shared game room. Every exported method takes the
// session lock, so actions are atomic and validated before anything changes.
type Session struct {
	mu      sync.Mutex
	rules   Rules
	catalog *questions.Catalog
	rng     *rand.Rand

	phase    Phase
	reg      registry
	index    int
	selected []string
	votes    map[string]string // token -> voted-for name
	clock    realtime.QuestionClock

	tone        questions.Tone
	couplesSafe bool
	mode        questions.Mode

	fair       fairness
	wins       map[string]int
	received   map[string]int
	lastReveal *RevealResult
	revealedAt time.Time

	unlockUntil time.Time
	checkout    *Checkout
	showUpsell  bool
	finaleSeed  int64
}

// NewSession creates a session in the lobby with no players.
func NewSession(opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		rules:   opts.Rules,
		catalog: opts.Catalog,
		rng:     opts.Rand,
		reg:     newRegistry(),
	}
	s.clock.Duration = s.rules.QuestionDuration
	s.defaultSettings()
	s.clearRound()
	return s
}

// Rules returns the session's rule set.
func (s *Session) Rules() Rules {
	return s.rules
}

func (s *Session) defaultSettings() {
	s.tone = questions.ToneMild
	s.couplesSafe = false
	s.mode = questions.ModeStandard
}

// clearRound drops everything a round accumulates and returns to lobby.
func (s *Session) clearRound() {
	s.phase = PhaseLobby
	s.index = 0
	s.selected = nil
	s.votes = make(map[string]string)
	s.clock.Stop()
	s.fair.reset()
	s.wins = make(map[string]int)
	s.received = make(map[string]int)
	s.lastReveal = nil
	s.revealedAt = time.Time{}
	s.showUpsell = false
	s.finaleSeed = 0
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Players returns the roster in join order.
func (s *Session) Players() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.roster()
}

// Join adds a player to the lobby and returns their token and avatar.
func (s *Session) Join(rawName string) (token, avatarID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLobby {
		return "", "", ErrAlreadyStarted
	}
	name := normalizeName(rawName, s.rules.MaxNameLength)
	if name == "" {
		return "", "", ErrNameEmpty
	}
	if s.reg.len() >= s.rules.MaxPlayers {
		return "", "", ErrRoomFull
	}
	if s.reg.indexOf(name) >= 0 {
		return "", "", ErrNameTaken
	}
	avatarID = avatar.Random(s.rng)
	return s.reg.add(name, avatarID), avatarID, nil
}

// Leave removes the player holding token. Unknown tokens are ignored.
func (s *Session) Leave(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.reg.remove(token)
	if !ok {
		return false
	}
	delete(s.votes, token)
	for voter, target := range s.votes {
		if target == p.Name {
			delete(s.votes, voter)
		}
	}
	return true
}

// TokenInfo is the result of ValidateToken.
type TokenInfo struct {
	Valid    bool   `json:"valid"`
	Name     string `json:"name,omitempty"`
	AvatarID string `json:"avatarId,omitempty"`
}

// ValidateToken resolves a stored token back to its player.
func (s *Session) ValidateToken(token string) TokenInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, ok := s.reg.byToken(token)
	if !ok {
		return TokenInfo{}
	}
	return TokenInfo{Valid: true, Name: p.Name, AvatarID: p.AvatarID}
}

// SetAvatar changes the avatar of the player holding token.
func (s *Session) SetAvatar(token, avatarID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i, ok := s.reg.byToken(token)
	if !ok {
		return ErrInvalidToken
	}
	if !avatar.Valid(avatarID) {
		return ErrInvalidAvatar
	}
	s.reg.setAvatar(i, avatarID)
	return nil
}

// SetSettings changes the tone and couples-safe filter. Lobby only.
func (s *Session) SetSettings(tone string, couplesSafe bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLobby {
		return ErrWrongPhase
	}
	t, ok := questions.ParseTone(tone)
	if !ok {
		return ErrInvalidTone
	}
	s.tone = t
	s.couplesSafe = couplesSafe
	return nil
}

// SetGameMode switches between the standard and restricted pack. Lobby only.
func (s *Session) SetGameMode(mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLobby {
		return ErrWrongPhase
	}
	m, ok := questions.ParseMode(mode)
	if !ok {
		return ErrInvalidMode
	}
	s.mode = m
	return nil
}

// Start selects the round's questions and opens the first one.
func (s *Session) Start(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseLobby {
		return ErrAlreadyStarted
	}
	if s.reg.len() < s.rules.MinPlayers {
		return ErrNotEnoughPlayers
	}
	if s.mode == questions.ModeAdult && !s.unlocked(now) {
		return ErrUnlockRequired
	}
	f := questions.Filter{Mode: s.mode, Tone: s.tone, CouplesSafe: s.couplesSafe}
	group := questions.GroupSizeFor(s.reg.len())
	selected, err := s.catalog.Select(f, group, s.rules.RoundLength, s.rng)
	if err != nil {
		return wrap(ErrInsufficientQuestions, err)
	}

	s.clearRound()
	s.selected = selected
	s.phase = PhaseQuestion
	s.clock.Start(now)
	s.checkout = nil
	return nil
}

// SubmitVote records one vote per player for the open question. The
// duplicate check and the write share the session lock.
func (s *Session) SubmitVote(token, votedFor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuestion {
		return ErrWrongPhase
	}
	if _, _, ok := s.reg.byToken(token); !ok {
		return ErrInvalidToken
	}
	if _, voted := s.votes[token]; voted {
		return ErrAlreadyVoted
	}
	i := s.reg.indexOf(votedFor)
	if i < 0 {
		return ErrInvalidVoteTarget
	}
	s.votes[token] = s.reg.players[i].Name
	return nil
}

// EndVoting reveals the open question. A paused question is resumed first
// so the pause span is accounted.
func (s *Session) EndVoting(now time.Time) (RevealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuestion {
		return RevealResult{}, ErrWrongPhase
	}
	return s.reveal(now), nil
}

func (s *Session) reveal(now time.Time) RevealResult {
	s.clock.Resume(now)

	res := computeReveal(revealInput{
		votes:      s.votes,
		roster:     s.reg.players,
		lastWinner: s.fair.lastWinner,
		targets:    s.fair.recentTargets,
		remaining:  len(s.selected) - s.index - 1,
		group:      questions.GroupSizeFor(s.reg.len()),
		rules:      s.rules,
	}, s.rng)
	res.QuestionIndex = s.index
	res.Question = s.currentQuestion()

	if res.Winner != "" {
		s.fair.record(res.Winner, s.rules.RecentWinnersCap)
		s.wins[res.Winner]++
	}
	for _, target := range s.votes {
		s.received[target]++
	}

	s.lastReveal = &res
	s.revealedAt = now
	s.phase = PhaseReveal
	return res
}

// Tick performs the caller-driven automatic transition: a running question
// ends once every player has voted or its clock has expired. It reports
// whether the state changed.
func (s *Session) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuestion || s.clock.Paused {
		return false
	}
	if !s.allVoted() && !s.clock.Expired(now) {
		return false
	}
	s.reveal(now)
	return true
}

// NextDeadline is the earliest instant Tick could change state. There is
// none outside a running question.
func (s *Session) NextDeadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuestion {
		return time.Time{}, false
	}
	return s.clock.Deadline()
}

// NextQuestion leaves the reveal for the next question or the game over.
func (s *Session) NextQuestion(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReveal {
		return ErrWrongPhase
	}
	s.advance(now)
	return nil
}

// NextQuestionNow skips ahead from a question or reveal without computing
// a reveal.
func (s *Session) NextQuestionNow(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuestion && s.phase != PhaseReveal {
		return ErrWrongPhase
	}
	s.advance(now)
	return nil
}

func (s *Session) advance(now time.Time) {
	s.votes = make(map[string]string)
	s.lastReveal = nil
	s.revealedAt = time.Time{}

	if s.index >= len(s.selected)-1 {
		s.phase = PhaseGameOver
		s.clock.Stop()
		s.showUpsell = s.mode == questions.ModeStandard && !s.unlocked(now)
		s.finaleSeed = s.rng.Int63()
		return
	}
	s.index++
	s.phase = PhaseQuestion
	s.clock.Start(now)
}

// Pause freezes the question or reveal.
func (s *Session) Pause(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuestion && s.phase != PhaseReveal {
		return ErrWrongPhase
	}
	if !s.clock.Pause(now) {
		return ErrAlreadyPaused
	}
	return nil
}

// Resume continues a paused question or reveal.
func (s *Session) Resume(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseQuestion && s.phase != PhaseReveal {
		return ErrWrongPhase
	}
	if !s.clock.Resume(now) {
		return ErrNotPaused
	}
	return nil
}

// ResetToLobby starts over with the same players and settings.
func (s *Session) ResetToLobby() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearRound()
}

// ResetGame clears players and settings too. The unlock window is kept.
func (s *Session) ResetGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearRound()
	s.reg.clear()
	s.defaultSettings()
	s.checkout = nil
}

// Unlocked reports whether the restricted pack is unlocked at now.
func (s *Session) Unlocked(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked(now)
}

func (s *Session) unlocked(now time.Time) bool {
	return !s.unlockUntil.IsZero() && now.Before(s.unlockUntil)
}

func (s *Session) allVoted() bool {
	if s.reg.len() == 0 {
		return false
	}
	return len(s.votes) >= s.reg.len()
}

func (s *Session) currentQuestion() string {
	if s.index < 0 || s.index >= len(s.selected) {
		return ""
	}
	return s.selected[s.index]
}
