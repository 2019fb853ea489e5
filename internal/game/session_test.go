package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/langaas500/Hvemistua/internal/questions"
)

var t0 = time.Date(2026, 1, 10, 20, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, seed int64) *Session {
	t.Helper()
	return NewSession(Options{Rand: rand.New(rand.NewSource(seed))})
}

// joinAll joins names in order and returns their tokens.
func joinAll(t *testing.T, s *Session, names ...string) []string {
	t.Helper()
	tokens := make([]string, 0, len(names))
	for _, n := range names {
		tok, _, err := s.Join(n)
		if err != nil {
			t.Fatalf("Join(%q): %v", n, err)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func startedSession(t *testing.T, names ...string) (*Session, []string) {
	t.Helper()
	s := newTestSession(t, 7)
	tokens := joinAll(t, s, names...)
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, tokens
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, 1)
	snap := s.Snapshot(t0)
	if snap.Phase != PhaseLobby {
		t.Errorf("Phase %q, want lobby", snap.Phase)
	}
	if len(snap.Players) != 0 {
		t.Errorf("len(Players) %d, want 0", len(snap.Players))
	}
	if snap.Settings.Tone != questions.ToneMild || snap.Settings.GameMode != questions.ModeStandard {
		t.Errorf("Settings %+v, want mild/standard", snap.Settings)
	}
	if snap.Limits.RoundLength != RoundLength {
		t.Errorf("RoundLength %d, want %d", snap.Limits.RoundLength, RoundLength)
	}
	if len(snap.Avatars) == 0 {
		t.Error("snapshot has no avatars")
	}
}

func TestStart_Preconditions(t *testing.T) {
	s := newTestSession(t, 1)
	joinAll(t, s, "Ola", "Kari")
	if err := s.Start(t0); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("Start with 2 players: %v, want ErrNotEnoughPlayers", err)
	}
	joinAll(t, s, "Nora")

	if err := s.SetGameMode("18+"); err != nil {
		t.Fatalf("SetGameMode: %v", err)
	}
	if err := s.Start(t0); !errors.Is(err, ErrUnlockRequired) {
		t.Fatalf("Start locked 18+: %v, want ErrUnlockRequired", err)
	}
	if s.Phase() != PhaseLobby {
		t.Fatalf("failed start changed phase to %q", s.Phase())
	}

	if err := s.SetGameMode("standard"); err != nil {
		t.Fatalf("SetGameMode: %v", err)
	}
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(t0); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start: %v, want ErrAlreadyStarted", err)
	}
	if _, _, err := s.Join("Per"); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Join after start: %v, want ErrAlreadyStarted", err)
	}
	if err := s.SetSettings("spicy", false); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("SetSettings after start: %v, want ErrWrongPhase", err)
	}
}

func TestStart_InsufficientQuestions(t *testing.T) {
	few := make([]questions.Question, 5)
	for i := range few {
		few[i] = questions.Question{Text: fmt.Sprintf("q%d", i), Tone: questions.ToneMild, Risk: questions.RiskSafe, Mode: questions.ModeStandard}
	}
	cat, err := questions.NewCatalog(few)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	s := NewSession(Options{Catalog: cat, Rand: rand.New(rand.NewSource(1))})
	joinAll(t, s, "Ola", "Kari", "Nora")
	err = s.Start(t0)
	if !errors.Is(err, ErrInsufficientQuestions) {
		t.Fatalf("Start: %v, want ErrInsufficientQuestions", err)
	}
	if AsError(err).Kind != KindPolicyBlocked {
		t.Errorf("Kind %q, want policy_blocked", AsError(err).Kind)
	}
}

func TestRoundLength(t *testing.T) {
	s, _ := startedSession(t, "Ola", "Kari", "Nora")
	snap := s.Snapshot(t0)
	if snap.TotalQuestions != RoundLength {
		t.Fatalf("TotalQuestions %d, want %d", snap.TotalQuestions, RoundLength)
	}
	seen := make(map[string]bool)
	now := t0
	for i := 0; i < RoundLength; i++ {
		q := s.Snapshot(now).CurrentQuestion
		if q == "" || seen[q] {
			t.Fatalf("question %d %q is empty or repeated", i, q)
		}
		seen[q] = true
		if _, err := s.EndVoting(now); err != nil {
			t.Fatalf("EndVoting %d: %v", i, err)
		}
		if err := s.NextQuestion(now); err != nil {
			t.Fatalf("NextQuestion %d: %v", i, err)
		}
		now = now.Add(time.Second)
	}
	if s.Phase() != PhaseGameOver {
		t.Fatalf("Phase %q after %d questions, want gameover", s.Phase(), RoundLength)
	}
	if err := s.NextQuestion(now); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("NextQuestion in gameover: %v, want ErrWrongPhase", err)
	}
}

func TestSubmitVote(t *testing.T) {
	s, tok := startedSession(t, "Ola", "Kari", "Nora")

	if err := s.SubmitVote("nope", "Kari"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unknown token: %v, want ErrInvalidToken", err)
	}
	if err := s.SubmitVote(tok[0], "Per"); !errors.Is(err, ErrInvalidVoteTarget) {
		t.Errorf("unknown target: %v, want ErrInvalidVoteTarget", err)
	}
	if err := s.SubmitVote(tok[0], "kari"); err != nil {
		t.Fatalf("SubmitVote: %v", err)
	}
	if err := s.SubmitVote(tok[0], "Nora"); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("duplicate vote: %v, want ErrAlreadyVoted", err)
	}

	res, err := s.EndVoting(t0)
	if err != nil {
		t.Fatalf("EndVoting: %v", err)
	}
	if res.Winner != "Kari" || res.TotalVotes != 1 {
		t.Errorf("reveal %s with %d votes, want Kari with 1", res.Winner, res.TotalVotes)
	}
	if err := s.SubmitVote(tok[1], "Ola"); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("vote in reveal: %v, want ErrWrongPhase", err)
	}
}

func TestSubmitVote_Concurrent(t *testing.T) {
	s, tok := startedSession(t, "Ola", "Kari", "Nora")

	const attempts = 50
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.SubmitVote(tok[0], "Kari")
		}(i)
	}
	wg.Wait()

	accepted := 0
	for i, err := range errs {
		switch {
		case err == nil:
			accepted++
		case !errors.Is(err, ErrAlreadyVoted):
			t.Errorf("attempt %d: %v, want nil or ErrAlreadyVoted", i, err)
		}
	}
	if accepted != 1 {
		t.Errorf("%d votes accepted, want exactly 1", accepted)
	}
	if got := s.Snapshot(t0).VotedCount; got != 1 {
		t.Errorf("VotedCount %d, want 1", got)
	}
}

func TestTick_AllVoted(t *testing.T) {
	s, tok := startedSession(t, "Ola", "Kari", "Nora")
	if s.Tick(t0.Add(time.Second)) {
		t.Fatal("Tick advanced with no votes")
	}
	for _, tk := range tok {
		if err := s.SubmitVote(tk, "Nora"); err != nil {
			t.Fatalf("SubmitVote: %v", err)
		}
	}
	if !s.Tick(t0.Add(2 * time.Second)) {
		t.Fatal("Tick did not reveal after everyone voted")
	}
	snap := s.Snapshot(t0.Add(2 * time.Second))
	if snap.Phase != PhaseReveal || snap.Reveal == nil || snap.Reveal.Winner != "Nora" {
		t.Fatalf("snapshot phase %q reveal %+v, want Nora revealed", snap.Phase, snap.Reveal)
	}
	if snap.RevealedAt != t0.Add(2*time.Second).UnixMilli() {
		t.Errorf("RevealedAt %d, want %d", snap.RevealedAt, t0.Add(2*time.Second).UnixMilli())
	}
}

func TestTick_ClockExpiry(t *testing.T) {
	s, _ := startedSession(t, "Ola", "Kari", "Nora")
	deadline, ok := s.NextDeadline()
	if !ok || !deadline.Equal(t0.Add(realtimeDuration(s))) {
		t.Fatalf("NextDeadline %v %v, want %v", deadline, ok, t0.Add(realtimeDuration(s)))
	}
	if s.Tick(deadline.Add(-time.Millisecond)) {
		t.Fatal("Tick revealed before the deadline")
	}
	if !s.Tick(deadline) {
		t.Fatal("Tick did not reveal at the deadline")
	}
	if _, ok := s.NextDeadline(); ok {
		t.Error("NextDeadline in reveal should be unset")
	}
}

func realtimeDuration(s *Session) time.Duration {
	return s.Rules().QuestionDuration
}

func TestPauseAccounting(t *testing.T) {
	s, _ := startedSession(t, "Ola", "Kari", "Nora")
	ref, _ := startedSession(t, "Ola", "Kari", "Nora")

	if err := s.Resume(t0); !errors.Is(err, ErrNotPaused) {
		t.Errorf("Resume unpaused: %v, want ErrNotPaused", err)
	}
	if err := s.Pause(t0.Add(5 * time.Second)); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := s.Pause(t0.Add(6 * time.Second)); !errors.Is(err, ErrAlreadyPaused) {
		t.Errorf("second Pause: %v, want ErrAlreadyPaused", err)
	}
	if _, ok := s.NextDeadline(); ok {
		t.Error("paused question should have no deadline")
	}
	if s.Tick(t0.Add(time.Hour)) {
		t.Error("Tick ended a paused question")
	}
	mid := s.Snapshot(t0.Add(35 * time.Second))
	if mid.RemainingSec != 25 {
		t.Errorf("RemainingSec while paused %d, want 25", mid.RemainingSec)
	}
	if err := s.Resume(t0.Add(65 * time.Second)); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	snap := s.Snapshot(t0.Add(70 * time.Second))
	if snap.PauseAccumulatedMs < 60000 {
		t.Errorf("PauseAccumulatedMs %d, want >= 60000", snap.PauseAccumulatedMs)
	}
	want := ref.Snapshot(t0.Add(10 * time.Second)).RemainingSec
	if snap.RemainingSec != want {
		t.Errorf("RemainingSec %d, want %d as if never paused", snap.RemainingSec, want)
	}
}

func TestEndVotingWhilePausedResumes(t *testing.T) {
	s, _ := startedSession(t, "Ola", "Kari", "Nora")
	if err := s.Pause(t0.Add(time.Second)); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if _, err := s.EndVoting(t0.Add(11 * time.Second)); err != nil {
		t.Fatalf("EndVoting: %v", err)
	}
	snap := s.Snapshot(t0.Add(12 * time.Second))
	if snap.IsPaused {
		t.Error("reveal should not be paused")
	}
	if snap.PauseAccumulatedMs != 10000 {
		t.Errorf("PauseAccumulatedMs %d, want 10000", snap.PauseAccumulatedMs)
	}
}

func TestNextQuestionNow(t *testing.T) {
	s := newTestSession(t, 1)
	joinAll(t, s, "Ola", "Kari", "Nora")
	if err := s.NextQuestionNow(t0); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("NextQuestionNow in lobby: %v, want ErrWrongPhase", err)
	}
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Pause(t0); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := s.NextQuestionNow(t0.Add(time.Minute)); err != nil {
		t.Fatalf("NextQuestionNow: %v", err)
	}
	snap := s.Snapshot(t0.Add(time.Minute))
	if snap.Phase != PhaseQuestion || snap.QuestionIndex != 1 {
		t.Fatalf("phase %q index %d, want question 1", snap.Phase, snap.QuestionIndex)
	}
	if snap.IsPaused || snap.PauseAccumulatedMs != 0 || snap.Reveal != nil {
		t.Errorf("skip left pause or reveal state behind: %+v", snap)
	}
	for _, p := range snap.Players {
		if p.Wins != 0 {
			t.Errorf("%s credited a win by a skip", p.Name)
		}
	}
}

func TestLeaveDropsVotes(t *testing.T) {
	s, tok := startedSession(t, "Ola", "Kari", "Nora", "Per")
	if err := s.SubmitVote(tok[0], "Kari"); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitVote(tok[1], "Nora"); err != nil {
		t.Fatal(err)
	}
	if !s.Leave(tok[1]) {
		t.Fatal("Leave returned false for a joined player")
	}
	snap := s.Snapshot(t0)
	if snap.VotedCount != 0 {
		t.Errorf("VotedCount %d, want 0 after Kari left", snap.VotedCount)
	}
	if s.Leave(tok[1]) {
		t.Error("second Leave should be a no-op")
	}
}

func TestGameOverUpsell(t *testing.T) {
	s, _ := startedSession(t, "Ola", "Kari", "Nora")
	now := t0
	for s.Phase() != PhaseGameOver {
		if err := s.NextQuestionNow(now); err != nil {
			t.Fatalf("NextQuestionNow: %v", err)
		}
	}
	snap := s.Snapshot(now)
	if !snap.ShowUpsell {
		t.Error("standard game without unlock should show upsell")
	}
	if snap.Finale == nil {
		t.Fatal("gameover snapshot has no finale")
	}
	again := s.Snapshot(now)
	if fmt.Sprint(snap.Finale) != fmt.Sprint(again.Finale) {
		t.Error("finale changed between reads")
	}
}

func TestResetToLobby(t *testing.T) {
	s := newTestSession(t, 3)
	tok := joinAll(t, s, "Ola", "Kari", "Nora")
	paid := unlockSession(t, s)
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.SubmitVote(tok[0], "Kari"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EndVoting(t0); err != nil {
		t.Fatal(err)
	}

	s.ResetToLobby()
	snap := s.Snapshot(t0)
	if snap.Phase != PhaseLobby || len(snap.Players) != 3 {
		t.Fatalf("phase %q with %d players, want lobby with 3", snap.Phase, len(snap.Players))
	}
	for _, p := range snap.Players {
		if p.Wins != 0 || p.HasVoted {
			t.Errorf("%s kept round state: %+v", p.Name, p)
		}
	}
	if snap.TotalQuestions != 0 || snap.Reveal != nil {
		t.Error("round state survived soft reset")
	}
	if !s.ValidateToken(tok[0]).Valid {
		t.Error("soft reset invalidated a token")
	}
	if !s.UnlockedUntil().Equal(paid) {
		t.Errorf("unlock window %v, want %v", s.UnlockedUntil(), paid)
	}
}

func TestResetGame(t *testing.T) {
	s := newTestSession(t, 3)
	tok := joinAll(t, s, "Ola", "Kari", "Nora")
	paid := unlockSession(t, s)
	if err := s.SetSettings("drøy", true); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.ResetGame()
	snap := s.Snapshot(t0)
	if snap.Phase != PhaseLobby || len(snap.Players) != 0 {
		t.Fatalf("phase %q with %d players, want empty lobby", snap.Phase, len(snap.Players))
	}
	if s.ValidateToken(tok[0]).Valid {
		t.Error("hard reset kept tokens")
	}
	if snap.Settings != (SettingsView{Tone: questions.ToneMild, GameMode: questions.ModeStandard}) {
		t.Errorf("Settings %+v, want defaults", snap.Settings)
	}
	if !s.UnlockedUntil().Equal(paid) || !snap.Unlock.Unlocked {
		t.Error("hard reset dropped the unlock window")
	}
}

// unlockSession pays for the 18+ pack from the lobby and switches back to
// standard mode.
func unlockSession(t *testing.T, s *Session) time.Time {
	t.Helper()
	if err := s.SetGameMode("18+"); err != nil {
		t.Fatalf("SetGameMode: %v", err)
	}
	c, err := s.CreateCheckout(t0)
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if err := s.MarkPaid(c.ID, t0); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if err := s.SetGameMode("standard"); err != nil {
		t.Fatalf("SetGameMode: %v", err)
	}
	return t0.Add(UnlockWindow)
}
