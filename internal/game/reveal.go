package game

import (
	"math"
	"math/rand"
	"sort"

	"github.com/langaas500/Hvemistua/internal/questions"
)

// RerollReason explains why the reveal overrode the naive winner.
type RerollReason string

const (
	RerollCooldown     RerollReason = "cooldown"
	RerollOverTargeted RerollReason = "over-targeted"
)

// Reroll records an override of the provisional winner.
type Reroll struct {
	Reason   RerollReason `json:"reason"`
	Original string       `json:"original"`
	Final    string       `json:"final"`
}

// VoteCount is one player's tally for a question.
type VoteCount struct {
	Name       string `json:"name"`
	AvatarID   string `json:"avatarId"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// OthersBucket aggregates everyone outside the condensed top list.
type OthersBucket struct {
	Players    int `json:"players"`
	Votes      int `json:"votes"`
	Percentage int `json:"percentage"`
}

// Condensed is the large-group summary: top names plus an others bucket.
// It is presentation only.
type Condensed struct {
	Top    []VoteCount  `json:"top"`
	Others OthersBucket `json:"others"`
}

// RevealResult is the outcome of one question's vote.
type RevealResult struct {
	QuestionIndex  int         `json:"questionIndex"`
	Question       string      `json:"question"`
	Winner         string      `json:"winner"` // empty when nobody voted
	WinnerAvatarID string      `json:"winnerAvatarId"`
	Percentage     int         `json:"percentage"`
	MaxVotes       int         `json:"maxVotes"`
	TotalVotes     int         `json:"totalVotes"`
	Counts         []VoteCount `json:"counts"`
	Reroll         *Reroll     `json:"reroll,omitempty"`
	Condensed      *Condensed  `json:"condensed,omitempty"`
}

// condensedTop is how many names the large-group summary lists.
const condensedTop = 3

// fairness is the anti-repetition history of the current round.
type fairness struct {
	lastWinner    string
	recentWinners []string
	recentTargets map[string]int
}

func (f *fairness) reset() {
	f.lastWinner = ""
	f.recentWinners = nil
	f.recentTargets = make(map[string]int)
}

func (f *fairness) record(winner string, ringCap int) {
	f.lastWinner = winner
	f.recentWinners = append(f.recentWinners, winner)
	if ringCap > 0 && len(f.recentWinners) > ringCap {
		f.recentWinners = append([]string(nil), f.recentWinners[len(f.recentWinners)-ringCap:]...)
	}
	f.recentTargets[winner]++
}

// revealInput is everything the engine reads. It never mutates it.
type revealInput struct {
	votes      map[string]string // token -> voted-for name
	roster     []Player
	lastWinner string
	targets    map[string]int
	remaining  int // questions left after this one
	group      questions.GroupSize
	rules      Rules
}

// computeReveal tallies votes and picks the winner, applying the cooldown
// and over-targeted rerolls. Ties are broken with rng.
func computeReveal(in revealInput, rng *rand.Rand) RevealResult {
	counts := make(map[string]int, len(in.roster))
	for _, p := range in.roster {
		counts[p.Name] = 0
	}
	total := 0
	for _, target := range in.votes {
		if _, ok := counts[target]; ok {
			counts[target]++
			total++
		}
	}

	res := RevealResult{TotalVotes: total, Counts: make([]VoteCount, 0, len(in.roster))}
	for _, p := range in.roster {
		res.Counts = append(res.Counts, VoteCount{
			Name:       p.Name,
			AvatarID:   p.AvatarID,
			Votes:      counts[p.Name],
			Percentage: percent(counts[p.Name], total),
		})
		if counts[p.Name] > res.MaxVotes {
			res.MaxVotes = counts[p.Name]
		}
	}
	if in.group == questions.GroupLarge {
		res.Condensed = condense(res.Counts, total)
	}
	if total == 0 {
		return res
	}

	var top, near []string
	for _, c := range res.Counts {
		switch c.Votes {
		case res.MaxVotes:
			top = append(top, c.Name)
		case res.MaxVotes - 1:
			near = append(near, c.Name)
		}
	}

	winner := top[rng.Intn(len(top))]
	if winner == in.lastWinner && len(top) > 1 {
		rest := without(top, winner)
		final := rest[rng.Intn(len(rest))]
		res.Reroll = &Reroll{Reason: RerollCooldown, Original: winner, Final: final}
		winner = final
	} else if overTargeted(in, winner, total) {
		if rest := without(near, winner); len(rest) > 0 {
			final := rest[rng.Intn(len(rest))]
			res.Reroll = &Reroll{Reason: RerollOverTargeted, Original: winner, Final: final}
			winner = final
		}
	}

	res.Winner = winner
	res.Percentage = percent(res.MaxVotes, total)
	for _, p := range in.roster {
		if p.Name == winner {
			res.WinnerAvatarID = p.AvatarID
		}
	}
	return res
}

func overTargeted(in revealInput, winner string, total int) bool {
	return total >= in.rules.OverTargetMinVotes &&
		in.remaining >= in.rules.OverTargetMinRemaining &&
		in.targets[winner] >= in.rules.OverTargetThreshold
}

func condense(counts []VoteCount, total int) *Condensed {
	sorted := append([]VoteCount(nil), counts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Votes > sorted[j].Votes })
	n := condensedTop
	if n > len(sorted) {
		n = len(sorted)
	}
	c := &Condensed{Top: sorted[:n]}
	for _, rest := range sorted[n:] {
		c.Others.Players++
		c.Others.Votes += rest.Votes
	}
	c.Others.Percentage = percent(c.Others.Votes, total)
	return c
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func without(names []string, drop string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}
