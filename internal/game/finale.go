package game

import (
	"math/rand"
	"sort"
)

// Award kinds in the finale.
const (
	AwardMostWins     = "most_wins"
	AwardMostVotes    = "most_votes"
	AwardFewestVotes  = "fewest_votes"
	AwardWildcard     = "wildcard"
	leaderboardLength = 3
)

// WildcardTitles are the labels a leftover player can be handed.
var WildcardTitles = []string{
	"Kveldens mysterium",
	"Stuas joker",
	"Den stille stormen",
	"Uoffisiell vinner",
	"Mest undervurdert",
	"Kveldens overraskelse",
}

// Award is one finale title.
type Award struct {
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Name     string `json:"name"`
	AvatarID string `json:"avatarId"`
	Value    int    `json:"value"`
}

// LeaderboardEntry is one row of the wins leaderboard.
type LeaderboardEntry struct {
	Name     string `json:"name"`
	AvatarID string `json:"avatarId"`
	Wins     int    `json:"wins"`
}

// Finale is the end-of-game summary.
type Finale struct {
	Awards      []Award            `json:"awards"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// summarize builds the finale from the round tallies. It only reads its
// inputs.
func summarize(roster []Player, wins, received map[string]int, rng *rand.Rand) Finale {
	f := Finale{Awards: []Award{}, Leaderboard: []LeaderboardEntry{}}
	if len(roster) == 0 {
		return f
	}
	awarded := make(map[string]bool)

	if p, n := extreme(roster, wins, true); n > 0 {
		f.Awards = append(f.Awards, Award{Kind: AwardMostWins, Title: "Flest seire", Name: p.Name, AvatarID: p.AvatarID, Value: n})
		awarded[p.Name] = true
	}
	if p, n := extreme(roster, received, true); n > 0 {
		f.Awards = append(f.Awards, Award{Kind: AwardMostVotes, Title: "Flest stemmer totalt", Name: p.Name, AvatarID: p.AvatarID, Value: n})
		awarded[p.Name] = true
	}
	if p, n := extreme(roster, received, false); !awarded[p.Name] {
		f.Awards = append(f.Awards, Award{Kind: AwardFewestVotes, Title: "Færrest stemmer", Name: p.Name, AvatarID: p.AvatarID, Value: n})
		awarded[p.Name] = true
	}

	var rest []Player
	for _, p := range roster {
		if !awarded[p.Name] {
			rest = append(rest, p)
		}
	}
	if len(rest) > 0 {
		title := WildcardTitles[rng.Intn(len(WildcardTitles))]
		p := rest[rng.Intn(len(rest))]
		f.Awards = append(f.Awards, Award{Kind: AwardWildcard, Title: title, Name: p.Name, AvatarID: p.AvatarID})
	}

	board := make([]LeaderboardEntry, 0, len(roster))
	for _, p := range roster {
		board = append(board, LeaderboardEntry{Name: p.Name, AvatarID: p.AvatarID, Wins: wins[p.Name]})
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Wins > board[j].Wins })
	if len(board) > leaderboardLength {
		board = board[:leaderboardLength]
	}
	f.Leaderboard = board
	return f
}

// extreme returns the first roster player with the highest (or lowest)
// count.
func extreme(roster []Player, counts map[string]int, highest bool) (Player, int) {
	best, n := roster[0], counts[roster[0].Name]
	for _, p := range roster[1:] {
		c := counts[p.Name]
		if (highest && c > n) || (!highest && c < n) {
			best, n = p, c
		}
	}
	return best, n
}
