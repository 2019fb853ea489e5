package game

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Player is a joined participant. Names are unique ignoring case.
type Player struct {
	Name     string `json:"name"`
	AvatarID string `json:"avatarId"`
}

// registry maps opaque tokens to players and keeps the roster in join order.
type registry struct {
	players []Player
	tokens  map[string]string // token -> name
}

func newRegistry() registry {
	return registry{tokens: make(map[string]string)}
}

func (r *registry) len() int {
	return len(r.players)
}

func (r *registry) roster() []Player {
	return append([]Player(nil), r.players...)
}

// indexOf finds a player by name, ignoring case.
func (r *registry) indexOf(name string) int {
	key := foldName(name)
	for i, p := range r.players {
		if foldName(p.Name) == key {
			return i
		}
	}
	return -1
}

func (r *registry) byToken(token string) (Player, int, bool) {
	name, ok := r.tokens[token]
	if !ok {
		return Player{}, -1, false
	}
	i := r.indexOf(name)
	if i < 0 {
		return Player{}, -1, false
	}
	return r.players[i], i, true
}

func (r *registry) add(name, avatarID string) string {
	var token string
	for {
		token = uuid.NewString()
		if _, exists := r.tokens[token]; !exists {
			break
		}
	}
	r.players = append(r.players, Player{Name: name, AvatarID: avatarID})
	r.tokens[token] = name
	return token
}

func (r *registry) remove(token string) (Player, bool) {
	p, i, ok := r.byToken(token)
	if !ok {
		delete(r.tokens, token)
		return Player{}, false
	}
	r.players = append(r.players[:i], r.players[i+1:]...)
	delete(r.tokens, token)
	return p, true
}

func (r *registry) setAvatar(i int, avatarID string) {
	r.players[i].AvatarID = avatarID
}

func (r *registry) clear() {
	r.players = nil
	r.tokens = make(map[string]string)
}

// normalizeName trims, composes and truncates a display name to max runes.
func normalizeName(raw string, max int) string {
	name := norm.NFC.String(strings.TrimSpace(raw))
	name = strings.Join(strings.Fields(name), " ")
	if runes := []rune(name); max > 0 && len(runes) > max {
		name = strings.TrimSpace(string(runes[:max]))
	}
	return name
}

// foldName is the comparison key for case-insensitive name uniqueness.
func foldName(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}
