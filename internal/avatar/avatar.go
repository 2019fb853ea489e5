// Package avatar holds the fixed set of emoji avatars players pick from.
package avatar

import "math/rand"

// Avatar is one selectable player avatar.
type Avatar struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

var catalog = []Avatar{
	{ID: "fox", Emoji: "🦊", Label: "Rev"},
	{ID: "bear", Emoji: "🐻", Label: "Bjørn"},
	{ID: "cat", Emoji: "🐱", Label: "Katt"},
	{ID: "dog", Emoji: "🐶", Label: "Hund"},
	{ID: "frog", Emoji: "🐸", Label: "Frosk"},
	{ID: "penguin", Emoji: "🐧", Label: "Pingvin"},
	{ID: "owl", Emoji: "🦉", Label: "Ugle"},
	{ID: "moose", Emoji: "🫎", Label: "Elg"},
	{ID: "octopus", Emoji: "🐙", Label: "Blekksprut"},
	{ID: "unicorn", Emoji: "🦄", Label: "Enhjørning"},
	{ID: "ghost", Emoji: "👻", Label: "Spøkelse"},
	{ID: "alien", Emoji: "👽", Label: "Romvesen"},
	{ID: "robot", Emoji: "🤖", Label: "Robot"},
	{ID: "cowboy", Emoji: "🤠", Label: "Cowboy"},
	{ID: "troll", Emoji: "🧌", Label: "Troll"},
	{ID: "viking", Emoji: "🪓", Label: "Viking"},
}

var byID = func() map[string]Avatar {
	m := make(map[string]Avatar, len(catalog))
	for _, a := range catalog {
		m[a.ID] = a
	}
	return m
}()

// All returns a copy of the catalog in display order.
func All() []Avatar {
	return append([]Avatar(nil), catalog...)
}

// Lookup returns the avatar with the given id.
func Lookup(id string) (Avatar, bool) {
	a, ok := byID[id]
	return a, ok
}

// Valid reports whether id names a catalog avatar.
func Valid(id string) bool {
	_, ok := byID[id]
	return ok
}

// Random picks a uniformly random avatar id.
func Random(rng *rand.Rand) string {
	return catalog[rng.Intn(len(catalog))].ID
}
