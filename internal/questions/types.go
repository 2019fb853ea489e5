package questions

import "strings"

// Tone is the intensity level of a question.
type Tone string

const (
	ToneMild  Tone = "mild"
	ToneSpicy Tone = "spicy"
	ToneDroy  Tone = "drøy"
)

// ParseTone accepts a tone name, tolerating the ASCII spelling "droy".
func ParseTone(s string) (Tone, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return ToneMild, true
	case "spicy":
		return ToneSpicy, true
	case "drøy", "droy":
		return ToneDroy, true
	}
	return "", false
}

// Intensity ranks tones from 0 (mild) to 2 (drøy).
func (t Tone) Intensity() int {
	switch t {
	case ToneSpicy:
		return 1
	case ToneDroy:
		return 2
	default:
		return 0
	}
}

// Admits reports whether a session set to t may draw a question of tone q.
// Tones are cumulative: spicy admits mild, drøy admits everything.
func (t Tone) Admits(q Tone) bool {
	return q.Intensity() <= t.Intensity()
}

// Risk marks whether a question is safe to ask couples in front of each other.
type Risk string

const (
	RiskSafe Risk = "safe"
	RiskBold Risk = "bold"
)

// Mode selects between the standard catalog and the restricted 18+ pack.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeAdult    Mode = "18+"
)

// ParseMode accepts "standard" or "18+" (also "adult").
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return ModeStandard, true
	case "18+", "adult":
		return ModeAdult, true
	}
	return "", false
}

// GroupSize buckets the player count for pacing and question bias.
type GroupSize string

const (
	GroupSmall  GroupSize = "small"
	GroupMedium GroupSize = "medium"
	GroupLarge  GroupSize = "large"
)

// Group size thresholds.
const (
	SmallGroupMax  = 6
	MediumGroupMax = 9
)

// GroupSizeFor maps a player count to its bucket.
func GroupSizeFor(players int) GroupSize {
	switch {
	case players <= SmallGroupMax:
		return GroupSmall
	case players <= MediumGroupMax:
		return GroupMedium
	default:
		return GroupLarge
	}
}

// Question is one catalog entry.
type Question struct {
	Text     string `json:"text"`
	Tone     Tone   `json:"tone"`
	Risk     Risk   `json:"risk"`
	Category string `json:"category"`
	Mode     Mode   `json:"mode"`
	// Default marks restricted-pack questions eligible for the 18+ round.
	Default bool `json:"default"`
}
