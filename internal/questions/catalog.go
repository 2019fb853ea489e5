// Package questions holds the embedded question catalog and the selection
// policy that turns session settings into a round of questions.
package questions

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

//go:embed data/catalog.json
var catalogFS embed.FS

// BiasJitter bounds the random perturbation added to the tone score when
// ordering questions for small and large groups. It is wider than one tone
// step so neighbouring tones interleave.
const BiasJitter = 1.5

// ErrInsufficientQuestions is returned when filtering leaves fewer
// questions than a round needs.
var ErrInsufficientQuestions = errors.New("not enough questions for the selected settings")

// Filter is the session configuration that decides the eligible pool.
type Filter struct {
	Mode        Mode
	Tone        Tone
	CouplesSafe bool
}

// Catalog is an immutable list of questions.
type Catalog struct {
	questions []Question
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	b, err := catalogFS.ReadFile("data/catalog.json")
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var qs []Question
	if err := json.Unmarshal(b, &qs); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewCatalog(qs)
}

// MustLoad is Load for package-level initialisation and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog validates qs and wraps them in a Catalog.
func NewCatalog(qs []Question) (*Catalog, error) {
	seen := make(map[string]bool, len(qs))
	out := make([]Question, 0, len(qs))
	for i, q := range qs {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return nil, fmt.Errorf("question %d: empty text", i)
		}
		tone, ok := ParseTone(string(q.Tone))
		if !ok {
			return nil, fmt.Errorf("question %d: unknown tone %q", i, q.Tone)
		}
		q.Tone = tone
		if q.Risk != RiskSafe && q.Risk != RiskBold {
			return nil, fmt.Errorf("question %d: unknown risk %q", i, q.Risk)
		}
		if q.Mode == "" {
			q.Mode = ModeStandard
		}
		mode, ok := ParseMode(string(q.Mode))
		if !ok {
			return nil, fmt.Errorf("question %d: unknown mode %q", i, q.Mode)
		}
		q.Mode = mode
		if seen[q.Text] {
			return nil, fmt.Errorf("question %d: duplicate text %q", i, q.Text)
		}
		seen[q.Text] = true
		out = append(out, q)
	}
	return &Catalog{questions: out}, nil
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Eligible returns the questions admitted by f, in catalog order.
//
// Standard mode applies the cumulative tone rule and, when CouplesSafe is
// set, keeps only safe questions. 18+ mode ignores tone and risk and draws
// from the restricted questions flagged as default-eligible.
func (c *Catalog) Eligible(f Filter) []Question {
	out := make([]Question, 0, len(c.questions))
	for _, q := range c.questions {
		if f.Mode == ModeAdult {
			if q.Mode == ModeAdult && q.Default {
				out = append(out, q)
			}
			continue
		}
		if q.Mode != ModeStandard || !f.Tone.Admits(q.Tone) {
			continue
		}
		if f.CouplesSafe && q.Risk != RiskSafe {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Select draws n question texts for a round. The pool is shuffled and, in
// standard mode, re-ordered by a soft tone preference for the group size.
func (c *Catalog) Select(f Filter, group GroupSize, n int, rng *rand.Rand) ([]string, error) {
	pool := c.Eligible(f)
	if len(pool) < n {
		return nil, fmt.Errorf("%w: %d eligible, %d needed", ErrInsufficientQuestions, len(pool), n)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if f.Mode != ModeAdult {
		pool = biasByGroup(pool, group, rng)
	}
	texts := make([]string, n)
	for i := range texts {
		texts[i] = pool[i].Text
	}
	return texts, nil
}

// biasByGroup nudges large groups toward intense questions and small groups
// toward mild ones. Medium groups keep the plain shuffle.
func biasByGroup(pool []Question, group GroupSize, rng *rand.Rand) []Question {
	var dir float64
	switch group {
	case GroupLarge:
		dir = 1
	case GroupSmall:
		dir = -1
	default:
		return pool
	}
	type scored struct {
		q     Question
		score float64
	}
	ranked := make([]scored, len(pool))
	for i, q := range pool {
		ranked[i] = scored{q: q, score: dir*float64(q.Tone.Intensity()) + rng.Float64()*BiasJitter}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	out := make([]Question, len(ranked))
	for i, r := range ranked {
		out[i] = r.q
	}
	return out
}
