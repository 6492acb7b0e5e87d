package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/mcdev12/vocabversus/go/internal/models"
)

// Round is one issuance of required characters. Its characters never change
// after creation; only the completion set grows.
type Round struct {
	Number             int
	WordSetID          uuid.UUID
	RequiredCharacters []rune
	completed          map[string]struct{}
}

// IsCompletedBy reports whether the player already completed this round.
func (r *Round) IsCompletedBy(playerID string) bool {
	_, ok := r.completed[playerID]
	return ok
}

func (r *Round) CompletedCount() int {
	return len(r.completed)
}

// Complete marks the player as done and returns how many players completed the
// round before them.
func (r *Round) Complete(playerID string) int {
	prior := len(r.completed)
	r.completed[playerID] = struct{}{}
	return prior
}

// RequiredStrings returns the required characters as single-character strings.
func (r *Round) RequiredStrings() []string {
	out := make([]string, len(r.RequiredCharacters))
	for i, c := range r.RequiredCharacters {
		out[i] = string(c)
	}
	return out
}

// RoundEngine generates the append-only sequence of rounds for one instance.
type RoundEngine struct {
	wordSet  models.WordSet
	minChars int
	maxChars int
	rng      *rand.Rand
	rounds   []*Round
}

// NewRoundEngine validates that every character count in [minChars, maxChars]
// can be served by the word set. maxChars is clamped so that at least one word
// is strictly longer than it.
func NewRoundEngine(wordSet models.WordSet, minChars, maxChars int, rng *rand.Rand) (*RoundEngine, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	longest := wordSet.LongestWordLength()
	if longest-1 < maxChars {
		maxChars = longest - 1
	}
	if minChars < 1 || minChars > maxChars {
		return nil, fmt.Errorf("%w: no word in set %s serves %d..%d required characters",
			ErrInvalidRoundSettings, wordSet.ID, minChars, maxChars)
	}

	return &RoundEngine{
		wordSet:  wordSet,
		minChars: minChars,
		maxChars: maxChars,
		rng:      rng,
	}, nil
}

// NewRound appends a round whose characters are drawn from distinct positions
// of one randomly chosen word that is longer than the drawn count.
func (e *RoundEngine) NewRound() (*Round, error) {
	count := e.minChars + e.rng.IntN(e.maxChars-e.minChars+1)

	var candidates [][]rune
	for _, word := range e.wordSet.Words {
		if chars := models.WordChars(word); len(chars) > count {
			candidates = append(candidates, chars)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: count %d", ErrNoFeasibleWord, count)
	}

	chars := candidates[e.rng.IntN(len(candidates))]
	positions := e.rng.Perm(len(chars))[:count]
	required := make([]rune, count)
	for i, pos := range positions {
		required[i] = chars[pos]
	}

	round := &Round{
		Number:             len(e.rounds) + 1,
		WordSetID:          e.wordSet.ID,
		RequiredCharacters: required,
		completed:          make(map[string]struct{}),
	}
	e.rounds = append(e.rounds, round)
	return round, nil
}

// Current returns the most recently appended round, or nil before the first.
func (e *RoundEngine) Current() *Round {
	if len(e.rounds) == 0 {
		return nil
	}
	return e.rounds[len(e.rounds)-1]
}

func (e *RoundEngine) Rounds() []*Round {
	return e.rounds
}

func (e *RoundEngine) Count() int {
	return len(e.rounds)
}

func (e *RoundEngine) WordSetID() uuid.UUID {
	return e.wordSet.ID
}

// Bounds returns the effective character count range after clamping.
func (e *RoundEngine) Bounds() (int, int) {
	return e.minChars, e.maxChars
}
