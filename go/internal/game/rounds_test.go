package game

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func testWordSet(words ...string) models.WordSet {
	return models.WordSet{ID: uuid.New(), Name: "test", Words: words}
}

func TestNewRoundEngine_Validation(t *testing.T) {
	tests := []struct {
		name    string
		words   []string
		min     int
		max     int
		wantErr bool
		wantMax int
	}{
		{name: "fits", words: []string{"cat", "dog"}, min: 2, max: 2, wantMax: 2},
		{name: "max clamped below longest", words: []string{"cat", "horse"}, min: 1, max: 10, wantMax: 4},
		{name: "min above longest", words: []string{"cat"}, min: 3, max: 5, wantErr: true},
		{name: "empty word set", words: nil, min: 1, max: 1, wantErr: true},
		{name: "whitespace only", words: []string{"   "}, min: 1, max: 1, wantErr: true},
		{name: "min above max", words: []string{"elephant"}, min: 4, max: 2, wantErr: true},
		{name: "zero min", words: []string{"elephant"}, min: 0, max: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewRoundEngine(testWordSet(tt.words...), tt.min, tt.max, seeded(1))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRoundSettings)
				return
			}
			require.NoError(t, err)
			_, gotMax := e.Bounds()
			assert.Equal(t, tt.wantMax, gotMax)
		})
	}
}

func TestRoundEngine_NewRoundProperties(t *testing.T) {
	words := []string{"cat", "dog", "bookkeeper", "ice cream", "Mississippi"}
	ws := testWordSet(words...)

	for seed := uint64(0); seed < 50; seed++ {
		e, err := NewRoundEngine(ws, 2, 6, seeded(seed))
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			round, err := e.NewRound()
			require.NoError(t, err)

			n := len(round.RequiredCharacters)
			assert.GreaterOrEqual(t, n, 2)
			assert.LessOrEqual(t, n, 6)
			assert.Equal(t, ws.ID, round.WordSetID)

			satisfiable := false
			for _, w := range words {
				if len(models.WordChars(w)) > n && ContainsRequired(w, round.RequiredCharacters) {
					satisfiable = true
					break
				}
			}
			assert.True(t, satisfiable, "round %q has no source word", string(round.RequiredCharacters))
		}
		assert.Equal(t, 20, e.Count())
	}
}

func TestRoundEngine_RoundsAppendInOrder(t *testing.T) {
	e, err := NewRoundEngine(testWordSet("cat", "dog"), 2, 2, seeded(7))
	require.NoError(t, err)
	assert.Nil(t, e.Current())

	first, err := e.NewRound()
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)
	assert.Same(t, first, e.Current())

	second, err := e.NewRound()
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)
	assert.Same(t, second, e.Current())
	assert.Len(t, e.Rounds(), 2)
}

func TestRoundEngine_DuplicateLettersPreserved(t *testing.T) {
	// only "aaaa" is long enough, so every draw is made of 'a'
	e, err := NewRoundEngine(testWordSet("aaaa", "b"), 3, 3, seeded(3))
	require.NoError(t, err)

	round, err := e.NewRound()
	require.NoError(t, err)
	assert.Equal(t, []rune("aaa"), round.RequiredCharacters)
	assert.Equal(t, []string{"a", "a", "a"}, round.RequiredStrings())
}

func TestRound_Complete(t *testing.T) {
	e, err := NewRoundEngine(testWordSet("cat"), 1, 1, seeded(1))
	require.NoError(t, err)
	round, err := e.NewRound()
	require.NoError(t, err)

	assert.False(t, round.IsCompletedBy("p1"))
	assert.Equal(t, 0, round.Complete("p1"))
	assert.Equal(t, 1, round.Complete("p2"))
	assert.True(t, round.IsCompletedBy("p1"))
	assert.Equal(t, 2, round.CompletedCount())
}
