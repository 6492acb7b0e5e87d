package wordset_client

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog serves word sets from memory and evaluates words locally.
// Used when no word-set service is reachable.
type Catalog struct {
	sets map[uuid.UUID]models.WordSet
}

type catalogFile struct {
	WordSets []models.WordSet `yaml:"word_sets"`
}

func NewCatalog(sets ...models.WordSet) *Catalog {
	c := &Catalog{sets: make(map[uuid.UUID]models.WordSet, len(sets))}
	for _, ws := range sets {
		c.sets[ws.ID] = ws
	}
	return c
}

// LoadCatalog reads word sets from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return NewCatalog(file.WordSets...), nil
}

func (c *Catalog) GetWordSet(_ context.Context, id uuid.UUID) (*models.WordSet, error) {
	ws, ok := c.sets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWordSetNotFound, id)
	}
	ws.Words = slices.Clone(ws.Words)
	return &ws, nil
}

// EvaluateWord matches when word is within fuzzyChars edits of any word in the set.
func (c *Catalog) EvaluateWord(_ context.Context, wordSetID uuid.UUID, word string, fuzzyChars int) (bool, error) {
	ws, ok := c.sets[wordSetID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrWordSetNotFound, wordSetID)
	}

	caser := cases.Lower(language.Und)
	candidate := []rune(caser.String(word))
	for _, w := range ws.Words {
		if editDistance(candidate, []rune(caser.String(w))) <= fuzzyChars {
			return true, nil
		}
	}
	return false, nil
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
