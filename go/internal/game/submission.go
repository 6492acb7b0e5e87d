package game

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcdev12/vocabversus/go/internal/models"
)

// Normalize lower-cases s for comparison.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ContainsRequired reports whether word holds every required character with at
// least the required multiplicity. Each match consumes one letter of the word.
func ContainsRequired(word string, required []rune) bool {
	pool := make(map[rune]int)
	for _, c := range []rune(Normalize(word)) {
		pool[c]++
	}
	for _, c := range []rune(Normalize(string(required))) {
		if pool[c] == 0 {
			return false
		}
		pool[c]--
	}
	return true
}

// Points scores a correct submission given how many players completed the
// round before it. The result is never below 1.
func Points(word string, previouslyCompleted int) int {
	return max(1, len(models.WordChars(word))*5-3*previouslyCompleted)
}
