package models

import (
	"unicode"

	"github.com/google/uuid"
)

// WordSet is a named collection of candidate words used to generate rounds.
type WordSet struct {
	ID    uuid.UUID `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Words []string  `json:"words" yaml:"words"`
}

// LongestWordLength returns the largest non-whitespace character count of any word.
func (w WordSet) LongestWordLength() int {
	longest := 0
	for _, word := range w.Words {
		if n := len(WordChars(word)); n > longest {
			longest = n
		}
	}
	return longest
}

// WordChars returns the non-whitespace characters of a word.
func WordChars(word string) []rune {
	chars := make([]rune, 0, len(word))
	for _, r := range word {
		if !unicode.IsSpace(r) {
			chars = append(chars, r)
		}
	}
	return chars
}
