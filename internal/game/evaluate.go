// internal/game/evaluate.go
//
// Guess evaluation for the daily word challenge and free play.
// Responsibilities:
//   - Format guard for raw player input (IsValidGuess).
//   - Two-pass scoring of a guess against an answer (EvaluateGuess).
//   - Combined evaluation + equality check (ProcessGuess).
//
// Dictionary membership is not checked here; see the words package.

package game

import (
	"strings"
	"unicode/utf8"
)

// Messages returned by IsValidGuess.
const (
	MsgMissingWord = "Please type a word before submitting."
	MsgOnlyLetters = "Only letters A-Z are allowed."
	MsgWrongLength = "The word must have exactly 5 letters."
)

// normalize trims surrounding whitespace and uppercases.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidGuess checks the shape of a raw guess: non-empty, unaccented A–Z
// only, and exactly WordLength letters once normalized.
func IsValidGuess(guess string) Validation {
	g := normalize(guess)
	if g == "" {
		return Validation{Error: MsgMissingWord}
	}
	for _, r := range g {
		if r < 'A' || r > 'Z' {
			return Validation{Error: MsgOnlyLetters}
		}
	}
	if utf8.RuneCountInString(g) != WordLength {
		return Validation{Error: MsgWrongLength}
	}
	return Validation{Valid: true}
}

// EvaluateGuess scores guess against answer using the two-pass algorithm.
//
// Pass 1:
//   - Mark exact matches as correct and consume one occurrence of that letter.
//
// Pass 2:
//   - For each remaining position: if the letter still has unconsumed
//     occurrences in the answer, mark present and consume one; otherwise absent.
//
// Marking exact matches first keeps a repeated letter from being reported
// more often than it occurs in the answer. Both inputs are uppercased; inputs
// are expected to be WordLength A–Z letters, anything else scores absent.
func EvaluateGuess(guess, answer string) Feedback {
	g := normalize(guess)
	a := normalize(answer)

	var res Feedback
	var counts [26]int
	for i := 0; i < len(a) && i < WordLength; i++ {
		if j := idx(a[i]); j >= 0 {
			counts[j]++
		}
	}

	// First pass: exact matches.
	for i := 0; i < WordLength; i++ {
		if i < len(g) && i < len(a) && g[i] == a[i] {
			res[i] = StateCorrect
			if j := idx(g[i]); j >= 0 {
				counts[j]--
			}
		}
	}

	// Second pass: present/absent for the rest.
	for i := 0; i < WordLength; i++ {
		if res[i] == StateCorrect {
			continue
		}
		j := -1
		if i < len(g) {
			j = idx(g[i])
		}
		if j >= 0 && counts[j] > 0 {
			res[i] = StatePresent
			counts[j]--
		} else {
			res[i] = StateAbsent
		}
	}
	return res
}

// ProcessGuess evaluates guess and reports whether it equals answer.
func ProcessGuess(guess, answer string) GuessResult {
	g := normalize(guess)
	return GuessResult{
		Guess:     g,
		Feedback:  EvaluateGuess(g, answer),
		IsCorrect: g == normalize(answer),
	}
}

// idx maps an uppercase ASCII letter to 0..25, or -1.
func idx(c byte) int {
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}
