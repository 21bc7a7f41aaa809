// internal/game/classify.go
//
// Two-pass Wordle classification.
//
// Pass 1:
//   - Mark exact matches as Exact.
//   - Count the remaining (non-exact) secret letters.
//
// Pass 2:
//   - For each non-exact guess letter, left to right: if an unclaimed occurrence
//     remains, mark Present and claim it; otherwise leave Absent.
//
// Scan order decides which duplicate is credited: with one "e" in the secret and
// two in the guess, only the earlier non-exact "e" can be Present.

package game

// Classify scores guess against secret and returns one Mark per letter.
// Both words must have the same number of letters; otherwise it returns
// ErrInvalidLength. Letters are compared as runes, case-sensitively.
func Classify(guess, secret string) ([]Mark, error) {
	g, s := []rune(guess), []rune(secret)
	if len(g) != len(s) {
		return nil, invalidLength(guess, len(s), len(g))
	}

	// Zero value is Absent.
	marks := make([]Mark, len(g))

	// Unclaimed secret letters, scoped to this call.
	left := make(map[rune]int, len(s))
	for i := range g {
		if g[i] == s[i] {
			marks[i] = Exact
			continue
		}
		left[s[i]]++
	}

	for i := range g {
		if marks[i] == Exact {
			continue
		}
		if left[g[i]] > 0 {
			marks[i] = Present
			left[g[i]]--
		}
	}
	return marks, nil
}

// Solved reports whether marks is non-empty and all Exact.
func Solved(marks []Mark) bool {
	if len(marks) == 0 {
		return false
	}
	for _, m := range marks {
		if m != Exact {
			return false
		}
	}
	return true
}
