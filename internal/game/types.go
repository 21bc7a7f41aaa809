// internal/game/types.go
//
// Core type definitions for the Wordle scoring core.
// Defines:
//   - Mark: per-letter classification of a guess (exact/present/absent).
//   - Guess: one scored submission.
//   - State: coarse session state reported to callers.

package game

import "fmt"

// Mark is the classification of a single letter in a guess.
// The set is closed: Absent, Present and Exact are the only values.
//   - Exact:   letter matches the secret at this position.
//   - Present: letter occurs elsewhere in the secret and an unclaimed occurrence remains.
//   - Absent:  letter does not correspond to any unclaimed occurrence.
type Mark uint8

const (
	Absent Mark = iota
	Present
	Exact
)

func (m Mark) String() string {
	switch m {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Exact:
		return "exact"
	}
	return fmt.Sprintf("Mark(%d)", uint8(m))
}

// MarshalText lets marks travel as "exact"/"present"/"absent" in JSON.
func (m Mark) MarshalText() ([]byte, error) {
	if m > Exact {
		return nil, fmt.Errorf("game: unknown mark %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names MarshalText produces.
func (m *Mark) UnmarshalText(b []byte) error {
	switch string(b) {
	case "absent":
		*m = Absent
	case "present":
		*m = Present
	case "exact":
		*m = Exact
	default:
		return fmt.Errorf("game: unknown mark %q", b)
	}
	return nil
}

// Guess is one scored submission. It is built once by NewGuess and never mutated.
type Guess struct {
	Word   string // the guessed word as scored
	Secret string // the secret it was scored against
	Marks  []Mark // index-aligned with Word, one entry per letter
}

// NewGuess scores word against secret.
func NewGuess(word, secret string) (Guess, error) {
	marks, err := Classify(word, secret)
	if err != nil {
		return Guess{}, err
	}
	return Guess{Word: word, Secret: secret, Marks: marks}, nil
}

// Solved reports whether every letter of the guess is Exact.
func (g Guess) Solved() bool { return Solved(g.Marks) }

// State is the coarse state of a Game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)
