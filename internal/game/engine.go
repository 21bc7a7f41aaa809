// internal/game/engine.go
//
// Game session for one Wordle round.
// Responsibilities:
//   - Fix the secret word, word length and turn limit at construction.
//   - Validate and score guesses, appending each to an ordered history.
//   - Report turn progression: playing → won/lost.
//
// Notes:
//   - Dictionary membership is not checked here; callers layer a word
//     checker on top (see package words).
//   - A Game is not safe for concurrent use. Callers sharing one instance
//     must serialise SubmitGuess.
package game

import (
	"slices"
	"strings"
)

const (
	DefaultWordLength = 5
	DefaultTurns      = 6
)

// Game holds the state of a single Wordle round.
type Game struct {
	secret  string
	length  int
	turns   int
	history []Guess
}

// Option configures a Game at construction.
type Option func(*Game)

// WithTurns sets the turn limit. It must be positive.
func WithTurns(n int) Option { return func(g *Game) { g.turns = n } }

// WithWordLength sets the required word length. It must be positive.
func WithWordLength(n int) Option { return func(g *Game) { g.length = n } }

// New constructs a game around secret. The secret is trimmed and lowercased,
// then must have exactly the configured word length (DefaultWordLength unless
// overridden). On error no game is returned.
func New(secret string, opts ...Option) (*Game, error) {
	g := &Game{
		secret: normalize(secret),
		length: DefaultWordLength,
		turns:  DefaultTurns,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.turns <= 0 {
		return nil, invalidSetting("turns", g.turns)
	}
	if g.length <= 0 {
		return nil, invalidSetting("word_length", g.length)
	}
	if err := g.CheckLength(g.secret); err != nil {
		return nil, err
	}
	return g, nil
}

// SubmitGuess scores word against the secret and appends the result.
//
// Validation order:
//   - TurnsExhausted once the history holds Turns() guesses.
//   - InvalidLength when word does not have WordLength() letters.
//
// On error the history is unchanged.
func (g *Game) SubmitGuess(word string) (Guess, error) {
	if g.Exhausted() {
		return Guess{}, turnsExhausted(g.turns)
	}
	word = normalize(word)
	if err := g.CheckLength(word); err != nil {
		return Guess{}, err
	}
	guess, err := NewGuess(word, g.secret)
	if err != nil {
		return Guess{}, err
	}
	g.history = append(g.history, guess)
	return guess.clone(), nil
}

// CheckLength returns ErrInvalidLength unless word (after normalisation) has
// the game's word length. It does not touch game state.
func (g *Game) CheckLength(word string) error {
	word = normalize(word)
	if n := len([]rune(word)); n != g.length {
		return invalidLength(word, g.length, n)
	}
	return nil
}

func (g *Game) Secret() string  { return g.secret }
func (g *Game) WordLength() int { return g.length }
func (g *Game) Turns() int      { return g.turns }

// History returns a deep copy of the guesses made so far, in submission order.
func (g *Game) History() []Guess {
	out := make([]Guess, len(g.history))
	for i, guess := range g.history {
		out[i] = guess.clone()
	}
	return out
}

// Remaining is the number of guesses still accepted.
func (g *Game) Remaining() int { return g.turns - len(g.history) }

// Exhausted reports whether the turn limit has been reached.
func (g *Game) Exhausted() bool { return len(g.history) >= g.turns }

// Solved reports whether any guess so far matched the secret.
func (g *Game) Solved() bool {
	for _, guess := range g.history {
		if guess.Solved() {
			return true
		}
	}
	return false
}

// State reports won once solved, lost once exhausted without a solve, and
// playing otherwise.
func (g *Game) State() State {
	switch {
	case g.Solved():
		return StateWon
	case g.Exhausted():
		return StateLost
	default:
		return StatePlaying
	}
}

func (g Guess) clone() Guess {
	g.Marks = slices.Clone(g.Marks)
	return g
}

func normalize(w string) string { return strings.ToLower(strings.TrimSpace(w)) }
