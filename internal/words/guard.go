// internal/words/guard.go
//
// Gate between the dictionary and the game core.
//   - Submit checks length and dictionary membership before a guess costs a turn.
//   - CheckerFunc adapts a predicate to Checker.

package words

import (
	"github.com/samber/oops"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

// CheckerFunc adapts a plain predicate to Checker.
type CheckerFunc func(word string) bool

func (f CheckerFunc) IsAcceptable(word string) bool { return f(word) }

// Submit layers a dictionary check over g.SubmitGuess.
//
// While turns remain, a word of the wrong length fails with
// game.ErrInvalidLength and a word c rejects fails with ErrNotAcceptableWord;
// neither consumes a turn. Once turns are used up the game's own
// game.ErrTurnsExhausted is returned regardless of the word.
func Submit(g *game.Game, c Checker, word string) (game.Guess, error) {
	if !g.Exhausted() {
		if err := g.CheckLength(word); err != nil {
			return game.Guess{}, err
		}
		if !c.IsAcceptable(word) {
			return game.Guess{}, notAcceptable(word)
		}
	}
	return g.SubmitGuess(word)
}

func notAcceptable(w string) error {
	return oops.
		Code(CodeNotAcceptableWord).
		With("word", w).
		Wrapf(ErrNotAcceptableWord, "%q", normalize(w))
}
