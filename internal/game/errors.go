// internal/game/errors.go
//
// Error kinds raised by the scoring core.
//   - ErrInvalidLength:  guess or secret with the wrong number of letters.
//   - ErrTurnsExhausted: guess submitted after the turn limit.
//   - ErrInvalidTurns:   non-positive turn limit or word length at construction.
//
// Dictionary rejection (words.ErrNotAcceptableWord) belongs to the collaborator layer.

package game

import (
	"errors"

	"github.com/samber/oops"
)

// Error kinds. Each is matchable with errors.Is; the returned errors are oops
// errors that wrap one of these and carry a code plus context attributes.
var (
	ErrInvalidLength  = errors.New("invalid word length")
	ErrTurnsExhausted = errors.New("no more turns left")
	ErrInvalidTurns   = errors.New("invalid game settings")
)

const (
	CodeInvalidLength  = "INVALID_LENGTH"
	CodeTurnsExhausted = "TURNS_EXHAUSTED"
	CodeInvalidTurns   = "INVALID_TURNS"
)

func invalidLength(word string, want, got int) error {
	return oops.
		Code(CodeInvalidLength).
		With("word", word, "want", want, "got", got).
		Wrapf(ErrInvalidLength, "%q has %d letters, want %d", word, got, want)
}

func turnsExhausted(turns int) error {
	return oops.
		Code(CodeTurnsExhausted).
		With("turns", turns).
		Wrapf(ErrTurnsExhausted, "all %d turns used", turns)
}

func invalidSetting(name string, v int) error {
	return oops.
		Code(CodeInvalidTurns).
		With(name, v).
		Wrapf(ErrInvalidTurns, "%s must be positive, got %d", name, v)
}
