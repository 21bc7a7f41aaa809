// internal/words/words.go
//
// Word list management: the "is this an acceptable word" collaborator that
// callers layer on top of the game core.
//
// Responsibilities:
//   - Load answer and allowed guess lists from files or fall back to embedded defaults.
//   - Maintain sets for quick lookups (answers only, answers ∪ guesses).
//   - Supply RandomAnswer, IsAcceptable, Validate, IsAnswer and Stats.
//
// Word Lists:
//   - "answers": canonical solutions.
//   - "allowed": valid guesses (always includes answers).
//
// Load behavior:
//   1. AnswersFile and AllowedFile both set: answers from the first, extra guesses from the second.
//   2. Only AllowedFile set: that file serves as both lists.
//   3. Neither set: embedded defaults from package assets.
//
// Constraints:
//   • Words are kept only if they have exactly Options.Length letters a–z.
//   • Lists are normalized to lowercase.

package words

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/oops"

	"github.com/robalobadob/wordle/apps/wordle-core/assets"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

// ErrNotAcceptableWord is returned by Validate for words outside the allowed set.
var ErrNotAcceptableWord = errors.New("not in word list")

const CodeNotAcceptableWord = "NOT_ACCEPTABLE_WORD"

// Checker is the membership predicate consumers depend on.
type Checker interface {
	IsAcceptable(word string) bool
}

// Options selects where word lists come from.
type Options struct {
	AnswersFile string
	AllowedFile string
	Length      int // defaults to game.DefaultWordLength
}

// Dictionary is an immutable pair of answer list and allowed set.
// It is safe for concurrent use.
type Dictionary struct {
	length     int
	answers    []string
	answerSet  map[string]struct{}
	allowedSet map[string]struct{}
}

// Load builds a Dictionary from opts. It fails if no answers survive filtering.
func Load(opts Options) (*Dictionary, error) {
	if opts.Length <= 0 {
		opts.Length = game.DefaultWordLength
	}

	var ansList, allowList []string
	var err error
	switch {
	case opts.AnswersFile != "" && opts.AllowedFile != "":
		if ansList, err = readWordFile(opts.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}
	case opts.AllowedFile != "":
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList
	default:
		if ansList, err = assets.AnswersList(); err != nil {
			return nil, oops.With("list", "answers").Wrap(err)
		}
		if allowList, err = assets.AllowedList(); err != nil {
			return nil, oops.With("list", "allowed").Wrap(err)
		}
	}

	d := FromLists(ansList, allowList, opts.Length)
	if len(d.answers) == 0 {
		return nil, oops.
			With("answers_file", opts.AnswersFile, "length", opts.Length).
			Errorf("words: answers list is empty")
	}
	a, g := d.Stats()
	log.Debug().Int("answers", a).Int("allowed", g).Int("length", d.length).Msg("word lists loaded")
	return d, nil
}

// FromLists builds a Dictionary from in-memory lists. Entries are normalized
// and those without exactly length letters a–z are dropped. Answers are always
// acceptable guesses.
func FromLists(answers, allowed []string, length int) *Dictionary {
	if length <= 0 {
		length = game.DefaultWordLength
	}
	d := &Dictionary{
		length:     length,
		answerSet:  make(map[string]struct{}, len(answers)),
		allowedSet: make(map[string]struct{}, len(answers)+len(allowed)),
	}
	for _, w := range answers {
		w = normalize(w)
		if !d.valid(w) {
			continue
		}
		if _, dup := d.answerSet[w]; !dup {
			d.answers = append(d.answers, w)
			d.answerSet[w] = struct{}{}
		}
		d.allowedSet[w] = struct{}{}
	}
	for _, w := range allowed {
		if w = normalize(w); d.valid(w) {
			d.allowedSet[w] = struct{}{}
		}
	}
	return d
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	defer f.Close()
	return assets.ReadWords(f)
}

func (d *Dictionary) valid(w string) bool { return len(w) == d.length && isAlpha(w) }

func normalize(w string) string { return strings.ToLower(strings.TrimSpace(w)) }

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Length is the word length every list entry has.
func (d *Dictionary) Length() int { return d.length }

// IsAcceptable reports whether w is a valid guess (answers ∪ guesses).
func (d *Dictionary) IsAcceptable(w string) bool {
	_, ok := d.allowedSet[normalize(w)]
	return ok
}

// Validate returns ErrNotAcceptableWord unless w is acceptable.
func (d *Dictionary) Validate(w string) error {
	if d.IsAcceptable(w) {
		return nil
	}
	return notAcceptable(w)
}

// IsAnswer reports whether w is an answer word.
func (d *Dictionary) IsAnswer(w string) bool {
	_, ok := d.answerSet[normalize(w)]
	return ok
}

// RandomAnswer returns a cryptographically random answer, or "" when the
// answer list is empty.
func (d *Dictionary) RandomAnswer() string {
	if len(d.answers) == 0 {
		return ""
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.answers))))
	if err != nil {
		log.Warn().Err(err).Msg("crypto/rand failed, using first answer")
		return d.answers[0]
	}
	return d.answers[n.Int64()]
}

// Answers returns a copy of the answer list in load order.
func (d *Dictionary) Answers() []string {
	return append([]string(nil), d.answers...)
}

// Stats returns counts of loaded words: (answers, allowed).
func (d *Dictionary) Stats() (answersCount int, allowedCount int) {
	return len(d.answers), len(d.allowedSet)
}
