package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

var testWords = []string{"apple", "apply", "tapes", "guess", "speed", "deeds", "zesty", "pleat", "fjord"}

func writeList(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	d, err := Load(Options{})
	require.NoError(t, err)

	answers, allowed := d.Stats()
	assert.Positive(t, answers)
	assert.GreaterOrEqual(t, allowed, answers)
	assert.True(t, d.IsAnswer("apple"))
	assert.True(t, d.IsAcceptable("adieu"), "extra guesses are acceptable")
	assert.False(t, d.IsAnswer("adieu"), "extra guesses are not answers")
	assert.Equal(t, game.DefaultWordLength, d.Length())
}

func TestLoadBothFiles(t *testing.T) {
	ans := writeList(t, "answers.txt", "Apple\n# comment\n\nspeed\nbanana\n")
	all := writeList(t, "allowed.txt", "fjord\nab1de\n")

	d, err := Load(Options{AnswersFile: ans, AllowedFile: all})
	require.NoError(t, err)

	assert.Equal(t, []string{"apple", "speed"}, d.Answers())
	assert.True(t, d.IsAcceptable("fjord"))
	assert.True(t, d.IsAcceptable("APPLE"))
	assert.False(t, d.IsAcceptable("banana"), "wrong length dropped")
	assert.False(t, d.IsAcceptable("ab1de"), "non-letters dropped")
}

func TestLoadAllowedOnly(t *testing.T) {
	all := writeList(t, "allowed.txt", "fjord\npleat\n")
	d, err := Load(Options{AllowedFile: all})
	require.NoError(t, err)
	assert.Equal(t, []string{"fjord", "pleat"}, d.Answers())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(Options{AllowedFile: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)

	empty := writeList(t, "allowed.txt", "banana\n")
	_, err = Load(Options{AllowedFile: empty})
	assert.Error(t, err)
}

func TestLoadCustomLength(t *testing.T) {
	all := writeList(t, "allowed.txt", "banana\napple\nbandit\n")
	d, err := Load(Options{AllowedFile: all, Length: 6})
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "bandit"}, d.Answers())
}

func TestValidate(t *testing.T) {
	d := FromLists(testWords, nil, 5)

	assert.NoError(t, d.Validate("apple"))

	err := d.Validate("zzzzz")
	require.ErrorIs(t, err, ErrNotAcceptableWord)
	assert.NotErrorIs(t, err, game.ErrInvalidLength)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotAcceptableWord, oopsErr.Code())
}

func TestRandomAnswer(t *testing.T) {
	d := FromLists(testWords, nil, 5)
	for i := 0; i < 20; i++ {
		assert.True(t, d.IsAnswer(d.RandomAnswer()))
	}
	assert.Equal(t, "", FromLists(nil, nil, 5).RandomAnswer())
}

func TestAnswersIsACopy(t *testing.T) {
	d := FromLists([]string{"apple", "apple", "speed"}, nil, 5)
	a := d.Answers()
	require.Equal(t, []string{"apple", "speed"}, a)
	a[0] = "zzzzz"
	assert.Equal(t, "apple", d.Answers()[0])
}

func TestSubmit(t *testing.T) {
	d := FromLists(testWords, nil, 5)

	g, err := game.New("apple", game.WithTurns(2))
	require.NoError(t, err)

	_, err = Submit(g, d, "bbbbb")
	assert.ErrorIs(t, err, ErrNotAcceptableWord)
	_, err = Submit(g, d, "banana")
	assert.ErrorIs(t, err, game.ErrInvalidLength)
	assert.Empty(t, g.History(), "rejected words do not consume turns")

	guess, err := Submit(g, d, "apply")
	require.NoError(t, err)
	assert.Equal(t, "apply", guess.Word)

	_, err = Submit(g, d, "fjord")
	require.NoError(t, err)

	_, err = Submit(g, d, "bbbbb")
	assert.ErrorIs(t, err, game.ErrTurnsExhausted)
	assert.Len(t, g.History(), 2)
}

func TestSubmitWithCheckerFunc(t *testing.T) {
	g, err := game.New("apple")
	require.NoError(t, err)

	onlyApple := CheckerFunc(func(w string) bool { return w == "apple" })
	_, err = Submit(g, onlyApple, "apply")
	assert.ErrorIs(t, err, ErrNotAcceptableWord)

	guess, err := Submit(g, onlyApple, "apple")
	require.NoError(t, err)
	assert.True(t, guess.Solved())
}
