package game

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marks builds a slice from a compact pattern: E=exact, P=present, A=absent.
func marks(pattern string) []Mark {
	out := make([]Mark, 0, len(pattern))
	for _, c := range pattern {
		switch c {
		case 'E':
			out = append(out, Exact)
		case 'P':
			out = append(out, Present)
		default:
			out = append(out, Absent)
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		guess  string
		want   string
	}{
		{"one letter off", "apple", "apply", "EEEEA"},
		{"no letters shared", "apple", "fjord", "AAAAA"},
		{"all misplaced", "apple", "pleat", "PPPPA"},
		{"repeated guess letter with exact later", "tapes", "guess", "AAPAE"},
		{"duplicates on both sides", "speed", "deeds", "PPEAP"},
		{"identical words", "crane", "crane", "EEEEE"},
		{"single secret letter credited once", "abcde", "eeeee", "AAAAE"},
		{"earliest duplicate wins present", "bread", "eerie", "PAPAA"},
		{"exact claims before earlier present", "lever", "eeeee", "AEAEA"},
		{"three letter words", "cat", "act", "PPE"},
		{"seven letter words", "letters", "settler", "PEEEPPP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.guess, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, marks(tt.want), got)
		})
	}
}

func TestClassifyLengthMismatch(t *testing.T) {
	got, err := Classify("apples", "apple")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.NotErrorIs(t, err, ErrTurnsExhausted)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidLength, oopsErr.Code())
}

func TestClassifyCountsRunesNotBytes(t *testing.T) {
	got, err := Classify("éa", "aé")
	require.NoError(t, err)
	assert.Equal(t, []Mark{Present, Present}, got)
}

func TestClassifyProperties(t *testing.T) {
	words := []string{"apple", "apply", "pleat", "fjord", "tapes", "guess", "speed", "deeds", "zesty", "llama", "eerie"}
	for _, secret := range words {
		for _, guess := range words {
			got, err := Classify(guess, secret)
			require.NoError(t, err)
			require.Len(t, got, len(secret))

			again, err := Classify(guess, secret)
			require.NoError(t, err)
			assert.Equal(t, got, again, "classify must be deterministic")

			for i, m := range got {
				if m == Exact {
					assert.Equal(t, secret[i], guess[i])
				}
			}

			// A letter is credited at most as often as it occurs in the secret.
			credited := map[byte]int{}
			for i, m := range got {
				if m != Absent {
					credited[guess[i]]++
				}
			}
			for letter, n := range credited {
				assert.LessOrEqual(t, n, strings.Count(secret, string(letter)),
					"letter %q over-credited for %s/%s", letter, guess, secret)
			}
		}
		self, err := Classify(secret, secret)
		require.NoError(t, err)
		assert.True(t, Solved(self))
	}
}

func TestClassifyConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := Classify("deeds", "speed")
				if assert.NoError(t, err) {
					assert.Equal(t, marks("PPEAP"), got)
				}
			}
		}()
	}
	wg.Wait()
}

func TestSolved(t *testing.T) {
	assert.False(t, Solved(nil))
	assert.False(t, Solved(marks("EEEEA")))
	assert.True(t, Solved(marks("EEEEE")))
}

func TestMarkText(t *testing.T) {
	for m, want := range map[Mark]string{Absent: "absent", Present: "present", Exact: "exact"} {
		b, err := m.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(b))
	}
	_, err := Mark(7).MarshalText()
	assert.Error(t, err)
}

func TestMarkJSON(t *testing.T) {
	in := []Mark{Exact, Present, Absent}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `["exact","present","absent"]`, string(b))

	var out []Mark
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var m Mark
	assert.Error(t, m.UnmarshalText([]byte("green")))
	assert.Error(t, json.Unmarshal([]byte(`["Exact"]`), &out))
}
