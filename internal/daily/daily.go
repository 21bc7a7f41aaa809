// Package daily picks the shared puzzle of the day.
//
// Every player sees the same secret for a UTC date: the word index is
// HMAC-SHA256(salt, "YYYY-MM-DD") reduced modulo the answer count, so the
// sequence is stable for a given salt but not guessable without it.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Puzzle is the daily secret for one date.
type Puzzle struct {
	Date      string `json:"date"`
	WordIndex int    `json:"wordIndex"`
	Answer    string `json:"-"`
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// For returns the puzzle for the date of t. With no answers the Answer is empty.
func For(t time.Time, salt string, answers []string) Puzzle {
	p := Puzzle{Date: DateKey(t)}
	if len(answers) == 0 {
		return p
	}
	p.WordIndex = WordIndex(t, salt, len(answers))
	p.Answer = answers[p.WordIndex]
	return p
}
