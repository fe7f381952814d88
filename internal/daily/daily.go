package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// MaxAttempts is the number of guesses a player gets per daily word.
const MaxAttempts = 6

// Hints are revealed once more than hintStart guesses have failed.
const (
	hintStart = 2
	maxHints  = 2
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayNumber returns the 1-based day index of t counted from epoch (both in UTC).
// Days before the epoch return 0.
func DayNumber(t, epoch time.Time) int {
	day := func(x time.Time) time.Time {
		x = x.UTC()
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
	}
	d := int(day(t).Sub(day(epoch)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d + 1
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	dk := DateKey(date)
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dk))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Hint returns the revealed prefix of answer after failed wrong guesses:
// nothing for the first two misses, then one more letter per miss, up to two.
func Hint(answer string, failed int) string {
	n := failed - hintStart
	if n <= 0 {
		return ""
	}
	if n > maxHints {
		n = maxHints
	}
	if n > len(answer) {
		n = len(answer)
	}
	return answer[:n]
}
