package event

import (
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

const (
	pollQuestionLimit = 300
	pollNameLimit     = 100
	pollShortName     = 60
)

// truncate shortens s to at most n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// formatHours renders d in hours: "24h", or "1.5h" with up to two decimals.
func formatHours(d time.Duration) string {
	h := d.Hours()
	if h == math.Trunc(h) {
		return strconv.FormatInt(int64(h), 10) + "h"
	}
	return strconv.FormatFloat(math.Round(h*100)/100, 'f', -1, 64) + "h"
}
