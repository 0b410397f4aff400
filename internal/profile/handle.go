package profile

import (
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Handle pattern analysis — farms mint handles from templates, so shared
// stems and shapes across actors are a strong coordination signal.
// ---------------------------------------------------------------------------

// NormalizeHandle lowercases and trims an actor identifier.
func NormalizeHandle(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// HandleStem strips non-alphanumerics, then trailing digits:
// "Farm_User01" -> "farmuser".
func HandleStem(h string) string {
	var b strings.Builder
	for _, r := range NormalizeHandle(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), "0123456789")
}

// HandleShape maps letters to 'a', digits to 'd' and collapses every other
// run into a single '_': "user_42" -> "aaaa_dd".
func HandleShape(h string) string {
	var b strings.Builder
	lastOther := false
	for _, r := range NormalizeHandle(h) {
		switch {
		case unicode.IsLetter(r):
			b.WriteByte('a')
			lastOther = false
		case unicode.IsDigit(r):
			b.WriteByte('d')
			lastOther = false
		default:
			if !lastOther {
				b.WriteByte('_')
			}
			lastOther = true
		}
	}
	return b.String()
}

func hasNumericSuffix(h string) bool {
	var b strings.Builder
	for _, r := range NormalizeHandle(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	digits := 0
	for i := len(s) - 1; i >= 0 && s[i] >= '0' && s[i] <= '9'; i-- {
		digits++
	}
	return digits >= 3
}

// HandleStats holds stem/shape frequencies across the full actor set.
type HandleStats struct {
	stems  map[string]int
	shapes map[string]int
}

// NewHandleStats counts stems and shapes over all actors.
func NewHandleStats(actors []string) *HandleStats {
	hs := &HandleStats{
		stems:  make(map[string]int, len(actors)),
		shapes: make(map[string]int, len(actors)),
	}
	for _, a := range actors {
		if stem := HandleStem(a); stem != "" {
			hs.stems[stem]++
		}
		hs.shapes[HandleShape(a)]++
	}
	return hs
}

// PatternScore combines stem reuse, shape reuse and a numeric-suffix flag
// into [0,1].
func (hs *HandleStats) PatternScore(actor string) float64 {
	stemScore := clamp01(float64(hs.stems[HandleStem(actor)]-1) / 10)
	shapeScore := clamp01(float64(hs.shapes[HandleShape(actor)]-1) / 20)
	suffix := 0.0
	if hasNumericSuffix(actor) {
		suffix = 0.4
	}
	return clamp01(0.5*stemScore + 0.3*shapeScore + suffix)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
