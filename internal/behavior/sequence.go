package behavior

import (
	"strings"

	"github.com/ringwatch/ringwatch/internal/model"
)

// SequenceMetrics captures repetition in an actor's action stream.
type SequenceMetrics struct {
	TopNgram string
	TopCount int
	Score    float64
}

// ActionSequence extracts sliding n-grams over the time-ordered action
// names and scores the dominance of the most frequent one. Actors with
// fewer than n+2 timed actions score zero. The input must already be
// sorted by time.
func ActionSequence(sorted []model.Event, n int) SequenceMetrics {
	if len(sorted) < n+2 {
		return SequenceMetrics{}
	}
	counts := make(map[string]int)
	total := 0
	var m SequenceMetrics
	for i := 0; i+n <= len(sorted); i++ {
		parts := make([]string, n)
		for j := 0; j < n; j++ {
			parts[j] = sorted[i+j].Action
		}
		gram := strings.Join(parts, "|")
		counts[gram]++
		total++
		if counts[gram] > m.TopCount || (counts[gram] == m.TopCount && gram < m.TopNgram) {
			m.TopCount = counts[gram]
			m.TopNgram = gram
		}
	}
	if total > 0 {
		m.Score = clamp01(float64(m.TopCount) / float64(total))
	}
	return m
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
