package behavior

import (
	"sort"
	"time"

	"github.com/ringwatch/ringwatch/internal/model"
)

// SessionMetrics describes the actor's activity segmentation.
type SessionMetrics struct {
	SessionCount      int
	AvgSessionMinutes float64
	AvgGapMinutes     float64
	MaxGapMinutes     float64
	BottyScore        float64
}

// DetectSessionMetrics segments each actor's timeline at gaps exceeding
// sessionGap and reports session structure. Events without a valid
// timestamp are ignored. Exposed for ingestion collaborators; the engine
// uses SessionsFromTimes directly on its pre-sorted timelines.
func DetectSessionMetrics(logs []model.Event, sessionGap time.Duration) map[string]SessionMetrics {
	times := make(map[string][]int64)
	for i := range logs {
		ev := &logs[i]
		if !ev.TimeValid || ev.Actor == "" {
			continue
		}
		times[ev.Actor] = append(times[ev.Actor], ev.Timestamp.UnixMilli())
	}
	out := make(map[string]SessionMetrics, len(times))
	for actor, ts := range times {
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
		out[actor] = SessionsFromTimes(ts, sessionGap.Milliseconds())
	}
	return out
}

// SessionsFromTimes computes session metrics over a sorted millisecond
// timeline. The botty composite multiplies a short-session factor (1 when
// the average session is under a minute, 0.5 under five) by a many-session
// factor (sessionCount/10 capped at 1).
func SessionsFromTimes(sortedMs []int64, gapMs int64) SessionMetrics {
	if len(sortedMs) == 0 {
		return SessionMetrics{}
	}
	var m SessionMetrics
	sessionStart := sortedMs[0]
	prev := sortedMs[0]
	totalSessionMs := int64(0)
	var gaps []int64
	for _, ts := range sortedMs[1:] {
		if gap := ts - prev; gap > gapMs {
			totalSessionMs += prev - sessionStart
			m.SessionCount++
			gaps = append(gaps, gap)
			sessionStart = ts
		}
		prev = ts
	}
	totalSessionMs += prev - sessionStart
	m.SessionCount++

	m.AvgSessionMinutes = float64(totalSessionMs) / float64(m.SessionCount) / 60000
	if len(gaps) > 0 {
		sum := int64(0)
		for _, g := range gaps {
			sum += g
			if float64(g)/60000 > m.MaxGapMinutes {
				m.MaxGapMinutes = float64(g) / 60000
			}
		}
		m.AvgGapMinutes = float64(sum) / float64(len(gaps)) / 60000
	}

	short := 0.0
	switch {
	case m.AvgSessionMinutes <= 1:
		short = 1
	case m.AvgSessionMinutes <= 5:
		short = 0.5
	}
	many := float64(m.SessionCount) / 10
	if many > 1 {
		many = 1
	}
	m.BottyScore = short * many
	return m
}
