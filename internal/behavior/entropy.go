package behavior

import (
	"math"
	"sort"

	"github.com/ringwatch/ringwatch/internal/model"
)

// EntropyMetrics captures target-distribution entropy for one actor.
type EntropyMetrics struct {
	TargetEntropy   float64
	LowEntropyScore float64
	UniqueTargets   int
}

// TargetEntropy measures how spread the actor's actions are across targets.
// With fewer than two unique targets entropy is zero (fully concentrated).
// The result is normalized by ln(k) into [0,1].
func TargetEntropy(events []model.Event) EntropyMetrics {
	counts := make(map[string]int)
	total := 0
	for i := range events {
		if events[i].Target == "" {
			continue
		}
		counts[events[i].Target]++
		total++
	}
	m := EntropyMetrics{UniqueTargets: len(counts)}
	if len(counts) >= 2 && total > 0 {
		// sum in sorted-key order so the float accumulation is stable
		targets := make([]string, 0, len(counts))
		for target := range counts {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		h := 0.0
		for _, target := range targets {
			p := float64(counts[target]) / float64(total)
			h -= p * math.Log(p)
		}
		m.TargetEntropy = h / math.Log(float64(len(counts)))
	}
	m.LowEntropyScore = 1 - m.TargetEntropy
	return m
}

// CircadianMetrics captures the actor's hourly activity shape (UTC).
type CircadianMetrics struct {
	ActiveHours int
	HourEntropy float64
	Score       float64
}

// Circadian flags two automation shapes: activity spread over nearly every
// hour of the day (wide automation) and activity pinned to one or two hours
// (narrow coordination). The two cases take the maximum.
func Circadian(events []model.Event) CircadianMetrics {
	var hours [24]int
	total := 0
	for i := range events {
		if !events[i].TimeValid {
			continue
		}
		hours[events[i].Timestamp.UTC().Hour()]++
		total++
	}
	var m CircadianMetrics
	h := 0.0
	for _, c := range hours {
		if c == 0 {
			continue
		}
		m.ActiveHours++
		p := float64(c) / float64(total)
		h -= p * math.Log(p)
	}
	if total > 0 {
		m.HourEntropy = h / math.Log(24)
	}
	wide, narrow := 0.0, 0.0
	if m.ActiveHours >= 20 && total >= 200 {
		wide = 1
	}
	if m.ActiveHours <= 2 && m.ActiveHours > 0 && total >= 100 {
		narrow = 0.8
	}
	m.Score = math.Max(wide, narrow)
	return m
}
