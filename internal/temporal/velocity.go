package temporal

// VelocityMetrics describes the densest stretch of an actor's timeline.
type VelocityMetrics struct {
	MaxInWindow  int
	MaxPerSecond float64
	Score        float64
}

// Velocity slides a window of windowSeconds over the actor's sorted
// millisecond timeline and keeps the maximum population. Score is the
// excess over maxAllowed, clamped to [0,1].
func Velocity(sortedMs []int64, windowSeconds, maxAllowed int) VelocityMetrics {
	if windowSeconds < 1 || len(sortedMs) == 0 {
		return VelocityMetrics{}
	}
	windowMs := int64(windowSeconds) * 1000
	maxCount := 0
	left := 0
	for right := range sortedMs {
		for sortedMs[right]-sortedMs[left] > windowMs {
			left++
		}
		if c := right - left + 1; c > maxCount {
			maxCount = c
		}
	}
	m := VelocityMetrics{
		MaxInWindow:  maxCount,
		MaxPerSecond: float64(maxCount) / float64(windowSeconds),
	}
	if maxAllowed > 0 {
		m.Score = clamp01(float64(maxCount-maxAllowed) / float64(maxAllowed))
	}
	return m
}

// RapidMetrics describes the actor's peak one-minute bucket.
type RapidMetrics struct {
	MaxPerMinute int
	Score        float64
}

// Rapid buckets the actor's timeline into integer minutes and reports the
// fullest bucket, scored as excess over the per-minute threshold.
func Rapid(sortedMs []int64, threshold int) RapidMetrics {
	if len(sortedMs) == 0 {
		return RapidMetrics{}
	}
	counts := make(map[int64]int)
	maxCount := 0
	for _, ms := range sortedMs {
		bucket := ms / 60000
		counts[bucket]++
		if counts[bucket] > maxCount {
			maxCount = counts[bucket]
		}
	}
	m := RapidMetrics{MaxPerMinute: maxCount}
	if threshold > 0 {
		m.Score = clamp01(float64(maxCount-threshold) / float64(threshold))
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
