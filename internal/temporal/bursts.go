package temporal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ringwatch/ringwatch/internal/model"
)

// maxBursts caps the global sliding-window burst list, keeping the highest
// z-scores.
const maxBursts = 250

// minBurstZ is the Poisson z-score a window must clear against its key's
// dataset-wide rate.
const minBurstZ = 2.5

type burstEvent struct {
	ms    int64
	actor string
}

type pairKey struct {
	action string
	target string
}

// DetectBursts runs the sliding-window burst detector: for every
// (action, target) key with enough events, a monotonic window of
// burstWindowSeconds tracks the densest qualifying stretch, which survives
// only when its Poisson z against the key's global rate clears minBurstZ.
// Each key contributes at most one burst; the global list is truncated to
// the top maxBursts by z.
func DetectBursts(logs []model.Event, s model.Settings) ([]model.Wave, Contrib) {
	groups := make(map[pairKey][]burstEvent)
	var minMs, maxMs int64
	seenAny := false
	for i := range logs {
		ev := &logs[i]
		if !ev.TimeValid || ev.Actor == "" {
			continue
		}
		ms := ev.Timestamp.UnixMilli()
		if !seenAny || ms < minMs {
			minMs = ms
		}
		if !seenAny || ms > maxMs {
			maxMs = ms
		}
		seenAny = true
		k := pairKey{action: ev.Action, target: ev.Target}
		groups[k] = append(groups[k], burstEvent{ms: ms, actor: ev.Actor})
	}
	if !seenAny {
		return nil, make(Contrib)
	}
	spanMs := float64(maxMs - minMs)
	if spanMs <= 0 {
		spanMs = 1
	}
	windowMs := int64(s.BurstWindowSeconds) * 1000

	contrib := make(Contrib)
	var bursts []model.Wave
	for k, events := range groups {
		if len(events) < s.BurstMinCount {
			continue
		}
		sort.Slice(events, func(i, j int) bool {
			if events[i].ms != events[j].ms {
				return events[i].ms < events[j].ms
			}
			return events[i].actor < events[j].actor
		})

		best := bestWindow(events, windowMs, s.BurstMinCount, s.BurstMinActors)
		if best.count == 0 {
			continue
		}
		rate := float64(len(events)) / spanMs
		expected := rate * float64(windowMs)
		z := (float64(best.count) - expected) / math.Sqrt(math.Max(1e-9, expected))
		if z < minBurstZ {
			continue
		}

		startMs := events[best.left].ms
		actorSet := make(map[string]struct{})
		for i := best.left; i < best.left+best.count; i++ {
			actorSet[events[i].actor] = struct{}{}
		}
		key := fmt.Sprintf("%d:%s:%s:window", startMs/1000, k.action, k.target)
		actors := make([]string, 0, len(actorSet))
		for a := range actorSet {
			actors = append(actors, a)
			contrib.add(a, key)
		}
		sort.Strings(actors)
		bursts = append(bursts, model.Wave{
			WindowStart: time.UnixMilli(startMs).UTC(),
			WindowEnd:   time.UnixMilli(startMs + windowMs).UTC(),
			Action:      k.action,
			Target:      k.target,
			Actors:      actors,
			ZScore:      z,
			Method:      model.WaveMethodWindow,
		})
	}

	sort.Slice(bursts, func(i, j int) bool {
		if bursts[i].ZScore != bursts[j].ZScore {
			return bursts[i].ZScore > bursts[j].ZScore
		}
		if bursts[i].Action != bursts[j].Action {
			return bursts[i].Action < bursts[j].Action
		}
		return bursts[i].Target < bursts[j].Target
	})
	if len(bursts) > maxBursts {
		dropped := bursts[maxBursts:]
		bursts = bursts[:maxBursts]
		// Contributions from truncated bursts do not count.
		for _, w := range dropped {
			key := fmt.Sprintf("%d:%s:%s:window", w.WindowStart.Unix(), w.Action, w.Target)
			for _, a := range w.Actors {
				delete(contrib[a], key)
			}
		}
	}
	return bursts, contrib
}

type windowCandidate struct {
	count int
	left  int
}

// bestWindow slides a window of windowMs over the time-sorted events and
// returns the candidate with the highest population that satisfies both
// minimums. Zero count means no qualifying window.
func bestWindow(events []burstEvent, windowMs int64, minCount, minActors int) windowCandidate {
	var best windowCandidate
	counts := make(map[string]int)
	unique := 0
	left := 0
	for right := range events {
		counts[events[right].actor]++
		if counts[events[right].actor] == 1 {
			unique++
		}
		for events[right].ms-events[left].ms >= windowMs {
			counts[events[left].actor]--
			if counts[events[left].actor] == 0 {
				unique--
			}
			left++
		}
		count := right - left + 1
		if count >= minCount && unique >= minActors && count > best.count {
			best = windowCandidate{count: count, left: left}
		}
	}
	return best
}
