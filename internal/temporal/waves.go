package temporal

import (
	"fmt"
	"sort"
	"time"

	"github.com/ringwatch/ringwatch/internal/model"
)

// Contrib maps actor -> set of wave/burst keys the actor contributed to.
// Bin keys ("{binStart}:{action}:{target}") and window keys
// ("{windowStart}:{action}:{target}:window") live in disjoint namespaces so
// an actor caught by both detectors is counted for both.
type Contrib map[string]map[string]struct{}

func (c Contrib) add(actor, key string) {
	set, ok := c[actor]
	if !ok {
		set = make(map[string]struct{})
		c[actor] = set
	}
	set[key] = struct{}{}
}

// Merge folds another contribution map into this one.
func (c Contrib) Merge(other Contrib) {
	for actor, keys := range other {
		for key := range keys {
			c.add(actor, key)
		}
	}
}

// Count returns the number of distinct keys an actor contributed to.
func (c Contrib) Count(actor string) int { return len(c[actor]) }

type binKey struct {
	bin    int64
	action string
	target string
}

type binAgg struct {
	count  int
	actors map[string]struct{}
}

// DetectWaves finds fixed-bin coordination waves: epoch-aligned bins of
// timeBinMinutes keyed by (bin, action, target), kept when both the event
// count and the unique actor count clear their thresholds. The reported
// zScore is the legacy count/waveMinCount ratio, preserved as-is.
func DetectWaves(logs []model.Event, s model.Settings) ([]model.Wave, Contrib) {
	width := int64(s.TimeBinMinutes) * 60
	bins := make(map[binKey]*binAgg)

	for i := range logs {
		ev := &logs[i]
		if !ev.TimeValid || ev.Actor == "" {
			continue
		}
		sec := ev.Timestamp.Unix()
		bin := sec / width
		if sec < 0 && sec%width != 0 {
			bin--
		}
		k := binKey{bin: bin, action: ev.Action, target: ev.Target}
		agg, ok := bins[k]
		if !ok {
			agg = &binAgg{actors: make(map[string]struct{})}
			bins[k] = agg
		}
		agg.count++
		agg.actors[ev.Actor] = struct{}{}
	}

	contrib := make(Contrib)
	var waves []model.Wave
	for k, agg := range bins {
		if agg.count < s.WaveMinCount || len(agg.actors) < s.WaveMinActors {
			continue
		}
		start := k.bin * width
		key := fmt.Sprintf("%d:%s:%s", start, k.action, k.target)
		actors := make([]string, 0, len(agg.actors))
		for a := range agg.actors {
			actors = append(actors, a)
			contrib.add(a, key)
		}
		sort.Strings(actors)
		waves = append(waves, model.Wave{
			WindowStart: time.Unix(start, 0).UTC(),
			WindowEnd:   time.Unix(start+width, 0).UTC(),
			Action:      k.action,
			Target:      k.target,
			Actors:      actors,
			ZScore:      float64(agg.count) / float64(max(1, s.WaveMinCount)),
			Method:      model.WaveMethodBin,
		})
	}

	sort.Slice(waves, func(i, j int) bool {
		if !waves[i].WindowStart.Equal(waves[j].WindowStart) {
			return waves[i].WindowStart.Before(waves[j].WindowStart)
		}
		if waves[i].Action != waves[j].Action {
			return waves[i].Action < waves[j].Action
		}
		return waves[i].Target < waves[j].Target
	})
	return waves, contrib
}
