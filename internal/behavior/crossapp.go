package behavior

import (
	"sort"

	"github.com/ringwatch/ringwatch/internal/model"
)

// DetectCrossAppLinking returns, for every actor active on two or more
// platforms, the sorted platform list. Single-platform actors are omitted.
func DetectCrossAppLinking(logs []model.Event) map[string][]string {
	platforms := make(map[string]map[string]struct{})
	for i := range logs {
		ev := &logs[i]
		if ev.Actor == "" || ev.Platform == "" {
			continue
		}
		set, ok := platforms[ev.Actor]
		if !ok {
			set = make(map[string]struct{})
			platforms[ev.Actor] = set
		}
		set[ev.Platform] = struct{}{}
	}
	out := make(map[string][]string)
	for actor, set := range platforms {
		if len(set) < 2 {
			continue
		}
		list := make([]string, 0, len(set))
		for p := range set {
			list = append(list, p)
		}
		sort.Strings(list)
		out[actor] = list
	}
	return out
}
