package behavior

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ringwatch/ringwatch/internal/model"
)

var hexAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// DetectSharedWallets groups transfer recipients by funder. A funder whose
// recipient set has two or more members marks each of those recipients.
//
// The name is legacy wire vocabulary: the semantics are "shared
// sender/funder", not "same wallet address". Only transfer events where
// both endpoints look like hex addresses participate; addresses are
// case-folded so checksum casing does not split a funder. The funder
// itself is not marked.
func DetectSharedWallets(logs []model.Event) map[string][]string {
	recipients := make(map[string]map[string]struct{})
	var funderOrder []string
	for i := range logs {
		ev := &logs[i]
		if ev.Action != "transfer" {
			continue
		}
		if !hexAddressRe.MatchString(ev.Actor) || !hexAddressRe.MatchString(ev.Target) {
			continue
		}
		funder := strings.ToLower(ev.Actor)
		recipient := strings.ToLower(ev.Target)
		set, ok := recipients[funder]
		if !ok {
			set = make(map[string]struct{})
			recipients[funder] = set
			funderOrder = append(funderOrder, funder)
		}
		set[recipient] = struct{}{}
	}

	out := make(map[string][]string)
	for _, funder := range funderOrder {
		set := recipients[funder]
		if len(set) < 2 {
			continue
		}
		for recipient := range set {
			out[recipient] = append(out[recipient], funder)
		}
	}
	for recipient := range out {
		sort.Strings(out[recipient])
	}
	return out
}
