package profile

import (
	"strings"
	"time"

	"github.com/ringwatch/ringwatch/internal/model"
)

// Profile is the folded per-actor aggregate: scalar fields are
// last-write-wins across the log, links are unioned.
type Profile struct {
	Actor          string
	Bio            string
	NormalizedBio  string
	Location       string
	Links          []string
	SharedLinks    []string
	FollowerCount  *int
	FollowingCount *int
	CreatedAt      *time.Time
	Verified       *bool
}

// Aggregates is the profile view over a full log.
type Aggregates struct {
	// Profiles maps actor -> folded profile. Actors that never carried
	// a profile field still get an (empty) entry.
	Profiles map[string]*Profile
	// BioCount counts how many actors share each normalized bio.
	BioCount map[string]int
}

// Get returns the actor's profile, or an empty one for unseen actors.
func (a *Aggregates) Get(actor string) *Profile {
	if p, ok := a.Profiles[actor]; ok {
		return p
	}
	return &Profile{Actor: actor}
}

// BioShareCount returns how many actors share this actor's normalized bio
// (including the actor itself); 0 when the bio is empty.
func (a *Aggregates) BioShareCount(actor string) int {
	p := a.Get(actor)
	if p.NormalizedBio == "" {
		return 0
	}
	return a.BioCount[p.NormalizedBio]
}

// Aggregate folds every profile-bearing event into per-actor records and
// derives the shared-link and bio-duplication indexes.
func Aggregate(logs []model.Event) *Aggregates {
	profiles := make(map[string]*Profile)
	var order []string
	linkSeen := make(map[string]map[string]struct{})

	for i := range logs {
		ev := &logs[i]
		if ev.Actor == "" {
			continue
		}
		p, ok := profiles[ev.Actor]
		if !ok {
			p = &Profile{Actor: ev.Actor}
			profiles[ev.Actor] = p
			order = append(order, ev.Actor)
			linkSeen[ev.Actor] = make(map[string]struct{})
		}
		if ev.Bio != "" {
			p.Bio = ev.Bio
		}
		if ev.Location != "" {
			p.Location = ev.Location
		}
		if ev.FollowerCount != nil {
			p.FollowerCount = ev.FollowerCount
		}
		if ev.FollowingCount != nil {
			p.FollowingCount = ev.FollowingCount
		}
		if ev.ActorCreatedAt != nil {
			p.CreatedAt = ev.ActorCreatedAt
		}
		if ev.Verified != nil {
			p.Verified = ev.Verified
		}
		seen := linkSeen[ev.Actor]
		for _, raw := range ev.Links {
			addLink(p, seen, raw)
		}
		for _, raw := range ExtractLinks(ev.Bio) {
			addLink(p, seen, raw)
		}
	}

	bioCount := make(map[string]int)
	for _, actor := range order {
		p := profiles[actor]
		p.NormalizedBio = NormalizeBio(p.Bio)
		if p.NormalizedBio != "" {
			bioCount[p.NormalizedBio]++
		}
	}

	// Inverted index over links: a link held by >=2 actors is shared.
	owners := make(map[string]int)
	for _, actor := range order {
		for _, link := range profiles[actor].Links {
			owners[link]++
		}
	}
	for _, actor := range order {
		p := profiles[actor]
		for _, link := range p.Links {
			if owners[link] >= 2 {
				p.SharedLinks = append(p.SharedLinks, link)
			}
		}
	}

	return &Aggregates{Profiles: profiles, BioCount: bioCount}
}

func addLink(p *Profile, seen map[string]struct{}, raw string) {
	link, ok := NormalizeLink(raw)
	if !ok {
		return
	}
	if _, dup := seen[link]; dup {
		return
	}
	seen[link] = struct{}{}
	p.Links = append(p.Links, link)
}

// NormalizeBio lowercases and collapses whitespace.
func NormalizeBio(bio string) string {
	return strings.Join(strings.Fields(strings.ToLower(bio)), " ")
}
