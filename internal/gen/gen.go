// Package gen produces deterministic synthetic interaction datasets for
// exercising the analysis pipeline: Sybil farm clusters with templated
// profiles, a background of organic traffic, and a coordinated churn burst.
package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ringwatch/ringwatch/internal/model"
)

// Options controls the generated dataset. The zero value is not useful;
// start from Default.
type Options struct {
	Seed  int64
	Start time.Time

	// Farm clusters: FarmSize members each, every member emitting
	// FollowsPerMember internal follow edges toward the cluster hubs.
	FarmClusters     int
	FarmSize         int
	FollowsPerMember int

	// Organic background traffic.
	OrganicEvents  int
	OrganicUsers   int
	OrganicTargets int

	// Coordinated unfollow burst: the first BurstActors members of each
	// cluster each emit BurstActionsEach unfollows against BurstTarget
	// within two minutes, half an hour in.
	Burst            bool
	BurstActors      int
	BurstActionsEach int
	BurstTarget      string
}

// Default is the stock scenario: two 12-member farm clusters with 3
// internal follows per member, 800 organic actions over 80 users and 8
// targets, and a 2-cluster unfollow burst of 10 actors x 3 actions.
func Default() Options {
	return Options{
		Seed:             42,
		Start:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		FarmClusters:     2,
		FarmSize:         12,
		FollowsPerMember: 3,
		OrganicEvents:    800,
		OrganicUsers:     80,
		OrganicTargets:   8,
		Burst:            true,
		BurstActors:      10,
		BurstActionsEach: 3,
		BurstTarget:      "target1",
	}
}

// MemberID returns the hex wallet-style identifier of a farm member.
func MemberID(cluster, i int) string {
	return fmt.Sprintf("0x%040x", (cluster+1)*1000+i)
}

// FunderID returns the hex identifier of a cluster's funding wallet.
func FunderID(cluster int) string {
	return fmt.Sprintf("0x%040x", 0xfa0000+cluster)
}

// Generate builds the event log. Same options, same log.
func Generate(o Options) []model.Event {
	r := rand.New(rand.NewSource(o.Seed))
	t0 := o.Start
	var events []model.Event

	emit := func(ev model.Event) {
		ev.TimeValid = true
		events = append(events, ev)
	}

	// Farm clusters: each funded by one wallet, every member following
	// the three cluster hubs, carrying the same templated profile.
	farmBio := "early supporter | daily rewards | claim your free mint https://bit.ly/drop"
	for c := 0; c < o.FarmClusters; c++ {
		funder := FunderID(c)
		amount := decimal.NewFromFloat(0.5)
		for i := 0; i < o.FarmSize; i++ {
			member := MemberID(c, i)
			emit(model.Event{
				Timestamp: t0.Add(-time.Hour + time.Duration(i)*time.Second),
				Platform:  "base",
				Action:    "transfer",
				Actor:     funder,
				Target:    member,
				Amount:    &amount,
			})
		}
		for i := 0; i < o.FarmSize; i++ {
			member := MemberID(c, i)
			targets := hubTargets(c, i, o)
			created := t0.Add(-48 * time.Hour)
			followers, following := 5, 500
			for j, target := range targets {
				ev := model.Event{
					Timestamp: t0.Add(2*time.Minute + time.Duration(i*10+j*2)*time.Second),
					Platform:  "farcaster",
					Action:    "follow",
					Actor:     member,
					Target:    target,
				}
				if j == 0 {
					ev.Bio = farmBio
					ev.ActorCreatedAt = &created
					ev.FollowerCount = &followers
					ev.FollowingCount = &following
				}
				emit(ev)
			}
		}
	}

	// Organic background: spread evenly, varied actors and targets.
	organicActions := []string{"like", "recast", "follow", "reply"}
	for i := 0; i < o.OrganicEvents; i++ {
		user := fmt.Sprintf("user%02d", r.Intn(o.OrganicUsers))
		emit(model.Event{
			Timestamp: t0.Add(time.Duration(i) * 27 * time.Second),
			Platform:  "web",
			Action:    organicActions[r.Intn(len(organicActions))],
			Actor:     user,
			Target:    fmt.Sprintf("site%d", r.Intn(o.OrganicTargets)),
		})
	}

	// Coordinated unfollow burst against one target, all clusters inside
	// the same two-minute stretch.
	if o.Burst {
		for c := 0; c < o.FarmClusters; c++ {
			for i := 0; i < o.BurstActors && i < o.FarmSize; i++ {
				for j := 0; j < o.BurstActionsEach; j++ {
					emit(model.Event{
						Timestamp: t0.Add(30*time.Minute + time.Duration((i*o.BurstActionsEach+j)*4)*time.Second),
						Platform:  "base",
						Action:    "unfollow",
						Actor:     MemberID(c, i),
						Target:    o.BurstTarget,
					})
				}
			}
		}
	}

	return events
}

// hubTargets picks the member's follow targets: the first three members of
// the cluster, substituting the fourth for the member itself.
func hubTargets(cluster, i int, o Options) []string {
	var targets []string
	next := 0
	for len(targets) < o.FollowsPerMember && next < o.FarmSize {
		if next != i {
			targets = append(targets, MemberID(cluster, next))
		}
		next++
	}
	return targets
}
