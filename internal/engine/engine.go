// Package engine implements the analysis pipeline: a single-threaded pure
// transformation from an event log and settings to an explainable risk
// report. It performs no I/O, holds no state across calls, and is safe to
// call from any goroutine the caller controls.
package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/ringwatch/ringwatch/internal/behavior"
	"github.com/ringwatch/ringwatch/internal/graph"
	"github.com/ringwatch/ringwatch/internal/model"
	"github.com/ringwatch/ringwatch/internal/profile"
	"github.com/ringwatch/ringwatch/internal/score"
	"github.com/ringwatch/ringwatch/internal/temporal"
)

const (
	pagerankIterations    = 20
	pagerankDamping       = 0.85
	eigenIterations       = 20
	betweennessMaxSources = 50
)

// actorState accumulates per-actor facts during the single log pass.
type actorState struct {
	name         string
	events       []model.Event // input order
	timed        []model.Event // TimeValid only, sorted by time
	timesMs      []int64       // sorted
	totalActions int
	churnActions int
	targets      map[string]struct{}
	firstValid   time.Time
	hasValid     bool
}

// Analyze builds the interaction graph, runs every detector and fuses the
// signals into per-actor scorecards. Output is a pure function of
// (logs, settings); onProgress, when non-nil, is invoked in-thread between
// stages.
func Analyze(logs []model.Event, settings model.Settings, onProgress model.ProgressFunc) model.AnalysisResult {
	settings.Normalize()
	report(onProgress, model.StageStart, 0)

	churn := settings.ChurnSet()
	actors, states := collectActors(logs, churn)

	agg := profile.Aggregate(logs)
	handles := profile.NewHandleStats(actors)
	report(onProgress, model.StageProfiles, 15)

	g, elements := graph.Build(logs, settings.PositiveSet())
	pagerank := g.PageRank(pagerankIterations, pagerankDamping)
	eigen := g.Eigenvector(eigenIterations)
	betweenness := g.Betweenness(betweennessMaxSources)
	report(onProgress, model.StageGraph, 35)

	components := g.Components(settings.MinClusterSize)
	clusters := make([]model.Cluster, len(components))
	clusterOf := make(map[int32]*model.Cluster, g.N())
	for i, comp := range components {
		members := make([]string, len(comp.Members))
		for j, m := range comp.Members {
			members[j] = g.Name(m)
		}
		clusters[i] = model.Cluster{
			ID:            comp.ID,
			Members:       members,
			Density:       comp.Density,
			Conductance:   comp.Conductance,
			ExternalEdges: comp.ExternalEdges,
		}
		for _, m := range comp.Members {
			clusterOf[m] = &clusters[i]
		}
	}
	report(onProgress, model.StageClusters, 50)

	waves, contrib := temporal.DetectWaves(logs, settings)
	bursts, burstContrib := temporal.DetectBursts(logs, settings)
	contrib.Merge(burstContrib)
	allWaves := append(waves, bursts...)
	report(onProgress, model.StageWaves, 70)

	sharedWallets := behavior.DetectSharedWallets(logs)
	crossApp := behavior.DetectCrossAppLinking(logs)
	fraud := behavior.DetectFraudulentTransactions(logs)
	sessionGapMs := int64(settings.SessionGapMinutes) * 60000

	scorecards := make([]model.Scorecard, 0, len(actors))
	for _, actor := range actors {
		st := states[actor]
		p := agg.Get(actor)

		in := score.Inputs{
			Actor:         actor,
			TotalActions:  st.totalActions,
			UniqueTargets: len(st.targets),
			ChurnActions:  st.churnActions,
			BurstActions:  contrib.Count(actor),

			Rapid:     temporal.Rapid(st.timesMs, settings.RapidActionsPerMinuteThreshold),
			Velocity:  temporal.Velocity(st.timesMs, settings.VelocityWindowSeconds, settings.VelocityMaxActionsInWindow),
			Entropy:   behavior.TargetEntropy(st.events),
			Circadian: behavior.Circadian(st.timed),
			Sequence:  behavior.ActionSequence(st.timed, settings.ActionNgramSize),
			Sessions:  behavior.SessionsFromTimes(st.timesMs, sessionGapMs),

			// shared-wallet keys are case-folded hex addresses
			SharedWallets:     sharedWallets[strings.ToLower(actor)],
			CrossAppPlatforms: crossApp[actor],
			FraudTxScore:      fraud[actor],

			Links:           p.Links,
			SuspiciousLinks: suspiciousOf(p.Links),
			SharedLinks:     p.SharedLinks,
			PhishingCount:   phishingCount(p.Links),
			LinkDiversity:   profile.LinkDiversity(p.Links),
			UniqueLinkHosts: profile.UniqueHosts(p.Links),

			FollowerRatioFlag:  followerRatioFlag(p),
			BioShareCount:      agg.BioShareCount(actor),
			HandlePatternScore: handles.PatternScore(actor),
			NewAccountScore:    newAccountScore(st, p),
		}

		if id, ok := g.Index(actor); ok {
			in.Pagerank = pagerank[id]
			in.EigenCentrality = eigen[id]
			in.Betweenness = betweenness[id]
			in.MutualPositive = g.Mutual(id)
			in.PositiveOut = g.PositiveOutDegree(id)
			in.UndirectedDegree = g.Degree(id)
			if c := clusterOf[id]; c != nil {
				in.ClusterID = c.ID
				in.ClusterSize = len(c.Members)
			}
		}

		scorecards = append(scorecards, score.Build(in, settings))
	}
	report(onProgress, model.StageScorecards, 90)
	report(onProgress, model.StageDone, 100)

	if allWaves == nil {
		allWaves = []model.Wave{}
	}
	if clusters == nil {
		clusters = []model.Cluster{}
	}
	return model.AnalysisResult{
		Elements:   elements,
		Clusters:   clusters,
		Waves:      allWaves,
		Scorecards: scorecards,
	}
}

// collectActors builds per-actor state in first-sighting order.
func collectActors(logs []model.Event, churn map[string]bool) ([]string, map[string]*actorState) {
	states := make(map[string]*actorState)
	var order []string
	for i := range logs {
		ev := logs[i]
		if ev.Actor == "" {
			continue
		}
		st, ok := states[ev.Actor]
		if !ok {
			st = &actorState{name: ev.Actor, targets: make(map[string]struct{})}
			states[ev.Actor] = st
			order = append(order, ev.Actor)
		}
		st.events = append(st.events, ev)
		st.totalActions++
		if churn[ev.Action] {
			st.churnActions++
		}
		if ev.Target != "" {
			st.targets[ev.Target] = struct{}{}
		}
		if ev.TimeValid {
			st.timed = append(st.timed, ev)
			if !st.hasValid || ev.Timestamp.Before(st.firstValid) {
				st.firstValid = ev.Timestamp
				st.hasValid = true
			}
		}
	}
	for _, st := range order {
		s := states[st]
		sort.SliceStable(s.timed, func(i, j int) bool {
			return s.timed[i].Timestamp.Before(s.timed[j].Timestamp)
		})
		s.timesMs = make([]int64, len(s.timed))
		for i := range s.timed {
			s.timesMs[i] = s.timed[i].Timestamp.UnixMilli()
		}
	}
	return order, states
}

func suspiciousOf(links []string) []string {
	var out []string
	for _, l := range links {
		if profile.IsSuspiciousDomain(l) {
			out = append(out, l)
		}
	}
	return out
}

func phishingCount(links []string) int {
	n := 0
	for _, l := range links {
		if profile.IsLikelyPhishingURL(l) {
			n++
		}
	}
	return n
}

func followerRatioFlag(p *profile.Profile) bool {
	if p.FollowerCount == nil || p.FollowingCount == nil || *p.FollowingCount <= 0 {
		return false
	}
	return float64(*p.FollowerCount)/float64(*p.FollowingCount) < 0.1
}

// newAccountScore is 1 when the actor's first in-log activity happened
// within seven days of account creation.
func newAccountScore(st *actorState, p *profile.Profile) float64 {
	if !st.hasValid || p.CreatedAt == nil {
		return 0
	}
	ageDays := st.firstValid.Sub(*p.CreatedAt).Hours() / 24
	if ageDays >= 0 && ageDays < 7 {
		return 1
	}
	return 0
}

func report(fn model.ProgressFunc, stage model.Stage, pct int) {
	if fn != nil {
		fn(stage, pct)
	}
}
