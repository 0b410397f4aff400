package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringwatch/ringwatch/internal/gen"
	"github.com/ringwatch/ringwatch/internal/model"
)

func findCard(t *testing.T, result model.AnalysisResult, actor string) model.Scorecard {
	t.Helper()
	for i := range result.Scorecards {
		if result.Scorecards[i].Actor == actor {
			return result.Scorecards[i]
		}
	}
	t.Fatalf("no scorecard for actor %s", actor)
	return model.Scorecard{}
}

func TestAnalyzeFarmScenario(t *testing.T) {
	opts := gen.Default()
	logs := gen.Generate(opts)
	result := Analyze(logs, model.DefaultSettings(), nil)

	// every farm member is flagged with a high composite
	for c := 0; c < opts.FarmClusters; c++ {
		for i := 0; i < opts.FarmSize; i++ {
			card := findCard(t, result, gen.MemberID(c, i))
			assert.True(t, card.Flagged, "member %d/%d", c, i)
			assert.Greater(t, card.SybilScore, 0.6, "member %d/%d", c, i)
			assert.NotEmpty(t, card.Reasons)
		}
	}

	// organic traffic stays far below the farm, with a small
	// false-positive budget
	flaggedOrganic := 0
	for i := range result.Scorecards {
		card := &result.Scorecards[i]
		if !strings.HasPrefix(card.Actor, "user") {
			continue
		}
		assert.Less(t, card.SybilScore, 0.5, "organic %s", card.Actor)
		if card.Flagged {
			flaggedOrganic++
		}
	}
	assert.LessOrEqual(t, flaggedOrganic, 4)

	// the coordinated unfollow burst is reported as a window wave with
	// every burst actor attributed
	var burst *model.Wave
	for i := range result.Waves {
		w := &result.Waves[i]
		if w.Method == model.WaveMethodWindow && w.Action == "unfollow" && w.Target == opts.BurstTarget {
			burst = w
			break
		}
	}
	require.NotNil(t, burst, "unfollow burst not detected")
	assert.Len(t, burst.Actors, opts.FarmClusters*opts.BurstActors)
	assert.Greater(t, burst.ZScore, 2.5)

	// both farm clusters appear as tight components
	farmClusters := 0
	for _, cl := range result.Clusters {
		if len(cl.Members) != opts.FarmSize {
			continue
		}
		farmClusters++
		// hub-and-spoke: 9 spokes x 3 hubs + 3 hub pairs = 30 of 66 pairs
		assert.InDelta(t, 30.0/66.0, cl.Density, 1e-9)
		assert.Equal(t, 0.0, cl.Conductance)
		for _, m := range cl.Members {
			assert.True(t, strings.HasPrefix(m, "0x"), "farm member %s", m)
		}
	}
	assert.Equal(t, opts.FarmClusters, farmClusters)

	// funders move money but do not act like sybils themselves
	funder := findCard(t, result, gen.FunderID(0))
	assert.False(t, funder.Flagged)
}

func TestAnalyzeDeterministic(t *testing.T) {
	logs := gen.Generate(gen.Default())
	first := Analyze(logs, model.DefaultSettings(), nil)
	second := Analyze(logs, model.DefaultSettings(), nil)
	assert.Equal(t, first, second)
}

func TestAnalyzeSharedSuspiciousLinks(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	logs := []model.Event{
		{Timestamp: ts, TimeValid: true, Actor: "a", Action: "follow", Target: "x",
			Bio: "reach me https://bit.ly/promo"},
		{Timestamp: ts, TimeValid: true, Actor: "b", Action: "follow", Target: "y",
			Links: []string{"https://bit.ly/promo"}},
	}
	result := Analyze(logs, model.DefaultSettings(), nil)

	for _, actor := range []string{"a", "b"} {
		card := findCard(t, result, actor)
		assert.GreaterOrEqual(t, card.ProfileAnomalyScore, 0.5, actor)
		assert.Contains(t, card.Reasons, "Suspicious link domains (1)", actor)
		assert.Contains(t, card.Reasons, "Shared links with others (1)", actor)
		assert.Equal(t, []string{"https://bit.ly/promo"}, card.SharedLinks, actor)
	}
}

func TestAnalyzeLoneTapFarmer(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var logs []model.Event
	for i := 0; i < 120; i++ {
		logs = append(logs, model.Event{
			Timestamp: base.Add(time.Duration(i) * 400 * time.Millisecond),
			TimeValid: true,
			Platform:  "base",
			Actor:     "tapper",
			Action:    "tap",
			Target:    "game",
		})
	}
	result := Analyze(logs, model.DefaultSettings(), nil)

	card := findCard(t, result, "tapper")
	assert.True(t, card.Flagged)
	assert.Equal(t, 120, card.MaxActionsPerMinute)
	assert.Equal(t, 1.0, card.RapidActionScore)
	assert.Equal(t, 1.0, card.VelocityScore)
	assert.Equal(t, 1.0, card.LowEntropyScore)
	assert.Contains(t, card.Reasons, "Rapid actions (120/min)")
	// a two-node component is below the cluster minimum
	assert.Equal(t, 0, card.ClusterID)
	// one actor cannot form a coordination wave
	assert.Empty(t, result.Waves)
}

func TestAnalyzeCliqueIsolation(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var logs []model.Event
	for i := range names {
		for j := range names {
			if i == j {
				continue
			}
			logs = append(logs, model.Event{
				Timestamp: ts, TimeValid: true,
				Actor: names[i], Action: "follow", Target: names[j],
			})
		}
	}
	result := Analyze(logs, model.DefaultSettings(), nil)

	require.Len(t, result.Clusters, 1)
	cl := result.Clusters[0]
	assert.Equal(t, 1, cl.ID)
	assert.Equal(t, 1.0, cl.Density)
	assert.Equal(t, 0.0, cl.Conductance)

	for _, name := range names {
		card := findCard(t, result, name)
		assert.Equal(t, 1, card.ClusterID)
		assert.Equal(t, 5, card.ClusterSize)
		assert.InDelta(t, 0.2, card.ClusterIsolationScore, 1e-9)
	}
}

func TestAnalyzeChurnScalesWithInput(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var logs []model.Event
	for i := 0; i < 6; i++ {
		logs = append(logs, model.Event{
			Timestamp: ts.Add(time.Duration(i) * time.Minute),
			TimeValid: true,
			Actor:     "churner", Action: "unfollow", Target: "victim",
		})
	}
	single := Analyze(logs, model.DefaultSettings(), nil)
	doubled := Analyze(append(append([]model.Event{}, logs...), logs...), model.DefaultSettings(), nil)

	assert.Equal(t, 6, findCard(t, single, "churner").ChurnScore)
	assert.Equal(t, 12, findCard(t, doubled, "churner").ChurnScore)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	result := Analyze(nil, model.DefaultSettings(), nil)
	assert.NotNil(t, result.Clusters)
	assert.NotNil(t, result.Waves)
	assert.Empty(t, result.Scorecards)
	assert.Empty(t, result.Elements.Nodes)
}

func TestAnalyzeProgressStages(t *testing.T) {
	var stages []model.Stage
	lastPct := -1
	Analyze(gen.Generate(gen.Default()), model.DefaultSettings(), func(stage model.Stage, pct int) {
		stages = append(stages, stage)
		assert.GreaterOrEqual(t, pct, lastPct)
		lastPct = pct
	})
	assert.Equal(t, []model.Stage{
		model.StageStart, model.StageProfiles, model.StageGraph,
		model.StageClusters, model.StageWaves, model.StageScorecards,
		model.StageDone,
	}, stages)
	assert.Equal(t, 100, lastPct)
}

func TestAnalyzeMalformedTimestampsStillStructural(t *testing.T) {
	// time-invalid events still count actions and edges but never waves
	logs := []model.Event{
		{Actor: "a", Action: "follow", Target: "b"},
		{Actor: "a", Action: "follow", Target: "c"},
	}
	result := Analyze(logs, model.DefaultSettings(), nil)

	card := findCard(t, result, "a")
	assert.Equal(t, 2, card.TotalActions)
	assert.Empty(t, result.Waves)
	assert.Len(t, result.Elements.Edges, 2)
	assert.Equal(t, 0, card.SessionCount)
}
