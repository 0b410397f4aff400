package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringwatch/ringwatch/internal/model"
)

func TestAggregateFoldsLastWriteWins(t *testing.T) {
	n1, n2 := 10, 20
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	logs := []model.Event{
		{Actor: "a", Action: "follow", Bio: "first bio", FollowerCount: &n1},
		{Actor: "a", Action: "like", Bio: "second bio", FollowerCount: &n2, ActorCreatedAt: &created},
		{Actor: "b", Action: "follow"},
	}
	agg := Aggregate(logs)

	p := agg.Get("a")
	assert.Equal(t, "second bio", p.Bio)
	require.NotNil(t, p.FollowerCount)
	assert.Equal(t, 20, *p.FollowerCount)
	require.NotNil(t, p.CreatedAt)
	assert.Equal(t, created, *p.CreatedAt)

	// unseen actors get an empty profile, never nil
	empty := agg.Get("zzz")
	require.NotNil(t, empty)
	assert.Equal(t, "zzz", empty.Actor)
	assert.Empty(t, empty.Links)
}

func TestAggregateExtractsBioLinks(t *testing.T) {
	logs := []model.Event{
		{Actor: "a", Action: "follow", Bio: "visit https://bit.ly/x today"},
		{Actor: "a", Action: "follow", Links: []string{"https://example.com", "https://bit.ly/x"}},
	}
	agg := Aggregate(logs)
	p := agg.Get("a")
	// deduplicated union across bio and explicit links
	assert.Equal(t, []string{"https://bit.ly/x", "https://example.com"}, p.Links)
}

func TestAggregateSharedLinks(t *testing.T) {
	logs := []model.Event{
		{Actor: "a", Action: "follow", Links: []string{"https://bit.ly/drop", "https://only-a.com"}},
		{Actor: "b", Action: "follow", Links: []string{"https://bit.ly/drop"}},
		{Actor: "c", Action: "follow", Links: []string{"https://only-c.com"}},
	}
	agg := Aggregate(logs)

	assert.Equal(t, []string{"https://bit.ly/drop"}, agg.Get("a").SharedLinks)
	assert.Equal(t, []string{"https://bit.ly/drop"}, agg.Get("b").SharedLinks)
	assert.Empty(t, agg.Get("c").SharedLinks)
}

func TestBioShareCount(t *testing.T) {
	logs := []model.Event{
		{Actor: "a", Action: "follow", Bio: "Daily  Rewards Here"},
		{Actor: "b", Action: "follow", Bio: "daily rewards here"},
		{Actor: "c", Action: "follow", Bio: "something else"},
		{Actor: "d", Action: "follow"},
	}
	agg := Aggregate(logs)

	// whitespace and case are normalized away
	assert.Equal(t, 2, agg.BioShareCount("a"))
	assert.Equal(t, 2, agg.BioShareCount("b"))
	assert.Equal(t, 1, agg.BioShareCount("c"))
	assert.Equal(t, 0, agg.BioShareCount("d"))
}

func TestNormalizeBio(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeBio("  Hello   WORLD "))
	assert.Equal(t, "", NormalizeBio("   "))
}
