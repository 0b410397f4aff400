package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2024-03-01T12:30:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("2024-03-01 12:30:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ts)

	// unix seconds
	ts, ok = ParseTimestamp("1709294400")
	require.True(t, ok)
	assert.Equal(t, int64(1709294400), ts.Unix())

	// unix milliseconds
	ts, ok = ParseTimestamp("1709294400000")
	require.True(t, ok)
	assert.Equal(t, int64(1709294400), ts.Unix())

	_, ok = ParseTimestamp("not-a-time")
	assert.False(t, ok)

	_, ok = ParseTimestamp("")
	assert.False(t, ok)
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"true", "TRUE", "1", "yes"} {
		v, ok := ParseBool(raw)
		assert.True(t, ok, raw)
		assert.True(t, v, raw)
	}
	for _, raw := range []string{"false", "0", "No"} {
		v, ok := ParseBool(raw)
		assert.True(t, ok, raw)
		assert.False(t, v, raw)
	}
	_, ok := ParseBool("maybe")
	assert.False(t, ok)
}

func TestHasProfile(t *testing.T) {
	ev := Event{Actor: "a", Action: "follow"}
	assert.False(t, ev.HasProfile())

	ev.Bio = "hello"
	assert.True(t, ev.HasProfile())

	n := 5
	ev = Event{Actor: "a", FollowerCount: &n}
	assert.True(t, ev.HasProfile())
}

func TestSettingsNormalize(t *testing.T) {
	s := Settings{}
	s.Normalize()
	def := DefaultSettings()
	assert.Equal(t, def.Threshold, s.Threshold)
	assert.Equal(t, def.MinClusterSize, s.MinClusterSize)
	assert.Equal(t, def.PositiveActions, s.PositiveActions)
	assert.Equal(t, def.BurstWindowSeconds, s.BurstWindowSeconds)

	s = Settings{Threshold: 2, MinClusterSize: 1, ActionNgramSize: 7}
	s.Normalize()
	assert.Equal(t, def.Threshold, s.Threshold)
	assert.Equal(t, def.MinClusterSize, s.MinClusterSize)
	assert.Equal(t, 5, s.ActionNgramSize)

	s = Settings{ActionNgramSize: 1}
	s.Normalize()
	assert.Equal(t, 2, s.ActionNgramSize)
}

func TestSettingsActionSets(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.PositiveSet()["follow"])
	assert.True(t, s.PositiveSet()["tap"])
	assert.False(t, s.PositiveSet()["unfollow"])
	assert.True(t, s.ChurnSet()["unfollow"])
	assert.True(t, s.ChurnSet()["report"])
	assert.False(t, s.ChurnSet()["like"])
}
