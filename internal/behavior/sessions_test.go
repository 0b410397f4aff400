package behavior

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringwatch/ringwatch/internal/model"
)

func TestSessionsFromTimesSingleSession(t *testing.T) {
	times := []int64{0, 60000, 120000, 180000}
	m := SessionsFromTimes(times, 30*60000)
	assert.Equal(t, 1, m.SessionCount)
	assert.Equal(t, 3.0, m.AvgSessionMinutes)
	assert.Equal(t, 0.0, m.AvgGapMinutes)
	// short-session factor 0.5, session-count factor 0.1
	assert.InDelta(t, 0.05, m.BottyScore, 1e-9)
}

func TestSessionsFromTimesSplitsAtGap(t *testing.T) {
	hour := int64(3600000)
	times := []int64{0, 60000, 2 * hour, 2*hour + 60000}
	m := SessionsFromTimes(times, 30*60000)
	assert.Equal(t, 2, m.SessionCount)
	assert.Equal(t, 1.0, m.AvgSessionMinutes)
	assert.InDelta(t, 119.0, m.AvgGapMinutes, 1e-9)
	assert.InDelta(t, 119.0, m.MaxGapMinutes, 1e-9)
}

func TestSessionsBottyShortBursts(t *testing.T) {
	// ten one-event sessions an hour apart: short and many
	var times []int64
	for i := 0; i < 10; i++ {
		times = append(times, int64(i)*3600000)
	}
	m := SessionsFromTimes(times, 30*60000)
	assert.Equal(t, 10, m.SessionCount)
	assert.Equal(t, 0.0, m.AvgSessionMinutes)
	assert.Equal(t, 1.0, m.BottyScore)
}

func TestSessionsEmpty(t *testing.T) {
	assert.Equal(t, SessionMetrics{}, SessionsFromTimes(nil, 30*60000))
}

func TestDetectSessionMetricsGroupsByActor(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	logs := []model.Event{
		timed(base, "a", "like", "t"),
		timed(base.Add(2*time.Hour), "a", "like", "t"),
		timed(base.Add(time.Hour), "b", "like", "t"),
		{Actor: "c", Action: "like"}, // no valid timestamp
	}
	out := DetectSessionMetrics(logs, 30*time.Minute)
	require.Contains(t, out, "a")
	require.Contains(t, out, "b")
	assert.NotContains(t, out, "c")
	assert.Equal(t, 2, out["a"].SessionCount)
	assert.Equal(t, 1, out["b"].SessionCount)
}
