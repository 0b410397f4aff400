package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(Default())
	b := Generate(Default())
	assert.Equal(t, a, b)
}

func TestGenerateCounts(t *testing.T) {
	o := Default()
	events := Generate(o)

	// funding transfers + member follows + organic + burst
	expected := o.FarmClusters*o.FarmSize + // transfers
		o.FarmClusters*o.FarmSize*o.FollowsPerMember +
		o.OrganicEvents +
		o.FarmClusters*o.BurstActors*o.BurstActionsEach
	assert.Len(t, events, expected)

	transfers, follows, unfollows := 0, 0, 0
	for i := range events {
		require.True(t, events[i].TimeValid)
		require.NotEmpty(t, events[i].Actor)
		switch events[i].Action {
		case "transfer":
			transfers++
		case "follow":
			if events[i].Platform == "farcaster" {
				follows++
			}
		case "unfollow":
			unfollows++
		}
	}
	assert.Equal(t, o.FarmClusters*o.FarmSize, transfers)
	assert.Equal(t, o.FarmClusters*o.FarmSize*o.FollowsPerMember, follows)
	assert.Equal(t, o.FarmClusters*o.BurstActors*o.BurstActionsEach, unfollows)
}

func TestGenerateMemberProfiles(t *testing.T) {
	events := Generate(Default())

	member := MemberID(0, 0)
	sawProfile := false
	for i := range events {
		if events[i].Actor != member || events[i].Bio == "" {
			continue
		}
		sawProfile = true
		assert.Contains(t, events[i].Bio, "https://bit.ly/")
		require.NotNil(t, events[i].FollowerCount)
		require.NotNil(t, events[i].FollowingCount)
		assert.Less(t, float64(*events[i].FollowerCount)/float64(*events[i].FollowingCount), 0.1)
		require.NotNil(t, events[i].ActorCreatedAt)
	}
	assert.True(t, sawProfile, "farm member should carry a templated profile")
}

func TestGenerateNoBurst(t *testing.T) {
	o := Default()
	o.Burst = false
	for _, ev := range Generate(o) {
		assert.NotEqual(t, "unfollow", ev.Action)
	}
}

func TestMemberIDsAreHexAddresses(t *testing.T) {
	assert.Len(t, MemberID(0, 0), 42)
	assert.Len(t, FunderID(1), 42)
	assert.NotEqual(t, MemberID(0, 1), MemberID(1, 1))
}
