package score

import (
	"github.com/ringwatch/ringwatch/internal/behavior"
	"github.com/ringwatch/ringwatch/internal/model"
	"github.com/ringwatch/ringwatch/internal/temporal"
)

// Composite weights. The base captures the structural/profile picture; the
// additions layer the behavioral detectors on top. The sum is clamped to
// [0,1].
const (
	wCoordination   = 0.30
	wChurn          = 0.20
	wIsolation      = 0.15
	wNewAccount     = 0.10
	wLowDiversity   = 0.10
	wProfileAnomaly = 0.15

	wRapid      = 0.10
	wLowEntropy = 0.05
	wVelocity   = 0.05
	wSequence   = 0.03
	wCircadian  = 0.03
	wWallet     = 0.05
	wCrossApp   = 0.05
	wSessions   = 0.05
	wFraud      = 0.05
)

// Inputs carries every per-actor signal the scorer fuses.
type Inputs struct {
	Actor string

	TotalActions  int
	UniqueTargets int
	ChurnActions  int
	BurstActions  int

	ClusterID        int // 0 when not in a reported cluster
	ClusterSize      int
	UndirectedDegree int

	Pagerank        float64
	EigenCentrality float64
	Betweenness     float64
	MutualPositive  int
	PositiveOut     int

	Rapid     temporal.RapidMetrics
	Velocity  temporal.VelocityMetrics
	Entropy   behavior.EntropyMetrics
	Circadian behavior.CircadianMetrics
	Sequence  behavior.SequenceMetrics
	Sessions  behavior.SessionMetrics

	SharedWallets     []string
	CrossAppPlatforms []string
	FraudTxScore      float64

	Links           []string
	SuspiciousLinks []string
	SharedLinks     []string
	PhishingCount   int
	LinkDiversity   float64
	UniqueLinkHosts int

	FollowerRatioFlag  bool // followerCount/followingCount < 0.1
	BioShareCount      int  // actors sharing this normalized bio
	HandlePatternScore float64
	NewAccountScore    float64
}

// Build fuses the inputs into one scorecard with per-reason attribution.
func Build(in Inputs, s model.Settings) model.Scorecard {
	card := model.Scorecard{
		Actor:         in.Actor,
		TotalActions:  in.TotalActions,
		UniqueTargets: in.UniqueTargets,
		ChurnScore:    in.ChurnActions,
		BurstActions:  in.BurstActions,

		ClusterID:   in.ClusterID,
		ClusterSize: in.ClusterSize,

		Pagerank:        in.Pagerank,
		EigenCentrality: in.EigenCentrality,
		Betweenness:     in.Betweenness,
		MutualPositive:  in.MutualPositive,

		MaxActionsPerMinute:         in.Rapid.MaxPerMinute,
		RapidActionScore:            in.Rapid.Score,
		MaxActionsPerVelocityWindow: in.Velocity.MaxInWindow,
		MaxPerSecond:                in.Velocity.MaxPerSecond,
		VelocityScore:               in.Velocity.Score,

		TargetEntropy:             in.Entropy.TargetEntropy,
		LowEntropyScore:           in.Entropy.LowEntropyScore,
		ActiveHours:               in.Circadian.ActiveHours,
		HourEntropy:               in.Circadian.HourEntropy,
		CircadianScore:            in.Circadian.Score,
		TopActionNgram:            in.Sequence.TopNgram,
		TopActionNgramCount:       in.Sequence.TopCount,
		ActionSequenceRepeatScore: in.Sequence.Score,

		SessionCount:      in.Sessions.SessionCount,
		AvgSessionMinutes: in.Sessions.AvgSessionMinutes,
		AvgGapMinutes:     in.Sessions.AvgGapMinutes,
		MaxGapMinutes:     in.Sessions.MaxGapMinutes,
		BottySessionScore: in.Sessions.BottyScore,

		SharedWallets:     emptyIfNil(in.SharedWallets),
		CrossAppPlatforms: emptyIfNil(in.CrossAppPlatforms),
		FraudTxScore:      in.FraudTxScore,

		Links:           emptyIfNil(in.Links),
		SuspiciousLinks: emptyIfNil(in.SuspiciousLinks),
		SharedLinks:     emptyIfNil(in.SharedLinks),
		LinkDiversity:   in.LinkDiversity,

		HandlePatternScore: in.HandlePatternScore,
		NewAccountScore:    in.NewAccountScore,
	}

	if in.PositiveOut > 0 {
		card.ReciprocalRate = float64(in.MutualPositive) / float64(in.PositiveOut)
	}
	if in.TotalActions > 0 {
		card.CoordinationScore = clamp01(float64(in.BurstActions) / float64(in.TotalActions))
		card.LowDiversityScore = clamp01(1 - float64(in.UniqueTargets)/float64(in.TotalActions))
	}
	if in.ClusterID > 0 && in.ClusterSize > 0 {
		card.ClusterIsolationScore = clamp01(1 - float64(in.UndirectedDegree)/float64(in.ClusterSize))
	}
	card.ProfileAnomalyScore = profileAnomaly(in)
	card.PhishingLinkScore = clamp01(float64(in.PhishingCount) / 2)
	if in.BioShareCount > 1 {
		card.BioSimilarityScore = clamp01(float64(in.BioShareCount-1) / 5)
	}

	base := wCoordination*card.CoordinationScore +
		wChurn*clamp01(float64(card.ChurnScore)/10) +
		wIsolation*card.ClusterIsolationScore +
		wNewAccount*card.NewAccountScore +
		wLowDiversity*card.LowDiversityScore +
		wProfileAnomaly*card.ProfileAnomalyScore

	entropyTerm := 0.0
	if in.TotalActions >= s.EntropyMinTotalActions {
		entropyTerm = card.LowEntropyScore
	}
	walletTerm := 0.0
	if len(in.SharedWallets) > 0 {
		walletTerm = 1
	}
	crossTerm := 0.0
	if len(in.CrossAppPlatforms) > 1 {
		crossTerm = 0.5
	}
	card.SharedWalletScore = walletTerm
	card.CrossAppScore = crossTerm

	card.SybilScore = clamp01(base +
		wRapid*card.RapidActionScore +
		wLowEntropy*entropyTerm +
		wVelocity*card.VelocityScore +
		wSequence*card.ActionSequenceRepeatScore +
		wCircadian*card.CircadianScore +
		wWallet*walletTerm +
		wCrossApp*crossTerm +
		wSessions*card.BottySessionScore +
		wFraud*card.FraudTxScore)

	card.Flagged = card.SybilScore > s.Threshold
	card.Reasons = buildReasons(&card, in, s)
	return card
}

// profileAnomaly mixes three binary flags: a skewed follower/following
// ratio, any suspicious link, and a single-host link list.
func profileAnomaly(in Inputs) float64 {
	ratio, suspicious, lowDiversity := 0.0, 0.0, 0.0
	if in.FollowerRatioFlag {
		ratio = 1
	}
	if len(in.SuspiciousLinks) > 0 {
		suspicious = 1
	}
	if len(in.Links) > 0 && in.UniqueLinkHosts <= 1 {
		lowDiversity = 1
	}
	return clamp01(0.5*ratio + 0.3*suspicious + 0.2*lowDiversity)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
