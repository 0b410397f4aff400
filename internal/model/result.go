package model

import "time"

// Wave detection methods.
const (
	WaveMethodBin    = "bin"
	WaveMethodWindow = "window"
)

// Progress stages, reported in order between pipeline phases.
type Stage string

const (
	StageStart      Stage = "start"
	StageProfiles   Stage = "profiles"
	StageGraph      Stage = "graph"
	StageClusters   Stage = "clusters"
	StageWaves      Stage = "waves"
	StageScorecards Stage = "scorecards"
	StageDone       Stage = "done"
)

// ProgressFunc receives staged progress. Callbacks run in-thread between
// stages and must not block.
type ProgressFunc func(stage Stage, pct int)

// Node is a graph-visualization node; one per unique actor or target.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Edge is one positive-action interaction.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Action string `json:"action"`
}

// Elements is the node/edge set handed to graph visualizers.
type Elements struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Cluster is a connected component of the undirected projection with at
// least minClusterSize members.
type Cluster struct {
	ID            int      `json:"clusterId"`
	Members       []string `json:"members"`
	Density       float64  `json:"density"`
	Conductance   float64  `json:"conductance"`
	ExternalEdges int      `json:"externalEdges"`
}

// Wave is a coordination burst: either a fixed time bin (method "bin") or a
// sliding window (method "window") over one (action, target) pair.
type Wave struct {
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Action      string    `json:"action"`
	Target      string    `json:"target"`
	Actors      []string  `json:"actors"`
	ZScore      float64   `json:"zScore"`
	Method      string    `json:"method"`
}

// Scorecard is the per-actor risk report. Score fields are in [0,1] except
// the raw counters (ChurnScore, SessionCount, MaxActionsPerMinute,
// TopActionNgramCount and friends).
type Scorecard struct {
	Actor      string   `json:"actor"`
	SybilScore float64  `json:"sybilScore"`
	Flagged    bool     `json:"flagged"`
	Reasons    []string `json:"reasons"`

	TotalActions  int `json:"totalActions"`
	UniqueTargets int `json:"uniqueTargets"`
	ChurnScore    int `json:"churnScore"`
	BurstActions  int `json:"burstActions"`

	CoordinationScore     float64 `json:"coordinationScore"`
	ClusterID             int     `json:"clusterId"`
	ClusterSize           int     `json:"clusterSize"`
	ClusterIsolationScore float64 `json:"clusterIsolationScore"`
	LowDiversityScore     float64 `json:"lowDiversityScore"`
	NewAccountScore       float64 `json:"newAccountScore"`
	ProfileAnomalyScore   float64 `json:"profileAnomalyScore"`

	Pagerank        float64 `json:"pagerank"`
	EigenCentrality float64 `json:"eigenCentrality"`
	Betweenness     float64 `json:"betweenness"`
	MutualPositive  int     `json:"mutualPositive"`
	ReciprocalRate  float64 `json:"reciprocalRate"`

	MaxActionsPerMinute         int     `json:"maxActionsPerMinute"`
	RapidActionScore            float64 `json:"rapidActionScore"`
	MaxActionsPerVelocityWindow int     `json:"maxActionsPerVelocityWindow"`
	MaxPerSecond                float64 `json:"maxPerSecond"`
	VelocityScore               float64 `json:"velocityScore"`

	TargetEntropy             float64 `json:"targetEntropy"`
	LowEntropyScore           float64 `json:"lowEntropyScore"`
	ActiveHours               int     `json:"activeHours"`
	HourEntropy               float64 `json:"hourEntropy"`
	CircadianScore            float64 `json:"circadianScore"`
	TopActionNgram            string  `json:"topActionNgram,omitempty"`
	TopActionNgramCount       int     `json:"topActionNgramCount"`
	ActionSequenceRepeatScore float64 `json:"actionSequenceRepeatScore"`

	SessionCount      int     `json:"sessionCount"`
	AvgSessionMinutes float64 `json:"avgSessionMinutes"`
	AvgGapMinutes     float64 `json:"avgGapMinutes"`
	MaxGapMinutes     float64 `json:"maxGapMinutes"`
	BottySessionScore float64 `json:"bottySessionScore"`

	// SharedWallets lists shared funders: senders of transfers whose
	// recipient set includes this actor plus at least one other. The
	// name is legacy wire vocabulary; the semantics are "shared
	// funder", not "same wallet address".
	SharedWallets     []string `json:"sharedWallets"`
	SharedWalletScore float64  `json:"sharedWalletScore"`
	CrossAppPlatforms []string `json:"crossAppPlatforms"`
	CrossAppScore     float64  `json:"crossAppScore"`
	FraudTxScore      float64  `json:"fraudTxScore"`

	Links              []string `json:"links"`
	SuspiciousLinks    []string `json:"suspiciousLinks"`
	SharedLinks        []string `json:"sharedLinks"`
	PhishingLinkScore  float64  `json:"phishingLinkScore"`
	LinkDiversity      float64  `json:"linkDiversity"`
	BioSimilarityScore float64  `json:"bioSimilarityScore"`
	HandlePatternScore float64  `json:"handlePatternScore"`
}

// AnalysisResult is the full report for one Analyze call. The caller owns
// it; the engine keeps no references across calls.
type AnalysisResult struct {
	Elements   Elements    `json:"elements"`
	Clusters   []Cluster   `json:"clusters"`
	Waves      []Wave      `json:"waves"`
	Scorecards []Scorecard `json:"scorecards"`
}
