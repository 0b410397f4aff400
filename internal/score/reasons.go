package score

import (
	"fmt"

	"github.com/ringwatch/ringwatch/internal/model"
)

// buildReasons appends one human-readable clause per fired condition, in a
// fixed order so reports are stable. The threshold clause always comes
// first when the composite crosses it.
func buildReasons(card *model.Scorecard, in Inputs, s model.Settings) []string {
	reasons := []string{}
	if card.SybilScore > s.Threshold {
		reasons = append(reasons, fmt.Sprintf("Composite score %.2f above threshold %.2f", card.SybilScore, s.Threshold))
	}
	if card.CoordinationScore >= 0.5 {
		reasons = append(reasons, fmt.Sprintf("High burst coordination (%d of %d actions in coordinated bursts)", card.BurstActions, card.TotalActions))
	}
	if card.ChurnScore >= 5 {
		reasons = append(reasons, fmt.Sprintf("High churn activity (%d churn actions)", card.ChurnScore))
	}
	if card.ClusterIsolationScore >= 0.5 && card.ClusterSize >= s.MinClusterSize {
		reasons = append(reasons, fmt.Sprintf("Isolated member of cluster %d (size %d)", card.ClusterID, card.ClusterSize))
	}
	if card.LowDiversityScore >= 0.7 {
		reasons = append(reasons, fmt.Sprintf("Low target diversity (%d targets over %d actions)", card.UniqueTargets, card.TotalActions))
	}
	if n := len(card.SuspiciousLinks); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Suspicious link domains (%d)", n))
	}
	if in.PhishingCount > 0 {
		reasons = append(reasons, fmt.Sprintf("Likely phishing links (%d)", in.PhishingCount))
	}
	if n := len(card.SharedLinks); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Shared links with others (%d)", n))
	}
	if card.BioSimilarityScore >= 0.4 {
		reasons = append(reasons, fmt.Sprintf("Bio shared with %d other actors", in.BioShareCount-1))
	}
	if card.HandlePatternScore >= 0.4 {
		reasons = append(reasons, fmt.Sprintf("Templated handle pattern (%.2f)", card.HandlePatternScore))
	}
	if card.NewAccountScore > 0 {
		reasons = append(reasons, "New account (created less than 7 days before first activity)")
	}
	if card.Pagerank > 0.01 {
		reasons = append(reasons, fmt.Sprintf("High PageRank (%.4f)", card.Pagerank))
	}
	if card.Betweenness > 0.05 {
		reasons = append(reasons, fmt.Sprintf("High betweenness centrality (%.3f)", card.Betweenness))
	}
	if card.MaxActionsPerMinute >= s.RapidActionsPerMinuteThreshold {
		reasons = append(reasons, fmt.Sprintf("Rapid actions (%d/min)", card.MaxActionsPerMinute))
	}
	if card.VelocityScore >= 0.7 {
		reasons = append(reasons, fmt.Sprintf("High action velocity (%d actions in %ds)", card.MaxActionsPerVelocityWindow, s.VelocityWindowSeconds))
	}
	if card.ActionSequenceRepeatScore >= 0.7 {
		reasons = append(reasons, fmt.Sprintf("Repetitive action sequence (%s x%d)", card.TopActionNgram, card.TopActionNgramCount))
	}
	if card.CircadianScore >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Anomalous circadian pattern (%d active hours)", card.ActiveHours))
	}
	if card.LowEntropyScore >= 0.7 && card.TotalActions >= s.EntropyMinTotalActions {
		reasons = append(reasons, fmt.Sprintf("Low target entropy (%.2f)", card.TargetEntropy))
	}
	if len(card.SharedWallets) > 0 {
		reasons = append(reasons, fmt.Sprintf("Shared funding source (%d)", len(card.SharedWallets)))
	}
	if len(card.CrossAppPlatforms) > 1 {
		reasons = append(reasons, fmt.Sprintf("Cross-platform activity (%d platforms)", len(card.CrossAppPlatforms)))
	}
	if card.SessionCount > 5 {
		reasons = append(reasons, fmt.Sprintf("Fragmented session pattern (%d sessions)", card.SessionCount))
	}
	if card.FraudTxScore > 0.5 {
		reasons = append(reasons, fmt.Sprintf("Irregular transaction amounts (%.2f)", card.FraudTxScore))
	}
	return reasons
}
