package model

// Settings configures a single Analyze pass. The zero value is not useful;
// start from DefaultSettings and override.
type Settings struct {
	// Threshold is the flagging cutoff over SybilScore, in [0,1].
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// MinClusterSize drops connected components smaller than this.
	MinClusterSize int `json:"minClusterSize" yaml:"min_cluster_size"`

	// TimeBinMinutes is the fixed-bin width for wave detection.
	TimeBinMinutes int `json:"timeBinMinutes" yaml:"time_bin_minutes"`

	WaveMinCount  int `json:"waveMinCount" yaml:"wave_min_count"`
	WaveMinActors int `json:"waveMinActors" yaml:"wave_min_actors"`

	// PositiveActions form graph edges; ChurnActions count as reversal
	// signals.
	PositiveActions []string `json:"positiveActions" yaml:"positive_actions"`
	ChurnActions    []string `json:"churnActions" yaml:"churn_actions"`

	RapidActionsPerMinuteThreshold int `json:"rapidActionsPerMinuteThreshold" yaml:"rapid_actions_per_minute_threshold"`
	EntropyMinTotalActions         int `json:"entropyMinTotalActions" yaml:"entropy_min_total_actions"`

	BurstWindowSeconds int `json:"burstWindowSeconds" yaml:"burst_window_seconds"`
	BurstMinCount      int `json:"burstMinCount" yaml:"burst_min_count"`
	BurstMinActors     int `json:"burstMinActors" yaml:"burst_min_actors"`

	VelocityWindowSeconds      int `json:"velocityWindowSeconds" yaml:"velocity_window_seconds"`
	VelocityMaxActionsInWindow int `json:"velocityMaxActionsInWindow" yaml:"velocity_max_actions_in_window"`

	SessionGapMinutes int `json:"sessionGapMinutes" yaml:"session_gap_minutes"`

	// ActionNgramSize is clamped to [2,5].
	ActionNgramSize int `json:"actionNgramSize" yaml:"action_ngram_size"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		Threshold:                      0.3,
		MinClusterSize:                 3,
		TimeBinMinutes:                 10,
		WaveMinCount:                   5,
		WaveMinActors:                  3,
		PositiveActions:                []string{"follow", "like", "recast", "repost", "boost", "tap"},
		ChurnActions:                   []string{"unfollow", "unlike", "block", "report"},
		RapidActionsPerMinuteThreshold: 60,
		EntropyMinTotalActions:         20,
		BurstWindowSeconds:             300,
		BurstMinCount:                  8,
		BurstMinActors:                 3,
		VelocityWindowSeconds:          60,
		VelocityMaxActionsInWindow:     30,
		SessionGapMinutes:              30,
		ActionNgramSize:                3,
	}
}

// Normalize clamps every option into its valid range, falling back to the
// defaults where a value is unset or nonsensical.
func (s *Settings) Normalize() {
	def := DefaultSettings()
	if s.Threshold <= 0 || s.Threshold > 1 {
		s.Threshold = def.Threshold
	}
	if s.MinClusterSize < 2 {
		s.MinClusterSize = def.MinClusterSize
	}
	if s.TimeBinMinutes < 1 {
		s.TimeBinMinutes = def.TimeBinMinutes
	}
	if s.WaveMinCount < 1 {
		s.WaveMinCount = def.WaveMinCount
	}
	if s.WaveMinActors < 1 {
		s.WaveMinActors = def.WaveMinActors
	}
	if len(s.PositiveActions) == 0 {
		s.PositiveActions = def.PositiveActions
	}
	if len(s.ChurnActions) == 0 {
		s.ChurnActions = def.ChurnActions
	}
	if s.RapidActionsPerMinuteThreshold < 1 {
		s.RapidActionsPerMinuteThreshold = def.RapidActionsPerMinuteThreshold
	}
	if s.EntropyMinTotalActions < 1 {
		s.EntropyMinTotalActions = def.EntropyMinTotalActions
	}
	if s.BurstWindowSeconds < 1 {
		s.BurstWindowSeconds = def.BurstWindowSeconds
	}
	if s.BurstMinCount < 1 {
		s.BurstMinCount = def.BurstMinCount
	}
	if s.BurstMinActors < 1 {
		s.BurstMinActors = def.BurstMinActors
	}
	if s.VelocityWindowSeconds < 1 {
		s.VelocityWindowSeconds = def.VelocityWindowSeconds
	}
	if s.VelocityMaxActionsInWindow < 1 {
		s.VelocityMaxActionsInWindow = def.VelocityMaxActionsInWindow
	}
	if s.SessionGapMinutes < 1 {
		s.SessionGapMinutes = def.SessionGapMinutes
	}
	if s.ActionNgramSize < 2 {
		s.ActionNgramSize = 2
	}
	if s.ActionNgramSize > 5 {
		s.ActionNgramSize = 5
	}
}

// PositiveSet returns the positive-action lookup set.
func (s Settings) PositiveSet() map[string]bool {
	out := make(map[string]bool, len(s.PositiveActions))
	for _, a := range s.PositiveActions {
		out[a] = true
	}
	return out
}

// ChurnSet returns the churn-action lookup set.
func (s Settings) ChurnSet() map[string]bool {
	out := make(map[string]bool, len(s.ChurnActions))
	for _, a := range s.ChurnActions {
		out[a] = true
	}
	return out
}
