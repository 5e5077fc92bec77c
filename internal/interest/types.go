package interest

import "time"

// #region engagement

// TopicEngagement accumulates everything observed about one topic. One
// record per topic key; created on first encounter, never deleted.
type TopicEngagement struct {
	Topic            string
	FirstEncounter   time.Time
	LastEncounter    time.Time
	EncounterCount   int
	TotalDuration    time.Duration
	EmotionalValence float64 // moving average in [-1,1]
	CuriosityLevel   float64 // 0.0-1.0
	LearningProgress float64 // 0.0-1.0
	Satisfaction     float64 // moving average in [0,1]
	RelatedTopics    map[string]bool
}

// #endregion

// #region encounter

// Encounter is one observed engagement with a topic.
type Encounter struct {
	Topic        string
	Duration     time.Duration
	Valence      float64 // emotional response in [-1,1]
	Learning     bool    // whether learning happened
	Satisfaction float64 // 0.0-1.0
}

// #endregion

// #region goal

// ExplorationGoal is an autonomous exploration target for a topic.
// Goals are append-only; progress updates mutate them in place.
type ExplorationGoal struct {
	ID              string
	Topic           string
	Created         time.Time
	Priority        float64 // 0.0-1.0
	CuriosityDriver float64 // how much curiosity drives this
	UtilityDriver   float64 // how much practical utility drives this
	Progress        float64 // 0.0-1.0
	TargetDepth     float64 // desired depth of understanding
	Completed       bool
}

// #endregion

// #region summary

// Summary is a coarse read of the tracker for logs and inspection.
type Summary struct {
	TotalTopics     int
	ActiveInterests []string
	ActiveGoals     int
	CompletedGoals  int
	TopicClusters   int
	AvgCuriosity    float64
	AvgSatisfaction float64
}

// #endregion

// #region config

// Config holds the decay and selection parameters of the tracker.
type Config struct {
	DecayRate         float64 // per-day curiosity decay factor (default 0.95)
	RecoveryRate      float64 // per-day curiosity recovery (default 0.1)
	InitialCuriosity  float64 // curiosity assigned on first encounter (default 0.7)
	ActiveLimit       int     // max active interests (default 5)
	ActiveThreshold   float64 // min salience for an active interest (default 0.3)
	JoinThreshold     float64 // salience above which any discussion is joined (default 0.4)
}

// DefaultConfig returns the stock tracker parameters.
func DefaultConfig() Config {
	return Config{
		DecayRate:        0.95,
		RecoveryRate:     0.1,
		InitialCuriosity: 0.7,
		ActiveLimit:      5,
		ActiveThreshold:  0.3,
		JoinThreshold:    0.4,
	}
}

// #endregion
