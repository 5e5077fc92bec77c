package wisdom

import "time"

// #region insight

// Insight is an immutable input record scoring one wisdom insight.
type Insight struct {
	ID                    string
	Content               string
	Timestamp             time.Time
	DepthScore            float64 // 0.0-1.0, how fundamental the insight is
	BreadthScore          float64 // 0.0-1.0, how many domains it connects
	ApplicabilityScore    float64 // 0.0-1.0, practical utility
	CoherenceContribution float64 // -1.0 to 1.0, effect on worldview coherence
	RelatedDomains        []string
}

// BeliefUpdate is an immutable record of one evidence-driven revision.
type BeliefUpdate struct {
	ID               string
	Timestamp        time.Time
	PriorBelief      string
	UpdatedBelief    string
	Evidence         string
	ConfidenceChange float64 // magnitude signals evidence strength
	CoherenceImpact  float64 // -1.0 to 1.0
}

// #endregion

// #region scores

// Scores holds the five wisdom dimensions and their weighted composite.
type Scores struct {
	Depth         float64
	Breadth       float64
	Applicability float64
	Coherence     float64
	Adaptability  float64
	Composite     float64
}

// snapshot is one historical composite-score sample.
type snapshot struct {
	at     time.Time
	scores Scores
}

// #endregion

// #region summary

// Summary is a comprehensive read of the aggregator for logs and
// inspection.
type Summary struct {
	Scores                 Scores
	GrowthRatePerHour      float64
	TotalInsights          int
	TotalBeliefUpdates     int
	DomainsExplored        int
	CrossDomainConnections int
	CurrentCoherence       float64
	EvidenceIntegration    float64
}

// #endregion

// #region config

// Config holds the running-scalar parameters of the aggregator.
type Config struct {
	CoherenceStep    float64 // coherence shift per unit contribution (default 0.05)
	EvidenceAlpha    float64 // EMA rate for evidence integration (default 0.1)
	InitialCoherence float64 // neutral starting coherence (default 0.5)
	InitialEvidence  float64 // neutral starting evidence integration (default 0.5)
}

// DefaultConfig returns the stock aggregator parameters.
func DefaultConfig() Config {
	return Config{
		CoherenceStep:    0.05,
		EvidenceAlpha:    0.1,
		InitialCoherence: 0.5,
		InitialEvidence:  0.5,
	}
}

// #endregion
