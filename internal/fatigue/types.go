package fatigue

import "time"

// #region state

// State is the consciousness state of the wake/rest machine.
type State string

const (
	StateAwake    State = "awake"
	StateDrowsy   State = "drowsy"
	StateResting  State = "resting"
	StateDeepRest State = "deep_rest"
	StateWaking   State = "waking"
)

// Resting reports whether s is one of the two rest states.
func (s State) Resting() bool {
	return s == StateResting || s == StateDeepRest
}

// #endregion

// #region sample

// Sample carries one observation cycle into Update.
type Sample struct {
	ProcessingQuality float64 // 0.0-1.0, quality of recent processing
	CoherenceLevel    float64 // 0.0-1.0, current cognitive coherence
	NewMemories       int     // memories created since last update
	Consolidated      bool    // whether consolidation just completed
}

// DefaultSample returns the neutral observation used when no live
// quality/coherence feed is wired in.
func DefaultSample() Sample {
	return Sample{ProcessingQuality: 0.8, CoherenceLevel: 0.8}
}

// #endregion

// #region transition

// Transition records one consciousness state change.
type Transition struct {
	From     State
	To       State
	At       time.Time
	Fatigue  float64
	Pressure float64
}

// Result bundles everything returned by Update().
type Result struct {
	State      State
	Transition *Transition // nil when the state did not change
}

// #endregion

// #region metrics

// Metrics estimates cognitive load indicators from the fatigue level.
type Metrics struct {
	ProcessingQuality float64 // average over retained samples
	CoherenceLevel    float64 // average over retained samples
	ResponseLatency   float64 // notional seconds, grows with fatigue
	ErrorRate         float64 // 0.0-1.0
	AttentionSpan     float64 // 0.0-1.0
}

// ConsolidationMetrics estimates the memory consolidation backlog.
type ConsolidationMetrics struct {
	UnconsolidatedMemories int
	Pressure               float64
	BufferUtilization      float64
	LastConsolidation      time.Time // zero unless currently resting
	Quality                float64
}

// Snapshot is a point-in-time read of the full model state.
type Snapshot struct {
	State           State
	EnteredAt       time.Time
	Fatigue         float64
	Pressure        float64
	TotalCycles     int
	OptimalActivity time.Duration // learned target, EMA-adjusted per cycle
	OptimalRest     time.Duration
}

// #endregion

// #region config

// Config holds the thresholds and rates of the wake/rest machine.
type Config struct {
	AccumulationRate       float64 // fatigue per active minute (default 0.01)
	DeficitRate            float64 // extra fatigue per minute per unit quality/coherence deficit (default 0.005)
	RecoveryRate           float64 // fatigue shed per resting minute (default 0.05)
	MemoryPressure         float64 // consolidation pressure per new memory (default 0.01)
	DrowsyThreshold        float64 // fatigue forcing awake -> drowsy (default 0.6)
	RestThreshold          float64 // fatigue forcing drowsy -> resting (default 0.75)
	WakeThreshold          float64 // fatigue below which waking is allowed (default 0.2)
	ConsolidationThreshold float64 // pressure forcing rest regardless of fatigue (default 0.7)
	DeepRestAfter          time.Duration // resting -> deep_rest delay (default 2m)
	WakingPeriod           time.Duration // waking -> awake delay (default 10s)
	OptimalActivity        time.Duration // initial learned activity target (default 1h)
	OptimalRest            time.Duration // initial learned rest target (default 10m)
	DurationAlpha          float64       // EMA rate for duration learning (default 0.1)
	QualityBar             float64       // avg quality above which a cycle counts as sustainable (default 0.7)
}

// DefaultConfig returns the stock thresholds and rates.
func DefaultConfig() Config {
	return Config{
		AccumulationRate:       0.01,
		DeficitRate:            0.005,
		RecoveryRate:           0.05,
		MemoryPressure:         0.01,
		DrowsyThreshold:        0.6,
		RestThreshold:          0.75,
		WakeThreshold:          0.2,
		ConsolidationThreshold: 0.7,
		DeepRestAfter:          2 * time.Minute,
		WakingPeriod:           10 * time.Second,
		OptimalActivity:        time.Hour,
		OptimalRest:            10 * time.Minute,
		DurationAlpha:          0.1,
		QualityBar:             0.7,
	}
}

// #endregion
