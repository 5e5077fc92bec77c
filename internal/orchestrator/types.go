package orchestrator

// #region imports
import (
	"time"

	"github.com/o9nn/ecco9/internal/fatigue"
	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/journal"
	"github.com/o9nn/ecco9/internal/wisdom"
)

// #endregion

// #region phase

// Phase names one step of the orchestration cycle.
type Phase string

const (
	PhasePerception    Phase = "perception"    // snapshot subsystem state into inputs
	PhaseCognition     Phase = "cognition"     // poll the external cognitive loop
	PhaseEmotion       Phase = "emotion"       // mark the emotion subsystem active
	PhaseSocial        Phase = "social"        // mark the theory-of-mind subsystem active
	PhaseLearning      Phase = "learning"      // record interest/wisdom readings into outputs
	PhaseConsolidation Phase = "consolidation" // mark consolidation active while resting
	PhaseIntegration   Phase = "integration"   // stamp completion metadata
)

// allPhases is the fixed execution order of one tick.
var allPhases = []Phase{
	PhasePerception,
	PhaseCognition,
	PhaseEmotion,
	PhaseSocial,
	PhaseLearning,
	PhaseConsolidation,
	PhaseIntegration,
}

// #endregion

// #region subsystems

// CognitiveLoop is the poll contract of an external stepped-cognition
// subsystem. Absence is a valid disabled feature.
type CognitiveLoop interface {
	Start() error
	Stop() error
	CurrentStep() int
	CurrentPhase() string
}

// Consolidator is the contract of an external memory-consolidation
// subsystem. The orchestrator starts it on entering RESTING and stops
// it on entering AWAKE.
type Consolidator interface {
	Start() error
	Stop() error
	Running() bool
}

// Capabilities names the subsystems wired into the orchestrator at
// construction. Nil or false entries are disabled features, never
// errors.
type Capabilities struct {
	Fatigue       *fatigue.Model
	Interest      *interest.Tracker
	Wisdom        *wisdom.Aggregator
	Cognition     CognitiveLoop
	Consolidation Consolidator
	Emotion       bool // emotion subsystem present
	TheoryOfMind  bool // theory-of-mind subsystem present
	Journal       *journal.Journal
}

// #endregion

// #region context

// Inputs is the perception-phase snapshot of subsystem state.
type Inputs struct {
	ConsciousnessState fatigue.State
	Fatigue            float64
	ActiveInterests    []string
	ExplorationGoals   int
	Wisdom             wisdom.Scores
}

// Outputs collects what the later phases record.
type Outputs struct {
	CognitiveStep       int
	CognitivePhase      string
	EmotionActive       bool
	SocialActive        bool
	InterestActive      bool
	CompositeWisdom     float64
	ConsolidationActive bool
}

// Context is the record one tick produces and then retires to the
// history buffer.
type Context struct {
	Timestamp   time.Time
	Cycle       int64
	Phase       Phase // last phase executed
	Inputs      Inputs
	Outputs     Outputs
	Complete    bool
	CompletedAt time.Time
}

// #endregion

// #region config

// Config holds the cadence and bounds of the orchestration loop.
type Config struct {
	TickInterval     time.Duration // cycle sleep while awake (default 1s)
	RestTickInterval time.Duration // cycle sleep while resting/deep rest (default 5s)
	HistoryLimit     int           // retained context records (default 100)
	BackoffMin       time.Duration // first delay after a cycle error (default 1s)
	BackoffMax       time.Duration // error delay cap, doubling up to this (default 5s)
}

// DefaultConfig returns the standard loop cadence.
func DefaultConfig() Config {
	return Config{
		TickInterval:     time.Second,
		RestTickInterval: 5 * time.Second,
		HistoryLimit:     100,
		BackoffMin:       time.Second,
		BackoffMax:       5 * time.Second,
	}
}

// #endregion

// #region summary

// Summary reports coarse orchestration metrics.
type Summary struct {
	Running          bool
	TotalCycles      int64
	AverageCycleTime time.Duration
	PhaseTimes       map[Phase]time.Duration
	Subsystems       map[string]bool
}

// #endregion
