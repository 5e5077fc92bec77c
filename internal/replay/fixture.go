package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/o9nn/ecco9/internal/eval"
	"github.com/o9nn/ecco9/internal/fatigue"
	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/wisdom"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a
// recorded observation sequence plus the end-state metrics it should
// produce.
type Fixture struct {
	Description  string               `json:"description"`
	Config       FixtureConfig        `json:"config"`
	Observations []FixtureObservation `json:"observations"`
	Expect       FixtureExpect        `json:"expect"`
}

// FixtureObservation is one recorded step. Exactly one payload field is
// set per observation; an empty observation is a fixture error.
type FixtureObservation struct {
	Encounter    *FixtureEncounter    `json:"encounter,omitempty"`
	Relation     *FixtureRelation     `json:"relation,omitempty"`
	Insight      *FixtureInsight      `json:"insight,omitempty"`
	BeliefUpdate *FixtureBeliefUpdate `json:"belief_update,omitempty"`
	Goal         *FixtureGoal         `json:"goal,omitempty"`
	GoalProgress *FixtureGoalProgress `json:"goal_progress,omitempty"`
	Sample       *FixtureSample       `json:"sample,omitempty"`
}

// FixtureEncounter mirrors interest.Encounter with JSON tags.
type FixtureEncounter struct {
	Topic        string  `json:"topic"`
	DurationSec  float64 `json:"duration_sec"`
	Valence      float64 `json:"valence"`
	Learning     bool    `json:"learning"`
	Satisfaction float64 `json:"satisfaction"`
}

// FixtureRelation links two topics in the tracker's relation map.
type FixtureRelation struct {
	Topic   string `json:"topic"`
	Related string `json:"related"`
}

// FixtureInsight mirrors wisdom.Insight with JSON tags. ID and
// timestamp are assigned at replay time.
type FixtureInsight struct {
	Content               string   `json:"content"`
	Depth                 float64  `json:"depth"`
	Breadth               float64  `json:"breadth"`
	Applicability         float64  `json:"applicability"`
	CoherenceContribution float64  `json:"coherence_contribution"`
	Domains               []string `json:"domains"`
}

// FixtureBeliefUpdate mirrors wisdom.BeliefUpdate with JSON tags.
type FixtureBeliefUpdate struct {
	PriorBelief      string  `json:"prior_belief"`
	UpdatedBelief    string  `json:"updated_belief"`
	Evidence         string  `json:"evidence"`
	ConfidenceChange float64 `json:"confidence_change"`
	CoherenceImpact  float64 `json:"coherence_impact"`
}

// FixtureGoal asks the tracker to generate an exploration goal for an
// already-encountered topic. Later goal_progress steps reference the
// goal by the same topic name.
type FixtureGoal struct {
	Topic string `json:"topic"`
}

// FixtureGoalProgress advances the goal previously generated for Topic.
type FixtureGoalProgress struct {
	Topic    string  `json:"topic"`
	Progress float64 `json:"progress"`
	Learning bool    `json:"learning"`
}

// FixtureSample mirrors fatigue.Sample with JSON tags.
type FixtureSample struct {
	Quality      float64 `json:"quality"`
	Coherence    float64 `json:"coherence"`
	NewMemories  int     `json:"new_memories"`
	Consolidated bool    `json:"consolidated"`
}

// FixtureExpect holds the expected end-state metrics. Absent fields are
// not checked; a zero tolerance falls back to 0.01.
type FixtureExpect struct {
	Salience        map[string]float64 `json:"salience,omitempty"`
	ActiveInterests []string           `json:"active_interests,omitempty"`
	Composite       *float64           `json:"composite,omitempty"`
	State           string             `json:"state,omitempty"`
	Tolerance       float64            `json:"tolerance,omitempty"`
}

// FixtureConfig bundles the component configs for a replay run. Nil
// blocks fall back to the component defaults; a present block specifies
// every field.
type FixtureConfig struct {
	Fatigue  *FixtureFatigueConfig  `json:"fatigue,omitempty"`
	Interest *FixtureInterestConfig `json:"interest,omitempty"`
	Wisdom   *FixtureWisdomConfig   `json:"wisdom,omitempty"`
	Eval     *FixtureEvalConfig     `json:"eval,omitempty"`
}

// FixtureFatigueConfig mirrors fatigue.Config with JSON tags. Durations
// are expressed in seconds.
type FixtureFatigueConfig struct {
	AccumulationRate       float64 `json:"accumulation_rate"`
	DeficitRate            float64 `json:"deficit_rate"`
	RecoveryRate           float64 `json:"recovery_rate"`
	MemoryPressure         float64 `json:"memory_pressure"`
	DrowsyThreshold        float64 `json:"drowsy_threshold"`
	RestThreshold          float64 `json:"rest_threshold"`
	WakeThreshold          float64 `json:"wake_threshold"`
	ConsolidationThreshold float64 `json:"consolidation_threshold"`
	DeepRestAfterSec       float64 `json:"deep_rest_after_sec"`
	WakingPeriodSec        float64 `json:"waking_period_sec"`
	OptimalActivitySec     float64 `json:"optimal_activity_sec"`
	OptimalRestSec         float64 `json:"optimal_rest_sec"`
	DurationAlpha          float64 `json:"duration_alpha"`
	QualityBar             float64 `json:"quality_bar"`
}

// FixtureInterestConfig mirrors interest.Config with JSON tags.
type FixtureInterestConfig struct {
	DecayRate        float64 `json:"decay_rate"`
	RecoveryRate     float64 `json:"recovery_rate"`
	InitialCuriosity float64 `json:"initial_curiosity"`
	ActiveLimit      int     `json:"active_limit"`
	ActiveThreshold  float64 `json:"active_threshold"`
	JoinThreshold    float64 `json:"join_threshold"`
}

// FixtureWisdomConfig mirrors wisdom.Config with JSON tags.
type FixtureWisdomConfig struct {
	CoherenceStep    float64 `json:"coherence_step"`
	EvidenceAlpha    float64 `json:"evidence_alpha"`
	InitialCoherence float64 `json:"initial_coherence"`
	InitialEvidence  float64 `json:"initial_evidence"`
}

// FixtureEvalConfig mirrors eval.Config with JSON tags.
type FixtureEvalConfig struct {
	MaxActiveInterests int `json:"max_active_interests"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToEncounter converts a FixtureEncounter to a domain Encounter.
func (fe *FixtureEncounter) ToEncounter() interest.Encounter {
	return interest.Encounter{
		Topic:        fe.Topic,
		Duration:     time.Duration(fe.DurationSec * float64(time.Second)),
		Valence:      fe.Valence,
		Learning:     fe.Learning,
		Satisfaction: fe.Satisfaction,
	}
}

// ToInsight converts a FixtureInsight to a domain Insight.
func (fi *FixtureInsight) ToInsight() wisdom.Insight {
	return wisdom.Insight{
		Content:               fi.Content,
		DepthScore:            fi.Depth,
		BreadthScore:          fi.Breadth,
		ApplicabilityScore:    fi.Applicability,
		CoherenceContribution: fi.CoherenceContribution,
		RelatedDomains:        fi.Domains,
	}
}

// ToBeliefUpdate converts a FixtureBeliefUpdate to a domain BeliefUpdate.
func (fb *FixtureBeliefUpdate) ToBeliefUpdate() wisdom.BeliefUpdate {
	return wisdom.BeliefUpdate{
		PriorBelief:      fb.PriorBelief,
		UpdatedBelief:    fb.UpdatedBelief,
		Evidence:         fb.Evidence,
		ConfidenceChange: fb.ConfidenceChange,
		CoherenceImpact:  fb.CoherenceImpact,
	}
}

// ToSample converts a FixtureSample to a domain Sample.
func (fs *FixtureSample) ToSample() fatigue.Sample {
	return fatigue.Sample{
		ProcessingQuality: fs.Quality,
		CoherenceLevel:    fs.Coherence,
		NewMemories:       fs.NewMemories,
		Consolidated:      fs.Consolidated,
	}
}

// FatigueConfig resolves the fatigue config, defaulting when absent.
func (fc *FixtureConfig) FatigueConfig() fatigue.Config {
	if fc.Fatigue == nil {
		return fatigue.DefaultConfig()
	}
	f := fc.Fatigue
	return fatigue.Config{
		AccumulationRate:       f.AccumulationRate,
		DeficitRate:            f.DeficitRate,
		RecoveryRate:           f.RecoveryRate,
		MemoryPressure:         f.MemoryPressure,
		DrowsyThreshold:        f.DrowsyThreshold,
		RestThreshold:          f.RestThreshold,
		WakeThreshold:          f.WakeThreshold,
		ConsolidationThreshold: f.ConsolidationThreshold,
		DeepRestAfter:          time.Duration(f.DeepRestAfterSec * float64(time.Second)),
		WakingPeriod:           time.Duration(f.WakingPeriodSec * float64(time.Second)),
		OptimalActivity:        time.Duration(f.OptimalActivitySec * float64(time.Second)),
		OptimalRest:            time.Duration(f.OptimalRestSec * float64(time.Second)),
		DurationAlpha:          f.DurationAlpha,
		QualityBar:             f.QualityBar,
	}
}

// InterestConfig resolves the interest config, defaulting when absent.
func (fc *FixtureConfig) InterestConfig() interest.Config {
	if fc.Interest == nil {
		return interest.DefaultConfig()
	}
	i := fc.Interest
	return interest.Config{
		DecayRate:        i.DecayRate,
		RecoveryRate:     i.RecoveryRate,
		InitialCuriosity: i.InitialCuriosity,
		ActiveLimit:      i.ActiveLimit,
		ActiveThreshold:  i.ActiveThreshold,
		JoinThreshold:    i.JoinThreshold,
	}
}

// WisdomConfig resolves the wisdom config, defaulting when absent.
func (fc *FixtureConfig) WisdomConfig() wisdom.Config {
	if fc.Wisdom == nil {
		return wisdom.DefaultConfig()
	}
	w := fc.Wisdom
	return wisdom.Config{
		CoherenceStep:    w.CoherenceStep,
		EvidenceAlpha:    w.EvidenceAlpha,
		InitialCoherence: w.InitialCoherence,
		InitialEvidence:  w.InitialEvidence,
	}
}

// EvalConfig resolves the bounds-checker config, defaulting when absent.
func (fc *FixtureConfig) EvalConfig() eval.Config {
	if fc.Eval == nil {
		return eval.DefaultConfig()
	}
	return eval.Config{MaxActiveInterests: fc.Eval.MaxActiveInterests}
}

// #endregion fixture-loader
