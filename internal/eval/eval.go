package eval

import (
	"fmt"
	"sort"

	"github.com/o9nn/ecco9/internal/fatigue"
	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/wisdom"
)

// #region checker
// Checker runs lightweight bounds validation on a component snapshot.
type Checker struct {
	config Config
}

// NewChecker creates a checker with the given configuration.
func NewChecker(config Config) *Checker {
	return &Checker{config: config}
}

// Check validates that every scalar in the snapshot sits inside its
// contract range. Returns pass/fail with per-metric results. The
// checker observes only; it never mutates the components it covers.
func (c *Checker) Check(snap Snapshot) Result {
	var metrics []Metric
	passed := true
	var failReasons []string

	inRange := func(name string, value, lo, hi float64) {
		ok := value >= lo && value <= hi
		metrics = append(metrics, Metric{Name: name, Value: value, Pass: ok})
		if !ok {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("%s %.4f outside [%.1f, %.1f]", name, value, lo, hi))
		}
	}

	// 1. Fatigue scalars
	inRange("fatigue", snap.Fatigue, 0, 1)
	inRange("consolidation_pressure", snap.Pressure, 0, 1)

	// 2. Per-topic interest metrics
	for _, s := range snap.Interests {
		inRange(fmt.Sprintf("interest_%s_salience", s.Topic), s.Salience, 0, 1)
		inRange(fmt.Sprintf("interest_%s_curiosity", s.Topic), s.Curiosity, 0, 1)
		inRange(fmt.Sprintf("interest_%s_progress", s.Topic), s.Progress, 0, 1)
		inRange(fmt.Sprintf("interest_%s_satisfaction", s.Topic), s.Satisfaction, 0, 1)
		inRange(fmt.Sprintf("interest_%s_valence", s.Topic), s.Valence, -1, 1)
	}

	// 3. Active interest cap
	activeOK := snap.ActiveInterests <= c.config.MaxActiveInterests
	metrics = append(metrics, Metric{
		Name:  "active_interests",
		Value: float64(snap.ActiveInterests),
		Pass:  activeOK,
	})
	if !activeOK {
		passed = false
		failReasons = append(failReasons, fmt.Sprintf("active interests %d exceeds %d", snap.ActiveInterests, c.config.MaxActiveInterests))
	}

	// 4. Wisdom sub-scores and composite
	inRange("wisdom_depth", snap.Wisdom.Depth, 0, 1)
	inRange("wisdom_breadth", snap.Wisdom.Breadth, 0, 1)
	inRange("wisdom_applicability", snap.Wisdom.Applicability, 0, 1)
	inRange("wisdom_coherence", snap.Wisdom.Coherence, 0, 1)
	inRange("wisdom_adaptability", snap.Wisdom.Adaptability, 0, 1)
	inRange("wisdom_composite", snap.Wisdom.Composite, 0, 1)

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("bounds failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("bounds failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return Result{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion checker

// #region collect
// Collect assembles a Snapshot from the live components. Topics are
// sampled in sorted order so check output is deterministic.
func Collect(model *fatigue.Model, tracker *interest.Tracker, agg *wisdom.Aggregator) Snapshot {
	fs := model.Snapshot()
	snap := Snapshot{
		Fatigue:         fs.Fatigue,
		Pressure:        fs.Pressure,
		ActiveInterests: len(tracker.ActiveInterests()),
		Wisdom:          agg.Scores(),
	}

	profile := tracker.CuriosityProfile()
	topics := make([]string, 0, len(profile))
	for topic := range profile {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		eng, ok := tracker.Engagement(topic)
		if !ok {
			continue
		}
		snap.Interests = append(snap.Interests, InterestSample{
			Topic:        topic,
			Salience:     tracker.Salience(topic),
			Curiosity:    eng.CuriosityLevel,
			Progress:     eng.LearningProgress,
			Satisfaction: eng.Satisfaction,
			Valence:      eng.EmotionalValence,
		})
	}
	return snap
}

// #endregion collect
