package replay

import (
	"fmt"
	"math"
	"sort"

	"github.com/o9nn/ecco9/internal/eval"
	"github.com/o9nn/ecco9/internal/fatigue"
	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/wisdom"
)

// #region types

// StepResult captures the observable state right after one observation
// was applied.
type StepResult struct {
	Index     int
	Kind      string // "encounter" | "relation" | "insight" | "belief_update" | "goal" | "goal_progress" | "sample"
	Topic     string // topic touched by the step, if any
	Salience  float64
	Composite float64
	State     fatigue.State
}

// Summary is the end state of a replay run: tracker and aggregator
// reads plus a bounds check over the final snapshot.
type Summary struct {
	Steps           int
	Topics          int
	ActiveInterests []string
	Salience        map[string]float64
	ActiveGoals     int
	CompletedGoals  int
	Composite       float64
	State           fatigue.State
	Bounds          eval.Result
}

// #endregion types

// #region replay

// Replay builds fresh components from the fixture config and applies
// the observations in order. It operates entirely in-memory and returns
// one StepResult per observation plus the final Summary.
func Replay(fix *Fixture) ([]StepResult, Summary, error) {
	model := fatigue.New(fix.Config.FatigueConfig())
	tracker := interest.NewTracker(fix.Config.InterestConfig())
	agg := wisdom.New(fix.Config.WisdomConfig())

	// Goal IDs are assigned at replay time, so goal_progress steps
	// reference goals by topic.
	goalIDs := make(map[string]string)
	results := make([]StepResult, 0, len(fix.Observations))

	for i, obs := range fix.Observations {
		step := StepResult{Index: i}
		switch {
		case obs.Encounter != nil:
			enc := obs.Encounter.ToEncounter()
			tracker.RecordEncounter(enc)
			step.Kind, step.Topic = "encounter", enc.Topic
		case obs.Relation != nil:
			tracker.AddRelation(obs.Relation.Topic, obs.Relation.Related)
			step.Kind, step.Topic = "relation", obs.Relation.Topic
		case obs.Insight != nil:
			agg.AddInsight(obs.Insight.ToInsight())
			step.Kind = "insight"
		case obs.BeliefUpdate != nil:
			agg.AddBeliefUpdate(obs.BeliefUpdate.ToBeliefUpdate())
			step.Kind = "belief_update"
		case obs.Goal != nil:
			goal := tracker.GenerateGoal(obs.Goal.Topic)
			if goal == nil {
				return nil, Summary{}, fmt.Errorf("observation %d: no goal generated for topic %q", i, obs.Goal.Topic)
			}
			goalIDs[goal.Topic] = goal.ID
			step.Kind, step.Topic = "goal", goal.Topic
		case obs.GoalProgress != nil:
			id, ok := goalIDs[obs.GoalProgress.Topic]
			if !ok {
				return nil, Summary{}, fmt.Errorf("observation %d: goal_progress for topic %q without a prior goal step", i, obs.GoalProgress.Topic)
			}
			tracker.UpdateGoalProgress(id, obs.GoalProgress.Progress, obs.GoalProgress.Learning)
			step.Kind, step.Topic = "goal_progress", obs.GoalProgress.Topic
		case obs.Sample != nil:
			model.Update(obs.Sample.ToSample())
			step.Kind = "sample"
		default:
			return nil, Summary{}, fmt.Errorf("observation %d: no payload", i)
		}

		if step.Topic != "" {
			step.Salience = tracker.Salience(step.Topic)
		}
		step.Composite = agg.Scores().Composite
		step.State = model.State()
		results = append(results, step)
	}

	trackerSum := tracker.Summary()
	salience := make(map[string]float64)
	for topic := range tracker.CuriosityProfile() {
		salience[topic] = tracker.Salience(topic)
	}

	checker := eval.NewChecker(fix.Config.EvalConfig())
	sum := Summary{
		Steps:           len(results),
		Topics:          trackerSum.TotalTopics,
		ActiveInterests: tracker.ActiveInterests(),
		Salience:        salience,
		ActiveGoals:     trackerSum.ActiveGoals,
		CompletedGoals:  trackerSum.CompletedGoals,
		Composite:       agg.Scores().Composite,
		State:           model.State(),
		Bounds:          checker.Check(eval.Collect(model, tracker, agg)),
	}
	return results, sum, nil
}

// Verify compares a replay summary against the fixture expectations.
// It returns one message per mismatch; an empty slice means the run
// matched.
func Verify(sum Summary, expect FixtureExpect) []string {
	tol := expect.Tolerance
	if tol <= 0 {
		tol = 0.01
	}

	var mismatches []string

	topics := make([]string, 0, len(expect.Salience))
	for topic := range expect.Salience {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	for _, topic := range topics {
		want := expect.Salience[topic]
		got, ok := sum.Salience[topic]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("salience[%s]: topic never tracked", topic))
			continue
		}
		if math.Abs(got-want) > tol {
			mismatches = append(mismatches, fmt.Sprintf("salience[%s] = %.4f, want %.4f ±%.3f", topic, got, want, tol))
		}
	}

	if expect.ActiveInterests != nil {
		got := append([]string(nil), sum.ActiveInterests...)
		want := append([]string(nil), expect.ActiveInterests...)
		sort.Strings(got)
		sort.Strings(want)
		if !equalStrings(got, want) {
			mismatches = append(mismatches, fmt.Sprintf("active interests = %v, want %v", got, want))
		}
	}

	if expect.Composite != nil && math.Abs(sum.Composite-*expect.Composite) > tol {
		mismatches = append(mismatches, fmt.Sprintf("composite = %.4f, want %.4f ±%.3f", sum.Composite, *expect.Composite, tol))
	}

	if expect.State != "" && string(sum.State) != expect.State {
		mismatches = append(mismatches, fmt.Sprintf("state = %s, want %s", sum.State, expect.State))
	}

	if !sum.Bounds.Passed {
		mismatches = append(mismatches, fmt.Sprintf("bounds check failed: %s", sum.Bounds.Reason))
	}

	return mismatches
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// #endregion replay
