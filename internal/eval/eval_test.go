package eval

import (
	"strings"
	"testing"
	"time"

	"github.com/o9nn/ecco9/internal/fatigue"
	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/wisdom"
)

func cleanSnapshot() Snapshot {
	return Snapshot{
		Fatigue:  0.3,
		Pressure: 0.2,
		Interests: []InterestSample{
			{Topic: "emergence", Salience: 0.6, Curiosity: 0.7, Progress: 0.2, Satisfaction: 0.5, Valence: 0.4},
		},
		ActiveInterests: 1,
		Wisdom: wisdom.Scores{
			Depth: 0.4, Breadth: 0.3, Applicability: 0.5,
			Coherence: 0.5, Adaptability: 0.5, Composite: 0.44,
		},
	}
}

func TestCheckPassesOnCleanSnapshot(t *testing.T) {
	c := NewChecker(DefaultConfig())

	result := c.Check(cleanSnapshot())

	if !result.Passed {
		t.Fatalf("expected pass on clean snapshot, got fail: %s", result.Reason)
	}
	if result.Reason != "all checks passed" {
		t.Errorf("unexpected reason: %s", result.Reason)
	}
	// 2 fatigue + 5 per interest + 1 active count + 6 wisdom
	if len(result.Metrics) != 14 {
		t.Errorf("expected 14 metrics, got %d", len(result.Metrics))
	}
}

func TestCheckFailsOnFatigueOutOfRange(t *testing.T) {
	c := NewChecker(DefaultConfig())
	snap := cleanSnapshot()
	snap.Fatigue = 1.2

	result := c.Check(snap)

	if result.Passed {
		t.Fatal("expected fail on fatigue > 1")
	}
	if !strings.Contains(result.Reason, "fatigue") {
		t.Errorf("reason should name fatigue, got %s", result.Reason)
	}
	for _, m := range result.Metrics {
		if m.Name == "fatigue" && m.Pass {
			t.Error("fatigue metric should fail")
		}
	}
}

func TestCheckFailsOnValenceOutOfRange(t *testing.T) {
	c := NewChecker(DefaultConfig())
	snap := cleanSnapshot()
	snap.Interests[0].Valence = -1.5

	result := c.Check(snap)

	if result.Passed {
		t.Fatal("expected fail on valence < -1")
	}

	foundFail := false
	for _, m := range result.Metrics {
		if m.Name == "interest_emergence_valence" && !m.Pass {
			foundFail = true
		}
	}
	if !foundFail {
		t.Fatal("expected interest_emergence_valence metric to fail")
	}
}

func TestCheckFailsOnActiveInterestOverflow(t *testing.T) {
	c := NewChecker(DefaultConfig())
	snap := cleanSnapshot()
	snap.ActiveInterests = 6

	result := c.Check(snap)

	if result.Passed {
		t.Fatal("expected fail on 6 active interests")
	}
	if !strings.Contains(result.Reason, "active interests") {
		t.Errorf("reason should name active interests, got %s", result.Reason)
	}
}

func TestCheckCountsMultipleFailures(t *testing.T) {
	c := NewChecker(DefaultConfig())
	snap := cleanSnapshot()
	snap.Fatigue = -0.1
	snap.Wisdom.Composite = 1.4

	result := c.Check(snap)

	if result.Passed {
		t.Fatal("expected fail")
	}
	// First failure leads the reason, with the total count
	if !strings.Contains(result.Reason, "2 checks") {
		t.Errorf("expected 2-check reason, got %s", result.Reason)
	}
	if !strings.Contains(result.Reason, "fatigue") {
		t.Errorf("first failure should be fatigue, got %s", result.Reason)
	}
}

func TestCheckNegativePressure(t *testing.T) {
	c := NewChecker(DefaultConfig())
	snap := cleanSnapshot()
	snap.Pressure = -0.01

	result := c.Check(snap)

	if result.Passed {
		t.Fatal("expected fail on negative pressure")
	}
}

func TestCollectFromLiveComponents(t *testing.T) {
	model := fatigue.New(fatigue.DefaultConfig())
	tracker := interest.NewTracker(interest.DefaultConfig())
	agg := wisdom.New(wisdom.DefaultConfig())

	tracker.RecordEncounter(interest.Encounter{
		Topic: "entropy", Duration: time.Minute, Valence: 0.5, Learning: true, Satisfaction: 0.8,
	})
	tracker.RecordEncounter(interest.Encounter{
		Topic: "abstraction", Duration: 30 * time.Second, Valence: 0.2, Learning: false, Satisfaction: 0.4,
	})
	agg.AddInsight(wisdom.Insight{
		Content: "feedback loops stabilize systems", DepthScore: 0.6,
		RelatedDomains: []string{"systems", "control"},
	})

	snap := Collect(model, tracker, agg)

	if len(snap.Interests) != 2 {
		t.Fatalf("expected 2 interest samples, got %d", len(snap.Interests))
	}
	// Sorted by topic
	if snap.Interests[0].Topic != "abstraction" || snap.Interests[1].Topic != "entropy" {
		t.Errorf("expected sorted topics, got %s, %s", snap.Interests[0].Topic, snap.Interests[1].Topic)
	}
	if snap.Interests[1].Curiosity != 0.7 {
		t.Errorf("expected first-encounter curiosity 0.7, got %.4f", snap.Interests[1].Curiosity)
	}

	result := NewChecker(DefaultConfig()).Check(snap)
	if !result.Passed {
		t.Fatalf("fresh components should satisfy all bounds, got: %s", result.Reason)
	}
}
