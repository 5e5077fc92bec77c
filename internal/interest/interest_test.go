package interest

import (
	"math"
	"testing"
	"time"
)

func TestFirstEncounterInitializesEngagement(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Duration: 30 * time.Second, Valence: 0.5, Learning: true, Satisfaction: 0.6})

	eng, ok := tr.Engagement("emergence")
	if !ok {
		t.Fatal("engagement not created")
	}
	if eng.EncounterCount != 1 {
		t.Errorf("count = %d, want 1", eng.EncounterCount)
	}
	if eng.CuriosityLevel != 0.7 {
		t.Errorf("curiosity = %f, want initial 0.7", eng.CuriosityLevel)
	}
	if eng.LearningProgress != 0.1 {
		t.Errorf("progress = %f, want 0.1 after learning", eng.LearningProgress)
	}
	if eng.EmotionalValence != 0.5 {
		t.Errorf("valence = %f, want 0.5 stored raw on first encounter", eng.EmotionalValence)
	}
}

func TestSalienceFormulaForFreshTopic(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Duration: time.Minute, Valence: 0, Learning: true, Satisfaction: 0.5})

	// recency 1.0, frequency 1/10, emotion (0+1)/2, curiosity 0.7,
	// learning potential 1-2*|0.1-0.5| = 0.2:
	// 0.3*1.0 + 0.2*0.1 + 0.2*0.5 + 0.2*0.7 + 0.1*0.2 = 0.58
	if got := tr.Salience("emergence"); math.Abs(got-0.58) > 0.001 {
		t.Errorf("salience = %f, want 0.58", got)
	}
}

func TestRepeatEncounterMovingAverages(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 1.0, Satisfaction: 0.8})
	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 0.0, Satisfaction: 0.4})

	eng, _ := tr.Engagement("emergence")
	if eng.EncounterCount != 2 {
		t.Errorf("count = %d, want 2", eng.EncounterCount)
	}
	// valence 0.7*1.0 + 0.3*0.0 = 0.7
	if math.Abs(eng.EmotionalValence-0.7) > 0.001 {
		t.Errorf("valence = %f, want 0.7", eng.EmotionalValence)
	}
	// satisfaction 0.7*0.8 + 0.3*0.4 = 0.68
	if math.Abs(eng.Satisfaction-0.68) > 0.001 {
		t.Errorf("satisfaction = %f, want 0.68", eng.Satisfaction)
	}
	// curiosity 0.7 + (0.4-0.5)*0.1 - 0.05 = 0.64
	if math.Abs(eng.CuriosityLevel-0.64) > 0.001 {
		t.Errorf("curiosity = %f, want 0.64", eng.CuriosityLevel)
	}
}

func TestCuriosityClampsAtZero(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	// Each dull encounter shifts curiosity by (0-0.5)*0.1 - 0.05 = -0.1.
	for i := 0; i < 10; i++ {
		tr.RecordEncounter(Encounter{Topic: "forms", Valence: 0, Satisfaction: 0})
	}
	eng, _ := tr.Engagement("forms")
	if eng.CuriosityLevel < 0 || eng.CuriosityLevel > 0.01 {
		t.Errorf("curiosity = %f, want clamped at 0", eng.CuriosityLevel)
	}
}

func TestLearningProgressCapsAtOne(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	for i := 0; i < 15; i++ {
		tr.RecordEncounter(Encounter{Topic: "forms", Valence: 0, Learning: true, Satisfaction: 0.9})
	}
	eng, _ := tr.Engagement("forms")
	if eng.LearningProgress != 1.0 {
		t.Errorf("progress = %f, want capped at 1.0", eng.LearningProgress)
	}
}

func TestActiveInterestsCapAndOrder(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	names := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"}
	for i, name := range names {
		// Descending valence orders the salience scores.
		tr.RecordEncounter(Encounter{Topic: name, Valence: 1.0 - 0.15*float64(i), Satisfaction: 0.5})
	}

	active := tr.ActiveInterests()
	if len(active) != 5 {
		t.Fatalf("active = %v, want 5 entries", active)
	}
	for i := 0; i < 5; i++ {
		if active[i] != names[i] {
			t.Errorf("active[%d] = %s, want %s", i, active[i], names[i])
		}
	}
}

func TestStaleTopicsDropOutOfActiveSet(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "stale", Valence: -1, Satisfaction: 0.5})

	// Ten days idle: recency collapses and salience falls below 0.3.
	tr.engagements["stale"].LastEncounter = time.Now().Add(-10 * 24 * time.Hour)
	tr.refreshSalience("stale", time.Now())
	tr.refreshActive()

	if len(tr.ActiveInterests()) != 0 {
		t.Errorf("active = %v, want empty", tr.ActiveInterests())
	}
}

func TestShouldJoinDiscussion(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 0.8, Learning: true, Satisfaction: 0.7})

	if !tr.ShouldJoinDiscussion("emergence") {
		t.Error("active interest should join")
	}
	if tr.ShouldJoinDiscussion("gardening") {
		t.Error("unknown topic should not join")
	}

	// Related to an active interest.
	tr.AddRelation("emergence", "complexity")
	if !tr.ShouldJoinDiscussion("complexity") {
		t.Error("topic related to an active interest should join")
	}

	// Shares a cluster with an active interest without a direct relation.
	tr.AddRelation("complexity", "chaos")
	if !tr.ShouldJoinDiscussion("chaos") {
		t.Error("topic clustered with an active interest should join")
	}
}

func TestGenerateGoalDrivers(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 0, Learning: true, Satisfaction: 0.5})

	goal := tr.GenerateGoal("emergence")
	if goal == nil {
		t.Fatal("expected a goal")
	}
	// utility min(1, 0*0.1 + 0.5*0.5) = 0.25
	// priority 0.6*0.7 + 0.4*0.25 = 0.52
	if math.Abs(goal.Priority-0.52) > 0.001 {
		t.Errorf("priority = %f, want 0.52", goal.Priority)
	}
	if math.Abs(goal.CuriosityDriver-0.7) > 0.001 {
		t.Errorf("curiosity driver = %f, want 0.7", goal.CuriosityDriver)
	}
	// target depth min(1, 0.1 + 0.3) = 0.4
	if math.Abs(goal.TargetDepth-0.4) > 0.001 {
		t.Errorf("target depth = %f, want 0.4", goal.TargetDepth)
	}
	if goal.ID == "" {
		t.Error("goal should carry an ID")
	}
}

func TestGenerateGoalAutoSelection(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "high", Valence: 0.9, Satisfaction: 0.5})
	tr.RecordEncounter(Encounter{Topic: "low", Valence: -0.9, Satisfaction: 0.5})

	goal := tr.GenerateGoal("")
	if goal == nil {
		t.Fatal("expected a goal")
	}
	// Equal curiosity, so the higher-salience topic wins the
	// curiosity*salience product.
	if goal.Topic != "high" {
		t.Errorf("auto-selected %s, want high", goal.Topic)
	}
}

func TestGenerateGoalNoCandidate(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	if goal := tr.GenerateGoal(""); goal != nil {
		t.Errorf("empty tracker produced goal %v", goal)
	}
	if goal := tr.GenerateGoal("unknown"); goal != nil {
		t.Errorf("unknown topic produced goal %v", goal)
	}

	// Curiosity at or below 0.5 disqualifies a topic from auto-selection.
	tr.RecordEncounter(Encounter{Topic: "dull", Valence: 0, Satisfaction: 0.5})
	tr.engagements["dull"].CuriosityLevel = 0.5
	if goal := tr.GenerateGoal(""); goal != nil {
		t.Errorf("dull topic produced goal %v", goal)
	}
}

func TestUpdateGoalProgress(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 0, Learning: true, Satisfaction: 0.5})
	goal := tr.GenerateGoal("emergence")

	if !tr.UpdateGoalProgress(goal.ID, 0.2, false) {
		t.Fatal("known goal reported missing")
	}
	if goal.Completed {
		t.Error("goal completed below target depth")
	}

	// Target depth is 0.4; reaching it completes the goal, and the
	// learning flag bumps the topic engagement by 0.1.
	if !tr.UpdateGoalProgress(goal.ID, 0.5, true) {
		t.Fatal("known goal reported missing")
	}
	if !goal.Completed {
		t.Error("goal should complete at target depth")
	}
	eng, _ := tr.Engagement("emergence")
	if math.Abs(eng.LearningProgress-0.2) > 0.001 {
		t.Errorf("learning progress = %f, want 0.2", eng.LearningProgress)
	}

	if tr.UpdateGoalProgress("no-such-goal", 0.5, false) {
		t.Error("unknown goal reported found")
	}
}

func TestExplorationPriorities(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	// Valence 1.0 / 0.0 / -1.0 gives priorities 0.62 / 0.52 / 0.42.
	tr.RecordEncounter(Encounter{Topic: "mid", Valence: 0, Satisfaction: 0.5})
	tr.RecordEncounter(Encounter{Topic: "top", Valence: 1, Satisfaction: 0.5})
	tr.RecordEncounter(Encounter{Topic: "bottom", Valence: -1, Satisfaction: 0.5})
	gMid := tr.GenerateGoal("mid")
	tr.GenerateGoal("top")
	tr.GenerateGoal("bottom")

	goals := tr.ExplorationPriorities(0)
	if len(goals) != 3 {
		t.Fatalf("got %d goals, want 3", len(goals))
	}
	if goals[0].Topic != "top" || goals[1].Topic != "mid" || goals[2].Topic != "bottom" {
		t.Errorf("order = %s,%s,%s, want top,mid,bottom", goals[0].Topic, goals[1].Topic, goals[2].Topic)
	}

	// Completing a goal removes it; a positive limit caps the slice.
	tr.UpdateGoalProgress(gMid.ID, 1.0, false)
	goals = tr.ExplorationPriorities(1)
	if len(goals) != 1 || goals[0].Topic != "top" {
		t.Errorf("goals = %v, want only top", goals)
	}
}

func TestDecayAndRecovery(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 0.5, Satisfaction: 0.8})
	tr.engagements["emergence"].CuriosityLevel = 0.9
	tr.engagements["emergence"].LastEncounter = time.Now().Add(-24 * time.Hour)

	tr.DecayInterests()

	// One idle day: 0.9*0.95 + 0.1 = 0.955.
	eng, _ := tr.Engagement("emergence")
	if math.Abs(eng.CuriosityLevel-0.955) > 0.001 {
		t.Errorf("curiosity = %f, want 0.955", eng.CuriosityLevel)
	}
	// Salience recomputed with day-old recency exp(-1) = 0.368.
	sal := tr.Salience("emergence")
	want := 0.3*math.Exp(-1) + 0.2*0.1 + 0.2*0.75 + 0.2*0.955 + 0.1*0
	if math.Abs(sal-want) > 0.001 {
		t.Errorf("salience = %f, want %f", sal, want)
	}
}

func TestClusterMergeKeepsCounterMonotonic(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.AddRelation("a", "b")
	tr.AddRelation("c", "d")
	if len(tr.clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(tr.clusters))
	}

	// Bridging the two clusters merges them.
	tr.AddRelation("b", "c")
	if len(tr.clusters) != 1 {
		t.Fatalf("clusters = %d after merge, want 1", len(tr.clusters))
	}
	for _, member := range []string{"a", "b", "c", "d"} {
		found := false
		for _, members := range tr.clusters {
			if members[member] {
				found = true
			}
		}
		if !found {
			t.Errorf("member %s lost in merge", member)
		}
	}

	// A later cluster gets a fresh key rather than reusing a freed one.
	tr.AddRelation("e", "f")
	if len(tr.clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(tr.clusters))
	}
	if _, taken := tr.clusters["cluster_2"]; !taken {
		t.Error("new cluster should take key cluster_2")
	}
}

func TestTopicScore(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	if got := tr.TopicScore("unknown"); got != 0 {
		t.Errorf("unknown topic score = %f, want 0", got)
	}

	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 0, Learning: true, Satisfaction: 0.5})
	// 0.4*salience(0.58) + 0.4*curiosity(0.7) + 0.2*emotion(0.5) = 0.612
	if got := tr.TopicScore("emergence"); math.Abs(got-0.612) > 0.001 {
		t.Errorf("score = %f, want 0.612", got)
	}
}

func TestRoundTripRebuildsDerivedState(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Duration: time.Minute, Valence: 0.6, Learning: true, Satisfaction: 0.7})
	tr.RecordEncounter(Encounter{Topic: "recursion", Duration: 30 * time.Second, Valence: 0.2, Satisfaction: 0.5})
	tr.RecordEncounter(Encounter{Topic: "emergence", Duration: time.Minute, Valence: 0.8, Learning: true, Satisfaction: 0.9})
	tr.AddRelation("emergence", "recursion")
	tr.GenerateGoal("emergence")

	restored := FromDoc(tr.Doc(), DefaultConfig())

	for topic, want := range tr.salience {
		if got := restored.Salience(topic); math.Abs(got-want) > 1e-6 {
			t.Errorf("salience[%s] = %f, want %f", topic, got, want)
		}
	}

	wantActive := tr.ActiveInterests()
	gotActive := restored.ActiveInterests()
	if len(wantActive) != len(gotActive) {
		t.Fatalf("active = %v, want %v", gotActive, wantActive)
	}
	for i := range wantActive {
		if gotActive[i] != wantActive[i] {
			t.Errorf("active[%d] = %s, want %s", i, gotActive[i], wantActive[i])
		}
	}

	if got := len(restored.ExplorationPriorities(0)); got != 1 {
		t.Errorf("restored goals = %d, want 1", got)
	}
	eng, ok := restored.Engagement("emergence")
	if !ok {
		t.Fatal("emergence engagement lost in round trip")
	}
	if !eng.RelatedTopics["recursion"] {
		t.Error("relation lost in round trip")
	}
	if eng.EncounterCount != 2 {
		t.Errorf("count = %d, want 2", eng.EncounterCount)
	}
	if restored.nextCluster != 1 {
		t.Errorf("next cluster = %d, want 1", restored.nextCluster)
	}
}

func TestSaveLoadFile(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.RecordEncounter(Encounter{Topic: "emergence", Valence: 0.4, Learning: true, Satisfaction: 0.6})

	path := t.TempDir() + "/interest.json"
	if err := tr.SaveFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	restored, err := LoadFile(path, DefaultConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := restored.Salience("emergence"); math.Abs(got-tr.Salience("emergence")) > 1e-6 {
		t.Errorf("salience = %f, want %f", got, tr.Salience("emergence"))
	}
}
