package orchestrator

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/o9nn/ecco9/internal/fatigue"
	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/journal"
	"github.com/o9nn/ecco9/internal/wisdom"
)

// fakeCognition implements CognitiveLoop with canned step/phase values.
type fakeCognition struct {
	starts, stops int
	step          int
	phase         string
	startErr      error
}

func (f *fakeCognition) Start() error         { f.starts++; return f.startErr }
func (f *fakeCognition) Stop() error          { f.stops++; return nil }
func (f *fakeCognition) CurrentStep() int     { return f.step }
func (f *fakeCognition) CurrentPhase() string { return f.phase }

// fakeConsolidator implements Consolidator with switchable failures.
type fakeConsolidator struct {
	running  bool
	starts   int
	stops    int
	startErr error
	stopErr  error
}

func (f *fakeConsolidator) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	f.running = true
	return nil
}

func (f *fakeConsolidator) Stop() error {
	if f.stopErr != nil {
		return f.stopErr
	}
	f.stops++
	f.running = false
	return nil
}

func (f *fakeConsolidator) Running() bool { return f.running }

func trackingCaps() Capabilities {
	return Capabilities{
		Fatigue:  fatigue.New(fatigue.DefaultConfig()),
		Interest: interest.NewTracker(interest.DefaultConfig()),
		Wisdom:   wisdom.New(wisdom.DefaultConfig()),
	}
}

// restingModel returns a model parked in RESTING with saturated
// consolidation pressure so orchestrated updates keep it there.
func restingModel(t *testing.T) *fatigue.Model {
	t.Helper()
	m := fatigue.New(fatigue.DefaultConfig())
	m.Update(fatigue.Sample{ProcessingQuality: 0.8, CoherenceLevel: 0.8, NewMemories: 100}) // pressure 1.0, awake -> drowsy
	m.Update(fatigue.Sample{ProcessingQuality: 0.8, CoherenceLevel: 0.8})                   // drowsy -> resting
	if m.State() != fatigue.StateResting {
		t.Fatalf("setup: state = %s, want resting", m.State())
	}
	return m
}

func TestRunCycleAdvancesTick(t *testing.T) {
	o := New(DefaultConfig(), trackingCaps())

	for i := 0; i < 3; i++ {
		if err := o.RunCycle(); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	if o.TickCount() != 3 {
		t.Errorf("tick count = %d, want 3", o.TickCount())
	}

	cctx, ok := o.Current()
	if !ok {
		t.Fatal("expected a current context")
	}
	// Cycle numbers are zero-based at context creation time
	if cctx.Cycle != 2 {
		t.Errorf("current cycle = %d, want 2", cctx.Cycle)
	}
	if !cctx.Complete || cctx.CompletedAt.IsZero() {
		t.Errorf("integration should stamp completion: %+v", cctx)
	}
	if cctx.Phase != PhaseIntegration {
		t.Errorf("last phase = %s, want integration", cctx.Phase)
	}
}

func TestRunCyclePerceptionSnapshot(t *testing.T) {
	caps := trackingCaps()
	caps.Interest.RecordEncounter(interest.Encounter{
		Topic: "emergence", Duration: time.Minute, Valence: 0.5, Learning: true, Satisfaction: 0.8,
	})
	caps.Interest.GenerateGoal("emergence")
	caps.Wisdom.AddInsight(wisdom.Insight{
		Content: "systems drift toward attractors", DepthScore: 0.6,
		RelatedDomains: []string{"dynamics"},
	})
	o := New(DefaultConfig(), caps)

	if err := o.RunCycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	cctx, _ := o.Current()
	if cctx.Inputs.ConsciousnessState != fatigue.StateAwake {
		t.Errorf("state = %s, want awake", cctx.Inputs.ConsciousnessState)
	}
	if len(cctx.Inputs.ActiveInterests) != 1 || cctx.Inputs.ActiveInterests[0] != "emergence" {
		t.Errorf("active interests = %v", cctx.Inputs.ActiveInterests)
	}
	if cctx.Inputs.ExplorationGoals != 1 {
		t.Errorf("exploration goals = %d, want 1", cctx.Inputs.ExplorationGoals)
	}
	if cctx.Inputs.Wisdom.Composite <= 0 || cctx.Inputs.Wisdom.Composite > 1 {
		t.Errorf("composite out of range: %.4f", cctx.Inputs.Wisdom.Composite)
	}

	// Learning phase records the same composite it polled
	if math.Abs(cctx.Outputs.CompositeWisdom-cctx.Inputs.Wisdom.Composite) > 0.001 {
		t.Errorf("learning composite %.4f != perception composite %.4f",
			cctx.Outputs.CompositeWisdom, cctx.Inputs.Wisdom.Composite)
	}
	if !cctx.Outputs.InterestActive {
		t.Error("interest tracking should be marked active")
	}
}

func TestHistoryBounded(t *testing.T) {
	o := New(DefaultConfig(), Capabilities{})

	for i := 0; i < 105; i++ {
		if err := o.RunCycle(); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	if o.TickCount() != 105 {
		t.Errorf("tick count = %d, want 105", o.TickCount())
	}
	history := o.History()
	if len(history) != 100 {
		t.Fatalf("history length = %d, want 100", len(history))
	}
	// Oldest evicted first
	if history[0].Cycle != 5 {
		t.Errorf("oldest retained cycle = %d, want 5", history[0].Cycle)
	}
	if history[99].Cycle != 104 {
		t.Errorf("newest retained cycle = %d, want 104", history[99].Cycle)
	}
}

func TestCognitionPhasePollsLoop(t *testing.T) {
	loop := &fakeCognition{step: 7, phase: "refine"}
	caps := trackingCaps()
	caps.Cognition = loop
	o := New(DefaultConfig(), caps)

	if err := o.RunCycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	cctx, _ := o.Current()
	if cctx.Outputs.CognitiveStep != 7 {
		t.Errorf("cognitive step = %d, want 7", cctx.Outputs.CognitiveStep)
	}
	if cctx.Outputs.CognitivePhase != "refine" {
		t.Errorf("cognitive phase = %q, want refine", cctx.Outputs.CognitivePhase)
	}
}

func TestPresenceFlags(t *testing.T) {
	caps := trackingCaps()
	caps.Emotion = true
	o := New(DefaultConfig(), caps)
	o.RunCycle()

	cctx, _ := o.Current()
	if !cctx.Outputs.EmotionActive {
		t.Error("emotion flag should be set when the subsystem is present")
	}
	if cctx.Outputs.SocialActive {
		t.Error("social flag should stay unset without theory of mind")
	}

	caps2 := trackingCaps()
	caps2.TheoryOfMind = true
	o2 := New(DefaultConfig(), caps2)
	o2.RunCycle()

	cctx2, _ := o2.Current()
	if cctx2.Outputs.EmotionActive {
		t.Error("emotion flag should stay unset without the subsystem")
	}
	if !cctx2.Outputs.SocialActive {
		t.Error("social flag should be set when theory of mind is present")
	}
}

func TestConsolidationStartsWhileResting(t *testing.T) {
	cons := &fakeConsolidator{}
	caps := Capabilities{Fatigue: restingModel(t), Consolidation: cons}
	o := New(DefaultConfig(), caps)

	if err := o.RunCycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if !cons.running || cons.starts != 1 {
		t.Fatalf("consolidation should start while resting: %+v", cons)
	}

	// Already running: no second start
	if err := o.RunCycle(); err != nil {
		t.Fatalf("cycle 2: %v", err)
	}
	if cons.starts != 1 {
		t.Errorf("starts = %d, want 1", cons.starts)
	}

	// Consolidation phase flags the activity
	cctx, _ := o.Current()
	if !cctx.Outputs.ConsolidationActive {
		t.Error("consolidation should be marked active while resting")
	}
}

func TestConsolidationStopsWhenAwake(t *testing.T) {
	cons := &fakeConsolidator{running: true}
	caps := Capabilities{Fatigue: fatigue.New(fatigue.DefaultConfig()), Consolidation: cons}
	o := New(DefaultConfig(), caps)

	if err := o.RunCycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if cons.running || cons.stops != 1 {
		t.Fatalf("consolidation should stop when awake: %+v", cons)
	}
}

func TestConsolidationStartFailureAbortsCycle(t *testing.T) {
	bootErr := errors.New("dream engine offline")
	cons := &fakeConsolidator{startErr: bootErr}
	caps := Capabilities{Fatigue: restingModel(t), Consolidation: cons}
	o := New(DefaultConfig(), caps)

	err := o.RunCycle()
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.Is(err, bootErr) {
		t.Errorf("expected wrapped start error, got %v", err)
	}
	if o.TickCount() != 0 {
		t.Errorf("failed cycle must not advance the tick count, got %d", o.TickCount())
	}
	if len(o.History()) != 0 {
		t.Errorf("failed cycle must not record history, got %d entries", len(o.History()))
	}
}

func TestJournalReceivesTransitionsAndTicks(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	j, err := journal.NewJournal(db)
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}

	model := fatigue.New(fatigue.DefaultConfig())
	model.Update(fatigue.Sample{ProcessingQuality: 0.8, CoherenceLevel: 0.8, NewMemories: 100}) // park in drowsy

	caps := Capabilities{Fatigue: model, Journal: j}
	o := New(DefaultConfig(), caps)

	// The orchestrated update drives drowsy -> resting
	if err := o.RunCycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	trs, err := j.RecentTransitions(5)
	if err != nil {
		t.Fatalf("recent transitions: %v", err)
	}
	if len(trs) != 1 {
		t.Fatalf("expected 1 journaled transition, got %d", len(trs))
	}
	if trs[0].From != fatigue.StateDrowsy || trs[0].To != fatigue.StateResting {
		t.Errorf("unexpected transition: %+v", trs[0])
	}

	ticks, err := j.RecentTicks(5)
	if err != nil {
		t.Fatalf("recent ticks: %v", err)
	}
	if len(ticks) != 1 || ticks[0].Tick != 1 {
		t.Fatalf("expected tick 1 journaled, got %+v", ticks)
	}
	if ticks[0].State != fatigue.StateResting {
		t.Errorf("tick state = %s, want resting", ticks[0].State)
	}
}

func TestIntervalFollowsState(t *testing.T) {
	o := New(DefaultConfig(), Capabilities{Fatigue: fatigue.New(fatigue.DefaultConfig())})
	if o.Interval() != time.Second {
		t.Errorf("awake interval = %s, want 1s", o.Interval())
	}

	oRest := New(DefaultConfig(), Capabilities{Fatigue: restingModel(t)})
	if oRest.Interval() != 5*time.Second {
		t.Errorf("resting interval = %s, want 5s", oRest.Interval())
	}

	oNone := New(DefaultConfig(), Capabilities{})
	if oNone.Interval() != time.Second {
		t.Errorf("no-model interval = %s, want 1s", oNone.Interval())
	}
}

func TestRunLoopTicksAndStops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickInterval = time.Millisecond
	cfg.RestTickInterval = 2 * time.Millisecond
	o := New(cfg, Capabilities{Fatigue: fatigue.New(fatigue.DefaultConfig())})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for o.TickCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if o.TickCount() < 3 {
		t.Fatalf("loop too slow: %d ticks", o.TickCount())
	}
	if !o.Running() {
		t.Error("loop should report running")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
	if o.Running() {
		t.Error("loop still marked running after exit")
	}
}

func TestRunAlreadyRunning(t *testing.T) {
	o := New(DefaultConfig(), Capabilities{})
	o.running = true

	// Returns immediately with a warning instead of starting a second loop
	o.Run(context.Background())

	if o.TickCount() != 0 {
		t.Errorf("second Run must not tick, got %d", o.TickCount())
	}
}

func TestRunStartsAndStopsCognitiveLoop(t *testing.T) {
	loop := &fakeCognition{}
	cfg := DefaultConfig()
	cfg.TickInterval = time.Millisecond
	o := New(cfg, Capabilities{Cognition: loop})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for o.TickCount() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if loop.starts != 1 {
		t.Errorf("cognitive loop starts = %d, want 1", loop.starts)
	}
	if loop.stops != 1 {
		t.Errorf("cognitive loop stops = %d, want 1", loop.stops)
	}
}

func TestSummarize(t *testing.T) {
	caps := trackingCaps()
	caps.Cognition = &fakeCognition{}
	caps.Emotion = true
	o := New(DefaultConfig(), caps)

	o.RunCycle()
	o.RunCycle()

	s := o.Summarize()
	if s.Running {
		t.Error("summary should report not running")
	}
	if s.TotalCycles != 2 {
		t.Errorf("total cycles = %d, want 2", s.TotalCycles)
	}
	if len(s.PhaseTimes) != len(allPhases) {
		t.Errorf("phase times = %d entries, want %d", len(s.PhaseTimes), len(allPhases))
	}
	if !s.Subsystems["cognition"] || !s.Subsystems["emotion"] {
		t.Errorf("subsystem presence wrong: %+v", s.Subsystems)
	}
	if s.Subsystems["consolidation"] || s.Subsystems["theory_of_mind"] {
		t.Errorf("absent subsystems reported present: %+v", s.Subsystems)
	}
}
