package orchestrator

// #region imports
import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/o9nn/ecco9/internal/fatigue"
)

// #endregion

const metricsCap = 100

// #region orchestrator-struct

// Orchestrator sequences the seven-phase cognition cycle. It feeds the
// fatigue model one observation before every tick, paces itself by
// consciousness state, and retires each tick's context record to a
// bounded history.
type Orchestrator struct {
	mu   sync.Mutex
	cfg  Config
	caps Capabilities

	running bool
	tick    int64
	current *Context
	history []Context

	cycleTimes []time.Duration
	phaseTimes map[Phase][]time.Duration
}

// #endregion

// #region constructor

// New creates an orchestrator over the given capabilities.
func New(cfg Config, caps Capabilities) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		caps:       caps,
		phaseTimes: make(map[Phase][]time.Duration, len(allPhases)),
	}
}

// #endregion

// #region run

// Run executes the orchestration loop until ctx is cancelled. Calling
// Run while a loop is already active is a no-op with a warning. Cycle
// errors are logged and retried after a doubling backoff; the loop
// itself never terminates on error.
func (o *Orchestrator) Run(ctx context.Context) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		log.Printf("[ORCH] loop already running")
		return
	}
	o.running = true
	o.mu.Unlock()

	log.Printf("[ORCH] loop started cognition=%v consolidation=%v emotion=%v theory_of_mind=%v",
		o.caps.Cognition != nil, o.caps.Consolidation != nil, o.caps.Emotion, o.caps.TheoryOfMind)
	o.startSubsystems()

	defer func() {
		o.stopSubsystems()
		o.mu.Lock()
		o.running = false
		ticks := o.tick
		o.mu.Unlock()
		log.Printf("[ORCH] loop stopped after %d ticks", ticks)
	}()

	backoff := o.cfg.BackoffMin
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cycleStart := time.Now()
		if err := o.RunCycle(); err != nil {
			log.Printf("[ORCH] cycle error: %v (retrying in %s)", err, backoff)
			if !sleepCtx(ctx, backoff) {
				return
			}
			backoff *= 2
			if backoff > o.cfg.BackoffMax {
				backoff = o.cfg.BackoffMax
			}
			continue
		}
		backoff = o.cfg.BackoffMin

		o.mu.Lock()
		o.cycleTimes = appendCapped(o.cycleTimes, time.Since(cycleStart), metricsCap)
		o.mu.Unlock()

		if !sleepCtx(ctx, o.Interval()) {
			return
		}
	}
}

// Running reports whether the loop is active.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Interval returns the sleep between ticks for the current
// consciousness state.
func (o *Orchestrator) Interval() time.Duration {
	if o.caps.Fatigue == nil {
		return o.cfg.TickInterval
	}
	switch o.caps.Fatigue.State() {
	case fatigue.StateResting, fatigue.StateDeepRest:
		return o.cfg.RestTickInterval
	default:
		return o.cfg.TickInterval
	}
}

// #endregion

// #region subsystem-lifecycle

// startSubsystems starts the wired external subsystems. Failures are
// logged, not fatal; the feature stays inert for this session.
func (o *Orchestrator) startSubsystems() {
	if o.caps.Cognition != nil {
		if err := o.caps.Cognition.Start(); err != nil {
			log.Printf("[ORCH] cognitive loop start failed: %v", err)
		} else {
			log.Printf("[ORCH] cognitive loop started")
		}
	}
}

// stopSubsystems stops whatever is still running.
func (o *Orchestrator) stopSubsystems() {
	if o.caps.Cognition != nil {
		if err := o.caps.Cognition.Stop(); err != nil {
			log.Printf("[ORCH] cognitive loop stop failed: %v", err)
		}
	}
	if o.caps.Consolidation != nil && o.caps.Consolidation.Running() {
		if err := o.caps.Consolidation.Stop(); err != nil {
			log.Printf("[ORCH] consolidation stop failed: %v", err)
		}
	}
}

// #endregion

// #region wake-rest

// checkWakeRest feeds the fatigue model one observation (neutral
// defaults, live coherence when the wisdom aggregator is wired) and
// drives the consolidation subsystem from the resulting state.
func (o *Orchestrator) checkWakeRest() error {
	if o.caps.Fatigue == nil {
		return nil
	}

	sample := fatigue.DefaultSample()
	if o.caps.Wisdom != nil {
		sample.CoherenceLevel = o.caps.Wisdom.Scores().Coherence
	}

	res := o.caps.Fatigue.Update(sample)
	if res.Transition != nil {
		tr := *res.Transition
		log.Printf("[ORCH] consciousness %s → %s (fatigue=%.2f pressure=%.2f)",
			tr.From, tr.To, tr.Fatigue, tr.Pressure)
		if o.caps.Journal != nil {
			if err := o.caps.Journal.LogTransition(tr); err != nil {
				log.Printf("[ORCH] transition log failed: %v", err)
			}
		}
	}

	if o.caps.Consolidation != nil {
		switch res.State {
		case fatigue.StateResting:
			if !o.caps.Consolidation.Running() {
				if err := o.caps.Consolidation.Start(); err != nil {
					return fmt.Errorf("start consolidation: %w", err)
				}
				log.Printf("[ORCH] consolidation started")
			}
		case fatigue.StateAwake:
			if o.caps.Consolidation.Running() {
				if err := o.caps.Consolidation.Stop(); err != nil {
					return fmt.Errorf("stop consolidation: %w", err)
				}
				log.Printf("[ORCH] consolidation stopped")
			}
		}
	}
	return nil
}

// #endregion

// #region cycle

// RunCycle executes one complete tick: the wake/rest check, then the
// seven phases in order, then history and journal bookkeeping. The
// tick counter advances only when the whole cycle completes.
func (o *Orchestrator) RunCycle() error {
	if err := o.checkWakeRest(); err != nil {
		return err
	}

	o.mu.Lock()
	cycle := o.tick
	o.mu.Unlock()

	cctx := Context{
		Timestamp: time.Now(),
		Cycle:     cycle,
	}

	o.runPhase(PhasePerception, &cctx, o.phasePerception)
	o.runPhase(PhaseCognition, &cctx, o.phaseCognition)
	o.runPhase(PhaseEmotion, &cctx, o.phaseEmotion)
	o.runPhase(PhaseSocial, &cctx, o.phaseSocial)
	o.runPhase(PhaseLearning, &cctx, o.phaseLearning)
	o.runPhase(PhaseConsolidation, &cctx, o.phaseConsolidation)
	o.runPhase(PhaseIntegration, &cctx, o.phaseIntegration)

	o.mu.Lock()
	o.current = &cctx
	o.history = append(o.history, cctx)
	if limit := o.cfg.HistoryLimit; limit > 0 && len(o.history) > limit {
		o.history = o.history[len(o.history)-limit:]
	}
	o.tick++
	completed := o.tick
	o.mu.Unlock()

	if o.caps.Journal != nil {
		if err := o.caps.Journal.LogTick(completed, cctx.Inputs.ConsciousnessState, cctx.Outputs.CompositeWisdom); err != nil {
			log.Printf("[ORCH] tick log failed: %v", err)
		}
	}
	return nil
}

// runPhase stamps the phase onto the context, executes it, and records
// its duration.
func (o *Orchestrator) runPhase(p Phase, cctx *Context, fn func(*Context)) {
	start := time.Now()
	cctx.Phase = p
	fn(cctx)
	o.mu.Lock()
	o.phaseTimes[p] = appendCapped(o.phaseTimes[p], time.Since(start), metricsCap)
	o.mu.Unlock()
}

// #endregion

// #region phases

// phasePerception snapshots subsystem state into the tick's inputs.
func (o *Orchestrator) phasePerception(cctx *Context) {
	if o.caps.Fatigue != nil {
		snap := o.caps.Fatigue.Snapshot()
		cctx.Inputs.ConsciousnessState = snap.State
		cctx.Inputs.Fatigue = snap.Fatigue
	}
	if o.caps.Interest != nil {
		cctx.Inputs.ActiveInterests = o.caps.Interest.ActiveInterests()
		cctx.Inputs.ExplorationGoals = len(o.caps.Interest.ExplorationPriorities(0))
	}
	if o.caps.Wisdom != nil {
		cctx.Inputs.Wisdom = o.caps.Wisdom.Scores()
	}
}

// phaseCognition polls the external cognitive loop, read-only.
func (o *Orchestrator) phaseCognition(cctx *Context) {
	if o.caps.Cognition != nil {
		cctx.Outputs.CognitiveStep = o.caps.Cognition.CurrentStep()
		cctx.Outputs.CognitivePhase = o.caps.Cognition.CurrentPhase()
	}
}

// phaseEmotion marks the emotion subsystem active. No computation
// happens here.
func (o *Orchestrator) phaseEmotion(cctx *Context) {
	if o.caps.Emotion {
		cctx.Outputs.EmotionActive = true
	}
}

// phaseSocial marks the theory-of-mind subsystem active.
func (o *Orchestrator) phaseSocial(cctx *Context) {
	if o.caps.TheoryOfMind {
		cctx.Outputs.SocialActive = true
	}
}

// phaseLearning records interest-tracking activity and the current
// composite wisdom score.
func (o *Orchestrator) phaseLearning(cctx *Context) {
	if o.caps.Interest != nil {
		cctx.Outputs.InterestActive = true
	}
	if o.caps.Wisdom != nil {
		cctx.Outputs.CompositeWisdom = o.caps.Wisdom.Scores().Composite
	}
}

// phaseConsolidation marks consolidation active while the model rests.
func (o *Orchestrator) phaseConsolidation(cctx *Context) {
	if o.caps.Fatigue == nil || o.caps.Consolidation == nil {
		return
	}
	switch o.caps.Fatigue.State() {
	case fatigue.StateResting, fatigue.StateDeepRest:
		cctx.Outputs.ConsolidationActive = true
	}
}

// phaseIntegration stamps completion metadata.
func (o *Orchestrator) phaseIntegration(cctx *Context) {
	cctx.Complete = true
	cctx.CompletedAt = time.Now()
}

// #endregion

// #region accessors

// TickCount returns the number of completed cycles.
func (o *Orchestrator) TickCount() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tick
}

// Current returns a copy of the most recent tick's context.
func (o *Orchestrator) Current() (Context, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return Context{}, false
	}
	return *o.current, true
}

// History returns a copy of the retained context records, oldest
// first.
func (o *Orchestrator) History() []Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Context(nil), o.history...)
}

// Summarize reports coarse orchestration metrics.
func (o *Orchestrator) Summarize() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Summary{
		Running:     o.running,
		TotalCycles: o.tick,
		PhaseTimes:  make(map[Phase]time.Duration, len(allPhases)),
		Subsystems: map[string]bool{
			"fatigue":        o.caps.Fatigue != nil,
			"interest":       o.caps.Interest != nil,
			"wisdom":         o.caps.Wisdom != nil,
			"cognition":      o.caps.Cognition != nil,
			"consolidation":  o.caps.Consolidation != nil,
			"emotion":        o.caps.Emotion,
			"theory_of_mind": o.caps.TheoryOfMind,
		},
	}

	if len(o.cycleTimes) > 0 {
		var total time.Duration
		for _, d := range o.cycleTimes {
			total += d
		}
		s.AverageCycleTime = total / time.Duration(len(o.cycleTimes))
	}
	for _, p := range allPhases {
		times := o.phaseTimes[p]
		if len(times) == 0 {
			continue
		}
		var total time.Duration
		for _, d := range times {
			total += d
		}
		s.PhaseTimes[p] = total / time.Duration(len(times))
	}
	return s
}

// #endregion

// #region helpers

func appendCapped(s []time.Duration, d time.Duration, limit int) []time.Duration {
	s = append(s, d)
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}

// sleepCtx sleeps for d or until ctx is done; reports whether the full
// sleep elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// #endregion
