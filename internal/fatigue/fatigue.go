package fatigue

import (
	"log"
	"sync"
	"time"
)

// maxRecentSamples bounds the quality/coherence history windows.
const maxRecentSamples = 20

// #region model

// Model is the wake/rest consciousness state machine. It tracks two
// pressure scalars (cognitive fatigue, consolidation pressure), both
// clamped to [0,1], and transitions among five states on threshold and
// timer conditions. Update never fails; it only saturates.
type Model struct {
	mu  sync.Mutex
	cfg Config

	state     State
	enteredAt time.Time

	fatigue  float64
	pressure float64

	activitySeconds float64 // length of the current/last activity stretch
	restSeconds     float64 // length of the current/last rest stretch

	optimalActivitySec float64 // learned, EMA-adjusted on each waking
	optimalRestSec     float64

	recentQuality   []float64
	recentCoherence []float64

	totalCycles int
}

// New builds a Model starting awake with zero fatigue and pressure.
func New(cfg Config) *Model {
	return &Model{
		cfg:                cfg,
		state:              StateAwake,
		enteredAt:          time.Now(),
		optimalActivitySec: cfg.OptimalActivity.Seconds(),
		optimalRestSec:     cfg.OptimalRest.Seconds(),
	}
}

// #endregion

// #region update

// Update folds one observation into the model: accumulates or recovers
// fatigue depending on the current state, adjusts consolidation
// pressure, then applies at most one state transition.
func (m *Model) Update(s Sample) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	m.recentQuality = appendCapped(m.recentQuality, s.ProcessingQuality)
	m.recentCoherence = appendCapped(m.recentCoherence, s.CoherenceLevel)

	switch m.state {
	case StateAwake, StateDrowsy:
		m.updateActive(now, s)
	case StateResting, StateDeepRest:
		m.updateResting(now, s)
	}

	var tr *Transition
	if next := m.nextState(now); next != m.state {
		tr = m.transitionTo(next, now)
	}
	return Result{State: m.state, Transition: tr}
}

// updateActive accumulates fatigue while awake or drowsy. Degraded
// quality or coherence accelerates the accumulation.
func (m *Model) updateActive(now time.Time, s Sample) {
	minutes := now.Sub(m.enteredAt).Minutes()

	m.fatigue += m.cfg.AccumulationRate * minutes
	m.fatigue += (1 - s.ProcessingQuality) * m.cfg.DeficitRate * minutes
	m.fatigue += (1 - s.CoherenceLevel) * m.cfg.DeficitRate * minutes
	m.fatigue = clamp01(m.fatigue)

	m.pressure = clamp01(m.pressure + float64(s.NewMemories)*m.cfg.MemoryPressure)

	m.activitySeconds = now.Sub(m.enteredAt).Seconds()
}

// updateResting recovers fatigue while resting or in deep rest.
func (m *Model) updateResting(now time.Time, s Sample) {
	minutes := now.Sub(m.enteredAt).Minutes()

	m.fatigue = clamp01(m.fatigue - m.cfg.RecoveryRate*minutes)
	if s.Consolidated {
		m.pressure *= 0.5
	}

	m.restSeconds = now.Sub(m.enteredAt).Seconds()
}

// #endregion

// #region transitions

// nextState evaluates the transition table against the current scalars.
// Conditions are checked in priority order; the first match wins.
func (m *Model) nextState(now time.Time) State {
	inState := now.Sub(m.enteredAt)

	switch m.state {
	case StateAwake:
		if m.fatigue >= m.cfg.DrowsyThreshold {
			return StateDrowsy
		}
		if m.pressure >= m.cfg.ConsolidationThreshold {
			return StateDrowsy
		}

	case StateDrowsy:
		if m.fatigue >= m.cfg.RestThreshold {
			return StateResting
		}
		if m.pressure >= m.cfg.ConsolidationThreshold {
			return StateResting
		}
		// Recovered enough to return without a rest cycle.
		if m.fatigue < m.cfg.DrowsyThreshold*0.8 {
			return StateAwake
		}

	case StateResting:
		if inState > m.cfg.DeepRestAfter {
			return StateDeepRest
		}
		if m.fatigue < m.cfg.WakeThreshold && m.pressure < 0.3 {
			return StateWaking
		}

	case StateDeepRest:
		if m.fatigue < m.cfg.WakeThreshold && m.pressure < 0.2 {
			return StateWaking
		}
		if inState.Seconds() > m.optimalRestSec && m.fatigue < 0.3 {
			return StateWaking
		}

	case StateWaking:
		if inState > m.cfg.WakingPeriod {
			return StateAwake
		}
	}
	return m.state
}

// transitionTo switches state, resets the entry timestamp, and runs the
// per-state side effects. Caller holds the lock.
func (m *Model) transitionTo(next State, now time.Time) *Transition {
	tr := &Transition{
		From:     m.state,
		To:       next,
		At:       now,
		Fatigue:  m.fatigue,
		Pressure: m.pressure,
	}
	m.state = next
	m.enteredAt = now

	log.Printf("[FATIGUE] transition %s -> %s (fatigue=%.2f pressure=%.2f)", tr.From, tr.To, m.fatigue, m.pressure)

	switch next {
	case StateResting:
		log.Printf("[FATIGUE] rest cycle begins after %.1f active minutes", m.activitySeconds/60)
	case StateWaking:
		m.totalCycles++
		m.learnOptimalDurations()
		log.Printf("[FATIGUE] waking after %.1f resting minutes (cycle %d)", m.restSeconds/60, m.totalCycles)
	case StateAwake:
		log.Printf("[FATIGUE] fully awake (cycle %d)", m.totalCycles)
	}
	return tr
}

// learnOptimalDurations adjusts the learned duration targets after a
// completed cycle. Sustainable cycles pull the targets toward the
// actual durations; poor cycles shorten activity and lengthen rest.
func (m *Model) learnOptimalDurations() {
	if mean(m.recentQuality) > m.cfg.QualityBar {
		a := m.cfg.DurationAlpha
		m.optimalActivitySec = (1-a)*m.optimalActivitySec + a*m.activitySeconds
		m.optimalRestSec = (1-a)*m.optimalRestSec + a*m.restSeconds
		return
	}
	m.optimalActivitySec *= 0.95
	m.optimalRestSec *= 1.05
}

// #endregion

// #region predicates

// ShouldRestNow reports whether either pressure scalar has crossed its
// rest threshold, independent of the current state.
func (m *Model) ShouldRestNow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fatigue >= m.cfg.RestThreshold || m.pressure >= m.cfg.ConsolidationThreshold
}

// ShouldWakeNow reports whether a resting model has recovered enough to
// wake immediately.
func (m *Model) ShouldWakeNow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Resting() && m.fatigue < m.cfg.WakeThreshold && m.pressure < 0.3
}

// #endregion

// #region force

// ForceRest transitions straight to resting, bypassing the table.
func (m *Model) ForceRest() *Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionTo(StateResting, time.Now())
}

// ForceWake transitions straight to awake and clears both scalars.
func (m *Model) ForceWake() *Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr := m.transitionTo(StateAwake, time.Now())
	m.fatigue = 0
	m.pressure = 0
	return tr
}

// #endregion

// #region reads

// State returns the current consciousness state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// FatigueMetrics derives load indicators from the current fatigue level.
func (m *Model) FatigueMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Metrics{
		ProcessingQuality: mean(m.recentQuality),
		CoherenceLevel:    mean(m.recentCoherence),
		ResponseLatency:   1.0 + m.fatigue*2.0,
		ErrorRate:         m.fatigue * 0.3,
		AttentionSpan:     1.0 - m.fatigue*0.8,
	}
}

// ConsolidationMetrics derives backlog estimates from the pressure level.
func (m *Model) ConsolidationMetrics() ConsolidationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	cm := ConsolidationMetrics{
		UnconsolidatedMemories: int(m.pressure * 100),
		Pressure:               m.pressure,
		BufferUtilization:      m.pressure,
		Quality:                1.0 - m.pressure*0.5,
	}
	if m.state == StateResting {
		cm.LastConsolidation = m.enteredAt
	}
	return cm
}

// Snapshot returns a consistent copy of the full model state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:           m.state,
		EnteredAt:       m.enteredAt,
		Fatigue:         m.fatigue,
		Pressure:        m.pressure,
		TotalCycles:     m.totalCycles,
		OptimalActivity: time.Duration(m.optimalActivitySec * float64(time.Second)),
		OptimalRest:     time.Duration(m.optimalRestSec * float64(time.Second)),
	}
}

// #endregion

// #region helpers

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > maxRecentSamples {
		xs = xs[len(xs)-maxRecentSamples:]
	}
	return xs
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
