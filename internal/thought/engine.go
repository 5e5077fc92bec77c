package thought

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/o9nn/ecco9/internal/fatigue"
)

// #region engine

// recentThoughts bounds the in-memory thought buffer; the store keeps
// full history.
const recentThoughts = 100

// metricsWindow is how many trailing thoughts feed each metric sample;
// metricsCap bounds the retained metric series.
const (
	metricsWindow = 10
	metricsCap    = 20
)

// recentForProvider is how many trailing thought texts ride along on
// provider requests.
const recentForProvider = 5

// Engine generates autonomous thoughts: weighted type selection,
// provider-backed content with template fallback, and a paced loop
// that slows with the consciousness state. All methods are safe for
// concurrent use.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	provider Provider
	rng      *rand.Rand

	running     bool
	thoughts    []Thought
	count       int
	focus       string
	goals       []string
	experiences int

	tpmSeries   []float64
	depthSeries []float64
}

// New returns an engine. A nil provider means template-only content.
func New(cfg Config, provider Provider) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// #endregion

// #region state-feed

// SetFocus records the current focus topic; generated thoughts carry
// it as their trigger.
func (e *Engine) SetFocus(focus string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focus = focus
}

// SetGoals replaces the active learning goals that bias selection
// toward learning and planning thoughts.
func (e *Engine) SetGoals(goals []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.goals = append(e.goals[:0], goals...)
}

// RecordExperience notes one processed experience; any recorded
// experience biases selection toward reflection and integration.
func (e *Engine) RecordExperience() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.experiences++
}

// Focus returns the current focus topic.
func (e *Engine) Focus() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focus
}

// #endregion

// #region generation

// Generate produces one thought. Content comes from the provider when
// one is wired and answers; otherwise from the type's template pool.
func (e *Engine) Generate(ctx context.Context) Thought {
	e.mu.Lock()
	typ := e.selectTypeLocked()
	focus := e.focus
	recent := e.recentContentsLocked(recentForProvider)
	e.mu.Unlock()

	prof := profiles[typ]
	content := ""
	if e.provider != nil {
		text, err := e.provider.GenerateThought(ctx, ProviderRequest{
			Type:   typ,
			Prompt: Prompt(typ, focus),
			Topic:  focus,
			Tone:   prof.tone,
			Depth:  prof.depth,
			Recent: recent,
		})
		switch {
		case err != nil:
			log.Printf("[THOUGHT] provider failed, using template: %v", err)
		case strings.TrimSpace(text) == "":
			log.Printf("[THOUGHT] provider returned empty content, using template")
		default:
			content = text
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if content == "" {
		pool := templates[typ]
		content = pool[e.rng.Intn(len(pool))]
	}

	th := Thought{
		ID:          uuid.New().String(),
		At:          time.Now(),
		Type:        typ,
		Content:     content,
		Tone:        prof.tone,
		Depth:       prof.depth,
		TriggeredBy: focus,
		Context: Context{
			ThoughtCount:      e.count,
			CurrentFocus:      focus,
			ActiveGoals:       len(e.goals),
			RecentExperiences: e.experiences,
		},
	}
	e.thoughts = append(e.thoughts, th)
	if len(e.thoughts) > recentThoughts {
		e.thoughts = e.thoughts[len(e.thoughts)-recentThoughts:]
	}
	e.count++
	e.updateMetricsLocked()

	log.Printf("[THOUGHT] [%s] %s", typ, content)
	return th
}

// selectTypeLocked draws a thought type from the boosted, normalized
// weights. Active goals favor learning and planning; recorded
// experiences favor reflection and integration.
func (e *Engine) selectTypeLocked() Type {
	weights := make(map[Type]float64, len(allTypes))
	total := 0.0
	for typ, prof := range profiles {
		weights[typ] = prof.weight
	}
	if len(e.goals) > 0 {
		weights[TypeLearning] *= 1.5
		weights[TypePlanning] *= 1.3
	}
	if e.experiences > 0 {
		weights[TypeReflection] *= 1.4
		weights[TypeIntegration] *= 1.3
	}
	for _, w := range weights {
		total += w
	}

	r := e.rng.Float64()
	cumulative := 0.0
	for _, typ := range allTypes {
		cumulative += weights[typ] / total
		if r <= cumulative {
			return typ
		}
	}
	return TypeReflection
}

func (e *Engine) recentContentsLocked(n int) []string {
	start := len(e.thoughts) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(e.thoughts)-start)
	for _, th := range e.thoughts[start:] {
		out = append(out, th.Content)
	}
	return out
}

// #endregion

// #region pacing

// Interval draws the pause before the next thought: uniform inside the
// configured band, stretched while the consciousness state is below
// full wakefulness.
func (e *Engine) Interval(state fatigue.State) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	span := e.cfg.IntervalMax - e.cfg.IntervalMin
	d := e.cfg.IntervalMin + time.Duration(e.rng.Float64()*float64(span))
	switch state {
	case fatigue.StateResting, fatigue.StateDeepRest:
		d = time.Duration(float64(d) * e.cfg.RestSlowdown)
	case fatigue.StateDrowsy:
		d = time.Duration(float64(d) * e.cfg.DrowsySlowdown)
	}
	return d
}

// Run generates thoughts until ctx is cancelled. stateOf supplies the
// consciousness state for pacing (nil means always awake); emit
// receives every thought, and an emit failure backs off instead of
// stopping the loop. Calling Run while already running warns and
// returns.
func (e *Engine) Run(ctx context.Context, stateOf func() fatigue.State, emit func(Thought) error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		log.Printf("[THOUGHT] loop already running")
		return
	}
	e.running = true
	e.mu.Unlock()

	log.Printf("[THOUGHT] loop started interval=[%s, %s]", e.cfg.IntervalMin, e.cfg.IntervalMax)
	defer func() {
		e.mu.Lock()
		e.running = false
		total := e.count
		e.mu.Unlock()
		log.Printf("[THOUGHT] loop stopped thoughts=%d", total)
	}()

	for {
		th := e.Generate(ctx)
		if emit != nil {
			if err := emit(th); err != nil {
				log.Printf("[THOUGHT] emit failed: %v", err)
				if !sleepCtx(ctx, e.cfg.ErrorBackoff) {
					return
				}
				continue
			}
		}

		state := fatigue.StateAwake
		if stateOf != nil {
			state = stateOf()
		}
		if !sleepCtx(ctx, e.Interval(state)) {
			return
		}
	}
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

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

// #region metrics

// updateMetricsLocked appends one thoughts-per-minute sample and one
// average-depth sample over the trailing window.
func (e *Engine) updateMetricsLocked() {
	if len(e.thoughts) >= 2 {
		recent := e.lastThoughtsLocked(metricsWindow)
		span := recent[len(recent)-1].At.Sub(recent[0].At).Seconds()
		if span > 0 {
			tpm := float64(len(recent)-1) / (span / 60)
			e.tpmSeries = appendCapped(e.tpmSeries, tpm, metricsCap)
		}
	}
	if len(e.thoughts) > 0 {
		recent := e.lastThoughtsLocked(metricsWindow)
		sum := 0.0
		for _, th := range recent {
			sum += th.Depth
		}
		e.depthSeries = appendCapped(e.depthSeries, sum/float64(len(recent)), metricsCap)
	}
}

func (e *Engine) lastThoughtsLocked(n int) []Thought {
	start := len(e.thoughts) - n
	if start < 0 {
		start = 0
	}
	return e.thoughts[start:]
}

// Snapshot returns the buffered recent thoughts, newest last.
func (e *Engine) Snapshot() []Thought {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Thought, len(e.thoughts))
	copy(out, e.thoughts)
	return out
}

// Summarize reports loop status, throughput averages and the type
// distribution over the buffered thoughts.
func (e *Engine) Summarize() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := Metrics{
		Running:          e.running,
		TotalThoughts:    e.count,
		TypeDistribution: make(map[Type]int, len(allTypes)),
		ActiveGoals:      len(e.goals),
		CurrentFocus:     e.focus,
	}
	if len(e.tpmSeries) > 0 {
		m.ThoughtsPerMinute = mean(e.tpmSeries)
	}
	if len(e.depthSeries) > 0 {
		m.AverageDepth = mean(e.depthSeries)
	}
	for _, th := range e.thoughts {
		m.TypeDistribution[th.Type]++
	}
	return m
}

func appendCapped(s []float64, v float64, limit int) []float64 {
	s = append(s, v)
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}

func mean(s []float64) float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// #endregion
