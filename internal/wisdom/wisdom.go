package wisdom

import (
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// #region aggregator

// Composite weights for the five wisdom dimensions.
const (
	weightDepth         = 0.25
	weightBreadth       = 0.20
	weightApplicability = 0.20
	weightCoherence     = 0.25
	weightAdaptability  = 0.10
)

// recentWindow bounds the trailing slice used by the recency-weighted
// sub-scores.
const recentWindow = 20

type domainPair struct {
	a, b string
}

func pairOf(d1, d2 string) domainPair {
	if d2 < d1 {
		d1, d2 = d2, d1
	}
	return domainPair{a: d1, b: d2}
}

type coherencePoint struct {
	at    time.Time
	value float64
}

// Aggregator folds insights and belief updates into composite wisdom
// scores. All methods are safe for concurrent use.
type Aggregator struct {
	mu  sync.Mutex
	cfg Config

	insights []Insight
	updates  []BeliefUpdate

	domainKnowledge map[string]float64
	connections     map[domainPair]int

	coherence     float64
	coherenceHist []coherencePoint
	evidence      float64

	history []snapshot
}

// New returns an aggregator at neutral coherence with no recorded
// insights.
func New(cfg Config) *Aggregator {
	return &Aggregator{
		cfg:             cfg,
		domainKnowledge: make(map[string]float64),
		connections:     make(map[domainPair]int),
		coherence:       cfg.InitialCoherence,
		evidence:        cfg.InitialEvidence,
	}
}

// #endregion

// #region recording

// AddInsight records one insight, credits its domains, counts every
// domain pairing, shifts coherence by the insight's contribution and
// takes a score snapshot. A missing ID or timestamp is filled in.
func (a *Aggregator) AddInsight(ins Insight) Insight {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ins.ID == "" {
		ins.ID = uuid.New().String()
	}
	if ins.Timestamp.IsZero() {
		ins.Timestamp = time.Now()
	}
	a.applyInsight(ins)
	log.Printf("[WISDOM] insight recorded id=%s depth=%.2f domains=%d coherence=%.3f",
		ins.ID, ins.DepthScore, len(ins.RelatedDomains), a.coherence)
	return ins
}

// AddBeliefUpdate records one belief revision, folds the evidence
// strength into the integration average, shifts coherence by the
// revision's impact and takes a score snapshot.
func (a *Aggregator) AddBeliefUpdate(up BeliefUpdate) BeliefUpdate {
	a.mu.Lock()
	defer a.mu.Unlock()

	if up.ID == "" {
		up.ID = uuid.New().String()
	}
	if up.Timestamp.IsZero() {
		up.Timestamp = time.Now()
	}
	a.applyUpdate(up)
	log.Printf("[WISDOM] belief update recorded id=%s confidence_change=%.2f integration=%.3f",
		up.ID, up.ConfidenceChange, a.evidence)
	return up
}

// applyInsight mutates aggregator state for one insight. Callers hold
// the lock. History entries are stamped with the record's timestamp so
// a rebuilt aggregator reproduces the live one.
func (a *Aggregator) applyInsight(ins Insight) {
	a.insights = append(a.insights, ins)

	for _, domain := range ins.RelatedDomains {
		a.domainKnowledge[domain] += ins.DepthScore * 0.1
	}
	for i := 0; i < len(ins.RelatedDomains); i++ {
		for j := i + 1; j < len(ins.RelatedDomains); j++ {
			a.connections[pairOf(ins.RelatedDomains[i], ins.RelatedDomains[j])]++
		}
	}

	a.coherence = clamp01(a.coherence + ins.CoherenceContribution*a.cfg.CoherenceStep)
	a.coherenceHist = append(a.coherenceHist, coherencePoint{at: ins.Timestamp, value: a.coherence})
	a.recordSnapshot(ins.Timestamp)
}

// applyUpdate mutates aggregator state for one belief revision.
// Callers hold the lock.
func (a *Aggregator) applyUpdate(up BeliefUpdate) {
	a.updates = append(a.updates, up)

	a.evidence = (1-a.cfg.EvidenceAlpha)*a.evidence + a.cfg.EvidenceAlpha*math.Abs(up.ConfidenceChange)
	a.coherence = clamp01(a.coherence + up.CoherenceImpact*a.cfg.CoherenceStep)
	a.coherenceHist = append(a.coherenceHist, coherencePoint{at: up.Timestamp, value: a.coherence})
	a.recordSnapshot(up.Timestamp)
}

func (a *Aggregator) recordSnapshot(at time.Time) {
	a.history = append(a.history, snapshot{at: at, scores: a.scoresLocked()})
}

// #endregion

// #region scoring

// Scores computes the five wisdom dimensions and their weighted
// composite from current state.
func (a *Aggregator) Scores() Scores {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scoresLocked()
}

func (a *Aggregator) scoresLocked() Scores {
	s := Scores{
		Depth:         a.depthScore(),
		Breadth:       a.breadthScore(),
		Applicability: a.applicabilityScore(),
		Coherence:     a.coherenceScore(),
		Adaptability:  a.adaptabilityScore(),
	}
	s.Composite = weightDepth*s.Depth +
		weightBreadth*s.Breadth +
		weightApplicability*s.Applicability +
		weightCoherence*s.Coherence +
		weightAdaptability*s.Adaptability
	return s
}

// depthScore averages recent insight depth, adds half the improvement
// over the earliest insights and a small bonus per deep insight.
func (a *Aggregator) depthScore() float64 {
	if len(a.insights) == 0 {
		return 0
	}

	recent := a.insights
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	sum := 0.0
	for _, ins := range recent {
		sum += ins.DepthScore
	}
	avg := sum / float64(len(recent))

	trend := 0.0
	if len(a.insights) > 10 {
		earlySum := 0.0
		for _, ins := range a.insights[:10] {
			earlySum += ins.DepthScore
		}
		trend = (avg - earlySum/10) * 0.5
	}

	deep := 0
	for _, ins := range a.insights {
		if ins.DepthScore > 0.8 {
			deep++
		}
	}
	bonus := math.Min(0.2, float64(deep)*0.02)

	return clamp01(avg + trend + bonus)
}

// breadthScore rewards how many domains hold real knowledge, how many
// distinct domain pairs have been connected, and how evenly knowledge
// spreads across domains.
func (a *Aggregator) breadthScore() float64 {
	if len(a.domainKnowledge) == 0 {
		return 0
	}

	covered := 0
	total := 0.0
	maxKnowledge := 0.0
	for _, k := range a.domainKnowledge {
		if k > 0.1 {
			covered++
		}
		total += k
		if k > maxKnowledge {
			maxKnowledge = k
		}
	}
	domainScore := math.Min(1, float64(covered)/10)
	connectionScore := math.Min(1, float64(len(a.connections))/20)

	distribution := 1.0
	if total > 0 {
		distribution = 1 - (maxKnowledge/total)*0.5
	}

	return 0.4*domainScore + 0.4*connectionScore + 0.2*distribution
}

// applicabilityScore averages recent applicability and rewards the
// overall share of highly applicable insights.
func (a *Aggregator) applicabilityScore() float64 {
	if len(a.insights) == 0 {
		return 0
	}

	recent := a.insights
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	sum := 0.0
	for _, ins := range recent {
		sum += ins.ApplicabilityScore
	}
	avg := sum / float64(len(recent))

	high := 0
	for _, ins := range a.insights {
		if ins.ApplicabilityScore > 0.7 {
			high++
		}
	}
	ratio := float64(high) / float64(len(a.insights))

	return 0.7*avg + 0.3*ratio
}

// coherenceScore blends the live coherence level with its recent
// stability and the trend since the earliest recorded samples.
func (a *Aggregator) coherenceScore() float64 {
	if len(a.coherenceHist) == 0 {
		return 0.5
	}

	stability := 0.5
	if len(a.coherenceHist) > 5 {
		tail := a.coherenceHist
		if len(tail) > 10 {
			tail = tail[len(tail)-10:]
		}
		variance := 0.0
		for _, p := range tail {
			d := p.value - a.coherence
			variance += d * d
		}
		variance /= float64(len(tail))
		stability = math.Max(0, 1-variance)
	}

	trend := 0.0
	if len(a.coherenceHist) > 10 {
		earlySum := 0.0
		for _, p := range a.coherenceHist[:5] {
			earlySum += p.value
		}
		trend = (a.coherence - earlySum/5) * 0.5
	}

	return clamp01(0.6*a.coherence + 0.3*stability + 0.1*trend)
}

// adaptabilityScore rewards revising beliefs at a healthy rate relative
// to insight volume, integrating evidence, and keeping individual
// revisions modest.
func (a *Aggregator) adaptabilityScore() float64 {
	if len(a.updates) == 0 {
		return 0.5
	}

	frequency := 0.0
	if len(a.insights) > 0 {
		frequency = math.Min(1, float64(len(a.updates))/float64(len(a.insights))*2)
	}

	balance := 0.5
	if len(a.updates) > 5 {
		tail := a.updates
		if len(tail) > 10 {
			tail = tail[len(tail)-10:]
		}
		impactSum := 0.0
		for _, up := range tail {
			impactSum += math.Abs(up.CoherenceImpact)
		}
		balance = 1 - math.Min(1, impactSum/float64(len(tail))*2)
	}

	return 0.3*frequency + 0.5*a.evidence + 0.2*balance
}

// #endregion

// #region introspection

// GrowthRate reports the composite-score change per hour across the
// snapshots inside the window. Fewer than two snapshots, or a
// degenerate time span, yields zero.
func (a *Aggregator) GrowthRate(window time.Duration) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.growthRateLocked(window)
}

// CurrentCoherence returns the live coherence scalar.
func (a *Aggregator) CurrentCoherence() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.coherence
}

// Domains returns every known domain sorted by accumulated knowledge,
// strongest first.
func (a *Aggregator) Domains() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	domains := make([]string, 0, len(a.domainKnowledge))
	for d := range a.domainKnowledge {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		ki, kj := a.domainKnowledge[domains[i]], a.domainKnowledge[domains[j]]
		if ki != kj {
			return ki > kj
		}
		return domains[i] < domains[j]
	})
	return domains
}

// Summarize reports scores, hourly growth and the counters that feed
// them.
func (a *Aggregator) Summarize() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	scores := a.scoresLocked()
	return Summary{
		Scores:                 scores,
		GrowthRatePerHour:      a.growthRateLocked(time.Hour),
		TotalInsights:          len(a.insights),
		TotalBeliefUpdates:     len(a.updates),
		DomainsExplored:        len(a.domainKnowledge),
		CrossDomainConnections: len(a.connections),
		CurrentCoherence:       a.coherence,
		EvidenceIntegration:    a.evidence,
	}
}

func (a *Aggregator) growthRateLocked(window time.Duration) float64 {
	cutoff := time.Now().Add(-window)
	var inWindow []snapshot
	for _, s := range a.history {
		if !s.at.Before(cutoff) {
			inWindow = append(inWindow, s)
		}
	}
	if len(inWindow) < 2 {
		return 0
	}
	earliest := inWindow[0]
	latest := inWindow[len(inWindow)-1]
	hours := latest.at.Sub(earliest.at).Hours()
	if hours <= 0 {
		return 0
	}
	return (latest.scores.Composite - earliest.scores.Composite) / hours
}

// #endregion

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
