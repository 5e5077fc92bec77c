package interest

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// #region tracker

// Tracker follows engagement with topics, maintains a salience map and
// the derived active-interest set, and generates exploration goals.
type Tracker struct {
	mu  sync.Mutex
	cfg Config

	engagements map[string]*TopicEngagement
	goals       []*ExplorationGoal

	salience    map[string]float64
	clusters    map[string]map[string]bool
	nextCluster int

	active []string
}

// NewTracker builds an empty tracker.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		cfg:         cfg,
		engagements: make(map[string]*TopicEngagement),
		salience:    make(map[string]float64),
		clusters:    make(map[string]map[string]bool),
	}
}

// #endregion

// #region encounters

// RecordEncounter folds one topic encounter into the tracker. First
// encounters create the engagement record; later ones update it with
// 0.7/0.3 moving averages. Salience and the active set are refreshed
// afterwards.
func (t *Tracker) RecordEncounter(e Encounter) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	valence := clampRange(e.Valence, -1, 1)
	satisfaction := clamp01(e.Satisfaction)

	eng, ok := t.engagements[e.Topic]
	if !ok {
		eng = &TopicEngagement{
			Topic:            e.Topic,
			FirstEncounter:   now,
			LastEncounter:    now,
			EncounterCount:   1,
			TotalDuration:    e.Duration,
			EmotionalValence: valence,
			CuriosityLevel:   t.cfg.InitialCuriosity,
			Satisfaction:     satisfaction,
			RelatedTopics:    make(map[string]bool),
		}
		if e.Learning {
			eng.LearningProgress = 0.1
		}
		t.engagements[e.Topic] = eng
	} else {
		eng.LastEncounter = now
		eng.EncounterCount++
		eng.TotalDuration += e.Duration

		eng.EmotionalValence = 0.7*eng.EmotionalValence + 0.3*valence
		if e.Learning {
			eng.LearningProgress = math.Min(1.0, eng.LearningProgress+0.1)
		}
		eng.Satisfaction = 0.7*eng.Satisfaction + 0.3*satisfaction

		// Satisfying, instructive encounters sustain curiosity; dull
		// ones erode it.
		change := (satisfaction - 0.5) * 0.1
		if e.Learning {
			change += 0.1
		} else {
			change -= 0.05
		}
		eng.CuriosityLevel = clamp01(eng.CuriosityLevel + change)
	}

	t.refreshSalience(e.Topic, now)
	t.refreshActive()
}

// #endregion

// #region salience

// refreshSalience recomputes one topic's salience. Caller holds the lock.
func (t *Tracker) refreshSalience(topic string, now time.Time) {
	eng, ok := t.engagements[topic]
	if !ok {
		return
	}

	recency := math.Exp(-now.Sub(eng.LastEncounter).Seconds() / 86400.0)
	frequency := math.Min(1.0, float64(eng.EncounterCount)/10.0)
	emotional := (eng.EmotionalValence + 1.0) / 2.0
	// Medium progress is most salient: untouched topics may be too
	// hard, finished ones are exhausted.
	learningPotential := 1.0 - math.Abs(eng.LearningProgress-0.5)*2.0

	t.salience[topic] = clamp01(0.3*recency +
		0.2*frequency +
		0.2*emotional +
		0.2*eng.CuriosityLevel +
		0.1*learningPotential)
}

// refreshActive rebuilds the active-interest list: the highest-salience
// topics above the threshold, capped at the configured limit. Caller
// holds the lock.
func (t *Tracker) refreshActive() {
	type scored struct {
		topic    string
		salience float64
	}
	ranked := make([]scored, 0, len(t.salience))
	for topic, s := range t.salience {
		ranked = append(ranked, scored{topic, s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].salience != ranked[j].salience {
			return ranked[i].salience > ranked[j].salience
		}
		return ranked[i].topic < ranked[j].topic
	})

	t.active = t.active[:0]
	for _, r := range ranked {
		if len(t.active) >= t.cfg.ActiveLimit || r.salience <= t.cfg.ActiveThreshold {
			break
		}
		t.active = append(t.active, r.topic)
	}
}

// #endregion

// #region relations

// AddRelation records a symmetric relation between two topics and folds
// them into the topic clustering: bridging two clusters merges them,
// two unclustered topics open a new cluster.
func (t *Tracker) AddRelation(topic1, topic2 string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if eng, ok := t.engagements[topic1]; ok {
		eng.RelatedTopics[topic2] = true
	}
	if eng, ok := t.engagements[topic2]; ok {
		eng.RelatedTopics[topic1] = true
	}

	var cluster1, cluster2 string
	for id, members := range t.clusters {
		if members[topic1] {
			cluster1 = id
		}
		if members[topic2] {
			cluster2 = id
		}
	}

	switch {
	case cluster1 == "" && cluster2 == "":
		id := fmt.Sprintf("cluster_%d", t.nextCluster)
		t.nextCluster++
		t.clusters[id] = map[string]bool{topic1: true, topic2: true}
	case cluster2 == "":
		t.clusters[cluster1][topic2] = true
	case cluster1 == "":
		t.clusters[cluster2][topic1] = true
	case cluster1 != cluster2:
		for member := range t.clusters[cluster2] {
			t.clusters[cluster1][member] = true
		}
		delete(t.clusters, cluster2)
	}
}

// #endregion

// #region goals

// GenerateGoal creates an exploration goal for the given topic, or for
// the best candidate (highest curiosity*salience among curious,
// unexhausted topics) when topic is empty. Returns nil when no topic
// qualifies.
func (t *Tracker) GenerateGoal(topic string) *ExplorationGoal {
	t.mu.Lock()
	defer t.mu.Unlock()

	if topic == "" {
		topic = t.bestCandidate()
		if topic == "" {
			return nil
		}
	}
	eng, ok := t.engagements[topic]
	if !ok {
		return nil
	}

	utility := math.Min(1.0, float64(len(eng.RelatedTopics))*0.1+(eng.EmotionalValence+1.0)/2.0*0.5)
	priority := eng.CuriosityLevel*0.6 + utility*0.4

	goal := &ExplorationGoal{
		ID:              uuid.New().String(),
		Topic:           topic,
		Created:         time.Now(),
		Priority:        priority,
		CuriosityDriver: eng.CuriosityLevel,
		UtilityDriver:   utility,
		TargetDepth:     math.Min(1.0, eng.LearningProgress+0.3),
	}
	t.goals = append(t.goals, goal)
	return goal
}

// bestCandidate scans for the auto-selection target. Caller holds the
// lock.
func (t *Tracker) bestCandidate() string {
	var best string
	bestScore := -1.0
	for topic, eng := range t.engagements {
		if eng.CuriosityLevel <= 0.5 || eng.LearningProgress >= 0.8 {
			continue
		}
		score := eng.CuriosityLevel * t.salience[topic]
		if score > bestScore || (score == bestScore && topic < best) {
			best = topic
			bestScore = score
		}
	}
	return best
}

// UpdateGoalProgress sets a goal's progress (clamped to [0,1]), marks
// it completed once progress reaches the target depth, and optionally
// bumps the underlying topic's learning progress. Returns false for an
// unknown goal ID.
func (t *Tracker) UpdateGoalProgress(goalID string, progress float64, learning bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, goal := range t.goals {
		if goal.ID != goalID {
			continue
		}
		goal.Progress = clamp01(progress)
		if goal.Progress >= goal.TargetDepth {
			goal.Completed = true
		}
		if learning {
			if eng, ok := t.engagements[goal.Topic]; ok {
				eng.LearningProgress = math.Min(1.0, eng.LearningProgress+0.1)
			}
		}
		return true
	}
	return false
}

// ExplorationPriorities returns incomplete goals sorted by priority
// descending. A positive limit caps the result.
func (t *Tracker) ExplorationPriorities(limit int) []*ExplorationGoal {
	t.mu.Lock()
	defer t.mu.Unlock()

	var open []*ExplorationGoal
	for _, g := range t.goals {
		if !g.Completed {
			open = append(open, g)
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].Priority > open[j].Priority })
	if limit > 0 && len(open) > limit {
		open = open[:limit]
	}
	return open
}

// #endregion

// #region discussion

// ShouldJoinDiscussion decides whether a discussion topic aligns with
// current interests: active topics, high-salience topics, topics
// related to an active interest, and topics sharing a cluster with one
// all qualify.
func (t *Tracker) ShouldJoinDiscussion(topic string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, active := range t.active {
		if active == topic {
			return true
		}
	}
	if t.salience[topic] > t.cfg.JoinThreshold {
		return true
	}
	for _, active := range t.active {
		if eng, ok := t.engagements[active]; ok && eng.RelatedTopics[topic] {
			return true
		}
	}
	for _, members := range t.clusters {
		if !members[topic] {
			continue
		}
		for _, active := range t.active {
			if members[active] {
				return true
			}
		}
	}
	return false
}

// #endregion

// #region decay

// DecayInterests applies time-based curiosity decay across every
// tracked topic, with a partial recovery term that keeps dormant topics
// from going extinct. Intended to run on a daily schedule.
func (t *Tracker) DecayInterests() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for topic, eng := range t.engagements {
		days := now.Sub(eng.LastEncounter).Hours() / 24.0
		eng.CuriosityLevel *= math.Pow(t.cfg.DecayRate, days)
		eng.CuriosityLevel = math.Min(1.0, eng.CuriosityLevel+t.cfg.RecoveryRate*days)
		t.refreshSalience(topic, now)
	}
	t.refreshActive()
}

// #endregion

// #region reads

// TopicScore blends salience, curiosity, and valence into one interest
// score for a topic. Unknown topics score zero.
func (t *Tracker) TopicScore(topic string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	eng, ok := t.engagements[topic]
	if !ok {
		return 0
	}
	return t.salience[topic]*0.4 +
		eng.CuriosityLevel*0.4 +
		(eng.EmotionalValence+1.0)/2.0*0.2
}

// Salience returns the current salience for a topic (zero if unknown).
func (t *Tracker) Salience(topic string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.salience[topic]
}

// ActiveInterests returns a copy of the active-interest list, highest
// salience first.
func (t *Tracker) ActiveInterests() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.active...)
}

// TopFocus returns the most salient active interest, if any.
func (t *Tracker) TopFocus() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.active) == 0 {
		return "", false
	}
	return t.active[0], true
}

// CuriosityProfile returns a copy of per-topic curiosity levels.
func (t *Tracker) CuriosityProfile() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	profile := make(map[string]float64, len(t.engagements))
	for topic, eng := range t.engagements {
		profile[topic] = eng.CuriosityLevel
	}
	return profile
}

// Engagement returns a copy of one topic's engagement record.
func (t *Tracker) Engagement(topic string) (TopicEngagement, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	eng, ok := t.engagements[topic]
	if !ok {
		return TopicEngagement{}, false
	}
	copied := *eng
	copied.RelatedTopics = make(map[string]bool, len(eng.RelatedTopics))
	for k := range eng.RelatedTopics {
		copied.RelatedTopics[k] = true
	}
	return copied, true
}

// Summary reports coarse tracker metrics.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		TotalTopics:     len(t.engagements),
		ActiveInterests: append([]string(nil), t.active...),
		TopicClusters:   len(t.clusters),
	}
	for _, g := range t.goals {
		if g.Completed {
			s.CompletedGoals++
		} else {
			s.ActiveGoals++
		}
	}
	if len(t.engagements) > 0 {
		var curiosity, satisfaction float64
		for _, eng := range t.engagements {
			curiosity += eng.CuriosityLevel
			satisfaction += eng.Satisfaction
		}
		s.AvgCuriosity = curiosity / float64(len(t.engagements))
		s.AvgSatisfaction = satisfaction / float64(len(t.engagements))
	}
	return s
}

// #endregion

// #region helpers

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion
