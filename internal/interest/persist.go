package interest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// #region document

// Document is the JSON persistence format for a Tracker. Engagements,
// goals, and clusters are raw state; the salience map is written for
// inspectability but rebuilt from the engagements on load.
type Document struct {
	TopicEngagements map[string]EngagementDoc `json:"topic_engagements"`
	ExplorationGoals []GoalDoc                `json:"exploration_goals"`
	SalienceMap      map[string]float64       `json:"salience_map"`
	TopicClusters    map[string][]string      `json:"topic_clusters"`
}

// EngagementDoc mirrors TopicEngagement with Unix-seconds timestamps.
type EngagementDoc struct {
	Topic            string   `json:"topic"`
	FirstEncounter   float64  `json:"first_encounter"`
	LastEncounter    float64  `json:"last_encounter"`
	EncounterCount   int      `json:"encounter_count"`
	TotalDuration    float64  `json:"total_duration"`
	EmotionalValence float64  `json:"emotional_valence"`
	CuriosityLevel   float64  `json:"curiosity_level"`
	LearningProgress float64  `json:"learning_progress"`
	Satisfaction     float64  `json:"satisfaction"`
	RelatedTopics    []string `json:"related_topics"`
}

// GoalDoc mirrors ExplorationGoal with a Unix-seconds timestamp.
type GoalDoc struct {
	ID              string  `json:"id"`
	Topic           string  `json:"topic"`
	Created         float64 `json:"created"`
	Priority        float64 `json:"priority"`
	CuriosityDriver float64 `json:"curiosity_driver"`
	UtilityDriver   float64 `json:"utility_driver"`
	Progress        float64 `json:"progress"`
	TargetDepth     float64 `json:"target_depth"`
	Completed       bool    `json:"completed"`
}

// #endregion

// #region save

// Doc exports the tracker state as a Document.
func (t *Tracker) Doc() Document {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc := Document{
		TopicEngagements: make(map[string]EngagementDoc, len(t.engagements)),
		ExplorationGoals: make([]GoalDoc, 0, len(t.goals)),
		SalienceMap:      make(map[string]float64, len(t.salience)),
		TopicClusters:    make(map[string][]string, len(t.clusters)),
	}

	for topic, eng := range t.engagements {
		related := make([]string, 0, len(eng.RelatedTopics))
		for r := range eng.RelatedTopics {
			related = append(related, r)
		}
		sort.Strings(related)
		doc.TopicEngagements[topic] = EngagementDoc{
			Topic:            eng.Topic,
			FirstEncounter:   unixSeconds(eng.FirstEncounter),
			LastEncounter:    unixSeconds(eng.LastEncounter),
			EncounterCount:   eng.EncounterCount,
			TotalDuration:    eng.TotalDuration.Seconds(),
			EmotionalValence: eng.EmotionalValence,
			CuriosityLevel:   eng.CuriosityLevel,
			LearningProgress: eng.LearningProgress,
			Satisfaction:     eng.Satisfaction,
			RelatedTopics:    related,
		}
	}

	for _, g := range t.goals {
		doc.ExplorationGoals = append(doc.ExplorationGoals, GoalDoc{
			ID:              g.ID,
			Topic:           g.Topic,
			Created:         unixSeconds(g.Created),
			Priority:        g.Priority,
			CuriosityDriver: g.CuriosityDriver,
			UtilityDriver:   g.UtilityDriver,
			Progress:        g.Progress,
			TargetDepth:     g.TargetDepth,
			Completed:       g.Completed,
		})
	}

	for topic, s := range t.salience {
		doc.SalienceMap[topic] = s
	}

	for id, members := range t.clusters {
		list := make([]string, 0, len(members))
		for m := range members {
			list = append(list, m)
		}
		sort.Strings(list)
		doc.TopicClusters[id] = list
	}

	return doc
}

// SaveFile writes the tracker document to a JSON file.
func (t *Tracker) SaveFile(path string) error {
	data, err := json.MarshalIndent(t.Doc(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal interest doc: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// #endregion

// #region load

// FromDoc reconstructs a tracker from a Document. Salience and the
// active set are derived state, so they are recomputed from the raw
// engagements rather than trusted from the document.
func FromDoc(doc Document, cfg Config) *Tracker {
	t := NewTracker(cfg)
	now := time.Now()

	for topic, ed := range doc.TopicEngagements {
		related := make(map[string]bool, len(ed.RelatedTopics))
		for _, r := range ed.RelatedTopics {
			related[r] = true
		}
		t.engagements[topic] = &TopicEngagement{
			Topic:            ed.Topic,
			FirstEncounter:   timeFromUnix(ed.FirstEncounter),
			LastEncounter:    timeFromUnix(ed.LastEncounter),
			EncounterCount:   ed.EncounterCount,
			TotalDuration:    time.Duration(ed.TotalDuration * float64(time.Second)),
			EmotionalValence: ed.EmotionalValence,
			CuriosityLevel:   ed.CuriosityLevel,
			LearningProgress: ed.LearningProgress,
			Satisfaction:     ed.Satisfaction,
			RelatedTopics:    related,
		}
	}

	for _, gd := range doc.ExplorationGoals {
		t.goals = append(t.goals, &ExplorationGoal{
			ID:              gd.ID,
			Topic:           gd.Topic,
			Created:         timeFromUnix(gd.Created),
			Priority:        gd.Priority,
			CuriosityDriver: gd.CuriosityDriver,
			UtilityDriver:   gd.UtilityDriver,
			Progress:        gd.Progress,
			TargetDepth:     gd.TargetDepth,
			Completed:       gd.Completed,
		})
	}

	for id, list := range doc.TopicClusters {
		members := make(map[string]bool, len(list))
		for _, m := range list {
			members[m] = true
		}
		t.clusters[id] = members

		var n int
		if _, err := fmt.Sscanf(id, "cluster_%d", &n); err == nil && n >= t.nextCluster {
			t.nextCluster = n + 1
		}
	}

	for topic := range t.engagements {
		t.refreshSalience(topic, now)
	}
	t.refreshActive()
	return t
}

// LoadFile reads a tracker document from a JSON file.
func LoadFile(path string, cfg Config) (*Tracker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal interest doc: %w", err)
	}
	return FromDoc(doc, cfg), nil
}

// #endregion

// #region time

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(sec float64) time.Time {
	return time.Unix(0, int64(sec*1e9))
}

// #endregion
