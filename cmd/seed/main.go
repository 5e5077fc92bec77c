package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/store"
	"github.com/o9nn/ecco9/internal/topicgraph"
	"github.com/o9nn/ecco9/internal/topics"
)

// #region seed-file

// seedTopic is one encounter to record for a topic.
type seedTopic struct {
	Topic        string  `json:"topic"`
	DurationSec  float64 `json:"duration_sec"`
	Valence      float64 `json:"valence"`
	Learning     bool    `json:"learning"`
	Satisfaction float64 `json:"satisfaction"`
}

// seedRelation links two topics in the tracker and the topic graph.
type seedRelation struct {
	Topic   string  `json:"topic"`
	Related string  `json:"related"`
	Weight  float64 `json:"weight"`
}

// seedFile is the JSON input format.
type seedFile struct {
	Topics    []seedTopic    `json:"topics"`
	Relations []seedRelation `json:"relations"`
}

// builtinSeed returns the stock starter set: three founding topics and
// the links between them.
func builtinSeed() seedFile {
	return seedFile{
		Topics: []seedTopic{
			{Topic: "cognitive_architecture", DurationSec: 300, Valence: 0.6, Learning: true, Satisfaction: 0.8},
			{Topic: "autonomous_systems", DurationSec: 450, Valence: 0.7, Learning: true, Satisfaction: 0.9},
			{Topic: "wisdom_cultivation", DurationSec: 200, Valence: 0.5, Learning: false, Satisfaction: 0.6},
		},
		Relations: []seedRelation{
			{Topic: "cognitive_architecture", Related: "autonomous_systems", Weight: 0.3},
			{Topic: "autonomous_systems", Related: "wisdom_cultivation", Weight: 0.3},
		},
	}
}

// #endregion seed-file

// #region main

func main() {
	dbPath := flag.String("db", envOr("ECCO9_DB", "ecco9.db"), "path to ecco9.db")
	filePath := flag.String("file", "", "seed JSON file (defaults to the built-in set)")
	flag.Parse()

	seed := builtinSeed()
	if *filePath != "" {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			log.Fatalf("read seed file: %v", err)
		}
		seed = seedFile{}
		if err := json.Unmarshal(data, &seed); err != nil {
			log.Fatalf("parse seed file: %v", err)
		}
	}

	fmt.Println("=== Interest Seed Tool ===")
	fmt.Printf("  DB: %s | Topics: %d | Relations: %d\n", *dbPath, len(seed.Topics), len(seed.Relations))

	st, err := store.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	graph, err := topicgraph.NewGraph(st.DB())
	if err != nil {
		log.Fatalf("failed to init topic graph: %v", err)
	}

	tracker := interest.NewTracker(interest.DefaultConfig())

	// Phase 1: encounters into the tracker and the encounter log
	fmt.Println("\n--- Phase 1: Topic Encounters ---")
	for _, t := range seed.Topics {
		topic := topics.Normalize(t.Topic)
		enc := interest.Encounter{
			Topic:        topic,
			Duration:     time.Duration(t.DurationSec * float64(time.Second)),
			Valence:      t.Valence,
			Learning:     t.Learning,
			Satisfaction: t.Satisfaction,
		}
		tracker.RecordEncounter(enc)
		if err := st.AppendEncounter(enc); err != nil {
			log.Fatalf("append encounter: %v", err)
		}
		fmt.Printf("  %s salience=%.2f\n", topic, tracker.Salience(topic))
	}

	// Phase 2: relations into the tracker and the topic graph
	fmt.Println("\n--- Phase 2: Relations ---")
	for _, r := range seed.Relations {
		a, b := topics.Normalize(r.Topic), topics.Normalize(r.Related)
		tracker.AddRelation(a, b)
		weight := r.Weight
		if weight <= 0 {
			weight = 0.3
		}
		if err := graph.Relate(a, b, weight); err != nil {
			log.Fatalf("relate %s <-> %s: %v", a, b, err)
		}
		fmt.Printf("  %s <-> %s weight=%.2f\n", a, b, weight)
	}

	// Phase 3: one starter goal plus the persisted tracker document
	fmt.Println("\n--- Phase 3: Goal and Persistence ---")
	if goal := tracker.GenerateGoal(""); goal != nil {
		if err := st.SaveGoal(*goal); err != nil {
			log.Fatalf("save goal: %v", err)
		}
		fmt.Printf("  goal %s priority=%.3f\n", goal.Topic, goal.Priority)
	}
	doc, err := json.Marshal(tracker.Doc())
	if err != nil {
		log.Fatalf("marshal tracker document: %v", err)
	}
	if err := st.SaveStateDoc(store.DocInterest, doc); err != nil {
		log.Fatalf("persist tracker document: %v", err)
	}

	sum := tracker.Summary()
	fmt.Printf("\n=== Seed Complete ===\n")
	fmt.Printf("  Topics: %d\n", sum.TotalTopics)
	fmt.Printf("  Active interests: %v\n", sum.ActiveInterests)
	fmt.Printf("  Open goals: %d\n", sum.ActiveGoals)
}

// #endregion main

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
