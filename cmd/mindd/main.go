package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/o9nn/ecco9/internal/config"
	"github.com/o9nn/ecco9/internal/fatigue"
	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/journal"
	"github.com/o9nn/ecco9/internal/orchestrator"
	"github.com/o9nn/ecco9/internal/provider"
	"github.com/o9nn/ecco9/internal/store"
	"github.com/o9nn/ecco9/internal/thought"
	"github.com/o9nn/ecco9/internal/topicgraph"
	"github.com/o9nn/ecco9/internal/topics"
	"github.com/o9nn/ecco9/internal/wisdom"
)

// relatedKeywordCap bounds how many keywords per thought feed the graph.
const relatedKeywordCap = 3

// #region main

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	graph, err := topicgraph.NewGraph(st.DB())
	if err != nil {
		log.Fatalf("failed to init topic graph: %v", err)
	}
	jr, err := journal.NewJournal(st.DB())
	if err != nil {
		log.Fatalf("failed to init journal: %v", err)
	}

	tracker := restoreInterest(st)
	agg := restoreWisdom(st)
	model := fatigue.New(fatigue.DefaultConfig())

	// Thought provider is optional; without it the engine stays on
	// templates.
	var prov thought.Provider
	providerLabel := "templates"
	if cfg.ProviderAddr != "" {
		client, err := provider.NewClient(cfg.ProviderAddr)
		if err != nil {
			log.Fatalf("failed to connect to provider at %s: %v", cfg.ProviderAddr, err)
		}
		defer client.Close()
		prov = client
		providerLabel = cfg.ProviderAddr
	}

	thoughtCfg := thought.DefaultConfig()
	thoughtCfg.IntervalMin = cfg.ThoughtIntervalMin
	thoughtCfg.IntervalMax = cfg.ThoughtIntervalMax
	engine := thought.New(thoughtCfg, prov)

	ocfg := orchestrator.DefaultConfig()
	ocfg.TickInterval = cfg.TickInterval
	ocfg.RestTickInterval = cfg.RestTickInterval
	ocfg.HistoryLimit = cfg.HistoryLimit
	orch := orchestrator.New(ocfg, orchestrator.Capabilities{
		Fatigue:  model,
		Interest: tracker,
		Wisdom:   agg,
		Journal:  jr,
	})

	// Maintenance crons: interest and relation decay plus periodic
	// snapshot persistence.
	c := cron.New()
	if _, err := c.AddFunc(cfg.DecaySchedule, func() {
		tracker.DecayInterests()
		deleted, err := graph.DecayAll(cfg.RelationHalfLife)
		if err != nil {
			log.Printf("[MINDD] relation decay failed: %v", err)
			return
		}
		log.Printf("[MINDD] decay pass done, %d relations dropped", deleted)
	}); err != nil {
		log.Fatalf("schedule decay (%q): %v", cfg.DecaySchedule, err)
	}
	if _, err := c.AddFunc(cfg.PersistSchedule, func() {
		if err := persistState(st, tracker, agg); err != nil {
			log.Printf("[MINDD] persist failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule persist (%q): %v", cfg.PersistSchedule, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		orch.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		engine.Run(ctx, model.State, emitFunc(st, graph, tracker, engine))
	}()
	c.Start()

	fmt.Println("ecco9 mind daemon ready.")
	fmt.Printf("  DB: %s | Provider: %s\n", cfg.DBPath, providerLabel)
	fmt.Printf("  Tick: %s (rest %s) | Thought interval: [%s, %s]\n",
		cfg.TickInterval, cfg.RestTickInterval, cfg.ThoughtIntervalMin, cfg.ThoughtIntervalMax)

	<-ctx.Done()
	log.Println("[MINDD] shutting down")
	wg.Wait()
	<-c.Stop().Done()

	if err := persistState(st, tracker, agg); err != nil {
		log.Printf("[MINDD] final persist failed: %v", err)
	} else {
		log.Println("[MINDD] state persisted")
	}
}

// #endregion main

// #region restore

// restoreInterest rebuilds the tracker from the persisted document, or
// starts fresh when none exists.
func restoreInterest(st *store.Store) *interest.Tracker {
	doc, _, err := st.StateDoc(store.DocInterest)
	if errors.Is(err, sql.ErrNoRows) {
		log.Println("[MINDD] no interest document, starting fresh")
		return interest.NewTracker(interest.DefaultConfig())
	}
	if err != nil {
		log.Fatalf("read interest document: %v", err)
	}
	var idoc interest.Document
	if err := json.Unmarshal(doc, &idoc); err != nil {
		log.Fatalf("parse interest document: %v", err)
	}
	tracker := interest.FromDoc(idoc, interest.DefaultConfig())
	log.Printf("[MINDD] restored interest tracker: %d topics", tracker.Summary().TotalTopics)
	return tracker
}

// restoreWisdom rebuilds the aggregator from the persisted document, or
// starts fresh when none exists.
func restoreWisdom(st *store.Store) *wisdom.Aggregator {
	doc, _, err := st.StateDoc(store.DocWisdom)
	if errors.Is(err, sql.ErrNoRows) {
		log.Println("[MINDD] no wisdom document, starting fresh")
		return wisdom.New(wisdom.DefaultConfig())
	}
	if err != nil {
		log.Fatalf("read wisdom document: %v", err)
	}
	var wdoc wisdom.Document
	if err := json.Unmarshal(doc, &wdoc); err != nil {
		log.Fatalf("parse wisdom document: %v", err)
	}
	agg := wisdom.FromDoc(wdoc, wisdom.DefaultConfig())
	log.Printf("[MINDD] restored wisdom aggregator: composite=%.4f", agg.Scores().Composite)
	return agg
}

// #endregion restore

// #region loop-glue

// emitFunc builds the thought-emit callback: save the thought, link its
// keywords to the focus topic in the graph, and refresh the engine's
// focus and goals from the tracker.
func emitFunc(st *store.Store, graph *topicgraph.Graph, tracker *interest.Tracker, engine *thought.Engine) func(thought.Thought) error {
	return func(th thought.Thought) error {
		if err := st.SaveThought(th); err != nil {
			return err
		}

		if th.TriggeredBy != "" {
			kws := topics.Keywords(th.Content)
			if len(kws) > relatedKeywordCap {
				kws = kws[:relatedKeywordCap]
			}
			for _, kw := range kws {
				if kw == th.TriggeredBy {
					continue
				}
				if err := graph.Relate(th.TriggeredBy, kw, 0.05); err != nil {
					log.Printf("[MINDD] relate %s -> %s failed: %v", th.TriggeredBy, kw, err)
				}
			}
		}

		if focus, ok := tracker.TopFocus(); ok {
			engine.SetFocus(focus)
		}
		open := tracker.ExplorationPriorities(3)
		goals := make([]string, len(open))
		for i, g := range open {
			goals[i] = g.Topic
		}
		engine.SetGoals(goals)
		return nil
	}
}

// #endregion loop-glue

// #region persist

// persistState writes both tracker documents into state_docs and syncs
// the goals table from the tracker.
func persistState(st *store.Store, tracker *interest.Tracker, agg *wisdom.Aggregator) error {
	idoc := tracker.Doc()
	data, err := json.Marshal(idoc)
	if err != nil {
		return fmt.Errorf("marshal interest document: %w", err)
	}
	if err := st.SaveStateDoc(store.DocInterest, data); err != nil {
		return err
	}
	for _, gd := range idoc.ExplorationGoals {
		g := interest.ExplorationGoal{
			ID:              gd.ID,
			Topic:           gd.Topic,
			Created:         time.Unix(int64(gd.Created), 0),
			Priority:        gd.Priority,
			CuriosityDriver: gd.CuriosityDriver,
			UtilityDriver:   gd.UtilityDriver,
			Progress:        gd.Progress,
			TargetDepth:     gd.TargetDepth,
			Completed:       gd.Completed,
		}
		if err := st.SaveGoal(g); err != nil {
			return err
		}
	}

	data, err = json.Marshal(agg.Doc())
	if err != nil {
		return fmt.Errorf("marshal wisdom document: %w", err)
	}
	return st.SaveStateDoc(store.DocWisdom, data)
}

// #endregion persist
