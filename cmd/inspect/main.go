package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/journal"
	"github.com/o9nn/ecco9/internal/store"
	"github.com/o9nn/ecco9/internal/wisdom"
)

// #region main

func main() {
	dbPath := flag.String("db", envOr("ECCO9_DB", "ecco9.db"), "path to ecco9.db")
	last := flag.Int("last", 20, "show N most recent rows")
	all := flag.Bool("all", false, "include completed goals")
	jsonOut := flag.Bool("json", false, "output as JSON instead of tables")
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	var runErr error
	switch flag.Arg(0) {
	case "status":
		runErr = runStatus(st, *jsonOut)
	case "topics":
		runErr = runTopics(st, *jsonOut)
	case "goals":
		runErr = runGoals(st, *all, *jsonOut)
	case "thoughts":
		runErr = runThoughts(st, *last, *jsonOut)
	case "transitions":
		runErr = runTransitions(st, *last, *jsonOut)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", flag.Arg(0))
		printUsage()
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: inspect [--db path] [--last N] [--all] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status       counts, document ages and the latest tick")
	fmt.Fprintln(os.Stderr, "  topics       tracked topics with salience and curiosity")
	fmt.Fprintln(os.Stderr, "  goals        exploration goals (--all includes completed)")
	fmt.Fprintln(os.Stderr, "  thoughts     recent thought stream entries")
	fmt.Fprintln(os.Stderr, "  transitions  recent consciousness transitions")
}

// #endregion main

// #region status

type statusOutput struct {
	Thoughts       int64   `json:"thoughts"`
	OpenGoals      int     `json:"open_goals"`
	CompletedGoals int     `json:"completed_goals"`
	Encounters     int64   `json:"encounters"`
	InterestAge    string  `json:"interest_doc_updated,omitempty"`
	WisdomAge      string  `json:"wisdom_doc_updated,omitempty"`
	Composite      float64 `json:"composite_wisdom"`
	LastTick       *int64  `json:"last_tick,omitempty"`
	LastState      string  `json:"last_state,omitempty"`
}

func runStatus(st *store.Store, jsonOut bool) error {
	var out statusOutput

	thoughts, err := st.CountThoughts()
	if err != nil {
		return err
	}
	out.Thoughts = thoughts

	goals, err := st.Goals(true)
	if err != nil {
		return err
	}
	for _, g := range goals {
		if g.Completed {
			out.CompletedGoals++
		} else {
			out.OpenGoals++
		}
	}

	if err := st.DB().QueryRow(`SELECT COUNT(*) FROM encounters`).Scan(&out.Encounters); err != nil {
		return fmt.Errorf("count encounters: %w", err)
	}

	if _, at, err := st.StateDoc(store.DocInterest); err == nil {
		out.InterestAge = at.Format(time.RFC3339)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if doc, at, err := st.StateDoc(store.DocWisdom); err == nil {
		out.WisdomAge = at.Format(time.RFC3339)
		var wdoc wisdom.Document
		if err := json.Unmarshal(doc, &wdoc); err == nil {
			out.Composite = wdoc.CurrentMetrics.WisdomScores.Composite
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	jr, err := journal.NewJournal(st.DB())
	if err != nil {
		return err
	}
	ticks, err := jr.RecentTicks(1)
	if err != nil {
		return err
	}
	if len(ticks) > 0 {
		tick := ticks[0].Tick
		out.LastTick = &tick
		out.LastState = string(ticks[0].State)
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Thoughts:         %d\n", out.Thoughts)
	fmt.Printf("Goals:            %d open, %d completed\n", out.OpenGoals, out.CompletedGoals)
	fmt.Printf("Encounters:       %d\n", out.Encounters)
	fmt.Printf("Composite wisdom: %.4f\n", out.Composite)
	if out.LastTick != nil {
		fmt.Printf("Last tick:        %d (%s)\n", *out.LastTick, out.LastState)
	} else {
		fmt.Printf("Last tick:        none\n")
	}
	if out.InterestAge != "" {
		fmt.Printf("Interest doc:     %s\n", out.InterestAge)
	}
	if out.WisdomAge != "" {
		fmt.Printf("Wisdom doc:       %s\n", out.WisdomAge)
	}
	return nil
}

// #endregion status

// #region topics

type topicRow struct {
	Topic      string  `json:"topic"`
	Salience   float64 `json:"salience"`
	Curiosity  float64 `json:"curiosity"`
	Progress   float64 `json:"progress"`
	Encounters int     `json:"encounters"`
}

func runTopics(st *store.Store, jsonOut bool) error {
	doc, _, err := st.StateDoc(store.DocInterest)
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Fprintln(os.Stderr, "no interest document found")
		return nil
	}
	if err != nil {
		return err
	}

	var idoc interest.Document
	if err := json.Unmarshal(doc, &idoc); err != nil {
		return fmt.Errorf("parse interest document: %w", err)
	}

	rows := make([]topicRow, 0, len(idoc.TopicEngagements))
	for topic, eng := range idoc.TopicEngagements {
		rows = append(rows, topicRow{
			Topic:      topic,
			Salience:   idoc.SalienceMap[topic],
			Curiosity:  eng.CuriosityLevel,
			Progress:   eng.LearningProgress,
			Encounters: eng.EncounterCount,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Salience != rows[j].Salience {
			return rows[i].Salience > rows[j].Salience
		}
		return rows[i].Topic < rows[j].Topic
	})

	if jsonOut {
		return printJSON(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOPIC\tSALIENCE\tCURIOSITY\tPROGRESS\tENCOUNTERS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%d\n",
			r.Topic, r.Salience, r.Curiosity, r.Progress, r.Encounters)
	}
	return w.Flush()
}

// #endregion topics

// #region goals

type goalRow struct {
	ID        string  `json:"id"`
	Topic     string  `json:"topic"`
	Priority  float64 `json:"priority"`
	Progress  float64 `json:"progress"`
	Target    float64 `json:"target_depth"`
	Completed bool    `json:"completed"`
	Created   string  `json:"created"`
}

func runGoals(st *store.Store, all, jsonOut bool) error {
	goals, err := st.Goals(all)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Fprintln(os.Stderr, "no goals found")
		return nil
	}

	rows := make([]goalRow, len(goals))
	for i, g := range goals {
		rows[i] = goalRow{
			ID:        shortID(g.ID),
			Topic:     g.Topic,
			Priority:  g.Priority,
			Progress:  g.Progress,
			Target:    g.TargetDepth,
			Completed: g.Completed,
			Created:   g.Created.Format("2006-01-02 15:04"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOPIC\tPRIORITY\tPROGRESS\tTARGET\tDONE\tCREATED")
	for _, r := range rows {
		done := ""
		if r.Completed {
			done = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.2f\t%.2f\t%s\t%s\n",
			r.ID, r.Topic, r.Priority, r.Progress, r.Target, done, r.Created)
	}
	return w.Flush()
}

// #endregion goals

// #region thoughts

type thoughtRow struct {
	At      string  `json:"at"`
	Type    string  `json:"type"`
	Depth   float64 `json:"depth"`
	Trigger string  `json:"trigger,omitempty"`
	Content string  `json:"content"`
}

func runThoughts(st *store.Store, last int, jsonOut bool) error {
	thoughts, err := st.RecentThoughts(last)
	if err != nil {
		return err
	}
	if len(thoughts) == 0 {
		fmt.Fprintln(os.Stderr, "no thoughts found")
		return nil
	}

	rows := make([]thoughtRow, len(thoughts))
	for i, th := range thoughts {
		rows[i] = thoughtRow{
			At:      th.At.Format("15:04:05"),
			Type:    string(th.Type),
			Depth:   th.Depth,
			Trigger: th.TriggeredBy,
			Content: truncate(th.Content, 60),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tDEPTH\tTRIGGER\tCONTENT")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", r.At, r.Type, r.Depth, r.Trigger, r.Content)
	}
	return w.Flush()
}

// #endregion thoughts

// #region transitions

type transitionRow struct {
	At       string  `json:"at"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Fatigue  float64 `json:"fatigue"`
	Pressure float64 `json:"pressure"`
}

func runTransitions(st *store.Store, last int, jsonOut bool) error {
	jr, err := journal.NewJournal(st.DB())
	if err != nil {
		return err
	}
	transitions, err := jr.RecentTransitions(last)
	if err != nil {
		return err
	}
	if len(transitions) == 0 {
		fmt.Fprintln(os.Stderr, "no transitions found")
		return nil
	}

	rows := make([]transitionRow, len(transitions))
	for i, tr := range transitions {
		rows[i] = transitionRow{
			At:       tr.At.Format("2006-01-02 15:04:05"),
			From:     string(tr.From),
			To:       string(tr.To),
			Fatigue:  tr.Fatigue,
			Pressure: tr.Pressure,
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFROM\tTO\tFATIGUE\tPRESSURE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\n", r.At, r.From, r.To, r.Fatigue, r.Pressure)
	}
	return w.Flush()
}

// #endregion transitions

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion output
