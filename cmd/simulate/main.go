package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/replay"
	"github.com/o9nn/ecco9/internal/store"
)

// Persisted salience drifts from a pure replay once interest decay has
// run, so the DB comparison uses a loose tolerance.
const driftTolerance = 0.1

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	dbPath := flag.String("db", "", "path to ecco9.db (DB mode)")
	steps := flag.Bool("steps", false, "print the per-observation table")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: simulate --fixture path/to/fixture.json [--steps]")
		fmt.Fprintln(os.Stderr, "       simulate --db path/to/ecco9.db [--steps]")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *steps)
	} else {
		exitCode = runDBMode(*dbPath, *steps)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string, steps bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results, sum, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	if f.Description != "" {
		fmt.Printf("Fixture: %s\n\n", f.Description)
	}
	if steps {
		printSteps(results)
	}
	printSummary(sum)

	mismatches := replay.Verify(sum, f.Expect)
	if len(mismatches) > 0 {
		fmt.Println("\nExpectation mismatches:")
		for _, m := range mismatches {
			fmt.Printf("  DIFF  %s\n", m)
		}
		return 1
	}
	fmt.Println("\nAll expectations met.")
	return 0
}

// #endregion fixture-mode

// #region db-mode

// runDBMode replays the store's encounter log through fresh components
// and compares the resulting salience against the persisted tracker
// document. Divergence beyond the tolerance means the recorded state
// no longer matches what the current tracker math would produce.
func runDBMode(dbPath string, steps bool) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	rows, err := st.DB().Query(
		`SELECT topic, duration_seconds, valence, learning, satisfaction
		 FROM encounters ORDER BY id ASC`,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query encounters: %v\n", err)
		return 2
	}
	defer rows.Close()

	var obs []replay.FixtureObservation
	for rows.Next() {
		var enc replay.FixtureEncounter
		var learning int
		if err := rows.Scan(&enc.Topic, &enc.DurationSec, &enc.Valence, &learning, &enc.Satisfaction); err != nil {
			fmt.Fprintf(os.Stderr, "scan encounter: %v\n", err)
			return 2
		}
		enc.Learning = learning != 0
		obs = append(obs, replay.FixtureObservation{Encounter: &enc})
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "iterate encounters: %v\n", err)
		return 2
	}
	if len(obs) == 0 {
		fmt.Fprintln(os.Stderr, "no encounters recorded")
		return 2
	}

	fix := &replay.Fixture{
		Description:  fmt.Sprintf("encounter log replay (%d encounters)", len(obs)),
		Observations: obs,
	}
	results, sum, err := replay.Replay(fix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	fmt.Printf("Fixture: %s\n\n", fix.Description)
	if steps {
		printSteps(results)
	}
	printSummary(sum)

	doc, _, err := st.StateDoc(store.DocInterest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fmt.Println("\nNo persisted tracker document; nothing to compare.")
			return 0
		}
		fmt.Fprintf(os.Stderr, "read tracker document: %v\n", err)
		return 2
	}

	var persisted interest.Document
	if err := json.Unmarshal(doc, &persisted); err != nil {
		fmt.Fprintf(os.Stderr, "parse tracker document: %v\n", err)
		return 2
	}
	return printDrift(sum, persisted.SalienceMap)
}

// printDrift outputs a replayed-vs-persisted salience table and returns
// the exit code.
func printDrift(sum replay.Summary, persisted map[string]float64) int {
	topics := make([]string, 0, len(persisted))
	for topic := range persisted {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	fmt.Printf("\n%-20s| %-10s| %-10s| %s\n", "Topic", "Persisted", "Replayed", "Match")
	fmt.Printf("%-20s+%-11s+%-11s+%s\n",
		"--------------------", "-----------", "-----------", "------")

	diverge := 0
	for _, topic := range topics {
		want := persisted[topic]
		got := sum.Salience[topic]
		match := "OK"
		if math.Abs(got-want) > driftTolerance {
			match = "DIFF"
			diverge++
		}
		fmt.Printf("%-20s| %10.4f| %10.4f| %s\n", topic, want, got, match)
	}

	fmt.Printf("\nSummary: %d topics, %d diverge\n", len(topics), diverge)
	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion db-mode

// #region output

func printSteps(results []replay.StepResult) {
	fmt.Printf("%-5s| %-14s| %-20s| %-9s| %-10s| %s\n",
		"Step", "Kind", "Topic", "Salience", "Composite", "State")
	fmt.Printf("%-5s+%-15s+%-21s+%-10s+%-11s+%s\n",
		"-----", "---------------", "---------------------", "----------", "-----------", "----------")
	for _, r := range results {
		fmt.Printf("%-5d| %-14s| %-20s| %9.4f| %10.4f| %s\n",
			r.Index, r.Kind, r.Topic, r.Salience, r.Composite, r.State)
	}
	fmt.Println()
}

func printSummary(sum replay.Summary) {
	fmt.Printf("Steps:            %d\n", sum.Steps)
	fmt.Printf("Topics:           %d\n", sum.Topics)
	fmt.Printf("Active interests: %v\n", sum.ActiveInterests)
	fmt.Printf("Goals:            %d active, %d completed\n", sum.ActiveGoals, sum.CompletedGoals)
	fmt.Printf("Composite wisdom: %.4f\n", sum.Composite)
	fmt.Printf("State:            %s\n", sum.State)
	if sum.Bounds.Passed {
		fmt.Printf("Bounds:           ok (%d metrics)\n", len(sum.Bounds.Metrics))
	} else {
		fmt.Printf("Bounds:           FAILED (%s)\n", sum.Bounds.Reason)
	}
}

// #endregion output
