package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/o9nn/ecco9/internal/replay"
	"github.com/o9nn/ecco9/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to ecco9.db")
	outDir := flag.String("out", "", "directory for exported state documents")
	fixturePath := flag.String("fixture", "", "write a replay fixture built from the encounter log")
	last := flag.Int("last", 20, "number of most recent encounters for the fixture")
	flag.Parse()

	if *dbPath == "" || (*outDir == "" && *fixturePath == "") {
		fmt.Fprintln(os.Stderr, "usage: export --db path/to/ecco9.db --out dir")
		fmt.Fprintln(os.Stderr, "       export --db path/to/ecco9.db --fixture path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *outDir, *fixturePath, *last); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, outDir, fixturePath string, last int) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	if outDir != "" {
		if err := exportDocs(st, outDir); err != nil {
			return err
		}
	}
	if fixturePath != "" {
		if err := exportFixture(st, fixturePath, last); err != nil {
			return err
		}
	}
	return nil
}

// #endregion main

// #region docs

// exportDocs writes the persisted tracker documents out as pretty-printed
// JSON files, one per state-doc key.
func exportDocs(st *store.Store, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	for _, key := range []string{store.DocInterest, store.DocWisdom} {
		doc, updatedAt, err := st.StateDoc(key)
		if errors.Is(err, sql.ErrNoRows) {
			fmt.Printf("%s: no document, skipped\n", key)
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s document: %w", key, err)
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, doc, "", "  "); err != nil {
			return fmt.Errorf("format %s document: %w", key, err)
		}
		buf.WriteByte('\n')

		path := filepath.Join(outDir, key+".json")
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s (%d bytes, updated %s)\n", path, buf.Len(), updatedAt.Format(time.RFC3339))
	}
	return nil
}

// #endregion docs

// #region fixture

// exportFixture builds a replay fixture from the last N encounters and
// captures the expectations from a fresh replay of that sequence, so the
// exported fixture passes against the current tracker math by
// construction.
func exportFixture(st *store.Store, outPath string, last int) error {
	// DESC then reverse for chronological order
	rows, err := st.DB().Query(
		`SELECT topic, duration_seconds, valence, learning, satisfaction FROM (
			SELECT id, topic, duration_seconds, valence, learning, satisfaction FROM encounters
			ORDER BY id DESC LIMIT ?
		) sub ORDER BY id ASC`, last,
	)
	if err != nil {
		return fmt.Errorf("query encounters: %w", err)
	}
	defer rows.Close()

	var obs []replay.FixtureObservation
	for rows.Next() {
		var enc replay.FixtureEncounter
		var learning int
		if err := rows.Scan(&enc.Topic, &enc.DurationSec, &enc.Valence, &learning, &enc.Satisfaction); err != nil {
			return fmt.Errorf("scan encounter: %w", err)
		}
		enc.Learning = learning != 0
		obs = append(obs, replay.FixtureObservation{Encounter: &enc})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate encounters: %w", err)
	}
	if len(obs) == 0 {
		return fmt.Errorf("no encounters recorded in last %d rows", last)
	}

	fix := replay.Fixture{
		Description:  fmt.Sprintf("Encounter log export: last %d encounters", len(obs)),
		Observations: obs,
	}

	_, sum, err := replay.Replay(&fix)
	if err != nil {
		return fmt.Errorf("replay exported sequence: %w", err)
	}
	composite := sum.Composite
	fix.Expect = replay.FixtureExpect{
		Salience:        sum.Salience,
		ActiveInterests: sum.ActiveInterests,
		Composite:       &composite,
		State:           string(sum.State),
		Tolerance:       0.01,
	}

	data, err := json.MarshalIndent(fix, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d observations)\n", outPath, len(data), len(fix.Observations))
	return nil
}

// #endregion fixture
