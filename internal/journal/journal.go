package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/o9nn/ecco9/internal/fatigue"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS transition_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    from_state  TEXT NOT NULL,
    to_state    TEXT NOT NULL,
    fatigue     REAL NOT NULL,
    pressure    REAL NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tick_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    tick        INTEGER NOT NULL,
    state       TEXT NOT NULL,
    composite   REAL NOT NULL,
    created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region types

// TransitionRecord is one persisted consciousness state change.
type TransitionRecord struct {
	ID       int64
	From     fatigue.State
	To       fatigue.State
	Fatigue  float64
	Pressure float64
	At       time.Time
}

// TickRecord is one persisted orchestrator cycle summary.
type TickRecord struct {
	ID        int64
	Tick      int64
	State     fatigue.State
	Composite float64
	At        time.Time
}

// Journal is the append-only audit trail for state changes and cycle
// summaries.
type Journal struct {
	db *sql.DB
}

// #endregion types

// #region constructor

// NewJournal creates tables and returns a Journal.
func NewJournal(db *sql.DB) (*Journal, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// #endregion constructor

// #region transitions

// LogTransition writes one state change to the transition log.
func (j *Journal) LogTransition(t fatigue.Transition) error {
	at := t.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO transition_log (from_state, to_state, fatigue, pressure, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(t.From), string(t.To), t.Fatigue, t.Pressure,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log transition: %w", err)
	}
	return nil
}

// RecentTransitions returns the newest state changes, newest first.
func (j *Journal) RecentTransitions(limit int) ([]TransitionRecord, error) {
	rows, err := j.db.Query(
		`SELECT id, from_state, to_state, fatigue, pressure, created_at
		 FROM transition_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var out []TransitionRecord
	for rows.Next() {
		var r TransitionRecord
		var from, to, createdStr string
		if err := rows.Scan(&r.ID, &from, &to, &r.Fatigue, &r.Pressure, &createdStr); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		r.From = fatigue.State(from)
		r.To = fatigue.State(to)
		r.At, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion transitions

// #region ticks

// LogTick writes one cycle summary to the tick log.
func (j *Journal) LogTick(tick int64, state fatigue.State, composite float64) error {
	_, err := j.db.Exec(
		`INSERT INTO tick_log (tick, state, composite, created_at)
		 VALUES (?, ?, ?, ?)`,
		tick, string(state), composite,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log tick: %w", err)
	}
	return nil
}

// RecentTicks returns the newest cycle summaries, newest first.
func (j *Journal) RecentTicks(limit int) ([]TickRecord, error) {
	rows, err := j.db.Query(
		`SELECT id, tick, state, composite, created_at
		 FROM tick_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ticks: %w", err)
	}
	defer rows.Close()

	var out []TickRecord
	for rows.Next() {
		var r TickRecord
		var state, createdStr string
		if err := rows.Scan(&r.ID, &r.Tick, &state, &r.Composite, &createdStr); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		r.State = fatigue.State(state)
		r.At, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion ticks
