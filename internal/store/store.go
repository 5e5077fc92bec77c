package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/o9nn/ecco9/internal/interest"
	"github.com/o9nn/ecco9/internal/thought"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS thoughts (
	id            TEXT PRIMARY KEY,
	thought_type  TEXT NOT NULL,
	content       TEXT NOT NULL,
	tone          REAL NOT NULL,
	depth         REAL NOT NULL,
	triggered_by  TEXT,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_thoughts_created ON thoughts(created_at);

CREATE TABLE IF NOT EXISTS goals (
	id               TEXT PRIMARY KEY,
	topic            TEXT NOT NULL,
	priority         REAL NOT NULL,
	curiosity_driver REAL NOT NULL,
	utility_driver   REAL NOT NULL,
	progress         REAL NOT NULL,
	target_depth     REAL NOT NULL,
	completed        INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS encounters (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	topic            TEXT NOT NULL,
	duration_seconds REAL NOT NULL,
	valence          REAL NOT NULL,
	learning         INTEGER NOT NULL,
	satisfaction     REAL NOT NULL,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_encounters_topic ON encounters(topic);

CREATE TABLE IF NOT EXISTS state_docs (
	key        TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// #endregion schema

// State-doc keys used by the daemon.
const (
	DocInterest = "interest"
	DocWisdom   = "wisdom"
)

// #region store-struct

// Store manages durable cognitive records in SQLite.
type Store struct {
	db *sql.DB
}

// EncounterRow is one persisted topic encounter.
type EncounterRow struct {
	ID int64
	At time.Time
	interest.Encounter
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor

// DB returns the underlying *sql.DB for use by other packages
// (topicgraph, journal).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region thoughts

// SaveThought appends one thought. The in-memory generation context is
// not persisted.
func (s *Store) SaveThought(th thought.Thought) error {
	_, err := s.db.Exec(
		`INSERT INTO thoughts (id, thought_type, content, tone, depth, triggered_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		th.ID, string(th.Type), th.Content, th.Tone, th.Depth,
		nullIfEmpty(th.TriggeredBy), th.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert thought: %w", err)
	}
	return nil
}

// RecentThoughts returns the newest thoughts, newest first.
func (s *Store) RecentThoughts(limit int) ([]thought.Thought, error) {
	rows, err := s.db.Query(
		`SELECT id, thought_type, content, tone, depth, triggered_by, created_at
		 FROM thoughts ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list thoughts: %w", err)
	}
	defer rows.Close()

	var out []thought.Thought
	for rows.Next() {
		var th thought.Thought
		var typ string
		var triggeredBy sql.NullString
		var createdStr string
		if err := rows.Scan(&th.ID, &typ, &th.Content, &th.Tone, &th.Depth, &triggeredBy, &createdStr); err != nil {
			return nil, fmt.Errorf("scan thought: %w", err)
		}
		th.Type = thought.Type(typ)
		if triggeredBy.Valid {
			th.TriggeredBy = triggeredBy.String
		}
		th.At, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, th)
	}
	return out, rows.Err()
}

// CountThoughts returns the total persisted thought count.
func (s *Store) CountThoughts() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM thoughts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count thoughts: %w", err)
	}
	return n, nil
}

// #endregion thoughts

// #region goals

// SaveGoal inserts or updates one exploration goal; progress and
// completion mutate in place.
func (s *Store) SaveGoal(g interest.ExplorationGoal) error {
	_, err := s.db.Exec(
		`INSERT INTO goals (id, topic, priority, curiosity_driver, utility_driver, progress, target_depth, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   priority = excluded.priority,
		   progress = excluded.progress,
		   completed = excluded.completed`,
		g.ID, g.Topic, g.Priority, g.CuriosityDriver, g.UtilityDriver,
		g.Progress, g.TargetDepth, boolToInt(g.Completed),
		g.Created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}

// Goals returns stored goals, newest first. Completed goals are
// included only when asked for.
func (s *Store) Goals(includeCompleted bool) ([]interest.ExplorationGoal, error) {
	q := `SELECT id, topic, priority, curiosity_driver, utility_driver, progress, target_depth, completed, created_at
	      FROM goals`
	if !includeCompleted {
		q += ` WHERE completed = 0`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []interest.ExplorationGoal
	for rows.Next() {
		var g interest.ExplorationGoal
		var completed int
		var createdStr string
		if err := rows.Scan(&g.ID, &g.Topic, &g.Priority, &g.CuriosityDriver,
			&g.UtilityDriver, &g.Progress, &g.TargetDepth, &completed, &createdStr); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Completed = completed != 0
		g.Created, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, g)
	}
	return out, rows.Err()
}

// #endregion goals

// #region encounters

// AppendEncounter writes one observation to the append-only encounter
// log.
func (s *Store) AppendEncounter(enc interest.Encounter) error {
	_, err := s.db.Exec(
		`INSERT INTO encounters (topic, duration_seconds, valence, learning, satisfaction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		enc.Topic, enc.Duration.Seconds(), enc.Valence, boolToInt(enc.Learning),
		enc.Satisfaction, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert encounter: %w", err)
	}
	return nil
}

// RecentEncounters returns the newest encounters, newest first.
func (s *Store) RecentEncounters(limit int) ([]EncounterRow, error) {
	rows, err := s.db.Query(
		`SELECT id, topic, duration_seconds, valence, learning, satisfaction, created_at
		 FROM encounters ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	defer rows.Close()

	var out []EncounterRow
	for rows.Next() {
		var r EncounterRow
		var seconds float64
		var learning int
		var createdStr string
		if err := rows.Scan(&r.ID, &r.Topic, &seconds, &r.Valence, &learning, &r.Satisfaction, &createdStr); err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		r.Duration = time.Duration(seconds * float64(time.Second))
		r.Learning = learning != 0
		r.At, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion encounters

// #region state-docs

// SaveStateDoc upserts one component's JSON snapshot.
func (s *Store) SaveStateDoc(key string, doc []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO state_docs (key, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		key, string(doc), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert state doc %s: %w", key, err)
	}
	return nil
}

// StateDoc reads one component's JSON snapshot. A missing key surfaces
// as a wrapped sql.ErrNoRows.
func (s *Store) StateDoc(key string) ([]byte, time.Time, error) {
	var doc string
	var updatedStr string
	err := s.db.QueryRow(`SELECT doc, updated_at FROM state_docs WHERE key = ?`, key).
		Scan(&doc, &updatedStr)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get state doc %s: %w", key, err)
	}
	updated, _ := time.Parse(time.RFC3339Nano, updatedStr)
	return []byte(doc), updated, nil
}

// #endregion state-docs

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
