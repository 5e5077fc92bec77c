package topicgraph

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS topic_relations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    source      TEXT NOT NULL,
    target      TEXT NOT NULL,
    weight      REAL NOT NULL DEFAULT 0.1,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL,
    UNIQUE(source, target)
);
CREATE INDEX IF NOT EXISTS idx_relations_source ON topic_relations(source);
CREATE INDEX IF NOT EXISTS idx_relations_target ON topic_relations(target);
`

// #endregion schema

// #region types

// Relation is a weighted link from one topic to another. Relations are
// stored symmetrically: every link exists in both directions.
type Relation struct {
	ID        int64
	Source    string
	Target    string
	Weight    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalkResult holds topics reached from a walk entry point, in visit
// order, with cumulative scores.
type WalkResult struct {
	Topics []string
	Scores []float64
}

// Graph manages the topic_relations table.
type Graph struct {
	db *sql.DB
}

// #endregion types

// #region constructor

// NewGraph creates tables and returns a Graph.
func NewGraph(db *sql.DB) (*Graph, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("topic graph schema: %w", err)
	}
	return &Graph{db: db}, nil
}

// #endregion constructor

// #region relate

// Relate strengthens the link between two topics by delta, capped at
// 1.0, creating it at weight=delta if absent. Both directions update
// atomically.
func (g *Graph) Relate(a, b string, delta float64) error {
	if a == b {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := g.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, pair := range [2][2]string{{a, b}, {b, a}} {
		_, err := tx.Exec(
			`INSERT INTO topic_relations (source, target, weight, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(source, target) DO UPDATE SET
			   weight = MIN(1.0, topic_relations.weight + ?),
			   updated_at = ?`,
			pair[0], pair[1], delta, now, now,
			delta, now,
		)
		if err != nil {
			return fmt.Errorf("upsert relation %s->%s: %w", pair[0], pair[1], err)
		}
	}
	return tx.Commit()
}

// #endregion relate

// #region neighbors

// Neighbors returns all relations from a topic with weight >= minWeight,
// ordered by weight descending.
func (g *Graph) Neighbors(topic string, minWeight float64) ([]Relation, error) {
	rows, err := g.db.Query(
		`SELECT id, source, target, weight, created_at, updated_at
		 FROM topic_relations
		 WHERE source = ? AND weight >= ?
		 ORDER BY weight DESC`,
		topic, minWeight,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []Relation
	for rows.Next() {
		var r Relation
		var createdAt, updatedAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.Target, &r.Weight, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		relations = append(relations, r)
	}
	return relations, rows.Err()
}

// #endregion neighbors

// #region walk

// Walk performs a BFS from an entry topic, following relations with
// weight >= minWeight, up to maxDepth hops and maxNodes total. Returns
// topics in visit order with cumulative scores.
func (g *Graph) Walk(entry string, maxDepth int, minWeight float64, maxNodes int) (WalkResult, error) {
	if maxDepth <= 0 {
		maxDepth = 5
	}
	if maxNodes <= 0 {
		maxNodes = 10
	}

	result := WalkResult{
		Topics: []string{entry},
		Scores: []float64{1.0},
	}
	visited := map[string]bool{entry: true}

	type queueItem struct {
		topic string
		depth int
		score float64
	}
	queue := []queueItem{{entry, 0, 1.0}}

	for len(queue) > 0 {
		if len(result.Topics) >= maxNodes {
			break
		}

		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}

		neighbors, err := g.Neighbors(current.topic, minWeight)
		if err != nil {
			return result, fmt.Errorf("walk neighbors: %w", err)
		}

		for _, rel := range neighbors {
			if len(result.Topics) >= maxNodes {
				break
			}
			if visited[rel.Target] {
				continue
			}
			visited[rel.Target] = true
			cumScore := current.score * rel.Weight
			result.Topics = append(result.Topics, rel.Target)
			result.Scores = append(result.Scores, cumScore)
			queue = append(queue, queueItem{rel.Target, current.depth + 1, cumScore})
		}
	}

	return result, nil
}

// #endregion walk

// #region decay

// DecayAll applies exponential decay to all relation weights based on
// time since last update. Relations that fall below 0.01 are deleted.
// Returns the number of deleted relations.
func (g *Graph) DecayAll(halfLife time.Duration) (int64, error) {
	now := time.Now().UTC()
	halfLifeSec := halfLife.Seconds()

	rows, err := g.db.Query(`SELECT id, weight, updated_at FROM topic_relations`)
	if err != nil {
		return 0, err
	}

	type decayItem struct {
		id        int64
		newWeight float64
	}
	var updates []decayItem
	var deletes []int64

	for rows.Next() {
		var id int64
		var weight float64
		var updatedAt string
		if err := rows.Scan(&id, &weight, &updatedAt); err != nil {
			rows.Close()
			return 0, err
		}
		t, _ := time.Parse(time.RFC3339, updatedAt)
		ageSec := now.Sub(t).Seconds()
		if ageSec <= 0 {
			continue
		}
		decayed := weight * math.Exp(-ageSec*math.Ln2/halfLifeSec)
		if decayed < 0.01 {
			deletes = append(deletes, id)
		} else {
			updates = append(updates, decayItem{id, decayed})
		}
	}
	rows.Close()

	nowStr := now.Format(time.RFC3339)
	for _, u := range updates {
		if _, err := g.db.Exec(`UPDATE topic_relations SET weight = ?, updated_at = ? WHERE id = ?`, u.newWeight, nowStr, u.id); err != nil {
			return 0, err
		}
	}
	for _, id := range deletes {
		if _, err := g.db.Exec(`DELETE FROM topic_relations WHERE id = ?`, id); err != nil {
			return 0, err
		}
	}

	return int64(len(deletes)), nil
}

// #endregion decay

// #region sever

// Sever deletes all relations touching a topic.
func (g *Graph) Sever(topic string) error {
	_, err := g.db.Exec(
		`DELETE FROM topic_relations WHERE source = ? OR target = ?`,
		topic, topic,
	)
	return err
}

// #endregion sever
