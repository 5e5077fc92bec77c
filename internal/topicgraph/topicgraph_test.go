package topicgraph

import (
	"database/sql"
	"math"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// #region test-relate
func TestRelateSymmetric(t *testing.T) {
	db := setupTestDB(t)
	g, err := NewGraph(db)
	if err != nil {
		t.Fatalf("new graph: %v", err)
	}

	if err := g.Relate("emergence", "entropy", 0.3); err != nil {
		t.Fatalf("relate: %v", err)
	}

	// Both directions exist
	fwd, err := g.Neighbors("emergence", 0.0)
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if len(fwd) != 1 || fwd[0].Target != "entropy" {
		t.Fatalf("expected entropy neighbor, got %+v", fwd)
	}
	if math.Abs(fwd[0].Weight-0.3) > 0.001 {
		t.Errorf("expected weight 0.3, got %.4f", fwd[0].Weight)
	}

	rev, _ := g.Neighbors("entropy", 0.0)
	if len(rev) != 1 || rev[0].Target != "emergence" {
		t.Fatalf("expected reverse relation, got %+v", rev)
	}

	// Repeat strengthens both directions
	if err := g.Relate("emergence", "entropy", 0.3); err != nil {
		t.Fatalf("relate 2: %v", err)
	}
	fwd, _ = g.Neighbors("emergence", 0.0)
	rev, _ = g.Neighbors("entropy", 0.0)
	if math.Abs(fwd[0].Weight-0.6) > 0.001 || math.Abs(rev[0].Weight-0.6) > 0.001 {
		t.Errorf("expected 0.6 both ways, got %.4f / %.4f", fwd[0].Weight, rev[0].Weight)
	}

	// Cap at 1.0
	if err := g.Relate("emergence", "entropy", 5.0); err != nil {
		t.Fatalf("relate big: %v", err)
	}
	fwd, _ = g.Neighbors("emergence", 0.0)
	if math.Abs(fwd[0].Weight-1.0) > 0.001 {
		t.Errorf("expected weight capped at 1.0, got %.4f", fwd[0].Weight)
	}
}

func TestRelateSelfIsNoop(t *testing.T) {
	db := setupTestDB(t)
	g, _ := NewGraph(db)

	if err := g.Relate("emergence", "emergence", 0.5); err != nil {
		t.Fatalf("self relate: %v", err)
	}
	rels, _ := g.Neighbors("emergence", 0.0)
	if len(rels) != 0 {
		t.Errorf("self relation should not be stored, got %+v", rels)
	}
}

// #endregion test-relate

// #region test-neighbors
func TestNeighborsOrderAndFilter(t *testing.T) {
	db := setupTestDB(t)
	g, _ := NewGraph(db)

	g.Relate("hub", "mid", 0.5)
	g.Relate("hub", "strong", 0.9)
	g.Relate("hub", "weak", 0.2)

	all, err := g.Neighbors("hub", 0.0)
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 neighbors, got %d", len(all))
	}
	// Weight descending
	if all[0].Target != "strong" || all[1].Target != "mid" || all[2].Target != "weak" {
		t.Errorf("unexpected order: %s, %s, %s", all[0].Target, all[1].Target, all[2].Target)
	}

	filtered, _ := g.Neighbors("hub", 0.3)
	if len(filtered) != 2 {
		t.Errorf("minWeight 0.3 should keep 2 neighbors, got %d", len(filtered))
	}
}

// #endregion test-neighbors

// #region test-walk
func TestWalk(t *testing.T) {
	db := setupTestDB(t)
	g, _ := NewGraph(db)

	// Chain: a - b - c - d, plus a weak branch a - e
	g.Relate("a", "b", 0.5)
	g.Relate("b", "c", 0.8)
	g.Relate("c", "d", 0.3)
	g.Relate("a", "e", 0.2)

	result, err := g.Walk("a", 5, 0.1, 100)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	// a, then b and e from a, then c from b, then d from c
	if len(result.Topics) != 5 {
		t.Fatalf("expected 5 topics, got %d: %v", len(result.Topics), result.Topics)
	}
	if result.Topics[0] != "a" {
		t.Errorf("first topic should be 'a', got %s", result.Topics[0])
	}
	if math.Abs(result.Scores[0]-1.0) > 0.001 {
		t.Errorf("entry score should be 1.0, got %.4f", result.Scores[0])
	}

	// Cumulative score: a->b (0.5), b->c (0.5*0.8=0.4)
	scores := map[string]float64{}
	for i, topic := range result.Topics {
		scores[topic] = result.Scores[i]
	}
	if math.Abs(scores["b"]-0.5) > 0.001 {
		t.Errorf("expected score 0.5 for b, got %.4f", scores["b"])
	}
	if math.Abs(scores["c"]-0.4) > 0.001 {
		t.Errorf("expected score 0.4 for c, got %.4f", scores["c"])
	}
	if math.Abs(scores["d"]-0.12) > 0.001 {
		t.Errorf("expected score 0.12 for d, got %.4f", scores["d"])
	}

	// minWeight 0.3 filters the a-e relation
	result2, err := g.Walk("a", 5, 0.3, 100)
	if err != nil {
		t.Fatalf("walk filtered: %v", err)
	}
	for _, topic := range result2.Topics {
		if topic == "e" {
			t.Error("topic 'e' should be filtered by minWeight 0.3")
		}
	}

	// Depth limit: a + direct neighbors (b, e)
	result3, err := g.Walk("a", 1, 0.1, 100)
	if err != nil {
		t.Fatalf("walk depth 1: %v", err)
	}
	if len(result3.Topics) != 3 {
		t.Errorf("depth=1 should yield 3 topics, got %d: %v", len(result3.Topics), result3.Topics)
	}

	// maxNodes cap
	result4, err := g.Walk("a", 5, 0.1, 3)
	if err != nil {
		t.Fatalf("walk maxNodes 3: %v", err)
	}
	if len(result4.Topics) != 3 {
		t.Errorf("maxNodes=3 should yield 3 topics, got %d: %v", len(result4.Topics), result4.Topics)
	}
}

func TestWalkUnknownEntry(t *testing.T) {
	db := setupTestDB(t)
	g, _ := NewGraph(db)

	result, err := g.Walk("nowhere", 0, 0.1, 0)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(result.Topics) != 1 || result.Topics[0] != "nowhere" {
		t.Fatalf("expected only the entry topic, got %v", result.Topics)
	}
}

// #endregion test-walk

// #region test-decay
func TestDecayAll(t *testing.T) {
	db := setupTestDB(t)
	g, _ := NewGraph(db)

	// Insert a stale relation directly: 0.02 * exp(-96h * ln2 / 48h) = 0.005 < 0.01
	past := time.Now().UTC().Add(-96 * time.Hour).Format(time.RFC3339)
	db.Exec(
		`INSERT INTO topic_relations (source, target, weight, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		"old-a", "old-b", 0.02, past, past,
	)

	// Fresh relation barely decays
	g.Relate("new-a", "new-b", 0.5)

	deleted, err := g.DecayAll(48 * time.Hour)
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted relation, got %d", deleted)
	}

	stale, _ := g.Neighbors("old-a", 0.0)
	if len(stale) != 0 {
		t.Errorf("stale relation should be pruned, got %+v", stale)
	}

	fresh, _ := g.Neighbors("new-a", 0.0)
	if len(fresh) != 1 {
		t.Fatalf("fresh relation should survive, got %d", len(fresh))
	}
	if fresh[0].Weight < 0.49 {
		t.Errorf("fresh relation should barely decay, got %.4f", fresh[0].Weight)
	}
}

// #endregion test-decay

// #region test-sever
func TestSever(t *testing.T) {
	db := setupTestDB(t)
	g, _ := NewGraph(db)

	g.Relate("a", "b", 0.5)
	g.Relate("b", "c", 0.5)

	if err := g.Sever("b"); err != nil {
		t.Fatalf("sever: %v", err)
	}

	for _, topic := range []string{"a", "b", "c"} {
		rels, _ := g.Neighbors(topic, 0.0)
		if len(rels) != 0 {
			t.Errorf("expected 0 relations from %s after sever, got %d", topic, len(rels))
		}
	}
}

// #endregion test-sever
