package replay

import (
	"os"
	"path/filepath"
	"testing"
)

// #region fixture-tests

// TestFixture_LiveSession loads the live_session fixture, runs Replay(), and
// verifies the summary against the recorded expectations. If tracker or
// aggregator parameters change, this catches the drift.
func TestFixture_LiveSession(t *testing.T) {
	fixturePath := filepath.Join("testdata", "live_session.json")
	f, err := LoadFixture(fixturePath)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	results, sum, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if len(results) != len(f.Observations) {
		t.Fatalf("expected %d step results, got %d", len(f.Observations), len(results))
	}
	if results[0].Kind != "encounter" {
		t.Errorf("step 0 kind = %s, want encounter", results[0].Kind)
	}

	if mismatches := Verify(sum, f.Expect); len(mismatches) != 0 {
		for _, m := range mismatches {
			t.Errorf("expectation mismatch: %s", m)
		}
	}
}

// TestLoadFixture_Missing verifies error on a nonexistent path.
func TestLoadFixture_Missing(t *testing.T) {
	_, err := LoadFixture(filepath.Join("testdata", "does_not_exist.json"))
	if err == nil {
		t.Fatal("expected error for missing fixture, got nil")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	// Write a temp file with invalid JSON
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// #endregion fixture-tests
