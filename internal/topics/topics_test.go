package topics

import "testing"

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	if got := Normalize("  Pattern   Recognition "); got != "pattern recognition" {
		t.Errorf("Normalize = %q, want %q", got, "pattern recognition")
	}
	if got := Normalize("meta-cognition"); got != "meta-cognition" {
		t.Errorf("Normalize = %q, want %q", got, "meta-cognition")
	}
}

func TestKeywordsDropsStopwordsAndShortTokens(t *testing.T) {
	got := Keywords("I wonder about the nature of emergence")
	want := []string{"wonder", "nature", "emergence"}
	if len(got) != len(want) {
		t.Fatalf("Keywords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeywordsDeduplicates(t *testing.T) {
	got := Keywords("patterns within patterns within patterns")
	if len(got) != 2 {
		t.Fatalf("Keywords = %v, want 2 unique tokens", got)
	}
}

func TestShared(t *testing.T) {
	a := Keywords("pattern recognition")
	b := Keywords("recognition of temporal patterns")
	// Only "recognition" matches; "pattern" vs "patterns" differ.
	if got := Shared(a, b); got != 1 {
		t.Errorf("Shared = %d, want 1", got)
	}
}

func TestDefaultsAreNormalized(t *testing.T) {
	for _, topic := range Defaults() {
		if topic != Normalize(topic) {
			t.Errorf("default topic %q is not in normal form", topic)
		}
	}
}
