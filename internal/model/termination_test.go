package model

import (
	"encoding/json"
	"testing"
)

// TestTermination tests names, parsing and JSON encoding.
func TestTermination(t *testing.T) {
	t.Parallel()

	all := []Termination{
		TerminationUnknown,
		TerminationExhausted,
		TerminationStalled,
		TerminationNavigationFailed,
		TerminationInterrupted,
	}

	t.Run("String and ParseTermination agree", func(t *testing.T) {
		t.Parallel()

		for _, term := range all {
			parsed, err := ParseTermination(term.String())
			if err != nil {
				t.Fatalf("ParseTermination(%q) failed: %v", term.String(), err)
			}
			if parsed != term {
				t.Errorf("expected %v, got %v", term, parsed)
			}
		}
	})

	t.Run("unknown name is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseTermination("gave_up"); err == nil {
			t.Error("expected error for unknown name")
		}
	})

	t.Run("only exhausted and stalled are normal", func(t *testing.T) {
		t.Parallel()

		if !TerminationExhausted.Normal() || !TerminationStalled.Normal() {
			t.Error("expected exhausted and stalled to be normal")
		}
		if TerminationNavigationFailed.Normal() || TerminationInterrupted.Normal() {
			t.Error("expected failures not to be normal")
		}
	})

	t.Run("encodes as a string in JSON", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(CrawlResult{Termination: TerminationStalled})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var decoded struct {
			Termination string `json:"termination"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if decoded.Termination != "stalled" {
			t.Errorf("expected \"stalled\", got %q", decoded.Termination)
		}
	})
}
