package store

import (
	"testing"
	"time"

	"github.com/i474232898/clock-widget/internal/widget"
)

func ended(id string, at time.Time) widget.State {
	return widget.State{CycleID: id, EndedAt: at}
}

func ids(states []widget.State) []string {
	out := make([]string, 0, len(states))
	for _, st := range states {
		out = append(out, st.CycleID)
	}
	return out
}

func TestHistoryRetainsByCount(t *testing.T) {
	h := NewHistory(2, 0)
	now := time.Now()

	h.Record(ended("a", now))
	h.Record(ended("b", now))
	h.Record(ended("c", now))

	got := ids(h.Recent())
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Fatalf("expected [c b], got %v", got)
	}
}

func TestHistoryRetainsByAge(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	h := NewHistory(0, time.Minute)
	h.now = func() time.Time { return now }

	h.Record(ended("old", now.Add(-2*time.Minute)))
	h.Record(ended("edge", now.Add(-time.Minute)))
	h.Record(ended("new", now))

	got := ids(h.Recent())
	if len(got) != 2 || got[0] != "new" || got[1] != "edge" {
		t.Fatalf("expected [new edge], got %v", got)
	}

	now = now.Add(30 * time.Second)
	if got := ids(h.Recent()); len(got) != 1 || got[0] != "new" {
		t.Fatalf("expected [new] after time passes, got %v", got)
	}
}

func TestHistoryUnlimited(t *testing.T) {
	h := NewHistory(0, 0)
	for i := 0; i < 50; i++ {
		h.Record(ended("x", time.Time{}))
	}
	if h.Len() != 50 {
		t.Fatalf("expected 50 entries, got %d", h.Len())
	}
}
