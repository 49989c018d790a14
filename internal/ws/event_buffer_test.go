package ws

import (
	"testing"
	"time"
)

func TestEventBuffer_SinceReturnsNewerEvents(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)
	defer eb.Stop()

	for i := uint64(1); i <= 5; i++ {
		eb.Append("v1", &Event{ID: i, ViewID: "v1", Time: time.Now()})
	}

	got := eb.Since("v1", 3)
	if len(got) != 2 || got[0].ID != 4 || got[1].ID != 5 {
		t.Errorf("Since(3) = %v, want events 4 and 5", got)
	}

	if eb.Since("v1", 5) != nil {
		t.Error("Since(latest) should return nil")
	}
	if eb.Since("missing", 0) != nil {
		t.Error("unknown view should return nil")
	}
}

func TestEventBuffer_MaxLenEviction(t *testing.T) {
	eb := NewEventBuffer(3, time.Hour)
	defer eb.Stop()

	for i := uint64(1); i <= 5; i++ {
		eb.Append("v1", &Event{ID: i, ViewID: "v1", Time: time.Now()})
	}

	if oldest := eb.OldestID("v1"); oldest != 3 {
		t.Errorf("oldest = %d, want 3 after eviction", oldest)
	}
}

func TestEventBuffer_Drop(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)
	defer eb.Stop()

	eb.Append("v1", &Event{ID: 1, ViewID: "v1", Time: time.Now()})
	eb.Drop("v1")

	if eb.OldestID("v1") != 0 {
		t.Error("dropped view still has events")
	}
}

func TestEventSequence_PerViewMonotonic(t *testing.T) {
	es := NewEventSequence()

	if got := es.Next("a"); got != 1 {
		t.Errorf("first id = %d, want 1", got)
	}
	if got := es.Next("a"); got != 2 {
		t.Errorf("second id = %d, want 2", got)
	}
	if got := es.Next("b"); got != 1 {
		t.Errorf("other view should start at 1, got %d", got)
	}
}
