package lru

import (
	"context"
	"testing"
	"time"

	"pet-health-chat/internal/domain/chat"
)

type stubSession struct{ name string }

func (s *stubSession) SendTurn(context.Context, string) (string, error) { return s.name, nil }

var _ chat.SessionStore = (*Store)(nil)

func newTestStore(t *testing.T, max int, ttl time.Duration, clock *time.Time) *Store {
	t.Helper()
	s, err := New(max, ttl)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.now = func() time.Time { return *clock }
	return s
}

func TestStore_PutGetRemove(t *testing.T) {
	clock := time.Now()
	s := newTestStore(t, 10, time.Hour, &clock)
	a := &stubSession{"a"}

	s.Put("u1:general", a)
	got, ok := s.Get("u1:general")
	if !ok || got != a {
		t.Fatalf("expected stored session")
	}
	s.Remove("u1:general")
	if _, ok := s.Get("u1:general"); ok {
		t.Fatalf("expected removed")
	}
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	clock := time.Now()
	s := newTestStore(t, 2, 0, &clock)

	s.Put("a", &stubSession{"a"})
	s.Put("b", &stubSession{"b"})
	_, _ = s.Get("a") // a pasa a ser el más reciente
	s.Put("c", &stubSession{"c"})

	if _, ok := s.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := s.Get("a"); !ok {
		t.Fatalf("a should survive")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
}

func TestStore_IdleTTL(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, 10, time.Hour, &clock)

	s.Put("a", &stubSession{"a"})
	s.Put("b", &stubSession{"b"})

	clock = clock.Add(50 * time.Minute)
	_, _ = s.Get("a") // renueva a

	clock = clock.Add(20 * time.Minute)
	if _, ok := s.Get("b"); ok {
		t.Fatalf("b idle for 70m should be expired on Get")
	}
	if _, ok := s.Get("a"); !ok {
		t.Fatalf("a was used 20m ago and should be alive")
	}
}

func TestStore_Sweep(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, 10, time.Hour, &clock)

	s.Put("old1", &stubSession{})
	s.Put("old2", &stubSession{})
	clock = clock.Add(2 * time.Hour)
	s.Put("fresh", &stubSession{})

	if n := s.Sweep(); n != 2 {
		t.Fatalf("expected 2 swept, got %d", n)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", s.Len())
	}
}

func TestSweeper_InvalidSpec(t *testing.T) {
	s, _ := New(1, time.Minute)
	if _, err := NewSweeper(s, "not a spec", nil); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestSweeper_RunRemovesExpired(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, 10, time.Minute, &clock)
	s.Put("a", &stubSession{})
	clock = clock.Add(2 * time.Minute)

	sw, err := NewSweeper(s, "", nil)
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	sw.run()
	if s.Len() != 0 {
		t.Fatalf("expected sweep on run")
	}
	sw.Start()
	sw.Stop()
}
