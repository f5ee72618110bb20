package chat

import (
	"context"
	"errors"
	"sync"
	"time"
)

// -------------------------
// Fakes
// -------------------------

type fakeBackend struct {
	mu       sync.Mutex
	starts   int
	seeds    [][]Turn
	sessions []*fakeSession
	startErr error
	delay    time.Duration

	// sendErrs se asigna a la próxima sesión creada; sendErrsEach a todas.
	sendErrs     []error
	sendErrsEach []error
}

func (b *fakeBackend) StartSession(ctx context.Context, seed []Turn) (Session, error) {
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starts++
	if b.startErr != nil {
		return nil, b.startErr
	}
	b.seeds = append(b.seeds, seed)
	errs := b.sendErrs
	if b.sendErrsEach != nil {
		errs = append([]error(nil), b.sendErrsEach...)
	}
	s := &fakeSession{history: append([]Turn(nil), seed...), errs: errs}
	b.sendErrs = nil
	b.sessions = append(b.sessions, s)
	return s, nil
}

func (b *fakeBackend) startCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.starts
}

type fakeSession struct {
	mu      sync.Mutex
	history []Turn
	sends   int
	errs    []error
	block   bool
}

func (s *fakeSession) SendTurn(ctx context.Context, text string) (string, error) {
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return "", err
		}
	}
	reply := "reply to: " + text
	s.history = append(s.history, Turn{Role: RoleUser, Text: text}, Turn{Role: RoleAssistant, Text: reply})
	return reply, nil
}

type mapStore struct {
	mu sync.Mutex
	m  map[string]Session
}

func newMapStore() *mapStore {
	return &mapStore{m: map[string]Session{}}
}

func (s *mapStore) Get(key string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *mapStore) Put(key string, v Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = v
}

func (s *mapStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *mapStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

type fakeLimiter struct {
	allow bool
	calls int
}

func (l *fakeLimiter) TryConsume() bool {
	l.calls++
	return l.allow
}

func (l *fakeLimiter) RetryAfter() time.Duration { return 1500 * time.Millisecond }

var errBoom = errors.New("boom")
