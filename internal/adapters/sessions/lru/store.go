// Package lru guarda las sesiones de chat en memoria con tope de tamaño (LRU)
// y expiración por inactividad.
package lru

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"pet-health-chat/internal/domain/chat"
)

const (
	DefaultMaxEntries = 1000
	DefaultTTL        = 2 * time.Hour
)

type entry struct {
	sess     chat.Session
	lastUsed time.Time
}

// Store implementa chat.SessionStore.
// ttl <= 0 desactiva la expiración por inactividad.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, entry]
	ttl   time.Duration
	now   func() time.Time
}

func New(maxEntries int, ttl time.Duration) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c, err := lru.New[string, entry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Store{cache: c, ttl: ttl, now: time.Now}, nil
}

// Get devuelve la sesión y renueva su uso. Una sesión vencida se descarta acá
// aunque el sweeper todavía no haya pasado.
func (s *Store) Get(key string) (chat.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		s.cache.Remove(key)
		return nil, false
	}
	e.lastUsed = now
	s.cache.Add(key, e)
	return e.sess, true
}

func (s *Store) Put(key string, sess chat.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(key, entry{sess: sess, lastUsed: s.now()})
}

func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(key)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Sweep elimina las sesiones inactivas por más de ttl. Devuelve cuántas borró.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for _, k := range s.cache.Keys() {
		e, ok := s.cache.Peek(k)
		if ok && s.expired(e, now) {
			s.cache.Remove(k)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastUsed) > s.ttl
}
