package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"pet-health-chat/internal/domain/pets"
	"pet-health-chat/internal/platform/logger"
)

const DefaultAITimeout = 30 * time.Second

type Options struct {
	Backend Backend
	Store   SessionStore
	Limiter Limiter
	Prompts Prompts
	Logger  logger.Logger

	// AITimeout acota cada llamada al backend (crear sesión y cada turno).
	AITimeout time.Duration
}

// Manager mantiene una conversación por (usuario, mascota o general).
type Manager struct {
	backend Backend
	store   SessionStore
	limiter Limiter
	prompts Prompts
	log     logger.Logger
	timeout time.Duration

	now   func() time.Time
	group singleflight.Group
}

func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = DefaultAITimeout
	}
	return &Manager{
		backend: opts.Backend,
		store:   opts.Store,
		limiter: opts.Limiter,
		prompts: DefaultPrompts().Override(opts.Prompts),
		log:     opts.Logger,
		timeout: opts.AITimeout,
		now:     time.Now,
	}
}

// SessionKey: "<user>:general" o "<user>:pet:<petID>".
func SessionKey(userID, petID string) string {
	if petID = strings.TrimSpace(petID); petID != "" {
		return userID + ":pet:" + petID
	}
	return userID + ":general"
}

// RetryAfter es la espera sugerida cuando HandleMessage devolvió ErrRateLimited.
func (m *Manager) RetryAfter() time.Duration {
	if m.limiter == nil {
		return 0
	}
	return m.limiter.RetryAfter()
}

// GetOrCreate devuelve la sesión de key, creándola con los turnos semilla si no
// existe. Primeros turnos concurrentes para la misma key comparten una sola creación.
func (m *Manager) GetOrCreate(ctx context.Context, key string, pet *pets.Pet) (Session, error) {
	if s, ok := m.store.Get(key); ok {
		return s, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		if s, ok := m.store.Get(key); ok {
			return s, nil
		}
		// La creación se comparte entre requests: no depende de la cancelación del primero.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		s, err := m.backend.StartSession(cctx, m.prompts.SeedTurns(pet))
		if err != nil {
			return nil, err
		}
		m.store.Put(key, s)
		m.log.Debug("chat session created", map[string]any{
			"session_key": key,
			"with_pet":    pet != nil,
		})
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Session), nil
}

// HandleMessage procesa un mensaje del usuario. Contenido vacío devuelve un saludo
// sin mandar ningún turno al backend. userID vacío usa una key efímera propia.
func (m *Manager) HandleMessage(ctx context.Context, content string, pet *pets.Pet, userID string) (Message, error) {
	userID = strings.TrimSpace(userID)
	ephemeral := userID == ""
	if ephemeral {
		userID = "anon:" + uuid.NewString()
	}
	petID := ""
	if pet != nil {
		petID = pet.ID
	}
	key := SessionKey(userID, petID)

	if m.limiter != nil && !m.limiter.TryConsume() {
		return Message{}, ErrRateLimited
	}

	sess, err := m.GetOrCreate(ctx, key, pet)
	if err != nil {
		return Message{}, m.upstream(key, "start session", err)
	}
	if ephemeral {
		defer m.store.Remove(key)
	}

	if strings.TrimSpace(content) == "" {
		return m.reply(m.prompts.Greeting(pet)), nil
	}

	start := m.now()
	text, err := m.send(ctx, sess, content)
	if errors.Is(err, ErrSessionInvalid) {
		m.log.Warn("chat session invalid, recreating", map[string]any{"session_key": key})
		m.store.Remove(key)
		sess, err = m.GetOrCreate(ctx, key, pet)
		if err == nil {
			text, err = m.send(ctx, sess, content)
		}
	}
	if err != nil {
		return Message{}, m.upstream(key, "send turn", err)
	}

	m.log.Info("chat turn", map[string]any{
		"session_key": key,
		"duration_ms": m.now().Sub(start).Milliseconds(),
	})
	return m.reply(text), nil
}

// Forget descarta la conversación de (userID, petID). petID vacío = la general.
func (m *Manager) Forget(userID, petID string) {
	m.store.Remove(SessionKey(strings.TrimSpace(userID), petID))
}

func (m *Manager) send(ctx context.Context, s Session, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return s.SendTurn(ctx, text)
}

func (m *Manager) reply(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      RoleAssistant,
		Timestamp: m.now(),
	}
}

func (m *Manager) upstream(key, op string, err error) error {
	m.log.Error("chat: ai backend failed", map[string]any{
		"session_key": key,
		"op":          op,
		"err":         err,
	})
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
