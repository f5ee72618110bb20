package chat

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRateLimited: el bucket global no tenía tokens. No se contactó al backend.
	ErrRateLimited = errors.New("rate limited")
	// ErrUpstream envuelve cualquier otra falla del backend de IA.
	ErrUpstream = errors.New("ai upstream failure")
	// ErrSessionInvalid lo devuelve un Session cuando la conversación ya no sirve
	// (expirada o rechazada del lado del proveedor). El manager la recrea una vez.
	ErrSessionInvalid = errors.New("ai session invalid")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn es un mensaje del historial de una conversación.
type Turn struct {
	Role Role
	Text string
}

// Backend abre conversaciones contra un proveedor de IA.
// StartSession recibe los turnos semilla ya armados (instrucción + acknowledgment).
type Backend interface {
	StartSession(ctx context.Context, seed []Turn) (Session, error)
}

// Session es una conversación con estado. SendTurn agrega el turno y la respuesta
// al historial solo si la llamada fue exitosa.
type Session interface {
	SendTurn(ctx context.Context, text string) (string, error)
}

// SessionStore guarda las sesiones vivas por session key.
// Las implementaciones deben ser seguras para uso concurrente.
type SessionStore interface {
	Get(key string) (Session, bool)
	Put(key string, s Session)
	Remove(key string)
}

// Limiter es el token bucket que protege al backend.
type Limiter interface {
	TryConsume() bool
	RetryAfter() time.Duration
}

// Message es la respuesta del asistente.
type Message struct {
	ID        string
	Content   string
	Role      Role
	Timestamp time.Time
}
