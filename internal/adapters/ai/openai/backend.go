// Package openai habla con cualquier API compatible con OpenAI chat completions
// (Gemini vía su endpoint /v1beta/openai, OpenAI, OpenRouter).
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	gopenai "github.com/sashabaranov/go-openai"

	"pet-health-chat/internal/domain/chat"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	Temperature float32
	TopP        float32
	MaxTokens   int

	// HTTPClient opcional (tests, headers extra).
	HTTPClient *http.Client
}

// Backend implementa chat.Backend. Las sesiones viven en memoria: la API es
// stateless y cada turno reenvía el historial completo.
type Backend struct {
	client *gopenai.Client
	cfg    Config
}

func New(cfg Config) *Backend {
	oc := gopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}
	return &Backend{
		client: gopenai.NewClientWithConfig(oc),
		cfg:    cfg,
	}
}

func (b *Backend) StartSession(_ context.Context, seed []chat.Turn) (chat.Session, error) {
	if strings.TrimSpace(b.cfg.Model) == "" {
		return nil, errors.New("openai: model required")
	}
	s := &session{b: b, history: make([]gopenai.ChatCompletionMessage, 0, len(seed)+2)}
	for _, t := range seed {
		s.history = append(s.history, toMessage(t))
	}
	return s, nil
}

type session struct {
	b *Backend

	// mu serializa los turnos: el historial no puede intercalarse.
	mu      sync.Mutex
	history []gopenai.ChatCompletionMessage
}

func (s *session) SendTurn(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := gopenai.ChatCompletionMessage{Role: gopenai.ChatMessageRoleUser, Content: text}
	msgs := make([]gopenai.ChatCompletionMessage, 0, len(s.history)+1)
	msgs = append(msgs, s.history...)
	msgs = append(msgs, user)

	resp, err := s.b.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:       s.b.cfg.Model,
		Messages:    msgs,
		Temperature: s.b.cfg.Temperature,
		TopP:        s.b.cfg.TopP,
		MaxTokens:   s.b.cfg.MaxTokens,
	})
	if err != nil {
		if isContextOverflow(err) {
			return "", fmt.Errorf("%w: %v", chat.ErrSessionInvalid, err)
		}
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("openai: empty response")
	}

	reply := resp.Choices[0].Message.Content
	s.history = append(s.history, user, gopenai.ChatCompletionMessage{
		Role:    gopenai.ChatMessageRoleAssistant,
		Content: reply,
	})
	return reply, nil
}

// isContextOverflow: el historial ya no entra en la ventana del modelo; una
// sesión nueva (solo semillas) sí.
func isContextOverflow(err error) bool {
	var apiErr *gopenai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return fmt.Sprint(apiErr.Code) == "context_length_exceeded"
}

func toMessage(t chat.Turn) gopenai.ChatCompletionMessage {
	role := gopenai.ChatMessageRoleUser
	if t.Role == chat.RoleAssistant {
		role = gopenai.ChatMessageRoleAssistant
	}
	return gopenai.ChatCompletionMessage{Role: role, Content: t.Text}
}
