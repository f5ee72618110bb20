// Package yandex implementa chat.Backend sobre YandexGPT.
package yandex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Morwran/yagpt"

	"pet-health-chat/internal/domain/chat"
)

// El IAM token dura 12h; lo renovamos bastante antes.
const iamTTL = time.Hour

var errEmptyResponse = errors.New("yandex: empty response")

type completeFunc func(ctx context.Context, iamToken string, messages []yagpt.Message) (string, error)

type Backend struct {
	complete completeFunc
	refresh  func() (string, error)
	now      func() time.Time

	mu        sync.Mutex
	iamToken  string
	iamIssued time.Time
}

func New(oauthToken, folderID string) (*Backend, error) {
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("yandex: init iam: %w", err)
	}
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("yandex: init yagpt: %w", err)
	}

	b := &Backend{
		complete: func(ctx context.Context, tok string, msgs []yagpt.Message) (string, error) {
			resp, err := ya.CompletionWithCtx(ctx, tok, msgs)
			if err != nil {
				return "", err
			}
			if resp == nil || len(resp.Alternatives) == 0 {
				return "", errEmptyResponse
			}
			return resp.Alternatives[0].Message.Content, nil
		},
		refresh: func() (string, error) {
			resp, err := iam.Create()
			if err != nil {
				return "", err
			}
			return resp.IamToken, nil
		},
		now: time.Now,
	}
	if _, err := b.token(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Backend) token() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.iamToken != "" && b.now().Sub(b.iamIssued) < iamTTL {
		return b.iamToken, nil
	}
	tok, err := b.refresh()
	if err != nil {
		return "", fmt.Errorf("yandex: create iam token: %w", err)
	}
	b.iamToken, b.iamIssued = tok, b.now()
	return tok, nil
}

// StartSession: la instrucción semilla va como mensaje de sistema, que es
// como YandexGPT espera el contexto.
func (b *Backend) StartSession(_ context.Context, seed []chat.Turn) (chat.Session, error) {
	s := &session{b: b}
	for i, t := range seed {
		s.history = append(s.history, toMessage(t, i == 0))
	}
	return s, nil
}

func toMessage(t chat.Turn, first bool) yagpt.Message {
	switch {
	case first && t.Role == chat.RoleUser:
		return yagpt.Message{Role: "system", Content: t.Text}
	case t.Role == chat.RoleAssistant:
		return yagpt.Message{Role: "assistant", Content: t.Text}
	default:
		return yagpt.Message{Role: "user", Content: t.Text}
	}
}

type session struct {
	b *Backend

	mu      sync.Mutex
	history []yagpt.Message
}

func (s *session) SendTurn(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.b.token()
	if err != nil {
		return "", err
	}

	user := toMessage(chat.Turn{Role: chat.RoleUser, Text: text}, false)
	msgs := make([]yagpt.Message, 0, len(s.history)+1)
	msgs = append(msgs, s.history...)
	msgs = append(msgs, user)

	reply, err := s.b.complete(ctx, tok, msgs)
	if err != nil {
		return "", fmt.Errorf("yandex: completion: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", errEmptyResponse
	}

	s.history = append(s.history, user, toMessage(chat.Turn{Role: chat.RoleAssistant, Text: reply}, false))
	return reply, nil
}
