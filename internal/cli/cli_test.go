package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"pet-health-chat/internal/domain/chat"
	"pet-health-chat/internal/platform/httpclient"
	"pet-health-chat/internal/router"
)

type echoBackend struct {
	mu     sync.Mutex
	starts int
}

func (b *echoBackend) StartSession(context.Context, []chat.Turn) (chat.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starts++
	return echoSession{}, nil
}

func (b *echoBackend) startCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.starts
}

type echoSession struct{}

func (echoSession) SendTurn(_ context.Context, text string) (string, error) {
	return "echo: " + text, nil
}

func newAPI(t *testing.T) (*httptest.Server, *echoBackend) {
	t.Helper()
	b := &echoBackend{}
	h, err := router.NewRouter(router.Options{ChatBackend: b})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, b
}

func run(t *testing.T, apiURL, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(strings.NewReader(stdin), &out)
	cmd.SetArgs(append([]string{"--api-url", apiURL, "--user", "u1"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var idRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestPetsLifecycle(t *testing.T) {
	ts, _ := newAPI(t)

	out, err := run(t, ts.URL, "", "pets", "list")
	if err != nil || !strings.Contains(out, "No pets yet") {
		t.Fatalf("empty list: err=%v out=%q", err, out)
	}

	out, err = run(t, ts.URL, "", "pets", "add", "--name", "Milo", "--species", "dog", "--age", "3", "--weight", "10.5")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	petID := idRe.FindString(out)
	if petID == "" {
		t.Fatalf("expected pet id in output: %q", out)
	}

	if _, err := run(t, ts.URL, "", "records", "add", petID, "--date", "2025-01-10", "--symptoms", "tos"); err != nil {
		t.Fatalf("records add: %v", err)
	}
	if _, err := run(t, ts.URL, "", "records", "add", petID, "--date", "2025-03-01", "--type", "treatment", "--description", "vacuna"); err != nil {
		t.Fatalf("records add 2: %v", err)
	}

	out, err = run(t, ts.URL, "", "pets", "show", petID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	newer, older := strings.Index(out, "2025-03-01"), strings.Index(out, "2025-01-10")
	if !strings.Contains(out, "Milo") || newer < 0 || older < 0 || newer > older {
		t.Fatalf("unexpected show output:\n%s", out)
	}

	out, _ = run(t, ts.URL, "", "pets", "list")
	if !strings.Contains(out, "1 pet(s)") || !strings.Contains(out, "10.5 kg") || !strings.Contains(out, "2 record(s)") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	if _, err := run(t, ts.URL, "", "pets", "rm", petID); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := run(t, ts.URL, "", "pets", "show", petID); httpclient.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected not found after rm, got %v", err)
	}
}

func TestRecordsAdd_InvalidDate(t *testing.T) {
	ts, _ := newAPI(t)
	if _, err := run(t, ts.URL, "", "records", "add", "x", "--date", "10/01/2025"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestChatREPL(t *testing.T) {
	ts, backend := newAPI(t)

	out, err := run(t, ts.URL, "hello\n\n/reset\nagain\n/quit\nignored\n", "chat")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	for _, want := range []string{"veterinary assistant", "echo: hello", "Conversation reset.", "echo: again"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "echo: ignored") {
		t.Fatalf("/quit should stop the loop")
	}
	// Saludo + reset => dos sesiones sembradas.
	if got := backend.startCount(); got != 2 {
		t.Fatalf("expected 2 sessions (greeting + after reset), got %d", got)
	}
}

func TestChat_ReportsRateLimitAndContinues(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 2 {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{"content": "ok", "role": "assistant"}})
	}))
	defer ts.Close()

	out, err := run(t, ts.URL, "one\ntwo\n", "chat")
	if err != nil {
		t.Fatalf("chat should survive a 429: %v", err)
	}
	if !strings.Contains(out, "rate limited") || calls.Load() != 3 {
		t.Fatalf("unexpected output (calls=%d):\n%s", calls.Load(), out)
	}
}

func TestUnauthorizedDescribed(t *testing.T) {
	ts, _ := newAPI(t)

	var out bytes.Buffer
	cmd := NewRootCmd(strings.NewReader(""), &out)
	cmd.SetArgs([]string{"--api-url", ts.URL, "pets", "list"})
	err := cmd.Execute()
	if err == nil || describe(err) != "unauthorized (check --token or --user)" {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
