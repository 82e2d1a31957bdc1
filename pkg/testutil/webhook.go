package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/de-tools/cloudview-alerts/pkg/models/api"
	"github.com/go-chi/chi/v5"
)

// FakeWebhook records messages posted to any path under its URL.
type FakeWebhook struct {
	server *httptest.Server

	mu       sync.Mutex
	status   int
	messages map[string][]api.WebhookMessage
}

func NewFakeWebhook(t testing.TB) *FakeWebhook {
	t.Helper()

	f := &FakeWebhook{
		status:   http.StatusOK,
		messages: make(map[string][]api.WebhookMessage),
	}

	router := chi.NewRouter()
	router.Post("/*", f.receive)

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns a webhook target for the given path.
func (f *FakeWebhook) URL(path string) string {
	return f.server.URL + path
}

// RespondWith sets the status code returned to subsequent posts.
func (f *FakeWebhook) RespondWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *FakeWebhook) Messages(path string) []api.WebhookMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.WebhookMessage(nil), f.messages[path]...)
}

func (f *FakeWebhook) receive(w http.ResponseWriter, r *http.Request) {
	var msg api.WebhookMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.messages[r.URL.Path] = append(f.messages[r.URL.Path], msg)
	status := f.status
	f.mu.Unlock()

	w.WriteHeader(status)
	_, _ = w.Write([]byte("ok"))
}

// NewStaticServer answers every request with the given status and body and
// returns its URL.
func NewStaticServer(t testing.TB, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
