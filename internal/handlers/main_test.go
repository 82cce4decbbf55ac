package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/opensocial-lk/opensocial-web-ui/internal/handlers"
	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

type mockStore struct {
	mu        sync.Mutex
	minimized bool
	draft     models.Draft
	hasDraft  bool
	user      models.User
	hasUser   bool
}

func (s *mockStore) Minimized() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minimized, nil
}

func (s *mockStore) SetMinimized(minimized bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minimized = minimized
	return nil
}

func (s *mockStore) Draft(_ context.Context) (models.Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft, s.hasDraft, nil
}

func (s *mockStore) SaveDraft(_ context.Context, draft models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft, s.hasDraft = draft, true
	return nil
}

func (s *mockStore) ClearDraft(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft, s.hasDraft = models.Draft{}, false
	return nil
}

func (s *mockStore) User(_ context.Context) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.hasUser, nil
}

func (s *mockStore) SaveUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.hasUser = user, true
	return nil
}

type mockResponder struct {
	asked chan string
	reply models.Reply
}

func (r *mockResponder) Respond(_ context.Context, message string) models.Reply {
	r.asked <- message
	return r.reply
}

func newTestMain(t *testing.T) (handlers.Main, *mockStore, *mockResponder) {
	t.Helper()

	store := &mockStore{}
	responder := &mockResponder{
		asked: make(chan string, 4),
		reply: models.Reply{Markup: "hello there"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := handlers.NewMain(responder, store, logger)
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}
	t.Cleanup(func() {
		_ = m.Shutdown(context.Background())
	})

	return m, store, responder
}

func postForm(handler http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleChat(t *testing.T) {
	m, _, responder := newTestMain(t)

	w := postForm(m.HandleChat, url.Values{"message": {"   "}})
	if w.Code != http.StatusNoContent {
		t.Errorf("blank message status = %d, want %d", w.Code, http.StatusNoContent)
	}
	select {
	case msg := <-responder.asked:
		t.Fatalf("blank message reached responder: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}

	w = postForm(m.HandleChat, url.Values{"message": {"Why OpenSocial?"}})
	if w.Code != http.StatusAccepted {
		t.Errorf("message status = %d, want %d", w.Code, http.StatusAccepted)
	}
	select {
	case msg := <-responder.asked:
		if msg != "Why OpenSocial?" {
			t.Errorf("responder received %q, want %q", msg, "Why OpenSocial?")
		}
	case <-time.After(time.Second):
		t.Fatal("responder was never asked")
	}
}

func TestHandleChatRejectsGet(t *testing.T) {
	m, _, _ := newTestMain(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	m.HandleChat(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleWidgetEvent(t *testing.T) {
	m, store, _ := newTestMain(t)

	w := postForm(m.HandleWidgetEvent, url.Values{"action": {"minimize"}})
	if w.Code != http.StatusNoContent {
		t.Fatalf("minimize status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if min, _ := store.Minimized(); !min {
		t.Error("minimize did not persist the flag")
	}

	w = postForm(m.HandleWidgetEvent, url.Values{"action": {"restore"}})
	if w.Code != http.StatusNoContent {
		t.Fatalf("restore status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if min, _ := store.Minimized(); min {
		t.Error("restore did not clear the flag")
	}

	w = postForm(m.HandleWidgetEvent, url.Values{"action": {"explode"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleDraftLifecycle(t *testing.T) {
	m, _, _ := newTestMain(t)

	// No draft saved yet.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	m.HandleDraft(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("empty load status = %d, want %d", w.Code, http.StatusNoContent)
	}

	w = postForm(m.HandleDraft, url.Values{
		"author":  {"Amara"},
		"content": {"Half-written thoughts about the launch"},
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("save status = %d, want %d", w.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	m.HandleDraft(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("load status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "Amara") {
		t.Errorf("loaded draft missing author, body = %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	w = httptest.NewRecorder()
	m.HandleDraft(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", w.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	m.HandleDraft(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("load after delete status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestHandleDraftExpiry(t *testing.T) {
	m, store, _ := newTestMain(t)

	_ = store.SaveDraft(context.Background(), models.Draft{
		Author:  "Amara",
		Content: "A stale draft from last week",
		SavedAt: time.Now().Add(-25 * time.Hour),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	m.HandleDraft(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expired load status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if _, found, _ := store.Draft(context.Background()); found {
		t.Error("expired draft was not cleared")
	}
}

func TestHandleHome(t *testing.T) {
	m, _, _ := newTestMain(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	m.HandleHome(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "OpenSocial") {
		t.Error("home page does not mention OpenSocial")
	}
}
