package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

// draftTTL is how long an unsaved post draft survives before it is discarded on
// the next load.
const draftTTL = 24 * time.Hour

// Post composer limits.
const (
	minAuthorLen  = 2
	minContentLen = 10
	maxContentLen = 500
)

// HandleDraft manages the post composer draft. GET returns the stored draft if it
// is still fresh, POST saves the current form, DELETE discards it.
func (m Main) HandleDraft(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		m.loadDraft(w, r)
	case http.MethodPost:
		m.saveDraft(w, r)
	case http.MethodDelete:
		if err := m.store.ClearDraft(r.Context()); err != nil {
			m.logger.Error("Failed to clear draft", slog.String(errLoggerKey, err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (m Main) loadDraft(w http.ResponseWriter, r *http.Request) {
	draft, found, err := m.store.Draft(r.Context())
	if err != nil {
		m.logger.Error("Failed to load draft", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Stale drafts are dropped rather than restored into the form.
	if time.Since(draft.SavedAt) > draftTTL {
		if err := m.store.ClearDraft(r.Context()); err != nil {
			m.logger.Error("Failed to clear expired draft", slog.String(errLoggerKey, err.Error()))
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(draft); err != nil {
		m.logger.Error("Failed to encode draft", slog.String(errLoggerKey, err.Error()))
	}
}

func (m Main) saveDraft(w http.ResponseWriter, r *http.Request) {
	author := strings.TrimSpace(r.FormValue("author"))
	content := strings.TrimSpace(r.FormValue("content"))
	if author == "" && content == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	draft := models.Draft{
		Author:  author,
		Content: content,
		SavedAt: time.Now(),
	}
	if err := m.store.SaveDraft(r.Context(), draft); err != nil {
		m.logger.Error("Failed to save draft", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePost validates a submitted post. Posts are not persisted, the page renders
// accepted posts client-side, so validation is the whole job here.
func (m Main) HandlePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	author := strings.TrimSpace(r.FormValue("author"))
	content := strings.TrimSpace(r.FormValue("content"))

	fieldErrors := map[string]string{}
	if len([]rune(author)) < minAuthorLen {
		fieldErrors["author"] = "Name must be at least 2 characters"
	}
	switch n := len([]rune(content)); {
	case n < minContentLen:
		fieldErrors["content"] = "Post must be at least 10 characters"
	case n > maxContentLen:
		fieldErrors["content"] = "Post must be at most 500 characters"
	}
	if len(fieldErrors) > 0 {
		m.writeAuthResponse(w, fieldErrors)
		return
	}

	// A published post invalidates any lingering draft.
	if err := m.store.ClearDraft(r.Context()); err != nil {
		m.logger.Error("Failed to clear draft", slog.String(errLoggerKey, err.Error()))
	}

	m.writeAuthResponse(w, nil)
}
