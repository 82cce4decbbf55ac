package handlers

import (
	"context"
	"net/http"
	"strings"
)

// HandleChat accepts a submitted question and forwards it to the widget. The reply
// arrives asynchronously over SSE, so the handler only acknowledges receipt. Blank
// submissions are dropped without touching the widget.
func (m Main) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	message := r.FormValue("message")
	if strings.TrimSpace(message) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// The widget outlives the request, so the reply must not be tied to the
	// request context.
	m.widget.Submit(context.Background(), message)
	w.WriteHeader(http.StatusAccepted)
}

// HandleWidgetEvent relays browser interaction events (hover, focus, minimize and
// friends) into the widget state machine.
func (m Main) HandleWidgetEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	action := r.FormValue("action")
	switch action {
	case "focus":
		m.widget.Focus()
	case "blur":
		m.widget.Blur(r.FormValue("input"))
	case "enter":
		m.widget.PointerEnter()
	case "leave":
		m.widget.PointerLeave()
	case "minimize":
		m.widget.Minimize()
	case "restore":
		m.widget.Restore()
	case "dismiss":
		m.widget.Dismiss()
	default:
		http.Error(w, "Unknown widget action", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
