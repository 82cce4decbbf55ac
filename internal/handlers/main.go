// Package handlers serves the landing page and bridges browser events to the chat
// widget. State transitions, placeholder updates, and replies flow back to the page
// over Server-Sent Events.
package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmaxmax/go-sse"

	opensocialwebui "github.com/opensocial-lk/opensocial-web-ui"
	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
	"github.com/opensocial-lk/opensocial-web-ui/internal/widget"
)

const errLoggerKey = "err"

// SSE topics and event types for real-time updates.
const (
	widgetSSETopic   = "widget"
	messagesSSETopic = "messages"
)

// Store is the page's key-value persistence: the widget's minimized flag, the post
// draft, and the mock signed-in user.
type Store interface {
	Minimized() (bool, error)
	SetMinimized(minimized bool) error

	Draft(ctx context.Context) (models.Draft, bool, error)
	SaveDraft(ctx context.Context, draft models.Draft) error
	ClearDraft(ctx context.Context) error

	User(ctx context.Context) (models.User, bool, error)
	SaveUser(ctx context.Context, user models.User) error
}

// Main handles the core functionality of the page, managing server-sent events, HTML
// templates, and the widget instance that drives the response pipeline.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template

	widget *widget.Widget
	store  Store

	logger *slog.Logger
}

// NewMain creates a new Main instance around the given responder and store. It parses
// the embedded HTML templates, configures the SSE server topics, and starts the
// widget, which initializes minimized or collapsed depending on the persisted flag.
func NewMain(responder widget.Responder, store Store, logger *slog.Logger) (Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		opensocialwebui.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, err
	}

	sseSrv := &sse.Server{
		OnSession: func(s *sse.Session) (sse.Subscription, bool) {
			return sse.Subscription{
				Client:      s,
				LastEventID: s.LastEventID,
				Topics:      []string{sse.DefaultTopic, widgetSSETopic, messagesSSETopic},
			}, true
		},
	}

	surface := &sseSurface{
		srv:       sseSrv,
		templates: tmpl,
		logger:    logger,
	}

	wdg, err := widget.New(widget.Config{
		Surface:   surface,
		Responder: responder,
		Store:     store,
		Logger:    logger,
	})
	if err != nil {
		return Main{}, err
	}

	return Main{
		sseSrv:    sseSrv,
		templates: tmpl,
		widget:    wdg,
		store:     store,
		logger:    logger.With(slog.String("module", "handlers")),
	}, nil
}

// HandleSSE upgrades the request into a Server-Sent Events stream.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}

// HandleHome renders the landing page. The widget partial is rendered in its
// persisted state so a minimized widget stays minimized across reloads.
func (m Main) HandleHome(w http.ResponseWriter, r *http.Request) {
	minimized, err := m.store.Minimized()
	if err != nil {
		m.logger.Error("Failed to read minimized flag", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := homePageData{
		Minimized: minimized,
		Prompts:   widget.DefaultPrompts,
	}
	if err := m.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type homePageData struct {
	Minimized bool
	Prompts   []string
}

// Shutdown gracefully terminates the widget and the SSE server. It broadcasts a
// close message to all connected clients and waits up to 5 seconds for connections
// to terminate.
func (m Main) Shutdown(ctx context.Context) error {
	m.widget.Close()

	e := &sse.Message{Type: sse.Type("close")}
	// We create a close event that complies with SSE spec requiring data
	e.AppendData("bye")

	// We ignore the error here since we're shutting down anyway
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}
