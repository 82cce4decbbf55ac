package handlers

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tmaxmax/go-sse"

	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
	"github.com/opensocial-lk/opensocial-web-ui/internal/widget"
)

// sseSurface projects widget changes onto connected browsers. The widget calls
// these methods with its lock held, so they only publish and never call back.
type sseSurface struct {
	srv       *sse.Server
	templates *template.Template
	logger    *slog.Logger
}

func (s *sseSurface) SetPlaceholder(text string) {
	s.publish(widgetSSETopic, "placeholder", text)
}

func (s *sseSurface) StateChanged(state widget.State) {
	s.publish(widgetSSETopic, "state", string(state))
}

// ShowReply renders the response bubble partial and pushes the HTML fragment to
// all connected clients.
func (s *sseSurface) ShowReply(reply models.Reply) {
	data := responseBubbleData{
		ID: uuid.New().String(),
		// The markup is produced by our own formatter, never echoed raw from a gateway
		Markup: template.HTML(reply.Markup),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "response_bubble", data); err != nil {
		s.logger.Error("Failed to render response bubble", slog.String(errLoggerKey, err.Error()))
		return
	}

	s.publish(messagesSSETopic, "response", buf.String())
}

func (s *sseSurface) ClearReply() {
	s.publish(messagesSSETopic, "clear-response", "bye")
}

func (s *sseSurface) Navigate(intent models.NavigationIntent) {
	payload, err := json.Marshal(intent)
	if err != nil {
		s.logger.Error("Failed to marshal navigation intent", slog.String(errLoggerKey, err.Error()))
		return
	}
	s.publish(widgetSSETopic, "navigate", string(payload))
}

func (s *sseSurface) publish(topic, eventType, data string) {
	e := &sse.Message{Type: sse.Type(eventType)}
	e.AppendData(data)
	if err := s.srv.Publish(e, topic); err != nil {
		s.logger.Error("Failed to publish SSE message",
			slog.String("eventType", eventType),
			slog.String(errLoggerKey, err.Error()))
	}
}

type responseBubbleData struct {
	ID     string
	Markup template.HTML
}
