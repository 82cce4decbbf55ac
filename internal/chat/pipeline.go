package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/opensocial-lk/opensocial-web-ui/internal/format"
	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

// FallbackCooldown is how long the pipeline keeps skipping the gateway after a
// rate-limit failure. Reversion is time based: no event is needed to leave fallback
// mode, the next request after the window simply calls the gateway again.
const FallbackCooldown = 5 * time.Minute

// Pipeline resolves user messages into replies. It tries the gateway first, falls
// back to canned answers on any failure, and runs everything through the formatter.
// A rate-limit failure trips a temporary fallback mode during which the gateway is
// never called.
type Pipeline struct {
	gateway Gateway
	logger  *slog.Logger

	now func() time.Time

	mu            sync.Mutex
	fallbackUntil time.Time
}

// NewPipeline creates a Pipeline around the given gateway.
func NewPipeline(gateway Gateway, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		gateway: gateway,
		logger:  logger.With(slog.String("module", "pipeline")),
		now:     time.Now,
	}
}

// Respond produces the reply for a user message. It never returns an error: every
// gateway failure kind is intercepted and turned into a valid reply, so the caller
// never shows a raw error to the user.
func (p *Pipeline) Respond(ctx context.Context, message string) models.Reply {
	if p.InFallbackMode() {
		return rendered(Fallback(message))
	}

	text, err := p.gateway.Ask(ctx, message)
	if err == nil {
		return models.Reply{Markup: format.Render(text)}
	}

	if errors.Is(err, ErrRateLimited) {
		p.trip()
		p.logger.Warn("Gateway rate limited, entering fallback mode",
			slog.Duration("cooldown", FallbackCooldown))
		return QuickLinks()
	}

	p.logger.Error("Gateway failure, using fallback", slog.String("err", err.Error()))
	return rendered(Fallback(message))
}

// InFallbackMode reports whether the pipeline is inside the rate-limit cool-down
// window. While true, the gateway must not be called.
func (p *Pipeline) InFallbackMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now().Before(p.fallbackUntil)
}

func (p *Pipeline) trip() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallbackUntil = p.now().Add(FallbackCooldown)
}

// QuickLinks is the payload shown specifically on a rate-limit failure: direct
// navigation shortcuts instead of generated text.
func QuickLinks() models.Reply {
	return rendered(models.Reply{
		Markup: "We're getting a lot of traffic right now! Quick links while things cool down: " +
			"[GitHub](" + RepoURL + "), [Instagram](" + InstagramURL + "), " +
			"[X (Twitter)](" + TwitterURL + "), or write to " + ContactEmail + ".",
	})
}

func rendered(r models.Reply) models.Reply {
	r.Markup = format.Render(r.Markup)
	return r
}
