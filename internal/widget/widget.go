// Package widget manages the chat widget's UI lifecycle: collapsed, expanded,
// minimized, thinking, and showing-response states, the idle typewriter placeholder
// animation, and the dispatch of submitted questions to the response pipeline. It
// talks to the page exclusively through the Surface collaborator, so the decision
// logic stays independent of any rendering layer.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

// State names the widget's UI lifecycle states.
type State string

const (
	// StateCollapsed is the idle resting state with the looping placeholder animation.
	StateCollapsed State = "collapsed"
	// StateExpanded is entered on hover or input focus.
	StateExpanded State = "expanded"
	// StateMinimized is the tucked-away state persisted across visits.
	StateMinimized State = "minimized"
	// StateThinking is entered synchronously on submit, before the pipeline call.
	StateThinking State = "thinking"
	// StateShowingResponse is entered when a reply is rendered.
	StateShowingResponse State = "response"
)

// Surface is the widget's view of the page. Implementations render state changes,
// placeholder updates, and replies, and perform navigation side effects. Surface
// methods are called with the widget's internal lock held and must not call back
// into the widget.
type Surface interface {
	SetPlaceholder(text string)
	StateChanged(state State)
	ShowReply(reply models.Reply)
	ClearReply()
	Navigate(intent models.NavigationIntent)
}

// Responder resolves a user message into a reply. It must never fail: the response
// pipeline intercepts every gateway failure and produces a fallback reply instead.
type Responder interface {
	Respond(ctx context.Context, message string) models.Reply
}

// Store persists the widget's minimized flag across visits.
type Store interface {
	Minimized() (bool, error)
	SetMinimized(minimized bool) error
}

// DefaultPrompts is the ordered list of example questions cycled by the idle
// typewriter animation.
var DefaultPrompts = []string{
	"Why OpenSocial?",
	"What to do here?",
	"Where is the GitHub link?",
	"How to start building this?",
	"What is OpenRockets?",
	"What will winners receive?",
	"GitHub link?",
	"Do I allowed to change anything?",
}

const (
	typeStepMin    = 60 * time.Millisecond
	typeStepJitter = 80
	erasePause     = 1500 * time.Millisecond
	eraseStepDelay = 30 * time.Millisecond
	nextTextPause  = 800 * time.Millisecond
	resumeDelay    = 500 * time.Millisecond

	// navigateDelay keeps the ordering guarantee: a reply's navigation intent fires
	// only after the reply text has been rendered.
	navigateDelay = time.Second
	responseTTL   = 4 * time.Second
)

// Config wires a Widget to its collaborators. Surface, Responder, and Store are
// required; the rest default to production implementations.
type Config struct {
	Surface   Surface
	Responder Responder
	Store     Store

	Scheduler Scheduler
	Logger    *slog.Logger
	Prompts   []string

	// IntN draws the per-character typing jitter. Defaults to math/rand.
	IntN func(n int) int
}

// Widget is a single chat widget instance owned by whatever composes the page.
type Widget struct {
	surface   Surface
	responder Responder
	store     Store
	sched     Scheduler
	logger    *slog.Logger
	prompts   [][]rune
	intN      func(n int) int

	mu        sync.Mutex
	state     State
	focused   bool
	closed    bool
	submitSeq uint64

	typing  bool
	textIdx int
	charIdx int
	twTask  Task

	navTask     Task
	dismissTask Task
}

// New creates and starts a widget. If the persisted minimized flag is set, the
// widget initializes directly into the minimized state and the typewriter never
// starts; otherwise it starts collapsed with the looping placeholder animation.
func New(cfg Config) (*Widget, error) {
	if cfg.Surface == nil || cfg.Responder == nil || cfg.Store == nil {
		return nil, errors.New("widget: surface, responder and store are required")
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewScheduler()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Prompts) == 0 {
		cfg.Prompts = DefaultPrompts
	}
	if cfg.IntN == nil {
		cfg.IntN = rand.Intn
	}

	prompts := make([][]rune, len(cfg.Prompts))
	for i, p := range cfg.Prompts {
		prompts[i] = []rune(p)
	}

	w := &Widget{
		surface:   cfg.Surface,
		responder: cfg.Responder,
		store:     cfg.Store,
		sched:     cfg.Scheduler,
		logger:    cfg.Logger.With(slog.String("module", "widget")),
		prompts:   prompts,
		intN:      cfg.IntN,
	}

	minimized, err := w.store.Minimized()
	if err != nil {
		w.logger.Error("Failed to read minimized flag, starting expanded",
			slog.String("err", err.Error()))
		minimized = false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if minimized {
		w.setState(StateMinimized)
		return w, nil
	}
	w.setState(StateCollapsed)
	w.startTypewriter()
	return w, nil
}

// Close stops every timer and detaches the widget. The widget must not be used
// afterwards.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.stopTypewriter()
	w.cancelPending()
}

// State returns the current lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Focus handles the input gaining focus: the typewriter pauses and the widget
// expands.
func (w *Widget) Focus() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.state == StateMinimized {
		return
	}
	w.focused = true
	w.stopTypewriter()
	if w.state == StateCollapsed {
		w.setState(StateExpanded)
	}
}

// Blur handles the input losing focus. With an empty input the widget collapses and
// the typewriter resumes after a short delay.
func (w *Widget) Blur(input string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.state == StateMinimized {
		return
	}
	w.focused = false
	if strings.TrimSpace(input) != "" {
		return
	}
	if w.state == StateExpanded {
		w.setState(StateCollapsed)
	}
	w.scheduleTypewriterResume()
}

// PointerEnter expands the widget on hover.
func (w *Widget) PointerEnter() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.state != StateCollapsed {
		return
	}
	w.setState(StateExpanded)
}

// PointerLeave collapses the widget when the pointer leaves while the input is not
// focused.
func (w *Widget) PointerLeave() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.focused || w.state != StateExpanded {
		return
	}
	w.setState(StateCollapsed)
}

// Submit dispatches a user message. Blank input is a no-op with no state transition
// and no pipeline call. Otherwise the widget enters the thinking state synchronously
// and resolves the reply asynchronously; a reply arriving after a newer submission
// has reset the widget is dropped.
func (w *Widget) Submit(ctx context.Context, text string) {
	message := strings.TrimSpace(text)
	if message == "" {
		return
	}

	w.mu.Lock()
	if w.closed || w.state == StateMinimized {
		w.mu.Unlock()
		return
	}
	w.stopTypewriter()
	w.cancelPending()
	if w.state == StateShowingResponse {
		w.surface.ClearReply()
	}
	w.submitSeq++
	seq := w.submitSeq
	w.setState(StateThinking)
	w.mu.Unlock()

	go func() {
		reply := w.responder.Respond(ctx, message)
		w.resolve(seq, reply)
	}()
}

// Dismiss hides the visible response and returns the widget to the collapsed idle
// state. Dismissing does not cancel an in-flight pipeline call; a late reply is
// handled by the stale-submission guard.
func (w *Widget) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.state != StateShowingResponse {
		return
	}
	w.hideResponse()
}

// Minimize tucks the widget away and persists the flag so the next visit starts
// minimized.
func (w *Widget) Minimize() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.state == StateMinimized {
		return
	}
	w.stopTypewriter()
	w.cancelPending()
	if w.state == StateShowingResponse {
		w.surface.ClearReply()
	}
	w.focused = false
	w.setState(StateMinimized)
	if err := w.store.SetMinimized(true); err != nil {
		w.logger.Error("Failed to persist minimized flag", slog.String("err", err.Error()))
	}
}

// Restore brings a minimized widget back, clears the persisted flag, and
// re-initializes from the collapsed state.
func (w *Widget) Restore() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.state != StateMinimized {
		return
	}
	if err := w.store.SetMinimized(false); err != nil {
		w.logger.Error("Failed to clear minimized flag", slog.String("err", err.Error()))
	}
	w.setState(StateCollapsed)
	w.startTypewriter()
}

func (w *Widget) resolve(seq uint64, reply models.Reply) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || seq != w.submitSeq || w.state != StateThinking {
		w.logger.Debug("Dropping stale reply", slog.Uint64("seq", seq))
		return
	}

	w.setState(StateShowingResponse)
	w.surface.ShowReply(reply)

	if reply.Intent.Kind != models.IntentNone && reply.Intent.Kind != "" {
		intent := reply.Intent
		w.navTask = w.sched.AfterFunc(navigateDelay, func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.closed || seq != w.submitSeq {
				return
			}
			w.surface.Navigate(intent)
		})
	}

	w.dismissTask = w.sched.AfterFunc(responseTTL, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed || seq != w.submitSeq || w.state != StateShowingResponse {
			return
		}
		w.hideResponse()
	})
}

// hideResponse is called with the lock held.
func (w *Widget) hideResponse() {
	if w.dismissTask != nil {
		w.dismissTask.Cancel()
		w.dismissTask = nil
	}
	w.surface.ClearReply()
	w.setState(StateCollapsed)
	w.scheduleTypewriterResume()
}

// cancelPending is called with the lock held.
func (w *Widget) cancelPending() {
	if w.navTask != nil {
		w.navTask.Cancel()
		w.navTask = nil
	}
	if w.dismissTask != nil {
		w.dismissTask.Cancel()
		w.dismissTask = nil
	}
}

// setState is called with the lock held.
func (w *Widget) setState(s State) {
	if w.state == s {
		return
	}
	w.state = s
	w.surface.StateChanged(s)
}
