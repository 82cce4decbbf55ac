package widget

import "time"

// The idle typewriter cycles through the example questions: type forward one
// character at a time with randomized delay, pause at the full text, erase backward
// at a fixed faster delay, pause, then advance to the next question and wrap.
//
// All methods below are called with the widget's lock held. Scheduled continuations
// re-acquire the lock and re-check the typing flag, so a cancelled animation can
// never run a leftover step even if its timer already fired.

// startTypewriter is called with the lock held.
func (w *Widget) startTypewriter() {
	if w.typing || w.closed {
		return
	}
	w.typing = true
	w.charIdx = 0
	w.typeStep()
}

// stopTypewriter is called with the lock held. It is idempotent.
func (w *Widget) stopTypewriter() {
	w.typing = false
	if w.twTask != nil {
		w.twTask.Cancel()
		w.twTask = nil
	}
}

// scheduleTypewriterResume is called with the lock held. The animation restarts a
// beat after the widget returns to idle, matching the collapse transition.
func (w *Widget) scheduleTypewriterResume() {
	if w.typing || w.closed {
		return
	}
	w.twTask = w.sched.AfterFunc(resumeDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed || w.typing || w.state != StateCollapsed {
			return
		}
		w.startTypewriter()
	})
}

func (w *Widget) typeStep() {
	text := w.prompts[w.textIdx]
	w.surface.SetPlaceholder(string(text[:w.charIdx]))
	w.charIdx++
	if w.charIdx > len(text) {
		// Single hold at the full text, then straight into the erase phase.
		w.charIdx = len(text)
		w.twTask = w.sched.AfterFunc(erasePause, w.animStep(w.eraseStep))
		return
	}
	delay := typeStepMin + time.Duration(w.intN(typeStepJitter))*time.Millisecond
	w.twTask = w.sched.AfterFunc(delay, w.animStep(w.typeStep))
}

func (w *Widget) eraseStep() {
	text := w.prompts[w.textIdx]
	if w.charIdx > 0 {
		w.charIdx--
		w.surface.SetPlaceholder(string(text[:w.charIdx]))
		w.twTask = w.sched.AfterFunc(eraseStepDelay, w.animStep(w.eraseStep))
		return
	}
	w.textIdx = (w.textIdx + 1) % len(w.prompts)
	w.twTask = w.sched.AfterFunc(nextTextPause, w.animStep(func() {
		w.charIdx = 0
		w.typeStep()
	}))
}

// animStep wraps a typewriter continuation with the lock and the cancellation
// guard.
func (w *Widget) animStep(fn func()) func() {
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.typing || w.closed {
			return
		}
		fn()
	}
}
