package models

// IntentKind identifies the navigation side effect attached to a reply.
type IntentKind string

const (
	// IntentNone means the reply carries no navigation side effect.
	IntentNone IntentKind = "none"
	// IntentOpenLink means an external URL should be opened in a new browsing context.
	IntentOpenLink IntentKind = "open_link"
	// IntentScrollTo means the page should smooth-scroll to a named section anchor.
	IntentScrollTo IntentKind = "scroll_to"
)

// NavigationIntent is a deferred side effect attached to a reply. It must never fire
// before the reply's text has been rendered; the widget schedules it with a short delay
// after the response is shown.
type NavigationIntent struct {
	Kind    IntentKind `json:"kind"`
	URL     string     `json:"url,omitempty"`
	Section string     `json:"section,omitempty"`
}

// Reply is the payload produced for a single user message. Markup is sanitized display
// markup safe to insert into the page; the only tags it may contain are the anchor,
// strong, and em tags the formatter constructs itself.
type Reply struct {
	Markup string
	Intent NavigationIntent
}

// OpenLink builds an intent to open url in a new browsing context.
func OpenLink(url string) NavigationIntent {
	return NavigationIntent{Kind: IntentOpenLink, URL: url}
}

// ScrollTo builds an intent to scroll to the section with the given anchor id.
func ScrollTo(section string) NavigationIntent {
	return NavigationIntent{Kind: IntentScrollTo, Section: section}
}
