package chat_test

import (
	"strings"
	"testing"

	"github.com/opensocial-lk/opensocial-web-ui/internal/chat"
	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

func TestFallbackBranches(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantText   string
		wantIntent models.NavigationIntent
	}{
		{
			name:       "github keyword opens repository",
			message:    "Where is the GitHub link?",
			wantText:   chat.RepoURL,
			wantIntent: models.OpenLink(chat.RepoURL),
		},
		{
			name:       "repo keyword opens repository",
			message:    "show me the repo",
			wantText:   chat.RepoURL,
			wantIntent: models.OpenLink(chat.RepoURL),
		},
		{
			name:     "why opensocial pitch",
			message:  "Why OpenSocial?",
			wantText: "OpenSocial",
		},
		{
			name:       "foundation blurb opens instagram",
			message:    "What is OpenRockets?",
			wantText:   "OpenRockets",
			wantIntent: models.OpenLink(chat.InstagramURL),
		},
		{
			name:     "prize question",
			message:  "What will winners receive?",
			wantText: "Top 3 contributors",
		},
		{
			name:     "contribute question",
			message:  "How to start building this?",
			wantText: "pull request",
		},
		{
			name:     "contact block",
			message:  "what is your phone number",
			wantText: chat.ContactEmail,
		},
		{
			name:     "unknown message falls through to generic reply",
			message:  "tell me a joke",
			wantText: "Good question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chat.Fallback(tt.message)
			if !strings.Contains(got.Markup, tt.wantText) {
				t.Errorf("Fallback(%q).Markup = %q, want it to contain %q", tt.message, got.Markup, tt.wantText)
			}
			if got.Intent != tt.wantIntent {
				t.Errorf("Fallback(%q).Intent = %+v, want %+v", tt.message, got.Intent, tt.wantIntent)
			}
		})
	}
}

func TestFallbackGithubAnyCase(t *testing.T) {
	for _, msg := range []string{"github", "GITHUB please", "Is there a GitHub?", "gItHuB???"} {
		got := chat.Fallback(msg)
		if got.Intent != models.OpenLink(chat.RepoURL) {
			t.Errorf("Fallback(%q).Intent = %+v, want open-link intent for %s", msg, got.Intent, chat.RepoURL)
		}
	}
}

func TestFallbackDeterministic(t *testing.T) {
	messages := []string{
		"Where is the GitHub link?",
		"WHY opensocial",
		"random question",
		"contact",
	}
	for _, msg := range messages {
		first := chat.Fallback(msg)
		second := chat.Fallback(msg)
		if first != second {
			t.Errorf("Fallback(%q) is not deterministic: %+v vs %+v", msg, first, second)
		}
		upper := chat.Fallback(strings.ToUpper(msg))
		if first != upper {
			t.Errorf("Fallback(%q) differs from upper-cased input: %+v vs %+v", msg, first, upper)
		}
	}
}
