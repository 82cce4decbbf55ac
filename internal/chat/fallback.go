package chat

import (
	"strings"

	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

// Fixed destinations the widget can point visitors at.
const (
	RepoURL      = "https://github.com/opensocial-lk"
	InstagramURL = "https://instagram.com/openrockets"
	TwitterURL   = "https://x.com/openrockets"
	ContactPhone = "+94 77 123 4567"
	ContactEmail = "hello@opensocial.lk"
)

// fallbackRule pairs a predicate over the lower-cased message with the reply it
// produces. Rules are evaluated top to bottom and the first match wins; there is no
// scoring.
type fallbackRule struct {
	match func(string) bool
	reply models.Reply
}

func anyOf(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

func allOf(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if !strings.Contains(msg, w) {
				return false
			}
		}
		return true
	}
}

var fallbackRules = []fallbackRule{
	{
		match: anyOf("github", "repository", "repo"),
		reply: models.Reply{
			Markup: "Everything lives on [our GitHub](" + RepoURL + "). Opening the repository for you now!",
			Intent: models.OpenLink(RepoURL),
		},
	},
	{
		match: allOf("why", "opensocial"),
		reply: models.Reply{
			Markup: "**OpenSocial** is a social platform built fully in public — every feature on " +
				"this page was shipped by community contributors, and you can change anything you like.",
		},
	},
	{
		match: anyOf("openrockets", "foundation"),
		reply: models.Reply{
			Markup: "**OpenRockets** is a Sri Lankan tech foundation empowering youth through " +
				"open-source innovation. Say hi on [Instagram](" + InstagramURL + ")!",
			Intent: models.OpenLink(InstagramURL),
		},
	},
	{
		match: anyOf("winners", "receive", "prize"),
		reply: models.Reply{
			Markup: "Top 3 contributors get **custom domains**, recognition, and full project ownership!",
		},
	},
	{
		match: anyOf("contribute", "start"),
		reply: models.Reply{
			Markup: "Fork the repository, pick anything that bothers you, and send a pull request — " +
				"that is all it takes to *start building*.",
		},
	},
	{
		match: anyOf("contact", "phone", "email"),
		reply: models.Reply{
			Markup: "Reach the team at " + ContactPhone + " or " + ContactEmail + ".",
		},
	},
}

var genericReply = models.Reply{
	Markup: "Good question! Have a look at the sections above, or ask me about the GitHub repository, " +
		"OpenRockets, or how to contribute.",
}

// Fallback maps a user message to a canned reply. It is a pure function of the
// lower-cased message: the same input always selects the same rule.
func Fallback(message string) models.Reply {
	msg := strings.ToLower(message)
	for _, rule := range fallbackRules {
		if rule.match(msg) {
			return rule.reply
		}
	}
	return genericReply
}
