// Package format turns raw model or fallback text into display markup that is safe to
// insert into the page. The only tags it ever emits are anchor, strong, and em tags it
// constructs itself; angle brackets found in the source text are escaped first.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Markup the formatter itself produces, matched up front so running the formatter
	// over its own output leaves it untouched. The shapes are exact: https anchors
	// carry the literal target/rel tail, tel and mailto anchors carry no attributes.
	// An anchor that deviates in any way is not ours and gets escaped like any other
	// angle-bracketed text.
	reOwnMarkup = regexp.MustCompile(`<a href="https?://[^"]*" target="_blank" rel="noopener">[^<]*</a>|<a href="(?:tel|mailto):[^"]*">[^<]*</a>|<strong>[^<]*</strong>|<em>[^<]*</em>`)

	reMarkdownLink = regexp.MustCompile(`\[([^\[\]]+)\]\(([^()\s]+)\)`)
	reBold         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic       = regexp.MustCompile(`\*([^*\n]+)\*`)
	rePhone        = regexp.MustCompile(`\+\d{1,3}(?:[\s-]?\d{2,4}){2,4}`)
	reEmail        = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reBareURL      = regexp.MustCompile(`(?i)\b(?:https?://[^\s<>()"']+|www\.[^\s<>()"']+|(?:[a-z0-9-]+\.)+(?:com|org|net|io|dev|lk)(?:/[^\s<>()"']*)?)`)

	angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// Hosts with a canonical display name. Keys are hosts with any www. prefix removed.
var canonicalNames = map[string]string{
	"github.com":    "GitHub",
	"instagram.com": "Instagram",
	"x.com":         "X (Twitter)",
	"twitter.com":   "X (Twitter)",
	"opensocial.lk": "OpenSocial",
}

const trailingPunctuation = ".,!?;:"

// Render applies the formatting passes to raw and returns display markup. The pass
// order is fixed: markdown links, bold, italic, phone numbers, emails, then bare URLs.
// Each pass shields its output from the following ones, so text already converted is
// never converted again. Empty input is returned unchanged.
func Render(raw string) string {
	if raw == "" {
		return raw
	}
	// Protector tokens are NUL-delimited, so the input must never carry a NUL or a
	// crafted token could expand into someone else's markup during restore.
	raw = strings.ReplaceAll(raw, "\x00", "")

	var p protector
	s := p.shieldExisting(raw)
	s = angleEscaper.Replace(s)
	s = p.markdownLinks(s)
	s = p.emphasis(s)
	s = p.phones(s)
	s = p.emails(s)
	s = p.bareURLs(s)
	return p.restore(s)
}

// protector swaps finished markup for opaque tokens while later passes run. Tokens
// contain a NUL byte on each side, which none of the pass patterns can match across.
type protector struct {
	saved []string
}

func (p *protector) keep(markup string) string {
	p.saved = append(p.saved, markup)
	return fmt.Sprintf("\x00%d\x00", len(p.saved)-1)
}

func (p *protector) shieldExisting(s string) string {
	return reOwnMarkup.ReplaceAllStringFunc(s, p.keep)
}

func (p *protector) markdownLinks(s string) string {
	return reMarkdownLink.ReplaceAllStringFunc(s, func(m string) string {
		sub := reMarkdownLink.FindStringSubmatch(m)
		label, url := sub[1], strings.TrimRight(sub[2], trailingPunctuation)
		if name := canonicalName(url); name != "" {
			label = name
		}
		return p.keep(anchor(hrefFor(url), label))
	})
}

func (p *protector) emphasis(s string) string {
	s = reBold.ReplaceAllStringFunc(s, func(m string) string {
		inner := reBold.FindStringSubmatch(m)[1]
		return p.keep("<strong>" + inner + "</strong>")
	})
	return reItalic.ReplaceAllStringFunc(s, func(m string) string {
		inner := reItalic.FindStringSubmatch(m)[1]
		return p.keep("<em>" + inner + "</em>")
	})
}

func (p *protector) phones(s string) string {
	return rePhone.ReplaceAllStringFunc(s, func(m string) string {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, m)
		return p.keep(fmt.Sprintf(`<a href="tel:+%s">%s</a>`, digits, m))
	})
}

func (p *protector) emails(s string) string {
	return reEmail.ReplaceAllStringFunc(s, func(m string) string {
		return p.keep(fmt.Sprintf(`<a href="mailto:%s">%s</a>`, m, m))
	})
}

func (p *protector) bareURLs(s string) string {
	return reBareURL.ReplaceAllStringFunc(s, func(m string) string {
		url := strings.TrimRight(m, trailingPunctuation)
		tail := m[len(url):]
		label := url
		if name := canonicalName(url); name != "" {
			label = name
		}
		return p.keep(anchor(hrefFor(url), label)) + tail
	})
}

// restore expands tokens back into markup. Kept markup can itself contain tokens when
// a pass wrapped already-shielded text, so expansion repeats until none remain.
func (p *protector) restore(s string) string {
	for range p.saved {
		if !strings.Contains(s, "\x00") {
			break
		}
		for i, markup := range p.saved {
			s = strings.ReplaceAll(s, fmt.Sprintf("\x00%d\x00", i), markup)
		}
	}
	return s
}

func anchor(href, label string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, href, label)
}

func hrefFor(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

func canonicalName(url string) string {
	host := url
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return canonicalNames[strings.ToLower(host)]
}
