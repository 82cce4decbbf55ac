package format_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/opensocial-lk/opensocial-web-ui/internal/format"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty input returned unchanged",
			in:   "",
			want: "",
		},
		{
			name: "plain text untouched",
			in:   "Just a plain sentence.",
			want: "Just a plain sentence.",
		},
		{
			name: "markdown link with canonical github label",
			in:   "See [the code](https://github.com/opensocial-lk).",
			want: `See <a href="https://github.com/opensocial-lk" target="_blank" rel="noopener">GitHub</a>.`,
		},
		{
			name: "markdown link keeps supplied label for unknown host",
			in:   "Read [the docs](https://example.org/docs)",
			want: `Read <a href="https://example.org/docs" target="_blank" rel="noopener">the docs</a>`,
		},
		{
			name: "trailing punctuation stripped from link url",
			in:   "Go to [repo](https://github.com/opensocial-lk.)",
			want: `Go to <a href="https://github.com/opensocial-lk" target="_blank" rel="noopener">GitHub</a>`,
		},
		{
			name: "bold and italic",
			in:   "This is **very** important and *quite* nice",
			want: "This is <strong>very</strong> important and <em>quite</em> nice",
		},
		{
			name: "phone number becomes tel link",
			in:   "Call +94 77 123 4567 anytime",
			want: `Call <a href="tel:+94771234567">+94 77 123 4567</a> anytime`,
		},
		{
			name: "email becomes mailto link",
			in:   "Write to hello@opensocial.lk for details",
			want: `Write to <a href="mailto:hello@opensocial.lk">hello@opensocial.lk</a> for details`,
		},
		{
			name: "bare https url",
			in:   "Visit https://example.org/page now",
			want: `Visit <a href="https://example.org/page" target="_blank" rel="noopener">https://example.org/page</a> now`,
		},
		{
			name: "bare known host gets canonical label and scheme",
			in:   "Find us on instagram.com/openrockets today",
			want: `Find us on <a href="https://instagram.com/openrockets" target="_blank" rel="noopener">Instagram</a> today`,
		},
		{
			name: "www prefix url",
			in:   "Also www.twitter.com/openrockets works",
			want: `Also <a href="https://www.twitter.com/openrockets" target="_blank" rel="noopener">X (Twitter)</a> works`,
		},
		{
			name: "url inside markdown link is not converted twice",
			in:   "[OpenSocial](https://opensocial.lk) is live",
			want: `<a href="https://opensocial.lk" target="_blank" rel="noopener">OpenSocial</a> is live`,
		},
		{
			name: "angle brackets escaped",
			in:   "use <script>alert(1)</script> wisely",
			want: "use &lt;script&gt;alert(1)&lt;/script&gt; wisely",
		},
		{
			name: "trailing punctuation after bare url stays outside anchor",
			in:   "See github.com/opensocial-lk!",
			want: `See <a href="https://github.com/opensocial-lk" target="_blank" rel="noopener">GitHub</a>!`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format.Render(tt.in); got != tt.want {
				t.Errorf("Render(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	inputs := []string{
		"See [the code](https://github.com/opensocial-lk).",
		"This is **very** important and *quite* nice",
		"Call +94 77 123 4567 or write hello@opensocial.lk",
		"Visit https://example.org and instagram.com/openrockets",
		"Mixed: [repo](github.com/opensocial-lk) with **bold** and www.opensocial.lk",
	}

	for _, in := range inputs {
		once := format.Render(in)
		twice := format.Render(once)
		if once != twice {
			t.Errorf("Render is not idempotent for %q:\n once %q\ntwice %q", in, once, twice)
		}
	}
}

// ownMarkup mirrors the exact tag shapes Render is allowed to emit. Stripping
// these from the output must leave no angle brackets behind.
var ownMarkup = regexp.MustCompile(`<a href="https?://[^"]*" target="_blank" rel="noopener">[^<]*</a>|<a href="(?:tel|mailto):[^"]*">[^<]*</a>|<strong>[^<]*</strong>|<em>[^<]*</em>`)

func assertOnlyOwnMarkup(t *testing.T, in, got string) {
	t.Helper()
	if stripped := ownMarkup.ReplaceAllString(got, ""); strings.ContainsAny(stripped, "<>") {
		t.Errorf("Render(%q) emitted markup it did not construct: %q", in, got)
	}
}

func TestRenderNeverEmitsRawAngleBrackets(t *testing.T) {
	in := "a < b and b > c with [link](https://example.org) and <b>html</b>"
	assertOnlyOwnMarkup(t, in, format.Render(in))
}

func TestRenderEscapesUpstreamAnchors(t *testing.T) {
	t.Run("script scheme", func(t *testing.T) {
		in := `click <a href="javascript:alert(1)">here</a> now`
		got := format.Render(in)

		want := `click &lt;a href="javascript:alert(1)"&gt;here&lt;/a&gt; now`
		if got != want {
			t.Errorf("Render(%q)\n got %q\nwant %q", in, got, want)
		}
	})

	t.Run("extra attributes", func(t *testing.T) {
		in := `<a href="https://example.org" onmouseover="alert(1)">x</a>`
		got := format.Render(in)

		if !strings.Contains(got, `&lt;a href=`) {
			t.Errorf("Render(%q) did not escape the upstream anchor: %q", in, got)
		}
		assertOnlyOwnMarkup(t, in, got)
	})
}

func TestRenderStripsInputNULBytes(t *testing.T) {
	in := "\x000\x00 and [repo](https://github.com/opensocial-lk)"
	got := format.Render(in)

	if strings.Contains(got, "\x00") {
		t.Fatalf("Render(%q) leaked NUL bytes: %q", in, got)
	}
	if n := strings.Count(got, "<a "); n != 1 {
		t.Errorf("Render(%q) produced %d anchors, want exactly the markdown link: %q", in, n, got)
	}
	assertOnlyOwnMarkup(t, in, got)
}
