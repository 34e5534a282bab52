// Package markup converts rendered citations from their inline HTML
// form to plain text.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip removes inline tags from a rendered citation, leaving plain
// text. Entity references inside text are decoded along the way. A
// literal "<" that opens no tag passes through untouched.
func Strip(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}

// StripAll maps Strip over a rendered bibliography.
func StripAll(entries []string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = Strip(e)
	}
	return out
}
