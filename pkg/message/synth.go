package message

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlToText synthesizes a plaintext rendering of an HTML body:
// <br>-like breaks become newlines and every remaining tag is
// stripped. Block structure other than <br> is not interpreted.
func htmlToText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed markup; either way we keep
			// whatever text was extracted so far.
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if strings.EqualFold(string(name), "br") {
				b.WriteByte('\n')
			}
		}
	}
}

// textToHTML synthesizes an HTML rendering of a plaintext body by
// substituting a line break tag for every newline.
func textToHTML(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>\n")
}
