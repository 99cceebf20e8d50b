package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

func htmlText(data []byte) (string, error) {
	node, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	walk(node, &b, false)
	return compactWhitespace(b.String()), nil
}

func walk(n *html.Node, b *strings.Builder, hidden bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "head":
			hidden = true
		case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n")
		}
	}
	if !hidden && n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, b, hidden)
	}
}

// compactWhitespace collapses runs of blanks within lines and drops empty lines.
func compactWhitespace(s string) string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.Join(strings.Fields(ln), " "); ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}
