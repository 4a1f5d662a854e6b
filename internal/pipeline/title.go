package pipeline

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var firstHeading = cascadia.MustCompile("h1")

// ExtractTitle returns the whitespace-collapsed text of the first <h1> in an
// HTML fragment, or "" if there is none.
func ExtractTitle(fragment string) string {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return ""
	}
	for _, n := range nodes {
		if h := firstHeading.MatchFirst(n); h != nil {
			return strings.Join(strings.Fields(textContent(h)), " ")
		}
	}
	return ""
}

// parseFragment parses HTML with body context to avoid wrapping.
func parseFragment(content string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	return html.ParseFragment(strings.NewReader(content), context)
}

// textContent concatenates the text nodes under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
