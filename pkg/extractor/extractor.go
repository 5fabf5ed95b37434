package extractor

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// UnknownType tags blocks without a resolvable @type.
const UnknownType = "Unknown"

const ldJSONType = "application/ld+json"

// Block is a single JSON-LD entity
type Block map[string]any

// Type returns the canonical @type of the block. When @type is a list the
// first entry wins.
func (b Block) Type() string {
	switch t := b["@type"].(type) {
	case string:
		if t != "" {
			return t
		}
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok && s != "" {
				return s
			}
		}
	}

	return UnknownType
}

// Extractor handles content extraction from HTML
type Extractor struct {
	textOptions trafilatura.Options
}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{
		textOptions: trafilatura.Options{},
	}
}

// StructuredData returns every JSON-LD entity embedded in the page. Blocks
// that fail to parse are skipped; arrays and @graph collections are
// flattened.
func (e *Extractor) StructuredData(htmlContent []byte) []Block {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var blocks []Block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isLDJSON(n) {
			var v any
			if err := json.Unmarshal([]byte(extractText(n)), &v); err == nil {
				blocks = flatten(v, blocks)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return blocks
}

// Types maps blocks to their canonical type names.
func Types(blocks []Block) []string {
	types := make([]string, 0, len(blocks))
	for _, b := range blocks {
		types = append(types, b.Type())
	}

	return types
}

// RelativeLinks returns the root-relative hrefs on the page in document
// order, skipping fragment, query-string and protocol-relative links.
func (e *Extractor) RelativeLinks(htmlContent []byte) []string {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := strings.TrimSpace(attr(n, "href"))
			if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") &&
				!strings.ContainsAny(href, "#?") {
				links = append(links, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return uniqueStrings(links)
}

// MainText extracts the readable main content of the page using trafilatura
func (e *Extractor) MainText(htmlContent []byte) (string, error) {
	result, err := trafilatura.Extract(bytes.NewReader(htmlContent), e.textOptions)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}

	return result.ContentText, nil
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func flatten(v any, out []Block) []Block {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			out = flatten(item, out)
		}
	case map[string]any:
		if graph, ok := t["@graph"].([]any); ok {
			return flatten(graph, out)
		}
		out = append(out, Block(t))
	}

	return out
}

func isLDJSON(n *html.Node) bool {
	typ := strings.ToLower(strings.TrimSpace(attr(n, "type")))
	return typ == ldJSONType
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}

	return ""
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	result := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	return result
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return text.String()
}
