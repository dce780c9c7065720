// Package markdown extracts document structure from Markdown bodies.
package markdown

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one ATX or setext heading in a document body.
type Heading struct {
	Depth int    `json:"depth" yaml:"depth"`
	Text  string `json:"text" yaml:"text"`
	Slug  string `json:"slug" yaml:"slug"`
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// ExtractHeadings returns the headings of body in document order. Anchor
// slugs are unique within the document; repeats get a numeric suffix.
func ExtractHeadings(body []byte) []Heading {
	root := ParseBody(body)

	headings := make([]Heading, 0)
	seen := map[string]int{}
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		txt := plainText(h, body)
		slug := Slugify(txt)
		if c := seen[slug]; c > 0 {
			seen[slug] = c + 1
			slug = slug + "-" + strconv.Itoa(c)
		} else {
			seen[slug] = 1
		}
		headings = append(headings, Heading{Depth: h.Level, Text: txt, Slug: slug})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// Title returns the text of the first level-1 heading, or "".
func Title(body []byte) string {
	for _, h := range ExtractHeadings(body) {
		if h.Depth == 1 {
			return h.Text
		}
	}
	return ""
}

func plainText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(node.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// Slugify lowercases s, keeps letters, digits, '-' and '_', and turns runs of
// whitespace into a single '-'.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r == ' ' || r == '\t':
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = r == '-'
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
