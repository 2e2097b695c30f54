// Package markdown extracts page titles from Markdown documents.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New().Parser()

// Title returns the page title of a Markdown document: the `title` field of
// its YAML frontmatter when present, otherwise the text of the first
// level-1 heading. It returns "" when the document has neither.
func Title(content []byte) string {
	fm, body, _ := SplitFrontmatter(content)
	if title := fm.Title(); title != "" {
		return title
	}
	if body == nil {
		// Unterminated frontmatter is treated as plain Markdown.
		body = content
	}
	return FirstHeading(body, 1)
}

// FirstHeading returns the plain text of the first heading of the given
// level, with inline markup removed and whitespace collapsed.
func FirstHeading(body []byte, level int) string {
	root := mdParser.Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if h.Level != level {
			return gmast.WalkSkipChildren, nil
		}
		var buf bytes.Buffer
		inlineText(&buf, h, body)
		if t := strings.Join(strings.Fields(buf.String()), " "); t != "" {
			title = t
			return gmast.WalkStop, nil
		}
		return gmast.WalkSkipChildren, nil
	})
	return title
}

func inlineText(buf *bytes.Buffer, n gmast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(node.Value)
		case *gmast.AutoLink:
			buf.Write(node.Label(source))
		case *gmast.RawHTML:
			// dropped
		default:
			inlineText(buf, c, source)
		}
	}
}
