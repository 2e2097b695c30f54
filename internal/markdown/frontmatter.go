package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opens a YAML
// frontmatter block that is never closed.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Frontmatter holds the parsed `---` block at the top of a page.
type Frontmatter map[string]any

// Title returns the string `title` field, trimmed.
func (f Frontmatter) Title() string {
	s, _ := f["title"].(string)
	return strings.TrimSpace(s)
}

// SplitFrontmatter separates YAML frontmatter from the Markdown body.
// Documents without frontmatter return an empty map and the full input.
// The closing delimiter may be the last line of the file. Frontmatter that
// is not valid YAML returns an empty map, the body and the parse error.
// Unterminated frontmatter returns ErrMissingClosingDelimiter and a nil body.
func SplitFrontmatter(content []byte) (Frontmatter, []byte, error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Frontmatter{}, content, nil
	}

	rest := content[len(open):]
	closeAtEOF := []byte(nl + "---")
	var raw, body []byte
	switch idx := bytes.Index(rest, []byte(nl+"---"+nl)); {
	case bytes.HasPrefix(rest, open):
		body = rest[len(open):]
	case string(rest) == "---":
		body = rest[len(rest):]
	case idx >= 0:
		raw = rest[:idx+len(nl)]
		body = rest[idx+len(nl)+len(open):]
	case bytes.HasSuffix(rest, closeAtEOF):
		raw = rest[:len(rest)-len("---")]
		body = rest[len(rest):]
	default:
		return nil, nil, ErrMissingClosingDelimiter
	}

	fm := Frontmatter{}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &fm); err != nil {
			return Frontmatter{}, body, fmt.Errorf("parse frontmatter: %w", err)
		}
		if fm == nil {
			fm = Frontmatter{}
		}
	}
	return fm, body, nil
}
