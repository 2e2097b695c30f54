// Package mkdocs rewrites the navigation of an mkdocs.yml file without
// disturbing anything else in it.
//
// The file is not round-tripped through a YAML library, which would drop
// comments and mangle tags such as !!python/name. Instead it is split into
// top-level sections of raw text and only the navigation section is
// replaced.
package mkdocs

import (
	"regexp"
	"strings"
)

// keyLine matches a block mapping key at column zero: "key:" followed by
// whitespace or the end of the line.
var keyLine = regexp.MustCompile(`^(?:"([^"]+)"|'([^']+)'|([^\s#'"?:,\[\]{}-][^:#]*?|-[^\s:][^:#]*?))[ \t]*:(?:[ \t]|\r?\n|$)`)

// Section is a run of lines that starts at column zero.
type Section struct {
	Key  string // Top-level mapping key; empty for comments, markers and other text
	Text string
}

// Document is a mkdocs.yml split into top-level sections. Concatenating the
// sections reproduces the input byte for byte.
type Document struct {
	sections []Section
}

// Parse splits text into sections. A section starts at every non-blank
// line at column zero, except comments that are followed by indented
// content, which stay with the section they interrupt.
func Parse(text string) *Document {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	d := &Document{}
	var cur *Section
	for i, line := range lines {
		if cur == nil || startsSection(lines, i) {
			d.sections = append(d.sections, Section{Key: keyOf(line)})
			cur = &d.sections[len(d.sections)-1]
		}
		cur.Text += line
	}
	return d
}

func startsSection(lines []string, i int) bool {
	line := lines[i]
	if isBlank(line) || isIndented(line) {
		return false
	}
	if !isComment(line) {
		return true
	}
	for _, next := range lines[i+1:] {
		if isBlank(next) || isComment(next) {
			continue
		}
		return !isIndented(next)
	}
	return true
}

func keyOf(line string) string {
	trimmed := strings.TrimRight(line, "\r\n")
	if trimmed == "---" || trimmed == "..." || strings.HasPrefix(trimmed, "--- ") {
		return ""
	}
	m := keyLine.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}

func isBlank(line string) bool    { return strings.TrimSpace(line) == "" }
func isIndented(line string) bool { return line[0] == ' ' || line[0] == '\t' }
func isComment(line string) bool  { return line[0] == '#' }

// keys returns the top-level keys in order of appearance.
func (d *Document) keys() []string {
	var keys []string
	for _, s := range d.sections {
		if s.Key != "" {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// Section returns the raw text of the first section for key.
func (d *Document) Section(key string) (string, bool) {
	for _, s := range d.sections {
		if s.Key == key {
			return s.Text, true
		}
	}
	return "", false
}

// SetSection replaces the first section for key with body, keeping the
// blank lines that separated it from the next section. A missing key is
// appended at the end. It reports whether the document changed.
func (d *Document) SetSection(key, body string) bool {
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	for i, s := range d.sections {
		if s.Key != key {
			continue
		}
		text := body + trailingBlank(s.Text)
		if text == s.Text {
			return false
		}
		d.sections[i].Text = text
		return true
	}

	if n := len(d.sections); n > 0 && !strings.HasSuffix(d.sections[n-1].Text, "\n") {
		d.sections[n-1].Text += "\n"
	}
	d.sections = append(d.sections, Section{Key: key, Text: body})
	return true
}

// trailingBlank returns the blank lines at the end of text.
func trailingBlank(text string) string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	start := len(lines)
	for start > 0 && isBlank(lines[start-1]) {
		start--
	}
	return strings.Join(lines[start:], "")
}

// String reassembles the document.
func (d *Document) String() string {
	var b strings.Builder
	for _, s := range d.sections {
		b.WriteString(s.Text)
	}
	return b.String()
}
