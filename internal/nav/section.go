package nav

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one navigation item: a leaf pointing at a page, or a section.
type Entry struct {
	Label   string
	Path    string   // Set for leaves
	Section *Section // Set for sections
}

// IsSection reports whether the entry has children.
func (e *Entry) IsSection() bool { return e.Section != nil }

// Section is an insertion-ordered list of uniquely labelled entries.
type Section struct {
	entries []*Entry
	index   map[string]*Entry
}

// NewSection returns an empty section.
func NewSection() *Section {
	return &Section{index: map[string]*Entry{}}
}

// Len returns the number of direct children.
func (s *Section) Len() int { return len(s.entries) }

// Entries returns the direct children in order.
func (s *Section) Entries() []*Entry { return s.entries }

// Get returns the child labelled label.
func (s *Section) Get(label string) (*Entry, bool) {
	e, ok := s.index[label]
	return e, ok
}

// lookup follows labels down nested sections.
func (s *Section) lookup(labels ...string) (*Entry, bool) {
	cur := s
	var e *Entry
	for i, l := range labels {
		var ok bool
		if e, ok = cur.Get(l); !ok {
			return nil, false
		}
		if i < len(labels)-1 {
			if !e.IsSection() {
				return nil, false
			}
			cur = e.Section
		}
	}
	return e, e != nil
}

// AddLeaf appends a page. It returns false when the label is taken.
func (s *Section) AddLeaf(label, path string) bool {
	if _, ok := s.index[label]; ok {
		return false
	}
	s.add(&Entry{Label: label, Path: path}, false)
	return true
}

// AddSection appends a child section and returns it. An existing section
// with the same label is returned as-is; an existing leaf yields nil.
func (s *Section) AddSection(label string) *Section {
	if e, ok := s.index[label]; ok {
		return e.Section
	}
	child := NewSection()
	s.add(&Entry{Label: label, Section: child}, false)
	return child
}

func (s *Section) add(e *Entry, front bool) {
	s.index[e.Label] = e
	if front {
		s.entries = append([]*Entry{e}, s.entries...)
		return
	}
	s.entries = append(s.entries, e)
}

// Leaves returns every page path below s in order.
func (s *Section) Leaves() []string {
	var out []string
	for _, e := range s.entries {
		if e.IsSection() {
			out = append(out, e.Section.Leaves()...)
			continue
		}
		out = append(out, e.Path)
	}
	return out
}

// MarshalYAML emits the section as a sequence of single-key mappings.
func (s *Section) MarshalYAML() (any, error) {
	return s.node(), nil
}

func (s *Section) node() *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, e := range s.entries {
		key := &yaml.Node{}
		key.SetString(e.Label)
		var value *yaml.Node
		if e.IsSection() {
			value = e.Section.node()
		} else {
			value = &yaml.Node{}
			value.SetString(e.Path)
		}
		seq.Content = append(seq.Content, &yaml.Node{
			Kind:    yaml.MappingNode,
			Tag:     "!!map",
			Content: []*yaml.Node{key, value},
		})
	}
	return seq
}

// Nav is the complete site navigation.
type Nav struct {
	*Section
}

// MarshalYAML emits the top-level list.
func (n *Nav) MarshalYAML() (any, error) {
	return n.node(), nil
}

// Block renders the navigation as a top-level block `key:` followed by the
// list, ready to be spliced into mkdocs.yml.
func (n *Nav) Block(key string) (string, error) {
	k := &yaml.Node{}
	k.SetString(key)
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{k, n.node()}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode navigation: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode navigation: %w", err)
	}
	return buf.String(), nil
}

// AddChild appends an existing section under label. It returns false
// when the label is taken.
func (s *Section) AddChild(label string, child *Section) bool {
	if _, ok := s.index[label]; ok {
		return false
	}
	s.add(&Entry{Label: label, Section: child}, false)
	return true
}

func (s *Section) insertFront(label, path string) bool {
	if _, ok := s.index[label]; ok {
		return false
	}
	s.add(&Entry{Label: label, Path: path}, true)
	return true
}
