package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RepositoryRef identifies a GitHub repository as owner/name. Branch is
// optional; when empty the repository's default branch is resolved at fetch time.
type RepositoryRef struct {
	Owner  string `yaml:"-"`
	Repo   string `yaml:"-"`
	Branch string `yaml:"-"`
}

// ParseRepositoryRef parses "owner/name".
func ParseRepositoryRef(s string) (RepositoryRef, error) {
	s = strings.TrimSpace(s)
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepositoryRef{}, fmt.Errorf("invalid repository %q: expected owner/name", s)
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return RepositoryRef{}, fmt.Errorf("invalid repository %q: name cannot start with a dot", s)
	}
	return RepositoryRef{Owner: owner, Repo: name}, nil
}

// MustParseRepositoryRef is ParseRepositoryRef for static lists; it panics on bad input.
func MustParseRepositoryRef(s string) RepositoryRef {
	ref, err := ParseRepositoryRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// FullName returns owner/name.
func (r RepositoryRef) FullName() string { return r.Owner + "/" + r.Repo }

// Name is the repository name; it doubles as the output directory name.
func (r RepositoryRef) Name() string { return r.Repo }

func (r RepositoryRef) String() string { return r.FullName() }

// repositoryEntry is the long form accepted in configuration files.
type repositoryEntry struct {
	Name   string `yaml:"name"`
	Branch string `yaml:"branch,omitempty"`
}

// UnmarshalYAML accepts either "owner/name" or {name: owner/name, branch: x}.
func (r *RepositoryRef) UnmarshalYAML(node *yaml.Node) error {
	var entry repositoryEntry
	switch node.Kind {
	case yaml.ScalarNode:
		entry.Name = node.Value
	case yaml.MappingNode:
		if err := node.Decode(&entry); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: repository must be a string or mapping", node.Line)
	}

	ref, err := ParseRepositoryRef(entry.Name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	ref.Branch = strings.TrimSpace(entry.Branch)
	*r = ref
	return nil
}

// MarshalYAML emits the short form unless a branch is pinned.
func (r RepositoryRef) MarshalYAML() (any, error) {
	if r.Branch == "" {
		return r.FullName(), nil
	}
	return repositoryEntry{Name: r.FullName(), Branch: r.Branch}, nil
}
