package mkdocs

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// Splice replaces the key section of text with block and returns the new
// text. The result is checked to still be well-formed YAML.
func Splice(text, key, block string) (string, bool, error) {
	if strings.Contains(text, "\r\n") {
		block = strings.ReplaceAll(strings.ReplaceAll(block, "\r\n", "\n"), "\n", "\r\n")
	}
	doc := Parse(text)
	changed := doc.SetSection(key, block)
	out := doc.String()
	if err := Validate(out); err != nil {
		return "", false, err
	}
	return out, changed, nil
}

// Validate checks that every YAML document in text parses. Application
// tags like !!python/name: or !ENV are kept as plain tags and accepted.
func Validate(text string) error {
	dec := yaml.NewDecoder(strings.NewReader(text))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.NavigationError("updated configuration is not valid YAML").
				WithCause(err).
				Build()
		}
	}
}

// UpdateNav splices block into the configuration file at path under key.
// The file is rewritten only when its content changes. A missing file is a
// configuration error.
func UpdateNav(path, key, block string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, errors.ConfigError(fmt.Sprintf("mkdocs configuration not found: %s", path)).
				WithContext("path", path).
				Build()
		}
		return false, errors.FileSystemError("failed to stat mkdocs configuration").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.FileSystemError("failed to read mkdocs configuration").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	out, changed, err := Splice(string(data), key, block)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return false, classified.WithContext("path", path)
		}
		return false, err
	}
	if !changed {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, errors.FileSystemError("failed to write mkdocs configuration").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return true, nil
}
