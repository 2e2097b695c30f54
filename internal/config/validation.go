package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if len(c.Repositories) == 0 {
		return errors.ValidationError("no repositories configured").Build()
	}

	seen := make(map[string]string, len(c.Repositories))
	for _, r := range c.Repositories {
		if r.Owner == "" || r.Repo == "" {
			return errors.ValidationError("repository entries must be owner/name").Build()
		}
		// Output directories are keyed by repository name, so two owners
		// publishing the same name would overwrite each other.
		key := strings.ToLower(r.Name())
		if prev, dup := seen[key]; dup {
			return errors.ValidationError(fmt.Sprintf("repositories %s and %s share the output directory %q", prev, r.FullName(), r.Name())).Build()
		}
		seen[key] = r.FullName()
	}

	if u, err := url.Parse(c.GitHub.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ValidationError(fmt.Sprintf("invalid github.api_url %q", c.GitHub.APIURL)).Build()
	}
	if c.GitHub.Timeout < 0 {
		return errors.ValidationError("github.timeout must not be negative").Build()
	}
	if strings.TrimSpace(c.GitHub.TokenEnv) == "" {
		return errors.ValidationError("github.token_env must name an environment variable").Build()
	}

	home := c.Output.HomePage
	if filepath.IsAbs(home) || strings.ContainsAny(home, `/\`) || !strings.HasSuffix(home, ".md") {
		return errors.ValidationError(fmt.Sprintf("output.home_page %q must be a Markdown file name at the root of the output directory", home)).Build()
	}

	if c.Nav.LabelSource == "" {
		return errors.ValidationError("nav.label_source must be one of: filename, heading").Build()
	}
	if strings.ContainsAny(c.MkDocs.NavKey, ": \t") {
		return errors.ValidationError(fmt.Sprintf("invalid mkdocs.nav_key %q", c.MkDocs.NavKey)).Build()
	}
	return nil
}
