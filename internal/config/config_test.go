package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// isolate runs the test from an empty directory with a clean docsync environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{"DOCS_PAT", "DOCSYNC_API_URL", "DOCSYNC_OUTPUT_DIR", "DOCSYNC_MKDOCS_CONFIG", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Len(t, cfg.Repositories, len(DefaultRepositories))
	assert.Equal(t, "at1337github", cfg.Repositories[0].Owner)
	assert.Equal(t, "evidence-corpus-pipeline", cfg.Repositories[0].Name())
	assert.Equal(t, DefaultAPIURL, cfg.GitHub.APIURL)
	assert.Equal(t, "DOCS_PAT", cfg.GitHub.TokenEnv)
	assert.Equal(t, 30*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "docs", cfg.Output.Directory)
	assert.Equal(t, "index.md", cfg.Output.HomePage)
	assert.Equal(t, "mkdocs.yml", cfg.MkDocs.ConfigFile)
	assert.Equal(t, "nav", cfg.MkDocs.NavKey)
	assert.Equal(t, LabelSourceFilename, cfg.Nav.LabelSource)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("DOCS_ORG", "acme")
	t.Setenv("DOCSYNC_OUTPUT_DIR", "site-docs")

	content := `repositories:
  - ${DOCS_ORG}/handbook
  - name: acme/api
    branch: develop
github:
  timeout: 5s
nav:
  label_source: Heading
`
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "acme/handbook", cfg.Repositories[0].FullName())
	assert.Empty(t, cfg.Repositories[0].Branch)
	assert.Equal(t, "develop", cfg.Repositories[1].Branch)
	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "site-docs", cfg.Output.Directory)
	assert.Equal(t, LabelSourceHeading, cfg.Nav.LabelSource)
}

func TestLoad_PicksUpDefaultFileAndDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("repositories: [acme/one]\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCSYNC_API_URL=http://127.0.0.1:9999\n"), 0o600))
	// godotenv never overrides variables that are already set, so unset the
	// isolated empty value first.
	require.NoError(t, os.Unsetenv("DOCSYNC_API_URL"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []RepositoryRef{{Owner: "acme", Repo: "one"}}, cfg.Repositories)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.GitHub.APIURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid repository", content: "repositories: [not-a-repo]\n"},
		{name: "duplicate output directory", content: "repositories: [a/docs, b/docs]\n"},
		{name: "unknown label source", content: "nav:\n  label_source: random\n"},
		{name: "nested home page", content: "output:\n  home_page: sub/index.md\n"},
		{name: "malformed yaml", content: "repositories: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "docsync.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.IsClassified(err))
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load("missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestCredential(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	_, err = cfg.Credential()
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "DOCS_PAT environment variable not set", classified.Message())

	t.Setenv("DOCS_PAT", "ghp_example")
	token, err := cfg.Credential()
	require.NoError(t, err)
	assert.Equal(t, "ghp_example", token)
}

func TestInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "docsync.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Repositories, len(DefaultRepositories))
}
