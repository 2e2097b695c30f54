package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvSettings holds environment overrides. The API token itself is read
// through Config.Credential because its variable name is configurable.
type EnvSettings struct {
	// APIURL overrides github.api_url.
	// Env: DOCSYNC_API_URL
	APIURL string `envconfig:"DOCSYNC_API_URL"`

	// OutputDir overrides output.directory.
	// Env: DOCSYNC_OUTPUT_DIR
	OutputDir string `envconfig:"DOCSYNC_OUTPUT_DIR"`

	// MkDocsConfig overrides mkdocs.config_file.
	// Env: DOCSYNC_MKDOCS_CONFIG
	MkDocsConfig string `envconfig:"DOCSYNC_MKDOCS_CONFIG"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`

	// LogFormat is the log output format (text or json).
	// Env: LOG_FORMAT
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// LoadEnv reads EnvSettings from the process environment.
func LoadEnv() (EnvSettings, error) {
	var s EnvSettings
	if err := envconfig.Process("", &s); err != nil {
		return EnvSettings{}, err
	}
	return s, nil
}

// Apply overrides cfg with every non-empty setting.
func (s EnvSettings) Apply(cfg *Config) {
	if s.APIURL != "" {
		cfg.GitHub.APIURL = s.APIURL
	}
	if s.OutputDir != "" {
		cfg.Output.Directory = s.OutputDir
	}
	if s.MkDocsConfig != "" {
		cfg.MkDocs.ConfigFile = s.MkDocsConfig
	}
	if s.LogLevel != "" {
		cfg.Logging.Level = NormalizeLogLevel(s.LogLevel)
	}
	if s.LogFormat != "" {
		cfg.Logging.Format = NormalizeLogFormat(s.LogFormat)
	}
}

// LoadDotEnv loads environment variables from a .env file.
// If path is empty, it loads from ".env" in the current directory.
// A missing file is not an error, and existing variables are never overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}
