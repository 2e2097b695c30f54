package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// DefaultConfigFile is picked up automatically when no --config flag is given.
const DefaultConfigFile = "docsync.yaml"

// Config represents the application configuration
type Config struct {
	Repositories []RepositoryRef `yaml:"repositories"`
	GitHub       GitHubConfig    `yaml:"github"`
	Output       OutputConfig    `yaml:"output"`
	MkDocs       MkDocsConfig    `yaml:"mkdocs"`
	Nav          NavConfig       `yaml:"nav"`
	Metrics      MetricsConfig   `yaml:"metrics,omitempty"`
	Logging      LoggingConfig   `yaml:"logging,omitempty"`
}

// GitHubConfig configures the REST API client.
type GitHubConfig struct {
	APIURL   string        `yaml:"api_url,omitempty"`
	TokenEnv string        `yaml:"token_env"` // Name of the environment variable holding the token
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// OutputConfig describes the local documentation tree.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	HomePage  string `yaml:"home_page"` // Preserved across runs
}

// MkDocsConfig locates the site configuration whose navigation is rewritten.
type MkDocsConfig struct {
	ConfigFile string `yaml:"config_file"`
	NavKey     string `yaml:"nav_key"`
}

// NavConfig controls navigation labels.
type NavConfig struct {
	HomeLabel     string      `yaml:"home_label"`
	OverviewLabel string      `yaml:"overview_label"`
	LabelSource   LabelSource `yaml:"label_source"`
}

// MetricsConfig controls the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig mirrors LOG_LEVEL / LOG_FORMAT; the environment wins.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load reads configuration from configPath, the environment and .env files.
// An empty configPath falls back to DefaultConfigFile when it exists, and to
// built-in defaults otherwise.
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(""); err != nil {
		return nil, errors.ConfigError("failed to load .env file").WithCause(err).Build()
	}

	if configPath == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configPath = DefaultConfigFile
		}
	}

	cfg := &Config{}
	if configPath != "" {
		if err := readFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	applyDefaults(cfg)

	env, err := LoadEnv()
	if err != nil {
		return nil, errors.ConfigError("invalid environment settings").WithCause(err).Build()
	}
	env.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(configPath string, cfg *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).Build()
		}
		return errors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return errors.ConfigError("failed to parse config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}

// Credential returns the API token from the configured environment variable.
func (c *Config) Credential() (string, error) {
	token := os.Getenv(c.GitHub.TokenEnv)
	if token == "" {
		return "", errors.ConfigError(fmt.Sprintf("%s environment variable not set", c.GitHub.TokenEnv)).Build()
	}
	return token, nil
}

// Init writes a sample configuration file populated with the defaults.
func Init(configPath string, force bool) error {
	if configPath == "" {
		configPath = DefaultConfigFile
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	cfg := &Config{}
	applyDefaults(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.InternalError("failed to marshal config").WithCause(err).Build()
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
