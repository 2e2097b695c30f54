package config

import "time"

const (
	DefaultAPIURL        = "https://api.github.com"
	DefaultTokenEnv      = "DOCS_PAT"
	DefaultTimeout       = 30 * time.Second
	DefaultOutputDir     = "docs"
	DefaultHomePage      = "index.md"
	DefaultMkDocsConfig  = "mkdocs.yml"
	DefaultNavKey        = "nav"
	DefaultHomeLabel     = "Home"
	DefaultOverviewLabel = "Overview"
)

// DefaultRepositories is the repository list synchronized when the
// configuration does not name any.
var DefaultRepositories = []string{
	"at1337github/evidence-corpus-pipeline",
	"at1337github/Codex_corpus_analysis",
	"at1337github/Matrix_project",
	"at1337github/3track",
	"at1337github/Pattern_Extraction_Pattern_hub",
	"at1337github/Discovery_SMS_hub",
	"at1337github/discovery_sms_corpus_analysis_10_34_01_pm",
	"at1337github/discovery_sms_corpus_analysis_trash_local",
	"at1337github/discovery_sms_corpus_analysis",
	"at1337github/pattern_analysis_forensic_subproject",
	"at1337github/pattern_analysis_workspace",
	"at1337github/pattern_repo_review_copy",
	"at1337github/pattern_extraction_local",
	"at1337github/pattern",
}

func applyDefaults(cfg *Config) {
	if len(cfg.Repositories) == 0 {
		cfg.Repositories = make([]RepositoryRef, 0, len(DefaultRepositories))
		for _, r := range DefaultRepositories {
			cfg.Repositories = append(cfg.Repositories, MustParseRepositoryRef(r))
		}
	}

	if cfg.GitHub.APIURL == "" {
		cfg.GitHub.APIURL = DefaultAPIURL
	}
	if cfg.GitHub.TokenEnv == "" {
		cfg.GitHub.TokenEnv = DefaultTokenEnv
	}
	if cfg.GitHub.Timeout == 0 {
		cfg.GitHub.Timeout = DefaultTimeout
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.HomePage == "" {
		cfg.Output.HomePage = DefaultHomePage
	}

	if cfg.MkDocs.ConfigFile == "" {
		cfg.MkDocs.ConfigFile = DefaultMkDocsConfig
	}
	if cfg.MkDocs.NavKey == "" {
		cfg.MkDocs.NavKey = DefaultNavKey
	}

	if cfg.Nav.HomeLabel == "" {
		cfg.Nav.HomeLabel = DefaultHomeLabel
	}
	if cfg.Nav.OverviewLabel == "" {
		cfg.Nav.OverviewLabel = DefaultOverviewLabel
	}
	if cfg.Nav.LabelSource == "" {
		cfg.Nav.LabelSource = LabelSourceFilename
	} else {
		cfg.Nav.LabelSource = NormalizeLabelSource(string(cfg.Nav.LabelSource))
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}
