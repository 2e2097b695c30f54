package forge

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"
	"golang.org/x/text/encoding/unicode"

	"git.home.luguber.info/inful/docsync/internal/config"
	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/version"
)

const (
	defaultAPIURL  = "https://api.github.com"
	defaultBranch  = "main"
	defaultTimeout = 30 * time.Second
)

// Options configures a GitHubClient.
type Options struct {
	Token   string
	APIURL  string // Empty means api.github.com
	Timeout time.Duration
}

// GitHubClient reads repository metadata, trees and file contents through the
// GitHub REST API. Every failure is returned as a ClassifiedError; use
// OutcomeOf to tell not-found from other failures.
type GitHubClient struct {
	gh *github.Client
}

// NewGitHubClient creates a client authenticated with a bearer token.
func NewGitHubClient(opts Options) (*GitHubClient, error) {
	if opts.Token == "" {
		return nil, errors.AuthError("GitHub client requires a token").Build()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = timeout

	gh := github.NewClient(httpClient)
	gh.UserAgent = version.UserAgent()
	if err := applyBaseURL(gh, opts.APIURL); err != nil {
		return nil, err
	}
	return &GitHubClient{gh: gh}, nil
}

// NewGitHubClientFromConfig builds a client from the loaded configuration.
func NewGitHubClientFromConfig(cfg *config.Config, token string) (*GitHubClient, error) {
	return NewGitHubClient(Options{
		Token:   token,
		APIURL:  cfg.GitHub.APIURL,
		Timeout: cfg.GitHub.Timeout,
	})
}

func applyBaseURL(c *github.Client, baseURL string) error {
	if baseURL == "" || strings.TrimSuffix(baseURL, "/") == defaultAPIURL {
		return nil
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigError(fmt.Sprintf("invalid API URL %q", baseURL)).WithCause(err).Build()
	}
	c.BaseURL = u
	return nil
}

// DefaultBranch returns the repository's default branch, falling back to
// "main" when the API omits it.
func (c *GitHubClient) DefaultBranch(ctx context.Context, ref config.RepositoryRef) (string, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return "", classify(err, "get repository", ref.FullName())
	}
	if branch := repo.GetDefaultBranch(); branch != "" {
		return branch, nil
	}
	return defaultBranch, nil
}

// Tree lists every entry of the branch recursively.
// A truncated listing is returned as-is together with truncated=true.
func (c *GitHubClient) Tree(ctx context.Context, ref config.RepositoryRef, branch string) (entries []TreeEntry, truncated bool, err error) {
	tree, _, err := c.gh.Git.GetTree(ctx, ref.Owner, ref.Repo, branch, true)
	if err != nil {
		return nil, false, classify(err, "get tree", ref.FullName())
	}

	entries = make([]TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if e == nil {
			continue
		}
		entries = append(entries, TreeEntry{
			Path: e.GetPath(),
			Type: e.GetType(),
			SHA:  e.GetSHA(),
			Size: e.GetSize(),
		})
	}
	return entries, tree.GetTruncated(), nil
}

// FileContent fetches one file at branch and returns its decoded text.
// Content that is not base64 encoded (the API reports "none" for large
// files) is an encoding error. Malformed UTF-8 is replaced with U+FFFD.
func (c *GitHubClient) FileContent(ctx context.Context, ref config.RepositoryRef, path, branch string) (string, error) {
	var opts *github.RepositoryContentGetOptions
	if branch != "" {
		opts = &github.RepositoryContentGetOptions{Ref: branch}
	}

	file, _, _, err := c.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path, opts)
	if err != nil {
		return "", classify(err, "get contents", ref.FullName())
	}
	if file == nil {
		return "", errors.EncodingError("path is a directory, not a file").
			WithContext("repository", ref.FullName()).
			WithContext("path", path).
			Build()
	}
	if enc := file.GetEncoding(); enc != "base64" {
		return "", errors.EncodingError(fmt.Sprintf("unsupported content encoding %q", enc)).
			WithContext("repository", ref.FullName()).
			WithContext("path", path).
			Build()
	}

	raw, err := file.GetContent()
	if err != nil {
		return "", errors.EncodingError("failed to decode base64 content").
			WithCause(err).
			WithContext("repository", ref.FullName()).
			WithContext("path", path).
			Build()
	}
	return toValidUTF8(raw), nil
}

// toValidUTF8 replaces malformed byte sequences instead of rejecting the file.
func toValidUTF8(s string) string {
	out, err := unicode.UTF8.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
