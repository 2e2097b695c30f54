package forge

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v75/github"

	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// Outcome summarizes a forge call for logging and metrics.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeTransient   Outcome = "transient" // Network, rate limit or 5xx; a later run may succeed
	OutcomeFailed      Outcome = "failed"
	OutcomeUnsupported Outcome = "unsupported"
)

// OutcomeOf classifies an error returned by this package.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	classified, ok := errors.AsClassified(err)
	switch {
	case !ok:
		return OutcomeFailed
	case classified.IsCategory(errors.CategoryNotFound):
		return OutcomeNotFound
	case classified.IsCategory(errors.CategoryEncoding):
		return OutcomeUnsupported
	case classified.IsTransient():
		return OutcomeTransient
	default:
		return OutcomeFailed
	}
}

// StatusCode returns the HTTP status carried by a classified forge error, or 0.
func StatusCode(err error) int {
	if classified, ok := errors.AsClassified(err); ok {
		if code, ok := classified.Context().GetInt("code"); ok {
			return code
		}
	}
	return 0
}

// classify converts a go-github error into a ClassifiedError, mapping the
// status code to a category the way the forge clients always have:
// 404 is not_found, 401/403 are auth, anything else is a forge failure.
// Only 5xx responses are retryable.
func classify(err error, op, repo string) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if stderrors.As(err, &rateErr) {
		return errors.RateLimitError(fmt.Sprintf("%s: rate limit exceeded", op)).
			WithCause(err).
			WithContext("repository", repo).
			WithContext("reset", rateErr.Rate.Reset.Time).
			Build()
	}
	var abuseErr *github.AbuseRateLimitError
	if stderrors.As(err, &abuseErr) {
		return errors.RateLimitError(fmt.Sprintf("%s: secondary rate limit exceeded", op)).
			WithCause(err).
			WithContext("repository", repo).
			Build()
	}

	var respErr *github.ErrorResponse
	if stderrors.As(err, &respErr) && respErr.Response != nil {
		b := statusError(respErr.Response, op, repo).WithCause(err)
		if respErr.Message != "" {
			b = b.WithContext("message", respErr.Message)
		}
		return b.Build()
	}

	return errors.NetworkError(fmt.Sprintf("%s: request failed", op)).
		WithCause(err).
		WithContext("repository", repo).
		Build()
}

func statusError(resp *http.Response, op, repo string) *errors.ErrorBuilder {
	var b *errors.ErrorBuilder
	switch code := resp.StatusCode; {
	case code == http.StatusNotFound:
		b = errors.NotFoundError(fmt.Sprintf("%s: not found or not accessible", op))
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		b = errors.AuthError(fmt.Sprintf("%s: access denied", op))
	case code >= http.StatusInternalServerError:
		b = errors.ForgeError(fmt.Sprintf("%s: server error %d", op, code))
	default:
		b = errors.ForgeError(fmt.Sprintf("%s: unexpected status %d", op, code)).
			WithRetry(errors.RetryNever)
	}
	b = b.WithContext("repository", repo).
		WithContext("code", resp.StatusCode).
		WithContext("status", resp.Status)
	if resp.Request != nil && resp.Request.URL != nil {
		b = b.WithContext("url", resp.Request.URL.String())
	}
	return b
}
