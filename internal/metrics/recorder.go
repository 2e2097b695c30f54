package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for a sync run. Implementations
// must tolerate being called with any label values.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome string) // success|partial|failed|canceled
	// IncAPIRequest counts one forge call; outcome follows forge.OutcomeOf.
	IncAPIRequest(op, outcome string)
	SetRepositoryFiles(repo string, n int)
	IncRepositoryResult(outcome string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) IncAPIRequest(string, string)               {}
func (NoopRecorder) SetRepositoryFiles(string, int)             {}
func (NoopRecorder) IncRepositoryResult(string)                 {}
