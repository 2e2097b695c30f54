package runner

import (
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/docsync/internal/forge"
	"git.home.luguber.info/inful/docsync/internal/metrics"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial" // Completed, but some repositories or files were skipped
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// RepositoryOutcomeEmpty marks a repository that was reachable but had no
// Markdown files to write.
const RepositoryOutcomeEmpty = "empty"

// RepositoryResult records what one repository contributed.
type RepositoryResult struct {
	Repository string
	Branch     string
	Found      int    // Markdown files listed
	Files      int    // Files written
	Failed     int    // Files that could not be fetched
	Outcome    string // forge.Outcome value or RepositoryOutcomeEmpty
	Error      string
}

// StageCount aggregates outcome counts for a stage.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Canceled int
}

// Report captures what a run did.
type Report struct {
	RunID             string
	Start             time.Time
	End               time.Time
	Repositories      []RepositoryResult
	StageDurations    map[StageName]time.Duration
	StageCounts       map[StageName]StageCount
	NavigationEntries int  // Pages linked from the navigation, home included
	ConfigChanged     bool // mkdocs.yml was rewritten
	Outcome           Outcome
}

func newReport(runID string) *Report {
	return &Report{
		RunID:          runID,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageCounts:    make(map[StageName]StageCount),
	}
}

// Finish sets the end time of the report.
func (r *Report) Finish() { r.End = time.Now() }

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Processed returns the repositories that contributed at least one file.
func (r *Report) Processed() []RepositoryResult {
	var out []RepositoryResult
	for _, repo := range r.Repositories {
		if repo.Files > 0 {
			out = append(out, repo)
		}
	}
	return out
}

// Skipped returns the repositories that could not be fetched.
func (r *Report) Skipped() []RepositoryResult {
	var out []RepositoryResult
	for _, repo := range r.Repositories {
		if repo.Error != "" {
			out = append(out, repo)
		}
	}
	return out
}

// TotalFiles is the number of files written across all repositories.
func (r *Report) TotalFiles() int {
	n := 0
	for _, repo := range r.Repositories {
		n += repo.Files
	}
	return n
}

// TransientSkips counts repositories skipped because of a transient failure.
func (r *Report) TransientSkips() int {
	n := 0
	for _, repo := range r.Skipped() {
		if repo.Outcome == string(forge.OutcomeTransient) {
			n++
		}
	}
	return n
}

// FailedFiles is the number of individual files that could not be fetched.
func (r *Report) FailedFiles() int {
	n := 0
	for _, repo := range r.Repositories {
		n += repo.Failed
	}
	return n
}

// RecordStageResult updates the stage counters and emits metrics.
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
	case StageResultWarning:
		sc.Warning++
	case StageResultFatal:
		sc.Fatal++
	case StageResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	if recorder != nil {
		recorder.IncStageResult(string(stage), metrics.ResultLabel(res))
	}
}

// DeriveOutcome sets Outcome from the stage counters. Cancellation wins
// over failure, failure over warnings.
func (r *Report) DeriveOutcome() {
	var total StageCount
	for _, sc := range r.StageCounts {
		total.Canceled += sc.Canceled
		total.Fatal += sc.Fatal
		total.Warning += sc.Warning
	}
	switch {
	case total.Canceled > 0:
		r.Outcome = OutcomeCanceled
	case total.Fatal > 0:
		r.Outcome = OutcomeFailed
	case total.Warning > 0:
		r.Outcome = OutcomePartial
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("repos=%d files=%d skipped=%d transient=%d failed_files=%d duration=%s outcome=%s",
		len(r.Processed()), r.TotalFiles(), len(r.Skipped()), r.TransientSkips(), r.FailedFiles(),
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}

// WriteSummary prints the end-of-run summary.
func (r *Report) WriteSummary(w io.Writer) error {
	p := &printer{w: w}
	p.printf("\n✅ Done!\n")
	p.printf("\nSummary:\n")

	processed := r.Processed()
	p.printf("  Total repositories processed: %d\n", len(processed))
	p.printf("  Total markdown files fetched: %d\n", r.TotalFiles())
	for _, repo := range processed {
		p.printf("    %s: %d file(s)\n", repo.Repository, repo.Files)
	}

	if skipped := r.Skipped(); len(skipped) > 0 {
		p.printf("  Repositories skipped: %d\n", len(skipped))
		for _, repo := range skipped {
			p.printf("    %s: %s\n", repo.Repository, repo.Outcome)
		}
		if n := r.TransientSkips(); n > 0 {
			p.printf("  Transient failures (a later run may succeed): %d\n", n)
		}
	}
	if n := r.FailedFiles(); n > 0 {
		p.printf("  Files that could not be fetched: %d\n", n)
	}
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
