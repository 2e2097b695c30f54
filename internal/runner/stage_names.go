package runner

import "context"

// StageName is a strongly-typed identifier for a run stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageCheckCredentials  StageName = "check_credentials"
	StagePrepareOutput     StageName = "prepare_output"
	StageFetchRepositories StageName = "fetch_repositories"
	StageBuildNavigation   StageName = "build_navigation"
	StageUpdateConfig      StageName = "update_config"
)

// StageFunc executes one stage against the shared run state.
type StageFunc func(ctx context.Context, st *runState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   StageFunc
}

// StageResult enumerates per-stage classification outcomes.
// Mirrors metrics.ResultLabel values to simplify emission.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)
