package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildSuccess BuildOutcomeLabel = "success"
	BuildFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for the content pipeline.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetEntriesLoaded(collection string, n int)
	IncValidationFailure(collection string, kind string)
	SetFeedItems(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) SetEntriesLoaded(string, int)               {}
func (NoopRecorder) IncValidationFailure(string, string)        {}
func (NoopRecorder) SetFeedItems(int)                           {}

// TimeStage runs fn, then records its duration and result under stage.
func TimeStage(r Recorder, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.ObserveStageDuration(stage, time.Since(start))
	if err != nil {
		r.IncStageResult(stage, ResultFailed)
		return err
	}
	r.IncStageResult(stage, ResultSuccess)
	return nil
}
