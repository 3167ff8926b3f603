package metrics

import "time"

// Outcome enumerates result categories for counters.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeEmpty   Outcome = "empty"
	OutcomeError   Outcome = "error"

	// Source link outcomes name the step at which resolution gave up.
	OutcomeWrongDomain   Outcome = "wrong_domain"
	OutcomeNoModule      Outcome = "no_module"
	OutcomeNoAttribute   Outcome = "no_attribute"
	OutcomeNoSourceFile  Outcome = "no_source_file"
	OutcomeNoRepoPath    Outcome = "no_repo_path"
	OutcomeLinksDisabled Outcome = "disabled"
)

// DoctreeSource names where a parsed document came from.
type DoctreeSource string

const (
	DoctreeFromMemory DoctreeSource = "memory"
	DoctreeFromCache  DoctreeSource = "cache"
	DoctreeFromParse  DoctreeSource = "parse"
)

// Recorder defines observability hooks for fragment rendering, source link
// resolution and document loading.
type Recorder interface {
	IncFragmentRender(outcome Outcome)
	ObserveFragmentDuration(d time.Duration)
	IncSourceLink(outcome Outcome)
	IncDoctreeLoad(source DoctreeSource)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFragmentRender(Outcome)             {}
func (NoopRecorder) ObserveFragmentDuration(time.Duration) {}
func (NoopRecorder) IncSourceLink(Outcome)                 {}
func (NoopRecorder) IncDoctreeLoad(DoctreeSource)          {}
