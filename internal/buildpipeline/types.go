// Package buildpipeline holds the vocabulary shared by the generation driver
// and its progress consumers: stages, statuses, events and stage timings.
package buildpipeline

import "time"

// Stage is one pass of a generation run.
type Stage string

const (
	// StageLoad reads definition files and the global info.
	StageLoad Stage = "load"
	// StageGenerate builds contexts, one task per definition.
	StageGenerate Stage = "generate"
	// StageWrite encodes contexts and writes changed outputs.
	StageWrite Stage = "write"
)

// Status is the state of a definition within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusCached marks a definition served from the disk cache.
	StatusCached Status = "cached"
	StatusDone   Status = "done"
	StatusError  Status = "error"
)

// Event reports progress for one definition, or for the whole run when
// Definition is empty.
type Event struct {
	Definition string
	Stage      Stage
	Status     Status
	Err        error
	Elapsed    time.Duration
}

// Terminal reports whether no further events follow for the definition.
func (e Event) Terminal() bool {
	return e.Status == StatusDone || e.Status == StatusError || e.Status == StatusCached
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: generation workers emit from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
