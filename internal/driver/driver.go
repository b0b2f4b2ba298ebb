// Package driver runs a whole generation: it loads definition files and the
// global info, builds the registry, generates contexts concurrently and
// writes the outputs that changed.
package driver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/2gis/2gisqt5android/internal/buildpipeline"
	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/observ"
	"github.com/2gis/2gisqt5android/internal/project"
	"github.com/2gis/2gisqt5android/internal/trace"
	"github.com/2gis/2gisqt5android/internal/types"
)

// Config is everything a run needs. An empty OutDir checks without writing.
type Config struct {
	Inputs         []string
	GlobalInfo     string
	OutDir         string
	Format         OutputFormat
	Jobs           int
	MaxDiagnostics int
	Cache          *DiskCache
	Progress       buildpipeline.ProgressSink
	Timer          *observ.Timer
}

// Summary is the outcome of Run.
type Summary struct {
	// Bag holds the diagnostics of every stage, sorted and deduplicated.
	Bag       *diag.Bag
	Results   []Result
	Registry  *types.Registry
	Written   int
	Unchanged int
	Timings   buildpipeline.Timings
}

// Failed reports whether any definition failed or any error was reported.
func (s *Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Err != nil {
			return true
		}
	}
	return s.Bag.HasErrors()
}

// Failures counts the definitions that produced no output.
func (s *Summary) Failures() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Run executes load, generate and (with an OutDir) write. It returns an
// error only for problems that prevent the run as a whole; definition
// failures are in the summary.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	timer := cfg.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "run", trace.ParentID(ctx))
	ctx = trace.WithSpan(ctx, span)

	sum := &Summary{Bag: diag.NewBag(cfg.MaxDiagnostics)}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: sum.Bag})

	idx := timer.Begin(string(buildpipeline.StageLoad))
	buildpipeline.Emit(cfg.Progress, buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})
	inputs, info, salt, err := load(ctx, cfg, reporter)
	sum.Timings.Add(buildpipeline.StageLoad, timer.End(idx, fmt.Sprintf("%d files", len(inputs))))
	if err != nil {
		span.End("failed")
		buildpipeline.Emit(cfg.Progress, buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError, Err: err})
		return nil, err
	}
	buildpipeline.Emit(cfg.Progress, buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusDone})

	sum.Registry = types.NewRegistry(RegistryConfig(info, inputs))

	idx = timer.Begin(string(buildpipeline.StageGenerate))
	sum.Results, err = Generate(ctx, &Request{
		Registry:       sum.Registry,
		Inputs:         inputs,
		Format:         cfg.Format,
		Jobs:           cfg.Jobs,
		MaxDiagnostics: cfg.MaxDiagnostics,
		Salt:           salt,
		Cache:          cfg.Cache,
		Progress:       cfg.Progress,
	})
	sum.Timings.Add(buildpipeline.StageGenerate, timer.End(idx, fmt.Sprintf("%d definitions", len(sum.Results))))
	if err != nil {
		span.End("cancelled")
		return nil, err
	}
	for _, r := range sum.Results {
		sum.Bag.Merge(r.Bag)
	}

	if cfg.OutDir != "" {
		idx = timer.Begin(string(buildpipeline.StageWrite))
		sum.write(cfg)
		sum.Timings.Add(buildpipeline.StageWrite, timer.End(idx, fmt.Sprintf("%d written", sum.Written)))
	}

	sum.Bag.Dedup()
	sum.Bag.Sort()
	span.WithExtra("definitions", fmt.Sprint(len(sum.Results))).
		WithExtra("failures", fmt.Sprint(sum.Failures())).
		End("")
	return sum, nil
}

// load lists and reads the inputs and the global info, and computes the
// cache salt from the global info and every input file.
func load(ctx context.Context, cfg Config, reporter diag.Reporter) ([]Input, project.GlobalInfo, project.Digest, error) {
	var info project.GlobalInfo
	files, err := ListDefinitionFiles(cfg.Inputs)
	if err != nil {
		return nil, info, project.Digest{}, err
	}
	if len(files) == 0 {
		diag.ReportError(reporter, diag.ProjNoDefinitions, diag.Location{}, "no definition files in the configured inputs").Emit()
	}
	inputs, err := LoadInputs(ctx, files, reporter)
	if err != nil {
		return nil, info, project.Digest{}, err
	}
	info, infoDigest, err := project.LoadGlobalInfo(cfg.GlobalInfo)
	if err != nil {
		return nil, info, project.Digest{}, fmt.Errorf("global info: %w", err)
	}
	parts := make([]project.Digest, len(inputs))
	for i, in := range inputs {
		parts[i] = in.Digest
	}
	return inputs, info, project.Combine(infoDigest, parts...), nil
}

// write stores the outputs of every successful definition. Write failures
// are reported per file.
func (s *Summary) write(cfg Config) {
	for _, r := range s.Results {
		if r.Err != nil {
			continue
		}
		for _, out := range r.Outputs {
			path := filepath.Join(cfg.OutDir, out.Name)
			changed, err := WriteIfChanged(path, out.Data)
			if err != nil {
				diag.ReportError(diag.BagReporter{Bag: s.Bag}, diag.IOWriteError,
					diag.Location{File: path, Definition: r.Definition}, err.Error()).Emit()
				buildpipeline.Emit(cfg.Progress, buildpipeline.Event{Definition: r.Definition, Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusError, Err: err})
				continue
			}
			if changed {
				s.Written++
			} else {
				s.Unchanged++
			}
		}
		buildpipeline.Emit(cfg.Progress, buildpipeline.Event{Definition: r.Definition, Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	}
}
