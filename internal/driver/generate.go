package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/2gis/2gisqt5android/internal/bindctx"
	"github.com/2gis/2gisqt5android/internal/buildpipeline"
	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/project"
	"github.com/2gis/2gisqt5android/internal/trace"
	"github.com/2gis/2gisqt5android/internal/types"
	"github.com/2gis/2gisqt5android/internal/version"
)

const (
	KindInterface  = "interface"
	KindDictionary = "dictionary"
)

// Request describes one generation pass over loaded inputs.
type Request struct {
	Registry       *types.Registry
	Inputs         []Input
	Format         OutputFormat
	Jobs           int
	MaxDiagnostics int
	// Salt is mixed into every cache key; it must change whenever anything
	// the registry was built from changes.
	Salt     project.Digest
	Cache    *DiskCache
	Progress buildpipeline.ProgressSink
}

// Result is the outcome for one definition. Outputs is empty when Err is
// set: a failing definition produces nothing.
type Result struct {
	Definition string
	Kind       string
	File       string
	Outputs    []Output
	Bag        *diag.Bag
	Cached     bool
	Err        error
}

type task struct {
	file  string
	iface *idl.Interface
	dict  *idl.Dictionary
}

func (t task) name() string {
	if t.iface != nil {
		return t.iface.Name
	}
	return t.dict.Name
}

func (t task) kind() string {
	if t.iface != nil {
		return KindInterface
	}
	return KindDictionary
}

func collectTasks(inputs []Input) []task {
	var tasks []task
	for _, in := range inputs {
		for _, iface := range in.Defs.Interfaces {
			tasks = append(tasks, task{file: in.Path, iface: iface})
		}
		for _, dict := range in.Defs.Dictionaries {
			tasks = append(tasks, task{file: in.Path, dict: dict})
		}
	}
	return tasks
}

// Generate builds every interface and dictionary concurrently. Results keep
// input order. Definition failures land in their Result; only cancellation
// is returned as an error.
func Generate(ctx context.Context, req *Request) ([]Result, error) {
	tasks := collectTasks(req.Inputs)
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}
	for _, t := range tasks {
		buildpipeline.Emit(req.Progress, buildpipeline.Event{Definition: t.name(), Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusQueued})
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "generate", trace.ParentID(ctx))
	defer span.End("")

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(tasks)))
	for i, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = req.generateOne(t, tracer, span.ID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (req *Request) generateOne(t task, tracer trace.Tracer, parent uint64) Result {
	start := time.Now()
	name := t.name()
	res := Result{Definition: name, Kind: t.kind(), File: t.file, Bag: diag.NewBag(req.MaxDiagnostics)}
	emit := func(status buildpipeline.Status, err error) {
		buildpipeline.Emit(req.Progress, buildpipeline.Event{
			Definition: name, Stage: buildpipeline.StageGenerate, Status: status,
			Err: err, Elapsed: time.Since(start),
		})
	}
	emit(buildpipeline.StatusWorking, nil)

	key, keyErr := req.cacheKey(t)
	if keyErr == nil && req.Cache != nil {
		var payload CachePayload
		if ok, err := req.Cache.Get(key, &payload); err == nil && ok {
			res.Outputs, res.Cached = payload.Outputs, true
			trace.Point(tracer, trace.ScopeDefinition, "cache.hit", name, parent)
			emit(buildpipeline.StatusCached, nil)
			return res
		}
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	b := bindctx.NewBuilder(req.Registry, bindctx.Options{
		Reporter: reporter, Tracer: tracer, ParentSpan: parent, File: t.file,
	})
	outputs, err := req.build(b, t)
	if err != nil {
		diag.ReportErr(reporter, err, diag.Location{File: t.file, Definition: name})
		res.Err = err
		emit(buildpipeline.StatusError, err)
		return res
	}
	res.Outputs = outputs
	if keyErr == nil && req.Cache != nil {
		if err := req.Cache.Put(key, &CachePayload{Definition: name, Kind: res.Kind, Outputs: outputs}); err != nil {
			diag.ReportWarning(reporter, diag.IOWriteError, diag.Location{File: t.file, Definition: name},
				"cache write failed: "+err.Error()).Emit()
		}
	}
	emit(buildpipeline.StatusDone, nil)
	return res
}

// build produces V8<Name> for interfaces, and V8<Name> plus <Name> (the
// implementation class context) for dictionaries.
func (req *Request) build(b *bindctx.Builder, t task) ([]Output, error) {
	ext := "." + string(req.Format)
	if t.iface != nil {
		ctx, err := b.BuildInterface(t.iface)
		if err != nil {
			return nil, err
		}
		data, err := EncodeContext(ctx, req.Format)
		if err != nil {
			return nil, err
		}
		return []Output{{Name: "V8" + t.iface.Name + ext, Data: data}}, nil
	}
	conv, err := b.BuildDictionary(t.dict)
	if err != nil {
		return nil, err
	}
	impl, err := b.BuildDictionaryImpl(t.dict)
	if err != nil {
		return nil, err
	}
	convData, err := EncodeContext(conv, req.Format)
	if err != nil {
		return nil, err
	}
	implData, err := EncodeContext(impl, req.Format)
	if err != nil {
		return nil, err
	}
	return []Output{
		{Name: "V8" + t.dict.Name + ext, Data: convData},
		{Name: t.dict.Name + ext, Data: implData},
	}, nil
}

// cacheKey hashes the definition itself together with the salt, the output
// format and the tool version.
func (req *Request) cacheKey(t task) (project.Digest, error) {
	single := &idl.Definitions{}
	if t.iface != nil {
		single.Interfaces = []*idl.Interface{t.iface}
	} else {
		single.Dictionaries = []*idl.Dictionary{t.dict}
	}
	data, err := idl.Encode(single, idl.FormatMsgpack)
	if err != nil {
		return project.Digest{}, err
	}
	meta := project.DigestOf([]byte(string(req.Format) + "\x00" + version.Version))
	return project.Combine(project.DigestOf(data), req.Salt, meta), nil
}
