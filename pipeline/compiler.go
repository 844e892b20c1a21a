// Package pipeline runs emitted shader stages through a chain of
// translation passes and compiles many shaders concurrently.
//
// A stage starts with the SPIR-V emitted for one shader type. Each tool pass
// consumes the previous result, debug passes run on the last tool result
// without feeding the backend, and the backend produces the final result.
// A pass that receives or produces zero bytes fails the stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/reflection"
	"github.com/plasmaengine/lightningspv/shaderinput"
	"github.com/plasmaengine/lightningspv/spirv"
)

// Description lists the passes of a pipeline.
type Description struct {
	ToolPasses  []Pass
	DebugPasses []Pass
	Backend     Pass
}

// Config controls compilation.
type Config struct {
	// Jobs bounds the number of shaders compiled at once. Zero or less
	// means GOMAXPROCS.
	Jobs int

	// CacheDir enables the on-disk pass result cache when set.
	CacheDir string
}

// StageResult holds every pass result of one compiled stage.
type StageResult struct {
	Shader string
	RunID  uuid.UUID

	// Passes starts with the emitted module, followed by one result per
	// tool pass and the backend result.
	Passes []Result

	// Debug holds one result per debug pass.
	Debug []Result
}

// Final returns the backend result.
func (r *StageResult) Final() Result {
	if len(r.Passes) == 0 {
		return Result{}
	}
	return r.Passes[len(r.Passes)-1]
}

// Reflections returns the reflection of every pass in order.
func (r *StageResult) Reflections() []reflection.StageReflection {
	out := make([]reflection.StageReflection, len(r.Passes))
	for i := range r.Passes {
		out[i] = r.Passes[i].Reflection
	}
	return out
}

// Simplify folds the reflection of every pass into one lookup table.
func (r *StageResult) Simplify(classifier reflection.TypeClassifier, fragments []reflection.FragmentDescription) *reflection.Simplified {
	return reflection.Simplify(classifier, fragments, r.Reflections())
}

// Fragments describes the fields of the named fragment types of lib for
// reflection lookups. Types without metadata are skipped.
func Fragments(lib *ir.Library, names ...string) []reflection.FragmentDescription {
	var out []reflection.FragmentDescription
	for _, name := range names {
		h, ok := lib.FindType(name)
		if !ok || lib.Type(h).Meta == nil {
			continue
		}
		desc := reflection.FragmentDescription{Name: name}
		for _, f := range lib.Type(h).Meta.Fields {
			desc.Fields = append(desc.Fields, reflection.FieldDescription{
				FieldName:    f.Name,
				PropertyName: shaderinput.PropertyName(f.Name, name),
				TypeName:     f.TypeName,
			})
		}
		out = append(out, desc)
	}
	return out
}

// Compiler compiles shader types of a library through a pipeline.
// A Compiler may be shared by concurrent goroutines.
type Compiler struct {
	backend *spirv.Backend
	desc    Description
	jobs    int
}

// NewCompiler creates a compiler. When cfg.CacheDir is set, tool and debug
// passes are memoized on disk.
func NewCompiler(opts spirv.Options, desc Description, cfg Config) (*Compiler, error) {
	if cfg.CacheDir != "" {
		cache, err := OpenDiskCache(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("pipeline: open cache: %w", err)
		}
		desc = cachedDescription(desc, cache)
	}
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Compiler{backend: spirv.NewBackend(opts), desc: desc, jobs: jobs}, nil
}

func cachedDescription(desc Description, cache Cache) Description {
	out := Description{Backend: desc.Backend}
	for _, p := range desc.ToolPasses {
		out.ToolPasses = append(out.ToolPasses, Cached(p, cache))
	}
	for _, p := range desc.DebugPasses {
		out.DebugPasses = append(out.DebugPasses, Cached(p, cache))
	}
	return out
}

// CompileStage emits shader and runs it through the pipeline.
func (c *Compiler) CompileStage(ctx context.Context, lib *ir.Library, shader string) (*StageResult, error) {
	if c.desc.Backend == nil {
		return nil, ErrNoBackend
	}
	h, ok := lib.FindType(shader)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShaderType, shader)
	}

	res := &StageResult{Shader: shader, RunID: uuid.New()}
	log := Logger().With(
		zap.String("shader", shader),
		zap.Stringer("stage", stageOf(lib, h)),
		zap.Stringer("run", res.RunID))
	start := time.Now()

	emitted, err := c.backend.TranslateType(lib, h)
	if err != nil {
		return nil, err
	}
	res.Passes = append(res.Passes, Result{ByteStream: emitted.Bytes(), Reflection: emitted.Reflection()})

	for _, p := range c.desc.ToolPasses {
		out, err := runPass(ctx, p, len(res.Passes), res.Passes[len(res.Passes)-1])
		if err != nil {
			log.Warn("pass failed", zap.String("pass", p.Name()), zap.Error(err))
			return nil, err
		}
		res.Passes = append(res.Passes, out)
	}

	last := res.Passes[len(res.Passes)-1]
	for i, p := range c.desc.DebugPasses {
		out, err := runPass(ctx, p, i, last)
		if err != nil {
			log.Warn("debug pass failed", zap.String("pass", p.Name()), zap.Error(err))
			return nil, err
		}
		res.Debug = append(res.Debug, out)
	}

	out, err := runPass(ctx, c.desc.Backend, len(res.Passes), last)
	if err != nil {
		log.Warn("backend failed", zap.String("pass", c.desc.Backend.Name()), zap.Error(err))
		return nil, err
	}
	res.Passes = append(res.Passes, out)

	log.Debug("compiled stage",
		zap.Int("passes", len(res.Passes)),
		zap.Int("bytes", len(out.ByteStream)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func runPass(ctx context.Context, p Pass, index int, in Result) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(in.ByteStream) == 0 {
		return Result{}, &PassError{Pass: p.Name(), Index: index, Err: ErrEmptyInput}
	}
	out, err := p.Run(ctx, in)
	if err != nil {
		return Result{}, &PassError{Pass: p.Name(), Index: index, Err: err}
	}
	if len(out.ByteStream) == 0 {
		return Result{}, &PassError{Pass: p.Name(), Index: index, Err: ErrEmptyOutput}
	}
	return out, nil
}

func stageOf(lib *ir.Library, h ir.TypeHandle) ir.FragmentType {
	t := lib.Type(h)
	switch {
	case t.EntryPoint != nil:
		return t.EntryPoint.Stage
	case t.Meta != nil:
		return t.Meta.Fragment
	}
	return ir.FragmentNone
}

// Outcome is the result of compiling one shader of a batch.
type Outcome struct {
	Shader string
	Result *StageResult
	Err    error
}

// CompileAll compiles shaders concurrently. A failing shader does not stop
// the others; its error is reported in its Outcome. The returned error is
// non-nil only when ctx was cancelled.
func (c *Compiler) CompileAll(ctx context.Context, lib *ir.Library, shaders []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(shaders))
	if len(shaders) == 0 {
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(c.jobs, len(shaders)))

	for i, shader := range shaders {
		i, shader := i, shader
		g.Go(func() error {
			select {
			case <-gctx.Done():
				outcomes[i] = Outcome{Shader: shader, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			res, err := c.CompileStage(gctx, lib, shader)
			outcomes[i] = Outcome{Shader: shader, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	Logger().Debug("compiled shaders", zap.Int("shaders", len(shaders)), zap.Int("failed", failed))
	return outcomes, nil
}

// Errors joins the errors of every failed outcome.
func Errors(outcomes []Outcome) error {
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Shader, o.Err))
		}
	}
	return errors.Join(errs...)
}
