// Package lightningspv emits SPIR-V modules from shader IR libraries and
// folds per-pass reflection into fragment property lookups.
//
// A library is built with the ir package, or loaded from a YAML document
// with the irdoc package. One shader type is translated into one SPIR-V
// module:
//
//	lib, err := lightningspv.Load("materials.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	words, refl, err := lightningspv.Compile(lib, "Shader")
//
// For pass chains, use CompileStage with a pipeline.Description; its
// result's Simplify method resolves fragment properties to the resources of
// the final pass:
//
//	res, err := lightningspv.CompileStage(ctx, lib, "Shader", desc, lightningspv.DefaultOptions())
//	table := res.Simplify(lib, pipeline.Fragments(lib, "Surface"))
//	member, ok := table.FindUniform("Surface", "Roughness")
package lightningspv

import (
	"context"
	"fmt"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/irdoc"
	"github.com/plasmaengine/lightningspv/pipeline"
	"github.com/plasmaengine/lightningspv/reflection"
	"github.com/plasmaengine/lightningspv/shaderinput"
	"github.com/plasmaengine/lightningspv/spirv"
)

// CompileOptions configures translation.
type CompileOptions struct {
	// SPIRVVersion is the target SPIR-V version (default: 1.2)
	SPIRVVersion spirv.Version

	// DebugNames emits OpName and OpMemberName instructions
	DebugNames bool
}

// DefaultOptions returns the options used by the engine.
func DefaultOptions() CompileOptions {
	d := spirv.DefaultOptions()
	return CompileOptions{
		SPIRVVersion: d.Version,
		DebugNames:   d.DebugNames,
	}
}

func (o CompileOptions) backendOptions() spirv.Options {
	return spirv.Options{Version: o.SPIRVVersion, DebugNames: o.DebugNames}
}

// Load reads an IR library from a YAML document.
func Load(path string) (*ir.Library, error) {
	return irdoc.LoadFile(path)
}

// Compile translates the named shader type with default options and
// returns the module words and the stage reflection.
func Compile(lib *ir.Library, shader string) ([]uint32, reflection.StageReflection, error) {
	h, ok := lib.FindType(shader)
	if !ok {
		return nil, reflection.StageReflection{}, fmt.Errorf("%w: %q", pipeline.ErrUnknownShaderType, shader)
	}
	res, err := TranslateType(lib, h, DefaultOptions())
	if err != nil {
		return nil, reflection.StageReflection{}, err
	}
	return res.Words, res.Reflection(), nil
}

// TranslateType emits the module for one type of lib. A type without an
// entry point gets a generated one; a type without metadata yields an empty
// result.
func TranslateType(lib *ir.Library, h ir.TypeHandle, opts CompileOptions) (spirv.Result, error) {
	res, err := spirv.NewBackend(opts.backendOptions()).TranslateType(lib, h)
	if err != nil {
		return spirv.Result{}, fmt.Errorf("SPIR-V generation error: %w", err)
	}
	return res, nil
}

// TranslateLibrary emits one module holding every entry point of lib.
func TranslateLibrary(lib *ir.Library, opts CompileOptions) (spirv.Result, error) {
	res, err := spirv.NewBackend(opts.backendOptions()).TranslateLibrary(lib)
	if err != nil {
		return spirv.Result{}, fmt.Errorf("SPIR-V generation error: %w", err)
	}
	return res, nil
}

// CompileStage runs the named shader through the passes of desc.
func CompileStage(ctx context.Context, lib *ir.Library, shader string, desc pipeline.Description, opts CompileOptions) (*pipeline.StageResult, error) {
	c, err := pipeline.NewCompiler(opts.backendOptions(), desc, pipeline.Config{})
	if err != nil {
		return nil, err
	}
	return c.CompileStage(ctx, lib, shader)
}

// CreateShaderInput binds value to property of fragment. The result is
// invalid, not an error, when the lookup or the value does not match.
func CreateShaderInput(lib *ir.Library, fragment, property string, typ shaderinput.InputType, value any) shaderinput.Input {
	return shaderinput.Create(lib, fragment, property, typ, value)
}
