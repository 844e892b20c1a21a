package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/plasmaengine/lightningspv/reflection"
	"github.com/plasmaengine/lightningspv/spirv"
	"github.com/plasmaengine/lightningspv/spv"
)

// Result is the output of one pass for one stage.
type Result struct {
	ByteStream []byte                     `msgpack:"byte_stream"`
	Reflection reflection.StageReflection `msgpack:"reflection"`
}

// Pass transforms one stage result into another. Implementations must not
// modify their input.
type Pass interface {
	Name() string
	Run(ctx context.Context, in Result) (Result, error)
}

// PassFunc adapts a function to Pass.
type PassFunc struct {
	PassName string
	Fn       func(ctx context.Context, in Result) (Result, error)
}

// Name implements Pass.
func (p PassFunc) Name() string { return p.PassName }

// Run implements Pass.
func (p PassFunc) Run(ctx context.Context, in Result) (Result, error) { return p.Fn(ctx, in) }

// Identity copies its input.
type Identity struct{}

// Name implements Pass.
func (Identity) Name() string { return "identity" }

// Run implements Pass.
func (Identity) Run(_ context.Context, in Result) (Result, error) {
	return Result{
		ByteStream: append([]byte(nil), in.ByteStream...),
		Reflection: in.Reflection.Clone(),
	}, nil
}

// StripDebug removes OpSource, OpName and OpMemberName instructions and
// leaves every other instruction and the header untouched.
type StripDebug struct{}

// Name implements Pass.
func (StripDebug) Name() string { return "strip-debug" }

// Run implements Pass.
func (StripDebug) Run(_ context.Context, in Result) (Result, error) {
	words, err := spirv.BytesToWords(in.ByteStream)
	if err != nil {
		return Result{}, err
	}
	_, insts, err := spirv.Decode(words)
	if err != nil {
		return Result{}, err
	}

	out := append([]uint32(nil), words[:spirv.HeaderWords]...)
	for _, inst := range insts {
		switch inst.Opcode {
		case spv.OpSource, spv.OpName, spv.OpMemberName:
			continue
		}
		out = append(out, inst.Encode()...)
	}
	return Result{
		ByteStream: spirv.WordsToBytes(out),
		Reflection: in.Reflection.Clone(),
	}, nil
}

var builtins = map[string]func() Pass{
	"identity":    func() Pass { return Identity{} },
	"strip-debug": func() Pass { return StripDebug{} },
}

// Builtin returns the built-in pass registered under name.
func Builtin(name string) (Pass, error) {
	newPass, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPass, name)
	}
	return newPass(), nil
}

// BuiltinNames lists the registered built-in pass names.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
