package spirv

import (
	"errors"
	"strings"
	"testing"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// decodeModule decodes words and fails the test on malformed output.
func decodeModule(t *testing.T, words []uint32) (Header, []Instruction) {
	t.Helper()
	h, insts, err := Decode(words)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return h, insts
}

func opcodesOf(insts []Instruction) []spv.Op {
	out := make([]spv.Op, len(insts))
	for i, inst := range insts {
		out[i] = inst.Opcode
	}
	return out
}

func findAll(insts []Instruction, op spv.Op) []Instruction {
	var out []Instruction
	for _, inst := range insts {
		if inst.Opcode == op {
			out = append(out, inst)
		}
	}
	return out
}

func countOp(insts []Instruction, op spv.Op) int {
	return len(findAll(insts, op))
}

// nameOf returns the OpName string attached to id.
func nameOf(insts []Instruction, id uint32) string {
	for _, inst := range findAll(insts, spv.OpName) {
		if inst.Words[0] == id {
			s, _ := DecodeString(inst.Words[1:])
			return s
		}
	}
	return ""
}

// idNamed returns the id carrying an OpName of name.
func idNamed(t *testing.T, insts []Instruction, name string) uint32 {
	t.Helper()
	for _, inst := range findAll(insts, spv.OpName) {
		if s, _ := DecodeString(inst.Words[1:]); s == name {
			return inst.Words[0]
		}
	}
	t.Fatalf("no OpName %q", name)
	return 0
}

// expectInvariant runs fn and requires it to panic with an *InvariantError.
func expectInvariant(t *testing.T, fn func()) *InvariantError {
	t.Helper()
	var got *InvariantError
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok || !errors.As(err, &got) {
				t.Fatalf("panic %v is not an *InvariantError", r)
			}
		}()
		fn()
	}()
	if got == nil {
		t.Fatal("expected an invariant panic")
	}
	return got
}

// minimalShader builds a pixel shader whose entry function only returns.
func minimalShader() (*ir.Builder, ir.TypeHandle, *ir.EntryPointInfo) {
	b := ir.NewBuilder("test")
	main := b.Function("main", b.FunctionType(b.Void()))
	main.Block("").Return()
	shader := b.Struct("Shader")
	ep := b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)
	return b, shader, ep
}

func translate(t *testing.T, lib *ir.Library, h ir.TypeHandle) Result {
	t.Helper()
	res, err := NewBackend(DefaultOptions()).TranslateType(lib, h)
	if err != nil {
		t.Fatalf("TranslateType: %v", err)
	}
	return res
}

// disassembly renders words, failing the test on malformed output.
func disassembly(t *testing.T, words []uint32) string {
	t.Helper()
	var sb strings.Builder
	if err := Disassemble(&sb, words); err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	return sb.String()
}
