package spirv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// declarationDeps returns the types, constants and globals ref depends on.
func declarationDeps(lib *ir.Library, ref ir.Ref) []ir.Ref {
	var refs []ir.Ref
	switch ref.Kind {
	case ir.RefType:
		t := lib.Type(ir.TypeHandle(ref.Index))
		refs = append(refs, t.Params...)
		if t.Kind == ir.TypePointer {
			refs = append(refs, ir.TypeRef(t.Deref))
		}
	case ir.RefOp:
		op := lib.Op(ir.OpHandle(ref.Index))
		if op.ResultType != nil {
			refs = append(refs, ir.TypeRef(*op.ResultType))
		}
		refs = append(refs, op.Args...)
	}
	var out []ir.Ref
	for _, r := range refs {
		if r.Kind == ir.RefType || r.Kind == ir.RefOp {
			out = append(out, r)
		}
	}
	return out
}

// forwardReference returns the first declaration in ordered that refers to
// a declaration placed after it.
func forwardReference(lib *ir.Library, ordered []ir.Ref) (ir.Ref, ir.Ref, bool) {
	seen := make(map[ir.Ref]bool, len(ordered))
	for _, ref := range ordered {
		for _, dep := range declarationDeps(lib, ref) {
			if !seen[dep] {
				return ref, dep, true
			}
		}
		seen[ref] = true
	}
	return ir.Ref{}, ir.Ref{}, false
}

func materialShader() (*ir.Builder, ir.TypeHandle) {
	b := ir.NewBuilder("test")
	f := b.Float()
	v4 := b.Vector(f, 4)
	m4 := b.Matrix(v4, 4)
	params := b.Struct("Params", ir.Member{Name: "transform", Type: m4}, ir.Member{Name: "tint", Type: v4})
	uniform := b.GlobalVariable(params, spv.StorageClassUniform, "Material", nil)
	color := b.GlobalVariable(v4, spv.StorageClassOutput, "color", nil)

	shade := b.Function("Shade", b.FunctionType(v4, v4))
	in := shade.Param(v4, "in")
	sb := shade.Block("")
	scale := b.SpecConstant(f, "Scale", ir.FloatLiteral(2))
	sb.ReturnValue(sb.Value(spv.OpVectorTimesScalar, v4, ir.OpRef(in), ir.OpRef(scale)))

	main := b.Function("main", b.FunctionType(b.Void()))
	entry := main.Block("entry")
	tmp := entry.Local(v4, "tmp")
	tintPtr := b.Pointer(v4, spv.StorageClassUniform)
	member := entry.Value(spv.OpAccessChain, tintPtr, ir.OpRef(uniform), ir.OpRef(b.Constant(b.Int(), ir.IntLiteral(1))))
	entry.Store(tmp, entry.Load(v4, member))
	entry.Store(color, entry.Call(v4, shade.Handle(), entry.Load(v4, tmp)))
	entry.Return()

	shader := b.Struct("Shader")
	ep := b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)
	b.Interface(ep, color)
	ep.Variables = append(ep.Variables, uniform)
	return b, shader
}

func TestCollector_NoForwardReferences(t *testing.T) {
	b, shader := materialShader()
	lib := b.Library()
	c := NewCollector(lib)
	c.CollectEntryPoint(lib.Type(shader).EntryPoint)

	require.NotEmpty(t, c.Ordered)
	if ref, dep, ok := forwardReference(lib, c.Ordered); ok {
		t.Fatalf("%s %d refers to %s %d declared later", ref.Kind, ref.Index, dep.Kind, dep.Index)
	}
	assert.Len(t, c.Ordered, len(c.Types)+len(c.Constants)+len(c.Globals))
}

func TestCollector_FunctionsPrecedeCallees(t *testing.T) {
	b, shader := materialShader()
	lib := b.Library()
	c := NewCollector(lib)
	c.CollectEntryPoint(lib.Type(shader).EntryPoint)

	require.Len(t, c.Functions, 2)
	assert.Equal(t, "main", lib.Function(c.Functions[0]).Name)
	assert.Equal(t, "Shade", lib.Function(c.Functions[1]).Name)
}

func TestCollector_GlobalsAndLocals(t *testing.T) {
	b, shader := materialShader()
	lib := b.Library()
	c := NewCollector(lib)
	c.CollectEntryPoint(lib.Type(shader).EntryPoint)

	var names []string
	for _, h := range c.Globals {
		names = append(names, lib.Op(h).DebugName)
		assert.True(t, c.HasGlobal(h))
	}
	assert.ElementsMatch(t, []string{"Material", "color"}, names, "function-scope variables are not globals")
	for _, ref := range c.Ordered {
		if ref.Kind == ir.RefOp {
			assert.NotEqual(t, "tmp", lib.Op(ir.OpHandle(ref.Index)).DebugName)
		}
	}
}

func TestCollector_Idempotent(t *testing.T) {
	b, shader := materialShader()
	lib := b.Library()
	ep := lib.Type(shader).EntryPoint
	c := NewCollector(lib)
	c.CollectEntryPoint(ep)
	ordered := append([]ir.Ref(nil), c.Ordered...)
	functions := append([]ir.FunctionHandle(nil), c.Functions...)

	c.CollectEntryPoint(ep)
	assert.Equal(t, ordered, c.Ordered)
	assert.Equal(t, functions, c.Functions)
}

func TestCollector_UnreachableIgnored(t *testing.T) {
	b, shader := materialShader()
	b.Function("Unused", b.FunctionType(b.Void())).Block("").Return()
	b.GlobalVariable(b.Float(), spv.StorageClassPrivate, "unused", nil)
	lib := b.Library()

	c := NewCollector(lib)
	c.CollectEntryPoint(lib.Type(shader).EntryPoint)
	for _, fh := range c.Functions {
		assert.NotEqual(t, "Unused", lib.Function(fh).Name)
	}
	for _, h := range c.Globals {
		assert.NotEqual(t, "unused", lib.Op(h).DebugName)
	}
}

func TestCollector_ReplaceFunction(t *testing.T) {
	b := ir.NewBuilder("test")
	fnType := b.FunctionType(b.Void())
	placeholder := b.AbstractFunction("Placeholder", fnType)
	impl := b.Function("Impl", fnType)
	impl.Block("").Return()
	main := b.Function("main", fnType)
	entry := main.Block("")
	entry.Call(b.Void(), placeholder)
	entry.Return()

	c := NewCollector(b.Library())
	c.Collect(ir.FunctionRef(main.Handle()))
	require.True(t, c.HasFunction(placeholder))

	c.ReplaceFunction(placeholder, impl.Handle())
	assert.False(t, c.HasFunction(placeholder))
	assert.True(t, c.HasFunction(impl.Handle()))
	assert.Equal(t, []ir.FunctionHandle{main.Handle(), impl.Handle()}, c.Functions)
}

func TestTranslate_DeclarationsBeforeUse(t *testing.T) {
	b, shader := materialShader()
	res := translate(t, b.Library(), shader)
	_, insts := decodeModule(t, res.Words)

	defined := map[uint32]bool{}
	inDeclarations := false
	for _, inst := range insts {
		switch {
		case inst.Opcode == spv.OpFunction:
			inDeclarations = false
		case inst.Opcode >= spv.OpTypeVoid && inst.Opcode <= spv.OpTypeFunction:
			inDeclarations = true
		}
		if !inDeclarations {
			continue
		}
		switch inst.Opcode {
		case spv.OpTypePointer:
			assert.True(t, defined[inst.Words[2]], "pointer %d before its pointee", inst.Words[0])
		case spv.OpTypeVector, spv.OpTypeMatrix:
			assert.True(t, defined[inst.Words[1]], "%s %d before its component", inst.Opcode, inst.Words[0])
		case spv.OpTypeStruct, spv.OpTypeFunction:
			for _, w := range inst.Words[1:] {
				assert.True(t, defined[w], "%s %d before operand %d", inst.Opcode, inst.Words[0], w)
			}
		case spv.OpConstant, spv.OpSpecConstant, spv.OpVariable:
			assert.True(t, defined[inst.Words[0]], "%s %d before its type", inst.Opcode, inst.Words[1])
		}
		if id, ok := resultID(inst); ok {
			defined[id] = true
		}
	}
}
