package spirv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

func specDecorations(insts []Instruction) map[uint32]uint32 {
	out := map[uint32]uint32{}
	for _, inst := range findAll(insts, spv.OpDecorate) {
		if inst.Words[1] == uint32(spv.DecorationSpecID) {
			out[inst.Words[0]] = inst.Words[2]
		}
	}
	return out
}

func TestSpecConstants_VisitationOrder(t *testing.T) {
	b := ir.NewBuilder("test")
	i := b.Int()
	// Declared C, A, B but used A, B, C.
	c := b.SpecConstant(i, "C", ir.IntLiteral(3))
	a := b.SpecConstant(i, "A", ir.IntLiteral(1))
	bb := b.SpecConstant(i, "B", ir.IntLiteral(2))

	main := b.Function("main", b.FunctionType(b.Void()))
	entry := main.Block("entry")
	sum := entry.Value(spv.OpIAdd, i, ir.OpRef(a), ir.OpRef(bb))
	entry.Value(spv.OpIAdd, i, ir.OpRef(sum), ir.OpRef(c))
	entry.Return()
	shader := b.Struct("Shader")
	b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)

	res := translate(t, b.Library(), shader)
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 3}, res.Reflection().SpecializationConstants)

	_, insts := decodeModule(t, res.Words)
	decorations := specDecorations(insts)
	require.Len(t, decorations, 3)
	assert.Equal(t, uint32(1), decorations[idNamed(t, insts, "A")])
	assert.Equal(t, uint32(2), decorations[idNamed(t, insts, "B")])
	assert.Equal(t, uint32(3), decorations[idNamed(t, insts, "C")])

	specs := findAll(insts, spv.OpSpecConstant)
	require.Len(t, specs, 3)
	assert.Equal(t, []uint32{1, 2, 3}, []uint32{specs[0].Words[2], specs[1].Words[2], specs[2].Words[2]},
		"declared in visitation order with their default values")
}

func TestSpecConstants_UnreferencedAreSkipped(t *testing.T) {
	b := ir.NewBuilder("test")
	i := b.Int()
	b.SpecConstant(i, "Unused", ir.IntLiteral(0))
	used := b.SpecConstant(i, "Used", ir.IntLiteral(0))

	main := b.Function("main", b.FunctionType(b.Void()))
	entry := main.Block("entry")
	entry.Value(spv.OpCopyObject, i, ir.OpRef(used))
	entry.Return()
	shader := b.Struct("Shader")
	b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)

	res := translate(t, b.Library(), shader)
	assert.Equal(t, map[string]int{"Used": 1}, res.Reflection().SpecializationConstants)
}

func TestSpecConstants_CompositeUsesFirstLeaf(t *testing.T) {
	b := ir.NewBuilder("test")
	i := b.Int()
	f := b.Float()
	v3 := b.Vector(f, 3)
	pair := b.Struct("Pair", ir.Member{Name: "a", Type: v3}, ir.Member{Name: "b", Type: v3})

	s := b.SpecConstant(i, "S", ir.IntLiteral(7))
	x := b.SpecConstant(f, "X", ir.FloatLiteral(1))
	y := b.SpecConstant(f, "Y", ir.FloatLiteral(2))
	z := b.SpecConstant(f, "Z", ir.FloatLiteral(3))
	v := b.SpecConstantComposite(v3, "V", x, y, z)

	p := b.SpecConstant(f, "P", ir.FloatLiteral(0))
	q := b.SpecConstant(f, "Q", ir.FloatLiteral(0))
	r := b.SpecConstant(f, "R", ir.FloatLiteral(0))
	v2 := b.SpecConstantComposite(v3, "V2", p, q, r)
	u := b.SpecConstantComposite(v3, "U", b.SpecConstant(f, "U0", ir.FloatLiteral(0)),
		b.SpecConstant(f, "U1", ir.FloatLiteral(0)), b.SpecConstant(f, "U2", ir.FloatLiteral(0)))
	n := b.SpecConstantComposite(pair, "N", v2, u)

	main := b.Function("main", b.FunctionType(b.Void()))
	entry := main.Block("entry")
	entry.Value(spv.OpCopyObject, i, ir.OpRef(s))
	entry.Value(spv.OpCopyObject, v3, ir.OpRef(v))
	entry.Value(spv.OpCopyObject, pair, ir.OpRef(n))
	entry.Return()
	shader := b.Struct("Shader")
	b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)

	res := translate(t, b.Library(), shader)
	specs := res.Reflection().SpecializationConstants

	assert.Equal(t, 1, specs["S"])
	assert.Equal(t, 2, specs["X"])
	assert.Equal(t, 4, specs["Z"])
	assert.Equal(t, 2, specs["V"], "composite records its first leaf")
	assert.Equal(t, 5, specs["V2"])
	assert.Equal(t, 5, specs["N"], "nested composite resolves recursively")
	assert.Equal(t, 8, specs["U"])
	assert.Equal(t, 10, specs["U2"])

	_, insts := decodeModule(t, res.Words)
	assert.Len(t, specDecorations(insts), 10, "only scalar leaves are decorated")

	composites := findAll(insts, spv.OpSpecConstantComposite)
	require.Len(t, composites, 4)
	vID := idNamed(t, insts, "V")
	for _, inst := range composites {
		if inst.Words[1] != vID {
			continue
		}
		assert.Equal(t, []uint32{idNamed(t, insts, "X"), idNamed(t, insts, "Y"), idNamed(t, insts, "Z")}, inst.Words[2:],
			"constituent order is preserved")
	}
}

func TestLateBinding_ReplacementTakesPlaceholderID(t *testing.T) {
	b := ir.NewBuilder("test")
	void := b.Void()
	fnType := b.FunctionType(void)
	placeholder := b.AbstractFunction("Lighting", fnType)
	impl := b.Function("LightingImpl", fnType)
	impl.Block("").Return()

	main := b.Function("main", fnType)
	entry := main.Block("entry")
	entry.Call(void, placeholder)
	entry.Call(void, placeholder)
	entry.Return()
	shader := b.Struct("Shader")
	ep := b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)
	ep.LateBound = []ir.LateBinding{{Placeholder: placeholder, Replacement: impl.Handle()}}

	res := translate(t, b.Library(), shader)
	_, insts := decodeModule(t, res.Words)

	functions := findAll(insts, spv.OpFunction)
	require.Len(t, functions, 2, "the placeholder is not emitted")

	implID := idNamed(t, insts, "LightingImpl")
	assert.Equal(t, uint32(1), implID, "placeholder id is generated first")
	for _, call := range findAll(insts, spv.OpFunctionCall) {
		assert.Equal(t, implID, call.Words[2])
	}
	assert.NotContains(t, disassembly(t, res.Words), `"Lighting"`)
}

func TestLateBinding_UnboundPlaceholder(t *testing.T) {
	b := ir.NewBuilder("test")
	void := b.Void()
	fnType := b.FunctionType(void)
	placeholder := b.AbstractFunction("Lighting", fnType)

	main := b.Function("main", fnType)
	entry := main.Block("entry")
	entry.Call(void, placeholder)
	entry.Return()
	shader := b.Struct("Shader")
	b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)

	err := expectInvariant(t, func() { translate(t, b.Library(), shader) })
	assert.Equal(t, "LateBind", err.Op)
	assert.Contains(t, err.Detail, "Lighting")
}

func TestSpecConstants_BooleanOpcodes(t *testing.T) {
	b := ir.NewBuilder("test")
	boolean := b.Bool()
	i := b.Int()
	count := b.SpecConstant(i, "Count", ir.IntLiteral(4))
	lib := b.Library()
	flag := lib.AddOp(ir.Op{Code: spv.OpSpecConstantTrue, DebugName: "Flag", ResultType: &boolean})
	off := lib.AddOp(ir.Op{Code: spv.OpSpecConstantFalse, DebugName: "Off", ResultType: &boolean})

	main := b.Function("main", b.FunctionType(b.Void()))
	entry := main.Block("entry")
	both := entry.Value(spv.OpLogicalAnd, boolean, ir.OpRef(flag), ir.OpRef(off))
	entry.Value(spv.OpLogicalNot, boolean, ir.OpRef(both))
	entry.Value(spv.OpIAdd, i, ir.OpRef(count), ir.OpRef(count))
	entry.Return()
	shader := b.Struct("Shader")
	b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)

	res := translate(t, lib, shader)
	assert.Equal(t, map[string]int{"Flag": 1, "Off": 2, "Count": 3}, res.Reflection().SpecializationConstants)

	_, insts := decodeModule(t, res.Words)
	assert.Equal(t, 1, countOp(insts, spv.OpSpecConstantTrue))
	assert.Equal(t, 1, countOp(insts, spv.OpSpecConstantFalse))
	decorations := specDecorations(insts)
	require.Len(t, decorations, 3)
	assert.Equal(t, uint32(1), decorations[idNamed(t, insts, "Flag")])
	assert.Equal(t, uint32(2), decorations[idNamed(t, insts, "Off")])
	assert.Equal(t, uint32(3), decorations[idNamed(t, insts, "Count")])
}

func TestLateBinding_UnreferencedPlaceholderIgnored(t *testing.T) {
	b := ir.NewBuilder("test")
	fnType := b.FunctionType(b.Void())
	placeholder := b.AbstractFunction("Unused", fnType)
	impl := b.Function("UnusedImpl", fnType)
	impl.Block("").Return()

	main := b.Function("main", fnType)
	main.Block("").Return()
	shader := b.Struct("Shader")
	ep := b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)
	ep.LateBound = []ir.LateBinding{{Placeholder: placeholder, Replacement: impl.Handle()}}

	res := translate(t, b.Library(), shader)
	_, insts := decodeModule(t, res.Words)
	assert.Equal(t, 1, countOp(insts, spv.OpFunction))
}

func TestGlobalsInitializer(t *testing.T) {
	b := ir.NewBuilder("test")
	void := b.Void()
	f := b.Float()
	fnType := b.FunctionType(void)

	initColor := b.Function("InitColor", fnType)
	initScale := b.Function("InitScale", fnType)
	color := b.GlobalVariable(f, spv.StorageClassPrivate, "Color", ptr(initColor.Handle()))
	scale := b.GlobalVariable(f, spv.StorageClassPrivate, "Scale", ptr(initScale.Handle()))
	plain := b.GlobalVariable(f, spv.StorageClassPrivate, "Plain", nil)

	ib := initColor.Block("")
	ib.Store(color, b.Constant(f, ir.FloatLiteral(1)))
	ib.Return()
	sb := initScale.Block("")
	sb.Store(scale, b.Constant(f, ir.FloatLiteral(2)))
	sb.Return()

	globalsInit := b.AbstractFunction("InitializeGlobals", fnType)
	main := b.Function("main", fnType)
	entry := main.Block("entry")
	entry.Call(void, globalsInit)
	sum := entry.Value(spv.OpFAdd, f, ir.OpRef(entry.Load(f, color)), ir.OpRef(entry.Load(f, scale)))
	entry.Store(plain, sum)
	entry.Return()

	shader := b.Struct("Shader")
	ep := b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)
	ep.GlobalsInitializer = ptr(globalsInit)
	nFunctions := len(b.Library().Functions)

	res := translate(t, b.Library(), shader)
	_, insts := decodeModule(t, res.Words)

	assert.Len(t, b.Library().Functions, nFunctions)
	assert.Equal(t, 4, countOp(insts, spv.OpFunction), "main, two initializers and the generated function")

	generatedID := idNamed(t, insts, "InitializeGlobals")
	colorInit := idNamed(t, insts, "InitColor")
	scaleInit := idNamed(t, insts, "InitScale")

	var calls [][]uint32
	var current uint32
	for _, inst := range insts {
		switch inst.Opcode {
		case spv.OpFunction:
			current = inst.Words[1]
		case spv.OpFunctionCall:
			calls = append(calls, []uint32{current, inst.Words[2]})
		}
	}
	mainID := idNamed(t, insts, "main")
	assert.Equal(t, [][]uint32{
		{mainID, generatedID},
		{generatedID, colorInit},
		{generatedID, scaleInit},
	}, calls)
}

func TestEntryVariableMustBeGlobal(t *testing.T) {
	b := ir.NewBuilder("test")
	f := b.Float()
	main := b.Function("main", b.FunctionType(b.Void()))
	entry := main.Block("entry")
	local := entry.Local(f, "tmp")
	entry.Return()
	shader := b.Struct("Shader")
	ep := b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)
	ep.Variables = append(ep.Variables, local)

	err := expectInvariant(t, func() { translate(t, b.Library(), shader) })
	assert.Equal(t, "CollectEntryPoint", err.Op)
}

func ptr[T any](v T) *T { return &v }
