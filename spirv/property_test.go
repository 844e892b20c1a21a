package spirv

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// resultID returns the id an instruction defines.
func resultID(inst Instruction) (uint32, bool) {
	switch {
	case len(inst.Words) == 0 || hasNoResult(inst.Opcode):
		return 0, false
	case hasResultOnly(inst.Opcode):
		return inst.Words[0], true
	case len(inst.Words) < 2:
		return 0, false
	}
	return inst.Words[1], true
}

// chainShader builds a pixel shader with specs specialization constants
// used in the given order and a call chain depth functions deep.
func chainShader(specs, depth int, order []int) (*ir.Library, ir.TypeHandle) {
	b := ir.NewBuilder("chain")
	i := b.Int()
	f := b.Float()
	fnType := b.FunctionType(b.Void())

	constants := make([]ir.OpHandle, specs)
	for n := range constants {
		constants[n] = b.SpecConstant(i, fmt.Sprintf("S%d", n), ir.IntLiteral(int32(n)))
	}
	out := b.GlobalVariable(f, spv.StorageClassOutput, "out", nil)

	var next ir.FunctionHandle
	for d := depth - 1; d >= 0; d-- {
		fn := b.Function(fmt.Sprintf("F%d", d), fnType)
		block := fn.Block("")
		if d < depth-1 {
			block.Call(b.Void(), next)
		}
		block.Store(out, b.Constant(f, ir.FloatLiteral(float32(d))))
		block.Return()
		next = fn.Handle()
	}

	main := b.Function("main", fnType)
	entry := main.Block("entry")
	for _, n := range order {
		entry.Value(spv.OpCopyObject, i, ir.OpRef(constants[n]))
	}
	if depth > 0 {
		entry.Call(b.Void(), next)
	}
	entry.Return()

	shader := b.Struct("Shader")
	ep := b.EntryPoint(shader, main.Handle(), ir.FragmentPixel)
	b.Interface(ep, out)
	return b.Library(), shader
}

func TestTranslateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	backend := NewBackend(DefaultOptions())

	properties.Property("result ids are unique and below the bound", prop.ForAll(
		func(specs, depth int, seed int64) bool {
			order := rand.New(rand.NewSource(seed)).Perm(specs)
			lib, shader := chainShader(specs, depth, order)
			res, err := backend.TranslateType(lib, shader)
			if err != nil {
				return false
			}
			h, insts, err := Decode(res.Words)
			if err != nil {
				return false
			}
			seen := map[uint32]bool{}
			var maxID uint32
			for _, inst := range insts {
				id, ok := resultID(inst)
				if !ok {
					continue
				}
				if id == 0 || id >= h.Bound || seen[id] {
					return false
				}
				seen[id] = true
				maxID = max(maxID, id)
			}
			return h.Bound == maxID+1
		},
		gen.IntRange(0, 8),
		gen.IntRange(0, 5),
		gen.Int64(),
	))

	properties.Property("spec ids follow first use", prop.ForAll(
		func(specs int, seed int64) bool {
			order := rand.New(rand.NewSource(seed)).Perm(specs)
			lib, shader := chainShader(specs, 1, order)
			res, err := backend.TranslateType(lib, shader)
			if err != nil {
				return false
			}
			got := res.Reflection().SpecializationConstants
			if len(got) != specs {
				return false
			}
			for k, n := range order {
				if got[fmt.Sprintf("S%d", n)] != k+1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.Int64(),
	))

	properties.Property("every function is emitted once", prop.ForAll(
		func(depth int) bool {
			lib, shader := chainShader(0, depth, nil)
			res, err := backend.TranslateType(lib, shader)
			if err != nil {
				return false
			}
			_, insts, err := Decode(res.Words)
			if err != nil {
				return false
			}
			return countOp(insts, spv.OpFunction) == depth+1 &&
				countOp(insts, spv.OpFunctionEnd) == depth+1
		},
		gen.IntRange(0, 6),
	))

	properties.Property("collection order has no forward references", prop.ForAll(
		func(specs, depth int, seed int64) bool {
			order := rand.New(rand.NewSource(seed)).Perm(specs)
			lib, shader := chainShader(specs, depth, order)
			c := NewCollector(lib)
			c.CollectEntryPoint(lib.Type(shader).EntryPoint)
			_, _, forward := forwardReference(lib, c.Ordered)
			return !forward
		},
		gen.IntRange(0, 8),
		gen.IntRange(0, 5),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
