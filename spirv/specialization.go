package spirv

import (
	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// dummyMainName names the entry function generated for types that do not
// declare one.
const dummyMainName = "auto_main"

// builder returns a builder over the session's scratch library.
func (s *session) builder() *ir.Builder {
	if s.build == nil {
		s.build = ir.Extend(s.lib)
	}
	return s.build
}

// addDummyMain gives owner a generated entry point with an empty body so
// that a fragment can be translated on its own.
func (s *session) addDummyMain(owner ir.TypeHandle) {
	b := s.builder()
	meta := s.lib.Type(owner).Meta

	fnType, ok := s.lib.FindType("() : Void")
	if !ok {
		fnType = b.FunctionType(b.Void())
	}
	main := b.Function(dummyMainName, fnType)
	main.Block("").Return()

	stage := meta.Fragment
	if stage == ir.FragmentNone {
		stage = ir.FragmentPixel
	}
	ep := &ir.EntryPointInfo{Function: main.Handle(), Stage: stage}
	if stage == ir.FragmentPixel {
		b.ExecutionMode(ep, spv.ExecutionModeOriginUpperLeft)
	}
	ep.Reflection.ShaderTypeName = s.lib.Type(owner).Name
	s.addEntryPoint(owner, ep)
}

// globalsInitializer generates the function that replaces placeholder: one
// call per collected global initializer, in discovery order.
func (s *session) globalsInitializer(placeholder ir.FunctionHandle) ir.FunctionHandle {
	b := s.builder()
	original := s.lib.Function(placeholder)

	fn := b.Function(original.Name, original.Type)
	s.lib.Function(fn.Handle()).DebugName = original.DebugName
	block := fn.Block("")
	for _, init := range s.collector.GlobalInitializers {
		initType := s.lib.Type(s.lib.Function(init).Type)
		block.Call(initType.ReturnType(), init)
	}
	block.Return()
	return fn.Handle()
}

// lateBind replaces every referenced placeholder. The replacement takes
// over the placeholder's id so earlier references resolve to it.
func (s *session) lateBind(bindings []ir.LateBinding) {
	for _, binding := range bindings {
		if !s.collector.HasFunction(binding.Placeholder) {
			continue
		}
		s.collector.ReplaceFunction(binding.Placeholder, binding.Replacement)
		s.ids.GenerateID(ir.FunctionRef(binding.Placeholder))
		s.ids.Alias(ir.FunctionRef(binding.Replacement), ir.FunctionRef(binding.Placeholder))
	}
}

// checkAbstractFunctions requires every referenced placeholder to have
// been replaced.
func (s *session) checkAbstractFunctions() {
	for _, fh := range s.collector.Functions {
		if fn := s.lib.Function(fh); fn.Abstract {
			invariant("LateBind", "abstract function %s has no replacement", fn.Name)
		}
	}
}

// isScalarSpec reports whether code defines a scalar specialization
// constant.
func isScalarSpec(code spv.Op) bool {
	return code == spv.OpSpecConstant || code == spv.OpSpecConstantTrue || code == spv.OpSpecConstantFalse
}

// assignSpecIDs numbers scalar specialization constants from 1 in
// collection order and records them in every stage's reflection. A
// composite records the binding id of its first scalar leaf.
func (s *session) assignSpecIDs() {
	var next uint32 = 1
	for _, h := range s.collector.Constants {
		if !isScalarSpec(s.lib.Op(h).Code) {
			continue
		}
		s.specIDs[h] = next
		s.specOrder = append(s.specOrder, h)
		next++
	}

	for _, h := range s.collector.Constants {
		op := s.lib.Op(h)
		if op.DebugName == "" {
			continue
		}
		var id uint32
		switch op.Code {
		case spv.OpSpecConstant, spv.OpSpecConstantTrue, spv.OpSpecConstantFalse:
			id = s.specIDs[h]
		case spv.OpSpecConstantComposite:
			leaf, ok := s.firstSpecLeaf(h)
			if !ok {
				continue
			}
			id = s.specIDs[leaf]
		default:
			continue
		}
		for i := range s.entries {
			s.entries[i].reflection.SetSpecializationConstant(op.DebugName, int(id))
		}
	}
}

// firstSpecLeaf follows the first constituent of nested composites down to
// a scalar specialization constant.
func (s *session) firstSpecLeaf(h ir.OpHandle) (ir.OpHandle, bool) {
	for {
		op := s.lib.Op(h)
		switch op.Code {
		case spv.OpSpecConstant, spv.OpSpecConstantTrue, spv.OpSpecConstantFalse:
			return h, true
		case spv.OpSpecConstantComposite:
			if len(op.Args) == 0 || op.Args[0].Kind != ir.RefOp {
				return 0, false
			}
			h = ir.OpHandle(op.Args[0].Index)
		default:
			return 0, false
		}
	}
}

// writeSpecDecorations writes one SpecId decoration per scalar
// specialization constant.
func (s *session) writeSpecDecorations() {
	for _, h := range s.specOrder {
		s.out.Op(spv.OpDecorate, s.ids.FindID(ir.OpRef(h), true), uint32(spv.DecorationSpecID), s.specIDs[h])
	}
}
