package spirv

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/reflection"
	"github.com/plasmaengine/lightningspv/spv"
)

// Backend translates IR libraries to SPIR-V binary format.
//
// A Backend holds no per-translation state: every call runs in its own
// session, so one Backend may be shared by concurrent goroutines as long as
// the source library is not modified.
type Backend struct {
	options Options
}

// NewBackend creates a new SPIR-V backend.
func NewBackend(options Options) *Backend {
	return &Backend{options: options}
}

// Result is the output of one translation.
type Result struct {
	// Words is the encoded module; empty when there was nothing to emit.
	Words []uint32

	// Stages holds one reflection record per emitted entry point.
	Stages []reflection.StageReflection
}

// Bytes returns the module in little-endian byte order.
func (r Result) Bytes() []byte { return WordsToBytes(r.Words) }

// Reflection returns the reflection of the first stage.
func (r Result) Reflection() reflection.StageReflection {
	if len(r.Stages) == 0 {
		return reflection.StageReflection{}
	}
	return r.Stages[0]
}

// TranslateType emits the module for one type. A type without an entry point
// is given a generated one; a type without metadata produces an empty result.
func (b *Backend) TranslateType(lib *ir.Library, h ir.TypeHandle) (Result, error) {
	if int(h) >= len(lib.Types) {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidType, h)
	}
	t := lib.Type(h)
	s := newSession(b.options, lib)
	switch {
	case t.EntryPoint != nil:
		s.addEntryPoint(h, t.EntryPoint)
	case t.Meta != nil:
		s.addDummyMain(h)
	default:
		return Result{}, nil
	}

	res := s.emit()
	Logger().Debug("translated type",
		zap.String("type", t.Name),
		zap.Uint32("bound", s.ids.Bound()),
		zap.Int("words", len(res.Words)))
	return res, nil
}

// TranslateLibrary emits one module holding every entry point owned by a
// type of lib.
func (b *Backend) TranslateLibrary(lib *ir.Library) (Result, error) {
	s := newSession(b.options, lib)
	for _, h := range lib.EntryPointTypes() {
		s.addEntryPoint(h, lib.Type(h).EntryPoint)
	}
	if len(s.entries) == 0 {
		return Result{}, nil
	}

	res := s.emit()
	Logger().Debug("translated library",
		zap.String("library", lib.Name),
		zap.Int("entryPoints", len(s.entries)),
		zap.Uint32("bound", s.ids.Bound()),
		zap.Int("words", len(res.Words)))
	return res, nil
}

type entryPoint struct {
	owner      ir.TypeHandle
	info       *ir.EntryPointInfo
	reflection reflection.StageReflection
}

// session is the state of one translation. It owns a scratch view of the
// library for generated functions and is discarded when emission ends.
type session struct {
	opts      Options
	lib       *ir.Library
	build     *ir.Builder
	collector *Collector
	ids       *IDTable
	entries   []entryPoint

	specIDs   map[ir.OpHandle]uint32
	specOrder []ir.OpHandle

	out Stream
}

func newSession(opts Options, lib *ir.Library) *session {
	scratch := lib.Scratch()
	return &session{
		opts:      opts,
		lib:       scratch,
		collector: NewCollector(scratch),
		ids:       NewIDTable(),
		specIDs:   make(map[ir.OpHandle]uint32),
	}
}

func (s *session) addEntryPoint(owner ir.TypeHandle, info *ir.EntryPointInfo) {
	refl := info.Reflection.Clone()
	if refl.ShaderTypeName == "" {
		refl.ShaderTypeName = s.lib.Type(owner).Name
	}
	s.entries = append(s.entries, entryPoint{owner: owner, info: info, reflection: refl})
}

func (s *session) emit() Result {
	for _, e := range s.entries {
		s.collector.CollectEntryPoint(e.info)
	}
	s.checkEntryVariables()

	var bindings []ir.LateBinding
	for _, e := range s.entries {
		bindings = append(bindings, e.info.LateBound...)
	}
	for _, e := range s.entries {
		if e.info.GlobalsInitializer != nil {
			placeholder := *e.info.GlobalsInitializer
			bindings = append(bindings, ir.LateBinding{
				Placeholder: placeholder,
				Replacement: s.globalsInitializer(placeholder),
			})
		}
	}
	s.lateBind(bindings)
	s.checkAbstractFunctions()

	s.generateIDs()
	s.assignSpecIDs()

	s.out.WriteHeader(s.opts.Version, s.ids.Bound())
	s.writeHeaderSection()
	if s.opts.DebugNames {
		s.writeDebug()
	}
	s.writeDecorations()
	s.writeDeclarations()
	s.writeFunctions()

	res := Result{Words: s.out.Words()}
	for _, e := range s.entries {
		res.Stages = append(res.Stages, e.reflection)
	}
	return res
}

func (s *session) checkEntryVariables() {
	for _, e := range s.entries {
		for _, v := range e.info.Variables {
			if !s.collector.HasGlobal(v) {
				invariant("CollectEntryPoint", "entry point variable %d of %s is not a module-scope global",
					v, s.lib.Type(e.owner).Name)
			}
		}
	}
}

// generateIDs assigns ids in collection order: imports, types, constants,
// globals, then each function with its parameters, blocks and results.
func (s *session) generateIDs() {
	c := s.collector
	for _, h := range c.Imports {
		s.ids.GenerateID(ir.ImportRef(h))
	}
	for _, h := range c.Types {
		s.ids.GenerateID(ir.TypeRef(h))
	}
	for _, h := range c.Constants {
		s.ids.GenerateID(ir.OpRef(h))
	}
	for _, h := range c.Globals {
		s.ids.GenerateID(ir.OpRef(h))
	}
	for _, fh := range c.Functions {
		s.ids.GenerateID(ir.FunctionRef(fh))
		fn := s.lib.Function(fh)
		for _, p := range fn.Params {
			s.ids.GenerateID(ir.OpRef(p))
		}
		for _, bh := range fn.Blocks {
			s.ids.GenerateID(ir.BlockRef(bh))
			block := s.lib.Block(bh)
			for _, l := range block.Locals {
				s.ids.GenerateID(ir.OpRef(l))
			}
			for _, l := range block.Lines {
				// Terminators and OpStore carry no result type, so this is
				// the same set as "not a terminator and not a store".
				if s.lib.Op(l).HasResultType() {
					s.ids.GenerateID(ir.OpRef(l))
				}
			}
		}
	}
}

func (s *session) id(ref ir.Ref) uint32 { return s.ids.FindID(ref, true) }

func (s *session) writeHeaderSection() {
	for _, capability := range s.collector.Capabilities.List() {
		s.out.Op(spv.OpCapability, uint32(capability))
	}

	for _, h := range s.collector.Imports {
		b := NewInstructionBuilder()
		b.AddWord(s.id(ir.ImportRef(h)))
		b.AddString(s.lib.Import(h).Name)
		s.out.Write(b.Build(spv.OpExtInstImport))
	}

	s.out.Op(spv.OpMemoryModel, spv.AddressingModelLogical, spv.MemoryModelGLSL450)

	for _, e := range s.entries {
		b := NewInstructionBuilder()
		b.AddWord(uint32(executionModel(e.info.Stage)))
		b.AddWord(s.id(ir.FunctionRef(e.info.Function)))
		b.AddString(s.lib.Function(e.info.Function).Name)
		for _, v := range e.info.Interface {
			b.AddWord(s.id(ir.OpRef(v)))
		}
		s.out.Write(b.Build(spv.OpEntryPoint))
	}

	for _, e := range s.entries {
		for _, h := range e.info.ExecutionModes {
			s.writeOp(h, nil)
		}
	}

	s.out.Op(spv.OpSource, spv.SourceLanguageUnknown, SourceVersion)
}

func executionModel(stage ir.FragmentType) spv.ExecutionModel {
	switch stage {
	case ir.FragmentVertex:
		return spv.ExecutionModelVertex
	case ir.FragmentPixel:
		return spv.ExecutionModelFragment
	case ir.FragmentGeometry:
		return spv.ExecutionModelGeometry
	case ir.FragmentCompute:
		return spv.ExecutionModelGLCompute
	}
	invariant("OpEntryPoint", "no execution model for stage %s", stage)
	return 0
}

func (s *session) writeName(id uint32, name string) {
	if name == "" {
		return
	}
	b := NewInstructionBuilder()
	b.AddWord(id)
	b.AddString(name)
	s.out.Write(b.Build(spv.OpName))
}

func (s *session) writeDebug() {
	for _, h := range s.collector.Types {
		t := s.lib.Type(h)
		id := s.id(ir.TypeRef(h))
		s.writeName(id, t.DebugName)
		for i, member := range t.MemberNames {
			if member == "" {
				continue
			}
			b := NewInstructionBuilder()
			b.AddWords(id, uint32(i))
			b.AddString(member)
			s.out.Write(b.Build(spv.OpMemberName))
		}
	}
	for _, h := range s.collector.Globals {
		s.writeName(s.id(ir.OpRef(h)), s.lib.Op(h).DebugName)
	}
	for _, h := range s.collector.Constants {
		s.writeName(s.id(ir.OpRef(h)), s.lib.Op(h).DebugName)
	}
	for _, fh := range s.collector.Functions {
		fn := s.lib.Function(fh)
		s.writeName(s.id(ir.FunctionRef(fh)), fn.DebugName)
		for _, p := range fn.Params {
			s.writeName(s.id(ir.OpRef(p)), s.lib.Op(p).DebugName)
		}
		for _, bh := range fn.Blocks {
			block := s.lib.Block(bh)
			s.writeName(s.id(ir.BlockRef(bh)), block.DebugName)
			for _, l := range block.Locals {
				s.writeName(s.id(ir.OpRef(l)), s.lib.Op(l).DebugName)
			}
			for _, l := range block.Lines {
				if s.lib.Op(l).Code.IsConstant() {
					continue
				}
				if id := s.ids.FindID(ir.OpRef(l), false); id != 0 {
					s.writeName(id, s.lib.Op(l).DebugName)
				}
			}
		}
	}
}

func (s *session) writeDecorations() {
	for _, e := range s.entries {
		for _, h := range e.info.Decorations {
			s.writeOp(h, nil)
		}
	}
	s.writeSpecDecorations()
}

// writeDeclarations writes types, constants and globals in collection order.
func (s *session) writeDeclarations() {
	for _, ref := range s.collector.Ordered {
		switch ref.Kind {
		case ir.RefType:
			s.writeType(ir.TypeHandle(ref.Index))
		case ir.RefOp:
			h := ir.OpHandle(ref.Index)
			if s.lib.Op(h).Code.IsConstant() {
				s.writeConstant(h)
			} else {
				s.writeOp(h, nil)
			}
		}
	}
}

func (s *session) writeType(h ir.TypeHandle) {
	t := s.lib.Type(h)
	id := s.id(ir.TypeRef(h))
	switch t.Kind {
	case ir.TypeVoid:
		s.out.Op(spv.OpTypeVoid, id)
	case ir.TypeBool:
		s.out.Op(spv.OpTypeBool, id)
	case ir.TypeInt:
		s.out.Op(spv.OpTypeInt, id, 32, 1)
	case ir.TypeUint:
		s.out.Op(spv.OpTypeInt, id, 32, 0)
	case ir.TypeFloat:
		s.out.Op(spv.OpTypeFloat, id, 32)
	case ir.TypeVector:
		s.out.Op(spv.OpTypeVector, id, s.id(t.Params[0]), t.Components)
	case ir.TypeMatrix:
		s.out.Op(spv.OpTypeMatrix, id, s.id(t.Params[0]), t.Components)
	case ir.TypeFixedArray:
		s.out.Op(spv.OpTypeArray, id, s.id(t.Params[0]), s.id(t.Params[1]))
	case ir.TypeRuntimeArray:
		s.out.Op(spv.OpTypeRuntimeArray, id, s.id(t.Params[0]))
	case ir.TypeStruct:
		s.out.Op(spv.OpTypeStruct, s.args([]uint32{id}, t.Params)...)
	case ir.TypeFunction:
		s.out.Op(spv.OpTypeFunction, s.args([]uint32{id}, t.Params)...)
	case ir.TypePointer:
		s.out.Op(spv.OpTypePointer, id, uint32(t.StorageClass), s.id(ir.TypeRef(t.Deref)))
	case ir.TypeImage:
		s.out.Op(spv.OpTypeImage, s.args([]uint32{id}, t.Params)...)
	case ir.TypeSampledImage:
		s.out.Op(spv.OpTypeSampledImage, id, s.id(t.Params[0]))
	case ir.TypeSampler:
		s.out.Op(spv.OpTypeSampler, id)
	default:
		invariant("WriteType", "unsupported type kind %s", t.Kind)
	}
}

func (s *session) writeConstant(h ir.OpHandle) {
	op := s.lib.Op(h)
	if op.Code == spv.OpConstantComposite || op.Code == spv.OpSpecConstantComposite ||
		op.Code == spv.OpConstantNull || op.Code == spv.OpSpecConstantOp {
		s.writeOp(h, nil)
		return
	}
	if op.ResultType == nil {
		invariant("WriteConstant", "constant %d has no type", h)
	}

	typeID := s.id(ir.TypeRef(*op.ResultType))
	id := s.id(ir.OpRef(h))
	spec := false
	var value uint32
	switch op.Code {
	case spv.OpConstantTrue:
		value = 1
	case spv.OpSpecConstantTrue:
		spec, value = true, 1
	case spv.OpConstantFalse:
	case spv.OpSpecConstantFalse:
		spec = true
	default:
		if len(op.Args) == 0 || op.Args[0].Kind != ir.RefLiteral {
			invariant("WriteConstant", "constant %d has no literal value", h)
		}
		spec = op.Code == spv.OpSpecConstant
		value = s.lib.Literal(ir.LiteralHandle(op.Args[0].Index)).Bits
	}

	switch kind := s.lib.Type(*op.ResultType).Kind; kind {
	case ir.TypeBool:
		code := spv.OpConstantFalse
		switch {
		case spec && value != 0:
			code = spv.OpSpecConstantTrue
		case spec:
			code = spv.OpSpecConstantFalse
		case value != 0:
			code = spv.OpConstantTrue
		}
		s.out.Op(code, typeID, id)
	case ir.TypeInt, ir.TypeUint, ir.TypeFloat:
		code := spv.OpConstant
		if spec {
			code = spv.OpSpecConstant
		}
		s.out.Op(code, typeID, id, value)
	default:
		invariant("WriteConstant", "unsupported constant type %s", kind)
	}
}

func (s *session) writeFunctions() {
	for _, fh := range s.collector.Functions {
		fn := s.lib.Function(fh)
		fnType := s.lib.Type(fn.Type)
		s.out.Op(spv.OpFunction,
			s.id(ir.TypeRef(fnType.ReturnType())),
			s.id(ir.FunctionRef(fh)),
			spv.FunctionControlNone,
			s.id(ir.TypeRef(fn.Type)))
		for _, p := range fn.Params {
			s.writeOp(p, nil)
		}
		for _, bh := range fn.Blocks {
			block := s.lib.Block(bh)
			s.out.Op(spv.OpLabel, s.id(ir.BlockRef(bh)))
			for _, l := range block.Locals {
				s.writeOp(l, block)
			}
			for _, l := range block.Lines {
				s.writeOp(l, block)
			}
		}
		s.out.Op(spv.OpFunctionEnd)
	}
}

// args appends the words of refs to prefix: literals as raw bits, every
// other node as its id.
func (s *session) args(prefix []uint32, refs []ir.Ref) []uint32 {
	for _, r := range refs {
		if r.Kind == ir.RefLiteral {
			prefix = append(prefix, s.lib.Literal(ir.LiteralHandle(r.Index)).Bits)
			continue
		}
		prefix = append(prefix, s.id(r))
	}
	return prefix
}

// writeOp writes one instruction. block is the enclosing block for
// instructions inside a function and nil elsewhere.
func (s *session) writeOp(h ir.OpHandle, block *ir.Block) {
	op := s.lib.Op(h)
	if block != nil && op.Code.IsConstant() {
		// Constants are written once, with the declarations.
		return
	}
	switch op.Code {
	case spv.OpReturn, spv.OpKill, spv.OpUnreachable, spv.OpEmitVertex:
		s.out.Op(op.Code)

	case spv.OpReturnValue, spv.OpStore, spv.OpDecorate, spv.OpMemberDecorate,
		spv.OpCopyMemory, spv.OpImageWrite, spv.OpCapability, spv.OpEndPrimitive,
		spv.OpExecutionMode:
		s.out.Op(op.Code, s.args(nil, op.Args)...)

	case spv.OpBranchConditional:
		if block != nil && block.Kind == ir.BlockSelection {
			s.out.Op(spv.OpSelectionMerge, s.id(ir.BlockRef(block.Merge)), spv.SelectionControlNone)
		}
		s.out.Op(op.Code, s.args(nil, op.Args)...)

	case spv.OpBranch:
		if block != nil && block.Kind == ir.BlockLoop {
			s.out.Op(spv.OpLoopMerge,
				s.id(ir.BlockRef(block.Merge)),
				s.id(ir.BlockRef(block.Continue)),
				spv.LoopControlNone)
		}
		s.out.Op(op.Code, s.args(nil, op.Args)...)

	case spv.OpConstant, spv.OpConstantTrue, spv.OpConstantFalse,
		spv.OpSpecConstant, spv.OpSpecConstantTrue, spv.OpSpecConstantFalse:
		s.writeConstant(h)

	default:
		if !op.HasResultType() {
			s.out.Op(op.Code, s.args(nil, op.Args)...)
			return
		}
		words := []uint32{s.id(ir.TypeRef(*op.ResultType)), s.id(ir.OpRef(h))}
		s.out.Op(op.Code, s.args(words, op.Args)...)
	}
}
