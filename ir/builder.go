package ir

import (
	"strconv"
	"strings"

	"github.com/plasmaengine/lightningspv/spv"
)

// Builder constructs a Library. Scalar, vector, matrix, pointer, array and
// function types are deduplicated through a TypeRegistry; plain constants
// are deduplicated by type and value.
type Builder struct {
	lib       *Library
	types     *TypeRegistry
	constants map[constantKey]OpHandle
	imports   map[string]ImportHandle
}

type constantKey struct {
	typ  TypeHandle
	bits uint32
}

// NewBuilder creates a builder for a new, empty library.
func NewBuilder(name string) *Builder {
	return Extend(NewLibrary(name))
}

// Extend creates a builder that appends to an existing library, such as a
// Scratch view.
func Extend(lib *Library) *Builder {
	return &Builder{
		lib:       lib,
		types:     NewTypeRegistry(lib),
		constants: make(map[constantKey]OpHandle),
		imports:   make(map[string]ImportHandle),
	}
}

// Library returns the library being built.
func (b *Builder) Library() *Library { return b.lib }

func (b *Builder) scalar(name string, kind TypeKind) TypeHandle {
	return b.types.GetOrCreate(Type{Name: name, DebugName: name, Kind: kind})
}

// Void returns the void type.
func (b *Builder) Void() TypeHandle { return b.scalar("Void", TypeVoid) }

// Bool returns the boolean type.
func (b *Builder) Bool() TypeHandle { return b.scalar("Boolean", TypeBool) }

// Int returns the 32-bit signed integer type.
func (b *Builder) Int() TypeHandle { return b.scalar("Integer", TypeInt) }

// Uint returns the 32-bit unsigned integer type.
func (b *Builder) Uint() TypeHandle { return b.scalar("UInteger", TypeUint) }

// Float returns the 32-bit float type.
func (b *Builder) Float() TypeHandle { return b.scalar("Real", TypeFloat) }

// Vector returns an n-component vector of component.
func (b *Builder) Vector(component TypeHandle, n uint32) TypeHandle {
	name := b.lib.Type(component).Name + strconv.FormatUint(uint64(n), 10)
	return b.types.GetOrCreate(Type{
		Name:       name,
		DebugName:  name,
		Kind:       TypeVector,
		Components: n,
		Params:     []Ref{TypeRef(component)},
	})
}

// Matrix returns a matrix with the given column vector type.
func (b *Builder) Matrix(column TypeHandle, columns uint32) TypeHandle {
	name := b.lib.Type(column).Name + "x" + strconv.FormatUint(uint64(columns), 10)
	return b.types.GetOrCreate(Type{
		Name:       name,
		DebugName:  name,
		Kind:       TypeMatrix,
		Components: columns,
		Params:     []Ref{TypeRef(column)},
	})
}

// Pointer returns a pointer to deref in the given storage class.
func (b *Builder) Pointer(deref TypeHandle, class spv.StorageClass) TypeHandle {
	return b.types.GetOrCreate(Type{
		Name:         b.lib.Type(deref).Name + "*" + class.String(),
		Kind:         TypePointer,
		StorageClass: class,
		Deref:        deref,
		Params:       []Ref{TypeRef(deref)},
	})
}

// FunctionType returns the type of a function. Its name has the form
// "(Real, Real) : Void".
func (b *Builder) FunctionType(ret TypeHandle, params ...TypeHandle) TypeHandle {
	names := make([]string, len(params))
	refs := make([]Ref, 0, len(params)+1)
	refs = append(refs, TypeRef(ret))
	for i, p := range params {
		names[i] = b.lib.Type(p).Name
		refs = append(refs, TypeRef(p))
	}
	name := "(" + strings.Join(names, ", ") + ") : " + b.lib.Type(ret).Name
	return b.types.GetOrCreate(Type{Name: name, Kind: TypeFunction, Params: refs})
}

// Member is a named struct member.
type Member struct {
	Name string
	Type TypeHandle
}

// Struct returns a named struct type.
func (b *Builder) Struct(name string, members ...Member) TypeHandle {
	t := Type{Name: name, DebugName: name, Kind: TypeStruct}
	for _, m := range members {
		t.Params = append(t.Params, TypeRef(m.Type))
		t.MemberNames = append(t.MemberNames, m.Name)
	}
	return b.types.GetOrCreate(t)
}

// Fragment returns a struct type carrying fragment metadata. Member types are
// resolved from the field type names; unknown names are skipped.
func (b *Builder) Fragment(name string, stage FragmentType, fields ...FieldMeta) TypeHandle {
	var members []Member
	for _, f := range fields {
		if h, ok := b.lib.FindType(f.TypeName); ok {
			members = append(members, Member{Name: f.Name, Type: h})
		}
	}
	h := b.Struct(name, members...)
	b.lib.Type(h).Meta = &TypeMeta{Name: name, Fragment: stage, Fields: fields}
	return h
}

// FixedArray returns an array of length elements.
func (b *Builder) FixedArray(elem TypeHandle, length uint32) TypeHandle {
	lengthOp := b.Constant(b.Int(), IntLiteral(int32(length)))
	return b.types.GetOrCreate(Type{
		Name:   b.lib.Type(elem).Name + "[" + strconv.FormatUint(uint64(length), 10) + "]",
		Kind:   TypeFixedArray,
		Params: []Ref{TypeRef(elem), OpRef(lengthOp)},
	})
}

// RuntimeArray returns an unsized array type.
func (b *Builder) RuntimeArray(elem TypeHandle) TypeHandle {
	name := b.lib.Type(elem).Name + "[]"
	return b.types.GetOrCreate(Type{
		Name:      name,
		DebugName: name,
		Kind:      TypeRuntimeArray,
		Params:    []Ref{TypeRef(elem)},
	})
}

// ImageOptions are the operands of an image type.
type ImageOptions struct {
	Dim          uint32
	Depth        uint32
	Arrayed      uint32
	Multisampled uint32
	Sampled      uint32
	Format       uint32
}

// Image returns a named image type.
func (b *Builder) Image(name string, sampledType TypeHandle, opts ImageOptions) TypeHandle {
	return b.types.GetOrCreate(Type{
		Name:      name,
		DebugName: name,
		Kind:      TypeImage,
		Params: []Ref{
			TypeRef(sampledType),
			b.Lit(UintLiteral(opts.Dim)),
			b.Lit(UintLiteral(opts.Depth)),
			b.Lit(UintLiteral(opts.Arrayed)),
			b.Lit(UintLiteral(opts.Multisampled)),
			b.Lit(UintLiteral(opts.Sampled)),
			b.Lit(UintLiteral(opts.Format)),
		},
	})
}

// SampledImage returns a named sampled image type over image.
func (b *Builder) SampledImage(name string, image TypeHandle) TypeHandle {
	return b.types.GetOrCreate(Type{
		Name:      name,
		DebugName: name,
		Kind:      TypeSampledImage,
		Params:    []Ref{TypeRef(image)},
	})
}

// Sampler returns the sampler type.
func (b *Builder) Sampler() TypeHandle { return b.scalar("Sampler", TypeSampler) }

// Lit appends a literal and returns a reference to it.
func (b *Builder) Lit(l Literal) Ref {
	return LiteralRef(b.lib.AddLiteral(l))
}

// Constant returns a constant of type t.
func (b *Builder) Constant(t TypeHandle, value Literal) OpHandle {
	key := constantKey{typ: t, bits: value.Bits}
	if h, ok := b.constants[key]; ok {
		return h
	}
	h := b.lib.AddOp(Op{Code: spv.OpConstant, ResultType: &t, Args: []Ref{b.Lit(value)}})
	b.constants[key] = h
	return h
}

// SpecConstant returns a named scalar specialization constant with a
// default value.
func (b *Builder) SpecConstant(t TypeHandle, name string, value Literal) OpHandle {
	return b.lib.AddOp(Op{
		Code:       spv.OpSpecConstant,
		DebugName:  name,
		ResultType: &t,
		Args:       []Ref{b.Lit(value)},
	})
}

// SpecConstantComposite returns a named composite specialization constant.
// Constituent order is preserved.
func (b *Builder) SpecConstantComposite(t TypeHandle, name string, parts ...OpHandle) OpHandle {
	args := make([]Ref, len(parts))
	for i, p := range parts {
		args[i] = OpRef(p)
	}
	return b.lib.AddOp(Op{
		Code:       spv.OpSpecConstantComposite,
		DebugName:  name,
		ResultType: &t,
		Args:       args,
	})
}

// ConstantComposite returns a composite constant of type t.
func (b *Builder) ConstantComposite(t TypeHandle, parts ...OpHandle) OpHandle {
	args := make([]Ref, len(parts))
	for i, p := range parts {
		args[i] = OpRef(p)
	}
	return b.lib.AddOp(Op{Code: spv.OpConstantComposite, ResultType: &t, Args: args})
}

// GlobalVariable declares a module-scope variable of type t.
func (b *Builder) GlobalVariable(t TypeHandle, class spv.StorageClass, name string, init *FunctionHandle) OpHandle {
	ptr := b.Pointer(t, class)
	h := b.lib.AddOp(Op{
		Code:       spv.OpVariable,
		DebugName:  name,
		ResultType: &ptr,
		Args:       []Ref{b.Lit(UintLiteral(uint32(class)))},
	})
	b.lib.AddGlobal(GlobalVariable{Instance: h, Initializer: init})
	return h
}

// Import returns the import of an extended instruction set.
func (b *Builder) Import(name string) ImportHandle {
	if h, ok := b.imports[name]; ok {
		return h
	}
	h := b.lib.AddImport(name)
	b.imports[name] = h
	return h
}

// SetName sets the debug name of an op.
func (b *Builder) SetName(op OpHandle, name string) {
	b.lib.Op(op).DebugName = name
}

// Function starts a concrete function.
func (b *Builder) Function(name string, fnType TypeHandle) *FunctionBuilder {
	h := b.lib.AddFunction(Function{Name: name, DebugName: name, Type: fnType})
	return &FunctionBuilder{b: b, h: h}
}

// AbstractFunction declares a placeholder to be replaced by late binding.
func (b *Builder) AbstractFunction(name string, fnType TypeHandle) FunctionHandle {
	return b.lib.AddFunction(Function{Name: name, DebugName: name, Type: fnType, Abstract: true})
}

// FunctionBuilder appends parameters and blocks to a function.
type FunctionBuilder struct {
	b *Builder
	h FunctionHandle
}

// Handle returns the function's handle.
func (f *FunctionBuilder) Handle() FunctionHandle { return f.h }

// Param appends a parameter.
func (f *FunctionBuilder) Param(t TypeHandle, name string) OpHandle {
	op := f.b.lib.AddOp(Op{Code: spv.OpFunctionParameter, DebugName: name, ResultType: &t})
	fn := f.b.lib.Function(f.h)
	fn.Params = append(fn.Params, op)
	return op
}

// Block appends a basic block.
func (f *FunctionBuilder) Block(name string) *BlockBuilder {
	h := f.b.lib.AddBlock(Block{DebugName: name})
	fn := f.b.lib.Function(f.h)
	fn.Blocks = append(fn.Blocks, h)
	return &BlockBuilder{b: f.b, h: h}
}

// BlockBuilder appends instructions to a block.
type BlockBuilder struct {
	b *Builder
	h BlockHandle
}

// Handle returns the block's handle.
func (bb *BlockBuilder) Handle() BlockHandle { return bb.h }

// Emit appends an instruction. result may be nil for ops without a result
// type.
func (bb *BlockBuilder) Emit(code spv.Op, result *TypeHandle, args ...Ref) OpHandle {
	op := bb.b.lib.AddOp(Op{Code: code, ResultType: result, Args: args})
	block := bb.b.lib.Block(bb.h)
	block.Lines = append(block.Lines, op)
	return op
}

// Value appends an instruction producing a value of type t.
func (bb *BlockBuilder) Value(code spv.Op, t TypeHandle, args ...Ref) OpHandle {
	return bb.Emit(code, &t, args...)
}

// Local declares a function-scope variable of type t.
func (bb *BlockBuilder) Local(t TypeHandle, name string) OpHandle {
	ptr := bb.b.Pointer(t, spv.StorageClassFunction)
	op := bb.b.lib.AddOp(Op{
		Code:       spv.OpVariable,
		DebugName:  name,
		ResultType: &ptr,
		Args:       []Ref{bb.b.Lit(UintLiteral(uint32(spv.StorageClassFunction)))},
	})
	block := bb.b.lib.Block(bb.h)
	block.Locals = append(block.Locals, op)
	return op
}

// Load reads a value of type t through ptr.
func (bb *BlockBuilder) Load(t TypeHandle, ptr OpHandle) OpHandle {
	return bb.Value(spv.OpLoad, t, OpRef(ptr))
}

// Store writes value through ptr.
func (bb *BlockBuilder) Store(ptr, value OpHandle) {
	bb.Emit(spv.OpStore, nil, OpRef(ptr), OpRef(value))
}

// Call calls fn.
func (bb *BlockBuilder) Call(ret TypeHandle, fn FunctionHandle, args ...OpHandle) OpHandle {
	refs := []Ref{FunctionRef(fn)}
	for _, a := range args {
		refs = append(refs, OpRef(a))
	}
	return bb.Value(spv.OpFunctionCall, ret, refs...)
}

// Return terminates the block.
func (bb *BlockBuilder) Return() { bb.Emit(spv.OpReturn, nil) }

// ReturnValue terminates the block returning v.
func (bb *BlockBuilder) ReturnValue(v OpHandle) { bb.Emit(spv.OpReturnValue, nil, OpRef(v)) }

// Branch terminates the block with an unconditional branch.
func (bb *BlockBuilder) Branch(target BlockHandle) {
	bb.Emit(spv.OpBranch, nil, BlockRef(target))
}

// BranchConditional terminates the block with a two-way branch.
func (bb *BlockBuilder) BranchConditional(cond OpHandle, ifTrue, ifFalse BlockHandle) {
	bb.Emit(spv.OpBranchConditional, nil, OpRef(cond), BlockRef(ifTrue), BlockRef(ifFalse))
}

// SelectionHeader marks the block as a selection header merging at merge.
func (bb *BlockBuilder) SelectionHeader(merge BlockHandle) {
	block := bb.b.lib.Block(bb.h)
	block.Kind = BlockSelection
	block.Merge = merge
}

// LoopHeader marks the block as a loop header.
func (bb *BlockBuilder) LoopHeader(merge, continueTarget BlockHandle) {
	block := bb.b.lib.Block(bb.h)
	block.Kind = BlockLoop
	block.Merge = merge
	block.Continue = continueTarget
}

// EntryPoint attaches an entry point to owner.
func (b *Builder) EntryPoint(owner TypeHandle, fn FunctionHandle, stage FragmentType) *EntryPointInfo {
	ep := &EntryPointInfo{Function: fn, Stage: stage}
	ep.Reflection.ShaderTypeName = b.lib.Type(owner).Name
	b.lib.Type(owner).EntryPoint = ep
	return ep
}

// ExecutionMode adds an execution mode to ep.
func (b *Builder) ExecutionMode(ep *EntryPointInfo, mode spv.ExecutionMode, params ...uint32) OpHandle {
	args := []Ref{FunctionRef(ep.Function), b.Lit(UintLiteral(uint32(mode)))}
	for _, p := range params {
		args = append(args, b.Lit(UintLiteral(p)))
	}
	h := b.lib.AddOp(Op{Code: spv.OpExecutionMode, Args: args})
	ep.ExecutionModes = append(ep.ExecutionModes, h)
	return h
}

// Decorate adds a decoration of target to ep.
func (b *Builder) Decorate(ep *EntryPointInfo, target Ref, decoration spv.Decoration, params ...uint32) OpHandle {
	args := []Ref{target, b.Lit(UintLiteral(uint32(decoration)))}
	for _, p := range params {
		args = append(args, b.Lit(UintLiteral(p)))
	}
	h := b.lib.AddOp(Op{Code: spv.OpDecorate, Args: args})
	ep.Decorations = append(ep.Decorations, h)
	return h
}

// MemberDecorate adds a decoration of a struct member to ep.
func (b *Builder) MemberDecorate(ep *EntryPointInfo, structType TypeHandle, member uint32, decoration spv.Decoration, params ...uint32) OpHandle {
	args := []Ref{TypeRef(structType), b.Lit(UintLiteral(member)), b.Lit(UintLiteral(uint32(decoration)))}
	for _, p := range params {
		args = append(args, b.Lit(UintLiteral(p)))
	}
	h := b.lib.AddOp(Op{Code: spv.OpMemberDecorate, Args: args})
	ep.Decorations = append(ep.Decorations, h)
	return h
}

// Interface adds global variables to the entry point's interface.
func (b *Builder) Interface(ep *EntryPointInfo, vars ...OpHandle) {
	ep.Interface = append(ep.Interface, vars...)
	ep.Variables = append(ep.Variables, vars...)
}
