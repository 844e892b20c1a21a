package ir

import (
	"math"

	"github.com/plasmaengine/lightningspv/reflection"
	"github.com/plasmaengine/lightningspv/spv"
)

// TypeHandle is a handle to a type in a Library.
type TypeHandle uint32

// FunctionHandle is a handle to a function in a Library.
type FunctionHandle uint32

// BlockHandle is a handle to a basic block in a Library.
type BlockHandle uint32

// OpHandle is a handle to an instruction in a Library.
type OpHandle uint32

// LiteralHandle is a handle to a constant literal in a Library.
type LiteralHandle uint32

// ImportHandle is a handle to an extended instruction set import.
type ImportHandle uint32

// RefKind discriminates the node a Ref points at.
type RefKind uint8

// Reference kinds. The zero Ref points at nothing.
const (
	RefNone RefKind = iota
	RefType
	RefOp
	RefFunction
	RefBlock
	RefLiteral
	RefImport
)

func (k RefKind) String() string {
	switch k {
	case RefNone:
		return "none"
	case RefType:
		return "type"
	case RefOp:
		return "op"
	case RefFunction:
		return "fn"
	case RefBlock:
		return "block"
	case RefLiteral:
		return "lit"
	case RefImport:
		return "import"
	default:
		return "unknown"
	}
}

// Ref identifies any node of a Library. Two refs are the same node exactly
// when they compare equal.
type Ref struct {
	Kind  RefKind
	Index uint32
}

// TypeRef returns a reference to a type.
func TypeRef(h TypeHandle) Ref { return Ref{Kind: RefType, Index: uint32(h)} }

// OpRef returns a reference to an instruction.
func OpRef(h OpHandle) Ref { return Ref{Kind: RefOp, Index: uint32(h)} }

// FunctionRef returns a reference to a function.
func FunctionRef(h FunctionHandle) Ref { return Ref{Kind: RefFunction, Index: uint32(h)} }

// BlockRef returns a reference to a basic block.
func BlockRef(h BlockHandle) Ref { return Ref{Kind: RefBlock, Index: uint32(h)} }

// LiteralRef returns a reference to a constant literal.
func LiteralRef(h LiteralHandle) Ref { return Ref{Kind: RefLiteral, Index: uint32(h)} }

// ImportRef returns a reference to an extended instruction set import.
func ImportRef(h ImportHandle) Ref { return Ref{Kind: RefImport, Index: uint32(h)} }

// IsValid reports whether r points at a node.
func (r Ref) IsValid() bool { return r.Kind != RefNone }

// TypeKind is the discriminant of Type.
type TypeKind uint8

// Type kinds.
const (
	TypeVoid TypeKind = iota
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeVector
	TypeMatrix
	TypeStruct
	TypeFunction
	TypePointer
	TypeFixedArray
	TypeRuntimeArray
	TypeImage
	TypeSampledImage
	TypeSampler
)

var typeKindNames = [...]string{
	TypeVoid:         "void",
	TypeBool:         "bool",
	TypeInt:          "int",
	TypeUint:         "uint",
	TypeFloat:        "float",
	TypeVector:       "vector",
	TypeMatrix:       "matrix",
	TypeStruct:       "struct",
	TypeFunction:     "function",
	TypePointer:      "pointer",
	TypeFixedArray:   "array",
	TypeRuntimeArray: "runtime-array",
	TypeImage:        "image",
	TypeSampledImage: "sampled-image",
	TypeSampler:      "sampler",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// Image parameter positions in Type.Params of an image type.
const (
	ImageParamSampledType = iota
	ImageParamDim
	ImageParamDepth
	ImageParamArrayed
	ImageParamMultisampled
	ImageParamSampled
	ImageParamFormat
)

// ImageSampledStorage is the value of the Sampled image parameter for images
// used without a sampler.
const ImageSampledStorage = 2

// Type is one IR type. The meaning of Params depends on Kind:
//   - vector, matrix: [component type]
//   - struct: member types
//   - function: [return type, parameter types...]
//   - fixed array: [element type, length constant op]
//   - runtime array, sampled image: [element or image type]
//   - image: the image operands, see ImageParam*
type Type struct {
	// Name is the library-unique lookup key.
	Name      string
	DebugName string
	Kind      TypeKind

	// Components is the vector size or matrix column count.
	Components uint32
	Params     []Ref

	// MemberNames holds struct member names by index.
	MemberNames []string

	// StorageClass and Deref describe pointer types.
	StorageClass spv.StorageClass
	Deref        TypeHandle

	Meta       *TypeMeta
	EntryPoint *EntryPointInfo
}

// ComponentType returns the component type of a vector or matrix, or the
// element type of an array.
func (t *Type) ComponentType() TypeHandle {
	return TypeHandle(t.Params[0].Index)
}

// ReturnType returns the return type of a function type.
func (t *Type) ReturnType() TypeHandle {
	return TypeHandle(t.Params[0].Index)
}

// MemberName returns the name of member i, or "" if it has none.
func (t *Type) MemberName(i int) string {
	if i < len(t.MemberNames) {
		return t.MemberNames[i]
	}
	return ""
}

// BlockKind tags the structured control flow header a block is.
type BlockKind uint8

// Block kinds.
const (
	BlockPlain BlockKind = iota
	BlockSelection
	BlockLoop
)

// Block is a basic block. Merge is set on selection and loop headers;
// Continue only on loop headers.
type Block struct {
	DebugName string
	Kind      BlockKind
	Locals    []OpHandle
	Lines     []OpHandle
	Merge     BlockHandle
	Continue  BlockHandle
}

// Function is an IR function. An abstract function is a placeholder that is
// only ever emitted through a late-bound replacement.
type Function struct {
	Name      string
	DebugName string
	Type      TypeHandle
	Params    []OpHandle
	Blocks    []BlockHandle
	Abstract  bool
}

// Op is one instruction. Constants and global variables are ops too.
type Op struct {
	Code       spv.Op
	DebugName  string
	ResultType *TypeHandle
	Args       []Ref
}

// HasResultType reports whether the op produces a typed value.
func (o *Op) HasResultType() bool {
	return o.ResultType != nil
}

// LiteralKind is the scalar kind of a Literal.
type LiteralKind uint8

// Literal kinds.
const (
	LiteralBool LiteralKind = iota
	LiteralInt
	LiteralUint
	LiteralFloat
)

// Literal is a raw 32-bit scalar. Bits holds the value's bit pattern as it is
// written to the word stream.
type Literal struct {
	Kind LiteralKind
	Bits uint32
}

// BoolLiteral returns a boolean literal.
func BoolLiteral(v bool) Literal {
	if v {
		return Literal{Kind: LiteralBool, Bits: 1}
	}
	return Literal{Kind: LiteralBool}
}

// IntLiteral returns a signed integer literal.
func IntLiteral(v int32) Literal { return Literal{Kind: LiteralInt, Bits: uint32(v)} }

// UintLiteral returns an unsigned integer literal.
func UintLiteral(v uint32) Literal { return Literal{Kind: LiteralUint, Bits: v} }

// FloatLiteral returns a 32-bit float literal.
func FloatLiteral(v float32) Literal {
	return Literal{Kind: LiteralFloat, Bits: math.Float32bits(v)}
}

// Bool returns the literal as a boolean.
func (l Literal) Bool() bool { return l.Bits != 0 }

// Int returns the literal as a signed integer.
func (l Literal) Int() int32 { return int32(l.Bits) }

// Float returns the literal as a float.
func (l Literal) Float() float32 { return math.Float32frombits(l.Bits) }

// ExtensionImport is an extended instruction set such as GLSL.std.450.
type ExtensionImport struct {
	Name string
}

// GlobalVariable records a module-scope variable and the function that
// initializes it, if any.
type GlobalVariable struct {
	Instance    OpHandle
	Initializer *FunctionHandle
}

// LateBinding replaces every use of Placeholder with Replacement.
type LateBinding struct {
	Placeholder FunctionHandle
	Replacement FunctionHandle
}

// EntryPointInfo is the stage entry point owned by a type.
type EntryPointInfo struct {
	Function FunctionHandle
	Stage    FragmentType

	// Interface lists the global variables the entry point declares.
	Interface []OpHandle

	// Variables lists every global the entry point needs.
	Variables      []OpHandle
	ExecutionModes []OpHandle
	Decorations    []OpHandle
	Capabilities   []spv.Capability

	// GlobalsInitializer is the placeholder called at entry to run global
	// initializers. It is replaced by a generated function at emission.
	GlobalsInitializer *FunctionHandle
	LateBound          []LateBinding

	Reflection reflection.StageReflection
}
