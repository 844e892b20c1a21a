package ir

import (
	"github.com/plasmaengine/lightningspv/reflection"
)

// Library owns every node of an IR program. Nodes are addressed by handles
// that index the arenas below; a library is read-only once it has been
// handed to the emitter.
type Library struct {
	Name string

	Types     []Type
	Functions []Function
	Blocks    []Block
	Ops       []Op
	Literals  []Literal
	Imports   []ExtensionImport
	Globals   []GlobalVariable

	typeNames map[string]TypeHandle
	globals   map[OpHandle]int
	parent    *Library
}

// NewLibrary creates an empty library.
func NewLibrary(name string) *Library {
	return &Library{
		Name:      name,
		typeNames: make(map[string]TypeHandle),
		globals:   make(map[OpHandle]int),
	}
}

// Scratch returns a view of l that can be appended to without modifying l.
// Handles of l stay valid in the view, and new nodes get handles past the
// end of l's arenas. Views are cheap and never shared between goroutines.
func (l *Library) Scratch() *Library {
	return &Library{
		Name:      l.Name,
		Types:     l.Types[:len(l.Types):len(l.Types)],
		Functions: l.Functions[:len(l.Functions):len(l.Functions)],
		Blocks:    l.Blocks[:len(l.Blocks):len(l.Blocks)],
		Ops:       l.Ops[:len(l.Ops):len(l.Ops)],
		Literals:  l.Literals[:len(l.Literals):len(l.Literals)],
		Imports:   l.Imports[:len(l.Imports):len(l.Imports)],
		Globals:   l.Globals[:len(l.Globals):len(l.Globals)],
		typeNames: make(map[string]TypeHandle),
		globals:   make(map[OpHandle]int),
		parent:    l,
	}
}

// AddType appends a type and indexes it by name.
func (l *Library) AddType(t Type) TypeHandle {
	h := TypeHandle(len(l.Types))
	l.Types = append(l.Types, t)
	if t.Name != "" {
		if l.typeNames == nil {
			l.typeNames = make(map[string]TypeHandle)
		}
		l.typeNames[t.Name] = h
	}
	return h
}

// AddFunction appends a function.
func (l *Library) AddFunction(f Function) FunctionHandle {
	l.Functions = append(l.Functions, f)
	return FunctionHandle(len(l.Functions) - 1)
}

// AddBlock appends a basic block.
func (l *Library) AddBlock(b Block) BlockHandle {
	l.Blocks = append(l.Blocks, b)
	return BlockHandle(len(l.Blocks) - 1)
}

// AddOp appends an instruction.
func (l *Library) AddOp(op Op) OpHandle {
	l.Ops = append(l.Ops, op)
	return OpHandle(len(l.Ops) - 1)
}

// AddLiteral appends a literal.
func (l *Library) AddLiteral(lit Literal) LiteralHandle {
	l.Literals = append(l.Literals, lit)
	return LiteralHandle(len(l.Literals) - 1)
}

// AddImport appends an extended instruction set import.
func (l *Library) AddImport(name string) ImportHandle {
	l.Imports = append(l.Imports, ExtensionImport{Name: name})
	return ImportHandle(len(l.Imports) - 1)
}

// AddGlobal registers a module-scope variable.
func (l *Library) AddGlobal(g GlobalVariable) {
	if l.globals == nil {
		l.globals = make(map[OpHandle]int)
	}
	l.globals[g.Instance] = len(l.Globals)
	l.Globals = append(l.Globals, g)
}

// Type returns the type for h.
func (l *Library) Type(h TypeHandle) *Type { return &l.Types[h] }

// Function returns the function for h.
func (l *Library) Function(h FunctionHandle) *Function { return &l.Functions[h] }

// Block returns the block for h.
func (l *Library) Block(h BlockHandle) *Block { return &l.Blocks[h] }

// Op returns the instruction for h.
func (l *Library) Op(h OpHandle) *Op { return &l.Ops[h] }

// Literal returns the literal for h.
func (l *Library) Literal(h LiteralHandle) Literal { return l.Literals[h] }

// Import returns the import for h.
func (l *Library) Import(h ImportHandle) *ExtensionImport { return &l.Imports[h] }

// FindType looks a type up by name.
func (l *Library) FindType(name string) (TypeHandle, bool) {
	for lib := l; lib != nil; lib = lib.parent {
		if h, ok := lib.typeNames[name]; ok {
			return h, true
		}
	}
	return 0, false
}

// Global returns the global variable record whose instance is op.
func (l *Library) Global(op OpHandle) (GlobalVariable, bool) {
	for lib := l; lib != nil; lib = lib.parent {
		if i, ok := lib.globals[op]; ok {
			return l.Globals[i], true
		}
	}
	return GlobalVariable{}, false
}

// EntryPointTypes returns every type that owns an entry point, in
// declaration order.
func (l *Library) EntryPointTypes() []TypeHandle {
	var out []TypeHandle
	for i := range l.Types {
		if l.Types[i].EntryPoint != nil {
			out = append(out, TypeHandle(i))
		}
	}
	return out
}

// ResourceClass classifies a named type for reflection lookups. Unknown
// names are plain values.
func (l *Library) ResourceClass(typeName string) reflection.ResourceClass {
	h, ok := l.FindType(typeName)
	if !ok {
		return reflection.ClassValue
	}
	t := l.Type(h)
	switch t.Kind {
	case TypeSampledImage:
		return reflection.ClassSampledImage
	case TypeSampler:
		return reflection.ClassSampler
	case TypeRuntimeArray:
		return reflection.ClassStorageBuffer
	case TypeImage:
		if l.isStorageImage(t) {
			return reflection.ClassStorageImage
		}
		return reflection.ClassImage
	default:
		return reflection.ClassValue
	}
}

func (l *Library) isStorageImage(t *Type) bool {
	if len(t.Params) <= ImageParamSampled {
		return false
	}
	p := t.Params[ImageParamSampled]
	if p.Kind != RefLiteral {
		return false
	}
	return l.Literal(LiteralHandle(p.Index)).Bits == ImageSampledStorage
}
