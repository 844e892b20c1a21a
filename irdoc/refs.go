package irdoc

import (
	"strconv"
	"strings"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// ref resolves a reference string. fn is the enclosing function for op:
// and block: references, or "" at module scope.
func (l *loader) ref(fn, s string) (ir.Ref, error) {
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return ir.Ref{}, invalid("reference %q has no kind prefix", s)
	}
	switch kind {
	case "type":
		h, err := l.typeNamed(rest)
		return ir.TypeRef(h), err
	case "op":
		h, err := l.opNamed(fn, rest)
		return ir.OpRef(h), err
	case "fn":
		h, err := l.functionNamed(rest)
		return ir.FunctionRef(h), err
	case "block":
		owner, name, qualified := strings.Cut(rest, "/")
		if !qualified {
			owner, name = fn, rest
		}
		h, err := l.blockNamed(owner, name)
		return ir.BlockRef(h), err
	case "import":
		h, ok := l.imports[rest]
		if !ok {
			return ir.Ref{}, unresolved("import", rest)
		}
		return ir.ImportRef(h), nil
	case "lit":
		litKind, value, _ := strings.Cut(rest, ":")
		lit, err := parseLiteral(litKind, value)
		if err != nil {
			return ir.Ref{}, err
		}
		return l.b.Lit(lit), nil
	}
	return ir.Ref{}, invalid("unknown reference kind %q in %q", kind, s)
}

func (l *loader) typeNamed(name string) (ir.TypeHandle, error) {
	if h, ok := l.types[name]; ok {
		return h, nil
	}
	if scalar, ok := l.scalars[name]; ok {
		return scalar(), nil
	}
	if h, ok := l.lib.FindType(name); ok {
		return h, nil
	}
	return 0, unresolved("type", name)
}

// opNamed looks name up in fn's scope first, then at module scope.
func (l *loader) opNamed(fn, name string) (ir.OpHandle, error) {
	if scope, ok := l.locals[fn]; ok {
		if h, ok := scope[name]; ok {
			return h, nil
		}
	}
	if h, ok := l.ops[name]; ok {
		return h, nil
	}
	return 0, unresolved("op", name)
}

func (l *loader) functionNamed(name string) (ir.FunctionHandle, error) {
	h, ok := l.functions[name]
	if !ok {
		return 0, unresolved("function", name)
	}
	return h, nil
}

func (l *loader) blockNamed(fn, name string) (ir.BlockHandle, error) {
	h, ok := l.blocks[fn][name]
	if !ok {
		return 0, unresolved("block", fn+"/"+name)
	}
	return h, nil
}

func parseLiteral(kind, value string) (ir.Literal, error) {
	switch kind {
	case "int":
		v, err := strconv.ParseInt(value, 0, 32)
		if err != nil {
			return ir.Literal{}, invalid("int literal %q: %v", value, err)
		}
		return ir.IntLiteral(int32(v)), nil
	case "uint":
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return ir.Literal{}, invalid("uint literal %q: %v", value, err)
		}
		return ir.UintLiteral(uint32(v)), nil
	case "float":
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return ir.Literal{}, invalid("float literal %q: %v", value, err)
		}
		return ir.FloatLiteral(float32(v)), nil
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return ir.Literal{}, invalid("bool literal %q: %v", value, err)
		}
		return ir.BoolLiteral(v), nil
	}
	return ir.Literal{}, invalid("unknown literal kind %q", kind)
}

// literalKind maps a scalar type to the literal kind its constants use.
func literalKind(k ir.TypeKind) (string, bool) {
	switch k {
	case ir.TypeBool:
		return "bool", true
	case ir.TypeInt:
		return "int", true
	case ir.TypeUint:
		return "uint", true
	case ir.TypeFloat:
		return "float", true
	}
	return "", false
}

// decorationParam parses a number or a built-in name.
func decorationParam(s string) (uint32, error) {
	if v, err := strconv.ParseUint(s, 0, 32); err == nil {
		return uint32(v), nil
	}
	if b, ok := spv.BuiltInByName(s); ok {
		return uint32(b), nil
	}
	return 0, invalid("decoration operand %q is neither a number nor a built-in", s)
}
