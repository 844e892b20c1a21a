package ir

import (
	"strconv"
)

// TypeRegistry deduplicates types added to a library. SPIR-V requires each
// non-aggregate type to be declared exactly once, so two structurally equal
// types must share a handle.
type TypeRegistry struct {
	lib     *Library
	typeMap map[string]TypeHandle
	keyBuf  []byte // reusable buffer for building type keys
}

// NewTypeRegistry creates a registry that appends to lib. Types already in
// lib are indexed so they are reused.
func NewTypeRegistry(lib *Library) *TypeRegistry {
	r := &TypeRegistry{
		lib:     lib,
		typeMap: make(map[string]TypeHandle, len(lib.Types)+16),
		keyBuf:  make([]byte, 0, 64),
	}
	for i := range lib.Types {
		key := r.normalizeType(&lib.Types[i])
		if _, exists := r.typeMap[key]; !exists {
			r.typeMap[key] = TypeHandle(i)
		}
	}
	return r
}

// GetOrCreate returns the handle of a structurally identical type if one
// exists, or appends t.
func (r *TypeRegistry) GetOrCreate(t Type) TypeHandle {
	key := r.normalizeType(&t)
	if handle, exists := r.typeMap[key]; exists {
		return handle
	}
	handle := r.lib.AddType(t)
	r.typeMap[key] = handle
	return handle
}

// Count returns the number of distinct types seen.
func (r *TypeRegistry) Count() int {
	return len(r.typeMap)
}

// normalizeType creates a key from a type's structure. Structs are nominal
// and include their name; everything else is keyed by kind and operands.
func (r *TypeRegistry) normalizeType(t *Type) string {
	b := r.keyBuf[:0]
	b = strconv.AppendUint(b, uint64(t.Kind), 10)

	switch t.Kind {
	case TypeStruct:
		b = append(b, ":struct:"...)
		b = append(b, t.Name...)
	case TypePointer:
		b = append(b, ':')
		b = strconv.AppendUint(b, uint64(t.StorageClass), 10)
		b = append(b, ':')
		b = strconv.AppendUint(b, uint64(t.Deref), 10)
	case TypeVector, TypeMatrix:
		b = append(b, ':')
		b = strconv.AppendUint(b, uint64(t.Components), 10)
	}

	for _, p := range t.Params {
		b = append(b, '|')
		b = strconv.AppendUint(b, uint64(p.Kind), 10)
		if p.Kind == RefLiteral {
			// Literals are keyed by value, not by handle.
			b = append(b, '=')
			b = strconv.AppendUint(b, uint64(r.lib.Literal(LiteralHandle(p.Index)).Bits), 10)
			continue
		}
		b = append(b, '.')
		b = strconv.AppendUint(b, uint64(p.Index), 10)
	}

	r.keyBuf = b
	return string(b)
}
