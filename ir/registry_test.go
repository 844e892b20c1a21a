package ir

import (
	"testing"

	"github.com/plasmaengine/lightningspv/spv"
)

func TestTypeRegistry_ScalarDeduplication(t *testing.T) {
	lib := NewLibrary("test")
	registry := NewTypeRegistry(lib)

	f1 := registry.GetOrCreate(Type{Name: "Real", Kind: TypeFloat})
	f2 := registry.GetOrCreate(Type{Name: "Real", Kind: TypeFloat})

	if f1 != f2 {
		t.Errorf("Expected same handle for identical scalar types, got %d and %d", f1, f2)
	}
	if registry.Count() != 1 {
		t.Errorf("Expected 1 type, got %d", registry.Count())
	}
	if len(lib.Types) != 1 {
		t.Errorf("Expected 1 type in library, got %d", len(lib.Types))
	}
}

func TestTypeRegistry_DifferentScalars(t *testing.T) {
	registry := NewTypeRegistry(NewLibrary("test"))

	handles := []TypeHandle{
		registry.GetOrCreate(Type{Kind: TypeFloat}),
		registry.GetOrCreate(Type{Kind: TypeInt}),
		registry.GetOrCreate(Type{Kind: TypeUint}),
		registry.GetOrCreate(Type{Kind: TypeBool}),
	}
	for i := 0; i < len(handles); i++ {
		for j := i + 1; j < len(handles); j++ {
			if handles[i] == handles[j] {
				t.Errorf("Expected different handles for different types, got %d == %d", handles[i], handles[j])
			}
		}
	}
}

func TestTypeRegistry_VectorSize(t *testing.T) {
	lib := NewLibrary("test")
	registry := NewTypeRegistry(lib)
	f := registry.GetOrCreate(Type{Kind: TypeFloat})

	v3 := registry.GetOrCreate(Type{Kind: TypeVector, Components: 3, Params: []Ref{TypeRef(f)}})
	v4 := registry.GetOrCreate(Type{Kind: TypeVector, Components: 4, Params: []Ref{TypeRef(f)}})
	v3b := registry.GetOrCreate(Type{Kind: TypeVector, Components: 3, Params: []Ref{TypeRef(f)}})

	if v3 == v4 {
		t.Error("Expected vec3 and vec4 to differ")
	}
	if v3 != v3b {
		t.Errorf("Expected same vec3 handle, got %d and %d", v3, v3b)
	}
}

func TestTypeRegistry_StructsAreNominal(t *testing.T) {
	registry := NewTypeRegistry(NewLibrary("test"))
	f := registry.GetOrCreate(Type{Kind: TypeFloat})

	a := registry.GetOrCreate(Type{Name: "A", Kind: TypeStruct, Params: []Ref{TypeRef(f)}})
	b := registry.GetOrCreate(Type{Name: "B", Kind: TypeStruct, Params: []Ref{TypeRef(f)}})

	if a == b {
		t.Error("Expected structs with different names to differ")
	}
}

func TestTypeRegistry_PointerStorageClass(t *testing.T) {
	registry := NewTypeRegistry(NewLibrary("test"))
	f := registry.GetOrCreate(Type{Kind: TypeFloat})

	fn := registry.GetOrCreate(Type{Kind: TypePointer, StorageClass: spv.StorageClassFunction, Deref: f})
	uniform := registry.GetOrCreate(Type{Kind: TypePointer, StorageClass: spv.StorageClassUniform, Deref: f})

	if fn == uniform {
		t.Error("Expected pointers in different storage classes to differ")
	}
}

func TestTypeRegistry_LiteralParamsByValue(t *testing.T) {
	lib := NewLibrary("test")
	registry := NewTypeRegistry(lib)
	f := registry.GetOrCreate(Type{Kind: TypeFloat})

	image := func(sampled uint32) TypeHandle {
		return registry.GetOrCreate(Type{Kind: TypeImage, Params: []Ref{
			TypeRef(f),
			LiteralRef(lib.AddLiteral(UintLiteral(1))),
			LiteralRef(lib.AddLiteral(UintLiteral(0))),
			LiteralRef(lib.AddLiteral(UintLiteral(0))),
			LiteralRef(lib.AddLiteral(UintLiteral(0))),
			LiteralRef(lib.AddLiteral(UintLiteral(sampled))),
			LiteralRef(lib.AddLiteral(UintLiteral(0))),
		}})
	}

	if image(1) != image(1) {
		t.Error("Expected images with equal operands to share a handle")
	}
	if image(1) == image(2) {
		t.Error("Expected images with different operands to differ")
	}
}

func TestTypeRegistry_IndexesExistingTypes(t *testing.T) {
	lib := NewLibrary("test")
	existing := lib.AddType(Type{Name: "Real", Kind: TypeFloat})

	registry := NewTypeRegistry(lib)
	if got := registry.GetOrCreate(Type{Name: "Real", Kind: TypeFloat}); got != existing {
		t.Errorf("Expected existing handle %d, got %d", existing, got)
	}
}
