// Package shaderinput binds host values to the resource names of translated
// fragment properties.
package shaderinput

import (
	"encoding/binary"
	"math"

	"fortio.org/safecast"

	"github.com/plasmaengine/lightningspv/ir"
)

// InputType is the host-side type of a shader input.
type InputType uint8

// Input types. Invalid marks a failed lookup.
const (
	Invalid InputType = iota
	Bool
	Int
	IntVec2
	IntVec3
	IntVec4
	Float
	Vec2
	Vec3
	Vec4
	Mat3
	Mat4
	Texture
)

var inputTypeNames = [...]string{
	Invalid: "Invalid",
	Bool:    "Bool",
	Int:     "Int",
	IntVec2: "IntVec2",
	IntVec3: "IntVec3",
	IntVec4: "IntVec4",
	Float:   "Float",
	Vec2:    "Vec2",
	Vec3:    "Vec3",
	Vec4:    "Vec4",
	Mat3:    "Mat3",
	Mat4:    "Mat4",
	Texture: "Texture",
}

func (t InputType) String() string {
	if int(t) < len(inputTypeNames) {
		return inputTypeNames[t]
	}
	return "Unknown"
}

// components is the number of 32-bit words a value of t occupies.
func (t InputType) components() int {
	switch t {
	case Bool, Int, Float:
		return 1
	case IntVec2, Vec2:
		return 2
	case IntVec3, Vec3:
		return 3
	case IntVec4, Vec4:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	}
	return 0
}

// Input binds a host value to a translated shader resource name.
type Input struct {
	Type InputType

	// TranslatedName is the resource or uniform member name in the
	// compiled shader.
	TranslatedName string

	// Words holds the encoded value of a non-texture input.
	Words []uint32

	// TextureName is the value of a texture input.
	TextureName string

	// SamplerSettings carries the sampler overrides declared on a texture
	// field. Groups that were not overridden are zero.
	SamplerSettings uint32
}

// Valid reports whether the input was created successfully.
func (in Input) Valid() bool { return in.Type != Invalid }

// Bytes returns the encoded value in little-endian order.
func (in Input) Bytes() []byte {
	out := make([]byte, 0, 4*len(in.Words))
	for _, w := range in.Words {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out
}

// PropertyName composes the name a fragment property is translated to.
func PropertyName(property, fragment string) string {
	return property + "_" + fragment
}

// Create builds the input for property of fragment. It returns an input of
// type Invalid when the type is Invalid, the fragment or property is
// unknown, or value does not match typ.
//
// Texture inputs are named after the property and collect the sampler
// attributes declared on the field. Other inputs are members of the
// Material block; a Bool becomes an Int 0 or 1 under a "_Boolean" suffix.
func Create(lib *ir.Library, fragment, property string, typ InputType, value any) Input {
	if typ == Invalid {
		return Input{}
	}
	h, ok := lib.FindType(fragment)
	if !ok {
		return Input{}
	}
	meta := lib.Type(h).Meta
	if meta == nil {
		return Input{}
	}
	field, ok := meta.FindField(property)
	if !ok {
		return Input{}
	}

	var in Input
	if typ == Texture {
		name, ok := value.(string)
		if !ok {
			return Input{}
		}
		in.TranslatedName = PropertyName(property, fragment)
		in.TextureName = name
		for _, attr := range field.Attributes {
			if v, ok := SamplerAttribute(attr.Name); ok {
				AddValue(&in.SamplerSettings, v)
			}
		}
		in.Type = Texture
		return in
	}

	in.TranslatedName = "Material." + PropertyName(property, fragment)
	if typ == Bool {
		b, ok := value.(bool)
		if !ok {
			return Input{}
		}
		in.TranslatedName += "_Boolean"
		typ, value = Int, int32(0)
		if b {
			value = int32(1)
		}
	}
	words, ok := encode(typ, value)
	if !ok {
		return Input{}
	}
	in.Type = typ
	in.Words = words
	return in
}

// encode converts value to the words of typ. Integers must fit in 32 bits.
func encode(typ InputType, value any) ([]uint32, bool) {
	var words []uint32
	switch v := value.(type) {
	case int:
		i, err := safecast.Conv[int32](v)
		if err != nil {
			return nil, false
		}
		words = []uint32{uint32(i)}
	case int32:
		words = []uint32{uint32(v)}
	case []int:
		for _, e := range v {
			i, err := safecast.Conv[int32](e)
			if err != nil {
				return nil, false
			}
			words = append(words, uint32(i))
		}
	case []int32:
		for _, e := range v {
			words = append(words, uint32(e))
		}
	case float32:
		words = []uint32{math.Float32bits(v)}
	case float64:
		words = []uint32{math.Float32bits(float32(v))}
	case []float32:
		for _, e := range v {
			words = append(words, math.Float32bits(e))
		}
	default:
		return nil, false
	}

	integer := typ == Int || typ == IntVec2 || typ == IntVec3 || typ == IntVec4
	switch value.(type) {
	case int, int32, []int, []int32:
		if !integer {
			return nil, false
		}
	default:
		if integer {
			return nil, false
		}
	}
	if len(words) != typ.components() {
		return nil, false
	}
	return words, true
}
