package shaderinput

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmaengine/lightningspv/ir"
)

func surfaceLibrary() *ir.Library {
	b := ir.NewBuilder("materials")
	b.Bool()
	b.Vector(b.Float(), 4)
	b.Fragment("Surface", ir.FragmentPixel,
		ir.FieldMeta{Name: "Flag", TypeName: "Boolean"},
		ir.FieldMeta{Name: "Tint", TypeName: "Real4"},
		ir.FieldMeta{Name: "Count", TypeName: "Integer"},
		ir.FieldMeta{Name: "Albedo", TypeName: "SampledImage2d", Attributes: []ir.Attribute{
			{Name: "TextureFilteringBilinear"},
			{Name: "TextureAddressingXRepeat"},
			{Name: "TextureFilteringNearest"},
			{Name: "Input"},
		}},
	)
	b.Struct("Plain")
	return b.Library()
}

func TestCreate_Bool(t *testing.T) {
	lib := surfaceLibrary()

	on := Create(lib, "Surface", "Flag", Bool, true)
	require.True(t, on.Valid())
	assert.Equal(t, Int, on.Type)
	assert.Equal(t, "Material.Flag_Surface_Boolean", on.TranslatedName)
	assert.Equal(t, []uint32{1}, on.Words)

	off := Create(lib, "Surface", "Flag", Bool, false)
	assert.Equal(t, []uint32{0}, off.Words)

	asInt := Create(lib, "Surface", "Flag", Int, 1)
	require.True(t, asInt.Valid())
	assert.Equal(t, "Material.Flag_Surface", asInt.TranslatedName)
	assert.NotEqual(t, on.TranslatedName, asInt.TranslatedName)
}

func TestCreate_Values(t *testing.T) {
	lib := surfaceLibrary()

	tint := Create(lib, "Surface", "Tint", Vec4, []float32{1, 0.5, 0, 1})
	require.True(t, tint.Valid())
	assert.Equal(t, "Material.Tint_Surface", tint.TranslatedName)
	assert.Equal(t, []uint32{math.Float32bits(1), math.Float32bits(0.5), 0, math.Float32bits(1)}, tint.Words)
	assert.Len(t, tint.Bytes(), 16)

	count := Create(lib, "Surface", "Count", Int, -2)
	require.True(t, count.Valid())
	assert.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF}, count.Bytes())
}

func TestCreate_Texture(t *testing.T) {
	lib := surfaceLibrary()

	in := Create(lib, "Surface", "Albedo", Texture, "Bricks")
	require.True(t, in.Valid())
	assert.Equal(t, Texture, in.Type)
	assert.Equal(t, "Albedo_Surface", in.TranslatedName)
	assert.Equal(t, "Bricks", in.TextureName)
	assert.Equal(t, FilteringBilinear, DecodeFiltering(in.SamplerSettings), "the first filtering attribute wins")
	assert.Equal(t, AddressingRepeat, DecodeAddressingX(in.SamplerSettings))
	assert.Zero(t, in.SamplerSettings&AddressingY(AddressingClamp), "addressing Y was not overridden")
}

func TestCreate_Invalid(t *testing.T) {
	lib := surfaceLibrary()

	tests := []struct {
		name     string
		fragment string
		property string
		typ      InputType
		value    any
	}{
		{"invalid type", "Surface", "Tint", Invalid, nil},
		{"unknown fragment", "Missing", "Tint", Vec4, []float32{0, 0, 0, 0}},
		{"type without metadata", "Plain", "Tint", Vec4, []float32{0, 0, 0, 0}},
		{"unknown property", "Surface", "Missing", Float, float32(1)},
		{"wrong component count", "Surface", "Tint", Vec4, []float32{0, 0, 0}},
		{"float for int", "Surface", "Count", Int, float32(1)},
		{"int for float", "Surface", "Tint", Float, 1},
		{"int overflow", "Surface", "Count", Int, math.MaxInt32 + 1},
		{"bool value mismatch", "Surface", "Flag", Bool, 1},
		{"texture without name", "Surface", "Albedo", Texture, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Create(lib, tt.fragment, tt.property, tt.typ, tt.value)
			assert.False(t, in.Valid())
			assert.Equal(t, Input{}, in)
		})
	}
}

func TestInputType_String(t *testing.T) {
	assert.Equal(t, "Invalid", Invalid.String())
	assert.Equal(t, "Texture", Texture.String())
	assert.Equal(t, "Unknown", InputType(200).String())
}
