package shaderinput

// Sampler settings pack five groups into one word. Each group is four bits
// wide: a check bit (0x8) marking the group as set and a three-bit value.
//
//	bits  0-3   addressing X
//	bits  4-7   addressing Y
//	bits  8-11  filtering
//	bits 12-15  compare mode
//	bits 16-19  compare func

// TextureAddressing selects how out-of-range coordinates are resolved.
type TextureAddressing uint32

// Addressing modes.
const (
	AddressingClamp TextureAddressing = iota
	AddressingRepeat
	AddressingMirror
)

// TextureFiltering selects the filter used when sampling.
type TextureFiltering uint32

// Filtering modes.
const (
	FilteringNearest TextureFiltering = iota
	FilteringBilinear
	FilteringTrilinear
)

// TextureCompareMode enables depth comparison.
type TextureCompareMode uint32

// Compare modes.
const (
	CompareModeDisabled TextureCompareMode = iota
	CompareModeEnabled
)

// TextureCompareFunc is the depth comparison function.
type TextureCompareFunc uint32

// Compare functions.
const (
	CompareNever TextureCompareFunc = iota
	CompareAlways
	CompareLess
	CompareLessEqual
	CompareGreater
	CompareGreaterEqual
	CompareEqual
	CompareNotEqual
)

const checkBit = 0x8

// AddressingX returns the settings value for horizontal addressing.
func AddressingX(a TextureAddressing) uint32 { return (checkBit | uint32(a)) << 0 }

// AddressingY returns the settings value for vertical addressing.
func AddressingY(a TextureAddressing) uint32 { return (checkBit | uint32(a)) << 4 }

// Filtering returns the settings value for a filter.
func Filtering(f TextureFiltering) uint32 { return (checkBit | uint32(f)) << 8 }

// CompareMode returns the settings value for a compare mode.
func CompareMode(m TextureCompareMode) uint32 { return (checkBit | uint32(m)) << 12 }

// CompareFunc returns the settings value for a compare function.
func CompareFunc(f TextureCompareFunc) uint32 { return (checkBit | uint32(f)) << 16 }

// DecodeAddressingX extracts horizontal addressing from settings.
func DecodeAddressingX(settings uint32) TextureAddressing {
	return TextureAddressing(settings & 0x7)
}

// DecodeAddressingY extracts vertical addressing from settings.
func DecodeAddressingY(settings uint32) TextureAddressing {
	return TextureAddressing((settings & 0x70) >> 4)
}

// DecodeFiltering extracts the filter from settings.
func DecodeFiltering(settings uint32) TextureFiltering {
	return TextureFiltering((settings & 0x700) >> 8)
}

// DecodeCompareMode extracts the compare mode from settings.
func DecodeCompareMode(settings uint32) TextureCompareMode {
	return TextureCompareMode((settings & 0x7000) >> 12)
}

// DecodeCompareFunc extracts the compare function from settings.
func DecodeCompareFunc(settings uint32) TextureCompareFunc {
	return TextureCompareFunc((settings & 0x70000) >> 16)
}

// SamplerSettings are the default sampler state of a texture input.
type SamplerSettings struct {
	AddressingX TextureAddressing
	AddressingY TextureAddressing
	Filtering   TextureFiltering
	CompareMode TextureCompareMode
	CompareFunc TextureCompareFunc
}

// Word packs s with every group marked as set.
func (s SamplerSettings) Word() uint32 {
	return AddressingX(s.AddressingX) |
		AddressingY(s.AddressingY) |
		Filtering(s.Filtering) |
		CompareMode(s.CompareMode) |
		CompareFunc(s.CompareFunc)
}

// AddValue ors value into settings unless its group is already set.
func AddValue(settings *uint32, value uint32) {
	if *settings&value != 0 {
		return
	}
	*settings |= value
}

// FillDefaults copies every group of defaults whose check bit is clear in
// settings.
func FillDefaults(settings *uint32, defaults uint32) {
	for shift := 0; shift < 20; shift += 4 {
		if *settings&(checkBit<<shift) == 0 {
			*settings |= defaults & (0xF << shift)
		}
	}
}

// samplerAttributes maps field attribute names to the settings value they
// override.
var samplerAttributes = map[string]uint32{
	"TextureAddressingXClamp":  AddressingX(AddressingClamp),
	"TextureAddressingXRepeat": AddressingX(AddressingRepeat),
	"TextureAddressingXMirror": AddressingX(AddressingMirror),
	"TextureAddressingYClamp":  AddressingY(AddressingClamp),
	"TextureAddressingYRepeat": AddressingY(AddressingRepeat),
	"TextureAddressingYMirror": AddressingY(AddressingMirror),

	"TextureFilteringNearest":   Filtering(FilteringNearest),
	"TextureFilteringBilinear":  Filtering(FilteringBilinear),
	"TextureFilteringTrilinear": Filtering(FilteringTrilinear),

	"TextureCompareModeDisabled": CompareMode(CompareModeDisabled),
	"TextureCompareModeEnabled":  CompareMode(CompareModeEnabled),

	"TextureCompareFuncNever":        CompareFunc(CompareNever),
	"TextureCompareFuncAlways":       CompareFunc(CompareAlways),
	"TextureCompareFuncLess":         CompareFunc(CompareLess),
	"TextureCompareFuncLessEqual":    CompareFunc(CompareLessEqual),
	"TextureCompareFuncGreater":      CompareFunc(CompareGreater),
	"TextureCompareFuncGreaterEqual": CompareFunc(CompareGreaterEqual),
	"TextureCompareFuncEqual":        CompareFunc(CompareEqual),
	"TextureCompareFuncNotEqual":     CompareFunc(CompareNotEqual),
}

// SamplerAttribute returns the settings value of a sampler attribute name.
func SamplerAttribute(name string) (uint32, bool) {
	v, ok := samplerAttributes[name]
	return v, ok
}
