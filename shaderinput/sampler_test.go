package shaderinput

import "testing"

func TestSamplerSettings_Layout(t *testing.T) {
	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"addressing x clamp", AddressingX(AddressingClamp), 0x8},
		{"addressing y mirror", AddressingY(AddressingMirror), 0xA0},
		{"filtering trilinear", Filtering(FilteringTrilinear), 0xA00},
		{"compare mode enabled", CompareMode(CompareModeEnabled), 0x9000},
		{"compare func not equal", CompareFunc(CompareNotEqual), 0xF0000},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = 0x%X, want 0x%X", tt.name, tt.got, tt.want)
		}
	}
}

func TestSamplerSettings_Word(t *testing.T) {
	s := SamplerSettings{
		AddressingX: AddressingRepeat,
		AddressingY: AddressingMirror,
		Filtering:   FilteringBilinear,
		CompareMode: CompareModeEnabled,
		CompareFunc: CompareLessEqual,
	}
	w := s.Word()
	if w != 0xB99A9 {
		t.Fatalf("Word() = 0x%X, want 0xB99A9", w)
	}
	if DecodeAddressingX(w) != AddressingRepeat || DecodeAddressingY(w) != AddressingMirror ||
		DecodeFiltering(w) != FilteringBilinear || DecodeCompareMode(w) != CompareModeEnabled ||
		DecodeCompareFunc(w) != CompareLessEqual {
		t.Errorf("decoded settings do not match %+v", s)
	}
}

func TestAddValue_KeepsFirst(t *testing.T) {
	var settings uint32
	AddValue(&settings, Filtering(FilteringTrilinear))
	AddValue(&settings, Filtering(FilteringNearest))
	AddValue(&settings, CompareFunc(CompareGreater))

	if got := DecodeFiltering(settings); got != FilteringTrilinear {
		t.Errorf("filtering = %d, want trilinear", got)
	}
	if got := DecodeCompareFunc(settings); got != CompareGreater {
		t.Errorf("compare func = %d, want greater", got)
	}
}

func TestFillDefaults(t *testing.T) {
	defaults := SamplerSettings{
		AddressingX: AddressingMirror,
		AddressingY: AddressingMirror,
		Filtering:   FilteringTrilinear,
		CompareFunc: CompareAlways,
	}.Word()

	settings := AddressingY(AddressingClamp) | Filtering(FilteringNearest)
	FillDefaults(&settings, defaults)

	if got := DecodeAddressingX(settings); got != AddressingMirror {
		t.Errorf("addressing x = %d, want default mirror", got)
	}
	if got := DecodeAddressingY(settings); got != AddressingClamp {
		t.Errorf("addressing y = %d, want override clamp", got)
	}
	if got := DecodeFiltering(settings); got != FilteringNearest {
		t.Errorf("filtering = %d, want override nearest", got)
	}
	if got := DecodeCompareFunc(settings); got != CompareAlways {
		t.Errorf("compare func = %d, want default always", got)
	}
	if settings&0x88888 != 0x88888 {
		t.Errorf("settings 0x%X: every group should be marked set", settings)
	}
}

func TestSamplerAttribute(t *testing.T) {
	v, ok := SamplerAttribute("TextureCompareFuncNotEqual")
	if !ok || v != CompareFunc(CompareNotEqual) {
		t.Errorf("TextureCompareFuncNotEqual = 0x%X, %v", v, ok)
	}
	if _, ok := SamplerAttribute("TextureWrap"); ok {
		t.Error("unknown attribute resolved")
	}
}
