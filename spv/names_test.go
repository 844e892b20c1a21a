package spv

import "testing"

func TestNames(t *testing.T) {
	if got := OpFAdd.String(); got != "OpFAdd" {
		t.Errorf("OpFAdd.String() = %q", got)
	}
	if got := Op(9999).String(); got != "Op9999" {
		t.Errorf("unknown op = %q", got)
	}
	if got := DecorationSpecID.String(); got != "SpecId" {
		t.Errorf("DecorationSpecID.String() = %q", got)
	}
	if got := Capability(4242).String(); got != "4242" {
		t.Errorf("unknown capability = %q", got)
	}
}

func TestByName(t *testing.T) {
	if op, ok := OpByName("OpVectorTimesScalar"); !ok || op != OpVectorTimesScalar {
		t.Errorf("OpByName(OpVectorTimesScalar) = %v, %v", op, ok)
	}
	if _, ok := OpByName("FAdd"); ok {
		t.Error("names without the Op prefix must not resolve")
	}
	if c, ok := CapabilityByName("DerivativeControl"); !ok || c != CapabilityDerivativeControl {
		t.Errorf("CapabilityByName = %v, %v", c, ok)
	}
	if d, ok := DecorationByName("Location"); !ok || d != DecorationLocation {
		t.Errorf("DecorationByName = %v, %v", d, ok)
	}
	if b, ok := BuiltInByName("FragCoord"); !ok || b != BuiltInFragCoord {
		t.Errorf("BuiltInByName = %v, %v", b, ok)
	}
	if s, ok := StorageClassByName("StorageBuffer"); !ok || s != StorageClassStorageBuffer {
		t.Errorf("StorageClassByName = %v, %v", s, ok)
	}
	if m, ok := ExecutionModeByName("OriginUpperLeft"); !ok || m != ExecutionModeOriginUpperLeft {
		t.Errorf("ExecutionModeByName = %v, %v", m, ok)
	}

	for c, name := range capabilityNames {
		if got, _ := CapabilityByName(name); got != c {
			t.Errorf("CapabilityByName(%q) = %v, want %v", name, got, c)
		}
	}
}
