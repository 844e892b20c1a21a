package spirv

import (
	"bytes"
	"errors"
	"testing"

	"github.com/plasmaengine/lightningspv/spv"
)

func TestInstructionBuilder_AddString(t *testing.T) {
	tests := []struct {
		in   string
		want []uint32
	}{
		{"", []uint32{0}},
		{"abc", []uint32{0x00636261}},
		{"main", []uint32{0x6e69616d, 0}},
		{"GLSL.std.450", []uint32{0x4c534c47, 0x6474732e, 0x3035342e, 0}},
	}
	for _, tt := range tests {
		b := NewInstructionBuilder()
		b.AddString(tt.in)
		got := b.Build(spv.OpName).Words
		if len(got) != len(tt.want) {
			t.Errorf("AddString(%q) = %d words, want %d", tt.in, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("AddString(%q)[%d] = 0x%08X, want 0x%08X", tt.in, i, got[i], tt.want[i])
			}
		}
		if StringWords(tt.in) != len(tt.want) {
			t.Errorf("StringWords(%q) = %d, want %d", tt.in, StringWords(tt.in), len(tt.want))
		}
		if s, n := DecodeString(got); s != tt.in || n != len(tt.want) {
			t.Errorf("DecodeString = %q, %d", s, n)
		}
	}
}

func TestInstruction_Encode(t *testing.T) {
	inst := Instruction{Opcode: spv.OpCapability, Words: []uint32{uint32(spv.CapabilityShader)}}
	got := inst.Encode()
	if len(got) != 2 {
		t.Fatalf("Encode() = %d words, want 2", len(got))
	}
	if got[0] != (2<<16)|uint32(spv.OpCapability) {
		t.Errorf("first word = 0x%08X", got[0])
	}
	if got[1] != 1 {
		t.Errorf("operand = %d, want 1", got[1])
	}
}

func TestInstruction_EncodeTooLong(t *testing.T) {
	inst := Instruction{Opcode: spv.OpTypeStruct, Words: make([]uint32, 0xFFFF)}
	err := expectInvariant(t, func() { inst.Encode() })
	if err.Op != "OpTypeStruct" {
		t.Errorf("Op = %q", err.Op)
	}
}

func TestStream_Header(t *testing.T) {
	var s Stream
	s.WriteHeader(Version1_2, 7)
	s.Op(spv.OpCapability, uint32(spv.CapabilityShader))

	want := []uint32{spv.MagicNumber, 0x00010200, GeneratorID, 7, 0, (2 << 16) | 17, 1}
	got := s.Words()
	if len(got) != len(want) {
		t.Fatalf("got %d words, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = 0x%08X, want 0x%08X", i, got[i], want[i])
		}
	}

	data := s.Bytes()
	if !bytes.Equal(data[:4], []byte{0x03, 0x02, 0x23, 0x07}) {
		t.Errorf("magic bytes = % x", data[:4])
	}
	if !bytes.Equal(data[4:8], []byte{0, 2, 1, 0}) {
		t.Errorf("version bytes = % x", data[4:8])
	}
}

func TestBytesToWords_Truncated(t *testing.T) {
	if _, err := BytesToWords([]byte{1, 2, 3}); !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, _, err := Decode([]uint32{1, 2}); !errors.Is(err, ErrTruncated) {
		t.Errorf("short header: err = %v", err)
	}
	if _, _, err := Decode([]uint32{0xDEADBEEF, 0, 0, 1, 0}); !errors.Is(err, ErrBadMagic) {
		t.Errorf("bad magic: err = %v", err)
	}
	words := []uint32{spv.MagicNumber, 0, 0, 1, 0, (4 << 16) | 17, 1}
	if _, _, err := Decode(words); !errors.Is(err, ErrTruncated) {
		t.Errorf("overrun: err = %v", err)
	}
}
