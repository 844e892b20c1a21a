package spirv

import (
	"encoding/binary"

	"fortio.org/safecast"

	"github.com/plasmaengine/lightningspv/spv"
)

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode spv.Op
	Words  []uint32 // operands, including result type and result ids
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{
		words: make([]uint32, 0, 8),
	}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) {
	b.words = append(b.words, word)
}

// AddWords adds several words to the instruction.
func (b *InstructionBuilder) AddWords(words ...uint32) {
	b.words = append(b.words, words...)
}

// AddString adds a null-terminated UTF-8 string padded to a word boundary.
func (b *InstructionBuilder) AddString(s string) {
	b.words = appendString(b.words, s)
}

// Build builds the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode spv.Op) Instruction {
	return Instruction{
		Opcode: opcode,
		Words:  b.words,
	}
}

// Encode encodes the instruction to words. The first word packs the word
// count in the high half and the opcode in the low half.
func (i Instruction) Encode() []uint32 {
	count, err := safecast.Conv[uint16](len(i.Words) + 1)
	if err != nil {
		invariant(i.Opcode.String(), "instruction of %d words exceeds the word count limit", len(i.Words)+1)
	}
	result := make([]uint32, 0, int(count))
	result = append(result, (uint32(count)<<16)|uint32(i.Opcode))
	result = append(result, i.Words...)
	return result
}

// StringWords returns the number of words a string literal occupies,
// including its null terminator.
func StringWords(s string) int {
	return len(s)/4 + 1
}

func appendString(words []uint32, s string) []uint32 {
	n := StringWords(s)
	var buf [4]byte
	for w := 0; w < n; w++ {
		buf = [4]byte{}
		copy(buf[:], s[min(len(s), w*4):min(len(s), w*4+4)])
		words = append(words, binary.LittleEndian.Uint32(buf[:]))
	}
	return words
}

// Stream accumulates the encoded words of a module.
type Stream struct {
	words []uint32
}

// WriteHeader writes the five header words.
func (s *Stream) WriteHeader(version Version, bound uint32) {
	s.words = append(s.words, spv.MagicNumber, version.Word(), GeneratorID, bound, 0)
}

// Write appends an encoded instruction.
func (s *Stream) Write(inst Instruction) {
	s.words = append(s.words, inst.Encode()...)
}

// Op appends an instruction built from opcode and operand words.
func (s *Stream) Op(opcode spv.Op, operands ...uint32) {
	s.Write(Instruction{Opcode: opcode, Words: operands})
}

// Len returns the number of words written.
func (s *Stream) Len() int { return len(s.words) }

// Words returns the written words.
func (s *Stream) Words() []uint32 { return s.words }

// Bytes returns the written words in little-endian byte order.
func (s *Stream) Bytes() []byte {
	return WordsToBytes(s.words)
}

// WordsToBytes encodes words in little-endian byte order.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// BytesToWords decodes a little-endian byte stream. Trailing bytes that do
// not form a whole word are an error.
func BytesToWords(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, ErrTruncated
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}
