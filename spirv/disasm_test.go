package spirv

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmaengine/lightningspv/spv"
)

func TestDisassemble_MinimalShader(t *testing.T) {
	b, shader, _ := minimalShader()
	res := translate(t, b.Library(), shader)

	text := disassembly(t, res.Words)
	for _, want := range []string{
		"; Version: 1.2",
		"; Bound: 5",
		"OpCapability Shader",
		"OpMemoryModel Logical GLSL450",
		`OpEntryPoint Fragment %3 "main"`,
		"OpSource Unknown 100",
		`OpName %3 "main"`,
		"%1 = OpTypeVoid",
		"%2 = OpTypeFunction %1",
		"%3 = OpFunction %1 None %2",
		"%4 = OpLabel",
		"OpReturn",
		"OpFunctionEnd",
	} {
		assert.Contains(t, text, want)
	}
}

func TestDisassemble_Truncated(t *testing.T) {
	var buf bytes.Buffer
	err := Disassemble(&buf, []uint32{spv.MagicNumber, 0})
	assert.True(t, errors.Is(err, ErrTruncated))
	assert.Zero(t, buf.Len())
}

func TestFormatInstruction(t *testing.T) {
	var name InstructionBuilder
	name.AddWord(7)
	name.AddString("albedo")

	tests := []struct {
		inst Instruction
		want string
	}{
		{Instruction{Opcode: spv.OpTypeInt, Words: []uint32{3, 32, 1}}, "%3 = OpTypeInt 32 1"},
		{Instruction{Opcode: spv.OpTypeFloat, Words: []uint32{4, 32}}, "%4 = OpTypeFloat 32"},
		{Instruction{Opcode: spv.OpTypeVector, Words: []uint32{5, 4, 3}}, "%5 = OpTypeVector %4 3"},
		{Instruction{Opcode: spv.OpTypePointer, Words: []uint32{6, 3, 5}}, "%6 = OpTypePointer Output %5"},
		{Instruction{Opcode: spv.OpVariable, Words: []uint32{6, 7, 3}}, "%7 = OpVariable %6 Output"},
		{Instruction{Opcode: spv.OpConstant, Words: []uint32{3, 8, 42}}, "%8 = OpConstant %3 42"},
		{Instruction{Opcode: spv.OpDecorate, Words: []uint32{7, 11, 0}}, "OpDecorate %7 BuiltIn Position"},
		{Instruction{Opcode: spv.OpDecorate, Words: []uint32{7, 30, 2}}, "OpDecorate %7 Location 2"},
		{Instruction{Opcode: spv.OpLoopMerge, Words: []uint32{9, 10, 0}}, "OpLoopMerge %9 %10 None"},
		{Instruction{Opcode: spv.OpIAdd, Words: []uint32{3, 11, 8, 8}}, "%11 = OpIAdd %3 %8 %8"},
		{Instruction{Opcode: spv.OpStore, Words: []uint32{7, 11}}, "OpStore %7 %11"},
		{name.Build(spv.OpName), `OpName %7 "albedo"`},
	}
	for _, tt := range tests {
		got := strings.TrimSpace(FormatInstruction(tt.inst))
		assert.Equal(t, tt.want, got, tt.inst.Opcode.String())
	}
}

func TestDisassemble_RoundTripsTranslation(t *testing.T) {
	b, shader := materialShader()
	res := translate(t, b.Library(), shader)

	text := disassembly(t, res.Words)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	_, insts := decodeModule(t, res.Words)
	require.Len(t, lines, 6+len(insts), "one line per instruction after the header block")
	assert.Contains(t, text, `OpName %`)
	assert.Contains(t, text, "OpSpecConstant")
	assert.Contains(t, text, "OpDecorate")
	assert.Contains(t, text, "SpecId 1")
}
