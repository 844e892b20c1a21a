package spirv

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/plasmaengine/lightningspv/spv"
)

// Header is a decoded module header.
type Header struct {
	Magic     uint32
	Version   uint32
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// Decode splits a word stream into its header and instructions.
func Decode(words []uint32) (Header, []Instruction, error) {
	if len(words) < HeaderWords {
		return Header{}, nil, ErrTruncated
	}
	h := Header{words[0], words[1], words[2], words[3], words[4]}
	if h.Magic != spv.MagicNumber {
		return h, nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, h.Magic)
	}

	var insts []Instruction
	for offset := HeaderWords; offset < len(words); {
		count := int(words[offset] >> 16)
		if count == 0 || offset+count > len(words) {
			return h, insts, fmt.Errorf("%w: word count %d at word %d", ErrTruncated, count, offset)
		}
		insts = append(insts, Instruction{
			Opcode: spv.Op(words[offset] & 0xFFFF),
			Words:  words[offset+1 : offset+count],
		})
		offset += count
	}
	return h, insts, nil
}

// DecodeString reads a null-terminated string literal from words and
// returns it with the number of words it occupied.
func DecodeString(words []uint32) (string, int) {
	var sb strings.Builder
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		}
	}
	return sb.String(), len(words)
}

// Disassemble writes a textual listing of a module.
func Disassemble(w io.Writer, words []uint32) error {
	h, insts, err := Decode(words)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "; SPIR-V\n")
	fmt.Fprintf(out, "; Version: %d.%d\n", (h.Version>>16)&0xFF, (h.Version>>8)&0xFF)
	fmt.Fprintf(out, "; Generator: 0x%08X\n", h.Generator)
	fmt.Fprintf(out, "; Bound: %d\n", h.Bound)
	fmt.Fprintf(out, "; Schema: %d\n", h.Schema)
	fmt.Fprintln(out)
	for _, inst := range insts {
		fmt.Fprintln(out, FormatInstruction(inst))
	}
	return out.Flush()
}

func id(n uint32) string {
	return fmt.Sprintf("%%%d", n)
}

var addressingModels = map[uint32]string{0: "Logical", 1: "Physical32", 2: "Physical64"}
var memoryModels = map[uint32]string{0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan"}

func named(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

// hasResultOnly reports opcodes whose first operand is a result id with no
// result type.
func hasResultOnly(op spv.Op) bool {
	switch op {
	case spv.OpExtInstImport, spv.OpString, spv.OpLabel:
		return true
	}
	return op >= spv.OpTypeVoid && op <= spv.OpTypeFunction
}

// hasNoResult reports opcodes without a result id.
func hasNoResult(op spv.Op) bool {
	switch op {
	case spv.OpNop, spv.OpSourceContinued, spv.OpSource, spv.OpSourceExtension,
		spv.OpName, spv.OpMemberName, spv.OpLine, spv.OpExtension, spv.OpMemoryModel,
		spv.OpEntryPoint, spv.OpExecutionMode, spv.OpCapability, spv.OpFunctionEnd,
		spv.OpStore, spv.OpCopyMemory, spv.OpDecorate, spv.OpMemberDecorate,
		spv.OpImageWrite, spv.OpEmitVertex, spv.OpEndPrimitive, spv.OpControlBarrier,
		spv.OpMemoryBarrier, spv.OpLoopMerge, spv.OpSelectionMerge, spv.OpBranch,
		spv.OpBranchConditional, spv.OpSwitch, spv.OpKill, spv.OpReturn,
		spv.OpReturnValue, spv.OpUnreachable:
		return true
	}
	return false
}

// FormatInstruction renders one instruction in assembly syntax.
//
//nolint:gocyclo,cyclop,funlen // one case per operand layout
func FormatInstruction(inst Instruction) string {
	ops := inst.Words
	name := inst.Opcode.String()
	var sb strings.Builder
	pad := "               "

	switch op := inst.Opcode; {
	case op == spv.OpCapability && len(ops) == 1:
		fmt.Fprintf(&sb, "%s%s %s", pad, name, spv.Capability(ops[0]))

	case op == spv.OpExtInstImport && len(ops) >= 1:
		str, _ := DecodeString(ops[1:])
		fmt.Fprintf(&sb, "%10s = %s %q", id(ops[0]), name, str)

	case op == spv.OpMemoryModel && len(ops) == 2:
		fmt.Fprintf(&sb, "%s%s %s %s", pad, name, named(addressingModels, ops[0]), named(memoryModels, ops[1]))

	case op == spv.OpEntryPoint && len(ops) >= 2:
		str, n := DecodeString(ops[2:])
		fmt.Fprintf(&sb, "%s%s %s %s %q", pad, name, spv.ExecutionModel(ops[0]), id(ops[1]), str)
		for _, v := range ops[2+n:] {
			fmt.Fprintf(&sb, " %s", id(v))
		}

	case op == spv.OpExecutionMode && len(ops) >= 2:
		fmt.Fprintf(&sb, "%s%s %s %s", pad, name, id(ops[0]), spv.ExecutionMode(ops[1]))
		for _, v := range ops[2:] {
			fmt.Fprintf(&sb, " %d", v)
		}

	case op == spv.OpSource && len(ops) >= 2:
		fmt.Fprintf(&sb, "%s%s Unknown %d", pad, name, ops[1])

	case op == spv.OpName && len(ops) >= 1:
		str, _ := DecodeString(ops[1:])
		fmt.Fprintf(&sb, "%s%s %s %q", pad, name, id(ops[0]), str)

	case op == spv.OpMemberName && len(ops) >= 2:
		str, _ := DecodeString(ops[2:])
		fmt.Fprintf(&sb, "%s%s %s %d %q", pad, name, id(ops[0]), ops[1], str)

	case op == spv.OpDecorate && len(ops) >= 2:
		fmt.Fprintf(&sb, "%s%s %s %s", pad, name, id(ops[0]), spv.Decoration(ops[1]))
		writeDecorationOperands(&sb, spv.Decoration(ops[1]), ops[2:])

	case op == spv.OpMemberDecorate && len(ops) >= 3:
		fmt.Fprintf(&sb, "%s%s %s %d %s", pad, name, id(ops[0]), ops[1], spv.Decoration(ops[2]))
		writeDecorationOperands(&sb, spv.Decoration(ops[2]), ops[3:])

	case op == spv.OpTypeInt && len(ops) == 3:
		fmt.Fprintf(&sb, "%10s = %s %d %d", id(ops[0]), name, ops[1], ops[2])

	case op == spv.OpTypeFloat && len(ops) == 2:
		fmt.Fprintf(&sb, "%10s = %s %d", id(ops[0]), name, ops[1])

	case (op == spv.OpTypeVector || op == spv.OpTypeMatrix) && len(ops) == 3:
		fmt.Fprintf(&sb, "%10s = %s %s %d", id(ops[0]), name, id(ops[1]), ops[2])

	case op == spv.OpTypeImage && len(ops) >= 8:
		fmt.Fprintf(&sb, "%10s = %s %s", id(ops[0]), name, id(ops[1]))
		for _, v := range ops[2:] {
			fmt.Fprintf(&sb, " %d", v)
		}

	case op == spv.OpTypePointer && len(ops) == 3:
		fmt.Fprintf(&sb, "%10s = %s %s %s", id(ops[0]), name, spv.StorageClass(ops[1]), id(ops[2]))

	case (op == spv.OpConstant || op == spv.OpSpecConstant) && len(ops) == 3:
		fmt.Fprintf(&sb, "%10s = %s %s %d", id(ops[1]), name, id(ops[0]), ops[2])

	case op == spv.OpVariable && len(ops) >= 3:
		fmt.Fprintf(&sb, "%10s = %s %s %s", id(ops[1]), name, id(ops[0]), spv.StorageClass(ops[2]))
		for _, v := range ops[3:] {
			fmt.Fprintf(&sb, " %s", id(v))
		}

	case op == spv.OpFunction && len(ops) == 4:
		fmt.Fprintf(&sb, "%10s = %s %s None %s", id(ops[1]), name, id(ops[0]), id(ops[3]))

	case (op == spv.OpSelectionMerge || op == spv.OpLoopMerge) && len(ops) >= 2:
		fmt.Fprintf(&sb, "%s%s", pad, name)
		for _, v := range ops[:len(ops)-1] {
			fmt.Fprintf(&sb, " %s", id(v))
		}
		sb.WriteString(" None")

	case op == spv.OpCompositeExtract && len(ops) >= 3:
		fmt.Fprintf(&sb, "%10s = %s %s %s", id(ops[1]), name, id(ops[0]), id(ops[2]))
		for _, v := range ops[3:] {
			fmt.Fprintf(&sb, " %d", v)
		}

	case hasResultOnly(op) && len(ops) >= 1:
		fmt.Fprintf(&sb, "%10s = %s", id(ops[0]), name)
		for _, v := range ops[1:] {
			fmt.Fprintf(&sb, " %s", id(v))
		}

	case hasNoResult(op) || len(ops) < 2:
		fmt.Fprintf(&sb, "%s%s", pad, name)
		for _, v := range ops {
			fmt.Fprintf(&sb, " %s", id(v))
		}

	default:
		fmt.Fprintf(&sb, "%10s = %s %s", id(ops[1]), name, id(ops[0]))
		for _, v := range ops[2:] {
			fmt.Fprintf(&sb, " %s", id(v))
		}
	}
	return sb.String()
}

func writeDecorationOperands(sb *strings.Builder, d spv.Decoration, ops []uint32) {
	if d == spv.DecorationBuiltIn && len(ops) == 1 {
		fmt.Fprintf(sb, " %s", spv.BuiltIn(ops[0]))
		return
	}
	for _, v := range ops {
		fmt.Fprintf(sb, " %d", v)
	}
}
