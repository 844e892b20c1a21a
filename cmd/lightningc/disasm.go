package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plasmaengine/lightningspv/spirv"
	"github.com/plasmaengine/lightningspv/spv"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	errColor     = color.New(color.FgRed, color.Bold)
	commentColor = color.New(color.Faint)
	debugColor   = color.New(color.FgHiBlack)
	annotColor   = color.New(color.FgCyan)
	typeColor    = color.New(color.FgBlue)
	flowColor    = color.New(color.FgMagenta, color.Bold)
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file.spv>",
	Short: "Disassemble a SPIR-V module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		words, err := spirv.BytesToWords(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return disassemble(cmd.OutOrStdout(), words)
	},
}

// disassemble writes the listing, highlighting instruction groups when
// color output is enabled.
func disassemble(w io.Writer, words []uint32) error {
	if color.NoColor {
		return spirv.Disassemble(w, words)
	}

	h, insts, err := spirv.Decode(words)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(w)
	commentColor.Fprintf(out, "; SPIR-V\n; Version: %d.%d\n; Generator: 0x%08X\n; Bound: %d\n; Schema: %d\n",
		(h.Version>>16)&0xFF, (h.Version>>8)&0xFF, h.Generator, h.Bound, h.Schema)
	fmt.Fprintln(out)
	for _, inst := range insts {
		line := spirv.FormatInstruction(inst)
		if c := lineColor(inst.Opcode); c != nil {
			name := inst.Opcode.String()
			line = strings.Replace(line, name, c.Sprint(name), 1)
		}
		fmt.Fprintln(out, line)
	}
	return out.Flush()
}

func lineColor(op spv.Op) *color.Color {
	switch op {
	case spv.OpSource, spv.OpName, spv.OpMemberName:
		return debugColor
	case spv.OpDecorate, spv.OpMemberDecorate:
		return annotColor
	case spv.OpFunction, spv.OpFunctionEnd, spv.OpLabel, spv.OpBranch, spv.OpBranchConditional,
		spv.OpSelectionMerge, spv.OpLoopMerge, spv.OpReturn, spv.OpReturnValue:
		return flowColor
	}
	if strings.HasPrefix(op.String(), "OpType") {
		return typeColor
	}
	return nil
}
