// spvdis - SPIR-V disassembler
// Prints a module in .spvasm-like text
package main

import (
	"fmt"
	"os"

	"github.com/plasmaengine/lightningspv/spirv"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: spvdis <file.spv>")
		return
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	words, err := spirv.BytesToWords(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := spirv.Disassemble(os.Stdout, words); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
