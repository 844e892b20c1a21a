package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/plasmaengine/lightningspv/irdoc"
	"github.com/plasmaengine/lightningspv/reflection"
	"github.com/plasmaengine/lightningspv/spirv"
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] <library.yaml>",
	Short: "Emit a SPIR-V module from an IR library",
	Long: `Emit translates one shader type, or with no --type every entry point of the
library, into a single SPIR-V module. No passes are run.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringP("type", "t", "", "shader type to translate (default: whole library)")
	emitCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	emitCmd.Flags().String("reflection", "", "write stage reflection to this file (.json or .yaml)")
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.spirvOptions()
	if err != nil {
		return err
	}
	typeName, err := cmd.Flags().GetString("type")
	if err != nil {
		return fmt.Errorf("failed to get type flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	reflPath, err := cmd.Flags().GetString("reflection")
	if err != nil {
		return fmt.Errorf("failed to get reflection flag: %w", err)
	}

	lib, err := irdoc.LoadFile(args[0])
	if err != nil {
		return err
	}

	backend := spirv.NewBackend(opts)
	var res spirv.Result
	if typeName == "" {
		res, err = backend.TranslateLibrary(lib)
	} else {
		h, ok := lib.FindType(typeName)
		if !ok {
			return fmt.Errorf("%s: unknown type %q", args[0], typeName)
		}
		res, err = backend.TranslateType(lib, h)
	}
	if err != nil {
		return fmt.Errorf("SPIR-V generation error: %w", err)
	}
	if len(res.Words) == 0 {
		return fmt.Errorf("%s: nothing to emit", args[0])
	}

	if reflPath != "" {
		if err := writeReflection(reflPath, res.Stages); err != nil {
			return err
		}
	}

	data := res.Bytes()
	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s to %s (%d bytes)\n", okColor.Sprint("emitted"), args[0], output, len(data))
	return nil
}

func writeReflection(path string, stages []reflection.StageReflection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error writing reflection: %w", err)
	}
	if err := encodeReflection(f, filepath.Ext(path), stages); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func encodeReflection(w io.Writer, ext string, stages []reflection.StageReflection) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(stages); err != nil {
			return err
		}
		return enc.Close()
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stages)
	default:
		return fmt.Errorf("unknown reflection format %q (want .json or .yaml)", ext)
	}
}
