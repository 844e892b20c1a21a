package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/irdoc"
	"github.com/plasmaengine/lightningspv/pipeline"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <library.yaml> [shader...]",
	Short: "Compile shaders through the configured pass pipeline",
	Long: `Compile emits each named shader (default: every entry point of the library),
runs it through the [pipeline] passes of the config and writes <shader>.spv
to the output directory. Shaders are compiled concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("dir", "d", ".", "output directory")
	compileCmd.Flags().Int("jobs", 0, "max parallel shaders (0=config or GOMAXPROCS)")
	compileCmd.Flags().Bool("debug-output", false, "also write debug pass results as <shader>.<pass>.spv")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	debugOutput, err := cmd.Flags().GetBool("debug-output")
	if err != nil {
		return fmt.Errorf("failed to get debug-output flag: %w", err)
	}
	if jobs > 0 {
		cfg.Pipeline.Jobs = jobs
	}

	opts, err := cfg.spirvOptions()
	if err != nil {
		return err
	}
	desc, err := cfg.description()
	if err != nil {
		return err
	}
	compiler, err := pipeline.NewCompiler(opts, desc, cfg.pipelineConfig())
	if err != nil {
		return err
	}

	lib, err := irdoc.LoadFile(args[0])
	if err != nil {
		return err
	}
	shaders := args[1:]
	if len(shaders) == 0 {
		shaders = entryPointNames(lib)
	}
	if len(shaders) == 0 {
		return fmt.Errorf("%s: no entry points", args[0])
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outcomes, err := compiler.CompileAll(cmd.Context(), lib, shaders)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(errOut, "%s %s: %v\n", errColor.Sprint("failed"), o.Shader, o.Err)
			continue
		}
		path := filepath.Join(dir, o.Shader+".spv")
		final := o.Result.Final()
		if err := os.WriteFile(path, final.ByteStream, 0o644); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
		if debugOutput {
			for i, d := range o.Result.Debug {
				name := desc.DebugPasses[i].Name()
				if err := os.WriteFile(filepath.Join(dir, o.Shader+"."+name+".spv"), d.ByteStream, 0o644); err != nil {
					return fmt.Errorf("error writing output: %w", err)
				}
			}
		}
		fmt.Fprintf(errOut, "%s %s -> %s (%d bytes, run %s)\n", okColor.Sprint("compiled"), o.Shader, path, len(final.ByteStream), o.Result.RunID)
	}
	return pipeline.Errors(outcomes)
}

func entryPointNames(lib *ir.Library) []string {
	var names []string
	for _, h := range lib.EntryPointTypes() {
		names = append(names, lib.Type(h).Name)
	}
	return names
}
