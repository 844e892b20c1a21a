// Command lightningc compiles shader IR libraries to SPIR-V.
//
// Usage:
//
//	lightningc <command> [flags] <input>
//
// Examples:
//
//	lightningc emit -o shader.spv -t Shader materials.yaml
//	lightningc compile -d out/ materials.yaml Shader Sky
//	lightningc disasm shader.spv
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/plasmaengine/lightningspv/pipeline"
	"github.com/plasmaengine/lightningspv/spirv"
)

var rootCmd = &cobra.Command{
	Use:               "lightningc",
	Short:             "Shader IR to SPIR-V compiler",
	Long:              `lightningc emits SPIR-V modules from YAML shader IR libraries and runs them through a pass pipeline`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./"+defaultConfigPath+" if present)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup configures color output and logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unknown color mode %q (want auto, on or off)", mode)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	spirv.SetLogger(logger.Named("spirv"))
	pipeline.SetLogger(logger.Named("pipeline"))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

// commandConfig loads the config named by --config, or the default file
// when it exists.
func commandConfig(cmd *cobra.Command) (config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return loadConfig(path, true)
	}
	return loadConfig(defaultConfigPath, false)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
