package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	version = "0.1.0-dev"

	// GitCommit can be set at build time via -ldflags.
	GitCommit = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "lightningc %s.%s.%s\n", majorColor.Sprint("0"), minorColor.Sprint("1"), patchColor.Sprint("0-dev"))
		if GitCommit != "" {
			fmt.Fprintf(out, "commit: %s\n", GitCommit)
		}
		fmt.Fprintf(out, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
