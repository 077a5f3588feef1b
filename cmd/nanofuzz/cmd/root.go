package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nanofuzz",
	Short: "Generate bounded random byte sequences from a fuzz pattern",
	Long: `nanofuzz compiles a fuzz-pattern string into a generator and draws
one or more bounded random outputs from it.`,
	RunE: runGenerate,
}

// Execute runs the root command, exiting 1 on any argument or compile
// error per spec.md §6's CLI surface.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("interactive", "i", false, "read the pattern interactively from stdin")
	rootCmd.Flags().StringP("pattern", "p", "", "the fuzz pattern to compile")
	rootCmd.Flags().StringP("file", "f", "", "read the fuzz pattern from a file")
	rootCmd.Flags().IntP("count", "l", 1, "number of outputs to generate")
	rootCmd.Flags().BoolP("no-newlines", "n", false, "suppress literal CR/LF in the pattern source")
}
