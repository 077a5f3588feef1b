package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanofuzz/nanofuzz"
)

// runGenerate orchestrates the CLI pipeline: resolve the pattern source,
// compile it, then print count generated outputs — mirroring the teacher's
// own resolve-then-pipeline shape (cmd/cli/cmd/x86_64/assemble_file.go's
// runAssembleFile: resolveFilePath, then the rest of the pipeline against
// whatever it resolved).
func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	interactive, _ := flags.GetBool("interactive")
	patternFlag, _ := flags.GetString("pattern")
	fileFlag, _ := flags.GetString("file")
	count, _ := flags.GetInt("count")
	noNewlines, _ := flags.GetBool("no-newlines")

	pattern, err := resolvePattern(cmd, interactive, patternFlag, fileFlag)
	if err != nil {
		return err
	}
	if noNewlines {
		pattern = stripCRLF(pattern)
	}

	ctx, err := nanofuzz.Open(pattern)
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}
	defer ctx.Close()

	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		out, err := ctx.Next()
		if err != nil {
			return fmt.Errorf("generation error: %w", err)
		}
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return err
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), "\n"); err != nil {
			return err
		}
	}
	return nil
}

// resolvePattern picks exactly one of -i, -p, -f as the pattern source, in
// that precedence order, the way resolveFilePath validates a single
// positional argument before the rest of the pipeline runs.
func resolvePattern(cmd *cobra.Command, interactive bool, patternFlag, fileFlag string) (string, error) {
	switch {
	case interactive:
		return readInteractivePattern(cmd.InOrStdin())
	case patternFlag != "":
		return patternFlag, nil
	case fileFlag != "":
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", fmt.Errorf("failed to read pattern file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("one of -i, -p, or -f is required")
	}
}

func readInteractivePattern(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	fmt.Fprint(os.Stderr, "pattern> ")
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read pattern from stdin: %w", err)
		}
		return "", fmt.Errorf("no pattern provided on stdin")
	}
	return scanner.Text(), nil
}

func stripCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}
