package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestResolvePattern_PrefersFlagsInDocumentedOrder(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "pattern.txt")
	if err := os.WriteFile(file, []byte("from-file"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tests := []struct {
		name        string
		interactive bool
		stdin       string
		patternFlag string
		fileFlag    string
		want        string
		wantErr     bool
	}{
		{name: "interactive wins over everything", interactive: true, stdin: "from-stdin\n", patternFlag: "from-flag", fileFlag: file, want: "from-stdin"},
		{name: "pattern flag wins over file", patternFlag: "from-flag", fileFlag: file, want: "from-flag"},
		{name: "file flag used alone", fileFlag: file, want: "from-file"},
		{name: "nothing provided is an error", wantErr: true},
		{name: "missing file is an error", fileFlag: filepath.Join(tmpDir, "missing.txt"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newTestRootCmd()
			root.SetIn(strings.NewReader(tt.stdin))

			got, err := resolvePattern(root, tt.interactive, tt.patternFlag, tt.fileFlag)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("resolvePattern() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripCRLF_RemovesLiteralLineEndingsOnly(t *testing.T) {
	in := "a\r\nb\nc\rd"
	want := "abcd"
	if got := stripCRLF(in); got != want {
		t.Fatalf("stripCRLF(%q) = %q, want %q", in, got, want)
	}
}

func TestRunGenerate_WritesExactlyCountOutputsPlusNewlines(t *testing.T) {
	root := newTestRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"-p", "ab", "-l", "3"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines of output, got %d: %q", len(lines), out.String())
	}
	for _, line := range lines {
		if line != "ab" {
			t.Fatalf("expected every line to read %q, got %q", "ab", line)
		}
	}
}

func TestRunGenerate_InvalidPatternFails(t *testing.T) {
	root := newTestRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"-p", "(unterminated"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected a compile error, got none")
	}
}

// newTestRootCmd builds a fresh root command for each test case: rootCmd is
// a package-level singleton, so running cobra's flag parsing against it
// directly would leak flag state across test cases.
func newTestRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "nanofuzz", RunE: runGenerate}
	root.Flags().BoolP("interactive", "i", false, "")
	root.Flags().StringP("pattern", "p", "", "")
	root.Flags().StringP("file", "f", "", "")
	root.Flags().IntP("count", "l", 1, "")
	root.Flags().BoolP("no-newlines", "n", false, "")
	return root
}
