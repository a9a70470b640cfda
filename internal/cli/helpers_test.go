package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// buttonLog is a four-entry history, newest first, with one untagged snap
// on top of three releases. All dates fall on 2020-09-13 UTC.
const buttonLog = `component: ui/button
logs:
  - hash: d4d4d4d4d4d4d4d4
    date: "1600000004000"
    message: snap after release
    username: dev
  - hash: c3c3c3c3c3c3c3c3
    tag: 1.2.0
    date: "1600000003000"
    message: fix padding
  - hash: b2b2b2b2b2b2b2b2
    tag: 1.1.0
    date: "1600000002000"
  - hash: a1a1a1a1a1a1a1a1
    tag: 1.0.0
    date: "1600000001000"
`

// isolate runs the test in an empty directory with no user config and
// colors disabled.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
	return dir
}

func writeLog(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "history.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeRoot runs the real root command the way Execute does and returns
// what it wrote to stdout and stderr.
func executeRoot(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = executeRootTo(t, &out, &errOut, args...)
	return out.String(), errOut.String(), err
}

func executeRootTo(t *testing.T, out, errOut io.Writer, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err != nil {
		printError(errOut, err)
	}
	return err
}

// resetFlags puts every flag of cmd and its subcommands back to its default
// so state does not leak between tests sharing rootCmd.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// syncBuffer is a bytes.Buffer safe for a command writing while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
