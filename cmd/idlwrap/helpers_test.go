package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// newTestCommand resets the global flags to defaults with no config file and
// returns a command whose output is captured.
func newTestCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	verbose = false
	logLevel = "error"
	logFormat = ""

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	return cmd, buf
}

// useConfig points --config at a file holding content.
func useConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idlwrap.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfgFile = path
}

func resetCheckFlags() {
	checkFlags.file = ""
	checkFlags.dir = ""
	checkFlags.strict = false
	checkFlags.format = "text"
	checkFlags.git = false
	checkFlags.repo = ""
	checkFlags.branch = ""
	checkFlags.progress = false
	checkFlags.record = false
}
