package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/index"
)

func resetIndexFlags(t *testing.T) {
	t.Helper()
	indexFlags.file = ""
	indexFlags.dir = ""
	indexFlags.db = filepath.Join(t.TempDir(), "decls.db")
	indexFlags.driver = "sqlite"
	indexFlags.run = ""
	indexFlags.name = ""
	indexFlags.kind = ""
	indexFlags.namespace = ""
	indexFlags.inFile = ""
	indexFlags.allRuns = false
	indexFlags.limit = 100
	indexFlags.offset = 0
	indexFlags.format = "text"
	indexFlags.runsLimit = 20
	indexFlags.runsFormat = "text"
	indexFlags.olderThan = 0
}

func TestRunIndex_RecordAndQuery(t *testing.T) {
	cmd, out := newTestCommand(t)
	resetIndexFlags(t)
	indexFlags.dir = "testdata"

	if err := runIndex(cmd, nil); err != nil {
		t.Fatalf("runIndex() error = %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "2 file(s), 16 declaration(s)") {
		t.Errorf("unexpected summary:\n%s", output)
	}
	if !strings.Contains(output, "1 reference error(s)") {
		t.Errorf("expected reference error warning:\n%s", output)
	}

	// Query the run just recorded.
	cmd, out = newTestCommand(t)
	indexFlags.namespace = "gtsam::noiseModel"
	indexFlags.format = "json"

	if err := runIndexQuery(cmd, nil); err != nil {
		t.Fatalf("runIndexQuery() error = %v", err)
	}

	var records []*index.Record
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record in gtsam::noiseModel, got %d", len(records))
	}
	if records[0].QualifiedName != "gtsam::noiseModel::Base" || records[0].Kind != "forward_declaration" {
		t.Errorf("unexpected record %+v", records[0])
	}
}

func TestRunIndexQuery_CSV(t *testing.T) {
	cmd, _ := newTestCommand(t)
	resetIndexFlags(t)
	indexFlags.file = "testdata/geometry.i"
	if err := runIndex(cmd, nil); err != nil {
		t.Fatalf("runIndex() error = %v", err)
	}

	cmd, out := newTestCommand(t)
	indexFlags.kind = "function"
	indexFlags.format = "csv"
	if err := runIndexQuery(cmd, nil); err != nil {
		t.Fatalf("runIndexQuery() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "function,gtsam::between,testdata/geometry.i,40,1,") {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestRunIndexRuns(t *testing.T) {
	cmd, _ := newTestCommand(t)
	resetIndexFlags(t)
	indexFlags.file = "testdata/geometry.i"
	for i := 0; i < 2; i++ {
		if err := runIndex(cmd, nil); err != nil {
			t.Fatalf("runIndex() error = %v", err)
		}
	}

	cmd, out := newTestCommand(t)
	indexFlags.runsFormat = "json"
	if err := runIndexRuns(cmd, nil); err != nil {
		t.Fatalf("runIndexRuns() error = %v", err)
	}

	var runs []*index.Run
	if err := json.Unmarshal(out.Bytes(), &runs); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Source != "testdata/geometry.i" || runs[0].Declarations != 14 {
		t.Errorf("unexpected run %+v", runs[0])
	}
	if runs[0].ID == runs[1].ID {
		t.Error("runs should have distinct IDs")
	}
}

func TestRunIndexPrune(t *testing.T) {
	cmd, _ := newTestCommand(t)
	resetIndexFlags(t)
	indexFlags.file = "testdata/geometry.i"
	if err := runIndex(cmd, nil); err != nil {
		t.Fatalf("runIndex() error = %v", err)
	}

	cmd, out := newTestCommand(t)
	indexFlags.olderThan = 1
	if err := runIndexPrune(cmd, nil); err != nil {
		t.Fatalf("runIndexPrune() error = %v", err)
	}
	if !strings.Contains(out.String(), "Pruned 0 run(s) older than 1 day(s)") {
		t.Errorf("fresh run should survive pruning:\n%s", out)
	}
}

func TestRunIndex_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func()
		run    func() error
	}{
		{
			name:   "no file or dir",
			modify: func() {},
			run:    func() error { return runIndex(nil, nil) },
		},
		{
			name:   "unknown driver",
			modify: func() { indexFlags.file = "testdata/geometry.i"; indexFlags.driver = "mysql" },
			run:    func() error { return runIndex(nil, nil) },
		},
		{
			name:   "negative limit",
			modify: func() { indexFlags.limit = -1 },
			run:    func() error { return runIndexQuery(nil, nil) },
		},
		{
			name:   "negative retention",
			modify: func() { indexFlags.olderThan = -3 },
			run:    func() error { return runIndexPrune(nil, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestCommand(t)
			resetIndexFlags(t)
			tt.modify()

			err := tt.run()
			if err == nil {
				t.Fatal("expected error")
			}
			if code := cli.ExitCode(err); code != cli.ExitUsage {
				t.Errorf("ExitCode() = %d, want %d (%v)", code, cli.ExitUsage, err)
			}
		})
	}
}
