package cli

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestSimpleProgressBasic(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(4)
	progress.Update(2)
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "Checking:") {
		t.Errorf("expected progress output to contain 'Checking:', got %q", output)
	}
	if !strings.Contains(output, "(4/4)") {
		t.Errorf("expected finished progress (4/4), got %q", output)
	}
}

func TestSimpleProgressNeverMovesBackwards(t *testing.T) {
	progress := NewProgressReporter(&bytes.Buffer{}).(*SimpleProgress)

	progress.Start(10)
	progress.Update(7)
	progress.Update(3)
	if progress.current != 7 {
		t.Errorf("current = %d, want 7", progress.current)
	}

	progress.Update(50)
	if progress.current != 10 {
		t.Errorf("current = %d, want clamp to 10", progress.current)
	}
}

func TestSimpleProgressZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Update(0)
	progress.Finish()

	if buf.Len() != 0 {
		t.Errorf("expected no output for zero total, got %q", buf.String())
	}
}

func TestSimpleProgressError(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(3)
	progress.Error(errors.New("geometry.i: syntax error"))

	if !strings.Contains(buf.String(), "Error: geometry.i: syntax error") {
		t.Errorf("expected error output, got %q", buf.String())
	}
}

func TestSimpleProgressConcurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				progress.Update(int64(start*100 + j))
			}
		}(i)
	}
	wg.Wait()

	progress.Finish()

	if buf.Len() == 0 {
		t.Error("expected some progress output")
	}
}

func TestNoProgress(t *testing.T) {
	var progress ProgressReporter = NoProgress{}
	progress.Start(10)
	progress.Update(5)
	progress.Error(errors.New("ignored"))
	progress.Finish()
}
