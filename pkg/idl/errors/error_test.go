package errors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idlwrap/pkg/idl/ast"
)

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.ToError() != nil {
		t.Fatal("ToError() on empty list should be nil")
	}

	loc := ast.Location{File: "geometry.i", Line: 4, Column: 9}
	list.AddError(ErrorTypeNotFound, `cannot find declaration "Pose4"`, loc)
	list.AddErrorWithSuggestion(ErrorTypeNotFound, `cannot find declaration "Piont3"`, loc, "Did you mean 'Point3'?")
	list.AddError(ErrorTypeAmbiguous, `found 2 declarations named "Rot3"`, loc)

	if list.Count() != 3 {
		t.Errorf("Count() = %d, want 3", list.Count())
	}
	if got := len(list.ByType(ErrorTypeNotFound)); got != 2 {
		t.Errorf("ByType(not_found) = %d, want 2", got)
	}
	if !list.HasErrorType(ErrorTypeAmbiguous) {
		t.Error("HasErrorType(ambiguous) = false")
	}
	if list.HasErrorType(ErrorTypeSyntax) {
		t.Error("HasErrorType(syntax) = true")
	}

	msg := list.ToError().Error()
	for _, want := range []string{"Found 3 error(s)", "--> geometry.i:4:9", "suggestion: Did you mean 'Point3'?"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q:\n%s", want, msg)
		}
	}
}

func TestExtractContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.i")
	src := "namespace gtsam {\nclass Point2 {};\nclass Pose2 : gtsam::Pont2 {};\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	err := AddContextToError(&Error{
		Type:     ErrorTypeNotFound,
		Message:  `cannot find declaration "Pont2"`,
		Location: ast.Location{File: path, Line: 3, Column: 15},
	})

	if !strings.Contains(err.Context, "-> 3 | class Pose2 : gtsam::Pont2 {};") {
		t.Errorf("context does not mark the error line:\n%s", err.Context)
	}
	if !strings.Contains(err.Context, "  1 | namespace gtsam {") {
		t.Errorf("context does not include leading lines:\n%s", err.Context)
	}
	if !strings.Contains(err.Context, "^") {
		t.Errorf("context has no column marker:\n%s", err.Context)
	}
}

func TestExtractContext_MissingFile(t *testing.T) {
	loc := ast.Location{File: filepath.Join(t.TempDir(), "missing.i"), Line: 1}
	if got := ExtractContext(loc, 2); got != "" {
		t.Errorf("ExtractContext() = %q, want empty", got)
	}
}

func TestExtractContextFromBytes(t *testing.T) {
	src := []byte("class A {};\nclass B {};\nclass C {};")

	got := ExtractContextFromBytes(src, ast.Location{Line: 2, Column: 7}, 0)
	if got != "-> 2 | class B {};\n     |       ^\n" {
		t.Errorf("ExtractContextFromBytes() = %q", got)
	}

	if ExtractContextFromBytes(src, ast.Location{Line: 10}, 1) != "" {
		t.Error("out-of-range line should give empty context")
	}
}
