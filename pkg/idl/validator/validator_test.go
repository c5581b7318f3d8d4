package validator

import (
	"context"
	"strings"
	"testing"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
	"idlwrap/pkg/idl/parser"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	module, err := parser.NewParser().WithStrictMode(true).ParseBytes(context.Background(), []byte(src), "test.i")
	if err != nil {
		t.Fatalf("ParseBytes() failed: %v", err)
	}
	return module
}

func errorList(t *testing.T, err error) *idlerrors.ErrorList {
	t.Helper()
	errList, ok := err.(*idlerrors.ErrorList)
	if !ok {
		t.Fatalf("expected *errors.ErrorList, got %T: %v", err, err)
	}
	return errList
}

const validSource = `
namespace gtsam {
class Value {};
class Pose2 : gtsam::Value {
  gtsam::Pose2 compose(const gtsam::Pose2& other) const;
  std::vector<double> vector() const;
};
template <typename T>
class PriorFactor {
  const T& prior() const;
};
typedef gtsam::PriorFactor<gtsam::Pose2> PriorFactorPose2;
namespace noise {
class Gaussian {
  static gtsam::noiseModel::Base* Sigma(double sigma);
  Pose2 pose() const;
};
}
}
namespace gtsam::noiseModel {
class Base;
}
`

func TestValidator_Valid(t *testing.T) {
	module := parse(t, validSource)

	v := NewValidator(Options{ExternalTypes: []string{"std::*"}, Strict: true, ScopeLookup: true})
	if err := v.Validate(module); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestValidator_References(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		opts     Options
		wantType idlerrors.ErrorType // empty means no error
		wantMsg  string
	}{
		{
			name:     "qualified reference not found",
			src:      "namespace a { class X {}; }\nnamespace b { a::Y f(); }",
			opts:     Options{ScopeLookup: true},
			wantType: idlerrors.ErrorTypeNotFound,
			wantMsg:  `cannot find declaration "Y" in namespace a`,
		},
		{
			name: "unqualified reference not found is tolerated",
			src:  "namespace a { Unknown f(); }",
			opts: Options{ScopeLookup: true},
		},
		{
			name:     "unqualified reference not found in strict mode",
			src:      "namespace a { Unknown f(); }",
			opts:     Options{ScopeLookup: true, Strict: true},
			wantType: idlerrors.ErrorTypeNotFound,
			wantMsg:  `"Unknown"`,
		},
		{
			name:     "ambiguous reference",
			src:      "namespace a { class X {}; class X; }\nnamespace b { a::X f(); }",
			opts:     Options{ScopeLookup: true},
			wantType: idlerrors.ErrorTypeAmbiguous,
			wantMsg:  `found 2 declarations named "X"`,
		},
		{
			name: "enclosing scope lookup",
			src:  "namespace a { class X {}; namespace b { X f(); } }",
			opts: Options{ScopeLookup: true, Strict: true},
		},
		{
			name:     "top level only without scope lookup",
			src:      "namespace a { class X {}; namespace b { X f(); } }",
			opts:     Options{Strict: true},
			wantType: idlerrors.ErrorTypeNotFound,
		},
		{
			name: "template parameters are skipped",
			src:  "template <typename T> class Box { T get() const; };",
			opts: Options{Strict: true},
		},
		{
			name: "external exact name",
			src:  "gtsam::Key key();",
			opts: Options{ExternalTypes: []string{"gtsam::Key"}},
		},
		{
			name:     "external wildcard does not cover other namespaces",
			src:      "boost::shared_ptr<int> make();",
			opts:     Options{ExternalTypes: []string{"std::*"}},
			wantType: idlerrors.ErrorTypeNotFound,
		},
		{
			name:     "template arguments are resolved",
			src:      "namespace a { class Box {}; }\ntypedef a::Box<a::Missing> BoxMissing;",
			wantType: idlerrors.ErrorTypeNotFound,
			wantMsg:  `"Missing"`,
		},
		{
			name:     "base class",
			src:      "namespace a { class Derived : a::Base {}; }",
			wantType: idlerrors.ErrorTypeNotFound,
			wantMsg:  `"Base"`,
		},
		{
			name:     "variable type",
			src:      "namespace a { const a::Missing kValue = 1; }",
			wantType: idlerrors.ErrorTypeNotFound,
		},
		{
			name: "builtin types",
			src:  "unsigned int count(double x, bool flag, size_t n);",
			opts: Options{Strict: true},
		},
		{
			name: "qualified enum",
			src:  "namespace gtsam { enum KernelType { Huber, Cauchy }; void setKernel(gtsam::KernelType k); }",
		},
		{
			name: "qualified typedef instantiation",
			src:  "namespace gtsam { class Box {}; typedef gtsam::Box<double> BoxDouble; void fill(const gtsam::BoxDouble& b); }",
		},
		{
			name: "unqualified enum from a reopened block",
			src:  "namespace gtsam { enum Kind { A }; }\nnamespace gtsam { namespace inner { Kind kind(); } }",
			opts: Options{ScopeLookup: true, Strict: true},
		},
		{
			name:     "variable is not a type",
			src:      "namespace a { const double kX = 1; a::kX f(); }",
			wantType: idlerrors.ErrorTypeNotFound,
			wantMsg:  `"kX"`,
		},
		{
			name: "class from a reopened block",
			src:  "namespace gtsam { class Pose2 {}; }\nnamespace gtsam { Pose2 identity(); }",
			opts: Options{ScopeLookup: true, Strict: true},
		},
		{
			name:     "unqualified miss names the enclosing namespace",
			src:      "namespace gtsam { namespace inner { Rot2 f(); } }",
			opts:     Options{ScopeLookup: true, Strict: true},
			wantType: idlerrors.ErrorTypeNotFound,
			wantMsg:  `cannot find declaration "Rot2" in namespace gtsam::inner`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module := parse(t, tt.src)
			err := NewValidator(tt.opts).Validate(module)

			if tt.wantType == "" {
				if err != nil {
					t.Errorf("Validate() failed: %v", err)
				}
				return
			}

			errList := errorList(t, err)
			matching := errList.ByType(tt.wantType)
			if len(matching) == 0 {
				t.Fatalf("expected %s error, got %v", tt.wantType, err)
			}
			if tt.wantMsg != "" && !strings.Contains(matching[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", matching[0].Message, tt.wantMsg)
			}
			if !matching[0].Location.IsValid() {
				t.Errorf("expected a valid location, got %s", matching[0].Location)
			}
		})
	}
}

func TestValidator_Suggestions(t *testing.T) {
	t.Run("qualify", func(t *testing.T) {
		module := parse(t, "namespace a { class X {}; }\nnamespace b { X f(); }")
		err := NewValidator(Options{ScopeLookup: true, Strict: true}).Validate(module)

		errList := errorList(t, err)
		if got := errList.Errors[0].Suggestion; got != "Did you mean 'a::X'?" {
			t.Errorf("suggestion = %q, want Did you mean 'a::X'?", got)
		}
	})

	t.Run("typo", func(t *testing.T) {
		module := parse(t, "namespace a { class Pose3 {}; a::Pose4 f(); }")
		err := NewValidator(Options{ScopeLookup: true}).Validate(module)

		errList := errorList(t, err)
		if got := errList.Errors[0].Suggestion; got != "Did you mean 'Pose3'?" {
			t.Errorf("suggestion = %q, want Did you mean 'Pose3'?", got)
		}
	})
}

func TestStructuralValidator(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"duplicate enumerator", "enum Kind { A, B, A };", `duplicate enumerator of "Kind" "A"`},
		{"duplicate argument", "void f(int x, int x);", `duplicate argument of "f" "x"`},
		{"duplicate template parameter", "template <typename T, typename T> class Box {};", `duplicate template parameter "T"`},
		{"duplicate property", "class P { double x; double x; };", `duplicate property of class "P" "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := parser.NewParser().ParseBytes(context.Background(), []byte(tt.src), "test.i")
			if err != nil {
				t.Fatalf("ParseBytes() failed: %v", err)
			}

			err = NewValidator(Options{}).ValidateStructural(module)
			errList := errorList(t, err)
			if !errList.HasErrorType(idlerrors.ErrorTypeStructural) {
				t.Fatalf("expected structural error, got %v", err)
			}
			if !strings.Contains(errList.Errors[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", errList.Errors[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestStructuralValidator_MissingRoot(t *testing.T) {
	err := NewStructuralValidator().Validate(&ast.Module{File: "empty.i"})
	if err == nil {
		t.Fatal("expected error for module without root")
	}
}

func TestValidator_CancelledContext(t *testing.T) {
	module := parse(t, validSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewValidator(Options{}).ValidateContext(ctx, module)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStructuralValidator_CancelledContext(t *testing.T) {
	module := parse(t, validSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewStructuralValidator().ValidateContext(ctx, module)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
