package resolver

import (
	"errors"
	"testing"

	"idlwrap/pkg/idl/ast"
	idlerrors "idlwrap/pkg/idl/errors"
)

// newTree builds:
//
//	root
//	└── a
//	    ├── b { class Widget, function make, enum Color, variable kPi }
//	    ├── b { class Gadget }
//	    └── c { forward a::b::Widget }
func newTree() (root, a, b1, b2, c *ast.Namespace) {
	b1 = ast.NewNamespace("b", []ast.Declaration{
		&ast.Class{Name: "Widget"},
		&ast.GlobalFunction{Name: "make"},
		&ast.Enum{Name: "Color"},
		&ast.Variable{Name: "kPi"},
	})
	b2 = ast.NewNamespace("b", []ast.Declaration{
		&ast.Class{Name: "Gadget"},
	})
	c = ast.NewNamespace("c", []ast.Declaration{
		&ast.ForwardDeclaration{Typename: ast.NewTypename([]string{"a", "b"}, "Widget")},
	})
	a = ast.NewNamespace("a", []ast.Declaration{b1, b2, c})
	root = ast.NewNamespace("", []ast.Declaration{a})
	return root, a, b1, b2, c
}

func TestFindSubNamespaces(t *testing.T) {
	root, a, b1, b2, c := newTree()

	tests := []struct {
		name  string
		start *ast.Namespace
		path  []string
		want  []*ast.Namespace
	}{
		{"empty path returns start", root, nil, []*ast.Namespace{root}},
		{"empty path from inner namespace", c, []string{}, []*ast.Namespace{c}},
		{"single segment", root, []string{"a"}, []*ast.Namespace{a}},
		{"repeated namespace fans out", root, []string{"a", "b"}, []*ast.Namespace{b1, b2}},
		{"relative to inner namespace", a, []string{"c"}, []*ast.Namespace{c}},
		{"missing first segment", root, []string{"x"}, nil},
		{"missing later segment", root, []string{"a", "x"}, nil},
		{"path longer than tree", root, []string{"a", "c", "d"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSubNamespaces(tt.start, tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("FindSubNamespaces() returned %d namespaces, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("result[%d] = %q (%p), want %q (%p)", i, got[i].Name, got[i], tt.want[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestResolve(t *testing.T) {
	root, _, b1, b2, c := newTree()

	tests := []struct {
		name     string
		typename ast.Typename
		want     ast.Declaration
	}{
		{"class", ast.NewTypename([]string{"a", "b"}, "Widget"), b1.Content[0]},
		{"global function", ast.NewTypename([]string{"a", "b"}, "make"), b1.Content[1]},
		{"class in second block", ast.NewTypename([]string{"a", "b"}, "Gadget"), b2.Content[0]},
		{"forward declaration by terminal name", ast.NewTypename([]string{"a", "c"}, "Widget"), c.Content[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, tt.typename)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %s %q, want %s %q", got.Kind(), got.DeclName(), tt.want.Kind(), tt.want.DeclName())
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	root, _, _, _, _ := newTree()

	tests := []struct {
		name        string
		typename    ast.Typename
		wantErr     error
		wantMatches int
	}{
		{"terminal name missing", ast.NewTypename([]string{"a", "b"}, "Gizmo"), idlerrors.ErrNotFound, 0},
		{"path segment missing", ast.NewTypename([]string{"a", "x"}, "Widget"), idlerrors.ErrNotFound, 0},
		{"unqualified searches root only", ast.NewTypename(nil, "Widget"), idlerrors.ErrNotFound, 0},
		{"enum is not resolvable", ast.NewTypename([]string{"a", "b"}, "Color"), idlerrors.ErrNotFound, 0},
		{"variable is not resolvable", ast.NewTypename([]string{"a", "b"}, "kPi"), idlerrors.ErrNotFound, 0},
		{"namespace is not resolvable", ast.NewTypename([]string{"a"}, "b"), idlerrors.ErrNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl, err := Resolve(root, tt.typename)
			if decl != nil {
				t.Errorf("Resolve() returned %q alongside an error", decl.DeclName())
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}

			re, ok := idlerrors.AsResolveError(err)
			if !ok {
				t.Fatalf("error %T is not a ResolveError", err)
			}
			if re.Name != tt.typename.Name {
				t.Errorf("error names %q, want %q", re.Name, tt.typename.Name)
			}
		})
	}
}

func TestResolve_AmbiguousAcrossSiblingNamespaces(t *testing.T) {
	b1 := ast.NewNamespace("b", []ast.Declaration{&ast.Class{Name: "Widget"}})
	b2 := ast.NewNamespace("b", []ast.Declaration{&ast.Class{Name: "Widget"}})
	root := ast.NewNamespace("", []ast.Declaration{ast.NewNamespace("a", []ast.Declaration{b1, b2})})

	_, err := Resolve(root, ast.NewTypename([]string{"a", "b"}, "Widget"))
	if !errors.Is(err, idlerrors.ErrAmbiguous) {
		t.Fatalf("Resolve() error = %v, want ErrAmbiguous", err)
	}
	if errors.Is(err, idlerrors.ErrNotFound) {
		t.Error("ambiguous error also matches ErrNotFound")
	}

	re, _ := idlerrors.AsResolveError(err)
	if re.Matches != 2 {
		t.Errorf("Matches = %d, want 2", re.Matches)
	}
}

func TestResolve_AmbiguousAcrossKinds(t *testing.T) {
	root := ast.NewNamespace("", []ast.Declaration{
		&ast.Class{Name: "Pose3"},
		&ast.ForwardDeclaration{Typename: ast.NewTypename(nil, "Pose3")},
		&ast.GlobalFunction{Name: "Pose3"},
	})

	_, err := Resolve(root, ast.NewTypename(nil, "Pose3"))
	re, ok := idlerrors.AsResolveError(err)
	if !ok || re.Type != idlerrors.ErrorTypeAmbiguous || re.Matches != 3 {
		t.Errorf("Resolve() error = %v, want ambiguous with 3 matches", err)
	}
}

func TestResolve_EnumDoesNotCollideWithClass(t *testing.T) {
	widget := &ast.Class{Name: "Widget"}
	root := ast.NewNamespace("", []ast.Declaration{
		&ast.Enum{Name: "Widget"},
		widget,
		&ast.Variable{Name: "Widget"},
	})

	got, err := Resolve(root, ast.NewTypename(nil, "Widget"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != widget {
		t.Errorf("Resolve() = %v, want the class", got)
	}
}

func TestResolve_IndependentTrees(t *testing.T) {
	first := &ast.Class{Name: "Widget"}
	firstRoot := ast.NewNamespace("", []ast.Declaration{ast.NewNamespace("a", []ast.Declaration{first})})
	second := &ast.Class{Name: "Widget"}
	secondRoot := ast.NewNamespace("", []ast.Declaration{ast.NewNamespace("a", []ast.Declaration{second})})

	tn := ast.NewTypename([]string{"a"}, "Widget")
	if got, _ := Resolve(firstRoot, tn); got != first {
		t.Error("first tree resolved to a foreign declaration")
	}
	if got, _ := Resolve(secondRoot, tn); got != second {
		t.Error("second tree resolved to a foreign declaration")
	}
}

func TestResolve_ResultIsDirectChildOfPathNamespace(t *testing.T) {
	root, _, _, _, _ := newTree()
	tn := ast.NewTypename([]string{"a", "b"}, "Widget")

	decl, err := Resolve(root, tn)
	if err != nil {
		t.Fatal(err)
	}

	parent := decl.Parent()
	if parent == nil {
		t.Fatal("resolved declaration has no parent")
	}
	got := parent.FullNamespaces()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("parent path = %v, want [a b]", got)
	}
}
