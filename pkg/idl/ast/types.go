package ast

import "strings"

// Typename is a qualified type reference: a namespace path plus a terminal name.
// Template arguments, if any, are kept in Instantiations.
type Typename struct {
	Namespaces     []string   // Namespace path, root-to-leaf, possibly empty
	Name           string     // Terminal name
	Instantiations []Typename // Template arguments, e.g. Pose3 in Values<Pose3>
}

// NewTypename creates a typename from a namespace path and a terminal name.
func NewTypename(namespaces []string, name string) Typename {
	return Typename{Namespaces: namespaces, Name: name}
}

// IsQualified returns true if the typename carries a namespace path.
func (t Typename) IsQualified() bool {
	return len(t.Namespaces) > 0
}

// Equal reports whether t and other name the same declaration for resolution
// purposes: identical path segments and terminal name. Template arguments are ignored.
func (t Typename) Equal(other Typename) bool {
	if t.Name != other.Name || len(t.Namespaces) != len(other.Namespaces) {
		return false
	}
	for i := range t.Namespaces {
		if t.Namespaces[i] != other.Namespaces[i] {
			return false
		}
	}
	return true
}

// QualifiedName renders the typename as "a::b::Name" without template arguments.
func (t Typename) QualifiedName() string {
	if len(t.Namespaces) == 0 {
		return t.Name
	}
	return strings.Join(t.Namespaces, "::") + "::" + t.Name
}

// String renders the typename including template arguments, e.g. "gtsam::Values<gtsam::Pose3>".
func (t Typename) String() string {
	s := t.QualifiedName()
	if len(t.Instantiations) == 0 {
		return s
	}
	args := make([]string, len(t.Instantiations))
	for i, inst := range t.Instantiations {
		args[i] = inst.String()
	}
	return s + "<" + strings.Join(args, ", ") + ">"
}

// Type is a typename used in a signature, with its qualifiers.
type Type struct {
	Typename Typename
	IsConst  bool
	IsRef    bool
	IsPtr    bool
}

// String renders the type in C++ syntax.
func (t Type) String() string {
	var sb strings.Builder
	if t.IsConst {
		sb.WriteString("const ")
	}
	sb.WriteString(t.Typename.String())
	if t.IsPtr {
		sb.WriteString("*")
	}
	if t.IsRef {
		sb.WriteString("&")
	}
	return sb.String()
}

// Argument is a function or method parameter, or a class property.
type Argument struct {
	Name    string
	Type    Type
	Default string
}

// Method is a member function of a class.
type Method struct {
	Name       string
	ReturnType Type
	Args       []*Argument
	IsStatic   bool
	IsConst    bool
	Location   Location
}

// Include is an #include directive at file level.
type Include struct {
	Path     string
	Location Location
}

// Module is one parsed interface file: its includes and its root namespace.
type Module struct {
	File     string
	Includes []*Include
	Root     *Namespace
}
