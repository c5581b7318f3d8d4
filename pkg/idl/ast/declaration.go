package ast

// Declaration is an entry of a namespace's content. The interface is closed:
// the seven declaration types of this package are its only implementations.
type Declaration interface {
	// Kind returns the declaration variant.
	Kind() Kind

	// DeclName returns the name the declaration is looked up by.
	DeclName() string

	// Parent returns the namespace that directly contains the declaration,
	// or nil if the declaration has not been placed in a namespace.
	Parent() *Namespace

	// Pos returns the source location of the declaration.
	Pos() Location

	setParent(ns *Namespace)
}

// parentRef is the back-reference slot shared by all declarations.
// It is written only by NewNamespace.
type parentRef struct {
	parent *Namespace
}

// Parent returns the enclosing namespace, or nil for a root namespace.
func (r *parentRef) Parent() *Namespace { return r.parent }

func (r *parentRef) setParent(ns *Namespace) { r.parent = ns }

// Class represents a class declaration with a body.
type Class struct {
	parentRef

	Name        string      // Class name
	ParentClass *Typename   // Base class, nil if none
	Template    []string    // Template parameter names, empty for non-template classes
	IsVirtual   bool        // Declared with a virtual specifier or has virtual methods
	Methods     []*Method   // Member functions in declaration order
	Properties  []*Argument // Data members in declaration order
	Location    Location    // Source location
}

func (c *Class) Kind() Kind       { return KindClass }
func (c *Class) DeclName() string { return c.Name }
func (c *Class) Pos() Location    { return c.Location }

// IsTemplate returns true if the class declares template parameters.
func (c *Class) IsTemplate() bool {
	return len(c.Template) > 0
}

// GlobalFunction represents a free function declared in a namespace.
type GlobalFunction struct {
	parentRef

	Name       string
	ReturnType Type
	Args       []*Argument
	Template   []string
	Location   Location
}

func (f *GlobalFunction) Kind() Kind       { return KindGlobalFunction }
func (f *GlobalFunction) DeclName() string { return f.Name }
func (f *GlobalFunction) Pos() Location    { return f.Location }

// ForwardDeclaration represents a class that is declared but defined elsewhere,
// for example "class gtsam::Pose3;".
type ForwardDeclaration struct {
	parentRef

	Typename    Typename  // Declared class, possibly qualified
	ParentClass *Typename // Base class, nil if none
	IsVirtual   bool
	Location    Location
}

func (f *ForwardDeclaration) Kind() Kind { return KindForwardDeclaration }

// DeclName returns the terminal name of the declared typename.
func (f *ForwardDeclaration) DeclName() string { return f.Typename.Name }
func (f *ForwardDeclaration) Pos() Location    { return f.Location }

// Enum represents an enumeration.
type Enum struct {
	parentRef

	Name        string
	Enumerators []string
	IsScoped    bool // enum class
	Location    Location
}

func (e *Enum) Kind() Kind       { return KindEnum }
func (e *Enum) DeclName() string { return e.Name }
func (e *Enum) Pos() Location    { return e.Location }

// Variable represents a namespace-level variable or constant.
type Variable struct {
	parentRef

	Name     string
	Type     Type
	Default  string // Initializer text, empty if none
	Location Location
}

func (v *Variable) Kind() Kind       { return KindVariable }
func (v *Variable) DeclName() string { return v.Name }
func (v *Variable) Pos() Location    { return v.Location }

// TypedefTemplateInstantiation represents an alias for an instantiated template,
// for example "typedef gtsam::PriorFactor<gtsam::Pose2> PriorFactorPose2;".
type TypedefTemplateInstantiation struct {
	parentRef

	Name     string   // New alias name
	Typename Typename // Instantiated template, with Instantiations set
	Location Location
}

func (t *TypedefTemplateInstantiation) Kind() Kind       { return KindTypedefInstantiation }
func (t *TypedefTemplateInstantiation) DeclName() string { return t.Name }
func (t *TypedefTemplateInstantiation) Pos() Location    { return t.Location }

// QualifiedPath returns the full namespace path of decl followed by its own name.
// For a namespace this is the same as FullNamespaces.
func QualifiedPath(decl Declaration) []string {
	if ns, ok := decl.(*Namespace); ok {
		return ns.FullNamespaces()
	}

	var path []string
	if parent := decl.Parent(); parent != nil {
		path = parent.FullNamespaces()
	}
	if name := decl.DeclName(); name != "" {
		path = append(path, name)
	}
	return path
}
