package ast

// Namespace is a named container of declarations. The root namespace of a file
// has an empty name and a nil parent.
type Namespace struct {
	parentRef

	Name     string        // Namespace name, "" for the root
	Content  []Declaration // Declarations in parse order
	Location Location      // Source location of the namespace keyword
}

// RawNamespace is the parse result for one namespace match as produced by a
// grammar engine: a name and already-typed content.
type RawNamespace struct {
	Name     string
	Content  []Declaration
	Location Location
}

func (ns *Namespace) Kind() Kind       { return KindNamespace }
func (ns *Namespace) DeclName() string { return ns.Name }
func (ns *Namespace) Pos() Location    { return ns.Location }

// NewNamespace creates a namespace owning content and points the parent of every
// direct child at it, overwriting any previous parent. Duplicate names are not
// checked here; they surface when a reference is resolved.
func NewNamespace(name string, content []Declaration) *Namespace {
	ns := &Namespace{
		Name:    name,
		Content: content,
	}
	for _, child := range ns.Content {
		child.setParent(ns)
	}
	return ns
}

// BuildNamespace converts a raw parse result into a Namespace.
func BuildNamespace(raw RawNamespace) *Namespace {
	ns := NewNamespace(raw.Name, raw.Content)
	ns.Location = raw.Location
	return ns
}

// IsRoot returns true if ns is the synthetic root namespace of a file.
func (ns *Namespace) IsRoot() bool {
	return ns.Name == "" && ns.parent == nil
}

// Namespaces returns the namespaces directly nested in ns, in content order.
func (ns *Namespace) Namespaces() []*Namespace {
	var result []*Namespace
	for _, decl := range ns.Content {
		if sub, ok := decl.(*Namespace); ok {
			result = append(result, sub)
		}
	}
	return result
}

// ContentByKind returns the direct declarations of the given kind, in content order.
func (ns *Namespace) ContentByKind(kind Kind) []Declaration {
	var result []Declaration
	for _, decl := range ns.Content {
		if decl.Kind() == kind {
			result = append(result, decl)
		}
	}
	return result
}

// TopLevel returns the outermost namespace reachable from ns: ns itself if it is
// unnamed or has no parent, otherwise the top level of its parent.
func (ns *Namespace) TopLevel() *Namespace {
	if ns.Name == "" || ns.parent == nil {
		return ns
	}
	return ns.parent.TopLevel()
}

// FullNamespaces returns the names of the enclosing namespaces from the root down,
// followed by the name of ns itself. Empty names (the root) are skipped.
func (ns *Namespace) FullNamespaces() []string {
	var ancestors []string
	for p := ns.parent; p != nil; p = p.parent {
		if p.Name != "" {
			ancestors = append(ancestors, p.Name)
		}
	}

	path := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		path = append(path, ancestors[i])
	}
	if ns.Name != "" {
		path = append(path, ns.Name)
	}
	return path
}

// Depth returns the number of named namespaces between the root and ns, inclusive.
func (ns *Namespace) Depth() int {
	return len(ns.FullNamespaces())
}
