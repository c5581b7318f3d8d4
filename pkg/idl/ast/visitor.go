package ast

// Visitor provides an interface for traversing the declaration tree.
// Implement this interface to perform operations on declarations
// (validation, indexing, printing, etc.).
type Visitor interface {
	VisitNamespace(*Namespace) error
	VisitClass(*Class) error
	VisitGlobalFunction(*GlobalFunction) error
	VisitForwardDeclaration(*ForwardDeclaration) error
	VisitEnum(*Enum) error
	VisitVariable(*Variable) error
	VisitTypedef(*TypedefTemplateInstantiation) error
}

// Walk traverses the tree rooted at ns depth-first in content order and calls the
// visitor for each declaration. It returns the first error encountered, or nil if
// traversal completes.
func Walk(ns *Namespace, visitor Visitor) error {
	if err := visitor.VisitNamespace(ns); err != nil {
		return err
	}

	for _, decl := range ns.Content {
		var err error
		switch d := decl.(type) {
		case *Namespace:
			err = Walk(d, visitor)
		case *Class:
			err = visitor.VisitClass(d)
		case *GlobalFunction:
			err = visitor.VisitGlobalFunction(d)
		case *ForwardDeclaration:
			err = visitor.VisitForwardDeclaration(d)
		case *Enum:
			err = visitor.VisitEnum(d)
		case *Variable:
			err = visitor.VisitVariable(d)
		case *TypedefTemplateInstantiation:
			err = visitor.VisitTypedef(d)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// Inspect calls fn for every declaration in the tree rooted at ns, including ns
// itself, in depth-first content order.
func Inspect(ns *Namespace, fn func(Declaration)) {
	fn(ns)
	for _, decl := range ns.Content {
		if sub, ok := decl.(*Namespace); ok {
			Inspect(sub, fn)
			continue
		}
		fn(decl)
	}
}

// CountByKind returns the number of declarations of each kind in the tree rooted
// at ns. The root itself is counted as a namespace.
func CountByKind(ns *Namespace) map[Kind]int {
	counts := make(map[Kind]int)
	Inspect(ns, func(d Declaration) {
		counts[d.Kind()]++
	})
	return counts
}
